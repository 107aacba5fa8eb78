package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/zenirmoveis/assistant/internal/events"
	"github.com/zenirmoveis/assistant/internal/repo"
	"github.com/zenirmoveis/assistant/pkg/logging"
)

type RecoveryInput struct {
	ClientID           string
	ClientName         string
	Email              string
	ProductDescription string
}

type RecoveryResult struct {
	CopyText      string
	ClientID      string
	ProductID     uint
	ClientCreated bool
}

type RecoveryService struct {
	Store  RecoveryStore
	LLM    Prompter
	Events Publisher
	Offer  CopyOffer
}

// Recover persists the abandoned cart and asks the LLM for recovery copy.
// When the LLM call fails the rows are already committed, so the returned
// result still carries their ids alongside the error.
func (s *RecoveryService) Recover(ctx context.Context, in RecoveryInput) (*RecoveryResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	rec, err := s.Store.SaveCartRecovery(ctx, repo.CartRecoveryInput{
		ClientID:           in.ClientID,
		ClientName:         in.ClientName,
		Email:              in.Email,
		ProductDescription: in.ProductDescription,
	})
	if err != nil {
		if repo.IsIntegrityViolation(err) {
			return nil, &StoreError{Kind: ErrIntegrity, Err: err}
		}
		return nil, &StoreError{Kind: ErrStorage, Err: err}
	}

	res := &RecoveryResult{
		ClientID:      rec.Client.ID,
		ProductID:     rec.Product.ID,
		ClientCreated: rec.ClientCreated,
	}

	completion, err := s.LLM.Complete(ctx, CartRecoveryPrompt(in.ClientName, in.ProductDescription, s.Offer))
	if err != nil {
		return res, err
	}
	res.CopyText = completion.Text

	if s.Events != nil {
		ev := events.NewCartRecoveryGenerated(res.ClientID, res.ProductID, res.ClientCreated, completion.Model)
		if err := s.Events.PublishEvent(ctx, res.ClientID, ev); err != nil {
			logging.FromContext(ctx).Warn("publish_event_failed", "type", ev.Type, "client_id", res.ClientID, "error", err)
		}
	}

	return res, nil
}

func (in RecoveryInput) validate() error {
	for name, v := range map[string]string{
		"client id":           in.ClientID,
		"client name":         in.ClientName,
		"email":               in.Email,
		"product description": in.ProductDescription,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s must not be blank: %w", name, ErrValidation)
		}
	}
	return nil
}
