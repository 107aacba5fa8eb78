package service

import (
	"context"
	"errors"

	"github.com/zenirmoveis/assistant/internal/analytics"
	"github.com/zenirmoveis/assistant/internal/llm"
	"github.com/zenirmoveis/assistant/internal/repo"
)

var (
	ErrValidation = errors.New("validation")
	ErrIntegrity  = errors.New("integrity")
	ErrStorage    = errors.New("storage")
)

// StoreError keeps the driver message as its text while matching
// ErrIntegrity or ErrStorage through errors.Is.
type StoreError struct {
	Kind error
	Err  error
}

func (e *StoreError) Error() string { return e.Err.Error() }

func (e *StoreError) Unwrap() []error { return []error{e.Kind, e.Err} }

// Prompter is the part of the LLM client the services depend on.
type Prompter interface {
	Complete(ctx context.Context, prompt string) (*llm.Completion, error)
}

type Publisher interface {
	PublishEvent(ctx context.Context, key string, event any) error
}

type SentimentIndexer interface {
	IndexSentiment(ctx context.Context, doc analytics.SentimentDocument) error
}

type RecoveryStore interface {
	SaveCartRecovery(ctx context.Context, in repo.CartRecoveryInput) (*repo.CartRecoveryRecord, error)
}
