package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/zenirmoveis/assistant/internal/analytics"
	"github.com/zenirmoveis/assistant/internal/events"
	"github.com/zenirmoveis/assistant/pkg/logging"
)

type SentimentResult struct {
	Sentiment string
	Model     string
}

type SentimentService struct {
	LLM    Prompter
	Events Publisher
	Index  SentimentIndexer
}

func (s *SentimentService) Analyze(ctx context.Context, text string) (*SentimentResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text must not be blank: %w", ErrValidation)
	}

	completion, err := s.LLM.Complete(ctx, SentimentPrompt(text))
	if err != nil {
		return nil, err
	}

	res := &SentimentResult{Sentiment: completion.Text, Model: completion.Model}
	s.record(ctx, text, res)
	return res, nil
}

func (s *SentimentService) record(ctx context.Context, text string, res *SentimentResult) {
	l := logging.FromContext(ctx).With("component", "sentiment")

	if s.Events != nil {
		ev := events.NewSentimentAnalyzed(res.Sentiment, res.Model, utf8.RuneCountInString(text))
		if err := s.Events.PublishEvent(ctx, ev.EventID, ev); err != nil {
			l.Warn("publish_event_failed", "type", ev.Type, "error", err)
		}
	}

	if s.Index != nil {
		doc := analytics.SentimentDocument{
			ID:         uuid.NewString(),
			TextLength: utf8.RuneCountInString(text),
			Sentiment:  res.Sentiment,
			Model:      res.Model,
		}
		if err := s.Index.IndexSentiment(ctx, doc); err != nil {
			l.Warn("index_sentiment_failed", "doc_id", doc.ID, "error", err)
		}
	}
}
