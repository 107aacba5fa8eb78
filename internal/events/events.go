package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeSentimentAnalyzed     = "sentiment_analyzed"
	TypeCartRecoveryGenerated = "cart_recovery_generated"
)

type SentimentAnalyzed struct {
	Type       string    `json:"type"`
	EventID    string    `json:"event_id"`
	Sentiment  string    `json:"sentiment"`
	Model      string    `json:"model"`
	TextLength int       `json:"text_length"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewSentimentAnalyzed(sentiment, model string, textLength int) SentimentAnalyzed {
	return SentimentAnalyzed{
		Type:       TypeSentimentAnalyzed,
		EventID:    uuid.NewString(),
		Sentiment:  sentiment,
		Model:      model,
		TextLength: textLength,
		OccurredAt: time.Now().UTC(),
	}
}

type CartRecoveryGenerated struct {
	Type          string    `json:"type"`
	EventID       string    `json:"event_id"`
	ClientID      string    `json:"client_id"`
	ProductID     uint      `json:"product_id"`
	ClientCreated bool      `json:"client_created"`
	Model         string    `json:"model"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewCartRecoveryGenerated(clientID string, productID uint, clientCreated bool, model string) CartRecoveryGenerated {
	return CartRecoveryGenerated{
		Type:          TypeCartRecoveryGenerated,
		EventID:       uuid.NewString(),
		ClientID:      clientID,
		ProductID:     productID,
		ClientCreated: clientCreated,
		Model:         model,
		OccurredAt:    time.Now().UTC(),
	}
}
