package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
)

type ESConfig struct {
	URL      string
	User     string
	Password string
	Index    string

	// Transport is only set by tests.
	Transport http.RoundTripper
}

// SentimentDocument is one analysed customer-service message. The message
// itself is never stored, only its length in runes.
type SentimentDocument struct {
	ID         string    `json:"-"`
	TextLength int       `json:"text_length"`
	Sentiment  string    `json:"sentiment"`
	Model      string    `json:"model"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}

type ESIndexer struct {
	client *elasticsearch.Client
	index  string
}

func NewESIndexer(cfg ESConfig) (*ESIndexer, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("elasticsearch: empty url")
	}
	if cfg.Index == "" {
		return nil, fmt.Errorf("elasticsearch: empty index")
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: create client: %w", err)
	}

	return &ESIndexer{client: client, index: cfg.Index}, nil
}

func (x *ESIndexer) Ping(ctx context.Context) error {
	res, err := x.client.Info(x.client.Info.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch: info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch: info: %s", res.Status())
	}
	return nil
}

func (x *ESIndexer) IndexSentiment(ctx context.Context, doc SentimentDocument) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.AnalyzedAt.IsZero() {
		doc.AnalyzedAt = time.Now().UTC()
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("elasticsearch: marshal: %w", err)
	}

	res, err := x.client.Index(
		x.index,
		bytes.NewReader(body),
		x.client.Index.WithContext(ctx),
		x.client.Index.WithDocumentID(doc.ID),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch: index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return fmt.Errorf("elasticsearch: index: %s: %s", res.Status(), strings.TrimSpace(string(msg)))
	}
	return nil
}

// Noop discards documents. It is used when ES_URL is not configured.
type Noop struct{}

func (Noop) IndexSentiment(context.Context, SentimentDocument) error { return nil }
