package llm

import (
	"errors"
	"fmt"
	"time"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultTimeout = 60 * time.Second
)

var (
	ErrMissingAPIKey = errors.New("llm: api key is not configured")
	ErrMissingModel  = errors.New("llm: model is not configured")
	ErrUpstream      = errors.New("llm: upstream call failed")
)

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Completion is the cleaned answer of one chat-completions call.
type Completion struct {
	Text         string
	Model        string
	FinishReason string
}

// APIError is returned when the provider answers with a non-2xx status or
// an error object in the body.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("status %d: %s: %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return ErrUpstream }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type apiErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code,omitempty"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *apiErrorBody `json:"error,omitempty"`
}
