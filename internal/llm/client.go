package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/zenirmoveis/assistant/pkg/logging"
)

const maxErrorBody = 4 << 10

var reasoningSpan = regexp.MustCompile(`(?s)<think>.*?</think>`)

// Client sends single-message prompts to an OpenAI-compatible
// chat-completions endpoint. It is safe for concurrent use.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, ErrMissingModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

func (c *Client) Model() string { return c.model }

func (c *Client) Complete(ctx context.Context, prompt string) (*Completion, error) {
	l := logging.FromContext(ctx).With("component", "llm", "model", c.model)
	l.Info("llm_request", "prompt_len", len(prompt))
	l.Debug("llm_prompt", "prompt", prompt)

	start := time.Now()
	out, err := c.complete(ctx, prompt)
	if err != nil {
		l.Error("llm_request_failed", "duration_ms", time.Since(start).Milliseconds(), "prompt_len", len(prompt), "error", err)
		return nil, err
	}

	l.Info("llm_request_success", "duration_ms", time.Since(start).Milliseconds(), "finish_reason", out.FinishReason, "response_len", len(out.Text))
	return out, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (*Completion, error) {
	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", ErrUpstream, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: do request: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	if parsed.Error != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Type: parsed.Error.Type, Message: parsed.Error.Message}
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("%w: response has no choices", ErrUpstream)
	}

	choice := parsed.Choices[0]
	model := parsed.Model
	if model == "" {
		model = c.model
	}
	return &Completion{
		Text:         StripReasoning(choice.Message.Content),
		Model:        model,
		FinishReason: choice.FinishReason,
	}, nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Error != nil {
		return &APIError{StatusCode: resp.StatusCode, Type: parsed.Error.Type, Message: parsed.Error.Message}
	}

	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

// StripReasoning removes every <think>...</think> span, markers included,
// and trims the surrounding whitespace.
func StripReasoning(text string) string {
	return strings.TrimSpace(reasoningSpan.ReplaceAllString(text, ""))
}

// Describe renders an upstream failure the way it is reported to API callers.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return "error calling the LLM API: " + apiErr.Error()
	}
	msg := strings.TrimPrefix(err.Error(), ErrUpstream.Error()+": ")
	return "error calling the LLM API: " + msg
}
