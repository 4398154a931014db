// Package rag is a thin client for the external retrieval-augmented chat
// backend. The backend owns retrieval, generation and emotion scoring; this
// package only forwards a single message and hands back what it says.
package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/papercomputeco/emorelay/pkg/llm"
)

// DefaultTarget is the backend address used when none is configured.
const DefaultTarget = "http://127.0.0.1:8000"

// Config is the RAG client configuration.
type Config struct {
	// Target is the backend base URL. The client posts to Target + "/chat".
	Target string

	// HTTPClient overrides the outbound client. Defaults to a client with no
	// timeout, matching the chat dispatcher.
	HTTPClient *http.Client

	// Logger is optional; nil discards.
	Logger *slog.Logger
}

// Emotion is the backend's view of the message emotion.
type Emotion struct {
	Label  string             `json:"label"`
	Scores map[string]float64 `json:"scores,omitempty"`
}

// Answer is the typed form of a backend reply.
type Answer struct {
	Emotion Emotion `json:"emotion"`
	Answer  string  `json:"answer"`
}

// Client talks to the RAG backend.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a new Client.
func New(c Config) (*Client, error) {
	target := strings.TrimRight(strings.TrimSpace(c.Target), "/")
	if target == "" {
		target = DefaultTarget
	}

	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("parsing rag target: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid rag target %q", target)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		endpoint:   target + "/chat",
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Endpoint returns the URL messages are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Chat forwards message and returns the backend's JSON reply unchanged.
func (c *Client) Chat(ctx context.Context, message string) (json.RawMessage, error) {
	if message == "" {
		return nil, llm.NewValidationError("Message is required")
	}

	body, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return nil, fmt.Errorf("marshaling rag request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating rag request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("rag request failed", "endpoint", c.endpoint, "error", err)
		return nil, &llm.TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &llm.TransportError{Err: fmt.Errorf("reading rag response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("rag backend returned error",
			"status", resp.StatusCode,
			"duration", time.Since(startTime),
		)
		return nil, &llm.UpstreamError{Status: resp.StatusCode, Body: string(respBody)}
	}

	if !json.Valid(respBody) {
		return nil, &llm.TransportError{Err: errors.New("rag backend returned invalid JSON")}
	}

	c.logger.Debug("received rag response",
		"status", resp.StatusCode,
		"duration", time.Since(startTime),
	)
	return json.RawMessage(respBody), nil
}

// Ask is Chat with the reply decoded into an Answer. Fields the backend
// leaves out stay zero.
func (c *Client) Ask(ctx context.Context, message string) (*Answer, error) {
	raw, err := c.Chat(ctx, message)
	if err != nil {
		return nil, err
	}

	answer := &Answer{}
	if err := json.Unmarshal(raw, answer); err != nil {
		return nil, &llm.TransportError{Err: fmt.Errorf("decoding rag answer: %w", err)}
	}
	return answer, nil
}
