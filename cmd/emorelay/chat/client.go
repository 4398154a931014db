package chatcmder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/papercomputeco/emorelay/pkg/cliui"
	"github.com/papercomputeco/emorelay/pkg/llm"
	"github.com/papercomputeco/emorelay/pkg/rag"
)

// sender is what the TUI needs from the relay server.
type sender interface {
	Chat(ctx context.Context, history []llm.Message) (string, error)
	EmotionChat(ctx context.Context, message string) (string, error)
}

// relayClient talks to a running emorelay server.
type relayClient struct {
	target     string
	provider   string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

func newRelayClient(target, provider, model string, logger *slog.Logger) *relayClient {
	return &relayClient{
		target:   strings.TrimRight(strings.TrimSpace(target), "/"),
		provider: provider,
		model:    model,
		// LLM responses can be slow; the server applies no timeout either.
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Chat sends the whole history to /api/chat and returns the reply content.
func (c *relayClient) Chat(ctx context.Context, history []llm.Message) (string, error) {
	req := llm.ChatRequest{
		Messages: history,
		Provider: c.provider,
		Model:    c.model,
	}

	c.logger.Debug("sending chat request",
		"target", c.target,
		"provider", c.provider,
		"model", c.model,
		"message_count", len(history),
	)

	reply := &llm.Reply{}
	if err := c.post(ctx, "/api/chat", req, reply); err != nil {
		return "", err
	}
	return reply.Content, nil
}

// EmotionChat sends a single message to /api/emotion-chat and returns the
// answer prefixed with the detected emotion.
func (c *relayClient) EmotionChat(ctx context.Context, message string) (string, error) {
	c.logger.Debug("sending emotion chat request", "target", c.target)

	answer := &rag.Answer{}
	if err := c.post(ctx, "/api/emotion-chat", map[string]string{"message": message}, answer); err != nil {
		return "", err
	}
	return cliui.EmotionPrefix(answer.Emotion.Label) + answer.Answer, nil
}

func (c *relayClient) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.target+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("sending request to %s: %w", c.target, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errResp := &llm.ErrorResponse{}
		if json.Unmarshal(respBody, errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("server returned status %d: %s", resp.StatusCode, errResp.Error)
		}
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
