package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/emorelay/pkg/llm"
)

var (
	chatToolName    = "chat"
	chatDescription = "Send a single user message to the configured LLM provider (openai, azure or openrouter) and return the assistant reply text."
)

// ChatInput represents the input arguments for the chat tool.
type ChatInput struct {
	Message     string   `json:"message" jsonschema:"the user message to send"`
	Provider    string   `json:"provider,omitempty" jsonschema:"provider name: openai, azure or openrouter (default: server default)"`
	Model       string   `json:"model,omitempty" jsonschema:"model name (default: server default)"`
	Temperature *float64 `json:"temperature,omitempty" jsonschema:"sampling temperature (default: 0.7)"`
}

// ChatOutput represents the output of the chat tool.
type ChatOutput struct {
	Content string `json:"content"`
}

func (s *Server) handleChat(ctx context.Context, _ *mcp.CallToolRequest, input ChatInput) (*mcp.CallToolResult, ChatOutput, error) {
	logger := s.config.Logger

	req := &llm.ChatRequest{
		Model:       input.Model,
		Provider:    input.Provider,
		Temperature: input.Temperature,
	}
	if input.Message != "" {
		req.Messages = []llm.Message{llm.NewTextMessage(llm.RoleUser, input.Message)}
	}

	logger.Debug("MCP chat request",
		"provider", input.Provider,
		"model", input.Model,
	)

	reply, err := s.config.Dispatcher.Dispatch(ctx, req)
	if err != nil {
		logger.Warn("MCP chat failed", "error", err, "status", llm.StatusCode(err))
		return toolError(err.Error()), ChatOutput{}, nil
	}

	return nil, ChatOutput{Content: reply.Content}, nil
}
