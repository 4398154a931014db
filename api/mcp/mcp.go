// Package mcp exposes the emotion classifier and the chat dispatcher as MCP
// (Model Context Protocol) tools over streamable HTTP.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/emorelay/pkg/emotion"
	"github.com/papercomputeco/emorelay/pkg/llm"
	"github.com/papercomputeco/emorelay/pkg/utils"
)

// Dispatcher sends a chat request upstream.
type Dispatcher interface {
	Dispatch(ctx context.Context, req *llm.ChatRequest) (*llm.Reply, error)
}

type Config struct {
	// Dispatcher backs the chat tool.
	Dispatcher Dispatcher

	// Classifier backs the classify_emotion tool. Nil uses the default lexicon.
	Classifier *emotion.Classifier

	// Logger is the configured slog logger
	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the classify_emotion and chat tools.
func NewServer(c Config) (*Server, error) {
	if c.Dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if c.Classifier == nil {
		c.Classifier = emotion.NewClassifier(nil)
	}

	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "emorelay",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        classifyToolName,
		Description: classifyDescription,
	}, s.handleClassify)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        chatToolName,
		Description: chatDescription,
	}, s.handleChat)

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// MCPServer returns the underlying MCP server, e.g. for in-process transports.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}

// toolError builds an IsError tool result carrying msg.
func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
	}
}
