// Package api provides the emorelay HTTP server: chat relay, RAG relay,
// emotion tagging and MCP tools.
package api

import (
	"context"
	"encoding/json"

	"github.com/papercomputeco/emorelay/pkg/emotion"
	"github.com/papercomputeco/emorelay/pkg/llm"
)

// BodyLimit caps request bodies at 1 MiB.
const BodyLimit = 1 << 20

// Dispatcher relays chat requests to an LLM provider.
type Dispatcher interface {
	Dispatch(ctx context.Context, req *llm.ChatRequest) (*llm.Reply, error)
	DefaultProvider() string
}

// RAGClient forwards a single message to the retrieval backend.
type RAGClient interface {
	Chat(ctx context.Context, message string) (json.RawMessage, error)
}

// ProviderStatus reports whether a provider has the settings it needs.
type ProviderStatus interface {
	Configured(name string) bool
}

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":3000")
	ListenAddr string

	// StaticDir, when set, is served at / for the web client.
	StaticDir string

	// MCP mounts the MCP tools at /mcp.
	MCP bool

	Dispatcher Dispatcher
	RAG        RAGClient
	Providers  ProviderStatus

	// Classifier backs /api/emotion. Nil uses the default lexicon.
	Classifier *emotion.Classifier
}
