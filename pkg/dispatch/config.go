package dispatch

import (
	"log/slog"
	"net/http"

	"github.com/papercomputeco/emorelay/pkg/llm/provider"
)

const (
	// DefaultModel is sent when neither the request nor the config names a model.
	DefaultModel = "gpt-3.5-turbo"

	// DefaultProvider is used when a request does not name a provider.
	DefaultProvider = provider.OpenAI
)

// Config is the dispatcher configuration.
type Config struct {
	// Resolver turns provider names into profiles. Required.
	Resolver *provider.Resolver

	// DefaultProvider is used when a request omits the provider.
	DefaultProvider string

	// DefaultModel is used when a request omits the model.
	DefaultModel string

	// ProxyURL is an optional HTTP(S) forward proxy for outbound calls.
	ProxyURL string

	// HTTPClient overrides the outbound client. When set, ProxyURL is ignored.
	HTTPClient *http.Client

	// Logger is the configured slog logger. Required.
	Logger *slog.Logger
}
