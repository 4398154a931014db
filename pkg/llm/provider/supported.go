package provider

import (
	"strings"

	"github.com/papercomputeco/emorelay/pkg/llm/provider/azure"
	"github.com/papercomputeco/emorelay/pkg/llm/provider/openai"
	"github.com/papercomputeco/emorelay/pkg/llm/provider/openrouter"
)

// Supported provider type constants
const (
	OpenAI     = "openai"
	Azure      = "azure"
	OpenRouter = "openrouter"
)

// constructor builds a Provider from the process configuration.
type constructor func(cfg Config) (Provider, error)

// registry maps every supported provider name to its constructor. Adding a
// provider means adding its package and one entry here.
var registry = map[string]constructor{
	OpenAI: func(cfg Config) (Provider, error) {
		return openai.New(cfg.OpenAI), nil
	},
	Azure: func(cfg Config) (Provider, error) {
		return azure.New(cfg.Azure)
	},
	OpenRouter: func(cfg Config) (Provider, error) {
		return openrouter.New(cfg.OpenRouter), nil
	},
}

// SupportedProviders returns the list of all supported provider type names.
func SupportedProviders() []string {
	return []string{OpenAI, Azure, OpenRouter}
}

// IsSupported reports whether name is a registered provider. Names are
// matched case-insensitively.
func IsSupported(name string) bool {
	_, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	return ok
}
