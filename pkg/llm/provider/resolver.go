package provider

import (
	"strings"

	"github.com/papercomputeco/emorelay/pkg/llm"
	"github.com/papercomputeco/emorelay/pkg/llm/provider/azure"
	"github.com/papercomputeco/emorelay/pkg/llm/provider/openai"
	"github.com/papercomputeco/emorelay/pkg/llm/provider/openrouter"
)

// Config is the provider section of the process configuration. It is built
// once at startup and handed to NewResolver.
type Config struct {
	OpenAI     openai.Config
	Azure      azure.Config
	OpenRouter openrouter.Config
}

// Resolver turns provider names into profiles. It is safe for concurrent use:
// the configuration is read-only after construction.
type Resolver struct {
	config Config
}

// NewResolver creates a Resolver over the given configuration.
func NewResolver(config Config) *Resolver {
	return &Resolver{config: config}
}

// Resolve returns the profile for name. It fails with *llm.ConfigurationError
// when the name is unknown or the provider is missing required settings.
// A missing credential is not an error here: callers check Credential().
func (r *Resolver) Resolve(name string) (Provider, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	build, ok := registry[name]
	if !ok {
		return nil, llm.NewConfigurationError(name,
			"Unknown provider. Use one of: %s", strings.Join(SupportedProviders(), ", "))
	}

	return build(r.config)
}

// Configured reports whether the named provider resolves and has a credential.
func (r *Resolver) Configured(name string) bool {
	p, err := r.Resolve(name)
	if err != nil {
		return false
	}
	return p.Credential() != ""
}
