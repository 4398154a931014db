// Package provider resolves a provider name into the profile the dispatcher
// needs to reach an OpenAI-compatible chat completions endpoint: base URL,
// credential, headers, request path and body transform.
package provider

// Provider is a resolved provider profile. Each provider package knows how
// its upstream expects requests to be addressed and shaped. Implementations
// never perform I/O.
type Provider interface {
	// Name returns the canonical provider name (e.g., "openai", "azure", "openrouter")
	Name() string

	// BaseURL returns the upstream base URL without a trailing slash.
	BaseURL() string

	// Credential returns the configured API key, or "" when none is configured.
	Credential() string

	// Path returns the request path appended to BaseURL, including any
	// query string the provider requires.
	Path() string

	// Headers returns the outbound HTTP headers for the given credential.
	Headers(credential string) map[string]string

	// TransformBody adapts the generic request body to the provider.
	// Implementations must not mutate body and must be idempotent.
	TransformBody(body map[string]any) map[string]any
}

// URL returns the full outbound URL for p.
func URL(p Provider) string {
	return p.BaseURL() + p.Path()
}
