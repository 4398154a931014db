package llm

import "strings"

// DefaultTemperature is used when a request does not carry a temperature.
const DefaultTemperature = 0.7

// ChatRequest represents a provider-agnostic chat completion request as it
// arrives at the relay.
type ChatRequest struct {
	// Conversation messages, oldest first. Must not be empty.
	Messages []Message `json:"messages"`

	// Model name. Empty means the configured default model.
	Model string `json:"model,omitempty"`

	// Provider name (e.g., "openai", "azure", "openrouter"). Empty means the
	// configured default provider.
	Provider string `json:"provider,omitempty"`

	// Sampling temperature. Nil means DefaultTemperature.
	Temperature *float64 `json:"temperature,omitempty"`

	// Optional completion length cap, forwarded only when set.
	MaxTokens *int `json:"max_tokens,omitempty"`
}

// ProviderName returns the normalized provider name, falling back to def.
func (r *ChatRequest) ProviderName(def string) string {
	name := strings.ToLower(strings.TrimSpace(r.Provider))
	if name == "" {
		return def
	}
	return name
}

// TemperatureOrDefault returns the request temperature or DefaultTemperature.
func (r *ChatRequest) TemperatureOrDefault() float64 {
	if r.Temperature == nil {
		return DefaultTemperature
	}
	return *r.Temperature
}
