// Package openai
package openai

import "strings"

const (
	// DefaultBaseURL is the public OpenAI API base.
	DefaultBaseURL = "https://api.openai.com/v1"

	chatCompletionsPath = "/chat/completions"
)

// Config holds the OpenAI settings.
type Config struct {
	APIKey  string
	BaseURL string
}

// provider implements the Provider interface for OpenAI's Chat Completions API.
type provider struct {
	apiKey  string
	baseURL string
}

func New(cfg Config) *provider {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &provider{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		baseURL: baseURL,
	}
}

func (o *provider) Name() string {
	return "openai"
}

func (o *provider) BaseURL() string {
	return o.baseURL
}

func (o *provider) Credential() string {
	return o.apiKey
}

func (o *provider) Path() string {
	return chatCompletionsPath
}

func (o *provider) Headers(credential string) map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + credential,
		"Content-Type":  "application/json",
	}
}

// TransformBody is the identity: OpenAI accepts the generic body as is.
func (o *provider) TransformBody(body map[string]any) map[string]any {
	return body
}
