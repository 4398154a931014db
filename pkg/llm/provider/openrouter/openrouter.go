// Package openrouter implements the OpenRouter profile: OpenAI-compatible
// requests plus the two headers OpenRouter uses to attribute traffic to an app.
package openrouter

import "strings"

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultSiteURL = "http://localhost"
	DefaultAppName = "AI Chat Emotion Web"
)

// Config holds the OpenRouter settings.
type Config struct {
	APIKey  string
	BaseURL string
	SiteURL string
	AppName string
}

type provider struct {
	apiKey  string
	baseURL string
	siteURL string
	appName string
}

func New(cfg Config) *provider {
	p := &provider{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		siteURL: strings.TrimSpace(cfg.SiteURL),
		appName: strings.TrimSpace(cfg.AppName),
	}
	if p.baseURL == "" {
		p.baseURL = DefaultBaseURL
	}
	if p.siteURL == "" {
		p.siteURL = DefaultSiteURL
	}
	if p.appName == "" {
		p.appName = DefaultAppName
	}
	return p
}

func (o *provider) Name() string {
	return "openrouter"
}

func (o *provider) BaseURL() string {
	return o.baseURL
}

func (o *provider) Credential() string {
	return o.apiKey
}

func (o *provider) Path() string {
	return "/chat/completions"
}

func (o *provider) Headers(credential string) map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + credential,
		"HTTP-Referer":  o.siteURL,
		"X-Title":       o.appName,
		"Content-Type":  "application/json",
	}
}

func (o *provider) TransformBody(body map[string]any) map[string]any {
	return body
}
