// Package azure implements the Azure OpenAI profile. Azure addresses a
// deployment rather than a model, authenticates with an api-key header and
// pins the API version in the query string.
package azure

import (
	"maps"
	"strings"

	"github.com/papercomputeco/emorelay/pkg/llm"
)

// DefaultAPIVersion is the pinned Azure OpenAI API version.
const DefaultAPIVersion = "2024-02-15-preview"

// Config holds the Azure OpenAI settings. Endpoint and Deployment are required.
type Config struct {
	APIKey     string
	Endpoint   string
	Deployment string
	APIVersion string
}

type provider struct {
	apiKey     string
	baseURL    string
	apiVersion string
}

// New builds the Azure profile. It fails with *llm.ConfigurationError when the
// endpoint or deployment is not configured.
func New(cfg Config) (*provider, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	deployment := strings.TrimSpace(cfg.Deployment)

	var missing []string
	if endpoint == "" {
		missing = append(missing, "AZURE_OPENAI_ENDPOINT")
	}
	if deployment == "" {
		missing = append(missing, "AZURE_OPENAI_DEPLOYMENT")
	}
	if len(missing) > 0 {
		return nil, llm.NewConfigurationError("azure", "Missing %s", strings.Join(missing, " or "))
	}

	apiVersion := strings.TrimSpace(cfg.APIVersion)
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}

	return &provider{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		baseURL:    endpoint + "/openai/deployments/" + deployment,
		apiVersion: apiVersion,
	}, nil
}

func (a *provider) Name() string {
	return "azure"
}

func (a *provider) BaseURL() string {
	return a.baseURL
}

func (a *provider) Credential() string {
	return a.apiKey
}

func (a *provider) Path() string {
	return "/chat/completions?api-version=" + a.apiVersion
}

func (a *provider) Headers(credential string) map[string]string {
	return map[string]string{
		"api-key":      credential,
		"Content-Type": "application/json",
	}
}

// TransformBody drops "model": the deployment in the URL selects the model.
func (a *provider) TransformBody(body map[string]any) map[string]any {
	out := maps.Clone(body)
	if out == nil {
		out = map[string]any{}
	}
	delete(out, "model")
	return out
}
