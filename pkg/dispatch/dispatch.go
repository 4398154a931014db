// Package dispatch relays a normalized chat request to one of the supported
// LLM providers and normalizes the provider's reply.
//
// Each Dispatch call is a single synchronous round trip: no retries, no
// caching, no streaming. The outbound client has no timeout, so a hung
// upstream holds the request until the caller's context is cancelled.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/emorelay/pkg/llm"
	"github.com/papercomputeco/emorelay/pkg/llm/provider"
	"github.com/papercomputeco/emorelay/pkg/utils"
)

// maxLoggedBody caps how much of an upstream error body is logged.
const maxLoggedBody = 200

// Dispatcher sends chat requests upstream. It holds only read-only state and
// is safe for concurrent use.
type Dispatcher struct {
	resolver        *provider.Resolver
	httpClient      *http.Client
	defaultProvider string
	defaultModel    string
	logger          *slog.Logger
}

// New creates a new Dispatcher.
func New(c Config) (*Dispatcher, error) {
	if c.Resolver == nil {
		return nil, errors.New("resolver is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		var err error
		httpClient, err = newHTTPClient(c.ProxyURL)
		if err != nil {
			return nil, err
		}
	}

	d := &Dispatcher{
		resolver:        c.Resolver,
		httpClient:      httpClient,
		defaultProvider: strings.ToLower(strings.TrimSpace(c.DefaultProvider)),
		defaultModel:    strings.TrimSpace(c.DefaultModel),
		logger:          c.Logger,
	}
	if d.defaultProvider == "" {
		d.defaultProvider = DefaultProvider
	}
	if d.defaultModel == "" {
		d.defaultModel = DefaultModel
	}

	return d, nil
}

// newHTTPClient builds the outbound client. Only an explicitly configured
// proxy is used; ambient proxy environment variables are resolved by the
// config layer, not here.
func newHTTPClient(proxyURL string) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil

	if proxyURL = strings.TrimSpace(proxyURL); proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("parsing proxy url: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid proxy url %q", proxyURL)
		}
		transport.Proxy = http.ProxyURL(u)
	}

	return &http.Client{Transport: transport}, nil
}

// DefaultProvider returns the provider used when a request names none.
func (d *Dispatcher) DefaultProvider() string {
	return d.defaultProvider
}

// Dispatch validates req, resolves its provider, performs one outbound call
// and returns the normalized reply.
//
// Errors are *llm.ValidationError (empty history), *llm.ConfigurationError
// (unknown or unconfigured provider), *llm.UpstreamError (non-2xx reply) or
// *llm.TransportError (network or decode failure).
func (d *Dispatcher) Dispatch(ctx context.Context, req *llm.ChatRequest) (*llm.Reply, error) {
	if req == nil || len(req.Messages) == 0 {
		return nil, llm.NewValidationError("messages array is required")
	}

	name := req.ProviderName(d.defaultProvider)
	prov, err := d.resolver.Resolve(name)
	if err != nil {
		return nil, err
	}

	credential := prov.Credential()
	if credential == "" {
		return nil, llm.NewConfigurationError(name, "Missing API key for provider: %s", name)
	}

	body, err := json.Marshal(prov.TransformBody(d.buildBody(req)))
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	requestID := uuid.NewString()
	logger := d.logger.With("request_id", requestID, "provider", prov.Name())
	startTime := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, provider.URL(prov), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating upstream request: %w", err)
	}
	for k, v := range prov.Headers(credential) {
		httpReq.Header.Set(k, v)
	}

	logger.Debug("forwarding chat request to upstream",
		"model", d.modelFor(req),
		"message_count", len(req.Messages),
	)

	httpResp, err := d.httpClient.Do(httpReq)
	if err != nil {
		logger.Error("upstream request failed", "error", err)
		return nil, &llm.TransportError{Err: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		logger.Error("failed to read upstream response", "error", err)
		return nil, &llm.TransportError{Err: fmt.Errorf("reading upstream response: %w", err)}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		logger.Warn("upstream returned error",
			"status", httpResp.StatusCode,
			"body", utils.Truncate(string(respBody), maxLoggedBody),
			"duration", time.Since(startTime),
		)
		return nil, &llm.UpstreamError{Status: httpResp.StatusCode, Body: string(respBody)}
	}

	if !json.Valid(respBody) {
		return nil, &llm.TransportError{Err: errors.New("upstream returned invalid JSON")}
	}

	content := ExtractContent(respBody)
	logger.Debug("received response from upstream",
		"status", httpResp.StatusCode,
		"content_length", len(content),
		"duration", time.Since(startTime),
	)

	return &llm.Reply{
		Content: content,
		Raw:     json.RawMessage(respBody),
	}, nil
}

func (d *Dispatcher) modelFor(req *llm.ChatRequest) string {
	if model := strings.TrimSpace(req.Model); model != "" {
		return model
	}
	return d.defaultModel
}

// buildBody assembles the generic chat completions body before the provider
// transform runs.
func (d *Dispatcher) buildBody(req *llm.ChatRequest) map[string]any {
	body := map[string]any{
		"model":       d.modelFor(req),
		"messages":    req.Messages,
		"temperature": req.TemperatureOrDefault(),
	}
	if req.MaxTokens != nil {
		body["max_tokens"] = *req.MaxTokens
	}
	return body
}
