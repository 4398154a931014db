package llm

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports malformed or incomplete caller input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConfigurationError reports that the selected provider is unusable because
// of missing or unknown server-side configuration.
type ConfigurationError struct {
	Provider string
	Message  string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// NewConfigurationError creates a ConfigurationError for the given provider.
func NewConfigurationError(provider, format string, args ...any) error {
	return &ConfigurationError{
		Provider: provider,
		Message:  fmt.Sprintf(format, args...),
	}
}

// UpstreamError carries a non-success response from an upstream LLM provider
// or RAG backend. Body is the raw upstream response text.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return "Upstream error"
	}
	return e.Body
}

// TransportError reports a failure to reach an upstream or to read its reply.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusCode maps an error to the HTTP status the API surfaces for it.
// Validation and configuration problems are caller-visible 400s, upstream
// failures keep the upstream status, everything else is a 500.
func StatusCode(err error) int {
	var (
		validationErr *ValidationError
		configErr     *ConfigurationError
		upstreamErr   *UpstreamError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr), errors.As(err, &configErr):
		return http.StatusBadRequest
	case errors.As(err, &upstreamErr):
		if upstreamErr.Status < 400 || upstreamErr.Status > 599 {
			return http.StatusBadGateway
		}
		return upstreamErr.Status
	default:
		return http.StatusInternalServerError
	}
}
