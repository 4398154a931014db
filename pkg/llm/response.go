package llm

import "encoding/json"

// Reply is the normalized answer returned for every provider.
type Reply struct {
	// Content is the first choice's message text. It is always defined and is
	// empty when the provider payload did not carry one.
	Content string `json:"content"`

	// Raw is the full upstream payload, untouched.
	Raw json.RawMessage `json:"raw"`
}

// ErrorResponse is the JSON body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
}
