package dispatch

import (
	"encoding/json"
	"strings"
)

// completion is the subset of a chat completions payload the relay reads.
// Content stays untyped: providers send either a string or an array of parts.
type completion struct {
	Choices []struct {
		Message struct {
			Content any `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ExtractContent returns choices[0].message.content from a chat completions
// payload. Any missing or malformed step yields "".
func ExtractContent(payload []byte) string {
	var resp completion
	if err := json.Unmarshal(payload, &resp); err != nil {
		return ""
	}
	if len(resp.Choices) == 0 {
		return ""
	}

	switch c := resp.Choices[0].Message.Content.(type) {
	case string:
		return c
	case []any:
		// Multi-part content: join the text parts
		var sb strings.Builder
		for _, item := range c {
			part, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if text, ok := part["text"].(string); ok {
				sb.WriteString(text)
			}
		}
		return sb.String()
	default:
		return ""
	}
}
