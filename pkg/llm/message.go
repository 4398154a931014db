// Package llm holds the provider-agnostic chat types shared by the resolver,
// the dispatcher, the RAG client and the HTTP server.
package llm

// Role identifies the author of a message in a conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)


// Message represents a single turn in a conversation. The ordered slice of
// messages in a ChatRequest is the history sent upstream.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewTextMessage creates a message with the given role and content.
func NewTextMessage(role Role, text string) Message {
	return Message{Role: role, Content: text}
}
