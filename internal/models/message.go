package models

// MessageRole identifies who produced a chat message
type MessageRole string

const (
	MessageRoleUser   MessageRole = "user"
	MessageRoleSystem MessageRole = "system"
)

// Message is a single entry in the search conversation transcript.
type Message struct {
	Text string      `json:"text"`
	Role MessageRole `json:"role"`
}
