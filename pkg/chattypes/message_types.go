// Package chattypes defines the shared value types for claudechat.
// This file contains the core types for representing conversation turns
// and the provider-neutral completion request assembled by a session.
package chattypes

import "time"

// Role identifies the author of a conversation message.
type Role string

// Supported message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid returns true if the role is one of the supported roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	default:
		return false
	}
}

// Message represents a single turn in the conversation history.
// Sequence is assigned monotonically by the owning session; history order
// equals conversational order.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Sequence  int       `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
}

// CompletionRequest is the provider-neutral request a session assembles for
// each exchange. Provider clients translate it into their SDK's wire format.
// The system prompt is carried here rather than inside Messages so that
// reconfiguring a session reframes every subsequent request without
// rewriting stored history.
type CompletionRequest struct {
	SystemPrompt string    `json:"system_prompt"`
	Messages     []Message `json:"messages"`
	ModelID      string    `json:"model_id"`
	Temperature  float64   `json:"temperature"`
	MaxTokens    int       `json:"max_tokens"`
}
