package entity

import "time"

// Insight is a single suggestion produced by the advice service
type Insight struct {
	Title      string `json:"title"`
	Suggestion string `json:"suggestion"`
	Category   string `json:"category,omitempty"`
}

// InsightReport is the structured result of an insights request
type InsightReport struct {
	Insights []Insight `json:"insights"`
	Summary  string    `json:"summary"`
}

// ChatRole identifies the author of a chat message
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn of the assistant conversation
type ChatMessage struct {
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
