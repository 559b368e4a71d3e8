package models

import "time"

// AgentID identifies one of the AI tutoring agents.
type AgentID string

const (
	AgentCoachBot   AgentID = "coachbot"
	AgentStudyBuddy AgentID = "studybuddy"
	AgentProctorBot AgentID = "proctorbot"
)

// Agent describes a tutoring agent for the UI shell.
type Agent struct {
	ID               AgentID  `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Avatar           string   `json:"avatar"`
	SuggestedPrompts []string `json:"suggestedPrompts"`
}

// Citation points a chat reply back at a lesson.
type Citation struct {
	LessonID string `json:"lessonId"`
	Title    string `json:"title"`
}

// ChatMessage is one transcript entry, user or assistant.
type ChatMessage struct {
	ID        string     `json:"id"`
	Role      string     `json:"role"` // "user" or "assistant"
	Content   string     `json:"content"`
	Timestamp time.Time  `json:"timestamp"`
	Citations []Citation `json:"citations,omitempty"`
	Steps     []string   `json:"steps,omitempty"`
}

// ChatReply is the backend response to a chat call.
type ChatReply struct {
	Role      string     `json:"role"`
	Message   string     `json:"message"`
	Citations []Citation `json:"citations,omitempty"`
	Steps     []string   `json:"steps,omitempty"`
}
