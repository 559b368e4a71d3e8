package models

import (
	"encoding/json"
	"time"
)

// ActionKind identifies which backend mutation a queued action replays.
type ActionKind string

const (
	ActionFlashcardReview ActionKind = "flashcard_review"
	ActionExamAnswer      ActionKind = "exam_answer"
	ActionLessonProgress  ActionKind = "lesson_progress"
	ActionAgentChat       ActionKind = "agent_chat"
)

// QueuedAction is one pending mutation in the offline outbox. Body is the
// kind-specific payload, kept opaque at this level so the queue can persist
// entries without knowing every payload shape.
type QueuedAction struct {
	ID       string          `json:"id"`
	Kind     ActionKind      `json:"kind"`
	Endpoint string          `json:"endpoint"`
	Method   string          `json:"method"`
	Body     json.RawMessage `json:"body"`
	QueuedAt time.Time       `json:"queuedAt"`
	Retries  int             `json:"retries"`
}

// FlashcardReviewPayload is the body of an ActionFlashcardReview entry.
type FlashcardReviewPayload struct {
	CardID string   `json:"cardId"`
	Grade  SRSGrade `json:"grade"`
}

// ExamAnswerPayload is the body of an ActionExamAnswer entry.
type ExamAnswerPayload struct {
	SessionID  string `json:"sessionId"`
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

// LessonProgressPayload is the body of an ActionLessonProgress entry.
type LessonProgressPayload struct {
	LessonID   string  `json:"lessonId"`
	Progress   float64 `json:"progress"`
	Completed  bool    `json:"completed"`
	Checkpoint string  `json:"checkpoint,omitempty"`
}

// AgentChatPayload is the body of an ActionAgentChat entry.
type AgentChatPayload struct {
	AgentID string `json:"agentId"`
	Message string `json:"message"`
	ViewID  string `json:"viewId"`
}
