package models

import "time"

// QuestionBank is a named collection of exam questions, as listed by the
// backend. TimeLimit is in minutes, PassingScore is a percentage.
type QuestionBank struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	QuestionCount int    `json:"questionCount"`
	TimeLimit     int    `json:"timeLimit"`
	PassingScore  int    `json:"passingScore"`
}

// ExamQuestion is one question inside an active exam session. SelectedAnswer
// and Flagged are local-only state; the backend never sends them.
type ExamQuestion struct {
	ID             string   `json:"id"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	SelectedAnswer string   `json:"selectedAnswer,omitempty"`
	Flagged        bool     `json:"flagged"`
}

// ExamSession holds the local state of one timed exam attempt. The session id
// is issued by the backend on start; everything else is client-owned until
// the finish call replaces the session with an ExamResult.
type ExamSession struct {
	SessionID    string         `json:"sessionId"`
	Questions    []ExamQuestion `json:"questions"`
	TimeLimit    int            `json:"timeLimit"` // minutes
	StartTime    time.Time      `json:"startTime"`
	CurrentIndex int            `json:"currentIndex"`
}

// TopicBreakdown is the per-topic slice of an exam result.
type TopicBreakdown struct {
	Topic      string  `json:"topic"`
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// IncorrectQuestion explains one wrong answer in an exam result.
type IncorrectQuestion struct {
	Question      string `json:"question"`
	YourAnswer    string `json:"yourAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	Explanation   string `json:"explanation"`
}

// ExamResult is the server-graded terminal state of an exam session.
// Immutable once received.
type ExamResult struct {
	Score              float64             `json:"score"`
	Passed             bool                `json:"passed"`
	TotalQuestions     int                 `json:"totalQuestions"`
	CorrectAnswers     int                 `json:"correctAnswers"`
	TopicBreakdown     []TopicBreakdown    `json:"topicBreakdown"`
	IncorrectQuestions []IncorrectQuestion `json:"incorrectQuestions,omitempty"`
}
