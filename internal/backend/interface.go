package backend

import (
	"context"

	"github.com/mfreitas/studypilot/internal/models"
)

// StartExamResponse is the backend reply to an exam start.
type StartExamResponse struct {
	SessionID string                `json:"sessionId"`
	Questions []models.ExamQuestion `json:"questions"`
	TimeLimit int                   `json:"timeLimit"` // minutes
}

// Gateway is the single point of outbound calls to the learning-platform
// backend. Every other component goes through it, which keeps token
// attachment and error classification in one place and enables mock
// implementations in tests.
type Gateway interface {
	// Reads. Failures surface directly to the caller; never queued.
	QuestionBanks(ctx context.Context) ([]models.QuestionBank, error)
	Flashcards(ctx context.Context) (*models.CardList, error)
	RecentLessons(ctx context.Context) ([]models.Lesson, error)
	LessonBySlug(ctx context.Context, slug string) (*models.Lesson, error)
	UserMetrics(ctx context.Context) (*models.UserMetrics, error)
	CourseProgress(ctx context.Context) (*models.CourseProgress, error)

	// Exam session.
	StartExam(ctx context.Context, bankID string) (*StartExamResponse, error)
	SubmitAnswer(ctx context.Context, sessionID, questionID, answer string) error
	FinishExam(ctx context.Context, sessionID string) (*models.ExamResult, error)

	// Mutations replayable through the offline queue.
	SubmitFlashcardReview(ctx context.Context, cardID string, grade models.SRSGrade) error
	SaveLessonProgress(ctx context.Context, lessonID string, progress float64, completed bool) error
	SaveCheckpointProgress(ctx context.Context, lessonID, checkpoint string, completed bool) error
	ChatWithAgent(ctx context.Context, agentID models.AgentID, message, viewID string) (*models.ChatReply, error)
}

// Ensure Client implements the interface
var _ Gateway = (*Client)(nil)
