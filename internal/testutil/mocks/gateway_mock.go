package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mfreitas/studypilot/internal/backend"
	"github.com/mfreitas/studypilot/internal/models"
)

// MockGateway is a mock implementation of backend.Gateway
type MockGateway struct {
	mock.Mock
}

var _ backend.Gateway = (*MockGateway)(nil)

func (m *MockGateway) QuestionBanks(ctx context.Context) ([]models.QuestionBank, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.QuestionBank), args.Error(1)
}

func (m *MockGateway) Flashcards(ctx context.Context) (*models.CardList, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CardList), args.Error(1)
}

func (m *MockGateway) RecentLessons(ctx context.Context) ([]models.Lesson, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Lesson), args.Error(1)
}

func (m *MockGateway) LessonBySlug(ctx context.Context, slug string) (*models.Lesson, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lesson), args.Error(1)
}

func (m *MockGateway) UserMetrics(ctx context.Context) (*models.UserMetrics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserMetrics), args.Error(1)
}

func (m *MockGateway) CourseProgress(ctx context.Context) (*models.CourseProgress, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CourseProgress), args.Error(1)
}

func (m *MockGateway) StartExam(ctx context.Context, bankID string) (*backend.StartExamResponse, error) {
	args := m.Called(ctx, bankID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.StartExamResponse), args.Error(1)
}

func (m *MockGateway) SubmitAnswer(ctx context.Context, sessionID, questionID, answer string) error {
	args := m.Called(ctx, sessionID, questionID, answer)
	return args.Error(0)
}

func (m *MockGateway) FinishExam(ctx context.Context, sessionID string) (*models.ExamResult, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamResult), args.Error(1)
}

func (m *MockGateway) SubmitFlashcardReview(ctx context.Context, cardID string, grade models.SRSGrade) error {
	args := m.Called(ctx, cardID, grade)
	return args.Error(0)
}

func (m *MockGateway) SaveLessonProgress(ctx context.Context, lessonID string, progress float64, completed bool) error {
	args := m.Called(ctx, lessonID, progress, completed)
	return args.Error(0)
}

func (m *MockGateway) SaveCheckpointProgress(ctx context.Context, lessonID, checkpoint string, completed bool) error {
	args := m.Called(ctx, lessonID, checkpoint, completed)
	return args.Error(0)
}

func (m *MockGateway) ChatWithAgent(ctx context.Context, agentID models.AgentID, message, viewID string) (*models.ChatReply, error) {
	args := m.Called(ctx, agentID, message, viewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatReply), args.Error(1)
}
