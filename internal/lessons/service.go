// Package lessons exposes lesson content reads and offline-capable
// progress writes.
package lessons

import (
	"context"
	"fmt"

	"github.com/mfreitas/studypilot/internal/backend"
	"github.com/mfreitas/studypilot/internal/errors"
	"github.com/mfreitas/studypilot/internal/logger"
	"github.com/mfreitas/studypilot/internal/models"
	"github.com/mfreitas/studypilot/internal/outbox"
)

// Service reads lesson content straight from the backend and routes
// progress writes through the outbox so they survive going offline.
type Service struct {
	gateway backend.Gateway
	queue   *outbox.Queue
	log     *logger.Logger
}

// NewService creates a lesson service.
func NewService(gateway backend.Gateway, queue *outbox.Queue) *Service {
	return &Service{
		gateway: gateway,
		queue:   queue,
		log:     logger.Default().WithPrefix("lessons"),
	}
}

// Recent returns the recently studied lessons.
func (s *Service) Recent(ctx context.Context) ([]models.Lesson, error) {
	return s.gateway.RecentLessons(ctx)
}

// BySlug returns one lesson with its full content.
func (s *Service) BySlug(ctx context.Context, slug string) (*models.Lesson, error) {
	if slug == "" {
		return nil, errors.NewValidationError("slug", "must not be empty")
	}
	return s.gateway.LessonBySlug(ctx, slug)
}

// SaveProgress records a percentage milestone in a lesson. Fire-and-forget;
// the write is queued when offline.
func (s *Service) SaveProgress(ctx context.Context, lessonID string, progress float64, completed bool) error {
	if lessonID == "" {
		return errors.NewValidationError("lessonId", "must not be empty")
	}
	if progress < 0 || progress > 100 {
		return errors.NewValidationError("progress", fmt.Sprintf("%.1f out of range", progress))
	}
	s.queue.Dispatch(ctx, models.ActionLessonProgress,
		fmt.Sprintf("/api/lessons/%s/enhanced-progress", lessonID), "POST",
		models.LessonProgressPayload{LessonID: lessonID, Progress: progress, Completed: completed})
	return nil
}

// SaveCheckpoint records reaching a named checkpoint in a lesson.
func (s *Service) SaveCheckpoint(ctx context.Context, lessonID, checkpoint string, completed bool) error {
	if lessonID == "" || checkpoint == "" {
		return errors.NewValidationError("checkpoint", "lesson id and checkpoint must not be empty")
	}
	s.queue.Dispatch(ctx, models.ActionLessonProgress,
		fmt.Sprintf("/api/lessons/%s/checkpoint-progress", lessonID), "POST",
		models.LessonProgressPayload{LessonID: lessonID, Checkpoint: checkpoint, Completed: completed})
	return nil
}
