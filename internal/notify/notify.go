// Package notify delivers local notifications to the UI shell and manages
// the daily study reminder preference. Actual OS-level delivery happens in
// the shell; this side records the preference and surfaces events.
package notify

import (
	"context"
	"sync"

	"github.com/mfreitas/studypilot/internal/errors"
	"github.com/mfreitas/studypilot/internal/logger"
	"github.com/mfreitas/studypilot/internal/models"
	"github.com/mfreitas/studypilot/internal/store"
)

// Notifier pushes a one-shot notification toward the user.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// Service is the default Notifier. It logs every notification and keeps the
// most recent ones in memory so the UI shell can poll for them.
type Service struct {
	mu      sync.Mutex
	pending []Notification

	st  *store.Store
	log *logger.Logger
}

// Notification is one undelivered message awaiting pickup by the shell.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// NewService creates a notification service backed by the local store.
func NewService(st *store.Store) *Service {
	return &Service{
		st:  st,
		log: logger.Default().WithPrefix("notify"),
	}
}

// Notify records a notification for the shell to pick up.
func (s *Service) Notify(ctx context.Context, title, body string) error {
	s.mu.Lock()
	s.pending = append(s.pending, Notification{Title: title, Body: body})
	s.mu.Unlock()

	s.log.Info("notification: %s", title)
	return nil
}

// Drain returns all pending notifications and clears the buffer.
func (s *Service) Drain() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.pending
	s.pending = nil
	return out
}

// ScheduleReminder persists a daily study reminder at the given local time.
func (s *Service) ScheduleReminder(ctx context.Context, hour, minute int) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return errors.NewValidationError("reminder", "time of day out of range")
	}
	reminder := models.StudyReminder{Hour: hour, Minute: minute, Enabled: true}
	return s.st.PutJSON(ctx, store.KeyStudyReminder, reminder)
}

// DisableReminder turns the daily reminder off, keeping the chosen time.
func (s *Service) DisableReminder(ctx context.Context) error {
	var reminder models.StudyReminder
	if _, err := s.st.GetJSON(ctx, store.KeyStudyReminder, &reminder); err != nil {
		return err
	}
	reminder.Enabled = false
	return s.st.PutJSON(ctx, store.KeyStudyReminder, reminder)
}

// Reminder returns the stored reminder preference, if any.
func (s *Service) Reminder(ctx context.Context) (*models.StudyReminder, error) {
	var reminder models.StudyReminder
	ok, err := s.st.GetJSON(ctx, store.KeyStudyReminder, &reminder)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &reminder, nil
}
