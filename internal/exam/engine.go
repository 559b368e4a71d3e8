// Package exam drives a single timed exam attempt client-side. Question
// content and grading stay on the backend; the engine owns navigation,
// answer/flag state and the countdown between start and finish.
package exam

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mfreitas/studypilot/internal/backend"
	"github.com/mfreitas/studypilot/internal/errors"
	"github.com/mfreitas/studypilot/internal/logger"
	"github.com/mfreitas/studypilot/internal/models"
	"github.com/mfreitas/studypilot/internal/outbox"
)

// State is the lifecycle state of the engine.
type State int

const (
	StateIdle State = iota
	StateStarting
	StateInProgress
	StateFinishing
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateInProgress:
		return "in_progress"
	case StateFinishing:
		return "finishing"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Engine is the exam session state machine. All local state mutations are
// synchronous under one mutex; network calls never hold it.
type Engine struct {
	mu        sync.Mutex
	state     State
	session   *models.ExamSession
	result    *models.ExamResult
	remaining int // seconds
	stopTick  context.CancelFunc

	gateway backend.Gateway
	queue   *outbox.Queue
	tick    time.Duration
	log     *logger.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTickInterval overrides the one-second countdown tick. Each tick still
// counts as one second of exam time; tests use this to compress the clock.
func WithTickInterval(d time.Duration) Option {
	return func(e *Engine) { e.tick = d }
}

// NewEngine creates an idle exam engine.
func NewEngine(gateway backend.Gateway, queue *outbox.Queue, opts ...Option) *Engine {
	e := &Engine{
		gateway: gateway,
		queue:   queue,
		tick:    time.Second,
		log:     logger.Default().WithPrefix("exam"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start requests a new session for the given question bank. On failure the
// engine returns to idle and the caller must retry or abort; there is no
// local fallback content. On success the countdown is armed at
// timeLimit minutes worth of seconds.
func (e *Engine) Start(ctx context.Context, bankID string) error {
	e.mu.Lock()
	if e.state != StateIdle && e.state != StateComplete {
		state := e.state
		e.mu.Unlock()
		return errors.NewConflictError(fmt.Sprintf("cannot start exam while %s", state))
	}
	e.state = StateStarting
	e.result = nil
	e.mu.Unlock()

	e.log.Info("starting exam for bank %s", bankID)
	resp, err := e.gateway.StartExam(ctx, bankID)
	if err != nil {
		e.log.Error("exam start failed: %v", err)
		e.mu.Lock()
		e.state = StateIdle
		e.mu.Unlock()
		return err
	}

	questions := make([]models.ExamQuestion, len(resp.Questions))
	for i, q := range resp.Questions {
		questions[i] = models.ExamQuestion{ID: q.ID, Question: q.Question, Options: q.Options}
	}

	e.mu.Lock()
	e.session = &models.ExamSession{
		SessionID:    resp.SessionID,
		Questions:    questions,
		TimeLimit:    resp.TimeLimit,
		StartTime:    time.Now(),
		CurrentIndex: 0,
	}
	e.remaining = resp.TimeLimit * 60
	e.state = StateInProgress
	e.startCountdownLocked()
	e.mu.Unlock()

	e.log.Info("exam session %s started: %d questions, %d minutes", resp.SessionID, len(questions), resp.TimeLimit)
	return nil
}

// SelectAnswer records the locally selected answer for a question,
// overwriting any previous selection, and fires the submission toward the
// backend without blocking. The local write never fails on network trouble.
func (e *Engine) SelectAnswer(questionID, answer string) error {
	e.mu.Lock()
	if e.state != StateInProgress {
		state := e.state
		e.mu.Unlock()
		return errors.NewConflictError(fmt.Sprintf("no exam in progress (state %s)", state))
	}

	found := false
	for i := range e.session.Questions {
		if e.session.Questions[i].ID == questionID {
			e.session.Questions[i].SelectedAnswer = answer
			found = true
			break
		}
	}
	sessionID := e.session.SessionID
	e.mu.Unlock()

	if !found {
		return errors.NewNotFoundError("question", questionID)
	}

	e.queue.Dispatch(context.Background(), models.ActionExamAnswer,
		fmt.Sprintf("/api/exams/%s/answer", sessionID), "POST",
		models.ExamAnswerPayload{SessionID: sessionID, QuestionID: questionID, Answer: answer})
	return nil
}

// ToggleFlag flips the navigation flag on a question. Flags are local-only.
func (e *Engine) ToggleFlag(questionID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateInProgress {
		return errors.NewConflictError(fmt.Sprintf("no exam in progress (state %s)", e.state))
	}
	for i := range e.session.Questions {
		if e.session.Questions[i].ID == questionID {
			e.session.Questions[i].Flagged = !e.session.Questions[i].Flagged
			return nil
		}
	}
	return errors.NewNotFoundError("question", questionID)
}

// GoTo moves to the question at index, clamped to the valid range.
func (e *Engine) GoTo(index int) error {
	return e.navigate(func(current, n int) int { return index })
}

// Next advances one question; a no-op on the last question.
func (e *Engine) Next() error {
	return e.navigate(func(current, n int) int { return current + 1 })
}

// Prev goes back one question; a no-op on the first question.
func (e *Engine) Prev() error {
	return e.navigate(func(current, n int) int { return current - 1 })
}

func (e *Engine) navigate(next func(current, n int) int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateInProgress {
		return errors.NewConflictError(fmt.Sprintf("no exam in progress (state %s)", e.state))
	}
	n := len(e.session.Questions)
	if n == 0 {
		return nil
	}
	idx := next(e.session.CurrentIndex, n)
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	e.session.CurrentIndex = idx
	return nil
}

// Finish requests grading from the backend. The InProgress-to-Finishing
// transition under the engine mutex guarantees at most one grading request,
// even when the countdown hitting zero races a manual finish. On failure the
// exam returns to InProgress and can be finished again.
func (e *Engine) Finish(ctx context.Context) (*models.ExamResult, error) {
	e.mu.Lock()
	switch e.state {
	case StateComplete:
		// Already graded; do not issue a second request.
		result := e.result
		e.mu.Unlock()
		return result, nil
	case StateInProgress:
		// fall through to grading
	default:
		state := e.state
		e.mu.Unlock()
		return nil, errors.NewConflictError(fmt.Sprintf("cannot finish exam while %s", state))
	}
	e.state = StateFinishing
	sessionID := e.session.SessionID
	e.mu.Unlock()

	e.log.Info("finishing exam session %s", sessionID)
	result, err := e.gateway.FinishExam(ctx, sessionID)
	if err != nil {
		e.log.Error("exam finish failed: %v", err)
		e.mu.Lock()
		e.state = StateInProgress
		e.mu.Unlock()
		return nil, err
	}

	e.mu.Lock()
	e.result = result
	e.session = nil
	e.state = StateComplete
	e.stopCountdownLocked()
	e.mu.Unlock()

	e.log.Info("exam session %s complete: score=%.1f passed=%v", sessionID, result.Score, result.Passed)
	return result, nil
}

// Stop tears down the countdown. Safe to call in any state, any number of
// times; used on screen teardown and process shutdown.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.stopCountdownLocked()
	e.mu.Unlock()
}

func (e *Engine) startCountdownLocked() {
	e.stopCountdownLocked()
	ctx, cancel := context.WithCancel(context.Background())
	e.stopTick = cancel

	go func() {
		ticker := time.NewTicker(e.tick)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if done := e.tickSecond(); done {
					return
				}
			}
		}
	}()
}

func (e *Engine) stopCountdownLocked() {
	if e.stopTick != nil {
		e.stopTick()
		e.stopTick = nil
	}
}

// tickSecond burns one second of exam time. Reaching zero triggers the
// automatic finish and retires the ticker. A tick landing while grading is
// in flight holds the clock: a failed finish puts the exam back in progress
// and the countdown must keep running.
func (e *Engine) tickSecond() (done bool) {
	e.mu.Lock()
	switch e.state {
	case StateInProgress:
	case StateFinishing:
		e.mu.Unlock()
		return false
	default:
		e.mu.Unlock()
		return true
	}
	e.remaining--
	if e.remaining > 0 {
		e.mu.Unlock()
		return false
	}
	e.remaining = 0
	e.mu.Unlock()

	e.log.Info("exam time expired, auto-finishing")
	go func() {
		if _, err := e.Finish(context.Background()); err != nil {
			e.log.Error("auto-finish failed: %v", err)
		}
	}()
	return true
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Session returns a snapshot of the active session, or nil outside of one.
func (e *Engine) Session() *models.ExamSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil
	}
	snapshot := *e.session
	snapshot.Questions = make([]models.ExamQuestion, len(e.session.Questions))
	copy(snapshot.Questions, e.session.Questions)
	return &snapshot
}

// Result returns the graded result once the exam is complete.
func (e *Engine) Result() *models.ExamResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result
}

// CurrentQuestion returns a copy of the question at the current index.
func (e *Engine) CurrentQuestion() (models.ExamQuestion, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil || len(e.session.Questions) == 0 {
		return models.ExamQuestion{}, false
	}
	return e.session.Questions[e.session.CurrentIndex], true
}

// TimeRemaining returns the remaining exam time in seconds.
func (e *Engine) TimeRemaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remaining
}

// FormattedTime renders the remaining time as M:SS for the UI shell.
func (e *Engine) FormattedTime() string {
	remaining := e.TimeRemaining()
	return fmt.Sprintf("%d:%02d", remaining/60, remaining%60)
}

// AnsweredCount returns how many questions have a selected answer.
func (e *Engine) AnsweredCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return 0
	}
	count := 0
	for _, q := range e.session.Questions {
		if q.SelectedAnswer != "" {
			count++
		}
	}
	return count
}

// FlaggedCount returns how many questions are flagged.
func (e *Engine) FlaggedCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return 0
	}
	count := 0
	for _, q := range e.session.Questions {
		if q.Flagged {
			count++
		}
	}
	return count
}
