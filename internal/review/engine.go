// Package review drives local flashcard study runs. A session is entirely
// local truth; the backend scheduler only receives grades, through the
// offline-capable outbox, and hands out the next due set on fetch.
package review

import (
	"context"
	"fmt"
	"sync"

	"github.com/mfreitas/studypilot/internal/backend"
	"github.com/mfreitas/studypilot/internal/errors"
	"github.com/mfreitas/studypilot/internal/logger"
	"github.com/mfreitas/studypilot/internal/models"
	"github.com/mfreitas/studypilot/internal/outbox"
	"github.com/mfreitas/studypilot/internal/store"
)

// Engine runs one flashcard session at a time and caches the last fetched
// card list for offline starts.
type Engine struct {
	mu      sync.Mutex
	session *models.FlashcardSession

	gateway backend.Gateway
	queue   *outbox.Queue
	st      *store.Store
	log     *logger.Logger
}

// NewEngine creates a review engine with no active session.
func NewEngine(gateway backend.Gateway, queue *outbox.Queue, st *store.Store) *Engine {
	return &Engine{
		gateway: gateway,
		queue:   queue,
		st:      st,
		log:     logger.Default().WithPrefix("review"),
	}
}

// FetchCards loads the due card list from the backend and refreshes the
// local cache. When the backend is unreachable it falls back to the last
// cached list, so a study run can still start offline.
func (e *Engine) FetchCards(ctx context.Context) (*models.CardList, error) {
	list, err := e.gateway.Flashcards(ctx)
	if err != nil {
		e.log.Warn("card fetch failed, trying cache: %v", err)
		var cached models.CardList
		ok, cacheErr := e.st.GetJSON(ctx, store.KeyCachedCards, &cached)
		if cacheErr != nil {
			return nil, cacheErr
		}
		if !ok {
			return nil, err
		}
		return &cached, nil
	}

	if err := e.st.PutJSON(ctx, store.KeyCachedCards, list); err != nil {
		e.log.Warn("failed to cache card list: %v", err)
	}
	return list, nil
}

// StartSession begins a run over the given cards with all counters at zero.
// The list is snapshotted; later cache refreshes do not affect a running
// session. Starting replaces any previous session.
func (e *Engine) StartSession(cards []models.Flashcard) {
	snapshot := make([]models.Flashcard, len(cards))
	copy(snapshot, cards)

	e.mu.Lock()
	e.session = &models.FlashcardSession{Cards: snapshot}
	e.mu.Unlock()

	e.log.Info("review session started with %d cards", len(snapshot))
}

// Grade records the user's recall quality for the current card, advances to
// the next one and fires the grade toward the backend without blocking.
// Grading past the end of the list is a no-op.
func (e *Engine) Grade(grade models.SRSGrade) error {
	if !grade.Valid() {
		return errors.NewValidationError("grade", fmt.Sprintf("unknown level %d", grade))
	}

	e.mu.Lock()
	if e.session == nil {
		e.mu.Unlock()
		return errors.NewConflictError("no review session in progress")
	}
	if e.session.CurrentIndex >= len(e.session.Cards) {
		e.mu.Unlock()
		return nil
	}

	card := e.session.Cards[e.session.CurrentIndex]
	e.session.CurrentIndex++
	if grade.Correct() {
		e.session.Correct++
		e.session.Streak++
	} else {
		e.session.Incorrect++
		e.session.Streak = 0
	}
	e.mu.Unlock()

	e.queue.Dispatch(context.Background(), models.ActionFlashcardReview,
		fmt.Sprintf("/api/flashcards/%s/review", card.ID), "POST",
		models.FlashcardReviewPayload{CardID: card.ID, Grade: grade})
	return nil
}

// GradeChoice grades a multiple-choice card from the selected option. A
// correct selection is reported as Good, anything else as Again.
func (e *Engine) GradeChoice(selected string) error {
	e.mu.Lock()
	if e.session == nil {
		e.mu.Unlock()
		return errors.NewConflictError("no review session in progress")
	}
	if e.session.CurrentIndex >= len(e.session.Cards) {
		e.mu.Unlock()
		return nil
	}
	card := e.session.Cards[e.session.CurrentIndex]
	e.mu.Unlock()

	grade := models.GradeAgain
	if selected == card.Answer {
		grade = models.GradeGood
	}
	return e.Grade(grade)
}

// CurrentCard returns a copy of the card awaiting a grade.
func (e *Engine) CurrentCard() (models.Flashcard, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil || e.session.CurrentIndex >= len(e.session.Cards) {
		return models.Flashcard{}, false
	}
	return e.session.Cards[e.session.CurrentIndex], true
}

// IsComplete reports whether every card in the run has been graded. An
// engine with no session counts as complete.
func (e *Engine) IsComplete() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session == nil || e.session.CurrentIndex >= len(e.session.Cards)
}

// Progress returns the percentage of cards graded, 0 for an empty list.
func (e *Engine) Progress() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil || len(e.session.Cards) == 0 {
		return 0
	}
	return float64(e.session.CurrentIndex) / float64(len(e.session.Cards)) * 100
}

// Session returns a snapshot of the running session, or nil outside of one.
func (e *Engine) Session() *models.FlashcardSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil
	}
	snapshot := *e.session
	snapshot.Cards = make([]models.Flashcard, len(e.session.Cards))
	copy(snapshot.Cards, e.session.Cards)
	return &snapshot
}

// Reset abandons the current session without reporting anything.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.session = nil
	e.mu.Unlock()
}
