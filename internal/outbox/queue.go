// Package outbox is the offline action queue: a durable FIFO of pending
// backend mutations, persisted through the local state store and replayed
// when connectivity returns. Local session state is always authoritative;
// the queue is a best-effort mirror toward the backend.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mfreitas/studypilot/internal/backend"
	"github.com/mfreitas/studypilot/internal/errors"
	"github.com/mfreitas/studypilot/internal/logger"
	"github.com/mfreitas/studypilot/internal/models"
	"github.com/mfreitas/studypilot/internal/store"
)

// StatusSource reports the last known connectivity state.
// *connectivity.Monitor satisfies it.
type StatusSource interface {
	Online() bool
}

// Stats summarizes queue health for the local API surface.
type Stats struct {
	Pending int `json:"pending"`
	Dropped int `json:"dropped"`
}

// Queue is the durable offline mutation queue. All persisted-queue mutations
// go through a single mutex so the queuer and the drainer never race a
// read-modify-write.
type Queue struct {
	mu      sync.Mutex // guards persisted queue mutations and the flags below
	drain   bool
	dropped int

	st         *store.Store
	gateway    backend.Gateway
	status     StatusSource
	retryLimit int
	log        *logger.Logger
}

// New creates a queue backed by st, dispatching through gateway.
func New(st *store.Store, gateway backend.Gateway, status StatusSource, retryLimit int) *Queue {
	if retryLimit <= 0 {
		retryLimit = 5
	}
	return &Queue{
		st:         st,
		gateway:    gateway,
		status:     status,
		retryLimit: retryLimit,
		log:        logger.Default().WithPrefix("outbox"),
	}
}

// OnConnectivityChange is the subscriber to bind to the connectivity
// monitor: each offline-to-online transition triggers exactly one drain.
func (q *Queue) OnConnectivityChange(online bool) {
	if !online {
		return
	}
	go func() {
		if err := q.Drain(context.Background()); err != nil {
			q.log.Error("drain after reconnect failed: %v", err)
		}
	}()
}

// Dispatch fires a mutation without blocking the caller. When the device is
// already known offline the action is queued synchronously, with no network
// attempt. When online, the call is attempted on a background goroutine and
// falls back to the queue on retryable failure; terminal failures are logged
// and discarded, since re-sending the same payload cannot succeed.
func (q *Queue) Dispatch(ctx context.Context, kind models.ActionKind, endpoint, method string, body any) {
	if !q.status.Online() {
		if _, err := q.Enqueue(ctx, kind, endpoint, method, body); err != nil {
			q.log.Error("failed to queue %s action while offline: %v", kind, err)
		}
		return
	}

	raw, err := json.Marshal(body)
	if err != nil {
		q.log.Error("failed to encode %s action: %v", kind, err)
		return
	}
	entry := models.QueuedAction{Kind: kind, Endpoint: endpoint, Method: method, Body: raw}

	go func() {
		err := q.dispatch(context.Background(), entry)
		if err == nil {
			return
		}
		if !errors.IsRetryable(err) {
			q.log.Warn("discarding %s action: terminal failure: %v", kind, err)
			return
		}
		q.log.Debug("%s action failed, queueing for replay: %v", kind, err)
		if _, err := q.Enqueue(context.Background(), kind, endpoint, method, body); err != nil {
			q.log.Error("failed to queue %s action: %v", kind, err)
		}
	}()
}

// Enqueue appends a new entry with a zero retry counter. If the device is
// currently online a drain attempt is kicked off immediately.
func (q *Queue) Enqueue(ctx context.Context, kind models.ActionKind, endpoint, method string, body any) (*models.QueuedAction, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	action := models.QueuedAction{
		ID:       uuid.NewString(),
		Kind:     kind,
		Endpoint: endpoint,
		Method:   method,
		Body:     raw,
		QueuedAt: time.Now(),
		Retries:  0,
	}

	q.mu.Lock()
	entries, err := q.load(ctx)
	if err != nil {
		q.mu.Unlock()
		return nil, err
	}
	entries = append(entries, action)
	err = q.save(ctx, entries)
	q.mu.Unlock()
	if err != nil {
		return nil, err
	}

	q.log.Debug("queued %s action %s (%d pending)", action.Kind, action.ID, len(entries))

	if q.status.Online() {
		go func() {
			if err := q.Drain(context.Background()); err != nil {
				q.log.Error("drain after enqueue failed: %v", err)
			}
		}()
	}
	return &action, nil
}

// Entries returns the persisted queue in order.
func (q *Queue) Entries(ctx context.Context) ([]models.QueuedAction, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.load(ctx)
}

// Stats returns pending and dropped counts.
func (q *Queue) Stats(ctx context.Context) (Stats, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	entries, err := q.load(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Pending: len(entries), Dropped: q.dropped}, nil
}

// Clear wipes the persisted queue.
func (q *Queue) Clear(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.st.Delete(ctx, store.KeyOfflineQueue)
}

// Drain replays the persisted queue in order. No-op while offline or while
// another drain is in flight. Each entry is attempted once per pass: success
// removes it, a terminal failure drops it, a retryable failure increments
// its counter and drops it once the retry ceiling is reached.
func (q *Queue) Drain(ctx context.Context) error {
	if !q.status.Online() {
		q.log.Debug("drain skipped: offline")
		return nil
	}

	q.mu.Lock()
	if q.drain {
		q.mu.Unlock()
		q.log.Debug("drain skipped: already in progress")
		return nil
	}
	q.drain = true
	entries, err := q.load(ctx)
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		q.drain = false
		q.mu.Unlock()
	}()

	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	q.log.Info("draining %d queued actions", len(entries))
	for _, entry := range entries {
		dispatchErr := q.dispatch(ctx, entry)
		if dispatchErr == nil {
			if err := q.remove(ctx, entry.ID); err != nil {
				return err
			}
			q.log.Debug("replayed %s action %s", entry.Kind, entry.ID)
			continue
		}

		if !errors.IsRetryable(dispatchErr) {
			q.log.Warn("dropping %s action %s: terminal failure: %v", entry.Kind, entry.ID, dispatchErr)
			if err := q.drop(ctx, entry.ID); err != nil {
				return err
			}
			continue
		}

		q.log.Debug("replay of %s action %s failed: %v", entry.Kind, entry.ID, dispatchErr)
		if err := q.recordFailure(ctx, entry.ID); err != nil {
			return err
		}
	}
	return nil
}

// dispatch replays one entry through the gateway, keyed by action kind.
func (q *Queue) dispatch(ctx context.Context, entry models.QueuedAction) error {
	switch entry.Kind {
	case models.ActionFlashcardReview:
		var p models.FlashcardReviewPayload
		if err := json.Unmarshal(entry.Body, &p); err != nil {
			return errors.NewBadRequestError(fmt.Sprintf("corrupt flashcard review payload: %v", err))
		}
		return q.gateway.SubmitFlashcardReview(ctx, p.CardID, p.Grade)

	case models.ActionExamAnswer:
		var p models.ExamAnswerPayload
		if err := json.Unmarshal(entry.Body, &p); err != nil {
			return errors.NewBadRequestError(fmt.Sprintf("corrupt exam answer payload: %v", err))
		}
		return q.gateway.SubmitAnswer(ctx, p.SessionID, p.QuestionID, p.Answer)

	case models.ActionLessonProgress:
		var p models.LessonProgressPayload
		if err := json.Unmarshal(entry.Body, &p); err != nil {
			return errors.NewBadRequestError(fmt.Sprintf("corrupt lesson progress payload: %v", err))
		}
		if p.Checkpoint != "" {
			return q.gateway.SaveCheckpointProgress(ctx, p.LessonID, p.Checkpoint, p.Completed)
		}
		return q.gateway.SaveLessonProgress(ctx, p.LessonID, p.Progress, p.Completed)

	case models.ActionAgentChat:
		var p models.AgentChatPayload
		if err := json.Unmarshal(entry.Body, &p); err != nil {
			return errors.NewBadRequestError(fmt.Sprintf("corrupt agent chat payload: %v", err))
		}
		_, err := q.gateway.ChatWithAgent(ctx, models.AgentID(p.AgentID), p.Message, p.ViewID)
		return err

	default:
		return errors.NewBadRequestError(fmt.Sprintf("unknown action kind %q", entry.Kind))
	}
}

// load reads the persisted queue. Callers must hold q.mu.
func (q *Queue) load(ctx context.Context) ([]models.QueuedAction, error) {
	var entries []models.QueuedAction
	if _, err := q.st.GetJSON(ctx, store.KeyOfflineQueue, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// save writes the whole queue back. Callers must hold q.mu.
func (q *Queue) save(ctx context.Context, entries []models.QueuedAction) error {
	return q.st.PutJSON(ctx, store.KeyOfflineQueue, entries)
}

func (q *Queue) remove(ctx context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.removeLocked(ctx, id)
}

// removeLocked deletes the entry with id. Callers must hold q.mu.
func (q *Queue) removeLocked(ctx context.Context, id string) error {
	entries, err := q.load(ctx)
	if err != nil {
		return err
	}
	filtered := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			filtered = append(filtered, e)
		}
	}
	return q.save(ctx, filtered)
}

func (q *Queue) drop(ctx context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.dropped++
	return q.removeLocked(ctx, id)
}

// recordFailure increments the retry counter of id, removing the entry once
// it has failed retryLimit times.
func (q *Queue) recordFailure(ctx context.Context, id string) error {
	q.mu.Lock()
	entries, err := q.load(ctx)
	if err != nil {
		q.mu.Unlock()
		return err
	}

	exhausted := false
	for i := range entries {
		if entries[i].ID != id {
			continue
		}
		entries[i].Retries++
		if entries[i].Retries >= q.retryLimit {
			exhausted = true
			q.log.Warn("dropping %s action %s after %d failed attempts", entries[i].Kind, id, entries[i].Retries)
			entries = append(entries[:i], entries[i+1:]...)
			q.dropped++
		}
		break
	}
	err = q.save(ctx, entries)
	q.mu.Unlock()

	if err == nil && exhausted {
		q.log.Debug("queue now holds %d entries", len(entries))
	}
	return err
}
