// Package achievements derives unlock records from the monotonic study
// counters callers feed it. Definitions are fixed; unlocks are persisted
// once per achievement and never revoked.
package achievements

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mfreitas/studypilot/internal/logger"
	"github.com/mfreitas/studypilot/internal/models"
	"github.com/mfreitas/studypilot/internal/notify"
	"github.com/mfreitas/studypilot/internal/store"
)

// Evaluator checks counters against the catalog and persists unlocks.
// Unlock mutations are serialized under one mutex; the persisted set is
// read-modify-write against the full record list.
type Evaluator struct {
	mu       sync.Mutex
	st       *store.Store
	notifier notify.Notifier
	log      *logger.Logger
	now      func() time.Time
}

// NewEvaluator creates an evaluator backed by the local store.
func NewEvaluator(st *store.Store, notifier notify.Notifier) *Evaluator {
	return &Evaluator{
		st:       st,
		notifier: notifier,
		log:      logger.Default().WithPrefix("achievements"),
		now:      time.Now,
	}
}

// CheckAndUnlock unlocks the first achievement in the category, lowest
// requirement first, that the counter satisfies and that is not already
// unlocked. Returns nil when nothing new unlocks. A notification is sent
// for every fresh unlock.
func (e *Evaluator) CheckAndUnlock(ctx context.Context, category models.AchievementCategory, currentValue int) (*models.UnlockedAchievement, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	unlocked, err := e.loadLocked(ctx)
	if err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(unlocked))
	for _, u := range unlocked {
		have[u.ID] = true
	}

	candidates := byCategory(category)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Requirement < candidates[j].Requirement
	})

	for _, a := range candidates {
		if a.Requirement > currentValue || have[a.ID] {
			continue
		}

		record := models.UnlockedAchievement{Achievement: a, UnlockedAt: e.now()}
		unlocked = append(unlocked, record)
		if err := e.st.PutJSON(ctx, store.KeyAchievements, unlocked); err != nil {
			return nil, err
		}

		e.log.Info("achievement unlocked: %s (%s=%d)", a.ID, category, currentValue)
		if err := e.notifier.Notify(ctx, fmt.Sprintf("🎉 %s!", a.Title), a.Description); err != nil {
			e.log.Warn("unlock notification failed: %v", err)
		}
		return &record, nil
	}
	return nil, nil
}

// Progress reports every achievement in the category with the counter's
// percentage toward it, capped at 100, sorted by descending progress.
func (e *Evaluator) Progress(ctx context.Context, category models.AchievementCategory, currentValue int) ([]models.AchievementProgress, error) {
	e.mu.Lock()
	unlocked, err := e.loadLocked(ctx)
	e.mu.Unlock()
	if err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(unlocked))
	for _, u := range unlocked {
		have[u.ID] = true
	}

	var out []models.AchievementProgress
	for _, a := range byCategory(category) {
		progress := float64(currentValue) / float64(a.Requirement) * 100
		if progress > 100 {
			progress = 100
		}
		out = append(out, models.AchievementProgress{
			Achievement: a,
			Progress:    progress,
			Unlocked:    have[a.ID],
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Progress > out[j].Progress })
	return out, nil
}

// Unlocked returns all unlock records in unlock order.
func (e *Evaluator) Unlocked(ctx context.Context) ([]models.UnlockedAchievement, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadLocked(ctx)
}

// Clear wipes every unlock record. Reset path only.
func (e *Evaluator) Clear(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.Delete(ctx, store.KeyAchievements)
}

func (e *Evaluator) loadLocked(ctx context.Context) ([]models.UnlockedAchievement, error) {
	var unlocked []models.UnlockedAchievement
	if _, err := e.st.GetJSON(ctx, store.KeyAchievements, &unlocked); err != nil {
		return nil, err
	}
	return unlocked, nil
}
