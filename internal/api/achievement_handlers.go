package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mfreitas/studypilot/internal/errors"
	"github.com/mfreitas/studypilot/internal/models"
)

func parseCategory(raw string) (models.AchievementCategory, error) {
	switch c := models.AchievementCategory(raw); c {
	case models.CategoryStreak, models.CategoryCards, models.CategoryLessons,
		models.CategoryExams, models.CategoryScore:
		return c, nil
	default:
		return "", errors.NewBadRequestError("unknown achievement category")
	}
}

func (s *Server) handleUnlockedAchievements(w http.ResponseWriter, r *http.Request) {
	unlocked, err := s.Achievements.Unlocked(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	if unlocked == nil {
		unlocked = []models.UnlockedAchievement{}
	}
	writeJSON(w, r, http.StatusOK, unlocked)
}

func (s *Server) handleAchievementProgress(w http.ResponseWriter, r *http.Request) {
	category, err := parseCategory(chi.URLParam(r, "category"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	value, err := queryInt(r, "value", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}

	progress, err := s.Achievements.Progress(r.Context(), category, value)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, progress)
}

type checkAchievementsRequest struct {
	Category string `json:"category" validate:"required"`
	Value    int    `json:"value" validate:"gte=0"`
}

func (s *Server) handleCheckAchievements(w http.ResponseWriter, r *http.Request) {
	var req checkAchievementsRequest
	if err := s.decode(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	category, err := parseCategory(req.Category)
	if err != nil {
		handleError(w, r, err)
		return
	}

	record, err := s.Achievements.CheckAndUnlock(r.Context(), category, req.Value)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"unlocked": record})
}

func (s *Server) handleClearAchievements(w http.ResponseWriter, r *http.Request) {
	if err := s.Achievements.Clear(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}
