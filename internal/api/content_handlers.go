package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mfreitas/studypilot/internal/errors"
)

func (s *Server) handleQuestionBanks(w http.ResponseWriter, r *http.Request) {
	banks, err := s.Gateway.QuestionBanks(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, banks)
}

func (s *Server) handleUserMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := s.Gateway.UserMetrics(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, metrics)
}

func (s *Server) handleCourseProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := s.Gateway.CourseProgress(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, progress)
}

func (s *Server) handleRecentLessons(w http.ResponseWriter, r *http.Request) {
	recent, err := s.Lessons.Recent(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, recent)
}

func (s *Server) handleLessonBySlug(w http.ResponseWriter, r *http.Request) {
	lesson, err := s.Lessons.BySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, lesson)
}

type lessonProgressRequest struct {
	Progress  float64 `json:"progress"`
	Completed bool    `json:"completed"`
}

func (s *Server) handleSaveLessonProgress(w http.ResponseWriter, r *http.Request) {
	var req lessonProgressRequest
	if err := s.decode(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Lessons.SaveProgress(r.Context(), chi.URLParam(r, "id"), req.Progress, req.Completed); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusAccepted, map[string]bool{"queued": true})
}

type checkpointRequest struct {
	Checkpoint string `json:"checkpoint" validate:"required"`
	Completed  bool   `json:"completed"`
}

func (s *Server) handleSaveCheckpoint(w http.ResponseWriter, r *http.Request) {
	var req checkpointRequest
	if err := s.decode(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Lessons.SaveCheckpoint(r.Context(), chi.URLParam(r, "id"), req.Checkpoint, req.Completed); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusAccepted, map[string]bool{"queued": true})
}

// queryInt reads an integer query parameter with a default.
func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewBadRequestError("invalid " + key + " parameter")
	}
	return v, nil
}
