package api

import (
	"net/http"

	"github.com/mfreitas/studypilot/internal/logger"
	"github.com/mfreitas/studypilot/internal/models"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Queue.Stats(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"online": s.Monitor.Online(),
		"queue":  stats,
	})
}

func (s *Server) handleQueueEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.Queue.Entries(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	if entries == nil {
		entries = []models.QueuedAction{}
	}
	writeJSON(w, r, http.StatusOK, entries)
}

func (s *Server) handleDrainQueue(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Info("manual queue drain requested")

	if err := s.Queue.Drain(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	stats, err := s.Queue.Stats(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

func (s *Server) handleClearQueue(w http.ResponseWriter, r *http.Request) {
	if err := s.Queue.Clear(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}
