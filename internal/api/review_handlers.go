package api

import (
	"net/http"

	"github.com/mfreitas/studypilot/internal/logger"
	"github.com/mfreitas/studypilot/internal/models"
)

type reviewSessionResponse struct {
	Session  *models.FlashcardSession `json:"session"`
	Current  *models.Flashcard        `json:"current,omitempty"`
	Progress float64                  `json:"progress"`
	Complete bool                     `json:"complete"`
}

// handleStartReview fetches due cards (cache fallback included) and begins
// a run over them.
func (s *Server) handleStartReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	list, err := s.Review.FetchCards(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("starting review session with %d due cards", len(list.Cards))
	s.Review.StartSession(list.Cards)
	s.handleReviewSession(w, r)
}

func (s *Server) handleReviewSession(w http.ResponseWriter, r *http.Request) {
	resp := reviewSessionResponse{
		Session:  s.Review.Session(),
		Progress: s.Review.Progress(),
		Complete: s.Review.IsComplete(),
	}
	if card, ok := s.Review.CurrentCard(); ok {
		resp.Current = &card
	}
	writeJSON(w, r, http.StatusOK, resp)
}

type gradeRequest struct {
	Grade models.SRSGrade `json:"grade"`
}

func (s *Server) handleGradeCard(w http.ResponseWriter, r *http.Request) {
	var req gradeRequest
	if err := s.decode(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Review.Grade(req.Grade); err != nil {
		handleError(w, r, err)
		return
	}
	s.handleReviewSession(w, r)
}

type choiceRequest struct {
	Selected string `json:"selected" validate:"required"`
}

func (s *Server) handleGradeChoice(w http.ResponseWriter, r *http.Request) {
	var req choiceRequest
	if err := s.decode(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Review.GradeChoice(req.Selected); err != nil {
		handleError(w, r, err)
		return
	}
	s.handleReviewSession(w, r)
}
