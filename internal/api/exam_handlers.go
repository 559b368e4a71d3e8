package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mfreitas/studypilot/internal/errors"
	"github.com/mfreitas/studypilot/internal/logger"
)

type examSessionResponse struct {
	State         string `json:"state"`
	Session       any    `json:"session,omitempty"`
	TimeRemaining int    `json:"timeRemaining"`
	FormattedTime string `json:"formattedTime"`
	AnsweredCount int    `json:"answeredCount"`
	FlaggedCount  int    `json:"flaggedCount"`
}

func (s *Server) handleStartExam(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	bankID := chi.URLParam(r, "bankId")
	if bankID == "" {
		handleError(w, r, errors.NewBadRequestError("bank id required"))
		return
	}

	log.Info("starting exam for bank %s", bankID)
	if err := s.Exam.Start(r.Context(), bankID); err != nil {
		handleError(w, r, err)
		return
	}
	s.handleExamSession(w, r)
}

func (s *Server) handleExamSession(w http.ResponseWriter, r *http.Request) {
	resp := examSessionResponse{
		State:         s.Exam.State().String(),
		TimeRemaining: s.Exam.TimeRemaining(),
		FormattedTime: s.Exam.FormattedTime(),
		AnsweredCount: s.Exam.AnsweredCount(),
		FlaggedCount:  s.Exam.FlaggedCount(),
	}
	if session := s.Exam.Session(); session != nil {
		resp.Session = session
	}
	writeJSON(w, r, http.StatusOK, resp)
}

type answerRequest struct {
	QuestionID string `json:"questionId" validate:"required"`
	Answer     string `json:"answer" validate:"required"`
}

func (s *Server) handleSelectAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := s.decode(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Exam.SelectAnswer(req.QuestionID, req.Answer); err != nil {
		handleError(w, r, err)
		return
	}
	s.handleExamSession(w, r)
}

type flagRequest struct {
	QuestionID string `json:"questionId" validate:"required"`
}

func (s *Server) handleToggleFlag(w http.ResponseWriter, r *http.Request) {
	var req flagRequest
	if err := s.decode(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Exam.ToggleFlag(req.QuestionID); err != nil {
		handleError(w, r, err)
		return
	}
	s.handleExamSession(w, r)
}

type gotoRequest struct {
	Index int `json:"index"`
}

func (s *Server) handleGoToQuestion(w http.ResponseWriter, r *http.Request) {
	var req gotoRequest
	if err := s.decode(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Exam.GoTo(req.Index); err != nil {
		handleError(w, r, err)
		return
	}
	s.handleExamSession(w, r)
}

func (s *Server) handleNextQuestion(w http.ResponseWriter, r *http.Request) {
	if err := s.Exam.Next(); err != nil {
		handleError(w, r, err)
		return
	}
	s.handleExamSession(w, r)
}

func (s *Server) handlePrevQuestion(w http.ResponseWriter, r *http.Request) {
	if err := s.Exam.Prev(); err != nil {
		handleError(w, r, err)
		return
	}
	s.handleExamSession(w, r)
}

func (s *Server) handleFinishExam(w http.ResponseWriter, r *http.Request) {
	result, err := s.Exam.Finish(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleExamResult(w http.ResponseWriter, r *http.Request) {
	result := s.Exam.Result()
	if result == nil {
		handleError(w, r, errors.NewNotFoundError("exam result", "current"))
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}
