// Package api is the local HTTP surface the UI shell talks to. Handlers
// are thin adapters: decode and validate the request, call an engine or
// service, encode the result.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/mfreitas/studypilot/internal/achievements"
	"github.com/mfreitas/studypilot/internal/backend"
	"github.com/mfreitas/studypilot/internal/billing"
	"github.com/mfreitas/studypilot/internal/chat"
	"github.com/mfreitas/studypilot/internal/connectivity"
	"github.com/mfreitas/studypilot/internal/errors"
	"github.com/mfreitas/studypilot/internal/exam"
	"github.com/mfreitas/studypilot/internal/lessons"
	"github.com/mfreitas/studypilot/internal/logger"
	"github.com/mfreitas/studypilot/internal/notify"
	"github.com/mfreitas/studypilot/internal/outbox"
	"github.com/mfreitas/studypilot/internal/review"
	"github.com/mfreitas/studypilot/internal/store"
)

type Server struct {
	Gateway      backend.Gateway
	Store        *store.Store
	Monitor      *connectivity.Monitor
	Queue        *outbox.Queue
	Exam         *exam.Engine
	Review       *review.Engine
	Achievements *achievements.Evaluator
	Chat         *chat.Service
	Lessons      *lessons.Service
	Notify       *notify.Service
	Billing      billing.Provider

	validate *validator.Validate
}

// NewServer wires a server around already-constructed services.
func NewServer() *Server {
	return &Server{validate: validator.New()}
}

// decode unmarshals a JSON request body into dst and runs its validation
// tags. Returns an AppError suitable for handleError.
func (s *Server) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.NewBadRequestError("invalid JSON body")
	}
	if s.validate == nil {
		s.validate = validator.New()
	}
	if err := s.validate.Struct(dst); err != nil {
		return errors.NewValidationError("body", err.Error())
	}
	return nil
}

// writeJSON encodes v with the given status. Encoding failures are logged,
// not surfaced; headers are already on the wire.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}
