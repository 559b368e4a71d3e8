package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mfreitas/studypilot/internal/chat"
	"github.com/mfreitas/studypilot/internal/errors"
	"github.com/mfreitas/studypilot/internal/models"
)

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, chat.Agents)
}

func agentParam(r *http.Request) (models.AgentID, error) {
	id := models.AgentID(chi.URLParam(r, "agentId"))
	if _, ok := chat.AgentByID(id); !ok {
		return "", errors.NewNotFoundError("agent", string(id))
	}
	return id, nil
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	agentID, err := agentParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	transcript, err := s.Chat.Transcript(r.Context(), agentID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if transcript == nil {
		transcript = []models.ChatMessage{}
	}
	writeJSON(w, r, http.StatusOK, transcript)
}

type sendMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	agentID, err := agentParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req sendMessageRequest
	if err := s.decode(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	// A failed send still yields a usable transcript ending in the fallback
	// assistant turn, so delivery failure is not an HTTP error here.
	transcript, sendErr := s.Chat.Send(r.Context(), agentID, req.Message)
	if transcript == nil && sendErr != nil {
		handleError(w, r, sendErr)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"messages":  transcript,
		"delivered": sendErr == nil,
	})
}

func (s *Server) handleClearConversation(w http.ResponseWriter, r *http.Request) {
	agentID, err := agentParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Chat.Clear(r.Context(), agentID); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}
