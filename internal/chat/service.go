// Package chat manages conversations with the AI tutoring agents. Each
// agent keeps its own persisted transcript; replies come from the backend
// and a canned fallback covers delivery failures so the transcript never
// ends on a missing turn.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mfreitas/studypilot/internal/backend"
	"github.com/mfreitas/studypilot/internal/errors"
	"github.com/mfreitas/studypilot/internal/logger"
	"github.com/mfreitas/studypilot/internal/models"
	"github.com/mfreitas/studypilot/internal/outbox"
	"github.com/mfreitas/studypilot/internal/store"
)

const fallbackReply = "I'm sorry, I couldn't process your request. Please try again."

// Agents is the fixed tutoring agent catalog.
var Agents = []models.Agent{
	{
		ID:          models.AgentCoachBot,
		Name:        "CoachBot",
		Description: "Your personal study coach. Helps you plan study sessions, set goals, and stay motivated.",
		Avatar:      "🎯",
		SuggestedPrompts: []string{
			"Create a study plan for my DFS-215 exam",
			"What topics should I focus on this week?",
			"How can I improve my quiz scores?",
			"Help me stay motivated to study",
		},
	},
	{
		ID:          models.AgentStudyBuddy,
		Name:        "StudyBuddy",
		Description: "Your friendly study companion. Explains concepts, answers questions, and helps you understand material.",
		Avatar:      "📚",
		SuggestedPrompts: []string{
			"Explain insurance regulations in Florida",
			"What's the difference between term and whole life insurance?",
			"Help me understand CE requirements",
			"Quiz me on Chapter 5 material",
		},
	},
	{
		ID:          models.AgentProctorBot,
		Name:        "ProctorBot",
		Description: "Your exam preparation expert. Simulates exam conditions and provides detailed feedback.",
		Avatar:      "🎓",
		SuggestedPrompts: []string{
			"Start a practice exam session",
			"What are common exam mistakes?",
			"Review my last exam performance",
			"Give me tips for test-taking",
		},
	},
}

// AgentByID looks an agent up in the catalog.
func AgentByID(id models.AgentID) (models.Agent, bool) {
	for _, a := range Agents {
		if a.ID == id {
			return a, true
		}
	}
	return models.Agent{}, false
}

// Service sends messages and keeps per-agent transcripts in the local store.
type Service struct {
	gateway backend.Gateway
	queue   *outbox.Queue
	st      *store.Store
	log     *logger.Logger
	viewID  string
}

// NewService creates a chat service. The view id scopes one app run's
// conversation context on the backend side.
func NewService(gateway backend.Gateway, queue *outbox.Queue, st *store.Store) *Service {
	return &Service{
		gateway: gateway,
		queue:   queue,
		st:      st,
		log:     logger.Default().WithPrefix("chat"),
		viewID:  uuid.NewString(),
	}
}

// Send appends the user's message to the agent's transcript, asks the
// backend for a reply and appends that too. A failed backend call still
// appends an apologetic assistant turn so the conversation stays balanced;
// the error is returned alongside the updated transcript.
func (s *Service) Send(ctx context.Context, agentID models.AgentID, content string) ([]models.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.NewValidationError("message", "must not be empty")
	}
	if _, ok := AgentByID(agentID); !ok {
		return nil, errors.NewNotFoundError("agent", string(agentID))
	}

	transcript, err := s.Transcript(ctx, agentID)
	if err != nil {
		return nil, err
	}
	transcript = append(transcript, models.ChatMessage{
		ID:        uuid.NewString(),
		Role:      "user",
		Content:   content,
		Timestamp: time.Now(),
	})

	reply, chatErr := s.gateway.ChatWithAgent(ctx, agentID, content, s.viewID)
	assistant := models.ChatMessage{
		ID:        uuid.NewString(),
		Role:      "assistant",
		Timestamp: time.Now(),
	}
	if chatErr != nil {
		s.log.Warn("chat with %s failed: %v", agentID, chatErr)
		assistant.Content = fallbackReply
		// Transient failures still reach the agent eventually; the live
		// reply is lost but the message lands in its context.
		if errors.IsRetryable(chatErr) {
			if _, qErr := s.queue.Enqueue(ctx, models.ActionAgentChat,
				fmt.Sprintf("/api/agents/%s/chat", agentID), "POST",
				models.AgentChatPayload{AgentID: string(agentID), Message: content, ViewID: s.viewID}); qErr != nil {
				s.log.Warn("failed to queue chat message: %v", qErr)
			}
		}
	} else {
		assistant.Content = reply.Message
		assistant.Citations = reply.Citations
		assistant.Steps = reply.Steps
	}
	transcript = append(transcript, assistant)

	if err := s.st.PutJSON(ctx, store.ConversationKey(string(agentID)), transcript); err != nil {
		return nil, err
	}
	return transcript, chatErr
}

// Transcript returns the persisted conversation with an agent, oldest first.
func (s *Service) Transcript(ctx context.Context, agentID models.AgentID) ([]models.ChatMessage, error) {
	var transcript []models.ChatMessage
	if _, err := s.st.GetJSON(ctx, store.ConversationKey(string(agentID)), &transcript); err != nil {
		return nil, err
	}
	return transcript, nil
}

// Clear wipes the conversation with one agent.
func (s *Service) Clear(ctx context.Context, agentID models.AgentID) error {
	return s.st.Delete(ctx, store.ConversationKey(string(agentID)))
}
