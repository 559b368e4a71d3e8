package backend_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfreitas/studypilot/internal/auth"
	"github.com/mfreitas/studypilot/internal/backend"
	"github.com/mfreitas/studypilot/internal/errors"
	"github.com/mfreitas/studypilot/internal/models"
)

// fakeBackend stands in for the learning platform during gateway tests.
func fakeBackend(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var seenAuth []string

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			seenAuth = append(seenAuth, req.Header.Get("Authorization"))
			next.ServeHTTP(w, req)
		})
	})

	r.Get("/api/question-banks", func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode([]models.QuestionBank{
			{ID: "dfs-215", Title: "DFS-215 Final", QuestionCount: 50, TimeLimit: 60, PassingScore: 70},
		})
	})
	r.Get("/api/iflash/cards", func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(models.CardList{
			Cards:    []models.Flashcard{{ID: "c1", Type: models.CardTypeTerm, Question: "q", Answer: "a"}},
			TotalDue: 1,
		})
	})
	r.Post("/api/exams/{bankId}/start", func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(backend.StartExamResponse{
			SessionID: "sess-1",
			Questions: []models.ExamQuestion{{ID: "q1", Question: "?", Options: []string{"A", "B"}}},
			TimeLimit: 60,
		})
	})
	r.Post("/api/exams/{sessionId}/answer", func(w http.ResponseWriter, req *http.Request) {
		var body models.ExamAnswerPayload
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		if body.QuestionID == "" || body.Answer == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"message": "missing answer"})
			return
		}
		w.Write([]byte(`{"ok":true}`))
	})
	r.Post("/api/exams/{sessionId}/finish", func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(models.ExamResult{Score: 80, Passed: true, TotalQuestions: 50, CorrectAnswers: 40})
	})
	r.Post("/api/flashcards/{cardId}/review", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	})
	r.Post("/api/agents/{agentId}/chat", func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(models.ChatReply{Role: "assistant", Message: "hello"})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, &seenAuth
}

func newClient(srv *httptest.Server, token string) *backend.Client {
	return backend.New(srv.URL, auth.NewStaticProvider(token), 5*time.Second)
}

func TestClient_AttachesBearerToken(t *testing.T) {
	srv, seenAuth := fakeBackend(t)
	c := newClient(srv, "tok-123")

	_, err := c.QuestionBanks(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, *seenAuth)
	assert.Equal(t, "Bearer tok-123", (*seenAuth)[0])
}

func TestClient_NoTokenMeansNoHeader(t *testing.T) {
	srv, seenAuth := fakeBackend(t)
	c := newClient(srv, "")

	_, err := c.QuestionBanks(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, *seenAuth)
	assert.Empty(t, (*seenAuth)[0])
}

func TestClient_QuestionBanks(t *testing.T) {
	srv, _ := fakeBackend(t)
	c := newClient(srv, "tok")

	banks, err := c.QuestionBanks(context.Background())
	require.NoError(t, err)
	require.Len(t, banks, 1)
	assert.Equal(t, "dfs-215", banks[0].ID)
	assert.Equal(t, 60, banks[0].TimeLimit)
}

func TestClient_ExamFlow(t *testing.T) {
	srv, _ := fakeBackend(t)
	c := newClient(srv, "tok")
	ctx := context.Background()

	start, err := c.StartExam(ctx, "dfs-215")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", start.SessionID)
	require.Len(t, start.Questions, 1)

	require.NoError(t, c.SubmitAnswer(ctx, start.SessionID, "q1", "B"))

	result, err := c.FinishExam(ctx, start.SessionID)
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Equal(t, 40, result.CorrectAnswers)
}

func TestClient_ServerErrorClassification(t *testing.T) {
	srv, _ := fakeBackend(t)
	c := newClient(srv, "tok")

	err := c.SubmitAnswer(context.Background(), "sess-1", "", "")
	require.Error(t, err)
	assert.False(t, errors.IsRetryable(err), "4xx validation errors must be terminal")
	assert.Contains(t, err.Error(), "missing answer")
}

func TestClient_ConnectivityErrorClassification(t *testing.T) {
	srv, _ := fakeBackend(t)
	srv.Close() // refuse connections from here on
	c := newClient(srv, "tok")

	_, err := c.Flashcards(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsConnectivity(err))
	assert.True(t, errors.IsRetryable(err))
}

func TestClient_ChatWithAgent(t *testing.T) {
	srv, _ := fakeBackend(t)
	c := newClient(srv, "tok")

	reply, err := c.ChatWithAgent(context.Background(), models.AgentCoachBot, "help me study", "view-1")
	require.NoError(t, err)
	assert.Equal(t, "assistant", reply.Role)
	assert.Equal(t, "hello", reply.Message)
}
