package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mfreitas/studypilot/internal/achievements"
	"github.com/mfreitas/studypilot/internal/api"
	"github.com/mfreitas/studypilot/internal/backend"
	"github.com/mfreitas/studypilot/internal/billing"
	"github.com/mfreitas/studypilot/internal/chat"
	"github.com/mfreitas/studypilot/internal/connectivity"
	"github.com/mfreitas/studypilot/internal/exam"
	"github.com/mfreitas/studypilot/internal/lessons"
	"github.com/mfreitas/studypilot/internal/models"
	"github.com/mfreitas/studypilot/internal/notify"
	"github.com/mfreitas/studypilot/internal/outbox"
	"github.com/mfreitas/studypilot/internal/review"
	"github.com/mfreitas/studypilot/internal/testutil"
	"github.com/mfreitas/studypilot/internal/testutil/mocks"
)

type HandlersSuite struct {
	suite.Suite
	gateway *mocks.MockGateway
	monitor *connectivity.Monitor
	queue   *outbox.Queue
	lessons *lessons.Service
	srv     *httptest.Server
}

type fixedProber struct{ online bool }

func (p fixedProber) Probe(ctx context.Context) bool { return p.online }

func (s *HandlersSuite) SetupTest() {
	s.gateway = new(mocks.MockGateway)
	st := testutil.NewTestStore(s.T())

	// Never started; Online() reports the initial state until SetOnline.
	s.monitor = connectivity.NewMonitor(fixedProber{online: true}, time.Hour)
	s.queue = outbox.New(st, s.gateway, s.monitor, 5)
	notifier := notify.NewService(st)

	examEngine := exam.NewEngine(s.gateway, s.queue, exam.WithTickInterval(time.Hour))
	s.T().Cleanup(examEngine.Stop)

	server := api.NewServer()
	server.Gateway = s.gateway
	server.Store = st
	server.Monitor = s.monitor
	server.Queue = s.queue
	server.Exam = examEngine
	server.Review = review.NewEngine(s.gateway, s.queue, st)
	server.Achievements = achievements.NewEvaluator(st, notifier)
	server.Chat = chat.NewService(s.gateway, s.queue, st)
	s.lessons = lessons.NewService(s.gateway, s.queue)
	server.Lessons = s.lessons
	server.Notify = notifier
	server.Billing = billing.Disabled{}

	s.srv = httptest.NewServer(server.Routes())
	s.T().Cleanup(s.srv.Close)
}

func (s *HandlersSuite) do(method, path string, body any) *http.Response {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.srv.URL+path, &buf)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.srv.Client().Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *HandlersSuite) decode(resp *http.Response, dst any) {
	defer resp.Body.Close()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(dst))
}

func (s *HandlersSuite) TestHealth() {
	resp := s.do(http.MethodGet, "/api/health", nil)
	s.Assert().Equal(http.StatusOK, resp.StatusCode)

	var body map[string]string
	s.decode(resp, &body)
	s.Assert().Equal("ok", body["status"])
}

func (s *HandlersSuite) TestStatusReportsConnectivityAndQueue() {
	resp := s.do(http.MethodGet, "/api/status", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var body struct {
		Online bool         `json:"online"`
		Queue  outbox.Stats `json:"queue"`
	}
	s.decode(resp, &body)
	s.Assert().True(body.Online)
	s.Assert().Equal(outbox.Stats{}, body.Queue)
}

func (s *HandlersSuite) TestExamFlow() {
	questions := []models.ExamQuestion{
		{ID: "q1", Question: "Q1", Options: []string{"A", "B"}},
		{ID: "q2", Question: "Q2", Options: []string{"A", "B"}},
	}
	s.gateway.On("StartExam", mock.Anything, "bank-7").
		Return(&backend.StartExamResponse{SessionID: "sess-1", Questions: questions, TimeLimit: 10}, nil)
	s.gateway.On("SubmitAnswer", mock.Anything, "sess-1", "q1", "B").Return(nil)
	s.gateway.On("FinishExam", mock.Anything, "sess-1").
		Return(&models.ExamResult{Score: 50, TotalQuestions: 2, CorrectAnswers: 1}, nil)

	resp := s.do(http.MethodPost, "/api/exams/bank-7/start", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var state struct {
		State         string `json:"state"`
		TimeRemaining int    `json:"timeRemaining"`
		AnsweredCount int    `json:"answeredCount"`
	}
	s.decode(resp, &state)
	s.Assert().Equal("in_progress", state.State)
	s.Assert().Equal(600, state.TimeRemaining)

	resp = s.do(http.MethodPost, "/api/exam/answer", map[string]string{"questionId": "q1", "answer": "B"})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &state)
	s.Assert().Equal(1, state.AnsweredCount)

	resp = s.do(http.MethodPost, "/api/exam/finish", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var result models.ExamResult
	s.decode(resp, &result)
	s.Assert().Equal(50.0, result.Score)

	resp = s.do(http.MethodGet, "/api/exam/result", nil)
	s.Assert().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func (s *HandlersSuite) TestExamAnswerValidation() {
	resp := s.do(http.MethodPost, "/api/exam/answer", map[string]string{"questionId": ""})
	defer resp.Body.Close()
	s.Assert().Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *HandlersSuite) TestExamResultMissing() {
	resp := s.do(http.MethodGet, "/api/exam/result", nil)
	s.Require().Equal(http.StatusNotFound, resp.StatusCode)

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	s.decode(resp, &body)
	s.Assert().Equal("NOT_FOUND", body.Error.Code)
}

func (s *HandlersSuite) TestReviewFlow() {
	cards := []models.Flashcard{
		{ID: "c1", Type: models.CardTypeTerm, Question: "t1", Answer: "d1"},
		{ID: "c2", Type: models.CardTypeMCQ, Question: "t2", Answer: "right", Options: []string{"right", "wrong"}},
	}
	s.gateway.On("Flashcards", mock.Anything).Return(&models.CardList{Cards: cards, TotalDue: 2}, nil)
	s.gateway.On("SubmitFlashcardReview", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	resp := s.do(http.MethodPost, "/api/review/start", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var state struct {
		Session  *models.FlashcardSession `json:"session"`
		Current  *models.Flashcard        `json:"current"`
		Progress float64                  `json:"progress"`
		Complete bool                     `json:"complete"`
	}
	s.decode(resp, &state)
	s.Require().NotNil(state.Current)
	s.Assert().Equal("c1", state.Current.ID)

	resp = s.do(http.MethodPost, "/api/review/grade", map[string]int{"grade": 2})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &state)
	s.Assert().Equal(1, state.Session.Correct)
	s.Assert().Equal(50.0, state.Progress)

	resp = s.do(http.MethodPost, "/api/review/choice", map[string]string{"selected": "wrong"})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &state)
	s.Assert().Equal(1, state.Session.Incorrect)
	s.Assert().True(state.Complete)
}

func (s *HandlersSuite) TestAgentsAndChat() {
	resp := s.do(http.MethodGet, "/api/agents", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var agents []models.Agent
	s.decode(resp, &agents)
	s.Assert().Len(agents, 3)

	s.gateway.On("ChatWithAgent", mock.Anything, models.AgentCoachBot, "hello", mock.Anything).
		Return(&models.ChatReply{Role: "assistant", Message: "hi there"}, nil)

	resp = s.do(http.MethodPost, "/api/agents/coachbot/messages", map[string]string{"message": "hello"})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var body struct {
		Messages  []models.ChatMessage `json:"messages"`
		Delivered bool                 `json:"delivered"`
	}
	s.decode(resp, &body)
	s.Assert().True(body.Delivered)
	s.Require().Len(body.Messages, 2)
	s.Assert().Equal("hi there", body.Messages[1].Content)

	resp = s.do(http.MethodDelete, "/api/agents/coachbot/messages", nil)
	s.Assert().Equal(http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(http.MethodGet, "/api/agents/coachbot/messages", nil)
	var transcript []models.ChatMessage
	s.decode(resp, &transcript)
	s.Assert().Empty(transcript)
}

func (s *HandlersSuite) TestUnknownAgent() {
	resp := s.do(http.MethodGet, "/api/agents/hallbot/messages", nil)
	defer resp.Body.Close()
	s.Assert().Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *HandlersSuite) TestAchievementCheckAndProgress() {
	resp := s.do(http.MethodPost, "/api/achievements/check", map[string]any{"category": "cards", "value": 1})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var body struct {
		Unlocked *models.UnlockedAchievement `json:"unlocked"`
	}
	s.decode(resp, &body)
	s.Require().NotNil(body.Unlocked)
	s.Assert().Equal("first_card", body.Unlocked.ID)

	resp = s.do(http.MethodGet, "/api/achievements/cards/progress?value=50", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var progress []models.AchievementProgress
	s.decode(resp, &progress)
	s.Require().Len(progress, 2)
	s.Assert().Equal(100.0, progress[0].Progress)

	resp = s.do(http.MethodGet, "/api/achievements/bogus/progress", nil)
	s.Assert().Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func (s *HandlersSuite) TestQueueInspection() {
	s.monitor.SetOnline(false)
	s.Require().NoError(s.lessons.SaveProgress(context.Background(), "l1", 40, false))

	resp := s.do(http.MethodGet, "/api/queue", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var entries []models.QueuedAction
	s.decode(resp, &entries)
	s.Require().Len(entries, 1)
	s.Assert().Equal(models.ActionLessonProgress, entries[0].Kind)

	resp = s.do(http.MethodDelete, "/api/queue", nil)
	s.Assert().Equal(http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
}

func (s *HandlersSuite) TestSettingsRoundTrip() {
	resp := s.do(http.MethodGet, "/api/settings", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var settings models.Settings
	s.decode(resp, &settings)
	s.Assert().Equal(models.DefaultSettings(), settings)

	resp = s.do(http.MethodPut, "/api/settings",
		map[string]any{"notifications": false, "haptics": true, "theme": "light"})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(http.MethodGet, "/api/settings", nil)
	s.decode(resp, &settings)
	s.Assert().False(settings.Notifications)
	s.Assert().Equal("light", settings.Theme)
}

func (s *HandlersSuite) TestReminderRoundTrip() {
	resp := s.do(http.MethodPut, "/api/reminder", map[string]any{"hour": 9, "minute": 30, "enabled": true})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var reminder models.StudyReminder
	s.decode(resp, &reminder)
	s.Assert().Equal(9, reminder.Hour)
	s.Assert().True(reminder.Enabled)

	resp = s.do(http.MethodPut, "/api/reminder", map[string]any{"hour": 9, "minute": 30, "enabled": false})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &reminder)
	s.Assert().False(reminder.Enabled)
}

func (s *HandlersSuite) TestBillingDisabled() {
	resp := s.do(http.MethodGet, "/api/billing/products", nil)
	defer resp.Body.Close()
	s.Assert().Equal(http.StatusServiceUnavailable, resp.StatusCode)

	resp2 := s.do(http.MethodGet, "/api/billing/entitlement", nil)
	s.Require().Equal(http.StatusOK, resp2.StatusCode)

	var body map[string]bool
	s.decode(resp2, &body)
	s.Assert().False(body["premium"])
}

func (s *HandlersSuite) TestQuestionBanksPassThrough() {
	banks := []models.QuestionBank{{ID: "b1", Title: fmt.Sprintf("Bank %d", 1), QuestionCount: 40}}
	s.gateway.On("QuestionBanks", mock.Anything).Return(banks, nil)

	resp := s.do(http.MethodGet, "/api/question-banks", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var got []models.QuestionBank
	s.decode(resp, &got)
	s.Assert().Equal(banks, got)
}

func TestHandlersSuite(t *testing.T) {
	suite.Run(t, new(HandlersSuite))
}
