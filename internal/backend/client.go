package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mfreitas/studypilot/internal/auth"
	"github.com/mfreitas/studypilot/internal/errors"
	"github.com/mfreitas/studypilot/internal/logger"
	"github.com/mfreitas/studypilot/internal/models"
)

// Client talks JSON over HTTPS to the learning-platform backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     auth.TokenProvider
	log        *logger.Logger
}

// New creates a gateway client for the given base URL.
func New(baseURL string, tokens auth.TokenProvider, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		log:        logger.Default().WithPrefix("backend"),
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// errorBody is the message shape the backend uses for non-2xx responses.
type errorBody struct {
	Message string `json:"message"`
	Error   struct {
		Message string `json:"message"`
	} `json:"error"`
}

// do performs one request. Transport failures become connectivity errors,
// non-2xx responses become server errors with the backend status preserved.
// When out is non-nil the response body is decoded into it.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	log := logger.FromContext(ctx).WithPrefix("backend").WithField("path", path)

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.NewInternalError(err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	token, err := c.tokens.Token(ctx)
	if err != nil {
		log.Warn("token provider failed, sending unauthenticated: %v", err)
	} else if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug("request failed after %v: %v", time.Since(start), err)
		return errors.NewConnectivityError(err)
	}
	defer resp.Body.Close()

	log.Debug("%s %s -> %d in %v", method, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var eb errorBody
		msg := ""
		if json.Unmarshal(raw, &eb) == nil {
			msg = eb.Message
			if msg == "" {
				msg = eb.Error.Message
			}
		}
		log.Warn("backend error: status=%d message=%q", resp.StatusCode, msg)
		return errors.NewServerError(resp.StatusCode, msg)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			log.Error("failed to decode response: %v", err)
			return errors.NewInternalError(err)
		}
	}
	return nil
}

func (c *Client) QuestionBanks(ctx context.Context) ([]models.QuestionBank, error) {
	var banks []models.QuestionBank
	if err := c.do(ctx, http.MethodGet, "/api/question-banks", nil, &banks); err != nil {
		return nil, err
	}
	return banks, nil
}

func (c *Client) Flashcards(ctx context.Context) (*models.CardList, error) {
	var list models.CardList
	if err := c.do(ctx, http.MethodGet, "/api/iflash/cards", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) RecentLessons(ctx context.Context) ([]models.Lesson, error) {
	var lessons []models.Lesson
	if err := c.do(ctx, http.MethodGet, "/api/lessons/recent", nil, &lessons); err != nil {
		return nil, err
	}
	return lessons, nil
}

func (c *Client) LessonBySlug(ctx context.Context, slug string) (*models.Lesson, error) {
	var lesson models.Lesson
	path := "/api/lessons/enhanced/" + url.PathEscape(slug)
	if err := c.do(ctx, http.MethodGet, path, nil, &lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (c *Client) UserMetrics(ctx context.Context) (*models.UserMetrics, error) {
	var m models.UserMetrics
	if err := c.do(ctx, http.MethodGet, "/api/dashboard/user-metrics", nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) CourseProgress(ctx context.Context) (*models.CourseProgress, error) {
	var p models.CourseProgress
	if err := c.do(ctx, http.MethodGet, "/api/courses/progress", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) StartExam(ctx context.Context, bankID string) (*StartExamResponse, error) {
	var out StartExamResponse
	path := fmt.Sprintf("/api/exams/%s/start", url.PathEscape(bankID))
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SubmitAnswer(ctx context.Context, sessionID, questionID, answer string) error {
	path := fmt.Sprintf("/api/exams/%s/answer", url.PathEscape(sessionID))
	body := map[string]string{"questionId": questionID, "answer": answer}
	return c.do(ctx, http.MethodPost, path, body, nil)
}

func (c *Client) FinishExam(ctx context.Context, sessionID string) (*models.ExamResult, error) {
	var result models.ExamResult
	path := fmt.Sprintf("/api/exams/%s/finish", url.PathEscape(sessionID))
	if err := c.do(ctx, http.MethodPost, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) SubmitFlashcardReview(ctx context.Context, cardID string, grade models.SRSGrade) error {
	path := fmt.Sprintf("/api/flashcards/%s/review", url.PathEscape(cardID))
	body := map[string]int{"grade": int(grade)}
	return c.do(ctx, http.MethodPost, path, body, nil)
}

func (c *Client) SaveLessonProgress(ctx context.Context, lessonID string, progress float64, completed bool) error {
	path := fmt.Sprintf("/api/lessons/%s/enhanced-progress", url.PathEscape(lessonID))
	body := map[string]any{"progress": progress, "completed": completed}
	return c.do(ctx, http.MethodPost, path, body, nil)
}

func (c *Client) SaveCheckpointProgress(ctx context.Context, lessonID, checkpoint string, completed bool) error {
	path := fmt.Sprintf("/api/lessons/%s/checkpoint-progress", url.PathEscape(lessonID))
	body := map[string]any{"checkpoint": checkpoint, "completed": completed}
	return c.do(ctx, http.MethodPost, path, body, nil)
}

func (c *Client) ChatWithAgent(ctx context.Context, agentID models.AgentID, message, viewID string) (*models.ChatReply, error) {
	var reply models.ChatReply
	path := fmt.Sprintf("/api/agents/%s/chat", url.PathEscape(string(agentID)))
	body := map[string]string{"message": message, "viewId": viewID}
	if err := c.do(ctx, http.MethodPost, path, body, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}
