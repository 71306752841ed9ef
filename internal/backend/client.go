package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"quiz-admin/internal/domain"
)

const DefaultBaseURL = "http://127.0.0.1:8000"

// ErrServiceUnavailable wraps transport failures (refused, reset, timed out).
var ErrServiceUnavailable = errors.New("quiz backend unavailable")

// APIError is a non-2xx response. Detail holds the server's message when it sent one.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Detail) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Detail
}

// DetailOr returns the server detail of an *APIError in err, or fallback.
func DetailOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Detail) != "" {
		return apiErr.Detail
	}
	return fallback
}

// Client talks JSON to the quiz backend's admin and game endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// CreatedQuiz is the part of a create/update response the client uses.
type CreatedQuiz struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// RemoteQuiz is a full quiz as returned by GET /api/admin/quiz/{id}.
type RemoteQuiz struct {
	ID int64
	domain.QuizPayload
}

type quizListItem struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	CreatedAt     string `json:"created_at"`
	QuestionCount int    `json:"question_count"`
}

type remoteAnswer struct {
	AnswerText string `json:"answer_text"`
	IsCorrect  bool   `json:"is_correct"`
	Order      int    `json:"order"`
}

type remoteQuestion struct {
	QuestionText string         `json:"question_text"`
	TimeLimit    int            `json:"time_limit"`
	Order        int            `json:"order"`
	Answers      []remoteAnswer `json:"answers"`
}

type remoteQuizResponse struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Description *string          `json:"description"`
	Questions   []remoteQuestion `json:"questions"`
}

type startGameRequest struct {
	QuizID int64 `json:"quiz_id"`
}

type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

func NewClient(baseURL string, httpClient *http.Client, log *zap.Logger) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{baseURL: baseURL, httpClient: httpClient, log: log}
}

// BaseURL is the normalized backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HostURL is where the host view for a game lives.
func (c *Client) HostURL(gameCode string) string {
	return c.baseURL + "/host/" + gameCode
}

func (c *Client) CreateQuiz(ctx context.Context, payload domain.QuizPayload) (CreatedQuiz, error) {
	var out CreatedQuiz
	if err := c.doJSON(ctx, http.MethodPost, "/api/admin/quiz", payload, &out); err != nil {
		return CreatedQuiz{}, err
	}
	return out, nil
}

func (c *Client) UpdateQuiz(ctx context.Context, quizID int64, payload domain.QuizPayload) (CreatedQuiz, error) {
	var out CreatedQuiz
	if err := c.doJSON(ctx, http.MethodPut, quizPath(quizID), payload, &out); err != nil {
		return CreatedQuiz{}, err
	}
	return out, nil
}

func (c *Client) GetQuiz(ctx context.Context, quizID int64) (RemoteQuiz, error) {
	var raw remoteQuizResponse
	if err := c.doJSON(ctx, http.MethodGet, quizPath(quizID), nil, &raw); err != nil {
		return RemoteQuiz{}, err
	}

	out := RemoteQuiz{ID: raw.ID}
	out.Title = raw.Title
	if raw.Description != nil {
		out.Description = *raw.Description
	}
	out.Questions = make([]domain.QuestionPayload, 0, len(raw.Questions))
	for _, q := range sortedQuestions(raw.Questions) {
		qp := domain.QuestionPayload{
			QuestionText: q.QuestionText,
			TimeLimit:    q.TimeLimit,
			Order:        q.Order,
			Answers:      make([]domain.AnswerPayload, 0, len(q.Answers)),
		}
		for _, a := range sortedAnswers(q.Answers) {
			qp.Answers = append(qp.Answers, domain.AnswerPayload(a))
		}
		out.Questions = append(out.Questions, qp)
	}
	return out, nil
}

func (c *Client) ListQuizzes(ctx context.Context) ([]domain.QuizSummary, error) {
	var items []quizListItem
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/quiz", nil, &items); err != nil {
		return nil, err
	}

	quizzes := make([]domain.QuizSummary, 0, len(items))
	for _, item := range items {
		createdAt, err := parseTime(item.CreatedAt)
		if err != nil {
			c.log.Debug("unparseable created_at", zap.Int64("quiz_id", item.ID), zap.String("raw", item.CreatedAt))
		}
		quizzes = append(quizzes, domain.QuizSummary{
			ID:            item.ID,
			Title:         item.Title,
			Description:   item.Description,
			QuestionCount: item.QuestionCount,
			CreatedAt:     createdAt,
		})
	}
	return quizzes, nil
}

func (c *Client) DeleteQuiz(ctx context.Context, quizID int64) error {
	return c.doJSON(ctx, http.MethodDelete, quizPath(quizID), nil, nil)
}

func (c *Client) StartGame(ctx context.Context, quizID int64) (domain.GameSession, error) {
	var out domain.GameSession
	if err := c.doJSON(ctx, http.MethodPost, "/api/game/start", startGameRequest{QuizID: quizID}, &out); err != nil {
		return domain.GameSession{}, err
	}
	return out, nil
}

func quizPath(quizID int64) string {
	return "/api/admin/quiz/" + strconv.FormatInt(quizID, 10)
}

func (c *Client) doJSON(ctx context.Context, method, path string, requestBody any, responseBody any) error {
	fullURL := c.baseURL + path

	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return err
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("Accept", "application/json")

	started := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		c.log.Debug("backend request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer response.Body.Close()

	c.log.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", response.StatusCode),
		zap.Duration("took", time.Since(started)),
	)

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := APIError{StatusCode: response.StatusCode}
		var payload errorResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil {
			apiErr.Detail = detailText(payload.Detail)
		}
		return &apiErr
	}

	if responseBody == nil || response.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(responseBody)
}
