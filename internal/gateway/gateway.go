// Package gateway тонкий HTTP-клиент удалённого ресурса расписаний.
// Клиент не хранит состояние лекций между вызовами и ничего не повторяет:
// каждый вызов либо успешен, либо возвращает типизированную ошибку.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Freeeeeet/timetable_builder/internal/dto"
	"github.com/Freeeeeet/timetable_builder/internal/model"
	"go.uber.org/zap"
)

// TokenHeader заголовок, в котором сервер ждёт токен сессии
const TokenHeader = "x-access-token"

const maxErrorBody = 4 << 10

type Client struct {
	baseURL     string
	httpClient  *http.Client
	credentials CredentialProvider
	logger      *zap.Logger
}

func NewClient(baseURL string, httpClient *http.Client, credentials CredentialProvider, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = DefaultHTTPClient(10 * time.Second)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  httpClient,
		credentials: credentials,
		logger:      logger,
	}
}

func DefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// WithCredentials копия клиента с другим источником токена.
// HTTP-клиент общий, поэтому копия дешёвая.
func (c *Client) WithCredentials(credentials CredentialProvider) *Client {
	cp := *c
	cp.credentials = credentials
	return &cp
}

// FetchLectures GET /v1/tables/{id}
func (c *Client) FetchLectures(ctx context.Context, timetableID string) ([]model.Lecture, error) {
	var table dto.Table
	if err := c.do(ctx, http.MethodGet, tablePath(timetableID), nil, &table); err != nil {
		return nil, fmt.Errorf("fetch lectures: %w", err)
	}

	lectures := make([]model.Lecture, 0, len(table.LectureList))
	for _, w := range table.LectureList {
		lectures = append(lectures, c.toModel(timetableID, w))
	}
	return lectures, nil
}

// CreateLecture POST /v1/tables/{id}/lecture, id назначает сервер
func (c *Client) CreateLecture(ctx context.Context, timetableID string, draft model.LectureDraft) (model.Lecture, error) {
	var created dto.Lecture
	if err := c.do(ctx, http.MethodPost, tablePath(timetableID)+"/lecture", dto.FromDraft(draft), &created); err != nil {
		return model.Lecture{}, fmt.Errorf("create lecture: %w", err)
	}
	if created.ID == "" {
		return model.Lecture{}, fmt.Errorf("create lecture: %w: response without id", ErrServer)
	}
	return c.toModel(timetableID, created), nil
}

// ReplaceLecture PUT /v1/tables/{id}/lecture/{lecture_id}, полная замена
func (c *Client) ReplaceLecture(ctx context.Context, timetableID string, lecture model.Lecture) (model.Lecture, error) {
	var updated dto.Lecture
	path := tablePath(timetableID) + "/lecture/" + url.PathEscape(lecture.ID)
	if err := c.do(ctx, http.MethodPut, path, dto.FromLecture(lecture), &updated); err != nil {
		return model.Lecture{}, fmt.Errorf("replace lecture: %w", err)
	}
	return c.toModel(timetableID, updated), nil
}

// DeleteLecture DELETE /v1/tables/{id}/lecture/{lecture_id}
func (c *Client) DeleteLecture(ctx context.Context, timetableID, lectureID string) error {
	path := tablePath(timetableID) + "/lecture/" + url.PathEscape(lectureID)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete lecture: %w", err)
	}
	return nil
}

// SignIn POST /v1/auth/login_local. Единственный вызов без токена.
func (c *Client) SignIn(ctx context.Context, login, password string) (string, error) {
	var resp dto.LoginResponse
	body := dto.LoginRequest{ID: login, Password: password}
	if err := c.send(ctx, http.MethodPost, "/v1/auth/login_local", "", body, &resp); err != nil {
		return "", fmt.Errorf("sign in: %w", err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("sign in: %w: empty token", ErrServer)
	}
	return resp.Token, nil
}

func (c *Client) toModel(timetableID string, w dto.Lecture) model.Lecture {
	lecture, dropped := dto.ToLecture(w)
	if dropped > 0 {
		c.logger.Warn("Dropped time slots on unsupported days",
			zap.String("timetable_id", timetableID),
			zap.String("lecture_id", w.ID),
			zap.Int("dropped", dropped))
	}
	return lecture
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.credentials == nil {
		return ErrUnauthorized
	}
	token, err := c.credentials.Credential(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	if token == "" {
		return ErrUnauthorized
	}
	return c.send(ctx, method, path, token, body, out)
}

func (c *Client) send(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(TokenHeader, token)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(ctx, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Remote call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrServer, err)
	}
	return nil
}

func transportError(ctx context.Context, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrNetwork, err)
}

func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	message := strings.TrimSpace(string(raw))
	var parsed dto.ErrorResponse
	if json.Unmarshal(raw, &parsed) == nil && parsed.Message != "" {
		message = parsed.Message
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, message)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", model.ErrValidation, message)
	default:
		return fmt.Errorf("%w: unexpected status %d: %s", ErrServer, resp.StatusCode, message)
	}
}

func tablePath(timetableID string) string {
	return "/v1/tables/" + url.PathEscape(timetableID)
}
