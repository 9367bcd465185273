// Package remote is the typed HTTP client for the zenfocusd API. It is the
// only place the client core touches the network.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"zenfocus/internal/model"
)

// ErrUnauthorized marks a 401 from an authenticated route: the token is
// expired or revoked and the caller should drop to guest mode.
var ErrUnauthorized = errors.New("remote: unauthorized")

// APIFailure is a non-2xx response other than 401.
type APIFailure struct {
	Status  int
	Code    string
	Message string
}

func (e *APIFailure) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("remote: status %d", e.Status)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) GetSettings(ctx context.Context, token string) (*model.Settings, error) {
	var settings model.Settings
	if err := c.do(ctx, http.MethodGet, "/api/settings", token, nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (c *Client) PutSettings(ctx context.Context, token string, settings model.Settings) error {
	return c.do(ctx, http.MethodPost, "/api/settings", token, settings, nil)
}

func (c *Client) GetTasks(ctx context.Context, token string) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks", token, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, token string, task model.Task) error {
	return c.do(ctx, http.MethodPost, "/api/tasks", token, task, nil)
}

// TaskPatch is a partial task update; nil fields are omitted from the body.
type TaskPatch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

func (c *Client) UpdateTask(ctx context.Context, token, taskID string, patch TaskPatch) error {
	return c.do(ctx, http.MethodPatch, "/api/tasks/"+taskID, token, patch, nil)
}

func (c *Client) DeleteTask(ctx context.Context, token, taskID string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+taskID, token, nil, nil)
}

func (c *Client) GetSessions(ctx context.Context, token string) ([]model.Session, error) {
	var sessions []model.Session
	if err := c.do(ctx, http.MethodGet, "/api/sessions", token, nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (c *Client) RecordSession(ctx context.Context, token string, session model.Session) error {
	return c.do(ctx, http.MethodPost, "/api/sessions", token, session, nil)
}

func (c *Client) GetTheme(ctx context.Context, token string) (string, error) {
	var theme string
	if err := c.do(ctx, http.MethodGet, "/api/theme", token, nil, &theme); err != nil {
		return "", err
	}
	return theme, nil
}

func (c *Client) PutTheme(ctx context.Context, token, theme string) error {
	body := map[string]string{"theme": theme}
	return c.do(ctx, http.MethodPost, "/api/theme", token, body, nil)
}

type authResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

func (c *Client) Register(ctx context.Context, email, password, name string) (*model.AuthIdentity, error) {
	body := map[string]string{"email": email, "password": password, "name": name}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", "", body, &resp); err != nil {
		return nil, err
	}
	return &model.AuthIdentity{User: resp.User, Token: resp.Token}, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*model.AuthIdentity, error) {
	body := map[string]string{"email": email, "password": password}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body, &resp); err != nil {
		return nil, err
	}
	return &model.AuthIdentity{User: resp.User, Token: resp.Token}, nil
}

func (c *Client) Me(ctx context.Context, token string) (*model.User, error) {
	var resp struct {
		User model.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, into interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("remote: encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("remote: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("remote: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("remote: read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		failure := &APIFailure{Status: resp.StatusCode}
		var envelope errorEnvelope
		if json.Unmarshal(raw, &envelope) == nil {
			failure.Code = envelope.Error.Code
			failure.Message = envelope.Error.Message
		}
		return failure
	}

	if into != nil {
		if err := json.Unmarshal(raw, into); err != nil {
			return fmt.Errorf("remote: decode response: %w", err)
		}
	}
	return nil
}
