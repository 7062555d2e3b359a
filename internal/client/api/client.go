// Package api is the HTTP client for the back-office server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"apexdrive/internal/core/domain"
)

var (
	// ErrUnauthorized is returned on 401 responses (no valid credentials).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned on 403 responses (expired or invalid token).
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is returned on 404 responses.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned on 409 responses (terminal status conflict).
	ErrConflict = errors.New("conflict")
)

// RequestFactory builds HTTP requests, attaching credentials when it has any.
// session.Manager satisfies this for authenticated sessions.
type RequestFactory interface {
	NewRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error)
}

// anonymous builds bare requests for unauthenticated calls.
type anonymous struct{}

func (anonymous) NewRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	return http.NewRequestWithContext(ctx, method, url, body)
}

// envelope is the server's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Application mirrors the server's loan application DTO.
type Application struct {
	ID        uint      `json:"id"`
	Reference string    `json:"reference"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Amount    float64   `json:"amount"`
	LoanType  string    `json:"loan_type"`
	Message   string    `json:"message,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResult is the payload of a successful login. ExpiresAt is the
// server's statement of the token window.
type LoginResult struct {
	AccessToken string          `json:"access_token"`
	ExpiresAt   time.Time       `json:"expires_at"`
	User        domain.Identity `json:"user"`
}

// Client talks to the back-office API. Requests are built through the
// configured RequestFactory so the session layer can attach the bearer
// token and register activity.
type Client struct {
	baseURL string
	http    *http.Client
	factory RequestFactory
}

func NewClient(baseURL string, factory RequestFactory) *Client {
	if factory == nil {
		factory = anonymous{}
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		factory: factory,
	}
}

// AdminLogin authenticates an admin account and returns the token and identity.
func (c *Client) AdminLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	env, err := c.call(ctx, http.MethodPost, "/api/v1/auth/admin-login", body)
	if err != nil {
		return nil, err
	}
	var result LoginResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	if result.AccessToken == "" {
		return nil, errors.New("empty access token in login response")
	}
	return &result, nil
}

// Applications fetches the full application list, newest first.
func (c *Client) Applications(ctx context.Context) ([]Application, error) {
	env, err := c.call(ctx, http.MethodGet, "/api/v1/loan-applications", nil)
	if err != nil {
		return nil, err
	}
	var apps []Application
	if err := json.Unmarshal(env.Data, &apps); err != nil {
		return nil, fmt.Errorf("decode applications: %w", err)
	}
	return apps, nil
}

// ApplicationIDs fetches only the IDs of the current applications. The
// notification poller runs on this.
func (c *Client) ApplicationIDs(ctx context.Context) ([]uint, error) {
	apps, err := c.Applications(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.ID)
	}
	return ids, nil
}

// MarkProcessed transitions an application to processed.
func (c *Client) MarkProcessed(ctx context.Context, id uint) (*Application, error) {
	return c.patchApplication(ctx, fmt.Sprintf("/api/v1/loan-applications/%d", id))
}

// Cancel transitions an application to cancelled.
func (c *Client) Cancel(ctx context.Context, id uint) (*Application, error) {
	return c.patchApplication(ctx, fmt.Sprintf("/api/v1/loan-applications/%d/cancel", id))
}

func (c *Client) patchApplication(ctx context.Context, path string) (*Application, error) {
	env, err := c.call(ctx, http.MethodPatch, path, nil)
	if err != nil {
		return nil, err
	}
	var app Application
	if err := json.Unmarshal(env.Data, &app); err != nil {
		return nil, fmt.Errorf("decode application: %w", err)
	}
	return &app, nil
}

// Delete removes an application permanently.
func (c *Client) Delete(ctx context.Context, id uint) error {
	_, err := c.call(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/loan-applications/%d", id), nil)
	return err
}

func (c *Client) call(ctx context.Context, method, path string, body []byte) (*envelope, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := c.factory.NewRequest(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response (%s): %w", resp.Status, err)
	}
	if resp.StatusCode < 300 {
		return &env, nil
	}
	msg := env.Error
	if msg == "" {
		msg = env.Message
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s", ErrForbidden, msg)
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, msg)
	case http.StatusConflict:
		return nil, fmt.Errorf("%w: %s", ErrConflict, msg)
	default:
		return nil, fmt.Errorf("request failed (%s): %s", resp.Status, msg)
	}
}
