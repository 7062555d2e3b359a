package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"apexdrive/internal/core/domain"
)

// ErrSessionExpired is returned by Resume when the stored token's
// window has already passed.
var ErrSessionExpired = errors.New("stored session has expired")

// Manager owns one client session end to end: the persisted state, the
// inactivity watchdog and a single Done channel that closes exactly once
// when the session ends for any reason (explicit logout or idle timeout).
type Manager struct {
	store       *Store
	idleTimeout time.Duration
	idleWarning time.Duration
	onWarning   func()

	mu    sync.Mutex
	state *State
	idle  *IdleWatch
	done  chan struct{}
	ended bool
}

func NewManager(store *Store, idleTimeout, idleWarning time.Duration, onWarning func()) *Manager {
	return &Manager{
		store:       store,
		idleTimeout: idleTimeout,
		idleWarning: idleWarning,
		onWarning:   onWarning,
		done:        make(chan struct{}),
	}
}

// Login persists the session and arms the inactivity watchdog. Any prior
// in-memory session is replaced.
func (m *Manager) Login(user domain.Identity, token string) error {
	expiry, err := tokenExpiry(token)
	if err != nil {
		return fmt.Errorf("inspect access token: %w", err)
	}
	state := &State{AccessToken: token, User: user, ExpiresAt: expiry}
	if err := m.store.Save(state); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
	m.state = state
	m.armIdleLocked()
	return nil
}

// resetLocked opens a fresh session after a completed Logout. Consumers
// of the previous Done channel saw that session end; a new Login gets a
// new channel.
func (m *Manager) resetLocked() {
	if m.ended {
		m.ended = false
		m.done = make(chan struct{})
	}
}

// Resume restores a persisted session. Returns ErrNoSession when none is
// stored and ErrSessionExpired (clearing the file) when the token window
// has passed.
func (m *Manager) Resume() (*State, error) {
	state, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	if !state.ExpiresAt.IsZero() && time.Now().After(state.ExpiresAt) {
		_ = m.store.Clear()
		return nil, ErrSessionExpired
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
	m.state = state
	m.armIdleLocked()
	return state, nil
}

// Logout ends the session: watchdog stopped, stored state cleared, Done
// closed. Idempotent and safe to call from the watchdog's own callback.
func (m *Manager) Logout() error {
	m.mu.Lock()
	if m.ended {
		m.mu.Unlock()
		return nil
	}
	m.ended = true
	m.state = nil
	idle := m.idle
	m.idle = nil
	close(m.done)
	m.mu.Unlock()

	if idle != nil {
		idle.Stop()
	}
	return m.store.Clear()
}

// Done closes when the current session ends, whether by Logout or idle
// timeout. A later Login starts a fresh session with a fresh channel.
func (m *Manager) Done() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.done
}

// Identity returns the logged-in user, zero-valued when no session.
func (m *Manager) Identity() domain.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return domain.Identity{}
	}
	return m.state.User
}

// Token returns the current access token, empty when no session.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return ""
	}
	return m.state.AccessToken
}

// NewRequest builds a request carrying the bearer token and counts as
// operator activity for the watchdog. Responses are not inspected here;
// the caller decides what a 401 or 403 means for the session.
func (m *Manager) NewRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	return m.newRequest(ctx, method, url, body, true)
}

func (m *Manager) newRequest(ctx context.Context, method, url string, body io.Reader, activity bool) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.state != nil {
		req.Header.Set("Authorization", "Bearer "+m.state.AccessToken)
	}
	idle := m.idle
	m.mu.Unlock()

	if activity && idle != nil {
		idle.Touch()
	}
	return req, nil
}

// BackgroundSession builds authenticated requests on behalf of machine
// traffic. Only user interaction may rearm the inactivity watchdog, so
// these requests never register as activity; a session kept busy by a
// poller alone still idles out.
type BackgroundSession struct {
	m *Manager
}

// Background returns the request builder for automated callers such as
// the notification poller.
func (m *Manager) Background() *BackgroundSession {
	return &BackgroundSession{m: m}
}

func (b *BackgroundSession) NewRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	return b.m.newRequest(ctx, method, url, body, false)
}

// Touch registers out-of-band activity (keyboard input, UI events).
func (m *Manager) Touch() {
	m.mu.Lock()
	idle := m.idle
	m.mu.Unlock()
	if idle != nil {
		idle.Touch()
	}
}

func (m *Manager) armIdleLocked() {
	if m.idle != nil {
		m.idle.Stop()
	}
	if m.idleTimeout <= 0 {
		return
	}
	m.idle = NewIdleWatch(m.idleTimeout, m.idleWarning, m.onWarning, func() {
		_ = m.Logout()
	})
	m.idle.Start()
}

// tokenExpiry reads the exp claim without verifying the signature; the
// client has no signing secret and only needs the window for Resume.
func tokenExpiry(token string) (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, nil
	}
	return claims.ExpiresAt.Time, nil
}
