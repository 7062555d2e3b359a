package session

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"apexdrive/internal/core/domain"
	"apexdrive/internal/pkg/jwt"
)

const testSecret = "session-test-secret"

func testToken(t *testing.T, minutes int) string {
	t.Helper()
	token, err := jwt.GenerateAccessToken(7, "admin@apexdrive.test", "admin", testSecret, minutes)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func testIdentity() domain.Identity {
	return domain.Identity{ID: 7, Email: "admin@apexdrive.test", Name: "Admin", Role: domain.RoleAdmin}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "session.json"))
}

func TestStoreSaveLoadClear(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("want ErrNoSession on empty store, got %v", err)
	}

	state := &State{
		AccessToken: "tok",
		User:        testIdentity(),
		ExpiresAt:   time.Now().Add(time.Hour).Truncate(time.Second),
	}
	if err := store.Save(state); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.AccessToken != "tok" || loaded.User.Email != state.User.Email {
		t.Fatalf("loaded state mismatch: %+v", loaded)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("second clear should be a no-op, got %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("want ErrNoSession after clear, got %v", err)
	}
}

func TestStoreFilePermissions(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(&State{AccessToken: "tok"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(store.path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("session file mode = %o, want 600", perm)
	}
}

func TestManagerLoginAndResume(t *testing.T) {
	store := newTestStore(t)
	m := NewManager(store, time.Hour, 0, nil)

	if err := m.Login(testIdentity(), testToken(t, 60)); err != nil {
		t.Fatalf("login: %v", err)
	}
	if m.Token() == "" {
		t.Fatal("token empty after login")
	}

	// A second manager over the same store picks up the session.
	m2 := NewManager(store, time.Hour, 0, nil)
	state, err := m2.Resume()
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if state.User.ID != 7 || m2.Identity().Role != domain.RoleAdmin {
		t.Fatalf("resumed identity mismatch: %+v", state.User)
	}
}

func TestResumeExpiredTokenClearsStore(t *testing.T) {
	store := newTestStore(t)
	m := NewManager(store, time.Hour, 0, nil)
	if err := m.Login(testIdentity(), testToken(t, -1)); err != nil {
		t.Fatalf("login: %v", err)
	}

	m2 := NewManager(store, time.Hour, 0, nil)
	if _, err := m2.Resume(); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("want ErrSessionExpired, got %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expired session should be cleared, got %v", err)
	}
}

func TestLogoutIsIdempotentAndClosesDone(t *testing.T) {
	store := newTestStore(t)
	m := NewManager(store, time.Hour, 0, nil)
	if err := m.Login(testIdentity(), testToken(t, 60)); err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := m.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := m.Logout(); err != nil {
		t.Fatalf("second logout: %v", err)
	}

	select {
	case <-m.Done():
	default:
		t.Fatal("Done not closed after logout")
	}
	if m.Token() != "" {
		t.Fatal("token survived logout")
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("store not cleared on logout, got %v", err)
	}
}

func TestIdleTimeoutLogsOut(t *testing.T) {
	store := newTestStore(t)
	m := NewManager(store, 30*time.Millisecond, 0, nil)
	if err := m.Login(testIdentity(), testToken(t, 60)); err != nil {
		t.Fatalf("login: %v", err)
	}

	select {
	case <-m.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("idle timeout did not end the session")
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("store not cleared after idle logout, got %v", err)
	}
}

func TestWarningFiresBeforeTimeout(t *testing.T) {
	var warned atomic.Int32
	store := newTestStore(t)
	m := NewManager(store, 80*time.Millisecond, 40*time.Millisecond, func() {
		warned.Add(1)
	})
	if err := m.Login(testIdentity(), testToken(t, 60)); err != nil {
		t.Fatalf("login: %v", err)
	}

	<-m.Done()
	if warned.Load() != 1 {
		t.Fatalf("want exactly one warning, got %d", warned.Load())
	}
}

func TestRequestActivityDefersTimeout(t *testing.T) {
	store := newTestStore(t)
	m := NewManager(store, 120*time.Millisecond, 0, nil)
	if err := m.Login(testIdentity(), testToken(t, 60)); err != nil {
		t.Fatalf("login: %v", err)
	}

	// Keep issuing requests for longer than the idle threshold.
	deadline := time.Now().Add(300 * time.Millisecond)
	for time.Now().Before(deadline) {
		if _, err := m.NewRequest(context.Background(), http.MethodGet, "http://localhost/x", nil); err != nil {
			t.Fatalf("new request: %v", err)
		}
		select {
		case <-m.Done():
			t.Fatal("session ended despite steady activity")
		case <-time.After(40 * time.Millisecond):
		}
	}

	m.Touch()
	select {
	case <-m.Done():
		t.Fatal("session ended right after activity")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestBackgroundTrafficDoesNotDeferTimeout(t *testing.T) {
	store := newTestStore(t)
	m := NewManager(store, 150*time.Millisecond, 0, nil)
	if err := m.Login(testIdentity(), testToken(t, 60)); err != nil {
		t.Fatalf("login: %v", err)
	}

	// Background requests carry the token like any other.
	bg := m.Background()
	req, err := bg.NewRequest(context.Background(), http.MethodGet, "http://localhost/api/v1/loan-applications", nil)
	if err != nil {
		t.Fatalf("background request: %v", err)
	}
	if got := req.Header.Get("Authorization"); !strings.HasPrefix(got, "Bearer ") {
		t.Fatalf("background request lost the token: %q", got)
	}

	// A poller firing well inside the idle threshold, with no operator
	// activity at all. The session must still idle out.
	done := m.Done()
	stopPolling := make(chan struct{})
	go func() {
		for {
			select {
			case <-stopPolling:
				return
			case <-done:
				return
			case <-time.After(25 * time.Millisecond):
				_, _ = bg.NewRequest(context.Background(), http.MethodGet, "http://localhost/api/v1/loan-applications", nil)
			}
		}
	}()
	defer close(stopPolling)

	select {
	case <-m.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("idle watchdog never fired: background traffic kept the session alive")
	}
}

func TestManagerReusableAfterLogout(t *testing.T) {
	store := newTestStore(t)
	m := NewManager(store, 40*time.Millisecond, 0, nil)
	if err := m.Login(testIdentity(), testToken(t, 60)); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := m.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if err := m.Login(testIdentity(), testToken(t, 60)); err != nil {
		t.Fatalf("second login: %v", err)
	}
	select {
	case <-m.Done():
		t.Fatal("Done closed immediately after re-login")
	default:
	}
	if m.Token() == "" {
		t.Fatal("token empty after re-login")
	}

	// The rearmed watchdog must end the second session for real: Done
	// closes and the session file is gone.
	select {
	case <-m.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("watchdog dead after re-login")
	}
	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("store not cleared after second session ended, got %v", err)
	}
}

func TestNewRequestCarriesBearerToken(t *testing.T) {
	store := newTestStore(t)
	m := NewManager(store, time.Hour, 0, nil)
	token := testToken(t, 60)
	if err := m.Login(testIdentity(), token); err != nil {
		t.Fatalf("login: %v", err)
	}

	req, err := m.NewRequest(context.Background(), http.MethodGet, "http://localhost/api/v1/loan-applications", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if got := req.Header.Get("Authorization"); got != "Bearer "+token {
		t.Fatalf("Authorization = %q", got)
	}
}

func TestIdleWatchTouchCancelsPendingWarning(t *testing.T) {
	var warned, fired atomic.Int32
	w := NewIdleWatch(100*time.Millisecond, 50*time.Millisecond,
		func() { warned.Add(1) },
		func() { fired.Add(1) })
	w.Start()
	defer w.Stop()

	// Touch just before the warning would fire, twice over.
	for i := 0; i < 2; i++ {
		time.Sleep(30 * time.Millisecond)
		w.Touch()
	}
	if warned.Load() != 0 || fired.Load() != 0 {
		t.Fatalf("watch fired under activity: warned=%d fired=%d", warned.Load(), fired.Load())
	}

	time.Sleep(150 * time.Millisecond)
	if warned.Load() != 1 || fired.Load() != 1 {
		t.Fatalf("want one warning and one timeout, got warned=%d fired=%d", warned.Load(), fired.Load())
	}
}
