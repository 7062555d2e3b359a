package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func writeEnvelope(w http.ResponseWriter, status int, data interface{}, errMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": status < 300,
		"message": http.StatusText(status),
		"data":    data,
		"error":   errMsg,
	})
}

func TestAdminLoginDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/auth/admin-login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "admin@x.test" {
			t.Errorf("email not forwarded: %v", body)
		}
		writeEnvelope(w, http.StatusOK, map[string]interface{}{
			"access_token": "tok-123",
			"expires_at":   "2026-08-31T12:00:00Z",
			"user":         map[string]interface{}{"id": 1, "email": "admin@x.test", "role": "admin"},
		}, "")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	result, err := client.AdminLogin(context.Background(), "admin@x.test", "secret")
	if err != nil {
		t.Fatalf("AdminLogin: %v", err)
	}
	if result.AccessToken != "tok-123" || result.User.Email != "admin@x.test" {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.ExpiresAt.IsZero() {
		t.Fatal("expires_at not decoded")
	}
}

func TestAdminLoginWrongPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, nil, "Invalid email or password")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	if _, err := client.AdminLogin(context.Background(), "admin@x.test", "nope"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
}

func TestStatusCodeMapping(t *testing.T) {
	status := http.StatusOK
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, status, map[string]interface{}{"id": 1, "status": "pending"}, "boom")
	}))
	defer srv.Close()
	client := NewClient(srv.URL, nil)

	cases := []struct {
		code int
		want error
	}{
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
	}
	for _, tc := range cases {
		status = tc.code
		if _, err := client.MarkProcessed(context.Background(), 1); !errors.Is(err, tc.want) {
			t.Errorf("code %d: want %v, got %v", tc.code, tc.want, err)
		}
	}
}

func TestApplicationIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, []map[string]interface{}{
			{"id": 3, "status": "pending"},
			{"id": 1, "status": "processed"},
		}, "")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	ids, err := client.ApplicationIDs(context.Background())
	if err != nil {
		t.Fatalf("ApplicationIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 1 {
		t.Fatalf("unexpected ids %v", ids)
	}
}

// bearerFactory mimics the session layer: every request carries a token.
type bearerFactory struct{ token string }

func (f bearerFactory) NewRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+f.token)
	return req, nil
}

func TestRequestsGoThroughFactory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer factory-token" {
			t.Errorf("Authorization = %q", got)
		}
		writeEnvelope(w, http.StatusOK, []map[string]interface{}{}, "")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, bearerFactory{token: "factory-token"})
	if _, err := client.Applications(context.Background()); err != nil {
		t.Fatalf("Applications: %v", err)
	}
}
