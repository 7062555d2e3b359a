package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"apexdrive/internal/config"
	"apexdrive/internal/core/domain"
	"apexdrive/internal/pkg/jwt"
)

const testSecret = "middleware-test-secret"

func newProtectedApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := &config.Config{}
	cfg.JWT.Secret = testSecret

	app := fiber.New()
	admin := app.Group("/admin", AuthMiddleware(cfg), AdminOnly())
	admin.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong " + c.Locals("email").(string))
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func TestAuthMissingTokenIs401(t *testing.T) {
	app := newProtectedApp(t)
	resp := doRequest(t, app, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestAuthExpiredTokenIs403(t *testing.T) {
	app := newProtectedApp(t)
	token, err := jwt.GenerateAccessToken(1, "admin@x.test", string(domain.RoleAdmin), testSecret, -1)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	resp := doRequest(t, app, token)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "expired") {
		t.Fatalf("expired token not distinguished in response: %s", body)
	}
}

func TestAuthGarbageTokenIs403(t *testing.T) {
	app := newProtectedApp(t)
	resp := doRequest(t, app, "not.a.token")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
}

func TestAuthWrongSecretIs403(t *testing.T) {
	app := newProtectedApp(t)
	token, err := jwt.GenerateAccessToken(1, "admin@x.test", string(domain.RoleAdmin), "other-secret", 60)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	resp := doRequest(t, app, token)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
}

func TestAuthValidAdminPasses(t *testing.T) {
	app := newProtectedApp(t)
	token, err := jwt.GenerateAccessToken(1, "admin@x.test", string(domain.RoleAdmin), testSecret, 60)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	resp := doRequest(t, app, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "pong admin@x.test" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestAuthUserRoleBlockedFromAdminRoutes(t *testing.T) {
	app := newProtectedApp(t)
	token, err := jwt.GenerateAccessToken(2, "user@x.test", string(domain.RoleUser), testSecret, 60)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	resp := doRequest(t, app, token)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 for non-admin role", resp.StatusCode)
	}
}
