package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"

	"apexdrive/internal/adapters/persistence/models"
	"apexdrive/internal/core/domain"
	"apexdrive/internal/core/services"
)

type stubApplicationRepo struct {
	mu     sync.Mutex
	nextID uint
	apps   map[uint]*models.LoanApplication
}

func newStubApplicationRepo() *stubApplicationRepo {
	return &stubApplicationRepo{apps: make(map[uint]*models.LoanApplication)}
}

func (r *stubApplicationRepo) Create(ctx context.Context, app *models.LoanApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	app.ID = r.nextID
	clone := *app
	r.apps[app.ID] = &clone
	return nil
}

func (r *stubApplicationRepo) GetByID(ctx context.Context, id uint) (*models.LoanApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	clone := *app
	return &clone, nil
}

func (r *stubApplicationRepo) List(ctx context.Context) ([]*models.LoanApplication, error) {
	return nil, nil
}

func (r *stubApplicationRepo) ListPending(ctx context.Context) ([]*models.LoanApplication, error) {
	return nil, nil
}

func (r *stubApplicationRepo) MarkProcessed(ctx context.Context, id uint) (bool, error) {
	return false, nil
}

func (r *stubApplicationRepo) MarkCancelled(ctx context.Context, id uint) (bool, error) {
	return false, nil
}

func (r *stubApplicationRepo) Delete(ctx context.Context, id uint) (bool, error) {
	return false, nil
}

type stubMailer struct {
	mu       sync.Mutex
	received int
}

func (m *stubMailer) SendApplicationReceived(app *models.LoanApplication) error {
	m.mu.Lock()
	m.received++
	m.mu.Unlock()
	return nil
}

func (m *stubMailer) SendApplicationProcessed(app *models.LoanApplication) error { return nil }
func (m *stubMailer) SendApplicationCancelled(app *models.LoanApplication) error { return nil }
func (m *stubMailer) SendPendingDigest(apps []*models.LoanApplication) error     { return nil }

func newSubmitApp(t *testing.T) (*fiber.App, *stubApplicationRepo, *stubMailer) {
	t.Helper()
	repo := newStubApplicationRepo()
	mailer := &stubMailer{}
	handler := NewApplicationHandler(services.NewApplicationService(repo, mailer))

	app := fiber.New()
	app.Post("/api/v1/loan-applications", handler.Submit)
	return app, repo, mailer
}

func postSubmission(t *testing.T, app *fiber.App, body map[string]interface{}) *http.Response {
	t.Helper()
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/loan-applications", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func validSubmission() map[string]interface{} {
	return map[string]interface{}{
		"name":      "A",
		"email":     "a@x.com",
		"phone":     "555",
		"amount":    50000,
		"loan_type": "Personal",
	}
}

func TestSubmitReturns201WithPendingStatus(t *testing.T) {
	app, repo, mailer := newSubmitApp(t)

	resp := postSubmission(t, app, validSubmission())
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var env struct {
		Success bool `json:"success"`
		Data    struct {
			ID        uint   `json:"id"`
			Reference string `json:"reference"`
			Status    string `json:"status"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !env.Success || env.Data.Status != string(domain.StatusPending) {
		t.Fatalf("unexpected body: %+v", env)
	}
	if env.Data.Reference == "" {
		t.Fatal("no reference assigned")
	}

	stored, err := repo.GetByID(context.Background(), env.Data.ID)
	if err != nil {
		t.Fatalf("application not persisted: %v", err)
	}
	if stored.Processed || stored.Cancelled {
		t.Fatalf("new application not pending: %+v", stored)
	}
	if mailer.received != 1 {
		t.Fatalf("confirmation emails = %d, want 1", mailer.received)
	}
}

func TestSubmitRejectsEachMissingField(t *testing.T) {
	cases := []struct {
		name  string
		strip string
	}{
		{"missing name", "name"},
		{"missing email", "email"},
		{"missing phone", "phone"},
		{"missing amount", "amount"},
		{"missing loan type", "loan_type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app, repo, mailer := newSubmitApp(t)
			body := validSubmission()
			delete(body, tc.strip)

			resp := postSubmission(t, app, body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			if len(repo.apps) != 0 {
				t.Fatal("rejected submission was persisted")
			}
			if mailer.received != 0 {
				t.Fatal("rejected submission triggered email")
			}
		})
	}
}

func TestSubmitRejectsNonPositiveAmount(t *testing.T) {
	app, _, _ := newSubmitApp(t)
	body := validSubmission()
	body["amount"] = -1

	resp := postSubmission(t, app, body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSubmitRejectsMalformedBody(t *testing.T) {
	app, _, _ := newSubmitApp(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/loan-applications", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
