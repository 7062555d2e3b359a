package services

import (
	"context"
	"errors"
	"log"

	"apexdrive/internal/adapters/persistence/models"
	"apexdrive/internal/adapters/persistence/repositories"
	"apexdrive/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplicationService owns the loan application lifecycle.
//
// Transitions are idempotent-on-retry but not idempotent-on-replay:
// retrying a transition against the state it already produced is a silent
// no-op (no duplicate email), while a transition out of the opposite
// terminal state is rejected with domain.ErrInvalidTransition.
type ApplicationService struct {
	appRepo repositories.ApplicationRepository
	mailer  Mailer
}

// NewApplicationService creates a new application service
func NewApplicationService(appRepo repositories.ApplicationRepository, mailer Mailer) *ApplicationService {
	return &ApplicationService{
		appRepo: appRepo,
		mailer:  mailer,
	}
}

// SubmitInput represents a public loan application submission
type SubmitInput struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Amount   float64 `json:"amount"`
	LoanType string  `json:"loan_type"`
	Message  string  `json:"message,omitempty"`
}

// Submit creates a new pending application and sends the applicant a
// confirmation email. The email is best-effort: by the time it is sent the
// row is committed, so a mail failure is logged and the submission still
// succeeds.
func (s *ApplicationService) Submit(ctx context.Context, input *SubmitInput) (*models.LoanApplication, error) {
	app := &models.LoanApplication{
		Reference: uuid.New().String(),
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Amount:    input.Amount,
		LoanType:  input.LoanType,
		Message:   input.Message,
	}

	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	if s.mailer != nil {
		if err := s.mailer.SendApplicationReceived(app); err != nil {
			log.Printf("⚠️ Confirmation email failed for application %s: %v", app.Reference, err)
		}
	}

	log.Printf("✅ Loan application submitted: %s (%s)", app.Reference, app.Name)
	return app, nil
}

// GetByID gets a loan application by ID
func (s *ApplicationService) GetByID(ctx context.Context, id uint) (*models.LoanApplication, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

// List returns the full collection, newest first
func (s *ApplicationService) List(ctx context.Context) ([]*models.LoanApplication, error) {
	return s.appRepo.List(ctx)
}

// MarkProcessed transitions a pending application to processed.
//
// Already processed is a no-op success without a second email. Cancelled is
// rejected. The flag write is a compare-and-swap at the repository, so two
// admins racing process vs cancel cannot both win; the loser re-reads the
// row and resolves to no-op or rejection.
func (s *ApplicationService) MarkProcessed(ctx context.Context, id uint) (*models.LoanApplication, error) {
	app, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch app.Status() {
	case domain.StatusCancelled:
		return nil, domain.ErrInvalidTransition
	case domain.StatusProcessed:
		return app, nil
	}

	won, err := s.appRepo.MarkProcessed(ctx, id)
	if err != nil {
		return nil, err
	}
	if !won {
		// Lost the race: a concurrent admin action landed first.
		app, err = s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if app.Status() == domain.StatusCancelled {
			return nil, domain.ErrInvalidTransition
		}
		return app, nil
	}

	app.Processed = true

	if s.mailer != nil {
		if err := s.mailer.SendApplicationProcessed(app); err != nil {
			log.Printf("⚠️ Processed email failed for application %s: %v", app.Reference, err)
		}
	}

	log.Printf("✅ Loan application processed: %s", app.Reference)
	return app, nil
}

// Cancel transitions a pending application to cancelled. Symmetric to
// MarkProcessed: no-op when already cancelled, rejected when processed.
func (s *ApplicationService) Cancel(ctx context.Context, id uint) (*models.LoanApplication, error) {
	app, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch app.Status() {
	case domain.StatusProcessed:
		return nil, domain.ErrInvalidTransition
	case domain.StatusCancelled:
		return app, nil
	}

	won, err := s.appRepo.MarkCancelled(ctx, id)
	if err != nil {
		return nil, err
	}
	if !won {
		app, err = s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if app.Status() == domain.StatusProcessed {
			return nil, domain.ErrInvalidTransition
		}
		return app, nil
	}

	app.Cancelled = true

	if s.mailer != nil {
		if err := s.mailer.SendApplicationCancelled(app); err != nil {
			log.Printf("⚠️ Cancellation email failed for application %s: %v", app.Reference, err)
		}
	}

	log.Printf("✅ Loan application cancelled: %s", app.Reference)
	return app, nil
}

// Delete hard deletes an application. No side-effect email.
func (s *ApplicationService) Delete(ctx context.Context, id uint) error {
	found, err := s.appRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrApplicationNotFound
	}
	log.Printf("✅ Loan application deleted: #%d", id)
	return nil
}
