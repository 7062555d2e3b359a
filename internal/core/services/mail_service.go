package services

import (
	"fmt"

	"apexdrive/internal/adapters/persistence/models"
	"apexdrive/internal/config"

	"gopkg.in/gomail.v2"
)

// MailService sends workflow emails over SMTP. Disabled (all sends become
// no-ops) when SMTP credentials are not configured, mirroring how the rest
// of the system treats mail as optional infrastructure.
type MailService struct {
	cfg     config.MailConfig
	dialer  *gomail.Dialer
	enabled bool
}

// NewMailService creates a new mail service
func NewMailService(cfg config.MailConfig) *MailService {
	enabled := cfg.Host != ""
	var dialer *gomail.Dialer
	if enabled {
		dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return &MailService{
		cfg:     cfg,
		dialer:  dialer,
		enabled: enabled,
	}
}

// IsEnabled checks if mail sending is enabled
func (s *MailService) IsEnabled() bool {
	return s.enabled
}

func (s *MailService) send(to, subject, body string) error {
	if !s.enabled || to == "" {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	return s.dialer.DialAndSend(m)
}

// snapshot renders the full application state at the time of the transition.
// The mail provider may deliver late, so the body carries the snapshot, not
// a diff against whatever the entity looks like at delivery time.
func snapshot(app *models.LoanApplication) string {
	return fmt.Sprintf(`Reference: %s
Applicant: %s
Loan type: %s
Amount:    %.2f
Status:    %s`,
		app.Reference,
		app.Name,
		app.LoanType,
		app.Amount,
		app.Status(),
	)
}

// SendApplicationReceived confirms a new submission to the applicant
func (s *MailService) SendApplicationReceived(app *models.LoanApplication) error {
	body := fmt.Sprintf(`Hello %s,

We received your loan application. Our team will review it shortly.

%s

ApexDrive Finance`, app.Name, snapshot(app))

	return s.send(app.Email, "We received your loan application", body)
}

// SendApplicationProcessed notifies the applicant their application was processed
func (s *MailService) SendApplicationProcessed(app *models.LoanApplication) error {
	body := fmt.Sprintf(`Hello %s,

Your loan application has been processed.

%s

ApexDrive Finance`, app.Name, snapshot(app))

	return s.send(app.Email, "Your loan application has been processed", body)
}

// SendApplicationCancelled notifies the applicant their application was cancelled
func (s *MailService) SendApplicationCancelled(app *models.LoanApplication) error {
	body := fmt.Sprintf(`Hello %s,

Your loan application has been cancelled. Contact us if you believe this
is in error.

%s

ApexDrive Finance`, app.Name, snapshot(app))

	return s.send(app.Email, "Your loan application has been cancelled", body)
}

// SendPendingDigest mails the admin a summary of applications still pending
func (s *MailService) SendPendingDigest(apps []*models.LoanApplication) error {
	if len(apps) == 0 {
		return nil
	}

	body := fmt.Sprintf("%d loan application(s) awaiting a decision:\n\n", len(apps))
	for _, app := range apps {
		body += fmt.Sprintf("  #%d  %s  %s  %.2f  (%s)\n",
			app.ID, app.Name, app.LoanType, app.Amount, app.CreatedAt.Format("2006-01-02"))
	}

	return s.send(s.cfg.AdminEmail, "Pending loan applications digest", body)
}
