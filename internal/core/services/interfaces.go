package services

import (
	"apexdrive/internal/adapters/persistence/models"
)

// Mailer sends the workflow side-effect emails. Implementations must be
// safe to call best-effort: a failed send is logged by the caller and never
// rolls back the state change that triggered it.
type Mailer interface {
	SendApplicationReceived(app *models.LoanApplication) error
	SendApplicationProcessed(app *models.LoanApplication) error
	SendApplicationCancelled(app *models.LoanApplication) error
	SendPendingDigest(apps []*models.LoanApplication) error
}
