package repositories

import (
	"context"

	"apexdrive/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// applicationRepository implements ApplicationRepository
type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new loan application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create creates a new loan application
func (r *applicationRepository) Create(ctx context.Context, app *models.LoanApplication) error {
	return r.db.WithContext(ctx).Create(app).Error
}

// GetByID gets a loan application by ID
func (r *applicationRepository) GetByID(ctx context.Context, id uint) (*models.LoanApplication, error) {
	var app models.LoanApplication
	err := r.db.WithContext(ctx).First(&app, id).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// List returns the full collection, newest first. Both the admin list view
// and the notification poller consume this query.
func (r *applicationRepository) List(ctx context.Context) ([]*models.LoanApplication, error) {
	var apps []*models.LoanApplication
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

// ListPending returns applications still awaiting a decision, newest first
func (r *applicationRepository) ListPending(ctx context.Context) ([]*models.LoanApplication, error) {
	var apps []*models.LoanApplication
	err := r.db.WithContext(ctx).
		Where("processed = ? AND cancelled = ?", false, false).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

// MarkProcessed sets the processed flag only while the row is still pending.
// RowsAffected tells whether this call won the write or lost a race.
func (r *applicationRepository) MarkProcessed(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.LoanApplication{}).
		Where("id = ? AND processed = ? AND cancelled = ?", id, false, false).
		Update("processed", true)
	return res.RowsAffected == 1, res.Error
}

// MarkCancelled sets the cancelled flag only while the row is still pending
func (r *applicationRepository) MarkCancelled(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.LoanApplication{}).
		Where("id = ? AND processed = ? AND cancelled = ?", id, false, false).
		Update("cancelled", true)
	return res.RowsAffected == 1, res.Error
}

// Delete hard deletes a loan application. Returns false if no row matched.
func (r *applicationRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.LoanApplication{}, id)
	return res.RowsAffected == 1, res.Error
}
