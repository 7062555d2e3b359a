package repositories

import (
	"context"

	"apexdrive/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// contactRepository implements ContactRepository
type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new contact message repository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

// Create creates a new contact message
func (r *contactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// GetByID gets a contact message by ID
func (r *contactRepository) GetByID(ctx context.Context, id uint) (*models.ContactMessage, error) {
	var msg models.ContactMessage
	err := r.db.WithContext(ctx).First(&msg, id).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// List lists contact messages with pagination, newest first
func (r *contactRepository) List(ctx context.Context, offset, limit int) ([]*models.ContactMessage, int64, error) {
	var msgs []*models.ContactMessage
	var total int64

	r.db.WithContext(ctx).Model(&models.ContactMessage{}).Count(&total)

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&msgs).Error

	return msgs, total, err
}

// Delete hard deletes a contact message. Returns false if no row matched.
func (r *contactRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.ContactMessage{}, id)
	return res.RowsAffected == 1, res.Error
}
