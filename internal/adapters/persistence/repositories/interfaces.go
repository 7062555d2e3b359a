package repositories

import (
	"context"

	"apexdrive/internal/adapters/persistence/models"
)

// UserRepository defines user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// ApplicationRepository defines loan application data access.
//
// MarkProcessed and MarkCancelled are compare-and-swap writes: the flag is
// set only if the row is still Pending, and the boolean result reports
// whether this call won the write. Two admins racing to process vs cancel
// the same application resolve at the database, not in Go.
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.LoanApplication) error
	GetByID(ctx context.Context, id uint) (*models.LoanApplication, error)
	List(ctx context.Context) ([]*models.LoanApplication, error)
	ListPending(ctx context.Context) ([]*models.LoanApplication, error)
	MarkProcessed(ctx context.Context, id uint) (bool, error)
	MarkCancelled(ctx context.Context, id uint) (bool, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

// ContactRepository defines contact message data access
type ContactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
	GetByID(ctx context.Context, id uint) (*models.ContactMessage, error)
	List(ctx context.Context, offset, limit int) ([]*models.ContactMessage, int64, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

// VehicleRepository defines vehicle data access
type VehicleRepository interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	GetByID(ctx context.Context, id uint) (*models.Vehicle, error)
	List(ctx context.Context, offset, limit int) ([]*models.Vehicle, int64, error)
	Update(ctx context.Context, vehicle *models.Vehicle) error
	Delete(ctx context.Context, id uint) error
}
