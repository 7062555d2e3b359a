package models

import (
	"time"

	"apexdrive/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents the users table
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'user'" json:"role"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// ToIdentity maps a user row to the domain identity
func (u *User) ToIdentity() *domain.Identity {
	return &domain.Identity{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  domain.Role(u.Role),
	}
}

// ============================================================
// Loan Application Table
// ============================================================

// LoanApplication represents the loan_applications table.
//
// Status is stored as two booleans for compatibility with the existing
// schema. They must only be written through the repository's guarded
// transition methods; the enum never allows both to be true.
// No DeletedAt column: admin delete is a hard delete.
type LoanApplication struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Reference string    `gorm:"uniqueIndex;size:36;not null" json:"reference"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;not null" json:"email"`
	Phone     string    `gorm:"size:30;not null" json:"phone"`
	Amount    float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	LoanType  string    `gorm:"size:50;not null" json:"loan_type"`
	Message   string    `gorm:"type:text" json:"message,omitempty"`
	Processed bool      `gorm:"default:false;index" json:"-"`
	Cancelled bool      `gorm:"default:false;index" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LoanApplication) TableName() string {
	return "loan_applications"
}

// Status derives the lifecycle enum from the stored flags
func (a *LoanApplication) Status() domain.ApplicationStatus {
	return domain.StatusFromFlags(a.Processed, a.Cancelled)
}

// ApplicationResponse DTO
type ApplicationResponse struct {
	ID        uint                     `json:"id"`
	Reference string                   `json:"reference"`
	Name      string                   `json:"name"`
	Email     string                   `json:"email"`
	Phone     string                   `json:"phone"`
	Amount    float64                  `json:"amount"`
	LoanType  string                   `json:"loan_type"`
	Message   string                   `json:"message,omitempty"`
	Status    domain.ApplicationStatus `json:"status"`
	CreatedAt time.Time                `json:"created_at"`
}

func (a *LoanApplication) ToResponse() *ApplicationResponse {
	return &ApplicationResponse{
		ID:        a.ID,
		Reference: a.Reference,
		Name:      a.Name,
		Email:     a.Email,
		Phone:     a.Phone,
		Amount:    a.Amount,
		LoanType:  a.LoanType,
		Message:   a.Message,
		Status:    a.Status(),
		CreatedAt: a.CreatedAt,
	}
}

// ============================================================
// Contact Messages
// ============================================================

// ContactMessage represents the contact_messages table
type ContactMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Reference string    `gorm:"uniqueIndex;size:36;not null" json:"reference"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;not null" json:"email"`
	Subject   string    `gorm:"size:200" json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (ContactMessage) TableName() string {
	return "contact_messages"
}

// ============================================================
// Vehicles (storefront inventory)
// ============================================================

// Vehicle represents the vehicles table
type Vehicle struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Make        string         `gorm:"size:60;not null" json:"make"`
	Model       string         `gorm:"size:60;not null" json:"model"`
	Year        int            `gorm:"not null" json:"year"`
	Price       float64        `gorm:"type:decimal(12,2);not null" json:"price"`
	Mileage     int            `json:"mileage"`
	Description string         `gorm:"type:text" json:"description"`
	ImageURL    string         `gorm:"size:255" json:"image_url"`
	Available   bool           `gorm:"default:true" json:"available"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Vehicle) TableName() string {
	return "vehicles"
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&LoanApplication{},
		&ContactMessage{},
		&Vehicle{},
	)
}
