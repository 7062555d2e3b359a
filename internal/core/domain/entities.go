package domain

import "time"

// Role represents a user role in the system. Roles are fixed at creation;
// there is no elevation path.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Identity represents an authenticated principal
type Identity struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  Role   `json:"role"`
}

// ApplicationStatus is the loan application lifecycle state.
// Pending is the only non-terminal state; Processed and Cancelled are
// terminal and no transition leaves them.
type ApplicationStatus string

const (
	StatusPending   ApplicationStatus = "pending"
	StatusProcessed ApplicationStatus = "processed"
	StatusCancelled ApplicationStatus = "cancelled"
)

// Terminal reports whether no further transition is permitted from s.
func (s ApplicationStatus) Terminal() bool {
	return s == StatusProcessed || s == StatusCancelled
}

// StatusFromFlags derives the status enum from the stored booleans.
// Cancelled takes precedence should both flags ever be set; the transition
// guards prevent that state from being written.
func StatusFromFlags(processed, cancelled bool) ApplicationStatus {
	switch {
	case cancelled:
		return StatusCancelled
	case processed:
		return StatusProcessed
	default:
		return StatusPending
	}
}

// LoanApplication represents a loan application in the domain layer
type LoanApplication struct {
	ID        uint
	Reference string
	Name      string
	Email     string
	Phone     string
	Amount    float64
	LoanType  string
	Message   string
	Status    ApplicationStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContactMessage represents a storefront contact form submission
type ContactMessage struct {
	ID        uint
	Reference string
	Name      string
	Email     string
	Subject   string
	Message   string
	CreatedAt time.Time
}

// Vehicle represents a storefront inventory item
type Vehicle struct {
	ID          uint
	Make        string
	Model       string
	Year        int
	Price       float64
	Mileage     int
	Description string
	ImageURL    string
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
