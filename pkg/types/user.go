package types

import "time"

// UserRole represents the different user roles in the system
type UserRole string

const (
	RoleDispatcher    UserRole = "dispatcher"
	RoleHospitalStaff UserRole = "hospital_staff"
	RoleAdministrator UserRole = "administrator"
)

// User represents a console operator
type User struct {
	ID         string    `json:"id" db:"id"`
	Username   string    `json:"username" db:"username"`
	Email      string    `json:"email" db:"email"`
	Role       UserRole  `json:"role" db:"role"`
	HospitalID string    `json:"hospital_id,omitempty" db:"hospital_id"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// UserClaims represents JWT token claims
type UserClaims struct {
	UserID     string   `json:"user_id"`
	Username   string   `json:"username"`
	Role       UserRole `json:"role"`
	HospitalID string   `json:"hospital_id,omitempty"`
}

// Credentials represents operator login credentials
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthToken represents authentication token response
type AuthToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
}
