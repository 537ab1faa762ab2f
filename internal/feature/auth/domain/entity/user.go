// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// Roles carried in the access token.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User represents a registered user in the system.
// It contains authentication credentials and the profile shown to the user.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	Name string `gorm:"size:100;not null"`

	// Email is the user's email address used for authentication.
	// It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the bcrypt hash of the user's password.
	Password string `gorm:"size:255;not null"`

	Phone *string `gorm:"size:32"`

	// Role is either RoleCustomer or RoleAdmin.
	Role string `gorm:"size:16;not null;default:customer"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin reports whether the user may manage the catalog.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
