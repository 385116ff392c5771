package core

import (
	"context"
	"strings"
	"time"
)

// User is an account that owns purchase orders and saved templates.
type User struct {
	ID           int        `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	PasswordHash string     `json:"-"`
	IsStaff      bool       `json:"is_staff"`
	IsSuperuser  bool       `json:"is_superuser"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// FullName joins first and last name, trimming empties.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// DisplayName is the full name, or the username when no name is set.
func (u *User) DisplayName() string {
	if n := u.FullName(); n != "" {
		return n
	}
	return u.Username
}

// UserInput holds the fields for creating a user.
type UserInput struct {
	Username    string
	Password    string
	Email       string
	FirstName   string
	LastName    string
	IsStaff     bool
	IsSuperuser bool
}

// UserFilter narrows ListUsers. Zero value lists everyone.
type UserFilter struct {
	ActiveOnly     bool
	StaffOnly      bool
	SuperusersOnly bool
}

// UserService provides user management and authentication.
type UserService interface {
	// CreateUser hashes the password and inserts the user. A taken username
	// is reported as a *ConflictError.
	CreateUser(ctx context.Context, input UserInput) (*User, error)

	// ListUsers returns users ordered by username.
	ListUsers(ctx context.Context, filter UserFilter) ([]User, error)

	// GetByUsername finds an active user by username.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// GetByID returns a user by primary key.
	GetByID(ctx context.Context, userID int) (*User, error)

	// Authenticate verifies the password and records the login time.
	Authenticate(ctx context.Context, username, password string) (*User, error)
}
