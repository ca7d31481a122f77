package model

import (
	"fmt"
	"time"
)

// User is a registered account.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name" validate:"required,max=100"`
	LastName     string    `json:"last_name" validate:"required,max=100"`
	Email        string    `json:"email" validate:"required,email,campusemail"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is the sanitized projection of a user kept for the logged-in
// client. It has no password field by construction.
type Session struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Sanitize strips everything but the identifying fields.
func (u *User) Sanitize() *Session {
	return &Session{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

// DisplayName is the name shown as a comment author.
func (s *Session) DisplayName() string {
	return s.FirstName + " " + s.LastName
}

// Password length limits. The maximum is in bytes, the most bcrypt hashes.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// ValidatePassword checks the password policy.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("password must be at most %d bytes", MaxPasswordLength)
	}
	return nil
}
