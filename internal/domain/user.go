package domain

import "time"

// User represents a registered account.
type User struct {
	ID           string
	Username     string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate validates the user before persistence.
func (u *User) Validate() error {
	if u.Username == "" {
		return NewInvalidInputError("username is required")
	}
	if u.Email == "" {
		return NewInvalidInputError("email is required")
	}
	if u.PasswordHash == "" {
		return NewInvalidInputError("password hash is required")
	}
	return nil
}
