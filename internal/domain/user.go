// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
)

const (
	MaxUserIDLen   = 64
	MaxUsernameLen = 64
)

var (
	ErrUserIDEmpty     = errors.New("user id empty")
	ErrUserIDTooLong   = errors.New("user id too long")
	ErrUsernameTooLong = errors.New("username too long")
)

type UserID string

// User is the identity a connection was admitted with.
// The name is display-only and may be empty.
type User struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
}

// NewUser is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewUser(id UserID, username string) (*User, error) {
	if len(id) == 0 {
		return nil, ErrUserIDEmpty
	}
	if len(id) > MaxUserIDLen {
		return nil, ErrUserIDTooLong
	}
	if len(username) > MaxUsernameLen {
		return nil, ErrUsernameTooLong
	}
	return &User{ID: id, Username: username}, nil
}
