package store

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrUsernameTaken = errors.New("username already taken")
)

// User is an account row. PasswordHash is a bcrypt hash, never the password.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
}
