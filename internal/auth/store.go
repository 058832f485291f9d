package auth

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrIDTaken            = errors.New("account id already in use")
	ErrInvalidCredentials = errors.New("invalid login credentials")
)

const RoleAdmin = "admin"

type User struct {
	ID    string
	Email string
	Hash  []byte
	Role  string
}

type UserStore interface {
	// PutAdmin creates the admin account for email, or resets an existing
	// account's password and role. The id is only used for new accounts.
	PutAdmin(ctx context.Context, email, password, id string) (created bool, err error)
	Verify(ctx context.Context, email, password string) (User, error)
	Ping(ctx context.Context) error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizePassword(password string) string {
	return strings.TrimSpace(password)
}

// EnsureAdmin makes the configured credentials the ones that sign in,
// whether or not the account was created on an earlier start.
func EnsureAdmin(ctx context.Context, users UserStore, email, password, id string) (bool, error) {
	if normalizeEmail(email) == "" || normalizePassword(password) == "" {
		return false, errors.New("admin email/password required")
	}
	return users.PutAdmin(ctx, email, password, id)
}
