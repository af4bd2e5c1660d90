// Package auth holds the identity providers that own user credentials.
package auth

import (
	"context"
	"errors"

	"worklinkph/internal/domain/user"

	"github.com/google/uuid"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidToken           = errors.New("invalid token")
	ErrProviderUnavailable    = errors.New("identity provider unavailable")
)

// Credentials is what SignUp hands back for storage on the profile row.
type Credentials struct {
	PasswordHash *string
	AuthID       *string
}

// Subject identifies the profile a verified token belongs to. Exactly one
// field is set.
type Subject struct {
	UserID uuid.UUID
	AuthID string
}

type Provider interface {
	Name() string
	SignUp(ctx context.Context, email, password string) (Credentials, error)
	SignIn(ctx context.Context, u user.User, password string) (string, error)
	ResetPassword(ctx context.Context, email string) error
	Verify(ctx context.Context, token string) (Subject, error)
	// ChangeEmail keeps the provider's sign-in address in step with the
	// profile email.
	ChangeEmail(ctx context.Context, creds Credentials, email string) error
	// Revoke removes provider-side state for credentials that will not be
	// used again (failed signup, deleted account).
	Revoke(ctx context.Context, creds Credentials) error
}
