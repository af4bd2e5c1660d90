package auth

import (
	"context"
	"errors"

	"worklinkph/internal/domain/user"
	"worklinkph/internal/pkg/jwt"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// Local keeps bcrypt hashes on the profile row and issues HS256 tokens.
type Local struct {
	jwt jwt.Service
}

func NewLocal(jwtSvc jwt.Service) *Local {
	return &Local{jwt: jwtSvc}
}

func (p *Local) Name() string { return "local" }

func (p *Local) SignUp(_ context.Context, _ string, password string) (Credentials, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return Credentials{}, err
	}
	h := string(hash)
	return Credentials{PasswordHash: &h}, nil
}

func (p *Local) SignIn(_ context.Context, u user.User, password string) (string, error) {
	if u.PasswordHash == nil || *u.PasswordHash == "" {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return p.jwt.GenerateToken(u.ID)
}

// ResetPassword has no mail transport in local mode.
func (p *Local) ResetPassword(context.Context, string) error {
	return nil
}

func (p *Local) Verify(_ context.Context, token string) (Subject, error) {
	claims, err := p.jwt.ValidateToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) || errors.Is(err, jwt.ErrTokenInvalid) {
			return Subject{}, ErrInvalidToken
		}
		return Subject{}, err
	}
	return Subject{UserID: claims.UserID}, nil
}

// ChangeEmail is a no-op: local sign-in reads the email from the profile row.
func (p *Local) ChangeEmail(context.Context, Credentials, string) error {
	return nil
}

func (p *Local) Revoke(context.Context, Credentials) error {
	return nil
}
