package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"worklinkph/internal/domain/user"
	"worklinkph/internal/infrastructure/supabase"
	"worklinkph/internal/pkg/jwt"
)

type GoTrue interface {
	AdminCreateUser(ctx context.Context, email, password string) (string, error)
	AdminGetUser(ctx context.Context, id string) error
	AdminUpdateEmail(ctx context.Context, id, email string) error
	AdminDeleteUser(ctx context.Context, id string) error
	SignInWithPassword(ctx context.Context, email, password string) (string, error)
	Recover(ctx context.Context, email string) error
}

type TokenVerifier interface {
	Verify(token string) (jwt.SupabaseClaims, error)
}

// Supabase delegates credentials to Supabase Auth. The profile row only keeps
// the auth user id.
type Supabase struct {
	client   GoTrue
	verifier TokenVerifier
	logger   *log.Logger

	verifyAttempts int
	verifyDelay    time.Duration
	sleep          func(ctx context.Context, d time.Duration) error
}

func NewSupabase(client GoTrue, verifier TokenVerifier, verifyAttempts int, verifyDelay time.Duration, logger *log.Logger) *Supabase {
	if verifyAttempts <= 0 {
		verifyAttempts = 5
	}
	if verifyDelay < 0 {
		verifyDelay = 0
	}
	return &Supabase{
		client:         client,
		verifier:       verifier,
		logger:         logger,
		verifyAttempts: verifyAttempts,
		verifyDelay:    verifyDelay,
		sleep:          sleepCtx,
	}
}

func (p *Supabase) Name() string { return "supabase" }

// SignUp creates the auth user and waits until the admin API can read it
// back, so the profile row can reference it right away.
func (p *Supabase) SignUp(ctx context.Context, email, password string) (Credentials, error) {
	id, err := p.client.AdminCreateUser(ctx, email, password)
	if err != nil {
		if errors.Is(err, supabase.ErrEmailExists) {
			return Credentials{}, ErrEmailAlreadyRegistered
		}
		return Credentials{}, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	var lastErr error
	for attempt := 1; attempt <= p.verifyAttempts; attempt++ {
		lastErr = p.client.AdminGetUser(ctx, id)
		if lastErr == nil {
			return Credentials{AuthID: &id}, nil
		}
		if p.logger != nil {
			p.logger.Printf("supabase signup | auth user not visible yet attempt=%d/%d err=%v", attempt, p.verifyAttempts, lastErr)
		}
		if attempt < p.verifyAttempts {
			if err := p.sleep(ctx, p.verifyDelay); err != nil {
				lastErr = err
				break
			}
		}
	}

	_ = p.client.AdminDeleteUser(context.WithoutCancel(ctx), id)
	return Credentials{}, fmt.Errorf("%w: auth user %s not visible: %v", ErrProviderUnavailable, id, lastErr)
}

func (p *Supabase) SignIn(ctx context.Context, u user.User, password string) (string, error) {
	tok, err := p.client.SignInWithPassword(ctx, u.Email, password)
	if err != nil {
		if errors.Is(err, supabase.ErrInvalidCredentials) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	return tok, nil
}

func (p *Supabase) ResetPassword(ctx context.Context, email string) error {
	return p.client.Recover(ctx, email)
}

func (p *Supabase) Verify(_ context.Context, token string) (Subject, error) {
	claims, err := p.verifier.Verify(token)
	if err != nil {
		return Subject{}, ErrInvalidToken
	}
	return Subject{AuthID: claims.Subject}, nil
}

func (p *Supabase) ChangeEmail(ctx context.Context, creds Credentials, email string) error {
	if creds.AuthID == nil || *creds.AuthID == "" {
		return nil
	}
	err := p.client.AdminUpdateEmail(ctx, *creds.AuthID, email)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, supabase.ErrEmailExists):
		return ErrEmailAlreadyRegistered
	}
	return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
}

func (p *Supabase) Revoke(ctx context.Context, creds Credentials) error {
	if creds.AuthID == nil || *creds.AuthID == "" {
		return nil
	}
	err := p.client.AdminDeleteUser(ctx, *creds.AuthID)
	if errors.Is(err, supabase.ErrUserNotFound) {
		return nil
	}
	return err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
