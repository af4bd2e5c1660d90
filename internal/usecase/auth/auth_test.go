package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"worklinkph/internal/domain/user"
	"worklinkph/internal/infrastructure/supabase"
	"worklinkph/internal/pkg/jwt"

	"github.com/google/uuid"
)

func TestLocal_SignUpSignInVerify(t *testing.T) {
	ctx := context.Background()
	p := NewLocal(jwt.NewHMACService("secret", time.Hour))

	creds, err := p.SignUp(ctx, "a@example.com", "Secret1")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if creds.PasswordHash == nil || *creds.PasswordHash == "Secret1" {
		t.Fatalf("expected a bcrypt hash")
	}

	u := user.User{ID: uuid.New(), PasswordHash: creds.PasswordHash}
	tok, err := p.SignIn(ctx, u, "Secret1")
	if err != nil {
		t.Fatalf("signin: %v", err)
	}
	sub, err := p.Verify(ctx, tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sub.UserID != u.ID {
		t.Fatalf("expected subject %s, got %s", u.ID, sub.UserID)
	}

	if _, err := p.SignIn(ctx, u, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := p.SignIn(ctx, user.User{ID: u.ID}, "Secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for missing hash, got %v", err)
	}
	if _, err := p.Verify(ctx, "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

type fakeGoTrue struct {
	createErr     error
	visibleAfter  int
	getCalls      int
	deleted       []string
	signInToken   string
	signInErr     error
	recoverCalled string
	updateErr     error
	emails        map[string]string
}

func (f *fakeGoTrue) AdminCreateUser(context.Context, string, string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	return "auth-1", nil
}

func (f *fakeGoTrue) AdminGetUser(context.Context, string) error {
	f.getCalls++
	if f.getCalls >= f.visibleAfter {
		return nil
	}
	return supabase.ErrUserNotFound
}

func (f *fakeGoTrue) AdminUpdateEmail(_ context.Context, id, email string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.emails == nil {
		f.emails = map[string]string{}
	}
	f.emails[id] = email
	return nil
}

func (f *fakeGoTrue) AdminDeleteUser(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeGoTrue) SignInWithPassword(context.Context, string, string) (string, error) {
	return f.signInToken, f.signInErr
}

func (f *fakeGoTrue) Recover(_ context.Context, email string) error {
	f.recoverCalled = email
	return nil
}

type fakeVerifier struct {
	sub string
	err error
}

func (f fakeVerifier) Verify(string) (jwt.SupabaseClaims, error) {
	var c jwt.SupabaseClaims
	c.Subject = f.sub
	return c, f.err
}

func newTestSupabase(gt *fakeGoTrue, attempts int) (*Supabase, *int) {
	p := NewSupabase(gt, fakeVerifier{sub: "auth-1"}, attempts, 500*time.Millisecond, nil)
	sleeps := 0
	p.sleep = func(context.Context, time.Duration) error {
		sleeps++
		return nil
	}
	return p, &sleeps
}

func TestSupabase_SignUpWaitsForAuthUser(t *testing.T) {
	gt := &fakeGoTrue{visibleAfter: 3}
	p, sleeps := newTestSupabase(gt, 5)

	creds, err := p.SignUp(context.Background(), "a@example.com", "Secret1")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if creds.AuthID == nil || *creds.AuthID != "auth-1" {
		t.Fatalf("unexpected credentials %+v", creds)
	}
	if gt.getCalls != 3 || *sleeps != 2 {
		t.Fatalf("expected 3 lookups and 2 sleeps, got %d and %d", gt.getCalls, *sleeps)
	}
	if len(gt.deleted) != 0 {
		t.Fatalf("auth user should not be deleted")
	}
}

func TestSupabase_SignUpGivesUpAndDeletes(t *testing.T) {
	gt := &fakeGoTrue{visibleAfter: 100}
	p, sleeps := newTestSupabase(gt, 5)

	_, err := p.SignUp(context.Background(), "a@example.com", "Secret1")
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
	if gt.getCalls != 5 || *sleeps != 4 {
		t.Fatalf("expected 5 lookups and 4 sleeps, got %d and %d", gt.getCalls, *sleeps)
	}
	if len(gt.deleted) != 1 || gt.deleted[0] != "auth-1" {
		t.Fatalf("expected auth user cleanup, got %v", gt.deleted)
	}
}

func TestSupabase_SignUpEmailExists(t *testing.T) {
	p, _ := newTestSupabase(&fakeGoTrue{createErr: supabase.ErrEmailExists}, 5)
	if _, err := p.SignUp(context.Background(), "a@example.com", "Secret1"); !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("expected ErrEmailAlreadyRegistered, got %v", err)
	}
}

func TestSupabase_SignInVerifyRevoke(t *testing.T) {
	ctx := context.Background()
	gt := &fakeGoTrue{signInToken: "access"}
	p, _ := newTestSupabase(gt, 5)

	tok, err := p.SignIn(ctx, user.User{Email: "a@example.com"}, "Secret1")
	if err != nil || tok != "access" {
		t.Fatalf("expected access token, got %q (%v)", tok, err)
	}

	gt.signInErr = supabase.ErrInvalidCredentials
	if _, err := p.SignIn(ctx, user.User{Email: "a@example.com"}, "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	sub, err := p.Verify(ctx, "token")
	if err != nil || sub.AuthID != "auth-1" {
		t.Fatalf("unexpected subject %+v (%v)", sub, err)
	}

	id := "auth-9"
	if err := p.Revoke(ctx, Credentials{AuthID: &id}); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if len(gt.deleted) != 1 || gt.deleted[0] != "auth-9" {
		t.Fatalf("expected deletion of auth-9, got %v", gt.deleted)
	}

	if err := p.ResetPassword(ctx, "a@example.com"); err != nil || gt.recoverCalled != "a@example.com" {
		t.Fatalf("expected recover call, got %q (%v)", gt.recoverCalled, err)
	}
}

func TestSupabase_ChangeEmail(t *testing.T) {
	ctx := context.Background()
	gt := &fakeGoTrue{}
	p, _ := newTestSupabase(gt, 5)

	if err := p.ChangeEmail(ctx, Credentials{}, "new@example.com"); err != nil {
		t.Fatalf("profile without auth id: %v", err)
	}
	if len(gt.emails) != 0 {
		t.Fatalf("no auth user should be touched, got %v", gt.emails)
	}

	id := "auth-1"
	if err := p.ChangeEmail(ctx, Credentials{AuthID: &id}, "new@example.com"); err != nil {
		t.Fatalf("change email: %v", err)
	}
	if gt.emails["auth-1"] != "new@example.com" {
		t.Fatalf("auth email not updated: %v", gt.emails)
	}

	gt.updateErr = supabase.ErrEmailExists
	if err := p.ChangeEmail(ctx, Credentials{AuthID: &id}, "taken@example.com"); !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("expected ErrEmailAlreadyRegistered, got %v", err)
	}
	gt.updateErr = errors.New("timeout")
	if err := p.ChangeEmail(ctx, Credentials{AuthID: &id}, "x@example.com"); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}
