package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"worklinkph/internal/domain/user"
	ucauth "worklinkph/internal/usecase/auth"

	"github.com/google/uuid"
)

var defaultNotifications = json.RawMessage(`{"email":true,"sms":false,"inApp":true}`)

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string

	City     *string
	Province *string
	Identity *string
	Skills   *string

	JobPreferences json.RawMessage
	Accessibility  json.RawMessage
	Notifications  json.RawMessage
}

type LoginInput struct {
	EmailOrPhone string
	Password     string
}

type AuthResult struct {
	User  user.User
	Token string
}

type AuthUsecase interface {
	Register(ctx context.Context, in RegisterInput) (AuthResult, error)
	Login(ctx context.Context, in LoginInput) (AuthResult, error)
	ForgotPassword(ctx context.Context, email string) error
	Me(ctx context.Context, userID uuid.UUID) (user.User, error)
	Authenticate(ctx context.Context, token string) (user.User, error)
}

type Auth struct {
	users    user.Repository
	provider ucauth.Provider
	logger   *log.Logger
	now      func() time.Time
}

func NewAuthUsecase(users user.Repository, provider ucauth.Provider, logger *log.Logger) *Auth {
	if logger == nil {
		logger = log.Default()
	}
	return &Auth{users: users, provider: provider, logger: logger, now: time.Now}
}

func (u *Auth) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	email := normalizeEmail(in.Email)
	phone := strings.TrimSpace(in.Phone)
	if email == "" || phone == "" || in.Password == "" {
		return AuthResult{}, ErrInvalidInput
	}

	if _, err := u.users.GetByEmail(ctx, email); err == nil {
		return AuthResult{}, ErrEmailTaken
	} else if !errors.Is(err, user.ErrNotFound) {
		return AuthResult{}, err
	}
	if _, err := u.users.GetByPhone(ctx, phone); err == nil {
		return AuthResult{}, ErrPhoneTaken
	} else if !errors.Is(err, user.ErrNotFound) {
		return AuthResult{}, err
	}

	creds, err := u.provider.SignUp(ctx, email, in.Password)
	if err != nil {
		if errors.Is(err, ucauth.ErrEmailAlreadyRegistered) {
			return AuthResult{}, ErrEmailTaken
		}
		return AuthResult{}, err
	}

	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	notifications := in.Notifications
	if len(notifications) == 0 || string(notifications) == "null" {
		notifications = defaultNotifications
	}

	now := u.now().UTC()
	usr := user.User{
		ID:                      uuid.New(),
		AuthID:                  creds.AuthID,
		FullName:                user.FullName(first, last),
		FirstName:               first,
		LastName:                last,
		Email:                   email,
		Phone:                   &phone,
		PasswordHash:            creds.PasswordHash,
		City:                    blankToNil(in.City),
		Province:                blankToNil(in.Province),
		Identity:                blankToNil(in.Identity),
		Skills:                  blankToNil(in.Skills),
		JobPreferences:          in.JobPreferences,
		AccessibilitySettings:   in.Accessibility,
		NotificationPreferences: notifications,
		CreatedAt:               now,
		UpdatedAt:               now,
	}

	if err := u.users.Create(ctx, usr); err != nil {
		if rerr := u.provider.Revoke(context.WithoutCancel(ctx), creds); rerr != nil {
			u.logger.Printf("auth register | revoke after failed profile insert email=%s err=%v", email, rerr)
		}
		switch {
		case errors.Is(err, user.ErrEmailTaken):
			return AuthResult{}, ErrEmailTaken
		case errors.Is(err, user.ErrPhoneTaken):
			return AuthResult{}, ErrPhoneTaken
		}
		return AuthResult{}, err
	}

	created, err := u.users.GetByID(ctx, usr.ID)
	if err != nil {
		return AuthResult{}, err
	}

	token, err := u.provider.SignIn(ctx, created, in.Password)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: created, Token: token}, nil
}

// Login accepts an email or a phone number. Anything without "@" is treated
// as a phone and stripped to its digits.
func (u *Auth) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	ident := strings.TrimSpace(in.EmailOrPhone)
	if ident == "" || in.Password == "" {
		return AuthResult{}, ErrInvalidCredentials
	}

	var (
		usr user.User
		err error
	)
	if strings.Contains(ident, "@") {
		usr, err = u.users.GetByEmail(ctx, normalizeEmail(ident))
	} else {
		phone := digitsOnly(ident)
		if phone == "" {
			return AuthResult{}, ErrInvalidCredentials
		}
		usr, err = u.users.GetByPhone(ctx, phone)
	}
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	token, err := u.provider.SignIn(ctx, usr, in.Password)
	if err != nil {
		if errors.Is(err, ucauth.ErrInvalidCredentials) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}
	return AuthResult{User: usr, Token: token}, nil
}

// ForgotPassword never reveals whether the address is registered.
func (u *Auth) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := u.provider.ResetPassword(ctx, usr.Email); err != nil {
		u.logger.Printf("auth forgot-password | provider=%s email=%s err=%v", u.provider.Name(), usr.Email, err)
	}
	return nil
}

func (u *Auth) Me(ctx context.Context, userID uuid.UUID) (user.User, error) {
	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrUserNotFound
		}
		return user.User{}, err
	}
	return usr, nil
}

// Authenticate resolves a bearer token to its profile.
func (u *Auth) Authenticate(ctx context.Context, token string) (user.User, error) {
	sub, err := u.provider.Verify(ctx, token)
	if err != nil {
		if errors.Is(err, ucauth.ErrInvalidToken) {
			return user.User{}, ErrInvalidToken
		}
		return user.User{}, err
	}

	var usr user.User
	if sub.AuthID != "" {
		usr, err = u.users.GetByAuthID(ctx, sub.AuthID)
	} else {
		usr, err = u.users.GetByID(ctx, sub.UserID)
	}
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrUserNotFound
		}
		return user.User{}, err
	}
	return usr, nil
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
