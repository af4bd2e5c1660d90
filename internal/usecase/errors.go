package usecase

import (
	"errors"
	"strings"

	"worklinkph/internal/pkg/validate"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email/phone or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPhoneTaken         = errors.New("phone number already registered")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
	ErrJobNotFound        = errors.New("job not found")
	ErrResourceNotFound   = errors.New("resource not found")
	ErrForbidden          = errors.New("forbidden")
	ErrNoFieldsToUpdate   = errors.New("no valid fields to update")
	ErrAvatarRequired     = errors.New("avatar url is required")
	ErrStorageDisabled    = errors.New("avatar storage is not configured")
	ErrInternal           = errors.New("internal error")
)

type FieldError = validate.FieldError

// ValidationError lists every rejected field. Error() returns the first
// message, which is what clients show.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	return e.Fields[0].Message
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
