package handler

import (
	"errors"
	"strconv"

	"worklinkph/internal/delivery/http/middleware"
	"worklinkph/internal/infrastructure/storage"
	"worklinkph/internal/pkg/response"
	"worklinkph/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const (
	msgEmailTaken      = "Email already registered. Please login."
	msgPhoneTaken      = "Phone number already registered"
	msgBadCredentials  = "Invalid email/phone or password"
	msgUserNotFound    = "User not found"
	msgJobNotFound     = "Job not found"
	msgResourceMissing = "Resource not found"
	msgNoFields        = "No valid fields to update"
	msgAvatarRequired  = "Avatar URL is required"
	msgInvalidPayload  = "Invalid request payload"
)

// mapUsecaseError turns usecase sentinels into the status and message the
// API answers with. Ownership errors are mapped by the caller because their
// message depends on the action.
func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	var verr *usecase.ValidationError
	if errors.As(err, &verr) {
		return middleware.NewAppError(fiber.StatusBadRequest, verr.Error(), verr.Fields, err)
	}

	switch {
	case errors.Is(err, usecase.ErrEmailTaken):
		return middleware.NewAppError(fiber.StatusBadRequest, msgEmailTaken, nil, err)
	case errors.Is(err, usecase.ErrPhoneTaken):
		return middleware.NewAppError(fiber.StatusBadRequest, msgPhoneTaken, nil, err)
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusUnauthorized, msgBadCredentials, nil, err)
	case errors.Is(err, usecase.ErrInvalidToken):
		return middleware.NewAppError(fiber.StatusUnauthorized, middleware.MessageInvalidToken, nil, err)
	case errors.Is(err, usecase.ErrUserNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, msgUserNotFound, nil, err)
	case errors.Is(err, usecase.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, msgJobNotFound, nil, err)
	case errors.Is(err, usecase.ErrResourceNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, msgResourceMissing, nil, err)
	case errors.Is(err, usecase.ErrNoFieldsToUpdate):
		return middleware.NewAppError(fiber.StatusBadRequest, msgNoFields, nil, err)
	case errors.Is(err, usecase.ErrAvatarRequired):
		return middleware.NewAppError(fiber.StatusBadRequest, msgAvatarRequired, nil, err)
	case errors.Is(err, usecase.ErrStorageDisabled):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Avatar upload is not available", nil, err)
	case errors.Is(err, storage.ErrTooLarge):
		return middleware.NewAppError(fiber.StatusBadRequest, "Avatar must be 5MB or smaller", nil, err)
	case errors.Is(err, storage.ErrNotAnImage):
		return middleware.NewAppError(fiber.StatusBadRequest, "Avatar must be a JPEG, PNG, GIF or WebP image", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, response.MessageForbidden, nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func validationFailed(fields []usecase.FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return middleware.NewAppError(fiber.StatusBadRequest, fields[0].Message, fields, nil)
}

func badPayload(err error) error {
	return middleware.NewAppError(fiber.StatusBadRequest, msgInvalidPayload, nil, err)
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return v, nil
}
