package middleware

import (
	"context"
	"errors"
	"strings"

	"worklinkph/internal/domain/user"
	"worklinkph/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	CtxUserIDKey = "user_id"
	CtxUserKey   = "user"

	MessageAuthRequired = "Authentication required. Please login."
	MessageInvalidToken = "Invalid or expired token. Please login again."
	MessageUserGone     = "User not found. Please login again."
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (user.User, error)
}

type AuthMiddleware struct {
	auth Authenticator
}

func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerTokenFromHeader(c.Get("Authorization"))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, MessageAuthRequired, nil, nil)
		}

		usr, err := m.auth.Authenticate(c.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, usecase.ErrInvalidToken):
				return NewAppError(fiber.StatusUnauthorized, MessageInvalidToken, nil, err)
			case errors.Is(err, usecase.ErrUserNotFound):
				return NewAppError(fiber.StatusUnauthorized, MessageUserGone, nil, err)
			}
			return NewAppError(fiber.StatusInternalServerError, "", nil, err)
		}

		c.Locals(CtxUserIDKey, usr.ID)
		c.Locals(CtxUserKey, usr)

		return c.Next()
	}
}

func UserIDFrom(c fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(CtxUserIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func UserFrom(c fiber.Ctx) (user.User, bool) {
	u, ok := c.Locals(CtxUserKey).(user.User)
	return u, ok
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
