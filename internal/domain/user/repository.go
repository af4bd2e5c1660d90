package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
	ErrPhoneTaken = errors.New("phone already registered")
)

// Changes maps column names (see the Col* constants) to new values. JSON
// columns take json.RawMessage.
type Changes map[string]any

type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByPhone(ctx context.Context, phone string) (User, error)
	GetByAuthID(ctx context.Context, authID string) (User, error)
	Update(ctx context.Context, id uuid.UUID, changes Changes, updatedAt time.Time) (User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
