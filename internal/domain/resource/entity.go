package resource

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultType  = "general"
	DefaultLimit = 50
	MaxLimit     = 100
)

var ErrNotFound = errors.New("resource not found")

type Resource struct {
	ID           uuid.UUID
	Title        string
	Organization string
	Category     string
	Description  string
	Type         string
	Link         *string
	// JSON object or nil.
	ContactInfo json.RawMessage

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Filter struct {
	Search   string
	Type     string
	Category string
	Limit    int
	Offset   int
}

func (f Filter) Normalize() Filter {
	f.Search = strings.Join(strings.Fields(f.Search), " ")
	f.Category = strings.Join(strings.Fields(f.Category), " ")
	f.Type = strings.TrimSpace(f.Type)
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

type Patch struct {
	Title        *string
	Organization *string
	Category     *string
	Description  *string
	Type         *string
	Link         *string
	ContactInfo  *json.RawMessage
}

func (p Patch) Empty() bool {
	return p.Title == nil && p.Organization == nil && p.Category == nil &&
		p.Description == nil && p.Type == nil && p.Link == nil && p.ContactInfo == nil
}

type Repository interface {
	Create(ctx context.Context, r Resource) error
	GetByID(ctx context.Context, id uuid.UUID) (Resource, error)
	List(ctx context.Context, f Filter) ([]Resource, error)
	Update(ctx context.Context, id uuid.UUID, p Patch, updatedAt time.Time) (Resource, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}
