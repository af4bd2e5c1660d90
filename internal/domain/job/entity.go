package job

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultType  = "full-time"
	SourceLocal  = "worklink"
	DefaultLimit = 50
	MaxLimit     = 100
)

var ErrNotFound = errors.New("job not found")

type Job struct {
	ID          uuid.UUID
	Title       string
	Company     string
	Location    string
	Description string
	Type        string
	Tags        []string
	PostedBy    *uuid.UUID

	Source      string
	ExternalID  *string
	ExternalURL *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Filter struct {
	Search   string
	Type     string
	Location string
	Tags     []string
	Limit    int
	Offset   int
}

// Normalize clamps paging, trims tags (dropping blank ones) and collapses
// whitespace runs in the text filters.
func (f Filter) Normalize() Filter {
	f.Search = collapseSpaces(f.Search)
	f.Location = collapseSpaces(f.Location)
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
	tags := make([]string, 0, len(f.Tags))
	for _, t := range f.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	f.Tags = tags
	return f
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Patch carries the updatable job fields; nil means unchanged.
type Patch struct {
	Title       *string
	Company     *string
	Location    *string
	Description *string
	Type        *string
	Tags        *[]string
}

func (p Patch) Empty() bool {
	return p.Title == nil && p.Company == nil && p.Location == nil &&
		p.Description == nil && p.Type == nil && p.Tags == nil
}

type Repository interface {
	Create(ctx context.Context, j Job) error
	GetByID(ctx context.Context, id uuid.UUID) (Job, error)
	List(ctx context.Context, f Filter) ([]Job, error)
	Update(ctx context.Context, id uuid.UUID, p Patch, updatedAt time.Time) (Job, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
	ExistsByExternalID(ctx context.Context, source, externalID string) (bool, error)
}
