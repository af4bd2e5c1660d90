package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"worklinkph/internal/domain/resource"

	"github.com/google/uuid"
)

type CreateResourceInput struct {
	Title        string
	Organization string
	Category     string
	Description  string
	Type         string
	Link         *string
	ContactInfo  json.RawMessage
}

type ResourceUsecase interface {
	ListResources(ctx context.Context, f resource.Filter) ([]resource.Resource, error)
	GetResource(ctx context.Context, id uuid.UUID) (resource.Resource, error)
	CreateResource(ctx context.Context, in CreateResourceInput) (resource.Resource, error)
	UpdateResource(ctx context.Context, id uuid.UUID, p resource.Patch) (resource.Resource, error)
	DeleteResource(ctx context.Context, id uuid.UUID) error
}

// Resources has no ownership rule: any authenticated user may edit.
type Resources struct {
	resources resource.Repository
	cache     ListingCache
	cacheTTL  time.Duration
	events    ListingEvents
	logger    *log.Logger
	now       func() time.Time
}

func NewResourceUsecase(resources resource.Repository, cache ListingCache, cacheTTL time.Duration, events ListingEvents, logger *log.Logger) *Resources {
	if events == nil {
		events = noopEvents{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Resources{resources: resources, cache: cache, cacheTTL: cacheTTL, events: events, logger: logger, now: time.Now}
}

func (u *Resources) ListResources(ctx context.Context, f resource.Filter) ([]resource.Resource, error) {
	f = f.Normalize()

	key := ""
	if u.cache != nil {
		key = ResourcesListCacheKey(f)
		var cached []resource.Resource
		hit, err := u.cache.GetJSON(ctx, key, &cached)
		if err == nil && hit {
			u.logger.Printf("[Resources] Cache HIT: %s", key)
			return cached, nil
		}
		u.logger.Printf("[Resources] Cache MISS: %s", key)
	}

	items, err := u.resources.List(ctx, f)
	if err != nil {
		return nil, err
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, key, items, u.cacheTTL); err != nil {
			u.logger.Printf("[Resources] Cache SET failed: %s err=%v", key, err)
		}
	}
	return items, nil
}

func (u *Resources) GetResource(ctx context.Context, id uuid.UUID) (resource.Resource, error) {
	r, err := u.resources.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			return resource.Resource{}, ErrResourceNotFound
		}
		return resource.Resource{}, err
	}
	return r, nil
}

func (u *Resources) CreateResource(ctx context.Context, in CreateResourceInput) (resource.Resource, error) {
	title := strings.TrimSpace(in.Title)
	org := strings.TrimSpace(in.Organization)
	description := strings.TrimSpace(in.Description)
	if title == "" || org == "" || description == "" {
		return resource.Resource{}, &ValidationError{Fields: []FieldError{{Field: "title", Message: "Title, organization, and description are required"}}}
	}

	typ := strings.TrimSpace(in.Type)
	if typ == "" {
		typ = resource.DefaultType
	}

	var contact json.RawMessage
	if !isJSONNull(in.ContactInfo) {
		obj, err := jsonObject(in.ContactInfo)
		if err != nil {
			return resource.Resource{}, &ValidationError{Fields: []FieldError{{Field: "contact_info", Message: "Contact info must be an object"}}}
		}
		contact = obj
	}

	now := u.now().UTC()
	r := resource.Resource{
		ID:           uuid.New(),
		Title:        title,
		Organization: org,
		Category:     strings.TrimSpace(in.Category),
		Description:  description,
		Type:         typ,
		Link:         blankToNil(in.Link),
		ContactInfo:  contact,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.resources.Create(ctx, r); err != nil {
		return resource.Resource{}, err
	}

	created, err := u.resources.GetByID(ctx, r.ID)
	if err != nil {
		return resource.Resource{}, err
	}
	u.invalidate(ctx)
	u.events.Publish(EventResourceCreated, created.ID)
	return created, nil
}

func (u *Resources) UpdateResource(ctx context.Context, id uuid.UUID, p resource.Patch) (resource.Resource, error) {
	if _, err := u.GetResource(ctx, id); err != nil {
		return resource.Resource{}, err
	}
	if p.Empty() {
		return resource.Resource{}, ErrNoFieldsToUpdate
	}
	if p.ContactInfo != nil && !isJSONNull(*p.ContactInfo) {
		obj, err := jsonObject(*p.ContactInfo)
		if err != nil {
			return resource.Resource{}, &ValidationError{Fields: []FieldError{{Field: "contact_info", Message: "Contact info must be an object"}}}
		}
		p.ContactInfo = &obj
	}

	updated, err := u.resources.Update(ctx, id, p, u.now().UTC())
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			return resource.Resource{}, ErrResourceNotFound
		}
		return resource.Resource{}, err
	}
	u.invalidate(ctx)
	u.events.Publish(EventResourceUpdated, id)
	return updated, nil
}

func (u *Resources) DeleteResource(ctx context.Context, id uuid.UUID) error {
	if err := u.resources.Delete(ctx, id); err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			return ErrResourceNotFound
		}
		return err
	}
	u.invalidate(ctx)
	u.events.Publish(EventResourceDeleted, id)
	return nil
}

func (u *Resources) invalidate(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if err := u.cache.DeleteByPattern(ctx, resourcesListPrefix+"*"); err != nil {
		u.logger.Printf("[Resources] Cache invalidate failed: %v", err)
	}
}
