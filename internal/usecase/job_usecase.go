package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"worklinkph/internal/domain/job"

	"github.com/google/uuid"
)

type CreateJobInput struct {
	Title       string
	Company     string
	Location    string
	Description string
	Type        string
	Tags        []string
}

type JobUsecase interface {
	ListJobs(ctx context.Context, f job.Filter) ([]job.Job, error)
	GetJob(ctx context.Context, id uuid.UUID) (job.Job, error)
	CreateJob(ctx context.Context, posterID uuid.UUID, in CreateJobInput) (job.Job, error)
	UpdateJob(ctx context.Context, callerID, id uuid.UUID, p job.Patch) (job.Job, error)
	DeleteJob(ctx context.Context, callerID, id uuid.UUID) error
	ImportJob(ctx context.Context, j job.Job) (bool, error)
}

type Jobs struct {
	jobs     job.Repository
	cache    ListingCache
	cacheTTL time.Duration
	events   ListingEvents
	logger   *log.Logger
	now      func() time.Time
}

func NewJobUsecase(jobs job.Repository, cache ListingCache, cacheTTL time.Duration, events ListingEvents, logger *log.Logger) *Jobs {
	if events == nil {
		events = noopEvents{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Jobs{jobs: jobs, cache: cache, cacheTTL: cacheTTL, events: events, logger: logger, now: time.Now}
}

func (u *Jobs) ListJobs(ctx context.Context, f job.Filter) ([]job.Job, error) {
	f = f.Normalize()

	key := ""
	if u.cache != nil {
		key = JobsListCacheKey(f)
		var cached []job.Job
		hit, err := u.cache.GetJSON(ctx, key, &cached)
		if err == nil && hit {
			u.logger.Printf("[Jobs] Cache HIT: %s", key)
			return cached, nil
		}
		u.logger.Printf("[Jobs] Cache MISS: %s", key)
	}

	items, err := u.jobs.List(ctx, f)
	if err != nil {
		return nil, err
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, key, items, u.cacheTTL); err != nil {
			u.logger.Printf("[Jobs] Cache SET failed: %s err=%v", key, err)
		}
	}
	return items, nil
}

func (u *Jobs) GetJob(ctx context.Context, id uuid.UUID) (job.Job, error) {
	j, err := u.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, err
	}
	return j, nil
}

func (u *Jobs) CreateJob(ctx context.Context, posterID uuid.UUID, in CreateJobInput) (job.Job, error) {
	title := strings.TrimSpace(in.Title)
	company := strings.TrimSpace(in.Company)
	description := strings.TrimSpace(in.Description)
	if title == "" || company == "" || description == "" {
		return job.Job{}, &ValidationError{Fields: []FieldError{{Field: "title", Message: "Title, company, and description are required"}}}
	}

	typ := strings.TrimSpace(in.Type)
	if typ == "" {
		typ = job.DefaultType
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	now := u.now().UTC()
	poster := posterID
	j := job.Job{
		ID:          uuid.New(),
		Title:       title,
		Company:     company,
		Location:    strings.TrimSpace(in.Location),
		Description: description,
		Type:        typ,
		Tags:        tags,
		PostedBy:    &poster,
		Source:      job.SourceLocal,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.jobs.Create(ctx, j); err != nil {
		return job.Job{}, err
	}

	created, err := u.jobs.GetByID(ctx, j.ID)
	if err != nil {
		return job.Job{}, err
	}
	u.invalidate(ctx)
	u.events.Publish(EventJobCreated, created.ID)
	return created, nil
}

// UpdateJob is allowed only for the user who posted the job.
func (u *Jobs) UpdateJob(ctx context.Context, callerID, id uuid.UUID, p job.Patch) (job.Job, error) {
	cur, err := u.GetJob(ctx, id)
	if err != nil {
		return job.Job{}, err
	}
	if cur.PostedBy == nil || *cur.PostedBy != callerID {
		return job.Job{}, ErrForbidden
	}
	if p.Empty() {
		return job.Job{}, ErrNoFieldsToUpdate
	}

	updated, err := u.jobs.Update(ctx, id, p, u.now().UTC())
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, err
	}
	u.invalidate(ctx)
	u.events.Publish(EventJobUpdated, id)
	return updated, nil
}

func (u *Jobs) DeleteJob(ctx context.Context, callerID, id uuid.UUID) error {
	cur, err := u.GetJob(ctx, id)
	if err != nil {
		return err
	}
	if cur.PostedBy == nil || *cur.PostedBy != callerID {
		return ErrForbidden
	}
	if err := u.jobs.Delete(ctx, id); err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return ErrJobNotFound
		}
		return err
	}
	u.invalidate(ctx)
	u.events.Publish(EventJobDeleted, id)
	return nil
}

// ImportJob stores a job fetched from an external board unless one with the
// same source and external id already exists. It reports whether a row was
// inserted.
func (u *Jobs) ImportJob(ctx context.Context, j job.Job) (bool, error) {
	if j.Source == "" || j.ExternalID == nil || *j.ExternalID == "" {
		return false, ErrInvalidInput
	}
	if strings.TrimSpace(j.Title) == "" || strings.TrimSpace(j.Company) == "" {
		return false, ErrInvalidInput
	}

	exists, err := u.jobs.ExistsByExternalID(ctx, j.Source, *j.ExternalID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	now := u.now().UTC()
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	if j.Type == "" {
		j.Type = job.DefaultType
	}
	if j.CreatedAt.IsZero() {
		j.CreatedAt = now
	}
	j.UpdatedAt = now
	j.PostedBy = nil

	if err := u.jobs.Create(ctx, j); err != nil {
		return false, err
	}
	u.invalidate(ctx)
	u.events.Publish(EventJobCreated, j.ID)
	return true, nil
}

func (u *Jobs) invalidate(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if err := u.cache.DeleteByPattern(ctx, jobsListPrefix+"*"); err != nil {
		u.logger.Printf("[Jobs] Cache invalidate failed: %v", err)
	}
}
