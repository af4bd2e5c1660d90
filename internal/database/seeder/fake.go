package seeder

import (
	"context"
	"fmt"
	"time"

	"worklinkph/internal/database"
	"worklinkph/internal/domain/job"
	"worklinkph/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

var (
	fakeJobTypes = []string{"full-time", "part-time", "remote", "office", "field"}
	fakeJobTags  = []string{"PWDs", "Senior Citizens", "Youth", "Work from Home", "Part-time", "Full-time", "Rural Communities", "Indigenous Peoples"}
	fakeCities   = []string{"Makati City", "Quezon City", "Taguig City", "Cebu City", "Davao City", "Iloilo City", "Baguio City", "Pasig City"}
)

// FakeJobsSeeder adds Count generated job listings for local development.
type FakeJobsSeeder struct {
	Count int
	Seed  int64
}

func (FakeJobsSeeder) Name() string { return "fake_jobs" }

func (s FakeJobsSeeder) Run(ctx context.Context, db database.DB) error {
	if s.Count <= 0 {
		return nil
	}
	faker := gofakeit.New(s.Seed)
	repo := repository.NewSQLJobRepository(db)

	now := time.Now().UTC()
	for i := 0; i < s.Count; i++ {
		tags := make([]string, 0, 3)
		seen := map[string]bool{}
		for len(tags) < 1+faker.Number(0, 2) {
			t := faker.RandomString(fakeJobTags)
			if seen[t] {
				continue
			}
			seen[t] = true
			tags = append(tags, t)
		}

		at := now.Add(-time.Duration(i) * time.Minute)
		j := job.Job{
			ID:          uuid.New(),
			Title:       faker.JobTitle(),
			Company:     faker.Company(),
			Location:    faker.RandomString(fakeCities),
			Description: faker.Paragraph(1, 3, 12, " "),
			Type:        faker.RandomString(fakeJobTypes),
			Tags:        tags,
			CreatedAt:   at,
			UpdatedAt:   at,
		}
		if err := repo.Create(ctx, j); err != nil {
			return fmt.Errorf("insert fake job %d: %w", i, err)
		}
	}
	return nil
}
