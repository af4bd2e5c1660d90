package seeder

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"worklinkph/internal/database"
	"worklinkph/internal/domain/job"
	"worklinkph/internal/domain/resource"
	"worklinkph/internal/repository"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed data/listings.yaml
var listingsYAML []byte

type listingsFile struct {
	Jobs []struct {
		Title       string   `yaml:"title"`
		Company     string   `yaml:"company"`
		Location    string   `yaml:"location"`
		Description string   `yaml:"description"`
		Type        string   `yaml:"type"`
		Tags        []string `yaml:"tags"`
	} `yaml:"jobs"`
	Resources []struct {
		Title        string `yaml:"title"`
		Organization string `yaml:"organization"`
		Category     string `yaml:"category"`
		Description  string `yaml:"description"`
		Type         string `yaml:"type"`
	} `yaml:"resources"`
}

func loadListings() (listingsFile, error) {
	var f listingsFile
	if err := yaml.Unmarshal(listingsYAML, &f); err != nil {
		return listingsFile{}, fmt.Errorf("parse listings.yaml: %w", err)
	}
	return f, nil
}

// ListingsSeeder inserts the sample jobs and resources. It does nothing when
// the jobs table already has rows.
type ListingsSeeder struct{}

func (ListingsSeeder) Name() string { return "listings" }

func (ListingsSeeder) Run(ctx context.Context, db database.DB) error {
	jobs := repository.NewSQLJobRepository(db)
	resources := repository.NewSQLResourceRepository(db)

	n, err := jobs.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	data, err := loadListings()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for i, item := range data.Jobs {
		// keep file order as newest-first
		at := now.Add(-time.Duration(i) * time.Second)
		err := jobs.Create(ctx, job.Job{
			ID:          uuid.New(),
			Title:       item.Title,
			Company:     item.Company,
			Location:    item.Location,
			Description: item.Description,
			Type:        item.Type,
			Tags:        item.Tags,
			CreatedAt:   at,
			UpdatedAt:   at,
		})
		if err != nil {
			return fmt.Errorf("insert job %q: %w", item.Title, err)
		}
	}

	for i, item := range data.Resources {
		at := now.Add(-time.Duration(i) * time.Second)
		err := resources.Create(ctx, resource.Resource{
			ID:           uuid.New(),
			Title:        item.Title,
			Organization: item.Organization,
			Category:     item.Category,
			Description:  item.Description,
			Type:         item.Type,
			CreatedAt:    at,
			UpdatedAt:    at,
		})
		if err != nil {
			return fmt.Errorf("insert resource %q: %w", item.Title, err)
		}
	}
	return nil
}
