package seeder_test

import (
	"context"
	"testing"

	"worklinkph/internal/database/connect"
	"worklinkph/internal/database/seeder"
	"worklinkph/internal/database/sqldb"
	"worklinkph/internal/domain/job"
	"worklinkph/internal/repository"
)

func TestRunner_SeedsListingsOnce(t *testing.T) {
	ctx := context.Background()
	db, err := sqldb.OpenSQLite(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	if err := connect.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	r := seeder.Runner{Seeders: seeder.Defaults(0, 1)}
	if err := r.Run(ctx, db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := r.Run(ctx, db); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	jobs := repository.NewSQLJobRepository(db)
	n, err := jobs.Count(ctx)
	if err != nil || n != 4 {
		t.Fatalf("expected 4 jobs, got %d (%v)", n, err)
	}
	resources := repository.NewSQLResourceRepository(db)
	n, err = resources.Count(ctx)
	if err != nil || n != 5 {
		t.Fatalf("expected 5 resources, got %d (%v)", n, err)
	}

	list, err := jobs.List(ctx, job.Filter{Tags: []string{"Indigenous Peoples"}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Company != "Bayanihan Foundation" {
		t.Fatalf("unexpected tag search result: %+v", list)
	}
}

func TestFakeJobsSeeder(t *testing.T) {
	ctx := context.Background()
	db, err := sqldb.OpenSQLite(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	if err := connect.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := (seeder.FakeJobsSeeder{Count: 7, Seed: 42}).Run(ctx, db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	n, err := repository.NewSQLJobRepository(db).Count(ctx)
	if err != nil || n != 7 {
		t.Fatalf("expected 7 jobs, got %d (%v)", n, err)
	}
}
