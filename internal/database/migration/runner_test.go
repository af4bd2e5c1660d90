package migration_test

import (
	"context"
	"testing"
	"testing/fstest"

	"worklinkph/internal/database/migration"
	"worklinkph/internal/database/sqldb"
	"worklinkph/migrations"
)

func TestRunner_AppliesEmbeddedSQLiteMigrationsOnce(t *testing.T) {
	ctx := context.Background()
	db, err := sqldb.OpenSQLite(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	r := migration.Runner{FS: migrations.FS}
	if err := r.Run(ctx, db); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := r.Run(ctx, db); err != nil {
		t.Fatalf("second run: %v", err)
	}

	var n int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 applied migration, got %d", n)
	}

	for _, table := range []string{"users", "jobs", "resources"} {
		var c int
		if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM `+table).Scan(&c); err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

func TestRunner_ChecksumMismatch(t *testing.T) {
	ctx := context.Background()
	db, err := sqldb.OpenSQLite(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	v1 := fstest.MapFS{"sqlite/V1__t.sql": {Data: []byte("CREATE TABLE t (id INTEGER);")}}
	if err := (migration.Runner{FS: v1}).Run(ctx, db); err != nil {
		t.Fatalf("run: %v", err)
	}

	changed := fstest.MapFS{"sqlite/V1__t.sql": {Data: []byte("CREATE TABLE t (id TEXT);")}}
	if err := (migration.Runner{FS: changed}).Run(ctx, db); err == nil {
		t.Fatalf("expected checksum mismatch error")
	}
}

func TestRunner_NoDialectDirIsNoop(t *testing.T) {
	ctx := context.Background()
	db, err := sqldb.OpenSQLite(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if err := (migration.Runner{FS: fstest.MapFS{}}).Run(ctx, db); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestSplitStatements(t *testing.T) {
	got := migration.SplitStatements("-- header\nCREATE TABLE a (x INT);\n\n-- only a comment\n;CREATE INDEX i ON a (x);  ")
	if len(got) != 2 {
		t.Fatalf("expected 2 statements, got %d: %q", len(got), got)
	}
	if got[1] != "CREATE INDEX i ON a (x)" {
		t.Fatalf("unexpected second statement %q", got[1])
	}
}
