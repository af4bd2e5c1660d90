// Package connect opens the database selected by DB_CLIENT and brings its
// schema up to date.
package connect

import (
	"context"
	"fmt"

	"worklinkph/internal/config"
	"worklinkph/internal/database"
	"worklinkph/internal/database/migration"
	"worklinkph/internal/database/postgres"
	"worklinkph/internal/database/sqldb"
	"worklinkph/migrations"
)

func Open(ctx context.Context, cfg config.DatabaseConfig) (database.DB, error) {
	switch cfg.Client {
	case config.DBClientPostgres:
		return postgres.Connect(ctx, cfg)
	case config.DBClientMySQL:
		return sqldb.OpenMySQL(ctx, cfg)
	case config.DBClientSQLite, "":
		return sqldb.OpenSQLite(ctx, cfg.DBPath)
	default:
		return nil, fmt.Errorf("unsupported db client %q", cfg.Client)
	}
}

// OpenAndMigrate opens the database and applies pending migrations.
func OpenAndMigrate(ctx context.Context, cfg config.DatabaseConfig) (database.DB, error) {
	db, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func Migrate(ctx context.Context, db database.DB) error {
	return migration.Runner{FS: migrations.FS}.Run(ctx, db)
}
