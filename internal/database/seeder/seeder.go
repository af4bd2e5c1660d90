package seeder

import (
	"context"

	"worklinkph/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
