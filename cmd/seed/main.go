package main

import (
	"context"
	"flag"
	"log"
	"time"

	"worklinkph/internal/config"
	"worklinkph/internal/database/connect"
	"worklinkph/internal/database/seeder"
)

func main() {
	fake := flag.Int("fake", 0, "number of generated job listings to add")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed for generated data")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := connect.OpenAndMigrate(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	r := seeder.Runner{Seeders: seeder.Defaults(*fake, *seed), Logger: log.Default()}
	if err := r.Run(ctx, db); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	log.Printf("seed finished | client=%s fake=%d", db.Dialect(), *fake)
}
