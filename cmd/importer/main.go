package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"worklinkph/internal/app"
	"worklinkph/internal/config"
	"worklinkph/internal/importer"
)

func main() {
	baseURL := flag.String("base-url", importer.DefaultBaseURL, "job board base URL")
	query := flag.String("query", "", "search keywords, e.g. \"pwd\"")
	pages := flag.Int("pages", 2, "listing pages to crawl")
	workers := flag.Int("workers", 4, "concurrent detail page fetches")
	rps := flag.Float64("rps", 2, "max requests per second (0 disables)")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall run timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	c, err := app.NewContainer(ctx, cfg, log.Default())
	if err != nil {
		log.Fatalf("failed to init container: %v", err)
	}
	defer func() {
		_ = c.Close()
	}()

	s := importer.NewJobStreet(importer.Config{
		BaseURL:           *baseURL,
		Query:             *query,
		Pages:             *pages,
		Workers:           *workers,
		RequestsPerSecond: *rps,
	}, c.Jobs, c.Logger)

	stats, err := s.Run(ctx)
	log.Printf("import finished | found=%d imported=%d skipped=%d failed=%d", stats.Found, stats.Imported, stats.Skipped, stats.Failed)
	if err != nil {
		log.Fatalf("import aborted: %v", err)
	}
}
