package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"worklinkph/internal/config"
	"worklinkph/internal/database"
	"worklinkph/internal/database/connect"
	"worklinkph/internal/infrastructure/cache"
	"worklinkph/internal/infrastructure/storage"
	"worklinkph/internal/infrastructure/supabase"
	"worklinkph/internal/pkg/jwt"
	"worklinkph/internal/pkg/validate"
	"worklinkph/internal/repository"
	"worklinkph/internal/usecase"
	ucauth "worklinkph/internal/usecase/auth"
	"worklinkph/internal/ws"
)

// Container owns the long-lived dependencies shared by the HTTP server and
// the command line tools.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB       database.DB
	Cache    *cache.Redis
	Hub      *ws.Hub
	Provider ucauth.Provider

	Auth      *usecase.Auth
	Users     *usecase.User
	Jobs      *usecase.Jobs
	Resources *usecase.Resources
	Validator *validate.Validator
}

func NewContainer(ctx context.Context, cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := connect.OpenAndMigrate(dbCtx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	logger.Printf("database ready | client=%s", db.Dialect())

	c := &Container{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Cache:     cache.NewRedis(cfg.Redis, logger),
		Hub:       ws.NewHub(logger),
		Validator: validate.New(),
	}

	c.Provider, err = newProvider(cfg, logger)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	var avatars usecase.AvatarStorage
	if cfg.Storage.Enabled() {
		s, err := storage.NewAvatars(cfg.Storage)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("storage: %w", err)
		}
		if err := s.EnsureBucket(dbCtx); err != nil {
			logger.Printf("storage | ensure bucket failed bucket=%s err=%v", cfg.Storage.Bucket, err)
		}
		avatars = s
	}

	users := repository.NewSQLUserRepository(db)
	jobs := repository.NewSQLJobRepository(db)
	resources := repository.NewSQLResourceRepository(db)

	var listingCache usecase.ListingCache
	if c.Cache.Available() {
		listingCache = c.Cache
	}
	events := ws.NewPublisher(c.Hub)

	c.Auth = usecase.NewAuthUsecase(users, c.Provider, logger)
	c.Users = usecase.NewUserUsecase(users, c.Provider, avatars, listingCache, c.Validator, logger)
	c.Jobs = usecase.NewJobUsecase(jobs, listingCache, cfg.Redis.TTL, events, logger)
	c.Resources = usecase.NewResourceUsecase(resources, listingCache, cfg.Redis.TTL, events, logger)

	return c, nil
}

func newProvider(cfg config.Config, logger *log.Logger) (ucauth.Provider, error) {
	switch cfg.Auth.Provider {
	case config.AuthProviderSupabase:
		client := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey, cfg.Supabase.ServiceRoleKey, nil)
		verifier := jwt.NewSupabaseVerifier(cfg.Supabase.JWTSecret)
		return ucauth.NewSupabase(client, verifier, cfg.Supabase.VerifyAttempts, cfg.Supabase.VerifyDelay, logger), nil
	case config.AuthProviderLocal, "":
		return ucauth.NewLocal(jwt.NewHMACService(cfg.Auth.JWTSecret, cfg.Auth.JWTExpire)), nil
	default:
		return nil, fmt.Errorf("unsupported auth provider %q", cfg.Auth.Provider)
	}
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
