package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"worklinkph/internal/config"
	"worklinkph/internal/delivery/http/handler"
	"worklinkph/internal/delivery/http/middleware"
	"worklinkph/internal/delivery/http/routes"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const bodyLimit = 6 << 20

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the fiber application on top of an initialised container.
func New(c *Container) (*App, error) {
	cfg := c.Config

	f := fiber.New(fiber.Config{
		AppName:   cfg.App.AppName,
		BodyLimit: bodyLimit,
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metricsMw, err := middleware.NewMetricsMiddleware(reg)
	if err != nil {
		return nil, err
	}

	registerGlobalMiddleware(f, cfg, c.Logger, metricsMw)

	var counter middleware.WindowCounter
	if c.Cache.Available() {
		counter = c.Cache
	}

	registry := &routes.Registry{
		Health:         handler.NewHealthHandler(c.DB),
		Auth:           handler.NewAuthHandler(c.Auth, c.Validator),
		Users:          handler.NewUserHandler(c.Users),
		Jobs:           handler.NewJobsHandler(c.Jobs),
		Resources:      handler.NewResourcesHandler(c.Resources),
		AuthMiddleware: middleware.NewAuthMiddleware(c.Auth),
		RateLimit:      middleware.NewRateLimitMiddleware(counter, cfg.RateLimit.Window, cfg.RateLimit.MaxRequests, c.Logger),
		Metrics:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}
	registry.Register(f)

	return &App{Fiber: f, Container: c}, nil
}

// Bootstrap wires the container and the HTTP app. The returned cleanup
// releases the database and cache connections.
func Bootstrap(ctx context.Context, cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	a, err := New(c)
	if err != nil {
		_ = c.Close()
		return nil, nil, err
	}
	return a, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, cfg config.Config, logger *log.Logger, metrics *middleware.MetricsMiddleware) {
	if app == nil {
		return
	}

	app.Use(helmet.New())
	app.Use(cors.New(corsConfig(cfg.CORS)))

	accessLog := middleware.NewAccessLogMiddleware(logger)
	app.Use(accessLog.Middleware())

	if metrics != nil {
		app.Use(metrics.Middleware())
	}

	errMw := middleware.NewErrorMiddleware(cfg.App.IsDevelopment(), logger)
	app.Use(errMw.Middleware())
}

func corsConfig(cfg config.CORSConfig) cors.Config {
	origins := make([]string, 0, len(cfg.AllowedOrigins)+1)
	if cfg.FrontendURL != "" {
		origins = append(origins, strings.TrimRight(cfg.FrontendURL, "/"))
	}
	origins = append(origins, cfg.AllowedOrigins...)

	return cors.Config{
		AllowOrigins:     origins,
		AllowOriginsFunc: AllowedPreviewOrigin,
		AllowCredentials: true,
		AllowMethods:     []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete, fiber.MethodOptions},
		AllowHeaders:     []string{fiber.HeaderContentType, fiber.HeaderAuthorization, middleware.HeaderRequestID},
		ExposeHeaders:    []string{middleware.HeaderRequestID, "X-RateLimit-Limit", "X-RateLimit-Remaining"},
	}
}

// AllowedPreviewOrigin admits Vercel preview deployments.
func AllowedPreviewOrigin(origin string) bool {
	origin = strings.ToLower(strings.TrimSpace(origin))
	if !strings.HasPrefix(origin, "https://") {
		return false
	}
	return strings.HasSuffix(origin, ".vercel.app")
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
