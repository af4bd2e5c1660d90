package routes

import (
	"net/http"

	"worklinkph/internal/delivery/http/handler"
	"worklinkph/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
)

type Registry struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	Users     *handler.UserHandler
	Jobs      *handler.JobsHandler
	Resources *handler.ResourcesHandler

	AuthMiddleware *middleware.AuthMiddleware
	// RateLimit is optional; nil disables limiting on /api.
	RateLimit *middleware.RateLimitMiddleware
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)

	app.Use(middleware.NotFound())
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.Health != nil {
		r.Health.RegisterRoutes(app)
	}
	if r.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(r.Metrics))
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	if r.RateLimit != nil {
		api.Use(r.RateLimit.Middleware())
	}

	protected := r.AuthMiddleware.Middleware()

	r.Auth.RegisterRoutes(api.Group("/auth"), protected)
	r.Users.RegisterRoutes(api.Group("/users", protected))
	r.Jobs.RegisterRoutes(api.Group("/jobs"), protected)
	r.Resources.RegisterRoutes(api.Group("/resources"), protected)
}
