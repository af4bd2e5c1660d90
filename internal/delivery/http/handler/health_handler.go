package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db  Pinger
	now func() time.Time
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, now: time.Now}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

// Health is a liveness check. A failing database ping is reported but does
// not change the status code.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	body := fiber.Map{
		"success":   true,
		"message":   "Server is running",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	}
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			body["database"] = "unavailable"
		} else {
			body["database"] = "ok"
		}
	}
	return c.Status(fiber.StatusOK).JSON(body)
}
