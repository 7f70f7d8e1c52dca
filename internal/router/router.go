package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/billy93/E-Learning-sub000/internal/config"
	"github.com/billy93/E-Learning-sub000/internal/handler"
	"github.com/billy93/E-Learning-sub000/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ProgressHandler *handler.ProgressHandler
	RollupHandler   *handler.RollupHandler
	EventHandler    *handler.EventHandler
	ExportHandler   *handler.ExportHandler
	ActivityHandler *handler.AdminActivityHandler
	JWTMiddleware   fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	v2 := app.Group("/api/v2", jwtMiddleware)

	if deps.ProgressHandler != nil {
		deps.ProgressHandler.Register(v2)
	}
	if deps.RollupHandler != nil {
		deps.RollupHandler.Register(v2)
	}
	if deps.EventHandler != nil {
		deps.EventHandler.Register(v2)
	}
	if deps.ExportHandler != nil {
		deps.ExportHandler.Register(v2)
	}
	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(v2)
	}
}
