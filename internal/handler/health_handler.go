package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/billy93/E-Learning-sub000/internal/config"
	"github.com/billy93/E-Learning-sub000/internal/utils"
)

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
	Persistence string    `json:"persistence"`
}

// HealthCheck returns a handler that reports application health information.
func HealthCheck(cfg config.Config) fiber.Handler {
	persistence := "read-only"
	if cfg.PersistProgress {
		persistence = "write-through"
	}

	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			Persistence: persistence,
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
