package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/habitquest/habitquest/web/models"
	"github.com/habitquest/habitquest/web/utils"
)

// HandleHealthCheck reports service and database health.
func HandleHealthCheck(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		health := models.NewHealthCheck(webApp.Version)

		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()

		start := time.Now()
		if err := webApp.DB.Ping(ctx); err != nil {
			health.AddComponent("database", "unhealthy", err.Error(), nil)
		} else {
			health.AddComponent("database", "healthy", "", map[string]interface{}{
				"latency_ms": time.Since(start).Milliseconds(),
			})
		}

		status := fiber.StatusOK
		if health.Status != "healthy" {
			status = fiber.StatusServiceUnavailable
		}
		return utils.SendJSON(c, status, health)
	}
}
