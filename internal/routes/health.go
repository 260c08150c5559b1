package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	statusOK       = "ok"
	statusDisabled = "disabled"
)

// RegisterHealthRoutes adds a readiness endpoint reporting store connectivity.
func RegisterHealthRoutes(app *fiber.App, d Deps) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		dbStatus, redisStatus := statusDisabled, statusDisabled

		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if d.DB != nil {
			dbStatus = statusOK
			if err := d.DB.Ping(ctx); err != nil {
				d.Logger.Warn("postgres health check failed", "error", err)
				dbStatus = "unavailable"
			}
		}
		if d.Cache != nil {
			redisStatus = statusOK
			if err := d.Cache.Ping(ctx).Err(); err != nil {
				d.Logger.Warn("redis health check failed", "error", err)
				redisStatus = "unavailable"
			}
		}

		status := http.StatusOK
		if dbStatus == "unavailable" || redisStatus == "unavailable" {
			status = http.StatusServiceUnavailable
		}
		return c.Status(status).JSON(fiber.Map{
			"status":    fiber.Map{"postgres": dbStatus, "redis": redisStatus},
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
}
