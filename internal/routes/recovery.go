package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lehoyeon/greenhand/internal/recovery"
)

// RegisterRecoveryRoutes wires the find-id and reset-password lookups.
func RegisterRecoveryRoutes(r fiber.Router, h *recovery.Handler, findLimiter, resetLimiter fiber.Handler) {
	api := r.Group("/api")
	api.Post("/find-id", findLimiter, h.FindID)
	api.Post("/reset-password", resetLimiter, h.ResetPassword)
}
