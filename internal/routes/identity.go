package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lehoyeon/greenhand/internal/identity"
)

// RegisterIdentityRoutes wires account signup.
func RegisterIdentityRoutes(r fiber.Router, h *identity.Handler, idempotency fiber.Handler) {
	r.Post("/register", idempotency, h.Register)
}
