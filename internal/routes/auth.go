package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lehoyeon/greenhand/internal/auth"
)

// RegisterAuthRoutes wires local login and logout.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, rateLimiter fiber.Handler) {
	r.Post("/do-login", rateLimiter, h.Login)
	r.Post("/logout", h.Logout)
}
