package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/lehoyeon/greenhand/internal/middleware"
	"github.com/lehoyeon/greenhand/internal/principal"
)

// ProfileHandler serves the current-user view.
type ProfileHandler struct {
	resolver *principal.Resolver
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(resolver *principal.Resolver) *ProfileHandler {
	return &ProfileHandler{resolver: resolver}
}

// Me returns {username, nickname, email} for the request principal.
func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	id, err := h.resolver.Resolve(c.UserContext(), middleware.PrincipalFrom(c))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(id)
}

// RegisterProfileRoutes wires the /api/main endpoints behind the principal middleware.
func RegisterProfileRoutes(r fiber.Router, h *ProfileHandler, authenticate fiber.Handler) {
	group := r.Group("/api/main", authenticate)
	group.Get("/user/me", h.Me)
}
