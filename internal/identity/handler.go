package identity

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/lehoyeon/greenhand/internal/apperr"
)

// Handler exposes the signup endpoint.
type Handler struct {
	service *Service
}

// NewHandler constructs an identity HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register validates the form, then creates the account.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "malformed registration request")
	}
	if violations := ValidateRegistration(req); len(violations) > 0 {
		return apperr.Violations(violations)
	}
	if _, err := h.service.Register(c.UserContext(), req); err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "registration complete"})
}
