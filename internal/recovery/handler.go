package recovery

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/lehoyeon/greenhand/internal/account"
	"github.com/lehoyeon/greenhand/internal/apperr"
)

// Handler exposes account recovery endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a recovery HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type findIDRequest struct {
	Email       string `json:"email" form:"email"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber"`
}

type resetRequest struct {
	Username    string `json:"username" form:"username"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber"`
}

// FindID looks up a username by email and phone number.
func (h *Handler) FindID(c *fiber.Ctx) error {
	var req findIDRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "malformed request")
	}
	if err := required("email", req.Email, "phoneNumber", req.PhoneNumber); err != nil {
		return err
	}
	username, err := h.service.FindUsername(c.UserContext(), req.Email, req.PhoneNumber)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "account found", "username": username})
}

// ResetPassword verifies username and phone number and starts a reset.
func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	var req resetRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "malformed request")
	}
	if err := required("username", req.Username, "phoneNumber", req.PhoneNumber); err != nil {
		return err
	}
	if err := h.service.RequestReset(c.UserContext(), req.Username, req.PhoneNumber); err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "account verified, password reset instructions will follow"})
}

// required reports every blank field of the (name, value) pairs.
func required(pairs ...string) error {
	var violations []apperr.FieldViolation
	for i := 0; i+1 < len(pairs); i += 2 {
		value := strings.TrimSpace(pairs[i+1])
		if pairs[i] == "phoneNumber" {
			value = account.NormalizePhone(value)
		}
		if value == "" {
			violations = append(violations, apperr.FieldViolation{Field: pairs[i], Message: pairs[i] + " is required"})
		}
	}
	if len(violations) == 0 {
		return nil
	}
	return apperr.Violations(violations)
}
