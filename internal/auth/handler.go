package auth

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/lehoyeon/greenhand/internal/apperr"
)

// Handler exposes login and logout endpoints.
type Handler struct {
	svc *Service
}

// NewHandler constructs an auth HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Login accepts JSON or form credentials and returns an access token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "malformed login request")
	}
	session, err := h.svc.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(session)
}

// Logout revokes the presented bearer token.
func (h *Handler) Logout(c *fiber.Ctx) error {
	token, ok := BearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return apperr.Authentication(apperr.CodeUnauthenticated, "missing bearer token")
	}
	if err := h.svc.Logout(c.UserContext(), token); err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "logged out"})
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
