package social

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/lehoyeon/greenhand/internal/apperr"
	"github.com/lehoyeon/greenhand/internal/auth"
	"github.com/lehoyeon/greenhand/internal/principal"
)

// Provider runs the provider side of the authorization-code flow.
type Provider interface {
	AuthCodeURL(state string) string
	Authenticate(ctx context.Context, code string) (principal.Social, error)
}

// SessionIssuer turns a social principal into a client session.
type SessionIssuer interface {
	IssueSocial(p principal.Social) (auth.Session, error)
}

// Handler exposes the OAuth2 redirect and callback endpoints.
type Handler struct {
	provider Provider
	states   StateStore
	sessions SessionIssuer
	logger   *slog.Logger
}

// NewHandler constructs a social login handler.
func NewHandler(provider Provider, states StateStore, sessions SessionIssuer, logger *slog.Logger) *Handler {
	return &Handler{provider: provider, states: states, sessions: sessions, logger: logger}
}

// Start redirects the browser to the provider consent page.
func (h *Handler) Start(c *fiber.Ctx) error {
	state, err := NewState()
	if err != nil {
		return apperr.Internal(err)
	}
	if err := h.states.Save(c.UserContext(), state); err != nil {
		return apperr.Internal(err)
	}
	return c.Redirect(h.provider.AuthCodeURL(state), http.StatusFound)
}

// Callback completes the flow and returns an access token.
func (h *Handler) Callback(c *fiber.Ctx) error {
	if reason := c.Query("error"); reason != "" {
		h.logger.Info("oauth authorization denied", slog.String("reason", reason))
		return apperr.Authentication(apperr.CodeOAuthFailed, "authorization was not granted")
	}

	code, state := c.Query("code"), c.Query("state")
	var missing []apperr.FieldViolation
	if code == "" {
		missing = append(missing, apperr.FieldViolation{Field: "code", Message: "code is required"})
	}
	if state == "" {
		missing = append(missing, apperr.FieldViolation{Field: "state", Message: "state is required"})
	}
	if len(missing) > 0 {
		return apperr.Violations(missing)
	}

	ok, err := h.states.Consume(c.UserContext(), state)
	if err != nil {
		return apperr.Internal(err)
	}
	if !ok {
		return apperr.Authentication(apperr.CodeInvalidOAuthState, "unknown or expired login attempt")
	}

	p, err := h.provider.Authenticate(c.UserContext(), code)
	if err != nil {
		h.logger.Warn("oauth login failed", slog.Any("error", err))
		return apperr.Authentication(apperr.CodeOAuthFailed, "could not complete social login")
	}

	session, err := h.sessions.IssueSocial(p)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(session)
}
