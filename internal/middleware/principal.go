package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/lehoyeon/greenhand/internal/apperr"
	"github.com/lehoyeon/greenhand/internal/auth"
	"github.com/lehoyeon/greenhand/internal/principal"
)

const principalKey = "principal"

// Authenticator resolves a bearer token to the principal it was issued for.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (principal.Principal, error)
}

// Principal attaches the request principal to the context. Requests without
// an Authorization header proceed as principal.None; a bad token is rejected.
func Principal(authn Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			c.Locals(principalKey, principal.None{})
			return c.Next()
		}

		token, ok := auth.BearerToken(header)
		if !ok {
			return apperr.Authentication(apperr.CodeInvalidToken, "authorization header must carry a bearer token")
		}
		p, err := authn.Authenticate(c.UserContext(), token)
		if err != nil {
			return err
		}
		c.Locals(principalKey, p)
		return c.Next()
	}
}

// PrincipalFrom returns the principal attached by Principal, or None.
func PrincipalFrom(c *fiber.Ctx) principal.Principal {
	if p, ok := c.Locals(principalKey).(principal.Principal); ok && p != nil {
		return p
	}
	return principal.None{}
}
