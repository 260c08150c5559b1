package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lehoyeon/greenhand/internal/social"
)

// RegisterSocialRoutes wires the Kakao authorization redirect and callback.
func RegisterSocialRoutes(r fiber.Router, h *social.Handler) {
	r.Get("/oauth2/authorization/kakao", h.Start)
	r.Get("/login/oauth2/code/kakao", h.Callback)
}
