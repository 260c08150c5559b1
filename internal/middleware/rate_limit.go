package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig scopes a fixed-window limiter.
type RateLimitConfig struct {
	// Prefix namespaces the counters, e.g. "login".
	Prefix string
	// Field is the request body field identifying the subject. The client IP
	// is used when it is absent.
	Field  string
	Max    int
	Window time.Duration
}

// RateLimit limits attempts per subject using Redis counters. It is a no-op
// without Redis and fails open on cache errors.
func RateLimit(cache *redis.Client, cfg RateLimitConfig, logger *slog.Logger) fiber.Handler {
	if cfg.Max <= 0 {
		cfg.Max = 5
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}

		subject := strings.ToLower(bodyField(c, cfg.Field))
		if subject == "" {
			subject = c.IP()
		}
		key := "rl:" + cfg.Prefix + ":" + subject

		cnt, err := cache.Incr(c.UserContext(), key).Result()
		if err != nil {
			logger.Warn("rate limit lookup failed", slog.String("key", key), slog.Any("error", err))
			return c.Next()
		}
		if cnt == 1 {
			cache.Expire(c.UserContext(), key, cfg.Window)
		}
		if cnt > int64(cfg.Max) {
			return fiber.NewError(http.StatusTooManyRequests, "too many attempts, try again later")
		}
		return c.Next()
	}
}

// bodyField reads field from a form or JSON body without consuming it.
func bodyField(c *fiber.Ctx, field string) string {
	if field == "" {
		return ""
	}
	if v := strings.TrimSpace(c.FormValue(field)); v != "" {
		return v
	}
	var body map[string]any
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return ""
	}
	s, _ := body[field].(string)
	return strings.TrimSpace(s)
}
