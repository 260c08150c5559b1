package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyKeyHeader = "Idempotency-Key"
	idempotencyPrefix    = "idempotency:register:"
	inProgressMarker     = "__in_progress__"
	cacheOpTimeout       = 2 * time.Second
)

type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        string `json:"body"`
}

// Idempotency replays the stored response when a client resubmits a request
// with the same Idempotency-Key header. Requests without the header, and all
// requests when Redis is not configured, pass straight through. Only
// responses below 500 are remembered so a failed attempt can be retried.
func Idempotency(cache *redis.Client, ttl time.Duration, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := strings.TrimSpace(c.Get(idempotencyKeyHeader))
		if cache == nil || key == "" {
			return c.Next()
		}
		cacheKey := idempotencyPrefix + key

		ctx, cancel := context.WithTimeout(c.UserContext(), cacheOpTimeout)
		defer cancel()

		cached, err := cache.Get(ctx, cacheKey).Result()
		switch {
		case err == nil:
			return replay(c, cached, key, logger)
		case !errors.Is(err, redis.Nil):
			logger.Error("idempotency lookup failed", slog.String("key", key), slog.Any("error", err))
			return fiber.NewError(http.StatusServiceUnavailable, "idempotency store unavailable")
		}

		reserved, err := cache.SetNX(ctx, cacheKey, inProgressMarker, ttl).Result()
		if err != nil {
			logger.Error("idempotency reservation failed", slog.String("key", key), slog.Any("error", err))
			return fiber.NewError(http.StatusServiceUnavailable, "idempotency store unavailable")
		}
		if !reserved {
			return fiber.NewError(http.StatusConflict, "duplicate request currently processing")
		}

		handlerErr := c.Next()
		if handlerErr != nil {
			// Errors are rendered later by the error handler, so let the
			// client retry with the same key.
			release(cache, cacheKey)
			return handlerErr
		}

		status := c.Response().StatusCode()
		if status >= http.StatusInternalServerError {
			release(cache, cacheKey)
			return nil
		}

		payload, err := json.Marshal(storedResponse{
			Status:      status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        string(c.Response().Body()),
		})
		if err == nil {
			persistCtx, persistCancel := context.WithTimeout(context.Background(), cacheOpTimeout)
			defer persistCancel()
			err = cache.Set(persistCtx, cacheKey, payload, ttl).Err()
		}
		if err != nil {
			logger.Warn("failed to persist idempotent response", slog.String("key", key), slog.Any("error", err))
			release(cache, cacheKey)
		}
		return nil
	}
}

func replay(c *fiber.Ctx, cached, key string, logger *slog.Logger) error {
	if cached == inProgressMarker {
		return fiber.NewError(http.StatusConflict, "duplicate request currently processing")
	}
	var stored storedResponse
	if err := json.Unmarshal([]byte(cached), &stored); err != nil {
		logger.Warn("failed to decode stored idempotent response", slog.String("key", key), slog.Any("error", err))
		return fiber.NewError(http.StatusConflict, "duplicate request")
	}
	if stored.ContentType != "" {
		c.Set(fiber.HeaderContentType, stored.ContentType)
	}
	c.Set("Idempotent-Replayed", "true")
	return c.Status(stored.Status).SendString(stored.Body)
}

func release(cache *redis.Client, cacheKey string) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
	defer cancel()
	cache.Del(ctx, cacheKey)
}
