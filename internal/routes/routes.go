package routes

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/lehoyeon/greenhand/internal/account"
	"github.com/lehoyeon/greenhand/internal/auth"
	"github.com/lehoyeon/greenhand/internal/config"
	"github.com/lehoyeon/greenhand/internal/identity"
	"github.com/lehoyeon/greenhand/internal/middleware"
	"github.com/lehoyeon/greenhand/internal/notification"
	"github.com/lehoyeon/greenhand/internal/principal"
	"github.com/lehoyeon/greenhand/internal/recovery"
	"github.com/lehoyeon/greenhand/internal/social"
)

// Deps aggregates shared dependencies required to wire routes. DB and Cache
// may be nil in development, in which case in-process stores are used.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}
	key, err := d.Cfg.SigningKey()
	if err != nil {
		return err
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	var accounts account.Repository
	if d.DB != nil {
		accounts = account.NewPostgresRepository(d.DB)
	} else {
		accounts = account.NewMemoryRepository()
	}

	var (
		revocations auth.Revocations
		states      social.StateStore
	)
	if d.Cache != nil {
		revocations = auth.NewRedisRevocations(d.Cache)
		states = social.NewRedisStateStore(d.Cache)
	} else {
		revocations = auth.NewMemoryRevocations()
		states = social.NewMemoryStateStore()
	}

	hasher := auth.NewHasher(d.Cfg.BcryptCost)
	tokens := auth.NewTokens(key, d.Cfg.TokenTTL, d.Logger)
	authSvc := auth.NewService(accounts, hasher, tokens, revocations, d.Logger)
	identitySvc := identity.NewService(accounts, hasher, d.Logger)
	recoverySvc := recovery.NewService(accounts, notification.NewLoggerNotifier(d.Logger), d.Logger)
	resolver := principal.NewResolver(accounts, d.Logger)

	limit := func(prefix, field string) fiber.Handler {
		return middleware.RateLimit(d.Cache, middleware.RateLimitConfig{
			Prefix: prefix,
			Field:  field,
			Max:    d.Cfg.LoginAttemptsPerMinute,
			Window: time.Minute,
		}, d.Logger)
	}
	authenticate := middleware.Principal(authSvc)

	RegisterIdentityRoutes(app, identity.NewHandler(identitySvc), middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	RegisterAuthRoutes(app, auth.NewHandler(authSvc), limit("login", "username"))
	RegisterRecoveryRoutes(app, recovery.NewHandler(recoverySvc), limit("find-id", "email"), limit("reset-password", "username"))
	RegisterProfileRoutes(app, NewProfileHandler(resolver), authenticate)

	if d.Cfg.Kakao.Enabled() {
		RegisterSocialRoutes(app, social.NewHandler(social.NewKakao(d.Cfg.Kakao), states, authSvc, d.Logger))
	} else {
		d.Logger.Info("kakao login disabled, KAKAO_CLIENT_ID not set")
	}

	return nil
}
