package config

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// SecretLength is the required size in bytes of the decoded JWT signing key.
const SecretLength = 64

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName                string        `env:"APP_NAME" envDefault:"Greenhand"`
	AppEnv                 string        `env:"APP_ENV" envDefault:"development"`
	Port                   string        `env:"PORT" envDefault:"8080"`
	LogLevel               string        `env:"LOG_LEVEL" envDefault:"info"`
	DatabaseURL            string        `env:"DATABASE_URL"`
	RedisURL               string        `env:"REDIS_URL"`
	ShutdownPeriod         time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	IdempotencyTTL         time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`
	JWTSecret              string        `env:"JWT_SECRET"`
	TokenTTL               time.Duration `env:"JWT_TTL" envDefault:"24h"`
	BcryptCost             int           `env:"BCRYPT_COST" envDefault:"10"`
	LoginAttemptsPerMinute int           `env:"LOGIN_ATTEMPTS_PER_MINUTE" envDefault:"5"`
	Kakao                  Kakao         `envPrefix:"KAKAO_"`
}

// Kakao holds the OAuth2 client registration for Kakao login. Login through
// Kakao is disabled when ClientID is empty.
type Kakao struct {
	ClientID     string   `env:"CLIENT_ID"`
	ClientSecret string   `env:"CLIENT_SECRET"`
	RedirectURL  string   `env:"REDIRECT_URL" envDefault:"http://localhost:8080/login/oauth2/code/kakao"`
	AuthURL      string   `env:"AUTH_URL" envDefault:"https://kauth.kakao.com/oauth/authorize"`
	TokenURL     string   `env:"TOKEN_URL" envDefault:"https://kauth.kakao.com/oauth/token"`
	UserInfoURL  string   `env:"USER_INFO_URL" envDefault:"https://kapi.kakao.com/v2/user/me"`
	Scopes       []string `env:"SCOPES" envSeparator:"," envDefault:"profile_nickname,account_email"`
}

// Enabled reports whether a Kakao client is configured.
func (k Kakao) Enabled() bool {
	return k.ClientID != ""
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if _, err := cfg.SigningKey(); err != nil {
		return Config{}, err
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("JWT_TTL must be positive")
	}

	if !cfg.IsDev() {
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
	}

	return cfg, nil
}

// SigningKey decodes JWT_SECRET and checks it has the expected length.
func (c Config) SigningKey() ([]byte, error) {
	if c.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}
	key, err := base64.StdEncoding.DecodeString(c.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_SECRET: %w", err)
	}
	if len(key) != SecretLength {
		return nil, fmt.Errorf("JWT_SECRET must decode to %d bytes, got %d", SecretLength, len(key))
	}
	return key, nil
}

// IsDev reports whether the service runs in a development environment, where
// Postgres and Redis are optional and in-memory fallbacks are used.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}
