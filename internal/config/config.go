package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppPort  string `env:"APP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL"`

	KeycloakIssuer        string `env:"KEYCLOAK_ISSUER"`
	KeycloakClientID      string `env:"KEYCLOAK_CLIENT_ID"`
	KeycloakRedirectURL   string `env:"KEYCLOAK_REDIRECT_URL"`
	KeycloakPublicBaseURL string `env:"KEYCLOAK_PUBLIC_BASE_URL"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	DatabaseDSN string `env:"DATABASE_DSN,required,notEmpty"`

	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"true"`
	LoginPath    string        `env:"LOGIN_PATH" envDefault:"/auth/login"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	ConnectRetries int           `env:"CONNECT_RETRIES" envDefault:"5"`
	ConnectBackoff time.Duration `env:"CONNECT_BACKOFF" envDefault:"500ms"`
}

// GoogleEnabled reports whether every Google OAuth field is set.
func (c Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

// KeycloakEnabled reports whether every Keycloak OAuth field is set.
func (c Config) KeycloakEnabled() bool {
	return c.KeycloakIssuer != "" &&
		c.KeycloakClientID != "" &&
		c.KeycloakRedirectURL != "" &&
		c.KeycloakPublicBaseURL != ""
}

// Load reads an optional .env file and then parses the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}
	return Parse(env.Options{})
}

// Parse parses the environment (or opts.Environment when set) into a Config.
func Parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, errors.New("config: SESSION_TTL must be positive")
	}
	if !cfg.CookieSecure {
		// browsers drop the __Host- session cookie unless it is Secure
		return Config{}, errors.New("config: COOKIE_SECURE=false is not supported by the __Host- session cookie")
	}
	if cfg.LoginPath == "" || cfg.LoginPath[0] != '/' {
		return Config{}, errors.New("config: LOGIN_PATH must be an absolute path")
	}
	return cfg, nil
}
