package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MinJWTSecretLength is enforced outside development.
const MinJWTSecretLength = 32

const devJWTSecret = "development-only-secret-change-me!"

type Config struct {
	Env      string `env:"ENV" envDefault:"development"`
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DBDriver    string `env:"DB_DRIVER" envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL"`

	JWTSecret      string        `env:"JWT_SECRET"`
	JWTExpiration  time.Duration `env:"JWT_EXPIRATION" envDefault:"24h"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5s"`

	// RedisURL enables the shared token revocation store.
	RedisURL string `env:"REDIS_URL"`

	LoginRatePerMinute int      `env:"LOGIN_RATE_PER_MINUTE" envDefault:"10"`
	AllowedOrigins     []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	AllowRegistration  bool     `env:"ALLOW_REGISTRATION" envDefault:"false"`
	SlugStrategies     string   `env:"SLUG_STRATEGIES" envDefault:"exact,decoded,normalized"`

	SeedAdmin SeedAdminConfig `envPrefix:"SEED_ADMIN_"`
	Minio     MinioConfig     `envPrefix:"MINIO_"`
}

type SeedAdminConfig struct {
	Email    string `env:"EMAIL"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME" envDefault:"Administrator"`
}

type MinioConfig struct {
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET" envDefault:"cms-assets"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
	PublicURL string `env:"PUBLIC_URL"`
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c Config) UseRedis() bool {
	return c.RedisURL != ""
}

func (c Config) AssetsEnabled() bool {
	return c.Minio.Endpoint != ""
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
	return Parse(env.Options{})
}

// Parse builds a Config from opts, which tests use to supply an explicit
// environment.
func Parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error

	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver))
	}
	if c.DatabaseURL == "" {
		if c.DBDriver == "sqlite" {
			c.DatabaseURL = "file:cms.db?_foreign_keys=on"
		} else {
			errs = append(errs, errors.New("DATABASE_URL is required"))
		}
	}

	if c.JWTSecret == "" && c.IsDevelopment() {
		slog.Warn("JWT_SECRET not set; using an insecure development secret")
		c.JWTSecret = devJWTSecret
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if !c.IsDevelopment() && (len(c.JWTSecret) < MinJWTSecretLength || c.JWTSecret == devJWTSecret) {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes and not the development default", MinJWTSecretLength))
	}

	if c.JWTExpiration <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION must be positive"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	if c.LoginRatePerMinute <= 0 {
		errs = append(errs, errors.New("LOGIN_RATE_PER_MINUTE must be positive"))
	}

	for i, origin := range c.AllowedOrigins {
		c.AllowedOrigins[i] = strings.TrimSpace(origin)
	}
	return errors.Join(errs...)
}
