package app

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	redisclient "github.com/yungbote/wedsite-backend/internal/clients/redis"
	"github.com/yungbote/wedsite-backend/internal/data/db"
	"github.com/yungbote/wedsite-backend/internal/observability"
	"github.com/yungbote/wedsite-backend/internal/pkg/logger"
	"github.com/yungbote/wedsite-backend/internal/services"
)

type Config struct {
	HTTPAddr           string   `env:"HTTP_ADDR" envDefault:":8080"`
	LogMode            string   `env:"LOG_MODE" envDefault:"development"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	MetricsEnabled     bool     `env:"METRICS_ENABLED" envDefault:"false"`
	// MetricsAddr serves /metrics on its own listener; empty mounts it on the API router.
	MetricsAddr string `env:"METRICS_ADDR"`
	AutoMigrate bool   `env:"DB_AUTOMIGRATE" envDefault:"true"`

	DB    db.Config
	Redis redisclient.Config
	Otel  observability.OtelConfig
	Auth  services.AuthConfig
}

// LoadConfig parses the environment into a Config.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func logConfig(log *logger.Logger, cfg Config) {
	log.Debug("Loaded configuration", configFields(cfg)...)
}

// configFields never carries secret values, only whether they are set.
func configFields(cfg Config) []interface{} {
	return []interface{}{
		"http_addr", cfg.HTTPAddr,
		"db_driver", cfg.DB.Driver,
		"redis_enabled", cfg.Redis.Enabled(),
		"metrics_enabled", cfg.MetricsEnabled,
		"otel_enabled", cfg.Otel.Enabled,
		"cors_allowed_origins", cfg.CORSAllowedOrigins,
		"access_token_ttl", cfg.Auth.AccessTTL.String(),
		"jwt_secret_set", cfg.Auth.JWTSecretKey != "",
	}
}
