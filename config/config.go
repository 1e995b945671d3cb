package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

type Config struct {
	Env  string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port string `env:"PORT" envDefault:"8080" validate:"required"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	JWTSecret   string `env:"JWT_SECRET,required" validate:"required,min=32"`
	JWTTTLHours int    `env:"JWT_TTL_HOURS" envDefault:"720" validate:"min=1"`

	OpenWeatherAPIKey  string `env:"OPENWEATHER_API_KEY,required" validate:"required"`
	OpenWeatherBaseURL string `env:"OPENWEATHER_BASE_URL" envDefault:"https://api.openweathermap.org" validate:"url"`
	ProviderTimeoutSec int    `env:"PROVIDER_TIMEOUT_SEC" envDefault:"10" validate:"min=1,max=120"`

	RefreshCron string `env:"REFRESH_CRON" envDefault:"0 * * * *" validate:"required"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Fail at startup, not on the first tick.
	if _, err := cron.ParseStandard(cfg.RefreshCron); err != nil {
		return nil, fmt.Errorf("invalid REFRESH_CRON %q: %w", cfg.RefreshCron, err)
	}

	return cfg, nil
}

func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTTTLHours) * time.Hour
}

func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.ProviderTimeoutSec) * time.Second
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
