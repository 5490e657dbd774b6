package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// AppConfig is the typed application configuration parsed from the
// environment. The app transfer fee percent is injected into the
// vendor exchange calculation from here rather than read as ambient
// global state.
type AppConfig struct {
	Port        string `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	JWTSecret   string `env:"JWT_SECRET"`

	AppTransferFeePercent float64 `env:"APP_TRANSFER_FEE_PERCENT" envDefault:"5.0"`

	AuthRateLimit     int `env:"AUTH_RATE_LIMIT_PER_MINUTE" envDefault:"10"`
	ExchangeRateLimit int `env:"EXCHANGE_RATE_LIMIT_PER_MINUTE" envDefault:"30"`

	FrontendURL string `env:"FRONTEND_URL"`
	AdminURL    string `env:"ADMIN_URL"`
	VendorURL   string `env:"VENDOR_URL"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func LoadEnv() error {
	// Try to load .env file if it exists (for local development).
	// On production, environment variables are set directly.
	_ = godotenv.Load()
	return nil
}

// Load parses the environment into an AppConfig.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Validate checks that critical configuration is set. Returns an error
// if the application cannot function.
func (c *AppConfig) Validate() error {
	var missing []string

	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}

	// Non-critical variables: warn but don't fail.
	if c.FrontendURL == "" {
		logrus.Warn("FRONTEND_URL not set - CORS may not work correctly")
	}
	if c.AppTransferFeePercent < 0 {
		return fmt.Errorf("APP_TRANSFER_FEE_PERCENT must not be negative")
	}

	return nil
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
