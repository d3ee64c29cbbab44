package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the Fee service.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"fee-server"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"FEE_API_PORT" envDefault:"8480"`
	LogLevel        string        `env:"FEE_LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"FEE_LOG_FORMAT" envDefault:"console"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Database (required, no default)
	DatabaseDSN string `env:"DB_POSTGRESQL_DSN,notEmpty"`

	// Database Connection Pool
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"15"`
	DBConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	// Upload Storage
	UploadStoragePath string `env:"FEE_UPLOAD_STORAGE_PATH" envDefault:"./uploads"`
	MaxUploadBytes    int64  `env:"FEE_MAX_UPLOAD_BYTES" envDefault:"20971520"`

	// Completion Provider
	CompletionAPIKey  string        `env:"OPENAI_API_KEY"`
	CompletionBaseURL string        `env:"OPENAI_BASE_URL"`
	CompletionModel   string        `env:"FEE_COMPLETION_MODEL" envDefault:"gpt-4o-mini"`
	CompletionTimeout time.Duration `env:"FEE_COMPLETION_TIMEOUT" envDefault:"60s"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.CompletionAPIKey = strings.TrimSpace(cfg.CompletionAPIKey)
	cfg.CompletionBaseURL = strings.TrimSpace(cfg.CompletionBaseURL)
	cfg.UploadStoragePath = strings.TrimSpace(cfg.UploadStoragePath)
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20 * 1024 * 1024
	}
	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
