// Package config loads application configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the application configuration. Environment variables are
// parsed with the CINEGRAM_ prefix, e.g. CINEGRAM_TMDB_API_KEY.
type Config struct {
	HTTPPort int    `envconfig:"HTTP_PORT" default:"8080"`
	DBPath   string `envconfig:"DB_PATH" default:"cinegram.db"`

	TMDBAPIKey  string `envconfig:"TMDB_API_KEY"`
	TMDBBaseURL string `envconfig:"TMDB_BASE_URL" default:""`

	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	WebAppURL        string `envconfig:"WEB_APP_URL" default:""`

	JWTSecret  string `envconfig:"JWT_SECRET"`
	AdminToken string `envconfig:"ADMIN_TOKEN" default:""`

	EmbedBaseURL string `envconfig:"EMBED_BASE_URL" default:"https://vidsrc.to/embed"`

	BackupDir  string `envconfig:"BACKUP_DIR" default:"backups"`
	BackupTime string `envconfig:"BACKUP_TIME" default:"03:00"` // "HH:MM"

	// DetailRecheckTTL bounds re-querying items whose upstream credits
	// came back empty.
	DetailRecheckTTL time.Duration `envconfig:"DETAIL_RECHECK_TTL" default:"6h"`
}

// New creates a Config by parsing environment variables.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("CINEGRAM", &cfg); err != nil {
		return nil, fmt.Errorf("process environment variables: %w", err)
	}

	if cfg.TMDBAPIKey == "" {
		return nil, errors.New("CINEGRAM_TMDB_API_KEY is required")
	}
	if cfg.TelegramBotToken == "" {
		return nil, errors.New("CINEGRAM_TELEGRAM_BOT_TOKEN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("CINEGRAM_JWT_SECRET is required")
	}

	return &cfg, nil
}

// HTTPAddr returns the HTTP server bind address.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
