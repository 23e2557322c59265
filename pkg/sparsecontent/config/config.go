// Package config loads server configuration from the environment and builds
// a ready-to-use sparsecontent.Service from it.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/sparse-content/pkg/sparsecontent"
	"github.com/tendant/sparse-content/pkg/sparsecontent/postproc/s3archive"
	"github.com/tendant/sparse-content/pkg/sparsecontent/repo/memory"
	"github.com/tendant/sparse-content/pkg/sparsecontent/repo/postgres"
)

// ServerConfig represents server configuration for the sparse-content service
type ServerConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"` // development, production, testing

	// Database configuration. An empty or "memory" DATABASE_URL selects the
	// in-memory store; a postgresql:// URL selects the Postgres store.
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseType string

	// Change logging post-processor
	EnableChangeLogging bool `env:"ENABLE_CHANGE_LOGGING" env-default:"true"`

	// Optional S3 change archive post-processor (enabled when bucket is set)
	Archive ArchiveConfig
}

// ArchiveConfig configures the S3 change archive sink
type ArchiveConfig struct {
	Bucket          string `env:"ARCHIVE_S3_BUCKET"`
	Region          string `env:"ARCHIVE_S3_REGION" env-default:"us-east-1"`
	Endpoint        string `env:"ARCHIVE_S3_ENDPOINT"`
	AccessKeyID     string `env:"ARCHIVE_S3_ACCESS_KEY"`
	SecretAccessKey string `env:"ARCHIVE_S3_SECRET_KEY"`
	UsePathStyle    bool   `env:"ARCHIVE_S3_PATH_STYLE" env-default:"false"`
	KeyPrefix       string `env:"ARCHIVE_S3_KEY_PREFIX" env-default:"changes"`
}

// Load reads configuration from the environment and validates it.
func Load() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	switch {
	case cfg.DatabaseURL == "" || cfg.DatabaseURL == "memory":
		cfg.DatabaseType = "memory"
		cfg.DatabaseURL = ""
	case strings.HasPrefix(cfg.DatabaseURL, "postgresql://") || strings.HasPrefix(cfg.DatabaseURL, "postgres://"):
		cfg.DatabaseType = "postgres"
	default:
		return nil, fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory' or 'postgresql://...')", cfg.DatabaseURL)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}
	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}
	return nil
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService(ctx context.Context) (sparsecontent.Service, error) {
	var store sparsecontent.Store

	switch c.DatabaseType {
	case "postgres":
		pool, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		store = postgres.NewWithPool(pool)
	default:
		store = memory.New()
	}

	options := []sparsecontent.Option{
		sparsecontent.WithStore(store),
	}

	if c.EnableChangeLogging {
		options = append(options, sparsecontent.WithPostProcessor(sparsecontent.NewLoggingProcessor(slog.Default())))
	}

	if c.Archive.Bucket != "" {
		archiver, err := s3archive.New(s3archive.Config{
			Region:          c.Archive.Region,
			Bucket:          c.Archive.Bucket,
			AccessKeyID:     c.Archive.AccessKeyID,
			SecretAccessKey: c.Archive.SecretAccessKey,
			Endpoint:        c.Archive.Endpoint,
			UsePathStyle:    c.Archive.UsePathStyle,
			KeyPrefix:       c.Archive.KeyPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("configure archive sink: %w", err)
		}
		options = append(options, sparsecontent.WithPostProcessor(archiver))
	}

	return sparsecontent.New(options...)
}
