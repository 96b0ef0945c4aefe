// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

const devPreviewSecret = "dev-preview-secret"

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache, sessions and change notifications)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyDB       int

	// Site
	SiteBrand     string // appended to derived SEO titles
	SiteURL       string // base for preview links
	PreviewSecret string // HMAC key for preview tokens

	// TrustProxy honours X-Forwarded-For and X-Real-IP for the client
	// address. Only enable it behind a reverse proxy that overwrites them.
	TrustProxy bool

	// AuthCheckTimeout bounds the session lookup on every request.
	AuthCheckTimeout time.Duration

	// S3-compatible media storage (optional)
	S3Endpoint     string
	S3Region       string
	S3AccessKey    string
	S3SecretKey    string
	S3BucketPublic string
	S3PublicURL    string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "millcms"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "millcms"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		SiteBrand:     envOrDefault("SITE_BRAND", "Northline Metals"),
		SiteURL:       envOrDefault("SITE_URL", "http://localhost:8080"),
		PreviewSecret: os.Getenv("PREVIEW_SECRET"),

		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		S3Region:       envOrDefault("S3_REGION", "fsn1"),
		S3AccessKey:    os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:    os.Getenv("S3_SECRET_KEY"),
		S3BucketPublic: envOrDefault("S3_BUCKET_PUBLIC", "millcms-public"),
		S3PublicURL:    os.Getenv("S3_PUBLIC_URL"),
	}

	db, err := strconv.Atoi(envOrDefault("VALKEY_DB", "0"))
	if err != nil || db < 0 {
		return nil, fmt.Errorf("VALKEY_DB must be a non-negative integer, got %q", os.Getenv("VALKEY_DB"))
	}
	cfg.ValkeyDB = db

	cfg.TrustProxy, err = strconv.ParseBool(envOrDefault("TRUST_PROXY", "false"))
	if err != nil {
		return nil, fmt.Errorf("TRUST_PROXY must be a boolean, got %q", os.Getenv("TRUST_PROXY"))
	}

	cfg.AuthCheckTimeout, err = time.ParseDuration(envOrDefault("AUTH_CHECK_TIMEOUT", "10s"))
	if err != nil || cfg.AuthCheckTimeout <= 0 {
		return nil, fmt.Errorf("AUTH_CHECK_TIMEOUT must be a positive duration, got %q", os.Getenv("AUTH_CHECK_TIMEOUT"))
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, errors.New("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.PreviewSecret == "" {
			return nil, errors.New("PREVIEW_SECRET must be set in production")
		}
	}
	if cfg.PreviewSecret == "" {
		cfg.PreviewSecret = devPreviewSecret
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
