// Package config loads configuration for the fluent command.
//
// Runtime settings come from the environment, optionally seeded from .env
// files. The project itself (resource ids, locales) is described by a
// manifest file, see LoadManifest.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/fluent/pkg/logger"
	"github.com/dmitrymomot/fluent/pkg/resource"
)

// Config holds the environment configuration of the fluent command.
type Config struct {
	Manifest string `env:"FLUENT_MANIFEST" envDefault:"fluent.yaml"`

	// Server
	Addr            string        `env:"FLUENT_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"FLUENT_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Resource cache. Redis is used when RedisURL is set, memory otherwise.
	RedisURL string        `env:"FLUENT_REDIS_URL"`
	CacheTTL time.Duration `env:"FLUENT_CACHE_TTL" envDefault:"5m"`

	// S3 replaces the manifest directory as resource source when a bucket is set.
	S3 resource.S3Config `envPrefix:"FLUENT_S3_"`

	Log    logger.Config
	Sentry logger.SentryConfig
}

// UseS3 reports whether resources should be fetched from S3.
func (c Config) UseS3() bool { return c.S3.Bucket != "" }

// Load reads .env files (missing ones are ignored) and parses the
// environment. Variables already set take precedence over .env values.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, errors.Join(ErrInvalidEnv, err)
	}
	if cfg.ShutdownTimeout <= 0 {
		return Config{}, fmt.Errorf("%w: FLUENT_SHUTDOWN_TIMEOUT must be positive", ErrInvalidEnv)
	}
	return cfg, nil
}
