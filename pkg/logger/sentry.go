package logger

import (
	"context"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
	// MinLevel selects what is kept as Sentry logs: warnings and errors by
	// default, errors only with slog.LevelError. Errors always create issues.
	MinLevel slog.Level `env:"SENTRY_MIN_LEVEL" envDefault:"warn"`
}

// NewWithSentry creates a logger writing to base and to Sentry. Without a DSN,
// or when Sentry fails to initialize, only base is used. The returned flush
// function waits for buffered events and is safe to call either way.
func NewWithSentry(base Config, cfg SentryConfig, extractors ...ContextExtractor) (*slog.Logger, func()) {
	local := base.handler()
	noop := func() {}

	if cfg.DSN == "" {
		return slog.New(WithExtractors(local, extractors...)), noop
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(local).Error("failed to initialize Sentry", Err(err))
		return slog.New(WithExtractors(local, extractors...)), noop
	}

	logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
	if cfg.MinLevel >= slog.LevelError {
		logLevel = []slog.Level{slog.LevelError}
	}
	remote := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevel,
	}.NewSentryHandler(context.Background())

	flush := func() { sentry.Flush(2 * time.Second) }
	return slog.New(WithExtractors(fanout{local, remote}, extractors...)), flush
}
