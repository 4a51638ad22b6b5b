// Package logger builds slog loggers for fluent services and tools.
//
// It adds three things on top of log/slog: context extractors that inject
// request-scoped attributes on every record, a colored console format for
// the command line, and optional Sentry reporting.
//
// # Basic Usage
//
//	log := logger.New(logger.Config{Level: slog.LevelDebug}, logger.LocaleExtractor())
//
//	ctx := logger.WithLocale(r.Context(), "pl")
//	log.InfoContext(ctx, "bundle ready", slog.Int("messages", 42))
//	// {"level":"INFO","msg":"bundle ready","messages":42,"locale":"pl"}
//
// Console output for tools:
//
//	log := logger.NewText(os.Stderr, slog.LevelInfo)
//
// Libraries in this module default to [NewNope].
//
// # Context Extractors
//
// A ContextExtractor returns an attribute for a context, or false to skip it:
//
//	type ContextExtractor func(ctx context.Context) (slog.Attr, bool)
//
// [WithExtractors] wraps any slog.Handler with extractors. [LocaleExtractor]
// reads the locale stored by [WithLocale].
//
// # Diagnostics
//
// [Errors] groups a slice of errors into one attribute; formatting
// diagnostics that implement slog.LogValuer keep their fields:
//
//	log.WarnContext(ctx, "message fell back", logger.Errors("errors", errs))
//
// # Sentry Integration
//
//	log, flush := logger.NewWithSentry(logger.Config{}, logger.SentryConfig{
//		DSN:      os.Getenv("SENTRY_DSN"),
//		MinLevel: slog.LevelWarn,
//	})
//	defer flush()
//
// Errors create Sentry issues; warnings are kept as Sentry logs. With an
// empty DSN the logger writes locally only, so the same code path works in
// development.
package logger
