package logger

import (
	"context"
	"log/slog"
	"strconv"
)

type localeKey struct{}

// WithLocale stores the active locale in ctx for LocaleExtractor.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey{}, locale)
}

// LocaleFromContext returns the locale stored by WithLocale.
func LocaleFromContext(ctx context.Context) (string, bool) {
	locale, ok := ctx.Value(localeKey{}).(string)
	return locale, ok && locale != ""
}

// LocaleExtractor adds a "locale" attribute to records logged with a
// context carrying a locale.
func LocaleExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		locale, ok := LocaleFromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return slog.String("locale", locale), true
	}
}

// Errors groups errs under key as "0", "1", ... Values implementing
// slog.LogValuer render structured.
func Errors(key string, errs []error) slog.Attr {
	attrs := make([]any, len(errs))
	for i, err := range errs {
		if v, ok := err.(slog.LogValuer); ok {
			attrs[i] = slog.Any(strconv.Itoa(i), v)
			continue
		}
		attrs[i] = slog.String(strconv.Itoa(i), err.Error())
	}
	return slog.Group(key, attrs...)
}
