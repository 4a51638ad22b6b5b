package localization

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/fluent"
)

// DefaultLocale is used when WithDefaultLocale is not given.
const DefaultLocale = "en"

// DefaultFetchConcurrency bounds parallel resource fetches per bundle.
const DefaultFetchConcurrency = 4

// Option configures a Localization during construction.
type Option func(*config) error

// MissingHandler is called for every key that failed in every bundle of
// the chain. Useful for detecting untranslated messages.
type MissingHandler func(ctx context.Context, id string, locales []string)

type config struct {
	defaultLocale string
	available     []string
	requested     []string
	contextOpts   []fluent.Option
	logger        *slog.Logger
	onMissing     MissingHandler
	concurrency   int
}

// WithDefaultLocale sets the locale appended to every negotiated chain.
// Default: "en".
func WithDefaultLocale(locale string) Option {
	return func(c *config) error {
		if locale == "" {
			return ErrEmptyLocale
		}
		c.defaultLocale = locale
		return nil
	}
}

// WithAvailableLocales lists the locales that have resources. Requests are
// negotiated against this list. Default: only the default locale.
func WithAvailableLocales(locales ...string) Option {
	return func(c *config) error {
		for _, l := range locales {
			if l == "" {
				return ErrEmptyLocale
			}
		}
		c.available = locales
		return nil
	}
}

// WithRequestedLocales sets the initial user preference, most preferred first.
func WithRequestedLocales(locales ...string) Option {
	return func(c *config) error {
		c.requested = locales
		return nil
	}
}

// WithContextOptions passes options to every bundle's fluent.Context.
func WithContextOptions(opts ...fluent.Option) Option {
	return func(c *config) error {
		c.contextOpts = append(c.contextOpts, opts...)
		return nil
	}
}

// WithLogger sets the logger for fetch failures, parse errors and exhausted
// fallbacks. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) error {
		if l != nil {
			c.logger = l
		}
		return nil
	}
}

// WithMissingHandler sets a callback for keys no bundle could format cleanly.
func WithMissingHandler(fn MissingHandler) Option {
	return func(c *config) error {
		c.onMissing = fn
		return nil
	}
}

// WithFetchConcurrency bounds parallel resource fetches per bundle.
// Default: 4.
func WithFetchConcurrency(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return ErrInvalidConcurrency
		}
		c.concurrency = n
		return nil
	}
}
