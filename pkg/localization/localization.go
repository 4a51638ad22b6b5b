package localization

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/fluent/pkg/logger"
	"github.com/dmitrymomot/fluent/pkg/resource"
)

// Key identifies a message to format, with its arguments.
type Key struct {
	ID   string
	Args map[string]any
}

// Translation is the formatted result for one Key.
type Translation struct {
	ID string
	// Value is the formatted message value; meaningful only when HasValue.
	Value    string
	HasValue bool
	// Attributes is filled by FormatEntities only.
	Attributes map[string]string
	// Locale of the bundle that produced the output.
	Locale string
	// Errors are the diagnostics of the produced output. Empty on a clean
	// result.
	Errors []error
}

// Localization formats messages across an ordered chain of locale bundles,
// falling back per key to the next bundle when a message is missing or
// formats with errors. It is safe for concurrent use.
type Localization struct {
	cfg      *config
	registry *registry
	chain    atomic.Pointer[[]string]
}

// New creates a Localization for resourceIDs loaded through fetcher.
// Bundles are built lazily on first use.
func New(resourceIDs []string, fetcher resource.Fetcher, opts ...Option) (*Localization, error) {
	if len(resourceIDs) == 0 {
		return nil, ErrNoResources
	}
	if fetcher == nil {
		return nil, ErrNilFetcher
	}

	cfg := &config{
		defaultLocale: DefaultLocale,
		logger:        logger.NewNope(),
		concurrency:   DefaultFetchConcurrency,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if len(cfg.available) == 0 {
		cfg.available = []string{cfg.defaultLocale}
	}
	for _, locale := range append([]string{cfg.defaultLocale}, cfg.available...) {
		if _, err := language.Parse(locale); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidLocale, locale)
		}
	}

	l := &Localization{
		cfg:      cfg,
		registry: newRegistry(cfg, slices.Clone(resourceIDs), fetcher),
	}
	chain := Negotiate(cfg.requested, cfg.available, cfg.defaultLocale)
	l.chain.Store(&chain)
	return l, nil
}

// Locales returns the current fallback chain, most preferred first.
func (l *Localization) Locales() []string {
	return slices.Clone(*l.chain.Load())
}

// RequestLanguages renegotiates the chain for a new preference. It reports
// whether the chain changed; an identical chain keeps existing bundles and
// is a no-op.
func (l *Localization) RequestLanguages(requested ...string) bool {
	next := Negotiate(requested, l.cfg.available, l.cfg.defaultLocale)
	for {
		cur := l.chain.Load()
		if slices.Equal(*cur, next) {
			return false
		}
		if l.chain.CompareAndSwap(cur, &next) {
			return true
		}
	}
}

// Fork returns a Localization for another preference that shares resources,
// options and built bundles with l. Use it per request.
func (l *Localization) Fork(requested ...string) *Localization {
	f := &Localization{cfg: l.cfg, registry: l.registry}
	chain := Negotiate(requested, l.cfg.available, l.cfg.defaultLocale)
	f.chain.Store(&chain)
	return f
}

// Preload builds every bundle of the current chain.
func (l *Localization) Preload(ctx context.Context) error {
	for _, locale := range *l.chain.Load() {
		if _, err := l.registry.get(ctx, locale); err != nil {
			return err
		}
	}
	return nil
}

// Diagnostics returns the fetch and syntax errors recorded while building
// the bundle for locale.
func (l *Localization) Diagnostics(ctx context.Context, locale string) ([]error, error) {
	b, err := l.registry.get(ctx, locale)
	if err != nil {
		return nil, err
	}
	return slices.Clone(b.errs), nil
}

// FormatValue formats a single message value. When no bundle can produce
// any output the id itself is returned.
func (l *Localization) FormatValue(ctx context.Context, id string, args map[string]any) string {
	tr := l.FormatValues(ctx, Key{ID: id, Args: args})[0]
	if !tr.HasValue {
		return id
	}
	return tr.Value
}

// FormatValues formats message values for keys, in order.
//
// Every key is resolved against the first bundle of the chain; only keys
// that were missing or produced diagnostics are retried against the next
// bundle, and so on. A key that fails everywhere keeps the output of the
// earliest bundle that produced one, with its diagnostics.
func (l *Localization) FormatValues(ctx context.Context, keys ...Key) []Translation {
	return l.format(ctx, keys, false)
}

// FormatEntities is FormatValues that also formats every attribute. A
// message with attributes but no value is a valid entity.
func (l *Localization) FormatEntities(ctx context.Context, keys ...Key) []Translation {
	return l.format(ctx, keys, true)
}

func (l *Localization) format(ctx context.Context, keys []Key, entity bool) []Translation {
	chain := *l.chain.Load()
	out := make([]Translation, len(keys))
	for i, k := range keys {
		out[i] = Translation{ID: k.ID}
	}

	pending := make([]int, len(keys))
	for i := range keys {
		pending[i] = i
	}

	for _, locale := range chain {
		if len(pending) == 0 {
			break
		}
		b, err := l.registry.get(ctx, locale)
		if err != nil {
			l.cfg.logger.WarnContext(logger.WithLocale(ctx, locale), "bundle unavailable", logger.Err(err))
			continue
		}

		failed := pending[:0]
		for _, i := range pending {
			tr, ok := b.format(keys[i], entity)
			switch {
			case ok:
				out[i] = tr
				continue
			case tr.produced() && !out[i].produced():
				out[i] = tr
			case !out[i].produced() && len(out[i].Errors) == 0:
				out[i].Errors = tr.Errors
			}
			failed = append(failed, i)
		}
		pending = failed
	}

	for _, i := range pending {
		l.missing(ctx, out[i], chain)
	}
	return out
}

func (l *Localization) missing(ctx context.Context, tr Translation, chain []string) {
	attrs := []any{
		slog.String("id", tr.ID),
		slog.Any("locales", chain),
	}
	if tr.Locale != "" {
		attrs = append(attrs, slog.String("used", tr.Locale))
	}
	if len(tr.Errors) > 0 {
		attrs = append(attrs, logger.Errors("errors", tr.Errors))
	}
	l.cfg.logger.WarnContext(ctx, "message could not be formatted cleanly", attrs...)

	if l.cfg.onMissing != nil {
		l.cfg.onMissing(ctx, tr.ID, chain)
	}
}
