package localization

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/fluent"
	"github.com/dmitrymomot/fluent/pkg/logger"
	"github.com/dmitrymomot/fluent/pkg/resource"
)

// bundle is one locale's formatting context built from all resource ids.
type bundle struct {
	ctx  *fluent.Context
	errs []error
}

// format resolves key. ok reports a clean result: the message exists and
// produced no diagnostics. A message without a value is a clean result with
// HasValue unset.
func (b *bundle) format(key Key, entity bool) (Translation, bool) {
	tr := Translation{ID: key.ID, Locale: b.ctx.Locale()}

	msg, found := b.ctx.Message(key.ID)
	if !found {
		tr.Errors = []error{fmt.Errorf("%w: %s", ErrMissingMessage, key.ID)}
		return tr, false
	}

	value, hasValue, errs := b.ctx.Format(msg, key.Args)
	tr.Value, tr.HasValue = value, hasValue
	tr.Errors = append(tr.Errors, errs...)

	if entity && len(msg.Attributes) > 0 {
		tr.Attributes = make(map[string]string, len(msg.Attributes))
		for _, attr := range msg.Attributes {
			out, _, errs := b.ctx.FormatAttribute(msg, attr.ID, key.Args)
			tr.Attributes[attr.ID] = out
			tr.Errors = append(tr.Errors, errs...)
		}
	}

	return tr, len(tr.Errors) == 0
}

// produced reports whether tr carries any output.
func (tr Translation) produced() bool {
	return tr.HasValue || len(tr.Attributes) > 0
}

// registry memoizes bundles per locale. It is shared by a Localization and
// all of its forks.
type registry struct {
	cfg         *config
	resourceIDs []string
	fetcher     resource.Fetcher

	mu      sync.RWMutex
	bundles map[string]*bundle
	group   singleflight.Group
}

func newRegistry(cfg *config, resourceIDs []string, fetcher resource.Fetcher) *registry {
	return &registry{
		cfg:         cfg,
		resourceIDs: resourceIDs,
		fetcher:     fetcher,
		bundles:     make(map[string]*bundle),
	}
}

// get returns the bundle for locale, building it on first use. Concurrent
// callers share one build. A build aborted by ctx is not memoized, and
// callers whose own ctx is still live retry it.
func (r *registry) get(ctx context.Context, locale string) (*bundle, error) {
	for {
		b, err := r.load(ctx, locale)
		if err != nil && ctx.Err() == nil &&
			(errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			continue
		}
		return b, err
	}
}

func (r *registry) load(ctx context.Context, locale string) (*bundle, error) {
	r.mu.RLock()
	b, ok := r.bundles[locale]
	r.mu.RUnlock()
	if ok {
		return b, nil
	}

	v, err, _ := r.group.Do(locale, func() (any, error) {
		r.mu.RLock()
		b, ok := r.bundles[locale]
		r.mu.RUnlock()
		if ok {
			return b, nil
		}

		b, err := r.build(ctx, locale)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.bundles[locale] = b
		r.mu.Unlock()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*bundle), nil
}

// build fetches every resource concurrently and adds them in resource id
// order, so later resources override earlier ones deterministically.
// Fetch and parse failures are logged and kept on the bundle.
func (r *registry) build(ctx context.Context, locale string) (*bundle, error) {
	fctx, err := fluent.NewContext(locale, r.cfg.contextOpts...)
	if err != nil {
		return nil, err
	}

	sources := make([]string, len(r.resourceIDs))
	fetchErrs := make([]error, len(r.resourceIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.concurrency)
	for i, id := range r.resourceIDs {
		g.Go(func() error {
			src, err := r.fetcher.Fetch(gctx, id, locale)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				fetchErrs[i] = fmt.Errorf("fetch %s: %w", id, err)
				return nil
			}
			sources[i] = src
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log := r.cfg.logger
	lctx := logger.WithLocale(ctx, locale)
	b := &bundle{ctx: fctx}

	for i, id := range r.resourceIDs {
		if fetchErrs[i] != nil {
			log.WarnContext(lctx, "resource unavailable",
				slog.String("resource", id),
				logger.Err(fetchErrs[i]),
			)
			b.errs = append(b.errs, fetchErrs[i])
			continue
		}

		if errs := fctx.AddMessages(sources[i]); len(errs) > 0 {
			log.WarnContext(lctx, "resource has syntax errors",
				slog.String("resource", id),
				logger.Errors("errors", errs),
			)
			for _, e := range errs {
				b.errs = append(b.errs, fmt.Errorf("parse %s: %w", id, e))
			}
		}
	}

	log.DebugContext(lctx, "bundle ready", slog.Int("messages", len(fctx.Messages())))
	return b, nil
}
