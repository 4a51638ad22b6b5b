package resource

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/fluent/pkg/logger"
)

// CachedOption configures a Cached fetcher.
type CachedOption func(*Cached)

// WithTTL sets the lifetime of cached sources. Zero defers to the store default.
func WithTTL(d time.Duration) CachedOption {
	return func(c *Cached) {
		c.ttl = d
	}
}

// WithCacheLogger sets the logger for store failures. Default: discard.
func WithCacheLogger(l *slog.Logger) CachedOption {
	return func(c *Cached) {
		c.logger = l
	}
}

// Cached is a read-through cache in front of another Fetcher. Concurrent
// misses for the same resource share one upstream fetch. Failed fetches are
// not cached. Store failures are logged and bypassed.
type Cached struct {
	next   Fetcher
	store  Store
	group  singleflight.Group
	ttl    time.Duration
	logger *slog.Logger
}

// NewCached wraps next with store.
//
// Example:
//
//	f := resource.NewCached(s3Fetcher, resource.NewMemoryStore(),
//		resource.WithTTL(5*time.Minute),
//	)
func NewCached(next Fetcher, store Store, opts ...CachedOption) *Cached {
	c := &Cached{
		next:   next,
		store:  store,
		logger: logger.NewNope(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the cached source or fetches and caches it.
func (c *Cached) Fetch(ctx context.Context, resourceID, locale string) (string, error) {
	key, err := Path(resourceID, locale)
	if err != nil {
		return "", err
	}

	src, err := c.store.Get(ctx, key)
	if err == nil {
		return src, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.logger.WarnContext(ctx, "resource cache read failed", "key", key, "error", err)
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		src, err := c.next.Fetch(ctx, resourceID, locale)
		if err != nil {
			return "", err
		}
		if err := c.store.Set(ctx, key, src, c.ttl); err != nil {
			c.logger.WarnContext(ctx, "resource cache write failed", "key", key, "error", err)
		}
		return src, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Invalidate drops a cached resource so the next Fetch goes upstream.
func (c *Cached) Invalidate(ctx context.Context, resourceID, locale string) error {
	key, err := Path(resourceID, locale)
	if err != nil {
		return err
	}
	return c.store.Delete(ctx, key)
}

var _ Fetcher = (*Cached)(nil)
