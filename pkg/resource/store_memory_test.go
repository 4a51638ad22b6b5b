package resource_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fluent/pkg/resource"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("returns ErrCacheMiss for missing key", func(t *testing.T) {
		t.Parallel()
		s := resource.NewMemoryStore()
		defer s.Close()

		_, err := s.Get(ctx, "missing")
		require.ErrorIs(t, err, resource.ErrCacheMiss)
	})

	t.Run("returns stored source", func(t *testing.T) {
		t.Parallel()
		s := resource.NewMemoryStore()
		defer s.Close()

		require.NoError(t, s.Set(ctx, "en/main.ftl", "a = A", time.Minute))
		src, err := s.Get(ctx, "en/main.ftl")
		require.NoError(t, err)
		require.Equal(t, "a = A", src)
	})

	t.Run("expires entries", func(t *testing.T) {
		t.Parallel()
		s := resource.NewMemoryStore(resource.WithCleanupInterval(0))
		defer s.Close()

		require.NoError(t, s.Set(ctx, "k", "v", time.Millisecond))
		time.Sleep(5 * time.Millisecond)
		_, err := s.Get(ctx, "k")
		require.ErrorIs(t, err, resource.ErrCacheMiss)
	})

	t.Run("negative ttl never expires", func(t *testing.T) {
		t.Parallel()
		s := resource.NewMemoryStore(resource.WithMemoryTTL(time.Millisecond), resource.WithCleanupInterval(0))
		defer s.Close()

		require.NoError(t, s.Set(ctx, "k", "v", -1))
		time.Sleep(5 * time.Millisecond)
		_, err := s.Get(ctx, "k")
		require.NoError(t, err)
	})

	t.Run("janitor removes expired entries", func(t *testing.T) {
		t.Parallel()
		s := resource.NewMemoryStore(resource.WithCleanupInterval(5 * time.Millisecond))
		defer s.Close()

		require.NoError(t, s.Set(ctx, "k", "v", time.Millisecond))
		require.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)
	})

	t.Run("evicts least recently used", func(t *testing.T) {
		t.Parallel()
		s := resource.NewMemoryStore(resource.WithMaxEntries(2))
		defer s.Close()

		require.NoError(t, s.Set(ctx, "a", "1", 0))
		require.NoError(t, s.Set(ctx, "b", "2", 0))
		_, err := s.Get(ctx, "a")
		require.NoError(t, err)
		require.NoError(t, s.Set(ctx, "c", "3", 0))

		_, err = s.Get(ctx, "b")
		require.ErrorIs(t, err, resource.ErrCacheMiss, "b was least recently used")
		_, err = s.Get(ctx, "a")
		require.NoError(t, err)
		require.Equal(t, 2, s.Len())
	})

	t.Run("overwrites existing key", func(t *testing.T) {
		t.Parallel()
		s := resource.NewMemoryStore()
		defer s.Close()

		require.NoError(t, s.Set(ctx, "k", "old", 0))
		require.NoError(t, s.Set(ctx, "k", "new", 0))
		src, err := s.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, "new", src)
		require.Equal(t, 1, s.Len())
	})

	t.Run("delete and clear", func(t *testing.T) {
		t.Parallel()
		s := resource.NewMemoryStore()
		defer s.Close()

		require.NoError(t, s.Set(ctx, "a", "1", 0))
		require.NoError(t, s.Set(ctx, "b", "2", 0))
		require.NoError(t, s.Delete(ctx, "a"))
		require.Equal(t, 1, s.Len())
		require.NoError(t, s.Clear(ctx))
		require.Zero(t, s.Len())
	})

	t.Run("rejects writes after close", func(t *testing.T) {
		t.Parallel()
		s := resource.NewMemoryStore()
		require.NoError(t, s.Close())
		require.NoError(t, s.Close())
		require.ErrorIs(t, s.Set(ctx, "k", "v", 0), resource.ErrClosed)
		require.ErrorIs(t, s.Delete(ctx, "k"), resource.ErrClosed)
		require.ErrorIs(t, s.Clear(ctx), resource.ErrClosed)
	})
}
