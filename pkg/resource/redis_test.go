package resource_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fluent/pkg/resource"
)

func TestOpenRedis_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("empty URL", func(t *testing.T) {
		t.Parallel()
		client, err := resource.OpenRedis(ctx, "")
		require.ErrorIs(t, err, resource.ErrEmptyConnectionURL)
		require.Nil(t, client)
	})

	t.Run("invalid scheme", func(t *testing.T) {
		t.Parallel()
		for _, url := range []string{"http://localhost:6379", "localhost:6379", "postgresql://localhost:6379"} {
			client, err := resource.OpenRedis(ctx, url)
			require.ErrorIs(t, err, resource.ErrFailedToParseURL, url)
			require.Nil(t, client)
		}
	})

	t.Run("malformed URL", func(t *testing.T) {
		t.Parallel()
		client, err := resource.OpenRedis(ctx, "redis://localhost:6379/notadb")
		require.ErrorIs(t, err, resource.ErrFailedToParseURL)
		require.Nil(t, client)
	})

	t.Run("unreachable server", func(t *testing.T) {
		t.Parallel()
		client, err := resource.OpenRedis(ctx, "redis://127.0.0.1:1/0",
			resource.WithRetry(2, time.Millisecond),
			resource.WithDialTimeout(50*time.Millisecond),
		)
		require.ErrorIs(t, err, resource.ErrConnectionFailed)
		require.Nil(t, client)
	})

	t.Run("cancelled context stops retries", func(t *testing.T) {
		t.Parallel()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		client, err := resource.OpenRedis(cctx, "redis://127.0.0.1:1/0", resource.WithRetry(5, time.Hour))
		require.ErrorIs(t, err, resource.ErrConnectionFailed)
		require.ErrorIs(t, err, context.Canceled)
		require.Nil(t, client)
	})
}
