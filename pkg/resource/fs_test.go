package resource_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fluent/pkg/resource"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"en-US/main.ftl":     {Data: []byte("hello = Hello\n")},
		"en-US/nested/a.ftl": {Data: []byte("a = A\n")},
		"pl/main.ftl":        {Data: []byte("hello = Cześć\n")},
		"README.md":          {Data: []byte("not a locale")},
	}
}

func TestFS_Fetch(t *testing.T) {
	t.Parallel()

	f := resource.NewFS(testFS())
	ctx := context.Background()

	t.Run("reads resource", func(t *testing.T) {
		t.Parallel()
		src, err := f.Fetch(ctx, "main.ftl", "pl")
		require.NoError(t, err)
		require.Equal(t, "hello = Cześć\n", src)
	})

	t.Run("reads nested resource", func(t *testing.T) {
		t.Parallel()
		src, err := f.Fetch(ctx, "nested/a.ftl", "en-US")
		require.NoError(t, err)
		require.Equal(t, "a = A\n", src)
	})

	t.Run("returns ErrNotFound for missing resource", func(t *testing.T) {
		t.Parallel()
		_, err := f.Fetch(ctx, "main.ftl", "de")
		require.ErrorIs(t, err, resource.ErrNotFound)
	})

	t.Run("returns ErrNotFound for directory", func(t *testing.T) {
		t.Parallel()
		_, err := f.Fetch(ctx, "nested", "en-US")
		require.ErrorIs(t, err, resource.ErrNotFound)
	})

	t.Run("rejects paths escaping the locale", func(t *testing.T) {
		t.Parallel()
		for _, tc := range []struct{ id, locale string }{
			{"../pl/main.ftl", "en-US"},
			{"main.ftl", ".."},
			{"main.ftl", "en/US"},
			{"/main.ftl", "en-US"},
			{"", "en-US"},
			{"main.ftl", ""},
		} {
			_, err := f.Fetch(ctx, tc.id, tc.locale)
			require.ErrorIs(t, err, resource.ErrInvalidPath, "id=%q locale=%q", tc.id, tc.locale)
		}
	})

	t.Run("enforces size limit", func(t *testing.T) {
		t.Parallel()
		small := resource.NewFS(testFS(), resource.WithFSMaxSize(4))
		_, err := small.Fetch(ctx, "main.ftl", "pl")
		require.ErrorIs(t, err, resource.ErrTooLarge)
	})

	t.Run("honors cancelled context", func(t *testing.T) {
		t.Parallel()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := f.Fetch(cctx, "main.ftl", "pl")
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestFS_Locales(t *testing.T) {
	t.Parallel()

	locales, err := resource.NewFS(testFS()).Locales()
	require.NoError(t, err)
	require.Equal(t, []string{"en-US", "pl"}, locales)
}

func TestPath(t *testing.T) {
	t.Parallel()

	p, err := resource.Path("errors/forms.ftl", "en-US")
	require.NoError(t, err)
	require.Equal(t, "en-US/errors/forms.ftl", p)

	_, err = resource.Path("a/../../b.ftl", "en-US")
	require.ErrorIs(t, err, resource.ErrInvalidPath)
}

func TestFetcherFunc(t *testing.T) {
	t.Parallel()

	var f resource.Fetcher = resource.FetcherFunc(func(_ context.Context, id, locale string) (string, error) {
		if locale != "en" {
			return "", errors.New("unexpected locale")
		}
		return strings.ToUpper(id), nil
	})

	src, err := f.Fetch(context.Background(), "main.ftl", "en")
	require.NoError(t, err)
	require.Equal(t, "MAIN.FTL", src)
}
