package resource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/require"
)

func TestNewS3(t *testing.T) {
	t.Parallel()

	t.Run("applies defaults", func(t *testing.T) {
		t.Parallel()
		f, err := NewS3(S3Config{Bucket: "b", AccessKey: "k", SecretKey: "s", Prefix: "ftl"})
		require.NoError(t, err)
		require.NotNil(t, f.client)
		require.Equal(t, DefaultRegion, f.cfg.Region)
		require.Equal(t, int64(DefaultMaxSize), f.cfg.MaxSize)
		require.Equal(t, "ftl/", f.cfg.Prefix)
	})

	t.Run("requires credentials and bucket", func(t *testing.T) {
		t.Parallel()
		for _, cfg := range []S3Config{
			{AccessKey: "k", SecretKey: "s"},
			{Bucket: "b", SecretKey: "s"},
			{Bucket: "b", AccessKey: "k"},
		} {
			f, err := NewS3(cfg)
			require.ErrorIs(t, err, ErrInvalidConfig)
			require.Nil(t, f)
		}
	})
}

func TestS3_Key(t *testing.T) {
	t.Parallel()

	f, err := NewS3(S3Config{Bucket: "b", AccessKey: "k", SecretKey: "s", Prefix: "locales/"})
	require.NoError(t, err)

	key, err := f.Key("main.ftl", "en-US")
	require.NoError(t, err)
	require.Equal(t, "locales/en-US/main.ftl", key)

	_, err = f.Key("../../secrets", "en-US")
	require.ErrorIs(t, err, ErrInvalidPath)
}

func TestS3_Fetch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bucket/ftl/en/main.ftl":
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte("hello = Hello\n"))
		case "/bucket/ftl/en/big.ftl":
			_, _ = w.Write([]byte(strings.Repeat("x", 64)))
		case "/bucket/ftl/en/secret.ftl":
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>Access Denied</Message></Error>`))
		default:
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`))
		}
	}))
	t.Cleanup(srv.Close)

	f, err := NewS3(S3Config{
		Bucket:    "bucket",
		AccessKey: "k",
		SecretKey: "s",
		Endpoint:  srv.URL,
		PathStyle: true,
		Prefix:    "ftl",
		MaxSize:   32,
	})
	require.NoError(t, err)

	ctx := context.Background()

	src, err := f.Fetch(ctx, "main.ftl", "en")
	require.NoError(t, err)
	require.Equal(t, "hello = Hello\n", src)

	_, err = f.Fetch(ctx, "missing.ftl", "en")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.Fetch(ctx, "secret.ftl", "en")
	require.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.Fetch(ctx, "big.ftl", "en")
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestWrapS3Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "no such key code", err: &smithy.GenericAPIError{Code: "NoSuchKey"}, want: ErrNotFound},
		{name: "not found code", err: &smithy.GenericAPIError{Code: "NotFound"}, want: ErrNotFound},
		{name: "access denied code", err: &smithy.GenericAPIError{Code: "AccessDenied"}, want: ErrAccessDenied},
		{name: "typed no such key", err: &types.NoSuchKey{}, want: ErrNotFound},
		{name: "other api error", err: &smithy.GenericAPIError{Code: "SlowDown"}, want: ErrFetchFailed},
		{name: "plain error", err: errors.New("connection reset"), want: ErrFetchFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.ErrorIs(t, wrapS3Error(tt.err, ErrFetchFailed), tt.want)
		})
	}
}
