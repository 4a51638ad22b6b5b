package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fluent/pkg/logger"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	return rec
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("writes json with extracted locale", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.Config{Output: &buf}, logger.LocaleExtractor())

		log.InfoContext(logger.WithLocale(context.Background(), "pl"), "bundle ready", slog.Int("messages", 3))

		rec := decode(t, &buf)
		assert.Equal(t, "bundle ready", rec["msg"])
		assert.Equal(t, "pl", rec["locale"])
		assert.EqualValues(t, 3, rec["messages"])
	})

	t.Run("skips locale when absent", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.Config{Output: &buf}, logger.LocaleExtractor(), nil)

		log.Info("no locale")
		assert.NotContains(t, decode(t, &buf), "locale")
	})

	t.Run("extractors survive With and WithGroup", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.Config{Output: &buf}, logger.LocaleExtractor()).
			With(slog.String("component", "localization"))

		log.InfoContext(logger.WithLocale(context.Background(), "en"), "x")
		rec := decode(t, &buf)
		assert.Equal(t, "en", rec["locale"])
		assert.Equal(t, "localization", rec["component"])
	})

	t.Run("respects level", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.Config{Output: &buf, Level: slog.LevelWarn})

		log.Info("hidden")
		assert.Zero(t, buf.Len())
	})

	t.Run("text format", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.NewText(&buf, slog.LevelInfo)

		log.Info("formatted", slog.String("id", "hello"))
		out := buf.String()
		assert.Contains(t, out, "formatted")
		assert.Contains(t, out, "hello")
	})
}

func TestNewNope(t *testing.T) {
	t.Parallel()
	log := logger.NewNope()
	require.NotNil(t, log)
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
}

func TestNewWithSentry_WithoutDSN(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, flush := logger.NewWithSentry(logger.Config{Output: &buf}, logger.SentryConfig{})
	defer flush()

	log.Error("local only")
	assert.Equal(t, "local only", decode(t, &buf)["msg"])
}

func TestParse(t *testing.T) {
	t.Parallel()

	level, err := logger.ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = logger.ParseLevel("loud")
	require.ErrorIs(t, err, logger.ErrInvalidLevel)

	format, err := logger.ParseFormat(" Text ")
	require.NoError(t, err)
	assert.Equal(t, logger.FormatText, format)

	_, err = logger.ParseFormat("xml")
	require.ErrorIs(t, err, logger.ErrInvalidFormat)
}

type valuer struct{}

func (valuer) Error() string { return "structured" }

func (valuer) LogValue() slog.Value {
	return slog.GroupValue(slog.String("kind", "range"))
}

func TestErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Output: &buf})
	log.Warn("diagnostics", logger.Errors("errors", []error{errors.New("plain"), valuer{}}))

	out := buf.String()
	assert.True(t, strings.Contains(out, `"0":"plain"`), out)
	assert.True(t, strings.Contains(out, `"1":{"kind":"range"}`), out)
}
