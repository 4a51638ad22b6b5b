package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Format selects the record encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config describes a logger. The zero value logs JSON at info level to stdout.
type Config struct {
	Format  Format     `env:"LOG_FORMAT" envDefault:"json"`
	Level   slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	NoColor bool       `env:"NO_COLOR"`
	Output  io.Writer  `env:"-"`
}

func (c Config) handler() slog.Handler {
	w := c.Output
	if w == nil {
		w = os.Stdout
	}
	if c.Format == FormatText {
		return tint.NewHandler(w, &tint.Options{
			Level:      c.Level,
			TimeFormat: time.Kitchen,
			NoColor:    c.NoColor,
		})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: c.Level})
}

// New creates a logger from cfg with optional context extractors.
func New(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	return slog.New(WithExtractors(cfg.handler(), extractors...))
}

// NewText creates a colored console logger for command-line use.
func NewText(w io.Writer, level slog.Level, extractors ...ContextExtractor) *slog.Logger {
	return New(Config{Format: FormatText, Level: level, Output: w}, extractors...)
}

// NewNope creates a no-op logger that discards all output.
// Use this as a default when logging is not configured.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel parses "debug", "info", "warn" or "error", case-insensitively.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
	return level, nil
}

// ParseFormat parses "json" or "text".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatText:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFormat, s)
}

// Err returns an error attribute, highlighted on console output.
func Err(err error) slog.Attr {
	return tint.Err(err)
}
