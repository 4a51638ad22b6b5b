package fluent

import (
	"errors"
	"fmt"
	"log/slog"
)

// Misuse of the public API.
var (
	ErrInvalidLocale = errors.New("fluent: invalid locale")
	ErrNilFunction   = errors.New("fluent: function cannot be nil")
	ErrNilPluralRule = errors.New("fluent: plural rule cannot be nil")
)

// Diagnostic kinds. Every *Error matches exactly one of them via errors.Is.
var (
	ErrReference = errors.New("fluent: reference error")
	ErrType      = errors.New("fluent: type error")
	ErrRange     = errors.New("fluent: range error")
)

// Error is a resolution diagnostic. Resolution never stops on an Error; the
// affected placeable renders a fallback instead.
type Error struct {
	Kind    error // ErrReference, ErrType or ErrRange
	Message string
	ID      string // message being formatted
	Locale  string
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is the kind of e.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", kindName(e.Kind)),
		slog.String("message", e.Message),
		slog.String("id", e.ID),
		slog.String("locale", e.Locale),
	)
}

func kindName(kind error) string {
	switch kind {
	case ErrReference:
		return "reference"
	case ErrType:
		return "type"
	case ErrRange:
		return "range"
	}
	return "unknown"
}

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
