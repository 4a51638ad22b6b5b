package syntax

import (
	"errors"
	"fmt"
)

// ErrSyntax matches every *Error via errors.Is.
var ErrSyntax = errors.New("syntax: invalid FTL")

// Error is a parse diagnostic. Parsing continues after every Error.
type Error struct {
	Message string
	Snippet string // source of the discarded junk, empty for non-fatal diagnostics
	Offset  int
	Line    int // 1-based
	Column  int // 1-based, in bytes
}

func (e *Error) Error() string {
	return fmt.Sprintf("syntax: %d:%d: %s", e.Line, e.Column, e.Message)
}

// Is reports whether target is ErrSyntax.
func (e *Error) Is(target error) bool {
	return target == ErrSyntax
}
