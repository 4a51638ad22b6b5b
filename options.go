package fluent

import (
	"fmt"
	"maps"
)

// Option configures a Context during construction.
type Option func(*Context) error

// WithIsolation controls wrapping of placeables in Unicode bidi isolation
// marks (FSI U+2068, PDI U+2069). Enabled by default.
func WithIsolation(enabled bool) Option {
	return func(c *Context) error {
		c.isolate = enabled
		return nil
	}
}

// WithFunctions registers functions callable from FTL, replacing builtins
// of the same name.
func WithFunctions(fns map[string]Function) Option {
	return func(c *Context) error {
		for name, fn := range fns {
			if fn == nil {
				return fmt.Errorf("%w: %s", ErrNilFunction, name)
			}
		}
		maps.Copy(c.functions, fns)
		return nil
	}
}

// WithPluralRule replaces the CLDR plural rule of the locale.
func WithPluralRule(rule PluralRule) Option {
	return func(c *Context) error {
		if rule == nil {
			return ErrNilPluralRule
		}
		c.pluralRule = rule
		return nil
	}
}
