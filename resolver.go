package fluent

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrymomot/fluent/pkg/syntax"
)

// MaxPlaceableSize is the maximum length, in characters, of a formatted
// placeable. Longer output is truncated.
const MaxPlaceableSize = 2500

// Unicode First Strong Isolate and Pop Directional Isolate.
const (
	fsi = "\u2068"
	pdi = "\u2069"
)

// scope is the state of one top-level resolution.
type scope struct {
	ctx   *Context
	args  map[string]any
	id    string
	dirty map[*syntax.Pattern]struct{} // patterns being resolved
	errs  []error
}

func (s *scope) report(err *Error) {
	err.ID = s.id
	err.Locale = s.ctx.locale
	s.errs = append(s.errs, err)
}

// resolvePattern returns a String, or an unlabeled None when p is already
// being resolved higher up the stack.
func (s *scope) resolvePattern(p *syntax.Pattern) Value {
	if _, ok := s.dirty[p]; ok {
		s.report(newError(ErrRange, "Cyclic reference"))
		return None("")
	}
	if text, ok := p.Text(); ok {
		return String(text)
	}

	s.dirty[p] = struct{}{}
	defer delete(s.dirty, p)

	isolate := s.ctx.isolate && len(p.Elements) > 1

	var b strings.Builder
	for _, el := range p.Elements {
		switch el := el.(type) {
		case *syntax.TextElement:
			b.WriteString(el.Value)
		case *syntax.Placeable:
			out := s.stringify(s.resolveExpression(el.Expression))
			if utf8.RuneCountInString(out) > MaxPlaceableSize {
				s.report(newError(ErrRange, "Too many characters in placeable (%d, max allowed is %d)",
					utf8.RuneCountInString(out), MaxPlaceableSize))
				out = truncate(out, MaxPlaceableSize)
			}
			if isolate {
				b.WriteString(fsi)
				b.WriteString(out)
				b.WriteString(pdi)
			} else {
				b.WriteString(out)
			}
		}
	}
	return String(b.String())
}

// stringify formats v, recording formatting failures. The fallback output of
// a failed formatter is still used.
func (s *scope) stringify(v Value) string {
	out, err := v.Format(s.ctx)
	if err != nil {
		var ferr *Error
		if !errors.As(err, &ferr) {
			ferr = newError(ErrRange, "%s", err.Error())
		} else {
			clone := *ferr
			ferr = &clone
		}
		s.report(ferr)
	}
	return out
}

func (s *scope) resolveExpression(expr syntax.Expression) Value {
	switch e := expr.(type) {
	case *syntax.StringLiteral:
		return String(e.Value)
	case *syntax.NumberLiteral:
		return numberLiteral(e)
	case *syntax.VariableReference:
		return s.resolveVariable(e.Name)
	case *syntax.MessageReference:
		msg, ok := s.ctx.messages[e.Name]
		if !ok {
			s.report(newError(ErrReference, "Unknown entity: %s", e.Name))
			return None(e.Name)
		}
		return s.resolveEntity(msg)
	case *syntax.AttributeExpression:
		return s.resolveAttribute(e)
	case *syntax.SelectExpression:
		return s.resolveSelect(e)
	case *syntax.CallExpression:
		return s.resolveCall(e)
	}
	return None("")
}

// resolveEntity applies a message referenced without an attribute: its value,
// or a None labeled with its id when it has none.
func (s *scope) resolveEntity(msg *syntax.Message) Value {
	if msg.Value == nil {
		s.report(newError(ErrRange, "No value: %s", msg.ID))
		return None(msg.ID)
	}
	return s.resolvePattern(msg.Value)
}

func (s *scope) resolveAttribute(e *syntax.AttributeExpression) Value {
	msg, ok := s.ctx.messages[e.Ref.Name]
	if !ok {
		s.report(newError(ErrReference, "Unknown entity: %s", e.Ref.Name))
		return None(e.Ref.Name)
	}
	attr, ok := msg.Attribute(e.Name)
	if !ok {
		s.report(newError(ErrReference, "Unknown trait: %s", e.Name))
		return s.resolveEntity(msg)
	}
	return s.resolvePattern(attr.Value)
}

func (s *scope) resolveSelect(e *syntax.SelectExpression) Value {
	selector := s.resolveExpression(e.Selector)
	if !selector.IsNone() {
		for _, v := range e.Variants {
			if variantKey(v.Key).Match(s.ctx, selector) {
				return s.resolvePattern(v.Value)
			}
		}
	}

	for _, v := range e.Variants {
		if v.Default {
			return s.resolvePattern(v.Value)
		}
	}
	s.report(newError(ErrRange, "No default"))
	return None("")
}

func (s *scope) resolveCall(e *syntax.CallExpression) Value {
	fn, ok := s.ctx.functions[e.Callee]
	if !ok {
		s.report(newError(ErrReference, "Unknown function: %s()", e.Callee))
		return None(e.Callee + "()")
	}

	positional := make([]Value, len(e.Positional))
	failed := false
	for i, arg := range e.Positional {
		positional[i] = s.resolveExpression(arg)
		failed = failed || positional[i].IsNone()
	}
	named := make(map[string]Value, len(e.Named))
	for _, arg := range e.Named {
		v := s.resolveExpression(arg.Value)
		failed = failed || v.IsNone()
		named[arg.Name] = v
	}
	if failed {
		return None(syntax.SerializeExpression(e))
	}

	out := fn(positional, named)
	if out.IsNone() && out.Label() == "" {
		s.report(newError(ErrType, "Invalid arguments to %s()", e.Callee))
		return None(syntax.SerializeExpression(e))
	}
	return out
}

func (s *scope) resolveVariable(name string) Value {
	raw, ok := s.args[name]
	if !ok {
		s.report(newError(ErrReference, "Unknown variable: $%s", name))
		return None("$" + name)
	}
	v, ok := hostValue(raw)
	if !ok {
		kind := "nil"
		if raw != nil {
			kind = reflect.TypeOf(raw).Kind().String()
		}
		s.report(newError(ErrType, "Variable type not supported: $%s, %s", name, kind))
		return None("$" + name)
	}
	return v
}

// hostValue maps a Go argument to a Value. Strings, numbers, time.Time,
// Values and slices or arrays of those are supported.
func hostValue(raw any) (Value, bool) {
	switch v := raw.(type) {
	case Value:
		return v, true
	case string:
		return String(v), true
	case time.Time:
		return DateTime(v, nil), true
	case nil:
		return Value{}, false
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(float64(rv.Int()), nil), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Number(float64(rv.Uint()), nil), true
	case reflect.Float32, reflect.Float64:
		return Number(rv.Float(), nil), true
	case reflect.String:
		return String(rv.String()), true
	case reflect.Slice, reflect.Array:
		items := make([]Value, rv.Len())
		for i := range items {
			item, ok := hostValue(rv.Index(i).Interface())
			if !ok {
				return Value{}, false
			}
			items[i] = item
		}
		return List(items...), true
	}
	return Value{}, false
}

func variantKey(key syntax.VariantKey) Value {
	switch k := key.(type) {
	case *syntax.NumberLiteral:
		return numberLiteral(k)
	case *syntax.Keyword:
		return Keyword(k.Name, k.Namespace)
	}
	return None("")
}

// numberLiteral keeps the precision of the source spelling, so "1.50"
// formats with two fraction digits.
func numberLiteral(n *syntax.NumberLiteral) Value {
	f, err := strconv.ParseFloat(n.Value, 64)
	if err != nil {
		return None("")
	}
	if _, frac, ok := strings.Cut(n.Value, "."); ok {
		return Number(f, Options{"minimumFractionDigits": float64(len(frac))})
	}
	return Number(f, nil)
}

func truncate(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
