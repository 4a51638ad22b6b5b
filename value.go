package fluent

import (
	"strconv"
	"strings"
	"time"
)

// Kind discriminates the variants of Value.
type Kind uint8

const (
	KindNone Kind = iota
	KindString
	KindNumber
	KindDateTime
	KindKeyword
	KindList
)

var kindNames = [...]string{
	KindNone:     "none",
	KindString:   "string",
	KindNumber:   "number",
	KindDateTime: "datetime",
	KindKeyword:  "keyword",
	KindList:     "list",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Options are formatting options attached to a number or date value. Values
// are strings, float64 or bool; unknown keys are ignored.
type Options map[string]any

// Value is the result of resolving an expression. The zero Value is a None
// without a label.
type Value struct {
	kind Kind
	str  string // string, keyword name or none label
	ns   string // keyword namespace
	num  float64
	time time.Time
	list []Value
	opts Options
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number returns a number value formatted with opts.
func Number(n float64, opts Options) Value {
	return Value{kind: KindNumber, num: n, opts: opts}
}

// DateTime returns a date value formatted with opts.
func DateTime(t time.Time, opts Options) Value {
	return Value{kind: KindDateTime, time: t, opts: opts}
}

// Keyword returns a variant-key keyword. namespace may be empty.
func Keyword(name, namespace string) Value {
	return Value{kind: KindKeyword, str: name, ns: namespace}
}

// List returns a list value.
func List(items ...Value) Value {
	return Value{kind: KindList, list: items}
}

// None returns the value of an expression that failed to resolve. A labeled
// None renders as "{label}", an unlabeled one as "???".
func None(label string) Value {
	return Value{kind: KindNone, str: label}
}

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsNone reports whether v is a None.
func (v Value) IsNone() bool { return v.kind == KindNone }

// Label returns the label of a None.
func (v Value) Label() string {
	if v.kind != KindNone {
		return ""
	}
	return v.str
}

// Options returns the formatting options of a number or date value.
func (v Value) Options() Options { return v.opts }

// Items returns the members of a list.
func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}
	return v.list
}

// Raw returns the underlying payload: string, float64, time.Time, the
// keyword in source form, []any, or nil for None.
func (v Value) Raw() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindDateTime:
		return v.time
	case KindKeyword:
		return v.keyword()
	case KindList:
		raw := make([]any, len(v.list))
		for i, item := range v.list {
			raw[i] = item.Raw()
		}
		return raw
	}
	return nil
}

// String returns the unformatted rendering of v: numbers in shortest decimal
// form, dates in RFC 3339, list members joined by ", ".
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindDateTime:
		return v.time.Format(time.RFC3339)
	case KindKeyword:
		return v.keyword()
	case KindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.String()
		}
		return strings.Join(parts, ", ")
	}
	if v.str == "" {
		return "???"
	}
	return "{" + v.str + "}"
}

// Format renders v for display in ctx. When the formatting options are
// invalid it returns the unformatted rendering together with an ErrRange
// diagnostic.
func (v Value) Format(ctx *Context) (string, error) {
	switch v.kind {
	case KindNumber:
		f, err := ctx.numberFormatter(v.opts)
		if err != nil {
			return v.String(), err
		}
		return f.format(v.num), nil
	case KindDateTime:
		f, err := ctx.dateTimeFormatter(v.opts)
		if err != nil {
			return v.String(), err
		}
		return f.format(v.time), nil
	case KindList:
		parts := make([]string, len(v.list))
		var firstErr error
		for i, item := range v.list {
			s, err := item.Format(ctx)
			if err != nil && firstErr == nil {
				firstErr = err
			}
			parts[i] = s
		}
		return strings.Join(parts, ", "), firstErr
	}
	return v.String(), nil
}

// Match reports whether v, used as a variant key, matches the selector
// other. A keyword matches an equal keyword, a string equal to its name, or
// a number whose plural category is its name. A number matches an equal
// number. Other kinds never match.
func (v Value) Match(ctx *Context, other Value) bool {
	switch v.kind {
	case KindNumber:
		return other.kind == KindNumber && v.num == other.num
	case KindKeyword:
		switch other.kind {
		case KindKeyword:
			return v.str == other.str && v.ns == other.ns
		case KindString:
			return v.ns == "" && v.str == other.str
		case KindNumber:
			return v.ns == "" && v.str == ctx.pluralCategory(other.num, other.opts)
		}
	}
	return false
}

func (v Value) keyword() string {
	if v.ns == "" {
		return v.str
	}
	return v.ns + "/" + v.str
}
