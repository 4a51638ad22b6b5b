package fluent

import (
	"fmt"
	"slices"
	"sync"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/fluent/pkg/syntax"
)

// Context holds the messages of one locale and formats them.
//
// AddMessages must not run concurrently with other methods. Once messages
// are loaded, Format and FormatAttribute are safe for concurrent use.
type Context struct {
	locale     string
	tag        language.Tag
	format     localeFormat
	isolate    bool
	functions  map[string]Function
	pluralRule PluralRule

	messages map[string]*syntax.Message

	// Formatters are built on first use and never evicted; a resource only
	// uses a handful of distinct option sets.
	mu         sync.Mutex
	formatters map[string]formatterEntry
}

type formatterEntry struct {
	f   any
	err error
}

// NewContext creates an empty Context for a BCP 47 locale such as "en-US".
func NewContext(locale string, opts ...Option) (*Context, error) {
	if locale == "" {
		return nil, ErrInvalidLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidLocale, locale, err)
	}

	c := &Context{
		locale:     tag.String(),
		tag:        tag,
		format:     lookupLocaleFormat(tag),
		isolate:    true,
		functions:  Builtins(),
		messages:   make(map[string]*syntax.Message),
		formatters: make(map[string]formatterEntry),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	return c, nil
}

// Locale returns the canonical locale tag of the Context.
func (c *Context) Locale() string { return c.locale }

// AddMessages parses source and adds its messages. A message whose id is
// already known replaces the previous one entirely. The returned errors are
// parse diagnostics; the valid part of source is added regardless.
func (c *Context) AddMessages(source string) []error {
	res, errs := syntax.Parse(source)
	c.AddResource(res)
	return errs
}

// AddResource adds the messages of an already parsed resource.
func (c *Context) AddResource(res *syntax.Resource) {
	for _, msg := range res.Messages() {
		c.messages[msg.ID] = msg
	}
}

// Message returns the parsed message with the given id.
func (c *Context) Message(id string) (*syntax.Message, bool) {
	msg, ok := c.messages[id]
	return msg, ok
}

// HasMessage reports whether a message with the given id exists.
func (c *Context) HasMessage(id string) bool {
	_, ok := c.messages[id]
	return ok
}

// Messages returns the ids of all messages, sorted.
func (c *Context) Messages() []string {
	ids := make([]string, 0, len(c.messages))
	for id := range c.messages {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Format formats the value of msg with args. ok is false when msg has no
// value, in which case no diagnostics are produced. Failures inside the
// pattern are returned as *Error diagnostics while the output degrades to
// visible fallback text.
func (c *Context) Format(msg *syntax.Message, args map[string]any) (string, bool, []error) {
	if msg == nil || msg.Value == nil {
		return "", false, nil
	}
	return c.formatPattern(msg.ID, msg.Value, args)
}

// FormatAttribute formats the named attribute of msg. ok is false when the
// attribute does not exist.
func (c *Context) FormatAttribute(msg *syntax.Message, name string, args map[string]any) (string, bool, []error) {
	if msg == nil {
		return "", false, nil
	}
	attr, found := msg.Attribute(name)
	if !found {
		return "", false, nil
	}
	return c.formatPattern(msg.ID, attr.Value, args)
}

func (c *Context) formatPattern(id string, p *syntax.Pattern, args map[string]any) (string, bool, []error) {
	if s, ok := p.Text(); ok {
		return s, true, nil
	}
	s := &scope{ctx: c, args: args, id: id, dirty: make(map[*syntax.Pattern]struct{})}
	out := s.resolvePattern(p)
	return out.String(), true, s.errs
}

func (c *Context) numberFormatter(opts Options) (*numberFormat, error) {
	e := c.formatter(KindNumber, opts, func() (any, error) { return c.newNumberFormat(opts) })
	if e.err != nil {
		return nil, e.err
	}
	return e.f.(*numberFormat), nil
}

func (c *Context) dateTimeFormatter(opts Options) (*dateTimeFormat, error) {
	e := c.formatter(KindDateTime, opts, func() (any, error) { return c.newDateTimeFormat(opts) })
	if e.err != nil {
		return nil, e.err
	}
	return e.f.(*dateTimeFormat), nil
}

func (c *Context) formatter(kind Kind, opts Options, build func() (any, error)) formatterEntry {
	key := formatterKey(kind, opts)

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.formatters[key]; ok {
		return e
	}
	f, err := build()
	e := formatterEntry{f: f, err: err}
	c.formatters[key] = e
	return e
}
