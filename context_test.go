package fluent_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fluent"
)

func newContext(t *testing.T, locale, source string, opts ...fluent.Option) *fluent.Context {
	t.Helper()
	ctx, err := fluent.NewContext(locale, opts...)
	require.NoError(t, err)
	require.Empty(t, ctx.AddMessages(source))
	return ctx
}

func format(t *testing.T, ctx *fluent.Context, id string, args map[string]any) (string, []error) {
	t.Helper()
	msg, ok := ctx.Message(id)
	require.True(t, ok, "message %q not found", id)
	out, ok, errs := ctx.Format(msg, args)
	require.True(t, ok, "message %q has no value", id)
	return out, errs
}

func TestNewContext(t *testing.T) {
	t.Parallel()

	t.Run("canonicalizes locale", func(t *testing.T) {
		t.Parallel()
		ctx, err := fluent.NewContext("en-us")
		require.NoError(t, err)
		require.Equal(t, "en-US", ctx.Locale())
	})

	t.Run("rejects empty locale", func(t *testing.T) {
		t.Parallel()
		_, err := fluent.NewContext("")
		require.ErrorIs(t, err, fluent.ErrInvalidLocale)
	})

	t.Run("rejects malformed locale", func(t *testing.T) {
		t.Parallel()
		_, err := fluent.NewContext("not a locale")
		require.ErrorIs(t, err, fluent.ErrInvalidLocale)
	})

	t.Run("rejects nil function", func(t *testing.T) {
		t.Parallel()
		_, err := fluent.NewContext("en", fluent.WithFunctions(map[string]fluent.Function{"BROKEN": nil}))
		require.ErrorIs(t, err, fluent.ErrNilFunction)
		require.Contains(t, err.Error(), "BROKEN")
	})

	t.Run("rejects nil plural rule", func(t *testing.T) {
		t.Parallel()
		_, err := fluent.NewContext("en", fluent.WithPluralRule(nil))
		require.ErrorIs(t, err, fluent.ErrNilPluralRule)
	})
}

func TestContextMessages(t *testing.T) {
	t.Parallel()

	ctx := newContext(t, "en", "b = B\na = A\nc = C\n")

	require.Equal(t, []string{"a", "b", "c"}, ctx.Messages())
	require.True(t, ctx.HasMessage("a"))
	require.False(t, ctx.HasMessage("missing"))

	_, ok := ctx.Message("missing")
	require.False(t, ok)

	t.Run("later definition replaces earlier one", func(t *testing.T) {
		t.Parallel()
		ctx := newContext(t, "en", "a = First\n    .title = Title\n")
		require.Empty(t, ctx.AddMessages("a = Second\n"))

		out, errs := format(t, ctx, "a", nil)
		require.Empty(t, errs)
		require.Equal(t, "Second", out)

		msg, _ := ctx.Message("a")
		_, ok, _ := ctx.FormatAttribute(msg, "title", nil)
		require.False(t, ok)
	})

	t.Run("keeps valid messages next to junk", func(t *testing.T) {
		t.Parallel()
		ctx, err := fluent.NewContext("en")
		require.NoError(t, err)
		errs := ctx.AddMessages("good = Good\nbad = { \nalso = Also\n")
		require.NotEmpty(t, errs)
		require.True(t, ctx.HasMessage("good"))
	})
}

func TestContextFormat(t *testing.T) {
	t.Parallel()

	ctx := newContext(t, "en-US", `
foo = Foo
bar = { foo } Bar
select = { "a" ->
    [a] A
   *[b] B
}
no-default = { "c" ->
    [a] A
    [b] B
}
num-bare = { NUMBER($arg) }
cyclic = { cyclic }
cycle-a = { cycle-b }
cycle-b = { cycle-a }
cycle-select = { cycle-select ->
   *[x] X
}
cycle-attr = x { cycle-attr.t }
    .t = { cycle-attr }
hello = Hello, { $name }!
login = Log in
    .title = Sign in here
login-title = { login.title }
login-unknown = { login.nope }
attrs-only =
    .title = Only an attribute
ref-attrs-only = { attrs-only }
missing = { nowhere }
unknown-fn = { NOPE() }
bad-args = { NUMBER("abc") }
`)

	tests := []struct {
		name   string
		id     string
		args   map[string]any
		want   string
		errors []error
	}{
		{name: "isolates message reference", id: "bar", want: "\u2068Foo\u2069 Bar"},
		{name: "selects matching string variant", id: "select", want: "A"},
		{name: "select without default", id: "no-default", want: "???", errors: []error{fluent.ErrRange}},
		{name: "call with unknown variable", id: "num-bare", want: "{NUMBER($arg)}", errors: []error{fluent.ErrReference}},
		{name: "cyclic reference", id: "cyclic", want: "???", errors: []error{fluent.ErrRange}},
		{name: "mutual cyclic reference", id: "cycle-a", want: "???", errors: []error{fluent.ErrRange}},
		{name: "cyclic selector uses default variant", id: "cycle-select", want: "X", errors: []error{fluent.ErrRange}},
		{name: "cyclic attribute reference", id: "cycle-attr", want: "x \u2068???\u2069", errors: []error{fluent.ErrRange}},
		{name: "variable", id: "hello", args: map[string]any{"name": "Anna"}, want: "Hello, \u2068Anna\u2069!"},
		{name: "unknown variable", id: "hello", want: "Hello, \u2068{$name}\u2069!", errors: []error{fluent.ErrReference}},
		{name: "unsupported variable type", id: "hello", args: map[string]any{"name": struct{}{}}, want: "Hello, \u2068{$name}\u2069!", errors: []error{fluent.ErrType}},
		{name: "attribute reference", id: "login-title", want: "Sign in here"},
		{name: "unknown attribute falls back to value", id: "login-unknown", want: "Log in", errors: []error{fluent.ErrReference}},
		{name: "reference to message without value", id: "ref-attrs-only", want: "{attrs-only}", errors: []error{fluent.ErrRange}},
		{name: "unknown message", id: "missing", want: "{nowhere}", errors: []error{fluent.ErrReference}},
		{name: "unknown function", id: "unknown-fn", want: "{NOPE()}", errors: []error{fluent.ErrReference}},
		{name: "invalid function arguments", id: "bad-args", want: `{NUMBER("abc")}`, errors: []error{fluent.ErrType}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, errs := format(t, ctx, tt.id, tt.args)
			assert.Equal(t, tt.want, out)
			require.Len(t, errs, len(tt.errors))
			for i, kind := range tt.errors {
				assert.ErrorIs(t, errs[i], kind)
			}
		})
	}
}

func TestContextFormatErrors(t *testing.T) {
	t.Parallel()

	ctx := newContext(t, "en-US", "num-bare = { NUMBER($arg) }\ncyclic = { cyclic }\n")

	_, errs := format(t, ctx, "num-bare", nil)
	require.Len(t, errs, 1)
	var ferr *fluent.Error
	require.ErrorAs(t, errs[0], &ferr)
	assert.Equal(t, "Unknown variable: $arg", ferr.Message)
	assert.Equal(t, "num-bare", ferr.ID)
	assert.Equal(t, "en-US", ferr.Locale)

	_, errs = format(t, ctx, "cyclic", nil)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "Cyclic reference")
}

func TestContextFormatWithoutValue(t *testing.T) {
	t.Parallel()

	ctx := newContext(t, "en", "attrs =\n    .title = Title { $n }\n")
	msg, ok := ctx.Message("attrs")
	require.True(t, ok)

	out, ok, errs := ctx.Format(msg, nil)
	assert.False(t, ok)
	assert.Empty(t, out)
	assert.Empty(t, errs)

	out, ok, errs = ctx.FormatAttribute(msg, "title", map[string]any{"n": 2})
	require.True(t, ok)
	assert.Empty(t, errs)
	assert.Equal(t, "Title \u20682\u2069", out)

	_, ok, _ = ctx.FormatAttribute(msg, "missing", nil)
	assert.False(t, ok)
}

func TestContextIsolation(t *testing.T) {
	t.Parallel()

	source := "hello = Hello, { $name }!\nonly = { $name }\n"
	args := map[string]any{"name": "Anna"}

	t.Run("single placeable is not isolated", func(t *testing.T) {
		t.Parallel()
		out, _ := format(t, newContext(t, "en", source), "only", args)
		require.Equal(t, "Anna", out)
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		out, _ := format(t, newContext(t, "en", source, fluent.WithIsolation(false)), "hello", args)
		require.Equal(t, "Hello, Anna!", out)
	})
}

func TestContextPlaceableLimit(t *testing.T) {
	t.Parallel()

	ctx := newContext(t, "en", "long = { $s }\n")
	long := make([]rune, fluent.MaxPlaceableSize+100)
	for i := range long {
		long[i] = 'ж'
	}

	out, errs := format(t, ctx, "long", map[string]any{"s": string(long)})
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], fluent.ErrRange)
	assert.Equal(t, string(long[:fluent.MaxPlaceableSize]), out)
}

func TestContextConcurrentFormat(t *testing.T) {
	t.Parallel()

	ctx := newContext(t, "en", "price = { NUMBER($n, style: \"currency\", currency: \"USD\") }\n")
	msg, _ := ctx.Message("price")

	var wg sync.WaitGroup
	for range 16 {
		wg.Go(func() {
			out, _, errs := ctx.Format(msg, map[string]any{"n": 5})
			assert.Empty(t, errs)
			assert.Equal(t, "$5.00", out)
		})
	}
	wg.Wait()
}
