package fluent_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fluent"
)

func TestBuiltins(t *testing.T) {
	t.Parallel()

	ctx := newContext(t, "en", `
items = { $items }
list = { LIST($items, "c") }
len = { LEN($items) }
len-string = { LEN("héllo") }
take = { TAKE(1, $items) }
drop = { DROP(1, $items) }
take-all = { TAKE(5, $items) }
number-string = { NUMBER("12.5") }
plural = { PLURAL($n) ->
    [one] single
   *[other] many
}
count = { LEN($items) ->
    [one] one item
   *[other] several items
}
`)
	args := map[string]any{"items": []string{"a", "b"}, "n": 1}

	tests := []struct {
		id   string
		want string
	}{
		{id: "items", want: "a, b"},
		{id: "list", want: "a, b, c"},
		{id: "len", want: "2"},
		{id: "len-string", want: "5"},
		{id: "take", want: "a"},
		{id: "drop", want: "b"},
		{id: "take-all", want: "a, b"},
		{id: "number-string", want: "12.5"},
		{id: "plural", want: "single"},
		{id: "count", want: "several items"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			t.Parallel()
			out, errs := format(t, ctx, tt.id, args)
			require.Empty(t, errs)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestBuiltinsInvalidArguments(t *testing.T) {
	t.Parallel()

	ctx := newContext(t, "en", `
no-args = { NUMBER() }
bad-date = { DATETIME("yesterday") }
negative-take = { TAKE(-1, $items) }
`)

	tests := []struct {
		id   string
		want string
	}{
		{id: "no-args", want: "{NUMBER()}"},
		{id: "bad-date", want: `{DATETIME("yesterday")}`},
		{id: "negative-take", want: "{TAKE(-1, $items)}"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			t.Parallel()
			out, errs := format(t, ctx, tt.id, map[string]any{"items": []string{"a"}})
			assert.Equal(t, tt.want, out)
			require.Len(t, errs, 1)
			assert.ErrorIs(t, errs[0], fluent.ErrType)
		})
	}
}

func TestBuiltinsOutOfRangeNumbers(t *testing.T) {
	t.Parallel()

	ctx := newContext(t, "en", `
take-huge = { TAKE(100000000000000000000, $items) }
drop-huge = { DROP(100000000000000000000, $items) }
take-n = { TAKE($n, $items) }
drop-n = { DROP($n, $items) }
date-n = { DATETIME($n) }
`)
	items := []string{"a", "b"}

	tests := []struct {
		name string
		id   string
		n    float64
		want string
		err  error
	}{
		{name: "take literal above int range", id: "take-huge", want: "a, b"},
		{name: "drop literal above int range", id: "drop-huge", want: ""},
		{name: "take positive infinity", id: "take-n", n: math.Inf(1), want: "a, b"},
		{name: "drop positive infinity", id: "drop-n", n: math.Inf(1), want: ""},
		{name: "take above int range", id: "take-n", n: 1e30, want: "a, b"},
		{name: "take NaN", id: "take-n", n: math.NaN(), want: "{TAKE($n, $items)}", err: fluent.ErrType},
		{name: "drop NaN", id: "drop-n", n: math.NaN(), want: "{DROP($n, $items)}", err: fluent.ErrType},
		{name: "take negative infinity", id: "take-n", n: math.Inf(-1), want: "{TAKE($n, $items)}", err: fluent.ErrType},
		{name: "date NaN", id: "date-n", n: math.NaN(), want: "{DATETIME($n)}", err: fluent.ErrType},
		{name: "date infinity", id: "date-n", n: math.Inf(1), want: "{DATETIME($n)}", err: fluent.ErrType},
		{name: "date out of range", id: "date-n", n: 1e300, want: "{DATETIME($n)}", err: fluent.ErrType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var out string
			var errs []error
			require.NotPanics(t, func() {
				out, errs = format(t, ctx, tt.id, map[string]any{"items": items, "n": tt.n})
			})
			assert.Equal(t, tt.want, out)
			if tt.err == nil {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.ErrorIs(t, errs[0], tt.err)
		})
	}
}

func TestCustomFunctions(t *testing.T) {
	t.Parallel()

	upper := func(positional []fluent.Value, _ map[string]fluent.Value) fluent.Value {
		if len(positional) == 0 {
			return fluent.None("")
		}
		return fluent.String(strings.ToUpper(positional[0].String()))
	}
	greet := func(positional []fluent.Value, named map[string]fluent.Value) fluent.Value {
		return fluent.String(named["greeting"].String() + " " + positional[0].String())
	}

	ctx := newContext(t, "en", `
shout = { UPPER($name) }
greet = { GREET($name, greeting: "Hi") }
number = { NUMBER($n) }
`, fluent.WithFunctions(map[string]fluent.Function{
		"UPPER":  upper,
		"GREET":  greet,
		"NUMBER": upper,
	}))
	args := map[string]any{"name": "anna", "n": 1234}

	out, errs := format(t, ctx, "shout", args)
	require.Empty(t, errs)
	assert.Equal(t, "ANNA", out)

	out, errs = format(t, ctx, "greet", args)
	require.Empty(t, errs)
	assert.Equal(t, "Hi anna", out)

	out, errs = format(t, ctx, "number", args)
	require.Empty(t, errs)
	assert.Equal(t, "1234", out, "custom function replaces the builtin")
}
