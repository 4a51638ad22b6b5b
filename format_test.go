package fluent_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fluent"
)

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	source := `
plain = { $n }
fixed = { NUMBER($n, minimumFractionDigits: 2) }
capped = { NUMBER($n, maximumFractionDigits: 0) }
padded = { NUMBER($n, minimumIntegerDigits: 3) }
percent = { NUMBER($n, style: "percent") }
usd = { NUMBER($n, style: "currency", currency: "USD") }
eur = { NUMBER($n, style: "currency", currency: "EUR") }
eur-code = { NUMBER($n, style: "currency", currency: "EUR", currencyDisplay: "code") }
no-grouping = { NUMBER($n, useGrouping: "false") }
literal = { 1.50 }
`

	tests := []struct {
		name   string
		locale string
		id     string
		n      any
		want   string
	}{
		{name: "decimal", locale: "en", id: "plain", n: 1234.5, want: "1,234.5"},
		{name: "integer", locale: "en", id: "plain", n: 42, want: "42"},
		{name: "rounds to three fraction digits", locale: "en", id: "plain", n: 0.12345, want: "0.123"},
		{name: "negative", locale: "en", id: "plain", n: -7, want: "-7"},
		{name: "minimum fraction digits", locale: "en", id: "fixed", n: 5, want: "5.00"},
		{name: "maximum fraction digits", locale: "en", id: "capped", n: 2.4, want: "2"},
		{name: "minimum integer digits", locale: "en", id: "padded", n: 7, want: "007"},
		{name: "percent", locale: "en", id: "percent", n: 0.25, want: "25%"},
		{name: "currency before", locale: "en-US", id: "usd", n: 1234.5, want: "$1,234.50"},
		{name: "negative currency", locale: "en-US", id: "usd", n: -3, want: "-$3.00"},
		{name: "currency code", locale: "en", id: "eur-code", n: 10, want: "EUR 10.00"},
		{name: "german decimal", locale: "de", id: "plain", n: 1234.5, want: "1.234,5"},
		{name: "currency after", locale: "de", id: "eur", n: 1234.5, want: "1.234,50 €"},
		{name: "without grouping", locale: "en", id: "no-grouping", n: 1234567, want: "1234567"},
		{name: "literal keeps precision", locale: "en", id: "literal", want: "1.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := newContext(t, tt.locale, source)
			out, errs := format(t, ctx, tt.id, map[string]any{"n": tt.n})
			require.Empty(t, errs)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestFormatNumberInvalidOptions(t *testing.T) {
	t.Parallel()

	ctx := newContext(t, "en", `
bad-style = { NUMBER($n, style: "bogus") }
no-currency = { NUMBER($n, style: "currency") }
bad-currency = { NUMBER($n, style: "currency", currency: "XX") }
bad-range = { NUMBER($n, minimumFractionDigits: 3, maximumFractionDigits: 1) }
too-many = { NUMBER($n, maximumFractionDigits: 21) }
`)

	for _, id := range []string{"bad-style", "no-currency", "bad-currency", "bad-range", "too-many"} {
		t.Run(id, func(t *testing.T) {
			t.Parallel()
			out, errs := format(t, ctx, id, map[string]any{"n": 1234.5})
			assert.Equal(t, "1234.5", out)
			require.Len(t, errs, 1)
			assert.ErrorIs(t, errs[0], fluent.ErrRange)
		})
	}

	t.Run("failure is reported on every use", func(t *testing.T) {
		t.Parallel()
		for range 2 {
			_, errs := format(t, ctx, "bad-range", map[string]any{"n": 1})
			require.Len(t, errs, 1)
		}
	})
}

func TestFormatDateTime(t *testing.T) {
	t.Parallel()

	source := `
default = { $d }
long = { DATETIME($d, dateStyle: "long") }
full = { DATETIME($d, dateStyle: "full") }
time = { DATETIME($d, timeStyle: "short") }
time24 = { DATETIME($d, timeStyle: "short", hour12: "false") }
both = { DATETIME($d, dateStyle: "medium", timeStyle: "medium") }
month = { DATETIME($d, month: "long", day: "numeric") }
clock = { DATETIME($d, hour: "numeric", minute: "numeric") }
utc = { DATETIME($d, timeZone: "UTC", timeStyle: "long") }
epoch = { DATETIME(0) }
`
	d := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)

	tests := []struct {
		name   string
		locale string
		id     string
		want   string
	}{
		{name: "short date by default", locale: "en-US", id: "default", want: "3/5/24"},
		{name: "long date", locale: "en-US", id: "long", want: "March 5, 2024"},
		{name: "full date", locale: "en-US", id: "full", want: "Tuesday, March 5, 2024"},
		{name: "short time", locale: "en-US", id: "time", want: "2:07 PM"},
		{name: "24-hour time", locale: "en-US", id: "time24", want: "14:07"},
		{name: "date and time", locale: "en-US", id: "both", want: "Mar 5, 2024, 2:07:09 PM"},
		{name: "month component", locale: "en-US", id: "month", want: "March 5, 2024"},
		{name: "time components", locale: "en-US", id: "clock", want: "2:07 PM"},
		{name: "time zone", locale: "en-US", id: "utc", want: "2:07:09 PM UTC"},
		{name: "number as unix milliseconds", locale: "en-US", id: "epoch", want: "1/1/70"},
		{name: "british short date", locale: "en-GB", id: "default", want: "05/03/2024"},
		{name: "british long date", locale: "en-GB", id: "long", want: "5 March 2024"},
		{name: "german short date", locale: "de", id: "default", want: "05.03.24"},
		{name: "german time", locale: "de-AT", id: "time", want: "14:07"},
		{name: "unlisted locale uses english", locale: "sw", id: "default", want: "3/5/24"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := newContext(t, tt.locale, source)
			out, errs := format(t, ctx, tt.id, map[string]any{"d": d})
			require.Empty(t, errs)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestFormatDateTimeInvalidOptions(t *testing.T) {
	t.Parallel()

	ctx := newContext(t, "en", `
bad-zone = { DATETIME($d, timeZone: "Nowhere/Atlantis") }
bad-style = { DATETIME($d, dateStyle: "huge") }
bad-hour12 = { DATETIME($d, hour12: "sometimes") }
`)
	d := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)

	for _, id := range []string{"bad-zone", "bad-style", "bad-hour12"} {
		t.Run(id, func(t *testing.T) {
			t.Parallel()
			out, errs := format(t, ctx, id, map[string]any{"d": d})
			assert.Equal(t, "2024-03-05T14:07:09Z", out)
			require.Len(t, errs, 1)
			assert.ErrorIs(t, errs[0], fluent.ErrRange)
		})
	}
}
