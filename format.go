package fluent

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/currency"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	styleDecimal  = "decimal"
	stylePercent  = "percent"
	styleCurrency = "currency"
)

type numberFormat struct {
	printer  *message.Printer
	style    string
	symbol   string
	position string
	grouping bool
	minInt   int
	minFrac  int
	maxFrac  int
}

func (f *numberFormat) format(n float64) string {
	opts := []number.Option{
		number.MinFractionDigits(f.minFrac),
		number.MaxFractionDigits(f.maxFrac),
	}
	if f.minInt > 1 {
		opts = append(opts, number.MinIntegerDigits(f.minInt))
	}
	if !f.grouping {
		opts = append(opts, number.NoSeparator())
	}

	switch f.style {
	case stylePercent:
		return f.printer.Sprint(number.Percent(n, opts...))
	case styleCurrency:
		amount := f.printer.Sprint(number.Decimal(math.Abs(n), opts...))
		var s string
		if f.position == "after" {
			s = amount + " " + f.symbol
		} else if r, _ := utf8.DecodeLastRuneInString(f.symbol); unicode.IsLetter(r) {
			s = f.symbol + " " + amount
		} else {
			s = f.symbol + amount
		}
		if n < 0 {
			s = "-" + s
		}
		return s
	}
	return f.printer.Sprint(number.Decimal(n, opts...))
}

func (c *Context) newNumberFormat(opts Options) (*numberFormat, error) {
	f := &numberFormat{
		printer:  message.NewPrinter(c.tag),
		style:    styleDecimal,
		position: c.format.currencyPosition,
		grouping: true,
	}

	if style, ok := optString(opts, "style"); ok {
		switch style {
		case styleDecimal, stylePercent, styleCurrency:
			f.style = style
		default:
			return nil, invalidOption("style", style)
		}
	}

	defMin, defMax := 0, 3
	switch f.style {
	case stylePercent:
		defMax = 0
	case styleCurrency:
		code, ok := optString(opts, "currency")
		if !ok {
			return nil, newError(ErrRange, "Currency code is required with currency style")
		}
		unit, err := currency.ParseISO(code)
		if err != nil {
			return nil, invalidOption("currency", code)
		}
		scale, _ := currency.Standard.Rounding(unit)
		defMin, defMax = scale, scale

		display, _ := optString(opts, "currencyDisplay")
		switch display {
		case "", "symbol":
			f.symbol = f.printer.Sprint(currency.Symbol(unit))
		case "narrowSymbol":
			f.symbol = f.printer.Sprint(currency.NarrowSymbol(unit))
		case "code":
			f.symbol = unit.String()
		default:
			return nil, invalidOption("currencyDisplay", display)
		}
	}

	grouping, ok, err := optBool(opts, "useGrouping")
	if err != nil {
		return nil, err
	}
	if ok {
		f.grouping = grouping
	}

	if f.minInt, _, err = optInt(opts, "minimumIntegerDigits", 1, 21); err != nil {
		return nil, err
	}
	minFrac, hasMin, err := optInt(opts, "minimumFractionDigits", 0, 20)
	if err != nil {
		return nil, err
	}
	maxFrac, hasMax, err := optInt(opts, "maximumFractionDigits", 0, 20)
	if err != nil {
		return nil, err
	}
	switch {
	case hasMin && hasMax:
		if minFrac > maxFrac {
			return nil, newError(ErrRange, "maximumFractionDigits value is out of range: %d < %d", maxFrac, minFrac)
		}
	case hasMin:
		maxFrac = max(defMax, minFrac)
	case hasMax:
		minFrac = min(defMin, maxFrac)
	default:
		minFrac, maxFrac = defMin, defMax
	}
	f.minFrac, f.maxFrac = minFrac, maxFrac

	return f, nil
}

type dateTimeFormat struct {
	layout string
	loc    *time.Location
}

func (f *dateTimeFormat) format(t time.Time) string {
	if f.loc != nil {
		t = t.In(f.loc)
	}
	return t.Format(f.layout)
}

func (c *Context) newDateTimeFormat(opts Options) (*dateTimeFormat, error) {
	f := &dateTimeFormat{}
	lf := c.format

	if tz, ok := optString(opts, "timeZone"); ok {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, invalidOption("timeZone", tz)
		}
		f.loc = loc
	}

	hour12 := lf.hour12
	if h, ok, err := optBool(opts, "hour12"); err != nil {
		return nil, err
	} else if ok {
		hour12 = h
	}

	dateStyle, hasDate := optString(opts, "dateStyle")
	timeStyle, hasTime := optString(opts, "timeStyle")
	for _, opt := range [...]struct{ key, style string }{{"dateStyle", dateStyle}, {"timeStyle", timeStyle}} {
		switch opt.style {
		case "", "full", "long", "medium", "short":
		default:
			return nil, invalidOption(opt.key, opt.style)
		}
	}

	// Component options pick the closest style when no explicit style is set.
	if !hasDate && !hasTime {
		month, _ := optString(opts, "month")
		_, weekday := optString(opts, "weekday")
		_, year := optString(opts, "year")
		_, day := optString(opts, "day")
		_, hour := optString(opts, "hour")
		_, minute := optString(opts, "minute")
		_, second := optString(opts, "second")

		switch {
		case weekday:
			dateStyle, hasDate = "full", true
		case month == "long":
			dateStyle, hasDate = "long", true
		case month == "short" || month == "narrow":
			dateStyle, hasDate = "medium", true
		case year || day || month != "":
			dateStyle, hasDate = "short", true
		}
		switch {
		case second:
			timeStyle, hasTime = "medium", true
		case hour || minute:
			timeStyle, hasTime = "short", true
		}
		if !hasDate && !hasTime {
			dateStyle, hasDate = "short", true
		}
	}

	var parts []string
	if hasDate {
		parts = append(parts, lf.dateLayout(dateStyle))
	}
	if hasTime {
		seconds := timeStyle != "short"
		zone := timeStyle == "long" || timeStyle == "full"
		parts = append(parts, lf.timeLayout(hour12, seconds, zone))
	}
	f.layout = strings.Join(parts, lf.dateTimeSep)

	return f, nil
}

// formatterKey canonicalizes opts; encoding/json writes map keys sorted.
func formatterKey(kind Kind, opts Options) string {
	b, err := json.Marshal(opts)
	if err != nil {
		return kind.String() + "|" + fmt.Sprint(opts)
	}
	return kind.String() + "|" + string(b)
}

func invalidOption(key string, value any) *Error {
	return newError(ErrRange, "Invalid option value %v for %s", value, key)
}

func optString(opts Options, key string) (string, bool) {
	v, ok := opts[key]
	if !ok {
		return "", false
	}
	switch v := v.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return fmt.Sprint(v), true
}

func optInt(opts Options, key string, lo, hi int) (int, bool, error) {
	v, ok := opts[key]
	if !ok {
		return 0, false, nil
	}
	var n float64
	switch v := v.(type) {
	case float64:
		n = v
	case int:
		n = float64(v)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false, invalidOption(key, v)
		}
		n = f
	default:
		return 0, false, invalidOption(key, v)
	}
	if n != math.Trunc(n) || n < float64(lo) || n > float64(hi) {
		return 0, false, newError(ErrRange, "%s value is out of range: %v", key, v)
	}
	return int(n), true, nil
}

func optBool(opts Options, key string) (bool, bool, error) {
	v, ok := opts[key]
	if !ok {
		return false, false, nil
	}
	switch v := v.(type) {
	case bool:
		return v, true, nil
	case float64:
		return v != 0, true, nil
	case string:
		switch v {
		case "true", "always", "auto":
			return true, true, nil
		case "false", "never":
			return false, true, nil
		}
	}
	return false, false, invalidOption(key, v)
}
