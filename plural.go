package fluent

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
)

// PluralRule returns the plural category of n, one of the Plural*
// constants. ordinal selects position rules ("1st", "2nd") instead of
// quantity rules.
type PluralRule func(n float64, ordinal bool) string

// Plural category names as defined by Unicode CLDR.
// Not all languages use all categories.
const (
	PluralZero  = "zero"
	PluralOne   = "one"
	PluralTwo   = "two"
	PluralFew   = "few"
	PluralMany  = "many"
	PluralOther = "other"
)

var pluralForms = map[plural.Form]string{
	plural.Other: PluralOther,
	plural.Zero:  PluralZero,
	plural.One:   PluralOne,
	plural.Two:   PluralTwo,
	plural.Few:   PluralFew,
	plural.Many:  PluralMany,
}

// CLDRPluralRule returns the CLDR plural rule of locale. Numbers are
// classified in their shortest decimal form, so 1.5 has one visible
// fraction digit.
func CLDRPluralRule(locale string) (PluralRule, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, ErrInvalidLocale
	}
	return func(n float64, ordinal bool) string {
		return cldrCategory(tag, decimalString(n, 0, -1), ordinal)
	}, nil
}

// pluralCategory classifies n as it would be displayed with opts: the
// minimum and maximum fraction digits change the visible operands, and
// type "ordinal" selects ordinal rules.
func (c *Context) pluralCategory(n float64, opts Options) string {
	t, _ := optString(opts, "type")
	ordinal := t == "ordinal"
	if c.pluralRule != nil {
		return c.pluralRule(n, ordinal)
	}

	minFrac, _, err := optInt(opts, "minimumFractionDigits", 0, 20)
	if err != nil {
		minFrac = 0
	}
	maxFrac, ok, err := optInt(opts, "maximumFractionDigits", 0, 20)
	if err != nil || !ok {
		maxFrac = -1
	}
	return cldrCategory(c.tag, decimalString(n, minFrac, maxFrac), ordinal)
}

func cldrCategory(tag language.Tag, decimal string, ordinal bool) string {
	if decimal == "" {
		return PluralOther
	}
	intPart, fracPart, _ := strings.Cut(strings.TrimPrefix(decimal, "-"), ".")
	digits := make([]byte, 0, len(intPart)+len(fracPart))
	for _, c := range intPart + fracPart {
		digits = append(digits, byte(c-'0'))
	}

	rules := plural.Cardinal
	if ordinal {
		rules = plural.Ordinal
	}
	if form, ok := pluralForms[rules.MatchDigits(tag, digits, len(intPart), len(fracPart))]; ok {
		return form
	}
	return PluralOther
}

// decimalString renders n with at least minFrac and at most maxFrac fraction
// digits; maxFrac < 0 means as many as needed. It returns "" for NaN and
// infinities.
func decimalString(n float64, minFrac, maxFrac int) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return ""
	}
	var s string
	if maxFrac >= 0 {
		s = strconv.FormatFloat(n, 'f', maxFrac, 64)
		if strings.Contains(s, ".") {
			s = strings.TrimRight(s, "0")
			s = strings.TrimSuffix(s, ".")
		}
	} else {
		s = strconv.FormatFloat(n, 'f', -1, 64)
	}

	_, frac, _ := strings.Cut(s, ".")
	if pad := minFrac - len(frac); pad > 0 {
		if frac == "" {
			s += "."
		}
		s += strings.Repeat("0", pad)
	}
	return s
}
