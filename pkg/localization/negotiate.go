package localization

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// maxAcceptLanguageLength prevents DoS attacks through oversized Accept-Language headers.
const maxAcceptLanguageLength = 4096

// Negotiate returns the fallback chain for requested locales: for each
// request, the longest available locale equal to it or a subtag prefix of
// it, after dropping Unicode extension and private-use subtags. Duplicates
// are removed and defaultLocale is appended when absent. Matching is
// case-insensitive; the result uses the spelling of available.
//
//	Negotiate([]string{"de-AT", "en-US"}, []string{"en", "de", "en-US"}, "en")
//	// [de en-US en]
func Negotiate(requested, available []string, defaultLocale string) []string {
	out := make([]string, 0, len(requested)+1)
	seen := make(map[string]struct{}, len(requested)+1)
	add := func(locale string) {
		key := strings.ToLower(locale)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, locale)
	}

	for _, req := range requested {
		want := normalize(req)
		if want == "" {
			continue
		}
		best := ""
		for _, avail := range available {
			a := strings.ToLower(avail)
			if (a == want || strings.HasPrefix(want, a+"-")) && len(a) > len(best) {
				best = avail
			}
		}
		if best != "" {
			add(best)
		}
	}

	if defaultLocale != "" {
		add(defaultLocale)
	}
	return out
}

// normalize lowercases a tag, converts "_" to "-" and drops everything from
// the first singleton subtag ("-u-", "-x-", ...). Unparseable tags yield "".
func normalize(tag string) string {
	tag = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(tag), "_", "-"))
	parts := strings.Split(tag, "-")
	for i, p := range parts {
		if i > 0 && len(p) == 1 {
			parts = parts[:i]
			break
		}
	}
	tag = strings.Join(parts, "-")
	if _, err := language.Parse(tag); err != nil {
		return ""
	}
	return tag
}

// ParseAcceptLanguage returns the tags of an Accept-Language header ordered
// by quality, highest first; equal qualities keep header order. Wildcards
// and tags with q=0 are dropped.
//
//	ParseAcceptLanguage("en-US,en;q=0.9,pl;q=0.95,*;q=0.1")
//	// [en-US pl en]
func ParseAcceptLanguage(header string) []string {
	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
	}

	type weighted struct {
		tag     string
		quality float64
	}
	var tags []weighted

	for part := range strings.SplitSeq(header, ",") {
		tag, params, _ := strings.Cut(part, ";")
		tag = strings.TrimSpace(tag)
		if tag == "" || tag == "*" {
			continue
		}

		quality := 1.0
		if q, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			v, err := strconv.ParseFloat(q, 64)
			if err != nil || v < 0 || v > 1 {
				continue
			}
			quality = v
		}
		if quality == 0 {
			continue
		}
		tags = append(tags, weighted{tag: tag, quality: quality})
	}

	slices.SortStableFunc(tags, func(a, b weighted) int {
		return cmp.Compare(b.quality, a.quality)
	})

	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.tag
	}
	return out
}
