// Package fluent formats messages written in FTL, the Fluent translation
// format, with locale-aware numbers, dates and plural selection.
//
// A [Context] holds the messages of one locale. Messages are added from FTL
// source and formatted with named arguments:
//
//	ctx, err := fluent.NewContext("en-US")
//	if err != nil {
//		return err
//	}
//	ctx.AddMessages(`
//	emails = { $count ->
//	    [one] You have one email.
//	   *[other] You have { $count } emails.
//	}
//	`)
//
//	msg, _ := ctx.Message("emails")
//	out, _, errs := ctx.Format(msg, map[string]any{"count": 3})
//	// out: "You have \u20683\u2069 emails."
//
// # Failures
//
// Formatting never fails as a whole. A broken placeable renders a visible
// fallback and a diagnostic is returned next to the output:
//
//   - an unknown variable, message or function renders as "{$name}",
//     "{name}" or "{NAME()}"; a call whose argument failed renders its own
//     source, e.g. "{NUMBER($arg)}"
//   - a select expression without a matching or default variant and a
//     cyclic reference render "???"
//   - invalid formatting options render the raw value, e.g. "1234.5"
//
// Diagnostics are *[Error] values matching [ErrReference], [ErrType] or
// [ErrRange] with errors.Is.
//
// # Values and functions
//
// Arguments may be strings, any Go integer or float type, time.Time, [Value]
// or slices of those. Numbers select variants by CLDR plural category.
// Builtin functions are NUMBER, PLURAL, DATETIME, LIST, LEN, TAKE and DROP;
// custom ones are added with [WithFunctions]:
//
//	ctx, _ := fluent.NewContext("en", fluent.WithFunctions(map[string]fluent.Function{
//		"UPPER": func(pos []fluent.Value, _ map[string]fluent.Value) fluent.Value {
//			if len(pos) == 0 {
//				return fluent.None("")
//			}
//			return fluent.String(strings.ToUpper(pos[0].String()))
//		},
//	}))
//
// # Bidi isolation
//
// Placeables inside patterns with surrounding text are wrapped in U+2068 and
// U+2069 so right-to-left arguments do not reorder the sentence. Disable with
// WithIsolation(false).
package fluent
