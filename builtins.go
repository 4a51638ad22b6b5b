package fluent

import (
	"maps"
	"math"
	"strconv"
	"time"
	"unicode/utf8"
)

// Function is a callable available to FTL call expressions. Arguments are
// fully resolved before the call. A function signals unusable arguments by
// returning an unlabeled None; the placeable then renders the call source.
// Calling a name with no registered function renders it in braces, as in
// {NOPE()}, with an ErrReference diagnostic.
type Function func(positional []Value, named map[string]Value) Value

// Builtins returns the functions every Context starts with.
func Builtins() map[string]Function {
	return map[string]Function{
		"NUMBER":   builtinNumber,
		"PLURAL":   builtinNumber,
		"DATETIME": builtinDateTime,
		"LIST":     builtinList,
		"LEN":      builtinLen,
		"TAKE":     builtinTake,
		"DROP":     builtinDrop,
	}
}

// builtinNumber backs NUMBER and PLURAL. Named arguments become formatting
// options on top of the argument's own; "type" switches plural selection to
// ordinal rules.
func builtinNumber(positional []Value, named map[string]Value) Value {
	if len(positional) == 0 {
		return None("")
	}
	v := positional[0]
	switch v.kind {
	case KindNumber:
		return Number(v.num, mergeOptions(v.opts, named))
	case KindString:
		n, err := strconv.ParseFloat(v.str, 64)
		if err != nil {
			return None("")
		}
		return Number(n, mergeOptions(nil, named))
	}
	return None("")
}

// maxUnixMilli bounds numeric DATETIME input to 100,000,000 days either side
// of the Unix epoch.
const maxUnixMilli = 8.64e15

// builtinDateTime accepts dates, numbers as Unix milliseconds and RFC 3339
// strings.
func builtinDateTime(positional []Value, named map[string]Value) Value {
	if len(positional) == 0 {
		return None("")
	}
	v := positional[0]
	switch v.kind {
	case KindDateTime:
		return DateTime(v.time, mergeOptions(v.opts, named))
	case KindNumber:
		if math.IsNaN(v.num) || math.Abs(v.num) > maxUnixMilli {
			return None("")
		}
		return DateTime(time.UnixMilli(int64(v.num)).UTC(), mergeOptions(nil, named))
	case KindString:
		t, err := time.Parse(time.RFC3339, v.str)
		if err != nil {
			return None("")
		}
		return DateTime(t, mergeOptions(nil, named))
	}
	return None("")
}

func builtinList(positional []Value, _ map[string]Value) Value {
	items := make([]Value, 0, len(positional))
	for _, v := range positional {
		if v.kind == KindList {
			items = append(items, v.list...)
			continue
		}
		items = append(items, v)
	}
	return List(items...)
}

func builtinLen(positional []Value, _ map[string]Value) Value {
	if len(positional) == 0 {
		return None("")
	}
	switch v := positional[0]; v.kind {
	case KindList:
		return Number(float64(len(v.list)), nil)
	case KindString:
		return Number(float64(utf8.RuneCountInString(v.str)), nil)
	}
	return None("")
}

func builtinTake(positional []Value, _ map[string]Value) Value {
	n, items, ok := countAndList(positional)
	if !ok {
		return None("")
	}
	return List(items[:min(n, len(items))]...)
}

func builtinDrop(positional []Value, _ map[string]Value) Value {
	n, items, ok := countAndList(positional)
	if !ok {
		return None("")
	}
	return List(items[min(n, len(items)):]...)
}

// countAndList reads the (n, list) arguments of TAKE and DROP. A non-list
// second argument is treated as a one-element list.
func countAndList(positional []Value) (int, []Value, bool) {
	if len(positional) != 2 || positional[0].kind != KindNumber {
		return 0, nil, false
	}
	num := positional[0].num
	if math.IsNaN(num) || num < 0 {
		return 0, nil, false
	}
	items := []Value{positional[1]}
	if v := positional[1]; v.kind == KindList {
		items = v.list
	}
	if num >= float64(len(items)) {
		return len(items), items, true
	}
	return int(num), items, true
}

func mergeOptions(base Options, named map[string]Value) Options {
	if len(base) == 0 && len(named) == 0 {
		return nil
	}
	opts := make(Options, len(base)+len(named))
	maps.Copy(opts, base)
	for k, v := range named {
		opts[k] = v.Raw()
	}
	return opts
}
