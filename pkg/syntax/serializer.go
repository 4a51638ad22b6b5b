package syntax

import (
	"strings"
)

const indentUnit = "    "

// Serialize renders res back to FTL source. Parsing the output yields a
// resource equal to res for anything produced by Parse without junk.
func Serialize(res *Resource) string {
	var b strings.Builder
	for i, e := range res.Body {
		if i > 0 {
			b.WriteByte('\n')
		}
		switch e := e.(type) {
		case *Message:
			writeMessage(&b, e)
		case *Comment:
			writeComment(&b, e)
		case *Section:
			if e.Comment != nil {
				writeComment(&b, e.Comment)
			}
			b.WriteString("[[ ")
			b.WriteString(e.Name)
			b.WriteString(" ]]\n")
		case *Junk:
			b.WriteString(e.Content)
			if !strings.HasSuffix(e.Content, "\n") {
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}

// SerializePattern renders a pattern as it would appear after "id = ".
func SerializePattern(p *Pattern) string {
	var b strings.Builder
	writePattern(&b, p, 0)
	return b.String()
}

// SerializeExpression renders a single expression as placeable content.
func SerializeExpression(e Expression) string {
	var b strings.Builder
	writeExpression(&b, e, 0)
	return b.String()
}

func writeComment(b *strings.Builder, c *Comment) {
	for line := range strings.SplitSeq(c.Content, "\n") {
		if line == "" {
			b.WriteString("#\n")
			continue
		}
		b.WriteString("# ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
}

func writeMessage(b *strings.Builder, m *Message) {
	if m.Comment != nil {
		writeComment(b, m.Comment)
	}
	b.WriteString(m.ID)
	b.WriteString(" =")
	if m.Value != nil {
		writeValue(b, m.Value, 0)
	}
	b.WriteByte('\n')
	for _, a := range m.Attributes {
		b.WriteString(indentUnit)
		b.WriteByte('.')
		b.WriteString(a.ID)
		b.WriteString(" =")
		writeValue(b, a.Value, 1)
		b.WriteByte('\n')
	}
}

// writeValue writes the pattern after "=" including the separating space.
func writeValue(b *strings.Builder, p *Pattern, depth int) {
	if p == nil {
		return
	}
	if isMultiline(p) {
		writeBlock(b, p, depth+1, false)
		return
	}
	b.WriteByte(' ')
	writePattern(b, p, depth)
}

// writePattern writes a single-line pattern, quoting it when the text could
// not survive a round trip unquoted.
func writePattern(b *strings.Builder, p *Pattern, depth int) {
	if needsQuotes(p, false) {
		writeQuoted(b, p, depth)
		return
	}
	writeElements(b, p.Elements, depth, false)
}

// writeBlock writes every line of p as a "|" continuation line at depth.
func writeBlock(b *strings.Builder, p *Pattern, depth int, inVariant bool) {
	indent := strings.Repeat(indentUnit, depth)
	b.WriteByte('\n')
	b.WriteString(indent)
	b.WriteByte('|')
	lineStart := true
	for _, el := range p.Elements {
		switch el := el.(type) {
		case *TextElement:
			for i, line := range strings.Split(el.Value, "\n") {
				if i > 0 {
					b.WriteByte('\n')
					b.WriteString(indent)
					b.WriteByte('|')
					lineStart = true
				}
				if line == "" {
					continue
				}
				if lineStart {
					b.WriteByte(' ')
					lineStart = false
				}
				writeText(b, line, inVariant)
			}
		case *Placeable:
			if lineStart {
				b.WriteByte(' ')
				lineStart = false
			}
			writePlaceable(b, el, depth)
		}
	}
}

func writeElements(b *strings.Builder, elems []PatternElement, depth int, inVariant bool) {
	for _, el := range elems {
		switch el := el.(type) {
		case *TextElement:
			writeText(b, el.Value, inVariant)
		case *Placeable:
			writePlaceable(b, el, depth)
		}
	}
}

// writeText writes unquoted text. Braces that the parser would read as syntax
// are emitted as string literal placeables.
func writeText(b *strings.Builder, s string, inVariant bool) {
	for _, r := range s {
		switch {
		case r == '{':
			b.WriteString(`{ "{" }`)
		case r == '}' && inVariant:
			b.WriteString(`{ "}" }`)
		default:
			b.WriteRune(r)
		}
	}
}

func writeQuoted(b *strings.Builder, p *Pattern, depth int) {
	b.WriteByte('"')
	for _, el := range p.Elements {
		switch el := el.(type) {
		case *TextElement:
			b.WriteString(escapeQuoted(el.Value))
		case *Placeable:
			writePlaceable(b, el, depth)
		}
	}
	b.WriteByte('"')
}

func writePlaceable(b *strings.Builder, pl *Placeable, depth int) {
	if sel, ok := pl.Expression.(*SelectExpression); ok {
		writeSelect(b, sel, depth)
		return
	}
	b.WriteString("{ ")
	writeExpression(b, pl.Expression, depth)
	b.WriteString(" }")
}

func writeSelect(b *strings.Builder, sel *SelectExpression, depth int) {
	indent := strings.Repeat(indentUnit, depth+1)
	b.WriteString("{ ")
	writeExpression(b, sel.Selector, depth)
	b.WriteString(" ->")
	for _, v := range sel.Variants {
		b.WriteByte('\n')
		if v.Default {
			b.WriteString(indent[1:])
			b.WriteByte('*')
		} else {
			b.WriteString(indent)
		}
		b.WriteByte('[')
		writeVariantKey(b, v.Key)
		b.WriteByte(']')
		writeVariantValue(b, v.Value, depth+1)
	}
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(indentUnit, depth))
	b.WriteByte('}')
}

func writeVariantValue(b *strings.Builder, p *Pattern, depth int) {
	if p == nil || len(p.Elements) == 0 {
		b.WriteString(` ""`)
		return
	}
	if isMultiline(p) {
		writeBlock(b, p, depth+1, true)
		return
	}
	b.WriteByte(' ')
	if needsQuotes(p, true) {
		writeQuoted(b, p, depth)
		return
	}
	writeElements(b, p.Elements, depth, true)
}

func writeVariantKey(b *strings.Builder, k VariantKey) {
	switch k := k.(type) {
	case *NumberLiteral:
		b.WriteString(k.Value)
	case *Keyword:
		b.WriteString(k.String())
	}
}

func writeExpression(b *strings.Builder, e Expression, depth int) {
	switch e := e.(type) {
	case *StringLiteral:
		b.WriteByte('"')
		b.WriteString(escapeQuoted(e.Value))
		b.WriteByte('"')
	case *NumberLiteral:
		b.WriteString(e.Value)
	case *VariableReference:
		b.WriteByte('$')
		b.WriteString(e.Name)
	case *MessageReference:
		b.WriteString(e.Name)
	case *AttributeExpression:
		b.WriteString(e.Ref.Name)
		b.WriteByte('[')
		b.WriteString(e.Name)
		b.WriteByte(']')
	case *SelectExpression:
		writeSelect(b, e, depth)
	case *CallExpression:
		b.WriteString(e.Callee)
		b.WriteByte('(')
		n := 0
		for _, arg := range e.Positional {
			if n > 0 {
				b.WriteString(", ")
			}
			writeExpression(b, arg, depth)
			n++
		}
		for _, arg := range e.Named {
			if n > 0 {
				b.WriteString(", ")
			}
			b.WriteString(arg.Name)
			b.WriteString(": ")
			writeExpression(b, arg.Value, depth)
			n++
		}
		b.WriteByte(')')
	}
}

func escapeQuoted(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`, `{`, `\{`).Replace(s)
}

func isMultiline(p *Pattern) bool {
	for _, el := range p.Elements {
		if t, ok := el.(*TextElement); ok && strings.Contains(t.Value, "\n") {
			return true
		}
	}
	return false
}

// needsQuotes reports whether single-line p loses information unquoted:
// surrounding whitespace is trimmed by the parser and a leading quote would
// start a quoted pattern.
func needsQuotes(p *Pattern, inVariant bool) bool {
	if len(p.Elements) == 0 {
		return true
	}
	if t, ok := p.Elements[0].(*TextElement); ok {
		if strings.HasPrefix(t.Value, `"`) || strings.TrimLeft(t.Value, " \t") != t.Value {
			return true
		}
		if inVariant && (strings.HasPrefix(t.Value, "[") || strings.HasPrefix(t.Value, "*[")) {
			return true
		}
	}
	if t, ok := p.Elements[len(p.Elements)-1].(*TextElement); ok {
		if strings.TrimRight(t.Value, " \t") != t.Value {
			return true
		}
	}
	for _, el := range p.Elements {
		if t, ok := el.(*TextElement); ok && strings.ContainsAny(t.Value, "{}") {
			return true
		}
	}
	return false
}
