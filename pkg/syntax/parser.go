package syntax

import (
	"fmt"
	"strings"
)

// MaxPlaceables is the number of placeables a single pattern may hold before
// the parser reports a diagnostic.
const MaxPlaceables = 100

// textMode selects where an inline pattern stops.
type textMode uint8

const (
	lineText          textMode = iota // end of line
	quotedText                        // closing quote, escapes enabled
	variantText                       // end of line or "}"
	inlineVariantText                 // as variantText, or the next "[key]" / "*[key]"
)

// parseError is an internal failure that turns the current entry into junk.
type parseError struct {
	msg string
	pos int
}

func (e *parseError) Error() string { return e.msg }

type parser struct {
	src  string
	pos  int
	errs []error
}

// Parse parses FTL source. It never fails: malformed entries are recorded as
// diagnostics and kept in the resource as *Junk, and parsing resumes at the
// next entry boundary.
func Parse(source string) (*Resource, []error) {
	p := &parser{src: strings.TrimPrefix(source, "\uFEFF")}
	res := &Resource{}

	for {
		p.skipBlankLines()
		if p.eof() {
			break
		}

		start := p.pos
		entries, err := p.parseEntry()
		res.Body = append(res.Body, entries...)
		if err != nil {
			res.Body = append(res.Body, p.recover(start, err))
		}
	}

	return res, p.errs
}

// parseEntry parses one entry. On failure it may still return a comment that
// preceded the broken entry.
func (p *parser) parseEntry() ([]Entry, *parseError) {
	c := p.src[p.pos]
	switch {
	case c == '#':
		comment := p.parseComment()
		if p.eof() {
			return []Entry{comment}, nil
		}
		switch next := p.src[p.pos]; {
		case isIdentStart(next):
			msg, err := p.parseMessage()
			if err != nil {
				return []Entry{comment}, err
			}
			msg.Comment = comment
			return []Entry{msg}, nil
		case next == '[':
			sec, err := p.parseSection()
			if err != nil {
				return []Entry{comment}, err
			}
			sec.Comment = comment
			return []Entry{sec}, nil
		}
		return []Entry{comment}, nil
	case c == '[':
		sec, err := p.parseSection()
		if err != nil {
			return nil, err
		}
		return []Entry{sec}, nil
	case isIdentStart(c):
		msg, err := p.parseMessage()
		if err != nil {
			return nil, err
		}
		return []Entry{msg}, nil
	}
	return nil, p.fail(p.pos, "expected a message, comment or section")
}

// recover records err and returns the junk covering the failed entry. The
// junk starts at the nearest line (not before entryStart) that begins with an
// identifier character and ends before the next line beginning with an
// identifier character, "#" or "[".
func (p *parser) recover(entryStart int, err *parseError) *Junk {
	errPos := min(err.pos, len(p.src))

	from := errPos
	if from > entryStart && from == lineStart(p.src, from) {
		// The failure was detected on the first character of a later line;
		// that line belongs to the next entry.
		from--
	}
	start := lineStart(p.src, from)
	for start > entryStart && !isIdentStart(p.src[start]) {
		start = lineStart(p.src, start-1)
	}
	start = max(start, entryStart)

	end := errPos
	if !(end > start && end == lineStart(p.src, end) && p.isBoundary(end)) {
		end = nextLineStart(p.src, end)
		for end < len(p.src) && !p.isBoundary(end) {
			end = nextLineStart(p.src, end)
		}
	}

	content := p.src[start:end]
	line, col := position(p.src, errPos)
	p.errs = append(p.errs, &Error{
		Message: err.msg,
		Offset:  errPos,
		Line:    line,
		Column:  col,
		Snippet: strings.TrimRight(content, "\r\n"),
	})
	p.pos = end

	return &Junk{Content: content, Span: Span{Start: start, End: end}}
}

func (p *parser) isBoundary(pos int) bool {
	if pos >= len(p.src) {
		return false
	}
	c := p.src[pos]
	return isIdentStart(c) || c == '#' || c == '['
}

func (p *parser) parseComment() *Comment {
	start := p.pos
	var lines []string
	for !p.eof() && p.src[p.pos] == '#' {
		p.pos++
		if p.peek() == ' ' {
			p.pos++
		}
		lineEnd := p.pos
		for lineEnd < len(p.src) && !p.isEOLAt(lineEnd) {
			lineEnd++
		}
		lines = append(lines, p.src[p.pos:lineEnd])
		p.pos = lineEnd
		p.consumeEOL()
	}
	return &Comment{Content: strings.Join(lines, "\n"), Span: Span{Start: start, End: p.pos}}
}

func (p *parser) parseSection() (*Section, *parseError) {
	start := p.pos
	if !strings.HasPrefix(p.src[p.pos:], "[[") {
		return nil, p.fail(p.pos, `expected "[[" to open a section`)
	}
	p.pos += 2
	p.skipInlineWS()
	nameStart := p.pos
	if !isIdentStart(p.peek()) {
		return nil, p.fail(p.pos, "expected a section name")
	}
	name := p.parseIdentifier()
	p.skipInlineWS()
	if !strings.HasPrefix(p.src[p.pos:], "]]") {
		return nil, p.fail(p.pos, `expected "]]" to close section `+p.src[nameStart:p.pos])
	}
	p.pos += 2
	p.skipInlineWS()
	if !p.atEOL() {
		return nil, p.fail(p.pos, "expected end of line after section header")
	}
	p.consumeEOL()
	return &Section{Name: name, Span: Span{Start: start, End: p.pos}}, nil
}

func (p *parser) parseMessage() (*Message, *parseError) {
	start := p.pos
	id := p.parseIdentifier()
	p.skipInlineWS()
	if !p.consume('=') {
		return nil, p.fail(p.pos, fmt.Sprintf(`expected "=" after message id %q`, id))
	}
	p.skipInlineWS()

	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	msg := &Message{ID: id, Value: value}
	for p.atAttribute() {
		attr, err := p.parseAttribute()
		if err != nil {
			return nil, err
		}
		msg.Attributes = append(msg.Attributes, attr)
	}
	msg.Span = Span{Start: start, End: p.pos}

	p.checkPlaceables(msg)
	return msg, nil
}

func (p *parser) parseAttribute() (*Attribute, *parseError) {
	p.skipWS()
	p.pos++ // "."
	if !isIdentStart(p.peek()) {
		return nil, p.fail(p.pos, "expected an attribute name")
	}
	id := p.parseIdentifier()
	p.skipInlineWS()
	if !p.consume('=') {
		return nil, p.fail(p.pos, fmt.Sprintf(`expected "=" after attribute name %q`, id))
	}
	p.skipInlineWS()
	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if value == nil {
		value = &Pattern{}
	}
	return &Attribute{ID: id, Value: value}, nil
}

// parseValue parses the pattern following "=". It returns nil when the line
// is empty and no continuation lines follow. On return the parser is at the
// start of a line.
func (p *parser) parseValue() (*Pattern, *parseError) {
	var elems []PatternElement
	hasContent := false

	if !p.atEOL() {
		var err *parseError
		if p.peek() == '"' {
			elems, err = p.parseQuoted()
		} else {
			elems, err = p.parseInline(lineText)
		}
		if err != nil {
			return nil, err
		}
		p.skipInlineWS()
		if !p.atEOL() {
			return nil, p.fail(p.pos, "expected end of line")
		}
		hasContent = true
	}
	p.consumeEOL()

	elems, hasContent, err := p.parseContinuation(elems, hasContent, lineText)
	if err != nil {
		return nil, err
	}
	if !hasContent {
		return nil, nil
	}
	return &Pattern{Elements: mergeText(elems)}, nil
}

// parseContinuation appends "|" lines to elems. It must be called at the
// start of a line and leaves the parser at the start of a line.
func (p *parser) parseContinuation(elems []PatternElement, hasContent bool, mode textMode) ([]PatternElement, bool, *parseError) {
	for p.atContinuation() {
		p.skipInlineWS()
		p.pos++ // "|"
		if p.peek() == ' ' {
			p.pos++
		}
		line, err := p.parseInline(mode)
		if err != nil {
			return nil, false, err
		}
		if hasContent {
			elems = append(elems, &TextElement{Value: "\n"})
		}
		elems = append(elems, line...)
		hasContent = true
		if !p.atEOL() {
			// A variant line may end at "}"; the caller continues from here.
			return elems, hasContent, nil
		}
		p.consumeEOL()
	}
	return elems, hasContent, nil
}

func (p *parser) parseQuoted() ([]PatternElement, *parseError) {
	p.pos++ // opening quote
	return p.parseInline(quotedText)
}

// parseInline reads text and placeables up to the terminator of mode.
func (p *parser) parseInline(mode textMode) ([]PatternElement, *parseError) {
	var elems []PatternElement
	var buf strings.Builder
	flush := func() {
		if buf.Len() > 0 {
			elems = append(elems, &TextElement{Value: buf.String()})
			buf.Reset()
		}
	}

	for !p.eof() {
		c := p.src[p.pos]
		if p.atEOL() {
			break
		}
		switch {
		case c == '{':
			flush()
			pl, err := p.parsePlaceable()
			if err != nil {
				return nil, err
			}
			elems = append(elems, pl)
			continue
		case mode == quotedText && c == '"':
			p.pos++
			flush()
			return elems, nil
		case mode == quotedText && c == '\\':
			r, err := p.parseEscape()
			if err != nil {
				return nil, err
			}
			buf.WriteString(r)
			continue
		case (mode == variantText || mode == inlineVariantText) && c == '}':
			return p.finishLine(elems, &buf), nil
		case mode == inlineVariantText && (c == '[' || c == '*') && p.atVariantKey():
			return p.finishLine(elems, &buf), nil
		}
		buf.WriteByte(c)
		p.pos++
	}

	if mode == quotedText {
		return nil, p.fail(p.pos, "unterminated quoted pattern")
	}
	return p.finishLine(elems, &buf), nil
}

// finishLine flushes buf without its trailing whitespace.
func (p *parser) finishLine(elems []PatternElement, buf *strings.Builder) []PatternElement {
	if s := strings.TrimRight(buf.String(), " \t"); s != "" {
		elems = append(elems, &TextElement{Value: s})
	}
	buf.Reset()
	return elems
}

func (p *parser) parsePlaceable() (*Placeable, *parseError) {
	p.pos++ // "{"
	p.skipWS()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.skipInlineWS()
	if strings.HasPrefix(p.src[p.pos:], "->") {
		p.pos += 2
		sel, err := p.parseSelect(expr)
		if err != nil {
			return nil, err
		}
		return &Placeable{Expression: sel}, nil
	}
	p.skipWS()
	if !p.consume('}') {
		return nil, p.fail(p.pos, `expected "}" to close the placeable`)
	}
	return &Placeable{Expression: expr}, nil
}

func (p *parser) parseSelect(selector Expression) (*SelectExpression, *parseError) {
	p.skipInlineWS()
	inline := !p.atEOL()

	sel := &SelectExpression{Selector: selector}
	for {
		p.skipWS()
		if p.eof() {
			return nil, p.fail(p.pos, "unterminated select expression")
		}
		c := p.src[p.pos]
		if c == '}' {
			p.pos++
			break
		}
		if c != '[' && c != '*' {
			return nil, p.fail(p.pos, `expected a variant or "}"`)
		}
		v, err := p.parseVariant(inline)
		if err != nil {
			return nil, err
		}
		sel.Variants = append(sel.Variants, v)
	}

	if len(sel.Variants) == 0 {
		return nil, p.fail(p.pos, "select expression has no variants")
	}
	return sel, nil
}

func (p *parser) parseVariant(inline bool) (*Variant, *parseError) {
	v := &Variant{}
	if p.consume('*') {
		v.Default = true
	}
	if !p.consume('[') {
		return nil, p.fail(p.pos, `expected "[" to open a variant key`)
	}
	p.skipInlineWS()
	key, err := p.parseVariantKey()
	if err != nil {
		return nil, err
	}
	v.Key = key
	p.skipInlineWS()
	if !p.consume(']') {
		return nil, p.fail(p.pos, `expected "]" to close the variant key`)
	}
	p.skipInlineWS()

	mode := variantText
	if inline {
		mode = inlineVariantText
	}

	var elems []PatternElement
	hasContent := false
	if !p.atEOL() && p.peek() != '}' {
		if p.peek() == '"' {
			elems, err = p.parseQuoted()
		} else {
			elems, err = p.parseInline(mode)
		}
		if err != nil {
			return nil, err
		}
		hasContent = true
	}

	if p.atEOL() && !p.eof() {
		save := p.pos
		p.consumeEOL()
		if p.atContinuation() {
			elems, _, err = p.parseContinuation(elems, hasContent, variantText)
			if err != nil {
				return nil, err
			}
		} else {
			p.pos = save
		}
	}

	v.Value = &Pattern{Elements: mergeText(elems)}
	return v, nil
}

func (p *parser) parseVariantKey() (VariantKey, *parseError) {
	c := p.peek()
	if c == '-' || isDigit(c) {
		return p.parseNumber()
	}
	if !isIdentStart(c) {
		return nil, p.fail(p.pos, "expected a number or keyword as variant key")
	}
	name := p.parseIdentifier()
	if p.peek() == '/' {
		p.pos++
		if !isIdentStart(p.peek()) {
			return nil, p.fail(p.pos, `expected a keyword name after "/"`)
		}
		return &Keyword{Namespace: name, Name: p.parseIdentifier()}, nil
	}
	return &Keyword{Name: name}, nil
}

func (p *parser) parseExpression() (Expression, *parseError) {
	if p.eof() {
		return nil, p.fail(p.pos, "expected an expression")
	}
	c := p.src[p.pos]
	switch {
	case c == '"':
		s, err := p.parseStringLiteral()
		if err != nil {
			return nil, err
		}
		return &StringLiteral{Value: s}, nil
	case c == '-' || isDigit(c):
		return p.parseNumber()
	case c == '$':
		p.pos++
		if !isIdentStart(p.peek()) {
			return nil, p.fail(p.pos, `expected a variable name after "$"`)
		}
		return &VariableReference{Name: p.parseIdentifier()}, nil
	case isIdentStart(c):
		name := p.parseIdentifier()
		switch p.peek() {
		case '(':
			return p.parseCall(name)
		case '[':
			p.pos++
			p.skipInlineWS()
			if !isIdentStart(p.peek()) {
				return nil, p.fail(p.pos, "expected an attribute keyword")
			}
			attr := p.parseIdentifier()
			p.skipInlineWS()
			if !p.consume(']') {
				return nil, p.fail(p.pos, `expected "]" after attribute keyword`)
			}
			return &AttributeExpression{Ref: &MessageReference{Name: name}, Name: attr}, nil
		case '.':
			if p.pos+1 < len(p.src) && isIdentStart(p.src[p.pos+1]) {
				p.pos++
				return &AttributeExpression{Ref: &MessageReference{Name: name}, Name: p.parseIdentifier()}, nil
			}
		}
		return &MessageReference{Name: name}, nil
	}
	return nil, p.fail(p.pos, "expected an expression")
}

func (p *parser) parseCall(callee string) (*CallExpression, *parseError) {
	p.pos++ // "("
	call := &CallExpression{Callee: callee}
	p.skipWS()
	if p.consume(')') {
		return call, nil
	}

	for {
		p.skipWS()
		named, err := p.parseNamedArgument()
		if err != nil {
			return nil, err
		}
		if named != nil {
			call.Named = append(call.Named, named)
		} else {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			call.Positional = append(call.Positional, arg)
		}

		p.skipWS()
		if p.consume(',') {
			continue
		}
		if p.consume(')') {
			return call, nil
		}
		return nil, p.fail(p.pos, `expected "," or ")" in argument list`)
	}
}

// parseNamedArgument returns nil without consuming input when the next
// argument is positional.
func (p *parser) parseNamedArgument() (*NamedArgument, *parseError) {
	if !isIdentStart(p.peek()) {
		return nil, nil
	}
	save := p.pos
	name := p.parseIdentifier()
	p.skipWS()
	if !p.consume(':') {
		p.pos = save
		return nil, nil
	}
	p.skipWS()
	valuePos := p.pos
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	switch value.(type) {
	case *StringLiteral, *NumberLiteral, *VariableReference:
		return &NamedArgument{Name: name, Value: value}, nil
	}
	return nil, p.fail(valuePos, fmt.Sprintf("named argument %q must be a literal or a variable", name))
}

func (p *parser) parseStringLiteral() (string, *parseError) {
	p.pos++ // opening quote
	var b strings.Builder
	for !p.eof() && !p.atEOL() {
		c := p.src[p.pos]
		switch c {
		case '"':
			p.pos++
			return b.String(), nil
		case '\\':
			r, err := p.parseEscape()
			if err != nil {
				return "", err
			}
			b.WriteString(r)
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", p.fail(p.pos, "unterminated string literal")
}

// parseEscape handles \" \{ \\ and keeps any other backslash literally.
func (p *parser) parseEscape() (string, *parseError) {
	p.pos++ // "\"
	if p.eof() || p.atEOL() {
		return "", p.fail(p.pos, "unterminated escape sequence")
	}
	switch c := p.src[p.pos]; c {
	case '"', '{', '\\':
		p.pos++
		return string(c), nil
	}
	return `\`, nil
}

func (p *parser) parseNumber() (*NumberLiteral, *parseError) {
	start := p.pos
	p.consume('-')
	if !isDigit(p.peek()) {
		return nil, p.fail(p.pos, "expected a digit")
	}
	for isDigit(p.peek()) {
		p.pos++
	}
	if p.peek() == '.' {
		p.pos++
		if !isDigit(p.peek()) {
			return nil, p.fail(p.pos, `expected a digit after "."`)
		}
		for isDigit(p.peek()) {
			p.pos++
		}
	}
	return &NumberLiteral{Value: p.src[start:p.pos]}, nil
}

func (p *parser) parseIdentifier() string {
	start := p.pos
	p.pos++
	for p.pos < len(p.src) && isIdentChar(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

// checkPlaceables reports patterns of msg holding more than MaxPlaceables
// placeables. The message is kept.
func (p *parser) checkPlaceables(msg *Message) {
	var check func(*Pattern)
	check = func(pt *Pattern) {
		if pt == nil {
			return
		}
		n := 0
		for _, el := range pt.Elements {
			pl, ok := el.(*Placeable)
			if !ok {
				continue
			}
			n++
			if sel, ok := pl.Expression.(*SelectExpression); ok {
				for _, v := range sel.Variants {
					check(v.Value)
				}
			}
		}
		if n > MaxPlaceables {
			line, col := position(p.src, msg.Span.Start)
			p.errs = append(p.errs, &Error{
				Message: fmt.Sprintf("too many placeables in %q (%d, max allowed is %d)", msg.ID, n, MaxPlaceables),
				Offset:  msg.Span.Start,
				Line:    line,
				Column:  col,
			})
		}
	}
	check(msg.Value)
	for _, a := range msg.Attributes {
		check(a.Value)
	}
}

func (p *parser) fail(pos int, msg string) *parseError {
	return &parseError{msg: msg, pos: pos}
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) consume(c byte) bool {
	if p.peek() == c && !p.eof() {
		p.pos++
		return true
	}
	return false
}

func (p *parser) isEOLAt(pos int) bool {
	if pos >= len(p.src) {
		return true
	}
	c := p.src[pos]
	return c == '\n' || (c == '\r' && pos+1 < len(p.src) && p.src[pos+1] == '\n')
}

func (p *parser) atEOL() bool { return p.isEOLAt(p.pos) }

func (p *parser) consumeEOL() {
	switch {
	case p.eof():
	case p.src[p.pos] == '\n':
		p.pos++
	case strings.HasPrefix(p.src[p.pos:], "\r\n"):
		p.pos += 2
	}
}

func (p *parser) skipInlineWS() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

// skipWS skips whitespace including line breaks.
func (p *parser) skipWS() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

// skipBlankLines skips whole lines containing only whitespace.
func (p *parser) skipBlankLines() {
	for !p.eof() {
		lineStart := p.pos
		p.skipInlineWS()
		if !p.atEOL() {
			p.pos = lineStart
			return
		}
		if p.eof() {
			return
		}
		p.consumeEOL()
	}
}

// atContinuation reports whether the current line is a "|" line.
func (p *parser) atContinuation() bool {
	i := p.pos
	for i < len(p.src) && (p.src[i] == ' ' || p.src[i] == '\t') {
		i++
	}
	return i < len(p.src) && p.src[i] == '|'
}

// atAttribute reports whether an attribute line follows, possibly after
// blank lines.
func (p *parser) atAttribute() bool {
	i := p.pos
	for i < len(p.src) {
		switch p.src[i] {
		case ' ', '\t', '\n', '\r':
			i++
			continue
		case '.':
			return i+1 < len(p.src) && isIdentStart(p.src[i+1])
		}
		return false
	}
	return false
}

// atVariantKey reports whether "[key]" or "*[key]" starts at the current
// position.
func (p *parser) atVariantKey() bool {
	i := p.pos
	if i < len(p.src) && p.src[i] == '*' {
		i++
	}
	if i >= len(p.src) || p.src[i] != '[' {
		return false
	}
	i++
	for i < len(p.src) && (p.src[i] == ' ' || p.src[i] == '\t') {
		i++
	}
	j := i
	for j < len(p.src) && (isIdentChar(p.src[j]) || p.src[j] == '/' || p.src[j] == '.') {
		j++
	}
	if j == i {
		return false
	}
	for j < len(p.src) && (p.src[j] == ' ' || p.src[j] == '\t') {
		j++
	}
	return j < len(p.src) && p.src[j] == ']'
}

func mergeText(elems []PatternElement) []PatternElement {
	out := elems[:0:0]
	for _, el := range elems {
		if t, ok := el.(*TextElement); ok && len(out) > 0 {
			if prev, ok := out[len(out)-1].(*TextElement); ok {
				out[len(out)-1] = &TextElement{Value: prev.Value + t.Value}
				continue
			}
		}
		out = append(out, el)
	}
	return out
}

func lineStart(src string, pos int) int {
	pos = min(pos, len(src))
	if i := strings.LastIndexByte(src[:pos], '\n'); i >= 0 {
		return i + 1
	}
	return 0
}

func nextLineStart(src string, pos int) int {
	if pos >= len(src) {
		return len(src)
	}
	if i := strings.IndexByte(src[pos:], '\n'); i >= 0 {
		return pos + i + 1
	}
	return len(src)
}

func position(src string, offset int) (line, col int) {
	offset = min(offset, len(src))
	line = strings.Count(src[:offset], "\n") + 1
	col = offset - lineStart(src, offset) + 1
	return line, col
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '-'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
