package syntax

// Span is a half-open byte range [Start, End) in the parsed source.
type Span struct {
	Start int
	End   int
}

// Resource is the ordered list of entries parsed from one source text.
type Resource struct {
	Body []Entry
}

// Messages returns the messages of the resource in source order.
func (r *Resource) Messages() []*Message {
	msgs := make([]*Message, 0, len(r.Body))
	for _, e := range r.Body {
		if m, ok := e.(*Message); ok {
			msgs = append(msgs, m)
		}
	}
	return msgs
}

// Entry is a top-level resource item: *Message, *Comment, *Section or *Junk.
type Entry interface {
	entry()
}

// Message is one named translation unit.
type Message struct {
	ID         string
	Value      *Pattern // nil when the message has no value
	Attributes []*Attribute
	Comment    *Comment
	Span       Span
}

// Attribute returns the attribute with the given name.
func (m *Message) Attribute(name string) (*Attribute, bool) {
	for _, a := range m.Attributes {
		if a.ID == name {
			return a, true
		}
	}
	return nil, false
}

// Attribute is a named secondary pattern of a message.
type Attribute struct {
	ID    string
	Value *Pattern
}

// Comment holds the text of consecutive "#" lines, without the markers.
type Comment struct {
	Content string
	Span    Span
}

// Section is a "[[ name ]]" header. It groups messages visually and has no
// runtime meaning.
type Section struct {
	Name    string
	Comment *Comment
	Span    Span
}

// Junk is a stretch of source that failed to parse.
type Junk struct {
	Content string
	Span    Span
}

func (*Message) entry() {}
func (*Comment) entry() {}
func (*Section) entry() {}
func (*Junk) entry()    {}

// Pattern is the resolvable body of a message value or attribute.
type Pattern struct {
	Elements []PatternElement
}

// Text reports whether the pattern is a single text run and returns it.
func (p *Pattern) Text() (string, bool) {
	switch len(p.Elements) {
	case 0:
		return "", true
	case 1:
		if t, ok := p.Elements[0].(*TextElement); ok {
			return t.Value, true
		}
	}
	return "", false
}

// PatternElement is either *TextElement or *Placeable.
type PatternElement interface {
	patternElement()
}

// TextElement is a literal run of text.
type TextElement struct {
	Value string
}

// Placeable embeds an expression into a pattern.
type Placeable struct {
	Expression Expression
}

func (*TextElement) patternElement() {}
func (*Placeable) patternElement()   {}

// Expression is one of the expression node types below.
type Expression interface {
	expression()
}

// StringLiteral is a quoted string with escapes already applied.
type StringLiteral struct {
	Value string
}

// NumberLiteral keeps the source spelling of a number, e.g. "-1.50".
type NumberLiteral struct {
	Value string
}

// VariableReference is "$name".
type VariableReference struct {
	Name string
}

// MessageReference is a bare message identifier.
type MessageReference struct {
	Name string
}

// AttributeExpression is "message[attr]" or "message.attr".
type AttributeExpression struct {
	Ref  *MessageReference
	Name string
}

// SelectExpression picks one of its variants by matching the selector.
type SelectExpression struct {
	Selector Expression
	Variants []*Variant
}

// CallExpression invokes a builtin or embedder-supplied function.
type CallExpression struct {
	Callee     string
	Positional []Expression
	Named      []*NamedArgument
}

// NamedArgument is "name: value" inside a call. Value is a *StringLiteral,
// *NumberLiteral or *VariableReference.
type NamedArgument struct {
	Name  string
	Value Expression
}

func (*StringLiteral) expression()       {}
func (*NumberLiteral) expression()       {}
func (*VariableReference) expression()   {}
func (*MessageReference) expression()    {}
func (*AttributeExpression) expression() {}
func (*SelectExpression) expression()    {}
func (*CallExpression) expression()      {}

// Variant is one branch of a select expression.
type Variant struct {
	Key     VariantKey
	Value   *Pattern
	Default bool
}

// VariantKey is *NumberLiteral or *Keyword.
type VariantKey interface {
	variantKey()
}

// Keyword is a variant key such as "one" or "gender/feminine".
type Keyword struct {
	Namespace string
	Name      string
}

// String returns the keyword in source form.
func (k *Keyword) String() string {
	if k.Namespace == "" {
		return k.Name
	}
	return k.Namespace + "/" + k.Name
}

func (*NumberLiteral) variantKey() {}
func (*Keyword) variantKey()       {}
