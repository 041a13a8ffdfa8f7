package subst

import "strings"

// ExpressionParser consumes the body of a "${...}" opener.
//
// It is called with the cursor just past "${" and must leave the cursor on the
// closing '}' without consuming it. The returned node is usually a Placeholder
// or an Expression.
type ExpressionParser interface {
	ParseExpression(c *Cursor) (Node, error)
}

// ExpressionParserFunc adapts a function to ExpressionParser.
type ExpressionParserFunc func(c *Cursor) (Node, error)

// ParseExpression calls f(c).
func (f ExpressionParserFunc) ParseExpression(c *Cursor) (Node, error) {
	return f(c)
}

// PlaceholderParser parses a bare placeholder name. It is the default.
var PlaceholderParser ExpressionParser = ExpressionParserFunc(parsePlaceholderBody)

func parsePlaceholderBody(c *Cursor) (Node, error) {
	start := c.Offset()
	name, err := ParseName(c)
	if err == nil {
		return Placeholder{Name: name}, nil
	}
	if _, empty := err.(*EmptyTextError); !empty {
		return nil, err
	}

	switch {
	case c.IsEmpty():
		return nil, &SyntaxError{Text: c.Text(), Offset: start, Err: ErrIncompleteExpression}
	case c.At() == '}':
		return nil, &EmptyTextError{Label: "placeholder name"}
	default:
		return nil, invalidCharacterAt(c.Text(), start)
	}
}

// DollarHandling selects what happens to a '$' that is not followed by '{'.
type DollarHandling int

const (
	// DollarReject fails with an InvalidCharacterError at the '$'.
	// This is the default.
	DollarReject DollarHandling = iota

	// DollarLiteral keeps the '$' as literal text.
	DollarLiteral

	// DollarDrop discards the '$'.
	DollarDrop
)

// String returns the handling name.
func (d DollarHandling) String() string {
	switch d {
	case DollarReject:
		return "reject"
	case DollarLiteral:
		return "literal"
	case DollarDrop:
		return "drop"
	default:
		return "unknown"
	}
}

// ParseDollarHandling converts "reject", "literal" or "drop" to a DollarHandling.
// An empty string yields DollarReject.
func ParseDollarHandling(s string) (DollarHandling, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject":
		return DollarReject, true
	case "literal":
		return DollarLiteral, true
	case "drop":
		return DollarDrop, true
	default:
		return DollarReject, false
	}
}

// Parser turns template text into a Node tree.
//
// A Parser is immutable after construction and safe for concurrent use.
type Parser struct {
	expressions ExpressionParser
	dollar      DollarHandling
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithExpressionParser sets the parser used for "${...}" bodies.
//
// Default: PlaceholderParser
func WithExpressionParser(p ExpressionParser) ParserOption {
	return func(pr *Parser) {
		if p != nil {
			pr.expressions = p
		}
	}
}

// WithDollarHandling sets how a '$' not followed by '{' is treated.
//
// Default: DollarReject
func WithDollarHandling(d DollarHandling) ParserOption {
	return func(pr *Parser) {
		pr.dollar = d
	}
}

// NewParser creates a Parser with the given options.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{
		expressions: PlaceholderParser,
		dollar:      DollarReject,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = NewParser()

// Parse parses s with the default parser.
//
// Example:
//
//	node, err := subst.Parse("Hello ${name}!")
func Parse(s string) (Node, error) {
	return defaultParser.ParseString(s)
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Node {
	n, err := Parse(s)
	if err != nil {
		panic("subst: " + err.Error())
	}
	return n
}

// ParseString parses all of s.
func (p *Parser) ParseString(s string) (Node, error) {
	return p.Parse(NewCursor(s))
}

type parseMode int

const (
	modeText parseMode = iota
	modeBackslash
	modeOpenBrace
)

// Parse consumes c to the end of input and returns the resulting node.
//
// Outside "${...}" a backslash makes the following rune literal and every
// other rune is literal text. A '$' must be followed by '{' unless the
// parser's DollarHandling says otherwise.
func (p *Parser) Parse(c *Cursor) (Node, error) {
	var (
		nodes     []Node
		text      strings.Builder
		mode      = modeText
		dollarPos int
	)

	flush := func() {
		if text.Len() > 0 {
			nodes = append(nodes, Text{Value: text.String()})
			text.Reset()
		}
	}

	for !c.IsEmpty() {
		r := c.At()

		switch mode {
		case modeText:
			switch r {
			case '\\':
				mode = modeBackslash
			case '$':
				mode = modeOpenBrace
				dollarPos = c.Offset()
			default:
				text.WriteRune(r)
			}
			c.Next()

		case modeBackslash:
			text.WriteRune(r)
			c.Next()
			mode = modeText

		case modeOpenBrace:
			if r != '{' {
				if err := p.strayDollar(c, dollarPos, &text); err != nil {
					return nil, err
				}
				// Reprocess r as ordinary text.
				mode = modeText
				continue
			}
			c.Next()
			flush()

			node, err := p.expression(c)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
			mode = modeText
		}
	}

	switch mode {
	case modeBackslash:
		return nil, &SyntaxError{Text: c.Text(), Offset: c.Offset(), Err: ErrIncompleteEscape}
	case modeOpenBrace:
		if err := p.strayDollar(c, dollarPos, &text); err != nil {
			return nil, err
		}
	}

	flush()
	return NewSequence(nodes...), nil
}

func (p *Parser) strayDollar(c *Cursor, at int, text *strings.Builder) error {
	switch p.dollar {
	case DollarLiteral:
		text.WriteByte('$')
		return nil
	case DollarDrop:
		return nil
	default:
		return invalidCharacterAt(c.Text(), at)
	}
}

// expression runs the expression parser and consumes the closing '}'.
func (p *Parser) expression(c *Cursor) (Node, error) {
	node, err := p.expressions.ParseExpression(c)
	if err != nil {
		return nil, err
	}

	if c.IsEmpty() {
		return nil, &SyntaxError{Text: c.Text(), Offset: c.Offset(), Err: ErrIncompleteExpression}
	}
	if c.At() != '}' {
		return nil, invalidCharacterAt(c.Text(), c.Offset())
	}
	c.Next()
	return node, nil
}
