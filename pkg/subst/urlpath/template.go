package urlpath

import (
	"errors"
	"strings"
	"unicode"

	"github.com/randalmurphal/subst/pkg/subst"
)

// ErrIncompleteName indicates a placeholder was opened but never closed.
var ErrIncompleteName = errors.New("incomplete value name")

// Component is one element of a path template: a separator, a literal
// segment or a placeholder.
type Component struct {
	literal string
	name    subst.Name
}

// IsPlaceholder reports whether c binds a path segment to a name.
func (c Component) IsPlaceholder() bool {
	return !c.name.IsZero()
}

// IsSeparator reports whether c is the path separator.
func (c Component) IsSeparator() bool {
	return c.name.IsZero() && c.literal == Separator
}

// Literal returns the literal text. It is empty for placeholders.
func (c Component) Literal() string {
	return c.literal
}

// Name returns the placeholder name. It is the zero Name for literals.
func (c Component) Name() subst.Name {
	return c.name
}

// String returns the template form of c.
func (c Component) String() string {
	if c.IsPlaceholder() {
		return subst.Placeholder{Name: c.name}.String()
	}
	return c.literal
}

var separator = Component{literal: Separator}

// Template is a parsed path template. It is immutable and safe for
// concurrent use.
type Template struct {
	text       string
	components []Component
	node       subst.Node
}

// Parse parses a path template.
//
// Placeholders must fill a whole segment. Literal segments may not contain
// '$', whitespace or control characters.
func Parse(text string) (*Template, error) {
	c := subst.NewCursor(text)
	var (
		components []Component
		literal    strings.Builder
		inLiteral  bool
	)

	flush := func() {
		if inLiteral {
			components = append(components, Component{literal: literal.String()})
			literal.Reset()
			inLiteral = false
		}
	}

	for !c.IsEmpty() {
		r := c.At()
		switch {
		case r == '/':
			flush()
			if n := len(components); n > 0 && components[n-1].IsSeparator() {
				components = append(components, Component{})
			}
			components = append(components, separator)
			c.Next()
		case r == '$':
			if inLiteral || afterPlaceholder(components) {
				return nil, invalidCharacter(text, c.Offset())
			}
			name, err := parsePlaceholder(c)
			if err != nil {
				return nil, err
			}
			components = append(components, Component{name: name})
		case afterPlaceholder(components):
			return nil, invalidCharacter(text, c.Offset())
		case unicode.IsSpace(r) || unicode.IsControl(r):
			return nil, invalidCharacter(text, c.Offset())
		default:
			literal.WriteRune(r)
			inLiteral = true
			c.Next()
		}
	}
	flush()

	if len(components) == 0 {
		components = []Component{{}}
	}

	nodes := make([]subst.Node, len(components))
	for i, comp := range components {
		if comp.IsPlaceholder() {
			nodes[i] = subst.Placeholder{Name: comp.name}
		} else {
			nodes[i] = subst.Text{Value: comp.literal}
		}
	}

	return &Template{
		text:       text,
		components: components,
		node:       subst.NewSequence(nodes...),
	}, nil
}

// MustParse is like Parse but panics if the template is invalid.
func MustParse(text string) *Template {
	t, err := Parse(text)
	if err != nil {
		panic("urlpath: " + err.Error())
	}
	return t
}

// parsePlaceholder reads "${name}" starting at the '$'.
func parsePlaceholder(c *subst.Cursor) (subst.Name, error) {
	text := c.Text()
	dollar := c.Offset()
	c.Next()
	if c.IsEmpty() {
		return subst.Name{}, &subst.SyntaxError{Text: text, Offset: c.Offset(), Err: ErrIncompleteName}
	}
	if c.At() != '{' {
		return subst.Name{}, invalidCharacter(text, dollar)
	}
	c.Next()

	start := c.Offset()
	for !c.IsEmpty() && c.At() != '}' {
		c.Next()
	}
	if c.IsEmpty() {
		return subst.Name{}, &subst.SyntaxError{Text: text, Offset: c.Offset(), Err: ErrIncompleteName}
	}
	raw := c.Since(start)
	c.Next()

	name, err := subst.NewName(raw)
	if err != nil {
		var ice *subst.InvalidCharacterError
		switch {
		case errors.As(err, &ice):
			return subst.Name{}, invalidCharacter(text, start+ice.Offset)
		case errors.Is(err, subst.ErrNameTooLong):
			return subst.Name{}, &subst.SyntaxError{Text: text, Offset: start, Err: subst.ErrNameTooLong}
		}
		return subst.Name{}, err
	}
	return name, nil
}

func afterPlaceholder(components []Component) bool {
	n := len(components)
	return n > 0 && components[n-1].IsPlaceholder()
}

func invalidCharacter(text string, offset int) *subst.InvalidCharacterError {
	runes := []rune(text)
	return &subst.InvalidCharacterError{Text: text, Offset: offset, Char: runes[offset]}
}

// Node returns the template as a subst node tree.
func (t *Template) Node() subst.Node {
	return t.node
}

// Components returns a copy of the template components in order.
func (t *Template) Components() []Component {
	out := make([]Component, len(t.components))
	copy(out, t.components)
	return out
}

// Names returns the placeholder names in sorted order.
func (t *Template) Names() []subst.Name {
	return subst.Names(t.node)
}

// String returns the template source.
func (t *Template) String() string {
	return t.text
}

// RenderPath renders the template, asking fn for each placeholder value.
// Values are inserted as is; callers escape them if needed.
func (t *Template) RenderPath(fn func(subst.Name) (string, error)) (string, error) {
	var b strings.Builder
	if err := subst.Render(&b, t.node, subst.ValueFunc(fn)); err != nil {
		return "", err
	}
	return b.String(), nil
}

// RenderMap renders the template from values. A missing name fails with a
// *subst.MissingValueError.
func (t *Template) RenderMap(values map[subst.Name]string) (string, error) {
	var b strings.Builder
	if err := subst.Render(&b, t.node, subst.ValueMap(values)); err != nil {
		return "", err
	}
	return b.String(), nil
}
