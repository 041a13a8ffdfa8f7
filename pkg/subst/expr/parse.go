package expr

import (
	"strings"

	"github.com/randalmurphal/subst/pkg/subst"
)

// Expression is the source of one "${...}" body.
type Expression struct {
	source string
}

// NewExpression wraps source as an Expression without validating it.
func NewExpression(source string) Expression {
	return Expression{source: source}
}

// String returns the body as written.
func (x Expression) String() string {
	return x.source
}

// Equal reports whether other is an Expression with the same source.
func (x Expression) Equal(other subst.Expr) bool {
	o, ok := other.(Expression)
	return ok && o.source == x.source
}

// Parser reads a "${...}" body up to the closing '}' that is not inside a
// quoted string. Bodies that are a valid name become placeholders.
var Parser subst.ExpressionParser = subst.ExpressionParserFunc(parseBody)

func parseBody(c *subst.Cursor) (subst.Node, error) {
	start := c.Offset()
	var quote rune
	for !c.IsEmpty() {
		r := c.At()
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '}':
			return bodyNode(c.Since(start))
		}
		c.Next()
	}
	return nil, &subst.SyntaxError{Text: c.Text(), Offset: c.Offset(), Err: subst.ErrIncompleteExpression}
}

func bodyNode(body string) (subst.Node, error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return nil, &subst.EmptyTextError{Label: "expression"}
	}
	if name, err := subst.NewName(body); err == nil {
		return subst.Placeholder{Name: name}, nil
	}
	return subst.Expression{Expr: Expression{source: body}}, nil
}
