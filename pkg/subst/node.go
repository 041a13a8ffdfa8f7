package subst

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Node is an immutable template tree node.
//
// The set of implementations is closed: Text, Placeholder, Expression and
// *Sequence. Consumers switch on the concrete type.
type Node interface {
	// String returns template source that parses back to an equal node.
	String() string

	node()
}

// Expr is an opaque handle to an expression evaluated by an Evaluator.
type Expr interface {
	// String returns the expression source, without the surrounding "${" and "}".
	String() string
	// Equal reports whether other denotes the same expression.
	Equal(other Expr) bool
}

// Text is literal text copied to the output unchanged.
type Text struct {
	Value string
}

// Placeholder is replaced by the value resolved for Name.
type Placeholder struct {
	Name Name
}

// Expression is replaced by the string value of Expr.
type Expression struct {
	Expr Expr
}

// Sequence renders its children in order.
// Create sequences with NewSequence.
type Sequence struct {
	nodes []Node
}

func (Text) node()        {}
func (Placeholder) node() {}
func (Expression) node()  {}
func (*Sequence) node()   {}

// String escapes '\' and '$' so the result parses back to the same text.
func (t Text) String() string {
	if !strings.ContainsAny(t.Value, `\$`) {
		return t.Value
	}
	var b strings.Builder
	for _, r := range t.Value {
		if r == '\\' || r == '$' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// String returns "${name}".
func (p Placeholder) String() string {
	return "${" + p.Name.String() + "}"
}

// String returns "${expression}".
func (e Expression) String() string {
	if e.Expr == nil {
		return "${}"
	}
	return "${" + e.Expr.String() + "}"
}

// String concatenates the source of every child.
func (s *Sequence) String() string {
	var b strings.Builder
	for _, n := range s.nodes {
		b.WriteString(n.String())
	}
	return b.String()
}

// Nodes returns a copy of the children.
func (s *Sequence) Nodes() []Node {
	out := make([]Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Len returns the number of children.
func (s *Sequence) Len() int {
	return len(s.nodes)
}

// NewSequence combines nodes into a single node.
//
// Nested sequences are inlined, nil nodes are skipped, no nodes yield an empty
// Text and a single node is returned as is. A *Sequence returned from here
// therefore always has at least two children, none of them a *Sequence.
func NewSequence(nodes ...Node) Node {
	flat := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		switch v := n.(type) {
		case nil:
		case *Sequence:
			flat = append(flat, v.nodes...)
		default:
			flat = append(flat, v)
		}
	}

	switch len(flat) {
	case 0:
		return Text{}
	case 1:
		return flat[0]
	default:
		return &Sequence{nodes: flat}
	}
}

// Names returns the distinct placeholder names referenced directly by node,
// sorted. Names referenced only from inside expressions are not included.
func Names(node Node) []Name {
	seen := make(map[Name]bool)
	collectNames(node, seen)

	names := make([]Name, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		return names[i].Compare(names[j]) < 0
	})
	return names
}

func collectNames(node Node, seen map[Name]bool) {
	switch n := node.(type) {
	case Placeholder:
		seen[n.Name] = true
	case *Sequence:
		for _, child := range n.nodes {
			collectNames(child, seen)
		}
	case Text, Expression:
	}
}

// Equal reports whether a and b have the same structure and content.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case Text:
		y, ok := b.(Text)
		return ok && x.Value == y.Value
	case Placeholder:
		y, ok := b.(Placeholder)
		return ok && x.Name == y.Name
	case Expression:
		y, ok := b.(Expression)
		if !ok {
			return false
		}
		if x.Expr == nil || y.Expr == nil {
			return x.Expr == nil && y.Expr == nil
		}
		return x.Expr.Equal(y.Expr)
	case *Sequence:
		y, ok := b.(*Sequence)
		if !ok || len(x.nodes) != len(y.nodes) {
			return false
		}
		for i := range x.nodes {
			if !Equal(x.nodes[i], y.nodes[i]) {
				return false
			}
		}
		return true
	default:
		return a == nil && b == nil
	}
}

// Fingerprint returns a structural hash of node.
// Nodes that are Equal have the same fingerprint.
func Fingerprint(node Node) uint64 {
	d := xxhash.New()
	writeFingerprint(d, node)
	return d.Sum64()
}

func writeFingerprint(d *xxhash.Digest, node Node) {
	switch n := node.(type) {
	case Text:
		writeTagged(d, 't', n.Value)
	case Placeholder:
		writeTagged(d, 'p', n.Name.String())
	case Expression:
		src := ""
		if n.Expr != nil {
			src = n.Expr.String()
		}
		writeTagged(d, 'e', src)
	case *Sequence:
		writeTagged(d, 's', strconv.Itoa(len(n.nodes)))
		for _, child := range n.nodes {
			writeFingerprint(d, child)
		}
	}
}

// writeTagged writes a tag, the value length and the value so adjacent values
// cannot run together.
func writeTagged(d *xxhash.Digest, tag byte, value string) {
	_, _ = d.Write([]byte{tag})
	_, _ = d.WriteString(strconv.Itoa(len(value)))
	_, _ = d.Write([]byte{':'})
	_, _ = d.WriteString(value)
}

// PrintTree writes an indented, one node per line description of node to w.
func PrintTree(w io.Writer, node Node) error {
	return printTree(w, node, 0)
}

func printTree(w io.Writer, node Node, depth int) error {
	indent := strings.Repeat("  ", depth)
	var err error
	switch n := node.(type) {
	case Text:
		_, err = fmt.Fprintf(w, "%sText %q\n", indent, n.Value)
	case Placeholder:
		_, err = fmt.Fprintf(w, "%sPlaceholder %s\n", indent, n.Name)
	case Expression:
		_, err = fmt.Fprintf(w, "%sExpression %s\n", indent, n)
	case *Sequence:
		if _, err = fmt.Fprintf(w, "%sSequence\n", indent); err != nil {
			return err
		}
		for _, child := range n.nodes {
			if err = printTree(w, child, depth+1); err != nil {
				return err
			}
		}
	default:
		err = fmt.Errorf("%w: %T", ErrUnknownNode, node)
	}
	return err
}
