package subst

import (
	"fmt"
	"io"
	"strings"
)

// Resolver supplies the text for placeholders and expressions during Render.
type Resolver interface {
	// ResolvePlaceholder returns the replacement text for name.
	ResolvePlaceholder(name Name) (string, error)

	// EvaluateExpression returns the string value of e.
	EvaluateExpression(e Expr) (string, error)
}

// ResolveFunc resolves a single placeholder name.
type ResolveFunc func(name Name) (string, error)

// Render writes the rendered text of node to w.
//
// Text is copied, placeholders and expressions are passed to r, and sequence
// children are rendered in order. The first error stops rendering; anything
// already written to w is left there.
func Render(w io.Writer, node Node, r Resolver) error {
	switch n := node.(type) {
	case Text:
		if n.Value == "" {
			return nil
		}
		_, err := io.WriteString(w, n.Value)
		return err
	case Placeholder:
		s, err := r.ResolvePlaceholder(n.Name)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, s)
		return err
	case Expression:
		s, err := r.EvaluateExpression(n.Expr)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, s)
		return err
	case *Sequence:
		for _, child := range n.nodes {
			if err := Render(w, child, r); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrUnknownNode, node)
	}
}

// RenderToString renders node and converts line endings as requested.
func RenderToString(node Node, le LineEnding, r Resolver) (string, error) {
	var b strings.Builder
	w := NewLineEndingWriter(&b, le)
	if err := Render(w, node, r); err != nil {
		return "", err
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return b.String(), nil
}

// LineEnding selects the line terminator written by RenderToString and Engine.
type LineEnding int

const (
	// LineEndingNone leaves line terminators untouched.
	LineEndingNone LineEnding = iota
	// LineEndingLF writes "\n".
	LineEndingLF
	// LineEndingCRLF writes "\r\n".
	LineEndingCRLF
	// LineEndingCR writes "\r".
	LineEndingCR
)

// String returns the lower-case name used in configuration files.
func (le LineEnding) String() string {
	switch le {
	case LineEndingNone:
		return "none"
	case LineEndingLF:
		return "lf"
	case LineEndingCRLF:
		return "crlf"
	case LineEndingCR:
		return "cr"
	default:
		return "unknown"
	}
}

// ParseLineEnding converts "none", "lf", "crlf" or "cr" to a LineEnding.
// An empty string yields LineEndingNone.
func ParseLineEnding(s string) (LineEnding, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return LineEndingNone, true
	case "lf":
		return LineEndingLF, true
	case "crlf":
		return LineEndingCRLF, true
	case "cr":
		return LineEndingCR, true
	default:
		return LineEndingNone, false
	}
}

func (le LineEnding) terminator() string {
	switch le {
	case LineEndingLF:
		return "\n"
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return ""
	}
}

// LineEndingWriter rewrites "\r\n", "\r" and "\n" to a single line ending.
//
// A "\r" at the end of one Write may pair with a "\n" at the start of the next,
// so callers must call Flush once they are done writing.
type LineEndingWriter struct {
	w         io.Writer
	ending    string
	pendingCR bool
	buf       []byte
}

// NewLineEndingWriter wraps w. With LineEndingNone writes pass through unchanged.
func NewLineEndingWriter(w io.Writer, le LineEnding) *LineEndingWriter {
	return &LineEndingWriter{w: w, ending: le.terminator()}
}

// Write implements io.Writer.
func (lw *LineEndingWriter) Write(p []byte) (int, error) {
	if lw.ending == "" {
		return lw.w.Write(p)
	}

	lw.buf = lw.buf[:0]
	for _, c := range p {
		if lw.pendingCR {
			lw.pendingCR = false
			lw.buf = append(lw.buf, lw.ending...)
			if c == '\n' {
				continue
			}
		}
		switch c {
		case '\r':
			lw.pendingCR = true
		case '\n':
			lw.buf = append(lw.buf, lw.ending...)
		default:
			lw.buf = append(lw.buf, c)
		}
	}

	if len(lw.buf) > 0 {
		if _, err := lw.w.Write(lw.buf); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

// Flush writes the line ending for a trailing "\r", if any.
func (lw *LineEndingWriter) Flush() error {
	if !lw.pendingCR {
		return nil
	}
	lw.pendingCR = false
	_, err := io.WriteString(lw.w, lw.ending)
	return err
}

// ValueFunc adapts a lookup function to a Resolver.
// It does not evaluate expressions.
type ValueFunc func(name Name) (string, error)

// ResolvePlaceholder calls f(name).
func (f ValueFunc) ResolvePlaceholder(name Name) (string, error) {
	return f(name)
}

// EvaluateExpression returns ErrNoEvaluator.
func (f ValueFunc) EvaluateExpression(Expr) (string, error) {
	return "", ErrNoEvaluator
}

// ValueMap is a Resolver over fixed values.
// A name missing from the map yields a MissingValueError.
type ValueMap map[Name]string

// ResolvePlaceholder returns m[name].
func (m ValueMap) ResolvePlaceholder(name Name) (string, error) {
	v, ok := m[name]
	if !ok {
		return "", &MissingValueError{Name: name}
	}
	return v, nil
}

// EvaluateExpression returns ErrNoEvaluator.
func (m ValueMap) EvaluateExpression(Expr) (string, error) {
	return "", ErrNoEvaluator
}

// Values converts a string keyed map into a ValueMap, validating every key.
func Values(m map[string]string) (ValueMap, error) {
	out := make(ValueMap, len(m))
	for k, v := range m {
		name, err := NewName(k)
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", k, err)
		}
		out[name] = v
	}
	return out, nil
}
