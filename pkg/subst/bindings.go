package subst

import "fmt"

// Bindings maps placeholder names to the templates they expand to.
//
// A bound template may itself contain placeholders, which the Engine resolves
// recursively with cycle detection.
type Bindings interface {
	// Lookup returns the template bound to name. ok is false if nothing is bound.
	Lookup(name Name) (node Node, ok bool, err error)
}

// BindingsFunc adapts a function to Bindings.
type BindingsFunc func(name Name) (Node, bool, error)

// Lookup calls f(name).
func (f BindingsFunc) Lookup(name Name) (Node, bool, error) {
	return f(name)
}

// MapBindings is a fixed set of bindings.
type MapBindings map[Name]Node

// Lookup returns m[name].
func (m MapBindings) Lookup(name Name) (Node, bool, error) {
	n, ok := m[name]
	return n, ok, nil
}

// ParseBindings parses every source in m with p and returns the result.
// A nil parser uses the default parser.
func ParseBindings(p *Parser, m map[string]string) (MapBindings, error) {
	if p == nil {
		p = defaultParser
	}
	out := make(MapBindings, len(m))
	for k, src := range m {
		name, err := NewName(k)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", k, err)
		}
		node, err := p.ParseString(src)
		if err != nil {
			return nil, fmt.Errorf("binding %s: %w", name, err)
		}
		out[name] = node
	}
	return out, nil
}

// TextBindings binds each name to literal text. Keys must be valid names.
func TextBindings(m map[string]string) (MapBindings, error) {
	out := make(MapBindings, len(m))
	for k, v := range m {
		name, err := NewName(k)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", k, err)
		}
		out[name] = Text{Value: v}
	}
	return out, nil
}

// Chain consults each Bindings in order and returns the first match.
type Chain []Bindings

// Lookup implements Bindings.
func (c Chain) Lookup(name Name) (Node, bool, error) {
	for _, b := range c {
		if b == nil {
			continue
		}
		n, ok, err := b.Lookup(name)
		if err != nil || ok {
			return n, ok, err
		}
	}
	return nil, false, nil
}

// Evaluator evaluates expressions produced by an ExpressionParser.
//
// resolve is the caller's cycle-safe placeholder resolver; evaluators must use
// it for every placeholder reference so cycles through expressions are caught.
type Evaluator interface {
	Evaluate(e Expr, resolve ResolveFunc) (string, error)
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(e Expr, resolve ResolveFunc) (string, error)

// Evaluate calls f(e, resolve).
func (f EvaluatorFunc) Evaluate(e Expr, resolve ResolveFunc) (string, error) {
	return f(e, resolve)
}
