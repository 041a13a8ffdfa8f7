package expr

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/randalmurphal/subst/pkg/subst"
)

// ErrUnsupportedExpr indicates an Expr that this package did not parse.
var ErrUnsupportedExpr = errors.New("unsupported expression")

// Evaluator evaluates expressions with optional custom operators.
// It implements subst.Evaluator.
type Evaluator struct {
	customOps map[string]BinaryOp
	opNames   []string
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithCustomOperator registers a custom binary operator.
// The operator name should not conflict with built-in operators.
func WithCustomOperator(name string, fn BinaryOp) Option {
	return func(e *Evaluator) {
		if e.customOps == nil {
			e.customOps = make(map[string]BinaryOp)
		}
		e.customOps[name] = fn
	}
}

// New creates a new Evaluator with the given options.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{}
	for _, opt := range opts {
		opt(e)
	}
	for name := range e.customOps {
		e.opNames = append(e.opNames, name)
	}
	sort.Strings(e.opNames)
	return e
}

// Evaluate renders x, resolving identifiers through resolve.
func (e *Evaluator) Evaluate(x subst.Expr, resolve subst.ResolveFunc) (string, error) {
	ex, ok := x.(Expression)
	if !ok {
		return "", fmt.Errorf("%w: %T", ErrUnsupportedExpr, x)
	}

	v, err := e.evaluateValue(ex.source, resolverLookup(resolve))
	if err != nil {
		return "", fmt.Errorf("evaluate %q: %w", strings.TrimSpace(ex.source), err)
	}
	return subst.FormatValue(v), nil
}

// Test evaluates a boolean expression against the provided variables.
func (e *Evaluator) Test(expr string, vars map[string]any) (bool, error) {
	return e.evaluateCondition(expr, varsLookup(vars))
}

// Test is a convenience function that evaluates an expression using
// the default evaluator (no custom operators).
func Test(expr string, vars map[string]any) (bool, error) {
	return New().Test(expr, vars)
}

// resolverLookup resolves identifiers that are valid names through the
// engine. Only a missing binding for the identifier itself counts as unbound;
// failures further down, such as cycles, are returned.
func resolverLookup(resolve subst.ResolveFunc) lookupFunc {
	return func(ident string) (any, bool, error) {
		name, err := subst.NewName(ident)
		if err != nil {
			return nil, false, nil
		}
		s, err := resolve(name)
		if err != nil {
			var mv *subst.MissingValueError
			if errors.As(err, &mv) && mv.Name == name {
				return nil, false, nil
			}
			return nil, false, err
		}
		return numberOrSelf(s), true, nil
	}
}

// evaluateValue returns a bool for conditions and the resolved value otherwise.
func (e *Evaluator) evaluateValue(expr string, lookup lookupFunc) (any, error) {
	expr = strings.TrimSpace(expr)
	if e.isCondition(expr) {
		return e.evaluateCondition(expr, lookup)
	}
	return resolveSum(expr, lookup)
}

func (e *Evaluator) isCondition(expr string) bool {
	if strings.HasPrefix(expr, "not ") || strings.HasPrefix(expr, "!") {
		return true
	}
	for _, sep := range []string{" and ", " or "} {
		if len(splitOutsideQuotes(expr, sep, 2)) == 2 {
			return true
		}
	}
	for _, op := range builtinOps {
		if len(splitOutsideQuotes(expr, op.op, 2)) == 2 {
			return true
		}
	}
	for _, name := range e.opNames {
		if len(splitOutsideQuotes(expr, " "+name+" ", 2)) == 2 {
			return true
		}
	}
	return false
}

// evaluateCondition evaluates a condition expression.
// Supports: ==, !=, <, >, <=, >=, and, or, not, !, contains
func (e *Evaluator) evaluateCondition(expr string, lookup lookupFunc) (bool, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return false, nil
	}

	// Handle negation with "not " prefix
	if strings.HasPrefix(expr, "not ") {
		result, err := e.evaluateCondition(strings.TrimPrefix(expr, "not "), lookup)
		if err != nil {
			return false, err
		}
		return !result, nil
	}

	// Handle negation with "!" prefix
	if strings.HasPrefix(expr, "!") {
		result, err := e.evaluateCondition(strings.TrimPrefix(expr, "!"), lookup)
		if err != nil {
			return false, err
		}
		return !result, nil
	}

	if parts := splitOutsideQuotes(expr, " and ", 2); len(parts) == 2 {
		left, err := e.evaluateCondition(parts[0], lookup)
		if err != nil || !left {
			return false, err
		}
		return e.evaluateCondition(parts[1], lookup)
	}

	if parts := splitOutsideQuotes(expr, " or ", 2); len(parts) == 2 {
		left, err := e.evaluateCondition(parts[0], lookup)
		if err != nil || left {
			return left, err
		}
		return e.evaluateCondition(parts[1], lookup)
	}

	for _, op := range builtinOps {
		if parts := splitOutsideQuotes(expr, op.op, 2); len(parts) == 2 {
			return compareOperands(parts, op.compare, lookup)
		}
	}

	for _, name := range e.opNames {
		if parts := splitOutsideQuotes(expr, " "+name+" ", 2); len(parts) == 2 {
			return compareOperands(parts, e.customOps[name], lookup)
		}
	}

	// Single value - check if truthy
	val, err := resolveSum(expr, lookup)
	if err != nil {
		return false, err
	}
	return IsTruthy(val), nil
}

func compareOperands(parts []string, compare BinaryOp, lookup lookupFunc) (bool, error) {
	left, err := resolveSum(parts[0], lookup)
	if err != nil {
		return false, err
	}
	right, err := resolveSum(parts[1], lookup)
	if err != nil {
		return false, err
	}
	return compare(left, right), nil
}
