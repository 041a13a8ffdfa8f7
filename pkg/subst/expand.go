package subst

import (
	"fmt"
	"strconv"
	"strings"
)

// MissingAction specifies how an Expander treats a name with no value.
type MissingAction int

const (
	// MissingKeep writes the placeholder back as "${name}".
	// This is the default behavior.
	MissingKeep MissingAction = iota

	// MissingEmpty replaces the placeholder with an empty string.
	MissingEmpty

	// MissingError fails with an UndefinedVariableError listing every
	// missing name.
	MissingError
)

// ExpandOption configures an Expander.
type ExpandOption func(*Expander)

// WithMissingAction sets how missing variables are handled.
//
// Default: MissingKeep
//
// Example:
//
//	exp := NewExpander(WithMissingAction(MissingError))
//	_, err := exp.Expand("${missing}", nil)
//	// err: "undefined variable: missing"
func WithMissingAction(action MissingAction) ExpandOption {
	return func(e *Expander) {
		e.missingAction = action
	}
}

// WithExpandParser sets the parser used for input strings.
//
// Default: NewParser()
func WithExpandParser(p *Parser) ExpandOption {
	return func(e *Expander) {
		if p != nil {
			e.parser = p
		}
	}
}

// WithExpandEvaluator sets the evaluator for expressions. Variables referenced
// by expressions are looked up in the same map as placeholders.
func WithExpandEvaluator(ev Evaluator) ExpandOption {
	return func(e *Expander) {
		e.evaluator = ev
	}
}

// Expander substitutes values from a map[string]any into one-off strings.
//
// Unlike Engine, values are plain data and are never parsed as templates.
// Expander is safe for concurrent use after construction.
type Expander struct {
	parser        *Parser
	evaluator     Evaluator
	missingAction MissingAction
}

// NewExpander creates an Expander with the given options.
func NewExpander(opts ...ExpandOption) *Expander {
	e := &Expander{
		parser:        defaultParser,
		missingAction: MissingKeep,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand substitutes vars into s.
//
// A parse error is returned together with s unchanged. With MissingError the
// partially expanded string is returned alongside the UndefinedVariableError.
//
// Example:
//
//	exp := NewExpander()
//	result, err := exp.Expand("Hello ${name}", map[string]any{"name": "World"})
//	// result: "Hello World"
func (e *Expander) Expand(s string, vars map[string]any) (string, error) {
	if s == "" {
		return "", nil
	}

	node, err := e.parser.ParseString(s)
	if err != nil {
		return s, err
	}

	r := &expansion{expander: e, vars: vars}
	var b strings.Builder
	if err := Render(&b, node, r); err != nil {
		return s, err
	}

	if len(r.missing) > 0 {
		return b.String(), &UndefinedVariableError{Names: r.missing}
	}
	return b.String(), nil
}

// MustExpand is like Expand but panics on error.
func (e *Expander) MustExpand(s string, vars map[string]any) string {
	result, err := e.Expand(s, vars)
	if err != nil {
		panic(fmt.Sprintf("subst: %v", err))
	}
	return result
}

// ExpandAll expands every string in ss.
// On error it returns nil and the first error.
func (e *Expander) ExpandAll(ss []string, vars map[string]any) ([]string, error) {
	if ss == nil {
		return nil, nil
	}

	results := make([]string, len(ss))
	for i, s := range ss {
		expanded, err := e.Expand(s, vars)
		if err != nil {
			return nil, err
		}
		results[i] = expanded
	}
	return results, nil
}

// ExpandMap expands every string value in m, descending into nested
// map[string]any and []any values. Other values are copied as is.
// On error it returns nil and the first error.
func (e *Expander) ExpandMap(m map[string]any, vars map[string]any) (map[string]any, error) {
	if m == nil {
		return nil, nil
	}

	result := make(map[string]any, len(m))
	for k, v := range m {
		expanded, err := e.expandValue(v, vars)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		result[k] = expanded
	}
	return result, nil
}

func (e *Expander) expandValue(v any, vars map[string]any) (any, error) {
	switch val := v.(type) {
	case string:
		return e.Expand(val, vars)
	case map[string]any:
		return e.ExpandMap(val, vars)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			expanded, err := e.expandValue(item, vars)
			if err != nil {
				return nil, err
			}
			out[i] = expanded
		}
		return out, nil
	default:
		return v, nil
	}
}

// expansion resolves placeholders for a single Expand call.
type expansion struct {
	expander *Expander
	vars     map[string]any
	missing  []string
}

func (x *expansion) ResolvePlaceholder(name Name) (string, error) {
	if v, ok := x.vars[name.String()]; ok {
		return FormatValue(v), nil
	}

	switch x.expander.missingAction {
	case MissingEmpty:
		return "", nil
	case MissingError:
		x.missing = append(x.missing, name.String())
		return Placeholder{Name: name}.String(), nil
	default:
		return Placeholder{Name: name}.String(), nil
	}
}

func (x *expansion) EvaluateExpression(e Expr) (string, error) {
	if x.expander.evaluator == nil {
		return "", ErrNoEvaluator
	}
	return x.expander.evaluator.Evaluate(e, func(name Name) (string, error) {
		if v, ok := x.vars[name.String()]; ok {
			return FormatValue(v), nil
		}
		return "", &MissingValueError{Name: name}
	})
}

// FormatValue converts a variable value to the text substituted for it.
// nil becomes the empty string.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// UndefinedVariableError is returned when MissingError is set and one or more
// variables are not found.
type UndefinedVariableError struct {
	// Names lists the undefined variables in order of appearance.
	Names []string
}

// Error implements the error interface.
func (e *UndefinedVariableError) Error() string {
	if len(e.Names) == 1 {
		return fmt.Sprintf("undefined variable: %s", e.Names[0])
	}
	return fmt.Sprintf("undefined variables: %s", strings.Join(e.Names, ", "))
}

// Unwrap returns ErrMissingValue for errors.Is support.
func (e *UndefinedVariableError) Unwrap() error {
	return ErrMissingValue
}

var defaultExpander = NewExpander()

// Expand substitutes vars into s, keeping missing placeholders as written.
// If s does not parse it is returned unchanged.
//
// Example:
//
//	result := subst.Expand("Hello ${name}", map[string]any{"name": "World"})
//	// result: "Hello World"
func Expand(s string, vars map[string]any) string {
	result, err := defaultExpander.Expand(s, vars)
	if err != nil {
		return s
	}
	return result
}

// ExpandAll expands every string in ss with the default expander.
// Strings that do not parse are returned unchanged.
func ExpandAll(ss []string, vars map[string]any) []string {
	if ss == nil {
		return nil
	}
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = Expand(s, vars)
	}
	return out
}

// ExpandMap expands every string value in m with the default expander.
func ExpandMap(m map[string]any, vars map[string]any) map[string]any {
	result, err := defaultExpander.ExpandMap(m, vars)
	if err != nil {
		return m
	}
	return result
}
