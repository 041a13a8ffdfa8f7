package expr

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/randalmurphal/subst/pkg/subst"
)

// lookupFunc finds the value of an identifier. ok is false when nothing is
// bound to it.
type lookupFunc func(ident string) (value any, ok bool, err error)

// varsLookup looks identifiers up in a map.
func varsLookup(vars map[string]any) lookupFunc {
	return func(ident string) (any, bool, error) {
		if vars == nil {
			return nil, false, nil
		}
		v, ok := vars[ident]
		return v, ok, nil
	}
}

// Resolve resolves a value from variables or returns a literal.
// It handles quoted strings, booleans, null, numbers, and variable lookups.
func Resolve(s string, vars map[string]any) any {
	v, _ := resolve(s, varsLookup(vars))
	return v
}

func resolve(s string, lookup lookupFunc) (any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}

	if isQuoted(s) {
		return s[1 : len(s)-1], nil
	}

	switch strings.ToLower(s) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null", "nil":
		return nil, nil
	}

	if n, ok := parseNumber(s); ok {
		return n, nil
	}

	val, ok, err := lookup(s)
	if err != nil {
		return nil, err
	}
	if ok {
		return val, nil
	}

	// Unquoted identifier with no binding.
	return s, nil
}

// resolveSum resolves operands joined by '+'.
// Numbers add; anything else concatenates.
func resolveSum(s string, lookup lookupFunc) (any, error) {
	parts := splitOutsideQuotes(s, " + ", -1)
	if len(parts) == 1 {
		return resolve(s, lookup)
	}

	values := make([]any, len(parts))
	numeric := true
	for i, part := range parts {
		v, err := resolve(part, lookup)
		if err != nil {
			return nil, err
		}
		if !isQuoted(strings.TrimSpace(part)) {
			v = numberOrSelf(v)
		}
		values[i] = v
		if !isNumeric(v) {
			numeric = false
		}
	}

	if numeric {
		return addNumbers(values), nil
	}
	var b strings.Builder
	for _, v := range values {
		b.WriteString(subst.FormatValue(v))
	}
	return b.String(), nil
}

func isQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}
	return (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"')
}

// parseNumber uses json.Number for precise parsing.
func parseNumber(s string) (any, bool) {
	var num json.Number
	if err := json.Unmarshal([]byte(s), &num); err != nil {
		return nil, false
	}
	if i, err := num.Int64(); err == nil {
		return i, true
	}
	if f, err := num.Float64(); err == nil {
		return f, true
	}
	return nil, false
}

// numberOrSelf converts rendered placeholder text such as "42" to a number.
func numberOrSelf(v any) any {
	if s, ok := v.(string); ok {
		if n, ok := parseNumber(strings.TrimSpace(s)); ok {
			return n
		}
	}
	return v
}

func isNumeric(v any) bool {
	switch v.(type) {
	case int, int32, int64, float32, float64:
		return true
	default:
		return false
	}
}

func addNumbers(values []any) any {
	var (
		isum     int64
		fsum     float64
		useFloat bool
	)
	for _, v := range values {
		switch n := v.(type) {
		case int:
			isum += int64(n)
		case int32:
			isum += int64(n)
		case int64:
			isum += n
		default:
			useFloat = true
			fsum += ToFloat64(n)
		}
	}
	if useFloat {
		return fsum + float64(isum)
	}
	return isum
}

// splitOutsideQuotes is strings.SplitN that ignores sep inside quoted strings.
func splitOutsideQuotes(s, sep string, n int) []string {
	var (
		parts []string
		quote byte
		start int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case n < 0 || len(parts) < n-1:
			if strings.HasPrefix(s[i:], sep) {
				parts = append(parts, s[start:i])
				i += len(sep) - 1
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// IsTruthy returns whether a value is truthy.
// nil is false, bools return their value, empty strings are false,
// zero numbers are false, everything else is true.
func IsTruthy(v any) bool {
	if v == nil {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int64:
		return val != 0
	case int32:
		return val != 0
	case float64:
		return val != 0
	case float32:
		return val != 0
	default:
		return true
	}
}

// ToFloat64 converts a value to float64 for numeric comparison.
// Returns 0 for values that cannot be converted.
func ToFloat64(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case int32:
		return float64(val)
	case string:
		var f float64
		_, _ = fmt.Sscanf(val, "%f", &f)
		return f
	default:
		return 0
	}
}
