package expr

import (
	"fmt"
	"strings"
)

// BinaryOp is a function that compares two values and returns a boolean result.
type BinaryOp func(left, right any) bool

// builtinOps are tried in order, longer operators first to avoid partial matches.
var builtinOps = []struct {
	op      string
	compare BinaryOp
}{
	{"==", compareEquals},
	{"!=", compareNotEquals},
	{">=", compareGTE},
	{"<=", compareLTE},
	{">", compareGT},
	{"<", compareLT},
	{" contains ", compareContains},
}

// Compare compares two values using the specified operator.
// Returns an error for unknown operators.
func Compare(left, right any, op string) (bool, error) {
	switch op {
	case "==":
		return compareEquals(left, right), nil
	case "!=":
		return compareNotEquals(left, right), nil
	case "<":
		return compareLT(left, right), nil
	case ">":
		return compareGT(left, right), nil
	case "<=":
		return compareLTE(left, right), nil
	case ">=":
		return compareGTE(left, right), nil
	case "contains":
		return compareContains(left, right), nil
	default:
		return false, fmt.Errorf("unknown operator: %s", op)
	}
}

func compareEquals(left, right any) bool {
	return fmt.Sprintf("%v", left) == fmt.Sprintf("%v", right)
}

func compareNotEquals(left, right any) bool {
	return !compareEquals(left, right)
}

func compareLT(left, right any) bool {
	return ToFloat64(left) < ToFloat64(right)
}

func compareGT(left, right any) bool {
	return ToFloat64(left) > ToFloat64(right)
}

func compareLTE(left, right any) bool {
	return ToFloat64(left) <= ToFloat64(right)
}

func compareGTE(left, right any) bool {
	return ToFloat64(left) >= ToFloat64(right)
}

func compareContains(left, right any) bool {
	return strings.Contains(fmt.Sprintf("%v", left), fmt.Sprintf("%v", right))
}
