package subst

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for parsing.
var (
	// ErrInvalidCharacter indicates a rune that is not allowed at its position.
	ErrInvalidCharacter = errors.New("invalid character")

	// ErrEmptyText indicates a required token, such as a placeholder name, was empty.
	ErrEmptyText = errors.New("empty text")

	// ErrIncompleteExpression indicates input ended before the closing '}'.
	ErrIncompleteExpression = errors.New("incomplete expression")

	// ErrIncompleteEscape indicates input ended immediately after a backslash.
	ErrIncompleteEscape = errors.New("incomplete escape")

	// ErrNameTooLong indicates a placeholder name exceeded MaxNameLength.
	ErrNameTooLong = errors.New("name too long")
)

// Sentinel errors for rendering.
var (
	// ErrCycle indicates a placeholder resolved back to itself.
	ErrCycle = errors.New("cycle detected")

	// ErrMissingValue indicates no value or template is bound to a name.
	ErrMissingValue = errors.New("missing value")

	// ErrNoEvaluator indicates an expression was rendered without an evaluator.
	ErrNoEvaluator = errors.New("no expression evaluator")

	// ErrUnknownNode indicates a Node implementation outside this package.
	ErrUnknownNode = errors.New("unknown node")
)

// InvalidCharacterError reports the offending rune and its offset within Text.
// Offsets count runes, not bytes.
type InvalidCharacterError struct {
	// Text is the whole input being parsed.
	Text string
	// Offset is the rune offset of Char within Text.
	Offset int
	// Char is the rejected rune.
	Char rune
}

// Error implements the error interface.
func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("invalid character %q at %d", e.Char, e.Offset)
}

// Unwrap returns ErrInvalidCharacter for errors.Is support.
func (e *InvalidCharacterError) Unwrap() error {
	return ErrInvalidCharacter
}

// invalidCharacterAt builds an InvalidCharacterError for the rune at offset.
func invalidCharacterAt(text string, offset int) *InvalidCharacterError {
	runes := []rune(text)
	var c rune
	if offset >= 0 && offset < len(runes) {
		c = runes[offset]
	}
	return &InvalidCharacterError{Text: text, Offset: offset, Char: c}
}

// EmptyTextError indicates that a labelled token was empty.
type EmptyTextError struct {
	// Label names the token, e.g. "placeholder name".
	Label string
}

// Error implements the error interface.
func (e *EmptyTextError) Error() string {
	return fmt.Sprintf("empty %q", e.Label)
}

// Unwrap returns ErrEmptyText for errors.Is support.
func (e *EmptyTextError) Unwrap() error {
	return ErrEmptyText
}

// SyntaxError wraps a parse failure with the input and the offset where it occurred.
type SyntaxError struct {
	// Text is the whole input being parsed.
	Text string
	// Offset is the rune offset at which parsing stopped.
	Offset int
	// Err is the underlying sentinel, e.g. ErrIncompleteExpression.
	Err error
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v at %d", e.Err, e.Offset)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// CycleError reports the chain of names that led back to an in-progress name.
// The last element of Chain repeats an earlier one.
type CycleError struct {
	Chain []Name
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	quoted := make([]string, len(e.Chain))
	for i, n := range e.Chain {
		quoted[i] = n.Quoted()
	}
	return "Cycle detected " + strings.Join(quoted, " -> ")
}

// Unwrap returns ErrCycle for errors.Is support.
func (e *CycleError) Unwrap() error {
	return ErrCycle
}

// MissingValueError indicates that Name had nothing bound to it.
type MissingValueError struct {
	Name Name
}

// Error implements the error interface.
func (e *MissingValueError) Error() string {
	return fmt.Sprintf("missing value for %s", e.Name)
}

// Unwrap returns ErrMissingValue for errors.Is support.
func (e *MissingValueError) Unwrap() error {
	return ErrMissingValue
}
