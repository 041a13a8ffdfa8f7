package subst

import (
	"strings"
	"unicode"
)

// MaxNameLength is the longest permitted placeholder name, in runes.
const MaxNameLength = 255

// Name is a validated placeholder identifier.
//
// A name starts with a letter, continues with letters, ASCII digits, '-' or '.',
// never contains "..", and is at most MaxNameLength runes long. Names compare
// case-sensitively and may be used as map keys.
type Name struct {
	value string
}

// NewName validates s and returns it as a Name.
func NewName(s string) (Name, error) {
	if s == "" {
		return Name{}, &EmptyTextError{Label: "name"}
	}

	n := 0
	prevDot := false
	for i, r := range []rune(s) {
		switch {
		case i == 0 && !isNameInitial(r):
			return Name{}, &InvalidCharacterError{Text: s, Offset: i, Char: r}
		case i > 0 && !isNamePart(r):
			return Name{}, &InvalidCharacterError{Text: s, Offset: i, Char: r}
		case r == '.' && prevDot:
			return Name{}, &InvalidCharacterError{Text: s, Offset: i, Char: r}
		}
		prevDot = r == '.'
		n++
	}
	if n > MaxNameLength {
		return Name{}, ErrNameTooLong
	}
	return Name{value: s}, nil
}

// MustName is like NewName but panics on an invalid name.
// Intended for package-level variables and tests.
func MustName(s string) Name {
	n, err := NewName(s)
	if err != nil {
		panic("subst: " + err.Error())
	}
	return n
}

// ParseName consumes the longest run of name runes from c and validates it.
// The cursor is left on the first rune that cannot continue a name.
// If no rune could start a name, an EmptyTextError is returned and c is unchanged.
func ParseName(c *Cursor) (Name, error) {
	start := c.Offset()
	var b strings.Builder
	for !c.IsEmpty() {
		r := c.At()
		if b.Len() == 0 {
			if !isNameInitial(r) {
				break
			}
		} else if !isNamePart(r) {
			break
		}
		b.WriteRune(r)
		c.Next()
	}

	n, err := NewName(b.String())
	if err != nil {
		if ice, ok := err.(*InvalidCharacterError); ok {
			return Name{}, invalidCharacterAt(c.Text(), start+ice.Offset)
		}
		if err == ErrNameTooLong {
			return Name{}, &SyntaxError{Text: c.Text(), Offset: start, Err: ErrNameTooLong}
		}
		return Name{}, err
	}
	return n, nil
}

// String returns the name as written.
func (n Name) String() string {
	return n.value
}

// Quoted returns the name surrounded by double quotes, as used in cycle reports.
func (n Name) Quoted() string {
	return `"` + n.value + `"`
}

// Compare orders names case-sensitively. It returns -1, 0 or +1.
func (n Name) Compare(other Name) int {
	return strings.Compare(n.value, other.value)
}

// IsZero reports whether n is the zero Name, which is never valid.
func (n Name) IsZero() bool {
	return n.value == ""
}

func isNameInitial(r rune) bool {
	return unicode.IsLetter(r)
}

func isNamePart(r rune) bool {
	return unicode.IsLetter(r) || (r >= '0' && r <= '9') || r == '-' || r == '.'
}
