package subst

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewName_Valid(t *testing.T) {
	valid := []string{
		"a",
		"abc",
		"Parameter111",
		"a.b",
		"a-b",
		"a.b.c",
		"Ärger-1",
		"a-",
		strings.Repeat("x", MaxNameLength),
	}

	for _, s := range valid {
		t.Run(s[:min(len(s), 20)], func(t *testing.T) {
			n, err := NewName(s)
			require.NoError(t, err)
			assert.Equal(t, s, n.String())
			assert.False(t, n.IsZero())
		})
	}
}

func TestNewName_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantOffset int
		wantChar   rune
	}{
		{"leading digit", "1abc", 0, '1'},
		{"leading dash", "-abc", 0, '-'},
		{"leading dot", ".abc", 0, '.'},
		{"space", "ab c", 2, ' '},
		{"underscore", "a_b", 1, '_'},
		{"double dot", "a..b", 2, '.'},
		{"dollar", "a$", 1, '$'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewName(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCharacter)

			var ice *InvalidCharacterError
			require.True(t, errors.As(err, &ice))
			assert.Equal(t, tt.wantOffset, ice.Offset)
			assert.Equal(t, tt.wantChar, ice.Char)
		})
	}
}

func TestNewName_Empty(t *testing.T) {
	_, err := NewName("")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestNewName_TooLong(t *testing.T) {
	_, err := NewName(strings.Repeat("x", MaxNameLength+1))
	assert.ErrorIs(t, err, ErrNameTooLong)
}

func TestMustName(t *testing.T) {
	assert.Equal(t, "abc", MustName("abc").String())
	assert.Panics(t, func() { MustName("1") })
}

func TestName_Comparison(t *testing.T) {
	a := MustName("abc")
	b := MustName("abd")
	upper := MustName("ABC")

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(MustName("abc")))
	assert.NotEqual(t, a, upper, "names are case-sensitive")
	assert.True(t, a == MustName("abc"))

	m := map[Name]int{a: 1}
	assert.Equal(t, 1, m[MustName("abc")])
	_, ok := m[upper]
	assert.False(t, ok)
}

func TestName_Quoted(t *testing.T) {
	assert.Equal(t, `"abc"`, MustName("abc").Quoted())
}

func TestName_IsZero(t *testing.T) {
	assert.True(t, Name{}.IsZero())
}

func TestParseName(t *testing.T) {
	t.Run("stops at first non-name rune", func(t *testing.T) {
		c := NewCursor("abc}rest")
		n, err := ParseName(c)
		require.NoError(t, err)
		assert.Equal(t, "abc", n.String())
		assert.Equal(t, 3, c.Offset())
		assert.Equal(t, '}', c.At())
	})

	t.Run("consumes to end", func(t *testing.T) {
		c := NewCursor("a.b-1")
		n, err := ParseName(c)
		require.NoError(t, err)
		assert.Equal(t, "a.b-1", n.String())
		assert.True(t, c.IsEmpty())
	})

	t.Run("no name leaves cursor", func(t *testing.T) {
		c := NewCursor("}")
		_, err := ParseName(c)
		assert.ErrorIs(t, err, ErrEmptyText)
		assert.Equal(t, 0, c.Offset())
	})

	t.Run("double dot offset is relative to input", func(t *testing.T) {
		c := NewCursor("${a..b}")
		c.Next()
		c.Next()
		_, err := ParseName(c)

		var ice *InvalidCharacterError
		require.True(t, errors.As(err, &ice))
		assert.Equal(t, 4, ice.Offset)
		assert.Equal(t, '.', ice.Char)
	})
}

func TestCursor(t *testing.T) {
	c := NewCursor("añb")
	assert.False(t, c.IsEmpty())
	assert.Equal(t, 'a', c.At())

	c.Next()
	assert.Equal(t, 'ñ', c.At())
	assert.Equal(t, 1, c.Offset())

	c.Next()
	assert.Equal(t, "añ", c.Since(0))
	assert.Equal(t, "ñ", c.Since(1))

	c.End()
	assert.True(t, c.IsEmpty())
	assert.Equal(t, rune(0), c.At())
	c.Next()
	assert.Equal(t, 3, c.Offset())
	assert.Equal(t, "añb", c.Text())
}
