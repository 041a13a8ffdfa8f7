package subst

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSequence(t *testing.T) {
	a := Text{Value: "a"}
	b := Placeholder{Name: MustName("b")}
	c := Text{Value: "c"}

	t.Run("no children collapse to empty text", func(t *testing.T) {
		assert.Equal(t, Text{}, NewSequence())
		assert.Equal(t, Text{}, NewSequence(nil, nil))
	})

	t.Run("single child is unwrapped", func(t *testing.T) {
		assert.Equal(t, b, NewSequence(b))
		assert.Equal(t, b, NewSequence(nil, b))
	})

	t.Run("nested sequences are inlined", func(t *testing.T) {
		inner := NewSequence(a, b)
		outer := NewSequence(inner, c)

		seq, ok := outer.(*Sequence)
		require.True(t, ok)
		assert.Equal(t, []Node{a, b, c}, seq.Nodes())
		assert.Equal(t, 3, seq.Len())
	})

	t.Run("deep nesting stays flat", func(t *testing.T) {
		n := NewSequence(NewSequence(NewSequence(a, b), c), NewSequence(a, c))
		seq := n.(*Sequence)
		for _, child := range seq.Nodes() {
			_, nested := child.(*Sequence)
			assert.False(t, nested)
		}
		assert.Equal(t, 5, seq.Len())
	})

	t.Run("nodes returns a copy", func(t *testing.T) {
		seq := NewSequence(a, b).(*Sequence)
		nodes := seq.Nodes()
		nodes[0] = c
		assert.Equal(t, a, seq.Nodes()[0])
	})
}

func TestNames(t *testing.T) {
	node := MustParse("${b}x${a}${b}${c.d}")
	names := Names(node)
	assert.Equal(t, []Name{MustName("a"), MustName("b"), MustName("c.d")}, names)

	assert.Empty(t, Names(Text{Value: "plain"}))
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Node
		want bool
	}{
		{"same text", Text{Value: "x"}, Text{Value: "x"}, true},
		{"different text", Text{Value: "x"}, Text{Value: "y"}, false},
		{"same placeholder", MustParse("${a}"), MustParse("${a}"), true},
		{"case differs", MustParse("${a}"), MustParse("${A}"), false},
		{"text vs placeholder", Text{Value: "a"}, MustParse("${a}"), false},
		{"same sequence", MustParse("x${a}y"), MustParse("x${a}y"), true},
		{"different order", MustParse("${a}${b}"), MustParse("${b}${a}"), false},
		{"different length", MustParse("${a}${b}"), MustParse("${a}${b}c"), false},
		{"nil nodes", nil, nil, true},
		{"nil vs text", nil, Text{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
			assert.Equal(t, tt.want, Equal(tt.b, tt.a))
		})
	}
}

func TestFingerprint(t *testing.T) {
	a := MustParse("Hello ${name}")
	b := MustParse("Hello ${name}")
	c := MustParse("Hello ${other}")

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(c))

	// Boundaries between adjacent values must not run together.
	ab := NewSequence(Text{Value: "ab"}, Placeholder{Name: MustName("c")})
	a2 := NewSequence(Text{Value: "a"}, Placeholder{Name: MustName("bc")})
	assert.NotEqual(t, Fingerprint(ab), Fingerprint(a2))

	assert.NotEqual(t, Fingerprint(Text{Value: "a"}), Fingerprint(MustParse("${a}")))
}

func TestText_String(t *testing.T) {
	assert.Equal(t, "plain", Text{Value: "plain"}.String())
	assert.Equal(t, `a\$b\\c`, Text{Value: `a$b\c`}.String())
}

func TestPrintTree(t *testing.T) {
	var b strings.Builder
	require.NoError(t, PrintTree(&b, MustParse(`a${b}\$`)))

	want := "Sequence\n" +
		"  Text \"a\"\n" +
		"  Placeholder b\n" +
		"  Text \"$\"\n"
	assert.Equal(t, want, b.String())
}

func TestPrintTree_UnknownNode(t *testing.T) {
	var b strings.Builder
	err := PrintTree(&b, nil)
	assert.ErrorIs(t, err, ErrUnknownNode)
}
