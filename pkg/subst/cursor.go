package subst

// Cursor walks a string one rune at a time.
//
// Parsers consume a Cursor from its current position; on failure the cursor is
// left where parsing stopped so errors can report the offset.
type Cursor struct {
	text  string
	runes []rune
	pos   int
}

// NewCursor returns a cursor positioned at the first rune of s.
func NewCursor(s string) *Cursor {
	return &Cursor{text: s, runes: []rune(s)}
}

// IsEmpty reports whether every rune has been consumed.
func (c *Cursor) IsEmpty() bool {
	return c.pos >= len(c.runes)
}

// At returns the current rune, or 0 if the cursor is empty.
func (c *Cursor) At() rune {
	if c.IsEmpty() {
		return 0
	}
	return c.runes[c.pos]
}

// Next advances past the current rune. It is a no-op on an empty cursor.
func (c *Cursor) Next() {
	if !c.IsEmpty() {
		c.pos++
	}
}

// Offset returns the rune offset of the current position.
func (c *Cursor) Offset() int {
	return c.pos
}

// End moves the cursor past the last rune.
func (c *Cursor) End() {
	c.pos = len(c.runes)
}

// Text returns the complete input, consumed or not.
func (c *Cursor) Text() string {
	return c.text
}

// Since returns the runes consumed from offset up to the current position.
func (c *Cursor) Since(offset int) string {
	if offset < 0 {
		offset = 0
	}
	if offset > c.pos {
		return ""
	}
	return string(c.runes[offset:c.pos])
}
