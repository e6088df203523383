package lexer

// Cursor wraps a Source with arbitrary lookahead. Peeked runes are kept in a queue until they
// are committed with Next, so rolling back never has to copy anything.
type Cursor struct {
	src *Source

	// runes read from src but not committed yet
	queue []rune
	// lookahead offset, relative to the committed position
	offset int

	pos Location
}

func NewCursor(src *Source, fileName string) *Cursor {
	return &Cursor{
		src: src,
		pos: Location{File: fileName},
	}
}

// Peek returns the rune at the lookahead offset without consuming it.
func (c *Cursor) Peek() rune {
	for len(c.queue) <= c.offset {
		r := c.src.Next()
		if r == EndOfInput {
			return EndOfInput
		}
		c.queue = append(c.queue, r)
	}

	return c.queue[c.offset]
}

// Advance moves the lookahead offset one rune forward.
func (c *Cursor) Advance() {
	c.offset++
}

// Reset moves the lookahead offset back to the committed position.
func (c *Cursor) Reset() {
	c.offset = 0
}

// Next commits and returns the next rune. The lookahead offset stays on the same rune it was
// pointing at, unless it was already at the committed position.
func (c *Cursor) Next() rune {
	var r rune
	if len(c.queue) > 0 {
		r = c.queue[0]
		c.queue = c.queue[1:]
	} else {
		r = c.src.Next()
	}

	if r == EndOfInput {
		return r
	}

	if c.offset > 0 {
		c.offset--
	}

	if r == '\n' {
		c.pos.Line++
		c.pos.Column = 0
	} else {
		c.pos.Column++
	}

	return r
}

// Pos returns the location of the next rune to be committed.
func (c *Cursor) Pos() Location {
	return c.pos
}

func (c *Cursor) Err() error {
	return c.src.Err()
}
