package isomsg

// cursor is the byte offset threaded through one pack or unpack traversal.
// It only moves forward.
type cursor struct {
	pos int
}

func (c *cursor) advance(n int) {
	if n < 0 {
		panic("isomsg: cursor moved backwards")
	}
	c.pos += n
}
