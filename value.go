package isomsg

// Value is one node of a holder's value tree. It refers to the schema field
// that defines it and holds only the children that are present, in schema
// order.
type Value struct {
	field    *Field
	raw      []byte
	typed    any
	bits     []int
	children []*Value
}

// Field returns the schema field backing v.
func (v *Value) Field() *Field { return v.field }

// Raw returns a copy of the body bytes of a leaf.
func (v *Value) Raw() []byte { return append([]byte(nil), v.raw...) }

// Typed returns the decoded value of a leaf.
func (v *Value) Typed() any { return v.typed }

// Bits returns the presence bits of a bitmap group, as of the last pack or
// unpack.
func (v *Value) Bits() []int { return append([]int(nil), v.bits...) }

// Children returns the present children in schema order.
func (v *Value) Children() []*Value { return append([]*Value(nil), v.children...) }

// child returns the present child for f, or nil.
func (v *Value) child(f *Field) *Value {
	for _, c := range v.children {
		if c.field == f {
			return c
		}
	}
	return nil
}

// ensureChild returns the child for f, inserting it in schema order when
// absent.
func (v *Value) ensureChild(f *Field) *Value {
	at := len(v.children)
	for i, c := range v.children {
		if c.field == f {
			return c
		}
		if c.field.index > f.index {
			at = i
			break
		}
	}
	n := &Value{field: f}
	v.children = append(v.children, nil)
	copy(v.children[at+1:], v.children[at:])
	v.children[at] = n
	return n
}

// removeChild drops the child for f and reports whether it was present.
func (v *Value) removeChild(f *Field) bool {
	for i, c := range v.children {
		if c.field == f {
			v.children = append(v.children[:i], v.children[i+1:]...)
			return true
		}
	}
	return false
}

// clone copies the node structure of the tree under v. Leaf bytes are
// shared; SetValue replaces them rather than writing into them.
func (v *Value) clone() *Value {
	if v == nil {
		return nil
	}
	c := &Value{field: v.field, raw: v.raw, typed: v.typed, bits: v.bits}
	if len(v.children) > 0 {
		c.children = make([]*Value, len(v.children))
		for i, child := range v.children {
			c.children[i] = child.clone()
		}
	}
	return c
}

// countLeaves returns the number of present leaves under v.
func countLeaves(v *Value) int {
	if v == nil {
		return 0
	}
	if v.field.IsLeaf() {
		return 1
	}
	n := 0
	for _, c := range v.children {
		n += countLeaves(c)
	}
	return n
}
