package isomsg

import (
	"fmt"
	"strings"
)

// Kind selects how a field is framed on the wire.
type Kind int

const (
	// KindMessage concatenates its children with no header of its own.
	KindMessage Kind = iota
	// KindFixed is a body of exactly FixedLength bytes.
	KindFixed
	// KindLengthPrefixed is a length header followed by the body.
	KindLengthPrefixed
	// KindTagged is a tag, a length header (unless fixed) and the body.
	KindTagged
	// KindBitmap is a presence bitmap followed by the present children.
	KindBitmap
)

var kindNames = map[Kind]string{
	KindMessage:        "message",
	KindFixed:          "fixed",
	KindLengthPrefixed: "prefixed",
	KindTagged:         "tagged",
	KindBitmap:         "bitmap",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind returns the Kind named s, as used in schema documents.
func ParseKind(s string) (Kind, error) {
	for k, n := range kindNames {
		if n == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown kind %q", s)
}

type presence int

const (
	presenceDefault presence = iota
	presenceRequired
	presenceOptional
)

// resolved holds the strategies a field uses after inheritance.
type resolved struct {
	tag      TagCodec
	tagSize  int
	length   LengthCodec
	body     BodyCodec
	bitmap   BitmapCodec
	masker   Masker
	stringer Stringer
}

// Field is one node of a message layout. Fields are created by a Builder
// and are immutable once Build returns, so one schema can back any number
// of holders concurrently.
type Field struct {
	kind        Kind
	name        string
	tagNumber   int
	hasTag      bool
	bit         int
	fixedLength int
	minLength   int
	maxLength   int
	presence    presence

	tagCodec    TagCodec
	tagSize     int
	lengthCodec LengthCodec
	body        BodyCodec
	bitmap      BitmapCodec
	masker      Masker
	stringer    Stringer

	children []*Field

	// Populated by finalize.
	index    int
	path     []string
	required bool
	tagged   bool // children are matched by tag
	res      resolved
	byName   map[string]*Field
	byTag    map[int]*Field
	byBit    map[int]*Field
}

// Kind returns the field kind.
func (f *Field) Kind() Kind { return f.kind }

// Name returns the field name. The root may be unnamed.
func (f *Field) Name() string { return f.name }

// TagNumber returns the tag number and whether the field is tagged.
func (f *Field) TagNumber() (int, bool) { return f.tagNumber, f.hasTag }

// Bit returns the bitmap position, or 0 outside a bitmap group.
func (f *Field) Bit() int { return f.bit }

// FixedLength returns the declared body length in bytes, or 0.
func (f *Field) FixedLength() int { return f.fixedLength }

// MinLength returns the minimum body length in bytes, or 0.
func (f *Field) MinLength() int { return f.minLength }

// MaxLength returns the maximum body length in bytes, or 0 for unbounded.
func (f *Field) MaxLength() int { return f.maxLength }

// Required reports whether packing fails when the field has no value.
func (f *Field) Required() bool { return f.required }

// IsLeaf reports whether the field carries a value rather than children.
func (f *Field) IsLeaf() bool { return len(f.children) == 0 }

// Path returns the dotted root-relative path, empty for the root.
func (f *Field) Path() string { return strings.Join(f.path, ".") }

// Children returns the child fields in definition order.
func (f *Field) Children() []*Field {
	return append([]*Field(nil), f.children...)
}

// Child returns the child with the given name.
func (f *Field) Child(name string) (*Field, bool) {
	c, ok := f.byName[name]
	return c, ok
}

// Lookup resolves a root-relative path of names.
func (f *Field) Lookup(path ...string) (*Field, bool) {
	cur := f
	for _, name := range path {
		next, ok := cur.byName[name]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// hasLengthHeader reports whether the body is preceded by a length header.
func (f *Field) hasLengthHeader() bool {
	return f.kind == KindLengthPrefixed || (f.kind == KindTagged && f.fixedLength == 0)
}

// bounded reports whether the body size is known before reading children.
func (f *Field) bounded() bool {
	return f.hasLengthHeader() || f.fixedLength > 0
}

func (f *Field) label() string {
	if f.name == "" {
		return "<root>"
	}
	return f.name
}

// countFields returns the number of fields in the tree rooted at f.
func countFields(f *Field) int {
	n := 1
	for _, c := range f.children {
		n += countFields(c)
	}
	return n
}
