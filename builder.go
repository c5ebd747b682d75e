package isomsg

import (
	"context"
	"fmt"
	"reflect"
	"strings"
)

// Builder constructs a schema tree. Methods apply to the field under
// construction and return the builder for chaining; the first misuse is
// remembered and reported by Validate and Build.
//
//	schema, err := isomsg.NewBuilder(isomsg.KindMessage).Name("auth").
//	    Child(isomsg.KindFixed).Name("mti").FixedLength(2).Body(isomsg.BCD(isomsg.PadLeft, 0)).
//	    CloneToSibling().Name("code").
//	    Build()
type Builder struct {
	root    *Field
	cur     *Field
	parents []*Field
	err     error
}

// NewBuilder starts a new schema whose root has the given kind.
func NewBuilder(kind Kind) *Builder {
	root := &Field{kind: kind}
	return &Builder{root: root, cur: root}
}

// From resumes building on a copy of a finished schema, positioned at its
// root. The original tree is left untouched.
func From(root *Field) *Builder {
	c := cloneTree(root)
	return &Builder{root: c, cur: c}
}

func (b *Builder) fail(format string, args ...any) *Builder {
	if b.err == nil {
		b.err = newDefinitionError(ErrBuilderMisuse, b.draftPath(), fmt.Sprintf(format, args...))
	}
	return b
}

// draftPath returns the dotted path of the field under construction.
func (b *Builder) draftPath() string {
	if len(b.parents) == 0 {
		return ""
	}
	names := make([]string, 0, len(b.parents))
	for _, p := range b.parents[1:] {
		names = append(names, p.name)
	}
	return strings.Join(append(names, b.cur.name), ".")
}

// Child appends a new child of the given kind to the current field and
// moves to it.
func (b *Builder) Child(kind Kind) *Builder {
	child := &Field{kind: kind}
	b.cur.children = append(b.cur.children, child)
	b.parents = append(b.parents, b.cur)
	b.cur = child
	return b
}

// Parent moves back to the parent of the current field.
func (b *Builder) Parent() *Builder {
	if len(b.parents) == 0 {
		return b.fail("Parent called at the root")
	}
	b.cur = b.parents[len(b.parents)-1]
	b.parents = b.parents[:len(b.parents)-1]
	return b
}

// Root moves back to the root field.
func (b *Builder) Root() *Builder {
	b.cur = b.root
	b.parents = nil
	return b
}

// Name sets the field name, unique among siblings.
func (b *Builder) Name(name string) *Builder {
	b.cur.name = name
	return b
}

// TagNumber sets the tag of a KindTagged field.
func (b *Builder) TagNumber(tag int) *Builder {
	b.cur.tagNumber = tag
	b.cur.hasTag = true
	return b
}

// Bit sets the bitmap position of a child of a KindBitmap field. Unset bits
// follow the previous sibling.
func (b *Builder) Bit(bit int) *Builder {
	b.cur.bit = bit
	return b
}

// FixedLength sets the exact body length in bytes.
func (b *Builder) FixedLength(n int) *Builder {
	b.cur.fixedLength = n
	return b
}

// MinLength sets the minimum body length in bytes.
func (b *Builder) MinLength(n int) *Builder {
	b.cur.minLength = n
	return b
}

// MaxLength sets the maximum body length in bytes.
func (b *Builder) MaxLength(n int) *Builder {
	b.cur.maxLength = n
	return b
}

// Required makes packing and unpacking fail when the field is absent.
func (b *Builder) Required() *Builder {
	b.cur.presence = presenceRequired
	return b
}

// Optional allows the field to be absent. Positional fields may only be
// omitted at the end of their parent.
func (b *Builder) Optional() *Builder {
	b.cur.presence = presenceOptional
	return b
}

// Body sets the body codec; descendants inherit it.
func (b *Builder) Body(c BodyCodec) *Builder {
	b.cur.body = c
	return b
}

// Length sets the length codec; descendants inherit it.
func (b *Builder) Length(c LengthCodec) *Builder {
	b.cur.lengthCodec = c
	return b
}

// Tag sets the tag codec and tag size in bytes; descendants inherit both.
func (b *Builder) Tag(c TagCodec, size int) *Builder {
	b.cur.tagCodec = c
	b.cur.tagSize = size
	return b
}

// Bitmap sets the bitmap codec; descendants inherit it.
func (b *Builder) Bitmap(c BitmapCodec) *Builder {
	b.cur.bitmap = c
	return b
}

// Masker sets the masker used by Dump; descendants inherit it.
func (b *Builder) Masker(m Masker) *Builder {
	b.cur.masker = m
	return b
}

// Stringer sets the display conversion; descendants inherit it.
func (b *Builder) Stringer(s Stringer) *Builder {
	b.cur.stringer = s
	return b
}

// CloneToSibling appends a copy of the current leaf's definition as a new,
// unnamed sibling and moves to it. Strategies, length bounds and presence
// are copied; name, tag number and bit are not.
func (b *Builder) CloneToSibling() *Builder {
	if len(b.parents) == 0 {
		return b.fail("CloneToSibling called at the root")
	}
	if len(b.cur.children) > 0 {
		return b.fail("CloneToSibling only copies leaf fields")
	}
	src := b.cur
	clone := &Field{
		kind:        src.kind,
		fixedLength: src.fixedLength,
		minLength:   src.minLength,
		maxLength:   src.maxLength,
		presence:    src.presence,
		tagCodec:    src.tagCodec,
		tagSize:     src.tagSize,
		lengthCodec: src.lengthCodec,
		body:        src.body,
		bitmap:      src.bitmap,
		masker:      src.masker,
		stringer:    src.stringer,
	}
	parent := b.parents[len(b.parents)-1]
	parent.children = append(parent.children, clone)
	b.cur = clone
	return b
}

// Validate checks the tree built so far without finishing it.
func (b *Builder) Validate() error {
	if b.err != nil {
		return b.err
	}
	return finalize(cloneTree(b.root))
}

// Build validates the tree and returns an immutable copy. The builder may
// keep being used; later changes do not affect returned schemas.
func (b *Builder) Build() (*Field, error) {
	if b.err != nil {
		return nil, b.err
	}
	root := cloneTree(b.root)
	if err := finalize(root); err != nil {
		return nil, err
	}
	emitSchemaBuilt(context.Background(), root.label(), countFields(root))
	return root, nil
}

// cloneTree copies the declared attributes of a tree.
func cloneTree(f *Field) *Field {
	c := &Field{
		kind:        f.kind,
		name:        f.name,
		tagNumber:   f.tagNumber,
		hasTag:      f.hasTag,
		bit:         f.bit,
		fixedLength: f.fixedLength,
		minLength:   f.minLength,
		maxLength:   f.maxLength,
		presence:    f.presence,
		tagCodec:    f.tagCodec,
		tagSize:     f.tagSize,
		lengthCodec: f.lengthCodec,
		body:        f.body,
		bitmap:      f.bitmap,
		masker:      f.masker,
		stringer:    f.stringer,
	}
	c.children = make([]*Field, len(f.children))
	for i, child := range f.children {
		c.children[i] = cloneTree(child)
	}
	return c
}

// finalize validates the tree rooted at root and fills in resolved
// strategies, paths and lookup tables.
func finalize(root *Field) error {
	base := resolved{
		tag:      NoTag(),
		stringer: DefaultStringer(),
	}
	root.required = true
	return finalizeField(root, nil, base, true)
}

// finalizeField resolves f and its subtree. endKnown reports whether the
// range enclosing f ends where f ends: true for the root and for the last
// child of a container whose own children end at a known offset.
func finalizeField(f *Field, path []string, inherited resolved, endKnown bool) error {
	f.path = path
	p := strings.Join(path, ".")

	res := inherited
	if f.tagCodec != nil {
		res.tag = f.tagCodec
		res.tagSize = f.tagSize
	}
	if f.lengthCodec != nil {
		res.length = f.lengthCodec
	}
	if f.body != nil {
		res.body = f.body
	}
	if f.bitmap != nil {
		res.bitmap = f.bitmap
	}
	if f.masker != nil {
		res.masker = f.masker
	}
	if f.stringer != nil {
		res.stringer = f.stringer
	}
	f.res = res

	if err := checkLengths(f, p); err != nil {
		return err
	}

	switch f.kind {
	case KindMessage, KindBitmap:
		if len(f.children) == 0 {
			return newDefinitionError(ErrInvalidKind, p, f.kind.String()+" field needs children")
		}
	case KindTagged:
		if !f.hasTag {
			return newDefinitionError(ErrInvalidKind, p, "tagged field without tag number")
		}
		if res.tagSize < 1 {
			return newDefinitionError(ErrInvalidKind, p, "tagged field needs a tag codec with a positive size")
		}
		if _, err := res.tag.PackTag(f.tagNumber, res.tagSize); err != nil {
			return newDefinitionError(ErrTagRange, p, err.Error())
		}
	case KindFixed, KindLengthPrefixed:
	default:
		return newDefinitionError(ErrInvalidKind, p, f.kind.String())
	}
	if f.kind != KindTagged && f.hasTag {
		return newDefinitionError(ErrInvalidKind, p, "tag number on a "+f.kind.String()+" field")
	}
	if f.hasLengthHeader() && res.length == nil {
		return newDefinitionError(ErrMissingLengthCodec, p, "")
	}
	if f.kind == KindBitmap && res.bitmap == nil {
		return newDefinitionError(ErrMissingBitmapCodec, p, "")
	}
	if f.IsLeaf() && res.body == nil {
		return newDefinitionError(ErrMissingBodyCodec, p, "")
	}

	if err := checkChildren(f, p); err != nil {
		return err
	}

	// Unpack detects an absent optional positional child by an exhausted
	// range, so the children's range must end where f ends.
	childrenEndKnown := f.bounded() || endKnown
	last := len(f.children) - 1
	for i, child := range f.children {
		child.index = i
		childPath := append(append([]string(nil), path...), child.name)
		positional := f.kind != KindBitmap && child.kind != KindTagged
		switch child.presence {
		case presenceRequired:
			child.required = true
		case presenceOptional:
			child.required = false
		default:
			child.required = positional
		}
		if positional && !child.required && !childrenEndKnown {
			return newDefinitionError(ErrInvalidKind, strings.Join(childPath, "."),
				"optional field needs a container with a known end")
		}
		if err := finalizeField(child, childPath, res, childrenEndKnown && i == last); err != nil {
			return err
		}
	}

	if f.tagged {
		first := f.children[0]
		for _, child := range f.children[1:] {
			if !sameTagCodec(child.res.tag, first.res.tag) || child.res.tagSize != first.res.tagSize {
				return newDefinitionError(ErrMixedChildren, strings.Join(child.path, "."), "tagged siblings must share tag codec and size")
			}
		}
	}
	return nil
}

// sameTagCodec reports whether a and b are the same codec. Codecs whose
// values cannot be compared with == are compared structurally.
func sameTagCodec(a, b TagCodec) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	if va.Comparable() && vb.Comparable() {
		return va.Equal(vb)
	}
	return reflect.DeepEqual(a, b)
}

func checkLengths(f *Field, p string) error {
	switch {
	case f.fixedLength < 0 || f.minLength < 0 || f.maxLength < 0:
		return newDefinitionError(ErrInvalidLength, p, "negative length")
	case f.maxLength > 0 && f.minLength > f.maxLength:
		return newDefinitionError(ErrInvalidLength, p, fmt.Sprintf("max %d less than min %d", f.maxLength, f.minLength))
	case f.fixedLength > 0 && (f.maxLength > 0 || f.minLength > 0):
		return newDefinitionError(ErrInvalidLength, p, "fixed length combined with min/max")
	case f.kind == KindFixed && f.fixedLength == 0:
		return newDefinitionError(ErrInvalidLength, p, "fixed field needs a fixed length")
	case f.kind == KindLengthPrefixed && f.fixedLength > 0:
		return newDefinitionError(ErrInvalidLength, p, "length-prefixed field with fixed length")
	case f.kind == KindBitmap && f.fixedLength > 0:
		return newDefinitionError(ErrInvalidLength, p, "bitmap group with fixed length")
	}
	return nil
}

func checkChildren(f *Field, p string) error {
	f.byName = make(map[string]*Field, len(f.children))
	f.byTag = nil
	f.byBit = nil

	tagged := 0
	for i, child := range f.children {
		cp := joinChild(p, child.name)
		if child.name == "" {
			return newDefinitionError(ErrMissingName, p, fmt.Sprintf("child %d of %s", i, f.label()))
		}
		if _, dup := f.byName[child.name]; dup {
			return newDefinitionError(ErrDuplicateName, cp, "")
		}
		f.byName[child.name] = child
		if child.kind == KindTagged {
			tagged++
		}
		if child.bit != 0 && f.kind != KindBitmap {
			return newDefinitionError(ErrInvalidKind, cp, "bit outside a bitmap group")
		}
	}

	if tagged > 0 {
		if tagged != len(f.children) {
			return newDefinitionError(ErrMixedChildren, p, "")
		}
		if f.kind == KindBitmap {
			return newDefinitionError(ErrMixedChildren, p, "bitmap group with tagged children")
		}
		f.tagged = true
		f.byTag = make(map[int]*Field, len(f.children))
		for _, child := range f.children {
			if _, dup := f.byTag[child.tagNumber]; dup {
				return newDefinitionError(ErrDuplicateTag, joinChild(p, child.name), fmt.Sprintf("tag %d", child.tagNumber))
			}
			f.byTag[child.tagNumber] = child
		}
	}

	if f.kind == KindBitmap {
		return assignBits(f, p)
	}
	return nil
}

// assignBits gives unset bitmap children the next free bit and checks that
// bits ascend within the codec capacity.
func assignBits(f *Field, p string) error {
	codec := f.res.bitmap
	f.byBit = make(map[int]*Field, len(f.children))
	prev := 0
	for _, child := range f.children {
		cp := joinChild(p, child.name)
		if child.bit == 0 {
			next := prev + 1
			for codec.Reserved(next) {
				next++
			}
			child.bit = next
		}
		if child.bit <= prev {
			return newDefinitionError(ErrDuplicateBit, cp, fmt.Sprintf("bit %d after %d", child.bit, prev))
		}
		if child.bit > codec.Capacity() || codec.Reserved(child.bit) {
			return newDefinitionError(ErrInvalidBit, cp, fmt.Sprintf("bit %d", child.bit))
		}
		f.byBit[child.bit] = child
		prev = child.bit
	}
	return nil
}

func joinChild(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
