package isomsg

import (
	"context"
	"fmt"
	"time"
)

// unpacker reads fields from data with one shared cursor. Every read is
// limited to the end of the enclosing field so a malformed child cannot
// consume its parent's siblings.
type unpacker struct {
	data []byte
	cur  *cursor
}

// Unpack decodes data into a fresh value tree. The whole buffer must be
// consumed; leftover bytes fail with ErrTrailingBytes. On error the holder
// keeps its previous values.
func (h *Holder) Unpack(ctx context.Context, data []byte) (err error) {
	start := time.Now()
	name := h.schema.label()
	emitUnpackStart(ctx, name, len(data))
	var root *Value
	defer func() {
		emitUnpackComplete(ctx, name, len(data), time.Since(start), countLeaves(root), err)
	}()

	u := &unpacker{data: data, cur: &cursor{}}
	v, err := u.field(h.schema, len(data), false)
	if err != nil {
		return err
	}
	if u.cur.pos != len(data) {
		return newCodecError(ErrTrailingBytes, "", u.cur.pos,
			fmt.Errorf("%d bytes left after the last field", len(data)-u.cur.pos))
	}
	root = v
	h.root = v
	return nil
}

// field decodes f starting at the cursor. end bounds the enclosing range.
// tagRead is set when the parent already consumed the tag to select f.
func (u *unpacker) field(f *Field, end int, tagRead bool) (*Value, error) {
	path := f.Path()
	window := u.data[:end]

	if f.kind == KindTagged && !tagRead {
		size := f.res.tagSize
		if u.cur.pos+size > end {
			return nil, newCodecError(ErrShortBuffer, path, u.cur.pos, fmt.Errorf("tag needs %d bytes", size))
		}
		tag, err := f.res.tag.UnpackTag(window, u.cur.pos, size)
		if err != nil {
			return nil, newCodecError(ErrTagRange, path, u.cur.pos, err)
		}
		if tag != f.tagNumber {
			return nil, newCodecError(ErrUnknownTag, path, u.cur.pos, fmt.Errorf("read tag %d, want %d", tag, f.tagNumber))
		}
		u.cur.advance(size)
	}

	bodyEnd := end
	switch {
	case f.hasLengthHeader():
		lc := f.res.length
		if u.cur.pos+lc.Size() > end {
			return nil, newCodecError(ErrShortBuffer, path, u.cur.pos, fmt.Errorf("length header needs %d bytes", lc.Size()))
		}
		n, err := lc.UnpackLength(window, u.cur.pos)
		if err != nil {
			return nil, newCodecError(ErrInvalidHeader, path, u.cur.pos, err)
		}
		if err := checkBodyLength(f, n, u.cur.pos); err != nil {
			return nil, err
		}
		u.cur.advance(lc.Size())
		bodyEnd = u.cur.pos + n
	case f.fixedLength > 0:
		bodyEnd = u.cur.pos + f.fixedLength
	}
	if bodyEnd > end {
		return nil, newCodecError(ErrShortBuffer, path, u.cur.pos,
			fmt.Errorf("body needs %d bytes, %d left", bodyEnd-u.cur.pos, end-u.cur.pos))
	}

	v := &Value{field: f}
	bodyStart := u.cur.pos
	if f.IsLeaf() {
		raw := append([]byte{}, u.data[bodyStart:bodyEnd]...)
		typed, err := f.res.body.Decode(raw)
		if err != nil {
			return nil, newCodecError(ErrInvalidValue, path, bodyStart, err)
		}
		v.raw = raw
		v.typed = typed
		u.cur.advance(bodyEnd - bodyStart)
		return v, nil
	}

	if err := u.children(f, v, bodyEnd); err != nil {
		return nil, err
	}
	if f.bounded() && u.cur.pos != bodyEnd {
		return nil, newCodecError(ErrTrailingBytes, path, u.cur.pos,
			fmt.Errorf("children used %d of %d body bytes", u.cur.pos-bodyStart, bodyEnd-bodyStart))
	}
	if !f.bounded() {
		if err := checkBodyLength(f, u.cur.pos-bodyStart, bodyStart); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// children decodes the children of f up to end.
func (u *unpacker) children(f *Field, v *Value, end int) error {
	switch {
	case f.kind == KindBitmap:
		return u.bitmapChildren(f, v, end)
	case f.tagged:
		return u.taggedChildren(f, v, end)
	}
	for _, child := range f.children {
		if !child.required && u.cur.pos == end {
			continue
		}
		cv, err := u.field(child, end, false)
		if err != nil {
			return err
		}
		v.children = append(v.children, cv)
	}
	return nil
}

func (u *unpacker) bitmapChildren(f *Field, v *Value, end int) error {
	offset := u.cur.pos
	bits, n, err := f.res.bitmap.UnpackBitmap(u.data[:end], offset)
	if err != nil {
		return newCodecError(ErrBitmap, f.Path(), offset, err)
	}
	set := make(map[int]bool, len(bits))
	for _, bit := range bits {
		if _, ok := f.byBit[bit]; !ok {
			return newCodecError(ErrUnknownBit, f.Path(), offset, fmt.Errorf("bit %d", bit))
		}
		set[bit] = true
	}
	u.cur.advance(n)
	v.bits = bits

	for _, child := range f.children {
		if !set[child.bit] {
			if child.required {
				return newCodecError(ErrMissingRequired, child.Path(), offset, fmt.Errorf("bit %d not set", child.bit))
			}
			continue
		}
		cv, err := u.field(child, end, false)
		if err != nil {
			return err
		}
		v.children = append(v.children, cv)
	}
	return nil
}

func (u *unpacker) taggedChildren(f *Field, v *Value, end int) error {
	first := f.children[0]
	codec, size := first.res.tag, first.res.tagSize
	found := make(map[*Field]*Value, len(f.children))

	for u.cur.pos < end {
		offset := u.cur.pos
		if offset+size > end {
			return newCodecError(ErrShortBuffer, f.Path(), offset, fmt.Errorf("tag needs %d bytes", size))
		}
		tag, err := codec.UnpackTag(u.data[:end], offset, size)
		if err != nil {
			return newCodecError(ErrTagRange, f.Path(), offset, err)
		}
		child, ok := f.byTag[tag]
		if !ok {
			return newCodecError(ErrUnknownTag, f.Path(), offset, fmt.Errorf("tag %d", tag))
		}
		if _, dup := found[child]; dup {
			return newCodecError(ErrRepeatedTag, child.Path(), offset, fmt.Errorf("tag %d", tag))
		}
		u.cur.advance(size)
		cv, err := u.field(child, end, true)
		if err != nil {
			return err
		}
		found[child] = cv
	}

	for _, child := range f.children {
		cv, ok := found[child]
		if !ok {
			if child.required {
				return newCodecError(ErrMissingRequired, child.Path(), end, nil)
			}
			continue
		}
		v.children = append(v.children, cv)
	}
	return nil
}
