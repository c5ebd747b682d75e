package isomsg

import (
	"context"
	"fmt"
	"time"
)

// packer appends one field after another. pos tracks the absolute offset
// of the end of out within the final message, so nested bodies built in
// their own packer still report absolute offsets.
type packer struct {
	cur *cursor
	out []byte
}

func newPacker(base int) *packer {
	return &packer{cur: &cursor{pos: base}}
}

func (p *packer) write(b []byte) {
	p.out = append(p.out, b...)
	p.cur.advance(len(b))
}

// Pack walks the schema in definition order and encodes every present
// value. Absent optional fields are omitted; absent required fields fail
// with ErrMissingRequired. The context only carries telemetry.
func (h *Holder) Pack(ctx context.Context) (out []byte, err error) {
	start := time.Now()
	name := h.schema.label()
	emitPackStart(ctx, name)
	defer func() {
		emitPackComplete(ctx, name, len(out), time.Since(start), countLeaves(h.root), err)
	}()

	root := h.root
	if root == nil {
		root = &Value{field: h.schema}
	}
	if h.schema.IsLeaf() && h.root == nil {
		return nil, newCodecError(ErrMissingRequired, "", 0, nil)
	}

	p := newPacker(0)
	if err := p.field(h.schema, root); err != nil {
		return nil, err
	}
	return p.out, nil
}

// field emits the tag, length header and body of f.
func (p *packer) field(f *Field, v *Value) error {
	offset := p.cur.pos
	path := f.Path()

	var tag []byte
	if f.kind == KindTagged {
		b, err := f.res.tag.PackTag(f.tagNumber, f.res.tagSize)
		if err != nil {
			return newCodecError(ErrTagRange, path, offset, err)
		}
		tag = b
	}

	headerSize := 0
	if f.hasLengthHeader() {
		headerSize = f.res.length.Size()
	}
	bodyOffset := offset + len(tag) + headerSize

	body, err := p.body(f, v, bodyOffset)
	if err != nil {
		return err
	}
	if err := checkBodyLength(f, len(body), bodyOffset); err != nil {
		return err
	}

	p.write(tag)
	if f.hasLengthHeader() {
		header, err := f.res.length.PackLength(len(body))
		if err != nil {
			return newCodecError(ErrLengthRange, path, p.cur.pos, err)
		}
		if len(header) != headerSize {
			return newCodecError(ErrInvalidHeader, path, p.cur.pos, fmt.Errorf("codec produced %d header bytes, declared %d", len(header), headerSize))
		}
		p.write(header)
	}
	p.write(body)
	return nil
}

// body returns the body bytes of f. Leaves use the bytes encoded by
// SetValue; containers pack their present children, bitmap groups prefix
// them with the presence bitmap.
func (p *packer) body(f *Field, v *Value, base int) ([]byte, error) {
	if f.IsLeaf() {
		return v.raw, nil
	}

	sub := newPacker(base)
	if f.kind == KindBitmap {
		bits := make([]int, 0, len(v.children))
		for _, c := range v.children {
			bits = append(bits, c.field.bit)
		}
		bitmap, err := f.res.bitmap.PackBitmap(bits)
		if err != nil {
			return nil, newCodecError(ErrBitmap, f.Path(), base, err)
		}
		v.bits = bits
		sub.write(bitmap)
	}

	var omitted *Field
	for _, child := range f.children {
		cv := v.child(child)
		if cv == nil {
			if child.required {
				return nil, newCodecError(ErrMissingRequired, child.Path(), sub.cur.pos, nil)
			}
			if omitted == nil {
				omitted = child
			}
			continue
		}
		if omitted != nil && f.kind != KindBitmap && !f.tagged {
			return nil, newCodecError(ErrMissingRequired, omitted.Path(), sub.cur.pos,
				fmt.Errorf("optional positional field omitted before %s", child.name))
		}
		if err := sub.field(child, cv); err != nil {
			return nil, err
		}
	}
	return sub.out, nil
}

// checkBodyLength enforces the fixed, minimum and maximum body lengths.
func checkBodyLength(f *Field, n, offset int) error {
	switch {
	case f.fixedLength > 0 && n != f.fixedLength:
		return newCodecError(ErrLengthMismatch, f.Path(), offset, fmt.Errorf("body is %d bytes, fixed length %d", n, f.fixedLength))
	case f.maxLength > 0 && n > f.maxLength:
		return newCodecError(ErrTooLong, f.Path(), offset, fmt.Errorf("body is %d bytes, max %d", n, f.maxLength))
	case n < f.minLength:
		return newCodecError(ErrTooShort, f.Path(), offset, fmt.Errorf("body is %d bytes, min %d", n, f.minLength))
	}
	return nil
}
