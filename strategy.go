package isomsg

// TagCodec converts a field identifier to and from its wire bytes.
// PackTag and UnpackTag must be inverses for every tag representable in size bytes.
type TagCodec interface {
	// PackTag encodes tag into exactly size bytes.
	PackTag(tag, size int) ([]byte, error)

	// UnpackTag decodes the size bytes at offset into a tag number.
	UnpackTag(data []byte, offset, size int) (int, error)
}

// LengthCodec converts a body byte count to and from a fixed-size header.
type LengthCodec interface {
	// Size returns the header size in bytes.
	Size() int

	// PackLength encodes n. Values above the supported range fail with ErrLengthRange.
	PackLength(n int) ([]byte, error)

	// UnpackLength decodes the header starting at offset.
	UnpackLength(data []byte, offset int) (int, error)
}

// BodyCodec converts a typed value to and from body bytes.
type BodyCodec interface {
	// Encode returns the body bytes for v.
	Encode(v any) ([]byte, error)

	// Decode returns the typed value for body bytes.
	Decode(data []byte) (any, error)
}

// BitmapCodec encodes the presence set of a bitmap group.
// Bit positions are 1-based; bit 1 is the most significant bit of the first byte.
type BitmapCodec interface {
	// PackBitmap encodes the ascending set of present bits.
	PackBitmap(bits []int) ([]byte, error)

	// UnpackBitmap decodes the bitmap at offset and returns the set bits
	// (reserved bits excluded) and the number of bytes consumed.
	UnpackBitmap(data []byte, offset int) ([]int, int, error)

	// Capacity returns the highest addressable bit.
	Capacity() int

	// Reserved reports whether bit is used by the codec itself.
	Reserved(bit int) bool

	// MaxSize returns the largest encoded size in bytes.
	MaxSize() int
}

// Masker renders redacted diagnostic text. It never affects packed bytes.
type Masker interface {
	// MaskHex redacts a hex rendering of a field's body bytes.
	MaskHex(hex string) string

	// MaskValue redacts a typed value.
	MaskValue(v any) string
}

// Stringer renders a typed value for display.
type Stringer interface {
	Convert(v any) string
}

// StringerFunc adapts a function to the Stringer interface.
type StringerFunc func(v any) string

// Convert calls f(v).
func (f StringerFunc) Convert(v any) string {
	return f(v)
}
