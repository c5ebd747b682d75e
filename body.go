package isomsg

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// PadSide selects where fill is added to reach a fixed width.
type PadSide int

const (
	// PadNone rejects values that need padding.
	PadNone PadSide = iota
	// PadLeft adds fill before the value (right-justified numerics).
	PadLeft
	// PadRight adds fill after the value (left-justified text).
	PadRight
)

func (s PadSide) String() string {
	switch s {
	case PadLeft:
		return "left"
	case PadRight:
		return "right"
	default:
		return "none"
	}
}

// bcdBody packs decimal digit strings two digits per byte.
type bcdBody struct {
	side PadSide
	fill byte
}

// BCD returns a body codec packing decimal digits two per byte. Odd digit
// counts get one fill nibble (0x0-0xF) on side. On decode a non-digit fill
// nibble (0xA-0xF) at the padded end is stripped; a digit fill is kept,
// so values with an odd digit count only round-trip with a non-digit fill.
func BCD(side PadSide, fill byte) BodyCodec {
	return &bcdBody{side: side, fill: fill & 0x0F}
}

func (c *bcdBody) Encode(v any) ([]byte, error) {
	s, err := digitString(v)
	if err != nil {
		return nil, err
	}
	nibbles := make([]byte, 0, len(s)+1)
	if len(s)%2 == 1 {
		switch c.side {
		case PadLeft:
			nibbles = append(nibbles, c.fill)
		case PadNone:
			return nil, fmt.Errorf("%w: odd digit count %d without padding", ErrInvalidValue, len(s))
		}
	}
	for i := 0; i < len(s); i++ {
		nibbles = append(nibbles, s[i]-'0')
	}
	if len(nibbles)%2 == 1 {
		nibbles = append(nibbles, c.fill)
	}
	return packNibbles(nibbles), nil
}

func (c *bcdBody) Decode(data []byte) (any, error) {
	var sb strings.Builder
	sb.Grow(len(data) * 2)
	last := len(data)*2 - 1
	for i := 0; i <= last; i++ {
		n := data[i/2] >> 4
		if i%2 == 1 {
			n = data[i/2] & 0x0F
		}
		if n > 9 {
			padded := (i == 0 && c.side == PadLeft) || (i == last && c.side == PadRight)
			if padded && n == c.fill {
				continue
			}
			return nil, fmt.Errorf("%w: nibble %X at position %d is not a digit", ErrInvalidValue, n, i)
		}
		sb.WriteByte('0' + n)
	}
	return sb.String(), nil
}

// digitString converts v to a string of decimal digits.
func digitString(v any) (string, error) {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case []byte:
		s = string(t)
	default:
		n, err := toUint64(v)
		if err != nil {
			return "", err
		}
		s = strconv.FormatUint(n, 10)
	}
	if !allDigits([]byte(s)) {
		return "", fmt.Errorf("%w: %q is not decimal", ErrInvalidValue, s)
	}
	return s, nil
}

// TextOption configures a text body codec.
type TextOption func(*textBody)

// WithPadding pads encoded text with fill on side up to width characters,
// and trims fill from that side on decode.
func WithPadding(side PadSide, fill rune, width int) TextOption {
	return func(t *textBody) {
		t.side = side
		t.fill = fill
		t.width = width
	}
}

// textBody converts strings through a character encoding.
type textBody struct {
	enc   encoding.Encoding
	ascii bool
	side  PadSide
	fill  rune
	width int
}

// Text returns a body codec for strings in the given character encoding.
// A nil encoding passes bytes through unchanged.
func Text(enc encoding.Encoding, opts ...TextOption) BodyCodec {
	t := &textBody{enc: enc, fill: ' '}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ASCII returns a text body codec that rejects bytes outside 7-bit ASCII.
func ASCII(opts ...TextOption) BodyCodec {
	t := Text(nil, opts...).(*textBody)
	t.ascii = true
	return t
}

// EBCDIC returns a text body codec using IBM code page 037.
func EBCDIC(opts ...TextOption) BodyCodec {
	return Text(charmap.CodePage037, opts...)
}

func (t *textBody) Encode(v any) ([]byte, error) {
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case []byte:
		s = string(x)
	case fmt.Stringer:
		s = x.String()
	default:
		n, err := toUint64(v)
		if err != nil {
			return nil, err
		}
		s = strconv.FormatUint(n, 10)
	}
	if t.width > 0 {
		count := utf8.RuneCountInString(s)
		if count > t.width {
			return nil, fmt.Errorf("%w: %d characters exceed width %d", ErrInvalidValue, count, t.width)
		}
		pad := strings.Repeat(string(t.fill), t.width-count)
		switch t.side {
		case PadLeft:
			s = pad + s
		case PadRight:
			s = s + pad
		default:
			if pad != "" {
				return nil, fmt.Errorf("%w: %d characters short of width %d", ErrInvalidValue, t.width-count, t.width)
			}
		}
	}
	if t.ascii {
		for i := 0; i < len(s); i++ {
			if s[i] >= utf8.RuneSelf {
				return nil, fmt.Errorf("%w: non-ASCII byte %02X", ErrInvalidValue, s[i])
			}
		}
	}
	if t.enc == nil {
		return []byte(s), nil
	}
	out, err := t.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return out, nil
}

func (t *textBody) Decode(data []byte) (any, error) {
	raw := data
	if t.enc != nil {
		decoded, err := t.enc.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		raw = decoded
	}
	if t.ascii {
		for _, c := range raw {
			if c >= utf8.RuneSelf {
				return nil, fmt.Errorf("%w: non-ASCII byte %02X", ErrInvalidValue, c)
			}
		}
	}
	s := string(raw)
	if t.width > 0 {
		fill := string(t.fill)
		switch t.side {
		case PadLeft:
			s = strings.TrimLeft(s, fill)
		case PadRight:
			s = strings.TrimRight(s, fill)
		}
	}
	return s, nil
}

// binaryBody passes bytes through.
type binaryBody struct{}

// Binary returns a body codec for raw bytes. Strings are accepted on encode;
// decoding always yields []byte.
func Binary() BodyCodec {
	return &binaryBody{}
}

func (*binaryBody) Encode(v any) ([]byte, error) {
	switch t := v.(type) {
	case []byte:
		return append([]byte(nil), t...), nil
	case string:
		return []byte(t), nil
	default:
		return nil, fmt.Errorf("%w: binary body wants []byte, got %T", ErrInvalidValue, v)
	}
}

func (*binaryBody) Decode(data []byte) (any, error) {
	return append([]byte{}, data...), nil
}

// hexBody carries a hex string as its bytes.
type hexBody struct{}

// Hex returns a body codec whose typed value is a hex string. Decoding
// yields uppercase hex.
func Hex() BodyCodec {
	return &hexBody{}
}

func (*hexBody) Encode(v any) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: hex body wants string, got %T", ErrInvalidValue, v)
	}
	b, err := DecodeHex(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return b, nil
}

func (*hexBody) Decode(data []byte) (any, error) {
	return EncodeHex(data), nil
}

// uintBody encodes unsigned integers big-endian in a fixed number of bytes.
type uintBody struct {
	size int
}

// Uint returns a body codec for non-negative integers written big-endian in
// size bytes (1-8). Decoding yields uint64.
func Uint(size int) BodyCodec {
	if size < 1 || size > 8 {
		panic(fmt.Sprintf("isomsg: Uint size %d out of range 1-8", size))
	}
	return &uintBody{size: size}
}

func (u *uintBody) Encode(v any) ([]byte, error) {
	n, err := toUint64(v)
	if err != nil {
		return nil, err
	}
	if n > maxUnsigned(u.size) {
		return nil, fmt.Errorf("%w: %d does not fit in %d bytes", ErrInvalidValue, n, u.size)
	}
	return putUnsigned(n, u.size), nil
}

func (u *uintBody) Decode(data []byte) (any, error) {
	if len(data) != u.size {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidValue, u.size, len(data))
	}
	return readUnsigned(data), nil
}

// toUint64 converts integer kinds and decimal strings to uint64.
func toUint64(v any) (uint64, error) {
	var n int64
	switch t := v.(type) {
	case uint:
		return uint64(t), nil
	case uint8:
		return uint64(t), nil
	case uint16:
		return uint64(t), nil
	case uint32:
		return uint64(t), nil
	case uint64:
		return t, nil
	case int:
		n = int64(t)
	case int8:
		n = int64(t)
	case int16:
		n = int64(t)
	case int32:
		n = int64(t)
	case int64:
		n = t
	case string:
		u, err := strconv.ParseUint(t, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an unsigned integer", ErrInvalidValue, t)
		}
		return u, nil
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrInvalidValue, v)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative value %d", ErrInvalidValue, n)
	}
	return uint64(n), nil
}
