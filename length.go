package isomsg

import (
	"fmt"
	"strconv"
)

// binaryLength writes the body length as a big-endian unsigned integer.
type binaryLength struct {
	size int
}

// BinaryLength returns a length codec with a size-byte big-endian header.
// Size must be between 1 and 4.
func BinaryLength(size int) LengthCodec {
	if size < 1 || size > 4 {
		panic(fmt.Sprintf("isomsg: BinaryLength size %d out of range 1-4", size))
	}
	return &binaryLength{size: size}
}

func (l *binaryLength) Size() int { return l.size }

func (l *binaryLength) PackLength(n int) ([]byte, error) {
	if n < 0 || uint64(n) > maxUnsigned(l.size) {
		return nil, fmt.Errorf("%w: %d does not fit in a %d byte header", ErrLengthRange, n, l.size)
	}
	return putUnsigned(uint64(n), l.size), nil
}

func (l *binaryLength) UnpackLength(data []byte, offset int) (int, error) {
	if offset < 0 || offset+l.size > len(data) {
		return 0, fmt.Errorf("%w: length header needs %d bytes", ErrShortBuffer, l.size)
	}
	return int(readUnsigned(data[offset : offset+l.size])), nil
}

// bcdLength writes the body length as packed decimal.
type bcdLength struct {
	size int
}

// BCDLength returns a length codec with a size-byte packed decimal header,
// two digits per byte. Size must be between 1 and 4.
func BCDLength(size int) LengthCodec {
	if size < 1 || size > 4 {
		panic(fmt.Sprintf("isomsg: BCDLength size %d out of range 1-4", size))
	}
	return &bcdLength{size: size}
}

func (l *bcdLength) Size() int { return l.size }

func (l *bcdLength) PackLength(n int) ([]byte, error) {
	digits, err := decimalDigits(n, l.size*2)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLengthRange, err)
	}
	return packNibbles(digits), nil
}

func (l *bcdLength) UnpackLength(data []byte, offset int) (int, error) {
	if offset < 0 || offset+l.size > len(data) {
		return 0, fmt.Errorf("%w: length header needs %d bytes", ErrShortBuffer, l.size)
	}
	n, err := parseBCD(data[offset : offset+l.size])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}
	return n, nil
}

// asciiLength writes the body length as zero-padded decimal characters,
// the "LL"/"LLL" headers of character based variants.
type asciiLength struct {
	digits int
}

// ASCIILength returns a length codec writing digits decimal characters.
// Digits must be between 1 and 9.
func ASCIILength(digits int) LengthCodec {
	if digits < 1 || digits > 9 {
		panic(fmt.Sprintf("isomsg: ASCIILength digits %d out of range 1-9", digits))
	}
	return &asciiLength{digits: digits}
}

func (l *asciiLength) Size() int { return l.digits }

func (l *asciiLength) PackLength(n int) ([]byte, error) {
	if n < 0 || n >= pow10(l.digits) {
		return nil, fmt.Errorf("%w: %d does not fit in %d digits", ErrLengthRange, n, l.digits)
	}
	return []byte(fmt.Sprintf("%0*d", l.digits, n)), nil
}

func (l *asciiLength) UnpackLength(data []byte, offset int) (int, error) {
	if offset < 0 || offset+l.digits > len(data) {
		return 0, fmt.Errorf("%w: length header needs %d bytes", ErrShortBuffer, l.digits)
	}
	raw := data[offset : offset+l.digits]
	if !allDigits(raw) {
		return 0, fmt.Errorf("%w: %q is not decimal", ErrInvalidHeader, raw)
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}
	return n, nil
}
