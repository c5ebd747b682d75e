package isomsg

import (
	"fmt"
	"strconv"
)

// noTag is the zero-length tag codec used by untagged fields. Its type is
// unexported so the shared instance returned by NoTag is the only one.
type noTag struct{}

// Tag codecs are stateless; each constructor returns one shared instance so
// siblings built from separate calls compare equal.
var (
	sharedNoTag     = &noTag{}
	sharedBinaryTag = &binaryTag{}
	sharedBCDTag    = &bcdTag{}
	sharedASCIITag  = &asciiTag{}
)

// NoTag returns the shared no-op tag codec. It packs to zero bytes and
// always unpacks to tag 0.
func NoTag() TagCodec {
	return sharedNoTag
}

func (*noTag) PackTag(_, size int) ([]byte, error) {
	if size != 0 {
		return nil, fmt.Errorf("%w: no-op tag codec cannot produce %d bytes", ErrTagRange, size)
	}
	return nil, nil
}

func (*noTag) UnpackTag(_ []byte, _, _ int) (int, error) {
	return 0, nil
}

// binaryTag encodes tags as big-endian unsigned integers.
type binaryTag struct{}

// BinaryTag returns a tag codec writing big-endian unsigned integers.
// In two bytes this covers EMV style tags such as 0x9F26.
func BinaryTag() TagCodec {
	return sharedBinaryTag
}

func (*binaryTag) PackTag(tag, size int) ([]byte, error) {
	if size < 1 || size > 7 {
		return nil, fmt.Errorf("%w: unsupported tag size %d", ErrTagRange, size)
	}
	if tag < 0 || uint64(tag) > maxUnsigned(size) {
		return nil, fmt.Errorf("%w: %d does not fit in %d bytes", ErrTagRange, tag, size)
	}
	return putUnsigned(uint64(tag), size), nil
}

func (*binaryTag) UnpackTag(data []byte, offset, size int) (int, error) {
	if size < 1 || size > 7 {
		return 0, fmt.Errorf("%w: unsupported tag size %d", ErrTagRange, size)
	}
	if offset < 0 || offset+size > len(data) {
		return 0, fmt.Errorf("%w: tag needs %d bytes", ErrShortBuffer, size)
	}
	return int(readUnsigned(data[offset : offset+size])), nil
}

// bcdTag encodes tags as packed decimal, two digits per byte.
type bcdTag struct{}

// BCDTag returns a tag codec writing two decimal digits per byte.
func BCDTag() TagCodec {
	return sharedBCDTag
}

func (*bcdTag) PackTag(tag, size int) ([]byte, error) {
	if size < 1 || size > 9 {
		return nil, fmt.Errorf("%w: unsupported tag size %d", ErrTagRange, size)
	}
	digits, err := decimalDigits(tag, size*2)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTagRange, err)
	}
	return packNibbles(digits), nil
}

func (*bcdTag) UnpackTag(data []byte, offset, size int) (int, error) {
	if size < 1 || size > 9 {
		return 0, fmt.Errorf("%w: unsupported tag size %d", ErrTagRange, size)
	}
	if offset < 0 || offset+size > len(data) {
		return 0, fmt.Errorf("%w: tag needs %d bytes", ErrShortBuffer, size)
	}
	n, err := parseBCD(data[offset : offset+size])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTagRange, err)
	}
	return n, nil
}

// asciiTag encodes tags as zero-padded decimal characters, one per byte.
type asciiTag struct{}

// ASCIITag returns a tag codec writing one decimal character per byte.
func ASCIITag() TagCodec {
	return sharedASCIITag
}

func (*asciiTag) PackTag(tag, size int) ([]byte, error) {
	if size < 1 || size > 18 {
		return nil, fmt.Errorf("%w: unsupported tag size %d", ErrTagRange, size)
	}
	digits, err := decimalDigits(tag, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTagRange, err)
	}
	out := make([]byte, size)
	for i, d := range digits {
		out[i] = '0' + d
	}
	return out, nil
}

func (*asciiTag) UnpackTag(data []byte, offset, size int) (int, error) {
	if size < 1 || size > 18 {
		return 0, fmt.Errorf("%w: unsupported tag size %d", ErrTagRange, size)
	}
	if offset < 0 || offset+size > len(data) {
		return 0, fmt.Errorf("%w: tag needs %d bytes", ErrShortBuffer, size)
	}
	n, err := strconv.ParseUint(string(data[offset:offset+size]), 10, 63)
	if err != nil || !allDigits(data[offset:offset+size]) {
		return 0, fmt.Errorf("%w: %q is not decimal", ErrTagRange, data[offset:offset+size])
	}
	return int(n), nil
}
