package isomsg

import "fmt"

// setBit sets 1-based bit pos in b, most significant bit first.
func setBit(b []byte, pos int) {
	b[(pos-1)/8] |= 0x80 >> uint((pos-1)%8)
}

// getBit reports whether 1-based bit pos is set in b.
func getBit(b []byte, pos int) bool {
	return b[(pos-1)/8]&(0x80>>uint((pos-1)%8)) != 0
}

// fixedBitmap is a single bitmap block of a fixed size.
type fixedBitmap struct {
	size int
}

// FixedBitmap returns a bitmap codec of exactly size bytes addressing bits 1
// through size*8.
func FixedBitmap(size int) BitmapCodec {
	if size < 1 {
		panic(fmt.Sprintf("isomsg: FixedBitmap size %d must be positive", size))
	}
	return &fixedBitmap{size: size}
}

func (f *fixedBitmap) Capacity() int { return f.size * 8 }
func (f *fixedBitmap) Reserved(_ int) bool { return false }
func (f *fixedBitmap) MaxSize() int { return f.size }

func (f *fixedBitmap) PackBitmap(bits []int) ([]byte, error) {
	out := make([]byte, f.size)
	for _, b := range bits {
		if b < 1 || b > f.Capacity() {
			return nil, fmt.Errorf("%w: bit %d outside 1-%d", ErrBitmap, b, f.Capacity())
		}
		setBit(out, b)
	}
	return out, nil
}

func (f *fixedBitmap) UnpackBitmap(data []byte, offset int) ([]int, int, error) {
	if offset < 0 || offset+f.size > len(data) {
		return nil, 0, fmt.Errorf("%w: bitmap needs %d bytes", ErrShortBuffer, f.size)
	}
	block := data[offset : offset+f.size]
	var bits []int
	for pos := 1; pos <= f.Capacity(); pos++ {
		if getBit(block, pos) {
			bits = append(bits, pos)
		}
	}
	return bits, f.size, nil
}

// extendedBitmap chains fixed-size blocks. The first bit of each block
// announces another block, as with ISO-8583 primary/secondary bitmaps.
type extendedBitmap struct {
	block     int
	maxBlocks int
}

// ExtendedBitmap returns a chained bitmap codec with blocks of block bytes
// and at most maxBlocks blocks. ExtendedBitmap(8, 2) is the classic
// primary+secondary layout addressing fields 2-64 and 66-128.
func ExtendedBitmap(block, maxBlocks int) BitmapCodec {
	if block < 1 || maxBlocks < 1 {
		panic(fmt.Sprintf("isomsg: ExtendedBitmap(%d, %d) needs positive sizes", block, maxBlocks))
	}
	return &extendedBitmap{block: block, maxBlocks: maxBlocks}
}

func (e *extendedBitmap) blockBits() int { return e.block * 8 }
func (e *extendedBitmap) Capacity() int { return e.blockBits() * e.maxBlocks }
func (e *extendedBitmap) MaxSize() int { return e.block * e.maxBlocks }

func (e *extendedBitmap) Reserved(bit int) bool {
	return bit >= 1 && (bit-1)%e.blockBits() == 0
}

func (e *extendedBitmap) PackBitmap(bits []int) ([]byte, error) {
	highest := 1
	for _, b := range bits {
		if b < 1 || b > e.Capacity() {
			return nil, fmt.Errorf("%w: bit %d outside 1-%d", ErrBitmap, b, e.Capacity())
		}
		if e.Reserved(b) {
			return nil, fmt.Errorf("%w: bit %d is a continuation bit", ErrBitmap, b)
		}
		if b > highest {
			highest = b
		}
	}
	blocks := (highest-1)/e.blockBits() + 1
	out := make([]byte, blocks*e.block)
	for i := 0; i < blocks-1; i++ {
		setBit(out, i*e.blockBits()+1)
	}
	for _, b := range bits {
		setBit(out, b)
	}
	return out, nil
}

func (e *extendedBitmap) UnpackBitmap(data []byte, offset int) ([]int, int, error) {
	var bits []int
	consumed := 0
	for i := 0; ; i++ {
		start := offset + consumed
		if start < 0 || start+e.block > len(data) {
			return nil, 0, fmt.Errorf("%w: bitmap block %d needs %d bytes", ErrShortBuffer, i+1, e.block)
		}
		block := data[start : start+e.block]
		consumed += e.block
		for pos := 2; pos <= e.blockBits(); pos++ {
			if getBit(block, pos) {
				bits = append(bits, i*e.blockBits()+pos)
			}
		}
		if !getBit(block, 1) {
			return bits, consumed, nil
		}
		if i+1 == e.maxBlocks {
			return nil, 0, fmt.Errorf("%w: continuation bit set on final block %d", ErrBitmap, i+1)
		}
	}
}

// hexBitmap renders an inner bitmap as ASCII hex characters.
type hexBitmap struct {
	inner BitmapCodec
}

// HexBitmap wraps inner so the bitmap travels as uppercase ASCII hex, two
// characters per bitmap byte.
func HexBitmap(inner BitmapCodec) BitmapCodec {
	return &hexBitmap{inner: inner}
}

func (h *hexBitmap) Capacity() int { return h.inner.Capacity() }
func (h *hexBitmap) Reserved(bit int) bool { return h.inner.Reserved(bit) }
func (h *hexBitmap) MaxSize() int { return h.inner.MaxSize() * 2 }

func (h *hexBitmap) PackBitmap(bits []int) ([]byte, error) {
	raw, err := h.inner.PackBitmap(bits)
	if err != nil {
		return nil, err
	}
	return []byte(EncodeHex(raw)), nil
}

func (h *hexBitmap) UnpackBitmap(data []byte, offset int) ([]int, int, error) {
	if offset < 0 || offset > len(data) {
		return nil, 0, fmt.Errorf("%w: bitmap offset %d", ErrShortBuffer, offset)
	}
	end := offset
	for end+1 < len(data) && end-offset < h.MaxSize() && isHexDigit(data[end]) && isHexDigit(data[end+1]) {
		end += 2
	}
	raw, err := DecodeHex(string(data[offset:end]))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrBitmap, err)
	}
	bits, n, err := h.inner.UnpackBitmap(raw, 0)
	if err != nil {
		return nil, 0, err
	}
	return bits, n * 2, nil
}
