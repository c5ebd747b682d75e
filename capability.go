package isomsg

import (
	"fmt"
	"strconv"
	"unicode/utf8"
)

// Names of the strategies every Catalog starts with.
// Use them in schema documents: `body: {name: bcd, pad: left}`.
const (
	TagNone   = "none"
	TagBinary = "binary"
	TagBCD    = "bcd"
	TagASCII  = "ascii"

	LengthBinary = "binary"
	LengthBCD    = "bcd"
	LengthASCII  = "ascii"

	BodyBCD    = "bcd"
	BodyASCII  = "ascii"
	BodyEBCDIC = "ebcdic"
	BodyBinary = "binary"
	BodyHex    = "hex"
	BodyUint   = "uint"

	BitmapFixed    = "fixed"
	BitmapExtended = "extended"

	MaskPAN      = "pan"
	MaskFull     = "full"
	MaskLastFour = "last4"
	MaskName     = "name"

	StringDefault = "default"
	StringHex     = "hex"
)

// Params carries the options of a strategy reference in a schema document.
// Each strategy reads the options it understands and ignores the rest.
type Params struct {
	Size   int    `yaml:"size,omitempty"`   // header, tag or integer size in bytes
	Pad    string `yaml:"pad,omitempty"`    // none, left or right
	Fill   string `yaml:"fill,omitempty"`   // pad character, or a hex nibble for bcd
	Width  int    `yaml:"width,omitempty"`  // padded text width
	Block  int    `yaml:"block,omitempty"`  // bitmap block size in bytes
	Blocks int    `yaml:"blocks,omitempty"` // maximum bitmap blocks
	Hex    bool   `yaml:"hex,omitempty"`    // bitmap rendered as ASCII hex
}

// PadSide parses Pad. An empty value is PadNone.
func (p Params) PadSide() (PadSide, error) {
	switch p.Pad {
	case "", "none":
		return PadNone, nil
	case "left":
		return PadLeft, nil
	case "right":
		return PadRight, nil
	default:
		return PadNone, fmt.Errorf("unknown pad side %q", p.Pad)
	}
}

// FillRune returns the first character of Fill, or def when Fill is empty.
func (p Params) FillRune(def rune) rune {
	if p.Fill == "" {
		return def
	}
	r, _ := utf8.DecodeRuneInString(p.Fill)
	return r
}

// FillNibble parses Fill as one hex digit, or returns def when Fill is empty.
func (p Params) FillNibble(def byte) (byte, error) {
	if p.Fill == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(p.Fill, 16, 4)
	if err != nil {
		return 0, fmt.Errorf("fill %q is not a hex nibble", p.Fill)
	}
	return byte(n), nil
}

// Factories build a strategy from the options of a schema document
// reference.
type (
	TagFactory      func(Params) (TagCodec, error)
	LengthFactory   func(Params) (LengthCodec, error)
	BodyFactory     func(Params) (BodyCodec, error)
	BitmapFactory   func(Params) (BitmapCodec, error)
	MaskerFactory   func(Params) (Masker, error)
	StringerFactory func(Params) (Stringer, error)
)

func textOptions(p Params) ([]TextOption, error) {
	side, err := p.PadSide()
	if err != nil {
		return nil, err
	}
	if side == PadNone {
		return nil, nil
	}
	return []TextOption{WithPadding(side, p.FillRune(' '), p.Width)}, nil
}

// sized checks a size option against the supported range before a
// constructor that panics on a bad size is called.
func sized(p Params, lo, hi int) (int, error) {
	if p.Size < lo || p.Size > hi {
		return 0, fmt.Errorf("size %d outside %d-%d", p.Size, lo, hi)
	}
	return p.Size, nil
}

func registerBuiltins(c *Catalog) {
	c.RegisterTag(TagNone, func(Params) (TagCodec, error) { return NoTag(), nil })
	c.RegisterTag(TagBinary, func(Params) (TagCodec, error) { return BinaryTag(), nil })
	c.RegisterTag(TagBCD, func(Params) (TagCodec, error) { return BCDTag(), nil })
	c.RegisterTag(TagASCII, func(Params) (TagCodec, error) { return ASCIITag(), nil })

	c.RegisterLength(LengthBinary, func(p Params) (LengthCodec, error) {
		n, err := sized(p, 1, 4)
		if err != nil {
			return nil, err
		}
		return BinaryLength(n), nil
	})
	c.RegisterLength(LengthBCD, func(p Params) (LengthCodec, error) {
		n, err := sized(p, 1, 4)
		if err != nil {
			return nil, err
		}
		return BCDLength(n), nil
	})
	c.RegisterLength(LengthASCII, func(p Params) (LengthCodec, error) {
		n, err := sized(p, 1, 9)
		if err != nil {
			return nil, err
		}
		return ASCIILength(n), nil
	})

	c.RegisterBody(BodyBCD, func(p Params) (BodyCodec, error) {
		side, err := p.PadSide()
		if err != nil {
			return nil, err
		}
		fill, err := p.FillNibble(0)
		if err != nil {
			return nil, err
		}
		return BCD(side, fill), nil
	})
	c.RegisterBody(BodyASCII, func(p Params) (BodyCodec, error) {
		opts, err := textOptions(p)
		if err != nil {
			return nil, err
		}
		return ASCII(opts...), nil
	})
	c.RegisterBody(BodyEBCDIC, func(p Params) (BodyCodec, error) {
		opts, err := textOptions(p)
		if err != nil {
			return nil, err
		}
		return EBCDIC(opts...), nil
	})
	c.RegisterBody(BodyBinary, func(Params) (BodyCodec, error) { return Binary(), nil })
	c.RegisterBody(BodyHex, func(Params) (BodyCodec, error) { return Hex(), nil })
	c.RegisterBody(BodyUint, func(p Params) (BodyCodec, error) {
		n, err := sized(p, 1, 8)
		if err != nil {
			return nil, err
		}
		return Uint(n), nil
	})

	c.RegisterBitmap(BitmapFixed, func(p Params) (BitmapCodec, error) {
		n, err := sized(p, 1, 32)
		if err != nil {
			return nil, err
		}
		return hexWrapped(p, FixedBitmap(n)), nil
	})
	c.RegisterBitmap(BitmapExtended, func(p Params) (BitmapCodec, error) {
		if p.Block < 1 || p.Blocks < 1 {
			return nil, fmt.Errorf("extended bitmap needs block and blocks, got %d and %d", p.Block, p.Blocks)
		}
		return hexWrapped(p, ExtendedBitmap(p.Block, p.Blocks)), nil
	})

	c.RegisterMasker(MaskPAN, func(p Params) (Masker, error) { return PANMasker(p.FillRune('*')), nil })
	c.RegisterMasker(MaskFull, func(p Params) (Masker, error) { return FullMasker(p.FillRune('*')), nil })
	c.RegisterMasker(MaskLastFour, func(p Params) (Masker, error) { return LastFourMasker(p.FillRune('*')), nil })
	c.RegisterMasker(MaskName, func(Params) (Masker, error) { return NameMasker(), nil })

	c.RegisterStringer(StringDefault, func(Params) (Stringer, error) { return DefaultStringer(), nil })
	c.RegisterStringer(StringHex, func(Params) (Stringer, error) { return HexStringer(), nil })
}

func hexWrapped(p Params, b BitmapCodec) BitmapCodec {
	if p.Hex {
		return HexBitmap(b)
	}
	return b
}
