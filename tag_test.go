package isomsg

import (
	"bytes"
	"errors"
	"testing"
)

func TestTagCodecs_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		codec TagCodec
		tag   int
		size  int
		wire  []byte
	}{
		{"binary emv", BinaryTag(), 0x9F26, 2, []byte{0x9F, 0x26}},
		{"binary one byte", BinaryTag(), 0x95, 1, []byte{0x95}},
		{"binary padded", BinaryTag(), 0x95, 2, []byte{0x00, 0x95}},
		{"bcd", BCDTag(), 95, 1, []byte{0x95}},
		{"bcd padded", BCDTag(), 7, 2, []byte{0x00, 0x07}},
		{"ascii", ASCIITag(), 7, 3, []byte("007")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wire, err := tt.codec.PackTag(tt.tag, tt.size)
			if err != nil {
				t.Fatalf("PackTag() error: %v", err)
			}
			if !bytes.Equal(wire, tt.wire) {
				t.Errorf("PackTag() = %X, want %X", wire, tt.wire)
			}

			buf := append([]byte{0xEE}, wire...)
			got, err := tt.codec.UnpackTag(buf, 1, tt.size)
			if err != nil {
				t.Fatalf("UnpackTag() error: %v", err)
			}
			if got != tt.tag {
				t.Errorf("UnpackTag() = %d, want %d", got, tt.tag)
			}
		})
	}
}

func TestTagCodecs_Range(t *testing.T) {
	tests := []struct {
		name  string
		codec TagCodec
		tag   int
		size  int
	}{
		{"binary overflow", BinaryTag(), 0x100, 1},
		{"binary negative", BinaryTag(), -1, 1},
		{"binary zero size", BinaryTag(), 1, 0},
		{"bcd overflow", BCDTag(), 100, 1},
		{"ascii overflow", ASCIITag(), 1000, 3},
		{"no tag with size", NoTag(), 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.codec.PackTag(tt.tag, tt.size); !errors.Is(err, ErrTagRange) {
				t.Errorf("PackTag() error = %v, want ErrTagRange", err)
			}
		})
	}
}

func TestTagCodecs_UnpackErrors(t *testing.T) {
	if _, err := BinaryTag().UnpackTag([]byte{0x9F}, 0, 2); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("binary short error = %v", err)
	}
	if _, err := BCDTag().UnpackTag([]byte{0x9A}, 0, 1); !errors.Is(err, ErrTagRange) {
		t.Errorf("bcd non-decimal error = %v", err)
	}
	if _, err := ASCIITag().UnpackTag([]byte("0A7"), 0, 3); !errors.Is(err, ErrTagRange) {
		t.Errorf("ascii non-decimal error = %v", err)
	}
	if _, err := ASCIITag().UnpackTag([]byte("07"), 0, 3); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("ascii short error = %v", err)
	}
}

func TestNoTag(t *testing.T) {
	b, err := NoTag().PackTag(0, 0)
	if err != nil || len(b) != 0 {
		t.Errorf("PackTag(0, 0) = %X, %v", b, err)
	}
	n, err := NoTag().UnpackTag(nil, 0, 0)
	if err != nil || n != 0 {
		t.Errorf("UnpackTag() = %d, %v", n, err)
	}
}

func TestTagCodecs_Shared(t *testing.T) {
	if NoTag() != NoTag() {
		t.Error("NoTag() should return one instance")
	}
	if BinaryTag() != BinaryTag() {
		t.Error("BinaryTag() should return one instance")
	}
	if BCDTag() != BCDTag() || ASCIITag() != ASCIITag() {
		t.Error("tag constructors should return shared instances")
	}
	if BinaryTag() == BCDTag() {
		t.Error("distinct codecs should not compare equal")
	}
}
