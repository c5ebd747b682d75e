package isomsg

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBCD(t *testing.T) {
	tests := []struct {
		name    string
		codec   BodyCodec
		in      any
		wire    []byte
		decoded string
	}{
		{"even", BCD(PadNone, 0), "1234", []byte{0x12, 0x34}, "1234"},
		{"odd left zero", BCD(PadLeft, 0), "123", []byte{0x01, 0x23}, "0123"},
		{"odd right F", BCD(PadRight, 0xF), "123", []byte{0x12, 0x3F}, "123"},
		{"odd left F", BCD(PadLeft, 0xF), "1", []byte{0xF1}, "1"},
		{"integer", BCD(PadLeft, 0), uint64(42), []byte{0x42}, "42"},
		{"int", BCD(PadLeft, 0), 7, []byte{0x07}, "07"},
		{"bytes", BCD(PadNone, 0), []byte("00"), []byte{0x00}, "00"},
		{"empty", BCD(PadNone, 0), "", []byte{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wire, err := tt.codec.Encode(tt.in)
			if err != nil {
				t.Fatalf("Encode() error: %v", err)
			}
			if !bytes.Equal(wire, tt.wire) {
				t.Errorf("Encode() = %X, want %X", wire, tt.wire)
			}
			got, err := tt.codec.Decode(wire)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if got != tt.decoded {
				t.Errorf("Decode() = %v, want %q", got, tt.decoded)
			}
		})
	}
}

func TestBCD_Errors(t *testing.T) {
	if _, err := BCD(PadNone, 0).Encode("123"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("odd without padding error = %v", err)
	}
	if _, err := BCD(PadLeft, 0).Encode("12a"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("non-decimal error = %v", err)
	}
	if _, err := BCD(PadLeft, 0).Encode(-5); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("negative error = %v", err)
	}
	if _, err := BCD(PadNone, 0).Decode([]byte{0x1A}); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("non-digit nibble error = %v", err)
	}
	if _, err := BCD(PadLeft, 0xF).Decode([]byte{0x1F}); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("fill on the wrong side error = %v", err)
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		name    string
		codec   BodyCodec
		in      any
		wire    []byte
		decoded string
	}{
		{"ascii", ASCII(), "TERM01", []byte("TERM01"), "TERM01"},
		{"ascii pad right", ASCII(WithPadding(PadRight, ' ', 8)), "TERM01", []byte("TERM01  "), "TERM01"},
		{"ascii pad left", ASCII(WithPadding(PadLeft, '0', 5)), "42", []byte("00042"), "42"},
		{"ascii integer", ASCII(), uint16(300), []byte("300"), "300"},
		{"ebcdic", EBCDIC(), "AB 1", []byte{0xC1, 0xC2, 0x40, 0xF1}, "AB 1"},
		{"ebcdic padded", EBCDIC(WithPadding(PadRight, ' ', 3)), "A", []byte{0xC1, 0x40, 0x40}, "A"},
		{"passthrough", Text(nil), "héllo", []byte("héllo"), "héllo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wire, err := tt.codec.Encode(tt.in)
			if err != nil {
				t.Fatalf("Encode() error: %v", err)
			}
			if !bytes.Equal(wire, tt.wire) {
				t.Errorf("Encode() = %X, want %X", wire, tt.wire)
			}
			got, err := tt.codec.Decode(wire)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if got != tt.decoded {
				t.Errorf("Decode() = %q, want %q", got, tt.decoded)
			}
		})
	}
}

func TestText_Errors(t *testing.T) {
	tests := []struct {
		name  string
		codec BodyCodec
		in    any
	}{
		{"non-ascii", ASCII(), "héllo"},
		{"too wide", ASCII(WithPadding(PadRight, ' ', 4)), "TERMINAL"},
		{"short without padding", ASCII(WithPadding(PadNone, ' ', 4)), "ab"},
		{"unsupported type", ASCII(), 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.codec.Encode(tt.in); !errors.Is(err, ErrInvalidValue) {
				t.Errorf("Encode() error = %v, want ErrInvalidValue", err)
			}
		})
	}

	if _, err := ASCII().Decode([]byte{0xC1}); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Decode(non-ascii) error = %v", err)
	}
}

func TestBinary(t *testing.T) {
	in := []byte{1, 2, 3}
	wire, err := Binary().Encode(in)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	in[0] = 9
	if wire[0] != 1 {
		t.Error("Encode() should copy its input")
	}

	got, err := Binary().Decode(wire)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if diff := cmp.Diff([]byte{1, 2, 3}, got); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}

	if s, _ := Binary().Encode("ab"); string(s) != "ab" {
		t.Errorf("Encode(string) = %q", s)
	}
	if _, err := Binary().Encode(5); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Encode(int) error = %v", err)
	}
}

func TestHex(t *testing.T) {
	wire, err := Hex().Encode("0a0B")
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if !bytes.Equal(wire, []byte{0x0A, 0x0B}) {
		t.Errorf("Encode() = %X", wire)
	}
	if got, _ := Hex().Decode(wire); got != "0A0B" {
		t.Errorf("Decode() = %v, want uppercase", got)
	}
	if _, err := Hex().Encode("zz"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Encode(zz) error = %v", err)
	}
	if _, err := Hex().Encode([]byte{1}); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Encode([]byte) error = %v", err)
	}
}

func TestUint(t *testing.T) {
	tests := []struct {
		in   any
		wire []byte
	}{
		{7, []byte{0x00, 0x07}},
		{uint8(255), []byte{0x00, 0xFF}},
		{int64(65535), []byte{0xFF, 0xFF}},
		{"300", []byte{0x01, 0x2C}},
	}

	codec := Uint(2)
	for _, tt := range tests {
		wire, err := codec.Encode(tt.in)
		if err != nil {
			t.Fatalf("Encode(%v) error: %v", tt.in, err)
		}
		if !bytes.Equal(wire, tt.wire) {
			t.Errorf("Encode(%v) = %X, want %X", tt.in, wire, tt.wire)
		}
		got, err := codec.Decode(wire)
		if err != nil {
			t.Fatalf("Decode() error: %v", err)
		}
		if _, ok := got.(uint64); !ok {
			t.Errorf("Decode() type = %T, want uint64", got)
		}
	}

	for _, bad := range []any{70000, -1, "x", 2.5} {
		if _, err := codec.Encode(bad); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("Encode(%v) error = %v, want ErrInvalidValue", bad, err)
		}
	}
	if _, err := codec.Decode([]byte{1, 2, 3}); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Decode(3 bytes) error = %v", err)
	}
}

func TestPadSide_String(t *testing.T) {
	for side, want := range map[PadSide]string{PadNone: "none", PadLeft: "left", PadRight: "right"} {
		if got := side.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
