package isomsg

import (
	"testing"
	"time"
)

func TestDefaultStringer(t *testing.T) {
	s := DefaultStringer()

	tests := []struct {
		in   any
		want string
	}{
		{"TERM01", "TERM01"},
		{[]byte{0xAB, 0x01}, "AB01"},
		{uint64(7), "7"},
		{time.Second, "1s"},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := s.Convert(tt.in); got != tt.want {
			t.Errorf("Convert(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHexStringer(t *testing.T) {
	s := HexStringer()
	if got := s.Convert("AB"); got != "4142" {
		t.Errorf("Convert(string) = %q", got)
	}
	if got := s.Convert([]byte{0x0f}); got != "0F" {
		t.Errorf("Convert([]byte) = %q", got)
	}
	if got := s.Convert(uint64(9)); got != "9" {
		t.Errorf("Convert(uint64) = %q", got)
	}
}

func TestStringerFunc(t *testing.T) {
	s := StringerFunc(func(v any) string { return "<" + valueString(v) + ">" })
	if got := s.Convert("x"); got != "<x>" {
		t.Errorf("Convert() = %q", got)
	}
}
