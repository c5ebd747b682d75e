package isomsg

import (
	"strings"
	"testing"
)

func cardSchema(t *testing.T) *Field {
	t.Helper()
	schema, err := NewBuilder(KindMessage).Name("card").Body(ASCII()).Length(BinaryLength(1)).
		Child(KindLengthPrefixed).Name("pan").Masker(PANMasker('*')).Parent().
		Child(KindLengthPrefixed).Name("holder").Masker(NameMasker()).Parent().
		Child(KindLengthPrefixed).Name("tlv").Tag(BinaryTag(), 1).Body(Binary()).
		Child(KindTagged).Name("atc").TagNumber(0x36).FixedLength(2).Body(Uint(2)).
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return schema
}

func sampleCard(t *testing.T) *Holder {
	t.Helper()
	h := New(cardSchema(t))
	for _, set := range []struct {
		v    any
		path []string
	}{
		{"4111111111111111", []string{"pan"}},
		{"John Smith", []string{"holder"}},
		{7, []string{"tlv", "atc"}},
	} {
		if err := h.SetValue(set.v, set.path...); err != nil {
			t.Fatalf("SetValue(%v) error: %v", set.path, err)
		}
	}
	return h
}

func TestDump(t *testing.T) {
	want := "card\n" +
		"  pan: 4111************\n" +
		"  holder: J*** S****\n" +
		"  tlv\n" +
		"    atc (tag 54): 7\n"
	if got := sampleCard(t).Dump(); got != want {
		t.Errorf("Dump() =\n%s\nwant\n%s", got, want)
	}
}

func TestDump_Hex(t *testing.T) {
	got := sampleCard(t).Dump(WithHex())

	for _, line := range []string{
		"  pan: 4111************ [3431" + strings.Repeat("*", 28) + "]\n",
		"  holder: J*** S**** [" + strings.Repeat("*", 20) + "]\n",
		"    atc (tag 54): 7 [0007]\n",
	} {
		if !strings.Contains(got, line) {
			t.Errorf("Dump(WithHex()) missing %q in\n%s", line, got)
		}
	}
	if strings.Contains(got, "4111111111111111") || strings.Contains(got, "Smith") {
		t.Errorf("Dump() leaks masked values:\n%s", got)
	}
}

func TestDump_Indent(t *testing.T) {
	got := sampleCard(t).Dump(WithIndent("\t"))
	if !strings.Contains(got, "\n\t\tatc (tag 54): 7\n") {
		t.Errorf("Dump(WithIndent) =\n%s", got)
	}
}

func TestDump_Bitmap(t *testing.T) {
	h := New(bitmapSchema(t))
	mustSet(t, h, "0100", "mti")
	mustSet(t, h, "12", "fields", "a")
	mustSet(t, h, "34", "fields", "c")

	want := "msg\n  mti: 0100\n  fields bits=2,8\n    a: 12\n    c: 34\n"
	if got := h.Dump(); got != want {
		t.Errorf("Dump() =\n%s\nwant\n%s", got, want)
	}
}

func TestDump_Empty(t *testing.T) {
	if got := New(cardSchema(t)).Dump(); got != "card (empty)\n" {
		t.Errorf("Dump() = %q", got)
	}
}
