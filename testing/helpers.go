// Package testing provides test utilities for isomsg.
package testing

import (
	"strings"

	"github.com/zoobzio/isomsg"
)

// TestKey returns a valid 32-byte AES key for testing.
func TestKey() []byte {
	return []byte("32-byte-key-for-aes-256-encrypt!")
}

// TestEncryptor returns an AES encryptor configured for testing.
func TestEncryptor() isomsg.Encryptor {
	enc, err := isomsg.AES(TestKey())
	if err != nil {
		panic(err)
	}
	return enc
}

// EMV tags used by the reference schema.
const (
	TagCryptogram = 0x9F26
	TagATC        = 0x9F36
	TagTVR        = 0x95
)

// AuthSchema returns a reference ISO-8583 style authorization layout:
//
//	mti                 fixed 2, BCD
//	fields              extended bitmap, 8-byte blocks, 2 blocks
//	  pan          (2)  BCD length, BCD padded with F, PAN masked
//	  processing   (3)  fixed 3, BCD
//	  amount       (4)  fixed 6, BCD
//	  stan        (11)  fixed 3, BCD
//	  local_time  (12)  fixed 3, BCD
//	  terminal_id (41)  fixed 8, ASCII padded with spaces
//	  merchant    (43)  BCD length, EBCDIC, name masked
//	  icc         (55)  binary length, TLV with 2-byte binary tags
//	    cryptogram      tag 9F26, fixed 8
//	    atc             tag 9F36, 1-byte length, 2-byte integer
//	    tvr             tag 95, fixed 5
//	  mac        (128)  fixed 8, binary
func AuthSchema() *isomsg.Field {
	schema, err := AuthBuilder().Build()
	if err != nil {
		panic(err)
	}
	return schema
}

// AuthBuilder returns the builder behind AuthSchema, positioned at the root.
func AuthBuilder() *isomsg.Builder {
	return isomsg.NewBuilder(isomsg.KindMessage).Name("auth").
		Child(isomsg.KindFixed).Name("mti").FixedLength(2).Body(isomsg.BCD(isomsg.PadLeft, 0)).Parent().
		Child(isomsg.KindBitmap).Name("fields").Bitmap(isomsg.ExtendedBitmap(8, 2)).Body(isomsg.BCD(isomsg.PadLeft, 0)).
		Child(isomsg.KindLengthPrefixed).Name("pan").Bit(2).MaxLength(10).
		Length(isomsg.BCDLength(1)).Body(isomsg.BCD(isomsg.PadRight, 0xF)).Masker(isomsg.PANMasker('*')).Parent().
		Child(isomsg.KindFixed).Name("processing").Bit(3).FixedLength(3).Parent().
		Child(isomsg.KindFixed).Name("amount").Bit(4).FixedLength(6).Parent().
		Child(isomsg.KindFixed).Name("stan").Bit(11).FixedLength(3).Parent().
		Child(isomsg.KindFixed).Name("local_time").Bit(12).FixedLength(3).Parent().
		Child(isomsg.KindFixed).Name("terminal_id").Bit(41).FixedLength(8).
		Body(isomsg.ASCII(isomsg.WithPadding(isomsg.PadRight, ' ', 8))).Parent().
		Child(isomsg.KindLengthPrefixed).Name("merchant").Bit(43).MaxLength(40).
		Length(isomsg.BCDLength(1)).Body(isomsg.EBCDIC()).Masker(isomsg.NameMasker()).Parent().
		Child(isomsg.KindLengthPrefixed).Name("icc").Bit(55).MaxLength(255).
		Length(isomsg.BinaryLength(2)).Tag(isomsg.BinaryTag(), 2).Body(isomsg.Binary()).
		Child(isomsg.KindTagged).Name("cryptogram").TagNumber(TagCryptogram).FixedLength(8).Parent().
		Child(isomsg.KindTagged).Name("atc").TagNumber(TagATC).Length(isomsg.BinaryLength(1)).Body(isomsg.Uint(2)).Parent().
		Child(isomsg.KindTagged).Name("tvr").TagNumber(TagTVR).FixedLength(5).Parent().
		Parent().
		Child(isomsg.KindFixed).Name("mac").Bit(128).FixedLength(8).Body(isomsg.Binary()).
		Root()
}

// AuthValues lists the values SampleAuth assigns, keyed by dotted path.
func AuthValues() map[string]any {
	return map[string]any{
		"mti":                   "0100",
		"fields.pan":            "4111111111111111",
		"fields.processing":     "000000",
		"fields.amount":         "000000001000",
		"fields.stan":           "000123",
		"fields.local_time":     "235959",
		"fields.terminal_id":    "TERM01",
		"fields.merchant":       "Corner Shop",
		"fields.icc.cryptogram": []byte{0x1A, 0x2B, 0x3C, 0x4D, 0x5E, 0x6F, 0x70, 0x81},
		"fields.icc.atc":        uint64(7),
		"fields.icc.tvr":        []byte{0x00, 0x00, 0x04, 0x80, 0x00},
		"fields.mac":            []byte{1, 2, 3, 4, 5, 6, 7, 8},
	}
}

// SampleAuth returns a holder for AuthSchema filled with AuthValues.
func SampleAuth(schema *isomsg.Field) *isomsg.Holder {
	h := isomsg.New(schema)
	for path, v := range AuthValues() {
		if err := h.SetValue(v, Path(path)...); err != nil {
			panic(err)
		}
	}
	return h
}

// Path splits a dotted path into holder path segments.
func Path(dotted string) []string {
	return strings.Split(dotted, ".")
}

// AuthCard is a struct view of the authorization fields for binder tests.
type AuthCard struct {
	MTI      string `isomsg:"mti"`
	PAN      string `isomsg:"fields.pan"`
	Amount   string `isomsg:"fields.amount"`
	STAN     string `isomsg:"fields.stan"`
	Terminal string `isomsg:"fields.terminal_id"`
	ICC      *AuthICC
	Note     string
}

// AuthICC holds the chip data of AuthCard.
type AuthICC struct {
	Cryptogram []byte `isomsg:"fields.icc.cryptogram"`
	ATC        uint16 `isomsg:"fields.icc.atc"`
}
