package isomsg

import (
	"encoding/hex"
	"strings"
)

// EncodeHex renders b as uppercase hex.
func EncodeHex(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

// DecodeHex parses a hex string. Input is case-insensitive.
func DecodeHex(s string) ([]byte, error) {
	return hex.DecodeString(s)
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
