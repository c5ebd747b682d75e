package isomsg

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/blake2b"
)

// panMasker keeps the leading characters of a primary account number.
type panMasker struct {
	fill rune
}

// PANMasker returns a masker for primary account numbers.
// Keeps the leading 4 characters and fills the rest: 4111111111111111 -> 4111************
func PANMasker(fill rune) Masker {
	return &panMasker{fill: fill}
}

func (m *panMasker) MaskHex(hex string) string {
	return keepLeading(hex, 4, m.fill)
}

func (m *panMasker) MaskValue(v any) string {
	return keepLeading(valueString(v), 4, m.fill)
}

// keepLeading keeps the first n runes of s and replaces the rest with fill.
func keepLeading(s string, n int, fill rune) string {
	runes := []rune(s)
	if len(runes) <= n {
		return strings.Repeat(string(fill), len(runes))
	}
	return string(runes[:n]) + strings.Repeat(string(fill), len(runes)-n)
}

// fullMasker replaces every character.
type fullMasker struct {
	fill rune
}

// FullMasker returns a masker replacing every character with fill,
// preserving only the length.
func FullMasker(fill rune) Masker {
	return &fullMasker{fill: fill}
}

func (m *fullMasker) MaskHex(hex string) string {
	return strings.Repeat(string(m.fill), len([]rune(hex)))
}

func (m *fullMasker) MaskValue(v any) string {
	return strings.Repeat(string(m.fill), len([]rune(valueString(v))))
}

// lastFourMasker masks card format: 4111111111111111 -> ************1111
type lastFourMasker struct {
	fill rune
}

// LastFourMasker returns a masker for receipts and customer facing text.
// MaskValue keeps the last 4 digits and drops separators; MaskHex keeps the
// last 4 hex characters and preserves the length.
func LastFourMasker(fill rune) Masker {
	return &lastFourMasker{fill: fill}
}

func (m *lastFourMasker) MaskHex(hex string) string {
	return keepTrailing(hex, 4, m.fill)
}

func (m *lastFourMasker) MaskValue(v any) string {
	value := valueString(v)
	digits := extractDigits(value)
	if len(digits) < 4 {
		return strings.Repeat(string(m.fill), utf8.RuneCountInString(value))
	}
	return strings.Repeat(string(m.fill), len(digits)-4) + digits[len(digits)-4:]
}

// keepTrailing keeps the last n runes of s and replaces the rest with fill.
func keepTrailing(s string, n int, fill rune) string {
	runes := []rune(s)
	if len(runes) <= n {
		return strings.Repeat(string(fill), len(runes))
	}
	return strings.Repeat(string(fill), len(runes)-n) + string(runes[len(runes)-n:])
}

// extractDigits returns only the digit characters from a string.
func extractDigits(s string) string {
	var digits strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	return digits.String()
}

// nameMasker masks names: JOHN SMITH -> J*** S****
type nameMasker struct{}

// NameMasker returns a masker for cardholder names.
// Preserves first letter of each word, masks the rest.
func NameMasker() Masker {
	return &nameMasker{}
}

func (m *nameMasker) MaskHex(hex string) string {
	return strings.Repeat("*", len(hex))
}

func (m *nameMasker) MaskValue(v any) string {
	words := strings.Fields(valueString(v))
	masked := make([]string, len(words))

	for i, word := range words {
		runes := []rune(word)
		masked[i] = string(runes[0]) + strings.Repeat("*", len(runes)-1)
	}

	return strings.Join(masked, " ")
}

// digestMasker renders a keyed BLAKE2b fingerprint.
type digestMasker struct {
	key []byte
}

// DigestMasker returns a masker that replaces values with a short keyed
// BLAKE2b-256 fingerprint, so the same card number yields the same token in
// every log line without the number being recoverable. The key may be empty
// and must not exceed 64 bytes.
func DigestMasker(key []byte) (Masker, error) {
	if len(key) > blake2b.Size {
		return nil, ErrInvalidKey
	}
	return &digestMasker{key: append([]byte(nil), key...)}, nil
}

func (m *digestMasker) MaskHex(hex string) string {
	return m.digest([]byte(strings.ToUpper(hex)))
}

func (m *digestMasker) MaskValue(v any) string {
	return m.digest([]byte(valueString(v)))
}

func (m *digestMasker) digest(b []byte) string {
	h, err := blake2b.New256(m.key)
	if err != nil {
		// Key length is checked by DigestMasker.
		panic(err)
	}
	h.Write(b)
	return "#" + EncodeHex(h.Sum(nil)[:8])
}
