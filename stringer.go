package isomsg

import "fmt"

type defaultStringer struct{}

// DefaultStringer renders strings as-is, byte slices as uppercase hex and
// everything else with fmt.
func DefaultStringer() Stringer {
	return defaultStringer{}
}

func (defaultStringer) Convert(v any) string {
	return valueString(v)
}

type hexStringer struct{}

// HexStringer renders byte slices and strings as uppercase hex. Useful for
// binary fields whose text form is meaningless.
func HexStringer() Stringer {
	return hexStringer{}
}

func (hexStringer) Convert(v any) string {
	switch t := v.(type) {
	case []byte:
		return EncodeHex(t)
	case string:
		return EncodeHex([]byte(t))
	default:
		return valueString(v)
	}
}

func valueString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return EncodeHex(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}
