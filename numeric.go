package isomsg

import (
	"fmt"
	"math"
)

// maxUnsigned returns the largest value representable in size bytes.
func maxUnsigned(size int) uint64 {
	if size >= 8 {
		return math.MaxUint64
	}
	return 1<<(uint(size)*8) - 1
}

// putUnsigned writes v big-endian into size bytes. v must fit.
func putUnsigned(v uint64, size int) []byte {
	out := make([]byte, size)
	for i := size - 1; i >= 0; i-- {
		out[i] = byte(v)
		v >>= 8
	}
	return out
}

// readUnsigned reads a big-endian unsigned integer of up to 8 bytes.
func readUnsigned(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

// decimalDigits returns n as exactly count decimal digits (values 0-9),
// zero-padded on the left.
func decimalDigits(n, count int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative value %d", n)
	}
	out := make([]byte, count)
	v := n
	for i := count - 1; i >= 0; i-- {
		out[i] = byte(v % 10)
		v /= 10
	}
	if v != 0 {
		return nil, fmt.Errorf("%d does not fit in %d digits", n, count)
	}
	return out, nil
}

// packNibbles packs an even number of nibble values two per byte.
func packNibbles(nibbles []byte) []byte {
	out := make([]byte, len(nibbles)/2)
	for i := range out {
		out[i] = nibbles[2*i]<<4 | nibbles[2*i+1]&0x0F
	}
	return out
}

// parseBCD decodes packed decimal bytes into an integer.
func parseBCD(b []byte) (int, error) {
	n := 0
	for _, c := range b {
		hi, lo := int(c>>4), int(c&0x0F)
		if hi > 9 || lo > 9 {
			return 0, fmt.Errorf("byte %02X is not packed decimal", c)
		}
		if n > (math.MaxInt-99)/100 {
			return 0, fmt.Errorf("packed decimal overflows")
		}
		n = n*100 + hi*10 + lo
	}
	return n, nil
}

func allDigits(b []byte) bool {
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// pow10 returns 10^n saturated at math.MaxInt.
func pow10(n int) int {
	v := 1
	for i := 0; i < n; i++ {
		if v > math.MaxInt/10 {
			return math.MaxInt
		}
		v *= 10
	}
	return v
}
