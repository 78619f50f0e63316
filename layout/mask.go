package layout

import (
	"fmt"
	"strings"

	"lukechampine.com/uint128"
)

// Mask returns a pattern with ones at bits [offset, offset+width).
// Bits shifted past bit 127 are discarded.
func Mask(offset, width int) uint128.Uint128 {
	if width <= 0 || offset < 0 || offset >= 128 {
		return uint128.Zero
	}
	if width > 128 {
		width = 128
	}
	return uint128.Max.Rsh(uint(128 - width)).Lsh(uint(offset))
}

// Hex formats v as a hexadecimal literal zero-padded to the container width.
func Hex(v uint128.Uint128, w Width) string {
	digits := (int(w) + 3) / 4
	if digits == 0 {
		digits = 1
	}
	var s string
	if v.Hi != 0 || digits > 16 {
		s = fmt.Sprintf("%x%016x", v.Hi, v.Lo)
	} else {
		s = fmt.Sprintf("%x", v.Lo)
	}
	s = strings.TrimLeft(s, "0")
	if len(s) < digits {
		s = strings.Repeat("0", digits-len(s)) + s
	}
	return "0x" + s
}

// Binary formats the low w bits of v, most significant bit first, with an
// underscore every four bits.
func Binary(v uint128.Uint128, w Width) string {
	n := int(w)
	var b strings.Builder
	b.Grow(n + n/4)
	for i := n - 1; i >= 0; i-- {
		if bit(v, i) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
		if i > 0 && i%4 == 0 {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func bit(v uint128.Uint128, i int) bool {
	if i < 64 {
		return v.Lo>>uint(i)&1 == 1
	}
	return v.Hi>>uint(i-64)&1 == 1
}
