package layout

import (
	"strconv"

	"github.com/wippyai/bitpack/errors"
	"lukechampine.com/uint128"
)

// Width is the bit width of a record container.
type Width uint8

const (
	Width8   Width = 8
	Width16  Width = 16
	Width32  Width = 32
	Width64  Width = 64
	Width128 Width = 128
)

// MaxBits is the largest record the widest container can hold.
const MaxBits = int(Width128)

var containerWidths = [...]Width{Width8, Width16, Width32, Width64, Width128}

// Widths returns the standard container widths in ascending order.
func Widths() []Width {
	return containerWidths[:]
}

// SelectWidth returns the smallest standard container that holds totalBits.
func SelectWidth(totalBits int) (Width, error) {
	if totalBits < 0 {
		return 0, errors.New(errors.PhaseLayout, errors.KindInvalidInput).
			Value(totalBits).
			Detail("negative total width %d", totalBits).
			Build()
	}

	if totalBits <= 8 {
		return Width8, nil
	} else if totalBits <= 16 {
		return Width16, nil
	} else if totalBits <= 32 {
		return Width32, nil
	} else if totalBits <= 64 {
		return Width64, nil
	} else if totalBits <= 128 {
		return Width128, nil
	}

	return 0, errors.LayoutTooLarge("", errors.Pos{}, totalBits)
}

// Bits returns the width as an int.
func (w Width) Bits() int {
	return int(w)
}

// Native reports whether Go has a builtin unsigned type of this width.
func (w Width) Native() bool {
	return w <= Width64
}

// AllOnes returns a pattern with every container bit set.
func (w Width) AllOnes() uint128.Uint128 {
	if w == 0 {
		return uint128.Zero
	}
	return uint128.Max.Rsh(uint(128 - int(w)))
}

// GoType returns the Go type used to hold a container of this width.
func (w Width) GoType() string {
	if w.Native() {
		return "uint" + strconv.Itoa(int(w))
	}
	return "uint128.Uint128"
}

func (w Width) String() string {
	return "u" + strconv.Itoa(int(w))
}
