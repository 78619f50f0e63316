package modulo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mod8 struct{}

func (mod8) Modulus() uint8 { return 8 }

type mod200 struct{}

func (mod200) Modulus() uint8 { return 200 }

type mod255 struct{}

func (mod255) Modulus() uint8 { return math.MaxUint8 }

type mod1000 struct{}

func (mod1000) Modulus() uint16 { return 1000 }

type modMax64 struct{}

func (modMax64) Modulus() uint64 { return math.MaxUint64 }

type modZero struct{}

func (modZero) Modulus() uint32 { return 0 }

func TestNew(t *testing.T) {
	n := New[uint8, mod8](0).Add(New[uint8, mod8](1))
	assert.Equal(t, uint8(1), n.Value())

	m := New[uint16, mod1000](1001)
	assert.Equal(t, uint16(1), m.Value())
	assert.Equal(t, uint16(1000), m.Modulus())
	assert.Equal(t, "1 (mod 1000)", m.String())

	assert.Equal(t, uint8(7), New[uint8, mod8](255).Value())
}

func TestZeroModulusPanics(t *testing.T) {
	assert.Panics(t, func() {
		New[uint32, modZero](1)
	})
}

func exhaustive[N Modulus[uint8]](t *testing.T) {
	n := uint(New[uint8, N](0).Modulus())
	for a := uint(0); a < n; a++ {
		for b := uint(0); b < n; b++ {
			x := New[uint8, N](uint8(a))
			y := New[uint8, N](uint8(b))
			if got, want := x.Add(y).Value(), uint8((a+b)%n); got != want {
				t.Fatalf("%d + %d mod %d = %d, want %d", a, b, n, got, want)
			}
			if got, want := x.Sub(y).Value(), uint8((a+n-b)%n); got != want {
				t.Fatalf("%d - %d mod %d = %d, want %d", a, b, n, got, want)
			}
		}
	}
}

func TestArithmetic_Exhaustive(t *testing.T) {
	t.Run("mod8", exhaustive[mod8])
	t.Run("mod200", exhaustive[mod200])
	t.Run("mod255", exhaustive[mod255])
}

func TestArithmetic_NoOverflow(t *testing.T) {
	big := New[uint64, modMax64](math.MaxUint64 - 1)
	one := New[uint64, modMax64](1)

	assert.Equal(t, uint64(0), big.Add(one).Value())
	assert.Equal(t, uint64(math.MaxUint64-2), big.Add(big).Value())
	assert.Equal(t, uint64(math.MaxUint64-2), one.Sub(New[uint64, modMax64](3)).Value())
	assert.Equal(t, uint64(0), New[uint64, modMax64](math.MaxUint64).Value())
}
