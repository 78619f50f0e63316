// Package modulo provides unsigned integers reduced modulo a fixed
// modulus, with addition and subtraction that never overflow the
// underlying integer type.
//
// The modulus is a type parameter: a zero-size type whose Modulus method
// returns the modulus.
//
//	type mod1000 struct{}
//
//	func (mod1000) Modulus() uint16 { return 1000 }
//
//	m := modulo.New[uint16, mod1000](1001) // m.Value() == 1
package modulo

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Modulus supplies the modulus for Mod. Implementations should be
// zero-size types; Modulus must return a constant non-zero value.
type Modulus[T constraints.Unsigned] interface {
	Modulus() T
}

// Mod is a value in [0, N) held in T.
type Mod[T constraints.Unsigned, N Modulus[T]] struct {
	v T
}

func modulus[T constraints.Unsigned, N Modulus[T]]() T {
	var n N
	m := n.Modulus()
	if m == 0 {
		panic(fmt.Sprintf("modulo: zero modulus for %T", n))
	}
	return m
}

// New returns v mod N.
func New[T constraints.Unsigned, N Modulus[T]](v T) Mod[T, N] {
	n := modulus[T, N]()
	if v >= n {
		v %= n
	}
	return Mod[T, N]{v: v}
}

// Value returns the reduced value.
func (m Mod[T, N]) Value() T {
	return m.v
}

// Modulus returns N.
func (m Mod[T, N]) Modulus() T {
	return modulus[T, N]()
}

// Add returns (m + o) mod N computed as m - (N - o), so the sum never
// exceeds N and cannot overflow T.
func (m Mod[T, N]) Add(o Mod[T, N]) Mod[T, N] {
	n := modulus[T, N]()
	return m.Sub(Mod[T, N]{v: n - o.v})
}

// Sub returns (m - o) mod N without underflowing T.
func (m Mod[T, N]) Sub(o Mod[T, N]) Mod[T, N] {
	if m.v < o.v {
		return Mod[T, N]{v: modulus[T, N]() - (o.v - m.v)}
	}
	return Mod[T, N]{v: m.v - o.v}
}

func (m Mod[T, N]) String() string {
	return fmt.Sprintf("%d (mod %d)", m.v, m.Modulus())
}
