// Package record provides run-time accessors over a compiled layout.
//
// A Schema holds one Accessor per field, each a set of closures bound to the
// field's offset and mask. Records are single container values held as
// uint128.Uint128 and always restricted to the container width.
package record

import (
	"fmt"
	"strings"

	"github.com/wippyai/bitpack/errors"
	"github.com/wippyai/bitpack/layout"
	"lukechampine.com/uint128"
)

// Accessor is the closure table for one field. Flag fields fill IsSet,
// Raise, Unset and Toggle; multi-bit fields fill Set. Get is always set
// and returns the field value shifted down to bit 0.
type Accessor struct {
	Get    func(v uint128.Uint128) uint128.Uint128
	Set    func(v, value uint128.Uint128) uint128.Uint128
	IsSet  func(v uint128.Uint128) bool
	Raise  func(v uint128.Uint128) uint128.Uint128
	Unset  func(v uint128.Uint128) uint128.Uint128
	Toggle func(v uint128.Uint128) uint128.Uint128
	Field  layout.Field
}

// Option configures a Schema.
type Option func(*Schema)

// WithLegacyUnset makes flag Unset keep only the flag's own bit (v & mask)
// instead of clearing it. This reproduces a known defect in older
// generated code and exists for byte-for-byte compatibility only.
func WithLegacyUnset() Option {
	return func(s *Schema) {
		s.legacyUnset = true
	}
}

// Schema is the accessor table of one record type. It is immutable and
// safe for concurrent use.
type Schema struct {
	layout      *layout.Layout
	index       map[string]int
	accessors   []Accessor
	legacyUnset bool
}

// New builds the accessor table for l.
func New(l *layout.Layout, opts ...Option) *Schema {
	s := &Schema{
		layout: l,
		index:  make(map[string]int, len(l.Fields)),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.accessors = make([]Accessor, len(l.Fields))
	for i, f := range l.Fields {
		s.index[f.Name] = i
		if f.IsFlag() {
			s.accessors[i] = flagAccessor(f, s.legacyUnset)
		} else {
			s.accessors[i] = numberAccessor(f, l.AllOnes)
		}
	}
	return s
}

func flagAccessor(f layout.Field, legacyUnset bool) Accessor {
	mask := f.Mask
	off := uint(f.Offset)
	keep := mask.Xor(uint128.Max)

	a := Accessor{
		Field: f,
		Get: func(v uint128.Uint128) uint128.Uint128 {
			return v.Rsh(off).And64(1)
		},
		IsSet: func(v uint128.Uint128) bool {
			return v.Rsh(off).And64(1).Equals64(1)
		},
		Raise: func(v uint128.Uint128) uint128.Uint128 {
			return v.Or(mask)
		},
		Unset: func(v uint128.Uint128) uint128.Uint128 {
			return v.And(keep)
		},
		Toggle: func(v uint128.Uint128) uint128.Uint128 {
			return v.Xor(mask)
		},
	}
	if legacyUnset {
		a.Unset = func(v uint128.Uint128) uint128.Uint128 {
			return v.And(mask)
		}
	}
	return a
}

func numberAccessor(f layout.Field, allOnes uint128.Uint128) Accessor {
	mask := f.Mask
	off := uint(f.Offset)
	valueMask := f.ValueMask()
	keep := allOnes.Xor(mask)

	return Accessor{
		Field: f,
		Get: func(v uint128.Uint128) uint128.Uint128 {
			return v.Rsh(off).And(valueMask)
		},
		Set: func(v, value uint128.Uint128) uint128.Uint128 {
			return v.And(keep).Or(value.And(valueMask).Lsh(off))
		},
	}
}

// Layout returns the compiled layout the schema was built from.
func (s *Schema) Layout() *layout.Layout {
	return s.layout
}

// Name returns the record type name.
func (s *Schema) Name() string {
	return s.layout.Name
}

// LegacyUnset reports whether the schema was built WithLegacyUnset.
func (s *Schema) LegacyUnset() bool {
	return s.legacyUnset
}

// Accessors returns the accessor table in field order.
func (s *Schema) Accessors() []Accessor {
	return s.accessors
}

// Accessor returns the named field's accessor.
func (s *Schema) Accessor(name string) (Accessor, bool) {
	i, ok := s.index[name]
	if !ok {
		return Accessor{}, false
	}
	return s.accessors[i], true
}

// New returns a record holding v. Bits outside the container are dropped.
func (s *Schema) New(v uint128.Uint128) *Record {
	return &Record{schema: s, v: v.And(s.layout.AllOnes)}
}

// Zero returns a record with every bit clear.
func (s *Schema) Zero() *Record {
	return &Record{schema: s}
}

// Record is one container value of a schema's type. It is not safe for
// concurrent mutation.
type Record struct {
	schema *Schema
	v      uint128.Uint128
}

// Schema returns the record's schema.
func (r *Record) Schema() *Schema {
	return r.schema
}

// Value returns the raw container value.
func (r *Record) Value() uint128.Uint128 {
	return r.v
}

func (r *Record) accessor(name string) (Accessor, error) {
	a, ok := r.schema.Accessor(name)
	if !ok {
		err := errors.NotFound(errors.PhaseRuntime, "field", name)
		err.Record = r.schema.Name()
		return Accessor{}, err
	}
	return a, nil
}

func (r *Record) flag(name, op string) (Accessor, error) {
	a, err := r.accessor(name)
	if err != nil {
		return Accessor{}, err
	}
	if !a.Field.IsFlag() {
		return Accessor{}, errors.New(errors.PhaseRuntime, errors.KindUnsupported).
			Record(r.schema.Name()).
			Field(name).
			Detail("%s needs a single-bit field, %q is %d bits", op, name, a.Field.Width).
			Build()
	}
	return a, nil
}

// Get returns the named field's value shifted down to bit 0. Flags read
// as 0 or 1.
func (r *Record) Get(name string) (uint128.Uint128, error) {
	a, err := r.accessor(name)
	if err != nil {
		return uint128.Zero, err
	}
	return a.Get(r.v), nil
}

// Set stores value into a multi-bit field. value is reduced modulo
// 2^width; excess high bits are silently discarded.
func (r *Record) Set(name string, value uint128.Uint128) (*Record, error) {
	a, err := r.accessor(name)
	if err != nil {
		return r, err
	}
	if a.Field.IsFlag() {
		return r, errors.New(errors.PhaseRuntime, errors.KindUnsupported).
			Record(r.schema.Name()).
			Field(name).
			Detail("set with a value needs a multi-bit field, %q is a flag", name).
			Build()
	}
	r.v = a.Set(r.v, value)
	return r, nil
}

// Bool reports whether the named flag is set.
func (r *Record) Bool(name string) (bool, error) {
	a, err := r.flag(name, "bool")
	if err != nil {
		return false, err
	}
	return a.IsSet(r.v), nil
}

// Raise sets the named flag.
func (r *Record) Raise(name string) (*Record, error) {
	a, err := r.flag(name, "raise")
	if err != nil {
		return r, err
	}
	r.v = a.Raise(r.v)
	return r, nil
}

// Unset clears the named flag.
func (r *Record) Unset(name string) (*Record, error) {
	a, err := r.flag(name, "unset")
	if err != nil {
		return r, err
	}
	r.v = a.Unset(r.v)
	return r, nil
}

// Toggle flips the named flag.
func (r *Record) Toggle(name string) (*Record, error) {
	a, err := r.flag(name, "toggle")
	if err != nil {
		return r, err
	}
	r.v = a.Toggle(r.v)
	return r, nil
}

// String renders the record as Name{field: value, ...}, flags as booleans.
func (r *Record) String() string {
	var b strings.Builder
	b.WriteString(r.schema.Name())
	b.WriteByte('{')
	for i, a := range r.schema.accessors {
		if i > 0 {
			b.WriteString(", ")
		}
		if a.Field.IsFlag() {
			fmt.Fprintf(&b, "%s: %t", a.Field.Name, a.IsSet(r.v))
		} else {
			fmt.Fprintf(&b, "%s: %s", a.Field.Name, a.Get(r.v))
		}
	}
	b.WriteByte('}')
	return b.String()
}
