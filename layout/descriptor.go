package layout

import (
	"github.com/wippyai/bitpack/errors"
	"lukechampine.com/uint128"
)

// Descriptor is the static table of layout facts for one record type.
// Generated code emits it as a package-level variable so the layout can be
// queried without recomputing it.
type Descriptor struct {
	AllOnes        uint128.Uint128
	Name           string
	Fields         []FieldDescriptor
	TotalWidth     int
	ContainerWidth int
}

// FieldDescriptor describes one field of a Descriptor.
type FieldDescriptor struct {
	Mask  uint128.Uint128
	Name  string
	Start int
	Size  int
}

// Descriptor returns the layout facts of l.
func (l *Layout) Descriptor() Descriptor {
	fields := make([]FieldDescriptor, len(l.Fields))
	for i, f := range l.Fields {
		fields[i] = FieldDescriptor{
			Name:  f.Name,
			Start: f.Offset,
			Size:  f.Width,
			Mask:  f.Mask,
		}
	}
	return Descriptor{
		Name:           l.Name,
		TotalWidth:     l.TotalWidth,
		ContainerWidth: l.Container.Bits(),
		AllOnes:        l.AllOnes,
		Fields:         fields,
	}
}

// Field returns the named field descriptor.
func (d Descriptor) Field(name string) (FieldDescriptor, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// Layout rebuilds a compiled layout from the descriptor's field starts and
// sizes. The stored masks, all-ones value and container width must agree
// with the rebuilt layout, so a hand-edited descriptor whose masks overlap
// or drift from Start/Size is rejected with KindInvalidData.
func (d Descriptor) Layout() (*Layout, error) {
	spec := RecordSpec{Name: d.Name, Fields: make([]FieldSpec, len(d.Fields))}
	for i, f := range d.Fields {
		spec.Fields[i] = FieldSpec{Name: f.Name, Offset: f.Start, Width: f.Size}
	}
	l, err := Compile(spec)
	if err != nil {
		return nil, err
	}

	mismatch := func(field, what string, have, want uint128.Uint128) error {
		return errors.New(errors.PhaseLayout, errors.KindInvalidData).
			Record(d.Name).
			Field(field).
			Value(Hex(have, l.Container)).
			Detail("descriptor %s is %s, layout gives %s", what, Hex(have, l.Container), Hex(want, l.Container)).
			Build()
	}
	if d.ContainerWidth != l.Container.Bits() {
		return nil, errors.New(errors.PhaseLayout, errors.KindInvalidData).
			Record(d.Name).
			Value(d.ContainerWidth).
			Detail("descriptor container is %d bits, layout gives %d", d.ContainerWidth, l.Container.Bits()).
			Build()
	}
	if !d.AllOnes.Equals(l.AllOnes) {
		return nil, mismatch("", "all-ones", d.AllOnes, l.AllOnes)
	}
	for i, f := range d.Fields {
		if !f.Mask.Equals(l.Fields[i].Mask) {
			return nil, mismatch(f.Name, "mask of "+f.Name, f.Mask, l.Fields[i].Mask)
		}
	}
	return l, nil
}
