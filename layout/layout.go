package layout

import (
	"fmt"
	"strings"

	"github.com/wippyai/bitpack/errors"
	"go.uber.org/zap"
	"lukechampine.com/uint128"
)

// FieldSpec is one row of a field table: a named bit range.
type FieldSpec struct {
	Name   string
	Pos    errors.Pos
	Offset int
	Width  int
}

// RecordSpec is the compiler input: a record name and its ordered field table.
type RecordSpec struct {
	Name   string
	Pos    errors.Pos
	Fields []FieldSpec
}

// Field is a compiled field with its container-wide mask.
type Field struct {
	Mask   uint128.Uint128
	Name   string
	Pos    errors.Pos
	Offset int
	Width  int
}

// IsFlag reports whether the field is a single bit and gets the
// get/set/unset/toggle accessor set.
func (f Field) IsFlag() bool {
	return f.Width == 1
}

// End returns the bit just past the field.
func (f Field) End() int {
	return f.Offset + f.Width
}

// ValueMask returns the field's bits shifted down to bit 0, i.e. 2^width - 1.
func (f Field) ValueMask() uint128.Uint128 {
	return Mask(0, f.Width)
}

// Layout is a compiled record layout. It is immutable after Compile.
type Layout struct {
	index      map[string]int
	AllOnes    uint128.Uint128
	Name       string
	Pos        errors.Pos
	Fields     []Field
	TotalWidth int
	Container  Width
}

// Compile validates a field table and computes the record layout.
func Compile(spec RecordSpec) (*Layout, error) {
	if spec.Name == "" {
		return nil, errors.New(errors.PhaseLayout, errors.KindInvalidInput).
			At(spec.Pos).
			Detail("record name cannot be empty").
			Build()
	}

	l := &Layout{
		Name:   spec.Name,
		Pos:    spec.Pos,
		Fields: make([]Field, 0, len(spec.Fields)),
		index:  make(map[string]int, len(spec.Fields)),
	}

	offset := 0
	for _, fs := range spec.Fields {
		if err := checkField(spec.Name, fs, offset); err != nil {
			return nil, err
		}
		if _, dup := l.index[fs.Name]; dup {
			return nil, errors.DuplicateField(errors.PhaseLayout, spec.Name, fs.Name, fs.Pos)
		}
		l.index[fs.Name] = len(l.Fields)
		l.Fields = append(l.Fields, Field{
			Name:   fs.Name,
			Pos:    fs.Pos,
			Offset: fs.Offset,
			Width:  fs.Width,
		})
		offset += fs.Width
	}
	l.TotalWidth = offset

	container, err := SelectWidth(offset)
	if err != nil {
		return nil, errors.LayoutTooLarge(spec.Name, spec.Pos, offset)
	}
	l.Container = container
	l.AllOnes = container.AllOnes()

	for i := range l.Fields {
		l.Fields[i].Mask = Mask(l.Fields[i].Offset, l.Fields[i].Width)
	}

	Logger().Debug("layout compiled",
		zap.String("record", l.Name),
		zap.Int("total_bits", l.TotalWidth),
		zap.Int("container_bits", l.Container.Bits()),
		zap.Int("fields", len(l.Fields)))

	return l, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(spec RecordSpec) *Layout {
	l, err := Compile(spec)
	if err != nil {
		panic(err)
	}
	return l
}

func checkField(record string, fs FieldSpec, want int) error {
	if fs.Name == "" {
		return errors.New(errors.PhaseLayout, errors.KindInvalidInput).
			Record(record).
			At(fs.Pos).
			Detail("field name cannot be empty").
			Build()
	}
	if fs.Width < 1 {
		return errors.New(errors.PhaseLayout, errors.KindInvalidInput).
			Record(record).
			Field(fs.Name).
			At(fs.Pos).
			Value(fs.Width).
			Detail("field width must be at least 1 bit, got %d", fs.Width).
			Build()
	}
	if fs.Offset != want {
		return errors.New(errors.PhaseLayout, errors.KindInvalidInput).
			Record(record).
			Field(fs.Name).
			At(fs.Pos).
			Value(fs.Offset).
			Detail("field starts at bit %d, packing requires bit %d", fs.Offset, want).
			Build()
	}
	return nil
}

// Field returns the named field.
func (l *Layout) Field(name string) (Field, bool) {
	i, ok := l.index[name]
	if !ok {
		return Field{}, false
	}
	return l.Fields[i], true
}

// UsedMask returns the union of all field masks.
func (l *Layout) UsedMask() uint128.Uint128 {
	used := uint128.Zero
	for _, f := range l.Fields {
		used = used.Or(f.Mask)
	}
	return used
}

// PaddingMask returns the container bits not covered by any field.
func (l *Layout) PaddingMask() uint128.Uint128 {
	return l.AllOnes.Xor(l.UsedMask())
}

// Check verifies the mask invariants: masks are pairwise disjoint, lie inside
// the container, and their union has exactly TotalWidth bits set.
func (l *Layout) Check() error {
	used := uint128.Zero
	for _, f := range l.Fields {
		if !used.And(f.Mask).IsZero() {
			return errors.New(errors.PhaseLayout, errors.KindInvalidData).
				Record(l.Name).
				Field(f.Name).
				At(f.Pos).
				Detail("mask %s overlaps a previous field", Hex(f.Mask, l.Container)).
				Build()
		}
		used = used.Or(f.Mask)
	}
	if !used.And(l.AllOnes.Xor(uint128.Max)).IsZero() {
		return errors.New(errors.PhaseLayout, errors.KindInvalidData).
			Record(l.Name).
			Detail("fields extend past the %d-bit container", l.Container.Bits()).
			Build()
	}
	if n := used.OnesCount(); n != l.TotalWidth {
		return errors.New(errors.PhaseLayout, errors.KindInvalidData).
			Record(l.Name).
			Detail("masks cover %d bits, want %d", n, l.TotalWidth).
			Build()
	}
	return nil
}

func (l *Layout) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s(%s, %d bits)", l.Name, l.Container, l.TotalWidth)
	b.WriteString(" {")
	for i, f := range l.Fields {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, " %s@%d:%d", f.Name, f.Offset, f.Width)
	}
	b.WriteString(" }")
	return b.String()
}
