package decl

import (
	"strconv"
	"strings"

	"github.com/wippyai/bitpack/errors"
	"github.com/wippyai/bitpack/layout"
)

// Type is a declared field type: bool or an unsigned integer of N bits.
// The zero Type is invalid.
type Type struct {
	bits    int
	boolean bool
}

// Bool returns the one-bit boolean type.
func Bool() Type {
	return Type{bits: 1, boolean: true}
}

// Uint returns the u{n} type.
func Uint(n int) Type {
	return Type{bits: n}
}

// Width returns the number of bits the type occupies.
func (t Type) Width() int {
	return t.bits
}

// IsBool reports whether t is bool.
func (t Type) IsBool() bool {
	return t.boolean
}

// IsValid reports whether t is bool or u{N} with 1 <= N <= 128.
func (t Type) IsValid() bool {
	if t.boolean {
		return t.bits == 1
	}
	return t.bits >= 1 && t.bits <= layout.MaxBits
}

func (t Type) String() string {
	if t.boolean {
		return "bool"
	}
	return "u" + strconv.Itoa(t.bits)
}

// ParseType parses "bool" or "u{N}". Anything else, including u0 and
// widths above 128, is a malformed declaration.
func ParseType(s string) (Type, error) {
	t, ok := parseType(s)
	if !ok {
		return Type{}, errors.MalformedDeclaration("", "", errors.Pos{}, s)
	}
	return t, nil
}

func parseType(s string) (Type, bool) {
	if s == "bool" {
		return Bool(), true
	}
	digits, ok := strings.CutPrefix(s, "u")
	if !ok || digits == "" || digits[0] == '0' || digits[0] == '+' {
		return Type{}, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || n > layout.MaxBits {
		return Type{}, false
	}
	return Uint(n), true
}

// Field is one declared field.
type Field struct {
	Name string
	Type Type
	Pos  errors.Pos
}

// Record is one declared record type.
type Record struct {
	Name   string
	Pos    errors.Pos
	Fields []Field
}

// Validate checks names, field uniqueness and field types.
func (r *Record) Validate() error {
	if !IsIdent(r.Name) {
		return errors.InvalidName(errors.PhaseDeclare, r.Name, "", r.Pos, r.Name)
	}
	if len(r.Fields) == 0 {
		return errors.New(errors.PhaseDeclare, errors.KindMalformedDeclaration).
			Record(r.Name).
			At(r.Pos).
			Detail("record declares no fields").
			Build()
	}

	seen := make(map[string]struct{}, len(r.Fields))
	for _, f := range r.Fields {
		if !IsIdent(f.Name) {
			return errors.InvalidName(errors.PhaseDeclare, r.Name, f.Name, f.Pos, f.Name)
		}
		if _, dup := seen[f.Name]; dup {
			return errors.DuplicateField(errors.PhaseDeclare, r.Name, f.Name, f.Pos)
		}
		seen[f.Name] = struct{}{}
		if !f.Type.IsValid() {
			return errors.MalformedDeclaration(r.Name, f.Name, f.Pos, f.Type.String())
		}
	}
	return nil
}

// TotalWidth returns the sum of all field widths.
func (r *Record) TotalWidth() int {
	total := 0
	for _, f := range r.Fields {
		total += f.Type.Width()
	}
	return total
}

// Table builds the field table: fields packed contiguously from bit 0
// in declaration order.
func (r *Record) Table() ([]layout.FieldSpec, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	table := make([]layout.FieldSpec, len(r.Fields))
	offset := 0
	for i, f := range r.Fields {
		table[i] = layout.FieldSpec{
			Name:   f.Name,
			Pos:    f.Pos,
			Offset: offset,
			Width:  f.Type.Width(),
		}
		offset += f.Type.Width()
	}
	return table, nil
}

// Spec returns the layout compiler input for r.
func (r *Record) Spec() (layout.RecordSpec, error) {
	table, err := r.Table()
	if err != nil {
		return layout.RecordSpec{}, err
	}
	return layout.RecordSpec{Name: r.Name, Pos: r.Pos, Fields: table}, nil
}

// Compile validates r and compiles its layout.
func (r *Record) Compile() (*layout.Layout, error) {
	spec, err := r.Spec()
	if err != nil {
		return nil, err
	}
	return layout.Compile(spec)
}

// CompileAll compiles every record. Record names must be unique.
func CompileAll(records []*Record) ([]*layout.Layout, error) {
	seen := make(map[string]struct{}, len(records))
	layouts := make([]*layout.Layout, 0, len(records))
	for _, r := range records {
		if _, dup := seen[r.Name]; dup {
			return nil, errors.New(errors.PhaseDeclare, errors.KindDuplicateField).
				Record(r.Name).
				At(r.Pos).
				Detail("record %q declared more than once", r.Name).
				Build()
		}
		seen[r.Name] = struct{}{}
		l, err := r.Compile()
		if err != nil {
			return nil, err
		}
		layouts = append(layouts, l)
	}
	return layouts, nil
}

// IsIdent reports whether s matches [A-Za-z_][A-Za-z0-9_]* and is not
// made of underscores only.
func IsIdent(s string) bool {
	if s == "" || strings.Trim(s, "_") == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
