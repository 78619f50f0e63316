package gen

import (
	"strings"
	"unicode"

	"github.com/wippyai/bitpack/errors"
	"github.com/wippyai/bitpack/layout"
)

// Exported converts a snake_case declaration name to an exported Go
// identifier: flag_0 becomes Flag0, read_only becomes ReadOnly.
func Exported(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		r := []rune(part)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

func validExported(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !unicode.IsUpper(r) {
			return false
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Methods every generated type declares.
var reservedMethods = []string{"Value", "String"}

// Suffixes of package-level identifiers derived from the type name.
var reservedSuffixes = []string{"AllOnes", "Layout"}

type owner struct {
	record string
	field  string
}

// namespace tracks generated identifiers and who introduced them.
type namespace struct {
	idents map[string]owner
}

func newNamespace() *namespace {
	return &namespace{idents: make(map[string]owner)}
}

func (n *namespace) claim(ident string, o owner, f layout.Field) error {
	prev, taken := n.idents[ident]
	if !taken {
		n.idents[ident] = o
		return nil
	}
	if prev.field == "" {
		return errors.New(errors.PhaseGenerate, errors.KindInvalidName).
			Record(o.record).
			Field(o.field).
			At(f.Pos).
			Value(f.Name).
			Detail("field %q generates %s, which is reserved for record %q", f.Name, ident, prev.record).
			Build()
	}
	err := errors.DuplicateField(errors.PhaseGenerate, o.record, o.field, f.Pos)
	err.Detail = "field " + quote(o.field) + " generates " + ident + ", already generated for " + prev.record + "." + prev.field
	return err
}

func quote(s string) string {
	return "\"" + s + "\""
}

// checkNames claims every identifier one record generates: package-level
// names in pkg and method names in a fresh per-type namespace.
func checkNames(pkg *namespace, l *layout.Layout) error {
	typ := Exported(l.Name)
	if !validExported(typ) {
		return errors.InvalidName(errors.PhaseGenerate, l.Name, "", l.Pos, l.Name)
	}

	rec := owner{record: l.Name}
	none := layout.Field{Pos: l.Pos}
	for _, ident := range []string{typ, "New" + typ} {
		if err := pkg.claim(ident, rec, none); err != nil {
			return typeCollision(l, ident)
		}
	}
	for _, s := range reservedSuffixes {
		if err := pkg.claim(typ+s, rec, none); err != nil {
			return typeCollision(l, typ+s)
		}
	}

	methods := newNamespace()
	for _, m := range reservedMethods {
		methods.idents[m] = rec
	}

	for _, f := range l.Fields {
		name := Exported(f.Name)
		if !validExported(name) {
			return errors.InvalidName(errors.PhaseGenerate, l.Name, f.Name, f.Pos, f.Name)
		}
		o := owner{record: l.Name, field: f.Name}

		for _, ident := range []string{typ + name, typ + name + "Start", typ + name + "Size"} {
			if err := pkg.claim(ident, o, f); err != nil {
				return err
			}
		}

		ms := []string{name, "Set" + name}
		if f.IsFlag() {
			ms = append(ms, "Unset"+name, "Toggle"+name)
		}
		for _, m := range ms {
			if err := methods.claim(m, o, f); err != nil {
				return err
			}
		}
	}
	return nil
}

func typeCollision(l *layout.Layout, ident string) error {
	return errors.New(errors.PhaseGenerate, errors.KindDuplicateField).
		Record(l.Name).
		At(l.Pos).
		Value(ident).
		Detail("record %q generates %s, which is already declared", l.Name, ident).
		Build()
}
