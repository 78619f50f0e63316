package gen

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/wippyai/bitpack/errors"
	"github.com/wippyai/bitpack/layout"
	"go.uber.org/zap"
	"golang.org/x/tools/imports"
	"lukechampine.com/uint128"
)

// LayoutImport is the import path generated code uses for descriptors.
const LayoutImport = "github.com/wippyai/bitpack/layout"

// Options controls source generation.
type Options struct {
	// Package is the package clause of the generated file.
	Package string
	// Source names the declaration file in the header comment.
	Source string
	// LegacyUnset emits flag Unset methods as v &= mask, which keeps only
	// the flag's own bit. Off by default.
	LegacyUnset bool
}

type fieldData struct {
	Name  string
	Ident string
	Start int
	Size  int
	Mask  string
	Desc  string
	Flag  bool
}

type recordData struct {
	Name        string
	Type        string
	Container   string
	AllOnes     string
	AllOnesDesc string
	Fields      []fieldData
	Bits        int
	Total       int
	Wide        bool
	LegacyUnset bool
}

type fileData struct {
	Package string
	Source  string
	Layout  string
	Records []recordData
}

// Generate emits one Go source file declaring a packed record type for
// each layout. The output is gofmt-formatted.
func Generate(layouts []*layout.Layout, opts Options) ([]byte, error) {
	if !isPackageName(opts.Package) {
		return nil, errors.New(errors.PhaseGenerate, errors.KindInvalidName).
			Value(opts.Package).
			Detail("%q is not a valid package name", opts.Package).
			Build()
	}
	if len(layouts) == 0 {
		return nil, errors.InvalidInput(errors.PhaseGenerate, "no records to generate")
	}

	pkg := newNamespace()
	data := fileData{
		Package: opts.Package,
		Source:  opts.Source,
		Layout:  LayoutImport,
	}
	for _, l := range layouts {
		if err := checkNames(pkg, l); err != nil {
			return nil, err
		}
		data.Records = append(data.Records, newRecordData(l, opts.LegacyUnset))
	}

	var buf bytes.Buffer
	if err := fileTmpl.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(errors.PhaseGenerate, errors.KindInvalidData, err, "execute template")
	}

	out, err := imports.Process("", buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, errors.Wrap(errors.PhaseGenerate, errors.KindInvalidData, err, "format generated source")
	}

	Logger().Debug("generated Go source",
		zap.String("package", opts.Package),
		zap.Int("records", len(layouts)),
		zap.Int("bytes", len(out)))
	return out, nil
}

func newRecordData(l *layout.Layout, legacyUnset bool) recordData {
	typ := Exported(l.Name)
	w := l.Container
	rd := recordData{
		Name:        l.Name,
		Type:        typ,
		Container:   w.GoType(),
		Bits:        w.Bits(),
		Total:       l.TotalWidth,
		Wide:        !w.Native(),
		AllOnes:     literal(l.AllOnes, w),
		AllOnesDesc: descLiteral(l.AllOnes, w),
		LegacyUnset: legacyUnset,
	}
	for _, f := range l.Fields {
		rd.Fields = append(rd.Fields, fieldData{
			Name:  f.Name,
			Ident: Exported(f.Name),
			Start: f.Offset,
			Size:  f.Width,
			Mask:  literal(f.Mask, w),
			Desc:  descLiteral(f.Mask, w),
			Flag:  f.IsFlag(),
		})
	}
	return rd
}

// literal renders v as a constant of the container type.
func literal(v uint128.Uint128, w layout.Width) string {
	if w.Native() {
		return layout.Hex(v, w)
	}
	if v.Equals(uint128.Max) {
		return "uint128.Max"
	}
	return fmt.Sprintf("uint128.New(%s, %s)", layout.Hex(uint128.From64(v.Lo), layout.Width64), layout.Hex(uint128.From64(v.Hi), layout.Width64))
}

// descLiteral renders v as a uint128.Uint128 for the layout descriptor.
func descLiteral(v uint128.Uint128, w layout.Width) string {
	if w.Native() {
		return fmt.Sprintf("uint128.From64(%s)", layout.Hex(v, w))
	}
	return literal(v, w)
}

func isPackageName(s string) bool {
	if s == "" || s == "_" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return !isKeyword(s)
}

func isKeyword(s string) bool {
	switch s {
	case "break", "case", "chan", "const", "continue", "default", "defer",
		"else", "fallthrough", "for", "func", "go", "goto", "if", "import",
		"interface", "map", "package", "range", "return", "select", "struct",
		"switch", "type", "var":
		return true
	}
	return false
}

var fileTmpl = template.Must(template.New("file").Parse(
	fileTemplate + descriptorTemplate + stringTemplate + nativeTemplate + wideTemplate))
