package gen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wippyai/bitpack/errors"
	"github.com/wippyai/bitpack/layout"
)

type field struct {
	name  string
	width int
}

func compile(t *testing.T, name string, fields ...field) *layout.Layout {
	t.Helper()
	spec := layout.RecordSpec{Name: name}
	off := 0
	for _, f := range fields {
		spec.Fields = append(spec.Fields, layout.FieldSpec{Name: f.name, Offset: off, Width: f.width})
		off += f.width
	}
	l, err := layout.Compile(spec)
	require.NoError(t, err)
	return l
}

func myFlags(t *testing.T) *layout.Layout {
	return compile(t, "MyFlags",
		field{"flag_0", 1},
		field{"flag_1", 1},
		field{"flag_2", 1},
		field{"flag_3", 1},
		field{"flag_4", 3},
		field{"flag_5", 1},
	)
}

func wide(t *testing.T) *layout.Layout {
	return compile(t, "Wide",
		field{"lo", 60},
		field{"mid", 8},
		field{"bit", 1},
		field{"hi", 59},
	)
}

// parsed is a generated file split into its declarations.
type parsed struct {
	file   *ast.File
	src    string
	values map[string]string // const/var name -> initializer source
	funcs  map[string]string // "Type.Method" or "Func" -> full source
}

func parse(t *testing.T, src []byte) *parsed {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "gen.go", src, parser.ParseComments)
	require.NoError(t, err, string(src))

	text := func(n ast.Node) string {
		return string(src[fset.Position(n.Pos()).Offset:fset.Position(n.End()).Offset])
	}

	p := &parsed{file: f, src: string(src), values: map[string]string{}, funcs: map[string]string{}}
	for _, d := range f.Decls {
		switch d := d.(type) {
		case *ast.GenDecl:
			for _, s := range d.Specs {
				vs, ok := s.(*ast.ValueSpec)
				if !ok {
					continue
				}
				for i, n := range vs.Names {
					p.values[n.Name] = text(vs.Values[i])
				}
			}
		case *ast.FuncDecl:
			name := d.Name.Name
			if d.Recv != nil {
				recv := d.Recv.List[0].Type
				if star, ok := recv.(*ast.StarExpr); ok {
					recv = star.X
				}
				name = recv.(*ast.Ident).Name + "." + name
			}
			p.funcs[name] = text(d)
		}
	}
	return p
}

func TestGenerate_Native(t *testing.T) {
	src, err := Generate([]*layout.Layout{myFlags(t)}, Options{Package: "flags", Source: "flags.bits"})
	require.NoError(t, err)
	p := parse(t, src)

	assert.True(t, ast.IsGenerated(p.file))
	assert.Equal(t, "flags", p.file.Name.Name)
	assert.Contains(t, p.src, "// Source: flags.bits")
	assert.Contains(t, p.src, "type MyFlags uint8")

	assert.Equal(t, "0xff", p.values["MyFlagsAllOnes"])
	assert.Equal(t, "0x01", p.values["MyFlagsFlag0"])
	assert.Equal(t, "0x08", p.values["MyFlagsFlag3"])
	assert.Equal(t, "0x70", p.values["MyFlagsFlag4"])
	assert.Equal(t, "0x80", p.values["MyFlagsFlag5"])
	assert.Equal(t, "4", p.values["MyFlagsFlag4Start"])
	assert.Equal(t, "3", p.values["MyFlagsFlag4Size"])

	for _, fn := range []string{
		"NewMyFlags", "MyFlags.Value", "MyFlags.String",
		"MyFlags.Flag0", "MyFlags.SetFlag0", "MyFlags.UnsetFlag0", "MyFlags.ToggleFlag0",
		"MyFlags.Flag4", "MyFlags.SetFlag4",
	} {
		assert.Contains(t, p.funcs, fn)
	}
	assert.NotContains(t, p.funcs, "MyFlags.ToggleFlag4")
	assert.NotContains(t, p.funcs, "MyFlags.UnsetFlag4")

	assert.Contains(t, p.funcs["MyFlags.UnsetFlag0"], "*r &^= MyFlags(MyFlagsFlag0)")
	assert.Contains(t, p.funcs["MyFlags.SetFlag4"], "func (r *MyFlags) SetFlag4(value uint8) *MyFlags")
	assert.Contains(t, p.funcs["MyFlags.Flag4"], "func (r MyFlags) Flag4() uint8")
	assert.Contains(t, p.funcs["MyFlags.String"], `"MyFlags{flag_0: %t, flag_1: %t, flag_2: %t, flag_3: %t, flag_4: %v, flag_5: %t}"`)

	desc := p.values["MyFlagsLayout"]
	assert.Regexp(t, `Name:\s+"MyFlags"`, desc)
	assert.Regexp(t, `AllOnes:\s+uint128.From64\(0xff\)`, desc)
	assert.Contains(t, desc, `{Name: "flag_4", Start: 4, Size: 3, Mask: uint128.From64(0x70)}`)
}

func TestGenerate_LegacyUnset(t *testing.T) {
	src, err := Generate([]*layout.Layout{myFlags(t), wide(t)}, Options{Package: "flags", LegacyUnset: true})
	require.NoError(t, err)
	p := parse(t, src)

	assert.Contains(t, p.funcs["MyFlags.UnsetFlag2"], "*r &= MyFlags(MyFlagsFlag2)")
	assert.NotContains(t, p.funcs["MyFlags.UnsetFlag2"], "&^=")
	assert.Contains(t, p.funcs["Wide.UnsetBit"], "uint128.Uint128(*r).And(WideBit))")
	assert.NotContains(t, p.src, "// Source:")
}

func TestGenerate_Wide(t *testing.T) {
	src, err := Generate([]*layout.Layout{wide(t)}, Options{Package: "wide"})
	require.NoError(t, err)
	p := parse(t, src)

	assert.Contains(t, p.src, "type Wide uint128.Uint128")
	assert.Equal(t, "uint128.Max", p.values["WideAllOnes"])
	assert.Equal(t, "uint128.New(0xf000000000000000, 0x000000000000000f)", p.values["WideMid"])
	assert.Equal(t, "uint128.New(0x0000000000000000, 0x0000000000000010)", p.values["WideBit"])
	assert.Equal(t, "60", p.values["WideMidStart"])

	assert.Contains(t, p.funcs["Wide.Mid"], "func (r Wide) Mid() uint128.Uint128")
	assert.Contains(t, p.funcs["Wide.SetMid"], "value.And(WideAllOnes.Rsh(128 - WideMidSize))")
	assert.Contains(t, p.funcs["Wide.UnsetBit"], "WideBit.Xor(uint128.Max)")
	assert.Regexp(t, `ContainerWidth:\s+128`, p.values["WideLayout"])
}

func TestGenerate_EveryWidth(t *testing.T) {
	tests := []struct {
		total     int
		container string
	}{
		{1, "uint8"},
		{8, "uint8"},
		{9, "uint16"},
		{17, "uint32"},
		{33, "uint64"},
		{64, "uint64"},
		{65, "uint128.Uint128"},
		{128, "uint128.Uint128"},
	}
	for _, tt := range tests {
		l := compile(t, "R", field{"x", tt.total})
		src, err := Generate([]*layout.Layout{l}, Options{Package: "p"})
		require.NoError(t, err)
		p := parse(t, src)
		assert.Contains(t, p.src, "type R "+tt.container+"\n", "total %d", tt.total)
		assert.Contains(t, p.funcs, "R.SetX")
	}
}

func TestGenerate_Collisions(t *testing.T) {
	tests := []struct {
		name    string
		layouts []*layout.Layout
		kind    errors.Kind
	}{
		{"camel case clash", []*layout.Layout{compile(t, "R", field{"flag_0", 1}, field{"flag0", 1})}, errors.KindDuplicateField},
		{"setter clash", []*layout.Layout{compile(t, "R", field{"x", 2}, field{"set_x", 2})}, errors.KindDuplicateField},
		{"unset clash", []*layout.Layout{compile(t, "R", field{"x", 1}, field{"unset_x", 1})}, errors.KindDuplicateField},
		{"start clash", []*layout.Layout{compile(t, "R", field{"x", 1}, field{"x_start", 1})}, errors.KindDuplicateField},
		{"value method", []*layout.Layout{compile(t, "R", field{"value", 1})}, errors.KindInvalidName},
		{"string method", []*layout.Layout{compile(t, "R", field{"string", 3})}, errors.KindInvalidName},
		{"all ones", []*layout.Layout{compile(t, "R", field{"all_ones", 1})}, errors.KindInvalidName},
		{"layout", []*layout.Layout{compile(t, "R", field{"layout", 1})}, errors.KindInvalidName},
		{"digit start", []*layout.Layout{compile(t, "R", field{"_1", 1})}, errors.KindInvalidName},
		{"record name", []*layout.Layout{compile(t, "_", field{"a", 1})}, errors.KindInvalidName},
		{"same record", []*layout.Layout{compile(t, "R", field{"a", 1}), compile(t, "R", field{"b", 1})}, errors.KindDuplicateField},
		{"across records", []*layout.Layout{compile(t, "A", field{"b_c", 1}), compile(t, "AB", field{"c", 1})}, errors.KindDuplicateField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(tt.layouts, Options{Package: "p"})
			require.Error(t, err)
			var e *errors.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, errors.PhaseGenerate, e.Phase)
			assert.Equal(t, tt.kind, e.Kind, err.Error())
		})
	}
}

func TestGenerate_InvalidOptions(t *testing.T) {
	for _, pkg := range []string{"", "_", "func", "my-pkg", "1p"} {
		_, err := Generate([]*layout.Layout{myFlags(t)}, Options{Package: pkg})
		assert.True(t, errors.IsKind(err, errors.KindInvalidName), "package %q", pkg)
	}

	_, err := Generate(nil, Options{Package: "p"})
	assert.True(t, errors.IsKind(err, errors.KindInvalidInput))
}

func TestExported(t *testing.T) {
	tests := map[string]string{
		"flag_0":    "Flag0",
		"read_only": "ReadOnly",
		"MyFlags":   "MyFlags",
		"x":         "X",
		"_x__y_":    "XY",
		"_1":        "1",
	}
	for in, want := range tests {
		assert.Equal(t, want, Exported(in), in)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := Generate([]*layout.Layout{myFlags(t), wide(t)}, Options{Package: "p"})
	require.NoError(t, err)
	b, err := Generate([]*layout.Layout{myFlags(t), wide(t)}, Options{Package: "p"})
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.Equal(t, 1, strings.Count(string(a), "import ("))
}
