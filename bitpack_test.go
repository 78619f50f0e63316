package bitpack

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wippyai/bitpack/errors"
	"github.com/wippyai/bitpack/gen"
	"github.com/wippyai/bitpack/layout"
	"github.com/wippyai/bitpack/wasmgen"
	"lukechampine.com/uint128"
)

const flagsDecl = `
struct MyFlags {
	flag_0: bool,
	flag_1: bool,
	flag_2: bool,
	flag_3: bool,
	flag_4: u3,
	flag_5: bool,
}
`

const tagsDecl = `
records:
  Tag:
    kind: u4
    live: bool
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCompile(t *testing.T) {
	flags := writeFile(t, "flags.bits", flagsDecl)
	tags := writeFile(t, "tags.yaml", tagsDecl)

	layouts, err := Compile(flags, tags)
	require.NoError(t, err)
	require.Len(t, layouts, 2)

	assert.Equal(t, "MyFlags", layouts[0].Name)
	assert.Equal(t, layout.Width8, layouts[0].Container)
	assert.Equal(t, 8, layouts[0].TotalWidth)

	assert.Equal(t, "Tag", layouts[1].Name)
	assert.Equal(t, 5, layouts[1].TotalWidth)
}

func TestCompile_DuplicateAcrossFiles(t *testing.T) {
	a := writeFile(t, "a.bits", flagsDecl)
	b := writeFile(t, "b.bits", flagsDecl)

	_, err := Compile(a, b)
	assert.True(t, errors.IsKind(err, errors.KindDuplicateField))
}

func TestCompile_TooLarge(t *testing.T) {
	path := writeFile(t, "big.bits", "struct Big { a: u100, b: u29 }")

	_, err := Compile(path)
	assert.True(t, errors.IsKind(err, errors.KindLayoutTooLarge))
}

func TestGenerate(t *testing.T) {
	path := writeFile(t, "flags.bits", flagsDecl)

	src, err := Generate(gen.Options{Package: "flags", Source: "flags.bits"}, path)
	require.NoError(t, err)
	assert.Contains(t, string(src), "type MyFlags uint8")
	assert.Contains(t, string(src), "func (r *MyFlags) SetFlag4(value uint8) *MyFlags")
}

func TestEmit(t *testing.T) {
	ctx := context.Background()
	path := writeFile(t, "flags.bits", flagsDecl)

	bin, err := Emit(wasmgen.Options{}, path)
	require.NoError(t, err)

	inst, err := wasmgen.Instantiate(ctx, bin)
	require.NoError(t, err)
	defer inst.Close(ctx)

	v, err := inst.Call(ctx, "MyFlags.set_flag_4", 0, 5)
	require.NoError(t, err)
	got, err := inst.Call(ctx, "MyFlags.flag_4", v)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), got)
}

func TestSchemas(t *testing.T) {
	path := writeFile(t, "flags.bits", flagsDecl)
	layouts, err := Compile(path)
	require.NoError(t, err)

	schemas := Schemas(layouts)
	require.Len(t, schemas, 1)

	r, err := schemas[0].Zero().Set("flag_4", uint128.From64(8))
	require.NoError(t, err)
	v, err := r.Get("flag_4")
	require.NoError(t, err)
	assert.True(t, v.IsZero())
}
