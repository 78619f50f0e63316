package bitpack

import (
	"github.com/wippyai/bitpack/decl"
	"github.com/wippyai/bitpack/gen"
	"github.com/wippyai/bitpack/layout"
	"github.com/wippyai/bitpack/record"
	"github.com/wippyai/bitpack/wasmgen"
)

// Compile loads every declaration file and compiles its records. Record
// names must be unique across all files.
func Compile(paths ...string) ([]*layout.Layout, error) {
	records, err := decl.LoadAll(paths...)
	if err != nil {
		return nil, err
	}
	return decl.CompileAll(records)
}

// Generate compiles the declaration files and returns one Go source file
// for all of their records.
func Generate(opts gen.Options, paths ...string) ([]byte, error) {
	layouts, err := Compile(paths...)
	if err != nil {
		return nil, err
	}
	return gen.Generate(layouts, opts)
}

// Emit compiles the declaration files and returns a wasm module exporting
// every accessor.
func Emit(opts wasmgen.Options, paths ...string) ([]byte, error) {
	layouts, err := Compile(paths...)
	if err != nil {
		return nil, err
	}
	return wasmgen.Emit(layouts, opts)
}

// Schemas builds a dynamic accessor table for every layout.
func Schemas(layouts []*layout.Layout, opts ...record.Option) []*record.Schema {
	out := make([]*record.Schema, len(layouts))
	for i, l := range layouts {
		out[i] = record.New(l, opts...)
	}
	return out
}
