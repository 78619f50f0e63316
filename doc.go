// Package bitpack turns declarations of named boolean and fixed-width
// unsigned fields into packed records: one unsigned integer per record,
// fields laid out from bit 0 upward in declaration order.
//
// # Architecture Overview
//
//	bitpack/             Root package with the load, generate and emit pipeline
//	├── decl/            Declaration front-ends: .bits, YAML and WIT JSON
//	├── layout/          Width selection, masks and compiled layouts
//	├── record/          Dynamic accessors over a compiled layout
//	├── gen/             Go source generation
//	├── wasmgen/         WebAssembly accessor modules, run with wazero
//	├── modulo/          Modular arithmetic values
//	├── errors/          Structured error types
//	└── cmd/bitspec/     Command line tool
//
// # Quick Start
//
// Declare a record:
//
//	struct MyFlags {
//	    flag_0: bool,
//	    flag_1: bool,
//	    flag_4: u3,
//	}
//
// Generate Go source for it:
//
//	src, err := bitpack.Generate(gen.Options{Package: "flags"}, "flags.bits")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The generated type is a named unsigned integer with a getter per field,
// Set/Unset/Toggle for flags and Set for multi-bit fields. Setters reduce
// the value modulo 2^width and never touch other fields.
//
// # Containers
//
// The container is the smallest of 8, 16, 32, 64 or 128 bits holding the
// sum of the field widths. Records of 128 bits are backed by
// lukechampine.com/uint128; wider records are rejected.
//
// # Thread Safety
//
// Layouts, schemas and descriptors are immutable and safe for concurrent
// reads. Generated records are plain values and need external
// synchronization for shared mutation.
package bitpack
