// Package decl reads bitfield record declarations and turns them into
// field tables for the layout compiler.
//
// Three source formats are accepted:
//
//   - .bits text: one or more "struct Name { field: type, ... }" blocks
//   - YAML: a "records" mapping of record name to ordered field mapping
//   - WIT JSON: flags types and records with bool/u8/u16/u32/u64 fields
//
// A field type is either bool (one bit) or u{N} for 1 <= N <= 128.
// Fields are packed contiguously from bit 0 in declaration order.
package decl
