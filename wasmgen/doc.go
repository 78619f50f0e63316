// Package wasmgen emits WebAssembly core modules that export the accessors
// of compiled record layouts, and runs them with wazero.
//
// Each record value travels as an i64, so only layouts with containers of
// 64 bits or fewer can be emitted. Exports are named after the record and
// field, for example "MyFlags.flag_4" and "MyFlags.set_flag_4".
package wasmgen
