// Package errors provides structured error types for the bitpack generator.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the offending record and field, the source position of
// the declaration, and a cause chain, so a consumer can locate the declaration
// that made generation fail.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLayout, errors.KindLayoutTooLarge).
//		Record("Header").
//		At(pos).
//		Value(130).
//		Detail("record needs %d bits, largest container is 128", 130).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.LayoutTooLarge("Header", pos, 130)
//	err := errors.MalformedDeclaration("Header", "flag", pos, "u0")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
