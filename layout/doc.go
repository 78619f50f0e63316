// Package layout computes packed-bitfield layouts.
//
// A layout is compiled from an ordered field table of (name, offset, width)
// tuples. Compilation selects the smallest standard container that holds the
// sum of field widths, derives one mask per field and an all-ones constant
// for the container, and verifies that the fields are packed contiguously
// without overlap.
//
// # Layout Rules
//
//	Total bits      Container
//	──────────────────────────
//	0..8            8
//	9..16           16
//	17..32          32
//	33..64          64
//	65..128         128
//	> 128           LayoutTooLarge
//
// Bit 0 is the least significant bit of the container. Field i starts where
// field i-1 ends; the first field starts at bit 0. Unused high-order bits are
// padding.
//
// # Usage
//
//	l, err := layout.Compile(layout.RecordSpec{Name: "MyFlags", Fields: table})
//	// l.Container, l.AllOnes, l.Fields[i].Mask available
//	d := l.Descriptor()
//
// Masks are 128-bit values regardless of the container width; bits above the
// container width are always zero.
package layout
