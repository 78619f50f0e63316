package wasmgen

// Binary format header.
const (
	Magic   uint32 = 0x6D736100
	Version uint32 = 0x01
)

// Section IDs used by emitted modules.
const (
	SectionType     byte = 1
	SectionFunction byte = 3
	SectionExport   byte = 7
	SectionCode     byte = 10
)

const (
	kindFunc byte = 0x00
	funcType byte = 0x60
)

// ValType is a WebAssembly value type encoding.
type ValType byte

const (
	ValI32 ValType = 0x7F
	ValI64 ValType = 0x7E
)

// Opcodes used by accessor bodies.
const (
	OpEnd        byte = 0x0B
	OpLocalGet   byte = 0x20
	OpI64Const   byte = 0x42
	OpI64And     byte = 0x83
	OpI64Or      byte = 0x84
	OpI64Xor     byte = 0x85
	OpI64Shl     byte = 0x86
	OpI64ShrU    byte = 0x88
	OpI32WrapI64 byte = 0xA7
)
