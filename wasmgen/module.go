package wasmgen

import (
	"slices"

	"github.com/wippyai/bitpack/wasmgen/internal/binary"
)

// FuncType is a function signature.
type FuncType struct {
	Params  []ValType
	Results []ValType
}

// Func is a function body with no locals beyond its parameters.
type Func struct {
	Body []byte
	Type uint32
}

// Export names a function.
type Export struct {
	Name string
	Func uint32
}

// Module is the subset of a core module the emitter needs: types,
// functions and function exports.
type Module struct {
	Types   []FuncType
	Funcs   []Func
	Exports []Export
}

// TypeIndex returns the index of ft, adding it if needed.
func (m *Module) TypeIndex(ft FuncType) uint32 {
	for i, t := range m.Types {
		if slices.Equal(t.Params, ft.Params) && slices.Equal(t.Results, ft.Results) {
			return uint32(i)
		}
	}
	m.Types = append(m.Types, ft)
	return uint32(len(m.Types) - 1)
}

// AddFunc appends a function and exports it under name.
func (m *Module) AddFunc(name string, ft FuncType, body []byte) uint32 {
	idx := uint32(len(m.Funcs))
	m.Funcs = append(m.Funcs, Func{Type: m.TypeIndex(ft), Body: body})
	m.Exports = append(m.Exports, Export{Name: name, Func: idx})
	return idx
}

// Encode serializes the module to the WebAssembly binary format.
func (m *Module) Encode() []byte {
	w := binary.NewWriter()
	w.WriteU32LE(Magic)
	w.WriteU32LE(Version)

	if len(m.Types) > 0 {
		s := binary.NewWriter()
		s.WriteU32(uint32(len(m.Types)))
		for _, t := range m.Types {
			s.Byte(funcType)
			writeValTypes(s, t.Params)
			writeValTypes(s, t.Results)
		}
		w.Section(SectionType, s)
	}

	if len(m.Funcs) > 0 {
		s := binary.NewWriter()
		s.WriteU32(uint32(len(m.Funcs)))
		for _, f := range m.Funcs {
			s.WriteU32(f.Type)
		}
		w.Section(SectionFunction, s)
	}

	if len(m.Exports) > 0 {
		s := binary.NewWriter()
		s.WriteU32(uint32(len(m.Exports)))
		for _, e := range m.Exports {
			s.WriteName(e.Name)
			s.Byte(kindFunc)
			s.WriteU32(e.Func)
		}
		w.Section(SectionExport, s)
	}

	if len(m.Funcs) > 0 {
		s := binary.NewWriter()
		s.WriteU32(uint32(len(m.Funcs)))
		for _, f := range m.Funcs {
			body := binary.NewWriter()
			body.WriteU32(0) // no local declarations
			body.WriteBytes(f.Body)
			s.WriteU32(uint32(body.Len()))
			s.WriteBytes(body.Bytes())
		}
		w.Section(SectionCode, s)
	}

	return w.Bytes()
}

func writeValTypes(w *binary.Writer, types []ValType) {
	w.WriteU32(uint32(len(types)))
	for _, t := range types {
		w.Byte(byte(t))
	}
}

// code builds an instruction sequence.
type code struct {
	w *binary.Writer
}

func newCode() *code {
	return &code{w: binary.NewWriter()}
}

func (c *code) op(op byte) *code {
	c.w.Byte(op)
	return c
}

func (c *code) localGet(idx uint32) *code {
	c.w.Byte(OpLocalGet)
	c.w.WriteU32(idx)
	return c
}

func (c *code) i64Const(v uint64) *code {
	c.w.Byte(OpI64Const)
	c.w.WriteS64(int64(v))
	return c
}

func (c *code) end() []byte {
	c.w.Byte(OpEnd)
	return c.w.Bytes()
}
