package wasmgen

import (
	"github.com/wippyai/bitpack/errors"
	"github.com/wippyai/bitpack/layout"
	"go.uber.org/zap"
)

// Options controls module emission.
type Options struct {
	// LegacyUnset emits flag unset as v & mask, keeping only the flag's
	// own bit. Off by default.
	LegacyUnset bool
}

var (
	flagGetType   = FuncType{Params: []ValType{ValI64}, Results: []ValType{ValI32}}
	unaryType     = FuncType{Params: []ValType{ValI64}, Results: []ValType{ValI64}}
	numberSetType = FuncType{Params: []ValType{ValI64, ValI64}, Results: []ValType{ValI64}}
)

// ExportName returns the export name of a field accessor. op is "" for
// the getter, otherwise one of "set", "unset" or "toggle".
func ExportName(record, field, op string) string {
	if op == "" {
		return record + "." + field
	}
	return record + "." + op + "_" + field
}

// Emit builds a core module exporting every accessor of every layout as
// an i64 function. The record value is passed and returned as i64; bits
// above the container width are ignored on input and zero on output.
//
//	R.f        (i64) -> i32   flag get, 0 or 1
//	R.set_f    (i64) -> i64   flag set
//	R.unset_f  (i64) -> i64   flag unset
//	R.toggle_f (i64) -> i64   flag toggle
//	R.f        (i64) -> i64   number get
//	R.set_f    (i64, i64) -> i64   number set, value mod 2^width
//
// Layouts with a 128-bit container are not supported.
func Emit(layouts []*layout.Layout, opts Options) ([]byte, error) {
	m, err := Build(layouts, opts)
	if err != nil {
		return nil, err
	}
	bin := m.Encode()
	Logger().Debug("emitted wasm module",
		zap.Int("records", len(layouts)),
		zap.Int("functions", len(m.Funcs)),
		zap.Int("bytes", len(bin)))
	return bin, nil
}

// Build is Emit without the final encoding step.
func Build(layouts []*layout.Layout, opts Options) (*Module, error) {
	if len(layouts) == 0 {
		return nil, errors.InvalidInput(errors.PhaseEmit, "no records to emit")
	}

	m := &Module{}
	exports := make(map[string]string)
	for _, l := range layouts {
		if !l.Container.Native() {
			return nil, errors.New(errors.PhaseEmit, errors.KindUnsupported).
				Record(l.Name).
				At(l.Pos).
				Value(l.Container.Bits()).
				Detail("wasm accessors need a container of at most 64 bits, %s needs %d", l.Name, l.Container.Bits()).
				Build()
		}
		if err := emitRecord(m, l, opts, exports); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func emitRecord(m *Module, l *layout.Layout, opts Options, exports map[string]string) error {
	allOnes := l.AllOnes.Lo

	add := func(f layout.Field, op string, ft FuncType, body []byte) error {
		name := ExportName(l.Name, f.Name, op)
		if prev, dup := exports[name]; dup {
			err := errors.DuplicateField(errors.PhaseEmit, l.Name, f.Name, f.Pos)
			err.Detail = "export " + name + " already used by " + prev
			return err
		}
		exports[name] = l.Name + "." + f.Name
		m.AddFunc(name, ft, body)
		return nil
	}

	for _, f := range l.Fields {
		mask := f.Mask.Lo
		off := uint64(f.Offset)

		if f.IsFlag() {
			unset := allOnes &^ mask
			if opts.LegacyUnset {
				unset = mask
			}
			fns := []struct {
				op   string
				ft   FuncType
				body []byte
			}{
				{"", flagGetType, newCode().
					localGet(0).i64Const(off).op(OpI64ShrU).
					i64Const(1).op(OpI64And).
					op(OpI32WrapI64).end()},
				{"set", unaryType, newCode().
					localGet(0).i64Const(allOnes).op(OpI64And).
					i64Const(mask).op(OpI64Or).end()},
				{"unset", unaryType, newCode().
					localGet(0).i64Const(unset).op(OpI64And).end()},
				{"toggle", unaryType, newCode().
					localGet(0).i64Const(allOnes).op(OpI64And).
					i64Const(mask).op(OpI64Xor).end()},
			}
			for _, fn := range fns {
				if err := add(f, fn.op, fn.ft, fn.body); err != nil {
					return err
				}
			}
			continue
		}

		valueMask := f.ValueMask().Lo
		get := newCode().
			localGet(0).i64Const(off).op(OpI64ShrU).
			i64Const(valueMask).op(OpI64And).end()
		set := newCode().
			localGet(0).i64Const(allOnes &^ mask).op(OpI64And).
			localGet(1).i64Const(valueMask).op(OpI64And).
			i64Const(off).op(OpI64Shl).
			op(OpI64Or).end()
		if err := add(f, "", unaryType, get); err != nil {
			return err
		}
		if err := add(f, "set", numberSetType, set); err != nil {
			return err
		}
	}
	return nil
}
