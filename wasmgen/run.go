package wasmgen

import (
	"context"
	"sort"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/wippyai/bitpack/errors"
	"go.uber.org/zap"
)

// Instance is an emitted module instantiated in its own wazero runtime.
type Instance struct {
	runtime wazero.Runtime
	module  api.Module
}

// Instantiate compiles and instantiates an emitted module. Close the
// instance to release the runtime.
func Instantiate(ctx context.Context, bin []byte) (*Instance, error) {
	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig())

	compiled, err := rt.CompileModule(ctx, bin)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Wrap(errors.PhaseRuntime, errors.KindInvalidData, err, "compile wasm module")
	}

	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Wrap(errors.PhaseRuntime, errors.KindInvalidData, err, "instantiate wasm module")
	}

	Logger().Debug("instantiated wasm module",
		zap.Int("exports", len(mod.ExportedFunctionDefinitions())))
	return &Instance{runtime: rt, module: mod}, nil
}

// Exports returns the exported function names, sorted.
func (i *Instance) Exports() []string {
	defs := i.module.ExportedFunctionDefinitions()
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call invokes an exported accessor and returns its single result. i32
// results are zero-extended; wazero leaves the upper half of an i32 result
// undefined.
func (i *Instance) Call(ctx context.Context, name string, args ...uint64) (uint64, error) {
	fn := i.module.ExportedFunction(name)
	if fn == nil {
		return 0, errors.NotFound(errors.PhaseRuntime, "export", name)
	}
	def := fn.Definition()
	if want := len(def.ParamTypes()); want != len(args) {
		return 0, errors.New(errors.PhaseRuntime, errors.KindInvalidInput).
			Value(len(args)).
			Detail("%s takes %d arguments, got %d", name, want, len(args)).
			Build()
	}
	res, err := fn.Call(ctx, args...)
	if err != nil {
		return 0, errors.Wrap(errors.PhaseRuntime, errors.KindInvalidData, err, "call "+name)
	}
	if def.ResultTypes()[0] == api.ValueTypeI32 {
		return uint64(api.DecodeU32(res[0])), nil
	}
	return res[0], nil
}

// Close releases the runtime.
func (i *Instance) Close(ctx context.Context) error {
	return i.runtime.Close(ctx)
}
