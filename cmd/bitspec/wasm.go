package main

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/wippyai/bitpack"
	"github.com/wippyai/bitpack/layout"
	"github.com/wippyai/bitpack/record"
	"github.com/wippyai/bitpack/wasmgen"
	"go.uber.org/zap"
	"lukechampine.com/uint128"
)

func wasmCommand() *cli.Command {
	return &cli.Command{
		Name:      "wasm",
		Usage:     "emit a wasm module exporting the record accessors",
		ArgsUsage: "INPUT...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output .wasm file",
			},
			&cli.StringSliceFlag{
				Name:  "run",
				Usage: "call record.field=value through wazero, starting from zero; repeatable",
			},
			legacyUnsetFlag,
		},
		Action: runWasm,
	}
}

func runWasm(c *cli.Context) error {
	paths, err := inputs(c)
	if err != nil {
		return err
	}
	out := c.String("output")
	calls := c.StringSlice("run")
	if out == "" && len(calls) == 0 {
		return fmt.Errorf("wasm: nothing to do, give -o or --run")
	}

	layouts, err := bitpack.Compile(paths...)
	if err != nil {
		return fmt.Errorf("wasm: %w", err)
	}
	legacy := c.Bool(legacyUnsetFlag.Name)
	bin, err := wasmgen.Emit(layouts, wasmgen.Options{LegacyUnset: legacy})
	if err != nil {
		return fmt.Errorf("wasm: %w", err)
	}

	if out != "" {
		if err := os.WriteFile(out, bin, 0o644); err != nil {
			return fmt.Errorf("wasm: write %s: %w", out, err)
		}
		wasmgen.Logger().Info("wrote wasm module",
			zap.String("file", out),
			zap.Int("bytes", len(bin)))
	}
	if len(calls) == 0 {
		return nil
	}

	var opts []record.Option
	if legacy {
		opts = append(opts, record.WithLegacyUnset())
	}
	schemas := make(map[string]*record.Schema, len(layouts))
	for _, s := range bitpack.Schemas(layouts, opts...) {
		schemas[s.Name()] = s
	}
	return smokeRun(c.Context, c.App.Writer, bin, schemas, calls)
}

type call struct {
	record string
	field  string
	value  string
}

func parseCall(s string) (call, error) {
	target, value, ok := strings.Cut(s, "=")
	if !ok {
		return call{}, fmt.Errorf("--run %q: want record.field=value", s)
	}
	rec, field, ok := strings.Cut(target, ".")
	if !ok || rec == "" || field == "" {
		return call{}, fmt.Errorf("--run %q: want record.field=value", s)
	}
	return call{record: rec, field: field, value: value}, nil
}

// smokeRun applies each call to its record's running value through the
// emitted module and prints the record after every step.
func smokeRun(ctx context.Context, w io.Writer, bin []byte, schemas map[string]*record.Schema, calls []string) error {
	inst, err := wasmgen.Instantiate(ctx, bin)
	if err != nil {
		return fmt.Errorf("wasm: %w", err)
	}
	defer inst.Close(ctx)

	values := make(map[string]uint64)
	for _, s := range calls {
		cl, err := parseCall(s)
		if err != nil {
			return err
		}
		schema, ok := schemas[cl.record]
		if !ok {
			return fmt.Errorf("--run %q: unknown record %q", s, cl.record)
		}
		a, ok := schema.Accessor(cl.field)
		if !ok {
			return fmt.Errorf("--run %q: record %s has no field %q", s, cl.record, cl.field)
		}

		v := values[cl.record]
		if a.Field.IsFlag() {
			on, err := strconv.ParseBool(cl.value)
			if err != nil {
				return fmt.Errorf("--run %q: flag value: %w", s, err)
			}
			op := "unset"
			if on {
				op = "set"
			}
			v, err = inst.Call(ctx, wasmgen.ExportName(cl.record, cl.field, op), v)
			if err != nil {
				return err
			}
		} else {
			x, err := parseValue(cl.value)
			if err != nil {
				return fmt.Errorf("--run %q: %w", s, err)
			}
			v, err = inst.Call(ctx, wasmgen.ExportName(cl.record, cl.field, "set"), v, x.Lo)
			if err != nil {
				return err
			}
		}
		values[cl.record] = v

		got, err := inst.Call(ctx, wasmgen.ExportName(cl.record, cl.field, ""), v)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s -> %s (%s = %d)\n  %s\n",
			s, layout.Hex(uint128.From64(v), schema.Layout().Container), cl.field, got,
			schema.New(uint128.From64(v)))
	}
	return nil
}

// parseValue accepts Go integer literals up to 128 bits.
func parseValue(s string) (uint128.Uint128, error) {
	i, ok := new(big.Int).SetString(s, 0)
	if !ok || i.Sign() < 0 || i.BitLen() > 128 {
		return uint128.Zero, fmt.Errorf("invalid value %q", s)
	}
	return uint128.FromBig(i), nil
}
