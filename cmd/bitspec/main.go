// Command bitspec generates packed bitfield records from declarations.
//
//	bitspec generate -p flags -o flags_bits.go flags.bits
//	bitspec inspect flags.bits
//	bitspec wasm -o flags.wasm --run MyFlags.flag_4=5 flags.bits
//	bitspec explore flags.bits
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"github.com/wippyai/bitpack/decl"
	"github.com/wippyai/bitpack/gen"
	"github.com/wippyai/bitpack/layout"
	"github.com/wippyai/bitpack/wasmgen"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verboseFlag = &cli.BoolFlag{
		Name:    "verbose",
		Usage:   "log debug output to stderr",
		EnvVars: []string{"BITSPEC_VERBOSE"},
	}
	logJSONFlag = &cli.BoolFlag{
		Name:    "log-json",
		Usage:   "log as JSON instead of console text",
		EnvVars: []string{"BITSPEC_LOG_JSON"},
	}
	legacyUnsetFlag = &cli.BoolFlag{
		Name:  "legacy-unset",
		Usage: "unset flags with v & mask, clearing every other field",
	}
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	var logger *zap.Logger

	return &cli.App{
		Name:  "bitspec",
		Usage: "generate packed bitfield records",
		Flags: []cli.Flag{verboseFlag, logJSONFlag},
		Commands: []*cli.Command{
			generateCommand(),
			inspectCommand(),
			wasmCommand(),
			exploreCommand(),
		},
		Before: func(c *cli.Context) error {
			l, err := newLogger(c.Bool(verboseFlag.Name), c.Bool(logJSONFlag.Name))
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}
			logger = l
			setLoggers(l)
			return nil
		},
		After: func(c *cli.Context) error {
			if logger != nil {
				_ = logger.Sync()
			}
			return nil
		},
	}
}

// newLogger returns nil when neither flag asks for log output.
func newLogger(verbose, json bool) (*zap.Logger, error) {
	if !verbose && !json {
		return nil, nil
	}

	var cfg zap.Config
	if json {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level.SetLevel(zapcore.DebugLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func setLoggers(l *zap.Logger) {
	if l == nil {
		return
	}
	layout.SetLogger(l.Named("layout"))
	decl.SetLogger(l.Named("decl"))
	gen.SetLogger(l.Named("gen"))
	wasmgen.SetLogger(l.Named("wasmgen"))
}

func inputs(c *cli.Context) ([]string, error) {
	if c.NArg() == 0 {
		return nil, fmt.Errorf("%s: no declaration files given", c.Command.Name)
	}
	return c.Args().Slice(), nil
}
