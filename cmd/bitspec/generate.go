package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/wippyai/bitpack"
	"github.com/wippyai/bitpack/gen"
	"go.uber.org/zap"
)

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Usage:     "write Go source for the declared records",
		ArgsUsage: "INPUT...",
		Description: "Under go:generate the package defaults to $GOPACKAGE and the output\n" +
			"to <$GOFILE without .go>_bits.go next to the invoking file.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output file, - for stdout",
			},
			&cli.StringFlag{
				Name:    "package",
				Aliases: []string{"p"},
				Usage:   "package clause of the generated file",
				EnvVars: []string{"GOPACKAGE"},
			},
			legacyUnsetFlag,
		},
		Action: runGenerate,
	}
}

func runGenerate(c *cli.Context) error {
	paths, err := inputs(c)
	if err != nil {
		return err
	}
	pkg := c.String("package")
	if pkg == "" {
		return fmt.Errorf("generate: --package is required outside go:generate")
	}

	sources := make([]string, len(paths))
	for i, p := range paths {
		sources[i] = filepath.Base(p)
	}

	src, err := bitpack.Generate(gen.Options{
		Package:     pkg,
		Source:      strings.Join(sources, ", "),
		LegacyUnset: c.Bool(legacyUnsetFlag.Name),
	}, paths...)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	out := outputPath(c.String("output"), os.Getenv("GOFILE"))
	if out == "-" {
		_, err := c.App.Writer.Write(src)
		return err
	}
	if err := os.WriteFile(out, src, 0o644); err != nil {
		return fmt.Errorf("generate: write %s: %w", out, err)
	}
	gen.Logger().Info("wrote generated source",
		zap.String("file", out),
		zap.Int("bytes", len(src)))
	return nil
}

// outputPath resolves the generate destination. An explicit -o wins, then
// the go:generate file name, then stdout.
func outputPath(flag, goFile string) string {
	switch {
	case flag != "":
		return flag
	case goFile != "":
		return strings.TrimSuffix(goFile, ".go") + "_bits.go"
	default:
		return "-"
	}
}
