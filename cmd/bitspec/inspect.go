package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/wippyai/bitpack"
	"github.com/wippyai/bitpack/layout"
	"golang.org/x/term"
)

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "print the compiled layout of each record",
		ArgsUsage: "INPUT...",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "never use colors, even on a terminal",
			},
		},
		Action: func(c *cli.Context) error {
			paths, err := inputs(c)
			if err != nil {
				return err
			}
			layouts, err := bitpack.Compile(paths...)
			if err != nil {
				return fmt.Errorf("inspect: %w", err)
			}
			w := c.App.Writer
			p := painter(!c.Bool("plain") && isTerminal(w))
			for i, l := range layouts {
				if i > 0 {
					fmt.Fprintln(w)
				}
				writeLayout(w, l, p)
			}
			return nil
		},
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writeLayout prints one record as a header line and a field table:
//
//	MyFlags u8 (8 of 8 bits used)
//	  FIELD   START  SIZE  MASK  KIND
//	  flag_0  0      1     0x01  flag
func writeLayout(w io.Writer, l *layout.Layout, p painter) {
	fmt.Fprintf(w, "%s %s (%d of %d bits used)\n",
		p.paint(titleStyle, l.Name), l.Container, l.TotalWidth, l.Container.Bits())

	rows := [][]string{{"FIELD", "START", "SIZE", "MASK", "KIND"}}
	for _, f := range l.Fields {
		kind := "uint"
		if f.IsFlag() {
			kind = "flag"
		}
		rows = append(rows, []string{
			f.Name,
			strconv.Itoa(f.Offset),
			strconv.Itoa(f.Width),
			layout.Hex(f.Mask, l.Container),
			kind,
		})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}

	for r, row := range rows {
		var b strings.Builder
		b.WriteString("  ")
		for i, cell := range row {
			text := cell
			if i < len(row)-1 {
				text += strings.Repeat(" ", widths[i]-len(cell)+2)
			}
			switch {
			case r == 0:
				text = p.paint(headerStyle, text)
			case i == 0:
				text = p.paint(fieldStyle, text)
			}
			b.WriteString(text)
		}
		fmt.Fprintln(w, b.String())
	}

	if l.TotalWidth < l.Container.Bits() {
		fmt.Fprintf(w, "  %s %s\n", p.paint(helpStyle, "padding"), layout.Hex(l.PaddingMask(), l.Container))
	}
}
