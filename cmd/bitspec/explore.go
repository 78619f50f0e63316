package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"
	"github.com/wippyai/bitpack"
	"github.com/wippyai/bitpack/layout"
	"github.com/wippyai/bitpack/record"
	"lukechampine.com/uint128"
)

func exploreCommand() *cli.Command {
	return &cli.Command{
		Name:      "explore",
		Usage:     "edit record values interactively",
		ArgsUsage: "INPUT...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "record",
				Usage: "record to open first",
			},
			legacyUnsetFlag,
		},
		Action: func(c *cli.Context) error {
			paths, err := inputs(c)
			if err != nil {
				return err
			}
			layouts, err := bitpack.Compile(paths...)
			if err != nil {
				return fmt.Errorf("explore: %w", err)
			}
			if len(layouts) == 0 {
				return fmt.Errorf("explore: no records declared")
			}

			var opts []record.Option
			if c.Bool(legacyUnsetFlag.Name) {
				opts = append(opts, record.WithLegacyUnset())
			}
			schemas := bitpack.Schemas(layouts, opts...)

			current := 0
			if name := c.String("record"); name != "" {
				current = -1
				for i, s := range schemas {
					if s.Name() == name {
						current = i
					}
				}
				if current < 0 {
					return fmt.Errorf("explore: unknown record %q", name)
				}
			}

			p := tea.NewProgram(newExploreModel(strings.Join(paths, ", "), schemas, current), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}

type exploreModel struct {
	err      error
	records  []*record.Record
	input    textinput.Model
	source   string
	current  int
	selected int
	editing  bool
}

func newExploreModel(source string, schemas []*record.Schema, current int) *exploreModel {
	records := make([]*record.Record, len(schemas))
	for i, s := range schemas {
		records[i] = s.Zero()
	}
	ti := textinput.New()
	ti.Width = 40
	return &exploreModel{
		records: records,
		input:   ti,
		source:  source,
		current: current,
	}
}

func (m *exploreModel) record() *record.Record {
	return m.records[m.current]
}

func (m *exploreModel) field() layout.Field {
	return m.record().Schema().Layout().Fields[m.selected]
}

func (m *exploreModel) Init() tea.Cmd {
	return nil
}

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.editing {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	if m.editing {
		return m.updateEditing(key)
	}

	m.err = nil
	r := m.record()
	f := m.field()

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.selected < len(r.Schema().Layout().Fields)-1 {
			m.selected++
		}

	case "tab":
		m.current = (m.current + 1) % len(m.records)
		m.selected = 0

	case " ", "space":
		if f.IsFlag() {
			_, m.err = r.Toggle(f.Name)
		}

	case "enter":
		if f.IsFlag() {
			_, m.err = r.Raise(f.Name)
			break
		}
		v, err := r.Get(f.Name)
		if err != nil {
			m.err = err
			break
		}
		m.input.SetValue("")
		m.input.Placeholder = v.String()
		m.input.Prompt = f.Name + ": "
		m.editing = true
		return m, m.input.Focus()

	case "u":
		if f.IsFlag() {
			_, m.err = r.Unset(f.Name)
		} else {
			_, m.err = r.Set(f.Name, uint128.Zero)
		}
	}
	return m, nil
}

func (m *exploreModel) updateEditing(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "enter":
		m.editing = false
		m.input.Blur()
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		v, err := parseValue(text)
		if err != nil {
			m.err = err
			return m, nil
		}
		_, m.err = m.record().Set(m.field().Name, v)
		return m, nil

	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

func (m *exploreModel) View() string {
	r := m.record()
	l := r.Schema().Layout()

	var b strings.Builder
	b.WriteString(titleStyle.Render("bitspec"))
	b.WriteString(" ")
	b.WriteString(m.source)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "%s %s  %s\n", fieldStyle.Render(l.Name), l.Container,
		valueStyle.Render(layout.Hex(r.Value(), l.Container)))
	fmt.Fprintf(&b, "%s\n\n", helpStyle.Render(layout.Binary(r.Value(), l.Container)))

	nameWidth := 0
	for _, f := range l.Fields {
		nameWidth = max(nameWidth, len(f.Name))
	}
	for i, a := range r.Schema().Accessors() {
		f := a.Field
		v := a.Get(r.Value())
		value := v.String()
		if f.IsFlag() {
			value = fmt.Sprint(v.Equals64(1))
		}
		line := fmt.Sprintf("%-*s  %-40s  u%-3d @%d", nameWidth, f.Name, value, f.Width, f.Offset)
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.editing {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter store • esc cancel"))
		return b.String()
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}
	help := "↑/↓ select • space toggle • enter set/edit • u unset • q quit"
	if len(m.records) > 1 {
		help += " • tab next record"
	}
	b.WriteString(helpStyle.Render(help))
	return b.String()
}
