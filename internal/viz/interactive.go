package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/sim"
)

const (
	stateMenu = iota
	stateSim
)

// picker lists the configuration presets and launches the cloth model for
// the chosen one.
type picker struct {
	state, cursor int
	presets       []string
	opts          Options
	live          Model
	err           error
}

func newPicker(opts Options) picker {
	return picker{state: stateMenu, presets: config.ListPresets(), opts: opts}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		return m.start()
	}
	return m, nil
}

func (m picker) start() (picker, tea.Cmd) {
	name := m.presets[m.cursor]
	p, err := config.GetPreset(name).Params()
	if err != nil {
		m.err = err
		return m, nil
	}
	s, err := sim.New(p)
	if err != nil {
		m.err = err
		return m, nil
	}
	opts := m.opts
	opts.Title = name
	m.live = NewModel(s, opts)
	m.state = stateSim
	return m, m.live.Init()
}

func (m picker) View() string {
	if m.state == stateSim {
		return m.live.View()
	}
	st := newStyles(GetTheme(m.opts.Theme))
	var b strings.Builder
	b.WriteString("\n\n    " + st.header.Render("CLOTHSIM") + "\n    " + st.label.UnsetWidth().Render("pick a preset") + "\n\n")
	for i, name := range m.presets {
		desc := config.Presets[name].Description
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", st.key.Render("▸"), st.selected.Render(fmt.Sprintf("%-10s", name)), st.value.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", st.label.UnsetWidth().Render(fmt.Sprintf("%-10s", name)), st.label.UnsetWidth().Render(desc)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + st.recording.UnsetBlink().Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + st.key.Render("j/k") + st.help.UnsetMarginTop().Render(" navigate  ") +
		st.key.Render("enter") + st.help.UnsetMarginTop().Render(" select  ") +
		st.key.Render("q") + st.help.UnsetMarginTop().Render(" quit") + "\n")
	return b.String()
}

// RunInteractive shows the preset menu, then the cloth for the chosen preset.
func RunInteractive(opts Options) error {
	_, err := tea.NewProgram(newPicker(opts), tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
