package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/clothsim/internal/constraint"
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/sim"
	"github.com/san-kum/clothsim/internal/warp"
)

const (
	fps             = 60
	historyCapacity = 240
	statsWidth      = 42
	canvasPadX      = 2
	canvasPadY      = 1
	defaultCols     = 56
	defaultRows     = 21
	minCols         = 16
	minRows         = 6
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Options configures a terminal session.
type Options struct {
	Title   string
	Theme   string
	GIFPath string
	// Source is the texture painted into recordings; nil records wireframes.
	Source warp.Source
}

// Model drives one simulator from Bubble Tea messages: a 60 Hz tick steps the
// cloth and left-button mouse events become press, move and release.
type Model struct {
	sim  *sim.Simulator
	opts Options

	view    Viewport
	braille *Braille
	theme   Theme
	styles  styles

	running  bool
	showHelp bool
	status   string

	history []float64
	spring  harmonica.Spring
	gauge   float64
	gaugeV  float64

	rec *recorder
}

func NewModel(s *sim.Simulator, opts Options) Model {
	if opts.Title == "" {
		opts.Title = "clothsim"
	}
	if opts.GIFPath == "" {
		opts.GIFPath = "clothsim.gif"
	}
	p := s.Params()
	theme := GetTheme(opts.Theme)
	m := Model{
		sim:     s,
		opts:    opts,
		theme:   theme,
		styles:  newStyles(theme),
		running: true,
		history: make([]float64, 0, historyCapacity),
		spring:  harmonica.NewSpring(harmonica.FPS(fps), 6.0, 0.8),
	}
	m.resize(fit(defaultCols, defaultRows, p.CanvasW, p.CanvasH))
	return m
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.rec != nil {
				m.stopRecording()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "t":
			m.theme = m.theme.Next()
			m.styles = newStyles(m.theme)
		case "g":
			if m.rec != nil {
				m.stopRecording()
			} else {
				p := m.sim.Params()
				m.rec = newRecorder(int(p.CanvasW), int(p.CanvasH), m.opts.Source, string(m.theme.Cloth))
				m.status = "recording"
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		m.mouse(msg)
	case tea.WindowSizeMsg:
		p := m.sim.Params()
		m.resize(fit(msg.Width-statsWidth-2*canvasPadX-2, msg.Height-2*canvasPadY-1, p.CanvasW, p.CanvasH))
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) mouse(msg tea.MouseMsg) {
	p := m.pointer(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.sim.Press(p)
		}
	case tea.MouseActionMotion:
		m.sim.Move(p)
	case tea.MouseActionRelease:
		// X10 terminals report releases without a button.
		if msg.Button == tea.MouseButtonLeft || msg.Button == tea.MouseButtonNone {
			m.sim.Release()
		}
	}
}

// pointer maps a terminal cell to canvas coordinates.
func (m *Model) pointer(x, y int) dynamo.Vec2 {
	return m.view.Point(x-canvasPadX, y-canvasPadY)
}

func (m *Model) step() {
	m.sim.Tick()
	if !m.sim.Valid() {
		m.reset()
		m.status = "diverged, reset"
		return
	}

	maxStretch, _ := constraint.Stretch(m.sim.Mesh())
	m.history = append(m.history, maxStretch)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
	m.gauge, m.gaugeV = m.spring.Update(m.gauge, m.gaugeV, maxStretch)

	if m.rec != nil {
		m.rec.capture(m.sim.Mesh())
	}
}

func (m *Model) reset() {
	m.sim.Reset()
	m.history = m.history[:0]
	m.gauge, m.gaugeV = 0, 0
	m.status = ""
}

func (m *Model) stopRecording() {
	rec := m.rec
	m.rec = nil
	if rec.frames() == 0 {
		m.status = "recording empty"
		return
	}
	if err := rec.save(m.opts.GIFPath); err != nil {
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("saved %d frames to %s", rec.frames(), m.opts.GIFPath)
}

func (m *Model) resize(cols, rows int) {
	p := m.sim.Params()
	m.view = Viewport{CanvasW: p.CanvasW, CanvasH: p.CanvasH, Cols: cols, Rows: rows}
	m.braille = NewBraille(cols, rows)
}

// fit returns the largest cell grid inside cols x rows whose dot grid keeps
// the canvas aspect ratio.
func fit(cols, rows int, w, h float64) (int, int) {
	if cols < minCols {
		cols = minCols
	}
	if rows < minRows {
		rows = minRows
	}
	scale := float64(cols*2) / w
	if s := float64(rows*4) / h; s < scale {
		scale = s
	}
	c, r := int(w*scale/2), int(h*scale/4)
	if c < minCols {
		c = minCols
	}
	if r < minRows {
		r = minRows
	}
	return c, r
}

func (m Model) View() string {
	m.braille.Clear()
	m.braille.DrawMesh(m.sim.Mesh(), m.view, m.sim.Drag().Index())
	canvasView := m.styles.canvas.Render(m.braille.String())

	st := m.styles
	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.opts.Title)) + "\n")

	switch {
	case m.rec != nil:
		s.WriteString(st.recording.Render(fmt.Sprintf("● REC %d", m.rec.frames())))
	case m.running:
		s.WriteString(st.running.Render("RUNNING"))
	default:
		s.WriteString(st.paused.Render("PAUSED"))
	}
	s.WriteString("\n\n")

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(4), asciigraph.Width(28), asciigraph.Caption("max stretch"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	p := m.sim.Params()
	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Frame", fmt.Sprintf("%d", m.sim.Frame()))
	row("Time", fmt.Sprintf("%.2fs", float64(m.sim.Frame())*p.Dt))
	row("Lattice", fmt.Sprintf("%dx%d", p.Cols, p.Rows))
	row("Wind", fmt.Sprintf("%s %.1f", m.sim.Wind().Mode(), p.WindStrength))
	drag := "-"
	if i, ok := m.sim.Drag().Active(); ok {
		drag = fmt.Sprintf("node %d", i)
	}
	row("Drag", drag)
	s.WriteString(st.label.Render("Stretch") + Gauge(m.gauge, 1, 16, m.theme) + st.value.Render(fmt.Sprintf(" %.2f", m.gauge)) + "\n")

	if m.status != "" {
		s.WriteString("\n" + st.value.Render(m.status) + "\n")
	}

	s.WriteString(st.help.Render(Separator(statsWidth-6, m.theme) + "\nSP:Pause R:Reset Q:Quit\nT:Theme  G:Record ?:Help\nmouse: drag the cloth"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))
	if m.showHelp {
		return m.helpView() + "\n" + mainView
	}
	return mainView
}

func (m Model) helpView() string {
	keys := [][2]string{
		{"Space", "Pause/Resume simulation"},
		{"R", "Reset the cloth"},
		{"Q", "Quit"},
		{"G", "Toggle GIF recording"},
		{"T", "Cycle themes"},
		{"?", "Toggle this help"},
		{"Mouse", "Press, drag and release a node"},
	}
	var b strings.Builder
	b.WriteString(m.styles.header.Render("KEYBOARD SHORTCUTS") + "\n")
	for _, k := range keys {
		b.WriteString(m.styles.key.Render(fmt.Sprintf("%-7s", k[0])) + " " + m.styles.value.Render(k[1]) + "\n")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(m.theme.Muted).
		Padding(0, 2).
		Render(strings.TrimRight(b.String(), "\n"))
}

// Run opens the terminal UI for s and blocks until the user quits.
func Run(s *sim.Simulator, opts Options) error {
	_, err := tea.NewProgram(NewModel(s, opts), tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
