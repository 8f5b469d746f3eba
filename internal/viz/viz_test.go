package viz

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/sim"
)

func TestBrailleSetAndLine(t *testing.T) {
	b := NewBraille(4, 2)
	b.Set(0, 0)
	b.Set(7, 7)
	b.Set(-1, 3)
	b.Set(8, 0)

	if !b.Lit(0, 0) || !b.Lit(7, 7) {
		t.Error("expected corner dots lit")
	}
	if b.Grid[0][0] != brailleBase|0x1 {
		t.Errorf("top-left cell = %U", b.Grid[0][0])
	}

	b.Clear()
	b.DrawLine(0, 0, 7, 0)
	for x := 0; x < 8; x++ {
		if !b.Lit(x, 0) {
			t.Errorf("dot (%d,0) not lit", x)
		}
	}
	if got := strings.Count(b.String(), "\n"); got != 1 {
		t.Errorf("expected 2 rows, got %d newlines", got+1)
	}
}

func TestViewportRoundTrip(t *testing.T) {
	v := Viewport{CanvasW: 800, CanvasH: 600, Cols: 40, Rows: 15}
	for _, cell := range [][2]int{{0, 0}, {39, 14}, {17, 6}} {
		x, y := v.Dot(v.Point(cell[0], cell[1]))
		if x/2 != cell[0] || y/4 != cell[1] {
			t.Errorf("cell %v maps back to (%d,%d)", cell, x/2, y/4)
		}
	}
}

func TestFitKeepsAspect(t *testing.T) {
	tests := []struct {
		cols, rows int
		w, h       float64
		wantC      int
		wantR      int
	}{
		{56, 21, 800, 600, 56, 21},
		{100, 21, 800, 600, 56, 21},
		{56, 100, 800, 600, 56, 21},
		{1, 1, 800, 600, minCols, minRows},
	}
	for _, tt := range tests {
		c, r := fit(tt.cols, tt.rows, tt.w, tt.h)
		if c != tt.wantC || r != tt.wantR {
			t.Errorf("fit(%d,%d) = %d,%d, want %d,%d", tt.cols, tt.rows, c, r, tt.wantC, tt.wantR)
		}
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	p := dynamo.DefaultParams()
	p.CanvasW, p.CanvasH = 200, 150
	s, err := sim.New(p)
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(s, Options{GIFPath: filepath.Join(t.TempDir(), "out.gif")})
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTickAndPause(t *testing.T) {
	m := newTestModel(t)
	m = send(m, TickMsg{})
	m = send(m, TickMsg{})
	if m.sim.Frame() != 2 {
		t.Fatalf("frame = %d, want 2", m.sim.Frame())
	}
	if len(m.history) != 2 {
		t.Errorf("history len = %d", len(m.history))
	}

	m = send(m, key(" "))
	m = send(m, TickMsg{})
	if m.sim.Frame() != 2 {
		t.Errorf("paused model advanced to frame %d", m.sim.Frame())
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("view should show PAUSED")
	}

	m = send(m, key("r"))
	if m.sim.Frame() != 0 || len(m.history) != 0 {
		t.Errorf("reset left frame %d, history %d", m.sim.Frame(), len(m.history))
	}
}

func TestMouseDrag(t *testing.T) {
	m := newTestModel(t)
	mesh := m.sim.Mesh()
	last := mesh.Len() - 1

	x, y := m.view.Dot(mesh.Nodes[last].Pos)
	cellX, cellY := x/2+canvasPadX, y/4+canvasPadY
	m = send(m, tea.MouseMsg{X: cellX, Y: cellY, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	active, ok := m.sim.Drag().Active()
	if !ok {
		t.Fatal("press over a node should capture it")
	}

	m = send(m, tea.MouseMsg{X: 3, Y: 2, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	want := m.view.Point(3-canvasPadX, 2-canvasPadY)
	if got := mesh.Nodes[active].Pos; got != want {
		t.Errorf("dragged node at %v, want %v", got, want)
	}

	m = send(m, tea.MouseMsg{X: 3, Y: 2, Action: tea.MouseActionRelease})
	if _, ok := m.sim.Drag().Active(); ok {
		t.Error("release should end the drag")
	}
}

func TestOtherButtonReleaseKeepsDrag(t *testing.T) {
	m := newTestModel(t)
	x, y := m.view.Dot(m.sim.Mesh().Nodes[m.sim.Mesh().Len()-1].Pos)
	cellX, cellY := x/2+canvasPadX, y/4+canvasPadY
	m = send(m, tea.MouseMsg{X: cellX, Y: cellY, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if _, ok := m.sim.Drag().Active(); !ok {
		t.Fatal("press over a node should capture it")
	}

	for _, b := range []tea.MouseButton{tea.MouseButtonRight, tea.MouseButtonMiddle} {
		m = send(m, tea.MouseMsg{X: cellX, Y: cellY, Action: tea.MouseActionRelease, Button: b})
		if _, ok := m.sim.Drag().Active(); !ok {
			t.Errorf("releasing %v ended the left-button drag", b)
		}
	}

	m = send(m, tea.MouseMsg{X: cellX, Y: cellY, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if _, ok := m.sim.Drag().Active(); ok {
		t.Error("left release should end the drag")
	}
}

func TestWheelDoesNotPress(t *testing.T) {
	m := newTestModel(t)
	x, y := m.view.Dot(m.sim.Mesh().Nodes[m.sim.Mesh().Len()-1].Pos)
	m = send(m, tea.MouseMsg{X: x/2 + canvasPadX, Y: y/4 + canvasPadY, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	if _, ok := m.sim.Drag().Active(); ok {
		t.Error("wheel events must not start a drag")
	}
}

func TestThemeCycle(t *testing.T) {
	m := newTestModel(t)
	start := m.theme.Name
	for range Themes {
		m = send(m, key("t"))
	}
	if m.theme.Name != start {
		t.Errorf("cycling all themes ended on %s, want %s", m.theme.Name, start)
	}
	if GetTheme("nope").Name != ThemeLinen.Name {
		t.Error("unknown theme should fall back to linen")
	}
}

func TestRecordGIF(t *testing.T) {
	m := newTestModel(t)

	m = send(m, key("g"))
	if m.rec == nil {
		t.Fatal("g should start recording")
	}
	m = send(m, key("g"))
	if m.status != "recording empty" {
		t.Errorf("status = %q", m.status)
	}

	m = send(m, key("g"))
	for i := 0; i < 2*recordEvery; i++ {
		m = send(m, TickMsg{})
	}
	if !strings.Contains(m.View(), "REC 2") {
		t.Error("view should show two recorded frames")
	}
	m = send(m, key("g"))

	info, err := os.Stat(m.opts.GIFPath)
	if err != nil {
		t.Fatalf("gif not written: %v (status %q)", err, m.status)
	}
	if info.Size() == 0 {
		t.Error("gif is empty")
	}
}

func TestPickerLaunchesPreset(t *testing.T) {
	p := newPicker(Options{})
	next, _ := p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	p = next.(picker)
	if p.cursor != 1 {
		t.Fatalf("cursor = %d", p.cursor)
	}
	if !strings.Contains(p.View(), p.presets[1]) {
		t.Error("menu should list presets")
	}

	next, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p = next.(picker)
	if p.state != stateSim || cmd == nil {
		t.Fatalf("enter should launch the simulation, err=%v", p.err)
	}
	if p.live.opts.Title != p.presets[1] {
		t.Errorf("title = %q", p.live.opts.Title)
	}

	next, _ = p.Update(TickMsg{})
	p = next.(picker)
	if p.live.sim.Frame() != 1 {
		t.Errorf("tick should reach the live model, frame = %d", p.live.sim.Frame())
	}
}
