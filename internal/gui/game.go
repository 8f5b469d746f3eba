// Package gui is the desktop window: an ebiten game loop that ticks the cloth
// once per frame, paints the texture across the mesh and routes the mouse (or
// the first touch) to the drag controller.
package gui

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/san-kum/clothsim/internal/asset"
	"github.com/san-kum/clothsim/internal/constraint"
	"github.com/san-kum/clothsim/internal/control"
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/sim"
	"github.com/san-kum/clothsim/internal/warp"
)

var (
	ColBg     = color.RGBA{0, 0, 0, 255}
	ColWire   = color.RGBA{180, 180, 180, 255}
	ColPin    = color.RGBA{255, 80, 80, 255}
	ColActive = color.RGBA{255, 255, 255, 255}
)

// Options configures the window.
type Options struct {
	Title string
	Scale float64
	TPS   int
}

type Game struct {
	sim      *sim.Simulator
	src      *asset.Image
	renderer *warp.Renderer
	surface  *surface
	pointer  control.Pointer

	paused    bool
	wireframe bool
	hud       bool
	textured  bool
	lastStats warp.Stats
}

func NewGame(s *sim.Simulator, src *asset.Image) *Game {
	return &Game{
		sim:      s,
		src:      src,
		renderer: warp.NewRenderer(),
		surface:  newSurface(ColBg),
		hud:      true,
	}
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.sim.Reset()
		log.Printf("reset")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyW) {
		g.wireframe = !g.wireframe
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.hud = !g.hud
	}

	down, p := g.poll()
	g.pointer.Poll(g.sim, down, p)

	if g.paused {
		return nil
	}
	g.sim.Tick()
	if !g.sim.Valid() {
		log.Printf("frame %d: %v, resetting", g.sim.Frame(), dynamo.ErrUnstable)
		g.sim.Reset()
	}
	return nil
}

// poll samples the left mouse button, falling back to the first active touch.
// Layout makes the screen match the canvas, so positions are canvas space.
func (g *Game) poll() (bool, dynamo.Vec2) {
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return true, dynamo.Vec2{X: float64(x), Y: float64(y)}
	}
	if ids := ebiten.AppendTouchIDs(nil); len(ids) > 0 {
		x, y := ebiten.TouchPosition(ids[0])
		return true, dynamo.Vec2{X: float64(x), Y: float64(y)}
	}
	return false, dynamo.Vec2{}
}

func (g *Game) Draw(screen *ebiten.Image) {
	m := g.sim.Mesh()

	g.surface.begin(screen)
	g.lastStats = g.renderer.Draw(g.surface, m, g.src)
	if g.lastStats.Skipped {
		screen.Fill(ColBg)
	} else if !g.textured {
		g.textured = true
		w, h := g.src.Size()
		log.Printf("texture %s ready (%dx%d)", g.src, w, h)
	}

	if g.wireframe || g.lastStats.Skipped {
		for _, l := range m.Links {
			a, b := m.Nodes[l.First].Pos, m.Nodes[l.Second].Pos
			vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1, ColWire, true)
		}
		for i := range m.Nodes {
			if m.Nodes[i].Pinned {
				p := m.Nodes[i].Pos
				vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), 3, ColPin, true)
			}
		}
	}
	if i, ok := g.sim.Drag().Active(); ok {
		p := m.Nodes[i].Pos
		vector.StrokeCircle(screen, float32(p.X), float32(p.Y), float32(g.sim.Params().HitRadius), 1, ColActive, true)
	}

	if g.hud {
		g.drawHUD(screen)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	maxStretch, _ := constraint.Stretch(g.sim.Mesh())
	status := "running"
	if g.paused {
		status = "paused"
	}
	texture := "loading"
	switch {
	case g.src.Err() != nil:
		texture = "failed"
	case g.src.Ready():
		texture = fmt.Sprintf("%d tris", g.lastStats.Drawn)
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"%s  frame %d  fps %.0f\nstretch %.3f  texture %s\n[R]eset [Space] pause [W]ireframe [H]ud",
		status, g.sim.Frame(), ebiten.ActualFPS(), maxStretch, texture))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	p := g.sim.Params()
	return int(p.CanvasW), int(p.CanvasH)
}

// Run opens the window and blocks until it is closed.
func Run(s *sim.Simulator, src *asset.Image, opts Options) error {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.TPS > 0 {
		ebiten.SetTPS(opts.TPS)
	}
	p := s.Params()
	ebiten.SetWindowSize(int(p.CanvasW*opts.Scale), int(p.CanvasH*opts.Scale))
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	go func() {
		if err := src.Wait(context.Background()); err != nil {
			log.Printf("texture %s: %v", src, err)
		}
	}()

	if err := ebiten.RunGame(NewGame(s, src)); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}
