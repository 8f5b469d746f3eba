package gui

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/warp"
)

type surfaceState struct {
	clip    [3]dynamo.Vec2
	clipped bool
	t       warp.Affine
}

// surface implements warp.Surface on an ebiten screen. Ebiten has no clip
// paths, so a clipped DrawImage becomes one textured triangle whose source
// coordinates are the clip triangle pulled back through the transform.
type surface struct {
	target   *ebiten.Image
	bg       color.Color
	cur      surfaceState
	stack    []surfaceState
	textures map[image.Image]*ebiten.Image
	verts    []ebiten.Vertex
}

func newSurface(bg color.Color) *surface {
	return &surface{
		bg:       bg,
		cur:      surfaceState{t: warp.Identity},
		textures: make(map[image.Image]*ebiten.Image),
		verts:    make([]ebiten.Vertex, 3),
	}
}

func (s *surface) Clear() { s.target.Fill(s.bg) }

func (s *surface) Save() { s.stack = append(s.stack, s.cur) }

func (s *surface) Restore() {
	if n := len(s.stack); n > 0 {
		s.cur = s.stack[n-1]
		s.stack = s.stack[:n-1]
	}
}

// ClipTriangle records p in device space.
func (s *surface) ClipTriangle(p [3]dynamo.Vec2) {
	for k := range p {
		p[k] = s.cur.t.Apply(p[k])
	}
	s.cur.clip = p
	s.cur.clipped = true
}

func (s *surface) Transform(t warp.Affine) { s.cur.t = t.Then(s.cur.t) }

var triangleIndices = []uint16{0, 1, 2}

func (s *surface) DrawImage(src warp.Source) {
	tex := s.texture(src.Image())
	if !s.cur.clipped {
		op := &ebiten.DrawImageOptions{}
		t := s.cur.t
		op.GeoM.SetElement(0, 0, t.A)
		op.GeoM.SetElement(1, 0, t.B)
		op.GeoM.SetElement(0, 1, t.C)
		op.GeoM.SetElement(1, 1, t.D)
		op.GeoM.SetElement(0, 2, t.E)
		op.GeoM.SetElement(1, 2, t.F)
		s.target.DrawImage(tex, op)
		return
	}

	uv, ok := warp.Pullback(s.cur.clip, s.cur.t)
	if !ok {
		return
	}
	for k := range s.verts {
		s.verts[k] = ebiten.Vertex{
			DstX:   float32(s.cur.clip[k].X),
			DstY:   float32(s.cur.clip[k].Y),
			SrcX:   float32(uv[k].X),
			SrcY:   float32(uv[k].Y),
			ColorR: 1,
			ColorG: 1,
			ColorB: 1,
			ColorA: 1,
		}
	}
	op := &ebiten.DrawTrianglesOptions{}
	op.Filter = ebiten.FilterLinear
	s.target.DrawTriangles(s.verts, triangleIndices, tex, op)
}

func (s *surface) texture(img image.Image) *ebiten.Image {
	if tex, ok := s.textures[img]; ok {
		return tex
	}
	tex := ebiten.NewImageFromImage(img)
	s.textures[img] = tex
	return tex
}

// begin targets screen and drops any state left from the previous frame.
func (s *surface) begin(screen *ebiten.Image) {
	s.target = screen
	s.cur = surfaceState{t: warp.Identity}
	s.stack = s.stack[:0]
}
