// Package surface provides warp.Surface implementations: an offscreen
// software canvas for headless rendering and a Recorder for tests.
package surface

import (
	"fmt"
	"image"

	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/mesh"
	"github.com/san-kum/clothsim/internal/warp"
	"github.com/tfriedel6/canvas"
	"github.com/tfriedel6/canvas/backend/softwarebackend"
)

// Canvas is an offscreen RGBA canvas with HTML-canvas state semantics.
type Canvas struct {
	backend *softwarebackend.SoftwareBackend
	cv      *canvas.Canvas
	w, h    int

	background string

	cached    image.Image
	cachedImg *canvas.Image
}

func NewCanvas(w, h int) *Canvas {
	b := softwarebackend.New(w, h)
	return &Canvas{
		backend:    b,
		cv:         canvas.New(b),
		w:          w,
		h:          h,
		background: "#000000",
	}
}

// SetBackground sets the colour Clear fills with. An empty string clears to
// transparent.
func (c *Canvas) SetBackground(style string) { c.background = style }

func (c *Canvas) Size() (int, int) { return c.w, c.h }

func (c *Canvas) Clear() {
	c.cv.ClearRect(0, 0, float64(c.w), float64(c.h))
	if c.background != "" {
		c.cv.SetFillStyle(c.background)
		c.cv.FillRect(0, 0, float64(c.w), float64(c.h))
	}
}

func (c *Canvas) Save()    { c.cv.Save() }
func (c *Canvas) Restore() { c.cv.Restore() }

func (c *Canvas) ClipTriangle(p [3]dynamo.Vec2) {
	c.cv.BeginPath()
	c.cv.MoveTo(p[0].X, p[0].Y)
	c.cv.LineTo(p[1].X, p[1].Y)
	c.cv.LineTo(p[2].X, p[2].Y)
	c.cv.ClosePath()
	c.cv.Clip()
}

func (c *Canvas) Transform(t warp.Affine) {
	c.cv.Transform(t.A, t.B, t.C, t.D, t.E, t.F)
}

func (c *Canvas) DrawImage(src warp.Source) {
	img, err := c.texture(src.Image())
	if err != nil {
		return
	}
	c.cv.DrawImage(img, 0, 0)
}

// texture uploads img once and reuses it until a different image is passed.
func (c *Canvas) texture(img image.Image) (*canvas.Image, error) {
	if c.cachedImg != nil && c.cached == img {
		return c.cachedImg, nil
	}
	loaded, err := c.cv.LoadImage(img)
	if err != nil {
		return nil, fmt.Errorf("surface: load texture: %w", err)
	}
	if c.cachedImg != nil {
		c.cachedImg.Delete()
	}
	c.cached, c.cachedImg = img, loaded
	return loaded, nil
}

// StrokeMesh draws every link of m as a line on top of the current contents.
func (c *Canvas) StrokeMesh(m *mesh.Mesh, style string, width float64) {
	c.cv.Save()
	defer c.cv.Restore()

	c.cv.SetStrokeStyle(style)
	c.cv.SetLineWidth(width)
	c.cv.BeginPath()
	for _, l := range m.Links {
		a, b := m.Nodes[l.First].Pos, m.Nodes[l.Second].Pos
		c.cv.MoveTo(a.X, a.Y)
		c.cv.LineTo(b.X, b.Y)
	}
	c.cv.Stroke()
}

// Snapshot returns a copy of the current pixels.
func (c *Canvas) Snapshot() *image.RGBA {
	return c.cv.GetImageData(0, 0, c.w, c.h)
}
