package warp

import (
	"image"

	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/mesh"
)

// Source is a texture that may still be loading.
type Source interface {
	Ready() bool
	Size() (w, h int)
	Image() image.Image
}

// Surface is a 2D drawing target with canvas-style state: a transform, a clip
// path and a save/restore stack.
type Surface interface {
	Clear()
	Save()
	Restore()
	// ClipTriangle intersects the clip region with the triangle p, given in
	// current (untransformed) surface coordinates.
	ClipTriangle(p [3]dynamo.Vec2)
	// Transform post-multiplies the current transform by t.
	Transform(t Affine)
	// DrawImage draws src at the origin under the current transform and clip.
	DrawImage(src Source)
}

// Stats summarises one render pass.
type Stats struct {
	Skipped    bool // source not ready, nothing touched
	Drawn      int
	Degenerate int
}

// Renderer draws every lattice cell as two textured triangles.
type Renderer struct{}

func NewRenderer() *Renderer { return &Renderer{} }

// Draw clears s and paints src across m. If src is not ready, or has zero
// width, the surface is left untouched and Stats.Skipped is set.
func (r *Renderer) Draw(s Surface, m *mesh.Mesh, src Source) Stats {
	var st Stats
	if src == nil || !src.Ready() {
		st.Skipped = true
		return st
	}
	w, h := src.Size()
	if w == 0 {
		st.Skipped = true
		return st
	}

	s.Clear()
	fw, fh := float64(w), float64(h)
	for row := 0; row < m.Rows-1; row++ {
		for col := 0; col < m.Cols-1; col++ {
			i0, i1, i2, i3 := m.Quad(col, row)
			for _, tri := range [2][3]int{{i0, i1, i2}, {i2, i1, i3}} {
				if r.triangle(s, m, src, tri, fw, fh) {
					st.Drawn++
				} else {
					st.Degenerate++
				}
			}
		}
	}
	return st
}

// Triangles returns the screen and texture-space corners of every triangle
// in draw order. Texture coordinates are in pixels of a w×h image.
func Triangles(m *mesh.Mesh, w, h float64) (dst, src [][3]dynamo.Vec2) {
	n := 2 * (m.Cols - 1) * (m.Rows - 1)
	dst = make([][3]dynamo.Vec2, 0, n)
	src = make([][3]dynamo.Vec2, 0, n)
	for row := 0; row < m.Rows-1; row++ {
		for col := 0; col < m.Cols-1; col++ {
			i0, i1, i2, i3 := m.Quad(col, row)
			for _, tri := range [2][3]int{{i0, i1, i2}, {i2, i1, i3}} {
				d, s := corners(m, tri, w, h)
				dst = append(dst, d)
				src = append(src, s)
			}
		}
	}
	return dst, src
}

func corners(m *mesh.Mesh, tri [3]int, w, h float64) (dst, src [3]dynamo.Vec2) {
	for k, i := range tri {
		dst[k] = m.Nodes[i].Pos
		uv := m.UVs[i]
		src[k] = dynamo.Vec2{X: uv.U * w, Y: uv.V * h}
	}
	return dst, src
}

func (r *Renderer) triangle(s Surface, m *mesh.Mesh, img Source, tri [3]int, w, h float64) bool {
	dst, src := corners(m, tri, w, h)

	s.Save()
	defer s.Restore()

	s.ClipTriangle(dst)
	t, ok := SolveAffine(src, dst)
	if !ok {
		return false
	}
	s.Transform(t)
	s.DrawImage(img)
	return true
}
