package viz

import (
	"fmt"
	"os"

	"github.com/san-kum/clothsim/internal/export"
	"github.com/san-kum/clothsim/internal/mesh"
	"github.com/san-kum/clothsim/internal/surface"
	"github.com/san-kum/clothsim/internal/warp"
)

const (
	recordEvery = 3
	recordDelay = 5 // 1/100 s, matches recordEvery at 60 fps
)

// recorder paints the textured cloth offscreen while the terminal shows the
// wireframe. Until the texture is ready frames fall back to a wireframe.
type recorder struct {
	canvas   *surface.Canvas
	renderer *warp.Renderer
	src      warp.Source
	wire     string
	anim     *export.Animation
	n        int
}

func newRecorder(w, h int, src warp.Source, wire string) *recorder {
	return &recorder{
		canvas:   surface.NewCanvas(w, h),
		renderer: warp.NewRenderer(),
		src:      src,
		wire:     wire,
		anim:     export.NewAnimation(recordDelay),
	}
}

func (r *recorder) capture(m *mesh.Mesh) {
	r.n++
	if r.n%recordEvery != 0 {
		return
	}
	if st := r.renderer.Draw(r.canvas, m, r.src); st.Skipped {
		r.canvas.Clear()
		r.canvas.StrokeMesh(m, r.wire, 1)
	}
	r.anim.Add(r.canvas.Snapshot())
}

func (r *recorder) frames() int { return r.anim.Len() }

func (r *recorder) save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save recording: %w", err)
	}
	if err := r.anim.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("save recording: %w", err)
	}
	return f.Close()
}
