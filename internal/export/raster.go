package export

import (
	"context"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"

	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/sim"
	"github.com/san-kum/clothsim/internal/surface"
	"github.com/san-kum/clothsim/internal/warp"
)

func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("export png: %w", err)
	}
	return nil
}

// Animation collects frames for an animated GIF. Delay is in 1/100 s.
type Animation struct {
	Delay  int
	frames []*image.Paletted
}

func NewAnimation(delay int) *Animation {
	return &Animation{Delay: delay}
}

// Add quantises img to the Plan 9 palette with dithering.
func (a *Animation) Add(img image.Image) {
	b := img.Bounds()
	p := image.NewPaletted(b, palette.Plan9)
	draw.FloydSteinberg.Draw(p, b, img, b.Min)
	a.frames = append(a.frames, p)
}

func (a *Animation) Len() int { return len(a.frames) }

func (a *Animation) Encode(w io.Writer) error {
	if len(a.frames) == 0 {
		return fmt.Errorf("export gif: no frames")
	}
	anim := &gif.GIF{
		Image: a.frames,
		Delay: make([]int, len(a.frames)),
	}
	for i := range anim.Delay {
		anim.Delay[i] = a.Delay
	}
	return gif.EncodeAll(w, anim)
}

// RenderOptions controls offscreen rendering of a running simulator.
type RenderOptions struct {
	Every     int    // render one frame out of Every
	Wireframe string // link colour drawn over the texture; empty for none
}

// Render advances s by frames ticks, painting src onto an offscreen canvas
// every opts.Every frames and passing each image to emit. The texture must be
// ready; a skipped pass yields ErrImageNotReady.
func Render(ctx context.Context, s *sim.Simulator, src warp.Source, frames int, opts RenderOptions, emit func(frame int, img *image.RGBA)) error {
	p := s.Params()
	c := surface.NewCanvas(int(p.CanvasW), int(p.CanvasH))
	r := warp.NewRenderer()
	every := opts.Every
	if every <= 0 {
		every = 1
	}

	for i := 1; i <= frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Tick()
		if i%every != 0 && i != frames {
			continue
		}
		if st := r.Draw(c, s.Mesh(), src); st.Skipped {
			return fmt.Errorf("frame %d: %w", s.Frame(), dynamo.ErrImageNotReady)
		}
		if opts.Wireframe != "" {
			c.StrokeMesh(s.Mesh(), opts.Wireframe, 1)
		}
		emit(s.Frame(), c.Snapshot())
	}
	return nil
}
