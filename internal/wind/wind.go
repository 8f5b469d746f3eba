// Package wind produces one non-negative, rightward wind magnitude per node
// per frame.
package wind

import (
	"math/rand"

	"github.com/aquilax/go-perlin"
	"github.com/san-kum/clothsim/internal/dynamo"
)

type Mode string

const (
	// Flutter draws every node independently: (0.5 + U(0,1)*0.5) * strength.
	Flutter Mode = dynamo.WindFlutter
	// Gust samples Perlin noise along the drifting phase accumulators so
	// neighbouring nodes share a gust front.
	Gust Mode = dynamo.WindGust
)

// Field holds per-node wind magnitudes and the two phase accumulators.
type Field struct {
	cols, rows int
	strength   float64
	speed      float64
	mode       Mode

	rng   *rand.Rand
	noise *perlin.Perlin

	mean, mean2 float64
	values      []float64
}

func New(cols, rows int, strength, speed float64, mode Mode, seed int64) *Field {
	if mode == "" {
		mode = Flutter
	}
	f := &Field{
		cols:     cols,
		rows:     rows,
		strength: strength,
		speed:    speed,
		mode:     mode,
		rng:      rand.New(rand.NewSource(seed)),
		mean:     0,
		mean2:    -float64(cols),
		values:   make([]float64, cols*rows),
	}
	if mode == Gust {
		f.noise = perlin.NewPerlin(2, 2, 3, seed)
	}
	return f
}

// Update advances both phase accumulators by speed, wrapping them into
// [-0.5*cols, 1.5*cols], then recomputes every node's magnitude.
func (f *Field) Update() {
	span := float64(f.cols)

	f.mean += f.speed
	if f.mean > span*1.5 {
		f.mean = -0.5 * span
	}

	f.mean2 += f.speed
	if f.mean2 > span*1.5 {
		f.mean2 = -0.5 * span
	}

	switch f.mode {
	case Gust:
		f.updateGust()
	default:
		for i := range f.values {
			f.values[i] = (0.5 + f.rng.Float64()*0.5) * f.strength
		}
	}
}

func (f *Field) updateGust() {
	const scale = 0.35
	for i := range f.values {
		col, row := float64(i%f.cols), float64(i/f.cols)
		a := f.noise.Noise2D((col-f.mean)*scale, row*scale)
		b := f.noise.Noise2D((col-f.mean2)*scale, row*scale+7.3)
		n := ((a+b)/2 + 1) / 2
		if n < 0 {
			n = 0
		} else if n > 1 {
			n = 1
		}
		f.values[i] = (0.5 + n*0.5) * f.strength
	}
}

// Values returns the magnitudes from the last Update. The slice is owned by
// the field and overwritten on the next Update.
func (f *Field) Values() []float64 { return f.values }

func (f *Field) At(i int) float64 { return f.values[i] }

// Phases returns the two phase accumulators.
func (f *Field) Phases() (mean, mean2 float64) { return f.mean, f.mean2 }

func (f *Field) Mode() Mode { return f.mode }
