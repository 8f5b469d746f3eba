package metrics

import (
	"github.com/san-kum/clothsim/internal/constraint"
	"github.com/san-kum/clothsim/internal/mesh"
	"github.com/san-kum/clothsim/internal/sim"
)

// Stretch tracks link length over MaxDist. With peak set it reports the worst
// ratio seen on any frame; otherwise the mean ratio of the last frame.
type Stretch struct {
	name  string
	peak  bool
	value float64
}

func NewMaxStretch() *Stretch {
	return &Stretch{name: "max_stretch", peak: true}
}

func NewMeanStretch() *Stretch {
	return &Stretch{name: "mean_stretch"}
}

func (c *Stretch) Name() string {
	return c.name
}

func (c *Stretch) Observe(m *mesh.Mesh, frame int) {
	max, mean := constraint.Stretch(m)
	if !c.peak {
		c.value = mean
		return
	}
	if max > c.value {
		c.value = max
	}
}

func (c *Stretch) Value() float64 {
	return c.value
}

func (c *Stretch) Reset() {
	c.value = 0
}

// Standard returns a fresh set of every cloth metric. active exempts the
// dragged node from the bounds check; it may be nil.
func Standard(margin float64, active func() int) []sim.Metric {
	return []sim.Metric{
		NewMaxStretch(),
		NewMeanStretch(),
		NewPinDrift(),
		NewBounds(margin, active),
		NewMotion(),
	}
}

// Attach adds the standard metrics to s.
func Attach(s *sim.Simulator) {
	for _, m := range Standard(s.Params().Margin, s.Drag().Index) {
		s.AddMetric(m)
	}
}
