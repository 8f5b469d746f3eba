package metrics

import (
	"math"

	"github.com/san-kum/clothsim/internal/mesh"
)

// Motion is the mean per-node displacement per frame, |Pos - Last|, averaged
// over the run. A cloth at rest reads zero.
type Motion struct {
	name    string
	total   float64
	samples int
}

func NewMotion() *Motion {
	return &Motion{name: "motion"}
}

func (e *Motion) Name() string { return e.name }

func (e *Motion) Observe(m *mesh.Mesh, frame int) {
	if len(m.Nodes) == 0 {
		return
	}
	var sum float64
	for i := range m.Nodes {
		sum += m.Nodes[i].Pos.Dist(m.Nodes[i].Last)
	}
	e.total += sum / float64(len(m.Nodes))
	e.samples++
}

func (e *Motion) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Motion) Reset() {
	e.total = 0
	e.samples = 0
}

// PinDrift is the largest distance any pinned node has moved from its
// construction position. It stays zero on a correct run.
type PinDrift struct {
	name     string
	maxDrift float64
}

func NewPinDrift() *PinDrift {
	return &PinDrift{name: "pin_drift"}
}

func (e *PinDrift) Name() string { return e.name }

func (e *PinDrift) Observe(m *mesh.Mesh, frame int) {
	for i := range m.Nodes {
		if !m.Nodes[i].Pinned {
			continue
		}
		e.maxDrift = math.Max(e.maxDrift, m.Nodes[i].Pos.Dist(m.Initial(i)))
	}
}

func (e *PinDrift) Value() float64 { return e.maxDrift }

func (e *PinDrift) Reset() { e.maxDrift = 0 }
