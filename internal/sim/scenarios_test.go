package sim_test

import (
	"image"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/clothsim/internal/asset"
	"github.com/san-kum/clothsim/internal/constraint"
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/mesh"
	"github.com/san-kum/clothsim/internal/sim"
	"github.com/san-kum/clothsim/internal/surface"
	"github.com/san-kum/clothsim/internal/warp"
)

func simulator(mod func(*dynamo.Params)) *sim.Simulator {
	p := dynamo.DefaultParams()
	if mod != nil {
		mod(&p)
	}
	s, err := sim.New(p)
	Expect(err).NotTo(HaveOccurred())
	return s
}

var _ = Describe("Cloth", func() {
	Describe("pinned column", func() {
		It("holds a 2x2 lattice's left column in place for 100 ticks", func() {
			s := simulator(func(p *dynamo.Params) { p.Cols, p.Rows = 2, 2 })
			m := s.Mesh()
			top, bottom := m.Index(0, 0), m.Index(0, 1)
			topStart, bottomStart := m.Nodes[top].Pos, m.Nodes[bottom].Pos

			for i := 0; i < 100; i++ {
				s.Tick()
				Expect(m.Nodes[top].Pos).To(Equal(topStart))
				Expect(m.Nodes[bottom].Pos).To(Equal(bottomStart))
			}
		})

		It("keeps every pinned node at its initial position on the default lattice", func() {
			s := simulator(nil)
			m := s.Mesh()
			for i := 0; i < 200; i++ {
				s.Tick()
			}
			for i := range m.Nodes {
				if m.Nodes[i].Pinned {
					Expect(m.Nodes[i].Pos).To(Equal(m.Initial(i)))
				}
			}
		})
	})

	Describe("bounds", func() {
		It("keeps non-active nodes inside the margin under heavy forcing", func() {
			s := simulator(func(p *dynamo.Params) {
				p.Gravity = 400
				p.WindStrength = 300
			})
			p := s.Params()
			m := s.Mesh()
			for i := 0; i < 120; i++ {
				s.Tick()
				for _, n := range m.Nodes {
					Expect(n.Pos.X).To(BeNumerically(">=", p.Margin))
					Expect(n.Pos.X).To(BeNumerically("<=", p.CanvasW-p.Margin))
					Expect(n.Pos.Y).To(BeNumerically(">=", p.Margin))
					Expect(n.Pos.Y).To(BeNumerically("<=", p.CanvasH-p.Margin))
				}
			}
		})
	})

	Describe("wind", func() {
		It("never blows leftward", func() {
			s := simulator(nil)
			for i := 0; i < 100; i++ {
				s.Tick()
				for _, w := range s.Wind().Values() {
					Expect(w).To(BeNumerically(">=", 0))
				}
			}
		})
	})

	Describe("single link", func() {
		It("relaxes an 80px separation to at most 50px in 10 passes", func() {
			m := &mesh.Mesh{
				MaxDist: 50,
				Nodes: []mesh.Node{
					{Pos: dynamo.Vec2{X: 100, Y: 100}},
					{Pos: dynamo.Vec2{X: 180, Y: 100}},
				},
				Links: []mesh.Link{{First: 0, Second: 1}},
			}
			constraint.NewSolver(10).Relax(m, mesh.None)

			d := m.Nodes[0].Pos.Dist(m.Nodes[1].Pos)
			Expect(d).To(BeNumerically("<=", 50+1e-9))
		})
	})

	Describe("drag", func() {
		It("pins the grabbed node to the pointer regardless of gravity", func() {
			s := simulator(func(p *dynamo.Params) { p.Gravity = 1e5 })
			m := s.Mesh()
			target := m.Index(1, 1)

			Expect(s.Press(m.Nodes[target].Pos)).To(BeTrue())
			for _, p := range []dynamo.Vec2{{X: 0, Y: 0}, {X: 50, Y: 50}, {X: 100, Y: 100}} {
				s.Move(p)
				Expect(m.Nodes[target].Pos).To(Equal(p))
				s.Tick()
				Expect(m.Nodes[target].Pos).To(Equal(p))
			}
			Expect(m.Nodes[target].Pos).To(Equal(dynamo.Vec2{X: 100, Y: 100}))
		})

		It("releases the node with zero implied velocity", func() {
			s := simulator(func(p *dynamo.Params) {
				p.Gravity = 0
				p.WindStrength = 0
				p.Stiffness = 1
			})
			m := s.Mesh()
			target := m.Index(4, 4)
			rest := m.Nodes[target].Pos

			Expect(s.Press(rest.Add(dynamo.Vec2{X: 3, Y: 3}))).To(BeTrue())
			s.Move(rest.Add(dynamo.Vec2{X: 1, Y: -1}))
			s.Move(rest)
			s.Release()

			n := m.Nodes[target]
			Expect(n.Pos.Sub(n.Last)).To(Equal(dynamo.Vec2{}))

			s.Tick()
			Expect(m.Nodes[target].Pos.Dist(rest)).To(BeNumerically("<", 1e-9))
		})

		It("ignores presses that miss every node", func() {
			s := simulator(nil)
			Expect(s.Press(dynamo.Vec2{X: 5, Y: 5})).To(BeFalse())
			_, active := s.Drag().Active()
			Expect(active).To(BeFalse())
		})
	})

	Describe("warp renderer", func() {
		It("skips a degenerate triangle and still draws the rest", func() {
			m, err := mesh.New(3, 3, 800, 600, 0.9)
			Expect(err).NotTo(HaveOccurred())
			// Triangle (i0,i1,i2) of the first cell samples a single texel.
			m.UVs[1] = m.UVs[0]
			m.UVs[3] = m.UVs[0]

			rec := surface.NewRecorder()
			tex := asset.FromImage(image.NewRGBA(image.Rect(0, 0, 64, 64)))

			var st warp.Stats
			Expect(func() { st = warp.NewRenderer().Draw(rec, m, tex) }).NotTo(Panic())
			Expect(st.Degenerate).To(BeNumerically(">=", 1))
			Expect(st.Drawn).To(BeNumerically(">", 0))
			Expect(rec.Depth()).To(Equal(0))
		})

		It("maps each texture corner onto its node", func() {
			s := simulator(func(p *dynamo.Params) { p.Cols, p.Rows = 4, 3 })
			for i := 0; i < 20; i++ {
				s.Tick()
			}
			dsts, srcs := warp.Triangles(s.Mesh(), 300, 200)
			for k := range dsts {
				a, ok := warp.SolveAffine(srcs[k], dsts[k])
				Expect(ok).To(BeTrue())
				for c := 0; c < 3; c++ {
					got := a.Apply(srcs[k][c])
					Expect(got.X).To(BeNumerically("~", dsts[k][c].X, 1e-6))
					Expect(got.Y).To(BeNumerically("~", dsts[k][c].Y, 1e-6))
				}
			}
		})
	})
})
