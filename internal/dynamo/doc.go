// Package dynamo provides the shared primitives of the cloth simulation.
//
// The package defines the small vocabulary every other package speaks:
//
//   - [Vec2]: a canvas-space point or displacement
//   - [Params]: the tunable constants fixed at construction
//   - sentinel errors and [FrameError] for the headless driver
//
// # Example
//
//	p := dynamo.DefaultParams()
//	p.Cols, p.Rows = 12, 10
//	if err := p.Validate(); err != nil {
//	    return err
//	}
//	s, _ := sim.New(p)
//	s.Tick()
//
// # Thread Safety
//
// Nothing in the simulation core is safe for concurrent use. A simulation is
// driven from a single goroutine; pointer events must complete before the next
// frame begins. Independent simulations may run in parallel, see [ParallelFor].
package dynamo
