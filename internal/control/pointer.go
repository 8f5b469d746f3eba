package control

import "github.com/san-kum/clothsim/internal/dynamo"

// Gestures receives the edges Pointer detects. sim.Simulator satisfies it.
type Gestures interface {
	Press(p dynamo.Vec2) bool
	Move(p dynamo.Vec2)
	Release()
}

// Pointer turns a polled "is the button down, where is it" signal into
// press, move and release edges. Frontends that sample input once per frame
// (mouse or first touch) feed it every frame.
type Pointer struct {
	down bool
	last dynamo.Vec2
}

// Poll compares the sample with the previous one and forwards the edge, if
// any, to g. A held pointer that has not moved produces no event.
func (ptr *Pointer) Poll(g Gestures, down bool, p dynamo.Vec2) {
	switch {
	case down && !ptr.down:
		g.Press(p)
	case down && p != ptr.last:
		g.Move(p)
	case !down && ptr.down:
		g.Release()
	}
	ptr.down = down
	if down {
		ptr.last = p
	}
}

func (ptr *Pointer) Down() bool { return ptr.down }
