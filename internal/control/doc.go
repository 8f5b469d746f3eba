// Package control turns pointer gestures into a kinematic override of one
// cloth node.
//
// [Drag] is a two-state machine, Idle and Dragging. A press selects the first
// unpinned node (in construction order) within the hit radius and snaps it to
// the pointer. Moves keep snapping it, and a release returns it to the
// simulation with zero implied velocity.
//
// Pinned nodes are skipped by [HitTest], so a press near column 0 grabs the
// first column-1 node in range instead of a pin. Selecting over every node
// would let a drag move a pinned node and break the pinned column.
//
// # Usage
//
//	d := control.NewDrag(20)
//	if d.Start(m, dynamo.Vec2{X: x, Y: y}) {
//	    // node d.Index() now follows the pointer
//	}
//	d.Move(m, p)
//	d.End()
//
// Only one pointer is tracked; a second press while dragging is ignored.
package control
