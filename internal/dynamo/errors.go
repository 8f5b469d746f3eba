package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrParameterBounds indicates a tunable outside its valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrInvalidLattice indicates lattice dimensions that cannot form a cloth.
	ErrInvalidLattice = errors.New("dynamo: lattice needs at least 2x2 nodes")

	// ErrImageNotReady indicates the source image has not finished loading.
	ErrImageNotReady = errors.New("dynamo: source image not ready")

	// ErrNodeIndex indicates a node index outside the mesh.
	ErrNodeIndex = errors.New("dynamo: node index out of range")

	// ErrUnstable indicates a node position became NaN or Inf.
	ErrUnstable = errors.New("dynamo: simulation unstable (state diverged)")
)

// FrameError wraps an error with the frame it occurred on.
type FrameError struct {
	Frame   int
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d: %v", e.Frame, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
