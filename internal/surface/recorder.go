package surface

import (
	"github.com/san-kum/clothsim/internal/dynamo"
	"github.com/san-kum/clothsim/internal/warp"
)

type OpKind int

const (
	OpClear OpKind = iota
	OpSave
	OpRestore
	OpClip
	OpTransform
	OpDraw
)

// Op is one recorded surface call. Clip holds the triangle for OpClip;
// Transform holds the full current transform for OpTransform and OpDraw.
type Op struct {
	Kind      OpKind
	Clip      [3]dynamo.Vec2
	Transform warp.Affine
}

// Recorder is a Surface that remembers every call. It tracks the transform
// stack so tests can check what each draw would map.
type Recorder struct {
	Ops []Op

	current warp.Affine
	stack   []warp.Affine
	// MaxDepth is the deepest Save nesting seen.
	MaxDepth int
}

func NewRecorder() *Recorder {
	return &Recorder{current: warp.Identity}
}

func (r *Recorder) Clear() { r.Ops = append(r.Ops, Op{Kind: OpClear}) }

func (r *Recorder) Save() {
	r.stack = append(r.stack, r.current)
	if len(r.stack) > r.MaxDepth {
		r.MaxDepth = len(r.stack)
	}
	r.Ops = append(r.Ops, Op{Kind: OpSave})
}

func (r *Recorder) Restore() {
	if n := len(r.stack); n > 0 {
		r.current = r.stack[n-1]
		r.stack = r.stack[:n-1]
	}
	r.Ops = append(r.Ops, Op{Kind: OpRestore})
}

func (r *Recorder) ClipTriangle(p [3]dynamo.Vec2) {
	r.Ops = append(r.Ops, Op{Kind: OpClip, Clip: p})
}

func (r *Recorder) Transform(t warp.Affine) {
	r.current = t.Then(r.current)
	r.Ops = append(r.Ops, Op{Kind: OpTransform, Transform: r.current})
}

func (r *Recorder) DrawImage(warp.Source) {
	r.Ops = append(r.Ops, Op{Kind: OpDraw, Transform: r.current})
}

// Depth is the current Save nesting.
func (r *Recorder) Depth() int { return len(r.stack) }

// Count returns how many ops of kind k were recorded.
func (r *Recorder) Count(k OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == k {
			n++
		}
	}
	return n
}

func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
	r.current = warp.Identity
	r.stack = r.stack[:0]
	r.MaxDepth = 0
}
