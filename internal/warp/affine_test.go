package warp

import (
	"math"
	"testing"

	"github.com/san-kum/clothsim/internal/dynamo"
)

func near(a, b dynamo.Vec2) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestSolveAffineMapsCorners(t *testing.T) {
	tests := []struct {
		name     string
		src, dst [3]dynamo.Vec2
	}{
		{"identity", [3]dynamo.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}}, [3]dynamo.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}}},
		{"translate", [3]dynamo.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}}, [3]dynamo.Vec2{{X: 5, Y: 7}, {X: 15, Y: 7}, {X: 5, Y: 17}}},
		{"scale", [3]dynamo.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}, [3]dynamo.Vec2{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 0, Y: 2}}},
		{"shear", [3]dynamo.Vec2{{X: 0, Y: 0}, {X: 32, Y: 0}, {X: 0, Y: 32}}, [3]dynamo.Vec2{{X: 300, Y: 200}, {X: 330, Y: 210}, {X: 305, Y: 228}}},
		{"flip", [3]dynamo.Vec2{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 4}}, [3]dynamo.Vec2{{X: 0, Y: 0}, {X: 0, Y: 4}, {X: 4, Y: 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, ok := SolveAffine(tt.src, tt.dst)
			if !ok {
				t.Fatal("SolveAffine reported degenerate triangle")
			}
			for k := range tt.src {
				if got := a.Apply(tt.src[k]); !near(got, tt.dst[k]) {
					t.Errorf("corner %d: got %v, want %v", k, got, tt.dst[k])
				}
			}
		})
	}
}

func TestSolveAffineCanvasOrder(t *testing.T) {
	// Pure x-scale by 2 must land in A; pure y-scale by 3 in D.
	a, _ := SolveAffine(
		[3]dynamo.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}},
		[3]dynamo.Vec2{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 0, Y: 3}},
	)
	want := Affine{A: 2, D: 3}
	if a != want {
		t.Errorf("got %+v, want %+v", a, want)
	}

	// y feeds x' through C.
	a, _ = SolveAffine(
		[3]dynamo.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}},
		[3]dynamo.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 5, Y: 1}},
	)
	if a.C != 5 || a.B != 0 {
		t.Errorf("shear coefficients B=%f C=%f, want B=0 C=5", a.B, a.C)
	}
}

func TestSolveAffineDegenerate(t *testing.T) {
	tests := []struct {
		name string
		src  [3]dynamo.Vec2
	}{
		{"coincident", [3]dynamo.Vec2{{X: 3, Y: 3}, {X: 3, Y: 3}, {X: 3, Y: 3}}},
		{"collinear", [3]dynamo.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}},
	}
	dst := [3]dynamo.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	for _, tt := range tests {
		if _, ok := SolveAffine(tt.src, dst); ok {
			t.Errorf("%s: expected degenerate", tt.name)
		}
	}
}

func TestInvertRoundTrip(t *testing.T) {
	a := Affine{A: 1.2, B: 0.3, C: -0.4, D: 0.9, E: 15, F: -7}
	inv, ok := a.Invert()
	if !ok {
		t.Fatal("Invert failed on non-singular map")
	}
	for _, p := range []dynamo.Vec2{{X: 0, Y: 0}, {X: 10, Y: -3}, {X: 250, Y: 400}} {
		if got := inv.Apply(a.Apply(p)); !near(got, p) {
			t.Errorf("inv(a(%v)) = %v", p, got)
		}
	}
	if _, ok := (Affine{A: 1, C: 2, B: 2, D: 4}).Invert(); ok {
		t.Error("singular map inverted")
	}
}

func TestThen(t *testing.T) {
	move := Affine{A: 1, D: 1, E: 10}
	double := Affine{A: 2, D: 2}
	p := dynamo.Vec2{X: 1, Y: 1}

	if got := move.Then(double).Apply(p); !near(got, dynamo.Vec2{X: 22, Y: 2}) {
		t.Errorf("move then double = %v", got)
	}
	if got := double.Then(move).Apply(p); !near(got, dynamo.Vec2{X: 12, Y: 2}) {
		t.Errorf("double then move = %v", got)
	}
}

func TestPullbackRecoversTexture(t *testing.T) {
	src := [3]dynamo.Vec2{{X: 0, Y: 0}, {X: 64, Y: 0}, {X: 0, Y: 64}}
	dst := [3]dynamo.Vec2{{X: 100, Y: 120}, {X: 150, Y: 130}, {X: 95, Y: 170}}
	tr, ok := SolveAffine(src, dst)
	if !ok {
		t.Fatal("expected solvable triangle")
	}
	got, ok := Pullback(dst, tr)
	if !ok {
		t.Fatal("expected invertible transform")
	}
	for k := range got {
		if got[k].Dist(src[k]) > 1e-9 {
			t.Errorf("corner %d: got %v, want %v", k, got[k], src[k])
		}
	}

	if _, ok := Pullback(dst, Affine{}); ok {
		t.Error("singular transform should not pull back")
	}
}
