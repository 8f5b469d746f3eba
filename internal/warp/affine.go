// Package warp renders a deforming mesh by mapping each texture triangle onto
// its current screen triangle with an affine transform.
package warp

import "github.com/san-kum/clothsim/internal/dynamo"

// Affine is a 2D affine map in canvas order:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Affine struct {
	A, B, C, D, E, F float64
}

// Identity is the affine map that leaves every point unchanged.
var Identity = Affine{A: 1, D: 1}

// SolveAffine returns the unique affine map taking src[k] to dst[k] for
// k = 0,1,2. It reports false when the source triangle has zero area.
func SolveAffine(src, dst [3]dynamo.Vec2) (Affine, bool) {
	s0, s1, s2 := src[0], src[1], src[2]
	d0, d1, d2 := dst[0], dst[1], dst[2]

	denom := s0.X*(s1.Y-s2.Y) + s1.X*(s2.Y-s0.Y) + s2.X*(s0.Y-s1.Y)
	if denom == 0 {
		return Affine{}, false
	}

	return Affine{
		A: (d0.X*(s1.Y-s2.Y) + d1.X*(s2.Y-s0.Y) + d2.X*(s0.Y-s1.Y)) / denom,
		B: (d0.Y*(s1.Y-s2.Y) + d1.Y*(s2.Y-s0.Y) + d2.Y*(s0.Y-s1.Y)) / denom,
		C: (d0.X*(s2.X-s1.X) + d1.X*(s0.X-s2.X) + d2.X*(s1.X-s0.X)) / denom,
		D: (d0.Y*(s2.X-s1.X) + d1.Y*(s0.X-s2.X) + d2.Y*(s1.X-s0.X)) / denom,
		E: (d0.X*(s1.X*s2.Y-s2.X*s1.Y) + d1.X*(s2.X*s0.Y-s0.X*s2.Y) + d2.X*(s0.X*s1.Y-s1.X*s0.Y)) / denom,
		F: (d0.Y*(s1.X*s2.Y-s2.X*s1.Y) + d1.Y*(s2.X*s0.Y-s0.X*s2.Y) + d2.Y*(s0.X*s1.Y-s1.X*s0.Y)) / denom,
	}, true
}

func (t Affine) Apply(p dynamo.Vec2) dynamo.Vec2 {
	return dynamo.Vec2{
		X: t.A*p.X + t.C*p.Y + t.E,
		Y: t.B*p.X + t.D*p.Y + t.F,
	}
}

// Invert returns the inverse map, or false if t is singular.
func (t Affine) Invert() (Affine, bool) {
	det := t.A*t.D - t.B*t.C
	if det == 0 {
		return Affine{}, false
	}
	a := t.D / det
	b := -t.B / det
	c := -t.C / det
	d := t.A / det
	return Affine{
		A: a, B: b, C: c, D: d,
		E: -(a*t.E + c*t.F),
		F: -(b*t.E + d*t.F),
	}, true
}

// Then returns the map that applies t first and u second.
func (t Affine) Then(u Affine) Affine {
	return Affine{
		A: u.A*t.A + u.C*t.B,
		B: u.B*t.A + u.D*t.B,
		C: u.A*t.C + u.C*t.D,
		D: u.B*t.C + u.D*t.D,
		E: u.A*t.E + u.C*t.F + u.E,
		F: u.B*t.E + u.D*t.F + u.F,
	}
}

// Pullback maps a device-space triangle back through t, giving the texture
// coordinates a rasteriser must sample to reproduce DrawImage under t. It
// reports false when t is singular.
func Pullback(tri [3]dynamo.Vec2, t Affine) ([3]dynamo.Vec2, bool) {
	inv, ok := t.Invert()
	if !ok {
		return [3]dynamo.Vec2{}, false
	}
	return [3]dynamo.Vec2{inv.Apply(tri[0]), inv.Apply(tri[1]), inv.Apply(tri[2])}, true
}
