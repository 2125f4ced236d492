package membership

import (
	"math"

	"example.com/fuzzy-control/base/floats"
)

// Set holds membership degrees aligned 1:1 with the samples of a Universe.
type Set []float64

// Materialize evaluates shape at every sample of u, clamped to [0, 1].
func Materialize(u Universe, shape Shape) Set {
	if !u.Valid() {
		panic("unexpected universe")
	}
	s := make(Set, u.Len())
	for i, x := range u.xs {
		s[i] = floats.Clamp(shape.Eval(x), 0, 1)
	}
	return s
}

// NewSet validates explicit degrees against u and returns a copy.
func NewSet(u Universe, degrees []float64) (Set, error) {
	if len(degrees) != u.Len() {
		return nil, buildError("set", "", ErrSetMismatch)
	}
	for _, d := range degrees {
		if !(d >= 0 && d <= 1) {
			return nil, buildError("set", "", ErrSetMismatch)
		}
	}
	return append(Set(nil), degrees...), nil
}

// Interp returns the degree of s at x by linear interpolation between the
// two bracketing samples of u. Outside the grid the nearest boundary degree
// is returned; at a grid sample the stored degree is returned exactly.
func Interp(u Universe, s Set, x float64) float64 {
	if len(s) != u.Len() || !u.Valid() {
		panic("unexpected membership set length")
	}
	if math.IsNaN(x) {
		return math.NaN()
	}
	n := u.Len()
	if x <= u.xs[0] {
		return s[0]
	}
	if x >= u.xs[n-1] {
		return s[n-1]
	}
	i := u.bracket(x)
	if u.xs[i] == x {
		return s[i]
	}
	x0, x1 := u.xs[i-1], u.xs[i]
	y0, y1 := s[i-1], s[i]
	return y0 + (y1-y0)*(x-x0)/(x1-x0)
}

// Degree is the membership degree of x under shape, evaluated against the
// discretization of u rather than in closed form.
func Degree(u Universe, shape Shape, x float64) float64 {
	return Interp(u, Materialize(u, shape), x)
}

// Clip returns min(s, h) pointwise.
func (s Set) Clip(h float64) Set {
	r := make(Set, len(s))
	for i, d := range s {
		r[i] = math.Min(d, h)
	}
	return r
}

// Scale returns s * h pointwise.
func (s Set) Scale(h float64) Set {
	r := make(Set, len(s))
	for i, d := range s {
		r[i] = d * h
	}
	return r
}

func (s Set) Clone() Set {
	return append(Set(nil), s...)
}
