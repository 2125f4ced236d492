package membership

import (
	"sort"

	"example.com/fuzzy-control/base/floats"
)

// Universe is the discretization grid of one fuzzy variable. The zero value
// is not usable; construct with NewUniverse, Span or Arange.
type Universe struct {
	xs []float64
}

func NewUniverse(samples []float64) (Universe, error) {
	if !floats.StrictlyIncreasing(samples) {
		return Universe{}, buildError("universe", "", ErrInvalidUniverse)
	}
	return Universe{xs: append([]float64(nil), samples...)}, nil
}

// Span returns a universe of n evenly spaced samples over [lo, hi].
func Span(lo, hi float64, n int) (Universe, error) {
	if n < 2 || !floats.IsFinite(lo) || !floats.IsFinite(hi) || !(lo < hi) {
		return Universe{}, buildError("universe", "", ErrInvalidUniverse)
	}
	return Universe{xs: floats.Span(lo, hi, n)}, nil
}

// Arange returns a universe stepping from lo by step up to hi.
func Arange(lo, hi, step float64) (Universe, error) {
	if !floats.IsFinite(lo) || !floats.IsFinite(hi) || !floats.IsFinite(step) ||
		!(step > 0) || !(lo < hi) || hi-lo < step {
		return Universe{}, buildError("universe", "", ErrInvalidUniverse)
	}
	return Universe{xs: floats.Arange(lo, hi, step)}, nil
}

func (u Universe) Len() int { return len(u.xs) }

func (u Universe) At(i int) float64 { return u.xs[i] }

func (u Universe) Min() float64 { return u.xs[0] }

func (u Universe) Max() float64 { return u.xs[len(u.xs)-1] }

func (u Universe) Valid() bool { return len(u.xs) >= 2 }

// Samples returns a copy of the grid.
func (u Universe) Samples() []float64 {
	return append([]float64(nil), u.xs...)
}

func (u Universe) Contains(x float64) bool {
	return u.Valid() && x >= u.Min() && x <= u.Max()
}

// bracket returns the smallest index i with xs[i] >= x; callers guarantee
// Min() < x <= Max().
func (u Universe) bracket(x float64) int {
	return sort.SearchFloat64s(u.xs, x)
}
