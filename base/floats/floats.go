package floats

import (
	"math"

	gonum "gonum.org/v1/gonum/floats"
)

func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// StrictlyIncreasing reports whether fs has at least two finite elements in
// strictly increasing order.
func StrictlyIncreasing(fs []float64) bool {
	if len(fs) < 2 {
		return false
	}
	for i, f := range fs {
		if !IsFinite(f) {
			return false
		}
		if i > 0 && !(fs[i-1] < f) {
			return false
		}
	}
	return true
}

// Span returns n evenly spaced values covering [lo, hi], both included.
func Span(lo, hi float64, n int) []float64 {
	if n < 2 {
		panic("unexpected number of values")
	}
	return gonum.Span(make([]float64, n), lo, hi)
}

// Arange returns lo, lo+step, ... up to and including hi when hi lies on the
// grid (within a small tolerance).
func Arange(lo, hi, step float64) []float64 {
	if !(step > 0) || hi < lo {
		panic("unexpected range")
	}
	n := int(math.Floor((hi-lo)/step+1e-9)) + 1
	fs := make([]float64, n)
	for i := range fs {
		fs[i] = lo + float64(i)*step
	}
	// Snap a last sample that only misses hi by rounding.
	if last := &fs[n-1]; math.Abs(*last-hi) <= 1e-9*step {
		*last = hi
	}
	return fs
}

func Sum(fs []float64) float64 {
	return gonum.Sum(fs)
}

func Dot(xs, ys []float64) float64 {
	return gonum.Dot(xs, ys)
}

// MaxIndices returns the maximum of fs and, in index order, every index
// holding exactly that value.
func MaxIndices(fs []float64) (float64, []int) {
	if len(fs) == 0 {
		panic("unexpected number of values")
	}
	m := gonum.Max(fs)
	var is []int
	for i, f := range fs {
		if f == m {
			is = append(is, i)
		}
	}
	return m, is
}

func AllZero(fs []float64) bool {
	for _, f := range fs {
		if f != 0 {
			return false
		}
	}
	return true
}
