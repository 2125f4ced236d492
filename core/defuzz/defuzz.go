package defuzz

import (
	"errors"
	"fmt"
	"math"

	"example.com/fuzzy-control/base/floats"
)

type Method int

const (
	Centroid Method = iota
	Bisector
	MOM
	SOM
	LOM
)

var methodNames = [...]string{
	Centroid: "centroid",
	Bisector: "bisector",
	MOM:      "mom",
	SOM:      "som",
	LOM:      "lom",
}

func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return methodNames[m]
}

func ParseMethod(s string) (Method, error) {
	if s == "" {
		return Centroid, nil
	}
	for m, name := range methodNames {
		if s == name {
			return Method(m), nil
		}
	}
	return 0, fmt.Errorf("unknown defuzzification method %q", s)
}

var (
	errEmptySet     = errors.New("empty fuzzy set")
	errSizeMismatch = errors.New("universe and membership lengths differ")
	errZeroArea     = errors.New("total membership is zero, no rule fired")
)

// DefuzzificationError reports a fuzzy set that has no meaningful crisp
// value under the requested method.
type DefuzzificationError struct {
	Method Method
	Err    error
}

func (e *DefuzzificationError) Error() string {
	return fmt.Sprintf("%v defuzzification failed: %v", e.Method, e.Err)
}

func (e *DefuzzificationError) Unwrap() error { return e.Err }

// ZeroArea reports whether err signals an all-zero fuzzy set.
func ZeroArea(err error) bool {
	return errors.Is(err, errZeroArea)
}

// Defuzzify reduces the membership vector m over samples x to one crisp value.
func Defuzzify(x, m []float64, method Method) (float64, error) {
	if len(x) == 0 {
		return 0, &DefuzzificationError{Method: method, Err: errEmptySet}
	}
	if len(x) != len(m) {
		return 0, &DefuzzificationError{Method: method, Err: errSizeMismatch}
	}
	switch method {
	case Centroid, Bisector:
		// Only the area-based methods fail on an all-zero set; its maximal
		// set is the whole grid.
		if floats.AllZero(m) {
			return 0, &DefuzzificationError{Method: method, Err: errZeroArea}
		}
		if method == Centroid {
			return floats.Dot(x, m) / floats.Sum(m), nil
		}
		return bisector(x, m), nil
	case MOM, SOM, LOM:
		return ofMaximum(x, m, method), nil
	}
	return 0, &DefuzzificationError{Method: method, Err: fmt.Errorf("unknown method")}
}

func bisector(x, m []float64) float64 {
	half := floats.Sum(m) / 2
	acc := 0.0
	for i, d := range m {
		acc += d
		if acc >= half {
			return x[i]
		}
	}
	return x[len(x)-1]
}

// ofMaximum evaluates mom, som and lom over one shared maximal index set.
func ofMaximum(x, m []float64, method Method) float64 {
	_, is := floats.MaxIndices(m)
	switch method {
	case SOM:
		return x[is[0]]
	case LOM:
		return x[is[len(is)-1]]
	}
	sum := 0.0
	for _, i := range is {
		sum += x[i]
	}
	mean := sum / float64(len(is))
	// Keep mom inside [som, lom] despite rounding.
	return math.Max(x[is[0]], math.Min(x[is[len(is)-1]], mean))
}
