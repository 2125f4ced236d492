package membership

import (
	"fmt"
	"math"
	"strings"

	"example.com/fuzzy-control/base/floats"
)

// Kind names a membership function family.
type Kind int

const (
	KindTri Kind = iota
	KindTrap
	KindGauss
	KindGBell
	KindSigmoid
	KindS
	KindZ
	KindPi
)

var kindNames = [...]string{
	KindTri:     "trimf",
	KindTrap:    "trapmf",
	KindGauss:   "gaussmf",
	KindGBell:   "gbellmf",
	KindSigmoid: "sigmf",
	KindS:       "smf",
	KindZ:       "zmf",
	KindPi:      "pimf",
}

var kindArity = [...]int{
	KindTri:     3,
	KindTrap:    4,
	KindGauss:   2,
	KindGBell:   3,
	KindSigmoid: 2,
	KindS:       2,
	KindZ:       2,
	KindPi:      4,
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown membership function kind %q", s)
}

// Shape is a membership function evaluated pointwise. Eval may return values
// marginally outside [0, 1]; Materialize clamps.
type Shape interface {
	Kind() Kind
	Params() []float64
	Eval(x float64) float64
}

type shape struct {
	kind   Kind
	params []float64
	eval   func(x float64) float64
}

func (s *shape) Kind() Kind { return s.kind }

func (s *shape) Params() []float64 { return append([]float64(nil), s.params...) }

func (s *shape) Eval(x float64) float64 { return s.eval(x) }

func (s *shape) String() string {
	ps := make([]string, len(s.params))
	for i, p := range s.params {
		ps[i] = fmt.Sprintf("%g", p)
	}
	return s.kind.String() + "(" + strings.Join(ps, ", ") + ")"
}

// New returns the shape of the given kind with the given control points.
func New(kind Kind, params ...float64) (Shape, error) {
	if kind < 0 || int(kind) >= len(kindArity) {
		return nil, buildError("shape", kind.String(), ErrInvalidShape)
	}
	if len(params) != kindArity[kind] {
		return nil, buildError("shape", kind.String(),
			fmt.Errorf("%w: want %d parameters, got %d", ErrInvalidShape, kindArity[kind], len(params)))
	}
	for _, p := range params {
		if !floats.IsFinite(p) {
			return nil, buildError("shape", kind.String(), fmt.Errorf("%w: non-finite parameter", ErrInvalidShape))
		}
	}
	switch kind {
	case KindTri:
		return Tri(params[0], params[1], params[2])
	case KindTrap:
		return Trap(params[0], params[1], params[2], params[3])
	case KindGauss:
		return Gauss(params[0], params[1])
	case KindGBell:
		return GBell(params[0], params[1], params[2])
	case KindSigmoid:
		return Sigmoid(params[0], params[1])
	case KindS:
		return S(params[0], params[1])
	case KindZ:
		return Z(params[0], params[1])
	case KindPi:
		return Pi(params[0], params[1], params[2], params[3])
	}
	panic("unexpected membership function kind")
}

func ordered(ps ...float64) bool {
	for i := 1; i < len(ps); i++ {
		if ps[i-1] > ps[i] {
			return false
		}
	}
	return true
}

func orderError(kind Kind) error {
	return buildError("shape", kind.String(), fmt.Errorf("%w: control points out of order", ErrInvalidShape))
}

// Tri is the triangular function with feet a and c and peak b.
func Tri(a, b, c float64) (Shape, error) {
	if !ordered(a, b, c) {
		return nil, orderError(KindTri)
	}
	return &shape{kind: KindTri, params: []float64{a, b, c}, eval: func(x float64) float64 {
		return triangle(x, a, b, c)
	}}, nil
}

// Trap is the trapezoidal function with feet a and d and plateau [b, c].
func Trap(a, b, c, d float64) (Shape, error) {
	if !ordered(a, b, c, d) {
		return nil, orderError(KindTrap)
	}
	return &shape{kind: KindTrap, params: []float64{a, b, c, d}, eval: func(x float64) float64 {
		switch {
		case x >= b && x <= c:
			return 1
		case x < b:
			return triangle(x, a, b, b)
		default:
			return triangle(x, c, c, d)
		}
	}}, nil
}

func Gauss(mean, sigma float64) (Shape, error) {
	if !(sigma > 0) {
		return nil, buildError("shape", KindGauss.String(), fmt.Errorf("%w: sigma must be positive", ErrInvalidShape))
	}
	return &shape{kind: KindGauss, params: []float64{mean, sigma}, eval: func(x float64) float64 {
		return math.Exp(-(x - mean) * (x - mean) / (2 * sigma * sigma))
	}}, nil
}

// GBell is the generalized bell 1 / (1 + |(x-c)/a|^(2b)).
func GBell(a, b, c float64) (Shape, error) {
	if !(a > 0) {
		return nil, buildError("shape", KindGBell.String(), fmt.Errorf("%w: width must be positive", ErrInvalidShape))
	}
	return &shape{kind: KindGBell, params: []float64{a, b, c}, eval: func(x float64) float64 {
		return 1 / (1 + math.Pow(math.Abs((x-c)/a), 2*b))
	}}, nil
}

// Sigmoid is 1 / (1 + exp(-c(x-b))), centered at b with slope c.
func Sigmoid(b, c float64) (Shape, error) {
	return &shape{kind: KindSigmoid, params: []float64{b, c}, eval: func(x float64) float64 {
		return 1 / (1 + math.Exp(-c*(x-b)))
	}}, nil
}

// S is the spline-based S-curve rising from 0 at a to 1 at b.
func S(a, b float64) (Shape, error) {
	if !ordered(a, b) {
		return nil, orderError(KindS)
	}
	return &shape{kind: KindS, params: []float64{a, b}, eval: func(x float64) float64 {
		return sCurve(x, a, b)
	}}, nil
}

// Z is the mirror of S, falling from 1 at a to 0 at b.
func Z(a, b float64) (Shape, error) {
	if !ordered(a, b) {
		return nil, orderError(KindZ)
	}
	return &shape{kind: KindZ, params: []float64{a, b}, eval: func(x float64) float64 {
		return 1 - sCurve(x, a, b)
	}}, nil
}

// Pi rises as an S-curve over [a, b] and falls as a Z-curve over [c, d].
func Pi(a, b, c, d float64) (Shape, error) {
	if !ordered(a, b, c, d) {
		return nil, orderError(KindPi)
	}
	return &shape{kind: KindPi, params: []float64{a, b, c, d}, eval: func(x float64) float64 {
		return sCurve(x, a, b) * (1 - sCurve(x, c, d))
	}}, nil
}

func triangle(x, a, b, c float64) float64 {
	switch {
	case x == b:
		return 1
	case x <= a || x >= c:
		return 0
	case x < b:
		return (x - a) / (b - a)
	default:
		return (c - x) / (c - b)
	}
}

func sCurve(x, a, b float64) float64 {
	switch {
	case x <= a:
		if x == a && a == b {
			return 1
		}
		return 0
	case x >= b:
		return 1
	case x <= (a+b)/2:
		t := (x - a) / (b - a)
		return 2 * t * t
	default:
		t := (x - b) / (b - a)
		return 1 - 2*t*t
	}
}
