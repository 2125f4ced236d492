package rule

import (
	"fmt"
	"math"
)

// AndMethod is the t-norm used for AND.
type AndMethod int

const (
	AndMin AndMethod = iota
	AndProduct
)

// OrMethod is the s-norm used for OR.
type OrMethod int

const (
	OrMax OrMethod = iota
	OrProbSum
)

// Norms selects the AND and OR operators. The zero value is min/max.
type Norms struct {
	And AndMethod
	Or  OrMethod
}

func (m AndMethod) String() string {
	switch m {
	case AndMin:
		return "min"
	case AndProduct:
		return "product"
	default:
		return fmt.Sprintf("AndMethod(%d)", int(m))
	}
}

func (m OrMethod) String() string {
	switch m {
	case OrMax:
		return "max"
	case OrProbSum:
		return "probsum"
	default:
		return fmt.Sprintf("OrMethod(%d)", int(m))
	}
}

func ParseAndMethod(s string) (AndMethod, error) {
	switch s {
	case "", "min":
		return AndMin, nil
	case "product", "prod":
		return AndProduct, nil
	}
	return 0, fmt.Errorf("unknown AND method %q", s)
}

func ParseOrMethod(s string) (OrMethod, error) {
	switch s {
	case "", "max":
		return OrMax, nil
	case "probsum", "probor":
		return OrProbSum, nil
	}
	return 0, fmt.Errorf("unknown OR method %q", s)
}

func (m AndMethod) apply(a, b float64) float64 {
	switch m {
	case AndMin:
		return math.Min(a, b)
	case AndProduct:
		return a * b
	}
	panic("unexpected AND method")
}

func (m OrMethod) apply(a, b float64) float64 {
	switch m {
	case OrMax:
		return math.Max(a, b)
	case OrProbSum:
		return a + b - a*b
	}
	panic("unexpected OR method")
}
