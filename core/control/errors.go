package control

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoRules           = errors.New("control system needs at least one rule")
	ErrDuplicateVariable = errors.New("distinct variables share a name")
	ErrInvalidInput      = errors.New("crisp input must be finite")
)

// MissingInputError is returned by Compute when antecedents referenced by
// the rule base have no crisp value.
type MissingInputError struct {
	Variables []string
}

func (e *MissingInputError) Error() string {
	return "missing input for " + strings.Join(e.Variables, ", ")
}

// NotComputedError is returned when an output is read before Compute.
type NotComputedError struct {
	Variable string
}

func (e *NotComputedError) Error() string {
	if e.Variable == "" {
		return "outputs read before compute"
	}
	return fmt.Sprintf("output %q read before compute", e.Variable)
}

type UnknownVariableError struct {
	Name string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown variable %q", e.Name)
}

// OutOfRangeError is returned for inputs outside the universe of a
// simulation that does not clip to bounds.
type OutOfRangeError struct {
	Variable string
	Value    float64
	Min, Max float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("input %v for %q outside universe [%v, %v]", e.Value, e.Variable, e.Min, e.Max)
}

// OutputError ties a defuzzification failure to its consequent.
type OutputError struct {
	Variable string
	Err      error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("output %q: %v", e.Variable, e.Err)
}

func (e *OutputError) Unwrap() error { return e.Err }
