package variable

import (
	"errors"
	"fmt"

	"example.com/fuzzy-control/core/membership"
)

var (
	ErrInvalidName      = errors.New("variable and term names must not be empty")
	ErrDuplicateTerm    = errors.New("duplicate term label")
	ErrInvalidPartition = errors.New("invalid automatic partition")
	ErrFrozen           = errors.New("variable is in use by a control system")
)

type Kind int

const (
	Antecedent Kind = iota
	Consequent
)

func (k Kind) String() string {
	switch k {
	case Antecedent:
		return "antecedent"
	case Consequent:
		return "consequent"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

type term struct {
	label string
	shape membership.Shape
	set   membership.Set
}

// Variable is a named fuzzy variable over one universe with an ordered set of
// linguistic terms. Terms may only be added while building; once a variable
// is referenced by a control system its shape must not change.
type Variable struct {
	name     string
	kind     Kind
	universe membership.Universe
	terms    []term
	index    map[string]int
	defuzz   string
	frozen   bool
}

// Option configures a Variable at construction.
type Option func(*Variable)

// WithDefuzzify sets the defuzzification method name used for a consequent,
// overriding the control system default.
func WithDefuzzify(method string) Option {
	return func(v *Variable) { v.defuzz = method }
}

func newVariable(kind Kind, name string, u membership.Universe, opts []Option) (*Variable, error) {
	if name == "" {
		return nil, &membership.BuildError{Op: "variable", Err: ErrInvalidName}
	}
	if !u.Valid() {
		return nil, &membership.BuildError{Op: "variable", Name: name, Err: membership.ErrInvalidUniverse}
	}
	v := &Variable{name: name, kind: kind, universe: u, index: make(map[string]int)}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

func NewAntecedent(name string, u membership.Universe, opts ...Option) (*Variable, error) {
	return newVariable(Antecedent, name, u, opts)
}

func NewConsequent(name string, u membership.Universe, opts ...Option) (*Variable, error) {
	return newVariable(Consequent, name, u, opts)
}

func (v *Variable) Name() string { return v.name }

func (v *Variable) Kind() Kind { return v.kind }

func (v *Variable) Universe() membership.Universe { return v.universe }

// Defuzzify returns the method name set with WithDefuzzify, or "".
func (v *Variable) Defuzzify() string { return v.defuzz }

func (v *Variable) NumTerms() int { return len(v.terms) }

// Terms returns the term labels in insertion order.
func (v *Variable) Terms() []string {
	ls := make([]string, len(v.terms))
	for i, t := range v.terms {
		ls[i] = t.label
	}
	return ls
}

// TermIndex returns the position of label in Terms.
func (v *Variable) TermIndex(label string) (int, bool) {
	i, ok := v.index[label]
	return i, ok
}

// Term returns a copy of the materialized membership set of label.
func (v *Variable) Term(label string) (membership.Set, bool) {
	i, ok := v.index[label]
	if !ok {
		return nil, false
	}
	return v.terms[i].set.Clone(), true
}

// TermAt returns the materialized set of the i-th term without copying.
// Callers must not modify it.
func (v *Variable) TermAt(i int) membership.Set {
	return v.terms[i].set
}

// Shape returns the shape a term was built from; terms added with AddSet
// have none.
func (v *Variable) Shape(label string) (membership.Shape, bool) {
	i, ok := v.index[label]
	if !ok || v.terms[i].shape == nil {
		return nil, false
	}
	return v.terms[i].shape, true
}

// Freeze rejects any further terms. Control systems freeze the variables
// they reference.
func (v *Variable) Freeze() { v.frozen = true }

func (v *Variable) Frozen() bool { return v.frozen }

// AddTerm attaches a term of the given kind and control points.
func (v *Variable) AddTerm(label string, kind membership.Kind, params ...float64) error {
	if v.frozen {
		return &membership.BuildError{Op: "term", Name: v.qualify(label), Err: ErrFrozen}
	}
	shape, err := membership.New(kind, params...)
	if err != nil {
		return &membership.BuildError{Op: "term", Name: v.qualify(label), Err: err}
	}
	return v.AddShape(label, shape)
}

func (v *Variable) AddShape(label string, shape membership.Shape) error {
	if err := v.checkLabel(label); err != nil {
		return err
	}
	v.append(term{label: label, shape: shape, set: membership.Materialize(v.universe, shape)})
	return nil
}

// AddSet attaches a term from explicit degrees over the variable's universe.
func (v *Variable) AddSet(label string, degrees []float64) error {
	if err := v.checkLabel(label); err != nil {
		return err
	}
	s, err := membership.NewSet(v.universe, degrees)
	if err != nil {
		return &membership.BuildError{Op: "term", Name: v.qualify(label), Err: err}
	}
	v.append(term{label: label, set: s})
	return nil
}

func (v *Variable) checkLabel(label string) error {
	if v.frozen {
		return &membership.BuildError{Op: "term", Name: v.qualify(label), Err: ErrFrozen}
	}
	if label == "" {
		return &membership.BuildError{Op: "term", Name: v.name, Err: ErrInvalidName}
	}
	if _, ok := v.index[label]; ok {
		return &membership.BuildError{Op: "term", Name: v.qualify(label), Err: ErrDuplicateTerm}
	}
	return nil
}

func (v *Variable) append(t term) {
	v.index[t.label] = len(v.terms)
	v.terms = append(v.terms, t)
}

func (v *Variable) qualify(label string) string {
	return v.name + "[" + label + "]"
}

// Fuzzify returns the degree of x in every term, in term order.
func (v *Variable) Fuzzify(x float64) []float64 {
	return v.FuzzifyInto(make([]float64, len(v.terms)), x)
}

// FuzzifyInto is Fuzzify writing into dst, which must have NumTerms elements.
func (v *Variable) FuzzifyInto(dst []float64, x float64) []float64 {
	if len(dst) != len(v.terms) {
		panic("unexpected number of terms")
	}
	for i, t := range v.terms {
		dst[i] = membership.Interp(v.universe, t.set, x)
	}
	return dst
}

func (v *Variable) String() string {
	return v.kind.String() + " " + v.name
}
