package rule

import (
	"fmt"
	"strings"

	"example.com/fuzzy-control/core/variable"
)

// Expr is a node of a rule antecedent: a term reference or an AND, OR or
// NOT combination of sub-expressions.
type Expr interface {
	String() string
	validate() error
	walk(func(v *variable.Variable, label string))
	compile(r Resolver) (node, error)
}

type termExpr struct {
	v     *variable.Variable
	label string
}

type andExpr struct{ xs []Expr }

type orExpr struct{ xs []Expr }

type notExpr struct{ x Expr }

// Is refers to term label of variable v.
func Is(v *variable.Variable, label string) Expr { return &termExpr{v: v, label: label} }

func And(xs ...Expr) Expr { return &andExpr{xs: xs} }

func Or(xs ...Expr) Expr { return &orExpr{xs: xs} }

func Not(x Expr) Expr { return &notExpr{x: x} }

func (e *termExpr) String() string {
	name := "<nil>"
	if e.v != nil {
		name = e.v.Name()
	}
	return name + "[" + e.label + "]"
}

func (e *andExpr) String() string { return join("AND", e.xs) }

func (e *orExpr) String() string { return join("OR", e.xs) }

func (e *notExpr) String() string {
	if e.x == nil {
		return "NOT <nil>"
	}
	return "NOT " + e.x.String()
}

func join(op string, xs []Expr) string {
	ss := make([]string, len(xs))
	for i, x := range xs {
		if x == nil {
			ss[i] = "<nil>"
		} else {
			ss[i] = x.String()
		}
	}
	return "(" + strings.Join(ss, " "+op+" ") + ")"
}

func (e *termExpr) validate() error {
	if e.v == nil {
		return fmt.Errorf("%w: term %q has no variable", ErrInvalidRule, e.label)
	}
	if e.v.Kind() != variable.Antecedent {
		return fmt.Errorf("%w: %s used in an antecedent", ErrInvalidRule, e.v)
	}
	if e.label == "" {
		return fmt.Errorf("%w: empty term label for %s", ErrInvalidRule, e.v)
	}
	return nil
}

func (e *andExpr) validate() error { return validateAll("AND", e.xs) }

func (e *orExpr) validate() error { return validateAll("OR", e.xs) }

func (e *notExpr) validate() error {
	if e.x == nil {
		return fmt.Errorf("%w: NOT without operand", ErrInvalidRule)
	}
	return e.x.validate()
}

func validateAll(op string, xs []Expr) error {
	if len(xs) == 0 {
		return fmt.Errorf("%w: %s without operands", ErrInvalidRule, op)
	}
	for _, x := range xs {
		if x == nil {
			return fmt.Errorf("%w: nil %s operand", ErrInvalidRule, op)
		}
		if err := x.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (e *termExpr) walk(f func(*variable.Variable, string)) { f(e.v, e.label) }

func (e *andExpr) walk(f func(*variable.Variable, string)) {
	for _, x := range e.xs {
		x.walk(f)
	}
}

func (e *orExpr) walk(f func(*variable.Variable, string)) {
	for _, x := range e.xs {
		x.walk(f)
	}
}

func (e *notExpr) walk(f func(*variable.Variable, string)) { e.x.walk(f) }

func (e *termExpr) compile(r Resolver) (node, error) {
	vi, ok := r.AntecedentIndex(e.v)
	if !ok {
		panic("unexpected antecedent variable")
	}
	ti, ok := e.v.TermIndex(e.label)
	if !ok {
		return node{}, &UnknownTermError{Variable: e.v.Name(), Term: e.label}
	}
	return node{op: opTerm, v: vi, t: ti}, nil
}

func (e *andExpr) compile(r Resolver) (node, error) { return compileAll(opAnd, e.xs, r) }

func (e *orExpr) compile(r Resolver) (node, error) { return compileAll(opOr, e.xs, r) }

func (e *notExpr) compile(r Resolver) (node, error) {
	k, err := e.x.compile(r)
	if err != nil {
		return node{}, err
	}
	return node{op: opNot, kids: []node{k}}, nil
}

func compileAll(op op, xs []Expr, r Resolver) (node, error) {
	n := node{op: op, kids: make([]node, len(xs))}
	for i, x := range xs {
		k, err := x.compile(r)
		if err != nil {
			return node{}, err
		}
		n.kids[i] = k
	}
	return n, nil
}
