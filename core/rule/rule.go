package rule

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"example.com/fuzzy-control/core/membership"
	"example.com/fuzzy-control/core/variable"
)

var ErrInvalidRule = errors.New("invalid rule")

// UnknownTermError reports a rule reference to a term its variable does not
// define.
type UnknownTermError struct {
	Variable string
	Term     string
}

func (e *UnknownTermError) Error() string {
	return fmt.Sprintf("unknown term %q of variable %q", e.Term, e.Variable)
}

// Target is one consequent clause: the term of a consequent variable that a
// rule implies.
type Target struct {
	Variable *variable.Variable
	Term     string
}

func Then(v *variable.Variable, label string) Target {
	return Target{Variable: v, Term: label}
}

func (t Target) String() string {
	return (&termExpr{v: t.Variable, label: t.Term}).String()
}

// Rule pairs an antecedent expression with consequent targets. Rules are
// immutable after New.
type Rule struct {
	antecedent Expr
	targets    []Target
	weight     float64
	label      string
}

type Option func(*Rule)

// WithWeight caps the firing strength of the rule at w, 0 < w <= 1.
func WithWeight(w float64) Option {
	return func(r *Rule) { r.weight = w }
}

func WithLabel(label string) Option {
	return func(r *Rule) { r.label = label }
}

func New(antecedent Expr, targets []Target, opts ...Option) (*Rule, error) {
	r := &Rule{
		antecedent: antecedent,
		targets:    append([]Target(nil), targets...),
		weight:     1.0,
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.validate(); err != nil {
		return nil, &membership.BuildError{Op: "rule", Name: r.name(), Err: err}
	}
	return r, nil
}

func (r *Rule) validate() error {
	if r.antecedent == nil {
		return fmt.Errorf("%w: no antecedent", ErrInvalidRule)
	}
	if err := r.antecedent.validate(); err != nil {
		return err
	}
	if len(r.targets) == 0 {
		return fmt.Errorf("%w: no consequent", ErrInvalidRule)
	}
	for _, t := range r.targets {
		if t.Variable == nil {
			return fmt.Errorf("%w: consequent term %q has no variable", ErrInvalidRule, t.Term)
		}
		if t.Variable.Kind() != variable.Consequent {
			return fmt.Errorf("%w: %s used as a consequent", ErrInvalidRule, t.Variable)
		}
		if t.Term == "" {
			return fmt.Errorf("%w: empty term label for %s", ErrInvalidRule, t.Variable)
		}
	}
	if !(r.weight > 0 && r.weight <= 1) {
		return fmt.Errorf("%w: weight %v outside (0, 1]", ErrInvalidRule, r.weight)
	}
	return nil
}

func (r *Rule) name() string {
	if r.label != "" {
		return r.label
	}
	if r.antecedent == nil {
		return ""
	}
	return r.String()
}

func (r *Rule) Antecedent() Expr { return r.antecedent }

func (r *Rule) Targets() []Target { return append([]Target(nil), r.targets...) }

func (r *Rule) Weight() float64 { return r.weight }

func (r *Rule) Label() string { return r.label }

// Antecedents returns the distinct variables referenced by the antecedent in
// order of first appearance.
func (r *Rule) Antecedents() []*variable.Variable {
	var vs []*variable.Variable
	seen := make(map[*variable.Variable]bool)
	r.antecedent.walk(func(v *variable.Variable, _ string) {
		if !seen[v] {
			seen[v] = true
			vs = append(vs, v)
		}
	})
	return vs
}

// Consequents returns the distinct target variables in order of first
// appearance.
func (r *Rule) Consequents() []*variable.Variable {
	var vs []*variable.Variable
	seen := make(map[*variable.Variable]bool)
	for _, t := range r.targets {
		if !seen[t.Variable] {
			seen[t.Variable] = true
			vs = append(vs, t.Variable)
		}
	}
	return vs
}

func (r *Rule) String() string {
	ts := make([]string, len(r.targets))
	for i, t := range r.targets {
		ts[i] = t.String()
	}
	s := "IF " + r.antecedent.String() + " THEN " + strings.Join(ts, " AND ")
	if r.weight != 1 {
		s += fmt.Sprintf(" WITH %g", r.weight)
	}
	return s
}

// Resolver maps variables to the dense indices a control system assigns.
type Resolver interface {
	AntecedentIndex(v *variable.Variable) (int, bool)
	ConsequentIndex(v *variable.Variable) (int, bool)
}

// Compiled is a rule with every term reference resolved to indices.
type Compiled struct {
	root    node
	weight  float64
	Targets []CompiledTarget
}

type CompiledTarget struct {
	Variable int
	Term     int
}

// Compile resolves all term references of r against res. Unknown terms are
// reported as a BuildError wrapping an UnknownTermError.
func (r *Rule) Compile(res Resolver) (*Compiled, error) {
	root, err := r.antecedent.compile(res)
	if err != nil {
		return nil, &membership.BuildError{Op: "rule", Name: r.name(), Err: err}
	}
	c := &Compiled{root: root, weight: r.weight, Targets: make([]CompiledTarget, len(r.targets))}
	for i, t := range r.targets {
		vi, ok := res.ConsequentIndex(t.Variable)
		if !ok {
			panic("unexpected consequent variable")
		}
		ti, ok := t.Variable.TermIndex(t.Term)
		if !ok {
			return nil, &membership.BuildError{Op: "rule", Name: r.name(),
				Err: &UnknownTermError{Variable: t.Variable.Name(), Term: t.Term}}
		}
		c.Targets[i] = CompiledTarget{Variable: vi, Term: ti}
	}
	return c, nil
}

// Strength returns the firing strength of the rule: the antecedent value
// capped at the rule weight. degrees[v][t] is the fuzzified degree of term t
// of antecedent v.
func (c *Compiled) Strength(degrees [][]float64, norms Norms) float64 {
	return math.Min(c.root.eval(degrees, norms), c.weight)
}

type op int

const (
	opTerm op = iota
	opAnd
	opOr
	opNot
)

type node struct {
	op   op
	v, t int
	kids []node
}

func (n *node) eval(degrees [][]float64, norms Norms) float64 {
	switch n.op {
	case opTerm:
		return degrees[n.v][n.t]
	case opNot:
		return 1 - n.kids[0].eval(degrees, norms)
	case opAnd:
		x := n.kids[0].eval(degrees, norms)
		for i := 1; i < len(n.kids); i++ {
			x = norms.And.apply(x, n.kids[i].eval(degrees, norms))
		}
		return x
	case opOr:
		x := n.kids[0].eval(degrees, norms)
		for i := 1; i < len(n.kids); i++ {
			x = norms.Or.apply(x, n.kids[i].eval(degrees, norms))
		}
		return x
	}
	panic("unexpected expression node")
}
