package rule_test

import (
	"errors"
	"math"
	"testing"

	"example.com/fuzzy-control/core/membership"
	"example.com/fuzzy-control/core/rule"
	"example.com/fuzzy-control/core/variable"
)

type resolver struct {
	antecedents map[*variable.Variable]int
	consequents map[*variable.Variable]int
}

func (r *resolver) AntecedentIndex(v *variable.Variable) (int, bool) {
	i, ok := r.antecedents[v]
	return i, ok
}

func (r *resolver) ConsequentIndex(v *variable.Variable) (int, bool) {
	i, ok := r.consequents[v]
	return i, ok
}

type fixture struct {
	a, b, out *variable.Variable
	res       *resolver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	u, err := membership.Arange(0, 10, 1)
	if err != nil {
		t.Fatal(err)
	}
	a, err := variable.NewAntecedent("a", u)
	if err != nil {
		t.Fatal(err)
	}
	b, err := variable.NewAntecedent("b", u)
	if err != nil {
		t.Fatal(err)
	}
	out, err := variable.NewConsequent("out", u)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []*variable.Variable{a, b, out} {
		if err := v.AutoPartition(3); err != nil {
			t.Fatal(err)
		}
	}
	return &fixture{a: a, b: b, out: out, res: &resolver{
		antecedents: map[*variable.Variable]int{a: 0, b: 1},
		consequents: map[*variable.Variable]int{out: 0},
	}}
}

func (f *fixture) compile(t *testing.T, x rule.Expr, opts ...rule.Option) *rule.Compiled {
	t.Helper()
	r, err := rule.New(x, []rule.Target{rule.Then(f.out, "good")}, opts...)
	if err != nil {
		t.Fatal(err)
	}
	c, err := r.Compile(f.res)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// degrees of a and b for terms poor, average, good.
var degrees = [][]float64{
	{0.2, 0.7, 0.1},
	{0.0, 0.4, 0.9},
}

func TestStrength(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name  string
		expr  rule.Expr
		norms rule.Norms
		want  float64
	}{
		{name: "Term", expr: rule.Is(f.a, "average"), want: 0.7},
		{name: "And min", expr: rule.And(rule.Is(f.a, "average"), rule.Is(f.b, "good")), want: 0.7},
		{name: "Or max", expr: rule.Or(rule.Is(f.a, "good"), rule.Is(f.b, "average")), want: 0.4},
		{name: "Not", expr: rule.Not(rule.Is(f.a, "poor")), want: 0.8},
		{name: "And product", expr: rule.And(rule.Is(f.a, "average"), rule.Is(f.b, "good")),
			norms: rule.Norms{And: rule.AndProduct}, want: 0.63},
		{name: "Or probsum", expr: rule.Or(rule.Is(f.a, "average"), rule.Is(f.b, "average")),
			norms: rule.Norms{Or: rule.OrProbSum}, want: 0.82},
		{name: "Nested", expr: rule.Or(
			rule.And(rule.Is(f.a, "poor"), rule.Not(rule.Is(f.b, "poor"))),
			rule.And(rule.Is(f.a, "good"), rule.Is(f.b, "good"))), want: 0.2},
		{name: "Single operand", expr: rule.And(rule.Is(f.b, "good")), want: 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := f.compile(t, tt.expr)
			got := c.Strength(degrees, tt.norms)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Strength(%v) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestStrengthOrderIndependent(t *testing.T) {
	f := newFixture(t)
	x := []rule.Expr{rule.Is(f.a, "poor"), rule.Is(f.a, "average"), rule.Is(f.b, "good"), rule.Is(f.b, "average")}
	perms := [][]int{{0, 1, 2, 3}, {3, 2, 1, 0}, {1, 3, 0, 2}, {2, 0, 3, 1}}
	for _, norms := range []rule.Norms{{}, {And: rule.AndProduct, Or: rule.OrProbSum}} {
		var andWant, orWant float64
		for i, p := range perms {
			xs := []rule.Expr{x[p[0]], x[p[1]], x[p[2]], x[p[3]]}
			and := f.compile(t, rule.And(xs...)).Strength(degrees, norms)
			or := f.compile(t, rule.Or(xs...)).Strength(degrees, norms)
			// Regrouping: (x0 AND x1) AND (x2 AND x3).
			grouped := f.compile(t, rule.And(rule.And(xs[0], xs[1]), rule.And(xs[2], xs[3]))).Strength(degrees, norms)
			if i == 0 {
				andWant, orWant = and, or
				continue
			}
			if math.Abs(and-andWant) > 1e-12 || math.Abs(grouped-andWant) > 1e-12 {
				t.Errorf("%v: AND over %v = %v (grouped %v), want %v", norms, p, and, grouped, andWant)
			}
			if math.Abs(or-orWant) > 1e-12 {
				t.Errorf("%v: OR over %v = %v, want %v", norms, p, or, orWant)
			}
		}
	}
}

func TestWeightCapsStrength(t *testing.T) {
	f := newFixture(t)
	for _, w := range []float64{0.1, 0.5, 0.95, 1} {
		c := f.compile(t, rule.Or(rule.Is(f.b, "good"), rule.Not(rule.Is(f.b, "poor"))), rule.WithWeight(w))
		for _, d := range [][][]float64{degrees, {{1, 1, 1}, {1, 1, 1}}, {{0, 0, 0}, {0, 0, 0}}} {
			if got := c.Strength(d, rule.Norms{}); got > w {
				t.Errorf("Strength with weight %v = %v", w, got)
			}
		}
	}
}

func TestNewInvalid(t *testing.T) {
	f := newFixture(t)
	then := []rule.Target{rule.Then(f.out, "good")}
	tests := []struct {
		name    string
		expr    rule.Expr
		targets []rule.Target
		opts    []rule.Option
	}{
		{name: "Nil antecedent", expr: nil, targets: then},
		{name: "Empty AND", expr: rule.And(), targets: then},
		{name: "Empty OR", expr: rule.Or(), targets: then},
		{name: "NOT nil", expr: rule.Not(nil), targets: then},
		{name: "Nil variable", expr: rule.Is(nil, "poor"), targets: then},
		{name: "Consequent in antecedent", expr: rule.Is(f.out, "poor"), targets: then},
		{name: "No targets", expr: rule.Is(f.a, "poor")},
		{name: "Antecedent as target", expr: rule.Is(f.a, "poor"), targets: []rule.Target{rule.Then(f.b, "good")}},
		{name: "Zero weight", expr: rule.Is(f.a, "poor"), targets: then, opts: []rule.Option{rule.WithWeight(0)}},
		{name: "Weight above one", expr: rule.Is(f.a, "poor"), targets: then, opts: []rule.Option{rule.WithWeight(1.5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rule.New(tt.expr, tt.targets, tt.opts...)
			var be *membership.BuildError
			if !errors.As(err, &be) || !errors.Is(err, rule.ErrInvalidRule) {
				t.Errorf("New error = %v, want BuildError wrapping ErrInvalidRule", err)
			}
		})
	}
}

func TestCompileUnknownTerm(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name    string
		expr    rule.Expr
		target  rule.Target
		wantVar string
		wantTrm string
	}{
		{name: "Antecedent term", expr: rule.And(rule.Is(f.a, "poor"), rule.Is(f.b, "excellent")),
			target: rule.Then(f.out, "good"), wantVar: "b", wantTrm: "excellent"},
		{name: "Consequent term", expr: rule.Is(f.a, "poor"),
			target: rule.Then(f.out, "generous"), wantVar: "out", wantTrm: "generous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := rule.New(tt.expr, []rule.Target{tt.target})
			if err != nil {
				t.Fatal(err)
			}
			_, err = r.Compile(f.res)
			var ute *rule.UnknownTermError
			if !errors.As(err, &ute) {
				t.Fatalf("Compile error = %v, want UnknownTermError", err)
			}
			if ute.Variable != tt.wantVar || ute.Term != tt.wantTrm {
				t.Errorf("UnknownTermError = %+v, want %s[%s]", ute, tt.wantVar, tt.wantTrm)
			}
		})
	}
}

func TestRuleString(t *testing.T) {
	f := newFixture(t)
	r, err := rule.New(rule.Or(rule.Is(f.a, "poor"), rule.Not(rule.Is(f.b, "good"))),
		[]rule.Target{rule.Then(f.out, "poor")}, rule.WithWeight(0.5))
	if err != nil {
		t.Fatal(err)
	}
	want := "IF (a[poor] OR NOT b[good]) THEN out[poor] WITH 0.5"
	if got := r.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if vs := r.Antecedents(); len(vs) != 2 || vs[0] != f.a || vs[1] != f.b {
		t.Errorf("Antecedents() = %v", vs)
	}
}

func TestParseMethods(t *testing.T) {
	if m, err := rule.ParseAndMethod("product"); err != nil || m != rule.AndProduct {
		t.Errorf("ParseAndMethod(product) = %v, %v", m, err)
	}
	if m, err := rule.ParseOrMethod(""); err != nil || m != rule.OrMax {
		t.Errorf("ParseOrMethod(\"\") = %v, %v", m, err)
	}
	if _, err := rule.ParseOrMethod("xor"); err == nil {
		t.Errorf("ParseOrMethod(xor) did not fail")
	}
}
