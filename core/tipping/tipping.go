// Package tipping builds the classic restaurant tipping controller: food
// quality and service, each rated 0 to 10, determine a tip of 0 to 25
// percent.
package tipping

import (
	"example.com/fuzzy-control/core/control"
	"example.com/fuzzy-control/core/membership"
	"example.com/fuzzy-control/core/rule"
	"example.com/fuzzy-control/core/variable"
)

const (
	Quality = "quality"
	Service = "service"
	Tip     = "tip"
)

type Model struct {
	Quality *variable.Variable
	Service *variable.Variable
	Tip     *variable.Variable
	Rules   []*rule.Rule
	System  *control.System
}

func rating(name string) (*variable.Variable, error) {
	u, err := membership.Arange(0, 10, 1)
	if err != nil {
		return nil, err
	}
	v, err := variable.NewAntecedent(name, u)
	if err != nil {
		return nil, err
	}
	if err := v.AutoPartition(3); err != nil {
		return nil, err
	}
	return v, nil
}

func New(opts ...control.SystemOption) (*Model, error) {
	quality, err := rating(Quality)
	if err != nil {
		return nil, err
	}
	service, err := rating(Service)
	if err != nil {
		return nil, err
	}

	u, err := membership.Arange(0, 25, 1)
	if err != nil {
		return nil, err
	}
	tip, err := variable.NewConsequent(Tip, u)
	if err != nil {
		return nil, err
	}
	for _, t := range []struct {
		label   string
		a, b, c float64
	}{
		{"low", 0, 0, 13},
		{"medium", 0, 13, 25},
		{"high", 13, 25, 25},
	} {
		if err := tip.AddTerm(t.label, membership.KindTri, t.a, t.b, t.c); err != nil {
			return nil, err
		}
	}

	m := &Model{Quality: quality, Service: service, Tip: tip}
	for _, r := range []struct {
		antecedent rule.Expr
		term       string
	}{
		{rule.Or(rule.Is(quality, "poor"), rule.Is(service, "poor")), "low"},
		{rule.Is(service, "average"), "medium"},
		{rule.Or(rule.Is(service, "good"), rule.Is(quality, "good")), "high"},
	} {
		rl, err := rule.New(r.antecedent, []rule.Target{rule.Then(tip, r.term)})
		if err != nil {
			return nil, err
		}
		m.Rules = append(m.Rules, rl)
	}

	m.System, err = control.NewSystem(m.Rules, opts...)
	if err != nil {
		return nil, err
	}
	return m, nil
}
