package control

import (
	"fmt"

	"example.com/fuzzy-control/core/defuzz"
	"example.com/fuzzy-control/core/membership"
	"example.com/fuzzy-control/core/rule"
	"example.com/fuzzy-control/core/variable"
)

// Implication derives a rule's output set from its consequent term.
type Implication int

const (
	ImplicationMin Implication = iota
	ImplicationProduct
)

// Aggregation folds the implied sets of one consequent.
type Aggregation int

const (
	AggregationMax Aggregation = iota
	AggregationProbSum
)

func (i Implication) String() string {
	switch i {
	case ImplicationMin:
		return "min"
	case ImplicationProduct:
		return "product"
	default:
		return fmt.Sprintf("Implication(%d)", int(i))
	}
}

func (a Aggregation) String() string {
	switch a {
	case AggregationMax:
		return "max"
	case AggregationProbSum:
		return "probsum"
	default:
		return fmt.Sprintf("Aggregation(%d)", int(a))
	}
}

func ParseImplication(s string) (Implication, error) {
	switch s {
	case "", "min":
		return ImplicationMin, nil
	case "product", "prod":
		return ImplicationProduct, nil
	}
	return 0, fmt.Errorf("unknown implication %q", s)
}

func ParseAggregation(s string) (Aggregation, error) {
	switch s {
	case "", "max":
		return AggregationMax, nil
	case "probsum", "probor":
		return AggregationProbSum, nil
	}
	return 0, fmt.Errorf("unknown aggregation %q", s)
}

type systemConfig struct {
	norms       rule.Norms
	implication Implication
	aggregation Aggregation
	defuzz      defuzz.Method
}

type SystemOption func(*systemConfig)

func WithNorms(n rule.Norms) SystemOption {
	return func(c *systemConfig) { c.norms = n }
}

func WithImplication(i Implication) SystemOption {
	return func(c *systemConfig) { c.implication = i }
}

func WithAggregation(a Aggregation) SystemOption {
	return func(c *systemConfig) { c.aggregation = a }
}

// WithDefuzzify sets the method for consequents that do not choose their own.
func WithDefuzzify(m defuzz.Method) SystemOption {
	return func(c *systemConfig) { c.defuzz = m }
}

// System is a validated rule base: antecedent variables feed rules, rules
// feed consequent variables. A System is immutable and may be shared by any
// number of concurrently running simulations.
type System struct {
	cfg         systemConfig
	rules       []*rule.Rule
	compiled    []*rule.Compiled
	antecedents []*variable.Variable
	consequents []*variable.Variable
	antIndex    map[*variable.Variable]int
	conIndex    map[*variable.Variable]int
	antByName   map[string]int
	conByName   map[string]int
	methods     []defuzz.Method
	// rulesOf[c] lists the rules targeting consequent c.
	rulesOf [][]int
}

var _ rule.Resolver = (*System)(nil)

func NewSystem(rules []*rule.Rule, opts ...SystemOption) (*System, error) {
	s := &System{
		antIndex:  make(map[*variable.Variable]int),
		conIndex:  make(map[*variable.Variable]int),
		antByName: make(map[string]int),
		conByName: make(map[string]int),
	}
	for _, opt := range opts {
		opt(&s.cfg)
	}
	if len(rules) == 0 {
		return nil, &membership.BuildError{Op: "system", Err: ErrNoRules}
	}
	names := make(map[string]*variable.Variable)
	register := func(v *variable.Variable) error {
		if w, ok := names[v.Name()]; ok && w != v {
			return &membership.BuildError{Op: "system", Name: v.Name(), Err: ErrDuplicateVariable}
		}
		names[v.Name()] = v
		return nil
	}
	for i, r := range rules {
		if r == nil {
			return nil, &membership.BuildError{Op: "system",
				Err: fmt.Errorf("%w: rule %d is nil", rule.ErrInvalidRule, i)}
		}
		for _, v := range r.Antecedents() {
			if err := register(v); err != nil {
				return nil, err
			}
			if _, ok := s.antIndex[v]; !ok {
				s.antIndex[v] = len(s.antecedents)
				s.antByName[v.Name()] = len(s.antecedents)
				s.antecedents = append(s.antecedents, v)
			}
		}
		for _, v := range r.Consequents() {
			if err := register(v); err != nil {
				return nil, err
			}
			if _, ok := s.conIndex[v]; !ok {
				s.conIndex[v] = len(s.consequents)
				s.conByName[v.Name()] = len(s.consequents)
				s.consequents = append(s.consequents, v)
			}
		}
	}

	s.rules = append([]*rule.Rule(nil), rules...)
	s.compiled = make([]*rule.Compiled, len(rules))
	s.rulesOf = make([][]int, len(s.consequents))
	for i, r := range s.rules {
		c, err := r.Compile(s)
		if err != nil {
			return nil, err
		}
		s.compiled[i] = c
		seen := make(map[int]bool)
		for _, t := range c.Targets {
			if !seen[t.Variable] {
				seen[t.Variable] = true
				s.rulesOf[t.Variable] = append(s.rulesOf[t.Variable], i)
			}
		}
	}

	s.methods = make([]defuzz.Method, len(s.consequents))
	for i, v := range s.consequents {
		s.methods[i] = s.cfg.defuzz
		if name := v.Defuzzify(); name != "" {
			m, err := defuzz.ParseMethod(name)
			if err != nil {
				return nil, &membership.BuildError{Op: "system", Name: v.Name(), Err: err}
			}
			s.methods[i] = m
		}
	}
	for _, v := range s.antecedents {
		v.Freeze()
	}
	for _, v := range s.consequents {
		v.Freeze()
	}
	return s, nil
}

func (s *System) AntecedentIndex(v *variable.Variable) (int, bool) {
	i, ok := s.antIndex[v]
	return i, ok
}

func (s *System) ConsequentIndex(v *variable.Variable) (int, bool) {
	i, ok := s.conIndex[v]
	return i, ok
}

func (s *System) Rules() []*rule.Rule {
	return append([]*rule.Rule(nil), s.rules...)
}

func (s *System) Antecedents() []*variable.Variable {
	return append([]*variable.Variable(nil), s.antecedents...)
}

func (s *System) Consequents() []*variable.Variable {
	return append([]*variable.Variable(nil), s.consequents...)
}

// Variable looks up an antecedent or consequent by name.
func (s *System) Variable(name string) (*variable.Variable, bool) {
	if i, ok := s.antByName[name]; ok {
		return s.antecedents[i], true
	}
	if i, ok := s.conByName[name]; ok {
		return s.consequents[i], true
	}
	return nil, false
}

// Method returns the defuzzification method of a consequent.
func (s *System) Method(consequent string) (defuzz.Method, bool) {
	i, ok := s.conByName[consequent]
	if !ok {
		return 0, false
	}
	return s.methods[i], true
}

// Dependencies returns the names of the antecedents feeding consequent
// through at least one rule, in antecedent order.
func (s *System) Dependencies(consequent string) ([]string, bool) {
	c, ok := s.conByName[consequent]
	if !ok {
		return nil, false
	}
	used := make([]bool, len(s.antecedents))
	for _, ri := range s.rulesOf[c] {
		for _, v := range s.rules[ri].Antecedents() {
			used[s.antIndex[v]] = true
		}
	}
	var names []string
	for i, u := range used {
		if u {
			names = append(names, s.antecedents[i].Name())
		}
	}
	return names, true
}

func (s *System) String() string {
	return fmt.Sprintf("control system (%d rules, %d antecedents, %d consequents)",
		len(s.rules), len(s.antecedents), len(s.consequents))
}

func (s *System) Norms() rule.Norms { return s.cfg.norms }

func (s *System) Implication() Implication { return s.cfg.implication }

func (s *System) Aggregation() Aggregation { return s.cfg.aggregation }
