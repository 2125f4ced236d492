package control

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"

	"example.com/fuzzy-control/base/floats"
	"example.com/fuzzy-control/base/zaplog"
	"example.com/fuzzy-control/core/defuzz"
	"example.com/fuzzy-control/core/membership"
)

type State int

const (
	Created State = iota
	InputsPartial
	InputsComplete
	Computed
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case InputsPartial:
		return "inputs-partial"
	case InputsComplete:
		return "inputs-complete"
	case Computed:
		return "computed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type simConfig struct {
	log       *zap.Logger
	clip      bool
	cacheSize int
}

type Option func(*simConfig)

func WithLogger(log *zap.Logger) Option {
	return func(c *simConfig) { c.log = log }
}

// WithClipToBounds controls whether inputs outside a universe are clipped to
// its bounds (the default) or rejected with an OutOfRangeError.
func WithClipToBounds(clip bool) Option {
	return func(c *simConfig) { c.clip = clip }
}

// WithCache keeps the results of up to n distinct input vectors. Repeating a
// cached input skips the inference pipeline.
func WithCache(n int) Option {
	return func(c *simConfig) { c.cacheSize = n }
}

// result is the outcome of one compute run. It is never modified after
// creation, so cached results may be shared.
type result struct {
	degrees    [][]float64
	strengths  []float64
	aggregated []membership.Set
	outputs    []float64
	errs       []error
}

// Simulation is one evaluation context bound to a System. It is not safe for
// concurrent use; run one Simulation per goroutine.
type Simulation struct {
	id     uuid.UUID
	sys    *System
	log    *zap.Logger
	clip   bool
	cache  *lru.Cache
	inputs []float64
	set    []bool
	res    *result
}

func NewSimulation(sys *System, opts ...Option) *Simulation {
	if sys == nil {
		panic("unexpected nil control system")
	}
	cfg := simConfig{clip: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &Simulation{
		id:     uuid.New(),
		sys:    sys,
		log:    zaplog.Or(cfg.log),
		clip:   cfg.clip,
		inputs: make([]float64, len(sys.antecedents)),
		set:    make([]bool, len(sys.antecedents)),
	}
	if cfg.cacheSize > 0 {
		c, err := lru.New(cfg.cacheSize)
		if err != nil {
			panic(err)
		}
		s.cache = c
	}
	return s
}

func (s *Simulation) ID() uuid.UUID { return s.id }

func (s *Simulation) System() *System { return s.sys }

func (s *Simulation) State() State {
	if s.res != nil {
		return Computed
	}
	n := 0
	for _, ok := range s.set {
		if ok {
			n++
		}
	}
	switch n {
	case 0:
		return Created
	case len(s.set):
		return InputsComplete
	default:
		return InputsPartial
	}
}

// SetInput sets the crisp value of an antecedent. Any accepted input
// invalidates previously computed outputs.
func (s *Simulation) SetInput(name string, x float64) error {
	i, ok := s.sys.antByName[name]
	if !ok {
		return &UnknownVariableError{Name: name}
	}
	if !floats.IsFinite(x) {
		return fmt.Errorf("%w: %s = %v", ErrInvalidInput, name, x)
	}
	u := s.sys.antecedents[i].Universe()
	if !u.Contains(x) {
		if !s.clip {
			return &OutOfRangeError{Variable: name, Value: x, Min: u.Min(), Max: u.Max()}
		}
		x = floats.Clamp(x, u.Min(), u.Max())
	}
	s.inputs[i] = x
	s.set[i] = true
	s.res = nil
	return nil
}

// SetInputs sets several inputs in name order and stops at the first error.
func (s *Simulation) SetInputs(inputs map[string]float64) error {
	names := make([]string, 0, len(inputs))
	for name := range inputs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := s.SetInput(name, inputs[name]); err != nil {
			return err
		}
	}
	return nil
}

// Input returns the crisp value set for an antecedent, after clipping.
func (s *Simulation) Input(name string) (float64, bool) {
	i, ok := s.sys.antByName[name]
	if !ok || !s.set[i] {
		return 0, false
	}
	return s.inputs[i], true
}

// Reset clears all inputs and outputs.
func (s *Simulation) Reset() {
	for i := range s.set {
		s.set[i] = false
		s.inputs[i] = 0
	}
	s.res = nil
}

// Compute runs fuzzification, rule evaluation, implication, aggregation and
// defuzzification. Consequents that cannot be defuzzified are reported in
// the returned error and by Output; all other outputs remain readable.
func (s *Simulation) Compute() error {
	var missing []string
	for i, ok := range s.set {
		if !ok {
			missing = append(missing, s.sys.antecedents[i].Name())
		}
	}
	if len(missing) != 0 {
		sort.Strings(missing)
		missingInputs.Inc()
		return &MissingInputError{Variables: missing}
	}

	var key string
	if s.cache != nil {
		key = cacheKey(s.inputs)
		if v, ok := s.cache.Get(key); ok {
			cacheHits.Inc()
			s.res = v.(*result)
			s.log.Debug("compute served from cache", zap.Stringer("sim", s.id))
			return errors.Join(s.res.errs...)
		}
	}

	t0 := time.Now()
	res := s.sys.run(s.inputs)
	d := time.Since(t0)

	fired := 0
	for _, f := range res.strengths {
		if f > 0 {
			fired++
		}
	}
	failed := 0
	for _, err := range res.errs {
		if err != nil {
			failed++
		}
	}
	computes.Inc()
	computeDuration.Observe(d.Seconds())
	rulesFired.Add(float64(fired))
	defuzzFailures.Add(float64(failed))

	s.log.Debug("computed",
		zap.Stringer("sim", s.id),
		zap.Float64s("inputs", s.inputs),
		zap.Float64s("outputs", res.outputs),
		zap.Int("rules_fired", fired),
		zap.Int("failed_outputs", failed),
		zap.Duration("duration", d))

	if s.cache != nil {
		s.cache.Add(key, res)
	}
	s.res = res
	return errors.Join(res.errs...)
}

func cacheKey(xs []float64) string {
	b := make([]byte, 8*len(xs))
	for i, x := range xs {
		binary.LittleEndian.PutUint64(b[8*i:], math.Float64bits(x))
	}
	return string(b)
}

// run evaluates the rule base against a complete input vector.
func (s *System) run(inputs []float64) *result {
	res := &result{
		degrees:    make([][]float64, len(s.antecedents)),
		strengths:  make([]float64, len(s.compiled)),
		aggregated: make([]membership.Set, len(s.consequents)),
		outputs:    make([]float64, len(s.consequents)),
		errs:       make([]error, len(s.consequents)),
	}
	for i, v := range s.antecedents {
		res.degrees[i] = v.Fuzzify(inputs[i])
	}
	for i, c := range s.compiled {
		res.strengths[i] = c.Strength(res.degrees, s.cfg.norms)
	}
	for i, v := range s.consequents {
		res.aggregated[i] = make(membership.Set, v.Universe().Len())
	}
	for i, c := range s.compiled {
		f := res.strengths[i]
		if f == 0 {
			continue
		}
		for _, t := range c.Targets {
			implied := s.imply(s.consequents[t.Variable].TermAt(t.Term), f)
			s.aggregate(res.aggregated[t.Variable], implied)
		}
	}
	for i, v := range s.consequents {
		x, err := defuzz.Defuzzify(v.Universe().Samples(), res.aggregated[i], s.methods[i])
		if err != nil {
			res.errs[i] = &OutputError{Variable: v.Name(), Err: err}
			res.outputs[i] = math.NaN()
			continue
		}
		res.outputs[i] = x
	}
	return res
}

func (s *System) imply(term membership.Set, strength float64) membership.Set {
	switch s.cfg.implication {
	case ImplicationMin:
		return term.Clip(strength)
	case ImplicationProduct:
		return term.Scale(strength)
	}
	panic("unexpected implication")
}

func (s *System) aggregate(acc, implied membership.Set) {
	switch s.cfg.aggregation {
	case AggregationMax:
		for i, d := range implied {
			acc[i] = math.Max(acc[i], d)
		}
	case AggregationProbSum:
		for i, d := range implied {
			acc[i] = acc[i] + d - acc[i]*d
		}
	default:
		panic("unexpected aggregation")
	}
}

func (s *Simulation) consequent(name string) (int, error) {
	i, ok := s.sys.conByName[name]
	if !ok {
		return 0, &UnknownVariableError{Name: name}
	}
	if s.res == nil {
		return 0, &NotComputedError{Variable: name}
	}
	return i, nil
}

// Output returns the crisp value of a consequent after Compute.
func (s *Simulation) Output(name string) (float64, error) {
	i, err := s.consequent(name)
	if err != nil {
		return 0, err
	}
	if err := s.res.errs[i]; err != nil {
		return 0, err
	}
	return s.res.outputs[i], nil
}

// Outputs returns every successfully defuzzified output.
func (s *Simulation) Outputs() (map[string]float64, error) {
	if s.res == nil {
		return nil, &NotComputedError{}
	}
	m := make(map[string]float64, len(s.sys.consequents))
	for i, v := range s.sys.consequents {
		if s.res.errs[i] == nil {
			m[v.Name()] = s.res.outputs[i]
		}
	}
	return m, nil
}

// Aggregated returns a copy of the aggregated set of a consequent.
func (s *Simulation) Aggregated(name string) (membership.Set, error) {
	i, err := s.consequent(name)
	if err != nil {
		return nil, err
	}
	return s.res.aggregated[i].Clone(), nil
}

// Fuzzified returns the term degrees of an antecedent from the last run.
func (s *Simulation) Fuzzified(name string) ([]float64, error) {
	i, ok := s.sys.antByName[name]
	if !ok {
		return nil, &UnknownVariableError{Name: name}
	}
	if s.res == nil {
		return nil, &NotComputedError{Variable: name}
	}
	return append([]float64(nil), s.res.degrees[i]...), nil
}

// FiringStrengths returns the strength of every rule, in rule order, from
// the last run.
func (s *Simulation) FiringStrengths() ([]float64, error) {
	if s.res == nil {
		return nil, &NotComputedError{}
	}
	return append([]float64(nil), s.res.strengths...), nil
}
