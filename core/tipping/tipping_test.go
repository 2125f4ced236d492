package tipping_test

import (
	"math"
	"testing"

	"example.com/fuzzy-control/core/control"
	"example.com/fuzzy-control/core/defuzz"
	"example.com/fuzzy-control/core/tipping"
)

func tip(t *testing.T, m *tipping.Model, quality, service float64) float64 {
	t.Helper()
	sim := control.NewSimulation(m.System)
	if err := sim.SetInput(tipping.Quality, quality); err != nil {
		t.Fatal(err)
	}
	if err := sim.SetInput(tipping.Service, service); err != nil {
		t.Fatal(err)
	}
	if err := sim.Compute(); err != nil {
		t.Fatal(err)
	}
	x, err := sim.Output(tipping.Tip)
	if err != nil {
		t.Fatal(err)
	}
	return x
}

func TestReferenceScenario(t *testing.T) {
	m, err := tipping.New()
	if err != nil {
		t.Fatal(err)
	}
	if got := tip(t, m, 6.5, 9.8); math.Abs(got-20) > 1 {
		t.Errorf("tip(6.5, 9.8) = %v, want 20 +/- 1", got)
	}
}

func TestMonotoneInService(t *testing.T) {
	m, err := tipping.New()
	if err != nil {
		t.Fatal(err)
	}
	prev := math.Inf(-1)
	for s := 0.0; s <= 10; s++ {
		got := tip(t, m, 5, s)
		if got < prev-1e-9 {
			t.Errorf("tip(5, %v) = %v, below tip(5, %v) = %v", s, got, s-1, prev)
		}
		prev = got
	}
}

func TestOutputWithinUniverse(t *testing.T) {
	for _, method := range []defuzz.Method{defuzz.Centroid, defuzz.Bisector, defuzz.MOM, defuzz.SOM, defuzz.LOM} {
		m, err := tipping.New(control.WithDefuzzify(method))
		if err != nil {
			t.Fatal(err)
		}
		for q := 0.0; q <= 10; q += 2.5 {
			for s := 0.0; s <= 10; s += 2.5 {
				if got := tip(t, m, q, s); got < 0 || got > 25 {
					t.Errorf("%v tip(%v, %v) = %v outside [0, 25]", method, q, s, got)
				}
			}
		}
	}
}
