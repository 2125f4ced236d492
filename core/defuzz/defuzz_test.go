package defuzz_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"example.com/fuzzy-control/base/floats"
	"example.com/fuzzy-control/core/defuzz"
	"example.com/fuzzy-control/core/membership"
)

var methods = []defuzz.Method{defuzz.Centroid, defuzz.Bisector, defuzz.MOM, defuzz.SOM, defuzz.LOM}

func TestSymmetricTriangle(t *testing.T) {
	x := floats.Arange(0, 20, 0.5)
	for _, center := range []float64{4, 7.5, 10, 13} {
		for _, halfWidth := range []float64{1, 2.5, 4} {
			shape, err := membership.Tri(center-halfWidth, center, center+halfWidth)
			if err != nil {
				t.Fatal(err)
			}
			u, err := membership.NewUniverse(x)
			if err != nil {
				t.Fatal(err)
			}
			m := membership.Materialize(u, shape)
			for _, method := range []defuzz.Method{defuzz.Centroid, defuzz.Bisector, defuzz.MOM} {
				got, err := defuzz.Defuzzify(x, m, method)
				if err != nil {
					t.Fatalf("%v of trimf(%v, %v, %v) failed: %v",
						method, center-halfWidth, center, center+halfWidth, err)
				}
				if math.Abs(got-center) > 1e-9 {
					t.Errorf("%v of trimf(%v, %v, %v) = %v, want %v",
						method, center-halfWidth, center, center+halfWidth, got, center)
				}
			}
		}
	}
}

func TestOfMaximum(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4, 5}
	tests := []struct {
		name          string
		m             []float64
		som, mom, lom float64
	}{
		{name: "Single peak", m: []float64{0, 0.2, 0.9, 0.3, 0, 0}, som: 2, mom: 2, lom: 2},
		{name: "Plateau", m: []float64{0, 0.5, 0.5, 0.5, 0.2, 0}, som: 1, mom: 2, lom: 3},
		{name: "Separated maxima", m: []float64{0.8, 0.1, 0.1, 0.1, 0.1, 0.8}, som: 0, mom: 2.5, lom: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := map[defuzz.Method]float64{defuzz.SOM: tt.som, defuzz.MOM: tt.mom, defuzz.LOM: tt.lom}
			for method, w := range want {
				got, err := defuzz.Defuzzify(x, tt.m, method)
				if err != nil {
					t.Fatal(err)
				}
				if got != w {
					t.Errorf("%v(%v) = %v, want %v", method, tt.m, got, w)
				}
			}
		})
	}
}

func TestSomMomLomOrdering(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	x := floats.Arange(-10, 10, 0.25)
	m := make([]float64, len(x))
	for n := 0; n < 500; n++ {
		for i := range m {
			// Coarse levels make ties common.
			m[i] = float64(r.Intn(5)) / 4
		}
		if floats.AllZero(m) {
			continue
		}
		som, _ := defuzz.Defuzzify(x, m, defuzz.SOM)
		mom, _ := defuzz.Defuzzify(x, m, defuzz.MOM)
		lom, _ := defuzz.Defuzzify(x, m, defuzz.LOM)
		if !(som <= mom && mom <= lom) {
			t.Fatalf("som %v, mom %v, lom %v out of order for %v", som, mom, lom, m)
		}
	}
}

func TestCentroidAndBisector(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	m := []float64{0, 1, 0, 0, 1}
	got, err := defuzz.Defuzzify(x, m, defuzz.Centroid)
	if err != nil || got != 2.5 {
		t.Errorf("centroid = %v, %v; want 2.5", got, err)
	}
	got, err = defuzz.Defuzzify(x, m, defuzz.Bisector)
	if err != nil || got != 1 {
		t.Errorf("bisector = %v, %v; want 1", got, err)
	}
	got, err = defuzz.Defuzzify(x, []float64{0, 0.25, 0.25, 1, 0}, defuzz.Bisector)
	if err != nil || got != 3 {
		t.Errorf("bisector = %v, %v; want 3", got, err)
	}
}

func TestAllZero(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	m := []float64{0, 0, 0, 0, 0}
	for _, method := range []defuzz.Method{defuzz.Centroid, defuzz.Bisector} {
		_, err := defuzz.Defuzzify(x, m, method)
		var de *defuzz.DefuzzificationError
		if !errors.As(err, &de) {
			t.Errorf("%v of all-zero set error = %v, want DefuzzificationError", method, err)
			continue
		}
		if de.Method != method || !defuzz.ZeroArea(err) {
			t.Errorf("%v of all-zero set error = %+v", method, de)
		}
	}

	// The maximal set is the whole grid.
	want := map[defuzz.Method]float64{defuzz.SOM: 0, defuzz.MOM: 2, defuzz.LOM: 4}
	for method, w := range want {
		got, err := defuzz.Defuzzify(x, m, method)
		if err != nil || got != w {
			t.Errorf("%v of all-zero set = %v, %v; want %v", method, got, err, w)
		}
	}
}

func TestInvalidInput(t *testing.T) {
	if _, err := defuzz.Defuzzify(nil, nil, defuzz.Centroid); err == nil {
		t.Errorf("Defuzzify of empty set did not fail")
	}
	if _, err := defuzz.Defuzzify([]float64{0, 1}, []float64{1}, defuzz.Centroid); err == nil {
		t.Errorf("Defuzzify with mismatched lengths did not fail")
	}
	if _, err := defuzz.Defuzzify([]float64{0, 1}, []float64{1, 0}, defuzz.Method(9)); err == nil {
		t.Errorf("Defuzzify with unknown method did not fail")
	}
}

func TestParseMethod(t *testing.T) {
	for _, method := range methods {
		got, err := defuzz.ParseMethod(method.String())
		if err != nil || got != method {
			t.Errorf("ParseMethod(%q) = %v, %v", method.String(), got, err)
		}
	}
	if got, err := defuzz.ParseMethod(""); err != nil || got != defuzz.Centroid {
		t.Errorf("ParseMethod(\"\") = %v, %v", got, err)
	}
	if _, err := defuzz.ParseMethod("median"); err == nil {
		t.Errorf("ParseMethod(median) did not fail")
	}
}
