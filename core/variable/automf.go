package variable

import (
	"fmt"
	"slices"

	"example.com/fuzzy-control/base/floats"
	"example.com/fuzzy-control/core/membership"
)

var qualityNames = map[int][]string{
	3: {"poor", "average", "good"},
	5: {"poor", "mediocre", "average", "decent", "good"},
	7: {"dismal", "poor", "mediocre", "average", "decent", "good", "excellent"},
}

var quantityNames = map[int][]string{
	3: {"low", "average", "high"},
	5: {"lower", "low", "average", "high", "higher"},
	7: {"lowest", "lower", "low", "average", "high", "higher", "highest"},
}

type partition struct {
	names    map[int][]string
	custom   []string
	inverted bool
}

type PartitionOption func(*partition)

// Quantity selects the low/average/high label family instead of the default
// poor/average/good one.
func Quantity() PartitionOption {
	return func(p *partition) { p.names = quantityNames }
}

// WithNames labels the terms explicitly, lowest center first.
func WithNames(names ...string) PartitionOption {
	return func(p *partition) { p.custom = names }
}

// Inverted assigns the labels from the highest center down.
func Inverted() PartitionOption {
	return func(p *partition) { p.inverted = true }
}

// AutoPartition covers the universe with n in {3, 5, 7} evenly spaced,
// overlapping triangular terms. Adjacent terms cross at degree 0.5 and the
// outermost terms peak at the universe bounds.
func (v *Variable) AutoPartition(n int, opts ...PartitionOption) error {
	p := partition{names: qualityNames}
	for _, opt := range opts {
		opt(&p)
	}

	var labels []string
	if p.custom != nil {
		if len(p.custom) != n || n < 2 {
			return &membership.BuildError{Op: "partition", Name: v.name,
				Err: fmt.Errorf("%w: %d names for %d terms", ErrInvalidPartition, len(p.custom), n)}
		}
		labels = slices.Clone(p.custom)
	} else {
		ls, ok := p.names[n]
		if !ok {
			return &membership.BuildError{Op: "partition", Name: v.name,
				Err: fmt.Errorf("%w: %d terms, want 3, 5 or 7", ErrInvalidPartition, n)}
		}
		labels = slices.Clone(ls)
	}
	if p.inverted {
		slices.Reverse(labels)
	}

	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		if seen[l] {
			return &membership.BuildError{Op: "partition", Name: v.qualify(l), Err: ErrDuplicateTerm}
		}
		seen[l] = true
		if err := v.checkLabel(l); err != nil {
			return err
		}
	}

	lo, hi := v.universe.Min(), v.universe.Max()
	halfWidth := (hi - lo) / float64(n-1)
	centers := floats.Span(lo, hi, n)
	for i, c := range centers {
		shape, err := membership.Tri(c-halfWidth, c, c+halfWidth)
		if err != nil {
			panic("unexpected partition shape")
		}
		v.append(term{label: labels[i], shape: shape, set: membership.Materialize(v.universe, shape)})
	}
	return nil
}
