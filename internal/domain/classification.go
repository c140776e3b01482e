package domain

import (
	"errors"
	"fmt"
)

// Unclassified labels an AQI value that falls outside every range.
const Unclassified = "Unclassified"

var (
	// ErrUnclassifiable is returned by [Classifier.Classify] for values
	// outside all ranges.
	ErrUnclassifiable = errors.New("unclassifiable aqi value")

	// ErrInvalidRanges is returned when a range table is empty, inverted,
	// overlapping, or has gaps.
	ErrInvalidRanges = errors.New("invalid classification ranges")
)

// ClassificationRange maps the half-open interval [Lower, Upper) to Label.
type ClassificationRange struct {
	Lower int    `json:"lower"`
	Upper int    `json:"upper"`
	Label string `json:"label"`
}

// Contains reports whether aqi lies in [Lower, Upper).
func (r ClassificationRange) Contains(aqi float64) bool {
	return aqi >= float64(r.Lower) && aqi < float64(r.Upper)
}

// Classifier resolves AQI values to labels. It is immutable once built.
type Classifier struct {
	ranges []ClassificationRange
}

// NewClassifier validates ranges and returns a Classifier over a copy of them.
func NewClassifier(ranges []ClassificationRange) (*Classifier, error) {
	if err := ValidateRanges(ranges); err != nil {
		return nil, err
	}
	cp := make([]ClassificationRange, len(ranges))
	copy(cp, ranges)
	return &Classifier{ranges: cp}, nil
}

// ValidateRanges checks that ranges are non-empty, each has Lower < Upper,
// and that consecutive ranges meet exactly (no overlap, no gap).
func ValidateRanges(ranges []ClassificationRange) error {
	if len(ranges) == 0 {
		return fmt.Errorf("%w: no ranges", ErrInvalidRanges)
	}
	for i, r := range ranges {
		if r.Lower >= r.Upper {
			return fmt.Errorf("%w: range %d %q has lower %d >= upper %d", ErrInvalidRanges, i, r.Label, r.Lower, r.Upper)
		}
		if i == 0 {
			continue
		}
		prev := ranges[i-1]
		switch {
		case r.Lower < prev.Upper:
			return fmt.Errorf("%w: %q [%d,%d) overlaps %q [%d,%d)", ErrInvalidRanges,
				r.Label, r.Lower, r.Upper, prev.Label, prev.Lower, prev.Upper)
		case r.Lower > prev.Upper:
			return fmt.Errorf("%w: gap [%d,%d) between %q and %q", ErrInvalidRanges,
				prev.Upper, r.Lower, prev.Label, r.Label)
		}
	}
	return nil
}

// Classify returns the label of the first range containing aqi. Values
// outside every range return [Unclassified] and an error wrapping
// [ErrUnclassifiable].
func (c *Classifier) Classify(aqi float64) (string, error) {
	for _, r := range c.ranges {
		if r.Contains(aqi) {
			return r.Label, nil
		}
	}
	return Unclassified, fmt.Errorf("%w: %g", ErrUnclassifiable, aqi)
}

// Label is Classify without the error, for display paths.
func (c *Classifier) Label(aqi float64) string {
	label, _ := c.Classify(aqi)
	return label
}

// Ranges returns a copy of the range table.
func (c *Classifier) Ranges() []ClassificationRange {
	cp := make([]ClassificationRange, len(c.ranges))
	copy(cp, c.ranges)
	return cp
}
