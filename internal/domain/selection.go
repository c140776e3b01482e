package domain

import (
	"fmt"
	"strings"
)

// NationwideState is the state sentinel selecting the all-counties view.
const NationwideState = "USA"

// Field names one selectable control.
type Field string

const (
	FieldState     Field = "state"
	FieldCounty    Field = "county"
	FieldPollutant Field = "pollutant"
	FieldYear      Field = "year"
)

var fieldBits = map[Field]FieldSet{
	FieldState:     1 << 0,
	FieldCounty:    1 << 1,
	FieldPollutant: 1 << 2,
	FieldYear:      1 << 3,
}

// allFields is the declaration order used when listing a FieldSet.
var allFields = []Field{FieldState, FieldCounty, FieldPollutant, FieldYear}

// ParseField validates a field name.
func ParseField(s string) (Field, error) {
	f := Field(s)
	if _, ok := fieldBits[f]; !ok {
		return "", fmt.Errorf("unknown field %q", s)
	}
	return f, nil
}

// FieldSet is a set of Fields.
type FieldSet uint8

// Fields builds a set from the given fields.
func Fields(fs ...Field) FieldSet {
	var s FieldSet
	for _, f := range fs {
		s |= fieldBits[f]
	}
	return s
}

// AllFields is the set of every field.
func AllFields() FieldSet {
	return Fields(allFields...)
}

// Has reports whether f is in the set.
func (s FieldSet) Has(f Field) bool {
	bit, ok := fieldBits[f]
	return ok && s&bit != 0
}

// Intersects reports whether the sets share a field.
func (s FieldSet) Intersects(other FieldSet) bool {
	return s&other != 0
}

// List returns the fields in declaration order.
func (s FieldSet) List() []Field {
	var out []Field
	for _, f := range allFields {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

func (s FieldSet) String() string {
	names := make([]string, 0, len(allFields))
	for _, f := range s.List() {
		names = append(names, string(f))
	}
	return "{" + strings.Join(names, ",") + "}"
}

// Selection is the set of values currently chosen in one dashboard session.
// Empty strings mean "nothing selected".
type Selection struct {
	State     string         `json:"state,omitempty"`
	County    string         `json:"county,omitempty"`
	Pollutant PollutantGroup `json:"pollutant,omitempty"`
	Year      int            `json:"year"`
}

// Nationwide reports whether the USA sentinel is selected.
func (s Selection) Nationwide() bool {
	return s.State == NationwideState
}

// TrendReady reports whether the trend chart has everything it needs. The
// nationwide view has no county sub-selection.
func (s Selection) TrendReady() bool {
	return s.State != "" && !s.Nationwide() && s.County != "" && s.Pollutant != PollutantNone
}
