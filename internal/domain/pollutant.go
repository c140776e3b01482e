package domain

import (
	"errors"
	"fmt"
)

// PollutantGroup is a coarse bucket of measured parameters.
type PollutantGroup string

const (
	PollutantNone        PollutantGroup = ""
	PollutantParticulate PollutantGroup = "PM"
	PollutantOzone       PollutantGroup = "OZ"
	PollutantGas         PollutantGroup = "Gas"
)

// ErrUnknownPollutant is returned for a group value outside PM, OZ, Gas.
var ErrUnknownPollutant = errors.New("unknown pollutant group")

var (
	pollutantGroups = []PollutantGroup{PollutantParticulate, PollutantOzone, PollutantGas}

	groupParameters = map[PollutantGroup][]string{
		PollutantParticulate: {"PM2.5", "PM10"},
		PollutantOzone:       {"O3 1-hr", "O3 8-hr"},
		PollutantGas:         {"CO", "SO2", "NO2"},
	}

	groupLabels = map[PollutantGroup]string{
		PollutantParticulate: "Particulate Matter",
		PollutantOzone:       "Ozone",
		PollutantGas:         "Other Gasses",
	}
)

// PollutantGroups returns the groups in dropdown order.
func PollutantGroups() []PollutantGroup {
	out := make([]PollutantGroup, len(pollutantGroups))
	copy(out, pollutantGroups)
	return out
}

// ParsePollutantGroup accepts an exact group value or the empty string.
func ParsePollutantGroup(s string) (PollutantGroup, error) {
	g := PollutantGroup(s)
	if g == PollutantNone {
		return g, nil
	}
	if _, ok := groupParameters[g]; !ok {
		return PollutantNone, fmt.Errorf("%w: %q", ErrUnknownPollutant, s)
	}
	return g, nil
}

// Parameters returns the parameter names included in the group.
func (g PollutantGroup) Parameters() []string {
	params := groupParameters[g]
	out := make([]string, len(params))
	copy(out, params)
	return out
}

// Includes reports whether parameter belongs to the group.
func (g PollutantGroup) Includes(parameter string) bool {
	for _, p := range groupParameters[g] {
		if p == parameter {
			return true
		}
	}
	return false
}

// Label is the dropdown display name.
func (g PollutantGroup) Label() string {
	return groupLabels[g]
}
