package dashboard

import (
	"strconv"

	"github.com/couchcryptid/aqi-dashboard/internal/dataset"
	"github.com/couchcryptid/aqi-dashboard/internal/domain"
)

// Slider describes the year slider.
type Slider struct {
	Min     int            `json:"min"`
	Max     int            `json:"max"`
	Default int            `json:"default"`
	Marks   map[string]int `json:"marks"`
}

// Controls is the static description of the dashboard's selectors.
type Controls struct {
	States     []Option `json:"states"`
	Pollutants []Option `json:"pollutants"`
	Year       Slider   `json:"year"`
}

// NewControls describes the selectors for ds. The nationwide option is
// listed first when enabled.
func NewControls(ds *dataset.Dataset, baselineYear int, nationwide bool) Controls {
	states := ds.States()
	opts := make([]Option, 0, len(states)+1)
	if nationwide {
		opts = append(opts, Option{Label: domain.NationwideState, Value: domain.NationwideState})
	}
	for _, s := range states {
		opts = append(opts, Option{Label: s, Value: s})
	}

	groups := domain.PollutantGroups()
	pollutants := make([]Option, len(groups))
	for i, g := range groups {
		pollutants[i] = Option{Label: g.Label(), Value: string(g)}
	}

	lo, hi := ds.YearRange()
	marks := make(map[string]int, hi-lo+1)
	for y := lo; y <= hi; y++ {
		marks[strconv.Itoa(y)] = y
	}

	return Controls{
		States:     opts,
		Pollutants: pollutants,
		Year: Slider{
			Min:     lo,
			Max:     hi,
			Default: BaselineYear(ds, baselineYear),
			Marks:   marks,
		},
	}
}

// BaselineYear clamps the configured default year into the summary's year
// range.
func BaselineYear(ds *dataset.Dataset, year int) int {
	lo, hi := ds.YearRange()
	return max(lo, min(year, hi))
}
