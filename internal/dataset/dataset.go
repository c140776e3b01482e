// Package dataset holds the immutable AQI tables loaded at startup and the
// filter and aggregate queries the dashboard runs against them.
package dataset

import (
	"errors"
	"sort"

	"github.com/couchcryptid/aqi-dashboard/internal/domain"
)

// Dataset is the read-only context every update rule runs against. It is
// built once and never mutated, so it is safe for concurrent use.
type Dataset struct {
	summary    []domain.CountyYearRecord
	events     []domain.CountyPollutantEvent
	classifier *domain.Classifier

	states    []string
	stateFIPS map[string]string
	minYear   int
	maxYear   int
}

// New builds a Dataset and its derived indexes. The summary table must be
// non-empty because it drives the state list and the year slider.
func New(summary []domain.CountyYearRecord, events []domain.CountyPollutantEvent, classifier *domain.Classifier) (*Dataset, error) {
	if len(summary) == 0 {
		return nil, errors.New("summary table is empty")
	}
	if classifier == nil {
		return nil, errors.New("classifier is required")
	}

	ds := &Dataset{
		summary:    summary,
		events:     events,
		classifier: classifier,
		stateFIPS:  make(map[string]string),
		minYear:    summary[0].Year,
		maxYear:    summary[0].Year,
	}

	for _, r := range summary {
		if _, ok := ds.stateFIPS[r.State]; !ok {
			ds.stateFIPS[r.State] = domain.StatePrefix(r.FIPS)
			ds.states = append(ds.states, r.State)
		}
		ds.minYear = min(ds.minYear, r.Year)
		ds.maxYear = max(ds.maxYear, r.Year)
	}
	sort.Strings(ds.states)

	return ds, nil
}

// Classifier returns the AQI classification table.
func (d *Dataset) Classifier() *domain.Classifier { return d.classifier }

// SummaryRows is the number of county-year records.
func (d *Dataset) SummaryRows() int { return len(d.summary) }

// EventRows is the number of pollutant events.
func (d *Dataset) EventRows() int { return len(d.events) }

// States returns the sorted distinct state codes.
func (d *Dataset) States() []string {
	out := make([]string, len(d.states))
	copy(out, d.states)
	return out
}

// HasState reports whether state appears in the summary table.
func (d *Dataset) HasState(state string) bool {
	_, ok := d.stateFIPS[state]
	return ok
}

// StatePrefix returns the 2-digit FIPS prefix of a state's counties.
func (d *Dataset) StatePrefix(state string) (string, bool) {
	p, ok := d.stateFIPS[state]
	return p, ok && p != ""
}

// YearRange returns the smallest and largest summary year.
func (d *Dataset) YearRange() (int, int) {
	return d.minYear, d.maxYear
}

// Counties returns the sorted distinct county names of a state. The
// nationwide sentinel and unknown states yield an empty list.
func (d *Dataset) Counties(state string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	if state == domain.NationwideState {
		return out
	}
	for _, r := range d.summary {
		if r.State != state {
			continue
		}
		if _, ok := seen[r.County]; ok {
			continue
		}
		seen[r.County] = struct{}{}
		out = append(out, r.County)
	}
	sort.Strings(out)
	return out
}

// CountyYear returns the summary rows of a state in a year. The nationwide
// sentinel matches every state.
func (d *Dataset) CountyYear(state string, year int) []domain.CountyYearRecord {
	var out []domain.CountyYearRecord
	for _, r := range d.summary {
		if r.Year != year {
			continue
		}
		if state != domain.NationwideState && r.State != state {
			continue
		}
		out = append(out, r)
	}
	return out
}

// CountyEvents returns the pollutant events of one county.
func (d *Dataset) CountyEvents(state, county string) []domain.CountyPollutantEvent {
	var out []domain.CountyPollutantEvent
	for _, e := range d.events {
		if e.State == state && e.County == county {
			out = append(out, e)
		}
	}
	return out
}
