// Command validate performs an offline integrity check of the three AQI
// source tables: the county-year summary, the per-pollutant event table and
// the classification breakpoints. It verifies row counts, FIPS width, state
// prefix consistency, classification range coverage and that every summary
// AQI value lands in a category.
//
// Usage:
//
//	go run ./cmd/validate -data-dir data
//
//	go run ./cmd/validate \
//	  -summary data/by_county_epa_df.csv \
//	  -events data/epa_df_counties.csv \
//	  -classifications data/aqi_table_classifications.csv
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/couchcryptid/aqi-dashboard/internal/dataset"
	"github.com/couchcryptid/aqi-dashboard/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// tables holds the parsed rows of all three sources.
type tables struct {
	summary []domain.CountyYearRecord
	events  []domain.CountyPollutantEvent
	ranges  []domain.ClassificationRange
}

func main() {
	dataDir := flag.String("data-dir", "", "directory containing the three CSV tables")
	summary := flag.String("summary", "", "path to the county-year summary CSV (overrides -data-dir)")
	events := flag.String("events", "", "path to the per-pollutant event CSV (overrides -data-dir)")
	classifications := flag.String("classifications", "", "path to the AQI classification CSV (overrides -data-dir)")
	flag.Parse()

	paths := resolvePaths(*dataDir, *summary, *events, *classifications)
	if paths.Summary == "" || paths.Events == "" || paths.Classifications == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(os.Stdout, paths); code != 0 {
		os.Exit(code)
	}
}

func resolvePaths(dataDir, summary, events, classifications string) dataset.Paths {
	pick := func(explicit, name string) string {
		if explicit != "" {
			return explicit
		}
		if dataDir == "" {
			return ""
		}
		return filepath.Join(dataDir, name)
	}
	return dataset.Paths{
		Summary:         pick(summary, "by_county_epa_df.csv"),
		Events:          pick(events, "epa_df_counties.csv"),
		Classifications: pick(classifications, "aqi_table_classifications.csv"),
	}
}

func run(out io.Writer, paths dataset.Paths) int {
	fmt.Fprintln(out, "=== AQI Dataset Integrity Validation ===")
	fmt.Fprintln(out)

	t, err := loadTables(paths)
	if err != nil {
		fmt.Fprintf(out, "FATAL: %v\n", err)
		return 1
	}

	// ── Run validation phases ──
	phases := []*phase{
		validateRowCounts(t),
		validateFIPS(t.summary),
		validateRanges(t.ranges),
		validateClassifiable(t.summary, t.ranges),
		validateEvents(t.events, t.summary),
	}

	// ── Report results ──
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Records: %d summary, %d events, %d classification ranges\n",
		len(t.summary), len(t.events), len(t.ranges))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

// ── Data loading ──

func loadTables(paths dataset.Paths) (tables, error) {
	var t tables
	var err error
	if t.summary, err = dataset.ReadFile(paths.Summary, dataset.ReadSummary); err != nil {
		return t, fmt.Errorf("load summary: %w", err)
	}
	if t.events, err = dataset.ReadFile(paths.Events, dataset.ReadEvents); err != nil {
		return t, fmt.Errorf("load events: %w", err)
	}
	if t.ranges, err = dataset.ReadFile(paths.Classifications, dataset.ReadClassifications); err != nil {
		return t, fmt.Errorf("load classifications: %w", err)
	}
	return t, nil
}

// ── Phase 1: Row counts ──

func validateRowCounts(t tables) *phase {
	p := &phase{name: "Phase 1: Row counts"}
	if len(t.summary) == 0 {
		p.errorf("summary table has no rows")
	}
	if len(t.events) == 0 {
		p.errorf("event table has no rows")
	}
	if len(t.ranges) == 0 {
		p.errorf("classification table has no rows")
	}
	return p
}

// ── Phase 2: FIPS width and state prefixes ──

func validateFIPS(summary []domain.CountyYearRecord) *phase {
	p := &phase{name: "Phase 2: FIPS width and state prefixes"}

	prefixes := map[string]map[string]bool{}
	countyFIPS := map[string]string{}
	for i, r := range summary {
		if len(r.FIPS) != 5 {
			p.errorf("summary row %d (%s %s): fips %q is not 5 characters", i, r.State, r.County, r.FIPS)
			continue
		}
		if prefixes[r.State] == nil {
			prefixes[r.State] = map[string]bool{}
		}
		prefixes[r.State][domain.StatePrefix(r.FIPS)] = true

		key := r.State + ":" + r.County
		if prev, ok := countyFIPS[key]; ok && prev != r.FIPS {
			p.errorf("county %s has fips %s and %s", key, prev, r.FIPS)
		}
		countyFIPS[key] = r.FIPS
	}

	for _, state := range sortedKeys(prefixes) {
		if n := len(prefixes[state]); n > 1 {
			p.errorf("state %s spans %d fips prefixes: %v", state, n, sortedKeys(prefixes[state]))
		}
	}
	return p
}

// ── Phase 3: Classification ranges ──

func validateRanges(ranges []domain.ClassificationRange) *phase {
	p := &phase{name: "Phase 3: Classification ranges"}
	if err := domain.ValidateRanges(ranges); err != nil {
		p.errorf("%v", err)
		if lo, hi, ok := inclusiveBounds(ranges); ok {
			p.errorf("hint: upper bounds are exclusive; %d follows %d, so the table looks like the published inclusive one (0-50, 51-100). Use %d as the upper bound instead", lo, hi, lo)
		}
	}
	return p
}

// inclusiveBounds finds the first pair of adjacent ranges separated by
// exactly one, the shape of a table copied with inclusive upper bounds.
func inclusiveBounds(ranges []domain.ClassificationRange) (int, int, bool) {
	sorted := slices.Clone(ranges)
	slices.SortFunc(sorted, func(a, b domain.ClassificationRange) int { return a.Lower - b.Lower })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Lower == sorted[i-1].Upper+1 {
			return sorted[i].Lower, sorted[i-1].Upper, true
		}
	}
	return 0, 0, false
}

// ── Phase 4: Summary AQI classifiable ──

func validateClassifiable(summary []domain.CountyYearRecord, ranges []domain.ClassificationRange) *phase {
	p := &phase{name: "Phase 4: Summary AQI classifiable"}
	classifier, err := domain.NewClassifier(ranges)
	if err != nil {
		p.errorf("classifier unavailable: %v", err)
		return p
	}
	for i, r := range summary {
		if _, err := classifier.Classify(r.AQI); err != nil {
			p.errorf("summary row %d (%s %s %d): %v", i, r.State, r.County, r.Year, err)
		}
	}
	return p
}

// ── Phase 5: Event cross-reference ──

func validateEvents(events []domain.CountyPollutantEvent, summary []domain.CountyYearRecord) *phase {
	p := &phase{name: "Phase 5: Event cross-reference"}

	states := map[string]bool{}
	for _, r := range summary {
		states[r.State] = true
	}

	unknownParams := map[string]int{}
	for i, e := range events {
		if !states[e.State] {
			p.errorf("event row %d: state %q absent from summary", i, e.State)
		}
		if !knownParameter(e.Parameter) {
			unknownParams[e.Parameter]++
		}
	}
	for _, param := range sortedKeys(unknownParams) {
		p.errorf("parameter %q (%d rows) belongs to no pollutant group", param, unknownParams[param])
	}
	return p
}

func knownParameter(param string) bool {
	for _, g := range domain.PollutantGroups() {
		if g.Includes(param) {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
