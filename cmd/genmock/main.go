// Command genmock writes a small synthetic copy of the three AQI source
// tables for local development and demos. Output is deterministic for a
// given seed, and the printed stats come from the real classifier so they
// can be pasted into test assertions.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock -from 2000 -to 2021 -seed 7
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/couchcryptid/aqi-dashboard/internal/dataset"
	"github.com/couchcryptid/aqi-dashboard/internal/domain"
)

type county struct {
	state string
	name  string
	fips  int
	base  float64 // typical annual AQI
}

var counties = []county{
	{state: "AL", name: "Jefferson", fips: 1073, base: 42},
	{state: "AL", name: "Mobile", fips: 1097, base: 36},
	{state: "AZ", name: "Maricopa", fips: 4013, base: 58},
	{state: "AZ", name: "Pima", fips: 4019, base: 44},
	{state: "CA", name: "Fresno", fips: 6019, base: 66},
	{state: "CA", name: "Los Angeles", fips: 6037, base: 62},
	{state: "CA", name: "San Francisco", fips: 6075, base: 34},
	{state: "CO", name: "Denver", fips: 8031, base: 46},
	{state: "NY", name: "Kings", fips: 36047, base: 40},
	{state: "NY", name: "New York", fips: 36061, base: 43},
	{state: "TX", name: "Harris", fips: 48201, base: 50},
	{state: "TX", name: "Travis", fips: 48453, base: 38},
}

// parameterShare scales a county's base AQI per measured parameter.
var parameterShare = map[string]float64{
	"PM2.5":   1.0,
	"PM10":    0.6,
	"O3 1-hr": 0.9,
	"O3 8-hr": 1.1,
	"CO":      0.2,
	"SO2":     0.15,
	"NO2":     0.35,
}

var classificationRows = [][]string{
	{"O3 (ppm) 8-hour", "PM2.5 (ug/m3) 24-hour", "AQI", "AQI", "AQI Classification"},
	{"Low - High", "Low - High", "Low", "High", ""},
	{"0.000 - 0.054", "0.0 - 12.0", "0", "51", "Good"},
	{"0.055 - 0.070", "12.1 - 35.4", "51", "101", "Moderate"},
	{"0.071 - 0.085", "35.5 - 55.4", "101", "151", "Unhealthy for Sensitive Groups"},
	{"0.086 - 0.105", "55.5 - 150.4", "151", "201", "Unhealthy"},
	{"0.106 - 0.200", "150.5 - 250.4", "201", "301", "Very Unhealthy"},
	{"", "250.5 - 500.4", "301", "501", "Hazardous"},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out", "", "output directory for the generated CSV tables")
	from := flag.Int("from", 2000, "first year to generate")
	to := flag.Int("to", 2021, "last year to generate")
	seed := flag.Uint64("seed", 1, "random seed")
	samples := flag.Int("samples", 4, "event rows per county, parameter and year")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *to < *from {
		return fmt.Errorf("-to %d is before -from %d", *to, *from)
	}

	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15)) //nolint:gosec // fixture data, not security sensitive
	summary, events := generate(rng, *from, *to, *samples)

	paths := dataset.Paths{
		Summary:         filepath.Join(*outDir, "by_county_epa_df.csv"),
		Events:          filepath.Join(*outDir, "epa_df_counties.csv"),
		Classifications: filepath.Join(*outDir, "aqi_table_classifications.csv"),
	}
	if err := writeCSV(paths.Summary, summaryRows(summary)); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	if err := writeCSV(paths.Events, eventRows(events)); err != nil {
		return fmt.Errorf("writing events: %w", err)
	}
	if err := writeCSV(paths.Classifications, classificationRows); err != nil {
		return fmt.Errorf("writing classifications: %w", err)
	}
	log.Printf("wrote %d summary rows, %d event rows to %s", len(summary), len(events), *outDir)

	// Reload through the real loader so the output is known to be servable.
	ds, err := dataset.Load(paths)
	if err != nil {
		return fmt.Errorf("reloading generated tables: %w", err)
	}
	printStats(ds, summary)
	return nil
}

// generate produces one summary row per county and year, and samples event
// rows per parameter. A slow downward drift plus noise keeps the trend lines
// interesting.
func generate(rng *rand.Rand, from, to, samples int) ([]domain.CountyYearRecord, []domain.CountyPollutantEvent) {
	params := make([]string, 0, len(parameterShare))
	for p := range parameterShare {
		params = append(params, p)
	}
	sort.Strings(params)

	var summary []domain.CountyYearRecord     //nolint:prealloc // size depends on flags
	var events []domain.CountyPollutantEvent //nolint:prealloc // size depends on flags
	for _, c := range counties {
		fips, err := domain.FormatFIPS(c.fips)
		if err != nil {
			panic(err) // static table
		}
		for year := from; year <= to; year++ {
			drift := -0.6 * float64(year-from)
			summary = append(summary, domain.CountyYearRecord{
				State:  c.state,
				County: c.name,
				FIPS:   fips,
				Year:   year,
				AQI:    clampAQI(c.base + drift + rng.NormFloat64()*4),
			})
			for _, p := range params {
				for range samples {
					events = append(events, domain.CountyPollutantEvent{
						State:     c.state,
						County:    c.name,
						Parameter: p,
						Year:      year,
						AQI:       clampAQI((c.base+drift)*parameterShare[p] + rng.NormFloat64()*8),
					})
				}
			}
		}
	}
	return summary, events
}

func clampAQI(v float64) float64 {
	v = math.Round(v*10) / 10
	return math.Min(math.Max(v, 0), 500)
}

func summaryRows(records []domain.CountyYearRecord) [][]string {
	rows := [][]string{{"", "state_abv", "county_name", "fips", "year", "AQI"}}
	for i, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(i), r.State, r.County, r.FIPS, strconv.Itoa(r.Year), formatAQI(r.AQI),
		})
	}
	return rows
}

func eventRows(events []domain.CountyPollutantEvent) [][]string {
	rows := [][]string{{"", "state_abv", "county_name", "parameter_name", "year", "AQI"}}
	for i, e := range events {
		rows = append(rows, []string{
			strconv.Itoa(i), e.State, e.County, e.Parameter, strconv.Itoa(e.Year), formatAQI(e.AQI),
		})
	}
	return rows
}

func formatAQI(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func writeCSV(path string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printStats(ds *dataset.Dataset, summary []domain.CountyYearRecord) {
	minYear, maxYear := ds.YearRange()
	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Summary rows: %d, event rows: %d\n", ds.SummaryRows(), ds.EventRows())
	fmt.Printf("Years: %d-%d\n", minYear, maxYear)
	fmt.Printf("States (%d): %v\n", len(ds.States()), ds.States())

	byLabel := map[string]int{}
	classifier := ds.Classifier()
	for _, r := range summary {
		byLabel[classifier.Label(r.AQI)]++
	}
	fmt.Println("Summary rows by classification:")
	for _, rg := range classifier.Ranges() {
		fmt.Printf("  %-32s %d\n", rg.Label, byLabel[rg.Label])
	}
	if n := byLabel[domain.Unclassified]; n > 0 {
		fmt.Printf("  %-32s %d\n", domain.Unclassified, n)
	}
}
