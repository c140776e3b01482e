package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/aqi-dashboard/internal/domain"
)

// ErrMalformed is wrapped by every loader error caused by file contents
// rather than I/O.
var ErrMalformed = errors.New("malformed dataset file")

// Column names of the summary and event tables.
const (
	colState     = "state_abv"
	colCounty    = "county_name"
	colFIPS      = "fips"
	colYear      = "year"
	colAQI       = "AQI"
	colParameter = "parameter_name"
)

// Paths locates the three source tables.
type Paths struct {
	Summary         string
	Events          string
	Classifications string
}

// Load reads all three tables and builds a Dataset. Any error is a startup
// failure; there is no partial dataset.
func Load(paths Paths) (*Dataset, error) {
	summary, err := ReadFile(paths.Summary, ReadSummary)
	if err != nil {
		return nil, err
	}
	events, err := ReadFile(paths.Events, ReadEvents)
	if err != nil {
		return nil, err
	}
	ranges, err := ReadFile(paths.Classifications, ReadClassifications)
	if err != nil {
		return nil, err
	}

	classifier, err := domain.NewClassifier(ranges)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", paths.Classifications, err)
	}
	return New(summary, events, classifier)
}

// ReadFile opens path and parses it with read, one of the table readers.
// Parse errors are prefixed with the path.
func ReadFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("open dataset file: %w", err)
	}
	defer f.Close()

	v, err := read(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// ReadSummary parses the county-year summary table. FIPS values are
// normalized to 5-character strings.
func ReadSummary(r io.Reader) ([]domain.CountyYearRecord, error) {
	var out []domain.CountyYearRecord
	err := readTable(r, []string{colState, colCounty, colFIPS, colYear, colAQI}, func(line int, row func(string) string) error {
		fips, err := domain.NormalizeFIPS(row(colFIPS))
		if err != nil {
			return malformed(line, err)
		}
		year, err := parseInt(row(colYear))
		if err != nil {
			return malformed(line, fmt.Errorf("year: %w", err))
		}
		aqi, err := parseAQI(row(colAQI))
		if err != nil {
			return malformed(line, err)
		}
		out = append(out, domain.CountyYearRecord{
			State:  row(colState),
			County: row(colCounty),
			FIPS:   fips,
			Year:   year,
			AQI:    aqi,
		})
		return nil
	})
	return out, err
}

// ReadEvents parses the per-measurement detail table.
func ReadEvents(r io.Reader) ([]domain.CountyPollutantEvent, error) {
	var out []domain.CountyPollutantEvent
	err := readTable(r, []string{colState, colCounty, colParameter, colYear, colAQI}, func(line int, row func(string) string) error {
		year, err := parseInt(row(colYear))
		if err != nil {
			return malformed(line, fmt.Errorf("year: %w", err))
		}
		aqi, err := parseAQI(row(colAQI))
		if err != nil {
			return malformed(line, err)
		}
		out = append(out, domain.CountyPollutantEvent{
			State:     row(colState),
			County:    row(colCounty),
			Parameter: row(colParameter),
			Year:      year,
			AQI:       aqi,
		})
		return nil
	})
	return out, err
}

// ReadClassifications parses the AQI breakpoint table. The lower bound,
// upper bound and label are the last three columns; other columns are
// ignored. A sub-header directly below the header (bounds that are not
// integers) is skipped.
func ReadClassifications(r io.Reader) ([]domain.ClassificationRange, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %w", ErrMalformed, err)
	}
	if len(header) < 3 {
		return nil, fmt.Errorf("%w: classification table needs at least 3 columns, got %d", ErrMalformed, len(header))
	}

	var out []domain.ClassificationRange
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		n := len(rec)
		lower, errLo := parseInt(rec[n-3])
		upper, errHi := parseInt(rec[n-2])
		if errLo != nil || errHi != nil {
			if line == 2 {
				continue
			}
			return nil, malformed(line, fmt.Errorf("bounds %q, %q are not integers", rec[n-3], rec[n-2]))
		}
		out = append(out, domain.ClassificationRange{
			Lower: lower,
			Upper: upper,
			Label: strings.TrimSpace(rec[n-1]),
		})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no classification rows", ErrMalformed)
	}
	return out, nil
}

// readTable streams a headed CSV, resolving the required columns by name
// and calling fn for each data row. Unnamed columns (a written-out index)
// and unknown columns are ignored.
func readTable(r io.Reader, required []string, fn func(line int, row func(string) string) error) error {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("%w: read header: %w", ErrMalformed, err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			continue
		}
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	for _, name := range required {
		if _, ok := index[name]; !ok {
			return fmt.Errorf("%w: missing column %q", ErrMalformed, name)
		}
	}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		row := func(name string) string {
			return strings.TrimSpace(rec[index[name]])
		}
		if err := fn(line, row); err != nil {
			return err
		}
	}
}

// parseAQI accepts finite decimal values only; NaN and Inf cannot be
// classified or encoded as JSON.
func parseAQI(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("AQI: %w", err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("AQI: %q is not a finite number", s)
	}
	return v, nil
}

// parseInt accepts integers and integral float renderings ("1997.0").
func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	return int(f), nil
}

func malformed(line int, err error) error {
	return fmt.Errorf("%w: line %d: %w", ErrMalformed, line, err)
}
