package dashboard

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/couchcryptid/aqi-dashboard/internal/chart"
	"github.com/couchcryptid/aqi-dashboard/internal/dataset"
	"github.com/couchcryptid/aqi-dashboard/internal/domain"
	"github.com/couchcryptid/aqi-dashboard/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	classifier, err := domain.NewClassifier([]domain.ClassificationRange{
		{Lower: 0, Upper: 51, Label: "Good"},
		{Lower: 51, Upper: 101, Label: "Moderate"},
		{Lower: 101, Upper: 151, Label: "Unhealthy for Sensitive Groups"},
	})
	require.NoError(t, err)

	summary := []domain.CountyYearRecord{
		{State: "CA", County: "Los Angeles", FIPS: "06037", Year: 1997, AQI: 70},
		{State: "CA", County: "Los Angeles", FIPS: "06037", Year: 1998, AQI: 64},
		{State: "CA", County: "Fresno", FIPS: "06019", Year: 1997, AQI: 58},
		{State: "CA", County: "Fresno", FIPS: "06019", Year: 1997, AQI: 62},
		{State: "CA", County: "Alameda", FIPS: "06001", Year: 1998, AQI: 40},
		{State: "TX", County: "Harris", FIPS: "48201", Year: 1997, AQI: 48},
		{State: "TX", County: "Travis", FIPS: "48453", Year: 1999, AQI: 200},
	}
	events := []domain.CountyPollutantEvent{
		{State: "CA", County: "Fresno", Parameter: "PM2.5", Year: 1997, AQI: 60},
		{State: "CA", County: "Fresno", Parameter: "PM2.5", Year: 1998, AQI: 62},
		{State: "CA", County: "Fresno", Parameter: "PM10", Year: 1997, AQI: 30},
		{State: "CA", County: "Fresno", Parameter: "PM10", Year: 1999, AQI: 34},
		{State: "CA", County: "Fresno", Parameter: "O3 8-hr", Year: 1998, AQI: 75},
		{State: "CA", County: "Fresno", Parameter: "NO2", Year: 1999, AQI: 20},
		{State: "TX", County: "Harris", Parameter: "PM2.5", Year: 1997, AQI: 41},
	}

	ds, err := dataset.New(summary, events, classifier)
	require.NoError(t, err)
	return ds
}

func testEnv(t *testing.T) Env {
	t.Helper()
	return Env{
		Data:       testDataset(t),
		Figures:    chart.NewBuilder(clockwork.NewFakeClockAt(testNow)),
		Metrics:    observability.NewMetricsForTesting(),
		Nationwide: true,
	}
}

// recordingRecorder captures selection events.
type recordingRecorder struct {
	mu     sync.Mutex
	events []domain.SelectionEvent
	err    error
}

func (r *recordingRecorder) Record(_ context.Context, ev domain.SelectionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *recordingRecorder) Events() []domain.SelectionEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.SelectionEvent, len(r.events))
	copy(out, r.events)
	return out
}
