package chart

import (
	"testing"
	"time"

	"github.com/couchcryptid/aqi-dashboard/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testBuilder() *Builder {
	return NewBuilder(clockwork.NewFakeClockAt(fixedNow))
}

func TestBuildTrend(t *testing.T) {
	points := []domain.ParameterPoint{
		{Year: 2000, Parameter: "PM2.5", AQI: 50},
		{Year: 2000, Parameter: "PM10", AQI: 20},
		{Year: 2001, Parameter: "PM2.5", AQI: 52},
		{Year: 2002, Parameter: "PM10", AQI: 24},
		{Year: 2002, Parameter: "PM2.5", AQI: 54},
	}

	fig := testBuilder().BuildTrend(points, "Fresno")

	assert.Equal(t, "Fresno County Pollutant Air Quality", fig.Title)
	assert.Equal(t, Template, fig.Template)
	assert.Equal(t, "year", fig.XAxis)
	assert.Equal(t, "AQI", fig.YAxis)
	assert.Equal(t, fixedNow, fig.GeneratedAt)
	assert.False(t, fig.Empty())

	require.Len(t, fig.Series, 2)
	assert.Equal(t, "PM2.5", fig.Series[0].Parameter)
	assert.Equal(t, "PM10", fig.Series[1].Parameter)

	want := []XY{{2000, 50}, {2001, 52}, {2002, 54}}
	if diff := cmp.Diff(want, fig.Series[0].Points); diff != "" {
		t.Fatalf("PM2.5 points mismatch (-want +got):\n%s", diff)
	}
	for _, s := range fig.Series {
		require.Len(t, s.Trend, len(s.Points))
		for i := range s.Points {
			assert.Equal(t, s.Points[i].X, s.Trend[i].X)
			assert.InDelta(t, s.Points[i].Y, s.Trend[i].Y, 1e-6)
		}
	}
}

func TestBuildTrend_Empty(t *testing.T) {
	fig := testBuilder().BuildTrend(nil, "Harris")
	assert.True(t, fig.Empty())
	assert.NotNil(t, fig.Series)
	assert.Equal(t, "Harris County Pollutant Air Quality", fig.Title)
}

func TestBuildChoropleth(t *testing.T) {
	regions := []domain.CountyAQI{
		{Year: 2010, FIPS: "48201", State: "TX", County: "Harris", AQI: 42, Classification: "Good"},
	}

	fig := testBuilder().BuildChoropleth(regions, "TX", 2010)

	assert.Equal(t, "TX Air Quality Index by County: 2010", fig.Title)
	assert.Equal(t, "plotly_dark", fig.Template)
	assert.Equal(t, "usa", fig.Scope)
	assert.Equal(t, "Oranges", fig.ColorScale)
	assert.Equal(t, [2]float64{0, 60}, fig.ColorRange)
	assert.Equal(t, "id", fig.FeatureIDKey)
	assert.Equal(t, []string{"classification"}, fig.HoverData)
	assert.Equal(t, regions, fig.Regions)
	assert.Equal(t, fixedNow, fig.GeneratedAt)
}

func TestBuildChoropleth_Empty(t *testing.T) {
	fig := testBuilder().BuildChoropleth(nil, "WY", 1980)
	assert.NotNil(t, fig.Regions)
	assert.Empty(t, fig.Regions)
}

func TestNewBuilder_NilClock(t *testing.T) {
	fig := NewBuilder(nil).BuildChoropleth(nil, "CA", 2000)
	assert.False(t, fig.GeneratedAt.IsZero())
}
