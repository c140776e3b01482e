package dataset

import (
	"testing"

	"github.com/couchcryptid/aqi-dashboard/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDataset(t *testing.T) *Dataset {
	t.Helper()
	ds, err := Load(testPaths())
	require.NoError(t, err)
	return ds
}

func TestNew_EmptySummary(t *testing.T) {
	_, err := New(nil, nil, testClassifier(t))
	require.Error(t, err)
}

func TestCounties(t *testing.T) {
	ds := testDataset(t)

	t.Run("sorted distinct counties of the state", func(t *testing.T) {
		assert.Equal(t, []string{"Fresno", "Los Angeles"}, ds.Counties("CA"))
		assert.Equal(t, []string{"Baldwin", "Jefferson"}, ds.Counties("AL"))
	})

	t.Run("unknown state", func(t *testing.T) {
		assert.Empty(t, ds.Counties("ZZ"))
		assert.NotNil(t, ds.Counties("ZZ"))
	})

	t.Run("nationwide sentinel", func(t *testing.T) {
		assert.Empty(t, ds.Counties(domain.NationwideState))
	})
}

func TestCountyYear(t *testing.T) {
	ds := testDataset(t)

	rows := ds.CountyYear("TX", 2010)
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.Equal(t, "TX", r.State)
		assert.Equal(t, 2010, r.Year)
	}

	assert.Len(t, ds.CountyYear(domain.NationwideState, 2010), 7)
	assert.Empty(t, ds.CountyYear("TX", 2009))
}

func TestCountyEvents(t *testing.T) {
	ds := testDataset(t)
	assert.Len(t, ds.CountyEvents("CA", "Fresno"), 6)
	assert.Len(t, ds.CountyEvents("TX", "Harris"), 1)
	assert.Empty(t, ds.CountyEvents("TX", "Fresno"))
}

func TestStatePrefix(t *testing.T) {
	ds := testDataset(t)

	p, ok := ds.StatePrefix("AL")
	require.True(t, ok)
	assert.Equal(t, "01", p)

	p, ok = ds.StatePrefix("TX")
	require.True(t, ok)
	assert.Equal(t, "48", p)

	_, ok = ds.StatePrefix("ZZ")
	assert.False(t, ok)
	assert.True(t, ds.HasState("CA"))
	assert.False(t, ds.HasState(domain.NationwideState))
}

func TestStates_ReturnsCopy(t *testing.T) {
	ds := testDataset(t)
	states := ds.States()
	states[0] = "XX"
	assert.Equal(t, "AL", ds.States()[0])
}

func TestMeanByYearParameter(t *testing.T) {
	ds := testDataset(t)
	points := MeanByYearParameter(ds.CountyEvents("CA", "Fresno"))

	want := []domain.ParameterPoint{
		{Year: 2009, Parameter: "CO", AQI: 10},
		{Year: 2009, Parameter: "PM10", AQI: 40},
		{Year: 2009, Parameter: "PM2.5", AQI: 65},
		{Year: 2010, Parameter: "O3 8-hr", AQI: 80},
		{Year: 2010, Parameter: "PM2.5", AQI: 50},
	}
	if diff := cmp.Diff(want, points); diff != "" {
		t.Fatalf("points mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterGroup(t *testing.T) {
	ds := testDataset(t)
	points := MeanByYearParameter(ds.CountyEvents("CA", "Fresno"))

	pm := FilterGroup(points, domain.PollutantParticulate)
	require.Len(t, pm, 3)
	for _, p := range pm {
		assert.Contains(t, []string{"PM2.5", "PM10"}, p.Parameter)
	}

	assert.Len(t, FilterGroup(points, domain.PollutantGas), 1)
	assert.Len(t, FilterGroup(points, domain.PollutantOzone), 1)
	assert.Empty(t, FilterGroup(points, domain.PollutantNone))
	assert.Empty(t, FilterGroup(nil, domain.PollutantGas))
}

func TestMeanByCounty(t *testing.T) {
	ds := testDataset(t)

	regions, unclassified := MeanByCounty(ds.CountyYear("TX", 2010), ds.Classifier())
	assert.Zero(t, unclassified)

	want := []domain.CountyAQI{
		{Year: 2010, FIPS: "48201", State: "TX", County: "Harris", AQI: 42, Classification: "Good"},
		{Year: 2010, FIPS: "48453", State: "TX", County: "Travis", AQI: 30, Classification: "Good"},
	}
	if diff := cmp.Diff(want, regions); diff != "" {
		t.Fatalf("regions mismatch (-want +got):\n%s", diff)
	}
}

func TestMeanByCounty_Unclassified(t *testing.T) {
	records := []domain.CountyYearRecord{
		{State: "AZ", County: "Maricopa", FIPS: "04013", Year: 2000, AQI: 120},
		{State: "AZ", County: "Pima", FIPS: "04019", Year: 2000, AQI: 20},
	}

	regions, unclassified := MeanByCounty(records, testClassifier(t))
	assert.Equal(t, 1, unclassified)
	require.Len(t, regions, 2)
	assert.Equal(t, domain.Unclassified, regions[0].Classification)
	assert.Equal(t, "Good", regions[1].Classification)
}
