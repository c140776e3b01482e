package dataset

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/couchcryptid/aqi-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPaths() Paths {
	return Paths{
		Summary:         filepath.Join("testdata", "by_county_epa_df.csv"),
		Events:          filepath.Join("testdata", "epa_df_counties.csv"),
		Classifications: filepath.Join("testdata", "aqi_table_classifications.csv"),
	}
}

func TestLoad_Testdata(t *testing.T) {
	ds, err := Load(testPaths())
	require.NoError(t, err)

	assert.Equal(t, 9, ds.SummaryRows())
	assert.Equal(t, 7, ds.EventRows())
	assert.Equal(t, []string{"AL", "CA", "TX"}, ds.States())

	lo, hi := ds.YearRange()
	assert.Equal(t, 2009, lo)
	assert.Equal(t, 2010, hi)

	label, err := ds.Classifier().Classify(51)
	require.NoError(t, err)
	assert.Equal(t, "Moderate", label)
}

func TestLoad_MissingFile(t *testing.T) {
	paths := testPaths()
	paths.Events = filepath.Join("testdata", "does-not-exist.csv")

	_, err := Load(paths)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open dataset file")
}

func TestReadSummary_PadsFIPS(t *testing.T) {
	data := ",state_abv,county_name,fips,year,AQI\n" +
		"0,AL,Autauga,1001,2000,42.5\n" +
		"1,AL,Autauga,1001.0,2001,40\n" +
		"2,CA,Alameda,06001,2000,50\n"

	rows, err := ReadSummary(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "01001", rows[0].FIPS)
	assert.Equal(t, "01001", rows[1].FIPS)
	assert.Equal(t, "06001", rows[2].FIPS)
	assert.Equal(t, domain.CountyYearRecord{State: "AL", County: "Autauga", FIPS: "01001", Year: 2000, AQI: 42.5}, rows[0])
	for _, r := range rows {
		assert.Len(t, r.FIPS, 5)
	}
}

func TestReadSummary_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		errMsg string
	}{
		{"missing column", "state_abv,county_name,year,AQI\nAL,Autauga,2000,1\n", `missing column "fips"`},
		{"bad fips", "state_abv,county_name,fips,year,AQI\nAL,Autauga,x1,2000,1\n", "line 2"},
		{"bad year", "state_abv,county_name,fips,year,AQI\nAL,Autauga,1001,20x0,1\n", "year"},
		{"bad aqi", "state_abv,county_name,fips,year,AQI\nAL,Autauga,1001,2000,high\n", "AQI"},
		{"nan aqi", "state_abv,county_name,fips,year,AQI\nAL,Autauga,1001,2000,NaN\n", "not a finite number"},
		{"inf aqi", "state_abv,county_name,fips,year,AQI\nAL,Autauga,1001,2000,+Inf\n", "not a finite number"},
		{"field count", "state_abv,county_name,fips,year,AQI\nAL,Autauga,1001,2000\n", "wrong number of fields"},
		{"empty", "", "read header"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSummary(strings.NewReader(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformed)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestReadEvents(t *testing.T) {
	data := "state_abv,county_name,parameter_name,year,AQI\n" +
		"CA,Fresno,PM2.5,2009,60\n" +
		"CA,Fresno,O3 1-hr,2009.0,71.5\n"

	rows, err := ReadEvents(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "O3 1-hr", rows[1].Parameter)
	assert.Equal(t, 2009, rows[1].Year)
	assert.Equal(t, 71.5, rows[1].AQI)
}

func TestReadEvents_NonFiniteAQI(t *testing.T) {
	for _, v := range []string{"NaN", "Inf", "-Inf", "infinity"} {
		t.Run(v, func(t *testing.T) {
			data := "state_abv,county_name,parameter_name,year,AQI\n" +
				"CA,Fresno,PM2.5,2009,60\n" +
				"CA,Fresno,PM10,2009," + v + "\n"

			_, err := ReadEvents(strings.NewReader(data))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformed)
			assert.Contains(t, err.Error(), "line 3")
		})
	}
}

func TestReadFile_PrefixesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.csv")
	writeFile(t, path, "state_abv,county_name,fips,year,AQI\nAL,Autauga,1001,2000,NaN\n")

	_, err := ReadFile(path, ReadSummary)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), path)
}

func TestReadClassifications(t *testing.T) {
	t.Run("skips sub-header and uses last three columns", func(t *testing.T) {
		data := "Pollutant,AQI,AQI,AQI Classification\n" +
			"Range,Low,High,\n" +
			"a,0,50,Good\n" +
			"b,50,100,Moderate\n"

		ranges, err := ReadClassifications(strings.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, []domain.ClassificationRange{
			{Lower: 0, Upper: 50, Label: "Good"},
			{Lower: 50, Upper: 100, Label: "Moderate"},
		}, ranges)
	})

	t.Run("numeric first row is data", func(t *testing.T) {
		data := "AQI,AQI,AQI Classification\n0,50,Good\n"
		ranges, err := ReadClassifications(strings.NewReader(data))
		require.NoError(t, err)
		require.Len(t, ranges, 1)
	})

	t.Run("non-integer bound after first row", func(t *testing.T) {
		data := "AQI,AQI,AQI Classification\n0,50,Good\nfifty,100,Moderate\n"
		_, err := ReadClassifications(strings.NewReader(data))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformed)
		assert.Contains(t, err.Error(), "line 3")
	})

	t.Run("too few columns", func(t *testing.T) {
		_, err := ReadClassifications(strings.NewReader("AQI,Label\n0,Good\n"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("no rows", func(t *testing.T) {
		_, err := ReadClassifications(strings.NewReader("AQI,AQI,AQI Classification\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no classification rows")
	})
}

func TestLoad_RejectsGappedRanges(t *testing.T) {
	dir := t.TempDir()
	paths := testPaths()
	paths.Classifications = filepath.Join(dir, "ranges.csv")
	writeFile(t, paths.Classifications, "AQI,AQI,AQI Classification\n0,50,Good\n51,100,Moderate\n")

	_, err := Load(paths)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidRanges)
}
