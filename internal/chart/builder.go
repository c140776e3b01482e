package chart

import (
	"fmt"

	"github.com/couchcryptid/aqi-dashboard/internal/domain"
	"github.com/jonboulle/clockwork"
)

// LOWESS parameters of the trend overlay.
const (
	TrendFraction   = 2.0 / 3.0
	TrendIterations = 3
)

// Builder turns aggregated rows into figures.
type Builder struct {
	clock clockwork.Clock
}

// NewBuilder returns a Builder stamping figures with c. A nil clock uses
// real time.
func NewBuilder(c clockwork.Clock) *Builder {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	return &Builder{clock: c}
}

// BuildTrend groups points into one series per parameter, in order of first
// appearance, each with a LOWESS overlay.
func (b *Builder) BuildTrend(points []domain.ParameterPoint, county string) TrendFigure {
	index := make(map[string]int)
	series := []TrendSeries{}
	for _, p := range points {
		i, ok := index[p.Parameter]
		if !ok {
			i = len(series)
			index[p.Parameter] = i
			series = append(series, TrendSeries{Parameter: p.Parameter})
		}
		series[i].Points = append(series[i].Points, XY{X: float64(p.Year), Y: p.AQI})
	}

	for i := range series {
		pts := series[i].Points
		xs := make([]float64, len(pts))
		ys := make([]float64, len(pts))
		for j, p := range pts {
			xs[j], ys[j] = p.X, p.Y
		}
		fitted := Lowess(xs, ys, TrendFraction, TrendIterations)
		trend := make([]XY, len(pts))
		for j := range pts {
			trend[j] = XY{X: xs[j], Y: fitted[j]}
		}
		series[i].Trend = trend
	}

	return TrendFigure{
		Title:       fmt.Sprintf("%s County Pollutant Air Quality", county),
		Template:    Template,
		XAxis:       "year",
		YAxis:       "AQI",
		Series:      series,
		GeneratedAt: b.clock.Now().UTC(),
	}
}

// BuildChoropleth wraps classified county regions in a map figure.
func (b *Builder) BuildChoropleth(regions []domain.CountyAQI, state string, year int) ChoroplethFigure {
	if regions == nil {
		regions = []domain.CountyAQI{}
	}
	return ChoroplethFigure{
		Title:        fmt.Sprintf("%s Air Quality Index by County: %d", state, year),
		Template:     Template,
		Scope:        Scope,
		ColorScale:   ColorScale,
		ColorRange:   [2]float64{ColorRangeLow, ColorRangeHigh},
		FeatureIDKey: FeatureIDKey,
		HoverName:    "county",
		HoverData:    []string{"classification"},
		Regions:      regions,
		GeneratedAt:  b.clock.Now().UTC(),
	}
}
