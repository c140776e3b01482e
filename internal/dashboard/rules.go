package dashboard

import (
	"github.com/couchcryptid/aqi-dashboard/internal/dataset"
	"github.com/couchcryptid/aqi-dashboard/internal/domain"
)

// UI targets written by the default rules.
const (
	TargetCountyOptions    = "county_select.options"
	TargetMapStyle         = "Choropleth-graph.style"
	TargetTrendStyle       = "Pollutants-by-county.style"
	TargetSubSelectorStyle = "div-for-pollutant-state.style"
	TargetTrendFigure      = "Pollutants-by-county.figure"
	TargetMapFigure        = "state-graph.figure"
)

// Style is a CSS display toggle.
type Style struct {
	Display string `json:"display"`
}

var (
	visible = Style{Display: "block"}
	hidden  = Style{Display: "none"}
)

func visibleIf(ok bool) Style {
	if ok {
		return visible
	}
	return hidden
}

// Option is one dropdown entry.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// DefaultRules returns the dashboard's rule table in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:   "county_options",
			Target: TargetCountyOptions,
			Inputs: domain.Fields(domain.FieldState),
			Eval:   countyOptions,
		},
		{
			Name:   "map_visibility",
			Target: TargetMapStyle,
			Inputs: domain.Fields(domain.FieldState),
			Eval: func(_ Env, sel domain.Selection) (any, error) {
				return visibleIf(sel.State != ""), nil
			},
		},
		{
			Name:   "trend_visibility",
			Target: TargetTrendStyle,
			Inputs: domain.Fields(domain.FieldCounty, domain.FieldPollutant, domain.FieldState),
			Eval: func(_ Env, sel domain.Selection) (any, error) {
				return visibleIf(sel.TrendReady()), nil
			},
		},
		{
			Name:   "sub_selector_visibility",
			Target: TargetSubSelectorStyle,
			Inputs: domain.Fields(domain.FieldState),
			Eval: func(_ Env, sel domain.Selection) (any, error) {
				return visibleIf(!sel.Nationwide()), nil
			},
		},
		{
			Name:   "trend_chart",
			Target: TargetTrendFigure,
			Inputs: domain.Fields(domain.FieldState, domain.FieldCounty, domain.FieldPollutant),
			Eval:   trendChart,
		},
		{
			Name:   "choropleth",
			Target: TargetMapFigure,
			Inputs: domain.Fields(domain.FieldState, domain.FieldYear),
			Eval:   choropleth,
		},
	}
}

// CountyOptions lists the counties of state as dropdown options.
func CountyOptions(ds *dataset.Dataset, state string) []Option {
	counties := ds.Counties(state)
	out := make([]Option, len(counties))
	for i, c := range counties {
		out[i] = Option{Label: c, Value: c}
	}
	return out
}

func countyOptions(env Env, sel domain.Selection) (any, error) {
	return CountyOptions(env.Data, sel.State), nil
}

func trendChart(env Env, sel domain.Selection) (any, error) {
	points := dataset.MeanByYearParameter(env.Data.CountyEvents(sel.State, sel.County))
	points = dataset.FilterGroup(points, sel.Pollutant)
	return env.Figures.BuildTrend(points, sel.County), nil
}

func choropleth(env Env, sel domain.Selection) (any, error) {
	var records []domain.CountyYearRecord
	if sel.State != "" && (env.Nationwide || !sel.Nationwide()) {
		records = env.Data.CountyYear(sel.State, sel.Year)
	}
	regions, unclassified := dataset.MeanByCounty(records, env.Data.Classifier())
	if unclassified > 0 && env.Metrics != nil {
		env.Metrics.UnclassifiedValues.Add(float64(unclassified))
	}
	return env.Figures.BuildChoropleth(regions, sel.State, sel.Year), nil
}
