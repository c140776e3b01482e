// Package chart builds declarative figure descriptions for the dashboard's
// two chart outputs. Drawing is left to the consumer of the figure.
package chart

import (
	"time"

	"github.com/couchcryptid/aqi-dashboard/internal/domain"
)

// Presentation constants shared by every figure.
const (
	Template       = "plotly_dark"
	ColorScale     = "Oranges"
	Scope          = "usa"
	FeatureIDKey   = "id"
	ColorRangeLow  = 0
	ColorRangeHigh = 60
)

// XY is one plotted point.
type XY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TrendSeries is the scatter of one parameter and its LOWESS overlay. Trend
// is aligned with Points.
type TrendSeries struct {
	Parameter string `json:"parameter"`
	Points    []XY   `json:"points"`
	Trend     []XY   `json:"trend"`
}

// TrendFigure is the county pollutant time series chart.
type TrendFigure struct {
	Title       string        `json:"title"`
	Template    string        `json:"template"`
	XAxis       string        `json:"x_axis"`
	YAxis       string        `json:"y_axis"`
	Series      []TrendSeries `json:"series"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// Empty reports whether the figure has nothing to plot.
func (f TrendFigure) Empty() bool {
	return len(f.Series) == 0
}

// ChoroplethFigure is the county map colored by mean AQI. Regions are
// matched to boundary features by FIPS through FeatureIDKey.
type ChoroplethFigure struct {
	Title        string             `json:"title"`
	Template     string             `json:"template"`
	Scope        string             `json:"scope"`
	ColorScale   string             `json:"color_scale"`
	ColorRange   [2]float64         `json:"color_range"`
	FeatureIDKey string             `json:"feature_id_key"`
	HoverName    string             `json:"hover_name"`
	HoverData    []string           `json:"hover_data"`
	Regions      []domain.CountyAQI `json:"regions"`
	GeneratedAt  time.Time          `json:"generated_at"`
}
