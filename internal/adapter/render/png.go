// Package render draws trend figures to PNG with go-chart.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"math"

	"github.com/couchcryptid/aqi-dashboard/internal/chart"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Default canvas size.
const (
	DefaultWidth  = 900
	DefaultHeight = 300
)

var (
	background = drawing.Color{R: 17, G: 17, B: 17, A: 255}
	foreground = drawing.Color{R: 242, G: 245, B: 250, A: 255}

	// Series colors, cycled in series order.
	palette = []drawing.Color{
		drawing.ColorFromHex("636efa"),
		drawing.ColorFromHex("ef553b"),
		drawing.ColorFromHex("00cc96"),
		drawing.ColorFromHex("ab63fa"),
		drawing.ColorFromHex("ffa15a"),
		drawing.ColorFromHex("19d3f3"),
		drawing.ColorFromHex("ff6692"),
	}
)

// PNGRenderer draws TrendFigures.
type PNGRenderer struct {
	width  int
	height int
	logger *slog.Logger
}

// NewPNGRenderer returns a renderer producing width x height images. Zero
// dimensions use the defaults.
func NewPNGRenderer(width, height int, logger *slog.Logger) *PNGRenderer {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &PNGRenderer{width: width, height: height, logger: logger}
}

// RenderTrend encodes fig as a PNG. Each series is drawn as points with its
// LOWESS trend as a line. An empty figure, or one go-chart cannot draw,
// yields a blank image of the same size.
func (r *PNGRenderer) RenderTrend(fig chart.TrendFigure) ([]byte, error) {
	series := trendSeries(fig)
	if len(series) == 0 {
		return r.blank()
	}

	xr, yr := axisRanges(fig)
	ch := gochart.Chart{
		Title:      fig.Title,
		TitleStyle: gochart.Style{FontColor: foreground},
		Width:      r.width,
		Height:     r.height,
		Background: gochart.Style{
			FillColor: background,
			Padding:   gochart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16},
		},
		Canvas: gochart.Style{FillColor: background},
		XAxis: gochart.XAxis{
			Name:           fig.XAxis,
			NameStyle:      gochart.Style{FontColor: foreground},
			Style:          gochart.Style{FontColor: foreground, StrokeColor: foreground},
			Range:          xr,
			ValueFormatter: yearFormatter,
		},
		YAxis: gochart.YAxis{
			Name:      fig.YAxis,
			NameStyle: gochart.Style{FontColor: foreground},
			Style:     gochart.Style{FontColor: foreground, StrokeColor: foreground},
			Range:     yr,
		},
		Series: series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(gochart.PNG, &buf); err != nil {
		r.logger.Warn("trend render failed, returning blank image", "title", fig.Title, "error", err)
		return r.blank()
	}
	return buf.Bytes(), nil
}

func trendSeries(fig chart.TrendFigure) []gochart.Series {
	var out []gochart.Series
	for i, s := range fig.Series {
		if len(s.Points) == 0 {
			continue
		}
		col := palette[i%len(palette)]

		xs, ys := split(s.Points)
		// go-chart needs at least two x values to draw a series.
		if len(xs) == 1 {
			xs = append(xs, xs[0])
			ys = append(ys, ys[0])
		}
		out = append(out, gochart.ContinuousSeries{
			Name:    s.Parameter,
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(col),
		})

		if len(s.Trend) >= 2 {
			tx, ty := split(s.Trend)
			out = append(out, gochart.ContinuousSeries{
				Name:    s.Parameter + " trend",
				XValues: tx,
				YValues: ty,
				Style:   gochart.Style{StrokeColor: col, StrokeWidth: 2},
			})
		}
	}
	return out
}

// pointStyle renders points only, with no connecting line.
func pointStyle(col drawing.Color) gochart.Style {
	return gochart.Style{
		StrokeWidth: gochart.Disabled,
		DotWidth:    4,
		DotColor:    col,
	}
}

func split(points []chart.XY) ([]float64, []float64) {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}
	return xs, ys
}

// axisRanges pads the x range by half a year on each side and starts the
// y range at zero, so single-year and flat series still have a span.
func axisRanges(fig chart.TrendFigure) (*gochart.ContinuousRange, *gochart.ContinuousRange) {
	minX, maxX := math.Inf(1), math.Inf(-1)
	maxY := 0.0
	for _, s := range fig.Series {
		for _, pts := range [][]chart.XY{s.Points, s.Trend} {
			for _, p := range pts {
				minX = math.Min(minX, p.X)
				maxX = math.Max(maxX, p.X)
				maxY = math.Max(maxY, p.Y)
			}
		}
	}
	return &gochart.ContinuousRange{Min: minX - 0.5, Max: maxX + 0.5},
		&gochart.ContinuousRange{Min: 0, Max: math.Max(maxY*1.1, 1)}
}

func yearFormatter(v any) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%d", int(math.Round(f)))
	}
	return ""
}

func (r *PNGRenderer) blank() ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	bg := color.RGBA{R: background.R, G: background.G, B: background.B, A: 255}
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			img.SetRGBA(x, y, bg)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode blank png: %w", err)
	}
	return buf.Bytes(), nil
}
