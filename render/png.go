package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/spektr-org/vehiclesdash/engine"
)

// ============================================================================
// PNG RENDERER — engine.ChartConfig → image
// ============================================================================
// Histogram and bar configs become a chart.BarChart; scatter configs become
// a chart.Chart with one dot-only series per group. Axis ranges are always
// set explicitly so single-point and constant data still render.
// ============================================================================

// ErrNothingToRender is returned for a config without any data points.
var ErrNothingToRender = errors.New("chart has no data to render")

// Size is the output image size in pixels.
type Size struct {
	Width  int
	Height int
}

// DefaultSize is used when a Size field is zero.
var DefaultSize = Size{Width: 1024, Height: 576}

func (s Size) orDefault() Size {
	if s.Width <= 0 {
		s.Width = DefaultSize.Width
	}
	if s.Height <= 0 {
		s.Height = DefaultSize.Height
	}
	return s
}

// PNG renders cfg to w.
func PNG(w io.Writer, cfg *engine.ChartConfig, size Size) error {
	if cfg == nil || cfg.IsEmpty() {
		return ErrNothingToRender
	}
	size = size.orDefault()

	var err error
	switch cfg.ChartType {
	case "histogram", "bar":
		err = renderBars(w, cfg, size)
	case "scatter":
		err = renderScatter(w, cfg, size)
	default:
		return fmt.Errorf("unsupported chart type %q", cfg.ChartType)
	}
	if err != nil {
		return fmt.Errorf("failed to render %s chart: %w", cfg.ChartType, err)
	}
	return nil
}

// pointStyle draws markers only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 1,
		StrokeColor: drawing.ColorTransparent,
		DotWidth:    4,
		DotColor:    col,
	}
}

func renderBars(w io.Writer, cfg *engine.ChartConfig, size Size) error {
	data := cfg.Series[0].Data
	fill := colorAt(cfg.Colors, 0)

	maxCount := 0.0
	bars := make([]chart.Value, 0, len(data))
	for _, p := range data {
		bars = append(bars, chart.Value{
			Label: p.Label,
			Value: p.Value,
			Style: chart.Style{FillColor: fill, StrokeColor: fill, StrokeWidth: 1},
		})
		maxCount = math.Max(maxCount, p.Value)
	}
	if maxCount == 0 {
		maxCount = 1
	}

	spacing := 4
	if len(bars) > 12 {
		spacing = 1
	}
	barWidth := (size.Width-120)/len(bars) - spacing
	if barWidth < 1 {
		barWidth = 1
	}

	bc := chart.BarChart{
		Title:      cfg.Title,
		Width:      size.Width,
		Height:     size.Height,
		BarWidth:   barWidth,
		BarSpacing: spacing,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.Style{FontSize: 8},
		YAxis: chart.YAxis{
			Name:  cfg.YAxis,
			Range: &chart.ContinuousRange{Min: 0, Max: maxCount * 1.05},
		},
		Bars: bars,
	}
	return bc.Render(chart.PNG, w)
}

func renderScatter(w io.Writer, cfg *engine.ChartConfig, size Size) error {
	xr, yr := bounds(cfg.Series)

	series := make([]chart.Series, 0, len(cfg.Series))
	for i, s := range cfg.Series {
		if len(s.Data) == 0 {
			continue
		}
		xs := make([]float64, len(s.Data))
		ys := make([]float64, len(s.Data))
		for j, p := range s.Data {
			xs[j], ys[j] = p.X, p.Value
		}
		color := s.Color
		if color == "" {
			color = colorHex(cfg.Colors, i)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(fromHex(color)),
		})
	}

	ch := chart.Chart{
		Title:      cfg.Title,
		Width:      size.Width,
		Height:     size.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: cfg.XAxis, Range: xr},
		YAxis:      chart.YAxis{Name: cfg.YAxis, Range: yr},
		Series:     series,
	}
	if cfg.ShowLegend {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	return ch.Render(chart.PNG, w)
}

// bounds returns padded x/y ranges over every point of every series.
func bounds(series []engine.ChartSeries) (*chart.ContinuousRange, *chart.ContinuousRange) {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, p := range s.Data {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Value), math.Max(maxY, p.Value)
		}
	}
	return padded(minX, maxX), padded(minY, maxY)
}

func padded(lo, hi float64) *chart.ContinuousRange {
	span := hi - lo
	if span == 0 {
		span = math.Max(math.Abs(lo), 1)
	}
	pad := span * 0.05
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func colorHex(colors []string, i int) string {
	if len(colors) == 0 {
		return "#4F46E5"
	}
	return colors[i%len(colors)]
}

func colorAt(colors []string, i int) drawing.Color {
	return fromHex(colorHex(colors, i))
}

func fromHex(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
