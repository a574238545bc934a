package render

import (
	"fmt"
	"html"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/simaogato/ventureflow/internal/domain"
)

const (
	defaultWidth  = 960
	defaultHeight = 480

	// Vertical share of a timeline row covered by its bar
	barFill = 0.6

	segmentWidth = 3.0
	pointWidth   = 4.0

	// Years beyond this magnitude are not labelled one by one
	maxTickYear = 1e9
)

var (
	axisColor = drawing.ColorFromHex("999999")
	zeroColor = drawing.ColorFromHex("999999").WithAlpha(128)
)

// SVGRenderer draws the derived series as SVG images
type SVGRenderer struct {
	Width  int
	Height int
}

// NewSVGRenderer creates a renderer producing charts of the given pixel size
// Non-positive sizes fall back to 960x480.
func NewSVGRenderer(width, height int) *SVGRenderer {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	return &SVGRenderer{Width: width, Height: height}
}

// Timeline draws one horizontal bar per record, first record on top
// The invisible offset segment of each bar is simply not drawn.
func (r *SVGRenderer) Timeline(w io.Writer, tl *domain.TimelineChart) error {
	if tl == nil || len(tl.Bars) == 0 {
		return domain.ErrNoChartData
	}

	rows := len(tl.Bars)
	xMin, xMax := tl.AxisMin, tl.AxisMax
	for _, bar := range tl.Bars {
		xMin = math.Min(xMin, math.Floor(bar.Start))
		xMax = math.Max(xMax, math.Ceil(bar.Exit))
	}
	if xMax <= xMin {
		// xMin+1 rounds back to xMin for very large years
		xMax = math.Max(xMin+1, math.Nextafter(xMin, math.Inf(1)))
	}

	rowHeight := float64(r.Height) / float64(rows+1)
	barWidth := math.Max(2, rowHeight*barFill)

	series := make([]chart.Series, 0, rows)
	yTicks := make([]chart.Tick, 0, rows)
	for i, bar := range tl.Bars {
		y := float64(rows - 1 - i)
		series = append(series, chart.ContinuousSeries{
			XValues: []float64{bar.Start, bar.Exit},
			YValues: []float64{y, y},
			Style: chart.Style{
				StrokeColor: colorOf(bar.Color),
				StrokeWidth: barWidth,
			},
		})
		// SVG text is written verbatim
		yTicks = append(yTicks, chart.Tick{Value: y, Label: html.EscapeString(bar.Label)})
	}

	ch := chart.Chart{
		Width:      r.Width,
		Height:     r.Height,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:  "Years",
			Style: chart.Style{StrokeColor: axisColor},
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
			Ticks: yearTicks(xMin, xMax),
		},
		YAxis: chart.YAxis{
			Style: chart.Style{StrokeColor: axisColor},
			Range: &chart.ContinuousRange{Min: -1, Max: float64(rows)},
			Ticks: yTicks,
		},
		Series: series,
	}

	if err := ch.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("failed to render timeline: %w", err)
	}
	return nil
}

// Cashflow draws the cumulative value curve, each segment coloured by its endpoints
func (r *SVGRenderer) Cashflow(w io.Writer, cf *domain.CashflowChart) error {
	if cf == nil || len(cf.Points) == 0 {
		return domain.ErrNoChartData
	}

	xMax := float64(max(cf.Horizon, 1))
	yMin, yMax := math.Min(cf.MinValue, 0), math.Max(cf.MaxValue, 0)
	if yMax <= yMin {
		yMax = yMin + 1
	}
	pad := (yMax - yMin) * 0.1
	yMin, yMax = yMin-pad, yMax+pad

	series := make([]chart.Series, 0, len(cf.Segments)+len(cf.Points)+1)
	series = append(series, chart.ContinuousSeries{
		Name:    "zero",
		XValues: []float64{0, xMax},
		YValues: []float64{0, 0},
		Style:   chart.Style{StrokeColor: zeroColor, StrokeWidth: 1},
	})

	for _, seg := range cf.Segments {
		from, to := cf.Points[seg.From], cf.Points[seg.To]
		series = append(series, chart.ContinuousSeries{
			XValues: []float64{float64(from.Year), float64(to.Year)},
			YValues: []float64{from.Value, to.Value},
			Style: chart.Style{
				StrokeColor: colorOf(seg.Color),
				StrokeWidth: segmentWidth,
			},
		})
	}

	// Each point is its own series so it keeps its own colour; a lone point
	// is doubled so the series is never a single coordinate.
	for _, p := range cf.Points {
		col := colorOf(p.Color)
		series = append(series, chart.ContinuousSeries{
			Name:    p.Label,
			XValues: []float64{float64(p.Year), float64(p.Year)},
			YValues: []float64{p.Value, p.Value},
			Style: chart.Style{
				StrokeColor: col,
				StrokeWidth: 1,
				DotColor:    col,
				DotWidth:    pointWidth,
			},
		})
	}

	xTicks := make([]chart.Tick, 0, len(cf.Points))
	step := tickStep(len(cf.Points))
	for i, p := range cf.Points {
		if i%step == 0 {
			xTicks = append(xTicks, chart.Tick{Value: float64(p.Year), Label: p.Label})
		}
	}
	if len(xTicks) == 1 {
		xTicks = append(xTicks, chart.Tick{Value: xMax, Label: ""})
	}

	ch := chart.Chart{
		Width:      r.Width,
		Height:     r.Height,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Style: chart.Style{StrokeColor: axisColor},
			Range: &chart.ContinuousRange{Min: 0, Max: xMax},
			Ticks: xTicks,
		},
		YAxis: chart.YAxis{
			Name:  "Portfolio value",
			Style: chart.Style{StrokeColor: axisColor},
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return domain.CashflowTick(f)
				}
				return ""
			},
		},
		Series: series,
	}

	if err := ch.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("failed to render cashflow: %w", err)
	}
	return nil
}

// yearTicks labels whole years between min and max, thinned to about ten labels
// Axes reaching past maxTickYear only get their two endpoints labelled.
func yearTicks(min, max float64) []chart.Tick {
	if math.Abs(min) > maxTickYear || math.Abs(max) > maxTickYear {
		return []chart.Tick{
			{Value: min, Label: strconv.FormatFloat(min, 'g', 4, 64)},
			{Value: max, Label: strconv.FormatFloat(max, 'g', 4, 64)},
		}
	}
	lo, hi := int(math.Floor(min)), int(math.Ceil(max))
	step := tickStep(hi - lo + 1)
	ticks := make([]chart.Tick, 0, (hi-lo)/step+1)
	for y := lo; y <= hi; y += step {
		ticks = append(ticks, chart.Tick{Value: float64(y), Label: fmt.Sprintf("%d", y)})
	}
	return ticks
}

func tickStep(n int) int {
	const maxTicks = 12
	if n <= maxTicks {
		return 1
	}
	return int(math.Ceil(float64(n) / maxTicks))
}

// colorOf converts the palette notation ("#rrggbb", "rgba(r, g, b, a)", "transparent")
func colorOf(css string) drawing.Color {
	css = strings.TrimSpace(css)
	switch {
	case css == domain.ColorTransparent:
		return drawing.ColorTransparent
	case strings.HasPrefix(css, "#"):
		return drawing.ColorFromHex(strings.TrimPrefix(css, "#"))
	case strings.HasPrefix(css, "rgba("):
		var r, g, b uint8
		var a float64
		if _, err := fmt.Sscanf(css, "rgba(%d, %d, %d, %g)", &r, &g, &b, &a); err != nil {
			return axisColor
		}
		return drawing.Color{R: r, G: g, B: b, A: uint8(math.Round(a * 255))}
	default:
		return axisColor
	}
}
