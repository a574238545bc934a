package domain

import (
	"math"

	"github.com/google/uuid"
)

// Chart palette
const (
	ColorWomensHealth  = "#A855F7"
	ColorFamilyHealth  = "#3B82F6"
	ColorBrainHealth   = "#10B981"
	ColorUnknownMarket = "#999999"
	ColorTransparent   = "transparent"

	ColorLoss = "#ef4444"
	ColorGain = "#10b981"
	FillLoss  = "rgba(239, 68, 68, 0.1)"
	FillGain  = "rgba(16, 185, 129, 0.1)"
)

// MaxSimulationYears bounds the cashflow ledger length
const MaxSimulationYears = 1000

// MaxCashflowValue bounds the magnitude of every cumulative ledger value
// Keeping it well below math.MaxFloat64 leaves room for axis padding when drawing.
const MaxCashflowValue = math.MaxFloat64 / 4

// Color returns the timeline colour of the market; unknown or empty markets are gray
func (m Market) Color() string {
	switch m {
	case MarketWomensHealth:
		return ColorWomensHealth
	case MarketFamilyHealth:
		return ColorFamilyHealth
	case MarketBrainHealth:
		return ColorBrainHealth
	default:
		return ColorUnknownMarket
	}
}

// TimelineBar is one row of the timeline chart
// The bar is drawn as two stacked segments: an invisible offset of length
// Start followed by a visible segment of length Duration.
type TimelineBar struct {
	RecordID    uuid.UUID `json:"record_id"`
	Label       string    `json:"label"`
	Market      Market    `json:"market"`
	Start       float64   `json:"start"`
	Duration    float64   `json:"duration"`
	Exit        float64   `json:"exit"`
	OffsetColor string    `json:"offset_color"`
	Color       string    `json:"color"`
	Tooltip     string    `json:"tooltip"`
}

// TimelineChart is the chart-library agnostic timeline series
type TimelineChart struct {
	Labels  []string      `json:"labels"`
	Bars    []TimelineBar `json:"bars"`
	AxisMin float64       `json:"axis_min"`
	AxisMax float64       `json:"axis_max"`
}

// CashflowPoint is the cumulative portfolio value at the end of a simulated year
type CashflowPoint struct {
	Label   string  `json:"label"`
	Year    int     `json:"year"`
	Value   float64 `json:"value"`
	Color   string  `json:"color"`
	Fill    string  `json:"fill"`
	Tooltip string  `json:"tooltip"`
}

// CashflowSegment is the line between two consecutive points
type CashflowSegment struct {
	From  int    `json:"from"`
	To    int    `json:"to"`
	Color string `json:"color"`
	Fill  string `json:"fill"`
}

// CashflowChart is the chart-library agnostic cumulative cashflow series
type CashflowChart struct {
	Labels   []string          `json:"labels"`
	Points   []CashflowPoint   `json:"points"`
	Segments []CashflowSegment `json:"segments"`
	Horizon  int               `json:"horizon"`
	MinValue float64           `json:"min_value"`
	MaxValue float64           `json:"max_value"`
}

// ChartSet bundles both derived charts
// Cashflow is nil when no record is complete enough for the ledger, or when
// the ledger could not be simulated; CashflowNotice then says why.
type ChartSet struct {
	Timeline       *TimelineChart `json:"timeline"`
	Cashflow       *CashflowChart `json:"cashflow"`
	CashflowNotice string         `json:"cashflow_notice,omitempty"`
}

// ValueColor maps a cumulative value to its line colour
func ValueColor(v float64) string {
	if v < 0 {
		return ColorLoss
	}
	return ColorGain
}

// ValueFill maps a cumulative value to its area tint
func ValueFill(v float64) string {
	if v < 0 {
		return FillLoss
	}
	return FillGain
}

// SegmentColor colours a segment as a loss when either endpoint is negative
func SegmentColor(from, to float64) string {
	if from < 0 || to < 0 {
		return ColorLoss
	}
	return ColorGain
}

// SegmentFill is the area tint matching SegmentColor
func SegmentFill(from, to float64) string {
	if from < 0 || to < 0 {
		return FillLoss
	}
	return FillGain
}

// TimelineTooltip renders "Year 2 - 5.0 (3.0 years)"
func TimelineTooltip(start, hold float64) string {
	return "Year " + FormatYear(start) + " - " + FormatYearFixed(start+hold) + " (" + FormatYearFixed(hold) + " years)"
}

// CashflowTooltip renders "Value: 2.00M"
func CashflowTooltip(v float64) string {
	return "Value: " + FormatMillions(v, 2)
}

// CashflowTick renders an axis tick label, e.g. "2M"
func CashflowTick(v float64) string {
	return FormatMillions(v, 0)
}
