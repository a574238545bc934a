package cashflow

import (
	"fmt"
	"math"

	"github.com/simaogato/ventureflow/internal/domain"
)

const (
	// snapWindow maps a fractional entry/exit year onto the nearest simulated year
	snapWindow = 0.5

	// horizonPadding is added after rounding the latest exit up to a whole year
	horizonPadding = 2
)

// Derive simulates the cumulative portfolio cashflow year by year
// Logic:
//  1. Keep cashflow-valid records (timeline fields plus amount and multiple)
//  2. Simulate integer years 0..ceil(latest exit)+2 inclusive
//  3. In year y, each record whose entry year lies within 0.5 of y debits its amount,
//     and each record whose exit year lies within 0.5 of y credits amount × multiple
//  4. The cumulative value carries forward from year to year
//
// Effects landing on the same year are summed. Returns domain.ErrNoChartData
// when no record qualifies, domain.ErrHorizonTooLarge when the ledger would
// run past domain.MaxSimulationYears and domain.ErrValueOutOfRange when a
// cumulative value leaves ±domain.MaxCashflowValue.
func Derive(records []domain.InvestmentRecord) (*domain.CashflowChart, error) {
	valid := make([]domain.ParsedRecord, 0, len(records))
	latestExit := math.Inf(-1)
	for _, record := range records {
		parsed := record.Parse()
		if !parsed.CashflowValid() {
			continue
		}
		valid = append(valid, parsed)
		if exit := parsed.Exit(); exit > latestExit {
			latestExit = exit
		}
	}

	if len(valid) == 0 {
		return nil, domain.ErrNoChartData
	}

	horizonF := math.Ceil(latestExit) + horizonPadding
	if horizonF > domain.MaxSimulationYears {
		return nil, fmt.Errorf("%w: %v years", domain.ErrHorizonTooLarge, horizonF)
	}
	// any horizon below zero simulates nothing
	horizon := int(math.Max(horizonF, -1))

	size := max(horizon+1, 0)
	chart := &domain.CashflowChart{
		Labels:  make([]string, 0, size),
		Points:  make([]domain.CashflowPoint, 0, size),
		Horizon: horizon,
	}

	cumulative := 0.0
	for year := 0; year <= horizon; year++ {
		y := float64(year)
		for _, r := range valid {
			if math.Abs(y-r.Year) < snapWindow {
				cumulative -= r.Amount
			}
			if math.Abs(y-r.Exit()) < snapWindow {
				cumulative += r.Amount * r.Multiple
			}
		}
		if !(math.Abs(cumulative) <= domain.MaxCashflowValue) {
			return nil, fmt.Errorf("%w: year %d", domain.ErrValueOutOfRange, year)
		}

		label := fmt.Sprintf("Year %d", year)
		chart.Labels = append(chart.Labels, label)
		chart.Points = append(chart.Points, domain.CashflowPoint{
			Label:   label,
			Year:    year,
			Value:   cumulative,
			Color:   domain.ValueColor(cumulative),
			Fill:    domain.ValueFill(cumulative),
			Tooltip: domain.CashflowTooltip(cumulative),
		})
	}

	chart.Segments = segments(chart.Points)
	chart.MinValue, chart.MaxValue = valueRange(chart.Points)

	return chart, nil
}

// segments colours each line between consecutive points
func segments(points []domain.CashflowPoint) []domain.CashflowSegment {
	if len(points) < 2 {
		return []domain.CashflowSegment{}
	}
	out := make([]domain.CashflowSegment, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		from, to := points[i-1], points[i]
		out = append(out, domain.CashflowSegment{
			From:  from.Year,
			To:    to.Year,
			Color: domain.SegmentColor(from.Value, to.Value),
			Fill:  domain.SegmentFill(from.Value, to.Value),
		})
	}
	return out
}

// valueRange returns the lowest and highest cumulative values, or 0,0 without points
func valueRange(points []domain.CashflowPoint) (float64, float64) {
	if len(points) == 0 {
		return 0, 0
	}
	lo, hi := points[0].Value, points[0].Value
	for _, p := range points[1:] {
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
	}
	return lo, hi
}
