package timeline

import (
	"math"

	"github.com/simaogato/ventureflow/internal/domain"
)

// axisPadding is added after rounding the latest exit up to a whole year
const axisPadding = 2

// Derive builds the investment timeline from the records
// Logic:
//  1. Keep timeline-valid records (company, year and hold present), in input order
//  2. Each record becomes one bar: offset = entry year, duration = hold
//  3. Axis runs from 0 to ceil(latest exit) + 2
//
// Returns domain.ErrNoChartData when no record qualifies, so that no
// maximum is ever taken over an empty set.
func Derive(records []domain.InvestmentRecord) (*domain.TimelineChart, error) {
	chart := &domain.TimelineChart{
		Labels: make([]string, 0, len(records)),
		Bars:   make([]domain.TimelineBar, 0, len(records)),
	}

	latestExit := math.Inf(-1)
	for _, record := range records {
		parsed := record.Parse()
		if !parsed.TimelineValid() {
			continue
		}

		exit := parsed.Exit()
		chart.Labels = append(chart.Labels, parsed.Company)
		chart.Bars = append(chart.Bars, domain.TimelineBar{
			RecordID:    parsed.ID,
			Label:       parsed.Company,
			Market:      parsed.Market,
			Start:       parsed.Year,
			Duration:    parsed.Hold,
			Exit:        exit,
			OffsetColor: domain.ColorTransparent,
			Color:       parsed.Market.Color(),
			Tooltip:     domain.TimelineTooltip(parsed.Year, parsed.Hold),
		})

		if exit > latestExit {
			latestExit = exit
		}
	}

	if len(chart.Bars) == 0 {
		return nil, domain.ErrNoChartData
	}

	chart.AxisMin = 0
	chart.AxisMax = math.Ceil(latestExit) + axisPadding

	return chart, nil
}
