package dashboard

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/ventureflow/internal/domain"
)

// MarketTotal is the money committed to one market
type MarketTotal struct {
	Market   domain.Market   `json:"market"`
	Invested decimal.Decimal `json:"invested"`
	Returned decimal.Decimal `json:"returned"`
}

// Summary aggregates the rows of a portfolio
type Summary struct {
	Records       int             `json:"records"`
	TimelineValid int             `json:"timeline_valid"`
	CashflowValid int             `json:"cashflow_valid"`
	Invested      decimal.Decimal `json:"invested"`
	Returned      decimal.Decimal `json:"returned"`
	Net           decimal.Decimal `json:"net"`
	Multiple      decimal.Decimal `json:"multiple"`
	ByMarket      []MarketTotal   `json:"by_market"`
}

// DashboardService handles dashboard-related operations
type DashboardService struct {
	SessionRepo domain.SessionRepository
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(sessionRepo domain.SessionRepository) *DashboardService {
	return &DashboardService{SessionRepo: sessionRepo}
}

// GetSummary summarizes the rows of a session
func (s *DashboardService) GetSummary(ctx context.Context, sessionID uuid.UUID) (*Summary, error) {
	session, err := s.SessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return Summarize(session.Records), nil
}

// Summarize calculates the portfolio totals
// Logic:
//   - Invested: sum of amounts over cashflow-valid rows
//   - Returned: sum of amount x multiple over the same rows
//   - Net: Returned - Invested; Multiple: Returned / Invested (zero when nothing is invested)
//   - ByMarket: the same sums per market, in market order, unset market last
func Summarize(records []domain.InvestmentRecord) *Summary {
	summary := &Summary{
		Records:  len(records),
		Invested: decimal.Zero,
		Returned: decimal.Zero,
		ByMarket: []MarketTotal{},
	}

	perMarket := make(map[domain.Market]*MarketTotal)
	for _, record := range records {
		parsed := record.Parse()
		if parsed.TimelineValid() {
			summary.TimelineValid++
		}
		if !parsed.CashflowValid() {
			continue
		}
		summary.CashflowValid++

		amount := decimal.NewFromFloat(parsed.Amount)
		returned := amount.Mul(decimal.NewFromFloat(parsed.Multiple))
		summary.Invested = summary.Invested.Add(amount)
		summary.Returned = summary.Returned.Add(returned)

		market := parsed.Market
		if !market.Known() {
			market = ""
		}
		total, ok := perMarket[market]
		if !ok {
			total = &MarketTotal{Market: market, Invested: decimal.Zero, Returned: decimal.Zero}
			perMarket[market] = total
		}
		total.Invested = total.Invested.Add(amount)
		total.Returned = total.Returned.Add(returned)
	}

	summary.Net = summary.Returned.Sub(summary.Invested)
	summary.Multiple = decimal.Zero
	if summary.Invested.IsPositive() {
		summary.Multiple = summary.Returned.DivRound(summary.Invested, 2)
	}

	for _, market := range append(append([]domain.Market{}, domain.Markets...), "") {
		if total, ok := perMarket[market]; ok {
			summary.ByMarket = append(summary.ByMarket, *total)
		}
	}

	return summary
}
