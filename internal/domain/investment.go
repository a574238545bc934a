package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Market represents the healthcare segment an investment belongs to
type Market string

const (
	MarketWomensHealth Market = "WOMEN'S HEALTH"
	MarketFamilyHealth Market = "FAMILY HEALTH"
	MarketBrainHealth  Market = "BRAIN HEALTH"
)

// Markets lists the selectable markets in display order
var Markets = []Market{MarketWomensHealth, MarketFamilyHealth, MarketBrainHealth}

// Known reports whether the market is one of the enumerated segments
func (m Market) Known() bool {
	switch m {
	case MarketWomensHealth, MarketFamilyHealth, MarketBrainHealth:
		return true
	default:
		return false
	}
}

// Status represents the deal status letter
type Status string

const (
	StatusA Status = "A"
	StatusB Status = "B"
	StatusC Status = "C"
	StatusD Status = "D"
)

// Statuses lists the selectable statuses in display order
var Statuses = []Status{StatusA, StatusB, StatusC, StatusD}

// Known reports whether the status is one of the enumerated letters
func (s Status) Known() bool {
	switch s {
	case StatusA, StatusB, StatusC, StatusD:
		return true
	default:
		return false
	}
}

// Field names a user-editable column of an investment row
type Field string

const (
	FieldCompany  Field = "company"
	FieldCode     Field = "code"
	FieldMarket   Field = "market"
	FieldStatus   Field = "status"
	FieldMultiple Field = "multiple"
	FieldHold     Field = "hold"
	FieldAmount   Field = "amount"
	FieldYear     Field = "year"
)

// Fields lists every editable column in table order
var Fields = []Field{
	FieldCompany, FieldCode, FieldMarket, FieldStatus,
	FieldMultiple, FieldHold, FieldAmount, FieldYear,
}

// Known reports whether f is one of Fields
func (f Field) Known() bool {
	for _, field := range Fields {
		if f == field {
			return true
		}
	}
	return false
}

// InvestmentRecord represents one row of the portfolio table
// Every field holds the text exactly as the user entered it; numeric
// interpretation happens in Parse so that an empty or malformed entry is
// never silently read as zero.
type InvestmentRecord struct {
	ID       uuid.UUID `json:"id"`
	Company  string    `json:"company"`
	Code     string    `json:"code"`
	Market   Market    `json:"market"`
	Status   Status    `json:"status"`
	Multiple string    `json:"multiple"`
	Hold     string    `json:"hold"`
	Amount   string    `json:"amount"`
	Year     string    `json:"year"`
}

// NewEmptyRecord creates a blank row with a fresh ID
func NewEmptyRecord() InvestmentRecord {
	return InvestmentRecord{ID: uuid.New()}
}

// Set assigns raw text to the named field
// Market and status only accept their enumerated values (or empty).
func (r *InvestmentRecord) Set(field Field, value string) error {
	switch field {
	case FieldCompany:
		r.Company = value
	case FieldCode:
		r.Code = value
	case FieldMarket:
		market := Market(strings.TrimSpace(value))
		if market != "" && !market.Known() {
			return fmt.Errorf("%w: unknown market %q", ErrInvalidField, value)
		}
		r.Market = market
	case FieldStatus:
		status := Status(strings.TrimSpace(value))
		if status != "" && !status.Known() {
			return fmt.Errorf("%w: unknown status %q", ErrInvalidField, value)
		}
		r.Status = status
	case FieldMultiple:
		r.Multiple = value
	case FieldHold:
		r.Hold = value
	case FieldAmount:
		r.Amount = value
	case FieldYear:
		r.Year = value
	default:
		return fmt.Errorf("%w: unknown field %q", ErrInvalidField, field)
	}
	return nil
}

// Get returns the raw text of the named field
func (r InvestmentRecord) Get(field Field) string {
	switch field {
	case FieldCompany:
		return r.Company
	case FieldCode:
		return r.Code
	case FieldMarket:
		return string(r.Market)
	case FieldStatus:
		return string(r.Status)
	case FieldMultiple:
		return r.Multiple
	case FieldHold:
		return r.Hold
	case FieldAmount:
		return r.Amount
	case FieldYear:
		return r.Year
	default:
		return ""
	}
}

// ParsedRecord is the numeric view of an InvestmentRecord
// The Has* flags report presence; a value is only meaningful when its flag is set.
type ParsedRecord struct {
	ID       uuid.UUID
	Company  string
	Market   Market
	Year     float64
	Hold     float64
	Amount   float64
	Multiple float64

	HasCompany  bool
	HasYear     bool
	HasHold     bool
	HasAmount   bool
	HasMultiple bool
}

// Parse interprets the raw fields
// Rules:
//   - company is present when non-blank
//   - year is present when it parses as a number (negative allowed)
//   - hold, amount and multiple are present when they parse as non-negative numbers
func (r InvestmentRecord) Parse() ParsedRecord {
	p := ParsedRecord{
		ID:      r.ID,
		Company: strings.TrimSpace(r.Company),
		Market:  r.Market,
	}
	p.HasCompany = p.Company != ""
	p.Year, p.HasYear = ParseNumber(r.Year)
	p.Hold, p.HasHold = ParseNonNegative(r.Hold)
	p.Amount, p.HasAmount = ParseNonNegative(r.Amount)
	p.Multiple, p.HasMultiple = ParseNonNegative(r.Multiple)
	return p
}

// TimelineValid reports whether the record can be placed on the timeline
// The exit year must itself be a finite number.
func (p ParsedRecord) TimelineValid() bool {
	return p.HasCompany && p.HasYear && p.HasHold && finite(p.Exit())
}

// CashflowValid reports whether the record can take part in the cashflow ledger
func (p ParsedRecord) CashflowValid() bool {
	return p.TimelineValid() && p.HasAmount && p.HasMultiple
}

// Exit returns the exit year (entry year plus hold)
func (p ParsedRecord) Exit() float64 {
	return p.Year + p.Hold
}
