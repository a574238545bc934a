package domain

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const notAvailable = "n/a"

var oneMillion = decimal.NewFromInt(1_000_000)

// ParseNumber interprets user-entered text as a number
// Blank or non-numeric text is reported as absent, never as zero.
func ParseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	f, _ := d.Float64()
	if !finite(f) {
		return 0, false
	}
	return f, true
}

// ParseNonNegative is ParseNumber restricted to values >= 0
func ParseNonNegative(raw string) (float64, bool) {
	v, ok := ParseNumber(raw)
	if !ok || v < 0 {
		return 0, false
	}
	return v, true
}

// FormatMillions renders v scaled to millions with the given decimals, e.g. "2.00M"
func FormatMillions(v float64, places int32) string {
	if !finite(v) {
		return notAvailable
	}
	return decimal.NewFromFloat(v).Div(oneMillion).StringFixed(places) + "M"
}

// FormatYear renders a year with the shortest exact representation ("2", "2.5")
func FormatYear(v float64) string {
	if !finite(v) {
		return notAvailable
	}
	return decimal.NewFromFloat(v).String()
}

// FormatYearFixed renders a year with one decimal place
func FormatYearFixed(v float64) string {
	if !finite(v) {
		return notAvailable
	}
	return decimal.NewFromFloat(v).StringFixed(1)
}

// FormatDollars renders an amount as US dollars, e.g. "$10,000,000.00"
func FormatDollars(v float64) string {
	if !finite(v) {
		return notAvailable
	}
	cents := decimal.NewFromFloat(v).Shift(2).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
