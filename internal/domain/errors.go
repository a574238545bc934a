package domain

import "errors"

var (
	// ErrNoChartData is returned by a deriver when no record qualifies for the chart
	ErrNoChartData = errors.New("no complete investment to chart")

	// ErrHorizonTooLarge is returned when the cashflow simulation would exceed MaxSimulationYears
	ErrHorizonTooLarge = errors.New("simulation horizon exceeds the supported range")

	// ErrValueOutOfRange is returned when a ledger value exceeds MaxCashflowValue
	ErrValueOutOfRange = errors.New("cashflow value exceeds the supported range")

	ErrRecordNotFound      = errors.New("record not found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrLastRecord          = errors.New("cannot delete the last remaining record")
	ErrInvalidField        = errors.New("invalid field")
	ErrIncorrectPassphrase = errors.New("incorrect password")
)
