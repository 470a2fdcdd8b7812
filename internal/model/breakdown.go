package model

import "github.com/shopspring/decimal"

// CategorySummary is caller-supplied, pre-computed tax data for one weight
// category. When present it is authoritative: the generated documents must
// reproduce these amounts instead of re-deriving them.
type CategorySummary struct {
	RegularCount int
	RegularTax   decimal.Decimal
	LoggingCount int
	LoggingTax   decimal.Decimal
}

// CategoryLine is the assembled result for one weight category within a
// month group.
type CategoryLine struct {
	Category     WeightCategory
	RegularCount int
	LoggingCount int
	RegularRate  decimal.Decimal // per-vehicle prorated tax
	LoggingRate  decimal.Decimal
	Subtotal     decimal.Decimal
}

func (l CategoryLine) Empty() bool {
	return l.RegularCount == 0 && l.LoggingCount == 0
}

// TaxBreakdown is everything a rendered return needs for one month group.
type TaxBreakdown struct {
	Month string
	Lines map[WeightCategory]CategoryLine

	Line2Tax      decimal.Decimal
	Line3Increase decimal.Decimal
	Line4Total    decimal.Decimal
	Line5Credits  decimal.Decimal
	Line6Balance  decimal.Decimal

	TotalVehicles     int
	TaxableVehicles   int
	SuspendedVehicles int
	LoggingVehicles   int
	RegularVehicles   int
}

func (b TaxBreakdown) Line(category WeightCategory) CategoryLine {
	return b.Lines[category]
}
