package tax

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nurpe/hvut-filing/internal/model"
)

// AnnualRates holds the full-year tax for one weight category. Logging
// vehicles carry the reduced rate.
type AnnualRates struct {
	Regular decimal.Decimal
	Logging decimal.Decimal
}

// annualRates is the statutory table for the July-June period. Category W
// is suspended and carries no tax under either status.
var annualRates = map[model.WeightCategory]AnnualRates{
	"A": {d("100.00"), d("75.00")},
	"B": {d("122.00"), d("91.50")},
	"C": {d("144.00"), d("108.00")},
	"D": {d("166.00"), d("124.50")},
	"E": {d("188.00"), d("141.00")},
	"F": {d("210.00"), d("157.50")},
	"G": {d("232.00"), d("174.00")},
	"H": {d("254.00"), d("190.50")},
	"I": {d("276.00"), d("207.00")},
	"J": {d("298.00"), d("223.50")},
	"K": {d("320.00"), d("240.00")},
	"L": {d("342.00"), d("256.50")},
	"M": {d("364.00"), d("273.00")},
	"N": {d("386.00"), d("289.50")},
	"O": {d("408.00"), d("306.00")},
	"P": {d("430.00"), d("322.50")},
	"Q": {d("452.00"), d("339.00")},
	"R": {d("474.00"), d("355.50")},
	"S": {d("496.00"), d("372.00")},
	"T": {d("518.00"), d("388.50")},
	"U": {d("540.00"), d("405.00")},
	"V": {d("550.00"), d("412.50")},
	"W": {d("0.00"), d("0.00")},
}

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

// Rates returns the annual rates for a category. An unknown code is a
// configuration error, never a silent fallback.
func Rates(category model.WeightCategory) (AnnualRates, error) {
	rates, ok := annualRates[category]
	if !ok {
		return AnnualRates{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	return rates, nil
}
