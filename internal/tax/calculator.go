package tax

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/nurpe/hvut-filing/internal/model"
)

var twelve = decimal.NewFromInt(12)

// TaxFor computes the prorated tax one vehicle owes for the period
// containing its first-used month. Suspended and agricultural vehicles owe
// zero; so does a vehicle whose month cannot be read, because zero months
// of the period remain for it.
func TaxFor(vehicle model.Vehicle) (decimal.Decimal, error) {
	if vehicle.Suspended || vehicle.Agricultural {
		return decimal.Zero.Round(2), nil
	}

	months := MonthsRemaining(vehicle.FirstUsedMonth)
	if months == 0 {
		return decimal.Zero.Round(2), nil
	}

	rates, err := Rates(vehicle.Category)
	if err != nil {
		return decimal.Zero, err
	}
	base := rates.Regular
	if vehicle.Logging {
		base = rates.Logging
	}

	tax := base.Mul(decimal.NewFromInt(int64(months))).Div(twelve).Round(2)
	return tax, nil
}

// MonthsRemaining maps a YYYYMM value onto the number of months left in
// the July-June period: July owes all 12, June only 1. Unparseable input
// yields 0.
func MonthsRemaining(firstUsedMonth string) int {
	month := MonthNumber(firstUsedMonth)
	switch {
	case month >= 7 && month <= 12:
		return 19 - month
	case month >= 1 && month <= 6:
		return 7 - month
	default:
		return 0
	}
}

// MonthNumber extracts the calendar month from a YYYYMM string, 0 when the
// value is unusable.
func MonthNumber(firstUsedMonth string) int {
	if len(firstUsedMonth) != 6 {
		return 0
	}
	month, err := strconv.Atoi(firstUsedMonth[4:])
	if err != nil || month < 1 || month > 12 {
		return 0
	}
	return month
}
