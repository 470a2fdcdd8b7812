package tax

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nurpe/hvut-filing/internal/model"
)

// Assemble aggregates one month group into the per-category counts, rates
// and totals a rendered return carries.
//
// When the caller supplied a pre-computed summary for a category, that
// summary is authoritative: its subtotals are reproduced as-is and the
// per-vehicle rate is derived from them. Without a summary the rate and
// subtotal come from the statutory table via TaxFor.
func Assemble(
	group model.MonthGroup,
	summaries map[model.WeightCategory]model.CategorySummary,
	increase, credits decimal.Decimal,
) (model.TaxBreakdown, error) {
	breakdown := model.TaxBreakdown{
		Month: group.Month,
		Lines: make(map[model.WeightCategory]model.CategoryLine, len(model.WeightCategories)),
	}

	byCategory := make(map[model.WeightCategory][]model.Vehicle, len(model.WeightCategories))
	for _, vehicle := range group.Vehicles {
		byCategory[vehicle.Category] = append(byCategory[vehicle.Category], vehicle)

		breakdown.TotalVehicles++
		if vehicle.Taxable() && vehicle.Category != model.CategorySuspended {
			breakdown.TaxableVehicles++
		}
		if vehicle.Suspended || vehicle.Category == model.CategorySuspended {
			breakdown.SuspendedVehicles++
		}
		if vehicle.Logging {
			breakdown.LoggingVehicles++
		} else {
			breakdown.RegularVehicles++
		}
	}

	line2 := decimal.Zero
	for _, category := range model.WeightCategories {
		vehicles := byCategory[category]
		if len(vehicles) == 0 {
			continue
		}

		summary, hasSummary := summaries[category]
		line, err := assembleCategory(category, vehicles, summary, hasSummary)
		if err != nil {
			return model.TaxBreakdown{}, err
		}
		breakdown.Lines[category] = line
		line2 = line2.Add(line.Subtotal)
	}

	breakdown.Line2Tax = line2.Round(2)
	breakdown.Line3Increase = increase.Round(2)
	breakdown.Line4Total = breakdown.Line2Tax.Add(breakdown.Line3Increase)
	breakdown.Line5Credits = credits.Round(2)

	balance := breakdown.Line4Total.Sub(breakdown.Line5Credits)
	if balance.IsNegative() {
		balance = decimal.Zero.Round(2)
	}
	breakdown.Line6Balance = balance

	return breakdown, nil
}

func assembleCategory(
	category model.WeightCategory,
	vehicles []model.Vehicle,
	summary model.CategorySummary,
	hasSummary bool,
) (model.CategoryLine, error) {
	line := model.CategoryLine{
		Category: category,
		Subtotal: decimal.Zero,
	}

	for _, vehicle := range vehicles {
		if vehicle.Logging {
			line.LoggingCount++
		} else {
			line.RegularCount++
		}
	}

	if hasSummary {
		regularRate, err := rateFromSummary(category, summary.RegularCount, summary.RegularTax)
		if err != nil {
			return model.CategoryLine{}, err
		}
		loggingRate, err := rateFromSummary(category, summary.LoggingCount, summary.LoggingTax)
		if err != nil {
			return model.CategoryLine{}, err
		}
		line.RegularRate = regularRate
		line.LoggingRate = loggingRate
		line.Subtotal = summary.RegularTax.Add(summary.LoggingTax).Round(2)
		return line, nil
	}

	for _, vehicle := range vehicles {
		owed, err := TaxFor(vehicle)
		if err != nil {
			return model.CategoryLine{}, err
		}
		line.Subtotal = line.Subtotal.Add(owed)
		if vehicle.Taxable() {
			if vehicle.Logging {
				line.LoggingRate = owed
			} else {
				line.RegularRate = owed
			}
		}
	}
	line.Subtotal = line.Subtotal.Round(2)
	return line, nil
}

// rateFromSummary derives the per-vehicle rate a supplied subtotal implies.
// A subtotal with no vehicles behind it cannot be spread and is rejected
// rather than divided by a defaulted count.
func rateFromSummary(category model.WeightCategory, count int, subtotal decimal.Decimal) (decimal.Decimal, error) {
	if count == 0 {
		if !subtotal.IsZero() {
			return decimal.Zero, fmt.Errorf("%w: category %s", ErrInconsistentSummary, category)
		}
		return decimal.Zero, nil
	}
	return subtotal.Div(decimal.NewFromInt(int64(count))).Round(2), nil
}
