package render

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/nurpe/hvut-filing/internal/model"
	"github.com/nurpe/hvut-filing/internal/tax"
)

// The overlay dispatches on a closed registry of bindings instead of a
// name-chained conditional. Each binding pairs a field name from the
// layout descriptor with one rendering behavior.
type fieldKind int

const (
	kindScalar fieldKind = iota
	kindCharArray
	kindCheckbox
	kindComposite
)

type binding struct {
	kind fieldKind

	// section gates the whole field on a block inclusion flag; when set
	// and false the field is not drawn no matter what value it has.
	section func(*Request) bool

	value func(*Request) string
	cond  func(*Request) bool
	parts func(*Request) map[string]string
}

func scalar(value func(*Request) string) binding {
	return binding{kind: kindScalar, value: value}
}

func chars(value func(*Request) string) binding {
	return binding{kind: kindCharArray, value: value}
}

func checkbox(cond func(*Request) bool) binding {
	return binding{kind: kindCheckbox, cond: cond}
}

func gated(section func(*Request) bool, inner binding) binding {
	inner.section = section
	return inner
}

func composite(parts func(*Request) map[string]string) binding {
	return binding{kind: kindComposite, parts: parts}
}

func newBindings() map[string]binding {
	preparer := func(r *Request) bool { return r.includePreparer() }
	designee := func(r *Request) bool { return r.includeDesignee() }
	payment := func(r *Request) bool { return r.includePayment() }

	b := map[string]binding{
		"business_name":    scalar(func(r *Request) string { return r.Group.Business.Name }),
		"business_address": scalar(func(r *Request) string { return r.Group.Business.AddressLine }),
		"business_city_state_zip": scalar(func(r *Request) string {
			biz := r.Group.Business
			return fmt.Sprintf("%s, %s %s", biz.City, biz.State, biz.Zip)
		}),
		"ein":         chars(func(r *Request) string { return NormalizeEIN(r.Group.Business.EIN) }),
		"period_code": chars(func(r *Request) string { return r.Group.Month }),

		"address_change_checkbox": checkbox(func(r *Request) bool { return r.Flags.AddressChange }),
		"amended_checkbox":        checkbox(func(r *Request) bool { return r.Flags.Amended }),
		"vin_correction_checkbox": checkbox(func(r *Request) bool { return r.Flags.VINCorrection }),
		"final_return_checkbox":   checkbox(func(r *Request) bool { return r.Flags.FinalReturn }),

		// derived fleet predicates
		"agricultural_checkbox": checkbox(func(r *Request) bool { return r.Group.AnyAgricultural() }),
		"mileage_checkbox":      checkbox(func(r *Request) bool { return r.Group.AnyLowMileage() }),

		"month_checkboxes": composite(monthParts),
		"tax_summary":      composite(taxSummaryParts),

		"designee_name":  gated(designee, scalar(func(r *Request) string { return r.Designee.Name })),
		"designee_phone": gated(designee, scalar(func(r *Request) string { return r.Designee.Phone })),
		"designee_pin":   gated(designee, scalar(func(r *Request) string { return r.Designee.PIN })),

		"preparer_name":  gated(preparer, scalar(func(r *Request) string { return r.Preparer.Name })),
		"preparer_firm":  gated(preparer, scalar(func(r *Request) string { return r.Preparer.Firm })),
		"preparer_phone": gated(preparer, scalar(func(r *Request) string { return r.Preparer.Phone })),
		"preparer_ptin":  gated(preparer, scalar(func(r *Request) string { return r.Preparer.PTIN })),
		"preparer_self_employed_checkbox": gated(preparer, checkbox(func(r *Request) bool {
			return r.Preparer.SelfEmployed
		})),

		"payment_routing":      gated(payment, chars(func(r *Request) string { return r.Payment.RoutingNumber })),
		"payment_account":      gated(payment, chars(func(r *Request) string { return r.Payment.AccountNumber })),
		"payment_account_type": gated(payment, scalar(func(r *Request) string { return r.Payment.AccountType })),
		"payment_phone":        gated(payment, scalar(func(r *Request) string { return r.Payment.Phone })),

		"partial_rate_grid":    composite(rateParts),
		"category_count_grid":  composite(countParts),
		"category_amount_grid": composite(amountParts),

		"total_vehicles":     scalar(func(r *Request) string { return strconv.Itoa(r.Breakdown.TotalVehicles) }),
		"taxable_vehicles":   scalar(func(r *Request) string { return strconv.Itoa(r.Breakdown.TaxableVehicles) }),
		"logging_vehicles":   scalar(func(r *Request) string { return strconv.Itoa(r.Breakdown.LoggingVehicles) }),
		"suspended_vehicles": scalar(func(r *Request) string { return strconv.Itoa(r.Breakdown.SuspendedVehicles) }),

		"schedule_business_name": scalar(func(r *Request) string { return r.Group.Business.Name }),
		"schedule_month":         scalar(func(r *Request) string { return r.Group.Month }),
	}

	for row := 1; row <= 6; row++ {
		row := row
		b[fmt.Sprintf("schedule_vin_%d", row)] = chars(func(r *Request) string {
			return taxableVehicleAt(r, row-1).VIN
		})
		b[fmt.Sprintf("schedule_category_%d", row)] = scalar(func(r *Request) string {
			return string(taxableVehicleAt(r, row-1).Category)
		})
	}
	for row := 1; row <= 2; row++ {
		row := row
		b[fmt.Sprintf("suspended_vin_%d", row)] = chars(func(r *Request) string {
			return suspendedVehicleAt(r, row-1).VIN
		})
	}

	return b
}

func monthParts(r *Request) map[string]string {
	month := tax.MonthNumber(r.Group.Month)
	if month == 0 {
		return nil
	}
	return map[string]string{fmt.Sprintf("%02d", month): "X"}
}

func taxSummaryParts(r *Request) map[string]string {
	return map[string]string{
		"line2": r.Breakdown.Line2Tax.StringFixed(2),
		"line3": r.Breakdown.Line3Increase.StringFixed(2),
		"line4": r.Breakdown.Line4Total.StringFixed(2),
		"line5": r.Breakdown.Line5Credits.StringFixed(2),
		"line6": r.Breakdown.Line6Balance.StringFixed(2),
	}
}

// rateParts emits the per-vehicle prorated rate per category and status,
// only for combinations that have vehicles behind them.
func rateParts(r *Request) map[string]string {
	parts := make(map[string]string)
	for category, line := range r.Breakdown.Lines {
		if category == model.CategorySuspended {
			continue
		}
		if line.RegularCount > 0 && !line.RegularRate.IsZero() {
			parts[string(category)+"_regular"] = line.RegularRate.StringFixed(2)
		}
		if line.LoggingCount > 0 && !line.LoggingRate.IsZero() {
			parts[string(category)+"_logging"] = line.LoggingRate.StringFixed(2)
		}
	}
	return parts
}

func countParts(r *Request) map[string]string {
	parts := make(map[string]string)
	for category, line := range r.Breakdown.Lines {
		if category == model.CategorySuspended {
			if total := line.RegularCount + line.LoggingCount; total > 0 {
				parts["W"] = strconv.Itoa(total)
			}
			continue
		}
		if line.RegularCount > 0 {
			parts[string(category)+"_regular"] = strconv.Itoa(line.RegularCount)
		}
		if line.LoggingCount > 0 {
			parts[string(category)+"_logging"] = strconv.Itoa(line.LoggingCount)
		}
	}
	return parts
}

func amountParts(r *Request) map[string]string {
	parts := make(map[string]string)
	for category, line := range r.Breakdown.Lines {
		if category == model.CategorySuspended || line.Subtotal.IsZero() {
			continue
		}
		parts[string(category)] = line.Subtotal.StringFixed(2)
	}
	return parts
}

func taxableVehicleAt(r *Request, index int) model.Vehicle {
	seen := 0
	for _, vehicle := range r.Group.Vehicles {
		if !vehicle.Taxable() {
			continue
		}
		if seen == index {
			return vehicle
		}
		seen++
	}
	return model.Vehicle{}
}

func suspendedVehicleAt(r *Request, index int) model.Vehicle {
	seen := 0
	for _, vehicle := range r.Group.Vehicles {
		if !vehicle.Suspended && vehicle.Category != model.CategorySuspended {
			continue
		}
		if seen == index {
			return vehicle
		}
		seen++
	}
	return model.Vehicle{}
}

// vehicleAmount returns the tax printed for one vehicle, taken from the
// assembled breakdown so summary-supplied amounts flow through unchanged.
func vehicleAmount(breakdown *model.TaxBreakdown, vehicle model.Vehicle) decimal.Decimal {
	if !vehicle.Taxable() {
		return decimal.Zero.Round(2)
	}
	line := breakdown.Line(vehicle.Category)
	if vehicle.Logging {
		return line.LoggingRate
	}
	return line.RegularRate
}
