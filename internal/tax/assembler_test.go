package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/hvut-filing/internal/model"
)

func augustGroup() model.MonthGroup {
	return model.MonthGroup{
		Month:    "202508",
		Business: model.Business{Name: "Acme Haulage", EIN: "123456789"},
		Vehicles: []model.Vehicle{
			{VIN: "1XKAD49X1KJ000001", Category: "A", FirstUsedMonth: "202508"},
			{VIN: "1XKAD49X1KJ000002", Category: "A", FirstUsedMonth: "202508"},
			{VIN: "1XKAD49X1KJ000003", Category: "A", FirstUsedMonth: "202508", Logging: true},
			{VIN: "1XKAD49X1KJ000004", Category: "W", FirstUsedMonth: "202508", Suspended: true},
		},
	}
}

func TestAssembleComputedRates(t *testing.T) {
	breakdown, err := Assemble(augustGroup(), nil, decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	lineA := breakdown.Line("A")
	assert.Equal(t, 2, lineA.RegularCount)
	assert.Equal(t, 1, lineA.LoggingCount)
	assert.Equal(t, "91.67", lineA.RegularRate.StringFixed(2))
	assert.Equal(t, "68.75", lineA.LoggingRate.StringFixed(2))
	// 2 * 91.67 + 68.75
	assert.Equal(t, "252.09", lineA.Subtotal.StringFixed(2))

	assert.Equal(t, "252.09", breakdown.Line2Tax.StringFixed(2))
	assert.Equal(t, "252.09", breakdown.Line4Total.StringFixed(2))
	assert.Equal(t, "252.09", breakdown.Line6Balance.StringFixed(2))

	assert.Equal(t, 4, breakdown.TotalVehicles)
	assert.Equal(t, 3, breakdown.TaxableVehicles)
	assert.Equal(t, 1, breakdown.SuspendedVehicles)
	assert.Equal(t, 1, breakdown.LoggingVehicles)
	assert.Equal(t, 3, breakdown.RegularVehicles)
}

// Summed per-vehicle tax matches the group total within rounding.
func TestAssembleLine2MatchesPerVehicleSum(t *testing.T) {
	group := augustGroup()
	breakdown, err := Assemble(group, nil, decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	sum := decimal.Zero
	for _, vehicle := range group.Vehicles {
		owed, err := TaxFor(vehicle)
		require.NoError(t, err)
		sum = sum.Add(owed)
	}

	diff := breakdown.Line2Tax.Sub(sum).Abs()
	assert.True(t, diff.LessThanOrEqual(decimal.RequireFromString("0.01")),
		"line2 %s vs per-vehicle sum %s", breakdown.Line2Tax, sum)
}

func TestAssembleBalanceFlooredAtZero(t *testing.T) {
	breakdown, err := Assemble(augustGroup(), nil, decimal.Zero, decimal.RequireFromString("9999.00"))
	require.NoError(t, err)

	assert.Equal(t, "9999.00", breakdown.Line5Credits.StringFixed(2))
	assert.Equal(t, "0.00", breakdown.Line6Balance.StringFixed(2))
}

func TestAssembleIncreaseAndCredits(t *testing.T) {
	breakdown, err := Assemble(
		augustGroup(),
		nil,
		decimal.RequireFromString("10.00"),
		decimal.RequireFromString("12.09"),
	)
	require.NoError(t, err)

	assert.Equal(t, "262.09", breakdown.Line4Total.StringFixed(2))
	assert.Equal(t, "250.00", breakdown.Line6Balance.StringFixed(2))
}

// Supplied summaries are authoritative: their subtotals flow through
// unchanged and the per-vehicle rate is derived from them.
func TestAssembleSummaryDrivenRates(t *testing.T) {
	summaries := map[model.WeightCategory]model.CategorySummary{
		"A": {
			RegularCount: 2,
			RegularTax:   decimal.RequireFromString("183.34"),
			LoggingCount: 1,
			LoggingTax:   decimal.RequireFromString("68.75"),
		},
	}

	breakdown, err := Assemble(augustGroup(), summaries, decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	lineA := breakdown.Line("A")
	assert.Equal(t, "91.67", lineA.RegularRate.StringFixed(2))
	assert.Equal(t, "68.75", lineA.LoggingRate.StringFixed(2))
	assert.Equal(t, "252.09", lineA.Subtotal.StringFixed(2))
}

func TestAssembleInconsistentSummaryRejected(t *testing.T) {
	summaries := map[model.WeightCategory]model.CategorySummary{
		"A": {
			RegularCount: 0,
			RegularTax:   decimal.RequireFromString("91.67"),
		},
	}

	_, err := Assemble(augustGroup(), summaries, decimal.Zero, decimal.Zero)
	assert.ErrorIs(t, err, ErrInconsistentSummary)
}
