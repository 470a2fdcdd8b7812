package tax

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/hvut-filing/internal/model"
)

func TestTaxForProration(t *testing.T) {
	cases := []struct {
		name    string
		vehicle model.Vehicle
		want    string
	}{
		{
			name:    "july full year",
			vehicle: model.Vehicle{Category: "A", FirstUsedMonth: "202507"},
			want:    "100.00",
		},
		{
			name:    "august eleven months",
			vehicle: model.Vehicle{Category: "A", FirstUsedMonth: "202508"},
			want:    "91.67",
		},
		{
			name:    "september ten months",
			vehicle: model.Vehicle{Category: "A", FirstUsedMonth: "202509"},
			want:    "83.33",
		},
		{
			name:    "october logging reduced rate",
			vehicle: model.Vehicle{Category: "C", FirstUsedMonth: "202510", Logging: true},
			want:    "81.00",
		},
		{
			name:    "june single month",
			vehicle: model.Vehicle{Category: "A", FirstUsedMonth: "202606"},
			want:    "8.33",
		},
		{
			name:    "suspended owes nothing",
			vehicle: model.Vehicle{Category: "A", FirstUsedMonth: "202507", Suspended: true},
			want:    "0.00",
		},
		{
			name:    "agricultural owes nothing",
			vehicle: model.Vehicle{Category: "V", FirstUsedMonth: "202507", Agricultural: true, Logging: true},
			want:    "0.00",
		},
		{
			name:    "category W owes nothing",
			vehicle: model.Vehicle{Category: "W", FirstUsedMonth: "202507"},
			want:    "0.00",
		},
		{
			name:    "unparseable month owes nothing",
			vehicle: model.Vehicle{Category: "A", FirstUsedMonth: "2025xx"},
			want:    "0.00",
		},
		{
			name:    "short month value owes nothing",
			vehicle: model.Vehicle{Category: "A", FirstUsedMonth: "7"},
			want:    "0.00",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := TaxFor(tc.vehicle)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.StringFixed(2))
		})
	}
}

func TestTaxForUnknownCategory(t *testing.T) {
	_, err := TaxFor(model.Vehicle{Category: "9", FirstUsedMonth: "202507"})
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

// Proration never increases as the first-used month advances through the
// period, except for the reset at July.
func TestTaxForMonotonicWithinPeriod(t *testing.T) {
	periodMonths := []string{
		"202507", "202508", "202509", "202510", "202511", "202512",
		"202601", "202602", "202603", "202604", "202605", "202606",
	}

	previous := ""
	for _, month := range periodMonths {
		got, err := TaxFor(model.Vehicle{Category: "K", FirstUsedMonth: month})
		require.NoError(t, err)
		if previous != "" {
			assert.LessOrEqual(t, got.InexactFloat64(), mustFloat(previous),
				"month %s must not owe more than the month before", month)
		}
		previous = got.StringFixed(2)
	}
}

func mustFloat(value string) float64 {
	var f float64
	_, err := fmt.Sscanf(value, "%f", &f)
	if err != nil {
		panic(err)
	}
	return f
}

func TestMonthsRemaining(t *testing.T) {
	assert.Equal(t, 12, MonthsRemaining("202507"))
	assert.Equal(t, 9, MonthsRemaining("202510"))
	assert.Equal(t, 7, MonthsRemaining("202512"))
	assert.Equal(t, 6, MonthsRemaining("202601"))
	assert.Equal(t, 1, MonthsRemaining("202606"))
	assert.Equal(t, 0, MonthsRemaining(""))
	assert.Equal(t, 0, MonthsRemaining("202500"))
	assert.Equal(t, 0, MonthsRemaining("2025-07"))
	assert.Equal(t, 0, MonthsRemaining("202513"))
}
