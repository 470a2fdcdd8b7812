package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/hvut-filing/internal/model"
)

func TestRatesAllCategoriesPresent(t *testing.T) {
	require.Len(t, model.WeightCategories, 23)

	for _, category := range model.WeightCategories {
		rates, err := Rates(category)
		require.NoError(t, err, "category %s", category)

		if category == model.CategorySuspended {
			assert.True(t, rates.Regular.IsZero(), "W regular rate must be zero")
			assert.True(t, rates.Logging.IsZero(), "W logging rate must be zero")
			continue
		}
		assert.True(t, rates.Regular.IsPositive(), "category %s", category)
		assert.True(t, rates.Logging.IsPositive(), "category %s", category)
		assert.True(t, rates.Logging.LessThan(rates.Regular), "logging rate is reduced for %s", category)
	}
}

func TestRatesKnownValues(t *testing.T) {
	a, err := Rates("A")
	require.NoError(t, err)
	assert.True(t, a.Regular.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, a.Logging.Equal(decimal.RequireFromString("75.00")))

	v, err := Rates("V")
	require.NoError(t, err)
	assert.True(t, v.Regular.Equal(decimal.RequireFromString("550.00")))
	assert.True(t, v.Logging.Equal(decimal.RequireFromString("412.50")))
}

func TestRatesUnknownCategory(t *testing.T) {
	_, err := Rates("Z")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}
