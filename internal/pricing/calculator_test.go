// internal/pricing/calculator_test.go
package pricing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banadama/banadama-backend/internal/apperrors"
	"github.com/banadama/banadama-backend/internal/models"
)

func TestCalculateDefaultFee(t *testing.T) {
	// 100 kobo x 10 units at 520 bps: fee truncates to 52.
	breakdown, err := Calculate(Input{UnitPrice: 100, Quantity: 10}, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(1000), breakdown.Subtotal)
	assert.Equal(t, int64(52), breakdown.FulfillmentFee)
	assert.Equal(t, int64(1052), breakdown.Total)
	assert.Equal(t, 520, breakdown.FeeBps)
}

func TestCalculateQuoteScenario(t *testing.T) {
	// 50 kobo x 10 units: subtotal 500, fee 26, total 526.
	breakdown, err := Calculate(Input{UnitPrice: 50, Quantity: 10}, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(500), breakdown.Subtotal)
	assert.Equal(t, int64(26), breakdown.FulfillmentFee)
	assert.Equal(t, int64(526), breakdown.Total)
}

func TestCalculateWithShipping(t *testing.T) {
	breakdown, err := Calculate(Input{UnitPrice: 100, Quantity: 10, ShippingEstimate: 200}, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(200), breakdown.ShippingEstimate)
	assert.Equal(t, int64(1252), breakdown.Total)
}

func TestCalculateFeeTruncates(t *testing.T) {
	// 199 x 1 at 520 bps = 10.348, truncated to 10. Never rounds up.
	breakdown, err := Calculate(Input{UnitPrice: 199, Quantity: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(10), breakdown.FulfillmentFee)
}

func TestCalculateValidation(t *testing.T) {
	cases := []struct {
		name string
		in   Input
	}{
		{"zero unit price", Input{UnitPrice: 0, Quantity: 1}},
		{"negative unit price", Input{UnitPrice: -5, Quantity: 1}},
		{"zero quantity", Input{UnitPrice: 100, Quantity: 0}},
		{"negative shipping", Input{UnitPrice: 100, Quantity: 1, ShippingEstimate: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Calculate(tc.in, nil)
			require.Error(t, err)
			assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
		})
	}
}

func TestCalculateRuleOverride(t *testing.T) {
	rules := []models.PricingRule{
		{Scope: models.PricingScopeCategory, Category: "textiles", FeeBps: 300, Active: true},
	}

	breakdown, err := Calculate(Input{UnitPrice: 100, Quantity: 10, Category: "textiles"}, rules)
	require.NoError(t, err)
	assert.Equal(t, int64(30), breakdown.FulfillmentFee)
	assert.Equal(t, 300, breakdown.FeeBps)

	// A non-matching category falls back to the default rate.
	breakdown, err = Calculate(Input{UnitPrice: 100, Quantity: 10, Category: "electronics"}, rules)
	require.NoError(t, err)
	assert.Equal(t, 520, breakdown.FeeBps)
}

func TestSelectRulePriority(t *testing.T) {
	low := models.PricingRule{Scope: models.PricingScopeGlobal, FeeBps: 400, Priority: 1, Active: true}
	high := models.PricingRule{Scope: models.PricingScopeCountry, Country: "BD", FeeBps: 250, Priority: 10, Active: true}
	low.ID = uuid.New()
	high.ID = uuid.New()

	picked := SelectRule([]models.PricingRule{low, high}, "", "BD")
	require.NotNil(t, picked)
	assert.Equal(t, high.ID, picked.ID)

	// Country rule does not match a different destination.
	picked = SelectRule([]models.PricingRule{low, high}, "", "NG")
	require.NotNil(t, picked)
	assert.Equal(t, low.ID, picked.ID)
}

func TestSelectRuleTieBreaksToNewest(t *testing.T) {
	older := models.PricingRule{Scope: models.PricingScopeGlobal, FeeBps: 400, Priority: 5, Active: true}
	newer := models.PricingRule{Scope: models.PricingScopeGlobal, FeeBps: 450, Priority: 5, Active: true}
	older.ID = uuid.New()
	newer.ID = uuid.New()
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer.CreatedAt = time.Now()

	picked := SelectRule([]models.PricingRule{older, newer}, "", "")
	require.NotNil(t, picked)
	assert.Equal(t, newer.ID, picked.ID)
}

func TestSelectRuleIgnoresInactive(t *testing.T) {
	inactive := models.PricingRule{Scope: models.PricingScopeGlobal, FeeBps: 100, Priority: 99, Active: false}

	assert.Nil(t, SelectRule([]models.PricingRule{inactive}, "", ""))
}
