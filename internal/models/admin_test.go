// internal/models/admin_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccountControlActionClosedSet(t *testing.T) {
	valid := []AccountControlAction{
		AccountActionFreeze, AccountActionUnfreeze,
		AccountActionLimitOrders, AccountActionRestoreOrders,
		AccountActionLimitWithdrawals, AccountActionRestoreWithdrawals,
	}
	for _, a := range valid {
		assert.True(t, ValidAccountControlAction(a), "%s", a)
	}

	assert.False(t, ValidAccountControlAction("ban"))
	assert.False(t, ValidAccountControlAction(""))
	assert.False(t, ValidAccountControlAction("FREEZE"))
}

func TestProductModerationActionClosedSet(t *testing.T) {
	for _, a := range []ProductModerationAction{
		ProductActionApprove, ProductActionReject, ProductActionHide, ProductActionFlag,
	} {
		assert.True(t, ValidProductModerationAction(a), "%s", a)
	}

	assert.False(t, ValidProductModerationAction("delete"))
	assert.False(t, ValidProductModerationAction(""))
}

func TestPricingRuleMatches(t *testing.T) {
	global := &PricingRule{Scope: PricingScopeGlobal, Active: true}
	assert.True(t, global.Matches("textiles", "NG"))
	assert.True(t, global.Matches("", ""))

	category := &PricingRule{Scope: PricingScopeCategory, Category: "textiles", Active: true}
	assert.True(t, category.Matches("textiles", "NG"))
	assert.False(t, category.Matches("electronics", "NG"))

	country := &PricingRule{Scope: PricingScopeCountry, Country: "BD", Active: true}
	assert.True(t, country.Matches("textiles", "BD"))
	assert.False(t, country.Matches("textiles", "NG"))

	inactive := &PricingRule{Scope: PricingScopeGlobal, Active: false}
	assert.False(t, inactive.Matches("", ""))
}

func TestProductPurchasable(t *testing.T) {
	p := &Product{Status: ProductStatusActive, BuyNowEnabled: true, MOQ: 10}

	assert.True(t, p.Purchasable(10))
	assert.True(t, p.Purchasable(50))
	assert.False(t, p.Purchasable(9))

	p.BuyNowEnabled = false
	assert.False(t, p.Purchasable(10))

	p.BuyNowEnabled = true
	p.Status = ProductStatusPendingReview
	assert.False(t, p.Purchasable(10))
}
