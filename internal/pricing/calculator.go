// internal/pricing/calculator.go
package pricing

import (
	"math"

	"github.com/banadama/banadama-backend/internal/apperrors"
	"github.com/banadama/banadama-backend/internal/models"
)

// DefaultFeeBps is the platform fulfillment fee applied when no pricing rule
// overrides it: 520 basis points (5.2%).
const DefaultFeeBps = 520

// Input describes one quote or order to price. All amounts are in kobo.
type Input struct {
	UnitPrice          int64
	Quantity           int
	Category           string
	OriginCountry      string
	DestinationCountry string
	ServiceTier        models.ServiceTier
	ShippingEstimate   int64
}

// Breakdown is the priced result stored as the order's pricing snapshot.
type Breakdown struct {
	Subtotal         int64 `json:"subtotal"`
	FulfillmentFee   int64 `json:"fulfillment_fee"`
	ShippingEstimate int64 `json:"shipping_estimate"`
	PlatformFee      int64 `json:"platform_fee"`
	Total            int64 `json:"total"`
	FeeBps           int   `json:"fee_bps"`
	RuleID           string `json:"rule_id,omitempty"`
}

// ToJSONB renders the breakdown for persistence in a jsonb column.
func (b Breakdown) ToJSONB() models.JSONB {
	m := models.JSONB{
		"subtotal":          b.Subtotal,
		"fulfillment_fee":   b.FulfillmentFee,
		"shipping_estimate": b.ShippingEstimate,
		"platform_fee":      b.PlatformFee,
		"total":             b.Total,
		"fee_bps":           b.FeeBps,
	}
	if b.RuleID != "" {
		m["rule_id"] = b.RuleID
	}
	return m
}

// SelectRule picks the active rule matching the input's category or
// destination country. Highest Priority wins; ties break to the most recent
// CreatedAt. Returns nil when nothing matches.
func SelectRule(rules []models.PricingRule, category, country string) *models.PricingRule {
	var best *models.PricingRule
	for i := range rules {
		r := &rules[i]
		if !r.Matches(category, country) {
			continue
		}
		if best == nil ||
			r.Priority > best.Priority ||
			(r.Priority == best.Priority && r.CreatedAt.After(best.CreatedAt)) {
			best = r
		}
	}
	return best
}

// Calculate prices an input. Pure: no side effects, no persistence. Rules are
// passed in by the caller; an empty slice yields the default fee rate.
func Calculate(in Input, rules []models.PricingRule) (Breakdown, error) {
	if in.UnitPrice <= 0 {
		return Breakdown{}, apperrors.Validation("unit price must be positive")
	}
	if in.Quantity < 1 {
		return Breakdown{}, apperrors.Validation("quantity must be at least 1")
	}
	if in.ShippingEstimate < 0 {
		return Breakdown{}, apperrors.Validation("shipping estimate cannot be negative")
	}
	if in.UnitPrice > math.MaxInt64/int64(in.Quantity) {
		return Breakdown{}, apperrors.Validation("order value overflows the kobo ledger")
	}

	subtotal := in.UnitPrice * int64(in.Quantity)

	feeBps := DefaultFeeBps
	platformBps := 0
	ruleID := ""
	if rule := SelectRule(rules, in.Category, in.DestinationCountry); rule != nil {
		feeBps = rule.FeeBps
		platformBps = rule.PlatformFeeBps
		ruleID = rule.ID.String()
	}

	fee := subtotal * int64(feeBps) / 10000
	platformFee := subtotal * int64(platformBps) / 10000
	total := subtotal + fee + in.ShippingEstimate + platformFee
	if total < 0 {
		return Breakdown{}, apperrors.Validation("computed total is negative")
	}

	return Breakdown{
		Subtotal:         subtotal,
		FulfillmentFee:   fee,
		ShippingEstimate: in.ShippingEstimate,
		PlatformFee:      platformFee,
		Total:            total,
		FeeBps:           feeBps,
		RuleID:           ruleID,
	}, nil
}
