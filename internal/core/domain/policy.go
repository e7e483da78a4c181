package domain

import "github.com/shopspring/decimal"

type ShippingRule struct {
	StandardFee   decimal.Decimal `json:"standardFee"`
	FreeThreshold decimal.Decimal `json:"freeThreshold"`
}

// Policy is the pricing and loyalty policy shared with client previews.
// The server is authoritative; clients only display it.
type Policy struct {
	Tiers    []TierThreshold `json:"tiers"`
	Shipping ShippingRule    `json:"shipping"`
}

func DefaultPolicy() Policy {
	return Policy{
		Tiers: Tiers(),
		Shipping: ShippingRule{
			StandardFee:   decimal.NewFromInt(30_000),
			FreeThreshold: decimal.NewFromInt(500_000),
		},
	}
}

// ShippingFee is free at or above the threshold and for empty orders.
func (p Policy) ShippingFee(subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() {
		return decimal.Zero
	}
	if subtotal.GreaterThanOrEqual(p.Shipping.FreeThreshold) {
		return decimal.Zero
	}
	return p.Shipping.StandardFee
}
