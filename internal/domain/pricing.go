package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// PricingPolicy holds the checkout-wide charges applied on top of line totals.
type PricingPolicy struct {
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
}

func DefaultPricing() PricingPolicy {
	return PricingPolicy{
		TaxRate:               decimal.RequireFromString("0.10"),
		FreeShippingThreshold: decimal.NewFromInt(10000),
		ShippingFee:           decimal.NewFromInt(500),
	}
}

type CostBreakdown struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

type PricedLine struct {
	UnitPrice decimal.Decimal
	Quantity  int64
}

func (l PricedLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// DiscountedUnitPrice applies a percentage discount and rounds to cents.
func DiscountedUnitPrice(price, discountPercent decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(discountPercent.Div(hundred))
	return price.Mul(factor).Round(2)
}

// Quote totals the lines. Shipping is free only when the subtotal is strictly
// above the threshold. Every component is rounded to cents so that
// Subtotal+Tax+Shipping equals Total exactly.
func (p PricingPolicy) Quote(lines []PricedLine) CostBreakdown {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Total())
	}
	subtotal = subtotal.Round(2)

	tax := subtotal.Mul(p.TaxRate).Round(2)
	shipping := p.ShippingFee.Round(2)
	if subtotal.GreaterThan(p.FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	return CostBreakdown{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping),
	}
}
