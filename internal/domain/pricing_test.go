package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDiscountedUnitPrice(t *testing.T) {
	tests := []struct {
		price, discount, want string
	}{
		{"100", "10", "90"},
		{"100", "0", "100"},
		{"19.99", "15", "16.99"},
		{"50", "100", "0"},
	}
	for _, tt := range tests {
		got := DiscountedUnitPrice(dec(tt.price), dec(tt.discount))
		assert.True(t, dec(tt.want).Equal(got), "price %s discount %s: got %s", tt.price, tt.discount, got)
	}
}

func TestQuote(t *testing.T) {
	policy := DefaultPricing()

	t.Run("below threshold pays flat fee", func(t *testing.T) {
		unit := DiscountedUnitPrice(dec("100"), dec("10"))
		q := policy.Quote([]PricedLine{{UnitPrice: unit, Quantity: 2}})
		assert.True(t, dec("180").Equal(q.Subtotal))
		assert.True(t, dec("18").Equal(q.Tax))
		assert.True(t, policy.ShippingFee.Equal(q.Shipping))
		assert.True(t, dec("180").Add(dec("18")).Add(policy.ShippingFee).Equal(q.Total))
	})

	t.Run("threshold itself is not free", func(t *testing.T) {
		p := PricingPolicy{TaxRate: dec("0.1"), FreeShippingThreshold: dec("100"), ShippingFee: dec("10")}
		q := p.Quote([]PricedLine{{UnitPrice: dec("100"), Quantity: 1}})
		assert.True(t, dec("10").Equal(q.Shipping))
		assert.True(t, dec("120").Equal(q.Total))
	})

	t.Run("above threshold ships free", func(t *testing.T) {
		p := PricingPolicy{TaxRate: dec("0.1"), FreeShippingThreshold: dec("100"), ShippingFee: dec("10")}
		q := p.Quote([]PricedLine{{UnitPrice: dec("60"), Quantity: 1}, {UnitPrice: dec("20.50"), Quantity: 2}})
		assert.True(t, dec("101").Equal(q.Subtotal))
		assert.True(t, dec("10.1").Equal(q.Tax))
		assert.True(t, q.Shipping.IsZero())
		assert.True(t, dec("111.1").Equal(q.Total))
	})

	t.Run("components always add up", func(t *testing.T) {
		q := policy.Quote([]PricedLine{{UnitPrice: dec("3.33"), Quantity: 7}, {UnitPrice: dec("0.01"), Quantity: 1}})
		assert.True(t, q.Subtotal.Add(q.Tax).Add(q.Shipping).Equal(q.Total))
		assert.True(t, dec("2.33").Equal(q.Tax))
	})
}

func TestPage(t *testing.T) {
	p := NewPage(0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.Limit)
	assert.Equal(t, MaxPageSize, NewPage(2, 1000).Limit)

	p = NewPage(3, 10)
	assert.Equal(t, 20, p.Offset())
	assert.Equal(t, int64(3), p.Of(21).TotalPages)
	assert.Equal(t, int64(2), p.Of(20).TotalPages)
}
