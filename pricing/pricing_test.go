package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func line(price float64, qty int) Line {
	return Line{UnitPrice: decimal.NewFromFloat(price), Quantity: qty}
}

func TestCalculateBelowFreeShippingThreshold(t *testing.T) {
	q := Calculate([]Line{line(20, 2), line(30, 1)})

	assert.True(t, q.Subtotal.Equal(decimal.NewFromInt(70)), "subtotal = %s", q.Subtotal)
	assert.True(t, q.Tax.Equal(decimal.NewFromInt(7)), "tax = %s", q.Tax)
	assert.True(t, q.ShippingCost.Equal(decimal.NewFromInt(10)), "shipping = %s", q.ShippingCost)
	assert.True(t, q.Total.Equal(decimal.NewFromInt(87)), "total = %s", q.Total)
}

func TestCalculateFreeShipping(t *testing.T) {
	q := Calculate([]Line{line(150, 1)})

	assert.True(t, q.Subtotal.Equal(decimal.NewFromInt(150)))
	assert.True(t, q.Tax.Equal(decimal.NewFromInt(15)))
	assert.True(t, q.ShippingCost.IsZero())
	assert.True(t, q.Total.Equal(decimal.NewFromInt(165)))
}

func TestCalculateThresholdIsExclusive(t *testing.T) {
	// Shipping is waived only above the threshold, not at it.
	q := Calculate([]Line{line(100, 1)})
	assert.True(t, q.ShippingCost.Equal(decimal.NewFromInt(10)))

	q = Calculate([]Line{line(100.01, 1)})
	assert.True(t, q.ShippingCost.IsZero())
}

func TestCalculateTotalIdentity(t *testing.T) {
	q := Calculate([]Line{line(19.99, 3), line(4.25, 7)})
	assert.True(t, q.Total.Equal(q.Subtotal.Add(q.Tax).Add(q.ShippingCost)))
}

func TestCalculateCentPrices(t *testing.T) {
	q := Calculate([]Line{line(0.10, 3)})
	assert.True(t, q.Subtotal.Equal(decimal.RequireFromString("0.3")), "subtotal = %s", q.Subtotal)
	assert.True(t, q.Tax.Equal(decimal.RequireFromString("0.03")), "tax = %s", q.Tax)
}
