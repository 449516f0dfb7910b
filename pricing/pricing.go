// Package pricing computes order totals. All arithmetic runs on
// shopspring/decimal; values are converted to floats only when an order is
// stored or presented.
package pricing

import (
	"github.com/shopspring/decimal"
)

var (
	// TaxRate is applied to the subtotal of every order.
	TaxRate = decimal.NewFromFloat(0.10)
	// FreeShippingThreshold is the subtotal above which shipping is waived.
	FreeShippingThreshold = decimal.NewFromInt(100)
	// ShippingFee is the flat fee charged below the threshold.
	ShippingFee = decimal.NewFromInt(10)
)

// Line is one priced order line.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Quote is the money breakdown of an order. Total = Subtotal + Tax +
// ShippingCost always holds.
type Quote struct {
	Subtotal     decimal.Decimal
	Tax          decimal.Decimal
	ShippingCost decimal.Decimal
	Total        decimal.Decimal
}

// Calculate prices a set of lines: subtotal is the sum of unit price times
// quantity, tax is a fixed rate on the subtotal, and shipping is free only
// when the subtotal exceeds the threshold.
func Calculate(lines []Line) Quote {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	tax := subtotal.Mul(TaxRate)
	shipping := ShippingFee
	if subtotal.GreaterThan(FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	return Quote{
		Subtotal:     subtotal,
		Tax:          tax,
		ShippingCost: shipping,
		Total:        subtotal.Add(tax).Add(shipping),
	}
}
