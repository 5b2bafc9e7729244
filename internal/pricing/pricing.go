package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/simpleshop/storefront-core/internal/cart"
)

// Totals is the priced view of a cart at a point in time.
type Totals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// Calculator computes totals from cart contents. It is pure: same items in,
// same totals out, no side effects.
type Calculator struct {
	flatShippingFee decimal.Decimal
}

// NewCalculator builds a calculator charging the given flat shipping fee on
// any non-empty subtotal. The fee is the one configured value used wherever
// totals are shown or submitted.
func NewCalculator(flatShippingFee decimal.Decimal) Calculator {
	return Calculator{flatShippingFee: flatShippingFee}
}

// Totals sums unit price times quantity across all line items at two decimal
// places of currency precision. Shipping is the flat fee when the subtotal is
// positive and zero otherwise.
func (c Calculator) Totals(items []cart.LineItem) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		line := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}
	subtotal = subtotal.Round(2)

	shipping := decimal.Zero
	if subtotal.IsPositive() {
		shipping = c.flatShippingFee
	}

	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal.Add(shipping),
	}
}
