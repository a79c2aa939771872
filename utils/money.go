package utils

import "math"

// TaxRate applied to the cart subtotal at checkout.
const TaxRate = 0.08

// DefaultShippingFee is the flat shipping rate charged per order.
const DefaultShippingFee = 5.99

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CheckoutTotal computes the tax and grand total for an order. The tax is
// rounded before it enters the total so the displayed lines sum exactly.
func CheckoutTotal(subtotal, shipping, taxRate float64) (tax, total float64) {
	tax = Round2(subtotal * taxRate)
	total = Round2(subtotal + shipping + tax)
	return tax, total
}
