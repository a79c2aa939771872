package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckoutTotal(t *testing.T) {
	tax, total := CheckoutTotal(100.00, 5.99, TaxRate)
	assert.Equal(t, 8.00, tax)
	assert.Equal(t, 113.99, total)
}

func TestCheckoutTotalRoundsTaxBeforeSumming(t *testing.T) {
	tax, total := CheckoutTotal(19.99, 5.99, TaxRate)
	assert.Equal(t, 1.60, tax) // 1.5992 rounds up
	assert.Equal(t, 27.58, total)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.01, Round2(1.006))
	assert.Equal(t, 1.0, Round2(1.0049))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, 113.99, Round2(113.98999999999))
	assert.Equal(t, -2.35, Round2(-2.346))
}
