package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCheckout_BelowThresholdChargesShipping(t *testing.T) {
	b := DefaultCheckout().Calculate([]Line{{UnitPrice: 100, Quantity: 2}, {UnitPrice: 50, Quantity: 1}})

	assert.True(t, b.Subtotal.Equal(dec("250")))
	assert.True(t, b.Shipping.Equal(dec("50")))
	assert.True(t, b.Tax.Equal(dec("45")))
	assert.True(t, b.Total.Equal(dec("345")))
}

func TestCheckout_FreeShippingIsStrictlyAboveThreshold(t *testing.T) {
	at := DefaultCheckout().Calculate([]Line{{UnitPrice: 500, Quantity: 1}})
	assert.True(t, at.Shipping.Equal(dec("50")), "500 is not > 500")

	above := DefaultCheckout().Calculate([]Line{{UnitPrice: 501, Quantity: 1}})
	assert.True(t, above.Shipping.IsZero())
	assert.True(t, above.Tax.Equal(dec("90"))) // 90.18
	assert.True(t, above.Total.Equal(dec("591")))
}

func TestCheckout_EmptyCart(t *testing.T) {
	b := DefaultCheckout().Calculate(nil)

	assert.True(t, b.Subtotal.IsZero())
	assert.True(t, b.Tax.IsZero())
	assert.True(t, b.Shipping.Equal(dec("50")))
	assert.True(t, b.Total.Equal(b.Shipping))
}

func TestCheckout_TaxRoundsHalfUp(t *testing.T) {
	// 25 * 0.18 = 4.5
	b := DefaultCheckout().Calculate([]Line{{UnitPrice: 25, Quantity: 1}})
	assert.True(t, b.Tax.Equal(dec("5")))

	// 24 * 0.18 = 4.32
	b = DefaultCheckout().Calculate([]Line{{UnitPrice: 24, Quantity: 1}})
	assert.True(t, b.Tax.Equal(dec("4")))
}

func TestCheckout_CustomConstants(t *testing.T) {
	c := NewCheckout(1000, 80, 0.05)
	b := c.Calculate([]Line{{UnitPrice: 600, Quantity: 1}})

	assert.True(t, b.Shipping.Equal(dec("80")))
	assert.True(t, b.Tax.Equal(dec("30")))
	assert.True(t, b.Total.Equal(dec("710")))
}

func TestSimple(t *testing.T) {
	b := DefaultSimple().Calculate([]Line{{UnitPrice: 100, Quantity: 2}, {UnitPrice: 50, Quantity: 1}})

	assert.True(t, b.Subtotal.Equal(dec("250")))
	assert.True(t, b.Shipping.IsZero())
	assert.True(t, b.Tax.Equal(dec("45")))
	assert.True(t, b.Total.Equal(dec("295")))

	empty := DefaultSimple().Calculate(nil)
	assert.True(t, empty.Total.IsZero())
}

func TestSubtotalIsUnrounded(t *testing.T) {
	lines := []Line{{UnitPrice: 19.99, Quantity: 3}, {UnitPrice: 0.01, Quantity: 1}}
	assert.True(t, Subtotal(lines).Equal(dec("59.98")))
}

func TestTotalNeverBelowSubtotal(t *testing.T) {
	calcs := []Calculator{DefaultCheckout(), DefaultSimple()}
	inputs := [][]Line{
		nil,
		{{UnitPrice: 1, Quantity: 1}},
		{{UnitPrice: 1299, Quantity: 4}, {UnitPrice: 0.5, Quantity: 7}},
	}
	for _, c := range calcs {
		for _, in := range inputs {
			b := c.Calculate(in)
			assert.True(t, b.Subtotal.Equal(Subtotal(in)))
			assert.True(t, b.Total.GreaterThanOrEqual(b.Subtotal))
		}
	}
}
