package pricing

import "github.com/shopspring/decimal"

// Line is one priced entry: unit price times quantity.
type Line struct {
	UnitPrice float64
	Quantity  int
}

// Breakdown is what checkout displays and what gets stored on the order.
type Breakdown struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Calculator turns a list of lines into a price breakdown.
type Calculator interface {
	Calculate(lines []Line) Breakdown
}

// Subtotal sums unitPrice*quantity without rounding.
func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(decimal.NewFromFloat(l.UnitPrice).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

var (
	DefaultFreeShippingThreshold = decimal.NewFromInt(500)
	DefaultFlatShippingFee       = decimal.NewFromInt(50)
	DefaultTaxRate               = decimal.RequireFromString("0.18")
)

// Checkout charges a flat shipping fee unless the subtotal is strictly above
// FreeShippingAbove, and a tax rounded half-up to a whole currency unit.
type Checkout struct {
	FreeShippingAbove decimal.Decimal
	FlatShippingFee   decimal.Decimal
	TaxRate           decimal.Decimal
}

func NewCheckout(threshold, fee, rate float64) Checkout {
	return Checkout{
		FreeShippingAbove: decimal.NewFromFloat(threshold),
		FlatShippingFee:   decimal.NewFromFloat(fee),
		TaxRate:           decimal.NewFromFloat(rate),
	}
}

func DefaultCheckout() Checkout {
	return Checkout{
		FreeShippingAbove: DefaultFreeShippingThreshold,
		FlatShippingFee:   DefaultFlatShippingFee,
		TaxRate:           DefaultTaxRate,
	}
}

func (c Checkout) Calculate(lines []Line) Breakdown {
	subtotal := Subtotal(lines)
	shipping := c.FlatShippingFee
	if subtotal.GreaterThan(c.FreeShippingAbove) {
		shipping = decimal.Zero
	}
	// decimal.Round is half away from zero; totals are never negative.
	tax := subtotal.Mul(c.TaxRate).Round(0)
	return Breakdown{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}

// Simple is the cart preview: tax on the subtotal, no shipping line.
type Simple struct {
	TaxRate decimal.Decimal
}

func DefaultSimple() Simple { return Simple{TaxRate: DefaultTaxRate} }

func (s Simple) Calculate(lines []Line) Breakdown {
	subtotal := Subtotal(lines)
	tax := subtotal.Mul(s.TaxRate)
	return Breakdown{
		Subtotal: subtotal,
		Shipping: decimal.Zero,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}
