package cart

import (
	"github.com/ariefcatur/healtheek-storefront/internal/catalog"
	"github.com/ariefcatur/healtheek-storefront/internal/pricing"
)

// Item is a product in the cart. Quantity is at least 1 while the item is present.
type Item struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

type State struct {
	Items []Item  `json:"items"`
	Total float64 `json:"total"` // sum of primePrice*quantity, always derived
}

func Empty() State { return State{Items: []Item{}} }

// Lines converts the items into pricing lines at their prime price.
func (s State) Lines() []pricing.Line {
	out := make([]pricing.Line, 0, len(s.Items))
	for _, it := range s.Items {
		out = append(out, pricing.Line{UnitPrice: it.PrimePrice, Quantity: it.Quantity})
	}
	return out
}

func (s State) Count() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

func (s State) IsEmpty() bool { return len(s.Items) == 0 }

func withTotal(items []Item) State {
	s := State{Items: items}
	s.Total = pricing.Subtotal(s.Lines()).InexactFloat64()
	return s
}
