package cart

import "github.com/ariefcatur/healtheek-storefront/internal/catalog"

type ActionType int

const (
	ActionAdd ActionType = iota
	ActionRemove
	ActionSetQuantity
	ActionClear
	ActionInitialize
)

func (a ActionType) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionRemove:
		return "remove"
	case ActionSetQuantity:
		return "set_quantity"
	case ActionClear:
		return "clear"
	case ActionInitialize:
		return "initialize"
	default:
		return "unknown"
	}
}

type Action struct {
	Type      ActionType
	Product   catalog.Product // ActionAdd
	ProductID string          // ActionRemove, ActionSetQuantity
	Quantity  int             // ActionSetQuantity; units for ActionAdd, 1 when < 1
	State     State           // ActionInitialize
}

// Reduce applies one action and returns a new state. The input state is not modified.
func Reduce(s State, a Action) State {
	switch a.Type {
	case ActionAdd:
		n := max(a.Quantity, 1)
		items := make([]Item, 0, len(s.Items)+1)
		found := false
		for _, it := range s.Items {
			if it.ID == a.Product.ID {
				it.Quantity += n
				found = true
			}
			items = append(items, it)
		}
		if !found {
			items = append(items, Item{Product: a.Product, Quantity: n})
		}
		return withTotal(items)

	case ActionRemove:
		return withTotal(without(s.Items, a.ProductID))

	case ActionSetQuantity:
		if a.Quantity <= 0 {
			return withTotal(without(s.Items, a.ProductID))
		}
		items := make([]Item, 0, len(s.Items))
		for _, it := range s.Items {
			if it.ID == a.ProductID {
				it.Quantity = a.Quantity
			}
			items = append(items, it)
		}
		return withTotal(items)

	case ActionClear:
		return Empty()

	case ActionInitialize:
		// Persisted totals are not trusted; drop invalid lines and recompute.
		items := make([]Item, 0, len(a.State.Items))
		for _, it := range a.State.Items {
			if it.ID == "" || it.Quantity < 1 {
				continue
			}
			items = append(items, it)
		}
		return withTotal(items)

	default:
		return s
	}
}

func without(items []Item, id string) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}
