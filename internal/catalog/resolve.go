package catalog

const (
	// AllCategories is the query value that disables category filtering.
	AllCategories = "all"
	// PopularProductsID is a virtual category: membership is product.Featured.
	PopularProductsID   = "popular-products"
	popularProductsName = "Popular Products"
)

// aliasGroups lists labels that historical product records use for the same
// category. Any label in a group matches every other label in it.
var aliasGroups = [][]string{
	{"Smart Formulas", "Smart Formula's", "smart-formula-2025"},
	{"Prime Formulas", "Prime Formula's", "prime-formula"},
	{"Business Tools", "business-tools"},
}

var aliasIndex = buildAliasIndex(aliasGroups)

func buildAliasIndex(groups [][]string) map[string][]string {
	idx := make(map[string][]string)
	for _, g := range groups {
		for _, label := range g {
			idx[label] = g
		}
	}
	return idx
}

// Canonical is a category a raw identifier resolved to.
type Canonical struct {
	Category
	// Virtual categories are not stored; they match by predicate only.
	Virtual bool `json:"virtual,omitempty"`
}

// PopularProducts returns the synthetic featured-products category.
func PopularProducts() Canonical {
	return Canonical{
		Category: Category{ID: PopularProductsID, Name: popularProductsName},
		Virtual:  true,
	}
}

// Resolve maps a raw identifier to a category: the virtual popular-products
// id first, then exact id match, then exact name match.
func Resolve(raw string, categories []Category) (Canonical, error) {
	if raw == PopularProductsID {
		return PopularProducts(), nil
	}
	for _, c := range categories {
		if c.ID == raw {
			return Canonical{Category: c}, nil
		}
	}
	for _, c := range categories {
		if c.Name == raw {
			return Canonical{Category: c}, nil
		}
	}
	return Canonical{}, ErrNotFound
}

// Matches reports whether a product belongs to the category.
func (c Canonical) Matches(p Product) bool {
	if c.Virtual {
		return p.Featured
	}
	if c.Name == popularProductsName && p.Featured {
		return true
	}
	if p.Category == "" {
		return false
	}
	if p.Category == c.ID || p.Category == c.Name {
		return true
	}
	return inGroup(c.Name, p.Category) || inGroup(c.ID, p.Category)
}

func inGroup(label, candidate string) bool {
	for _, alias := range aliasIndex[label] {
		if alias == candidate {
			return true
		}
	}
	return false
}

// Filter returns the products that belong to c, in input order.
func (c Canonical) Filter(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if c.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}
