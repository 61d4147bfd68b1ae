package catalog

import (
	"cmp"
	"slices"
	"strings"
)

const PageSize = 12

// Sort keys accepted by Query. Anything else falls back to featured-first.
const (
	SortPriceLow  = "price-low"
	SortPriceAsc  = "price-asc"
	SortPriceHigh = "price-high"
	SortPriceDesc = "price-desc"
	SortNameAsc   = "name-asc"
	SortNameDesc  = "name-desc"
	SortRating    = "rating"
	// SortNewest orders isNew products first; products carry no creation-time ordering yet.
	SortNewest  = "newest"
	SortDefault = "default"
)

type Params struct {
	CategoryID string
	Search     string
	Sort       string
	// Page is 1-based; zero means the first page.
	Page int
}

type Result struct {
	Products   []Product `json:"products"`
	TotalCount int       `json:"totalCount"`
	TotalPages int       `json:"totalPages"`
	Page       int       `json:"page"`
}

// Query filters by category, then by search text, then sorts and paginates.
// The input slice is never modified.
func Query(products []Product, categories []Category, p Params) Result {
	out := products
	if p.CategoryID != "" && p.CategoryID != AllCategories {
		c, err := Resolve(p.CategoryID, categories)
		if err != nil {
			out = nil
		} else {
			out = c.Filter(out)
		}
	}
	return paginate(sortProducts(Search(out, p.Search), p.Sort), p.Page)
}

// QueryCategory runs the pipeline against an already resolved category.
func QueryCategory(products []Product, c Canonical, p Params) Result {
	return paginate(sortProducts(Search(c.Filter(products), p.Search), p.Sort), p.Page)
}

// Search keeps products whose name, description or subtitle contains text,
// case-insensitively. Blank text keeps everything.
func Search(products []Product, text string) []Product {
	q := strings.ToLower(strings.TrimSpace(text))
	if q == "" {
		return products
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Subtitle), q) {
			out = append(out, p)
		}
	}
	return out
}

func sortProducts(products []Product, key string) []Product {
	out := slices.Clone(products)
	slices.SortStableFunc(out, comparator(key))
	return out
}

func comparator(key string) func(a, b Product) int {
	switch key {
	case SortPriceLow, SortPriceAsc:
		return func(a, b Product) int { return cmp.Compare(a.PrimePrice, b.PrimePrice) }
	case SortPriceHigh, SortPriceDesc:
		return func(a, b Product) int { return cmp.Compare(b.PrimePrice, a.PrimePrice) }
	case SortNameAsc:
		return func(a, b Product) int { return strings.Compare(a.Name, b.Name) }
	case SortNameDesc:
		return func(a, b Product) int { return strings.Compare(b.Name, a.Name) }
	case SortRating:
		return func(a, b Product) int { return cmp.Compare(b.Rating, a.Rating) }
	case SortNewest:
		return func(a, b Product) int { return trueFirst(a.IsNew, b.IsNew) }
	default:
		return func(a, b Product) int { return trueFirst(a.Featured, b.Featured) }
	}
}

func trueFirst(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}

func paginate(products []Product, page int) Result {
	total := len(products)
	pages := (total + PageSize - 1) / PageSize
	if pages < 1 {
		pages = 1
	}
	if page == 0 {
		page = 1
	}
	res := Result{Products: []Product{}, TotalCount: total, TotalPages: pages, Page: page}
	if page < 1 || page > pages {
		return res
	}
	start := (page - 1) * PageSize
	if start >= total {
		return res
	}
	end := min(start+PageSize, total)
	res.Products = slices.Clone(products[start:end])
	return res
}
