package catalog

// CountByCategory counts matching products per category id, aliases included.
func CountByCategory(products []Product, categories []Category) map[string]int {
	counts := make(map[string]int, len(categories))
	for _, c := range categories {
		counts[c.ID] = len(Canonical{Category: c}.Filter(products))
	}
	return counts
}

// CountFeatured is the size of the popular-products virtual category.
func CountFeatured(products []Product) int {
	return len(PopularProducts().Filter(products))
}
