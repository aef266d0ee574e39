package search

import (
	"github.com/samber/lo"
)

// CountCategories returns how many items carry each category. A category no
// item carries is absent from the map.
func CountCategories[T Searchable](items []T) map[string]int {
	counts := make(map[string]int)
	for _, item := range items {
		for _, category := range item.SearchDocument().Categories {
			counts[category]++
		}
	}
	return counts
}

// FilterCategories keeps the items carrying at least one of the selected
// categories. An empty selection keeps everything.
func FilterCategories[T Searchable](items []T, selected []string) []T {
	if len(selected) == 0 {
		return items
	}
	wanted := lo.Keyify(selected)
	return lo.Filter(items, func(item T, _ int) bool {
		return lo.SomeBy(item.SearchDocument().Categories, func(category string) bool {
			_, ok := wanted[category]
			return ok
		})
	})
}
