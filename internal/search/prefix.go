package search

import (
	"github.com/samber/lo"
)

// FilterPrefix keeps the items whose key and text agree, case-insensitively,
// on their common leading letters. It backs the catalog search boxes, which
// narrow the list letter by letter as the user types.
func FilterPrefix[T any](items []T, text string, key func(T) string) []T {
	if text == "" {
		return items
	}
	needle := []rune(fold(text))
	return lo.Filter(items, func(item T, _ int) bool {
		candidate := []rune(fold(key(item)))
		n := min(len(candidate), len(needle))
		return equalRunes(candidate[:n], needle[:n])
	})
}
