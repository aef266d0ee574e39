package search

import (
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

// Matches reports whether any token longer than one letter appears in the
// title, the description or one of the ingredient names of doc.
func Matches(doc Document, tokens []string) bool {
	title := fold(doc.Title)
	description := fold(doc.Description)
	ingredients := lo.Map(doc.Ingredients, func(name string, _ int) string {
		return fold(name)
	})

	for _, token := range tokens {
		if utf8.RuneCountInString(token) <= 1 {
			continue
		}
		token = fold(token)
		if strings.Contains(title, token) || strings.Contains(description, token) {
			return true
		}
		if lo.SomeBy(ingredients, func(name string) bool { return strings.Contains(name, token) }) {
			return true
		}
	}
	return false
}

// FilterSearch keeps the items matching tokens. An empty search text keeps
// everything; any other text without a usable token, spaces included, keeps
// nothing.
func FilterSearch[T Searchable](items []T, text string, tokens []string) []T {
	if text == "" {
		return items
	}
	return lo.Filter(items, func(item T, _ int) bool {
		return Matches(item.SearchDocument(), tokens)
	})
}
