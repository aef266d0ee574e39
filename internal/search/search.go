// Package search narrows a recipe list down to what the household asked for:
// category checkboxes, a free-text search box and the highlighting of the
// searched words in what is displayed.
//
// Everything here is pure and synchronous. Calling Filter twice with the same
// inputs gives deep-equal results, and the input slices are never modified.
package search

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Document is the part of a recipe the search looks at.
type Document struct {
	Title       string
	Description string
	Ingredients []string
	Categories  []string
}

// Searchable is implemented by every recipe variant that can be filtered.
type Searchable interface {
	SearchDocument() Document
}

// Query is the state of the search toolbar.
type Query struct {
	Text       string
	Categories []string
}

// Result is the output of Filter.
type Result[T Searchable] struct {
	Recipes []T
	// Tokens are the words to highlight in the displayed text.
	Tokens []string
	// Categories counts the recipes of the unfiltered input per category.
	Categories map[string]int
}

// Filter applies the category filter, then the text search, to items.
func Filter[T Searchable](items []T, q Query, tz Tokenizer) Result[T] {
	tokens := tz.Tokenize(q.Text)
	return Result[T]{
		Recipes:    FilterSearch(FilterCategories(items, q.Categories), q.Text, tokens),
		Tokens:     tokens,
		Categories: CountCategories(items),
	}
}

// fold puts s in the form used for case-insensitive comparisons.
func fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
