package search

import (
	"regexp"
	"strings"
)

// DefaultPunctuation lists the characters deleted from the search text.
const DefaultPunctuation = "…~`!@#$%^&*(){}[];:\"'<,.>?/\\|_+=-"

// Space separators such as the no-break space count as whitespace.
var whitespaceRun = regexp.MustCompile(`[\s\p{Zs}]{2,}`)

// Tokenizer turns the raw search text into the words used for matching and
// highlighting. The zero value deletes nothing and keeps every word.
type Tokenizer struct {
	Punctuation string
	Stopwords   map[string]struct{}
}

// DefaultTokenizer returns the tokenizer configured for French recipes.
func DefaultTokenizer() Tokenizer {
	return Tokenizer{
		Punctuation: DefaultPunctuation,
		Stopwords:   FrenchStopwords(),
	}
}

// Tokenize deletes punctuation (without inserting a separator), collapses
// whitespace runs, splits on spaces, lower-cases and drops stopwords.
//
// Single-letter tokens are kept; Matches ignores them but Highlight does not.
func (t Tokenizer) Tokenize(text string) []string {
	stripped := strings.Map(func(r rune) rune {
		if strings.ContainsRune(t.Punctuation, r) {
			return -1
		}
		return r
	}, text)
	collapsed := whitespaceRun.ReplaceAllString(stripped, " ")

	words := strings.Split(collapsed, " ")
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		word = fold(word)
		if word == "" {
			continue
		}
		if _, stop := t.Stopwords[word]; stop {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}
