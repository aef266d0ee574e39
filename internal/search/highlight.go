package search

import (
	"golang.org/x/text/unicode/norm"
)

// Segment is a piece of displayed text, highlighted or not.
type Segment struct {
	Text        string `json:"text"`
	Highlighted bool   `json:"highlighted"`
}

// Highlight splits text into segments so that every case-insensitive
// occurrence of a token is highlighted. Concatenating the segments gives back
// text unchanged. Overlapping or touching occurrences form one segment.
//
// Text and tokens are compared in the folded form Matches uses, so a letter
// followed by combining accents is highlighted as a whole.
func Highlight(text string, tokens []string) []Segment {
	clusters := splitClusters(text)

	// folded holds the folded runes of text; owner maps each of them back to
	// the cluster it came from.
	var (
		folded []rune
		owner  []int
	)
	for i, c := range clusters {
		for _, r := range fold(c) {
			folded = append(folded, r)
			owner = append(owner, i)
		}
	}

	marked := make([]bool, len(clusters))
	for _, token := range tokens {
		needle := []rune(fold(token))
		if len(needle) == 0 {
			continue
		}
		for start := 0; start+len(needle) <= len(folded); start++ {
			if !equalRunes(folded[start:start+len(needle)], needle) {
				continue
			}
			for i := start; i < start+len(needle); i++ {
				marked[owner[i]] = true
			}
		}
	}

	segments := make([]Segment, 0, 1)
	start := 0
	for i := 1; i <= len(clusters); i++ {
		if i < len(clusters) && marked[i] == marked[start] {
			continue
		}
		segments = append(segments, Segment{Text: joinClusters(clusters[start:i]), Highlighted: marked[start]})
		start = i
	}
	if len(segments) == 0 {
		segments = append(segments, Segment{Text: text})
	}
	return segments
}

// splitClusters cuts s at its NFC normalization boundaries, so that a base
// letter stays with the combining marks following it.
func splitClusters(s string) []string {
	var clusters []string
	for len(s) > 0 {
		n := norm.NFC.NextBoundaryInString(s, true)
		if n <= 0 {
			n = len(s)
		}
		clusters = append(clusters, s[:n])
		s = s[n:]
	}
	return clusters
}

func joinClusters(clusters []string) string {
	n := 0
	for _, c := range clusters {
		n += len(c)
	}
	b := make([]byte, 0, n)
	for _, c := range clusters {
		b = append(b, c...)
	}
	return string(b)
}

func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
