package search

import (
	"strings"
	"unicode"
)

// Words ignored when checking for verbatim matches. Besides common English
// words this includes words visitors add to a query that describe the medium
// rather than the piece.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "be": {}, "is": {}, "are": {}, "was": {},
	"to": {}, "of": {}, "and": {}, "in": {}, "that": {}, "it": {}, "for": {},
	"on": {}, "with": {}, "as": {}, "at": {}, "this": {}, "by": {}, "from": {},
	"painting": {}, "paintings": {}, "picture": {}, "artwork": {}, "work": {},
}

// tokenize lowercases text and splits it into words on anything that is not
// a letter or digit, dropping stop words.
func tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	filtered := words[:0]
	for _, word := range words {
		if _, stop := stopWords[word]; !stop {
			filtered = append(filtered, word)
		}
	}
	return filtered
}

// containsAllQueryWords reports whether every significant query word appears
// in document. A query made only of stop words never matches.
func containsAllQueryWords(document, query string) bool {
	queryWords := tokenize(query)
	if len(queryWords) == 0 {
		return false
	}

	docWords := make(map[string]struct{})
	for _, word := range tokenize(document) {
		docWords[word] = struct{}{}
	}

	for _, word := range queryWords {
		if _, ok := docWords[word]; !ok {
			return false
		}
	}
	return true
}
