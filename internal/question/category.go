package question

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// CategoryDelimiter separates words in a category tag.
const CategoryDelimiter = "_"

// HumanizeCategory turns a tag like "prepare_data" into "Prepare Data".
// Only the first rune of each word is changed.
func HumanizeCategory(category string) string {
	words := strings.Split(category, CategoryDelimiter)
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// Categories returns the distinct categories of qs in first-seen order.
func Categories(qs []Question) []string {
	seen := make(map[string]bool)
	var out []string
	for _, q := range qs {
		if seen[q.Category] {
			continue
		}
		seen[q.Category] = true
		out = append(out, q.Category)
	}
	return out
}
