// Package keywords picks the most frequent meaningful words of an article.
package keywords

import (
	"regexp"
	"sort"
	"strings"
)

// MaxKeywords is how many keywords Extract returns at most.
const MaxKeywords = 5

var (
	// wordRe finds whole words, so a word glued to digits or accented
	// letters is seen as one token and rejected by keywordRe.
	wordRe    = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	keywordRe = regexp.MustCompile(`^[a-z]{4,}$`)
)

var stopwords = map[string]bool{
	"that": true, "with": true, "have": true, "this": true, "will": true,
	"been": true, "their": true, "said": true, "each": true, "which": true,
	"from": true, "they": true, "more": true,
}

// IsStopword reports whether w is ignored by Extract.
func IsStopword(w string) bool {
	return stopwords[w]
}

// Extract returns up to MaxKeywords lowercase words of 4+ letters, most
// frequent first. Ties keep the order of first appearance.
func Extract(text string) []string {
	counts := make(map[string]int)
	var order []string

	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if !keywordRe.MatchString(w) || stopwords[w] {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > MaxKeywords {
		order = order[:MaxKeywords]
	}
	return order
}
