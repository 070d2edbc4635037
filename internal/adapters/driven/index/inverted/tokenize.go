package inverted

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
)

// Casers are stateful and must not be shared between goroutines.
var folders = sync.Pool{
	New: func() any {
		c := cases.Fold()
		return &c
	},
}

// Tokenize case-folds s and splits it on every rune that is not a letter or
// a digit.
func Tokenize(s string) []string {
	c := folders.Get().(*cases.Caser)
	folded := c.String(s)
	folders.Put(c)

	return strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// uniqueTokens returns the distinct tokens of s in first-seen order.
func uniqueTokens(s string) []string {
	tokens := Tokenize(s)
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
