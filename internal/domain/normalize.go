package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// NormalizeQuery prepares a search query for comparison and cache keys:
// surrounding whitespace is trimmed, inner runs of whitespace collapse to one
// space and the text is case folded. Diacritics are preserved.
// A Caser is stateful, so one is built per call.
func NormalizeQuery(q string) string {
	fields := strings.Fields(q)
	if len(fields) == 0 {
		return ""
	}
	return cases.Fold().String(strings.Join(fields, " "))
}
