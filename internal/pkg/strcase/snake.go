// Package strcase converts Go identifiers for use in API field names.
package strcase

import (
	"strings"
	"unicode"
)

// ToLowerSnake turns a Go identifier into snake_case and keeps initialisms
// whole: VoterAddress becomes voter_address, CandidateID becomes
// candidate_id and HTTPServer becomes http_server.
func ToLowerSnake(s string) string {
	rs := []rune(s)

	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range rs {
		if i > 0 && unicode.IsUpper(r) && startsWord(rs, i) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

func startsWord(rs []rune, i int) bool {
	prev := rs[i-1]
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	// last capital of an initialism followed by a word
	return unicode.IsUpper(prev) && i+1 < len(rs) && unicode.IsLower(rs[i+1])
}
