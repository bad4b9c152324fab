// Package sanitize strips markup-like sequences from free text before it is
// stored or handed to a render surface.
package sanitize

import (
	"regexp"
	"strings"
)

var scriptBlock = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)

// Clean removes script blocks and every remaining angle bracket from s.
// It is pure and idempotent: Clean(Clean(s)) == Clean(s).
func Clean(s string) string {
	s = scriptBlock.ReplaceAllString(s, "")
	return strings.Map(func(r rune) rune {
		if r == '<' || r == '>' {
			return -1
		}
		return r
	}, s)
}

// CleanAll applies Clean to every element of ss, in place, and returns ss.
func CleanAll(ss []string) []string {
	for i, s := range ss {
		ss[i] = Clean(s)
	}
	return ss
}
