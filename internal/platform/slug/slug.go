package slug

import (
	"regexp"
	"strings"
)

var (
	nonAlphaNum = regexp.MustCompile(`[^a-z0-9]+`)
	umlauts     = strings.NewReplacer("ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss")
)

// Make turns stand and ground names into file-safe slugs. German umlauts
// are transliterated so "Hochsitz Buchenhöhe" becomes "hochsitz-buchenhoehe".
func Make(input string) string {
	s := umlauts.Replace(strings.ToLower(strings.TrimSpace(input)))
	s = nonAlphaNum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "untitled"
	}
	return s
}
