package engine

import "strings"

// A redirect definition defers to another headword instead of carrying
// content, e.g. `див. <<кіт>>`. The «див.» forms are the Ukrainian "see"
// abbreviation as it appears in the source dictionaries.
var seeAbbrevs = []string{"див.", "Див.", "ДИВ."}

// isRedirect reports whether def is a pure redirect: it carries a
// <<target>> reference and either a "see" abbreviation or essentially no
// other content (fewer than 10 characters once the reference and leading
// whitespace/punctuation are stripped).
func isRedirect(def string) bool {
	start := strings.Index(def, "<<")
	if start < 0 {
		return false
	}
	n := strings.Index(def[start+2:], ">>")
	if n < 0 {
		return false
	}
	for _, abbr := range seeAbbrevs {
		if strings.Contains(def, abbr) {
			return true
		}
	}
	end := start + 2 + n + 2
	remaining := def[:start] + def[end:]
	trimmed := strings.TrimLeft(remaining, " \t\n\r.,;:")
	return len(trimmed) < 10
}

// redirectTarget returns the trimmed text between the first << and the
// following >>, or "" when the markers are absent or malformed.
func redirectTarget(def string) string {
	start := strings.Index(def, "<<")
	if start < 0 {
		return ""
	}
	n := strings.Index(def[start+2:], ">>")
	if n < 0 {
		return ""
	}
	return strings.Trim(def[start+2:start+2+n], " \t\n\r")
}
