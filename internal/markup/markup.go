// Package markup turns raw stored dictionary definitions into clean display
// text. Raw entries carry a mix of HTML-ish tags, bracketed usage notes and a
// handful of character entities left over from whatever tool produced the
// dictionary file.
package markup

import (
	"regexp"
	"strings"
)

var (
	brRe       = regexp.MustCompile(`<br\s*/?>`)
	tagRe      = regexp.MustCompile(`<[^>]*>`)
	bracketRe  = regexp.MustCompile(`\[[^\]]*\]`)
	newlinesRe = regexp.MustCompile(`\n{3,}`)
	spacesRe   = regexp.MustCompile(` {2,}`)
)

// entities are decoded one at a time, in this order, after tags have been
// stripped.
var entities = [][2]string{
	{"&nbsp;", " "},
	{"&amp;", "&"},
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&quot;", `"`},
}

// Normalize strips markup from a raw definition and returns display text.
// Line-break tags become newlines, remaining tags and bracketed annotation
// spans are dropped, entities are decoded, runs of blank lines and spaces are
// collapsed and the result is trimmed. An entry with no usable content
// normalizes to the empty string.
func Normalize(raw string) string {
	s := brRe.ReplaceAllString(raw, "\n")
	s = tagRe.ReplaceAllString(s, "")
	s = bracketRe.ReplaceAllString(s, "")
	for _, e := range entities {
		s = strings.ReplaceAll(s, e[0], e[1])
	}
	s = newlinesRe.ReplaceAllString(s, "\n\n")
	s = spacesRe.ReplaceAllString(s, " ")
	return strings.Trim(s, " \t\n\r")
}
