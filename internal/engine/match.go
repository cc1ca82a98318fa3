package engine

import "strings"

// Word-boundary detection works on raw bytes. Definitions mix ASCII and
// UTF-8 Cyrillic, whose letters encode as two bytes with a 0xD0 or 0xD1 lead
// byte; both bytes of such a letter count as word-interior so a match never
// splits a character.

func isBoundary(text string, pos int) bool {
	if pos >= len(text) {
		return true
	}
	c := text[pos]
	if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
		return false
	}
	if c == 0xD0 || c == 0xD1 {
		return false
	}
	if c&0xC0 == 0x80 {
		return false
	}
	return true
}

func isWholeWord(text, query string, pos int) bool {
	if pos > 0 {
		prev := pos - 1
		for prev > 0 && text[prev]&0xC0 == 0x80 {
			prev--
		}
		if !isBoundary(text, prev) {
			return false
		}
	}
	after := pos + len(query)
	if after < len(text) && !isBoundary(text, after) {
		return false
	}
	return true
}

// findWholeWord returns the byte offset of the first whole-word occurrence of
// query in text, or -1.
func findWholeWord(text, query string) int {
	for pos := 0; pos <= len(text); pos++ {
		i := strings.Index(text[pos:], query)
		if i < 0 {
			return -1
		}
		pos += i
		if isWholeWord(text, query, pos) {
			return pos
		}
	}
	return -1
}
