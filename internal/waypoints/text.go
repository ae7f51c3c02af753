package waypoints

import (
	"strings"
	"unicode/utf8"
)

// lineBefore returns the text between the last line break before pos and pos.
func lineBefore(text string, pos int) string {
	before := text[:pos]
	if i := strings.LastIndexByte(before, '\n'); i >= 0 {
		return before[i+1:]
	}
	return before
}

// untilLineBreak returns text up to, not including, the first line break.
func untilLineBreak(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i]
	}
	return text
}

// lastRunes returns at most n characters ending at pos.
func lastRunes(text string, pos, n int) string {
	start := pos
	for i := 0; i < n && start > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:start])
		start -= size
	}
	return text[start:pos]
}

// runeLen counts characters; all size limits are expressed in characters.
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// truncateRunes cuts s to at most n characters.
func truncateRunes(s string, n int) string {
	if runeLen(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// delimit wraps value in delimiters, escaping delimiter and escape characters.
func delimit(value string, delim, escape rune) string {
	var sb strings.Builder
	sb.Grow(len(value) + 2)
	sb.WriteRune(delim)
	for _, r := range value {
		if r == delim || r == escape {
			sb.WriteRune(escape)
		}
		sb.WriteRune(r)
	}
	sb.WriteRune(delim)
	return sb.String()
}

// nextDelimited reads the delimited value at the start of text. An escape
// character makes the following character literal. An unterminated value
// runs to the end of the text.
func nextDelimited(text string, delim, escape rune) string {
	r, size := utf8.DecodeRuneInString(text)
	if r != delim {
		return ""
	}

	var sb strings.Builder
	escaped := false
	for _, r := range text[size:] {
		switch {
		case escaped:
			sb.WriteRune(r)
			escaped = false
		case r == escape:
			escaped = true
		case r == delim:
			return sb.String()
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
