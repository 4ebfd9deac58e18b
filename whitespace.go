package html

import (
	"strings"
	"unicode/utf8"
)

// isSpace reports whether r counts as indentation. Line breaks are not
// part of the set; text is split on them first.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\v', '\f', '\ufeff',
		' ', '\u00a0', '\u1680',
		'\u2000', '\u2001', '\u2002', '\u2003', '\u2004', '\u2005',
		'\u2006', '\u2007', '\u2008', '\u2009', '\u200a',
		'\u202f', '\u205f', '\u3000':
		return true
	}
	return false
}

func isTrimmable(r rune) bool {
	return isSpace(r) || r == '\r'
}

func trimLine(line string) string {
	return strings.TrimFunc(line, isTrimmable)
}

func isBlank(line string) bool {
	return trimLine(line) == ""
}

// contentLines splits text into trimmed, non-blank lines.
func contentLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := trimLine(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// commonIndent returns the byte length of the leading indentation shared by
// all non-blank lines. Each line is compared with the previous non-blank
// line only, and the offset can only shrink.
func commonIndent(lines []string) int {
	offset := -1
	var reference string
	for _, line := range lines {
		if isBlank(line) {
			continue
		}
		if offset < 0 {
			offset = indentWidth(line)
		} else {
			offset = min(offset, sharedSpacePrefix(reference, line))
		}
		reference = line
	}
	return max(offset, 0)
}

func indentWidth(line string) int {
	for i, r := range line {
		if !isSpace(r) {
			return i
		}
	}
	return len(line)
}

// sharedSpacePrefix is the byte length of the longest common prefix of a
// and b made of space runes only.
func sharedSpacePrefix(a, b string) int {
	i := 0
	for i < len(a) && i < len(b) {
		ra, size := utf8.DecodeRuneInString(a[i:])
		rb, _ := utf8.DecodeRuneInString(b[i:])
		if ra != rb || !isSpace(ra) {
			break
		}
		i += size
	}
	return i
}

// dedent strips the common indentation of text and returns the non-blank
// lines with trailing whitespace removed.
func dedent(text string) []string {
	lines := strings.Split(text, "\n")
	offset := commonIndent(lines)

	var out []string
	for _, line := range lines {
		if isBlank(line) {
			continue
		}
		out = append(out, strings.TrimRightFunc(line[offset:], isTrimmable))
	}
	return out
}
