package html

// Matcher recognizes the closing sequence of a raw text element while its
// body is scanned one rune at a time.
//
// A mismatch drops any partial progress and the mismatching rune is not
// tried again as the start of a new match. Comparison is exact; callers
// decide on case folding.
type Matcher struct {
	target []rune
	cursor int
}

func NewMatcher(target string) *Matcher {
	return &Matcher{target: []rune(target)}
}

// Advance feeds the next rune and reports whether the whole target has been seen.
func (m *Matcher) Advance(r rune) bool {
	if m.cursor >= len(m.target) {
		return true
	}
	if m.target[m.cursor] != r {
		m.cursor = 0
		return false
	}
	m.cursor++
	return m.cursor == len(m.target)
}
