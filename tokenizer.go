package html

import (
	"fmt"
	"iter"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// State is the lexical mode a Tokenizer is in between steps. It is what
// carries over from one template fragment to the next.
type State uint8

const (
	StateInitial State = iota
	// StateText is content outside of any tag.
	StateText
	// StateAttrs is inside a start tag, between attributes.
	StateAttrs
	// StateAttrName follows an attribute name, before a possible '='.
	StateAttrName
	// StateRawText is the verbatim body of a raw text element.
	StateRawText
)

// InTag reports whether an injection site in this state sits in the
// attribute region of a start tag.
func (s State) InTag() bool {
	return s == StateAttrs || s == StateAttrName
}

func (s State) String() string {
	switch s {
	case StateInitial:
		return "Initial"
	case StateText:
		return "Text"
	case StateAttrs:
		return "Attrs"
	case StateAttrName:
		return "AttrName"
	case StateRawText:
		return "RawText"
	}
	return fmt.Sprintf("State(%d)", s)
}

var doctypePattern = regexp.MustCompile(`^(?i)<!DOCTYPE\s+`)

// Tokenizer scans template source into steps in a single forward pass.
// Steps are produced lazily and can be consumed only once.
type Tokenizer struct {
	oracle Oracle
	source string
	i      int
	line   int
	column int

	state   State
	openTag string
	matcher *Matcher
	seq     string
	rawLoc  Location

	// partial tolerates the end of input inside a start tag or raw text
	// body, for templates split around injection sites.
	partial bool

	queue []Step
	done  bool
	err   *LexicalError
}

func NewTokenizer(oracle Oracle, source string, state State) *Tokenizer {
	return &Tokenizer{oracle: oracle, source: source, state: state, line: 1, column: 1}
}

// Tokenize scans source completely and returns its steps or the first
// lexical error.
func Tokenize(oracle Oracle, source string) ([]Step, error) {
	t := NewTokenizer(oracle, source, StateInitial)
	steps := slices.Collect(t.Steps())
	if err := t.Err(); err != nil {
		return nil, err
	}
	return steps, nil
}

func (t *Tokenizer) Steps() iter.Seq[Step] {
	return func(yield func(Step) bool) {
		for step, ok := t.next(); ok && yield(step); step, ok = t.next() {
		}
	}
}

// Err returns the lexical error that stopped scanning, if any.
func (t *Tokenizer) Err() error {
	if t.err == nil {
		return nil
	}
	return t.err
}

func (t *Tokenizer) State() State {
	return t.state
}

// Continue switches to a new source and keeps the lexical state, including
// an unfinished raw text body. Spans of later steps refer to the new source.
func (t *Tokenizer) Continue(source string) {
	t.source = source
	t.i = 0
	t.line = 1
	t.column = 1
	t.queue = nil
	t.done = false
}

func (t *Tokenizer) next() (Step, bool) {
	for {
		if len(t.queue) > 0 {
			step := t.queue[0]
			t.queue = t.queue[1:]
			return step, true
		}
		if t.done || t.err != nil {
			return Step{}, false
		}
		switch t.state {
		case StateAttrs:
			t.attributes()
		case StateAttrName:
			t.attributeValue()
		case StateRawText:
			t.rawText()
		default:
			t.content()
		}
	}
}

func (t *Tokenizer) content() {
	switch {
	case t.eof():
		t.done = true
	case t.hasPrefix("<!--"):
		t.comment()
	case t.hasPrefix("<!"):
		t.doctype()
	case t.hasPrefix("<>"):
		t.fragment(Fragment, 2)
	case t.hasPrefix("</>"):
		t.fragment(FragmentClosed, 3)
	case t.is('<') && t.peek() == '/':
		t.endTag()
	case t.is('<') && isLetter(t.peek()):
		t.startTag()
	case t.injectionAhead():
		t.injection(DescendantInjection)
		t.state = StateText
	default:
		start := t.i
		t.advance()
		for !t.eof() && !t.atMarkup() {
			t.advance()
		}
		t.emit(Text, start, t.i)
		t.state = StateText
	}
}

// atMarkup reports whether a text run has to stop at the cursor.
func (t *Tokenizer) atMarkup() bool {
	if t.injectionAhead() {
		return true
	}
	if !t.is('<') {
		return false
	}
	c := t.peek()
	return c == '!' || c == '>' || c == '/' || isLetter(c)
}

func (t *Tokenizer) startTag() {
	t.advance()
	start := t.i
	t.tagName()
	t.openTag = t.source[start:t.i]
	t.emit(Tag, start, t.i)
	t.state = StateAttrs
}

// https://html.spec.whatwg.org/multipage/syntax.html#end-tags
func (t *Tokenizer) endTag() {
	location := t.location()
	t.advance()
	t.advance()

	if !isLetter(t.current()) {
		t.failAt(location, "expected tag name")
		return
	}

	start := t.i
	t.tagName()
	end := t.i

	t.skipWhitespace()
	if !t.consume('>') {
		t.fail("expected closing angle bracket")
		return
	}

	t.emit(TailTag, start, end)
	t.state = StateText
}

// tagName consumes a name starting at a letter. Anything after it is
// validated by the caller.
func (t *Tokenizer) tagName() {
	t.advance()
	for c := t.current(); !t.eof() && isTagNameChar(c); c = t.current() {
		t.advance()
	}
}

func (t *Tokenizer) attributes() {
	t.skipWhitespace()

	switch {
	case t.eof():
		if t.partial {
			t.done = true
			return
		}
		t.fail(fmt.Sprintf("unterminated start tag <%s", t.openTag))
	case t.is('>'):
		at := t.i
		t.advance()
		t.emit(ElementClosed, at, t.i)
		t.enterBody()
	case t.is('/'):
		at := t.i
		t.advance()
		if !t.consume('>') {
			t.fail("expected closing angle bracket")
			return
		}
		t.emit(EmptyElementClosed, at, t.i)
		t.state = StateText
	case t.injectionAhead():
		t.injection(AttrMapInjection)
	case isAttrNameChar(t.current()):
		start := t.i
		for !t.eof() && isAttrNameChar(t.current()) {
			t.advance()
		}
		t.emit(Attr, start, t.i)
		t.state = StateAttrName
	default:
		t.fail(fmt.Sprintf("unexpected character %q in start tag <%s", t.current(), t.openTag))
	}
}

func (t *Tokenizer) attributeValue() {
	t.skipWhitespace()
	t.state = StateAttrs
	if !t.consume('=') {
		return
	}
	t.skipWhitespace()

	switch {
	case t.is('"', '\''):
		location := t.location()
		quote := t.advance()
		start := t.i
		for !t.eof() && t.current() != quote {
			t.advance()
		}
		if t.eof() {
			t.failAt(location, "expected closing quote")
			return
		}
		t.emit(AttrValue, start, t.i)
		t.advance()
	case t.eof() || t.is('>'):
		t.fail("expected attribute value")
	default:
		start := t.i
		for !t.eof() && !isWhitespace(t.current()) && !t.is('>') {
			t.advance()
		}
		t.emit(AttrValueUnquoted, start, t.i)
	}
}

// enterBody follows the end of a start tag. Raw text elements switch the
// tokenizer to verbatim scanning until their close sequence.
func (t *Tokenizer) enterBody() {
	t.state = StateText
	seq, ok := t.oracle.CloseSequenceFromAltTextTag(t.openTag)
	if !ok {
		return
	}
	t.seq = seq
	t.matcher = NewMatcher(seq)
	t.rawLoc = t.location()
	t.state = StateRawText
}

func (t *Tokenizer) rawText() {
	if t.matcher == nil {
		t.state = StateText
		return
	}

	start := t.i
	for !t.eof() {
		if !t.matcher.Advance(t.advance()) {
			continue
		}
		end := max(t.i-len(t.seq), start)
		if end > start {
			t.emit(AltText, start, end)
		}
		t.emit(AltTextCloseSequence, end, t.i)
		t.matcher = nil
		t.state = StateText
		return
	}

	if t.partial {
		if t.i > start {
			t.emit(AltText, start, t.i)
		}
		t.done = true
		return
	}
	t.failAt(t.rawLoc, fmt.Sprintf("unterminated <%s>, expected %q", t.openTag, t.seq))
}

// comment handles "<!--". A ruleset with a close sequence for the comment
// pseudo tag gets it as a raw text element, anything else gets the body as
// a single CommentText step.
func (t *Tokenizer) comment() {
	location := t.location()
	t.advance()

	if _, ok := t.oracle.CloseSequenceFromAltTextTag(CommentTag); ok {
		start := t.i
		t.advanceTo(start + len(CommentTag))
		t.openTag = CommentTag
		t.emit(Tag, start, t.i)
		t.enterBody()
		return
	}

	t.advanceTo(t.i + len(CommentTag))
	start := t.i
	end := strings.Index(t.source[start:], "-->")
	if end < 0 {
		t.failAt(location, "unterminated comment")
		return
	}
	t.advanceTo(start + end)
	t.emit(CommentText, start, t.i)
	t.advanceTo(t.i + len("-->"))
	t.state = StateText
}

// https://html.spec.whatwg.org/multipage/syntax.html#the-doctype
func (t *Tokenizer) doctype() {
	location := t.location()

	if !t.match(doctypePattern) {
		t.fail("unsupported markup declaration")
		return
	}

	t.advance()
	t.advance()
	start := t.i
	for !t.eof() && !t.is('>') {
		t.advance()
	}
	if t.eof() {
		t.failAt(location, "malformed DOCTYPE, expected closing angle bracket")
		return
	}

	t.emit(Doctype, start, t.i)
	t.advance()
	t.state = StateText
}

func (t *Tokenizer) fragment(kind StepKind, width int) {
	start := t.i
	t.advanceTo(start + width)
	t.emit(kind, start, t.i)
	t.state = StateText
}

// injectionAhead confirms an injection site: '{', optional whitespace, '}'.
func (t *Tokenizer) injectionAhead() bool {
	if !t.is('{') {
		return false
	}
	rest := strings.TrimLeftFunc(t.source[t.i+1:], isWhitespace)
	return strings.HasPrefix(rest, "}")
}

func (t *Tokenizer) injection(kind StepKind) {
	at := t.i
	t.advance()
	t.emit(kind, at, t.i)

	if start := t.i; t.skipWhitespace() {
		t.emit(InjectionSpace, start, t.i)
	}

	at = t.i
	t.advance()
	t.emit(InjectionConfirmed, at, t.i)
}

func (t *Tokenizer) emit(kind StepKind, start, end int) {
	t.queue = append(t.queue, Step{Kind: kind, Span: Span{Start: start, End: end}})
}

func (t *Tokenizer) fail(reason string) {
	t.failAt(t.location(), reason)
}

func (t *Tokenizer) failAt(location Location, reason string) {
	t.err = &LexicalError{Reason: reason, Location: location}
	tracer().Debugf("tokenizer: %v", t.err)
}

// skipWhitespace reports whether anything was skipped.
func (t *Tokenizer) skipWhitespace() bool {
	start := t.i
	for !t.eof() && isWhitespace(t.current()) {
		t.advance()
	}
	return t.i > start
}

func (t *Tokenizer) match(pattern *regexp.Regexp) bool {
	return pattern.MatchString(t.source[t.i:])
}

func (t *Tokenizer) hasPrefix(prefix string) bool {
	return strings.HasPrefix(t.source[t.i:], prefix)
}

func (t *Tokenizer) is(what ...rune) bool {
	return !t.eof() && slices.Contains(what, t.current())
}

func (t *Tokenizer) consume(what rune) bool {
	if t.is(what) {
		t.advance()
		return true
	}
	return false
}

func (t *Tokenizer) eof() bool {
	return t.i >= len(t.source)
}

func (t *Tokenizer) current() rune {
	if t.eof() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(t.source[t.i:])
	return r
}

func (t *Tokenizer) peek() rune {
	return t.peekAt(1)
}

// peekAt returns the rune n runes ahead of the cursor, or 0.
func (t *Tokenizer) peekAt(n int) rune {
	i := t.i
	for ; n > 0 && i < len(t.source); n-- {
		_, size := utf8.DecodeRuneInString(t.source[i:])
		i += size
	}
	if i >= len(t.source) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(t.source[i:])
	return r
}

func (t *Tokenizer) advance() rune {
	if t.eof() {
		return 0
	}
	previous, size := utf8.DecodeRuneInString(t.source[t.i:])
	t.i += size
	if previous == '\n' {
		t.line++
		t.column = 0
	}
	t.column++
	return previous
}

func (t *Tokenizer) advanceTo(offset int) {
	for !t.eof() && t.i < offset {
		t.advance()
	}
}

func (t *Tokenizer) location() Location {
	return Location{Line: t.line, Column: t.column, Offset: t.i}
}

func isDigit(r rune) bool {
	return unicode.IsDigit(r) && r < 128
}

func isLetter(r rune) bool {
	return unicode.IsLetter(r) && r < 128
}

func isTagNameChar(r rune) bool {
	return isLetter(r) || isDigit(r) || r == '-' || r == '_' || r == ':' || r == '.'
}

func isAttrNameChar(r rune) bool {
	if isWhitespace(r) || unicode.IsControl(r) {
		return false
	}
	return !strings.ContainsRune("\"'<>/={}", r)
}

// Whitespace is defined to be U+0009 TAB, U+000A LF, U+000C FF, U+000D CR, or U+0020 SPACE
func isWhitespace(r rune) bool {
	return r == '\u0009' || r == '\u000A' || r == '\u000C' || r == '\u000D' || r == ' '
}
