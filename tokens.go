package html

import "fmt"

type StepKind uint8

const (
	Tag StepKind = iota
	Attr
	AttrValue
	AttrValueUnquoted
	ElementClosed
	EmptyElementClosed
	TailTag
	Text
	CommentText
	AltText
	AltTextCloseSequence
	DescendantInjection
	AttrMapInjection
	InjectionSpace
	InjectionConfirmed
	Doctype
	Fragment
	FragmentClosed

	stepKindCount
)

var stepKindNames = [stepKindCount]string{
	Tag:                  "TAG",
	Attr:                 "ATTR",
	AttrValue:            "ATTR_VALUE",
	AttrValueUnquoted:    "ATTR_VALUE_UNQUOTED",
	ElementClosed:        "ELEMENT_CLOSED",
	EmptyElementClosed:   "EMPTY_ELEMENT_CLOSED",
	TailTag:              "TAIL_TAG",
	Text:                 "TEXT",
	CommentText:          "COMMENT_TEXT",
	AltText:              "ALT_TEXT",
	AltTextCloseSequence: "ALT_TEXT_CLOSE_SEQUENCE",
	DescendantInjection:  "DESCENDANT_INJECTION",
	AttrMapInjection:     "ATTR_MAP_INJECTION",
	InjectionSpace:       "INJECTION_SPACE",
	InjectionConfirmed:   "INJECTION_CONFIRMED",
	Doctype:              "DOCTYPE",
	Fragment:             "FRAGMENT",
	FragmentClosed:       "FRAGMENT_CLOSED",
}

func (k StepKind) String() string {
	if k < stepKindCount {
		return stepKindNames[k]
	}
	return fmt.Sprintf("StepKind(%d)", k)
}

// Span is a half-open byte range into the template source.
type Span struct {
	Start int
	End   int
}

type Step struct {
	Kind StepKind
	Span
}

// Text returns the part of source covered by the step.
func (s Step) Text(source string) string {
	return source[s.Start:s.End]
}

func (s Step) String() string {
	return fmt.Sprintf("%s[%d:%d]", s.Kind, s.Start, s.End)
}

type Location struct {
	Line   int
	Column int
	Offset int
}

// LexicalError reports malformed template source. Scanning stops at the
// first one.
type LexicalError struct {
	Reason string
	Location
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Reason)
}
