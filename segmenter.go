package html

import (
	"fmt"
	"strings"
)

// Segments is a template cut at its injection sites. Injections[i] is the
// kind of the site between Literals[i] and Literals[i+1], so there is
// always one more literal group than injections.
//
// Joining the pieces of a group gives back the literal source of that gap.
type Segments struct {
	Literals   [][]string
	Injections []StepKind
}

func newSegments() Segments {
	return Segments{Literals: [][]string{nil}}
}

// Strings returns every literal group joined into one string.
func (s Segments) Strings() []string {
	strs := make([]string, len(s.Literals))
	for i, group := range s.Literals {
		strs[i] = strings.Join(group, "")
	}
	return strs
}

func (s *Segments) appendLiteral(text string) {
	if text == "" {
		return
	}
	last := len(s.Literals) - 1
	s.Literals[last] = append(s.Literals[last], text)
}

func (s *Segments) cut(kind StepKind) {
	s.Injections = append(s.Injections, kind)
	s.Literals = append(s.Literals, nil)
}

// Segment cuts a single template string at its "{}" placeholders.
func Segment(oracle Oracle, source string) (Segments, error) {
	seg := newSegments()
	t := NewTokenizer(oracle, source, StateInitial)
	last := seg.collect(t, source)
	if err := t.Err(); err != nil {
		return Segments{}, err
	}
	seg.appendLiteral(source[last:])
	return seg, nil
}

// SegmentFragments handles a template given as the literal fragments
// around its injection sites. The lexical state at the end of one fragment
// is carried into the next, and decides whether the site in between sits
// in a start tag (an attribute map) or in content (descendants).
func SegmentFragments(oracle Oracle, fragments []string) (Segments, error) {
	seg := newSegments()
	t := NewTokenizer(oracle, "", StateInitial)

	for i, fragment := range fragments {
		t.partial = i < len(fragments)-1
		t.Continue(fragment)

		last := seg.collect(t, fragment)
		if err := t.Err(); err != nil {
			return Segments{}, fmt.Errorf("coyote: fragment %d: %w", i, err)
		}
		seg.appendLiteral(fragment[last:])

		if t.partial {
			seg.cut(injectionKind(t.State()))
		}
	}
	return seg, nil
}

// collect appends the literal text of every step and cuts at injection
// sites. It returns the offset up to which source has been consumed.
func (s *Segments) collect(t *Tokenizer, source string) int {
	last := 0
	for step := range t.Steps() {
		switch step.Kind {
		case DescendantInjection, AttrMapInjection:
			s.appendLiteral(source[last:step.Start])
			s.cut(step.Kind)
		case InjectionSpace, InjectionConfirmed:
		default:
			s.appendLiteral(source[last:step.End])
		}
		last = step.End
	}
	return last
}

func injectionKind(state State) StepKind {
	if state.InTag() {
		return AttrMapInjection
	}
	return DescendantInjection
}
