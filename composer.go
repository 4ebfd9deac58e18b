package html

import (
	"fmt"
	"strings"
)

// Compose renders a template into markup in a single pass over its steps.
// Pretty or compact output is chosen by oracle.RespectIndentation.
//
// Injection sites are copied through unchanged, so source may be composed
// before or after values are spliced in. A lexical error fails the whole
// render; closing tags that do not match the open element are ignored.
func Compose(oracle Oracle, source string) (string, error) {
	c := composer{
		oracle: oracle,
		source: source,
		pretty: oracle.RespectIndentation(),
	}

	t := NewTokenizer(oracle, source, StateInitial)
	for step := range t.Steps() {
		h := handlers[step.Kind]
		if h == nil {
			panic(fmt.Sprintf("coyote: no handler for step %s", step.Kind))
		}
		h(&c, step)
	}
	if err := t.Err(); err != nil {
		return "", err
	}
	return strings.Join(c.out, ""), nil
}

type composer struct {
	oracle Oracle
	source string
	pretty bool
	out    []string
	stack  stack
}

type handler func(c *composer, step Step)

var handlers = [stepKindCount]handler{
	Tag:                  (*composer).openElement,
	Attr:                 (*composer).attr,
	AttrValue:            (*composer).attrValue,
	AttrValueUnquoted:    (*composer).attrValueUnquoted,
	ElementClosed:        (*composer).elementClosed,
	EmptyElementClosed:   (*composer).emptyElementClosed,
	TailTag:              (*composer).tailTag,
	Text:                 (*composer).text,
	CommentText:          (*composer).ignore,
	AltText:              (*composer).text,
	AltTextCloseSequence: (*composer).closeSequence,
	DescendantInjection:  (*composer).injection,
	AttrMapInjection:     (*composer).attrMapInjection,
	InjectionSpace:       (*composer).injection,
	InjectionConfirmed:   (*composer).injection,
	Doctype:              (*composer).doctype,
	Fragment:             (*composer).ignore,
	FragmentClosed:       (*composer).ignore,
}

func (c *composer) push(s ...string) {
	c.out = append(c.out, s...)
}

func (c *composer) newline(indent int) {
	c.push("\n", strings.Repeat("\t", indent))
}

func (c *composer) openElement(step Step) {
	tag := step.Text(c.source)

	parent, hasParent := c.stack.top()
	f := rootFrame(c.oracle, tag)
	if hasParent {
		f = parent.child(c.oracle, tag)
	}

	if f.banned {
		if hasParent {
			parent.mostRecentDescendant = f.openStatus()
		}
		c.stack.push(f)
		return
	}

	switch {
	case c.pretty && len(c.out) > 0:
		if f.inline {
			c.push(" ")
		} else {
			c.newline(f.indent)
		}
	case !c.pretty && f.inline && !f.void:
		if hasParent && parent.mostRecentDescendant == StatusText {
			c.push(" ")
		}
	}

	if hasParent {
		parent.mostRecentDescendant = f.openStatus()
	}

	c.push("<", tag)
	c.stack.push(f)
}

func (c *composer) elementClosed(Step) {
	f, ok := c.stack.top()
	if !ok {
		return
	}
	if !f.banned {
		c.push(">")
	}
	// a void element of the document namespace has no body and no end tag
	if f.void && f.namespace == c.oracle.InitialNamespace() {
		c.stack.pop()
	}
}

func (c *composer) emptyElementClosed(Step) {
	f, ok := c.stack.top()
	if !ok {
		return
	}
	switch {
	case f.banned:
	case f.namespace != c.oracle.InitialNamespace():
		c.push("/>")
	case f.void:
		c.push(">")
	default:
		c.push("></", f.tag, ">")
	}
	c.stack.pop()
}

func (c *composer) tailTag(step Step) {
	tag := step.Text(c.source)
	f, ok := c.stack.top()
	if !ok || f.tag != tag {
		tracer().Debugf("composer: ignoring </%s>", tag)
		return
	}
	c.closeElement(f, "</"+tag+">")
}

func (c *composer) closeSequence(step Step) {
	seq := step.Text(c.source)
	tag, ok := c.oracle.TagFromCloseSequence(seq)
	if !ok {
		return
	}
	f, ok := c.stack.top()
	if !ok || f.tag != tag {
		tracer().Debugf("composer: ignoring %q", seq)
		return
	}
	c.closeElement(f, seq)
}

func (c *composer) closeElement(f *frame, closing string) {
	if f.banned {
		c.stack.pop()
		return
	}
	if c.pretty && !f.inline && !f.preservedText && f.mostRecentDescendant != StatusInitial {
		c.newline(f.indent)
	}
	c.push(closing)
	c.stack.pop()
}

// inOpenTag returns the element whose start tag receives attributes, or
// false when there is none or it is suppressed.
func (c *composer) inOpenTag() bool {
	f, ok := c.stack.top()
	return ok && !f.banned
}

func (c *composer) attr(step Step) {
	if c.inOpenTag() {
		c.push(" ", step.Text(c.source))
	}
}

func (c *composer) attrValue(step Step) {
	if c.inOpenTag() {
		c.push(`="`, step.Text(c.source), `"`)
	}
}

func (c *composer) attrValueUnquoted(step Step) {
	if c.inOpenTag() {
		c.push("=", step.Text(c.source))
	}
}

func (c *composer) attrMapInjection(step Step) {
	if c.inOpenTag() {
		c.push(" ", step.Text(c.source))
	}
}

func (c *composer) injection(step Step) {
	if f, ok := c.stack.top(); ok && f.banned {
		return
	}
	c.push(step.Text(c.source))
}

func (c *composer) doctype(step Step) {
	if f, ok := c.stack.top(); ok && f.banned {
		return
	}
	if c.pretty && len(c.out) > 0 {
		c.newline(0)
	}
	c.push("<!", step.Text(c.source), ">")
}

func (c *composer) ignore(Step) {}

func (c *composer) text(step Step) {
	text := step.Text(c.source)

	f, ok := c.stack.top()
	if !ok {
		c.documentText(text)
		return
	}
	if f.banned || f.void {
		return
	}

	if f.preservedText {
		c.push(text)
		f.mostRecentDescendant = StatusText
		return
	}

	if _, raw := c.oracle.CloseSequenceFromAltTextTag(f.tag); raw {
		lines := dedent(text)
		if len(lines) == 0 {
			return
		}
		if c.pretty {
			c.breakLines(lines, f.indent+1)
		} else {
			c.flow(lines, "")
		}
		f.mostRecentDescendant = StatusText
		return
	}

	lines := contentLines(text)
	if len(lines) == 0 {
		return
	}

	switch status := f.mostRecentDescendant; {
	case !c.pretty && status == StatusInlineElementClosed:
		c.flow(lines, " ")
	case !c.pretty:
		c.flow(lines, "")
	case status == StatusInlineElement:
		c.flow(lines, "")
	case status == StatusInlineElementClosed:
		c.flow(lines, " ")
	case status == StatusInitial && f.inline:
		c.flow(lines, "")
	default:
		c.breakLines(lines, f.indent+1)
	}
	f.mostRecentDescendant = StatusText
}

// documentText handles loose text outside of any element.
func (c *composer) documentText(text string) {
	lines := contentLines(text)
	if len(lines) == 0 {
		return
	}
	sep := " "
	if c.pretty {
		sep = "\n"
	}
	if len(c.out) > 0 {
		c.push(sep)
	}
	c.push(strings.Join(lines, sep))
}

func (c *composer) flow(lines []string, lead string) {
	c.push(lead, strings.Join(lines, " "))
}

func (c *composer) breakLines(lines []string, indent int) {
	for _, line := range lines {
		c.newline(indent)
		c.push(line)
	}
}
