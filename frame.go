package html

// DescendantStatus records what an open element received last.
type DescendantStatus uint8

const (
	StatusInitial DescendantStatus = iota
	StatusElement
	StatusElementClosed
	StatusInlineElement
	StatusInlineElementClosed
	StatusText
)

func (s DescendantStatus) String() string {
	switch s {
	case StatusInitial:
		return "Initial"
	case StatusElement:
		return "Element"
	case StatusElementClosed:
		return "ElementClosed"
	case StatusInlineElement:
		return "InlineElement"
	case StatusInlineElementClosed:
		return "InlineElementClosed"
	case StatusText:
		return "Text"
	}
	return "DescendantStatus(?)"
}

// frame is the render state of one open element. Only
// mostRecentDescendant changes after construction.
type frame struct {
	tag       string
	namespace string
	indent    int

	mostRecentDescendant DescendantStatus

	void          bool
	inline        bool
	preservedText bool
	banned        bool
}

// rootFrame is the state of an element opened at document level.
func rootFrame(oracle Oracle, tag string) frame {
	f := frame{
		tag:           tag,
		namespace:     oracle.InitialNamespace(),
		void:          oracle.IsVoidEl(tag),
		inline:        oracle.IsInlineEl(tag),
		preservedText: oracle.IsPreservedTextEl(tag),
		banned:        oracle.IsBannedEl(tag),
	}
	if oracle.IsNamespaceEl(tag) {
		f.namespace = tag
	}
	return f
}

// child derives the state of tag opened inside f.
func (f frame) child(oracle Oracle, tag string) frame {
	c := rootFrame(oracle, tag)
	if !oracle.IsNamespaceEl(tag) {
		c.namespace = f.namespace
	}
	c.indent = f.indent
	if !f.void && !c.inline {
		c.indent++
	}
	c.preservedText = c.preservedText || f.preservedText
	c.banned = c.banned || f.banned
	return c
}

func (f frame) closedStatus() DescendantStatus {
	if f.inline {
		return StatusInlineElementClosed
	}
	return StatusElementClosed
}

func (f frame) openStatus() DescendantStatus {
	if f.inline {
		return StatusInlineElement
	}
	return StatusElement
}

// stack holds the frames of the currently open elements, innermost last.
type stack []frame

func (s *stack) push(f frame) {
	*s = append(*s, f)
}

// pop removes the innermost frame and marks its parent as having a closed
// child. Popping an empty stack does nothing.
func (s *stack) pop() (frame, bool) {
	if len(*s) == 0 {
		return frame{}, false
	}
	f := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	if parent, ok := s.top(); ok {
		parent.mostRecentDescendant = f.closedStatus()
	}
	return f, true
}

// top returns the innermost frame for in-place updates.
func (s stack) top() (*frame, bool) {
	if len(s) == 0 {
		return nil, false
	}
	return &s[len(s)-1], true
}
