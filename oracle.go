package html

// Oracle answers per-tag classification questions for the tokenizer and
// the composer. Implementations must be pure: the same tag always yields
// the same answers, and unknown tags fall back to "plain element".
type Oracle interface {
	IsVoidEl(tag string) bool
	IsInlineEl(tag string) bool
	IsNamespaceEl(tag string) bool
	IsPreservedTextEl(tag string) bool
	IsBannedEl(tag string) bool
	InitialNamespace() string
	// RespectIndentation selects pretty output over compact output.
	RespectIndentation() bool
	// CloseSequenceFromAltTextTag returns the sequence that ends the body of
	// a raw text element, e.g. "</script>" for "script".
	CloseSequenceFromAltTextTag(tag string) (string, bool)
	TagFromCloseSequence(seq string) (string, bool)
}
