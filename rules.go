package html

import "golang.org/x/net/html/atom"

// CommentTag is the pseudo tag under which comments are handled when a
// ruleset gives it a close sequence.
const CommentTag = "!--"

// Ruleset is the table driven Oracle. The zero value is not usable; start
// from NewRuleset, ServerRules or ClientRules.
//
// A Ruleset must not be modified once it is handed to the tokenizer or the
// composer. It is then safe for concurrent use.
type Ruleset struct {
	namespace string
	indent    bool

	void       tagSet
	inline     tagSet
	namespaces tagSet
	preserved  tagSet
	banned     tagSet

	closeSeqs map[string]string
	seqTags   map[string]string
}

func NewRuleset(namespace string, indent bool) *Ruleset {
	return &Ruleset{
		namespace:  namespace,
		indent:     indent,
		void:       newTagSet(),
		inline:     newTagSet(),
		namespaces: newTagSet(),
		preserved:  newTagSet(),
		banned:     newTagSet(),
		closeSeqs:  make(map[string]string),
		seqTags:    make(map[string]string),
	}
}

var (
	voidAtoms = []atom.Atom{
		atom.Area, atom.Base, atom.Br, atom.Col, atom.Embed, atom.Hr, atom.Img,
		atom.Input, atom.Link, atom.Meta, atom.Param, atom.Source, atom.Track,
		atom.Wbr,
	}
	inlineAtoms = []atom.Atom{
		atom.A, atom.Abbr, atom.B, atom.Bdi, atom.Bdo, atom.Br, atom.Cite,
		atom.Code, atom.Data, atom.Dfn, atom.Em, atom.I, atom.Kbd, atom.Mark,
		atom.Q, atom.Rp, atom.Rt, atom.Ruby, atom.S, atom.Samp, atom.Small,
		atom.Span, atom.Strong, atom.Sub, atom.Sup, atom.Time, atom.U,
		atom.Var, atom.Wbr,
	}
	namespaceAtoms = []atom.Atom{atom.Svg, atom.Math}
	preservedAtoms = []atom.Atom{atom.Pre, atom.Textarea}
	rawTextAtoms   = []atom.Atom{atom.Script, atom.Style}
)

func htmlRules(indent bool) *Ruleset {
	r := NewRuleset("html", indent)
	r.void.addAtoms(voidAtoms)
	r.inline.addAtoms(inlineAtoms)
	r.namespaces.addAtoms(namespaceAtoms)
	r.preserved.addAtoms(preservedAtoms)
	for _, a := range rawTextAtoms {
		r.AddAltText(a.String(), "</"+a.String()+">")
	}
	r.AddAltText(CommentTag, "-->")
	return r
}

// ServerRules renders indented markup and keeps comments.
func ServerRules() *Ruleset {
	return htmlRules(true)
}

// ClientRules renders compact markup and drops scripts, styles and comments.
func ClientRules() *Ruleset {
	r := htmlRules(false)
	r.banned.addAtoms(rawTextAtoms)
	r.banned.add(CommentTag)
	return r
}

func (r *Ruleset) AddVoid(tags ...string)      { r.void.add(tags...) }
func (r *Ruleset) AddInline(tags ...string)    { r.inline.add(tags...) }
func (r *Ruleset) AddNamespace(tags ...string) { r.namespaces.add(tags...) }
func (r *Ruleset) AddPreserved(tags ...string) { r.preserved.add(tags...) }
func (r *Ruleset) AddBanned(tags ...string)    { r.banned.add(tags...) }

// AddAltText makes tag a raw text element whose body ends at closeSeq.
func (r *Ruleset) AddAltText(tag, closeSeq string) {
	if old, ok := r.closeSeqs[tag]; ok {
		delete(r.seqTags, old)
	}
	r.closeSeqs[tag] = closeSeq
	r.seqTags[closeSeq] = tag
}

func (r *Ruleset) IsVoidEl(tag string) bool          { return r.void.has(tag) }
func (r *Ruleset) IsInlineEl(tag string) bool        { return r.inline.has(tag) }
func (r *Ruleset) IsNamespaceEl(tag string) bool     { return r.namespaces.has(tag) }
func (r *Ruleset) IsPreservedTextEl(tag string) bool { return r.preserved.has(tag) }
func (r *Ruleset) IsBannedEl(tag string) bool        { return r.banned.has(tag) }
func (r *Ruleset) InitialNamespace() string          { return r.namespace }
func (r *Ruleset) RespectIndentation() bool          { return r.indent }

func (r *Ruleset) CloseSequenceFromAltTextTag(tag string) (string, bool) {
	seq, ok := r.closeSeqs[tag]
	return seq, ok
}

func (r *Ruleset) TagFromCloseSequence(seq string) (string, bool) {
	tag, ok := r.seqTags[seq]
	return tag, ok
}

// tagSet keeps well-known HTML tags as atoms and everything else by name.
type tagSet struct {
	atoms map[atom.Atom]bool
	names map[string]bool
}

func newTagSet() tagSet {
	return tagSet{atoms: make(map[atom.Atom]bool), names: make(map[string]bool)}
}

func (s tagSet) addAtoms(atoms []atom.Atom) {
	for _, a := range atoms {
		s.atoms[a] = true
	}
}

func (s tagSet) add(tags ...string) {
	for _, tag := range tags {
		if a := atom.Lookup([]byte(tag)); a != 0 {
			s.atoms[a] = true
			continue
		}
		s.names[tag] = true
	}
}

func (s tagSet) has(tag string) bool {
	if a := atom.Lookup([]byte(tag)); a != 0 {
		return s.atoms[a]
	}
	return s.names[tag]
}
