package html

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownBase is returned for a ruleset document naming a base other
// than "server", "client" or "empty".
var ErrUnknownBase = errors.New("coyote: unknown base ruleset")

// rulesDocument is the YAML shape read by LoadRules.
type rulesDocument struct {
	Base       string            `yaml:"base"`
	Indent     *bool             `yaml:"indent"`
	Namespace  string            `yaml:"namespace"`
	Void       []string          `yaml:"void"`
	Inline     []string          `yaml:"inline"`
	Namespaces []string          `yaml:"namespaces"`
	Preserved  []string          `yaml:"preserved"`
	Banned     []string          `yaml:"banned"`
	AltText    map[string]string `yaml:"alt_text"`
}

// LoadRules reads a YAML ruleset. The lists in the document extend the
// named base ruleset (server when omitted).
func LoadRules(r io.Reader) (*Ruleset, error) {
	var doc rulesDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("coyote: decode rules: %w", err)
	}
	return doc.ruleset()
}

func LoadRulesFile(path string) (*Ruleset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("coyote: open rules: %w", err)
	}
	defer f.Close()

	rules, err := LoadRules(f)
	if err != nil {
		return nil, fmt.Errorf("%w (file %s)", err, path)
	}
	return rules, nil
}

func (doc rulesDocument) ruleset() (*Ruleset, error) {
	var rules *Ruleset
	switch base := strings.ToLower(strings.TrimSpace(doc.Base)); base {
	case "", "server":
		rules = ServerRules()
	case "client":
		rules = ClientRules()
	case "empty":
		rules = NewRuleset("html", true)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBase, doc.Base)
	}

	if doc.Indent != nil {
		rules.indent = *doc.Indent
	}
	if ns := strings.TrimSpace(doc.Namespace); ns != "" {
		rules.namespace = ns
	}

	for _, list := range [][]string{doc.Void, doc.Inline, doc.Namespaces, doc.Preserved, doc.Banned} {
		for _, tag := range list {
			if strings.TrimSpace(tag) == "" {
				return nil, errors.New("coyote: rules contain an empty tag name")
			}
		}
	}
	rules.AddVoid(doc.Void...)
	rules.AddInline(doc.Inline...)
	rules.AddNamespace(doc.Namespaces...)
	rules.AddPreserved(doc.Preserved...)
	rules.AddBanned(doc.Banned...)

	for tag, seq := range doc.AltText {
		if tag == "" || seq == "" {
			return nil, fmt.Errorf("coyote: alt_text entry %q needs a tag and a close sequence", tag)
		}
		rules.AddAltText(tag, seq)
	}
	return rules, nil
}
