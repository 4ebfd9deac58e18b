package html

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

type composeCase struct {
	name     string
	template string
	want     string
}

func runComposeCases(t *testing.T, rules Oracle, cases []composeCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Compose(rules, c.template)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestComposeScenarios(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "coyote")
	defer teardown()

	shared := []composeCase{
		{"empty element", "<p>\n</p>", "<p></p>"},
		{"inline element with text", "<b>     hello!\n</b>", "<b>hello!</b>"},
		{"anchor with text", "<a>\n\thello!    </a>", "<a>hello!</a>"},
		{"void element", "<input />", "<input>"},
		{"void element without slash", "<input>", "<input>"},
		{"preserved text", "<pre>\n\tU w U\n\t  woof woof!\n</pre>", "<pre>\n\tU w U\n\t  woof woof!\n</pre>"},
		{"non void self closing", "<p />", "<p></p>"},
		{"fragment", "\n\n<>\n</>\n\n", ""},
	}

	t.Run("compact", func(t *testing.T) {
		runComposeCases(t, ClientRules(), append(shared,
			composeCase{"loose text", "\n\n  Beasts tread\n  softly underfoot.\n\n", "Beasts tread softly underfoot."},
			composeCase{"comment", "\n\t<!--\n\t\t\tHello!\n\t\t-->\n\t\t", ""},
			composeCase{"style", "<style>#woof .bark {\n    color: doggo;\n}</style>", ""},
			composeCase{"script", "\n\t\t<script>\n\t\t\t{}\n\t\t</script>\n\t\t", ""},
		))
	})
	t.Run("pretty", func(t *testing.T) {
		runComposeCases(t, ServerRules(), append(shared,
			composeCase{"loose text", "\n\n  Beasts tread\n  softly underfoot.\n\n", "Beasts tread\nsoftly underfoot."},
		))
	})
}

func TestComposePretty(t *testing.T) {
	runComposeCases(t, ServerRules(), []composeCase{
		{
			name:     "form",
			template: `<form action="/uwu" method="post">you're a good dog >:3<input type=submit value="yus -_-"></form>`,
			want:     "<form action=\"/uwu\" method=\"post\">\n\tyou're a good dog >:3\n\t<input type=submit value=\"yus -_-\">\n</form>",
		},
		{
			name:     "nested blocks",
			template: "<div>\n  <p>hi</p>\n</div>",
			want:     "<div>\n\t<p>\n\t\thi\n\t</p>\n</div>",
		},
		{
			name:     "inline flow",
			template: "<p>Hello <b>world</b> again</p>",
			want:     "<p>\n\tHello <b>world</b> again\n</p>",
		},
		{
			name:     "lines are broken in blocks",
			template: "<p>\n  one\n  two\n</p>",
			want:     "<p>\n\tone\n\ttwo\n</p>",
		},
		{
			name:     "raw text is dedented",
			template: "<script>\n        let a = 1;\n          let b = 2;\n      </script>",
			want:     "<script>\n\tlet a = 1;\n\t  let b = 2;\n</script>",
		},
		{
			name:     "comment",
			template: "<!-- note -->",
			want:     "<!--\n\tnote\n-->",
		},
		{
			name:     "namespace",
			template: `<svg><circle r="1"/></svg>`,
			want:     "<svg>\n\t<circle r=\"1\"/>\n</svg>",
		},
		{
			name:     "doctype",
			template: "<!DOCTYPE html>\n<html><body></body></html>",
			want:     "<!DOCTYPE html>\n<html>\n\t<body></body>\n</html>",
		},
		{
			name:     "injection sites are echoed",
			template: "<form {}>{}</form>",
			want:     "<form {}>{}</form>",
		},
	})
}

func TestComposeCompact(t *testing.T) {
	rules := ClientRules()
	rules.AddBanned("aside")

	runComposeCases(t, rules, []composeCase{
		{
			name:     "flows everything",
			template: "<div>\n  <p>\n    one\n    two\n  </p>\n</div>",
			want:     "<div><p>one two</p></div>",
		},
		{
			name:     "inline spacing",
			template: "<p>Hello <b>world</b> again</p>",
			want:     "<p>Hello <b>world</b> again</p>",
		},
		{
			name:     "banned script",
			template: "<p>a</p><script>x</script><p>b</p>",
			want:     "<p>a</p><p>b</p>",
		},
		{
			name:     "banned subtree",
			template: "<div><aside class=x><p>secret</p><input></aside><p>ok</p></div>",
			want:     "<div><p>ok</p></div>",
		},
		{
			name:     "comment inside element",
			template: "<p>x<!-- note --></p>",
			want:     "<p>x</p>",
		},
		{
			name:     "mismatched tail tag is ignored",
			template: "<div><p>x</span></p></div>",
			want:     "<div><p>x</p></div>",
		},
		{
			name:     "tail tag on empty stack",
			template: "</p>hi",
			want:     "hi",
		},
		{
			name:     "namespace",
			template: `<svg><circle r="1"/></svg>`,
			want:     `<svg><circle r="1"/></svg>`,
		},
		{
			name:     "injection in banned subtree",
			template: "<p>{}</p><aside>{}</aside>",
			want:     "<p>{}</p>",
		},
	})
}

func TestComposeVoidElements(t *testing.T) {
	for _, rules := range []*Ruleset{ServerRules(), ClientRules()} {
		for _, tag := range []string{"input", "br", "img", "hr", "meta", "link"} {
			for _, template := range []string{"<" + tag + ">", "<" + tag + "/>", "<" + tag + " />"} {
				got, err := Compose(rules, template)
				if err != nil {
					t.Fatal(err)
				}
				if got != "<"+tag+">" {
					t.Errorf("%q: got %q", template, got)
				}
			}
		}
	}
}

func TestComposeRawTextShift(t *testing.T) {
	body := []string{"", "function bark() {", "  return 'woof';", "}", ""}
	template := func(shift int) string {
		lines := make([]string, len(body))
		for i, line := range body {
			if line != "" {
				line = strings.Repeat(" ", shift) + line
			}
			lines[i] = line
		}
		return "<div><script>" + strings.Join(lines, "\n") + "</script></div>"
	}

	rules := ServerRules()
	want, err := Compose(rules, template(0))
	if err != nil {
		t.Fatal(err)
	}
	for _, shift := range []int{1, 4, 9} {
		got, err := Compose(rules, template(shift))
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("shift %d changed the output (-want +got):\n%s", shift, diff)
		}
	}
	if !strings.Contains(want, "\n\t\tfunction bark() {\n\t\t  return 'woof';\n\t\t}\n\t</script>") {
		t.Errorf("unexpected raw text layout %q", want)
	}
}

func TestComposeCompactHasNoLineBreaks(t *testing.T) {
	template := `
<main>
	<h1>Title</h1>
	<p>
		Some <em>emphasis</em>
		and more.
	</p>
	<ul>
		<li>one</li>
		<li>two</li>
	</ul>
</main>
`
	got, err := Compose(ClientRules(), template)
	if err != nil {
		t.Fatal(err)
	}
	if strings.ContainsAny(got, "\n\t") {
		t.Errorf("compact output contains line breaks: %q", got)
	}
	want := "<main><h1>Title</h1><p>Some <em>emphasis</em> and more.</p><ul><li>one</li><li>two</li></ul></main>"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	template := "<div class=a><p>Hello <b>world</b></p><br><pre> x </pre></div>"
	for _, rules := range []*Ruleset{ServerRules(), ClientRules()} {
		first, err := Compose(rules, template)
		if err != nil {
			t.Fatal(err)
		}
		second, _ := Compose(rules, template)
		if first != second {
			t.Errorf("got %q then %q", first, second)
		}
	}
}

func TestComposeLexicalError(t *testing.T) {
	got, err := Compose(ServerRules(), "<p>fine</p><div class=\"oops>")
	var lexErr *LexicalError
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected a lexical error, got %v", err)
	}
	if got != "" {
		t.Errorf("expected no partial output, got %q", got)
	}
	if lexErr.Offset != 22 {
		t.Errorf("unexpected offset %d", lexErr.Offset)
	}
}

func TestEveryStepKindHasAHandler(t *testing.T) {
	for k := StepKind(0); k < stepKindCount; k++ {
		if handlers[k] == nil {
			t.Errorf("no handler for %s", k)
		}
	}
}
