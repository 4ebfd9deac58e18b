package html

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSpaceSet(t *testing.T) {
	spaces := []rune{
		'\t', '\v', '\f', '\ufeff', ' ', '\u00a0', '\u1680',
		'\u2000', '\u2001', '\u2002', '\u2003', '\u2004', '\u2005',
		'\u2006', '\u2007', '\u2008', '\u2009', '\u200a',
		'\u202f', '\u205f', '\u3000',
	}
	for _, r := range spaces {
		if !isSpace(r) {
			t.Errorf("%U should be a space", r)
		}
	}
	for _, r := range []rune{'\n', '\r', 'a', '_', '\u200b', '\u00ad'} {
		if isSpace(r) {
			t.Errorf("%U should not be a space", r)
		}
	}
}

func TestContentLines(t *testing.T) {
	got := contentLines("\n\n  Beasts tread\r\n\u00a0 softly underfoot.\t\n\n")
	want := []string{"Beasts tread", "softly underfoot."}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestCommonIndent(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"    a", 4},
		{"    a\n      b", 4},
		{"      a\n    b\n        c", 4},
		{"\t\ta\n\n\t\t\tb", 2},
		{"\t a\n \tb", 0},
		{"  a\n  \n  b", 2},
		{"\u00a0\u00a0a\n\u00a0\u00a0\u00a0b", 4},
	}
	for _, c := range cases {
		if got := commonIndent(strings.Split(c.text, "\n")); got != c.want {
			t.Errorf("%q: got %d, want %d", c.text, got, c.want)
		}
	}
}

func TestDedent(t *testing.T) {
	got := dedent("\n        let a = 1;  \n\n          let b = 2;\n      ")
	want := []string{"let a = 1;", "  let b = 2;"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
