// Command coyote composes markup templates read from files or stdin.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	html "github.com/terawatthour/coyote"
)

func main() {
	compact := flag.Bool("compact", false, "render compact output with client rules")
	rulesPath := flag.String("rules", "", "YAML ruleset file (overrides -compact)")
	segments := flag.Bool("segments", false, "list literal segments and injection sites instead of composing")
	flag.Parse()

	color.NoColor = !term.IsTerminal(int(os.Stderr.Fd()))

	rules, err := loadRules(*rulesPath, *compact)
	if err != nil {
		fail(err)
	}

	inputs := flag.Args()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}

	status := 0
	for _, input := range inputs {
		if err := run(os.Stdout, input, rules, *segments); err != nil {
			report(input, err)
			status = 1
		}
	}
	os.Exit(status)
}

func loadRules(path string, compact bool) (*html.Ruleset, error) {
	if path != "" {
		return html.LoadRulesFile(path)
	}
	if compact {
		return html.ClientRules(), nil
	}
	return html.ServerRules(), nil
}

func run(w io.Writer, input string, rules *html.Ruleset, segments bool) error {
	source, err := read(input)
	if err != nil {
		return err
	}

	if segments {
		seg, err := html.Segment(rules, source)
		if err != nil {
			return err
		}
		for i, literal := range seg.Strings() {
			fmt.Fprintf(w, "%d\t%q\n", i, literal)
			if i < len(seg.Injections) {
				fmt.Fprintf(w, "\t%s\n", seg.Injections[i])
			}
		}
		return nil
	}

	out, err := html.Compose(rules, source)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

func read(input string) (string, error) {
	var data []byte
	var err error
	if input == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(input)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func report(input string, err error) {
	name := input
	if input == "-" {
		name = "<stdin>"
	}
	var lexErr *html.LexicalError
	if errors.As(err, &lexErr) {
		fmt.Fprintf(os.Stderr, "%s:%s %s\n", color.CyanString(name),
			color.YellowString("%d:%d:", lexErr.Line, lexErr.Column), color.RedString(lexErr.Reason))
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %s\n", color.CyanString(name), color.RedString(strings.TrimSpace(err.Error())))
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, color.RedString("coyote: %v", err))
	os.Exit(2)
}
