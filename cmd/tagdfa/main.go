// Command tagdfa compiles a regular expression into a tagged DFA and either
// emits a standalone Go matcher for it or inspects the compiled automaton.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/KromDaniel/tagdfa/pkg/tagdfa"
)

// arrayFlags collects repeated string flags.
type arrayFlags []string

func (a *arrayFlags) String() string {
	return strings.Join(*a, ", ")
}

func (a *arrayFlags) Set(value string) error {
	*a = append(*a, value)
	return nil
}

func main() {
	var inputs arrayFlags

	pattern := flag.String("pattern", "", "regular expression to compile (required)")
	name := flag.String("name", "", "prefix for generated identifiers (required with -output)")
	output := flag.String("output", "", "path of the generated Go file")
	pkg := flag.String("package", "", "package name for the generated code")
	maxStates := flag.Int("max-states", 0, "cap on DFA states before giving up (0 = default)")
	verbose := flag.Bool("verbose", false, "log construction decisions to stderr")
	dump := flag.Bool("dump", false, "print the compiled transition table and exit")
	flag.Var(&inputs, "input", "test input to match after compiling (repeatable)")
	flag.Parse()

	if *pattern == "" {
		fmt.Fprintln(os.Stderr, "tagdfa: -pattern is required")
		flag.Usage()
		os.Exit(2)
	}
	if !*dump && len(inputs) == 0 && *output == "" {
		fmt.Fprintln(os.Stderr, "tagdfa: nothing to do; pass -dump, -input or -output")
		flag.Usage()
		os.Exit(2)
	}

	if *dump {
		out, err := tagdfa.DumpWithLimit(*pattern, *maxStates)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tagdfa: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(out)
	}

	if len(inputs) > 0 {
		re, err := tagdfa.CompileWithLimit(*pattern, *maxStates, *verbose)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tagdfa: %v\n", err)
			os.Exit(1)
		}
		for _, in := range inputs {
			reportMatch(re, in)
		}
	}

	if *output != "" {
		if err := tagdfa.Generate(tagdfa.Options{
			Pattern:    *pattern,
			Name:       *name,
			OutputFile: *output,
			Package:    *pkg,
			MaxStates:  *maxStates,
			Verbose:    *verbose,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "tagdfa: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("generated %s\n", *output)
	}
}

func reportMatch(re *tagdfa.Regexp, input string) {
	m, ok := re.FindString(input)
	if !ok {
		fmt.Printf("%q: no match\n", input)
		return
	}
	var groups []string
	for g := range m.Groups {
		if text, ok := m.Group(g); ok {
			groups = append(groups, fmt.Sprintf("%d=%q", g, text))
		} else {
			groups = append(groups, fmt.Sprintf("%d=-", g))
		}
	}
	fmt.Printf("%q: match [%d,%d) %s\n", input, m.Start(), m.End(), strings.Join(groups, " "))
}
