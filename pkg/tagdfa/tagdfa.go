// Package tagdfa compiles regular expressions into tagged deterministic
// finite automata: DFAs whose transitions carry instructions maintaining
// capture-group positions, giving linear-time matching with full submatch
// extraction. Patterns can be matched in memory or emitted as standalone
// generated Go code.
package tagdfa

import (
	"fmt"

	"github.com/KromDaniel/tagdfa/internal/codegen"
	"github.com/KromDaniel/tagdfa/internal/determinize"
	"github.com/KromDaniel/tagdfa/internal/table"
	"github.com/KromDaniel/tagdfa/internal/tnfa"
)

// Options configures code generation.
type Options struct {
	// Pattern is the regular expression to compile
	Pattern string

	// Name is the prefix for generated identifiers (e.g. "Email" generates "EmailMatchString")
	Name string

	// OutputFile is the path where generated code will be written
	OutputFile string

	// Package is the Go package name for the generated code
	Package string

	// MaxStates caps the number of DFA states before compilation gives up (0 = default)
	MaxStates int

	// Verbose enables construction logging to stderr
	Verbose bool
}

// Validate checks if the options are valid.
func (o Options) Validate() error {
	if o.Pattern == "" {
		return fmt.Errorf("pattern cannot be empty")
	}
	if o.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if o.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	if o.Package == "" {
		return fmt.Errorf("package cannot be empty")
	}
	return nil
}

// Match is one successful match. Group boundaries are half-open rune index
// pairs; unmatched groups are [-1, -1]. Groups[0] spans the whole match.
type Match struct {
	Groups [][2]int

	texts []string
}

// Start returns the rune index where the match begins.
func (m *Match) Start() int {
	return m.Groups[0][0]
}

// End returns the rune index just past the match.
func (m *Match) End() int {
	return m.Groups[0][1]
}

// Group returns the text of group g and whether it participated in the match.
func (m *Match) Group(g int) (string, bool) {
	if g < 0 || g >= len(m.Groups) || m.Groups[g][0] < 0 {
		return "", false
	}
	return m.texts[g], true
}

func convertMatch(m *table.Match) *Match {
	out := &Match{
		Groups: m.Groups,
		texts:  make([]string, len(m.Groups)),
	}
	for g := range m.Groups {
		if s, ok := m.Group(g); ok {
			out.texts[g] = s
		}
	}
	return out
}

// Regexp is a compiled pattern backed by an in-memory transition table.
type Regexp struct {
	pattern string
	table   *table.TransitionTable
}

// Compile compiles a pattern into an in-memory tagged DFA.
func Compile(pattern string) (*Regexp, error) {
	return CompileWithLimit(pattern, 0, false)
}

// CompileWithLimit compiles with an explicit DFA state cap and optional
// verbose construction logging.
func CompileWithLimit(pattern string, maxStates int, verbose bool) (*Regexp, error) {
	tbl, err := compileTable(pattern, maxStates, verbose)
	if err != nil {
		return nil, err
	}
	return &Regexp{pattern: pattern, table: tbl}, nil
}

// compileTable runs the whole pipeline: parse to a TNFA, determinize it, and
// build the executable table.
func compileTable(pattern string, maxStates int, verbose bool) (*table.TransitionTable, error) {
	autom, err := tnfa.Compile(pattern)
	if err != nil {
		return nil, err
	}

	builder := table.NewBuilder(autom)
	det := determinize.New(autom, builder, determinize.Config{
		MaxStates: maxStates,
		Verbose:   verbose,
	})
	if err := det.Run(); err != nil {
		return nil, fmt.Errorf("failed to determinize %q: %w", pattern, err)
	}
	return builder.Build(det.HistoryCount()), nil
}

// String returns the source pattern.
func (r *Regexp) String() string {
	return r.pattern
}

// NumStates returns the number of DFA states in the compiled automaton.
func (r *Regexp) NumStates() int {
	return r.table.NumStates()
}

// GroupCount returns the number of capture groups, including group 0.
func (r *Regexp) GroupCount() int {
	return r.table.GroupCount()
}

// ParentOf returns the capture-group nesting map: ParentOf()[g] is the
// parent group of g, with group 0 its own parent.
func (r *Regexp) ParentOf() []int {
	return r.table.ParentOf()
}

// MatchString reports whether input contains a match.
func (r *Regexp) MatchString(input string) bool {
	return r.table.MatchString(input)
}

// FindString returns the leftmost match in input.
func (r *Regexp) FindString(input string) (*Match, bool) {
	m, ok := r.table.FindString(input)
	if !ok {
		return nil, false
	}
	return convertMatch(m), true
}

// FindAllString returns up to n non-overlapping matches; n < 0 means all.
func (r *Regexp) FindAllString(input string, n int) []*Match {
	raw := r.table.FindAllString(input, n)
	out := make([]*Match, len(raw))
	for i, m := range raw {
		out[i] = convertMatch(m)
	}
	return out
}

// Generate compiles the pattern and writes a standalone Go matcher for it.
// It returns an error if the pattern is invalid or code generation fails.
func Generate(opts Options) error {
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	tbl, err := compileTable(opts.Pattern, opts.MaxStates, opts.Verbose)
	if err != nil {
		return err
	}

	gen := codegen.New(codegen.Config{
		Pattern:    opts.Pattern,
		Name:       codegen.UpperFirst(opts.Name),
		OutputFile: opts.OutputFile,
		Package:    opts.Package,
	}, tbl)
	if err := gen.Generate(); err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	return nil
}
