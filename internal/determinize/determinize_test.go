package determinize

import (
	"fmt"
	"strings"
	"testing"

	"github.com/KromDaniel/tagdfa/internal/tnfa"
)

// recordingBuilder captures the construction output as a stable textual dump.
// State identity is rendered through DFAState.String, which includes history
// IDs, so two runs over the same automaton must produce identical dumps.
type recordingBuilder struct {
	lines    []string
	parentOf []int
	edges    int
}

func (r *recordingBuilder) SetStart(s *DFAState, instrs []Instruction) {
	r.lines = append(r.lines, fmt.Sprintf("start %v %v", s, instrs))
}

func (r *recordingBuilder) AddTransition(from *DFAState, ir tnfa.InputRange, instrs []Instruction, to *DFAState) {
	r.lines = append(r.lines, fmt.Sprintf("%v --%v--> %v %v", from, ir, to, instrs))
	r.edges++
}

func (r *recordingBuilder) SetParentOf(parentOf []int) {
	r.parentOf = parentOf
}

func (r *recordingBuilder) dump() string {
	return strings.Join(r.lines, "\n")
}

func determinizePattern(t *testing.T, pattern string, cfg Config) (*Determinizer, *recordingBuilder, error) {
	t.Helper()
	autom, err := tnfa.Compile(pattern)
	if err != nil {
		t.Fatalf("compile %q: %v", pattern, err)
	}
	rb := &recordingBuilder{}
	d := New(autom, rb, cfg)
	return d, rb, d.Run()
}

func TestRunTerminates(t *testing.T) {
	// Patterns whose naive subset construction would keep growing without the
	// history merge. The DFA state count must stay small.
	tests := []struct {
		pattern   string
		maxStates int
	}{
		{`(a)`, 8},
		{`(a*)`, 8},
		{`(a)*`, 8},
		{`(a|b)*b`, 16},
		{`((a*)*)`, 16},
		{`(a+)(b+)`, 16},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			d, rb, err := determinizePattern(t, tt.pattern, Config{})
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if got := d.StateCount(); got > tt.maxStates {
				t.Errorf("construction used %d DFA states, want at most %d", got, tt.maxStates)
			}
			if rb.edges == 0 {
				t.Error("no transitions delivered to the builder")
			}
		})
	}
}

func TestRunIsDeterministic(t *testing.T) {
	for _, pattern := range []string{`(a|b)*abb`, `(x(y)z)+`, `(a*?)(a*)`} {
		t.Run(pattern, func(t *testing.T) {
			_, first, err := determinizePattern(t, pattern, Config{})
			if err != nil {
				t.Fatalf("first run failed: %v", err)
			}
			_, second, err := determinizePattern(t, pattern, Config{})
			if err != nil {
				t.Fatalf("second run failed: %v", err)
			}
			if first.dump() != second.dump() {
				t.Errorf("two runs over the same pattern diverged:\n--- first ---\n%s\n--- second ---\n%s",
					first.dump(), second.dump())
			}
		})
	}
}

func TestRunStateCap(t *testing.T) {
	_, _, err := determinizePattern(t, `(a|b)(c|d)(e|f)`, Config{MaxStates: 1})
	if err == nil {
		t.Fatal("expected a state explosion error with MaxStates=1")
	}
	if !strings.Contains(err.Error(), "state explosion") {
		t.Errorf("error = %q, want it to mention state explosion", err)
	}
}

func TestParentOf(t *testing.T) {
	tests := []struct {
		pattern string
		want    []int
	}{
		{`a`, []int{0}},
		{`(a)`, []int{0, 0}},
		{`(a(b))`, []int{0, 0, 1}},
		{`(a)(b)`, []int{0, 0, 0}},
		{`((a)(b(c)))`, []int{0, 0, 1, 1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			_, rb, err := determinizePattern(t, tt.pattern, Config{})
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if len(rb.parentOf) != len(tt.want) {
				t.Fatalf("parentOf = %v, want %v", rb.parentOf, tt.want)
			}
			for i := range tt.want {
				if rb.parentOf[i] != tt.want[i] {
					t.Fatalf("parentOf = %v, want %v", rb.parentOf, tt.want)
				}
			}
		})
	}
}

func TestHistoryAllocatorIDsAreDense(t *testing.T) {
	var alloc historyAllocator
	for i := 0; i < 5; i++ {
		h := alloc.fresh()
		if h.ID() != i {
			t.Fatalf("history %d allocated with ID %d", i, h.ID())
		}
	}
	if alloc.count() != 5 {
		t.Fatalf("count = %d, want 5", alloc.count())
	}
}
