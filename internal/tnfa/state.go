// Package tnfa implements the tagged nondeterministic finite automaton that
// the determinizer consumes. States carry symbol and epsilon transitions;
// epsilon transitions may additionally carry a capture-group tag. Transition
// priorities encode greedy-vs-lazy and leftmost-alternation disambiguation.
package tnfa

import "fmt"

// Priority disambiguates between competing transitions out of the same state.
// Normal transitions are explored before Low ones during closure, which is
// what makes greedy quantifiers greedy and alternation leftmost.
type Priority int

const (
	// Normal is the preferred priority.
	Normal Priority = iota
	// Low is the deferred priority.
	Low
)

// String returns a readable name for the priority.
func (p Priority) String() string {
	switch p {
	case Normal:
		return "NORMAL"
	case Low:
		return "LOW"
	default:
		return fmt.Sprintf("Priority(%d)", int(p))
	}
}

// State is a node of the TNFA. States are compared by identity; the numeric
// ID exists for deterministic ordering and debug output only.
type State struct {
	id int
}

// ID returns the dense, builder-assigned identifier of the state.
func (s *State) ID() int {
	return s.id
}

// String implements fmt.Stringer.
func (s *State) String() string {
	return fmt.Sprintf("q%d", s.id)
}

// TransitionTriple pairs a destination state with a disambiguation priority.
// For symbol transitions the consumed range lives in the transition table;
// for epsilon transitions Tag is the (possibly nil) capture tag crossed.
type TransitionTriple struct {
	State    *State
	Priority Priority
	Tag      *Tag
}

// String implements fmt.Stringer.
func (t TransitionTriple) String() string {
	if t.Tag != nil {
		return fmt.Sprintf("(%v, %v, %v)", t.State, t.Priority, t.Tag)
	}
	return fmt.Sprintf("(%v, %v)", t.State, t.Priority)
}
