package tnfa

import (
	"fmt"
	"sort"
)

// symbolTransition is an outgoing symbol edge together with its consumed range.
type symbolTransition struct {
	rng    InputRange
	triple TransitionTriple
}

// TNFA is an immutable tagged NFA. It is built once by a Builder and then
// queried repeatedly (and concurrently safely, being read-only) during
// determinization.
type TNFA struct {
	states  []*State
	initial *State
	finals  map[*State]bool

	groups []*CaptureGroup
	tags   []*Tag // ordered, start/end pairs per group

	symbols  map[*State][]symbolTransition
	epsilons map[*State][]TransitionTriple
}

// InitialState returns the designated initial state.
func (t *TNFA) InitialState() *State {
	return t.initial
}

// IsFinal reports whether s is an accepting state.
func (t *TNFA) IsFinal(s *State) bool {
	return t.finals[s]
}

// AllTags returns the ordered tag set. The count is even: tags pair up as
// start/end per capture group.
func (t *TNFA) AllTags() []*Tag {
	return t.tags
}

// GroupCount returns the number of capture groups, including group 0.
func (t *TNFA) GroupCount() int {
	return len(t.groups)
}

// Group returns the capture group with the given number.
func (t *TNFA) Group(number int) *CaptureGroup {
	return t.groups[number]
}

// StateCount returns the number of states.
func (t *TNFA) StateCount() int {
	return len(t.states)
}

// AvailableTransitionsFor returns the symbol-consuming transitions out of s
// whose range covers ir, in the order they were added.
func (t *TNFA) AvailableTransitionsFor(s *State, ir InputRange) []TransitionTriple {
	var out []TransitionTriple
	for _, st := range t.symbols[s] {
		if st.rng.ContainsRange(ir) {
			out = append(out, st.triple)
		}
	}
	return out
}

// AvailableEpsilonTransitionsFor returns the epsilon transitions out of s in
// the order they were added. The order is meaningful: among equal priorities,
// later transitions are explored first by the closure's LIFO discipline, so
// the builder appends preferred alternatives last.
func (t *TNFA) AvailableEpsilonTransitionsFor(s *State) []TransitionTriple {
	return t.epsilons[s]
}

// SymbolRangesFor returns the raw ranges of all symbol transitions out of s.
func (t *TNFA) SymbolRangesFor(s *State) []InputRange {
	var out []InputRange
	for _, st := range t.symbols[s] {
		out = append(out, st.rng)
	}
	return out
}

// RelevantRangesFor partitions the symbol ranges reachable from the given
// states into elementary disjoint ranges: every returned range is fully
// inside or fully outside every transition range of every given state, and
// every returned range is covered by at least one transition.
func (t *TNFA) RelevantRangesFor(states []*State) []InputRange {
	var raw []InputRange
	for _, s := range states {
		raw = append(raw, t.SymbolRangesFor(s)...)
	}
	if len(raw) == 0 {
		return nil
	}

	// Boundary points: each range contributes its start, and the point just
	// past its end.
	points := make([]rune, 0, 2*len(raw))
	for _, r := range raw {
		points = append(points, r.Lo, r.Hi+1)
	}
	sort.Slice(points, func(i, j int) bool { return points[i] < points[j] })

	var out []InputRange
	for i := 0; i+1 <= len(points)-1; i++ {
		lo, next := points[i], points[i+1]
		if lo == next {
			continue
		}
		elem := InputRange{Lo: lo, Hi: next - 1}
		for _, r := range raw {
			if r.ContainsRange(elem) {
				out = append(out, elem)
				break
			}
		}
	}
	return out
}

// Builder constructs a TNFA. The zero value is not usable; use NewBuilder.
type Builder struct {
	t *TNFA
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{t: &TNFA{
		finals:   make(map[*State]bool),
		symbols:  make(map[*State][]symbolTransition),
		epsilons: make(map[*State][]TransitionTriple),
	}}
}

// NewState allocates a fresh state.
func (b *Builder) NewState() *State {
	s := &State{id: len(b.t.states)}
	b.t.states = append(b.t.states, s)
	return s
}

// NewGroup allocates the next capture group. Groups must be allocated in
// dense numbering order, starting with the root group 0 (nil parent).
func (b *Builder) NewGroup(parent *CaptureGroup) *CaptureGroup {
	g := newCaptureGroup(len(b.t.groups), parent)
	b.t.groups = append(b.t.groups, g)
	b.t.tags = append(b.t.tags, g.StartTag, g.EndTag)
	return g
}

// SetInitial designates the initial state.
func (b *Builder) SetInitial(s *State) {
	b.t.initial = s
}

// AddFinal marks s as accepting.
func (b *Builder) AddFinal(s *State) {
	b.t.finals[s] = true
}

// AddSymbolTransition adds a transition consuming any rune in rng.
func (b *Builder) AddSymbolTransition(from *State, rng InputRange, prio Priority, to *State) {
	b.t.symbols[from] = append(b.t.symbols[from], symbolTransition{
		rng:    rng,
		triple: TransitionTriple{State: to, Priority: prio},
	})
}

// AddEpsilonTransition adds an epsilon transition, optionally tagged.
func (b *Builder) AddEpsilonTransition(from *State, prio Priority, tag *Tag, to *State) {
	b.t.epsilons[from] = append(b.t.epsilons[from], TransitionTriple{
		State:    to,
		Priority: prio,
		Tag:      tag,
	})
}

// Build finalizes the automaton.
func (b *Builder) Build() (*TNFA, error) {
	if b.t.initial == nil {
		return nil, fmt.Errorf("tnfa: no initial state set")
	}
	if len(b.t.finals) == 0 {
		return nil, fmt.Errorf("tnfa: no final state set")
	}
	return b.t, nil
}
