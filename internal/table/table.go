// Package table holds the run-time representation of a compiled tagged DFA:
// a transition table whose edges carry instruction lists, plus the
// interpreter that executes those instructions against a cell array while
// matching input.
package table

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KromDaniel/tagdfa/internal/determinize"
	"github.com/KromDaniel/tagdfa/internal/tnfa"
)

// Instr is a compiled instruction. Histories are addressed by their dense
// per-run IDs; Source is -1 except for reorders.
type Instr struct {
	Op     determinize.Opcode
	Target int
	Source int
}

// String implements fmt.Stringer.
func (i Instr) String() string {
	if i.Op == determinize.OpReorder {
		return fmt.Sprintf("%v(h%d <- h%d)", i.Op, i.Target, i.Source)
	}
	return fmt.Sprintf("%v(h%d)", i.Op, i.Target)
}

// transition is one outgoing edge of a DFA state.
type transition struct {
	rng    tnfa.InputRange
	instrs []Instr
	next   int
}

// acceptInfo records whether a DFA state accepts and, if so, the history
// cell bound to each tag slot in its highest-priority accepting substate.
type acceptInfo struct {
	accepting bool
	slots     []int
}

// Builder implements determinize.TableBuilder. It assigns dense IDs to DFA
// states in discovery order and accumulates transitions until Build.
type Builder struct {
	tnfa *tnfa.TNFA

	ids    map[*determinize.DFAState]int
	states []*determinize.DFAState

	start       int
	startInstrs []Instr
	transitions map[int][]transition
	parentOf    []int
}

// NewBuilder creates a builder for automata over t.
func NewBuilder(t *tnfa.TNFA) *Builder {
	return &Builder{
		tnfa:        t,
		ids:         make(map[*determinize.DFAState]int),
		transitions: make(map[int][]transition),
	}
}

func (b *Builder) idFor(s *determinize.DFAState) int {
	if id, ok := b.ids[s]; ok {
		return id
	}
	id := len(b.states)
	b.ids[s] = id
	b.states = append(b.states, s)
	return id
}

func compileInstrs(instructions []determinize.Instruction) []Instr {
	out := make([]Instr, len(instructions))
	for i, ins := range instructions {
		c := Instr{Op: ins.Op, Target: ins.Target.ID(), Source: -1}
		if ins.Source != nil {
			c.Source = ins.Source.ID()
		}
		out[i] = c
	}
	return out
}

// SetStart records the start state and the instructions that must run before
// any input is consumed.
func (b *Builder) SetStart(state *determinize.DFAState, instructions []determinize.Instruction) {
	b.start = b.idFor(state)
	b.startInstrs = compileInstrs(instructions)
}

// AddTransition records one (state, input range) edge with its ordered
// instruction list.
func (b *Builder) AddTransition(from *determinize.DFAState, ir tnfa.InputRange, instructions []determinize.Instruction, to *determinize.DFAState) {
	src := b.idFor(from)
	b.transitions[src] = append(b.transitions[src], transition{
		rng:    ir,
		instrs: compileInstrs(instructions),
		next:   b.idFor(to),
	})
}

// SetParentOf records the capture-group nesting map.
func (b *Builder) SetParentOf(parentOf []int) {
	b.parentOf = parentOf
}

// Build finalizes the table. historyCount is the total number of history
// cells the construction allocated; the interpreter sizes its cell arrays
// with it.
func (b *Builder) Build(historyCount int) *TransitionTable {
	n := len(b.states)
	t := &TransitionTable{
		start:        b.start,
		startInstrs:  b.startInstrs,
		transitions:  make([][]transition, n),
		accepts:      make([]acceptInfo, n),
		parentOf:     b.parentOf,
		historyCount: historyCount,
		groupCount:   len(b.parentOf),
	}
	for id := 0; id < n; id++ {
		trs := b.transitions[id]
		sort.SliceStable(trs, func(i, j int) bool { return trs[i].rng.Lo < trs[j].rng.Lo })
		t.transitions[id] = trs
		t.accepts[id] = b.acceptInfoFor(b.states[id])
	}
	return t
}

// acceptInfoFor finds the highest-priority accepting substate, if any.
// Registration order of the DFA state's substates is priority order, so the
// first accepting substate wins.
func (b *Builder) acceptInfoFor(s *determinize.DFAState) acceptInfo {
	for _, sub := range s.States() {
		if !b.tnfa.IsFinal(sub) {
			continue
		}
		histories, _ := s.HistoriesFor(sub)
		slots := make([]int, len(histories))
		for i, h := range histories {
			slots[i] = h.ID()
		}
		return acceptInfo{accepting: true, slots: slots}
	}
	return acceptInfo{}
}

// TransitionTable is the immutable, executable form of a compiled TDFA.
type TransitionTable struct {
	start        int
	startInstrs  []Instr
	transitions  [][]transition
	accepts      []acceptInfo
	parentOf     []int
	historyCount int
	groupCount   int
}

// NumStates returns the number of DFA states.
func (t *TransitionTable) NumStates() int {
	return len(t.transitions)
}

// StartState returns the ID of the start state.
func (t *TransitionTable) StartState() int {
	return t.start
}

// StartInstructions returns the instructions that run before any input is
// consumed.
func (t *TransitionTable) StartInstructions() []Instr {
	return t.startInstrs
}

// HistoryCount returns the size of the cell array the interpreter needs.
func (t *TransitionTable) HistoryCount() int {
	return t.historyCount
}

// AcceptSlots returns the per-slot history cells of state's accepting
// substate, and whether state accepts at all.
func (t *TransitionTable) AcceptSlots(state int) ([]int, bool) {
	a := t.accepts[state]
	return a.slots, a.accepting
}

// Edges calls fn for every transition, grouped by source state in ID order.
func (t *TransitionTable) Edges(fn func(from int, rng tnfa.InputRange, instrs []Instr, to int)) {
	for from, trs := range t.transitions {
		for _, tr := range trs {
			fn(from, tr.rng, tr.instrs, tr.next)
		}
	}
}

// GroupCount returns the number of capture groups, including group 0.
func (t *TransitionTable) GroupCount() int {
	return t.groupCount
}

// ParentOf returns the capture-group nesting map: ParentOf()[g] is the
// parent group of g, with group 0 its own parent.
func (t *TransitionTable) ParentOf() []int {
	return t.parentOf
}

// step returns the successor and instructions for consuming r in state.
func (t *TransitionTable) step(state int, r rune) (int, []Instr, bool) {
	for _, tr := range t.transitions[state] {
		if tr.rng.Contains(r) {
			return tr.next, tr.instrs, true
		}
	}
	return 0, nil, false
}

// Dump renders the whole table in a stable, human-readable form. Two
// structurally identical tables dump identically, which the tests use to
// check construction determinism.
func (t *TransitionTable) Dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "start=%d histories=%d parentOf=%v\n", t.start, t.historyCount, t.parentOf)
	fmt.Fprintf(&b, "init: %v\n", t.startInstrs)
	for id, trs := range t.transitions {
		accept := ""
		if t.accepts[id].accepting {
			accept = fmt.Sprintf(" accept%v", t.accepts[id].slots)
		}
		fmt.Fprintf(&b, "s%d%s:\n", id, accept)
		for _, tr := range trs {
			fmt.Fprintf(&b, "  %v -> s%d %v\n", tr.rng, tr.next, tr.instrs)
		}
	}
	return b.String()
}
