package determinize

import (
	"fmt"

	"github.com/KromDaniel/tagdfa/internal/tnfa"
)

// DefaultMaxStates bounds the number of DFA states registered before
// construction gives up. The merge engine bounds the state count
// structurally for well-formed input; the cap guards against adversarial or
// malformed automata.
const DefaultMaxStates = 10000

// Config holds the configuration for a determinization run.
type Config struct {
	MaxStates int  // Max DFA states before giving up (0 = use default)
	Verbose   bool // Enable verbose logging of construction decisions
}

// TableBuilder receives the construction's output: the start state, every
// discovered transition with its ordered instruction list, and the
// capture-group nesting map. The concrete transition-table representation
// lives behind this interface.
type TableBuilder interface {
	SetStart(state *DFAState, instructions []Instruction)
	AddTransition(from *DFAState, ir tnfa.InputRange, instructions []Instruction, to *DFAState)
	SetParentOf(parentOf []int)
}

// Determinizer compiles one TNFA into a TDFA. A Determinizer is a one-shot
// object: all mutable state (histories, queues, the state registry, the
// worklist) is owned by a single Run call and discarded afterwards.
type Determinizer struct {
	tnfa    *tnfa.TNFA
	builder TableBuilder
	logger  *Logger

	maxStates int
	histories historyAllocator
	registry  stateRegistry
}

// New creates a determinizer for the given automaton, delivering its output
// to builder.
func New(t *tnfa.TNFA, builder TableBuilder, cfg Config) *Determinizer {
	maxStates := cfg.MaxStates
	if maxStates <= 0 {
		maxStates = DefaultMaxStates
	}
	return &Determinizer{
		tnfa:      t,
		builder:   builder,
		logger:    NewLogger(cfg.Verbose),
		maxStates: maxStates,
	}
}

// SetLogger replaces the construction logger.
func (d *Determinizer) SetLogger(l *Logger) {
	d.logger = l
}

// HistoryCount returns the number of history cells allocated so far. After
// Run it is the size of the cell array the matcher needs.
func (d *Determinizer) HistoryCount() int {
	return d.histories.count()
}

// StateCount returns the number of DFA states registered so far.
func (d *Determinizer) StateCount() int {
	return d.registry.size()
}

// Run drives the worklist subset construction: close the start state, then
// for every discovered state and every relevant input range compute the
// successor closure, merge it into an existing history-isomorphic state when
// possible, and register the transition with the table builder. Merge
// renamings are linearized and appended after the closure's own
// instructions.
func (d *Determinizer) Run() error {
	d.logger.Section("Determinization")
	d.logger.Log("TNFA states: %d, capture groups: %d", d.tnfa.StateCount(), d.tnfa.GroupCount())

	start := d.makeStartState()
	if start == nil {
		return fmt.Errorf("determinize: start closure is empty")
	}
	d.registry.insert(start.State)
	d.builder.SetStart(start.State, start.Instructions)

	mapping := newHistoryMapping()
	worklist := []*DFAState{start.State}

	for len(worklist) > 0 {
		cur := worklist[0]
		worklist = worklist[1:]

		for _, ir := range d.tnfa.RelevantRangesFor(cur.States()) {
			out := d.epsilonClosure(cur.inner, ir, false)
			if out == nil {
				continue
			}

			instructions := out.Instructions
			dest := out.State

			existing, err := d.findMappableState(out.State, mapping)
			if err != nil {
				return err
			}
			if existing != nil {
				instructions = append(instructions, mappingInstructions(mapping)...)
				dest = existing
			} else {
				if d.registry.size() >= d.maxStates {
					return fmt.Errorf("determinize: state explosion: exceeded %d states", d.maxStates)
				}
				d.registry.insert(out.State)
				worklist = append(worklist, out.State)
			}

			d.builder.AddTransition(cur, ir, instructions, dest)
		}
	}

	d.builder.SetParentOf(d.makeParentOf())
	d.logger.Log("TDFA constructed with %d states, %d histories", d.registry.size(), d.histories.count())
	return nil
}

// makeParentOf returns the capture-group nesting map: parentOf[g] is the
// number of g's parent group. Group 0 is its own parent.
func (d *Determinizer) makeParentOf() []int {
	tags := d.tnfa.AllTags()
	ret := make([]int, len(tags)/2)
	for _, t := range tags {
		ret[t.Group.Number] = t.Group.Parent.Number
	}
	return ret
}
