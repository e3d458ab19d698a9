package determinize

import "github.com/KromDaniel/tagdfa/internal/tnfa"

// StateAndInstructions couples a closed DFA state with the ordered
// instructions that must execute when the transition into it is taken.
type StateAndInstructions struct {
	State        *DFAState
	Instructions []Instruction
}

// deque is a slice-backed double-ended queue of closure work items.
type deque struct {
	items []stateHistories
}

func (d *deque) pushFront(x stateHistories) {
	d.items = append(d.items, stateHistories{})
	copy(d.items[1:], d.items)
	d.items[0] = x
}

func (d *deque) pushBack(x stateHistories) {
	d.items = append(d.items, x)
}

func (d *deque) popFront() stateHistories {
	x := d.items[0]
	d.items = d.items[1:]
	return x
}

func (d *deque) empty() bool {
	return len(d.items) == 0
}

func copyHistories(h []*History) []*History {
	out := make([]*History, len(h))
	copy(out, h)
	return out
}

// makeStartState builds the initial DFA state: a singleton mapping from the
// TNFA's initial state to a freshly allocated, all-empty history vector,
// closed in start mode.
func (d *Determinizer) makeStartState() *StateAndInstructions {
	vec := make([]*History, len(d.tnfa.AllTags()))
	for i := range vec {
		vec[i] = d.histories.fresh()
	}
	inner := []stateHistories{{state: d.tnfa.InitialState(), histories: vec}}
	return d.epsilonClosure(inner, tnfa.EOS, true)
}

// epsilonClosure computes all states reachable from inner after following
// the epsilon edges of the TNFA, producing instructions when tags are
// crossed. In start mode the input range is ignored and the given mapping
// seeds the closure directly; otherwise one symbol in ir is consumed first.
//
// Work is scheduled through two deques: Normal-priority discoveries go onto
// a LIFO stack that is fully drained before the Low-priority FIFO queue is
// touched. States reachable via higher-priority edges are therefore
// registered first, and first registration wins, which is exactly how
// leftmost-greedy disambiguation is encoded into the result.
//
// Returns nil if there is no follow-up state at all.
func (d *Determinizer) epsilonClosure(inner []stateHistories, ir tnfa.InputRange, startState bool) *StateAndInstructions {
	var result []stateHistories
	registered := make(map[*tnfa.State]bool)

	var stack, lowQueue deque

	if startState {
		for _, p := range inner {
			stack.pushBack(p)
		}
	} else {
		for _, p := range inner {
			for _, t := range d.tnfa.AvailableTransitionsFor(p.state, ir) {
				switch t.Priority {
				case tnfa.Low:
					lowQueue.pushBack(stateHistories{state: t.State, histories: copyHistories(p.histories)})
				case tnfa.Normal:
					stack.pushFront(stateHistories{state: t.State, histories: copyHistories(p.histories)})
				default:
					panic("determinize: unknown transition priority")
				}
			}
		}
	}

	if stack.empty() && lowQueue.empty() {
		return nil
	}

	var instructions []Instruction
	for !stack.empty() || !lowQueue.empty() {
		var s stateHistories
		if !stack.empty() {
			s = stack.popFront()
		} else {
			s = lowQueue.popFront()
		}

		if registered[s.state] {
			continue
		}
		registered[s.state] = true
		result = append(result, s)

		for _, triple := range d.tnfa.AvailableEpsilonTransitionsFor(s.state) {
			if registered[triple.State] {
				continue
			}

			newHistories := copyHistories(s.histories)
			if tau := triple.Tag; tau != nil {
				// Both boundary kinds first refresh the group's opening slot.
				opening := d.histories.fresh()
				openingPos := tau.Group.StartTag.Position()
				instructions = append(instructions, reorder(opening, newHistories[openingPos]))
				newHistories[openingPos] = opening

				if tau.IsStartTag() {
					instructions = append(instructions, storePosPlusOne(opening))
				} else {
					closing := d.histories.fresh()
					closingPos := tau.Group.EndTag.Position()
					instructions = append(instructions, reorder(closing, newHistories[closingPos]))
					newHistories[closingPos] = closing
					// Commit both boundaries atomically once the end is known.
					instructions = append(instructions,
						storePos(closing),
						openingCommit(opening),
						closingCommit(closing))
				}
			}

			next := stateHistories{state: triple.State, histories: newHistories}
			switch triple.Priority {
			case tnfa.Low:
				lowQueue.pushBack(next)
			case tnfa.Normal:
				stack.pushFront(next)
			default:
				panic("determinize: unknown transition priority")
			}
		}
	}

	return &StateAndInstructions{
		State:        newDFAState(result),
		Instructions: instructions,
	}
}
