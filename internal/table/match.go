package table

import "github.com/KromDaniel/tagdfa/internal/determinize"

// Match is the result of a successful match. Group boundaries are rune
// indices into the searched input, half-open; unmatched groups are [-1, -1].
// Groups[0] spans the whole match.
type Match struct {
	runes  []rune
	Groups [][2]int
}

// Start returns the rune index where the match begins.
func (m *Match) Start() int {
	return m.Groups[0][0]
}

// End returns the rune index just past the match.
func (m *Match) End() int {
	return m.Groups[0][1]
}

// Group returns the text of group g and whether the group participated in
// the match.
func (m *Match) Group(g int) (string, bool) {
	if g < 0 || g >= len(m.Groups) || m.Groups[g][0] < 0 {
		return "", false
	}
	return string(m.runes[m.Groups[g][0]:m.Groups[g][1]]), true
}

// execute runs an instruction list. pos is the index of the rune just
// consumed, or one less than the match offset before any input. Stores for
// opening boundaries record pos+1, the index of the rune that begins the
// group; stores for closing boundaries record pos itself. Commits seal the
// current cell value as a capture boundary.
//
// A reorder aliases the entire cell: working value and sealed value both.
// Merge renamings run after the closure's commits, so dropping the sealed
// half would lose every commit recorded under the renamed cells.
func execute(instrs []Instr, pos int, cells, committed []int) {
	for _, in := range instrs {
		switch in.Op {
		case determinize.OpReorder:
			cells[in.Target] = cells[in.Source]
			committed[in.Target] = committed[in.Source]
		case determinize.OpStorePos:
			cells[in.Target] = pos
		case determinize.OpStorePosPlusOne:
			cells[in.Target] = pos + 1
		case determinize.OpOpeningCommit, determinize.OpClosingCommit:
			committed[in.Target] = cells[in.Target]
		default:
			panic("table: unknown instruction opcode")
		}
	}
}

// FindAt runs the automaton anchored at the given rune offset, returning the
// greedy leftmost match starting there. The automaton is driven as far as
// the input allows; the last accepting state visited wins.
func (t *TransitionTable) FindAt(runes []rune, offset int) (*Match, bool) {
	cells := make([]int, t.historyCount)
	committed := make([]int, t.historyCount)
	for i := range cells {
		cells[i] = -1
		committed[i] = -1
	}

	execute(t.startInstrs, offset-1, cells, committed)
	state := t.start

	var best *Match
	if t.accepts[state].accepting {
		best = t.snapshot(runes, committed, state)
	}

	for j := offset; j < len(runes); j++ {
		next, instrs, ok := t.step(state, runes[j])
		if !ok {
			break
		}
		execute(instrs, j, cells, committed)
		state = next
		if t.accepts[state].accepting {
			best = t.snapshot(runes, committed, state)
		}
	}

	if best == nil {
		return nil, false
	}
	return best, true
}

// snapshot materializes the capture groups of the accepting state from the
// committed boundary cells.
func (t *TransitionTable) snapshot(runes []rune, committed []int, state int) *Match {
	slots := t.accepts[state].slots
	groups := make([][2]int, t.groupCount)
	for g := 0; g < t.groupCount; g++ {
		start := committed[slots[2*g]]
		end := committed[slots[2*g+1]]
		// Opening stores are pos+1 and never negative, and both boundaries
		// commit together, so the opening slot alone decides participation.
		// The closing slot can hold -1 legitimately: an empty match at
		// offset 0 stores the pre-input position.
		if start < 0 {
			groups[g] = [2]int{-1, -1}
			continue
		}
		// Closing stores hold the index of the last rune; report half-open.
		groups[g] = [2]int{start, end + 1}
	}
	return &Match{runes: runes, Groups: groups}
}

// FindString returns the leftmost match in input, trying successive start
// offsets until one matches.
func (t *TransitionTable) FindString(input string) (*Match, bool) {
	runes := []rune(input)
	for offset := 0; offset <= len(runes); offset++ {
		if m, ok := t.FindAt(runes, offset); ok {
			return m, true
		}
	}
	return nil, false
}

// MatchString reports whether input contains a match.
func (t *TransitionTable) MatchString(input string) bool {
	_, ok := t.FindString(input)
	return ok
}

// FindAllString returns up to n non-overlapping matches; n < 0 means all.
func (t *TransitionTable) FindAllString(input string, n int) []*Match {
	if n == 0 {
		return nil
	}
	runes := []rune(input)
	var out []*Match
	offset := 0
	for offset <= len(runes) {
		m, ok := t.findFrom(runes, offset)
		if !ok {
			break
		}
		out = append(out, m)
		if n > 0 && len(out) >= n {
			break
		}
		if m.End() > offset {
			offset = m.End()
		} else {
			offset++
		}
	}
	return out
}

// findFrom finds the leftmost match at or after offset.
func (t *TransitionTable) findFrom(runes []rune, offset int) (*Match, bool) {
	for ; offset <= len(runes); offset++ {
		if m, ok := t.FindAt(runes, offset); ok {
			return m, true
		}
	}
	return nil, false
}
