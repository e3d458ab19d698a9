// Package determinize compiles a tagged NFA into a tagged DFA. It performs
// subset construction while tracking, per NFA substate, which history cell is
// bound to each capture boundary, emits copy/store instructions whenever a
// tag is crossed, and merges DFA states that are identical up to a renaming
// of histories. The merge step is what makes construction terminate for
// patterns whose naive subset construction would produce infinitely many
// distinct-but-isomorphic states.
package determinize

import "fmt"

// History is a memory cell recording the text position last bound to a
// capture boundary. Histories are compared by identity, never by value: two
// cells are the same only if they are the same pointer. The ID is a dense
// per-run handle used by the transition table to address runtime cells.
type History struct {
	id int
}

// ID returns the dense handle of the cell within its compilation run.
func (h *History) ID() int {
	return h.id
}

// String implements fmt.Stringer.
func (h *History) String() string {
	return fmt.Sprintf("h%d", h.id)
}

// historyAllocator hands out fresh History cells with monotonically
// increasing IDs. One allocator is owned by one determinization run.
type historyAllocator struct {
	next int
}

func (a *historyAllocator) fresh() *History {
	h := &History{id: a.next}
	a.next++
	return h
}

// count returns the number of cells allocated so far.
func (a *historyAllocator) count() int {
	return a.next
}
