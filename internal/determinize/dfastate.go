package determinize

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"sort"
	"strings"

	"github.com/KromDaniel/tagdfa/internal/tnfa"
)

// stateHistories pairs an NFA substate with its current history vector.
// The vector has one cell per tag: index 2*group for the opening boundary,
// 2*group+1 for the closing one.
type stateHistories struct {
	state     *tnfa.State
	histories []*History
}

// DFAState is a deterministic state: the set of TNFA substates reachable at
// this point, each annotated with its history assignment, in registration
// order. The comparison key is a digest of the substate set alone; it narrows
// merge-candidate search but is not an equality key.
type DFAState struct {
	inner []stateHistories
	index map[*tnfa.State]int
	key   []byte
}

func newDFAState(inner []stateHistories) *DFAState {
	index := make(map[*tnfa.State]int, len(inner))
	for i, p := range inner {
		index[p.state] = i
	}
	d := &DFAState{inner: inner, index: index}
	d.key = stateSetKey(inner)
	return d
}

// States returns the substates in registration (priority) order.
func (d *DFAState) States() []*tnfa.State {
	out := make([]*tnfa.State, len(d.inner))
	for i, p := range d.inner {
		out[i] = p.state
	}
	return out
}

// HistoriesFor returns the history vector bound to s, if s is a substate.
func (d *DFAState) HistoriesFor(s *tnfa.State) ([]*History, bool) {
	i, ok := d.index[s]
	if !ok {
		return nil, false
	}
	return d.inner[i].histories, true
}

// Size returns the number of substates.
func (d *DFAState) Size() int {
	return len(d.inner)
}

// ComparisonKey returns the digest of the substate set.
func (d *DFAState) ComparisonKey() []byte {
	return d.key
}

// sameStateSet reports whether the two states contain exactly the same TNFA
// substates, ignoring history assignments.
func (d *DFAState) sameStateSet(o *DFAState) bool {
	if len(d.inner) != len(o.inner) {
		return false
	}
	for s := range d.index {
		if _, ok := o.index[s]; !ok {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer.
func (d *DFAState) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, p := range d.inner {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v%v", p.state, p.histories)
	}
	b.WriteByte('}')
	return b.String()
}

// stateSetKey digests the substate set into a fixed-length key. The digest
// covers the sorted state IDs only, so all and only states with the same
// substate set share a key prefix range. Digest collisions across different
// substate sets are tolerated by re-checking set equality before merging.
func stateSetKey(inner []stateHistories) []byte {
	ids := make([]int, len(inner))
	for i, p := range inner {
		ids[i] = p.state.ID()
	}
	sort.Ints(ids)

	h := md5.New()
	var buf [8]byte
	for _, id := range ids {
		binary.BigEndian.PutUint64(buf[:], uint64(id))
		h.Write(buf[:])
	}
	return h.Sum(nil)
}

// incrementKey returns key+1 under lexicographic byte ordering, for use as
// the exclusive upper bound of a candidate range. The second result is false
// if every byte is already 0xFF and the key cannot be incremented.
func incrementKey(key []byte) ([]byte, bool) {
	out := make([]byte, len(key))
	copy(out, key)
	for i := len(out) - 1; i >= 0; i-- {
		if out[i] != 0xFF {
			out[i]++
			return out, true
		}
		out[i] = 0
	}
	return nil, false
}

// stateRegistry keeps registered DFA states ordered by comparison key, with
// insertion order preserved among equal keys.
type stateRegistry struct {
	states []*DFAState
}

func (r *stateRegistry) insert(s *DFAState) {
	i := sort.Search(len(r.states), func(i int) bool {
		return bytes.Compare(r.states[i].key, s.key) > 0
	})
	r.states = append(r.states, nil)
	copy(r.states[i+1:], r.states[i:])
	r.states[i] = s
}

// inRange returns the states whose key k satisfies lo <= k < hi.
func (r *stateRegistry) inRange(lo, hi []byte) []*DFAState {
	i := sort.Search(len(r.states), func(i int) bool {
		return bytes.Compare(r.states[i].key, lo) >= 0
	})
	j := sort.Search(len(r.states), func(j int) bool {
		return bytes.Compare(r.states[j].key, hi) >= 0
	})
	return r.states[i:j]
}

func (r *stateRegistry) size() int {
	return len(r.states)
}
