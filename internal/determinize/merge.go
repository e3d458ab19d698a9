package determinize

import "fmt"

// historyMapping is a bijective History-to-History renaming under
// construction. Assignment order is recorded so iteration is deterministic;
// Go map iteration order is never relied on.
type historyMapping struct {
	order   []*History
	forward map[*History]*History
	reverse map[*History]*History
}

func newHistoryMapping() *historyMapping {
	return &historyMapping{
		forward: make(map[*History]*History),
		reverse: make(map[*History]*History),
	}
}

func (m *historyMapping) clear() {
	m.order = m.order[:0]
	for k := range m.forward {
		delete(m.forward, k)
	}
	for k := range m.reverse {
		delete(m.reverse, k)
	}
}

func (m *historyMapping) assign(from, to *History) {
	m.order = append(m.order, from)
	m.forward[from] = to
	m.reverse[to] = from
}

// size returns the number of assigned pairs.
func (m *historyMapping) size() int {
	return len(m.order)
}

// findMappableState scans the already-registered states for one that is
// history-isomorphic to u. Only states with the identical TNFA-substate set
// can be candidates, and the comparison key is derived solely from that set,
// so the scan is narrowed to the half-open key range [key, key+1). Keys are
// digests: a candidate in range may still have a different substate set and
// is rejected by the exact set comparison before a mapping is attempted.
//
// On success the bijection from u's histories to the returned state's is
// left in mapping.
func (d *Determinizer) findMappableState(u *DFAState, mapping *historyMapping) (*DFAState, error) {
	lo := u.ComparisonKey()
	hi, ok := incrementKey(lo)
	if !ok {
		// Every byte of the digest is 0xFF. With an MD5 key this is not a
		// case worth widening the key for; refuse loudly instead.
		return nil, fmt.Errorf("determinize: comparison key saturated, cannot build candidate range")
	}

	for _, candidate := range d.registry.inRange(lo, hi) {
		if !u.sameStateSet(candidate) {
			continue
		}
		if d.isMappable(u, candidate, mapping) {
			return candidate, nil
		}
	}
	return nil, nil
}

// isMappable reports whether a single consistent bijection maps every one of
// first's histories to the corresponding history in second, at every
// substate and every slot. The mapping container is cleared before the
// attempt; on failure its partial contents are meaningless.
func (d *Determinizer) isMappable(first, second *DFAState, mapping *historyMapping) bool {
	// The candidate range search guarantees set equality before we get here.
	if !first.sameStateSet(second) {
		panic("determinize: merge candidates must share the same substate set")
	}

	mapping.clear()
	for _, p := range first.inner {
		theirs, _ := second.HistoriesFor(p.state)
		if !updateMap(mapping, p.histories, theirs) {
			return false
		}
	}
	return true
}

// updateMap extends the bijection so that from maps to to, index by index.
// A source with no image yet may be mapped to its target provided the target
// is not already the image of some other source; an existing image must
// match the target exactly, in both directions. Returns false on the first
// contradiction.
func updateMap(m *historyMapping, from, to []*History) bool {
	if len(from) != len(to) {
		panic("determinize: history vectors of equal-set states must have equal length")
	}

	for i := range from {
		img, seen := m.forward[from[i]]
		if !seen {
			if _, taken := m.reverse[to[i]]; taken {
				return false
			}
			m.assign(from[i], to[i])
		} else if img != to[i] || m.reverse[to[i]] != from[i] {
			return false
		}
	}
	return true
}
