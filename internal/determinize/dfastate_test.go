package determinize

import (
	"bytes"
	"testing"
)

func TestIncrementKey(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want []byte
		ok   bool
	}{
		{"simple", []byte{0x00, 0x01}, []byte{0x00, 0x02}, true},
		{"carry", []byte{0x01, 0xFF}, []byte{0x02, 0x00}, true},
		{"double carry", []byte{0x01, 0xFF, 0xFF}, []byte{0x02, 0x00, 0x00}, true},
		{"saturated", []byte{0xFF, 0xFF}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := incrementKey(tt.in)
			if ok != tt.ok {
				t.Fatalf("incrementKey(%x) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if !bytes.Equal(got, tt.want) {
				t.Fatalf("incrementKey(%x) = %x, want %x", tt.in, got, tt.want)
			}
		})
	}
}

func TestIncrementKeyDoesNotAliasInput(t *testing.T) {
	in := []byte{0x01, 0x02}
	out, _ := incrementKey(in)
	out[0] = 0xAA
	if in[0] != 0x01 {
		t.Fatal("incrementKey mutated its input")
	}
}

func TestStateSetKeyIgnoresOrderAndHistories(t *testing.T) {
	autom, qa, qb := twoStates(t)
	d := New(autom, nil, Config{})
	h := func() *History { return d.histories.fresh() }

	k1 := stateSetKey([]stateHistories{
		{state: qa, histories: []*History{h(), h()}},
		{state: qb, histories: []*History{h(), h()}},
	})
	k2 := stateSetKey([]stateHistories{
		{state: qb, histories: []*History{h(), h()}},
		{state: qa, histories: []*History{h(), h()}},
	})
	if !bytes.Equal(k1, k2) {
		t.Error("keys differ for the same substate set")
	}

	k3 := stateSetKey([]stateHistories{
		{state: qa, histories: []*History{h(), h()}},
	})
	if bytes.Equal(k1, k3) {
		t.Error("keys collide for different substate sets")
	}
}

func TestRegistryRange(t *testing.T) {
	autom, qa, qb := twoStates(t)
	d := New(autom, nil, Config{})
	h := func() []*History { return []*History{d.histories.fresh(), d.histories.fresh()} }

	both1 := newDFAState([]stateHistories{{state: qa, histories: h()}, {state: qb, histories: h()}})
	both2 := newDFAState([]stateHistories{{state: qa, histories: h()}, {state: qb, histories: h()}})
	only := newDFAState([]stateHistories{{state: qa, histories: h()}})

	var r stateRegistry
	r.insert(both1)
	r.insert(only)
	r.insert(both2)

	if r.size() != 3 {
		t.Fatalf("size = %d, want 3", r.size())
	}

	lo := both1.ComparisonKey()
	hi, ok := incrementKey(lo)
	if !ok {
		t.Fatal("increment failed")
	}
	got := r.inRange(lo, hi)
	if len(got) != 2 {
		t.Fatalf("inRange returned %d states, want 2", len(got))
	}
	// Insertion order is preserved among equal keys.
	if got[0] != both1 || got[1] != both2 {
		t.Error("equal-key states are not in insertion order")
	}
	for _, s := range got {
		if !s.sameStateSet(both1) {
			t.Errorf("state %v in range has a different substate set", s)
		}
	}
}

func TestDFAStateAccessors(t *testing.T) {
	autom, qa, qb := twoStates(t)
	d := New(autom, nil, Config{})
	vec := []*History{d.histories.fresh(), d.histories.fresh()}

	s := newDFAState([]stateHistories{{state: qa, histories: vec}})
	if s.Size() != 1 {
		t.Errorf("Size = %d, want 1", s.Size())
	}
	if got, ok := s.HistoriesFor(qa); !ok || len(got) != 2 {
		t.Errorf("HistoriesFor(qa) = %v, %v", got, ok)
	}
	if _, ok := s.HistoriesFor(qb); ok {
		t.Error("HistoriesFor(qb) = ok for a non-member substate")
	}
}
