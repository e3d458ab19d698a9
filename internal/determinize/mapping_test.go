package determinize

import "testing"

// runReorders executes the emitted reorder instructions against a cell array
// indexed by history ID, exactly the way a matcher would.
func runReorders(t *testing.T, instrs []Instruction, cells []int) {
	t.Helper()
	for _, in := range instrs {
		if in.Op != OpReorder {
			t.Fatalf("linearizer emitted %v, want only reorders", in)
		}
		cells[in.Target.ID()] = cells[in.Source.ID()]
	}
}

func TestMappingInstructions(t *testing.T) {
	var alloc historyAllocator
	a, b, c, d, e := alloc.fresh(), alloc.fresh(), alloc.fresh(), alloc.fresh(), alloc.fresh()

	tests := []struct {
		name      string
		pairs     [][2]*History
		wantCount int
	}{
		{
			name:      "single edge",
			pairs:     [][2]*History{{a, b}},
			wantCount: 1,
		},
		{
			name:      "chain of three",
			pairs:     [][2]*History{{a, b}, {b, c}},
			wantCount: 2,
		},
		{
			name:      "chain discovered from the middle",
			pairs:     [][2]*History{{b, c}, {a, b}},
			wantCount: 2,
		},
		{
			name:      "self loop elided",
			pairs:     [][2]*History{{a, a}},
			wantCount: 0,
		},
		{
			name:      "two disjoint chains",
			pairs:     [][2]*History{{a, b}, {c, d}, {d, e}},
			wantCount: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newHistoryMapping()
			for _, p := range tt.pairs {
				m.assign(p[0], p[1])
			}

			instrs := mappingInstructions(m)
			if len(instrs) != tt.wantCount {
				t.Fatalf("emitted %d instructions %v, want %d", len(instrs), instrs, tt.wantCount)
			}

			// Seed every cell with a distinct sentinel and check that after
			// execution every target cell holds its source's original value.
			cells := make([]int, alloc.count())
			before := make([]int, alloc.count())
			for i := range cells {
				cells[i] = 100 + i
				before[i] = cells[i]
			}
			runReorders(t, instrs, cells)

			for _, p := range tt.pairs {
				if got, want := cells[p[1].ID()], before[p[0].ID()]; got != want {
					t.Errorf("cell %v = %d, want %v's original value %d", p[1], got, p[0], want)
				}
			}
		})
	}
}
