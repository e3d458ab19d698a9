package table

import (
	"testing"

	"github.com/KromDaniel/tagdfa/internal/determinize"
	"github.com/KromDaniel/tagdfa/internal/tnfa"
)

func compile(t *testing.T, pattern string) *TransitionTable {
	t.Helper()
	autom, err := tnfa.Compile(pattern)
	if err != nil {
		t.Fatalf("compile %q: %v", pattern, err)
	}
	b := NewBuilder(autom)
	d := determinize.New(autom, b, determinize.Config{})
	if err := d.Run(); err != nil {
		t.Fatalf("determinize %q: %v", pattern, err)
	}
	return b.Build(d.HistoryCount())
}

func TestFindStringCaptures(t *testing.T) {
	unset := [2]int{-1, -1}

	tests := []struct {
		pattern string
		input   string
		groups  [][2]int // expected group boundaries, rune indices, half-open
	}{
		{`(a)`, "a", [][2]int{{0, 1}, {0, 1}}},
		{`a(b)c`, "abc", [][2]int{{0, 3}, {1, 2}}},
		{`(a*)`, "aaa", [][2]int{{0, 3}, {0, 3}}},
		{`(a)(b)`, "ab", [][2]int{{0, 2}, {0, 1}, {1, 2}}},
		{`(ab)+`, "abab", [][2]int{{0, 4}, {2, 4}}},
		{`(a)|b`, "b", [][2]int{{0, 1}, unset}},
		{`a*`, "bbb", [][2]int{{0, 0}}},
		{`(x(y)z)`, "xyz", [][2]int{{0, 3}, {0, 3}, {1, 2}}},
		{`(日+)`, "日日x", [][2]int{{0, 2}, {0, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			tbl := compile(t, tt.pattern)
			m, ok := tbl.FindString(tt.input)
			if !ok {
				t.Fatalf("FindString(%q) found no match", tt.input)
			}
			if len(m.Groups) != len(tt.groups) {
				t.Fatalf("got %d groups %v, want %d", len(m.Groups), m.Groups, len(tt.groups))
			}
			for g, want := range tt.groups {
				if m.Groups[g] != want {
					t.Errorf("group %d = %v, want %v (all: %v)", g, m.Groups[g], want, m.Groups)
				}
			}
		})
	}
}

func TestFindStringCapturesAcrossMergedStates(t *testing.T) {
	// Quantified captures whose DFA loops through merged states: the
	// transition back into the loop carries renaming reorders appended after
	// the closure's commits, so the renamed cells must keep their sealed
	// boundary values across iterations.
	tests := []struct {
		pattern string
		input   string
		groups  [][2]int
	}{
		{`(a|b)+`, "abba", [][2]int{{0, 4}, {3, 4}}},
		{`(a|b)+`, "ab", [][2]int{{0, 2}, {1, 2}}},
		{`(a+)b`, "aaab", [][2]int{{0, 4}, {0, 3}}},
		{`(ab?)+`, "aab", [][2]int{{0, 3}, {1, 3}}},
		{`(a*?)b`, "aab", [][2]int{{0, 3}, {0, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			tbl := compile(t, tt.pattern)
			m, ok := tbl.FindString(tt.input)
			if !ok {
				t.Fatalf("FindString(%q) found no match", tt.input)
			}
			if len(m.Groups) != len(tt.groups) {
				t.Fatalf("got %d groups %v, want %d", len(m.Groups), m.Groups, len(tt.groups))
			}
			for g, want := range tt.groups {
				if m.Groups[g] != want {
					t.Errorf("group %d = %v, want %v (all: %v)", g, m.Groups[g], want, m.Groups)
				}
			}
		})
	}
}

func TestEmptyMatchAtStartParticipates(t *testing.T) {
	// The closing boundary of a match that is empty at offset 0 is stored as
	// -1, which must not be mistaken for an uncommitted slot.
	tbl := compile(t, `a*`)
	m, ok := tbl.FindString("bbb")
	if !ok {
		t.Fatal("FindString found no match")
	}
	if m.Groups[0] != [2]int{0, 0} {
		t.Fatalf("Groups[0] = %v, want [0, 0]", m.Groups[0])
	}
	if text, ok := m.Group(0); !ok || text != "" {
		t.Fatalf("Group(0) = %q, %v, want empty string and true", text, ok)
	}
}

func TestFindStringOffset(t *testing.T) {
	tbl := compile(t, `ab`)
	m, ok := tbl.FindString("zzab")
	if !ok {
		t.Fatal("no match")
	}
	if m.Start() != 2 || m.End() != 4 {
		t.Errorf("match span = [%d, %d), want [2, 4)", m.Start(), m.End())
	}
}

func TestMatchString(t *testing.T) {
	tbl := compile(t, `abc`)

	tests := []struct {
		input string
		want  bool
	}{
		{"abc", true},
		{"xxabcxx", true},
		{"abd", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := tbl.MatchString(tt.input); got != tt.want {
			t.Errorf("MatchString(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestFindAllString(t *testing.T) {
	tbl := compile(t, `a+`)

	t.Run("all", func(t *testing.T) {
		ms := tbl.FindAllString("aa baa", -1)
		if len(ms) != 2 {
			t.Fatalf("found %d matches, want 2", len(ms))
		}
		if got, _ := ms[0].Group(0); got != "aa" {
			t.Errorf("first match = %q, want %q", got, "aa")
		}
		if got, _ := ms[1].Group(0); got != "aa" {
			t.Errorf("second match = %q, want %q", got, "aa")
		}
		if ms[1].Start() != 4 {
			t.Errorf("second match start = %d, want 4", ms[1].Start())
		}
	})

	t.Run("limited", func(t *testing.T) {
		if ms := tbl.FindAllString("a a a", 2); len(ms) != 2 {
			t.Fatalf("found %d matches, want 2", len(ms))
		}
	})

	t.Run("zero", func(t *testing.T) {
		if ms := tbl.FindAllString("aaa", 0); ms != nil {
			t.Fatalf("found %v, want nil", ms)
		}
	})
}

func TestFindAllAdvancesPastEmptyMatches(t *testing.T) {
	tbl := compile(t, `a*`)
	ms := tbl.FindAllString("ab", -1)
	if len(ms) == 0 {
		t.Fatal("no matches")
	}
	if got, _ := ms[0].Group(0); got != "a" {
		t.Errorf("first match = %q, want %q", got, "a")
	}
	// The empty matches after it must not loop forever; the scan advances one
	// rune past each.
	for i := 1; i < len(ms); i++ {
		if ms[i].Start() != ms[i].End() {
			t.Errorf("match %d = [%d, %d), want empty", i, ms[i].Start(), ms[i].End())
		}
	}
}

func TestMatchGroupAccessors(t *testing.T) {
	tbl := compile(t, `(a)(b)?`)
	m, ok := tbl.FindString("a")
	if !ok {
		t.Fatal("no match")
	}
	if got, ok := m.Group(1); !ok || got != "a" {
		t.Errorf("Group(1) = %q, %v, want %q, true", got, ok, "a")
	}
	if _, ok := m.Group(2); ok {
		t.Error("Group(2) participated, want unset")
	}
	if _, ok := m.Group(99); ok {
		t.Error("Group(99) = ok, want out-of-range false")
	}
}

func TestTableAccessors(t *testing.T) {
	tbl := compile(t, `(a(b))`)
	if got := tbl.GroupCount(); got != 3 {
		t.Errorf("GroupCount = %d, want 3", got)
	}
	want := []int{0, 0, 1}
	got := tbl.ParentOf()
	if len(got) != len(want) {
		t.Fatalf("ParentOf = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ParentOf = %v, want %v", got, want)
		}
	}
	if tbl.NumStates() == 0 {
		t.Error("NumStates = 0")
	}
	if tbl.HistoryCount() == 0 {
		t.Error("HistoryCount = 0")
	}
}

func TestDumpIsDeterministic(t *testing.T) {
	first := compile(t, `(a|b)*abb`).Dump()
	second := compile(t, `(a|b)*abb`).Dump()
	if first != second {
		t.Errorf("two compilations dumped differently:\n--- first ---\n%s\n--- second ---\n%s", first, second)
	}
}
