package main

import "testing"

func TestArrayFlagsSet(t *testing.T) {
	var flags arrayFlags

	values := []string{"abc", "def", "xyz"}
	for _, v := range values {
		if err := flags.Set(v); err != nil {
			t.Fatalf("Set(%q) failed: %v", v, err)
		}
	}

	if len(flags) != len(values) {
		t.Fatalf("got %d values, want %d", len(flags), len(values))
	}
	for i, v := range values {
		if flags[i] != v {
			t.Errorf("flags[%d] = %q, want %q", i, flags[i], v)
		}
	}
}

func TestArrayFlagsString(t *testing.T) {
	tests := []struct {
		name  string
		flags arrayFlags
		want  string
	}{
		{"empty", arrayFlags{}, ""},
		{"single", arrayFlags{"a"}, "a"},
		{"multiple", arrayFlags{"a", "b", "c"}, "a, b, c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.flags.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
