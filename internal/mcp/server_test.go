package mcp

import "testing"

// TestSplitIDs verifies comma-separated id lists are split with whitespace
// trimmed and empty segments dropped.
func TestSplitIDs(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"bench-press,squat", []string{"bench-press", "squat"}},
		{" bench-press , squat ", []string{"bench-press", "squat"}},
		{"bench-press,,squat,", []string{"bench-press", "squat"}},
		{"", nil},
		{" , ", nil},
	}
	for _, tc := range cases {
		got := splitIDs(tc.in)
		if len(got) != len(tc.want) {
			t.Errorf("splitIDs(%q) = %v, want %v", tc.in, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("splitIDs(%q)[%d] = %q, want %q", tc.in, i, got[i], tc.want[i])
			}
		}
	}
}
