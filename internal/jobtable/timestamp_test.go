package jobtable

import (
	"math"
	"testing"
)

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"2.57", 177},
		{"0.5", 5},
		{"0.05", 5},
		{"1.05", 65},
		{"2.10", 130},
		{"10.00", 600},
		{"1.02.03", 3723},
		{"0.0.30", 30},
		{"45", 45},
		{" 3.15 ", 195},
	}

	for _, tc := range cases {
		got, err := ParseTimestamp(tc.in)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q): %v", tc.in, err)
		}
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("ParseTimestamp(%q): got %v want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseTimestamp_Rejects(t *testing.T) {
	for _, in := range []string{"", "abc", "1.xx", "-5", "-1.30", "1.2.3.4", "1.-30"} {
		if _, err := ParseTimestamp(in); err == nil {
			t.Fatalf("ParseTimestamp(%q): expected error", in)
		}
	}
}

func TestSplitTimestampCell(t *testing.T) {
	got := SplitTimestampCell(" 1.05; 2.10;; 3.00 ;")
	want := []string{"1.05", "2.10", "3.00"}
	if len(got) != len(want) {
		t.Fatalf("token count: got %d want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %q want %q", i, got[i], want[i])
		}
	}
}
