package model

import "testing"

func TestCanTransition_AllowsExpectedPaths(t *testing.T) {
	cases := []struct {
		from string
		to   string
	}{
		{"", RowPending},
		{RowPending, RowInProgress},
		{RowPending, RowCanceled},
		{RowInProgress, RowCompleted},
		{RowInProgress, RowPartiallyFailed},
		{RowInProgress, RowCanceled},
		{RowCompleted, RowCompleted},
	}

	for _, tc := range cases {
		if !CanTransition(tc.from, tc.to) {
			t.Fatalf("expected transition %q -> %q to be allowed", tc.from, tc.to)
		}
	}
}

func TestCanTransition_RejectsInvalidPaths(t *testing.T) {
	cases := []struct {
		from string
		to   string
	}{
		{RowPending, RowCompleted},
		{RowPending, RowPartiallyFailed},
		{RowCompleted, RowInProgress},
		{RowCanceled, RowInProgress},
		{RowPartiallyFailed, RowCompleted},
		{"not_a_state", RowPending},
	}

	for _, tc := range cases {
		if CanTransition(tc.from, tc.to) {
			t.Fatalf("expected transition %q -> %q to be rejected", tc.from, tc.to)
		}
	}
}

func TestTransitionRowStatus_BlocksIllegalTransition(t *testing.T) {
	row := RowResult{
		Row:        1,
		SourceLine: 3,
		Status:     RowPending,
	}

	if err := TransitionRowStatus(&row, RowCompleted); err == nil {
		t.Fatalf("expected illegal transition error")
	}
	if row.Status != RowPending {
		t.Fatalf("status mutated on rejected transition: %q", row.Status)
	}
}

func TestJobTableCounting(t *testing.T) {
	table := JobTable{Rows: []RowJob{
		{SourceLine: 1, Requests: []ClipRequest{
			{SourceURL: "https://www.youtube.com/watch?v=a", Offsets: []float64{5, 10}},
			{SourceURL: "https://www.youtube.com/watch?v=b", Offsets: []float64{30}},
		}},
		{SourceLine: 2},
		{SourceLine: 3, Requests: []ClipRequest{
			{SourceURL: "https://www.youtube.com/watch?v=c", Offsets: []float64{177}},
		}},
	}}

	if got := table.TotalClips(); got != 4 {
		t.Fatalf("total clips: got %d want 4", got)
	}
	nonEmpty := table.NonEmptyRows()
	if len(nonEmpty) != 2 {
		t.Fatalf("non-empty rows: got %d want 2", len(nonEmpty))
	}
	if nonEmpty[1].SourceLine != 3 {
		t.Fatalf("row order not preserved: got source line %d", nonEmpty[1].SourceLine)
	}
}
