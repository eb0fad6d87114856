package history

import (
	"path/filepath"
	"testing"

	"yt-clip-batcher/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestRecordAndListRuns(t *testing.T) {
	store := openTestStore(t)

	first := model.RunSummary{
		StartedAt:      "2026-08-25T10:00:00Z",
		FinishedAt:     "2026-08-25T10:05:00Z",
		InputCSV:       "jobs.csv",
		OutputDir:      "/out",
		Strategy:       "local",
		RowsTotal:      2,
		RowsCompleted:  2,
		ClipsRequested: 5,
		ClipsProduced:  5,
	}
	second := model.RunSummary{
		StartedAt:      "2026-08-25T11:00:00Z",
		FinishedAt:     "2026-08-25T11:01:00Z",
		InputCSV:       "jobs.csv",
		OutputDir:      "/out2",
		Strategy:       "range",
		RowsTotal:      1,
		RowsCanceled:   1,
		ClipsRequested: 3,
		ClipsProduced:  1,
		ClipsFailed:    0,
		Canceled:       true,
	}

	if err := store.RecordRun(first); err != nil {
		t.Fatalf("record first: %v", err)
	}
	if err := store.RecordRun(second); err != nil {
		t.Fatalf("record second: %v", err)
	}

	records, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records: got %d want 2", len(records))
	}
	// Newest first.
	if records[0].Strategy != "range" || !records[0].Canceled {
		t.Fatalf("newest record: %+v", records[0])
	}
	if records[1].ClipsProduced != 5 || records[1].Canceled {
		t.Fatalf("oldest record: %+v", records[1])
	}
}

func TestOpen_MigrationIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := store.RecordRun(model.RunSummary{Strategy: "local"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	store2, err := Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer store2.Close()

	records, err := store2.RecentRuns(5)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records survived reopen: got %d want 1", len(records))
	}
}
