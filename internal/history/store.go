package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"yt-clip-batcher/internal/model"
)

// Store is a local ledger of past runs, one row per run.
type Store struct {
	db *sql.DB
}

type RunRecord struct {
	ID                  int64  `json:"id"`
	StartedAt           string `json:"started_at"`
	FinishedAt          string `json:"finished_at"`
	InputCSV            string `json:"input_csv"`
	OutputDir           string `json:"output_dir"`
	Strategy            string `json:"strategy"`
	RowsTotal           int    `json:"rows_total"`
	RowsCompleted       int    `json:"rows_completed"`
	RowsPartiallyFailed int    `json:"rows_partially_failed"`
	RowsCanceled        int    `json:"rows_canceled"`
	ClipsRequested      int    `json:"clips_requested"`
	ClipsProduced       int    `json:"clips_produced"`
	ClipsFailed         int    `json:"clips_failed"`
	Canceled            bool   `json:"canceled"`
}

// DefaultPath returns the per-user ledger location. Parent directories
// are created on Open, not here.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "yt-clip-batcher", "history.db"), nil
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping history db %s: %w", path, err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history db %s: %w", path, err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// migrate is idempotent and safe to run on every open.
func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			started_at TEXT,
			finished_at TEXT,
			input_csv TEXT,
			output_dir TEXT,
			strategy TEXT,
			rows_total INTEGER,
			rows_completed INTEGER,
			rows_partially_failed INTEGER,
			rows_canceled INTEGER,
			clips_requested INTEGER,
			clips_produced INTEGER,
			clips_failed INTEGER,
			canceled INTEGER,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

func (s *Store) RecordRun(summary model.RunSummary) error {
	_, err := s.db.Exec(`
		INSERT INTO runs (
			started_at, finished_at, input_csv, output_dir, strategy,
			rows_total, rows_completed, rows_partially_failed, rows_canceled,
			clips_requested, clips_produced, clips_failed, canceled
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.StartedAt, summary.FinishedAt, summary.InputCSV, summary.OutputDir, summary.Strategy,
		summary.RowsTotal, summary.RowsCompleted, summary.RowsPartiallyFailed, summary.RowsCanceled,
		summary.ClipsRequested, summary.ClipsProduced, summary.ClipsFailed, boolToInt(summary.Canceled),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

func (s *Store) RecentRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(`
		SELECT id, started_at, finished_at, input_csv, output_dir, strategy,
			rows_total, rows_completed, rows_partially_failed, rows_canceled,
			clips_requested, clips_produced, clips_failed, canceled
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	records := make([]RunRecord, 0, limit)
	for rows.Next() {
		var r RunRecord
		var canceled int
		if err := rows.Scan(
			&r.ID, &r.StartedAt, &r.FinishedAt, &r.InputCSV, &r.OutputDir, &r.Strategy,
			&r.RowsTotal, &r.RowsCompleted, &r.RowsPartiallyFailed, &r.RowsCanceled,
			&r.ClipsRequested, &r.ClipsProduced, &r.ClipsFailed, &canceled,
		); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		r.Canceled = canceled != 0
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return records, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
