package cli

import (
	"flag"
	"fmt"

	"yt-clip-batcher/internal/config"
)

func runHistory(args []string) error {
	cfg := config.Load()

	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	limit := fs.Int("limit", 10, "number of recent runs to show")
	dbPath := fs.String("history", cfg.HistoryDB, "history database path (default: per-user data dir)")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openHistory(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.RecentRuns(*limit)
	if err != nil {
		return err
	}

	if *jsonOut {
		return printJSON(records)
	}
	if len(records) == 0 {
		fmt.Println("no runs recorded yet")
		return nil
	}
	for _, r := range records {
		state := "ok"
		if r.Canceled {
			state = "canceled"
		} else if r.ClipsFailed > 0 {
			state = "partial"
		}
		fmt.Printf("#%d  %s  %s  %s  clips %d/%d  rows %d  %s\n",
			r.ID, r.StartedAt, r.Strategy, state, r.ClipsProduced, r.ClipsRequested, r.RowsTotal, r.OutputDir)
	}
	return nil
}
