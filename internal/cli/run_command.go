package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"yt-clip-batcher/internal/clipjob"
	"yt-clip-batcher/internal/config"
	"yt-clip-batcher/internal/history"
	"yt-clip-batcher/internal/model"
)

func runBatch(args []string) error {
	cfg := config.Load()

	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	input := fs.String("input", "", "input CSV path (URL/timestamp pairs per row)")
	output := fs.String("output", "", "output directory for per-row clip folders")
	strategy := fs.String("strategy", cfg.Strategy, "clip strategy: local|range")
	quality := fs.String("quality", cfg.Quality, "quality preset: best|1080p|720p")
	scratch := fs.String("scratch", cfg.ScratchDir, "scratch directory for full downloads (local strategy)")
	noPacing := fs.Bool("no-pacing", !cfg.Pacing, "disable randomized delays between clips and rows")
	ytdlpBin := fs.String("ytdlp", cfg.YTDLPBin, "yt-dlp binary override")
	ffmpegBin := fs.String("ffmpeg", cfg.FFmpegBin, "ffmpeg binary override")
	historyDB := fs.String("history", cfg.HistoryDB, "history database path (default: per-user data dir)")
	noHistory := fs.Bool("no-history", false, "skip recording this run in the history ledger")
	rawOutput := fs.Bool("raw-output", false, "print raw yt-dlp/ffmpeg output lines (verbose)")
	jsonOut := fs.Bool("json", false, "print JSON output")

	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*input) == "" {
		fs.Usage()
		return errors.New("--input is required")
	}
	if strings.TrimSpace(*output) == "" {
		fs.Usage()
		return errors.New("--output is required")
	}
	if !config.IsKnownStrategy(*strategy) {
		return fmt.Errorf("invalid strategy %q (expected local or range)", *strategy)
	}

	var recorder clipjob.Recorder
	if !*noHistory {
		store, err := openHistory(*historyDB)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: history ledger unavailable: %v\n", err)
		} else {
			defer store.Close()
			recorder = store
		}
	}

	pacing := clipjob.DefaultPacing()
	if *noPacing {
		pacing.Enabled = false
	}

	stop := &clipjob.Stop{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// First signal requests a graceful stop, second one cancels the
	// in-flight subprocess.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "stop requested, finishing current clip (interrupt again to abort)")
		stop.Request()
		<-sigCh
		cancel()
	}()

	var logSink clipjob.Sink
	if !*jsonOut {
		logSink = func(format string, a ...any) {
			fmt.Printf(format+"\n", a...)
		}
	}

	summary, err := clipjob.Run(ctx, clipjob.RunOptions{
		InputCSV:   strings.TrimSpace(*input),
		OutputDir:  strings.TrimSpace(*output),
		ScratchDir: strings.TrimSpace(*scratch),
		Strategy:   strings.ToLower(strings.TrimSpace(*strategy)),
		Quality:    strings.TrimSpace(*quality),
		Pacing:     pacing,
		Log:        logSink,
		Stop:       stop,
		YTDLPBin:   strings.TrimSpace(*ytdlpBin),
		FFmpegBin:  strings.TrimSpace(*ffmpegBin),
		History:    recorder,
		RawOutput:  *rawOutput,
	})
	if err != nil {
		return err
	}

	if *jsonOut {
		return printJSON(summary)
	}
	printSummary(summary)
	return nil
}

func printSummary(summary model.RunSummary) {
	fmt.Println("run summary")
	fmt.Printf("strategy: %s\n", summary.Strategy)
	fmt.Printf("rows_total: %d\n", summary.RowsTotal)
	fmt.Printf("rows_completed: %d\n", summary.RowsCompleted)
	fmt.Printf("rows_partially_failed: %d\n", summary.RowsPartiallyFailed)
	fmt.Printf("rows_canceled: %d\n", summary.RowsCanceled)
	fmt.Printf("clips_produced: %d/%d\n", summary.ClipsProduced, summary.ClipsRequested)
	fmt.Printf("clips_failed: %d\n", summary.ClipsFailed)
	if summary.Canceled {
		fmt.Println("canceled: yes")
	}
	for _, row := range summary.Rows {
		if row.LastError != "" {
			fmt.Printf("row %d (line %d): %s: %s\n", row.Row, row.SourceLine, row.Status, row.LastError)
		}
	}
}

func openHistory(path string) (*history.Store, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		def, err := history.DefaultPath()
		if err != nil {
			return nil, err
		}
		p = def
	}
	return history.Open(p)
}
