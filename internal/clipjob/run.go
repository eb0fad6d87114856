package clipjob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"yt-clip-batcher/internal/jobtable"
	"yt-clip-batcher/internal/model"
	"yt-clip-batcher/internal/runstore"
	"yt-clip-batcher/internal/tools"
	"yt-clip-batcher/internal/ytdlp"
)

const summarySchemaVersion = 1

// Sink receives human-readable progress lines. Never called
// concurrently; implementations must not block for long.
type Sink func(format string, args ...any)

// Recorder appends a finished run to the history ledger.
type Recorder interface {
	RecordRun(summary model.RunSummary) error
}

type RunOptions struct {
	InputCSV   string
	OutputDir  string
	ScratchDir string
	Strategy   string
	Quality    string
	Pacing     PacingConfig
	Log        Sink
	Stop       *Stop
	YTDLPBin   string
	FFmpegBin  string
	History    Recorder
	// Tools resolves external binaries; nil means plain PATH lookup.
	Tools tools.Locator
	// RawOutput echoes yt-dlp/ffmpeg lines through the sink.
	RawOutput bool
	// Fetcher overrides Strategy when set. Lets callers and tests
	// substitute the strategy implementation directly.
	Fetcher Fetcher
}

// Run executes the whole batch synchronously: parse, preflight, lock,
// then rows in table order, URLs in cell order, offsets in listed
// order. It always returns a summary, even on fatal errors after
// parsing succeeded.
func Run(ctx context.Context, opts RunOptions) (model.RunSummary, error) {
	logf := opts.Log
	if logf == nil {
		logf = func(string, ...any) {}
	}

	summary := model.RunSummary{
		SchemaVersion: summarySchemaVersion,
		StartedAt:     time.Now().UTC().Format(time.RFC3339),
		InputCSV:      opts.InputCSV,
		OutputDir:     opts.OutputDir,
		Strategy:      opts.Strategy,
	}

	table, issues, err := jobtable.ParseFile(opts.InputCSV)
	if err != nil {
		return summary, err
	}
	for _, issue := range issues {
		logf("warning: %s", issue.Error())
	}

	if opts.Fetcher == nil {
		ytdlpBin, ffmpegBin, err := preflight(opts)
		if err != nil {
			return summary, err
		}
		opts.YTDLPBin = ytdlpBin
		opts.FFmpegBin = ffmpegBin
	}

	if err := runstore.Mkdir(opts.OutputDir); err != nil {
		return summary, &FilesystemError{Path: opts.OutputDir, Err: err}
	}
	lock, err := runstore.AcquireRunLock(opts.OutputDir)
	if err != nil {
		return summary, err
	}
	defer func() {
		_ = lock.Release()
	}()

	scratchDir := strings.TrimSpace(opts.ScratchDir)
	if scratchDir == "" {
		scratchDir = filepath.Join(os.TempDir(), "yt-clip-batcher")
	}

	fetcher, err := newFetcher(opts, scratchDir, logf)
	if err != nil {
		return summary, err
	}

	rows := table.NonEmptyRows()
	summary.RowsTotal = len(rows)
	total := 0
	for _, row := range rows {
		total += row.ClipCount()
	}
	summary.ClipsRequested = total

	logf("starting %s run: %d rows, %d clips requested", fetcher.Name(), len(rows), total)

	done := 0
	results := make([]model.RowResult, len(rows))
	for i, row := range rows {
		results[i] = model.RowResult{
			Row:            i + 1,
			SourceLine:     row.SourceLine,
			ClipsRequested: row.ClipCount(),
		}
		if err := model.TransitionRowStatus(&results[i], model.RowPending); err != nil {
			return summary, err
		}
	}

	for i, row := range rows {
		result := &results[i]

		if opts.Stop.Requested() || ctx.Err() != nil {
			_ = model.TransitionRowStatus(result, model.RowCanceled)
			summary.Canceled = true
			continue
		}

		if i > 0 && opts.Pacing.Enabled {
			sleepWithStop(ctx, opts.Stop, opts.Pacing.rowDelay())
			if opts.Stop.Requested() || ctx.Err() != nil {
				_ = model.TransitionRowStatus(result, model.RowCanceled)
				summary.Canceled = true
				continue
			}
		}

		done = runRow(ctx, opts, fetcher, row, result, done, total, logf)
		summary.ClipsProduced += result.ClipsProduced
		summary.ClipsFailed += result.ClipsFailed

		switch result.Status {
		case model.RowCompleted:
			summary.RowsCompleted++
		case model.RowPartiallyFailed:
			summary.RowsPartiallyFailed++
		case model.RowCanceled:
			summary.Canceled = true
		}
	}
	summary.RowsCanceled = countStatus(results, model.RowCanceled)
	summary.Rows = results
	summary.FinishedAt = time.Now().UTC().Format(time.RFC3339)

	logf("run finished: %d/%d clips produced, %d failed, %d rows completed",
		summary.ClipsProduced, summary.ClipsRequested, summary.ClipsFailed, summary.RowsCompleted)

	if err := runstore.WriteJSON(runstore.SummaryPath(opts.OutputDir), summary); err != nil {
		logf("warning: write run summary: %v", err)
	}
	if opts.History != nil {
		if err := opts.History.RecordRun(summary); err != nil {
			logf("warning: record run history: %v", err)
		}
	}

	return summary, nil
}

// runRow executes one row and settles its terminal status. Returns the
// updated batch-wide done counter.
func runRow(ctx context.Context, opts RunOptions, fetcher Fetcher, row model.RowJob, result *model.RowResult, done, total int, logf Sink) int {
	_ = model.TransitionRowStatus(result, model.RowInProgress)

	rowDir := filepath.Join(opts.OutputDir, strconv.Itoa(result.Row))
	if err := runstore.Mkdir(rowDir); err != nil {
		fsErr := &FilesystemError{Path: rowDir, Err: err}
		logf("row %d (line %d): %v", result.Row, result.SourceLine, fsErr)
		result.ClipsFailed = result.ClipsRequested
		result.LastError = fsErr.Error()
		_ = model.TransitionRowStatus(result, model.RowPartiallyFailed)
		return done
	}

	rowSeq := 1
	canceled := false

	for urlIdx, req := range row.Requests {
		if opts.Stop.Requested() || ctx.Err() != nil {
			canceled = true
			break
		}

		target := Target{Row: result.Row, URLIndex: urlIdx + 1, Dir: rowDir}
		if err := fetcher.Prepare(ctx, req, target); err != nil {
			logf("row %d url %d: %v", result.Row, urlIdx+1, err)
			result.ClipsFailed += len(req.Offsets)
			result.LastError = err.Error()
			done += len(req.Offsets)
			fetcher.Cleanup(req)
			continue
		}

		urlSeq := 1
		for clipIdx, offset := range req.Offsets {
			if opts.Stop.Requested() || ctx.Err() != nil {
				canceled = true
				break
			}
			if clipIdx > 0 && opts.Pacing.Enabled {
				if !sleepWithStop(ctx, opts.Stop, opts.Pacing.clipDelay()) {
					canceled = true
					break
				}
			}

			target.RowSeq = rowSeq
			target.URLSeq = urlSeq
			target.Offset = offset

			path, err := fetcher.FetchClip(ctx, req, target)
			done++
			if err != nil {
				logf("[%d/%d] row %d url %d offset %.2fs failed: %v", done, total, result.Row, urlIdx+1, offset, err)
				result.ClipsFailed++
				result.LastError = err.Error()
				continue
			}

			result.ClipsProduced++
			rowSeq++
			urlSeq++
			logf("[%d/%d] row %d: wrote %s", done, total, result.Row, filepath.Base(path))
		}

		fetcher.Cleanup(req)
		if canceled {
			break
		}
	}

	switch {
	case canceled:
		_ = model.TransitionRowStatus(result, model.RowCanceled)
	case result.ClipsFailed > 0:
		_ = model.TransitionRowStatus(result, model.RowPartiallyFailed)
	default:
		_ = model.TransitionRowStatus(result, model.RowCompleted)
	}
	return done
}

func newFetcher(opts RunOptions, scratchDir string, logf Sink) (Fetcher, error) {
	if opts.Fetcher != nil {
		return opts.Fetcher, nil
	}
	run := ytdlp.RunOptions{}
	if opts.RawOutput {
		run.Progress = func(stream ytdlp.OutputStream, line string) {
			logf("%s", line)
		}
	}

	switch strings.ToLower(strings.TrimSpace(opts.Strategy)) {
	case "local":
		return newLocalFetcher(scratchDir, opts.Quality, opts.YTDLPBin, opts.FFmpegBin, run), nil
	case "", "range":
		return newRangeFetcher(opts.Quality, opts.YTDLPBin, run), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (expected local or range)", opts.Strategy)
	}
}

// preflight resolves both external tools through the locator before
// any work starts. An explicit binary override is still verified.
func preflight(opts RunOptions) (string, string, error) {
	loc := opts.Tools
	if loc == nil {
		loc = tools.PathLocator{}
	}

	ytdlpName := opts.YTDLPBin
	if strings.TrimSpace(ytdlpName) == "" {
		ytdlpName = "yt-dlp"
	}
	ytdlpBin, err := loc.Find(ytdlpName)
	if err != nil {
		return "", "", &ToolMissingError{Tool: "yt-dlp", Err: err}
	}

	ffmpegName := opts.FFmpegBin
	if strings.TrimSpace(ffmpegName) == "" {
		ffmpegName = "ffmpeg"
	}
	ffmpegBin, err := loc.Find(ffmpegName)
	if err != nil {
		return "", "", &ToolMissingError{Tool: "ffmpeg", Err: err}
	}

	return ytdlpBin, ffmpegBin, nil
}

func countStatus(results []model.RowResult, status string) int {
	n := 0
	for _, r := range results {
		if r.Status == status {
			n++
		}
	}
	return n
}
