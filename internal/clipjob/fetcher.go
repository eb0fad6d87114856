package clipjob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"yt-clip-batcher/internal/ffmpeg"
	"yt-clip-batcher/internal/model"
	"yt-clip-batcher/internal/ytdlp"
)

// ClipDuration is the fixed length of every extracted segment.
const ClipDuration = 5.0

// Target identifies one clip slot: where it goes and which sequence
// numbers name it. RowSeq counts successes across the whole row; URLSeq
// restarts at 1 for each URL.
type Target struct {
	Row      int
	URLIndex int
	RowSeq   int
	URLSeq   int
	Offset   float64
	Dir      string
}

// Fetcher is the strategy seam of the runner. Prepare runs once per
// ClipRequest before its clips, FetchClip once per offset, Cleanup once
// after the request regardless of outcome.
type Fetcher interface {
	Name() string
	Prepare(ctx context.Context, req model.ClipRequest, target Target) error
	FetchClip(ctx context.Context, req model.ClipRequest, target Target) (string, error)
	Cleanup(req model.ClipRequest)
}

// localFetcher downloads the full video once into a scratch directory,
// then stream-copies each segment with ffmpeg.
type localFetcher struct {
	scratchRoot string
	quality     string
	run         ytdlp.RunOptions
	cutter      *ffmpeg.Cutter

	scratchDir string
	source     string
}

func newLocalFetcher(scratchRoot, quality, ytdlpBin, ffmpegBin string, run ytdlp.RunOptions) *localFetcher {
	run.Binary = ytdlpBin
	return &localFetcher{
		scratchRoot: scratchRoot,
		quality:     quality,
		run:         run,
		cutter:      ffmpeg.New(ffmpegBin),
	}
}

func (f *localFetcher) Name() string { return "local" }

func (f *localFetcher) Prepare(ctx context.Context, req model.ClipRequest, target Target) error {
	f.scratchDir = filepath.Join(f.scratchRoot, fmt.Sprintf("row%d-url%d", target.Row, target.URLIndex))
	f.source = ""
	if err := os.MkdirAll(f.scratchDir, 0o755); err != nil {
		return &FilesystemError{Path: f.scratchDir, Err: err}
	}

	result, err := ytdlp.DownloadVideo(ctx, ytdlp.VideoOptions{
		VideoURL:   req.SourceURL,
		ScratchDir: f.scratchDir,
		Quality:    f.quality,
		Run:        f.run,
	})
	if err != nil {
		return &DownloadError{URL: req.SourceURL, Err: err}
	}
	f.source = result.Path
	return nil
}

func (f *localFetcher) FetchClip(ctx context.Context, req model.ClipRequest, target Target) (string, error) {
	output := filepath.Join(target.Dir, fmt.Sprintf("%d.%d.mp4", target.Row, target.RowSeq))
	if err := f.cutter.Cut(ctx, f.source, target.Offset, ClipDuration, output); err != nil {
		return "", &ExtractError{Source: f.source, Offset: target.Offset, Err: err}
	}
	return output, nil
}

func (f *localFetcher) Cleanup(req model.ClipRequest) {
	if f.scratchDir != "" {
		_ = os.RemoveAll(f.scratchDir)
	}
	f.scratchDir = ""
	f.source = ""
}

// rangeFetcher asks yt-dlp for each time window directly, so no full
// download ever touches disk.
type rangeFetcher struct {
	quality string
	run     ytdlp.RunOptions
}

func newRangeFetcher(quality, ytdlpBin string, run ytdlp.RunOptions) *rangeFetcher {
	run.Binary = ytdlpBin
	return &rangeFetcher{quality: quality, run: run}
}

func (f *rangeFetcher) Name() string { return "range" }

func (f *rangeFetcher) Prepare(ctx context.Context, req model.ClipRequest, target Target) error {
	return nil
}

func (f *rangeFetcher) FetchClip(ctx context.Context, req model.ClipRequest, target Target) (string, error) {
	template := filepath.Join(target.Dir, fmt.Sprintf("%d.%d.%d", target.Row, target.URLIndex, target.URLSeq))
	result, err := ytdlp.DownloadSection(ctx, ytdlp.SectionOptions{
		VideoURL:       req.SourceURL,
		StartSec:       target.Offset,
		EndSec:         target.Offset + ClipDuration,
		OutputTemplate: template,
		Quality:        f.quality,
		Run:            f.run,
	})
	if err != nil {
		return "", &DownloadError{URL: req.SourceURL, Err: err}
	}

	path, err := verifyClip(result.Path, template)
	if err != nil {
		return "", &DownloadError{URL: req.SourceURL, Err: err}
	}
	return path, nil
}

func (f *rangeFetcher) Cleanup(req model.ClipRequest) {}

// verifyClip confirms the section download actually materialized. The
// container suffix is yt-dlp's choice, so fall back to a glob on the
// template when the expected .mp4 is absent.
func verifyClip(expected, template string) (string, error) {
	if info, err := os.Stat(expected); err == nil && info.Size() > 0 {
		return expected, nil
	}
	matches, _ := filepath.Glob(template + ".*")
	for _, m := range matches {
		info, err := os.Stat(m)
		if err == nil && !info.IsDir() && info.Size() > 0 {
			return m, nil
		}
	}
	return "", fmt.Errorf("no clip produced for %s", template)
}
