package ytdlp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

type OutputStream string

const (
	StreamStdout OutputStream = "stdout"
	StreamStderr OutputStream = "stderr"
)

// RunOptions carries the streaming hooks shared by every yt-dlp
// invocation. Binary defaults to "yt-dlp" on PATH.
type RunOptions struct {
	Binary     string
	Stdout     io.Writer
	Stderr     io.Writer
	LogWriter  io.Writer
	EchoOutput bool
	Progress   func(stream OutputStream, line string)
}

type VideoOptions struct {
	VideoURL   string
	ScratchDir string
	Quality    string
	Run        RunOptions
}

type SectionOptions struct {
	VideoURL string
	StartSec float64
	EndSec   float64
	// OutputTemplate is the destination path without an extension;
	// yt-dlp appends the container suffix after merging.
	OutputTemplate string
	Quality        string
	Run            RunOptions
}

type DownloadResult struct {
	// Path of the downloaded media file, when yt-dlp reported one.
	Path    string
	Command []string
}

type DependencyReport struct {
	YTDLPFound  bool   `json:"yt_dlp_found"`
	YTDLPPath   string `json:"yt_dlp_path,omitempty"`
	FFmpegFound bool   `json:"ffmpeg_found"`
	FFmpegPath  string `json:"ffmpeg_path,omitempty"`
}

func DependencyStatus(ytdlpBin, ffmpegBin string) DependencyReport {
	report := DependencyReport{}
	if path, err := exec.LookPath(binaryOrDefault(ytdlpBin, "yt-dlp")); err == nil {
		report.YTDLPFound = true
		report.YTDLPPath = path
	}
	if path, err := exec.LookPath(binaryOrDefault(ffmpegBin, "ffmpeg")); err == nil {
		report.FFmpegFound = true
		report.FFmpegPath = path
	}
	return report
}

// DownloadVideo fetches the full source video into ScratchDir and
// returns the path of the downloaded file. The path is read back from
// yt-dlp via --print after_move:filepath; when that line is missing
// (older builds, unexpected output) the newest media file in the
// scratch directory is used instead.
func DownloadVideo(ctx context.Context, opts VideoOptions) (DownloadResult, error) {
	if strings.TrimSpace(opts.VideoURL) == "" {
		return DownloadResult{}, fmt.Errorf("video URL is required")
	}
	if strings.TrimSpace(opts.ScratchDir) == "" {
		return DownloadResult{}, fmt.Errorf("scratch directory is required")
	}

	args := buildVideoArgs(opts)

	var printed string
	run := opts.Run
	inner := run.Progress
	run.Progress = func(stream OutputStream, line string) {
		if stream == StreamStdout && looksLikeMediaPath(line) {
			printed = strings.TrimSpace(line)
		}
		if inner != nil {
			inner(stream, line)
		}
	}

	result := DownloadResult{Command: append([]string{binaryOrDefault(run.Binary, "yt-dlp")}, args...)}
	if err := runCommand(ctx, args, run); err != nil {
		return result, err
	}

	if printed != "" {
		result.Path = printed
		return result, nil
	}
	path, err := newestMediaFile(opts.ScratchDir)
	if err != nil {
		return result, fmt.Errorf("locate downloaded video: %w", err)
	}
	result.Path = path
	return result, nil
}

func buildVideoArgs(opts VideoOptions) []string {
	return []string{
		"--no-playlist",
		"--newline",
		"--restrict-filenames",
		"--no-simulate",
		"--print", "after_move:filepath",
		"-P", opts.ScratchDir,
		"-o", "%(id)s.%(ext)s",
		"-f", selectFormat(opts.Quality),
		"--merge-output-format", "mp4",
		opts.VideoURL,
	}
}

// DownloadSection fetches only the requested time window, letting
// yt-dlp drive ffmpeg for the cut and re-encode. The section specifier
// uses the "*start-end" form so yt-dlp cuts by absolute time rather
// than chapter name.
func DownloadSection(ctx context.Context, opts SectionOptions) (DownloadResult, error) {
	if strings.TrimSpace(opts.VideoURL) == "" {
		return DownloadResult{}, fmt.Errorf("video URL is required")
	}
	if strings.TrimSpace(opts.OutputTemplate) == "" {
		return DownloadResult{}, fmt.Errorf("output template is required")
	}
	if opts.EndSec <= opts.StartSec {
		return DownloadResult{}, fmt.Errorf("section end %.2f must be after start %.2f", opts.EndSec, opts.StartSec)
	}

	args := buildSectionArgs(opts)
	result := DownloadResult{Command: append([]string{binaryOrDefault(opts.Run.Binary, "yt-dlp")}, args...)}
	if err := runCommand(ctx, args, opts.Run); err != nil {
		return result, err
	}
	result.Path = opts.OutputTemplate + ".mp4"
	return result, nil
}

func buildSectionArgs(opts SectionOptions) []string {
	return []string{
		"--no-playlist",
		"--newline",
		"--download-sections", fmt.Sprintf("*%.2f-%.2f", opts.StartSec, opts.EndSec),
		"-f", selectSectionFormat(opts.Quality),
		"--merge-output-format", "mp4",
		"--postprocessor-args", "ffmpeg:-c:v libx264 -preset veryfast -crf 18 -pix_fmt yuv420p -c:a aac -b:a 192k",
		"-o", opts.OutputTemplate,
		opts.VideoURL,
	}
}

func selectFormat(rawQuality string) string {
	switch strings.ToLower(strings.TrimSpace(rawQuality)) {
	case "", "best":
		return "bv*+ba/b"
	case "1080p", "1080", "hd":
		return "bv*[height<=1080]+ba/b[height<=1080]"
	case "720p", "720", "sd", "small":
		return "bv*[height<=720]+ba/b[height<=720]"
	default:
		return "bv*+ba/b"
	}
}

// selectSectionFormat pins the codecs for range downloads. Sections
// are re-encoded anyway, and the avc1/mp4a pair keeps the intermediate
// streams mergeable into mp4 without surprises.
func selectSectionFormat(rawQuality string) string {
	switch strings.ToLower(strings.TrimSpace(rawQuality)) {
	case "720p", "720", "sd", "small":
		return "bv*[vcodec^=avc1][height<=720]+ba[acodec^=mp4a]/b"
	default:
		return "bv*[vcodec^=avc1][height<=1080]+ba[acodec^=mp4a]/b"
	}
}

var mediaExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".webm": true,
	".m4a":  true,
	".mov":  true,
}

func looksLikeMediaPath(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.ContainsAny(trimmed, " \t") && !filepath.IsAbs(trimmed) {
		return false
	}
	return mediaExtensions[strings.ToLower(filepath.Ext(trimmed))]
}

func newestMediaFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read scratch dir %s: %w", dir, err)
	}
	var (
		newest     string
		newestTime int64 = -1
	)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !mediaExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); mod > newestTime {
			newestTime = mod
			newest = filepath.Join(dir, entry.Name())
		}
	}
	if newest == "" {
		return "", fmt.Errorf("no media file found in %s", dir)
	}
	return newest, nil
}

func binaryOrDefault(bin, fallback string) string {
	if strings.TrimSpace(bin) == "" {
		return fallback
	}
	return bin
}

func runCommand(ctx context.Context, args []string, opts RunOptions) error {
	cmd := exec.CommandContext(ctx, binaryOrDefault(opts.Binary, "yt-dlp"), args...)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("setup stdout pipe: %w", err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("setup stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start yt-dlp: %w", err)
	}

	var outBuf strings.Builder
	var errBuf strings.Builder
	var mu sync.Mutex
	var wg sync.WaitGroup

	read := func(stream OutputStream, r io.Reader, echoW io.Writer) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		buf := make([]byte, 0, 64*1024)
		scanner.Buffer(buf, 1024*1024)
		scanner.Split(splitByNewlineOrCR)
		for scanner.Scan() {
			line := scanner.Text()
			mu.Lock()
			appendLimited(&outBuf, &errBuf, stream, line)
			if opts.LogWriter != nil {
				_, _ = io.WriteString(opts.LogWriter, line+"\n")
			}
			mu.Unlock()

			if opts.EchoOutput && echoW != nil {
				_, _ = io.WriteString(echoW, line+"\n")
			}
			if opts.Progress != nil {
				opts.Progress(stream, line)
			}
		}
	}

	wg.Add(2)
	go read(StreamStdout, stdoutPipe, opts.Stdout)
	go read(StreamStderr, stderrPipe, opts.Stderr)
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		mu.Lock()
		defer mu.Unlock()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("yt-dlp interrupted: %w", ctxErr)
		}
		return fmt.Errorf("yt-dlp failed: %w\n%s\n%s", err, strings.TrimSpace(errBuf.String()), strings.TrimSpace(outBuf.String()))
	}
	return nil
}

func splitByNewlineOrCR(data []byte, atEOF bool) (advance int, token []byte, err error) {
	for i := 0; i < len(data); i++ {
		if data[i] == '\n' || data[i] == '\r' {
			if i == 0 {
				return 1, nil, nil
			}
			return i + 1, data[:i], nil
		}
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func appendLimited(outBuf, errBuf *strings.Builder, stream OutputStream, line string) {
	const maxKeep = 8192
	b := outBuf
	if stream == StreamStderr {
		b = errBuf
	}
	if b.Len() >= maxKeep {
		return
	}
	toWrite := line + "\n"
	remain := maxKeep - b.Len()
	if len(toWrite) > remain {
		toWrite = toWrite[:remain]
	}
	b.WriteString(toWrite)
}
