package tools

import (
	"os"
	"strings"

	"yt-clip-batcher/internal/runstore"
	"yt-clip-batcher/internal/ytdlp"
)

type DoctorOptions struct {
	YTDLPBin   string
	FFmpegBin  string
	ScratchDir string
}

type DoctorResult struct {
	OK     bool          `json:"ok"`
	Checks []DoctorCheck `json:"checks"`
}

type DoctorCheck struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func Doctor(opts DoctorOptions) (DoctorResult, error) {
	scratchDir := strings.TrimSpace(opts.ScratchDir)
	if scratchDir == "" {
		scratchDir = os.TempDir()
	}

	checks := make([]DoctorCheck, 0, 3)
	dep := ytdlp.DependencyStatus(opts.YTDLPBin, opts.FFmpegBin)
	checks = append(checks, DoctorCheck{
		Name:    "dependency:yt-dlp",
		OK:      dep.YTDLPFound,
		Message: dependencyMessage(dep.YTDLPFound, dep.YTDLPPath, "yt-dlp"),
	})
	checks = append(checks, DoctorCheck{
		Name:    "dependency:ffmpeg",
		OK:      dep.FFmpegFound,
		Message: dependencyMessage(dep.FFmpegFound, dep.FFmpegPath, "ffmpeg"),
	})

	scratchOK, scratchMessage := ensureWritableDir(scratchDir)
	checks = append(checks, DoctorCheck{
		Name:    "directory:scratch",
		OK:      scratchOK,
		Message: scratchMessage,
	})

	ok := true
	for _, c := range checks {
		if !c.OK {
			ok = false
			break
		}
	}

	return DoctorResult{OK: ok, Checks: checks}, nil
}

func dependencyMessage(ok bool, path, name string) string {
	if ok {
		return name + " found at " + path
	}
	return name + " not found on PATH"
}

func ensureWritableDir(path string) (bool, string) {
	if strings.TrimSpace(path) == "" {
		return false, "empty path"
	}
	if err := runstore.Mkdir(path); err != nil {
		return false, err.Error()
	}
	f, err := os.CreateTemp(path, "yt-clip-batcher-check-*.tmp")
	if err != nil {
		return false, err.Error()
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	return true, "writable"
}
