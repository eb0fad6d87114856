package clipjob

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"yt-clip-batcher/internal/model"
)

// installFakeTools puts fake yt-dlp and ffmpeg scripts on PATH. The
// fake yt-dlp serves both call shapes: with -P it plays the full-video
// download and prints the file path, with -o it plays the section
// download and writes <template>.mp4.
func installFakeTools(t *testing.T) {
	t.Helper()
	fakeBin := filepath.Join(t.TempDir(), "bin")
	if err := os.MkdirAll(fakeBin, 0o755); err != nil {
		t.Fatal(err)
	}

	ytScript := `#!/usr/bin/env bash
set -euo pipefail
out=""
scratch=""
prev=""
for a in "$@"; do
  if [ "$prev" = "-o" ]; then out="$a"; fi
  if [ "$prev" = "-P" ]; then scratch="$a"; fi
  prev="$a"
done
if [ -n "$scratch" ]; then
  printf media > "$scratch/video.mp4"
  echo "$scratch/video.mp4"
else
  printf media > "$out.mp4"
fi
`
	ffmpegScript := `#!/usr/bin/env bash
set -euo pipefail
out="${@: -1}"
printf clip > "$out"
`
	if err := os.WriteFile(filepath.Join(fakeBin, "yt-dlp"), []byte(ytScript), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(fakeBin, "ffmpeg"), []byte(ffmpegScript), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", fakeBin+":"+os.Getenv("PATH"))
}

func listClips(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read row dir: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestHarnessRangeStrategyNaming(t *testing.T) {
	installFakeTools(t)
	out := t.TempDir()

	summary, err := Run(context.Background(), RunOptions{
		InputCSV:  writeCSV(t, "https://www.youtube.com/watch?v=a,0.10;0.20,https://www.youtube.com/watch?v=b,0.30;0.40\n"),
		OutputDir: out,
		Strategy:  "range",
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.ClipsProduced != 4 || summary.RowsCompleted != 1 {
		t.Fatalf("summary: %+v", summary)
	}

	got := listClips(t, filepath.Join(out, "1"))
	want := []string{"1.1.1.mp4", "1.1.2.mp4", "1.2.1.mp4", "1.2.2.mp4"}
	if len(got) != len(want) {
		t.Fatalf("clips: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("clip %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestHarnessLocalStrategyCutsFromScratch(t *testing.T) {
	installFakeTools(t)
	out := t.TempDir()
	scratch := t.TempDir()

	summary, err := Run(context.Background(), RunOptions{
		InputCSV:   writeCSV(t, "https://www.youtube.com/watch?v=a,0.10;0.20\n"),
		OutputDir:  out,
		ScratchDir: scratch,
		Strategy:   "local",
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.ClipsProduced != 2 {
		t.Fatalf("summary: %+v", summary)
	}

	got := listClips(t, filepath.Join(out, "1"))
	want := []string{"1.1.mp4", "1.2.mp4"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("clips: got %v want %v", got, want)
	}

	// Scratch download is cleaned up after the request.
	entries, err := os.ReadDir(scratch)
	if err != nil {
		t.Fatalf("read scratch: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("scratch not cleaned: %v", entries)
	}

	if summary.Rows[0].Status != model.RowCompleted {
		t.Fatalf("row status: %q", summary.Rows[0].Status)
	}
}

func TestHarnessUnknownStrategyFails(t *testing.T) {
	installFakeTools(t)

	_, err := Run(context.Background(), RunOptions{
		InputCSV:  writeCSV(t, "https://www.youtube.com/watch?v=a,0.10\n"),
		OutputDir: t.TempDir(),
		Strategy:  "hybrid",
	})
	if err == nil {
		t.Fatalf("expected error for unknown strategy")
	}
}
