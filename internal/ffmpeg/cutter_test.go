package ffmpeg

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildCutArgs(t *testing.T) {
	args := buildCutArgs("/tmp/in.mp4", 65, 5, "/tmp/out/1.1.mp4")

	if args[0] != "-ss" || args[1] != "65.00" {
		t.Fatalf("seek must come before input: %v", args[:2])
	}
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-i /tmp/in.mp4 -t 5.00") {
		t.Fatalf("input/duration args: %q", joined)
	}
	if !strings.Contains(joined, "-c:v copy -c:a copy") {
		t.Fatalf("expected stream copy: %q", joined)
	}
	if !strings.Contains(joined, "-fflags +genpts") {
		t.Fatalf("missing genpts: %q", joined)
	}
	if args[len(args)-1] != "/tmp/out/1.1.mp4" {
		t.Fatalf("output must be the final argument: %v", args)
	}
}

func TestCut_MissingInputFails(t *testing.T) {
	c := New("ffmpeg")
	err := c.Cut(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"), 0, 5, filepath.Join(t.TempDir(), "out.mp4"))
	if err == nil {
		t.Fatalf("expected error for missing input")
	}
}

func TestCut_FakeBinaryProducesClip(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.mp4")
	if err := os.WriteFile(input, []byte("media"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	// Fake ffmpeg: write a non-empty file at the last argument.
	fake := filepath.Join(dir, "ffmpeg")
	script := "#!/usr/bin/env bash\nout=\"${@: -1}\"\nprintf clip > \"$out\"\n"
	if err := os.WriteFile(fake, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake ffmpeg: %v", err)
	}

	output := filepath.Join(dir, "1.1.mp4")
	if err := New(fake).Cut(context.Background(), input, 10, 5, output); err != nil {
		t.Fatalf("cut: %v", err)
	}
	info, err := os.Stat(output)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("output is empty")
	}
}

func TestCut_EmptyOutputRejectedAndRemoved(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.mp4")
	if err := os.WriteFile(input, []byte("media"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	fake := filepath.Join(dir, "ffmpeg")
	script := "#!/usr/bin/env bash\nout=\"${@: -1}\"\n: > \"$out\"\n"
	if err := os.WriteFile(fake, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake ffmpeg: %v", err)
	}

	output := filepath.Join(dir, "1.1.mp4")
	if err := New(fake).Cut(context.Background(), input, 0, 5, output); err == nil {
		t.Fatalf("expected error for empty output")
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Fatalf("empty output should be removed, stat err: %v", err)
	}
}
