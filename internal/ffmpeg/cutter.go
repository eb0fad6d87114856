package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// CutTimeout bounds a single stream-copy cut. Copies finish in well
// under a second on healthy inputs; anything near this limit is stuck.
const CutTimeout = 2 * time.Minute

type Cutter struct {
	bin     string
	timeout time.Duration
}

func New(bin string) *Cutter {
	if strings.TrimSpace(bin) == "" {
		bin = "ffmpeg"
	}
	return &Cutter{bin: bin, timeout: CutTimeout}
}

// Cut extracts [start, start+duration) from input into output using
// stream copy, so no re-encode happens. The seek sits before -i for
// fast keyframe seeking; +genpts repairs timestamps the copy would
// otherwise carry over from mid-stream.
func (c *Cutter) Cut(ctx context.Context, input string, start, duration float64, output string) error {
	if _, err := os.Stat(input); err != nil {
		return fmt.Errorf("cut input %s: %w", input, err)
	}

	cutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	args := buildCutArgs(input, start, duration, output)
	cmd := exec.CommandContext(cutCtx, c.bin, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		c.removePartial(output)
		if cutCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("ffmpeg cut timed out after %s", c.timeout)
		}
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg cut interrupted: %w", ctx.Err())
		}
		return fmt.Errorf("ffmpeg cut failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	info, err := os.Stat(output)
	if err != nil {
		return fmt.Errorf("verify clip %s: %w", output, err)
	}
	if info.Size() == 0 {
		c.removePartial(output)
		return fmt.Errorf("verify clip %s: output is empty", output)
	}
	return nil
}

func (c *Cutter) removePartial(output string) {
	if _, err := os.Stat(output); err == nil {
		_ = os.Remove(output)
	}
}

func buildCutArgs(input string, start, duration float64, output string) []string {
	return []string{
		"-ss", fmt.Sprintf("%.2f", start),
		"-i", input,
		"-t", fmt.Sprintf("%.2f", duration),
		"-c:v", "copy",
		"-c:a", "copy",
		"-fflags", "+genpts",
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		output,
	}
}
