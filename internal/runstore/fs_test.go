package runstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteJSONReadJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "summary.json")

	in := map[string]any{"clips_produced": 3.0, "strategy": "local"}
	if err := WriteJSON(path, in); err != nil {
		t.Fatalf("write json: %v", err)
	}

	var out map[string]any
	if err := ReadJSON(path, &out); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if out["strategy"] != "local" || out["clips_produced"] != 3.0 {
		t.Fatalf("round trip mismatch: %v", out)
	}
}

func TestWriteBytes_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	if err := WriteBytes(path, []byte("{}\n")); err != nil {
		t.Fatalf("write bytes: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".ycb-tmp-") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestSummaryPath(t *testing.T) {
	if got := SummaryPath("/out"); got != filepath.Join("/out", "run-summary.json") {
		t.Fatalf("summary path: %q", got)
	}
}
