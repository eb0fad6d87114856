package tools

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Locator resolves external binaries. The run layer goes through this
// so tests can substitute fakes without touching PATH.
type Locator interface {
	Find(name string) (string, error)
}

// PathLocator resolves via exec.LookPath, then probes ExtraDirs for an
// executable of the same name.
type PathLocator struct {
	ExtraDirs []string
}

func (l PathLocator) Find(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("binary name is required")
	}
	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}
	for _, dir := range l.ExtraDirs {
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		if info.Mode()&0o111 != 0 {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("binary %s not found on PATH", name)
}
