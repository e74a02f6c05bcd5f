package backend

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Workdir is a per-run scratch directory named with a uuid slug, mirroring
// common.py's make_slug/tempfile handling, with an explicit Keep flag
// replacing the Python context-manager's implicit cleanup-on-exit
// (REDESIGN FLAGS: Go has no __del__, so cleanup must be requested
// explicitly by the caller via Close).
type Workdir struct {
	Path string
	Keep bool
}

// NewWorkdir creates a fresh scratch directory under base (os.TempDir if
// base is empty) named sliver-<uuid>.
func NewWorkdir(base string, keep bool) (*Workdir, error) {
	if base == "" {
		base = os.TempDir()
	}
	slug := fmt.Sprintf("sliver-%s", uuid.NewString())
	path := filepath.Join(base, slug)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("creating workdir %s: %w", path, err)
	}
	return &Workdir{Path: path, Keep: keep}, nil
}

// File joins name under the workdir.
func (w *Workdir) File(name string) string {
	return filepath.Join(w.Path, name)
}

// Write writes content to name under the workdir.
func (w *Workdir) Write(name, content string) (string, error) {
	path := w.File(name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// Close removes the workdir unless Keep is set (spec.md §6 "--keep-files").
func (w *Workdir) Close() error {
	if w.Keep {
		return nil
	}
	return os.RemoveAll(w.Path)
}
