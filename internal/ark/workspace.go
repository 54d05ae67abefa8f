package ark

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// markerName is the sentinel file proving an extraction populated the
// workspace. Repack refuses to run without it.
const markerName = ".unpacked"

// Workspace is a temporary directory exclusively owned by one archive unit
// for the duration of its processing.
type Workspace struct {
	ID   string
	Root string
}

// NewWorkspace creates a uniquely-named workspace directory under stagingDir.
func NewWorkspace(stagingDir string) (Workspace, error) {
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return Workspace{}, fmt.Errorf("create staging dir: %w", err)
	}
	id := uuid.NewString()
	root := filepath.Join(stagingDir, "unit-"+id)
	if err := os.Mkdir(root, 0o755); err != nil {
		return Workspace{}, fmt.Errorf("create workspace: %w", err)
	}
	return Workspace{ID: id, Root: root}, nil
}

// MarkerPath returns the location of the unpack marker inside the workspace.
func (w Workspace) MarkerPath() string {
	return filepath.Join(w.Root, markerName)
}

// WriteMarker creates the unpack marker if absent. An existing marker is
// never truncated.
func (w Workspace) WriteMarker() error {
	file, err := os.OpenFile(w.MarkerPath(), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return fmt.Errorf("write unpack marker: %w", err)
	}
	return file.Close()
}

// HasMarker reports whether a prior extraction succeeded in this workspace.
func (w Workspace) HasMarker() bool {
	info, err := os.Stat(w.MarkerPath())
	return err == nil && !info.IsDir()
}

// Remove deletes the workspace and everything in it.
func (w Workspace) Remove() error {
	if w.Root == "" {
		return nil
	}
	return os.RemoveAll(w.Root)
}
