package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// fileStem names the captured file. The directory is private to this run,
// so the name does not need to be random.
const fileStem = "stdin"

var (
	// ErrSuffixSeparator indicates a suffix that would escape the workspace.
	ErrSuffixSeparator = errors.New("suffix must not contain a path separator")
)

// Workspace is a private directory holding the captured input file.
type Workspace struct {
	Dir string
}

// Create allocates an owner-only (0700) directory under parent. An empty
// parent selects the OS temporary directory.
func Create(parent string) (*Workspace, error) {
	dir, err := os.MkdirTemp(parent, "mkf-")
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("resolve workspace: %w", err)
	}
	return &Workspace{Dir: abs}, nil
}

// FilePath returns the path of the captured file carrying suffix.
func (w *Workspace) FilePath(suffix string) string {
	return filepath.Join(w.Dir, fileStem+suffix)
}

// Remove deletes the directory and everything in it. Calling it twice is fine.
func (w *Workspace) Remove() error {
	if w == nil || w.Dir == "" {
		return nil
	}
	if err := os.RemoveAll(w.Dir); err != nil {
		return fmt.Errorf("remove workspace %s: %w", w.Dir, err)
	}
	return nil
}

// ValidateSuffix rejects suffixes that contain a path separator.
func ValidateSuffix(suffix string) error {
	if strings.ContainsRune(suffix, '/') || strings.ContainsRune(suffix, filepath.Separator) {
		return fmt.Errorf("%w: %q", ErrSuffixSeparator, suffix)
	}
	return nil
}
