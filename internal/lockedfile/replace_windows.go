//go:build windows

package lockedfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gopasspw/gopass/pkg/debug"
)

// Replace writes data to a temporary file next to the original and renames
// it over the original.
func (lf *File) Replace(data []byte) error {
	target, err := filepath.EvalSymlinks(lf.path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", lf.path, err)
	}

	perm := os.FileMode(0o666)
	if fi, err := os.Stat(target); err == nil {
		perm = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", target, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("failed to sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return err
	}

	// the target is still open and locked by us, so release it first
	_ = lf.Close()

	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to replace %s: %w", target, err)
	}

	debug.V(1).Log("replaced %s (%d bytes)", target, len(data))

	return nil
}
