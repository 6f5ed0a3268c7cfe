//go:build !windows

package lockedfile

import (
	"fmt"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/gopasspw/gopass/pkg/debug"
)

// Replace atomically replaces the file with data. The replacement keeps
// the permissions of the original. Symlinks are resolved so the link
// itself stays intact.
func (lf *File) Replace(data []byte) error {
	target, err := filepath.EvalSymlinks(lf.path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", lf.path, err)
	}

	if err := renameio.WriteFile(target, data, 0o666, renameio.WithExistingPermissions()); err != nil {
		return fmt.Errorf("failed to replace %s: %w", target, err)
	}

	debug.V(1).Log("replaced %s (%d bytes)", target, len(data))

	return nil
}
