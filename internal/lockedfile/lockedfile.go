// Package lockedfile opens files under an advisory lock and writes them
// back either by atomically replacing them or by rewriting them in place.
package lockedfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gopasspw/gopass/pkg/debug"
)

// Mode selects how a file is opened.
type Mode struct {
	// Write takes an exclusive lock and requires write permission.
	Write bool
	// Create creates a missing file. Only meaningful with Write.
	Create bool
	// InPlace keeps the locked file descriptor for rewriting. Otherwise the
	// file is replaced by renaming a temporary file over it.
	InPlace bool
}

// File is an open, locked file. Close releases the lock.
type File struct {
	path string
	mode Mode
	f    *os.File
}

// Open opens and locks path. Readers take a shared lock, writers an
// exclusive one. In replace mode the lock is retried until it is held on
// the file that is currently linked at path, since a concurrent writer may
// have renamed a new file over it while we were waiting.
func Open(path string, mode Mode) (*File, error) {
	flag := os.O_RDONLY
	if mode.Write {
		flag = os.O_RDWR
		if mode.Create {
			flag |= os.O_CREATE
		}
	}

	f, err := os.OpenFile(path, flag, 0o666)
	if err != nil {
		return nil, err
	}

	for {
		if err := lock(f, mode.Write); err != nil {
			_ = f.Close()

			return nil, fmt.Errorf("failed to lock %s: %w", path, err)
		}

		if mode.InPlace {
			break
		}

		same, err := sameFile(f, path)
		if err != nil {
			_ = f.Close()

			return nil, err
		}
		if same {
			break
		}

		debug.V(1).Log("%s was replaced while waiting for the lock, retrying", path)
		_ = f.Close()

		f, err = os.OpenFile(path, flag, 0o666)
		if err != nil {
			return nil, err
		}
	}

	debug.V(3).Log("locked %s (write: %t, inplace: %t)", path, mode.Write, mode.InPlace)

	return &File{path: path, mode: mode, f: f}, nil
}

func sameFile(f *os.File, path string) (bool, error) {
	fi, err := f.Stat()
	if err != nil {
		return false, err
	}

	pi, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return os.SameFile(fi, pi), nil
}

// Path returns the path the file was opened with.
func (lf *File) Path() string {
	return lf.path
}

// ReadAll reads the whole content of the file.
func (lf *File) ReadAll() ([]byte, error) {
	if _, err := lf.f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	buf, err := io.ReadAll(lf.f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", lf.path, err)
	}

	return buf, nil
}

// Write stores data using the strategy selected when the file was opened.
func (lf *File) Write(data []byte) error {
	if lf.mode.InPlace {
		return lf.Rewrite(data)
	}

	return lf.Replace(data)
}

// Rewrite truncates the locked file and writes data in place. This is not
// atomic, readers may observe partial content.
func (lf *File) Rewrite(data []byte) error {
	if err := lf.f.Truncate(0); err != nil {
		return fmt.Errorf("failed to truncate %s: %w", lf.path, err)
	}
	if _, err := lf.f.WriteAt(data, 0); err != nil {
		return fmt.Errorf("failed to write %s: %w", lf.path, err)
	}
	if err := lf.f.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", lf.path, err)
	}

	debug.V(1).Log("rewrote %s in place (%d bytes)", lf.path, len(data))

	return nil
}

// Close releases the lock and closes the file.
func (lf *File) Close() error {
	if lf == nil || lf.f == nil {
		return nil
	}

	_ = unlock(lf.f)
	err := lf.f.Close()
	lf.f = nil

	return err
}
