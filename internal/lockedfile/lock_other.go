//go:build !unix

package lockedfile

import (
	"os"

	"github.com/gopasspw/gopass/pkg/debug"
)

// Advisory locks are only implemented for unix systems.
func lock(f *os.File, _ bool) error {
	debug.V(3).Log("advisory locking not supported, not locking %s", f.Name())

	return nil
}

func unlock(*os.File) error {
	return nil
}
