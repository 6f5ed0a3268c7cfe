package lockedfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMissing(t *testing.T) {
	t.Parallel()

	fn := filepath.Join(t.TempDir(), "missing.ini")

	_, err := Open(fn, Mode{})
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = Open(fn, Mode{Write: true})
	require.ErrorIs(t, err, os.ErrNotExist)

	lf, err := Open(fn, Mode{Write: true, Create: true})
	require.NoError(t, err)
	require.NoError(t, lf.Close())
	assert.FileExists(t, fn)
}

func TestReplace(t *testing.T) {
	t.Parallel()

	fn := filepath.Join(t.TempDir(), "test.ini")
	require.NoError(t, os.WriteFile(fn, []byte("[s]\na = 1\n"), 0o640))

	lf, err := Open(fn, Mode{Write: true})
	require.NoError(t, err)
	assert.Equal(t, fn, lf.Path())

	buf, err := lf.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "[s]\na = 1\n", string(buf))

	require.NoError(t, lf.Write([]byte("[s]\na = 2\n")))
	require.NoError(t, lf.Close())
	require.NoError(t, lf.Close())

	buf, err = os.ReadFile(fn)
	require.NoError(t, err)
	assert.Equal(t, "[s]\na = 2\n", string(buf))

	fi, err := os.Stat(fn)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), fi.Mode().Perm())
}

func TestReplaceKeepsSymlink(t *testing.T) {
	t.Parallel()

	td := t.TempDir()
	target := filepath.Join(td, "target.ini")
	link := filepath.Join(td, "link.ini")
	require.NoError(t, os.WriteFile(target, []byte("a = 1\n"), 0o644))
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %s", err)
	}

	lf, err := Open(link, Mode{Write: true})
	require.NoError(t, err)
	require.NoError(t, lf.Write([]byte("a = 2\n")))
	require.NoError(t, lf.Close())

	fi, err := os.Lstat(link)
	require.NoError(t, err)
	assert.Equal(t, os.ModeSymlink, fi.Mode()&os.ModeSymlink)

	buf, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "a = 2\n", string(buf))
}

func TestRewriteInPlace(t *testing.T) {
	t.Parallel()

	fn := filepath.Join(t.TempDir(), "test.ini")
	require.NoError(t, os.WriteFile(fn, []byte("[s]\nlong = value value value\n"), 0o644))

	before, err := os.Stat(fn)
	require.NoError(t, err)

	lf, err := Open(fn, Mode{Write: true, InPlace: true})
	require.NoError(t, err)
	require.NoError(t, lf.Write([]byte("[s]\n")))
	require.NoError(t, lf.Close())

	buf, err := os.ReadFile(fn)
	require.NoError(t, err)
	assert.Equal(t, "[s]\n", string(buf))

	after, err := os.Stat(fn)
	require.NoError(t, err)
	assert.True(t, os.SameFile(before, after))
}
