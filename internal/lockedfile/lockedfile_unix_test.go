//go:build unix

package lockedfile

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// increment performs one locked read-modify-write cycle on a counter file.
func increment(t *testing.T, fn string, mode Mode) {
	t.Helper()

	lf, err := Open(fn, mode)
	if !assert.NoError(t, err) {
		return
	}
	defer lf.Close() //nolint:errcheck

	buf, err := lf.ReadAll()
	if !assert.NoError(t, err) {
		return
	}

	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(string(buf), "count = ")))
	if !assert.NoError(t, err) {
		return
	}

	assert.NoError(t, lf.Write([]byte("count = "+strconv.Itoa(n+1)+"\n")))
}

func TestConcurrentWriters(t *testing.T) {
	t.Parallel()

	for _, mode := range []Mode{
		{Write: true},
		{Write: true, InPlace: true},
	} {
		t.Run("inplace="+strconv.FormatBool(mode.InPlace), func(t *testing.T) {
			t.Parallel()

			fn := filepath.Join(t.TempDir(), "counter.ini")
			require.NoError(t, os.WriteFile(fn, []byte("count = 0\n"), 0o644))

			goroutines := 10
			iterations := 20

			var wg sync.WaitGroup
			for range goroutines {
				wg.Add(1)
				go func() {
					defer wg.Done()

					for range iterations {
						increment(t, fn, mode)
					}
				}()
			}
			wg.Wait()

			buf, err := os.ReadFile(fn)
			require.NoError(t, err)
			assert.Equal(t, "count = "+strconv.Itoa(goroutines*iterations)+"\n", string(buf))
		})
	}
}

func TestReaderWaitsForWriter(t *testing.T) {
	t.Parallel()

	fn := filepath.Join(t.TempDir(), "test.ini")
	require.NoError(t, os.WriteFile(fn, []byte("a = 1\n"), 0o644))

	w, err := Open(fn, Mode{Write: true})
	require.NoError(t, err)

	done := make(chan string)
	go func() {
		r, err := Open(fn, Mode{})
		if !assert.NoError(t, err) {
			close(done)

			return
		}
		defer r.Close() //nolint:errcheck

		buf, err := r.ReadAll()
		assert.NoError(t, err)
		done <- string(buf)
	}()

	require.NoError(t, w.Write([]byte("a = 2\n")))
	require.NoError(t, w.Close())

	assert.Equal(t, "a = 2\n", <-done)
}
