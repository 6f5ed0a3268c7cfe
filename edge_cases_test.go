package iniedit

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEdgeCaseUnicode tests non-ASCII section names, keys and values.
func TestEdgeCaseUnicode(t *testing.T) {
	t.Parallel()

	in := "[Ärger]\nschlüssel = wert ✓\n"
	d := mustParse(t, in)

	val, err := d.Get("ärger", "schlüssel")
	require.NoError(t, err)
	assert.Equal(t, "wert ✓", val)

	_, err = d.Set("ÄRGER", "größe", "日本", Options{})
	require.NoError(t, err)
	assert.Equal(t, "[Ärger]\nschlüssel = wert ✓\ngröße = 日本\n", d.String())
}

// TestEdgeCaseVeryLongValues tests handling of very long values.
func TestEdgeCaseVeryLongValues(t *testing.T) {
	t.Parallel()

	longValue := strings.Repeat("x", 100000)
	in := "[section]\nkey = " + longValue + "\n"
	d := mustParse(t, in)

	val, err := d.Get("section", "key")
	require.NoError(t, err)
	assert.Equal(t, longValue, val)
	assert.Equal(t, in, d.String())
}

// TestEdgeCaseManySections tests documents with many sections.
func TestEdgeCaseManySections(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	for i := range 1000 {
		fmt.Fprintf(&sb, "[section%d]\nkey = %d\n", i, i)
	}
	in := sb.String()

	d := mustParse(t, in)
	assert.Len(t, d.Sections(), 1000)
	assert.Equal(t, in, d.String())

	val, err := d.Get("section999", "key")
	require.NoError(t, err)
	assert.Equal(t, "999", val)

	changed, err := d.Set("section500", "key", "x", Options{})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, strings.Replace(in, "[section500]\nkey = 500\n", "[section500]\nkey = x\n", 1), d.String())
}

// TestEdgeCaseEmptyValues tests the different spellings of empty values.
func TestEdgeCaseEmptyValues(t *testing.T) {
	t.Parallel()

	in := "[s]\na =\nb=\nc:\nd\n"
	d := mustParse(t, in)

	for _, key := range []string{"a", "b", "c", "d"} {
		val, err := d.Get("s", key)
		require.NoError(t, err, key)
		assert.Empty(t, val, key)
	}

	// setting an empty value again keeps the spelling
	for _, key := range []string{"a", "b", "c", "d"} {
		changed, err := d.Set("s", key, "", Options{})
		require.NoError(t, err)
		assert.False(t, changed, key)
	}
	assert.Equal(t, in, d.String())
}

// TestEdgeCaseWhitespacePreservation tests that untouched lines keep their
// whitespace, including trailing whitespace.
func TestEdgeCaseWhitespacePreservation(t *testing.T) {
	t.Parallel()

	in := "  [ s ]  \n\tkey\t=\tvalue\t\n   \nother   :   1   \n"
	d := mustParse(t, in)

	_, err := d.Set("s", "other", "2", Options{})
	require.NoError(t, err)
	assert.Equal(t, "  [ s ]  \n\tkey\t=\tvalue\t\n   \nother   :   2\n", d.String())
}

// TestEdgeCaseSpecialCharactersInValues tests values with separators,
// quotes and comment characters.
func TestEdgeCaseSpecialCharactersInValues(t *testing.T) {
	t.Parallel()

	for _, value := range []string{
		"a=b",
		"http://example.com:8080/path?x=1",
		`"quoted value"`,
		"value ; with semicolon",
		"value # with hash",
		"[not a section]",
		"tab\tinside",
		"back\\slash",
	} {
		d := New()
		_, err := d.Set("s", "key", value, Options{})
		require.NoError(t, err, value)

		reread := mustParse(t, d.String())
		got, err := reread.Get("s", "key")
		require.NoError(t, err, value)
		assert.Equal(t, value, got)
	}
}

// TestEdgeCaseCommentHandling tests that comments stay in place.
func TestEdgeCaseCommentHandling(t *testing.T) {
	t.Parallel()

	in := `# file comment
; another
[s] ; header comment
# before key
key = value
  # indented comment
[t]
`
	d := mustParse(t, in)
	assert.Equal(t, []string{"s", "t"}, d.Sections())

	items, err := d.Items("s")
	require.NoError(t, err)
	assert.Equal(t, []Item{{Key: "key", Value: "value"}}, items)

	_, err = d.Set("s", "key", "new", Options{})
	require.NoError(t, err)
	assert.Equal(t, strings.Replace(in, "key = value", "key = new", 1), d.String())

	_, err = d.Delete("s", "key", "", Options{})
	require.NoError(t, err)
	assert.Equal(t, strings.Replace(in, "key = value\n", "", 1), d.String())
}

// TestEdgeCaseMultilineValues tests continuation lines.
func TestEdgeCaseMultilineValues(t *testing.T) {
	t.Parallel()

	in := "[s]\nkey = line1\n    line2\n\n    # not a continuation\nnext = 1\n"
	d := mustParse(t, in)

	val, err := d.Get("s", "key")
	require.NoError(t, err)
	assert.Equal(t, "line1\nline2", val)

	items, err := d.Items("s")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

// TestEdgeCaseDuplicateKeys tests that the first of several equal keys is
// read and updated.
func TestEdgeCaseDuplicateKeys(t *testing.T) {
	t.Parallel()

	d := mustParse(t, "[s]\nk = 1\nk = 2\n")

	val, err := d.Get("s", "k")
	require.NoError(t, err)
	assert.Equal(t, "1", val)

	_, err = d.Set("s", "k", "3", Options{})
	require.NoError(t, err)
	assert.Equal(t, "[s]\nk = 3\nk = 2\n", d.String())

	_, err = d.Delete("s", "k", "", Options{})
	require.NoError(t, err)
	assert.Equal(t, "[s]\nk = 2\n", d.String())
}

// TestEdgeCaseCaseSensitivity tests that section names fold while keys
// do not.
func TestEdgeCaseCaseSensitivity(t *testing.T) {
	t.Parallel()

	d := mustParse(t, "[Core]\nEditor = vim\n")

	val, err := d.Get("core", "Editor")
	require.NoError(t, err)
	assert.Equal(t, "vim", val)

	_, err = d.Get("CORE", "editor")
	require.ErrorIs(t, err, ErrParamNotFound)
}

// TestEdgeCaseWindowsLineEndings tests that CRLF files stay CRLF.
func TestEdgeCaseWindowsLineEndings(t *testing.T) {
	t.Parallel()

	in := "[s]\r\nkey = value\r\n"
	d := mustParse(t, in)

	val, err := d.Get("s", "key")
	require.NoError(t, err)
	assert.Equal(t, "value", val)

	_, err = d.Set("t", "key", "a\nb", Options{})
	require.NoError(t, err)
	assert.Equal(t, "[s]\r\nkey = value\r\n\r\n[t]\r\nkey = a\r\n b\r\n", d.String())
	assert.NotContains(t, strings.ReplaceAll(d.String(), "\r\n", ""), "\n")
}

// TestEdgeCaseNoTrailingNewline tests files that do not end with a newline.
func TestEdgeCaseNoTrailingNewline(t *testing.T) {
	t.Parallel()

	d := mustParse(t, "[s]\nkey = value")

	_, err := d.Set("s", "key", "new", Options{})
	require.NoError(t, err)
	assert.Equal(t, "[s]\nkey = new", d.String())

	_, err = d.Set("s", "other", "1", Options{})
	require.NoError(t, err)
	assert.Equal(t, "[s]\nkey = new\nother = 1\n", d.String())
}

// TestEdgeCaseNullBytes tests that NUL bytes are kept as value content.
func TestEdgeCaseNullBytes(t *testing.T) {
	t.Parallel()

	in := "[section]\nkey = value\x00end\n"
	d := mustParse(t, in)

	val, err := d.Get("section", "key")
	require.NoError(t, err)
	assert.Equal(t, "value\x00end", val)
	assert.Equal(t, in, d.String())
}

// TestConcurrentReads tests that a document can be queried from several
// goroutines as long as nobody modifies it.
func TestConcurrentReads(t *testing.T) {
	t.Parallel()

	d := mustParse(t, "g = 0\n[user]\nname = John Doe\n[core]\neditor = vim\n")

	var wg sync.WaitGroup
	for id := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for range 100 {
				switch id % 3 {
				case 0:
					val, err := d.Get("user", "name")
					assert.NoError(t, err)
					assert.Equal(t, "John Doe", val)
				case 1:
					val, err := d.Get("core", "g")
					assert.NoError(t, err)
					assert.Equal(t, "0", val)
				case 2:
					assert.Equal(t, []string{"DEFAULT", "user", "core"}, d.Sections())
				}
			}
		}()
	}

	wg.Wait()
}
