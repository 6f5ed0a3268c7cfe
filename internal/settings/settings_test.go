package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeEnv(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, found := env[k]

		return v, found
	}
}

func writeSettings(t *testing.T, content string) string {
	t.Helper()

	fn := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(fn, []byte(content), 0o644))

	return fn
}

func TestPreset(t *testing.T) {
	t.Parallel()

	s, err := LoadFrom(filepath.Join(t.TempDir(), "missing"), fakeEnv(nil))
	require.NoError(t, err)
	assert.Equal(t, "utf-8", s.Encoding)
	assert.Empty(t, s.Format)
	assert.False(t, s.InPlace)
	assert.False(t, s.ListSepSet)
	assert.Empty(t, s.Source)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	fn := writeSettings(t, `# iniedit defaults
[other]
format = ini

[defaults]
Format = lines
inplace = true
ini-options = nospace
list-sep = :
`)

	s, err := LoadFrom(fn, fakeEnv(nil))
	require.NoError(t, err)
	assert.Equal(t, "lines", s.Format)
	assert.True(t, s.InPlace)
	assert.True(t, s.NoSpace)
	assert.Equal(t, ":", s.ListSep)
	assert.True(t, s.ListSepSet)
	assert.Equal(t, fn, s.Source["format"])
}

func TestEnvOverridesFile(t *testing.T) {
	t.Parallel()

	fn := writeSettings(t, "[defaults]\nformat = lines\nlist-sep = :\n")

	s, err := LoadFrom(fn, fakeEnv(map[string]string{
		"INIEDIT_FORMAT":   "sh",
		"INIEDIT_LIST_SEP": "",
		"INIEDIT_ENCODING": "latin1",
	}))
	require.NoError(t, err)
	assert.Equal(t, "sh", s.Format)
	assert.Empty(t, s.ListSep)
	assert.True(t, s.ListSepSet)
	assert.Equal(t, "latin1", s.Encoding)
	assert.Equal(t, "env", s.Source["format"])
}

func TestNoConfig(t *testing.T) {
	t.Parallel()

	fn := writeSettings(t, "[defaults]\nformat = lines\n")

	s, err := LoadFrom(fn, fakeEnv(map[string]string{"INIEDIT_NOCONFIG": "1"}))
	require.NoError(t, err)
	assert.Empty(t, s.Format)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	for _, content := range []string{
		"[defaults]\ncolor = true\n",
		"[defaults]\ninplace = maybe\n",
		"[defaults]\nini-options = wide\n",
		"[defaults\n",
	} {
		_, err := LoadFrom(writeSettings(t, content), fakeEnv(nil))
		require.Error(t, err, content)
	}

	_, err := LoadFrom(writeSettings(t, "[defaults]\ncolor = true\n"), fakeEnv(nil))
	require.ErrorIs(t, err, ErrUnknownKey)

	_, err = LoadFrom("", fakeEnv(map[string]string{"INIEDIT_INPLACE": "maybe"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INIEDIT_INPLACE")
}

func TestEnvName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "INIEDIT_FORMAT", EnvName("format"))
	assert.Equal(t, "INIEDIT_INI_OPTIONS", EnvName("ini-options"))
}

func TestParseINIOptions(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]bool{
		"":          false,
		"nospace":   true,
		" NoSpace ": true,
		",nospace,": true,
	} {
		got, err := ParseINIOptions(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseINIOptions("nospace,wide")
	require.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "config", filepath.Base(ConfigFile()))
	assert.Contains(t, ConfigFile(), "iniedit")
}
