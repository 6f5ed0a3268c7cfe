package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutputType(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]OutputType{
		"":      OutputPlain,
		"ini":   OutputINI,
		"SH":    OutputSh,
		"lines": OutputLines,
	} {
		got, err := ParseOutputType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseOutputType("json")
	require.Error(t, err)

	assert.Equal(t, "plain", OutputPlain.String())
	assert.Equal(t, "lines", OutputLines.String())
}
