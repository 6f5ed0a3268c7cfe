// Package format renders query results in the output formats of iniedit.
package format

import (
	"fmt"
	"strings"
)

// OutputType specifies the renderer to use for formatting output.
type OutputType string

const (
	// OutputPlain prints bare section names, parameter names or values.
	OutputPlain OutputType = ""
	// OutputINI prints "[section]" headers and "name = value" lines.
	OutputINI OutputType = "ini"
	// OutputSh prints shell assignments.
	OutputSh OutputType = "sh"
	// OutputLines prints one "[ section ] name = value" line per parameter.
	OutputLines OutputType = "lines"
)

// ParseOutputType parses a string into an OutputType with validation.
// Returns OutputPlain for empty strings.
func ParseOutputType(s string) (OutputType, error) {
	switch strings.ToLower(s) {
	case "":
		return OutputPlain, nil
	case "ini":
		return OutputINI, nil
	case "sh":
		return OutputSh, nil
	case "lines":
		return OutputLines, nil
	default:
		return OutputPlain, fmt.Errorf("format not recognized: %q (must be sh, ini or lines)", s)
	}
}

// String returns the string representation of the output type.
func (o OutputType) String() string {
	if o == OutputPlain {
		return "plain"
	}

	return string(o)
}
