package iniedit

import (
	"strings"

	"github.com/gobwas/glob"
	"golang.org/x/text/cases"
)

const (
	defaultSection = "DEFAULT"
	utf8BOM        = "\ufeff"
)

// globMatch matches s against a shell style glob pattern. Section names
// have no path structure, so '*' matches any run of characters.
func globMatch(pattern, s string) (bool, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return false, err
	}

	return g.Match(s), nil
}

// foldName canonicalizes a section name for case-insensitive lookups.
// The global pseudo-section and DEFAULT share the same canonical name.
func foldName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultSection
	}

	return cases.Fold().String(name)
}

// isDefault reports whether name addresses the DEFAULT section, either by
// name or through the empty-string alias.
func isDefault(name string) bool {
	return foldName(name) == foldName(defaultSection)
}

// line is a single physical line and its terminator. Only the last line of
// a document may have an empty terminator.
type line struct {
	text string
	eol  string
}

// splitLines splits s into physical lines, keeping "\n" and "\r\n"
// terminators so the input can be reproduced exactly.
func splitLines(s string) []line {
	lines := make([]line, 0, strings.Count(s, "\n")+1)
	for s != "" {
		n := strings.IndexByte(s, '\n')
		if n < 0 {
			lines = append(lines, line{text: s})

			break
		}

		text, eol := s[:n], "\n"
		if strings.HasSuffix(text, "\r") {
			text, eol = text[:len(text)-1], "\r\n"
		}
		lines = append(lines, line{text: text, eol: eol})
		s = s[n+1:]
	}

	return lines
}

// CheckSection returns ErrInvalidSection for section names that would be
// written as a header which reads back differently.
func CheckSection(name string) error {
	if strings.ContainsAny(name, "[]\r\n") {
		return ErrInvalidSection
	}

	return nil
}

// CheckKey returns ErrInvalidKey for keys that would be split differently
// or misclassified when the file is read back.
func CheckKey(key string) error {
	if key == "" || key != strings.TrimSpace(key) {
		return ErrInvalidKey
	}
	if strings.ContainsAny(key, "=:\r\n") {
		return ErrInvalidKey
	}
	switch key[0] {
	case '[', '#', ';':
		return ErrInvalidKey
	}

	return nil
}
