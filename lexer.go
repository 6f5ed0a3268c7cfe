package iniedit

import (
	"errors"
	"strings"
)

type lineKind int

const (
	kindBlank lineKind = iota
	kindComment
	kindHeader
	kindEntry
	kindContinuation
)

func (k lineKind) String() string {
	switch k {
	case kindBlank:
		return "blank"
	case kindComment:
		return "comment"
	case kindHeader:
		return "header"
	case kindEntry:
		return "entry"
	case kindContinuation:
		return "continuation"
	default:
		return "unknown"
	}
}

var (
	errUnterminatedHeader = errors.New("unterminated section header")
	errNestedHeader       = errors.New("nested section header")
	errEmptyHeader        = errors.New("empty section name")
	errHeaderTrailer      = errors.New("unexpected text after section header")
	errMissingKey         = errors.New("missing parameter name")
)

// token is the classification of a single physical line.
type token struct {
	kind   lineKind
	indent string
	// name is the section name of a header line.
	name string
	// key, sep and value are set for entries. sep holds the exact separator
	// characters including the surrounding whitespace. Continuations only
	// carry a value.
	key   string
	sep   string
	value string
}

// classifyLine classifies one physical line (without its line terminator).
// entryIndent is the indentation width of the entry the previous line
// belonged to, or -1 if the previous line was not part of an entry. Lines
// indented deeper than that entry continue its value.
func classifyLine(line string, entryIndent int) (token, error) {
	trimmed := strings.TrimLeft(line, " \t")
	tok := token{indent: line[:len(line)-len(trimmed)]}

	if strings.TrimSpace(trimmed) == "" {
		tok.kind = kindBlank

		return tok, nil
	}

	switch trimmed[0] {
	case '#', ';':
		tok.kind = kindComment

		return tok, nil
	case '[':
		name, err := parseHeader(trimmed)
		if err != nil {
			return tok, err
		}
		tok.kind = kindHeader
		tok.name = name

		return tok, nil
	}

	if entryIndent >= 0 && len(tok.indent) > entryIndent {
		tok.kind = kindContinuation
		tok.value = strings.TrimSpace(trimmed)

		return tok, nil
	}

	tok.kind = kindEntry
	idx := strings.IndexAny(trimmed, "=:")
	if idx < 0 {
		// a parameter without any value
		tok.key = strings.TrimRight(trimmed, " \t")

		return tok, nil
	}

	tok.key = strings.TrimRight(trimmed[:idx], " \t")
	if tok.key == "" {
		return tok, errMissingKey
	}

	rest := trimmed[idx+1:]
	value := strings.TrimLeft(rest, " \t")
	tok.sep = trimmed[len(tok.key):idx+1] + rest[:len(rest)-len(value)]
	tok.value = strings.TrimRight(value, " \t")

	return tok, nil
}

// parseHeader extracts the section name from a line starting with '['.
// Only whitespace or an inline comment may follow the closing bracket and
// the name must not contain another '[', otherwise a rewritten file could
// be read back with a different section layout.
func parseHeader(line string) (string, error) {
	end := strings.IndexByte(line, ']')
	if end < 0 {
		return "", errUnterminatedHeader
	}

	name := line[1:end]
	if strings.Contains(name, "[") {
		return "", errNestedHeader
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errEmptyHeader
	}

	rest := strings.TrimSpace(line[end+1:])
	if rest != "" && rest[0] != '#' && rest[0] != ';' {
		return "", errHeaderTrailer
	}

	return name, nil
}
