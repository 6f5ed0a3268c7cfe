package cli

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// textEncoding returns the encoding selected with --encoding. A nil
// encoding means the data is UTF-8 and passed through unchanged.
func textEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("%w: encoding not recognized: %q", errUsage, name)
	}
}

// decodeReader reads all of r and converts it to UTF-8.
func decodeReader(r io.Reader, enc encoding.Encoding) (string, error) {
	if enc != nil {
		r = transform.NewReader(r, enc.NewDecoder())
	}

	buf, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	return string(buf), nil
}

func decode(b []byte, enc encoding.Encoding) (string, error) {
	if enc == nil {
		return string(b), nil
	}

	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("failed to decode input: %w", err)
	}

	return string(out), nil
}

func encode(s string, enc encoding.Encoding) ([]byte, error) {
	if enc == nil {
		return []byte(s), nil
	}

	out, err := enc.NewEncoder().String(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode output: %w", err)
	}

	return []byte(out), nil
}
