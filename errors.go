package iniedit

import (
	"errors"
	"fmt"
)

var (
	// ErrParse indicates input that can not be modeled without corrupting it on write.
	ErrParse = errors.New("parse error")
	// ErrSectionNotFound indicates a missing section.
	ErrSectionNotFound = errors.New("section not found")
	// ErrParamNotFound indicates a missing parameter (key) within a section.
	ErrParamNotFound = errors.New("parameter not found")
	// ErrFileNotFound indicates a missing file under a file existence constraint.
	ErrFileNotFound = errors.New("file not found")
	// ErrInvalidSection indicates a section name that would produce an unparseable header.
	ErrInvalidSection = errors.New("invalid section name")
	// ErrInvalidKey indicates a key that would be read back as something else.
	ErrInvalidKey = errors.New("invalid key")
)

// ParseError is returned by Parse for lines that can not be safely modeled.
// It wraps ErrParse.
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

func sectionNotFound(name string) error {
	return fmt.Errorf("%w: %s", ErrSectionNotFound, name)
}

func paramNotFound(section, key string) error {
	if section == "" {
		return fmt.Errorf("%w: %s", ErrParamNotFound, key)
	}

	return fmt.Errorf("%w: %s in section %s", ErrParamNotFound, key, section)
}
