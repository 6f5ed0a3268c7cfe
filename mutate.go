package iniedit

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gopasspw/gopass/pkg/debug"
)

// Existence constrains a mutation to fail instead of creating a missing
// level of structure.
type Existence int

const (
	// ExistNone creates whatever is missing.
	ExistNone Existence = iota
	// ExistFile requires the file to exist. It is enforced by the caller
	// that opens the file and does not affect the document operations.
	ExistFile
	// ExistSection requires the target section to exist.
	ExistSection
	// ExistParam requires the target section and parameter to exist.
	ExistParam
)

// ParseExistence parses the argument of an --existing option. The empty
// string means "everything must exist".
func ParseExistence(s string) (Existence, error) {
	switch strings.ToLower(s) {
	case "", "param":
		return ExistParam, nil
	case "section":
		return ExistSection, nil
	case "file":
		return ExistFile, nil
	default:
		return ExistNone, fmt.Errorf("existing item not recognized: %q", s)
	}
}

func (e Existence) String() string {
	switch e {
	case ExistFile:
		return "file"
	case ExistSection:
		return "section"
	case ExistParam:
		return "param"
	default:
		return "none"
	}
}

// Options control the mutation engine.
type Options struct {
	Existing Existence
	// List treats values as delimited lists with set semantics.
	List bool
	// ListSep is the list delimiter. It is only used if ListSepSet is true,
	// otherwise comma separated lists are assumed. An explicitly empty
	// ListSep means any whitespace.
	ListSep    string
	ListSepSet bool
	// NoSpace omits the padding around "=" in newly created entries.
	NoSpace bool
}

func (o Options) separator() string {
	if o.NoSpace {
		return "="
	}

	return " = "
}

func (o Options) needSection() bool {
	return o.Existing == ExistSection || o.Existing == ExistParam
}

// Set sets key to value in section. An empty key only ensures that the
// section exists. Addressing the section as "DEFAULT" writes an explicit
// [DEFAULT] header, addressing it as "" does not.
//
// Existing entries keep their indentation, key case and separator; only
// the value is replaced. New entries go after the last entry of the
// section, new sections at the end of the document.
//
// The returned flag reports whether the serialized document changed.
func (d *Document) Set(section, key, value string, opts Options) (bool, error) {
	before := d.String()
	if err := d.set(section, key, value, opts, false); err != nil {
		return false, err
	}

	return d.String() != before, nil
}

func (d *Document) set(section, key, value string, opts Options, merge bool) error {
	if err := CheckSection(section); err != nil {
		return fmt.Errorf("%w: %q", err, section)
	}
	if key != "" {
		if err := CheckKey(key); err != nil {
			return fmt.Errorf("%w: %q", err, key)
		}
	}

	parts := d.lookup(section)
	if len(parts) == 0 {
		if opts.needSection() {
			return sectionNotFound(section)
		}
		parts = []*Section{d.addSection(section)}
	}

	if section != "" && isDefault(section) {
		d.materializeDefault()
	}

	if key == "" {
		return nil
	}

	s, e := findEntry(parts, key, merge)
	if e == nil {
		if opts.Existing == ExistParam {
			if merge {
				debug.V(2).Log("skipping %q in %q: not present", key, section)

				return nil
			}

			return paramNotFound(section, key)
		}

		if opts.List {
			value = UpdateList("", value, true, opts.ListSep, opts.ListSepSet)
		}

		return d.appendEntry(parts[len(parts)-1], key, normalizeValue(value), opts)
	}

	if opts.List {
		value = UpdateList(e.value, value, true, opts.ListSep, opts.ListSepSet)
	}

	return d.updateEntry(s, e, normalizeValue(value), opts)
}

func (d *Document) appendEntry(s *Section, key, value string, opts Options) error {
	i := s.lastEntryIndex()

	e := &Entry{key: key, sep: opts.separator()}
	if i >= 0 {
		e.indent = s.nodes[i].entry.indent
	}
	if value == "" && d.bare {
		e.sep = ""
	}

	if err := e.render(value, d.eol); err != nil {
		return err
	}

	s.nodes = slices.Insert(s.nodes, i+1, &node{entry: e})

	debug.V(3).Log("added %q to section %q", key, s.name)

	return nil
}

func (d *Document) updateEntry(s *Section, e *Entry, value string, opts Options) error {
	if e.value == value {
		debug.V(1).Log("key %q with value %q already present. Not re-writing.", e.key, value)

		return nil
	}

	if e.sep == "" && value != "" {
		e.sep = opts.separator()
	}

	if err := e.render(value, d.eol); err != nil {
		return err
	}

	debug.V(3).Log("updated %q in section %q", e.key, s.name)

	return nil
}

// Delete removes key from section, or the whole section if key is empty.
// With List set, a non-empty value is removed from the list stored in key
// instead. Missing targets are a no-op unless opts.Existing requires them.
//
// Deleting DEFAULT removes all global entries and an explicit [DEFAULT]
// header but keeps comments.
func (d *Document) Delete(section, key, value string, opts Options) (bool, error) {
	before := d.String()

	parts := d.lookup(section)
	if len(parts) == 0 {
		if opts.needSection() {
			return false, sectionNotFound(section)
		}
		debug.V(2).Log("section %q not found, nothing to delete", section)

		return false, nil
	}

	if key == "" {
		if isDefault(section) {
			d.clearDefault()
		} else {
			d.removeSection(section)
		}

		return d.String() != before, nil
	}

	s, e := findEntry(parts, key, false)
	if e == nil {
		if opts.Existing == ExistParam {
			return false, paramNotFound(section, key)
		}
		debug.V(2).Log("key %q not found in section %q, nothing to delete", key, section)

		return false, nil
	}

	if opts.List && value != "" {
		v := UpdateList(e.value, value, false, opts.ListSep, opts.ListSepSet)
		if err := d.updateEntry(s, e, normalizeValue(v), opts); err != nil {
			return false, err
		}

		return d.String() != before, nil
	}

	s.removeEntry(e)

	return d.String() != before, nil
}
