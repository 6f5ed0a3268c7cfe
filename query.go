package iniedit

import (
	"fmt"

	"github.com/gopasspw/gopass/pkg/debug"
)

// Item is a key/value pair returned by queries.
type Item struct {
	Key   string
	Value string
}

// Sections returns the section names in source order. DEFAULT comes first
// and is only included if it has at least one entry.
func (d *Document) Sections() []string {
	out := make([]string, 0, len(d.index))
	for _, g := range d.groups() {
		if isDefault(g.name) && len(g.entries) == 0 {
			continue
		}
		out = append(out, g.name)
	}

	return out
}

// HasSection returns true if a section with the given name exists. DEFAULT
// (and its alias "") always exists.
func (d *Document) HasSection(name string) bool {
	return len(d.lookup(name)) > 0
}

// MatchSections returns the names of all sections matching the glob pattern,
// in the same order as Sections.
func (d *Document) MatchSections(pattern string) ([]string, error) {
	out := make([]string, 0, 8)
	for _, name := range d.Sections() {
		ok, err := globMatch(pattern, name)
		if err != nil {
			return nil, fmt.Errorf("invalid section pattern %q: %w", pattern, err)
		}
		if ok {
			out = append(out, name)
		}
	}

	debug.V(3).Log("pattern %q matched sections %v", pattern, out)

	return out, nil
}

// Get returns the value of key in section. Keys are matched exactly. Keys
// missing from a named section are looked up in DEFAULT.
func (d *Document) Get(section, key string) (string, error) {
	parts := d.lookup(section)
	if len(parts) == 0 {
		return "", sectionNotFound(section)
	}

	if _, e := findEntry(parts, key, false); e != nil {
		return e.value, nil
	}

	if !isDefault(section) {
		if _, e := findEntry(d.lookup(defaultSection), key, false); e != nil {
			debug.V(3).Log("using DEFAULT value for %q in section %q", key, section)

			return e.value, nil
		}
	}

	return "", paramNotFound(section, key)
}

// Items returns the entries of section in source order. For DEFAULT these
// are the global entries followed by those under an explicit [DEFAULT]
// header.
func (d *Document) Items(section string) ([]Item, error) {
	parts := d.lookup(section)
	if len(parts) == 0 {
		return nil, sectionNotFound(section)
	}

	out := make([]Item, 0, 8)
	for _, s := range parts {
		for _, e := range s.Entries() {
			out = append(out, Item{Key: e.key, Value: e.value})
		}
	}

	return out, nil
}
