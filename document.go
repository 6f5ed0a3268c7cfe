package iniedit

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/gopasspw/gopass/pkg/debug"
)

// Document is a parsed INI file.
//
// Document keeps every physical line of its input: blank lines, comments,
// section headers (including inline comments) and entries with their exact
// separators. Only lines touched by a mutation are re-rendered, so String
// of an unmodified Document reproduces the input byte for byte.
//
// The first section is always the implicit global section which holds the
// lines before the first header. It is addressed as "" or "DEFAULT" and
// shares its data with an explicit [DEFAULT] section, if one exists.
//
// Note: Document is not thread-safe.
type Document struct {
	sections []*Section
	// index maps folded section names to all sections carrying that name,
	// in source order. The global section is registered as DEFAULT.
	index map[string][]*Section
	eol   string
	bom   bool
	// bare is set if the input contains parameters without a value.
	bare bool
}

// Section is a named group of entries. The global section has no name and
// no header line.
type Section struct {
	name string
	// lead holds lines that are rendered before the header. It is only
	// used when a header is inserted in front of existing lines.
	lead   []*node
	header *line
	nodes  []*node
}

// node is either a raw line (blank or comment) or an entry.
type node struct {
	raw   *line
	entry *Entry
}

// Entry is a single key/value pair together with the lines it occupies.
type Entry struct {
	indent     string
	key        string
	sep        string
	value      string
	contIndent string
	lines      []line
}

// Key returns the key in its original case.
func (e *Entry) Key() string {
	return e.key
}

// Value returns the raw value. Continuation lines are joined with "\n".
func (e *Entry) Value() string {
	return e.value
}

// Separator returns the separator as written, including any padding.
// It is empty for parameters without a value.
func (e *Entry) Separator() string {
	return e.sep
}

// render replaces the lines of the entry with a rendering of value. The
// terminator of the last original line is kept.
func (e *Entry) render(value, eol string) error {
	parts := strings.Split(value, "\n")
	for _, p := range parts[1:] {
		t := strings.TrimSpace(p)
		if t == "" || strings.ContainsAny(t[:1], "[#;") {
			return fmt.Errorf("%w: value line %q can not be written as a continuation", ErrParse, p)
		}
	}

	cont := e.contIndent
	if cont == "" {
		cont = e.indent + " "
	}

	last := eol
	if len(e.lines) > 0 {
		last = e.lines[len(e.lines)-1].eol
	}

	lines := make([]line, 0, len(parts))
	lines = append(lines, line{text: strings.TrimRight(e.indent+e.key+e.sep+parts[0], " \t"), eol: eol})
	for _, p := range parts[1:] {
		lines = append(lines, line{text: cont + p, eol: eol})
	}
	lines[len(lines)-1].eol = last

	e.lines = lines
	e.value = value

	return nil
}

// normalizeValue trims every line of value the same way the parser does.
func normalizeValue(value string) string {
	value = strings.ReplaceAll(value, "\r\n", "\n")
	parts := strings.Split(value, "\n")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}

	return strings.Join(parts, "\n")
}

// Name returns the section name as written in its header. The global
// section has an empty name.
func (s *Section) Name() string {
	return s.name
}

// HasHeader returns true if the section has a header line.
func (s *Section) HasHeader() bool {
	return s.header != nil
}

// Entries returns the entries of the section in source order.
func (s *Section) Entries() []*Entry {
	out := make([]*Entry, 0, len(s.nodes))
	for _, n := range s.nodes {
		if n.entry != nil {
			out = append(out, n.entry)
		}
	}

	return out
}

func (s *Section) firstEntryIndex() int {
	return slices.IndexFunc(s.nodes, func(n *node) bool { return n.entry != nil })
}

func (s *Section) lastEntryIndex() int {
	for i := len(s.nodes) - 1; i >= 0; i-- {
		if s.nodes[i].entry != nil {
			return i
		}
	}

	return -1
}

func (s *Section) removeEntry(e *Entry) bool {
	i := slices.IndexFunc(s.nodes, func(n *node) bool { return n.entry == e })
	if i < 0 {
		return false
	}
	s.nodes = slices.Delete(s.nodes, i, i+1)

	return true
}

func (s *Section) removeEntries() {
	s.nodes = slices.DeleteFunc(s.nodes, func(n *node) bool { return n.entry != nil })
}

func (s *Section) appendLines(out []line) []line {
	for _, n := range s.lead {
		out = n.appendLines(out)
	}
	if s.header != nil {
		out = append(out, *s.header)
	}
	for _, n := range s.nodes {
		out = n.appendLines(out)
	}

	return out
}

func (n *node) appendLines(out []line) []line {
	if n.entry != nil {
		return append(out, n.entry.lines...)
	}

	return append(out, *n.raw)
}

// New returns an empty Document, e.g. for a file that does not exist yet.
func New() *Document {
	d := &Document{
		index: make(map[string][]*Section, 8),
		eol:   "\n",
	}
	d.register(&Section{})

	return d
}

// Parse reads an INI document from r. It fails with a *ParseError if a line
// can not be modeled without risking a corrupted rewrite.
func Parse(r io.Reader) (*Document, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return ParseString(string(buf))
}

// ParseString parses an INI document from a string.
func ParseString(s string) (*Document, error) {
	d := New()

	if rest, found := strings.CutPrefix(s, utf8BOM); found {
		d.bom = true
		s = rest
	}

	lines := splitLines(s)
	if len(lines) > 0 && lines[0].eol != "" {
		d.eol = lines[0].eol
	}

	cur := d.global()
	var last *Entry
	for i, l := range lines {
		entryIndent := -1
		if last != nil {
			entryIndent = len(last.indent)
		}

		tok, err := classifyLine(l.text, entryIndent)
		if err != nil {
			debug.V(1).Log("failed to parse line %d %q: %s", i+1, l.text, err)

			return nil, &ParseError{Line: i + 1, Text: l.text, Reason: err.Error()}
		}

		switch tok.kind {
		case kindContinuation:
			if len(last.lines) == 1 {
				last.contIndent = tok.indent
			}
			last.lines = append(last.lines, l)
			last.value += "\n" + tok.value
		case kindHeader:
			hdr := l
			cur = &Section{name: tok.name, header: &hdr}
			d.register(cur)
			last = nil
		case kindEntry:
			last = &Entry{
				indent: tok.indent,
				key:    tok.key,
				sep:    tok.sep,
				value:  tok.value,
				lines:  []line{l},
			}
			if tok.sep == "" {
				d.bare = true
			}
			cur.nodes = append(cur.nodes, &node{entry: last})
		default:
			raw := l
			cur.nodes = append(cur.nodes, &node{raw: &raw})
			last = nil
		}
	}

	debug.V(3).Log("parsed %d lines into %d sections", len(lines), len(d.sections))

	return d, nil
}

// String serializes the document.
func (d *Document) String() string {
	var sb strings.Builder
	if d.bom {
		sb.WriteString(utf8BOM)
	}

	lines := d.lines()
	for i, l := range lines {
		sb.WriteString(l.text)
		switch {
		case l.eol != "":
			sb.WriteString(l.eol)
		case i < len(lines)-1:
			sb.WriteString(d.eol)
		}
	}

	return sb.String()
}

// Bytes serializes the document.
func (d *Document) Bytes() []byte {
	return []byte(d.String())
}

func (d *Document) lines() []line {
	out := make([]line, 0, 64)
	for _, s := range d.sections {
		out = s.appendLines(out)
	}

	return out
}

func (d *Document) register(s *Section) {
	d.sections = append(d.sections, s)
	k := foldName(s.name)
	d.index[k] = append(d.index[k], s)
}

func (d *Document) global() *Section {
	return d.sections[0]
}

// lookup returns all sections matching name. DEFAULT always resolves to
// at least the global section.
func (d *Document) lookup(name string) []*Section {
	return d.index[foldName(name)]
}

// hasDefaultHeader returns true if an explicit [DEFAULT] header exists.
func (d *Document) hasDefaultHeader() bool {
	return slices.ContainsFunc(d.lookup(defaultSection), (*Section).HasHeader)
}

// materializeDefault turns the global section into an explicit [DEFAULT]
// section. The header goes directly before the first global entry or, if
// there is none, at the very top followed by a blank separator line.
func (d *Document) materializeDefault() {
	if d.hasDefaultHeader() {
		return
	}

	g := d.global()
	hdr := &line{text: "[" + defaultSection + "]", eol: d.eol}

	if i := g.firstEntryIndex(); i >= 0 {
		g.lead, g.nodes = g.nodes[:i:i], g.nodes[i:]
		g.header = hdr
		g.name = defaultSection

		debug.V(3).Log("inserted [DEFAULT] header before the first global entry")

		return
	}

	if rest := d.lines(); len(rest) > 0 && strings.TrimSpace(rest[0].text) != "" {
		g.nodes = slices.Insert(g.nodes, 0, &node{raw: &line{eol: d.eol}})
	}
	g.header = hdr
	g.name = defaultSection

	debug.V(3).Log("inserted [DEFAULT] header at the top")
}

// addSection appends a new section at the end of the document.
func (d *Document) addSection(name string) *Section {
	s := &Section{
		name:   name,
		header: &line{text: "[" + name + "]", eol: d.eol},
	}
	if lines := d.lines(); len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1].text) != "" {
		s.lead = []*node{{raw: &line{eol: d.eol}}}
	}
	d.register(s)

	debug.V(3).Log("added section %q", name)

	return s
}

// removeSection deletes all sections named name, including their headers,
// comments and entries. It must not be used for DEFAULT.
func (d *Document) removeSection(name string) {
	parts := d.lookup(name)
	d.sections = slices.DeleteFunc(d.sections, func(s *Section) bool {
		return slices.Contains(parts, s)
	})
	delete(d.index, foldName(name))
}

// clearDefault deletes all DEFAULT entries and any explicit [DEFAULT]
// header. Comments and blank lines stay where they were.
func (d *Document) clearDefault() {
	g := d.global()
	for _, s := range d.lookup(defaultSection) {
		s.removeEntries()
		if s.header == nil {
			continue
		}

		if s == g {
			s.nodes = append(s.lead, s.nodes...)
			s.lead = nil
			s.header = nil
			s.name = ""

			continue
		}

		i := slices.Index(d.sections, s)
		prev := d.sections[i-1]
		prev.nodes = append(prev.nodes, s.lead...)
		prev.nodes = append(prev.nodes, s.nodes...)
		d.sections = slices.Delete(d.sections, i, i+1)
	}

	d.index[foldName(defaultSection)] = []*Section{g}
}

// findEntry returns the first entry named key. With fold set keys are
// compared case-insensitively, but an exact match is always preferred.
func findEntry(parts []*Section, key string, fold bool) (*Section, *Entry) {
	for _, s := range parts {
		for _, n := range s.nodes {
			if n.entry != nil && n.entry.key == key {
				return s, n.entry
			}
		}
	}
	if !fold {
		return nil, nil
	}
	for _, s := range parts {
		for _, n := range s.nodes {
			if n.entry != nil && strings.EqualFold(n.entry.key, key) {
				return s, n.entry
			}
		}
	}

	return nil, nil
}

// group is the merged view of all sections sharing one name.
type group struct {
	name     string
	explicit bool
	entries  []*Entry
}

// groups returns DEFAULT first followed by the named sections in order of
// first appearance.
func (d *Document) groups() []group {
	out := make([]group, 0, len(d.index))
	seen := make(map[string]bool, len(d.index))
	for _, s := range d.sections {
		k := foldName(s.name)
		if seen[k] {
			continue
		}
		seen[k] = true

		g := group{name: s.name}
		for _, p := range d.index[k] {
			g.explicit = g.explicit || p.header != nil
			g.entries = append(g.entries, p.Entries()...)
		}
		if k == foldName(defaultSection) {
			g.name = defaultSection
		}
		out = append(out, g)
	}

	return out
}
