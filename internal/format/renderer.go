package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/gopasspw/iniedit"
	"github.com/kballard/go-shellquote"
)

// Renderer writes query results.
type Renderer interface {
	// Sections lists section names.
	Sections(names []string) error
	// Section lists the parameters of one section.
	Section(name string, items []iniedit.Item) error
	// Value prints a single parameter.
	Value(section, key, value string) error
}

// NewRenderer returns the renderer for the given output type.
func NewRenderer(w io.Writer, o OutputType) Renderer {
	switch o {
	case OutputINI:
		return &iniRenderer{w: w}
	case OutputSh:
		return &shRenderer{w: w}
	case OutputLines:
		return &linesRenderer{w: w}
	default:
		return &plainRenderer{w: w}
	}
}

type plainRenderer struct {
	w io.Writer
}

func (r *plainRenderer) Sections(names []string) error {
	for _, name := range names {
		if _, err := fmt.Fprintln(r.w, name); err != nil {
			return err
		}
	}

	return nil
}

func (r *plainRenderer) Section(_ string, items []iniedit.Item) error {
	for _, item := range items {
		if _, err := fmt.Fprintln(r.w, item.Key); err != nil {
			return err
		}
	}

	return nil
}

func (r *plainRenderer) Value(_, _, value string) error {
	_, err := fmt.Fprintln(r.w, value)

	return err
}

type iniRenderer struct {
	w io.Writer
}

func (r *iniRenderer) Sections(names []string) error {
	for _, name := range names {
		if _, err := fmt.Fprintf(r.w, "[%s]\n", name); err != nil {
			return err
		}
	}

	return nil
}

func (r *iniRenderer) Section(name string, items []iniedit.Item) error {
	if _, err := fmt.Fprintf(r.w, "[%s]\n", name); err != nil {
		return err
	}
	for _, item := range items {
		if err := r.Value(name, item.Key, item.Value); err != nil {
			return err
		}
	}

	return nil
}

func (r *iniRenderer) Value(_, key, value string) error {
	_, err := fmt.Fprintf(r.w, "%s = %s\n", key, strings.ReplaceAll(value, "\n", "\n "))

	return err
}

// shRenderer prints shell assignments. Section listings are not
// assignments and are printed like the plain format.
type shRenderer struct {
	w io.Writer
}

func (r *shRenderer) Sections(names []string) error {
	return (&plainRenderer{w: r.w}).Sections(names)
}

func (r *shRenderer) Section(name string, items []iniedit.Item) error {
	for _, item := range items {
		if err := r.Value(name, item.Key, item.Value); err != nil {
			return err
		}
	}

	return nil
}

func (r *shRenderer) Value(_, key, value string) error {
	if !ValidShIdentifier(key) {
		return fmt.Errorf("invalid sh identifier: %s", key)
	}

	_, err := fmt.Fprintf(r.w, "%s=%s\n", key, shellquote.Join(value))

	return err
}

// ValidShIdentifier reports whether name can be used as a shell variable
// name. Anything else must not be printed as an assignment, it could be
// evaluated as a command.
func ValidShIdentifier(name string) bool {
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		return false
	}
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
		default:
			return false
		}
	}

	return true
}

// linesRenderer prints every parameter on its own line, prefixed with its
// section, so that the output can be compared with sort and diff.
type linesRenderer struct {
	w io.Writer
}

func (r *linesRenderer) Sections(names []string) error {
	for _, name := range names {
		if _, err := fmt.Fprintf(r.w, "[ %s ]\n", name); err != nil {
			return err
		}
	}

	return nil
}

func (r *linesRenderer) Section(name string, items []iniedit.Item) error {
	if len(items) == 0 {
		_, err := fmt.Fprintf(r.w, "[ %s ]\n", name)

		return err
	}
	for _, item := range items {
		if err := r.Value(name, item.Key, item.Value); err != nil {
			return err
		}
	}

	return nil
}

func (r *linesRenderer) Value(section, key, value string) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[ %s ] %s", section, key)
	if value != "" {
		sb.WriteString(" = ")
		sb.WriteString(strings.ReplaceAll(value, "\n", `\n`))
	}
	sb.WriteString("\n")

	_, err := io.WriteString(r.w, sb.String())

	return err
}
