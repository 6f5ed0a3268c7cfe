package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/gopasspw/gopass/pkg/debug"
	"github.com/gopasspw/iniedit"
	"github.com/gopasspw/iniedit/internal/format"
	"github.com/gopasspw/iniedit/internal/lockedfile"
	"github.com/spf13/cobra"
)

func newGetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get FILE [SECTION] [PARAM]",
		Short: "Print sections, parameters or a value",
		Long: `The get command prints the sections of FILE, the parameters of SECTION
or the value of PARAM. FILE may be '-' to read from stdin.

Example:
  iniedit get nova.conf
  iniedit get nova.conf DEFAULT
  iniedit get nova.conf database connection
  iniedit get --format=lines nova.conf
  iniedit get --format=sh nova.conf database
  iniedit get --glob nova.conf 'backend_*' enabled`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGet(cmd, args)
		},
	}

	cmd.Flags().StringVar(&a.format, "format", "", "Output format (sh, ini, lines)")
	cmd.Flags().BoolVar(&a.glob, "glob", false, "Treat SECTION as a glob pattern")

	return cmd
}

func (a *app) runGet(cmd *cobra.Command, args []string) error {
	file := args[0]
	var section, param string
	hasSection := len(args) > 1
	if hasSection {
		section = args[1]
	}
	if len(args) > 2 {
		param = args[2]
	}

	checked := section
	if a.glob {
		checked = ""
	}
	if err := checkNames(checked, param); err != nil {
		return err
	}

	o, err := a.outputType()
	if err != nil {
		return err
	}

	doc, err := a.readDocument(cmd, file)
	if err != nil {
		return err
	}

	r := format.NewRenderer(cmd.OutOrStdout(), o)

	if !hasSection {
		if o != format.OutputLines {
			return r.Sections(doc.Sections())
		}

		return printSections(r, doc, doc.Sections())
	}

	sections := []string{displayName(section)}
	if a.glob {
		sections, err = doc.MatchSections(section)
		if err != nil {
			return fmt.Errorf("%w: %w", errUsage, err)
		}
		if len(sections) == 0 {
			return fmt.Errorf("%w: no section matches %s", iniedit.ErrSectionNotFound, section)
		}
	}

	if param == "" {
		return printSections(r, doc, sections)
	}

	var found bool
	for _, s := range sections {
		v, err := doc.Get(s, param)
		if a.glob && errors.Is(err, iniedit.ErrParamNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		found = true
		if err := r.Value(s, param, v); err != nil {
			return err
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", iniedit.ErrParamNotFound, param)
	}

	return nil
}

func printSections(r format.Renderer, doc *iniedit.Document, sections []string) error {
	for _, s := range sections {
		items, err := doc.Items(s)
		if err != nil {
			return err
		}
		if err := r.Section(s, items); err != nil {
			return err
		}
	}

	return nil
}

// displayName maps the empty alias of the global section to DEFAULT.
func displayName(section string) string {
	if section == "" {
		return "DEFAULT"
	}

	return section
}

// readDocument reads and parses FILE for reading under a shared lock.
func (a *app) readDocument(cmd *cobra.Command, file string) (*iniedit.Document, error) {
	enc, err := textEncoding(a.encoding)
	if err != nil {
		return nil, err
	}

	var text string
	if file == "-" {
		text, err = decodeReader(cmd.InOrStdin(), enc)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
	} else {
		lf, err := lockedfile.Open(file, lockedfile.Mode{})
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", iniedit.ErrFileNotFound, file)
		}
		if err != nil {
			return nil, err
		}
		defer lf.Close() //nolint:errcheck

		buf, err := lf.ReadAll()
		if err != nil {
			return nil, err
		}
		text, err = decode(buf, enc)
		if err != nil {
			return nil, err
		}
	}

	doc, err := iniedit.ParseString(text)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", file, err)
	}

	debug.V(2).Log("read %s: sections %v", file, doc.Sections())

	return doc, nil
}
