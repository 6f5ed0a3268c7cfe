package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/gopasspw/gopass/pkg/debug"
	"github.com/gopasspw/iniedit"
	"github.com/gopasspw/iniedit/internal/format"
	"github.com/gopasspw/iniedit/internal/lockedfile"
	"github.com/kballard/go-shellquote"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
	"golang.org/x/text/encoding"
)

// mutation changes doc and reports whether it did.
type mutation func(doc *iniedit.Document, opts iniedit.Options) (bool, error)

func addMutationFlags(a *app, cmd *cobra.Command) {
	cmd.Flags().StringVar(&a.existing, "existing", "", "Fail if the item (file, section or param) does not exist")
	cmd.Flags().Lookup("existing").NoOptDefVal = "param"
	cmd.Flags().BoolVar(&a.inplace, "inplace", false, "Lock and write the file in place instead of replacing it")
	cmd.Flags().BoolVar(&a.list, "list", false, "Treat the value as a list and update it with set semantics")
	cmd.Flags().StringVar(&a.listSep, "list-sep", "", "Delimiter for --list. An empty value means any whitespace")
	cmd.Flags().StringVar(&a.output, "output", "", "Write the result to this file ('-' for stdout)")
	cmd.Flags().StringVar(&a.iniOptions, "ini-options", "", "Options for new entries (nospace)")
	cmd.Flags().BoolVar(&a.diff, "diff", false, "Print a unified diff instead of writing the file")
}

func newSetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set FILE SECTION [PARAM] [VALUE]",
		Short: "Set a parameter or create a section",
		Long: `The set command sets PARAM in SECTION to VALUE. Without PARAM only the
section is created. FILE is created if it does not exist, unless --existing
is given.

Example:
  iniedit set nova.conf DEFAULT debug true
  iniedit set --existing nova.conf database connection mysql://
  iniedit set --list nova.conf filters paths /usr/bin
  iniedit set nova.conf newsection`,
		Args: cobra.RangeArgs(2, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, section := args[0], args[1]
			var param, value string
			if len(args) > 2 {
				param = args[2]
			}
			if len(args) > 3 {
				value = args[3]
			}
			if err := checkEntry(section, param); err != nil {
				return err
			}

			return a.runMutation(cmd, "set", file, args[1:], func(doc *iniedit.Document, opts iniedit.Options) (bool, error) {
				return doc.Set(section, param, value, opts)
			})
		},
	}
	addMutationFlags(a, cmd)

	return cmd
}

func newDelCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "del FILE SECTION [PARAM] [LIST-VALUE]",
		Short: "Delete a parameter, a section or a list item",
		Long: `The del command removes PARAM from SECTION or, without PARAM, the whole
section. With --list only LIST-VALUE is removed from the list stored in
PARAM. Missing items are ignored unless --existing is given.

Example:
  iniedit del nova.conf DEFAULT debug
  iniedit del nova.conf database
  iniedit del --list nova.conf filters paths /usr/bin`,
		Args: cobra.RangeArgs(2, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, section := args[0], args[1]
			var param, value string
			if len(args) > 2 {
				param = args[2]
			}
			if len(args) > 3 {
				if !a.list {
					return fmt.Errorf("%w: a value can only be deleted with --list", errUsage)
				}
				value = args[3]
			}
			if err := checkNames(section, param); err != nil {
				return err
			}

			return a.runMutation(cmd, "del", file, args[1:], func(doc *iniedit.Document, opts iniedit.Options) (bool, error) {
				return doc.Delete(section, param, value, opts)
			})
		},
	}
	addMutationFlags(a, cmd)

	return cmd
}

func newMergeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge FILE [SECTION]",
		Short: "Merge ini content from stdin",
		Long: `The merge command reads ini content from stdin and sets every parameter
in FILE. If SECTION is given all parameters are merged into it, otherwise
they keep their sections. Keys are matched case-insensitively.

Example:
  iniedit merge nova.conf < overrides.ini
  iniedit merge nova.conf database < db.ini
  iniedit merge --existing nova.conf < overrides.ini`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := args[0]
			if file == "-" {
				return fmt.Errorf("%w: stdin is used for the merge input, FILE can not be '-'", errUsage)
			}

			mopts := iniedit.MergeOptions{}
			if len(args) > 1 {
				if err := checkNames(args[1], ""); err != nil {
					return err
				}
				mopts.Section = args[1]
				mopts.SectionSet = true
			}

			o, err := a.outputType()
			if err != nil {
				return err
			}
			if f := cmd.Flags().Lookup("format"); f.Changed && o == format.OutputSh {
				return fmt.Errorf("%w: format %s is not supported with merge", errUsage, o)
			}

			enc, err := textEncoding(a.encoding)
			if err != nil {
				return err
			}
			text, err := decodeReader(cmd.InOrStdin(), enc)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			src, err := iniedit.ParseString(text)
			if err != nil {
				return fmt.Errorf("error parsing stdin: %w", err)
			}

			return a.runMutation(cmd, "merge", file, args[1:], func(doc *iniedit.Document, opts iniedit.Options) (bool, error) {
				mopts.Options = opts

				return iniedit.Merge(doc, src, mopts)
			})
		},
	}
	addMutationFlags(a, cmd)
	cmd.Flags().StringVar(&a.format, "format", "", "Format of the input (ini, lines)")

	return cmd
}

// runMutation loads FILE, applies fn and stores the result. The file stays
// locked from reading until the result is written.
func (a *app) runMutation(cmd *cobra.Command, name, file string, args []string, fn mutation) error {
	opts, err := a.mutationOptions(cmd)
	if err != nil {
		return err
	}

	enc, err := textEncoding(a.encoding)
	if err != nil {
		return err
	}

	toStdout := a.output == "-" || (file == "-" && a.output == "")
	writeBack := !a.diff && !toStdout && (a.output == "" || a.output == file)

	lf, text, err := a.openInput(cmd, name, file, writeBack, opts, enc)
	if err != nil {
		return err
	}
	defer lf.Close() //nolint:errcheck

	doc, err := iniedit.ParseString(text)
	if err != nil {
		return fmt.Errorf("error parsing %s: %w", file, err)
	}

	before := doc.String()
	changed, err := fn(doc, opts)
	if err != nil {
		return err
	}
	after := doc.String()

	debug.V(1).Log("%s %s: changed %t", name, file, changed)

	switch {
	case a.diff:
		if err := printDiff(cmd, file, before, after); err != nil {
			return err
		}
	case toStdout:
		data, err := encode(after, enc)
		if err != nil {
			return err
		}
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return err
		}
	case !writeBack:
		if err := a.writeFile(a.output, after, enc); err != nil {
			return err
		}
	case changed && lf != nil:
		data, err := encode(after, enc)
		if err != nil {
			return err
		}
		debug.V(1).Log("writing %s", lf.Path())
		if err := lf.Write(data); err != nil {
			return err
		}
	}

	if a.verbose {
		a.report(cmd, changed, append([]string{name, file}, args...))
	}

	return nil
}

// openInput returns the locked file (nil when there is nothing to lock) and
// its decoded content. A missing file is empty input unless an existence
// constraint is set.
func (a *app) openInput(cmd *cobra.Command, name, file string, writeBack bool, opts iniedit.Options, enc encoding.Encoding) (*lockedfile.File, string, error) {
	if file == "-" {
		text, err := decodeReader(cmd.InOrStdin(), enc)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read stdin: %w", err)
		}

		return nil, text, nil
	}

	mode := lockedfile.Mode{
		Write:   writeBack,
		Create:  writeBack && opts.Existing == iniedit.ExistNone && name != "del",
		InPlace: a.inplace,
	}

	lf, err := lockedfile.Open(file, mode)
	if errors.Is(err, fs.ErrNotExist) {
		if opts.Existing != iniedit.ExistNone {
			return nil, "", fmt.Errorf("%w: %s", iniedit.ErrFileNotFound, file)
		}
		debug.V(1).Log("%s does not exist, using empty input", file)

		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}

	buf, err := lf.ReadAll()
	if err != nil {
		_ = lf.Close()

		return nil, "", err
	}

	text, err := decode(buf, enc)
	if err != nil {
		_ = lf.Close()

		return nil, "", err
	}

	return lf, text, nil
}

func (a *app) writeFile(path, content string, enc encoding.Encoding) error {
	data, err := encode(content, enc)
	if err != nil {
		return err
	}

	lf, err := lockedfile.Open(path, lockedfile.Mode{Write: true, Create: true, InPlace: a.inplace})
	if err != nil {
		return err
	}
	defer lf.Close() //nolint:errcheck

	return lf.Write(data)
}

func printDiff(cmd *cobra.Command, file, before, after string) error {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: file,
		ToFile:   file,
		Context:  3,
	})
	if err != nil {
		return fmt.Errorf("failed to compute diff: %w", err)
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), diff)

	return err
}

// report prints the verbose change summary.
func (a *app) report(cmd *cobra.Command, changed bool, args []string) {
	words := make([]string, 0, len(args))
	for _, w := range args {
		if w != "" {
			words = append(words, strings.ReplaceAll(w, "\n", `\n`))
		}
	}

	status := "unchanged"
	if changed {
		status = "changed"
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", status, shellquote.Join(words...))
}
