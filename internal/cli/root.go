// Package cli implements the iniedit command line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gopasspw/gopass/pkg/debug"
	"github.com/gopasspw/iniedit"
	"github.com/gopasspw/iniedit/internal/format"
	"github.com/gopasspw/iniedit/internal/settings"
	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Exit codes.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitNotFound = 2
	ExitParse    = 3
)

// errUsage marks invalid invocations.
var errUsage = errors.New("usage error")

// app holds the options of one invocation.
type app struct {
	load     func() (settings.Settings, error)
	settings settings.Settings

	existing   string
	format     string
	encoding   string
	output     string
	listSep    string
	iniOptions string
	inplace    bool
	list       bool
	verbose    bool
	diff       bool
	glob       bool
}

// NewRootCmd creates the root command. Settings are loaded when a
// subcommand runs, so flags always take precedence.
func NewRootCmd() *cobra.Command {
	return newRootCmd(settings.Load)
}

func newRootCmd(load func() (settings.Settings, error)) *cobra.Command {
	a := &app{load: load}

	rootCmd := &cobra.Command{
		Use:   "iniedit",
		Short: "Read and edit ini files",
		Long: `iniedit reads and edits ini files while preserving their formatting.

SECTION can be empty ('') or 'DEFAULT' in which case parameters not in a
section, i.e. global parameters, are operated on. If 'DEFAULT' is used with
set or merge, an explicit [DEFAULT] header is added.

Defaults for --format, --inplace, --ini-options, --list-sep and --encoding
are read from the [defaults] section of ` + settings.ConfigFile() + `
and from INIEDIT_* environment variables.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadSettings(cmd)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Indicate on stderr if changes were made")
	rootCmd.PersistentFlags().StringVar(&a.encoding, "encoding", "", "Character encoding of the files (utf-8, latin1, windows-1252)")

	rootCmd.AddCommand(
		newGetCmd(a),
		newSetCmd(a),
		newDelCmd(a),
		newMergeCmd(a),
	)

	return rootCmd
}

// loadSettings fills in options not given on the command line.
func (a *app) loadSettings(cmd *cobra.Command) error {
	s, err := a.load()
	if err != nil {
		return err
	}
	a.settings = s

	flags := cmd.Flags()
	if f := flags.Lookup("format"); f != nil && !f.Changed {
		a.format = s.Format
	}
	if f := flags.Lookup("inplace"); f != nil && !f.Changed {
		a.inplace = s.InPlace
	}
	if f := flags.Lookup("encoding"); f != nil && !f.Changed {
		a.encoding = s.Encoding
	}
	if f := flags.Lookup("list-sep"); f != nil && !f.Changed && s.ListSepSet {
		a.listSep = s.ListSep
	}
	if f := flags.Lookup("ini-options"); f != nil && !f.Changed && s.NoSpace {
		a.iniOptions = "nospace"
	}

	debug.V(2).Log("settings: %+v", s)

	return nil
}

// mutationOptions builds the document options from the flags.
func (a *app) mutationOptions(cmd *cobra.Command) (iniedit.Options, error) {
	opts := iniedit.Options{
		List:    a.list,
		ListSep: a.listSep,
	}

	if f := cmd.Flags().Lookup("existing"); f != nil && f.Changed {
		e, err := iniedit.ParseExistence(a.existing)
		if err != nil {
			return opts, fmt.Errorf("%w: %w", errUsage, err)
		}
		opts.Existing = e
	}

	if f := cmd.Flags().Lookup("list-sep"); (f != nil && f.Changed) || a.settings.ListSepSet {
		opts.ListSepSet = true
	}

	nospace, err := settings.ParseINIOptions(a.iniOptions)
	if err != nil {
		return opts, fmt.Errorf("%w: %w", errUsage, err)
	}
	opts.NoSpace = nospace

	return opts, nil
}

func (a *app) outputType() (format.OutputType, error) {
	o, err := format.ParseOutputType(a.format)
	if err != nil {
		return o, fmt.Errorf("%w: %w", errUsage, err)
	}

	return o, nil
}

// checkNames rejects names that would produce an unparseable file.
func checkNames(section, param string) error {
	if strings.ContainsAny(section, "[]") {
		return fmt.Errorf("%w: section names should not contain '[' or ']': %s", errUsage, section)
	}
	if strings.HasPrefix(param, "[") {
		return fmt.Errorf("%w: param names should not start with '[': %s", errUsage, param)
	}

	return nil
}

// checkEntry validates the names of an entry to be written, so an invalid
// set fails before FILE is created.
func checkEntry(section, param string) error {
	if err := checkNames(section, param); err != nil {
		return err
	}
	if err := iniedit.CheckSection(section); err != nil {
		return fmt.Errorf("%w: %w: %q", errUsage, err, section)
	}
	if param == "" {
		return nil
	}
	if err := iniedit.CheckKey(param); err != nil {
		return fmt.Errorf("%w: %w: %q", errUsage, err, param)
	}

	return nil
}

// ExitCode maps an error returned by the root command to an exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, iniedit.ErrParse):
		return ExitParse
	case errors.Is(err, iniedit.ErrSectionNotFound),
		errors.Is(err, iniedit.ErrParamNotFound),
		errors.Is(err, iniedit.ErrFileNotFound):
		return ExitNotFound
	default:
		return ExitFailure
	}
}

// Execute runs the command line and returns the exit code.
func Execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return run(NewRootCmd(), args, stdin, stdout, stderr)
}

func run(cmd *cobra.Command, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err != nil {
		fmt.Fprintf(stderr, "%s: %s\n", cmd.Name(), err)
	}

	return ExitCode(err)
}

// Main runs iniedit with the process arguments and standard streams.
func Main() int {
	return Execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}
