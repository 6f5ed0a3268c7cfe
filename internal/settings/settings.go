// Package settings loads the defaults of the iniedit command.
//
// Settings are layered, later scopes take precedence:
//
//   - preset - built-in defaults
//   - user - the [defaults] section of $XDG_CONFIG_HOME/iniedit/config
//   - env - INIEDIT_* environment variables
//
// Command line flags are applied on top by the caller. Setting
// INIEDIT_NOCONFIG skips the user file.
//
// Example user file:
//
//	[defaults]
//	format = lines
//	ini-options = nospace
//	list-sep = :
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gopasspw/gopass/pkg/appdir"
	"github.com/gopasspw/gopass/pkg/debug"
	"github.com/gopasspw/gopass/pkg/set"
	"github.com/gopasspw/iniedit"
)

const (
	name      = "iniedit"
	envPrefix = "INIEDIT"
	section   = "defaults"
)

// ErrUnknownKey indicates a settings key that is not recognized.
var ErrUnknownKey = errors.New("unknown setting")

// Settings are the defaults for command line options.
type Settings struct {
	Format     string
	InPlace    bool
	NoSpace    bool
	ListSep    string
	ListSepSet bool
	Encoding   string

	// Source records which scope set each key, for debugging.
	Source map[string]string
}

type applyFunc func(*Settings, string) error

var keys = map[string]applyFunc{
	"format": func(s *Settings, v string) error {
		s.Format = v

		return nil
	},
	"inplace": func(s *Settings, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		s.InPlace = b

		return nil
	},
	"ini-options": func(s *Settings, v string) error {
		nospace, err := ParseINIOptions(v)
		if err != nil {
			return err
		}
		s.NoSpace = nospace

		return nil
	},
	"list-sep": func(s *Settings, v string) error {
		s.ListSep = v
		s.ListSepSet = true

		return nil
	},
	"encoding": func(s *Settings, v string) error {
		s.Encoding = v

		return nil
	},
}

// Preset returns the built-in defaults.
func Preset() Settings {
	return Settings{
		Encoding: "utf-8",
		Source:   map[string]string{},
	}
}

// ConfigFile returns the location of the per-user settings file.
func ConfigFile() string {
	return filepath.Join(appdir.New(name).UserConfig(), "config")
}

// Load loads the settings from all scopes.
func Load() (Settings, error) {
	return LoadFrom(ConfigFile(), os.LookupEnv)
}

// LoadFrom loads the settings from the given file and environment lookup
// function. A missing file is not an error.
func LoadFrom(path string, lookupEnv func(string) (string, bool)) (Settings, error) {
	s := Preset()

	if _, skip := lookupEnv(envPrefix + "_NOCONFIG"); !skip && path != "" {
		if err := s.loadFile(path); err != nil {
			return s, err
		}
	}

	for _, k := range set.SortedKeys(keys) {
		v, found := lookupEnv(EnvName(k))
		if !found {
			continue
		}
		if err := s.apply(k, v, "env"); err != nil {
			return s, fmt.Errorf("invalid value for %s: %w", EnvName(k), err)
		}
	}

	return s, nil
}

// EnvName returns the environment variable overriding key.
func EnvName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

func (s *Settings) loadFile(path string) error {
	buf, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		debug.V(2).Log("no settings file at %s", path)

		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read settings from %s: %w", path, err)
	}

	doc, err := iniedit.ParseString(string(buf))
	if err != nil {
		return fmt.Errorf("failed to parse settings in %s: %w", path, err)
	}

	items, err := doc.Items(section)
	if errors.Is(err, iniedit.ErrSectionNotFound) {
		debug.V(2).Log("no [%s] section in %s", section, path)

		return nil
	}
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := s.apply(strings.ToLower(item.Key), item.Value, path); err != nil {
			return fmt.Errorf("invalid setting %s in %s: %w", item.Key, path, err)
		}
	}

	debug.V(1).Log("loaded settings from %s", path)

	return nil
}

func (s *Settings) apply(key, value, source string) error {
	fn, found := keys[key]
	if !found {
		return fmt.Errorf("%w %q (valid: %s)", ErrUnknownKey, key, strings.Join(set.SortedKeys(keys), ", "))
	}
	if err := fn(s, value); err != nil {
		return err
	}
	s.Source[key] = source

	debug.V(3).Log("setting %s = %q from %s", key, value, source)

	return nil
}

var iniOptions = map[string]bool{
	"nospace": true,
}

// ParseINIOptions parses a comma separated list of output style options.
// It returns true if "nospace" is among them.
func ParseINIOptions(v string) (bool, error) {
	var nospace bool
	for _, opt := range strings.Split(v, ",") {
		opt = strings.ToLower(strings.TrimSpace(opt))
		if opt == "" {
			continue
		}
		if !iniOptions[opt] {
			return false, fmt.Errorf("ini-options not recognized: %q (valid: %s)", opt, strings.Join(set.SortedKeys(iniOptions), ", "))
		}
		nospace = nospace || opt == "nospace"
	}

	return nospace, nil
}
