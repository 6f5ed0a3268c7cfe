package iniedit

import (
	"github.com/gopasspw/gopass/pkg/debug"
)

// MergeOptions select the destination of a merge.
type MergeOptions struct {
	Options
	// Section, if SectionSet is true, receives all merged entries
	// regardless of the section they come from. An empty Section means
	// the global section.
	Section    string
	SectionSet bool
}

// Merge applies every entry of src to dst as if set individually. Keys are
// matched case-insensitively against dst; updated entries keep their case
// and separator while new entries keep the case from src.
//
// Global entries of src are merged into the global section of dst. If src
// has an explicit [DEFAULT] header with entries, dst gets one as well
// (unless Existing requires the sections to exist). Empty named sections of
// src are created in dst, an empty DEFAULT contributes nothing.
//
// With Existing set to ExistParam, keys missing from dst are skipped
// rather than treated as errors. Missing sections still fail.
func Merge(dst, src *Document, opts MergeOptions) (bool, error) {
	before := dst.String()

	for _, g := range src.groups() {
		target := g.name
		def := isDefault(g.name)
		if def && (!g.explicit || opts.needSection()) {
			target = ""
		}
		if opts.SectionSet {
			target = opts.Section
		}

		if len(g.entries) == 0 {
			if def || opts.SectionSet {
				continue
			}
			if err := dst.set(target, "", "", opts.Options, true); err != nil {
				return false, err
			}

			continue
		}

		debug.V(2).Log("merging %d entries from %q into %q", len(g.entries), g.name, target)

		for _, e := range g.entries {
			if err := dst.set(target, e.key, e.value, opts.Options, true); err != nil {
				return false, err
			}
		}
	}

	return dst.String() != before, nil
}
