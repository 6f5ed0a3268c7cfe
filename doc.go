// Package iniedit reads and edits INI files while keeping their formatting.
//
// Files are parsed into a Document that remembers every physical line:
// comments, blank lines, indentation, separators, line terminators and a
// byte order mark. Only the lines of entries that are actually changed are
// rendered again, so editing a single value leaves the rest of the file
// untouched byte for byte.
//
// # Sections
//
// Entries before the first section header belong to the global section. It
// can be addressed as "" or as "DEFAULT" and shares its entries with an
// explicit [DEFAULT] section. Addressing it as "DEFAULT" in Set adds an
// explicit header if there is none yet. Section names are compared
// case-insensitively and sections that appear more than once are treated
// as one.
//
// # Usage
//
//	doc, err := iniedit.ParseString(content)
//	if err != nil {
//		// errors.Is(err, iniedit.ErrParse)
//	}
//	v, err := doc.Get("database", "connection")
//	changed, err := doc.Set("database", "pool", "5", iniedit.Options{})
//	changed, err = doc.Delete("database", "debug", "", iniedit.Options{})
//	os.WriteFile(path, doc.Bytes(), 0o644)
//
// Options.Existing turns the implicit creation of files, sections and
// parameters into errors (ErrFileNotFound, ErrSectionNotFound and
// ErrParamNotFound). Options.List treats values as lists and adds or
// removes single items.
//
// Merge applies the content of one document to another, matching keys
// case-insensitively.
//
// # Parse errors
//
// Lines that could not be written back safely are rejected with a
// *ParseError instead of being guessed at. This includes lines starting
// with '[' that are not a well-formed section header, e.g. "[[x]]" or
// "[a] junk".
//
// # Known limitations
//
//   - Inline comments are part of the value.
//   - Continuation lines must be indented deeper than their entry.
//   - Interpolation of values is not supported.
package iniedit
