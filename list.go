package iniedit

import (
	"slices"
	"strings"
)

// SplitList splits a list value into its items and returns the delimiter
// to use when joining them again.
//
// Without an explicit separator (sepSet false) items are separated by
// commas and surrounding whitespace is dropped. They are joined with ", "
// if the value contained a space or no comma at all, otherwise with ",".
// Whitespace is not a default delimiter so that items containing spaces,
// such as "a b, c", stay intact in comma separated lists.
// An explicit empty separator splits on any whitespace and joins with a
// single space. Any other separator is used verbatim.
func SplitList(value, sep string, sepSet bool) ([]string, string) {
	switch {
	case !sepSet:
		joiner := ", "
		if value == "" {
			return nil, joiner
		}
		if !strings.Contains(value, " ") && strings.Contains(value, ",") {
			joiner = ","
		}
		items := strings.Split(value, ",")
		for i, item := range items {
			items[i] = strings.TrimSpace(item)
		}

		return items, joiner
	case sep == "":
		return strings.Fields(value), " "
	default:
		if value == "" {
			return nil, sep
		}

		return strings.Split(value, sep), sep
	}
}

// UpdateList adds item to (or removes it from) the list stored in value.
// Adding an item that is already present and removing one that is absent
// return the value unchanged.
func UpdateList(value, item string, add bool, sep string, sepSet bool) string {
	items, joiner := SplitList(value, sep, sepSet)

	if add {
		if slices.Contains(items, item) {
			return value
		}
		items = append(items, item)
	} else {
		i := slices.Index(items, item)
		if i < 0 {
			return value
		}
		items = slices.Delete(items, i, i+1)
	}

	return strings.Join(items, joiner)
}
