package structural

import (
	"fmt"
	"sort"

	"github.com/cityjson/cjval/extension"
)

// standardRootKeys are the root properties every CityJSON document may
// carry without any Extension declaring them (spec §4.4 item 9).
var standardRootKeys = map[string]bool{
	"type":               true,
	"version":            true,
	"CityObjects":        true,
	"vertices":           true,
	"transform":          true,
	"appearance":         true,
	"geometry-templates": true,
	"extensions":         true,
	"metadata":           true,
}

// ExtraRootProperties warns about root properties outside the standard
// set that no registered Extension declares (spec §4.4 item 9: an
// undeclared extra property does not fail the document, but is worth
// flagging since it usually means either a typo or a missing -e flag).
func ExtraRootProperties(doc map[string]any, store *extension.Store) []string {
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	var warnings []string

	for _, k := range keys {
		if standardRootKeys[k] {
			continue
		}

		if _, _, ok := store.SchemaForRootProperty(k); !ok {
			warnings = append(warnings, fmt.Sprintf("/%s: no registered Extension declares this property", k))
		}
	}

	return warnings
}
