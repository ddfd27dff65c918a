// Package extension models CityJSON Extension documents and the derived
// lookup tables the validator needs from them (spec §3 ExtensionDoc, §4.2
// ExtensionStore).
package extension

import (
	"fmt"
	"strings"

	"github.com/cityjson/cjval/internal/jsonio"
)

// Doc is a parsed CityJSONExtension document.
type Doc struct {
	Name            string
	URL             string
	Version         string
	VersionCityJSON string
	Definitions     map[string]any
	ExtraCityObjects map[string]any // type name -> JSON-Schema fragment
	ExtraRootProperties map[string]any // property name -> schema
	ExtraAttributes map[string]map[string]any // City-Object type -> property -> schema
}

// ErrInvalidExtension is returned when an Extension document does not have
// the minimal shape this package requires (spec §7 InvalidExtension).
var ErrInvalidExtension = fmt.Errorf("invalid extension document")

// Parse decodes raw Extension JSON bytes into a [Doc].
func Parse(data []byte) (*Doc, error) {
	obj, err := jsonio.DecodeObject(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExtension, err)
	}

	return FromValue(obj)
}

// FromValue builds a [Doc] from an already-decoded Extension object. The
// object is first checked against the Extension meta-schema (a minimal
// shape built from a typed [jsonschema.Schema]); schema violations are
// reported before the more detailed field-by-field checks below run.
func FromValue(obj map[string]any) (*Doc, error) {
	if err := validateAgainstMetaSchema(obj); err != nil {
		return nil, err
	}

	typ, _ := obj["type"].(string)
	if typ != "CityJSONExtension" {
		return nil, fmt.Errorf("%w: type is %q, want CityJSONExtension", ErrInvalidExtension, typ)
	}

	name, _ := obj["name"].(string)
	if name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidExtension)
	}

	d := &Doc{
		Name:                name,
		URL:                 stringField(obj, "url"),
		Version:             stringField(obj, "version"),
		VersionCityJSON:     stringField(obj, "versionCityJSON"),
		Definitions:         objectField(obj, "definitions"),
		ExtraCityObjects:    objectField(obj, "extraCityObjects"),
		ExtraRootProperties: objectField(obj, "extraRootProperties"),
		ExtraAttributes:     map[string]map[string]any{},
	}

	if d.VersionCityJSON == "" {
		return nil, fmt.Errorf("%w: missing versionCityJSON", ErrInvalidExtension)
	}

	rawAttrs := objectField(obj, "extraAttributes")
	for cotype, v := range rawAttrs {
		props, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: extraAttributes.%s is not an object", ErrInvalidExtension, cotype)
		}

		d.ExtraAttributes[cotype] = props
	}

	return d, nil
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

func objectField(obj map[string]any, key string) map[string]any {
	m, _ := obj[key].(map[string]any)
	return m
}

// CompatibleWith reports whether the Extension's declared versionCityJSON
// is prefix-compatible with the document's version, per spec §4.1: either
// version must be a prefix of (or equal to) the other, e.g. an extension
// declaring "1.1" is compatible with a document declaring "1.1" or
// "1.1.3" but not "1.0" or "2.0".
func (d *Doc) CompatibleWith(docVersion string) bool {
	return strings.HasPrefix(docVersion, d.VersionCityJSON) || strings.HasPrefix(d.VersionCityJSON, docVersion)
}
