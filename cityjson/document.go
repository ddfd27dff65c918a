// Package cityjson implements the Validator façade (spec §4.5): a parsed
// CityJSON document bound to a schema.Registry and an extension.Store,
// exposing both the full canonical check sequence and each individual
// check so a caller can run a subset.
package cityjson

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cityjson/cjval/internal/jsonio"
)

// ErrInvalidJSON wraps a parse failure at ingestion (spec §7 InvalidJson).
var ErrInvalidJSON = errors.New("invalid json")

// ErrMissingVersion is returned when a CityJSON document has no "version"
// field (spec §7 MissingVersion); CityJSONFeature lines carry no version
// of their own. This is a hard construction failure, unlike an
// unsupported version, which only fails schema loading.
var ErrMissingVersion = errors.New("missing version")

// ErrNotCityJSON is returned when a document's "type" is not "CityJSON"
// (or, for a feature line, not "CityJSONFeature").
var ErrNotCityJSON = errors.New("not a CityJSON document")

// document is the in-memory view of a parsed CityJSON object (spec §3),
// keeping the raw tree for schema evaluation while exposing the handful
// of fields the structural checks need.
type document struct {
	raw         map[string]any
	version     string
	cityObjects map[string]any
	vertices    []any
}

func newDocument(raw map[string]any, requireType string) (*document, error) {
	typ, _ := raw["type"].(string)
	if typ != requireType {
		return nil, fmt.Errorf("%w: type is %q, want %q", ErrNotCityJSON, typ, requireType)
	}

	version, _ := raw["version"].(string)
	if version == "" && requireType == "CityJSON" {
		return nil, fmt.Errorf("%w", ErrMissingVersion)
	}

	cityObjects, _ := raw["CityObjects"].(map[string]any)
	if cityObjects == nil {
		cityObjects = map[string]any{}
	}

	vertices, _ := raw["vertices"].([]any)

	return &document{
		raw:         raw,
		version:     version,
		cityObjects: cityObjects,
		vertices:    vertices,
	}, nil
}

func decodeDocument(data []byte, requireType string) (*document, error) {
	obj, err := jsonio.DecodeObject(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	return newDocument(obj, requireType)
}

func (d *document) templates() []any {
	gt, _ := d.raw["geometry-templates"].(map[string]any)
	if gt == nil {
		return nil
	}

	templates, _ := gt["templates"].([]any)

	return templates
}

func (d *document) templateVertices() []any {
	gt, _ := d.raw["geometry-templates"].(map[string]any)
	if gt == nil {
		return nil
	}

	vertices, _ := gt["vertices-templates"].([]any)

	return vertices
}

func (d *document) appearance() map[string]any {
	app, _ := d.raw["appearance"].(map[string]any)

	return app
}

func (d *document) extensions() map[string]any {
	ext, _ := d.raw["extensions"].(map[string]any)

	return ext
}

// geomRef pairs a Geometry object with the id of the City Object it
// belongs to, for error-message prefixing.
type geomRef struct {
	cityObjectID string
	geomIndex    int
	geom         map[string]any
}

// geometries flattens every Geometry across every City Object, in sorted
// City-Object-id order then declaration order, for deterministic checks.
func (d *document) geometries() []geomRef {
	ids := sortedKeys(d.cityObjects)

	var refs []geomRef

	for _, id := range ids {
		co, ok := d.cityObjects[id].(map[string]any)
		if !ok {
			continue
		}

		geoms, _ := co["geometry"].([]any)

		for i, g := range geoms {
			geom, ok := g.(map[string]any)
			if !ok {
				continue
			}

			refs = append(refs, geomRef{cityObjectID: id, geomIndex: i, geom: geom})
		}
	}

	return refs
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
