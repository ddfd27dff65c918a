package cityjson

import (
	"fmt"

	"github.com/cityjson/cjval/report"
	"github.com/cityjson/cjval/schema"
	"github.com/cityjson/cjval/structural"
)

// ValidateSchema runs spec §4.3 validate_schema and returns the outcome
// for the "schema" check, including the UnsupportedVersion case recorded
// at construction (spec §4.5).
func (v *Validator) ValidateSchema() []string {
	if v.registryErr != nil {
		return []string{fmt.Sprintf("/version: %s", v.registryErr)}
	}

	if v.isFeature {
		return schema.ValidateFeatureSchema(v.registry, v.doc.raw)
	}

	return schema.ValidateSchema(v.registry, v.doc.raw)
}

func (v *Validator) validateSchemaOutcome() report.Outcome {
	return errsToOutcome(v.ValidateSchema())
}

// ValidateExtensions runs spec §4.3 validate_extensions.
func (v *Validator) ValidateExtensions() []string {
	if v.registry == nil {
		return nil
	}

	return schema.ValidateExtensions(v.registry, v.extensions, v.doc.raw)
}

func (v *Validator) validateExtensionsOutcome() report.Outcome {
	return errsToOutcome(v.ValidateExtensions())
}

// ParentsChildrenConsistency runs spec §4.4 item 4.
func (v *Validator) ParentsChildrenConsistency() []string {
	return structural.ParentsChildrenConsistency(v.doc.cityObjects)
}

// wrongVertexIndex runs spec §4.4 item 5 across every Geometry (against
// the document's main vertex pool, tracking usage in used) and across
// every geometry-templates.templates entry (against the separate
// vertices-templates pool, per the historical-bug regression target).
func (v *Validator) wrongVertexIndex(used map[int]bool) []string {
	var errs []string

	numVertices := len(v.combinedVertices())

	for _, ref := range v.doc.geometries() {
		errs = append(errs, v.checkGeometryVertexIndex(ref, numVertices, used)...)
	}

	templateVertexCount := len(v.doc.templateVertices())

	for i, t := range v.doc.templates() {
		tmpl, ok := t.(map[string]any)
		if !ok {
			continue
		}

		typ, _ := tmpl["type"].(string)
		boundaries := tmpl["boundaries"]

		for _, msg := range structural.WrongVertexIndex(typ, boundaries, templateVertexCount, nil) {
			errs = append(errs, fmt.Sprintf("/geometry-templates/templates/%d%s", i, msg))
		}
	}

	return errs
}

// WrongVertexIndex is the public entry point used when running this check
// in isolation (not as part of the full canonical sequence, so vertex
// usage isn't needed by a caller).
func (v *Validator) WrongVertexIndex() []string {
	return v.wrongVertexIndex(map[int]bool{})
}

func (v *Validator) checkGeometryVertexIndex(ref geomRef, numVertices int, used map[int]bool) []string {
	typ, _ := ref.geom["type"].(string)

	var errs []string

	if typ == "GeometryInstance" {
		if tmpl, present := ref.geom["template"]; present {
			for _, msg := range structural.GeometryInstanceIndices(tmpl, len(v.doc.templates())) {
				errs = append(errs, fmt.Sprintf("/CityObjects/%s/geometry/%d%s", ref.cityObjectID, ref.geomIndex, msg))
			}
		}
	}

	for _, msg := range structural.WrongVertexIndex(typ, ref.geom["boundaries"], numVertices, used) {
		errs = append(errs, fmt.Sprintf("/CityObjects/%s/geometry/%d%s", ref.cityObjectID, ref.geomIndex, msg))
	}

	return errs
}

// SemanticsArray runs spec §4.4 item 6 across every Geometry that carries
// a "semantics" object.
func (v *Validator) SemanticsArray() []string {
	var errs []string

	for _, ref := range v.doc.geometries() {
		sem, ok := ref.geom["semantics"].(map[string]any)
		if !ok {
			continue
		}

		typ, _ := ref.geom["type"].(string)
		surfaces, _ := sem["surfaces"].([]any)

		for _, msg := range structural.SemanticsArray(typ, ref.geom["boundaries"], sem["values"], len(surfaces)) {
			errs = append(errs, fmt.Sprintf("/CityObjects/%s/geometry/%d%s", ref.cityObjectID, ref.geomIndex, msg))
		}
	}

	return errs
}

// Textures runs spec §4.4 item 7 across every theme of every Geometry's
// "texture" map.
func (v *Validator) Textures() []string {
	numTextures := len(arrayField(v.doc.appearance(), "textures"))
	numVerticesTexture := len(arrayField(v.doc.appearance(), "vertices-texture"))

	var errs []string

	for _, ref := range v.doc.geometries() {
		textures, ok := ref.geom["texture"].(map[string]any)
		if !ok {
			continue
		}

		typ, _ := ref.geom["type"].(string)

		themes := sortedKeys(textures)
		for _, theme := range themes {
			themeObj, _ := textures[theme].(map[string]any)

			for _, msg := range structural.Textures(typ, ref.geom["boundaries"], themeObj["values"], numTextures, numVerticesTexture) {
				errs = append(errs, fmt.Sprintf("/CityObjects/%s/geometry/%d/texture/%s%s", ref.cityObjectID, ref.geomIndex, theme, msg))
			}
		}
	}

	return errs
}

// Materials runs spec §4.4 item 8 across every theme of every Geometry's
// "material" map.
func (v *Validator) Materials() []string {
	numMaterials := len(arrayField(v.doc.appearance(), "materials"))

	var errs []string

	for _, ref := range v.doc.geometries() {
		materials, ok := ref.geom["material"].(map[string]any)
		if !ok {
			continue
		}

		typ, _ := ref.geom["type"].(string)

		themes := sortedKeys(materials)
		for _, theme := range themes {
			themeObj, _ := materials[theme].(map[string]any)

			for _, msg := range structural.Materials(typ, ref.geom["boundaries"], themeObj["values"], numMaterials) {
				errs = append(errs, fmt.Sprintf("/CityObjects/%s/geometry/%d/material/%s%s", ref.cityObjectID, ref.geomIndex, theme, msg))
			}
		}
	}

	return errs
}

// ExtraRootProperties runs spec §4.4 item 9.
func (v *Validator) ExtraRootProperties() []string {
	return structural.ExtraRootProperties(v.doc.raw, v.extensions)
}

func arrayField(m map[string]any, key string) []any {
	if m == nil {
		return nil
	}

	arr, _ := m[key].([]any)

	return arr
}
