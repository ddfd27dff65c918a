package cityjson

import (
	"errors"
	"fmt"

	"github.com/cityjson/cjval/extension"
	"github.com/cityjson/cjval/report"
	"github.com/cityjson/cjval/schema"
	"github.com/cityjson/cjval/structural"
)

// Validator binds one parsed CityJSON document to a schema.Registry and an
// extension.Store for its whole lifetime (spec §4.5, §5: "a Validator
// binds to one Document for its lifetime; Documents are immutable during
// validation").
type Validator struct {
	doc         *document
	registry    *schema.Registry
	registryErr error
	extensions  *extension.Store

	isFeature      bool
	headerVertices []any
}

// FromBytes parses raw JSON bytes as a CityJSON document and constructs a
// Validator (spec §4.5 from_str). An unsupported version is not a
// construction failure: it is recorded and surfaces as an Errors outcome
// on the schema check, per the gating rules in §4.4.
func FromBytes(data []byte) (*Validator, error) {
	doc, err := decodeDocument(data, "CityJSON")
	if err != nil {
		return nil, err
	}

	return fromDocument(doc)
}

// FromValue constructs a Validator from an already-decoded CityJSON
// object (spec §4.5 from_value).
func FromValue(obj map[string]any) (*Validator, error) {
	doc, err := newDocument(obj, "CityJSON")
	if err != nil {
		return nil, err
	}

	return fromDocument(doc)
}

func fromDocument(doc *document) (*Validator, error) {
	v := &Validator{
		doc:        doc,
		extensions: extension.NewStore(),
	}

	reg, err := schema.Load(doc.version)
	if err != nil {
		v.registryErr = err
	} else {
		v.registry = reg
	}

	return v, nil
}

// NewFeatureValidator parses a CityJSONFeature line and builds a Validator
// that borrows header's SchemaRegistry and ExtensionStore (spec §4.6
// Streaming: "header vertices and Extensions are shared"). The feature's
// own vertices are treated as logically appended after the header's
// vertex table for wrong_vertex_index, duplicate_vertices, and
// unused_vertices, per spec §4.6.
func NewFeatureValidator(header *Validator, data []byte) (*Validator, error) {
	doc, err := decodeDocument(data, "CityJSONFeature")
	if err != nil {
		return nil, err
	}

	return &Validator{
		doc:            doc,
		registry:       header.registry,
		registryErr:    header.registryErr,
		extensions:     header.extensions,
		isFeature:      true,
		headerVertices: header.doc.vertices,
	}, nil
}

// AddExtensionFromBytes parses and registers an Extension document (spec
// §4.5 add_one_extension_from_str). An Extension whose versionCityJSON is
// incompatible with the document is still added to the store but its
// schema is not registered, and it surfaces on the extensions check
// (has_extensions/get_extensions_urls read only the document's own
// "extensions" map, not the store); only a malformed
// Extension document itself fails this call.
func (v *Validator) AddExtensionFromBytes(data []byte) error {
	doc, err := extension.Parse(data)
	if err != nil {
		return err
	}

	return v.addExtension(doc)
}

func (v *Validator) addExtension(doc *extension.Doc) error {
	v.extensions.Add(doc)

	if v.registry == nil {
		return nil
	}

	err := v.registry.RegisterExtension(doc, v.doc.version)
	if err == nil {
		return nil
	}

	if errors.Is(err, schema.ErrIncompatibleExtensionVersion) {
		return nil
	}

	return fmt.Errorf("registering extension %q: %w", doc.Name, err)
}

// HasExtensions reports whether any Extension has been declared in the
// document's "extensions" map (spec §4.5 has_extensions).
func (v *Validator) HasExtensions() bool {
	return len(v.doc.extensions()) > 0
}

// ExtensionsURLs returns the document-declared Extension name -> url map
// (spec §4.5 get_extensions_urls), for an external Fetcher to resolve.
func (v *Validator) ExtensionsURLs() map[string]string {
	urls := map[string]string{}

	for name, raw := range v.doc.extensions() {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		if url, ok := entry["url"].(string); ok {
			urls[name] = url
		}
	}

	return urls
}

// Validate runs the canonical check sequence (spec §4.4) and returns a
// fresh Report every time it is called, so repeated calls on the same
// Validator are idempotent (spec §8 "Idempotence of validate()").
func (v *Validator) Validate() *report.Report {
	rpt := report.New()

	rpt.Set(report.CheckJSONSyntax, report.Ok())

	schemaOutcome := v.validateSchemaOutcome()
	rpt.Set(report.CheckSchema, schemaOutcome)

	rpt.Set(report.CheckExtensions, v.validateExtensionsOutcome())

	if schemaOutcome.Kind != report.KindOk {
		const reason = "schema check did not pass"

		rpt.Set(report.CheckParentsChildrenConsistency, report.NotRun(reason))
		rpt.Set(report.CheckWrongVertexIndex, report.NotRun(reason))
		rpt.Set(report.CheckSemanticsArray, report.NotRun(reason))
		rpt.Set(report.CheckTextures, report.NotRun(reason))
		rpt.Set(report.CheckMaterials, report.NotRun(reason))
		rpt.Set(report.CheckExtraRootProperties, report.NotRun(reason))
		rpt.Set(report.CheckDuplicateVertices, report.NotRun(reason))
		rpt.Set(report.CheckUnusedVertices, report.NotRun(reason))

		return rpt
	}

	used := map[int]bool{}

	rpt.Set(report.CheckParentsChildrenConsistency, errsToOutcome(v.ParentsChildrenConsistency()))
	rpt.Set(report.CheckWrongVertexIndex, errsToOutcome(v.wrongVertexIndex(used)))
	rpt.Set(report.CheckSemanticsArray, errsToOutcome(v.SemanticsArray()))
	rpt.Set(report.CheckTextures, errsToOutcome(v.Textures()))
	rpt.Set(report.CheckMaterials, errsToOutcome(v.Materials()))
	rpt.Set(report.CheckExtraRootProperties, warningsToOutcome(v.ExtraRootProperties()))

	combined := v.combinedVertices()
	rpt.Set(report.CheckDuplicateVertices, warningsToOutcome(structural.DuplicateVertices(combined)))
	rpt.Set(report.CheckUnusedVertices, warningsToOutcome(structural.UnusedVertices(len(combined), used)))

	return rpt
}

// combinedVertices returns the vertex pool wrong_vertex_index,
// duplicate_vertices, and unused_vertices check against: the document's
// own vertices for a standalone Validator, or the header's vertices
// followed by the feature's own for a feature Validator (spec §4.6).
func (v *Validator) combinedVertices() []any {
	if !v.isFeature {
		return v.doc.vertices
	}

	out := make([]any, 0, len(v.headerVertices)+len(v.doc.vertices))
	out = append(out, v.headerVertices...)
	out = append(out, v.doc.vertices...)

	return out
}

func errsToOutcome(errs []string) report.Outcome {
	if len(errs) == 0 {
		return report.Ok()
	}

	return report.Errors(errs...)
}

func warningsToOutcome(warnings []string) report.Outcome {
	if len(warnings) == 0 {
		return report.Ok()
	}

	return report.Warnings(warnings...)
}
