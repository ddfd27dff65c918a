// Package schema owns the version-dependent base schemas (spec §4.1
// SchemaRegistry) and the JSON-Schema evaluation checks built on top of
// them (spec §4.3 SchemaValidator). The JSON-Schema evaluator itself is an
// external collaborator, github.com/kaptinlin/jsonschema, consumed only
// through Compile/Validate.
package schema

import (
	"fmt"
	"sync"

	jsonschema "github.com/kaptinlin/jsonschema"

	"github.com/cityjson/cjval/extension"
	"github.com/cityjson/cjval/internal/jsonio"
	"github.com/cityjson/cjval/schemabundle"
)

// ErrUnsupportedVersion is returned by [Load] for any version outside the
// three supported minors.
var ErrUnsupportedVersion = schemabundle.ErrUnsupportedVersion

// ErrIncompatibleExtensionVersion is recorded on the extensions check when
// an Extension's declared versionCityJSON does not match the document.
var ErrIncompatibleExtensionVersion = fmt.Errorf("incompatible extension version")

// ErrInvalidExtensionSchema is returned when an Extension's schema
// fragments do not themselves compile as JSON Schema.
var ErrInvalidExtensionSchema = fmt.Errorf("invalid extension schema")

// Registry owns one version's compiled base schema set, plus whatever
// Extension schemas have since been registered into it (spec §4.1).
type Registry struct {
	version schemabundle.Version

	compiler *jsonschema.Compiler
	main     *jsonschema.Schema
	feature  *jsonschema.Schema // nil for 1.0, which predates CityJSONSeq

	mu               sync.Mutex
	extraCityObjects map[string]*jsonschema.Schema            // type -> compiled fragment
	extraRootProps   map[string]*jsonschema.Schema            // property name -> compiled fragment
	extraAttributes  map[string]map[string]*jsonschema.Schema // cotype -> attr -> compiled fragment
	extHistory       []extHistoryEntry
}

type extHistoryEntry struct {
	name         string
	incompatible bool
}

// Load selects and compiles the built-in schema bundle for version (a
// two-segment "M.m" string).
//
// The bundle's sibling schemas declare relative $ids (e.g.
// "cityobjects.schema.json") and cross-reference each other the same way
// ("$ref": "cityobjects.schema.json"). kaptinlin's Compiler only registers
// a compiled schema in its lookup table under a URI that passes
// url.ParseRequestURI, which a bare relative filename never does — so
// compiling each file in isolation would leave every cross-file $ref
// unresolved and silently skipped at validation time. [jsonschema.Compiler.SetSchema]
// bypasses that URI check, so every sibling is registered under its
// filename immediately after compiling it, before anything that
// references it compiles.
func Load(version string) (*Registry, error) {
	v := schemabundle.Version(version)

	files, err := schemabundle.Files(v)
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()

	// Dependency-leaning schemas must compile and register before their
	// dependents: geomprimitives before cityobjects/geomtemplates, and
	// cityobjects/geomtemplates/appearance before the main and feature
	// schemas that reference them.
	compileOrder := []string{
		schemabundle.GeomPrimitives,
		schemabundle.CityObjectsSchema,
		schemabundle.GeomTemplates,
		schemabundle.AppearanceSchema,
		schemabundle.MinSchema,
	}

	for _, name := range compileOrder {
		data, ok := files[name]
		if !ok {
			continue
		}

		compiled, err := compiler.Compile(data)
		if err != nil {
			return nil, fmt.Errorf("schema: compiling %s: %w", name, err)
		}

		compiler.SetSchema(name, compiled)
	}

	main, err := compiler.Compile(files[schemabundle.MainSchema])
	if err != nil {
		return nil, fmt.Errorf("schema: compiling %s: %w", schemabundle.MainSchema, err)
	}

	compiler.SetSchema(schemabundle.MainSchema, main)

	var feature *jsonschema.Schema

	if data, ok := files[schemabundle.CityJSONFeature]; ok {
		feature, err = compiler.Compile(data)
		if err != nil {
			return nil, fmt.Errorf("schema: compiling %s: %w", schemabundle.CityJSONFeature, err)
		}

		compiler.SetSchema(schemabundle.CityJSONFeature, feature)
	}

	return &Registry{
		version:          v,
		compiler:         compiler,
		main:             main,
		feature:          feature,
		extraCityObjects: map[string]*jsonschema.Schema{},
		extraRootProps:   map[string]*jsonschema.Schema{},
		extraAttributes:  map[string]map[string]*jsonschema.Schema{},
	}, nil
}

// Version returns the version this Registry was loaded for.
func (r *Registry) Version() schemabundle.Version { return r.version }

// MainSchema returns the evaluation-ready CityJSON schema.
func (r *Registry) MainSchema() *jsonschema.Schema { return r.main }

// FeatureSchema returns the evaluation-ready CityJSONFeature schema, or
// nil for CityJSON 1.0, which has no streaming feature concept.
func (r *Registry) FeatureSchema() *jsonschema.Schema { return r.feature }

// RegisterExtension integrates one Extension document's schema
// contributions into the registry's lookup tables (spec §4.1). docVersion
// is the validated document's own "version" field, checked for
// compatibility against the Extension's declared versionCityJSON.
func (r *Registry) RegisterExtension(doc *extension.Doc, docVersion string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !doc.CompatibleWith(docVersion) {
		r.extHistory = append(r.extHistory, extHistoryEntry{name: doc.Name, incompatible: true})

		return fmt.Errorf("%w: extension %q declares versionCityJSON %q, document is %q",
			ErrIncompatibleExtensionVersion, doc.Name, doc.VersionCityJSON, docVersion)
	}

	r.extHistory = append(r.extHistory, extHistoryEntry{name: doc.Name})

	for cotype, fragment := range doc.ExtraCityObjects {
		compiled, err := r.compileFragment(fragment, "ext:"+doc.Name+":cityobject:"+cotype)
		if err != nil {
			return fmt.Errorf("%w: extension %q city-object %q: %w", ErrInvalidExtensionSchema, doc.Name, cotype, err)
		}

		r.extraCityObjects[cotype] = compiled
	}

	for prop, fragment := range doc.ExtraRootProperties {
		compiled, err := r.compileFragment(fragment, "ext:"+doc.Name+":root:"+prop)
		if err != nil {
			return fmt.Errorf("%w: extension %q root property %q: %w", ErrInvalidExtensionSchema, doc.Name, prop, err)
		}

		r.extraRootProps[prop] = compiled
	}

	for cotype, attrs := range doc.ExtraAttributes {
		if r.extraAttributes[cotype] == nil {
			r.extraAttributes[cotype] = map[string]*jsonschema.Schema{}
		}

		for attr, fragment := range attrs {
			compiled, err := r.compileFragment(fragment, "ext:"+doc.Name+":attr:"+cotype+":"+attr)
			if err != nil {
				return fmt.Errorf("%w: extension %q attribute %s.%s: %w", ErrInvalidExtensionSchema, doc.Name, cotype, attr, err)
			}

			r.extraAttributes[cotype][attr] = compiled
		}
	}

	return nil
}

func (r *Registry) compileFragment(fragment any, uri string) (*jsonschema.Schema, error) {
	data, err := jsonio.Marshal(fragment)
	if err != nil {
		return nil, fmt.Errorf("marshaling fragment: %w", err)
	}

	return r.compiler.Compile(data, uri) //nolint:wrapcheck
}

// CityObjectSchema returns the compiled schema for an Extension-defined
// City-Object type, if one is registered.
func (r *Registry) CityObjectSchema(t string) (*jsonschema.Schema, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.extraCityObjects[t]

	return s, ok
}

// RootPropertySchema returns the compiled schema for a "+"-prefixed root
// property, if one is registered.
func (r *Registry) RootPropertySchema(name string) (*jsonschema.Schema, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.extraRootProps[name]

	return s, ok
}

// AttributeSchema returns the compiled schema for a single extraAttributes
// entry declared for the given City-Object type.
func (r *Registry) AttributeSchema(cotype, attr string) (*jsonschema.Schema, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byAttr, ok := r.extraAttributes[cotype]
	if !ok {
		return nil, false
	}

	s, ok := byAttr[attr]

	return s, ok
}

// IncompatibleExtensions returns the names of Extensions that were
// rejected by [Registry.RegisterExtension] for version incompatibility,
// in registration order.
func (r *Registry) IncompatibleExtensions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var names []string

	for _, e := range r.extHistory {
		if e.incompatible {
			names = append(names, e.name)
		}
	}

	return names
}
