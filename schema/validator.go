package schema

import (
	"fmt"
	"sort"
	"strings"

	jsonschema "github.com/kaptinlin/jsonschema"

	"github.com/cityjson/cjval/extension"
)

// ValidateSchema runs the registry's main schema against the whole
// document (spec §4.3 validate_schema) and returns one descriptive line
// per violation, in deterministic (path-sorted) order.
func ValidateSchema(reg *Registry, doc map[string]any) []string {
	return evaluate(reg.MainSchema(), doc)
}

// ValidateFeatureSchema runs the registry's CityJSONFeature schema
// against a single feature line (spec §4.6: "the schema used is the
// CityJSONFeature schema, not the CityJSON schema").
func ValidateFeatureSchema(reg *Registry, feature map[string]any) []string {
	fs := reg.FeatureSchema()
	if fs == nil {
		return []string{fmt.Sprintf("CityJSON %s has no CityJSONFeature schema", reg.Version())}
	}

	return evaluate(fs, feature)
}

// evaluate runs one compiled schema against an instance and renders each
// violation as "<json-pointer-path>: <message>", per spec §4.3.
func evaluate(s *jsonschema.Schema, instance any) []string {
	if s == nil {
		return nil
	}

	result := s.Validate(instance)
	if result.IsValid() {
		return nil
	}

	detailed := result.GetDetailedErrors()

	paths := make([]string, 0, len(detailed))
	for path := range detailed {
		paths = append(paths, path)
	}

	sort.Strings(paths)

	lines := make([]string, 0, len(paths))
	for _, path := range paths {
		p := path
		if p == "" {
			p = "/"
		}

		lines = append(lines, fmt.Sprintf("%s: %s", p, detailed[path]))
	}

	return lines
}

// ValidateExtensions runs spec §4.3 validate_extensions: every
// Extension-typed City-Object, every "+"-prefixed root property, and
// every extraAttributes entry is evaluated against its declared Extension
// schema. Errors from incompatible Extension versions (recorded earlier
// by [Registry.RegisterExtension]) are reported first.
func ValidateExtensions(reg *Registry, store *extension.Store, doc map[string]any) []string {
	var errs []string

	for _, name := range reg.IncompatibleExtensions() {
		errs = append(errs, fmt.Sprintf("/extensions/%s: %s", name, ErrIncompatibleExtensionVersion))
	}

	cityObjects, _ := doc["CityObjects"].(map[string]any)

	coIDs := make([]string, 0, len(cityObjects))
	for id := range cityObjects {
		coIDs = append(coIDs, id)
	}

	sort.Strings(coIDs)

	for _, id := range coIDs {
		co, ok := cityObjects[id].(map[string]any)
		if !ok {
			continue
		}

		typ, _ := co["type"].(string)
		if strings.HasPrefix(typ, "+") {
			if s, ok := reg.CityObjectSchema(typ); ok {
				for _, line := range evaluate(s, co) {
					errs = append(errs, fmt.Sprintf("/CityObjects/%s%s", id, line))
				}
			}
		}

		attrs, _ := co["attributes"].(map[string]any)

		attrNames := make([]string, 0, len(attrs))
		for a := range attrs {
			attrNames = append(attrNames, a)
		}

		sort.Strings(attrNames)

		for _, attr := range attrNames {
			if s, ok := reg.AttributeSchema(typ, attr); ok {
				for _, line := range evaluate(s, attrs[attr]) {
					errs = append(errs, fmt.Sprintf("/CityObjects/%s/attributes/%s%s", id, attr, line))
				}
			}
		}
	}

	rootKeys := make([]string, 0, len(doc))
	for k := range doc {
		rootKeys = append(rootKeys, k)
	}

	sort.Strings(rootKeys)

	for _, key := range rootKeys {
		if !strings.HasPrefix(key, "+") {
			continue
		}

		if s, ok := reg.RootPropertySchema(key); ok {
			for _, line := range evaluate(s, doc[key]) {
				errs = append(errs, fmt.Sprintf("/%s%s", key, line))
			}
		}
	}

	return errs
}
