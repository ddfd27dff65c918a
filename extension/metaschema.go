package extension

import (
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	kjs "github.com/kaptinlin/jsonschema"

	"github.com/cityjson/cjval/internal/jsonio"
)

// metaSchema is the minimal shape a CityJSONExtension document must have
// (spec §3 ExtensionDoc), built once from a typed [jsonschema.Schema] and
// compiled into an evaluator so malformed Extension documents are caught
// by schema evaluation rather than by ad hoc field checks alone.
var (
	metaSchemaOnce sync.Once
	metaSchema     *kjs.Schema
	metaSchemaErr  error
)

func extensionMetaSchema() (*kjs.Schema, error) {
	metaSchemaOnce.Do(func() {
		typed := &jsonschema.Schema{
			Type:     "object",
			Required: []string{"type", "name", "versionCityJSON"},
			Properties: map[string]*jsonschema.Schema{
				"type":            {Const: jsonschema.Ptr(any("CityJSONExtension"))},
				"name":            {Type: "string", MinLength: jsonschema.Ptr(1)},
				"url":             {Type: "string"},
				"version":         {Type: "string"},
				"versionCityJSON": {Type: "string", MinLength: jsonschema.Ptr(1)},
				"definitions":     {Type: "object"},
				"extraCityObjects": {
					Type:                 "object",
					AdditionalProperties: &jsonschema.Schema{},
				},
				"extraRootProperties": {
					Type:                 "object",
					AdditionalProperties: &jsonschema.Schema{},
				},
				"extraAttributes": {
					Type:                 "object",
					AdditionalProperties: &jsonschema.Schema{Type: "object"},
				},
			},
		}

		data, err := jsonio.Marshal(typed)
		if err != nil {
			metaSchemaErr = fmt.Errorf("marshaling extension meta-schema: %w", err)

			return
		}

		compiler := kjs.NewCompiler()

		metaSchema, metaSchemaErr = compiler.Compile(data)
		if metaSchemaErr != nil {
			metaSchemaErr = fmt.Errorf("compiling extension meta-schema: %w", metaSchemaErr)
		}
	})

	return metaSchema, metaSchemaErr
}

// validateAgainstMetaSchema runs the compiled meta-schema against a
// decoded Extension object, returning an error naming one violation (the
// first the result's error map yields) when it fails.
func validateAgainstMetaSchema(obj map[string]any) error {
	s, err := extensionMetaSchema()
	if err != nil {
		return err
	}

	result := s.Validate(obj)
	if result.IsValid() {
		return nil
	}

	for path, msg := range result.GetDetailedErrors() {
		if path == "" {
			path = "/"
		}

		return fmt.Errorf("%w: %s: %s", ErrInvalidExtension, path, msg)
	}

	return fmt.Errorf("%w", ErrInvalidExtension)
}
