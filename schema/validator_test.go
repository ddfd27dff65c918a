package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityjson/cjval/extension"
	"github.com/cityjson/cjval/schema"
)

func TestValidateExtensionsOnUnknownExtraType(t *testing.T) {
	t.Parallel()

	reg, err := schema.Load("1.1")
	require.NoError(t, err)

	store := extension.NewStore()

	doc := map[string]any{
		"CityObjects": map[string]any{
			"a": map[string]any{"type": "+Wharf"},
		},
	}

	// No Extension registered for "+Wharf": nothing to evaluate against,
	// so validate_extensions reports nothing (no check flags an
	// undeclared "+" City-Object type).
	assert.Empty(t, schema.ValidateExtensions(reg, store, doc))
}

func TestValidateExtensionsCatchesSchemaViolation(t *testing.T) {
	t.Parallel()

	reg, err := schema.Load("1.1")
	require.NoError(t, err)

	extDoc, err := extension.FromValue(map[string]any{
		"type":            "CityJSONExtension",
		"name":            "Census",
		"url":             "https://example.org/census.ext.json",
		"version":         "1.0",
		"versionCityJSON": "1.1",
		"extraAttributes": map[string]any{
			"Building": map[string]any{
				"population": map[string]any{"type": "integer", "minimum": 0},
			},
		},
	})
	require.NoError(t, err)
	require.NoError(t, reg.RegisterExtension(extDoc, "1.1"))

	store := extension.NewStore()
	store.Add(extDoc)

	doc := map[string]any{
		"CityObjects": map[string]any{
			"b1": map[string]any{
				"type":       "Building",
				"attributes": map[string]any{"population": -5},
			},
		},
	}

	errs := schema.ValidateExtensions(reg, store, doc)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0], "population")
}
