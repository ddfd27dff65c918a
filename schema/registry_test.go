package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityjson/cjval/extension"
	"github.com/cityjson/cjval/schema"
)

func TestLoadSupportedVersions(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"1.0", "1.1", "2.0"} {
		v := v

		t.Run(v, func(t *testing.T) {
			t.Parallel()

			reg, err := schema.Load(v)
			require.NoError(t, err)
			require.NotNil(t, reg.MainSchema())

			if v == "1.0" {
				assert.Nil(t, reg.FeatureSchema(), "1.0 predates CityJSONSeq")
			} else {
				assert.NotNil(t, reg.FeatureSchema())
			}
		})
	}
}

func TestLoadRejectsUnsupportedVersion(t *testing.T) {
	t.Parallel()

	_, err := schema.Load("0.9")
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrUnsupportedVersion)
}

func TestValidateSchemaMinimalDocument(t *testing.T) {
	t.Parallel()

	reg, err := schema.Load("2.0")
	require.NoError(t, err)

	doc := map[string]any{
		"type":        "CityJSON",
		"version":     "2.0",
		"CityObjects": map[string]any{},
		"vertices":    []any{},
	}

	assert.Empty(t, schema.ValidateSchema(reg, doc))
}

func TestValidateSchemaRejectsWrongVersionConst(t *testing.T) {
	t.Parallel()

	reg, err := schema.Load("2.0")
	require.NoError(t, err)

	doc := map[string]any{
		"type":        "CityJSON",
		"version":     "1.1",
		"CityObjects": map[string]any{},
		"vertices":    []any{},
	}

	assert.NotEmpty(t, schema.ValidateSchema(reg, doc))
}

func TestValidateSchemaRejectsCityObjectMissingGeometry(t *testing.T) {
	t.Parallel()

	reg, err := schema.Load("1.1")
	require.NoError(t, err)

	// "geometry" is required by cityobjects.schema.json's
	// _AbstractCityObject, not by cityjson.schema.json itself: this only
	// fails if the main schema's "CityObjects": {"$ref":
	// "cityobjects.schema.json"} actually resolves and gets applied.
	doc := map[string]any{
		"type":    "CityJSON",
		"version": "1.1",
		"CityObjects": map[string]any{
			"b1": map[string]any{"type": "Building"},
		},
		"vertices": []any{},
	}

	errs := schema.ValidateSchema(reg, doc)
	require.NotEmpty(t, errs, "cross-file $ref to cityobjects.schema.json must be applied")
}

func TestValidateSchemaAcceptsCityObjectWithGeometry(t *testing.T) {
	t.Parallel()

	reg, err := schema.Load("1.1")
	require.NoError(t, err)

	doc := map[string]any{
		"type":    "CityJSON",
		"version": "1.1",
		"CityObjects": map[string]any{
			"b1": map[string]any{"type": "Building", "geometry": []any{}},
		},
		"vertices": []any{},
	}

	assert.Empty(t, schema.ValidateSchema(reg, doc))
}

func TestRegisterExtensionRejectsIncompatibleVersion(t *testing.T) {
	t.Parallel()

	reg, err := schema.Load("1.1")
	require.NoError(t, err)

	doc, err := extension.FromValue(map[string]any{
		"type":            "CityJSONExtension",
		"name":            "Census",
		"url":             "https://example.org/census.ext.json",
		"version":         "1.0",
		"versionCityJSON": "2.0",
	})
	require.NoError(t, err)

	err = reg.RegisterExtension(doc, "1.1")
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrIncompatibleExtensionVersion)
	assert.Equal(t, []string{"Census"}, reg.IncompatibleExtensions())
}

func TestRegisterExtensionCompilesFragments(t *testing.T) {
	t.Parallel()

	reg, err := schema.Load("1.1")
	require.NoError(t, err)

	doc, err := extension.FromValue(map[string]any{
		"type":            "CityJSONExtension",
		"name":            "Census",
		"url":             "https://example.org/census.ext.json",
		"version":         "1.0",
		"versionCityJSON": "1.1",
		"extraCityObjects": map[string]any{
			"+CensusDistrict": map[string]any{
				"type":       "object",
				"properties": map[string]any{"type": map[string]any{"const": "+CensusDistrict"}},
			},
		},
		"extraRootProperties": map[string]any{
			"+census": map[string]any{"type": "object"},
		},
	})
	require.NoError(t, err)

	require.NoError(t, reg.RegisterExtension(doc, "1.1"))

	s, ok := reg.CityObjectSchema("+CensusDistrict")
	require.True(t, ok)
	assert.NotNil(t, s)

	_, ok = reg.RootPropertySchema("+census")
	assert.True(t, ok)
}
