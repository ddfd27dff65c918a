package cityjson_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityjson/cjval/cityjson"
	"github.com/cityjson/cjval/report"
)

func minimalDoc() map[string]any {
	return map[string]any{
		"type":        "CityJSON",
		"version":     "2.0",
		"CityObjects": map[string]any{},
		"vertices":    []any{},
		"transform": map[string]any{
			"scale":     []any{1.0, 1.0, 1.0},
			"translate": []any{0.0, 0.0, 0.0},
		},
	}
}

func TestMinimalValidDocumentHasNoErrorsOrWarnings(t *testing.T) {
	t.Parallel()

	v, err := cityjson.FromValue(minimalDoc())
	require.NoError(t, err)

	rpt := v.Validate()
	assert.True(t, rpt.Valid())
	assert.False(t, rpt.HasWarnings())
}

func TestMissingVersionFailsConstruction(t *testing.T) {
	t.Parallel()

	doc := minimalDoc()
	delete(doc, "version")

	_, err := cityjson.FromValue(doc)
	require.ErrorIs(t, err, cityjson.ErrMissingVersion)
}

func TestUnsupportedVersionFailsSchemaCheckOnly(t *testing.T) {
	t.Parallel()

	doc := minimalDoc()
	doc["version"] = "0.9"

	v, err := cityjson.FromValue(doc)
	require.NoError(t, err)

	rpt := v.Validate()
	assert.False(t, rpt.Valid())
	assert.Equal(t, report.KindErrors, rpt.Get(report.CheckSchema).Kind)
	assert.Equal(t, report.KindNotRun, rpt.Get(report.CheckWrongVertexIndex).Kind)
}

func TestDanglingChildProducesOneError(t *testing.T) {
	t.Parallel()

	doc := minimalDoc()
	doc["CityObjects"] = map[string]any{
		"A": map[string]any{"type": "Building", "children": []any{"B"}},
	}

	v, err := cityjson.FromValue(doc)
	require.NoError(t, err)

	rpt := v.Validate()
	assert.False(t, rpt.Valid())

	outcome := rpt.Get(report.CheckParentsChildrenConsistency)
	require.Equal(t, report.KindErrors, outcome.Kind)
	assert.Len(t, outcome.Messages, 1)
	assert.Equal(t, report.KindOk, rpt.Get(report.CheckWrongVertexIndex).Kind)
}

func TestBadVertexIndexStillRunsSemantics(t *testing.T) {
	t.Parallel()

	doc := minimalDoc()
	doc["vertices"] = []any{
		[]any{0.0, 0.0, 0.0},
		[]any{1.0, 0.0, 0.0},
		[]any{1.0, 1.0, 0.0},
		[]any{0.0, 1.0, 0.0},
	}
	doc["CityObjects"] = map[string]any{
		"A": map[string]any{
			"type": "Building",
			"geometry": []any{
				map[string]any{
					"type":       "MultiSurface",
					"lod":        "2",
					"boundaries": []any{[]any{[]any{0.0, 1.0, 7.0}}},
					"semantics": map[string]any{
						"surfaces": []any{map[string]any{"type": "RoofSurface"}},
						"values":   []any{0.0},
					},
				},
			},
		},
	}

	v, err := cityjson.FromValue(doc)
	require.NoError(t, err)

	rpt := v.Validate()
	assert.False(t, rpt.Valid())
	assert.Equal(t, report.KindErrors, rpt.Get(report.CheckWrongVertexIndex).Kind)
	assert.Equal(t, report.KindOk, rpt.Get(report.CheckSemanticsArray).Kind)
}

func TestUnknownRootKeyWithoutExtensionWarns(t *testing.T) {
	t.Parallel()

	doc := minimalDoc()
	doc["+census"] = map[string]any{"year": 2024}

	v, err := cityjson.FromValue(doc)
	require.NoError(t, err)

	rpt := v.Validate()
	assert.True(t, rpt.Valid())
	assert.True(t, rpt.HasWarnings())
	assert.Equal(t, report.KindWarnings, rpt.Get(report.CheckExtraRootProperties).Kind)
}

func TestSolidWithNullTexturePlaceholdersDoesNotError(t *testing.T) {
	t.Parallel()

	doc := minimalDoc()
	doc["vertices"] = []any{
		[]any{0.0, 0.0, 0.0},
		[]any{1.0, 0.0, 0.0},
		[]any{1.0, 1.0, 0.0},
	}
	doc["appearance"] = map[string]any{
		"textures": []any{map[string]any{"type": "PNG", "image": "a.png"}},
	}
	doc["CityObjects"] = map[string]any{
		"A": map[string]any{
			"type": "Building",
			"geometry": []any{
				map[string]any{
					"type":       "Solid",
					"lod":        "2",
					"boundaries": []any{[]any{[]any{[]any{0.0, 1.0, 2.0}}}},
					"texture": map[string]any{
						"rgbTexture": map[string]any{
							"values": []any{[]any{[]any{nil, nil}}},
						},
					},
				},
			},
		},
	}

	v, err := cityjson.FromValue(doc)
	require.NoError(t, err)

	rpt := v.Validate()
	assert.Equal(t, report.KindOk, rpt.Get(report.CheckTextures).Kind)
}

func TestValidateIsIdempotent(t *testing.T) {
	t.Parallel()

	v, err := cityjson.FromValue(minimalDoc())
	require.NoError(t, err)

	first := v.Validate().Render(true)
	second := v.Validate().Render(true)
	assert.Equal(t, first, second)
}
