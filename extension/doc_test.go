package extension_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityjson/cjval/extension"
)

func TestFromValueRejectsWrongType(t *testing.T) {
	t.Parallel()

	_, err := extension.FromValue(map[string]any{
		"type":            "NotAnExtension",
		"name":            "Census",
		"versionCityJSON": "1.1",
	})
	require.ErrorIs(t, err, extension.ErrInvalidExtension)
}

func TestFromValueRejectsMissingVersionCityJSON(t *testing.T) {
	t.Parallel()

	_, err := extension.FromValue(map[string]any{
		"type": "CityJSONExtension",
		"name": "Census",
	})
	require.ErrorIs(t, err, extension.ErrInvalidExtension)
}

func TestFromValueAcceptsMinimalExtension(t *testing.T) {
	t.Parallel()

	doc, err := extension.FromValue(map[string]any{
		"type":            "CityJSONExtension",
		"name":            "Census",
		"versionCityJSON": "1.1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Census", doc.Name)
}

func TestFromValueRejectsNonObjectExtraAttributes(t *testing.T) {
	t.Parallel()

	_, err := extension.FromValue(map[string]any{
		"type":            "CityJSONExtension",
		"name":            "Census",
		"versionCityJSON": "1.1",
		"extraAttributes": map[string]any{
			"Building": "not an object",
		},
	})
	require.ErrorIs(t, err, extension.ErrInvalidExtension)
}

func TestCompatibleWith(t *testing.T) {
	t.Parallel()

	doc, err := extension.FromValue(map[string]any{
		"type":            "CityJSONExtension",
		"name":            "Census",
		"versionCityJSON": "1.1",
	})
	require.NoError(t, err)

	assert.True(t, doc.CompatibleWith("1.1"))
	assert.False(t, doc.CompatibleWith("2.0"))
}
