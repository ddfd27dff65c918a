package cjseq_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityjson/cjval/cjseq"
	"github.com/cityjson/cjval/report"
)

const header = `{"type":"CityJSON","version":"2.0","CityObjects":{},"vertices":[],"transform":{"scale":[1,1,1],"translate":[0,0,0]}}`

func feature(id, childrenJSON string) string {
	return `{"type":"CityJSONFeature","id":"` + id + `","CityObjects":{"` + id + `":{"type":"Building"` + childrenJSON + `}},"vertices":[]}`
}

func TestSequenceWithOneBadFeatureReportsOnlyThatLine(t *testing.T) {
	t.Parallel()

	lines := []string{
		header,
		feature("f1", ""),
		feature("f2", ""),
		feature("f3", `,"children":["ghost"]`),
		feature("f4", ""),
		feature("f5", ""),
	}

	sv := cjseq.New(nil)

	summary, err := sv.RunStream(strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)

	assert.Equal(t, 6, summary.TotalLines)
	assert.Equal(t, []int{4}, summary.ErrorLines)
}

func TestBlankLinesAreSkipped(t *testing.T) {
	t.Parallel()

	lines := []string{header, "", feature("f1", ""), "   ", feature("f2", "")}

	sv := cjseq.New(nil)

	summary, err := sv.RunStream(strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalLines)
	assert.Empty(t, summary.ErrorLines)
}

func TestNewAppliesExtensionsToHeader(t *testing.T) {
	t.Parallel()

	extJSON := []byte(`{"type":"CityJSONExtension","name":"Census","versionCityJSON":"2.0",
		"extraRootProperties":{"+census":{"type":"object"}}}`)

	headerWithExtra := `{"type":"CityJSON","version":"2.0","CityObjects":{},"vertices":[],` +
		`"transform":{"scale":[1,1,1],"translate":[0,0,0]},"+census":{"year":2024}}`

	sv := cjseq.New(nil, extJSON)

	require.NoError(t, sv.ConsumeLine([]byte(headerWithExtra)))
	require.Len(t, sv.LineReports(), 1)

	rpt := sv.LineReports()[0].Report
	assert.Equal(t, report.KindOk, rpt.Get(report.CheckExtraRootProperties).Kind,
		"a registered Extension must silence the extra_root_properties warning it declares for")
}

func TestFeatureBeforeHeaderFails(t *testing.T) {
	t.Parallel()

	sv := cjseq.New(nil)

	err := sv.ConsumeLine([]byte(feature("f1", "")))
	require.Error(t, err)
}
