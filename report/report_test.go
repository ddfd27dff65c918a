package report_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityjson/cjval/report"
	"github.com/cityjson/cjval/stringtest"
)

func TestNewDefaultsToNotRun(t *testing.T) {
	t.Parallel()

	r := report.New()
	for _, name := range report.Order {
		assert.Equal(t, report.KindNotRun, r.Get(name).Kind, name)
	}

	assert.True(t, r.Valid(), "an all-not-run report carries no errors")
}

func TestErrorsAndWarningsEmptyCollapseToOk(t *testing.T) {
	t.Parallel()

	assert.Equal(t, report.Ok(), report.Errors())
	assert.Equal(t, report.Ok(), report.Warnings())
}

func TestValidRequiresNoErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		outcome   report.Outcome
		wantValid bool
	}{
		"ok":       {report.Ok(), true},
		"not run":  {report.NotRun("gated"), true},
		"warnings": {report.Warnings("careful"), true},
		"errors":   {report.Errors("boom"), false},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r := report.New()
			r.Set(report.CheckSchema, tc.outcome)
			assert.Equal(t, tc.wantValid, r.Valid())
		})
	}
}

func TestRenderIncludesErrorMarkerAndMessages(t *testing.T) {
	t.Parallel()

	r := report.New()
	r.Set(report.CheckSchema, report.Ok())
	r.Set(report.CheckWrongVertexIndex, report.Errors("/CityObjects/A/geometry/0: index 7 out of range"))
	r.Set(report.CheckDuplicateVertices, report.Warnings("vertex 3", "vertex 9"))

	out := r.Render(true)

	require.Contains(t, out, "=== Validation Report ===")
	assert.Contains(t, out, "wrong_vertex_index")
	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, "index 7 out of range")
	assert.Contains(t, out, "Duplicate vertices")

	nonVerbose := r.Render(false)
	assert.False(t, strings.Contains(nonVerbose, "index 7 out of range"))
}

func TestRenderAllOkMatchesExactLayout(t *testing.T) {
	t.Parallel()

	r := report.New()
	for _, name := range report.Order {
		r.Set(name, report.Ok())
	}

	labels := []string{
		"json_syntax", "Schema", "Extensions", "parents_children_consistency",
		"wrong_vertex_index", "semantics_array", "textures", "materials",
		"extra_root_properties", "Duplicate vertices", "Unused vertices",
	}

	lines := []string{"=== Validation Report ==="}
	for _, label := range labels {
		lines = append(lines, fmt.Sprintf("%-34s ok", label+":"))
	}

	lines = append(lines, "=========================")

	want := stringtest.JoinLF(lines...) + "\n"

	assert.Equal(t, want, r.Render(false))
}
