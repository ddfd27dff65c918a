// Package report holds the structured result of validating a CityJSON
// document: a named, ordered set of check outcomes plus a human-readable
// renderer for them.
package report

import (
	"fmt"
	"strings"
)

// Kind identifies the shape of a check's [Outcome].
type Kind string

const (
	// KindOk means the check ran and found nothing to report.
	KindOk Kind = "ok"
	// KindNotRun means the check was gated out by an earlier failure.
	KindNotRun Kind = "not_run"
	// KindErrors means the check ran and found one or more violations.
	KindErrors Kind = "errors"
	// KindWarnings means the check ran and found one or more non-fatal
	// issues.
	KindWarnings Kind = "warnings"
)

// Outcome is the result of running a single named check.
type Outcome struct {
	Kind     Kind
	Reason   string   // set when Kind == KindNotRun
	Messages []string // set when Kind == KindErrors or KindWarnings
}

// Ok is the zero-violation outcome.
func Ok() Outcome { return Outcome{Kind: KindOk} }

// NotRun builds a gated-out outcome carrying the reason it was skipped.
func NotRun(reason string) Outcome { return Outcome{Kind: KindNotRun, Reason: reason} }

// Errors builds an outcome carrying one or more error lines. Passing no
// messages yields [Ok] instead, since an errors-check with nothing to
// report did pass.
func Errors(messages ...string) Outcome {
	if len(messages) == 0 {
		return Ok()
	}

	return Outcome{Kind: KindErrors, Messages: messages}
}

// Warnings builds an outcome carrying one or more warning lines. Passing no
// messages yields [Ok].
func Warnings(messages ...string) Outcome {
	if len(messages) == 0 {
		return Ok()
	}

	return Outcome{Kind: KindWarnings, Messages: messages}
}

// IsProblem reports whether the outcome carries errors or warnings.
func (o Outcome) IsProblem() bool {
	return o.Kind == KindErrors || o.Kind == KindWarnings
}

// CheckName enumerates the checks in canonical report order (spec §4.4).
type CheckName string

const (
	CheckJSONSyntax                 CheckName = "json_syntax"
	CheckSchema                     CheckName = "schema"
	CheckExtensions                 CheckName = "extensions"
	CheckParentsChildrenConsistency CheckName = "parents_children_consistency"
	CheckWrongVertexIndex           CheckName = "wrong_vertex_index"
	CheckSemanticsArray             CheckName = "semantics_array"
	CheckTextures                   CheckName = "textures"
	CheckMaterials                  CheckName = "materials"
	CheckExtraRootProperties        CheckName = "extra_root_properties"
	CheckDuplicateVertices          CheckName = "duplicate_vertices"
	CheckUnusedVertices             CheckName = "unused_vertices"
)

// Order is the canonical check ordering, used both to build an empty
// [Report] and to iterate one deterministically.
var Order = []CheckName{
	CheckJSONSyntax,
	CheckSchema,
	CheckExtensions,
	CheckParentsChildrenConsistency,
	CheckWrongVertexIndex,
	CheckSemanticsArray,
	CheckTextures,
	CheckMaterials,
	CheckExtraRootProperties,
	CheckDuplicateVertices,
	CheckUnusedVertices,
}

// Report is the ordered outcome of validating one CityJSON document or
// CityJSONFeature line.
type Report struct {
	checks map[CheckName]Outcome
}

// New returns a Report with every canonical check defaulted to [NotRun]
// with the reason "not yet run", to be overwritten as checks actually run.
func New() *Report {
	r := &Report{checks: make(map[CheckName]Outcome, len(Order))}
	for _, name := range Order {
		r.checks[name] = NotRun("not yet run")
	}

	return r
}

// Set records the outcome of a named check.
func (r *Report) Set(name CheckName, outcome Outcome) {
	r.checks[name] = outcome
}

// Get returns the outcome of a named check, or the zero [Outcome] (empty
// Kind) if the name is unknown (never happens for a Report built with [New]).
func (r *Report) Get(name CheckName) Outcome {
	return r.checks[name]
}

// Valid reports whether no check in the report carries errors. Warnings do
// not invalidate a report.
func (r *Report) Valid() bool {
	for _, name := range Order {
		if r.checks[name].Kind == KindErrors {
			return false
		}
	}

	return true
}

// HasWarnings reports whether any check carries warnings.
func (r *Report) HasWarnings() bool {
	for _, name := range Order {
		if r.checks[name].Kind == KindWarnings {
			return true
		}
	}

	return false
}

// Render produces the line-oriented human-readable summary described in
// spec §6. verbose additionally prints each error/warning line indented
// under its check.
func (r *Report) Render(verbose bool) string {
	var b strings.Builder

	b.WriteString("=== Validation Report ===\n")

	for _, name := range Order {
		outcome := r.checks[name]

		label := checkLabel(name)

		switch outcome.Kind {
		case KindOk:
			fmt.Fprintf(&b, "%-34s ok\n", label+":")
		case KindNotRun:
			fmt.Fprintf(&b, "%-34s not run (%s)\n", label+":", outcome.Reason)
		case KindErrors:
			fmt.Fprintf(&b, "%-34s ERROR\n", label+":")
		case KindWarnings:
			fmt.Fprintf(&b, "%-34s %d\n", label+":", len(outcome.Messages))
		}

		if verbose && (outcome.Kind == KindErrors || outcome.Kind == KindWarnings) {
			for _, msg := range outcome.Messages {
				fmt.Fprintf(&b, "  %s\n", msg)
			}
		}
	}

	b.WriteString("=========================\n")

	return b.String()
}

// checkLabel renders a [CheckName] the way spec §6's sample report does:
// schema, extensions and the duplicate/unused vertex counts get a
// title-case label, everything else keeps its snake_case check name
// verbatim.
func checkLabel(name CheckName) string {
	switch name {
	case CheckSchema:
		return "Schema"
	case CheckExtensions:
		return "Extensions"
	case CheckDuplicateVertices:
		return "Duplicate vertices"
	case CheckUnusedVertices:
		return "Unused vertices"
	default:
		return string(name)
	}
}
