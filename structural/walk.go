package structural

import "fmt"

// walkLeaves recursively descends node depth levels, calling visit on
// every leaf it reaches with the index path that got there. Used by
// wrong_vertex_index to visit every innermost vertex index regardless of
// a Geometry's boundaries nesting depth (spec §9: "a recursive walker
// parameterized by depth").
func walkLeaves(node any, depth int, path []int, visit func(path []int, leaf any)) {
	if depth <= 0 {
		visit(path, node)

		return
	}

	arr, ok := node.([]any)
	if !ok {
		visit(path, node)

		return
	}

	for i, child := range arr {
		walkLeaves(child, depth-1, append(append([]int{}, path...), i), visit)
	}
}

// compareShapes walks two trees in lockstep to depth levels, requiring
// array lengths to match at every level above depth (semantics/texture/
// material arrays must mirror boundaries' shape, spec §4.4 items 6-8),
// then hands the corresponding pair of nodes to leaf once depth reaches
// zero. A nil shadow node at any level short-circuits as valid: spec §4.4
// item 6 allows "null entries...mean no semantic surface assigned" at any
// level, and the equivalent texture/material convention is the same.
func compareShapes(boundaries, shadow any, depth int, path []int, leaf func(path []int, boundaryLeaf, shadowLeaf any), mismatch func(path []int, msg string)) {
	if shadow == nil {
		return
	}

	if depth <= 0 {
		leaf(path, boundaries, shadow)

		return
	}

	bArr, bOk := boundaries.([]any)
	if !bOk {
		mismatch(path, "boundaries ended before the shadow structure's depth")

		return
	}

	sArr, sOk := shadow.([]any)
	if !sOk {
		mismatch(path, fmt.Sprintf("expected an array of length %d, got a non-array value", len(bArr)))

		return
	}

	if len(bArr) != len(sArr) {
		mismatch(path, fmt.Sprintf("expected %d entries to mirror boundaries, got %d", len(bArr), len(sArr)))

		return
	}

	for i := range bArr {
		compareShapes(bArr[i], sArr[i], depth-1, append(append([]int{}, path...), i), leaf, mismatch)
	}
}

func pathString(prefix string, path []int) string {
	s := prefix

	for _, i := range path {
		s += fmt.Sprintf("/%d", i)
	}

	return s
}
