package structural

import "fmt"

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func toInt(v any) (int, bool) {
	f, ok := toFloat(v)
	if !ok {
		return 0, false
	}

	if f != float64(int(f)) {
		return 0, false
	}

	return int(f), true
}

// vertexKey is a hashable identity for a 3-tuple vertex, used to detect
// duplicates by value (spec §4.4 item 10: "equality is on the stored
// triple").
type vertexKey struct {
	X, Y, Z float64
}

func decodeVertexPool(raw any) ([]vertexKey, bool) {
	arr, ok := raw.([]any)
	if !ok {
		return nil, false
	}

	pool := make([]vertexKey, 0, len(arr))

	for _, v := range arr {
		triple, ok := v.([]any)
		if !ok || len(triple) < 3 {
			pool = append(pool, vertexKey{})

			continue
		}

		x, _ := toFloat(triple[0])
		y, _ := toFloat(triple[1])
		z, _ := toFloat(triple[2])
		pool = append(pool, vertexKey{x, y, z})
	}

	return pool, true
}

// DuplicateVertices counts vertices that appear more than once in the
// pool (spec §4.4 item 10), returning one warning line per duplicate
// occurrence (not per distinct value) so len(result) is the count the
// human-readable report prints.
func DuplicateVertices(vertices any) []string {
	pool, ok := decodeVertexPool(vertices)
	if !ok {
		return nil
	}

	firstSeen := map[vertexKey]int{}

	var warnings []string

	for i, v := range pool {
		if first, seen := firstSeen[v]; seen {
			warnings = append(warnings, fmt.Sprintf("/vertices/%d: duplicates vertex at index %d", i, first))
		} else {
			firstSeen[v] = i
		}
	}

	return warnings
}

// UnusedVertices counts indices in [0, len(vertices)) that no Geometry
// references (spec §4.4 item 11). used is the set of indices
// wrongVertexIndex (or the caller) observed being referenced while
// walking boundaries.
func UnusedVertices(numVertices int, used map[int]bool) []string {
	var warnings []string

	for i := 0; i < numVertices; i++ {
		if !used[i] {
			warnings = append(warnings, fmt.Sprintf("/vertices/%d: never referenced", i))
		}
	}

	return warnings
}
