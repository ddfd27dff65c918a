package structural

import "fmt"

// SemanticsArray checks that a Geometry's "semantics"."values" mirrors the
// shape of "boundaries" down to the surface-grouping level, and that every
// non-null leaf indexes into "semantics"."surfaces" (spec §4.4 item 6).
func SemanticsArray(geomType string, boundaries, values any, numSurfaces int) []string {
	shape, ok := ShapeFor(geomType)
	if !ok || !shape.HasSemantics {
		return nil
	}

	var errs []string

	compareShapes(boundaries, values, shape.SemanticsDepth, nil,
		func(path []int, _, leaf any) {
			if leaf == nil {
				return
			}

			idx, ok := toInt(leaf)
			if !ok {
				errs = append(errs, fmt.Sprintf("%s: semantic surface index is not an integer", pathString("/semantics/values", path)))

				return
			}

			if idx < 0 || idx >= numSurfaces {
				errs = append(errs, fmt.Sprintf("%s: semantic surface index %d is out of range [0, %d)", pathString("/semantics/values", path), idx, numSurfaces))
			}
		},
		func(path []int, msg string) {
			errs = append(errs, fmt.Sprintf("%s: %s", pathString("/semantics/values", path), msg))
		},
	)

	return errs
}

// Textures checks that an Appearance's per-geometry "texture" array
// mirrors "boundaries" one level deeper than semantics does, since a
// texture is assigned per ring rather than per surface (spec §4.4 item 7).
// A leaf is itself an array [textureIdx, v0, v1, ...] or null, where
// textureIdx indexes "appearance.textures" and each remaining entry
// indexes "appearance.vertices-texture". An array holding only nulls, at
// any level and of any length, counts as null. A ring entry whose texture
// index is null is skipped without checking its remaining entries.
func Textures(geomType string, boundaries, values any, numTextures, numVerticesTexture int) []string {
	shape, ok := ShapeFor(geomType)
	if !ok || !shape.HasSurfaceLevel {
		return nil
	}

	var errs []string

	compareShapes(boundaries, nullArraysToNil(values), shape.SurfaceDepth(), nil,
		func(path []int, _, leaf any) {
			if leaf == nil {
				return
			}

			ring, ok := leaf.([]any)
			if !ok || len(ring) == 0 {
				errs = append(errs, fmt.Sprintf("%s: texture ring entry is not an array", pathString("/texture/values", path)))

				return
			}

			if ring[0] == nil {
				return
			}

			idx, ok := toInt(ring[0])
			if !ok {
				errs = append(errs, fmt.Sprintf("%s: texture index is not an integer", pathString("/texture/values", path)))

				return
			}

			if idx < 0 || idx >= numTextures {
				errs = append(errs, fmt.Sprintf("%s: texture index %d is out of range [0, %d)", pathString("/texture/values", path), idx, numTextures))
			}

			for i, coord := range ring[1:] {
				vIdx, ok := toInt(coord)
				if !ok {
					errs = append(errs, fmt.Sprintf("%s: texture vertex index at position %d is not an integer", pathString("/texture/values", path), i+1))

					continue
				}

				if vIdx < 0 || vIdx >= numVerticesTexture {
					errs = append(errs, fmt.Sprintf("%s: texture vertex index %d at position %d is out of range [0, %d)", pathString("/texture/values", path), vIdx, i+1, numVerticesTexture))
				}
			}
		},
		func(path []int, msg string) {
			errs = append(errs, fmt.Sprintf("%s: %s", pathString("/texture/values", path), msg))
		},
	)

	return errs
}

// nullArraysToNil replaces every non-empty array made only of nulls (after
// the same replacement of its elements) with nil.
func nullArraysToNil(v any) any {
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return v
	}

	out, allNull := make([]any, len(arr)), true
	for i, e := range arr {
		out[i] = nullArraysToNil(e)
		allNull = allNull && out[i] == nil
	}

	if allNull {
		return nil
	}

	return out
}

// Materials checks that an Appearance's per-geometry material "values"
// mirrors "boundaries" at the same grouping level as semantics, since a
// material is assigned per surface rather than per ring (spec §4.4 item
// 8; unlike Textures this uses SemanticsDepth, not SurfaceDepth).
func Materials(geomType string, boundaries, values any, numMaterials int) []string {
	shape, ok := ShapeFor(geomType)
	if !ok || !shape.HasSemantics {
		return nil
	}

	var errs []string

	compareShapes(boundaries, values, shape.SemanticsDepth, nil,
		func(path []int, _, leaf any) {
			if leaf == nil {
				return
			}

			idx, ok := toInt(leaf)
			if !ok {
				errs = append(errs, fmt.Sprintf("%s: material index is not an integer", pathString("/material/values", path)))

				return
			}

			if idx < 0 || idx >= numMaterials {
				errs = append(errs, fmt.Sprintf("%s: material index %d is out of range [0, %d)", pathString("/material/values", path), idx, numMaterials))
			}
		},
		func(path []int, msg string) {
			errs = append(errs, fmt.Sprintf("%s: %s", pathString("/material/values", path), msg))
		},
	)

	return errs
}
