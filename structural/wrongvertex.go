package structural

import "fmt"

// WrongVertexIndex walks every Geometry's boundaries (spec §4.4 item 5),
// checking each leaf index against the vertex pool size numVertices and
// recording every in-range index in used (when used is non-nil). The
// caller picks the pool: the document's vertices for City Object
// geometries (a GeometryInstance's "boundaries" being its single anchor
// vertex), "vertices-templates" for template geometries.
func WrongVertexIndex(geomType string, boundaries any, numVertices int, used map[int]bool) []string {
	shape, ok := ShapeFor(geomType)
	if !ok {
		return []string{fmt.Sprintf("/geometry: unknown geometry type %q", geomType)}
	}

	var errs []string

	walkLeaves(boundaries, shape.BoundariesDepth, nil, func(path []int, leaf any) {
		idx, ok := toInt(leaf)
		if !ok {
			errs = append(errs, fmt.Sprintf("%s: vertex index is not an integer", pathString("/boundaries", path)))

			return
		}

		if idx < 0 || idx >= numVertices {
			errs = append(errs, fmt.Sprintf("%s: vertex index %d is out of range [0, %d)", pathString("/boundaries", path), idx, numVertices))

			return
		}

		if used != nil {
			used[idx] = true
		}
	})

	return errs
}

// GeometryInstanceIndices validates a GeometryInstance's "template" (a
// single index into "geometry-templates"."templates"), per the
// GeometryInstance row SPEC_FULL.md adds to the depth table. Its
// "transformationMatrix" is not checked here.
func GeometryInstanceIndices(template any, templateCount int) []string {
	idx, ok := toInt(template)
	if !ok {
		return []string{"/template: template index is not an integer"}
	}

	if idx < 0 || idx >= templateCount {
		return []string{fmt.Sprintf("/template: template index %d is out of range [0, %d)", idx, templateCount)}
	}

	return nil
}
