package structural

// GeometryShape describes the nested-array depths a Geometry type's
// boundaries, semantics, and appearance references are expected to have
// (spec §3's table, plus the GeometryInstance row SPEC_FULL.md adds).
type GeometryShape struct {
	BoundariesDepth int
	HasSemantics    bool
	SemanticsDepth  int // boundaries depth minus 2: grouping stops one level above rings
	HasSurfaceLevel bool
}

var shapes = map[string]GeometryShape{
	"MultiPoint":       {BoundariesDepth: 1},
	"MultiLineString":  {BoundariesDepth: 2},
	"MultiSurface":     {BoundariesDepth: 3, HasSemantics: true, SemanticsDepth: 1, HasSurfaceLevel: true},
	"CompositeSurface": {BoundariesDepth: 3, HasSemantics: true, SemanticsDepth: 1, HasSurfaceLevel: true},
	"Solid":            {BoundariesDepth: 4, HasSemantics: true, SemanticsDepth: 2, HasSurfaceLevel: true},
	"MultiSolid":       {BoundariesDepth: 5, HasSemantics: true, SemanticsDepth: 3, HasSurfaceLevel: true},
	"CompositeSolid":   {BoundariesDepth: 5, HasSemantics: true, SemanticsDepth: 3, HasSurfaceLevel: true},
	"GeometryInstance": {BoundariesDepth: 1},
}

// ShapeFor returns the expected shape for a Geometry's "type" field.
func ShapeFor(geomType string) (GeometryShape, bool) {
	s, ok := shapes[geomType]
	return s, ok
}

// SurfaceDepth is the nesting depth at which textures are addressed: one
// level shallower than boundaries (spec §3: textures keep rings explicit).
// Materials use SemanticsDepth instead. Only meaningful for the
// surface-bearing types.
func (s GeometryShape) SurfaceDepth() int {
	return s.BoundariesDepth - 1
}
