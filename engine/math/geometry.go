package math

// GeometryPolygonNormal computes the face normal of a planar (or nearly planar)
// polygon using Newell's method. Degenerate polygons yield a zero vector.
func GeometryPolygonNormal(points []Vec3) Vec3 {
	normal := Vec3{}
	count := len(points)
	for i := 0; i < count; i++ {
		current := points[i]
		next := points[(i+1)%count]
		normal.X += (current.Y - next.Y) * (current.Z + next.Z)
		normal.Y += (current.Z - next.Z) * (current.X + next.X)
		normal.Z += (current.X - next.X) * (current.Y + next.Y)
	}
	return normal.Normalized()
}

// GeometryFanTriangles triangulates a convex polygon with cornerCount corners
// into face-local corner triples (0, i, i+1). Polygons with fewer than 3 corners
// produce no triangles.
func GeometryFanTriangles(cornerCount int) [][3]int {
	if cornerCount < 3 {
		return nil
	}
	triangles := make([][3]int, 0, cornerCount-2)
	for i := 1; i < cornerCount-1; i++ {
		triangles = append(triangles, [3]int{0, i, i + 1})
	}
	return triangles
}

// GeometryExtents returns the axis-aligned bounds of the given positions.
func GeometryExtents(positions []Vec3) Extents3D {
	if len(positions) == 0 {
		return Extents3D{}
	}
	extents := Extents3D{Min: positions[0], Max: positions[0]}
	for _, p := range positions[1:] {
		extents.Min.X = Min(extents.Min.X, p.X)
		extents.Min.Y = Min(extents.Min.Y, p.Y)
		extents.Min.Z = Min(extents.Min.Z, p.Z)
		extents.Max.X = Max(extents.Max.X, p.X)
		extents.Max.Y = Max(extents.Max.Y, p.Y)
		extents.Max.Z = Max(extents.Max.Z, p.Z)
	}
	return extents
}
