package exporter

import (
	"github.com/spaghettifunk/meshbake/engine/math"
)

// SourceMesh is the read-only view of a host polygon mesh the exporter
// consumes. Polygon and point ids are dense, starting at 0.
type SourceMesh interface {
	Name() string
	PointCount() int
	PolygonCount() int

	// PolygonVertices returns the ordered global point ids of a polygon.
	PolygonVertices(polygon int) []int
	// PolygonTriangles returns the triangulation of a polygon as face-local
	// corner triples (indices into PolygonVertices).
	PolygonTriangles(polygon int) [][3]int

	Point(point int) math.Vec3
	FaceVertexNormal(polygon, point int) math.Vec3

	// FaceVertexTangent reports ok=false when the mesh has no tangent data.
	FaceVertexTangent(polygon, point int) (tangent math.Vec3, ok bool)
	TangentID(polygon, point int) int
	IsRightHandedTangent(tangentID int) bool

	// ColorCount is the number of entries of the active color set.
	ColorCount() int
	// FaceVertexColor reports ok=false when the corner is unmapped.
	FaceVertexColor(polygon, corner int) (color math.Vec4, ok bool)

	UVSetNames() []string
	UVCount(set int) int
	// PolygonUV reports ok=false when the corner is not mapped in that set.
	PolygonUV(polygon, corner, set int) (uv math.Vec2, ok bool)

	// ConnectedShaders returns the shaders bound to the mesh and the shader
	// slot of each polygon.
	ConnectedShaders() (shaders []string, polygonSlots []int)
}

// Influence is one raw skin weight of a point.
type Influence struct {
	Name   string
	Weight float64
}

// SkinBinding is the skin deformer bound to a mesh.
type SkinBinding interface {
	Name() string
	InfluenceNames() []string
	// PointInfluences enumerates the influences of a point in a stable order.
	// Zero weights may be omitted.
	PointInfluences(point int) []Influence
}

// Skin couples a binding with the bone table built for it. The table must be
// fully built before the skin is handed to the exporter and is only read
// afterwards.
type Skin struct {
	Binding    SkinBinding
	Bones      *BoneTable
	SkeletonID string
}

// bound reports whether the skin has both a binding and a bone table.
func (s *Skin) bound() bool {
	return s != nil && s.Binding != nil && s.Bones != nil
}

// BoneTable maps influence names to global bone indices.
type BoneTable struct {
	names []string
	index map[string]int
}

// NewBoneTable indexes names in order. A repeated name keeps its first index.
func NewBoneTable(names []string) *BoneTable {
	bt := &BoneTable{
		names: make([]string, 0, len(names)),
		index: make(map[string]int, len(names)),
	}
	for _, name := range names {
		if _, exists := bt.index[name]; exists {
			continue
		}
		bt.index[name] = len(bt.names)
		bt.names = append(bt.names, name)
	}
	return bt
}

// Lookup returns the bone index of an influence name.
func (bt *BoneTable) Lookup(name string) (int, bool) {
	i, ok := bt.index[name]
	return i, ok
}

// Len returns the number of resolvable bones.
func (bt *BoneTable) Len() int {
	return len(bt.names)
}

// Sentinel is the out-of-range bone index marking "no influence".
func (bt *BoneTable) Sentinel() int {
	return len(bt.names)
}

// Names returns the bone names in index order.
func (bt *BoneTable) Names() []string {
	out := make([]string, len(bt.names))
	copy(out, bt.names)
	return out
}
