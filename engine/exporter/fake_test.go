package exporter

import (
	"github.com/spaghettifunk/meshbake/engine/math"
)

type fakePolygon struct {
	vertices  []int
	triangles [][3]int
	slot      int
	normal    math.Vec3
	// noTangent makes tangent reads fail on this polygon.
	noTangent bool
	// unmappedUV lists UV sets whose corners are unmapped on this polygon.
	unmappedUV []int
	// unmappedColor lists corners with color index -1.
	unmappedColor []int
	uvOffset      float32
}

type fakeMesh struct {
	name     string
	points   []math.Vec3
	polygons []fakePolygon
	uvSets   []string
	colors   int
	shaders  []string
	// slots overrides the per-polygon slot list when non-nil.
	slots []int
}

func (m *fakeMesh) Name() string      { return m.name }
func (m *fakeMesh) PointCount() int   { return len(m.points) }
func (m *fakeMesh) PolygonCount() int { return len(m.polygons) }

func (m *fakeMesh) PolygonVertices(polygon int) []int {
	return m.polygons[polygon].vertices
}

func (m *fakeMesh) PolygonTriangles(polygon int) [][3]int {
	p := m.polygons[polygon]
	if p.triangles != nil {
		return p.triangles
	}
	return math.GeometryFanTriangles(len(p.vertices))
}

func (m *fakeMesh) Point(point int) math.Vec3 { return m.points[point] }

func (m *fakeMesh) FaceVertexNormal(polygon, point int) math.Vec3 {
	n := m.polygons[polygon].normal
	if n == (math.Vec3{}) {
		return math.Vec3{Z: 1}
	}
	return n
}

func (m *fakeMesh) FaceVertexTangent(polygon, point int) (math.Vec3, bool) {
	if m.polygons[polygon].noTangent {
		return math.Vec3{}, false
	}
	return math.Vec3{X: 1, Z: 0.5}, true
}

func (m *fakeMesh) TangentID(polygon, point int) int { return point }

// odd tangent ids are right handed
func (m *fakeMesh) IsRightHandedTangent(tangentID int) bool { return tangentID%2 == 1 }

func (m *fakeMesh) ColorCount() int { return m.colors }

func (m *fakeMesh) FaceVertexColor(polygon, corner int) (math.Vec4, bool) {
	for _, c := range m.polygons[polygon].unmappedColor {
		if c == corner {
			return math.Vec4{}, false
		}
	}
	return math.Vec4{X: 0.5, Y: 0.25, Z: 0, W: 1}, true
}

func (m *fakeMesh) UVSetNames() []string { return m.uvSets }

func (m *fakeMesh) UVCount(set int) int {
	if set < len(m.uvSets) {
		return len(m.points)
	}
	return 0
}

func (m *fakeMesh) PolygonUV(polygon, corner, set int) (math.Vec2, bool) {
	p := m.polygons[polygon]
	for _, s := range p.unmappedUV {
		if s == set {
			return math.Vec2{}, false
		}
	}
	point := m.points[p.vertices[corner]]
	return math.Vec2{X: point.X + p.uvOffset + float32(set), Y: point.Y}, true
}

func (m *fakeMesh) ConnectedShaders() ([]string, []int) {
	if m.slots != nil {
		return m.shaders, m.slots
	}
	slots := make([]int, len(m.polygons))
	for i, p := range m.polygons {
		slots[i] = p.slot
	}
	return m.shaders, slots
}

type fakeSkin struct {
	influences []string
	weights    map[int][]float64
}

func (s *fakeSkin) Name() string             { return "skinCluster1" }
func (s *fakeSkin) InfluenceNames() []string { return s.influences }

func (s *fakeSkin) PointInfluences(point int) []Influence {
	var out []Influence
	for i, w := range s.weights[point] {
		out = append(out, Influence{Name: s.influences[i], Weight: w})
	}
	return out
}

// newQuad returns a unit quad in the XY plane: 4 points, 1 polygon, 2 triangles.
func newQuad() *fakeMesh {
	return &fakeMesh{
		name: "quad",
		points: []math.Vec3{
			{X: 0, Y: 0, Z: 1},
			{X: 1, Y: 0, Z: 1},
			{X: 1, Y: 1, Z: 1},
			{X: 0, Y: 1, Z: 1},
		},
		polygons: []fakePolygon{
			{vertices: []int{0, 1, 2, 3}},
		},
		uvSets: []string{"map1"},
	}
}
