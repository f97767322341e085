package scene

import (
	"fmt"

	"github.com/spaghettifunk/meshbake/engine/core"
	"github.com/spaghettifunk/meshbake/engine/math"
)

// Tangent is a face-corner tangent with its handedness bit.
type Tangent struct {
	Vector      math.Vec3
	RightHanded bool
}

// Polygon is one face of a Mesh. Per-corner slices are indexed like Vertices.
type Polygon struct {
	Vertices []int
	// Triangles in face-local corners; nil means fan triangulation.
	Triangles [][3]int
	// Normals per corner; nil means the flat face normal.
	Normals []math.Vec3
	// Tangents per corner; nil means the polygon has no tangent data.
	Tangents []Tangent
	// Colors holds a color index per corner, -1 when unmapped.
	Colors []int
	// UVs holds, per UV set, a UV index per corner (-1 when unmapped).
	UVs [][]int
	// Shader is the slot in the mesh shader list, -1 when unassigned.
	Shader int
}

// UVSet is a named list of texture coordinates.
type UVSet struct {
	Name string
	UVs  []math.Vec2
}

// Mesh is an in-memory polygon mesh, the host-side source the exporter reads.
type Mesh struct {
	name     string
	points   []math.Vec3
	polygons []Polygon
	colors   []math.Vec4
	uvSets   []UVSet
	shaders  []string

	faceNormals    []math.Vec3
	tangentOffsets []int
}

func NewMesh(name string, points []math.Vec3) *Mesh {
	return &Mesh{name: name, points: points}
}

// AddPolygon appends a polygon and returns its id.
func (m *Mesh) AddPolygon(p Polygon) int {
	if p.Triangles == nil {
		p.Triangles = math.GeometryFanTriangles(len(p.Vertices))
	}
	corners := make([]math.Vec3, 0, len(p.Vertices))
	for _, v := range p.Vertices {
		if v >= 0 && v < len(m.points) {
			corners = append(corners, m.points[v])
		}
	}

	offset := 0
	if n := len(m.polygons); n > 0 {
		offset = m.tangentOffsets[n-1] + len(m.polygons[n-1].Vertices)
	}

	m.polygons = append(m.polygons, p)
	m.faceNormals = append(m.faceNormals, math.GeometryPolygonNormal(corners))
	m.tangentOffsets = append(m.tangentOffsets, offset)
	return len(m.polygons) - 1
}

// AddUVSet appends a UV set and returns its index.
func (m *Mesh) AddUVSet(name string, uvs []math.Vec2) int {
	m.uvSets = append(m.uvSets, UVSet{Name: name, UVs: uvs})
	return len(m.uvSets) - 1
}

// SetColors replaces the active color set.
func (m *Mesh) SetColors(colors []math.Vec4) {
	m.colors = colors
}

// SetShaders replaces the connected shader list.
func (m *Mesh) SetShaders(shaders []string) {
	m.shaders = shaders
}

// Validate checks that every reference held by the polygons is in range.
func (m *Mesh) Validate() error {
	for id, p := range m.polygons {
		for _, v := range p.Vertices {
			if v < 0 || v >= len(m.points) {
				return fmt.Errorf("%w: polygon %d references point %d of %d", core.ErrMeshDocument, id, v, len(m.points))
			}
		}
		if p.Normals != nil && len(p.Normals) != len(p.Vertices) {
			return fmt.Errorf("%w: polygon %d has %d normals for %d corners", core.ErrMeshDocument, id, len(p.Normals), len(p.Vertices))
		}
		if p.Tangents != nil && len(p.Tangents) != len(p.Vertices) {
			return fmt.Errorf("%w: polygon %d has %d tangents for %d corners", core.ErrMeshDocument, id, len(p.Tangents), len(p.Vertices))
		}
		for _, c := range p.Colors {
			if c >= len(m.colors) {
				return fmt.Errorf("%w: polygon %d references color %d of %d", core.ErrMeshDocument, id, c, len(m.colors))
			}
		}
		if len(p.UVs) > len(m.uvSets) {
			return fmt.Errorf("%w: polygon %d maps %d UV sets, mesh has %d", core.ErrMeshDocument, id, len(p.UVs), len(m.uvSets))
		}
		for set, indices := range p.UVs {
			for _, uv := range indices {
				if uv >= len(m.uvSets[set].UVs) {
					return fmt.Errorf("%w: polygon %d references UV %d of set %s", core.ErrMeshDocument, id, uv, m.uvSets[set].Name)
				}
			}
		}
		if p.Shader >= len(m.shaders) && len(m.shaders) > 0 {
			return fmt.Errorf("%w: polygon %d uses shader %d of %d", core.ErrMeshDocument, id, p.Shader, len(m.shaders))
		}
	}
	return nil
}

func (m *Mesh) Name() string {
	return m.name
}

func (m *Mesh) PointCount() int {
	return len(m.points)
}

func (m *Mesh) PolygonCount() int {
	return len(m.polygons)
}

func (m *Mesh) PolygonVertices(polygon int) []int {
	return m.polygons[polygon].Vertices
}

func (m *Mesh) PolygonTriangles(polygon int) [][3]int {
	return m.polygons[polygon].Triangles
}

func (m *Mesh) Point(point int) math.Vec3 {
	return m.points[point]
}

// corner returns the face-local slot of a global point within a polygon.
// Points not on the polygon map to its last corner.
func (m *Mesh) corner(polygon, point int) int {
	vertices := m.polygons[polygon].Vertices
	for i, v := range vertices {
		if v == point {
			return i
		}
	}
	return len(vertices) - 1
}

func (m *Mesh) FaceVertexNormal(polygon, point int) math.Vec3 {
	p := m.polygons[polygon]
	if p.Normals == nil {
		return m.faceNormals[polygon]
	}
	return p.Normals[m.corner(polygon, point)]
}

func (m *Mesh) FaceVertexTangent(polygon, point int) (math.Vec3, bool) {
	p := m.polygons[polygon]
	if p.Tangents == nil {
		return math.Vec3{}, false
	}
	return p.Tangents[m.corner(polygon, point)].Vector, true
}

func (m *Mesh) TangentID(polygon, point int) int {
	return m.tangentOffsets[polygon] + m.corner(polygon, point)
}

func (m *Mesh) IsRightHandedTangent(tangentID int) bool {
	for polygon := len(m.polygons) - 1; polygon >= 0; polygon-- {
		offset := m.tangentOffsets[polygon]
		if tangentID < offset {
			continue
		}
		p := m.polygons[polygon]
		corner := tangentID - offset
		if corner >= len(p.Tangents) {
			return false
		}
		return p.Tangents[corner].RightHanded
	}
	return false
}

func (m *Mesh) ColorCount() int {
	return len(m.colors)
}

func (m *Mesh) FaceVertexColor(polygon, corner int) (math.Vec4, bool) {
	p := m.polygons[polygon]
	if corner >= len(p.Colors) || p.Colors[corner] < 0 {
		return math.Vec4{}, false
	}
	return m.colors[p.Colors[corner]], true
}

func (m *Mesh) UVSetNames() []string {
	names := make([]string, len(m.uvSets))
	for i, set := range m.uvSets {
		names[i] = set.Name
	}
	return names
}

func (m *Mesh) UVCount(set int) int {
	if set < 0 || set >= len(m.uvSets) {
		return 0
	}
	return len(m.uvSets[set].UVs)
}

func (m *Mesh) PolygonUV(polygon, corner, set int) (math.Vec2, bool) {
	p := m.polygons[polygon]
	if set >= len(p.UVs) || corner >= len(p.UVs[set]) {
		return math.Vec2{}, false
	}
	index := p.UVs[set][corner]
	if index < 0 {
		return math.Vec2{}, false
	}
	return m.uvSets[set].UVs[index], true
}

func (m *Mesh) ConnectedShaders() ([]string, []int) {
	slots := make([]int, len(m.polygons))
	for i, p := range m.polygons {
		slots[i] = p.Shader
	}
	return m.shaders, slots
}
