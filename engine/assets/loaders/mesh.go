package loaders

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/exp/slices"

	"github.com/spaghettifunk/meshbake/engine/core"
	"github.com/spaghettifunk/meshbake/engine/math"
	"github.com/spaghettifunk/meshbake/engine/renderer/metadata"
	"github.com/spaghettifunk/meshbake/engine/scene"
)

// MeshExtension is the file suffix of mesh documents.
const MeshExtension = ".mesh.toml"

type uvSetDocument struct {
	Name string      `toml:"name"`
	UVs  [][]float32 `toml:"uvs"`
}

type polygonDocument struct {
	Vertices    []int       `toml:"vertices"`
	Triangles   [][]int     `toml:"triangles"`
	Normals     [][]float32 `toml:"normals"`
	Tangents    [][]float32 `toml:"tangents"`
	RightHanded []bool      `toml:"right_handed"`
	Colors      []int       `toml:"colors"`
	UVs         [][]int     `toml:"uvs"`
	Shader      int         `toml:"shader"`
}

type skinDocument struct {
	Name       string   `toml:"name"`
	Influences []string `toml:"influences"`
	// Weights maps a point id to one weight per influence.
	Weights map[string][]float64 `toml:"weights"`
}

type jointDocument struct {
	Name   string `toml:"name"`
	Parent int    `toml:"parent"`
}

type skeletonDocument struct {
	Name   string          `toml:"name"`
	Joints []jointDocument `toml:"joints"`
}

type meshDocument struct {
	Name     string            `toml:"name"`
	Shaders  []string          `toml:"shaders"`
	Points   [][]float32       `toml:"points"`
	Colors   [][]float32       `toml:"colors"`
	UVSets   []uvSetDocument   `toml:"uv_sets"`
	Polygons []polygonDocument `toml:"polygons"`
	Skin     *skinDocument     `toml:"skin"`
	Skeleton *skeletonDocument `toml:"skeleton"`
}

// MeshLoader reads .mesh.toml documents into a scene.Asset.
type MeshLoader struct{}

func (ml *MeshLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	asset, err := DecodeMesh(data, MeshName(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &metadata.Resource{
		Name:     asset.Mesh.Name(),
		FullPath: path,
		Type:     metadata.ResourceTypeMesh,
		DataSize: uint64(len(data)),
		Data:     asset,
	}, nil
}

func (ml *MeshLoader) Unload(res *metadata.Resource) error {
	if res == nil {
		return nil
	}
	res.Data = nil
	res.DataSize = 0
	return nil
}

// MeshName derives a mesh name from a document path.
func MeshName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), MeshExtension)
}

// DecodeMesh parses a mesh document. fallbackName is used when the document
// does not name the mesh.
func DecodeMesh(data []byte, fallbackName string) (*scene.Asset, error) {
	var doc meshDocument
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: %s", core.ErrMeshDocument, strict.String())
		}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return nil, fmt.Errorf("%w: line %d column %d: %v", core.ErrMeshDocument, row, col, decodeErr)
		}
		return nil, fmt.Errorf("%w: %v", core.ErrMeshDocument, err)
	}

	name := doc.Name
	if name == "" {
		name = fallbackName
	}

	points, err := toVec3s(doc.Points, "points")
	if err != nil {
		return nil, err
	}
	mesh := scene.NewMesh(name, points)

	if len(doc.Colors) > 0 {
		colors := make([]math.Vec4, len(doc.Colors))
		for i, c := range doc.Colors {
			if len(c) != 4 {
				return nil, fmt.Errorf("%w: color %d has %d components, want 4", core.ErrMeshDocument, i, len(c))
			}
			colors[i] = math.NewVec4(c[0], c[1], c[2], c[3])
		}
		mesh.SetColors(colors)
	}

	for _, set := range doc.UVSets {
		uvs := make([]math.Vec2, len(set.UVs))
		for i, uv := range set.UVs {
			if len(uv) != 2 {
				return nil, fmt.Errorf("%w: uv %d of set %s has %d components, want 2", core.ErrMeshDocument, i, set.Name, len(uv))
			}
			uvs[i] = math.NewVec2(uv[0], uv[1])
		}
		mesh.AddUVSet(set.Name, uvs)
	}

	mesh.SetShaders(doc.Shaders)

	for id, p := range doc.Polygons {
		polygon, err := decodePolygon(id, p)
		if err != nil {
			return nil, err
		}
		mesh.AddPolygon(polygon)
	}

	if err := mesh.Validate(); err != nil {
		return nil, err
	}

	asset := &scene.Asset{Mesh: mesh}
	if doc.Skin != nil {
		if asset.Skin, err = decodeSkin(doc.Skin, mesh.PointCount()); err != nil {
			return nil, err
		}
	}
	if doc.Skeleton != nil {
		asset.Skeleton = &scene.Skeleton{Name: doc.Skeleton.Name}
		for _, j := range doc.Skeleton.Joints {
			asset.Skeleton.Joints = append(asset.Skeleton.Joints, scene.Joint{Name: j.Name, Parent: j.Parent})
		}
	}
	return asset, nil
}

func decodePolygon(id int, p polygonDocument) (scene.Polygon, error) {
	polygon := scene.Polygon{
		Vertices: p.Vertices,
		Colors:   p.Colors,
		UVs:      p.UVs,
		Shader:   p.Shader,
	}

	if p.Triangles != nil {
		polygon.Triangles = make([][3]int, len(p.Triangles))
		for i, tri := range p.Triangles {
			if len(tri) != 3 {
				return scene.Polygon{}, fmt.Errorf("%w: polygon %d triangle %d has %d corners", core.ErrMeshDocument, id, i, len(tri))
			}
			polygon.Triangles[i] = [3]int{tri[0], tri[1], tri[2]}
		}
	}

	if p.Normals != nil {
		normals, err := toVec3s(p.Normals, fmt.Sprintf("polygon %d normals", id))
		if err != nil {
			return scene.Polygon{}, err
		}
		polygon.Normals = normals
	}

	if p.Tangents != nil {
		vectors, err := toVec3s(p.Tangents, fmt.Sprintf("polygon %d tangents", id))
		if err != nil {
			return scene.Polygon{}, err
		}
		polygon.Tangents = make([]scene.Tangent, len(vectors))
		for i, v := range vectors {
			polygon.Tangents[i] = scene.Tangent{Vector: v}
			if i < len(p.RightHanded) {
				polygon.Tangents[i].RightHanded = p.RightHanded[i]
			}
		}
	}
	return polygon, nil
}

func decodeSkin(doc *skinDocument, pointCount int) (*scene.Skin, error) {
	skin := scene.NewSkin(doc.Name, doc.Influences)

	points := make([]int, 0, len(doc.Weights))
	byPoint := make(map[int][]float64, len(doc.Weights))
	for key, weights := range doc.Weights {
		point, err := strconv.Atoi(key)
		if err != nil || point < 0 || point >= pointCount {
			return nil, fmt.Errorf("%w: skin %s has weights for unknown point %q", core.ErrMeshDocument, doc.Name, key)
		}
		points = append(points, point)
		byPoint[point] = weights
	}
	slices.Sort(points)

	for _, point := range points {
		if err := skin.SetWeights(point, byPoint[point]); err != nil {
			return nil, err
		}
	}
	return skin, nil
}

func toVec3s(values [][]float32, what string) ([]math.Vec3, error) {
	out := make([]math.Vec3, len(values))
	for i, v := range values {
		if len(v) != 3 {
			return nil, fmt.Errorf("%w: %s entry %d has %d components, want 3", core.ErrMeshDocument, what, i, len(v))
		}
		out[i] = math.NewVec3(v[0], v[1], v[2])
	}
	return out, nil
}
