package exporter

import (
	stdmath "math"

	"github.com/spaghettifunk/meshbake/engine/core"
	"github.com/spaghettifunk/meshbake/engine/math"
	"github.com/spaghettifunk/meshbake/engine/renderer/metadata"
)

// maxPackedBone is the largest bone index an 8-bit lane can hold.
const maxPackedBone = 0xff

// ExtractGeometry drives vertex extraction over every triangle of every
// material slot, producing the shared index buffer and one submesh per slot
// that emitted at least one triangle.
func ExtractGeometry(mesh SourceMesh, opts Options, diag core.Diagnostics) *metadata.ExportResult {
	polygonCount := mesh.PolygonCount()
	pointCount := mesh.PointCount()

	if polygonCount < 1 {
		diag.Error("Mesh %s has no face", mesh.Name())
	}
	if pointCount < 3 {
		diag.Error("Mesh %s has not enough vertices", mesh.Name())
	}
	if pointCount >= metadata.IndexWidthLimit {
		diag.Warning("Mesh %s has more than %d vertices which means that it will require specific extensions to be rendered. This may impact portability on low end devices.", mesh.Name(), metadata.IndexWidthLimit)
	}

	extractor := NewExtractor(mesh, opts)
	if extractor.Skinned() && opts.Skin.Bones.Sentinel() > maxPackedBone {
		diag.Warning("Skin %s has %d bones; bone indices above %d do not fit in 8 bits and will be truncated", opts.Skin.Binding.Name(), opts.Skin.Bones.Len(), maxPackedBone)
	}
	cache := NewVertexCache(pointCount, opts.OptimizeVertices)

	shaders, slots := mesh.ConnectedShaders()
	// export geometry even if the shader assignment is unusable
	materialCount := math.Max(1, len(shaders))
	checkShader := materialCount == len(shaders)
	if checkShader && len(slots) != polygonCount {
		diag.Warning("Mesh %s has %d shader assignments for %d polygons; exporting a single submesh", mesh.Name(), len(slots), polygonCount)
		checkShader = false
		materialCount = 1
	}
	core.LogDebug("mesh %s: %d shaders, %d material slots", mesh.Name(), len(shaders), materialCount)

	indices := make([]int, 0, polygonCount*6)
	subMeshes := make([]metadata.SubMesh, 0, materialCount)

	for slot := 0; slot < materialCount; slot++ {
		indexStart := len(indices)
		indexCount := 0
		minVertex := stdmath.MaxInt
		maxVertex := stdmath.MinInt

		for polygon := 0; polygon < polygonCount; polygon++ {
			if checkShader && slots[polygon] != slot {
				continue
			}

			polygonVertices := mesh.PolygonVertices(polygon)
			for _, triangle := range mesh.PolygonTriangles(polygon) {
				if !validTriangle(triangle, len(polygonVertices)) {
					core.LogDebug("mesh %s: skipping malformed triangle %v of polygon %d", mesh.Name(), triangle, polygon)
					continue
				}
				for _, corner := range triangle {
					point := polygonVertices[corner]
					vertex := extractor.ExtractVertex(polygon, point, corner)
					index := cache.Add(vertex)

					indices = append(indices, index)
					minVertex = math.Min(minVertex, index)
					maxVertex = math.Max(maxVertex, index)
					indexCount++
				}
			}
		}

		if indexCount != 0 {
			subMeshes = append(subMeshes, metadata.SubMesh{
				MaterialIndex: slot,
				IndexStart:    indexStart,
				IndexCount:    indexCount,
				VerticesStart: minVertex,
				VerticesCount: maxVertex - minVertex + 1,
			})
		}
	}

	if extractor.Truncated() {
		diag.Warning("Too many bones influences per vertex: %d. Only up to %d bones influences per vertex are supported.", extractor.LiveInfluences(), metadata.MaxBoneInfluences)
		diag.Warning("The result may not be as expected.")
	}

	result := &metadata.ExportResult{
		Vertices:            cache.Vertices(),
		Indices:             indices,
		SubMeshes:           subMeshes,
		Channels:            extractor.Channels(),
		InfluencesTruncated: extractor.Truncated(),
	}
	if extractor.Skinned() {
		result.NumBoneInfluencers = math.Min(extractor.MaxInfluences(), metadata.MaxBoneInfluences)
	}
	return result
}

func validTriangle(triangle [3]int, cornerCount int) bool {
	for _, corner := range triangle {
		if corner < 0 || corner >= cornerCount {
			return false
		}
	}
	return true
}
