package exporter

import (
	"github.com/spaghettifunk/meshbake/engine/core"
	"github.com/spaghettifunk/meshbake/engine/renderer/metadata"
)

// ExportMesh extracts the render buffers of a mesh and flattens them into a
// mesh record. Mesh level problems are reported to diag and never abort the
// export; the only error is a nil mesh.
func ExportMesh(mesh SourceMesh, opts Options, diag core.Diagnostics) (*metadata.MeshRecord, *metadata.ExportResult, error) {
	if mesh == nil {
		return nil, nil, core.ErrNoMesh
	}
	if diag == nil {
		diag = core.NewLogDiagnostics(mesh.Name())
	}
	// a skin missing its binding or bone table exports as unskinned
	if !opts.ExportSkin || !opts.Skin.bound() {
		opts.Skin = nil
	}

	diag.Message("%s", mesh.Name())
	if opts.Skin != nil {
		diag.Message("skin %s: %d influences, %d resolvable bones", opts.Skin.Binding.Name(), len(opts.Skin.Binding.InfluenceNames()), opts.Skin.Bones.Len())
	}

	result := ExtractGeometry(mesh, opts, diag)

	vertexCount := len(result.Vertices)
	if vertexCount >= metadata.IndexWidthLimit {
		diag.Warning("Mesh %s has %d vertices. This may prevent your scene to work on low end devices where 32 bits indices are not supported", mesh.Name(), vertexCount)
		if !opts.OptimizeVertices {
			diag.Error("You can try to optimize your object using the optimize vertices option")
		}
	}

	uvSetNames := mesh.UVSetNames()
	for set := 0; set < len(uvSetNames) && set < maxUVSets; set++ {
		ok := result.Channels.UV0
		if set == 1 {
			ok = result.Channels.UV1
		}
		// at least one vertex is mapped to a UV coordinate but some have failed
		if !ok && mesh.UVCount(set) > 0 {
			diag.Warning("Failed to export UV set named %s. Ensure all vertices are mapped to a UV coordinate.", uvSetNames[set])
		}
	}

	diag.Message("%d vertices, %d faces", vertexCount, len(result.Indices)/3)

	return BuildRecord(mesh, opts, result), result, nil
}

// BuildRecord flattens an export result into the serialized mesh layout.
func BuildRecord(mesh SourceMesh, opts Options, result *metadata.ExportResult) *metadata.MeshRecord {
	vertices := result.Vertices
	record := &metadata.MeshRecord{
		Name:      mesh.Name(),
		ID:        core.MeshID(mesh.Name()),
		Positions: make([]float32, 0, len(vertices)*3),
		Normals:   make([]float32, 0, len(vertices)*3),
		Indices:   result.Indices,
		SubMeshes: result.SubMeshes,
	}

	for _, v := range vertices {
		record.Positions = append(record.Positions, v.Position.X, v.Position.Y, v.Position.Z)
		record.Normals = append(record.Normals, v.Normal.X, v.Normal.Y, v.Normal.Z)
	}

	if result.Channels.Tangent && len(vertices) > 0 {
		record.Tangents = make([]float32, 0, len(vertices)*4)
		for _, v := range vertices {
			record.Tangents = append(record.Tangents, v.Tangent.X, v.Tangent.Y, v.Tangent.Z, v.Tangent.W)
		}
	}

	if mesh.ColorCount() > 0 {
		record.Colors = make([]float32, 0, len(vertices)*4)
		for _, v := range vertices {
			record.Colors = append(record.Colors, v.Color.X, v.Color.Y, v.Color.Z, v.Color.W)
		}
	}

	if result.Channels.UV0 {
		record.UVs = make([]float32, 0, len(vertices)*2)
		for _, v := range vertices {
			record.UVs = append(record.UVs, v.UV.X, v.UV.Y)
		}
	}
	if result.Channels.UV1 {
		record.UVs2 = make([]float32, 0, len(vertices)*2)
		for _, v := range vertices {
			record.UVs2 = append(record.UVs2, v.UV2.X, v.UV2.Y)
		}
	}

	if opts.ExportSkin && opts.Skin.bound() {
		flattenSkin(record, opts.Skin, result)
	}

	shaders, _ := mesh.ConnectedShaders()
	if len(shaders) > 0 {
		record.Materials = append([]string(nil), shaders...)
	}

	return record
}

func flattenSkin(record *metadata.MeshRecord, skin *Skin, result *metadata.ExportResult) {
	vertices := result.Vertices
	sentinel := skin.Bones.Sentinel()

	record.SkeletonID = skin.SkeletonID
	record.Bones = skin.Bones.Names()
	record.NumBoneInfluencers = result.NumBoneInfluencers
	record.MatricesIndices = make([]uint32, 0, len(vertices))
	record.MatricesWeights = make([]float32, 0, len(vertices)*4)
	for _, v := range vertices {
		record.MatricesIndices = append(record.MatricesIndices, v.BonesIndices)
		record.MatricesWeights = append(record.MatricesWeights, v.Weights[:]...)
	}

	if result.NumBoneInfluencers <= metadata.BonesPerQuad {
		return
	}

	padding := metadata.PackBoneIndices([4]int{sentinel, sentinel, sentinel, sentinel})
	record.MatricesIndicesExtra = make([]uint32, 0, len(vertices))
	record.MatricesWeightsExtra = make([]float32, 0, len(vertices)*4)
	for _, v := range vertices {
		if v.HasSkinExtra {
			record.MatricesIndicesExtra = append(record.MatricesIndicesExtra, v.BonesIndicesExtra)
			record.MatricesWeightsExtra = append(record.MatricesWeightsExtra, v.WeightsExtra[:]...)
			continue
		}
		record.MatricesIndicesExtra = append(record.MatricesIndicesExtra, padding)
		record.MatricesWeightsExtra = append(record.MatricesWeightsExtra, 0, 0, 0, 0)
	}
}
