package metadata

/** @brief The vertex count from which 16-bit index buffers are no longer sufficient. */
const IndexWidthLimit int = 65536

/**
 * @brief A contiguous range of the index buffer drawn with one material,
 * plus the tight range of output vertices it references.
 */
type SubMesh struct {
	MaterialIndex int `json:"materialIndex"`
	IndexStart    int `json:"indexStart"`
	IndexCount    int `json:"indexCount"`
	VerticesStart int `json:"verticesStart"`
	VerticesCount int `json:"verticesCount"`
}

/**
 * @brief Mesh-wide success flags of the optional channels. Once a flag
 * turns false it stays false for the rest of the mesh.
 */
type ChannelStatus struct {
	Tangent bool
	UV0     bool
	UV1     bool
}

/**
 * @brief The render buffers produced for one mesh.
 */
type ExportResult struct {
	/** @brief Output vertices, in first-seen order. */
	Vertices []GlobalVertex
	/** @brief Triangle list indexing into Vertices. */
	Indices []int
	/** @brief One entry per material slot with at least one triangle, ascending slot order. */
	SubMeshes []SubMesh
	/** @brief Final state of the sticky channel flags. */
	Channels ChannelStatus
	/** @brief The largest number of live influences seen on a vertex, capped at MaxBoneInfluences. */
	NumBoneInfluencers int
	/** @brief Set when at least one vertex had more than MaxBoneInfluences influences. */
	InfluencesTruncated bool
}

/**
 * @brief The serialized mesh record built from an ExportResult: flat attribute
 * arrays, indices, submeshes and bone influence metadata. Optional arrays are
 * omitted when the corresponding channel was not exported.
 */
type MeshRecord struct {
	Name       string `json:"name"`
	ID         string `json:"id"`
	SkeletonID string `json:"skeletonId,omitempty"`

	Positions []float32 `json:"positions"`
	Normals   []float32 `json:"normals"`
	Tangents  []float32 `json:"tangents,omitempty"`
	Colors    []float32 `json:"colors,omitempty"`
	UVs       []float32 `json:"uvs,omitempty"`
	UVs2      []float32 `json:"uvs2,omitempty"`

	MatricesIndices      []uint32  `json:"matricesIndices,omitempty"`
	MatricesWeights      []float32 `json:"matricesWeights,omitempty"`
	MatricesIndicesExtra []uint32  `json:"matricesIndicesExtra,omitempty"`
	MatricesWeightsExtra []float32 `json:"matricesWeightsExtra,omitempty"`
	NumBoneInfluencers   int       `json:"numBoneInfluencers,omitempty"`
	// Bones lists the bone names in index order; the sentinel index equals len(Bones).
	Bones []string `json:"bones,omitempty"`

	Indices   []int     `json:"indices"`
	SubMeshes []SubMesh `json:"subMeshes"`
	// Materials names the material of each submesh slot, when known.
	Materials []string `json:"materials,omitempty"`
}

/** @brief Returns the number of vertices stored in the record. */
func (mr *MeshRecord) VertexCount() int {
	return len(mr.Positions) / 3
}
