package metadata

import (
	"github.com/spaghettifunk/meshbake/engine/math"
)

/** @brief The number of bone influences stored in one packed quadruple. */
const BonesPerQuad int = 4

/** @brief The maximum number of bone influences per vertex (primary + extra quadruple). */
const MaxBoneInfluences int = 2 * BonesPerQuad

/**
 * @brief Represents one render-ready vertex: a global point combined with
 * one specific face-corner's attributes. Optional channels carry a Has* flag;
 * an unset channel never participates in equality.
 */
type GlobalVertex struct {
	/** @brief The global point this vertex was extracted from. */
	BaseIndex int
	/** @brief The index of this vertex in the output buffer, -1 until accepted. */
	CurrentIndex int

	/** @brief The position of the vertex, in the left-handed runtime convention. */
	Position math.Vec3
	/** @brief The face-corner normal of the vertex. */
	Normal math.Vec3

	HasTangent bool
	/** @brief The tangent; W holds the handedness sign (-1 or +1). */
	Tangent math.Vec4

	HasColor bool
	/** @brief The face-corner colour. */
	Color math.Vec4

	HasUV bool
	/** @brief The texture coordinate of the first UV set. */
	UV math.Vec2

	HasUV2 bool
	/** @brief The texture coordinate of the second UV set. */
	UV2 math.Vec2

	HasSkin bool
	/** @brief Four 8-bit bone indices packed into one word, bone0 in the low byte. */
	BonesIndices uint32
	/** @brief Weights matching BonesIndices lane by lane. */
	Weights [4]float32

	HasSkinExtra bool
	/** @brief Influences 5 to 8, packed like BonesIndices. */
	BonesIndicesExtra uint32
	/** @brief Weights matching BonesIndicesExtra lane by lane. */
	WeightsExtra [4]float32
}

/**
 * @brief Reports whether two vertices carry the same populated fields.
 * Floats are compared exactly: two vertices derived identically from the same
 * source data compare equal, anything else is a distinct vertex.
 *
 * @param a The first vertex.
 * @param b The second vertex.
 * @return True if every populated field matches.
 */
func VerticesEqual(a, b GlobalVertex) bool {
	if a.Position != b.Position || a.Normal != b.Normal {
		return false
	}
	if a.HasTangent != b.HasTangent || (a.HasTangent && a.Tangent != b.Tangent) {
		return false
	}
	if a.HasColor != b.HasColor || (a.HasColor && a.Color != b.Color) {
		return false
	}
	if a.HasUV != b.HasUV || (a.HasUV && a.UV != b.UV) {
		return false
	}
	if a.HasUV2 != b.HasUV2 || (a.HasUV2 && a.UV2 != b.UV2) {
		return false
	}
	if a.HasSkin != b.HasSkin || (a.HasSkin && (a.BonesIndices != b.BonesIndices || a.Weights != b.Weights)) {
		return false
	}
	if a.HasSkinExtra != b.HasSkinExtra || (a.HasSkinExtra && (a.BonesIndicesExtra != b.BonesIndicesExtra || a.WeightsExtra != b.WeightsExtra)) {
		return false
	}
	return true
}

/**
 * @brief Packs four bone indices into one word: bone0 | bone1<<8 | bone2<<16 | bone3<<24.
 * Each index is truncated to its 8-bit lane.
 */
func PackBoneIndices(bones [4]int) uint32 {
	return uint32(bones[0]&0xff) |
		uint32(bones[1]&0xff)<<8 |
		uint32(bones[2]&0xff)<<16 |
		uint32(bones[3]&0xff)<<24
}

/**
 * @brief Unpacks a word produced by PackBoneIndices into its four 8-bit lanes.
 */
func UnpackBoneIndices(packed uint32) [4]uint8 {
	return [4]uint8{
		uint8(packed),
		uint8(packed >> 8),
		uint8(packed >> 16),
		uint8(packed >> 24),
	}
}
