package exporter

import (
	"golang.org/x/exp/slices"

	"github.com/spaghettifunk/meshbake/engine/renderer/metadata"
)

type boneWeight struct {
	bone   int
	weight float64
}

// WeightResult is the bounded bone encoding of one point.
type WeightResult struct {
	BonesIndices uint32
	Weights      [4]float32

	HasExtra          bool
	BonesIndicesExtra uint32
	WeightsExtra      [4]float32

	// Influences is the number of emitted (non padding) influences, at most
	// MaxBoneInfluences. The synthetic sentinel influence counts as one.
	Influences int
	// LiveInfluences is the number of resolved influences before truncation.
	LiveInfluences int
	Truncated      bool
}

// ResolveWeights derives the bone indices and weights of a point.
//
// Non-positive weights and influences missing from the bone table are
// dropped; when an influence resolves to a bone already seen the first one
// wins. Surviving weights are normalized, sorted by decreasing weight (stable
// on enumeration order) and truncated to MaxBoneInfluences. A point without
// any surviving influence gets weight 1 on the sentinel bone.
func ResolveWeights(point int, binding SkinBinding, bones *BoneTable, legacyExtra bool) WeightResult {
	pairs := collectWeights(binding.PointInfluences(point), bones)
	sentinel := bones.Sentinel()

	if len(pairs) == 0 {
		return WeightResult{
			BonesIndices: metadata.PackBoneIndices([4]int{sentinel, sentinel, sentinel, sentinel}),
			Weights:      [4]float32{1, 0, 0, 0},
			Influences:   1,
		}
	}

	normalize(pairs)

	slices.SortStableFunc(pairs, func(a, b boneWeight) int {
		switch {
		case a.weight > b.weight:
			return -1
		case a.weight < b.weight:
			return 1
		default:
			return 0
		}
	})

	res := WeightResult{LiveInfluences: len(pairs)}
	if len(pairs) > metadata.MaxBoneInfluences {
		// drop the lowest weights, then bring the survivors back to a unit sum
		pairs = pairs[:metadata.MaxBoneInfluences]
		normalize(pairs)
		res.Truncated = true
	}
	res.Influences = len(pairs)

	primary := pairs
	if len(primary) > metadata.BonesPerQuad {
		primary = primary[:metadata.BonesPerQuad]
	}
	res.BonesIndices, res.Weights = packQuad(primary, sentinel)

	if len(pairs) > metadata.BonesPerQuad {
		extra := pairs[metadata.BonesPerQuad:]
		res.HasExtra = true
		res.BonesIndicesExtra, res.WeightsExtra = packQuad(extra, sentinel)
		if legacyExtra {
			// historical output: lanes 1 and 2 repeat the 5th influence's weight
			for lane := 1; lane <= 2 && lane < len(extra); lane++ {
				res.WeightsExtra[lane] = float32(extra[0].weight)
			}
		}
	}
	return res
}

func collectWeights(influences []Influence, bones *BoneTable) []boneWeight {
	pairs := make([]boneWeight, 0, len(influences))
	for _, influence := range influences {
		if influence.Weight <= 0 {
			continue
		}
		bone, ok := bones.Lookup(influence.Name)
		if !ok {
			continue
		}
		if containsBone(pairs, bone) {
			continue
		}
		pairs = append(pairs, boneWeight{bone: bone, weight: influence.Weight})
	}
	return pairs
}

func containsBone(pairs []boneWeight, bone int) bool {
	for _, p := range pairs {
		if p.bone == bone {
			return true
		}
	}
	return false
}

// normalize scales weights to sum to one, leaving an exact unit sum untouched.
func normalize(pairs []boneWeight) {
	total := 0.0
	for _, p := range pairs {
		total += p.weight
	}
	if total == 1 || total == 0 {
		return
	}
	for i := range pairs {
		pairs[i].weight /= total
	}
}

// packQuad fills up to four lanes, padding empty ones with the sentinel bone
// and a zero weight.
func packQuad(pairs []boneWeight, sentinel int) (uint32, [4]float32) {
	bones := [4]int{sentinel, sentinel, sentinel, sentinel}
	var weights [4]float32
	for i := 0; i < len(pairs) && i < metadata.BonesPerQuad; i++ {
		bones[i] = pairs[i].bone
		weights[i] = float32(pairs[i].weight)
	}
	return metadata.PackBoneIndices(bones), weights
}
