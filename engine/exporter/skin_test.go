package exporter

import (
	stdmath "math"
	"testing"

	"github.com/spaghettifunk/meshbake/engine/renderer/metadata"
)

const weightTolerance = 1e-5

func near(a, b float64) bool {
	return stdmath.Abs(a-b) <= weightTolerance
}

func weightSum(wr WeightResult) float64 {
	total := 0.0
	for _, w := range wr.Weights {
		total += float64(w)
	}
	if wr.HasExtra {
		for _, w := range wr.WeightsExtra {
			total += float64(w)
		}
	}
	return total
}

func boneNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = string(rune('a' + i))
	}
	return names
}

func TestResolveWeightsTruncatesToEight(t *testing.T) {
	names := boneNames(10)
	skin := &fakeSkin{
		influences: names,
		weights:    map[int][]float64{0: {5, 4, 3, 2, 1, 1, 1, 1, 1, 1}},
	}
	bones := NewBoneTable(names)

	wr := ResolveWeights(0, skin, bones, false)

	if !wr.Truncated {
		t.Fatal("expected truncation with 10 influences")
	}
	if wr.LiveInfluences != 10 || wr.Influences != 8 {
		t.Errorf("influences: live %d emitted %d, want 10 and 8", wr.LiveInfluences, wr.Influences)
	}
	if got := metadata.UnpackBoneIndices(wr.BonesIndices); got != [4]uint8{0, 1, 2, 3} {
		t.Errorf("primary bones = %v, want [0 1 2 3]", got)
	}
	primary := []float64{5.0 / 18, 4.0 / 18, 3.0 / 18, 2.0 / 18}
	for i, want := range primary {
		if !near(float64(wr.Weights[i]), want) {
			t.Errorf("weight[%d] = %v, want %v", i, wr.Weights[i], want)
		}
	}
	if !wr.HasExtra {
		t.Fatal("expected extra influences")
	}
	// ties keep enumeration order
	if got := metadata.UnpackBoneIndices(wr.BonesIndicesExtra); got != [4]uint8{4, 5, 6, 7} {
		t.Errorf("extra bones = %v, want [4 5 6 7]", got)
	}
	for i, w := range wr.WeightsExtra {
		if !near(float64(w), 1.0/18) {
			t.Errorf("extra weight[%d] = %v, want 1/18", i, w)
		}
	}
	if !near(weightSum(wr), 1) {
		t.Errorf("weights sum to %v, want 1", weightSum(wr))
	}
}

func TestResolveWeightsNoInfluence(t *testing.T) {
	names := boneNames(3)
	skin := &fakeSkin{
		influences: names,
		weights:    map[int][]float64{0: {0, 0, 0}},
	}
	bones := NewBoneTable(names)

	wr := ResolveWeights(0, skin, bones, false)

	if got := metadata.UnpackBoneIndices(wr.BonesIndices); got != [4]uint8{3, 3, 3, 3} {
		t.Errorf("bones = %v, want sentinel in every lane", got)
	}
	if wr.Weights != [4]float32{1, 0, 0, 0} {
		t.Errorf("weights = %v, want [1 0 0 0]", wr.Weights)
	}
	if wr.HasExtra || wr.Truncated || wr.Influences != 1 {
		t.Errorf("unexpected result %+v", wr)
	}
}

func TestResolveWeightsFiltering(t *testing.T) {
	tests := []struct {
		name       string
		influences []string
		table      []string
		weights    []float64
		wantBones  [4]uint8
		wantWeight [4]float32
		wantCount  int
	}{
		{
			name:       "already normalized",
			influences: []string{"hip", "knee"},
			table:      []string{"hip", "knee"},
			weights:    []float64{0.25, 0.75},
			wantBones:  [4]uint8{1, 0, 2, 2},
			wantWeight: [4]float32{0.75, 0.25, 0, 0},
			wantCount:  2,
		},
		{
			name:       "normalizes",
			influences: []string{"hip", "knee"},
			table:      []string{"hip", "knee"},
			weights:    []float64{2, 2},
			wantBones:  [4]uint8{0, 1, 2, 2},
			wantWeight: [4]float32{0.5, 0.5, 0, 0},
			wantCount:  2,
		},
		{
			name:       "unresolved name dropped",
			influences: []string{"hip", "locator", "knee"},
			table:      []string{"hip", "knee"},
			weights:    []float64{0.5, 0.3, 0.5},
			wantBones:  [4]uint8{0, 1, 2, 2},
			wantWeight: [4]float32{0.5, 0.5, 0, 0},
			wantCount:  2,
		},
		{
			name:       "negative weight dropped",
			influences: []string{"hip", "knee"},
			table:      []string{"hip", "knee"},
			weights:    []float64{-0.5, 1},
			wantBones:  [4]uint8{1, 2, 2, 2},
			wantWeight: [4]float32{1, 0, 0, 0},
			wantCount:  1,
		},
		{
			name:       "duplicate bone keeps first",
			influences: []string{"hip", "hip", "knee"},
			table:      []string{"hip", "knee"},
			weights:    []float64{0.2, 0.6, 0.2},
			wantBones:  [4]uint8{0, 1, 2, 2},
			wantWeight: [4]float32{0.5, 0.5, 0, 0},
			wantCount:  2,
		},
	}

	for _, tt := range tests {
		skin := &fakeSkin{influences: tt.influences, weights: map[int][]float64{0: tt.weights}}
		wr := ResolveWeights(0, skin, NewBoneTable(tt.table), false)

		if got := metadata.UnpackBoneIndices(wr.BonesIndices); got != tt.wantBones {
			t.Errorf("%s: bones = %v, want %v", tt.name, got, tt.wantBones)
		}
		for i := range tt.wantWeight {
			if !near(float64(wr.Weights[i]), float64(tt.wantWeight[i])) {
				t.Errorf("%s: weights = %v, want %v", tt.name, wr.Weights, tt.wantWeight)
				break
			}
		}
		if wr.Influences != tt.wantCount {
			t.Errorf("%s: influences = %d, want %d", tt.name, wr.Influences, tt.wantCount)
		}
		if wr.HasExtra {
			t.Errorf("%s: unexpected extra influences", tt.name)
		}
	}
}

func TestResolveWeightsSixInfluences(t *testing.T) {
	names := boneNames(6)
	skin := &fakeSkin{
		influences: names,
		weights:    map[int][]float64{0: {0.3, 0.25, 0.2, 0.1, 0.1, 0.05}},
	}

	wr := ResolveWeights(0, skin, NewBoneTable(names), false)

	if wr.Truncated {
		t.Error("six influences must not be truncated")
	}
	if !wr.HasExtra || wr.Influences != 6 {
		t.Fatalf("expected 6 influences with extras, got %+v", wr)
	}
	if got := metadata.UnpackBoneIndices(wr.BonesIndicesExtra); got != [4]uint8{4, 5, 6, 6} {
		t.Errorf("extra bones = %v, want [4 5 6 6]", got)
	}
	if wr.WeightsExtra[2] != 0 || wr.WeightsExtra[3] != 0 {
		t.Errorf("padded extra lanes must have zero weight: %v", wr.WeightsExtra)
	}
	if !near(weightSum(wr), 1) {
		t.Errorf("weights sum to %v, want 1", weightSum(wr))
	}
}

func TestResolveWeightsLegacyExtra(t *testing.T) {
	names := boneNames(7)
	skin := &fakeSkin{
		influences: names,
		weights:    map[int][]float64{0: {0.3, 0.2, 0.15, 0.1, 0.1, 0.1, 0.05}},
	}

	wr := ResolveWeights(0, skin, NewBoneTable(names), true)

	fifth := wr.WeightsExtra[0]
	if wr.WeightsExtra[1] != fifth || wr.WeightsExtra[2] != fifth {
		t.Errorf("legacy lanes 1 and 2 must repeat the 5th weight, got %v", wr.WeightsExtra)
	}
	if wr.WeightsExtra[3] != 0 {
		t.Errorf("lane 3 is padding, got %v", wr.WeightsExtra[3])
	}
}

func TestBoneTable(t *testing.T) {
	bt := NewBoneTable([]string{"root", "spine", "root", "head"})
	if bt.Len() != 3 || bt.Sentinel() != 3 {
		t.Errorf("len %d sentinel %d, want 3 and 3", bt.Len(), bt.Sentinel())
	}
	if i, ok := bt.Lookup("head"); !ok || i != 2 {
		t.Errorf("Lookup(head) = %d, %v", i, ok)
	}
	if _, ok := bt.Lookup("tail"); ok {
		t.Error("Lookup(tail) must fail")
	}
	names := bt.Names()
	names[0] = "changed"
	if bt.Names()[0] != "root" {
		t.Error("Names must return a copy")
	}
}
