package exporter

import (
	"errors"
	"strings"
	"testing"

	"github.com/spaghettifunk/meshbake/engine/core"
	"github.com/spaghettifunk/meshbake/engine/math"
	"github.com/spaghettifunk/meshbake/engine/renderer/metadata"
)

func TestExportMeshNil(t *testing.T) {
	if _, _, err := ExportMesh(nil, Options{}, nil); !errors.Is(err, core.ErrNoMesh) {
		t.Errorf("err = %v, want ErrNoMesh", err)
	}
}

func TestExportMeshRecord(t *testing.T) {
	mesh := twoTriangles()
	mesh.uvSets = []string{"map1", "map2"}
	mesh.colors = 4
	mesh.shaders = []string{"red", "blue"}
	mesh.polygons[1].slot = 1

	diag := core.NewDiagnosticRecorder()
	record, result, err := ExportMesh(mesh, Options{OptimizeVertices: true, ExportTangents: true}, diag)
	if err != nil {
		t.Fatalf("ExportMesh: %v", err)
	}

	n := len(result.Vertices)
	if record.VertexCount() != n {
		t.Errorf("record holds %d vertices, result %d", record.VertexCount(), n)
	}
	lengths := map[string][2]int{
		"normals":  {len(record.Normals), 3 * n},
		"tangents": {len(record.Tangents), 4 * n},
		"colors":   {len(record.Colors), 4 * n},
		"uvs":      {len(record.UVs), 2 * n},
		"uvs2":     {len(record.UVs2), 2 * n},
	}
	for name, l := range lengths {
		if l[0] != l[1] {
			t.Errorf("%s has %d values, want %d", name, l[0], l[1])
		}
	}
	if record.ID != core.MeshID("quad") {
		t.Errorf("id = %q", record.ID)
	}
	if len(record.Materials) != 2 || len(record.SubMeshes) != 2 {
		t.Errorf("materials %v submeshes %+v", record.Materials, record.SubMeshes)
	}
	if record.MatricesIndices != nil || record.NumBoneInfluencers != 0 {
		t.Error("unskinned mesh must not carry bone data")
	}

	var summary bool
	for _, e := range diag.Entries() {
		if e.Severity == core.SeverityMessage && e.Text == "4 vertices, 2 faces" {
			summary = true
		}
	}
	if !summary {
		t.Errorf("missing summary in %v", diag.Entries())
	}
}

func TestExportMeshUVFailure(t *testing.T) {
	mesh := twoTriangles()
	mesh.uvSets = []string{"map1", "map2"}
	mesh.polygons[1].unmappedUV = []int{1}

	diag := core.NewDiagnosticRecorder()
	record, _, err := ExportMesh(mesh, Options{OptimizeVertices: true}, diag)
	if err != nil {
		t.Fatal(err)
	}

	if record.UVs == nil || record.UVs2 != nil {
		t.Errorf("uvs %v uvs2 %v, want only the first set", record.UVs, record.UVs2)
	}
	var warned bool
	for _, e := range diag.Entries() {
		if e.Severity == core.SeverityWarning && strings.Contains(e.Text, "Failed to export UV set named map2") {
			warned = true
		}
	}
	if !warned {
		t.Errorf("missing UV warning in %v", diag.Entries())
	}
}

func TestExportMeshSkinExtras(t *testing.T) {
	names := boneNames(6)
	skin := &fakeSkin{
		influences: names,
		weights: map[int][]float64{
			0: {0.3, 0.25, 0.2, 0.1, 0.1, 0.05},
			1: {0, 1},
		},
	}
	opts := Options{
		OptimizeVertices: true,
		ExportSkin:       true,
		Skin:             &Skin{Binding: skin, Bones: NewBoneTable(names), SkeletonID: "skel"},
	}

	record, result, err := ExportMesh(newQuad(), opts, core.NewDiagnosticRecorder())
	if err != nil {
		t.Fatal(err)
	}

	n := len(result.Vertices)
	if record.NumBoneInfluencers != 6 {
		t.Errorf("influencers = %d, want 6", record.NumBoneInfluencers)
	}
	if record.SkeletonID != "skel" || len(record.Bones) != 6 {
		t.Errorf("skeleton %q bones %v", record.SkeletonID, record.Bones)
	}
	if len(record.MatricesIndices) != n || len(record.MatricesWeights) != 4*n {
		t.Errorf("primary skin arrays sized %d/%d for %d vertices", len(record.MatricesIndices), len(record.MatricesWeights), n)
	}
	if len(record.MatricesIndicesExtra) != n || len(record.MatricesWeightsExtra) != 4*n {
		t.Fatalf("extra skin arrays sized %d/%d for %d vertices", len(record.MatricesIndicesExtra), len(record.MatricesWeightsExtra), n)
	}

	padding := metadata.PackBoneIndices([4]int{6, 6, 6, 6})
	for i, v := range result.Vertices {
		if v.BaseIndex == 0 {
			if got := metadata.UnpackBoneIndices(record.MatricesIndicesExtra[i]); got != [4]uint8{4, 5, 6, 6} {
				t.Errorf("point 0 extra bones = %v", got)
			}
			continue
		}
		if record.MatricesIndicesExtra[i] != padding {
			t.Errorf("vertex %d extra bones = %#x, want sentinel padding", i, record.MatricesIndicesExtra[i])
		}
		for _, w := range record.MatricesWeightsExtra[4*i : 4*i+4] {
			if w != 0 {
				t.Errorf("vertex %d padded extra weights must be zero", i)
			}
		}
	}
}

func TestExportMeshSkinWithoutExtras(t *testing.T) {
	names := boneNames(2)
	skin := &fakeSkin{influences: names, weights: map[int][]float64{0: {0.5, 0.5}}}
	opts := Options{
		OptimizeVertices: true,
		ExportSkin:       true,
		Skin:             &Skin{Binding: skin, Bones: NewBoneTable(names)},
	}

	record, _, err := ExportMesh(newQuad(), opts, core.NewDiagnosticRecorder())
	if err != nil {
		t.Fatal(err)
	}
	if record.NumBoneInfluencers != 2 {
		t.Errorf("influencers = %d, want 2", record.NumBoneInfluencers)
	}
	if record.MatricesIndicesExtra != nil || record.MatricesWeightsExtra != nil {
		t.Error("extra arrays must be omitted with at most 4 influences")
	}
}

func TestExportMeshIncompleteSkin(t *testing.T) {
	names := boneNames(2)
	binding := &fakeSkin{influences: names, weights: map[int][]float64{0: {1}}}
	tests := []struct {
		name string
		skin *Skin
	}{
		{"no bone table", &Skin{Binding: binding}},
		{"no binding", &Skin{Bones: NewBoneTable(names)}},
		{"nil skin", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{OptimizeVertices: true, ExportSkin: true, Skin: tt.skin}
			record, result, err := ExportMesh(newQuad(), opts, core.NewDiagnosticRecorder())
			if err != nil {
				t.Fatal(err)
			}
			if len(result.Vertices) != 4 {
				t.Errorf("%d vertices, want 4", len(result.Vertices))
			}
			if record.MatricesIndices != nil || record.Bones != nil || record.NumBoneInfluencers != 0 {
				t.Error("a skin without binding and bone table must export as unskinned")
			}
		})
	}
}

// stripMesh returns count points along a line, covered by a strip of triangles.
func stripMesh(count int) *fakeMesh {
	mesh := &fakeMesh{name: "strip", points: make([]math.Vec3, count)}
	for i := range mesh.points {
		mesh.points[i] = math.Vec3{X: float32(i / 2), Y: float32(i % 2)}
	}
	mesh.polygons = make([]fakePolygon, 0, count-2)
	for i := 0; i+2 < count; i++ {
		mesh.polygons = append(mesh.polygons, fakePolygon{vertices: []int{i, i + 1, i + 2}})
	}
	return mesh
}

func TestExportMeshIndexWidth(t *testing.T) {
	tests := []struct {
		name     string
		optimize bool
		vertices int
		warnings int
		errors   int
	}{
		// point count and output vertex count both reach the 16-bit limit
		{"optimized", true, metadata.IndexWidthLimit, 2, 0},
		{"unoptimized", false, 3 * (metadata.IndexWidthLimit - 2), 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diag := core.NewDiagnosticRecorder()
			_, result, err := ExportMesh(stripMesh(metadata.IndexWidthLimit), Options{OptimizeVertices: tt.optimize}, diag)
			if err != nil {
				t.Fatal(err)
			}
			if len(result.Vertices) != tt.vertices {
				t.Errorf("%d vertices, want %d", len(result.Vertices), tt.vertices)
			}
			if n := diag.Count(core.SeverityWarning); n != tt.warnings {
				t.Errorf("%d warnings, want %d: %v", n, tt.warnings, diag.Entries())
			}
			if n := diag.Count(core.SeverityError); n != tt.errors {
				t.Errorf("%d errors, want %d", n, tt.errors)
			}
		})
	}
}
