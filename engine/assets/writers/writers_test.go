package writers

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/spaghettifunk/meshbake/engine/core"
	"github.com/spaghettifunk/meshbake/engine/renderer/metadata"
)

// twoSlotRecord is a quad split across two materials, skinned to two bones.
func twoSlotRecord() *metadata.MeshRecord {
	packed := metadata.PackBoneIndices([4]int{0, 2, 2, 2})
	return &metadata.MeshRecord{
		Name:      "quad",
		ID:        core.MeshID("quad"),
		Positions: []float32{0, 0, -1, 1, 0, -1, 1, 1, -1, 0, 1, -1},
		Normals:   []float32{0, 0, -1, 0, 0, -1, 0, 0, -1, 0, 0, -1},
		UVs:       []float32{0, 0, 1, 0, 1, 1, 0, 1},
		Indices:   []int{0, 1, 2, 0, 2, 3},
		SubMeshes: []metadata.SubMesh{
			{MaterialIndex: 0, IndexStart: 0, IndexCount: 3, VerticesStart: 0, VerticesCount: 3},
			{MaterialIndex: 1, IndexStart: 3, IndexCount: 3, VerticesStart: 0, VerticesCount: 4},
		},
		Materials:          []string{"red", "blue"},
		Bones:              []string{"root", "tip"},
		NumBoneInfluencers: 1,
		MatricesIndices:    []uint32{packed, packed, packed, packed},
		MatricesWeights:    []float32{1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0},
	}
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format string
		ext    string
	}{
		{core.FormatGLB, ".glb"},
		{core.FormatGLTF, ".gltf"},
		{core.FormatJSON, ".json"},
	}
	for _, tt := range tests {
		w, err := ForFormat(tt.format)
		if err != nil {
			t.Fatalf("%s: %v", tt.format, err)
		}
		if w.Extension() != tt.ext {
			t.Errorf("%s: extension %q, want %q", tt.format, w.Extension(), tt.ext)
		}
	}
	if _, err := ForFormat("fbx"); !errors.Is(err, core.ErrUnknownFormat) {
		t.Errorf("err = %v, want ErrUnknownFormat", err)
	}
}

func TestBuildDocument(t *testing.T) {
	doc, err := BuildDocument(twoSlotRecord())
	if err != nil {
		t.Fatal(err)
	}

	if len(doc.Meshes) != 1 || len(doc.Meshes[0].Primitives) != 2 {
		t.Fatalf("meshes = %+v", doc.Meshes)
	}
	if len(doc.Materials) != 2 {
		t.Errorf("materials = %d, want 2", len(doc.Materials))
	}
	for i, p := range doc.Meshes[0].Primitives {
		if p.Material == nil || *p.Material != uint32(i) {
			t.Errorf("primitive %d material = %v", i, p.Material)
		}
		if _, ok := p.Attributes["JOINTS_0"]; !ok {
			t.Errorf("primitive %d has no joints", i)
		}
		if _, ok := p.Attributes["JOINTS_1"]; ok {
			t.Errorf("primitive %d must not carry extra joints", i)
		}
	}
	// two bones plus the sentinel joint
	if len(doc.Skins) != 1 || len(doc.Skins[0].Joints) != 3 {
		t.Errorf("skins = %+v", doc.Skins)
	}
	if doc.Nodes[0].Skin == nil || doc.Nodes[0].Mesh == nil {
		t.Errorf("mesh node = %+v", doc.Nodes[0])
	}
}

func TestBuildDocumentRejectsBadRecord(t *testing.T) {
	record := twoSlotRecord()
	record.SubMeshes[1].IndexCount = 9
	if _, err := BuildDocument(record); err == nil {
		t.Error("submesh past the index buffer must fail")
	}

	record = twoSlotRecord()
	record.Normals = record.Normals[:3]
	if _, err := BuildDocument(record); err == nil {
		t.Error("short normal buffer must fail")
	}
}

func TestGLTFWriterRoundTrip(t *testing.T) {
	for _, binary := range []bool{true, false} {
		w := &GLTFWriter{Binary: binary}
		path := OutputPath(filepath.Join(t.TempDir(), "out"), "quad", w)

		if err := w.Write(twoSlotRecord(), path); err != nil {
			t.Fatalf("binary=%v: %v", binary, err)
		}
		doc, err := gltf.Open(path)
		if err != nil {
			t.Fatalf("binary=%v: open: %v", binary, err)
		}
		if len(doc.Meshes) != 1 || len(doc.Meshes[0].Primitives) != 2 {
			t.Errorf("binary=%v: meshes = %+v", binary, doc.Meshes)
		}
		if doc.Asset.Generator != generator {
			t.Errorf("binary=%v: generator = %q", binary, doc.Asset.Generator)
		}
	}
}

func TestMirrorHelpers(t *testing.T) {
	if got := mirrorVec3([]float32{1, 2, 3}); got[0] != [3]float32{1, 2, -3} {
		t.Errorf("mirrorVec3 = %v", got)
	}
	if got := mirrorTangents([]float32{1, 0, 0.5, -1}); got[0] != [4]float32{1, 0, -0.5, 1} {
		t.Errorf("mirrorTangents = %v", got)
	}
	if got := joints([]uint32{metadata.PackBoneIndices([4]int{1, 2, 3, 4})}); got[0] != [4]uint16{1, 2, 3, 4} {
		t.Errorf("joints = %v", got)
	}
	if got := colors([]float32{1.5, 0.5, -0.25, 0}); got[0] != [4]float32{1, 0.5, 0, 0} {
		t.Errorf("colors = %v", got)
	}
}

func TestJSONWriter(t *testing.T) {
	w := &JSONWriter{}
	path := OutputPath(t.TempDir(), "quad", w)
	if err := w.Write(twoSlotRecord(), path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"name", "id", "positions", "normals", "uvs", "indices", "subMeshes", "matricesIndices", "matricesWeights"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	for _, key := range []string{"tangents", "colors", "uvs2", "matricesIndicesExtra"} {
		if _, ok := decoded[key]; ok {
			t.Errorf("unexported channel %q present", key)
		}
	}
}
