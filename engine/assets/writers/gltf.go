package writers

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/spaghettifunk/meshbake/engine/math"
	"github.com/spaghettifunk/meshbake/engine/renderer/metadata"
)

const generator = "meshbake"

// GLTFWriter writes a mesh record as a glTF 2.0 asset, one primitive per
// submesh. Records are stored left-handed; the writer mirrors them back
// across z since glTF is right-handed.
type GLTFWriter struct {
	Binary bool
}

func (gw *GLTFWriter) Extension() string {
	if gw.Binary {
		return ".glb"
	}
	return ".gltf"
}

func (gw *GLTFWriter) Write(record *metadata.MeshRecord, path string) error {
	doc, err := BuildDocument(record)
	if err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}

	if gw.Binary {
		err = gltf.SaveBinary(doc, path)
	} else {
		for _, buffer := range doc.Buffers {
			buffer.EmbeddedResource()
		}
		err = gltf.Save(doc, path)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// BuildDocument converts a mesh record into a glTF document.
func BuildDocument(record *metadata.MeshRecord) (*gltf.Document, error) {
	n := record.VertexCount()
	if n == 0 || len(record.Indices) == 0 {
		return nil, fmt.Errorf("mesh %s has no geometry", record.Name)
	}
	if len(record.Normals) != 3*n {
		return nil, fmt.Errorf("mesh %s: %d normals for %d vertices", record.Name, len(record.Normals)/3, n)
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = generator

	attributes := map[string]uint32{
		"POSITION": modeler.WritePosition(doc, mirrorVec3(record.Positions)),
		"NORMAL":   modeler.WriteNormal(doc, mirrorVec3(record.Normals)),
	}
	if len(record.Tangents) == 4*n && n > 0 {
		attributes["TANGENT"] = modeler.WriteTangent(doc, mirrorTangents(record.Tangents))
	}
	if len(record.UVs) == 2*n && n > 0 {
		attributes["TEXCOORD_0"] = modeler.WriteTextureCoord(doc, vec2s(record.UVs))
	}
	if len(record.UVs2) == 2*n && n > 0 {
		attributes["TEXCOORD_1"] = modeler.WriteTextureCoord(doc, vec2s(record.UVs2))
	}
	if len(record.Colors) == 4*n && n > 0 {
		attributes["COLOR_0"] = modeler.WriteColor(doc, colors(record.Colors))
	}

	skinned := len(record.MatricesIndices) == n && len(record.MatricesWeights) == 4*n && n > 0
	if skinned {
		attributes["JOINTS_0"] = modeler.WriteJoints(doc, joints(record.MatricesIndices))
		attributes["WEIGHTS_0"] = modeler.WriteWeights(doc, vec4s(record.MatricesWeights))
		if len(record.MatricesIndicesExtra) == n && len(record.MatricesWeightsExtra) == 4*n {
			attributes["JOINTS_1"] = modeler.WriteJoints(doc, joints(record.MatricesIndicesExtra))
			attributes["WEIGHTS_1"] = modeler.WriteWeights(doc, vec4s(record.MatricesWeightsExtra))
		}
	}

	for _, name := range record.Materials {
		doc.Materials = append(doc.Materials, &gltf.Material{
			Name: name,
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &[4]float32{1, 1, 1, 1},
				MetallicFactor:  gltf.Float(0),
				RoughnessFactor: gltf.Float(1),
			},
		})
	}

	mesh := &gltf.Mesh{Name: record.Name}
	for _, sm := range record.SubMeshes {
		if sm.IndexStart < 0 || sm.IndexStart+sm.IndexCount > len(record.Indices) {
			return nil, fmt.Errorf("mesh %s: submesh %d out of index range", record.Name, sm.MaterialIndex)
		}
		primitive := &gltf.Primitive{
			Attributes: attributes,
			Indices:    gltf.Index(writeIndices(doc, record.Indices[sm.IndexStart:sm.IndexStart+sm.IndexCount], n)),
		}
		if sm.MaterialIndex < len(doc.Materials) {
			primitive.Material = gltf.Index(uint32(sm.MaterialIndex))
		}
		mesh.Primitives = append(mesh.Primitives, primitive)
	}
	doc.Meshes = append(doc.Meshes, mesh)

	meshNode := &gltf.Node{
		Name:     record.Name,
		Mesh:     gltf.Index(0),
		Rotation: [4]float32{0, 0, 0, 1},
		Scale:    [3]float32{1, 1, 1},
	}
	doc.Nodes = append(doc.Nodes, meshNode)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	if skinned {
		meshNode.Skin = gltf.Index(addSkin(doc, record))
	}
	return doc, nil
}

// addSkin adds one joint node per bone plus a trailing node for the sentinel
// index, so every packed bone index is a valid joint.
func addSkin(doc *gltf.Document, record *metadata.MeshRecord) uint32 {
	names := append(append([]string(nil), record.Bones...), record.Name+"_unbound")
	skin := &gltf.Skin{Name: record.Name}
	for _, name := range names {
		index := uint32(len(doc.Nodes))
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:     name,
			Rotation: [4]float32{0, 0, 0, 1},
			Scale:    [3]float32{1, 1, 1},
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, index)
		skin.Joints = append(skin.Joints, index)
	}
	doc.Skins = append(doc.Skins, skin)
	return uint32(len(doc.Skins) - 1)
}

// writeIndices mirrors the winding order along with the geometry and uses
// 16-bit indices whenever the vertex count allows it.
func writeIndices(doc *gltf.Document, indices []int, vertexCount int) uint32 {
	if vertexCount < metadata.IndexWidthLimit {
		out := make([]uint16, len(indices))
		for i := 0; i+2 < len(indices); i += 3 {
			out[i], out[i+1], out[i+2] = uint16(indices[i]), uint16(indices[i+2]), uint16(indices[i+1])
		}
		return modeler.WriteIndices(doc, out)
	}
	out := make([]uint32, len(indices))
	for i := 0; i+2 < len(indices); i += 3 {
		out[i], out[i+1], out[i+2] = uint32(indices[i]), uint32(indices[i+2]), uint32(indices[i+1])
	}
	return modeler.WriteIndices(doc, out)
}

func mirrorVec3(values []float32) [][3]float32 {
	out := make([][3]float32, len(values)/3)
	for i := range out {
		out[i] = [3]float32{values[3*i], values[3*i+1], -values[3*i+2]}
	}
	return out
}

// mirroring flips the handedness of the tangent frame as well
func mirrorTangents(values []float32) [][4]float32 {
	out := make([][4]float32, len(values)/4)
	for i := range out {
		out[i] = [4]float32{values[4*i], values[4*i+1], -values[4*i+2], -values[4*i+3]}
	}
	return out
}

func vec2s(values []float32) [][2]float32 {
	out := make([][2]float32, len(values)/2)
	for i := range out {
		out[i] = [2]float32{values[2*i], values[2*i+1]}
	}
	return out
}

func vec4s(values []float32) [][4]float32 {
	out := make([][4]float32, len(values)/4)
	for i := range out {
		out[i] = [4]float32{values[4*i], values[4*i+1], values[4*i+2], values[4*i+3]}
	}
	return out
}

// glTF float colors are restricted to [0, 1]
func colors(values []float32) [][4]float32 {
	out := vec4s(values)
	for i := range out {
		for c := range out[i] {
			out[i][c] = math.Clamp(out[i][c], 0, 1)
		}
	}
	return out
}

func joints(packed []uint32) [][4]uint16 {
	out := make([][4]uint16, len(packed))
	for i, p := range packed {
		lanes := metadata.UnpackBoneIndices(p)
		out[i] = [4]uint16{uint16(lanes[0]), uint16(lanes[1]), uint16(lanes[2]), uint16(lanes[3])}
	}
	return out
}
