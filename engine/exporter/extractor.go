package exporter

import (
	"github.com/spaghettifunk/meshbake/engine/math"
	"github.com/spaghettifunk/meshbake/engine/renderer/metadata"
)

// maxUVSets is the number of UV sets carried by a vertex (uv, uv2).
const maxUVSets = 2

var defaultColor = math.Vec4{X: 1, Y: 1, Z: 1, W: 0}

// Extractor builds candidate vertices for one mesh. It owns the sticky
// channel flags: the first tangent or UV read failure disables that channel
// for every vertex extracted afterwards.
type Extractor struct {
	mesh        SourceMesh
	skin        *Skin
	axis        math.Axis
	legacyExtra bool

	uvSets    int
	hasColors bool
	channels  metadata.ChannelStatus

	weights        map[int]WeightResult
	maxInfluences  int
	liveInfluences int
	truncated      bool
}

func NewExtractor(mesh SourceMesh, opts Options) *Extractor {
	uvSets := math.Min(len(mesh.UVSetNames()), maxUVSets)
	ex := &Extractor{
		mesh:        mesh,
		axis:        opts.Axis,
		legacyExtra: opts.LegacyExtraWeights,
		uvSets:      uvSets,
		hasColors:   mesh.ColorCount() > 0,
		channels: metadata.ChannelStatus{
			Tangent: opts.ExportTangents,
			UV0:     uvSets > 0,
			UV1:     uvSets > 1,
		},
	}
	if opts.ExportSkin && opts.Skin.bound() {
		ex.skin = opts.Skin
		ex.weights = make(map[int]WeightResult)
	}
	return ex
}

// ExtractVertex returns the candidate vertex of one triangle corner.
// point is the global point id and corner its face-local slot in polygon.
func (ex *Extractor) ExtractVertex(polygon, point, corner int) metadata.GlobalVertex {
	vertex := metadata.GlobalVertex{
		BaseIndex:    point,
		CurrentIndex: -1,
		Position:     ex.mesh.Point(point).Flip(ex.axis),
		Normal:       ex.mesh.FaceVertexNormal(polygon, point).Flip(ex.axis),
	}

	if ex.channels.Tangent {
		if tangent, ok := ex.mesh.FaceVertexTangent(polygon, point); ok {
			// invert w to switch to the left handed system
			w := float32(1)
			if ex.mesh.IsRightHandedTangent(ex.mesh.TangentID(polygon, point)) {
				w = -1
			}
			vertex.HasTangent = true
			vertex.Tangent = tangent.Flip(ex.axis).ToVec4(w)
		} else {
			ex.channels.Tangent = false
		}
	}

	if ex.hasColors {
		color, ok := ex.mesh.FaceVertexColor(polygon, corner)
		if !ok {
			color = defaultColor
		}
		vertex.HasColor = true
		vertex.Color = color
	}

	if ex.channels.UV0 {
		if uv, ok := ex.mesh.PolygonUV(polygon, corner, 0); ok {
			vertex.HasUV = true
			vertex.UV = uv
		} else {
			ex.channels.UV0 = false
		}
	}
	if ex.channels.UV1 {
		if uv, ok := ex.mesh.PolygonUV(polygon, corner, 1); ok {
			vertex.HasUV2 = true
			vertex.UV2 = uv
		} else {
			ex.channels.UV1 = false
		}
	}

	if ex.skin != nil {
		wr := ex.resolve(point)
		vertex.HasSkin = true
		vertex.BonesIndices = wr.BonesIndices
		vertex.Weights = wr.Weights
		if wr.HasExtra {
			vertex.HasSkinExtra = true
			vertex.BonesIndicesExtra = wr.BonesIndicesExtra
			vertex.WeightsExtra = wr.WeightsExtra
		}
	}

	return vertex
}

// resolve runs the weight resolver once per global point.
func (ex *Extractor) resolve(point int) WeightResult {
	if wr, ok := ex.weights[point]; ok {
		return wr
	}
	wr := ResolveWeights(point, ex.skin.Binding, ex.skin.Bones, ex.legacyExtra)
	ex.weights[point] = wr
	ex.maxInfluences = math.Max(ex.maxInfluences, wr.Influences)
	ex.liveInfluences = math.Max(ex.liveInfluences, wr.LiveInfluences)
	ex.truncated = ex.truncated || wr.Truncated
	return wr
}

// Channels returns the current state of the sticky channel flags.
func (ex *Extractor) Channels() metadata.ChannelStatus {
	return ex.channels
}

// Skinned reports whether bone weights are being extracted.
func (ex *Extractor) Skinned() bool {
	return ex.skin != nil
}

// MaxInfluences is the largest emitted influence count seen so far.
func (ex *Extractor) MaxInfluences() int {
	return ex.maxInfluences
}

// LiveInfluences is the largest influence count seen before truncation.
func (ex *Extractor) LiveInfluences() int {
	return ex.liveInfluences
}

// Truncated reports whether any point had more influences than supported.
func (ex *Extractor) Truncated() bool {
	return ex.truncated
}
