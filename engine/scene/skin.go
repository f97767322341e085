package scene

import (
	"fmt"

	"github.com/spaghettifunk/meshbake/engine/core"
	"github.com/spaghettifunk/meshbake/engine/exporter"
)

// Skin is a skin cluster: an ordered influence list and, per point, one raw
// weight per influence.
type Skin struct {
	name       string
	influences []string
	weights    map[int][]float64
}

func NewSkin(name string, influences []string) *Skin {
	return &Skin{
		name:       name,
		influences: influences,
		weights:    make(map[int][]float64),
	}
}

// SetWeights stores the raw weights of a point, aligned with the influence list.
func (s *Skin) SetWeights(point int, weights []float64) error {
	if len(weights) > len(s.influences) {
		return fmt.Errorf("%w: point %d has %d weights for %d influences", core.ErrMeshDocument, point, len(weights), len(s.influences))
	}
	s.weights[point] = weights
	return nil
}

func (s *Skin) Name() string {
	return s.name
}

func (s *Skin) InfluenceNames() []string {
	return s.influences
}

// PointInfluences enumerates the non-zero weights of a point in influence order.
func (s *Skin) PointInfluences(point int) []exporter.Influence {
	weights := s.weights[point]
	out := make([]exporter.Influence, 0, len(weights))
	for i, w := range weights {
		if w == 0 {
			continue
		}
		out = append(out, exporter.Influence{Name: s.influences[i], Weight: w})
	}
	return out
}

// MaxInfluences returns the largest number of non-zero weights on a point.
func (s *Skin) MaxInfluences() int {
	max := 0
	for point := range s.weights {
		if n := len(s.PointInfluences(point)); n > max {
			max = n
		}
	}
	return max
}

// Joint is one node of a Skeleton.
type Joint struct {
	Name   string
	Parent int
}

// Skeleton is the ordered joint hierarchy bones are indexed against.
type Skeleton struct {
	Name   string
	Joints []Joint
}

// BoneTable indexes the joints in skeleton order.
func (sk *Skeleton) BoneTable() *exporter.BoneTable {
	names := make([]string, len(sk.Joints))
	for i, j := range sk.Joints {
		names[i] = j.Name
	}
	return exporter.NewBoneTable(names)
}

// ID returns the stable identifier of the skeleton.
func (sk *Skeleton) ID() string {
	return core.MeshID("skeleton/" + sk.Name)
}

// Bind builds the bone table once and returns the skin ready for export.
// Without a skeleton the influences themselves become the bone set.
func (s *Skin) Bind(sk *Skeleton) *exporter.Skin {
	if sk == nil {
		sk = &Skeleton{Name: s.name}
		for _, name := range s.influences {
			sk.Joints = append(sk.Joints, Joint{Name: name, Parent: -1})
		}
	}
	return &exporter.Skin{
		Binding:    s,
		Bones:      sk.BoneTable(),
		SkeletonID: sk.ID(),
	}
}
