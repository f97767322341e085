package exporter

import (
	"github.com/spaghettifunk/meshbake/engine/renderer/metadata"
)

// VertexCache accepts candidate vertices into the output buffer. With
// optimization on, a candidate equal to one already accepted for the same
// global point reuses its index. Vertices of different points are never merged.
type VertexCache struct {
	optimize bool
	buckets  map[int][]int
	vertices []metadata.GlobalVertex
}

func NewVertexCache(pointCount int, optimize bool) *VertexCache {
	vc := &VertexCache{optimize: optimize}
	if optimize {
		vc.buckets = make(map[int][]int, pointCount)
	}
	return vc
}

// Add returns the output index to reference for the candidate vertex.
func (vc *VertexCache) Add(vertex metadata.GlobalVertex) int {
	if !vc.optimize {
		return vc.push(vertex)
	}

	bucket := vc.buckets[vertex.BaseIndex]
	for _, index := range bucket {
		if metadata.VerticesEqual(vc.vertices[index], vertex) {
			return index
		}
	}
	index := vc.push(vertex)
	vc.buckets[vertex.BaseIndex] = append(bucket, index)
	return index
}

func (vc *VertexCache) push(vertex metadata.GlobalVertex) int {
	vertex.CurrentIndex = len(vc.vertices)
	vc.vertices = append(vc.vertices, vertex)
	return vertex.CurrentIndex
}

// Vertices returns the accepted vertices in first-seen order.
func (vc *VertexCache) Vertices() []metadata.GlobalVertex {
	return vc.vertices
}

func (vc *VertexCache) Len() int {
	return len(vc.vertices)
}
