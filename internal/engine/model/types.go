// Package model turns imported sub-meshes into GPU vertex and index buffers.
package model

import "github.com/Faultbox/mappingtool/internal/engine/renderer"

// Mesh is one imported sub-mesh uploaded to the GPU. Its buffers are
// created once by Build and never resized.
type Mesh struct {
	Name          string
	Vertices      []renderer.Vertex
	Indices       []uint32
	MaterialIndex int
	Bounds        Bounds

	VBO renderer.Buffer
	IBO renderer.Buffer
}

// IndexCount returns the number of indices to draw.
func (m *Mesh) IndexCount() int32 {
	return int32(len(m.Indices))
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Center returns the middle of the box.
func (b Bounds) Center() [3]float32 {
	return [3]float32{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}
