package model

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/mappingtool/internal/assets"
	"github.com/Faultbox/mappingtool/internal/engine/renderer"
	"github.com/Faultbox/mappingtool/internal/logger"
)

// Triangulate flattens faces into a triangle index list. Each polygon is
// split as a fan: (0,1,2), and a quad adds (0,2,3). Faces with fewer than
// three indices are skipped.
func Triangulate(faces [][]uint32) []uint32 {
	n := 0
	for _, f := range faces {
		if len(f) >= 3 {
			n += 3 * (len(f) - 2)
		}
	}
	indices := make([]uint32, 0, n)
	for _, f := range faces {
		assets.Fan(f, func(a, b, c uint32) {
			indices = append(indices, a, b, c)
		})
	}
	return indices
}

// Vertices interleaves the mesh attributes. Missing normals or texture
// coordinates are left zero.
func Vertices(src *assets.Mesh) []renderer.Vertex {
	hasN, hasUV := src.HasNormals(), src.HasTexCoords()
	vertices := make([]renderer.Vertex, len(src.Positions))
	for i, p := range src.Positions {
		vertices[i].Position = p
		if hasN {
			vertices[i].Normal = src.Normals[i]
		}
		if hasUV {
			vertices[i].TexCoord = src.TexCoords[i]
		}
	}
	return vertices
}

// Build uploads one imported sub-mesh. Indices that reference missing
// vertices are dropped together with their triangle.
func Build(dev renderer.Device, src *assets.Mesh) *Mesh {
	vertices := Vertices(src)
	indices := Triangulate(src.Faces)

	valid := indices[:0]
	dropped := 0
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if int(a) >= len(vertices) || int(b) >= len(vertices) || int(c) >= len(vertices) {
			dropped++
			continue
		}
		valid = append(valid, a, b, c)
	}
	if dropped > 0 {
		logger.Warn("dropped triangles with invalid indices",
			zap.String("mesh", src.Name),
			zap.Int("triangles", dropped),
		)
	}

	m := &Mesh{
		Name:          src.Name,
		Vertices:      vertices,
		Indices:       valid,
		MaterialIndex: src.MaterialIndex,
		Bounds:        computeBounds(vertices),
	}
	m.VBO = dev.CreateVertexBuffer(m.Vertices)
	m.IBO = dev.CreateIndexBuffer(m.Indices)

	logger.Dbg.Debug("mesh built",
		zap.String("mesh", m.Name),
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("triangles", len(m.Indices)/3),
		zap.Uint32("vbo", uint32(m.VBO)),
		zap.Uint32("ibo", uint32(m.IBO)),
	)
	return m
}

// BuildAll uploads every sub-mesh of an imported scene, in scene order.
func BuildAll(dev renderer.Device, scene *assets.Scene) []*Mesh {
	meshes := make([]*Mesh, 0, len(scene.Meshes))
	for _, src := range scene.Meshes {
		meshes = append(meshes, Build(dev, src))
	}
	return meshes
}

// Release deletes the mesh buffers.
func (m *Mesh) Release(dev renderer.Device) {
	if m.VBO != 0 {
		dev.DeleteBuffer(m.VBO)
		m.VBO = 0
	}
	if m.IBO != 0 {
		dev.DeleteBuffer(m.IBO)
		m.IBO = 0
	}
}

func computeBounds(vertices []renderer.Vertex) Bounds {
	if len(vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{
		Min: [3]float32{gomath.MaxFloat32, gomath.MaxFloat32, gomath.MaxFloat32},
		Max: [3]float32{-gomath.MaxFloat32, -gomath.MaxFloat32, -gomath.MaxFloat32},
	}
	for _, v := range vertices {
		updateBounds(&b, v.Position)
	}
	return b
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
