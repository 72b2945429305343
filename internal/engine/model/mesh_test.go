package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/mappingtool/internal/assets"
	"github.com/Faultbox/mappingtool/internal/engine/renderer"
	"github.com/Faultbox/mappingtool/internal/engine/renderer/renderertest"
)

func TestTriangulate(t *testing.T) {
	tests := []struct {
		name  string
		faces [][]uint32
		want  []uint32
	}{
		{"triangle", [][]uint32{{0, 1, 2}}, []uint32{0, 1, 2}},
		{"quad", [][]uint32{{0, 1, 2, 3}}, []uint32{0, 1, 2, 0, 2, 3}},
		{"hexagon", [][]uint32{{0, 1, 2, 3, 4, 5}}, []uint32{0, 1, 2, 0, 2, 3, 0, 3, 4, 0, 4, 5}},
		{"short faces skipped", [][]uint32{{0}, {1, 2}, {3, 4, 5}}, []uint32{3, 4, 5}},
		{"empty", nil, []uint32{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Triangulate(tt.faces))
		})
	}
}

func TestBuildUploadsOnce(t *testing.T) {
	dev := renderertest.New()
	src := &assets.Mesh{
		Name:          "quad",
		Positions:     [][3]float32{{0, 0, 0}, {2, 0, 0}, {2, 1, 0}, {0, 1, -3}},
		Normals:       [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		TexCoords:     [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Faces:         [][]uint32{{0, 1, 2, 3}},
		MaterialIndex: 2,
	}

	m := Build(dev, src)

	require.NotZero(t, m.VBO)
	require.NotZero(t, m.IBO)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, dev.IndexBuffers[m.IBO])
	assert.Equal(t, int32(6), m.IndexCount())
	assert.Equal(t, 2, m.MaterialIndex)

	verts := dev.VertexBuffers[m.VBO]
	require.Len(t, verts, 4)
	assert.Equal(t, renderer.Vertex{
		Position: [3]float32{2, 1, 0},
		Normal:   [3]float32{0, 0, 1},
		TexCoord: [2]float32{1, 1},
	}, verts[2])

	assert.Equal(t, Bounds{Min: [3]float32{0, 0, -3}, Max: [3]float32{2, 1, 0}}, m.Bounds)
	assert.Equal(t, [3]float32{1, 0.5, -1.5}, m.Bounds.Center())
	assert.Len(t, dev.VertexBuffers, 1)
	assert.Len(t, dev.IndexBuffers, 1)
}

func TestBuildDropsInvalidTriangles(t *testing.T) {
	dev := renderertest.New()
	src := &assets.Mesh{
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Faces:     [][]uint32{{0, 1, 2}, {0, 1, 9}},
	}
	m := Build(dev, src)
	assert.Equal(t, []uint32{0, 1, 2}, m.Indices)
	assert.Equal(t, renderer.Vertex{Position: [3]float32{1, 0, 0}}, m.Vertices[1])
}

func TestBuildAllAndRelease(t *testing.T) {
	dev := renderertest.New()
	scene := &assets.Scene{Meshes: []*assets.Mesh{
		{Name: "a", Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, Faces: [][]uint32{{0, 1, 2}}},
		{Name: "b", Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, Faces: [][]uint32{{2, 1, 0}}},
	}}

	meshes := BuildAll(dev, scene)
	require.Len(t, meshes, 2)
	assert.Equal(t, "a", meshes[0].Name)
	assert.Equal(t, "b", meshes[1].Name)

	for _, m := range meshes {
		m.Release(dev)
		m.Release(dev)
	}
	assert.Equal(t, 4, dev.Deleted)
	assert.Empty(t, dev.VertexBuffers)
}
