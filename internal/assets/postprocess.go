package assets

import (
	"github.com/chewxy/math32"
)

// PostProcess selects the clean-up steps applied after decoding.
type PostProcess uint32

const (
	// Triangulate splits polygons into triangle fans.
	Triangulate PostProcess = 1 << iota
	// GenSmoothNormals computes per-vertex normals for meshes without them.
	GenSmoothNormals
	// FlipUVs flips the V texture coordinate (v' = 1 - v).
	FlipUVs
	// JoinIdenticalVertices merges vertices with equal attributes.
	JoinIdenticalVertices
)

// DefaultPostProcess is the step set the editor imports with.
const DefaultPostProcess = Triangulate | GenSmoothNormals | FlipUVs | JoinIdenticalVertices

// Has reports whether every step in s is selected.
func (p PostProcess) Has(s PostProcess) bool {
	return p&s == s
}

// Apply runs the selected steps on every mesh of the scene.
func Apply(s *Scene, flags PostProcess) {
	for _, m := range s.Meshes {
		if flags.Has(Triangulate) {
			m.Faces = TriangulateFaces(m.Faces)
		}
		if flags.Has(FlipUVs) {
			FlipTexCoords(m)
		}
		if flags.Has(JoinIdenticalVertices) {
			JoinVertices(m)
		}
		if flags.Has(GenSmoothNormals) && !m.HasNormals() {
			GenerateNormals(m)
		}
	}
}

// Fan emits the triangles of a convex polygon: (0,1,2), then (0,i-1,i)
// for every further index, so a quad yields (0,1,2) and (0,2,3).
// Faces with fewer than three indices emit nothing.
func Fan(face []uint32, emit func(a, b, c uint32)) {
	for i := 2; i < len(face); i++ {
		emit(face[0], face[i-1], face[i])
	}
}

// TriangulateFaces returns faces with every polygon split by Fan.
func TriangulateFaces(faces [][]uint32) [][]uint32 {
	out := make([][]uint32, 0, len(faces))
	for _, f := range faces {
		if len(f) == 3 {
			out = append(out, f)
			continue
		}
		Fan(f, func(a, b, c uint32) {
			out = append(out, []uint32{a, b, c})
		})
	}
	return out
}

// FlipTexCoords flips the V coordinate of every vertex.
func FlipTexCoords(m *Mesh) {
	for i := range m.TexCoords {
		m.TexCoords[i][1] = 1 - m.TexCoords[i][1]
	}
}

type vertexKey struct {
	pos    [3]float32
	normal [3]float32
	uv     [2]float32
}

// JoinVertices merges vertices whose position, normal and texture
// coordinate are all equal and rewrites the faces to match.
func JoinVertices(m *Mesh) {
	hasN, hasUV := m.HasNormals(), m.HasTexCoords()

	seen := make(map[vertexKey]uint32, len(m.Positions))
	remap := make([]uint32, len(m.Positions))
	positions := make([][3]float32, 0, len(m.Positions))
	var normals [][3]float32
	var uvs [][2]float32

	for i, p := range m.Positions {
		k := vertexKey{pos: p}
		if hasN {
			k.normal = m.Normals[i]
		}
		if hasUV {
			k.uv = m.TexCoords[i]
		}
		if idx, ok := seen[k]; ok {
			remap[i] = idx
			continue
		}
		idx := uint32(len(positions))
		seen[k] = idx
		remap[i] = idx
		positions = append(positions, p)
		if hasN {
			normals = append(normals, k.normal)
		}
		if hasUV {
			uvs = append(uvs, k.uv)
		}
	}

	for _, f := range m.Faces {
		for j, idx := range f {
			if int(idx) < len(remap) {
				f[j] = remap[idx]
			}
		}
	}
	m.Positions = positions
	m.Normals = normals
	m.TexCoords = uvs
}

// GenerateNormals computes area-weighted face normals, accumulates them
// per vertex and then averages across vertices that share a position, so
// seams introduced by differing texture coordinates do not show.
func GenerateNormals(m *Mesh) {
	normals := make([][3]float32, len(m.Positions))
	for _, f := range m.Faces {
		Fan(f, func(a, b, c uint32) {
			if int(a) >= len(normals) || int(b) >= len(normals) || int(c) >= len(normals) {
				return
			}
			n := faceNormal(m.Positions[a], m.Positions[b], m.Positions[c])
			for _, idx := range [3]uint32{a, b, c} {
				normals[idx][0] += n[0]
				normals[idx][1] += n[1]
				normals[idx][2] += n[2]
			}
		})
	}
	m.Normals = normals
	smoothNormals(m)
	for i := range m.Normals {
		m.Normals[i] = normalize(m.Normals[i])
	}
}

// smoothNormals sums normals of vertices at the same quantized position.
func smoothNormals(m *Mesh) {
	const epsilon float32 = 0.001

	// Group vertices by quantized position for O(n) lookup
	groups := make(map[[3]int32][]int)
	for i, p := range m.Positions {
		key := [3]int32{
			int32(p[0] / epsilon),
			int32(p[1] / epsilon),
			int32(p[2] / epsilon),
		}
		groups[key] = append(groups[key], i)
	}

	for _, idxs := range groups {
		if len(idxs) < 2 {
			continue
		}
		var sum [3]float32
		for _, idx := range idxs {
			sum[0] += m.Normals[idx][0]
			sum[1] += m.Normals[idx][1]
			sum[2] += m.Normals[idx][2]
		}
		for _, idx := range idxs {
			m.Normals[idx] = sum
		}
	}
}

// faceNormal returns the unnormalized normal of triangle abc; its length
// is twice the triangle area.
func faceNormal(a, b, c [3]float32) [3]float32 {
	u := [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	v := [3]float32{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
	return [3]float32{
		u[1]*v[2] - u[2]*v[1],
		u[2]*v[0] - u[0]*v[2],
		u[0]*v[1] - u[1]*v[0],
	}
}

func normalize(v [3]float32) [3]float32 {
	l := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if l == 0 {
		return [3]float32{0, 1, 0}
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}
