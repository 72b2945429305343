package obj

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/mappingtool/internal/assets"
)

const cubeFaceOBJ = `
# two quads, two materials
mtllib room.mtl
o room
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 0 0 1
v 1 0 1
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
usemtl brick
f 1/1/1 2/2/1 3/3/1 4/4/1
usemtl plain
f -4/1 -3/2 -2/3 -1/4
`

const roomMTL = `
newmtl brick
Kd 0.8 0.7 0.6
Ns 10
map_Kd -s 2 2 1 textures/brick.png

newmtl plain
Kd 0.5
d 0.25
`

func mtlOpener(files map[string]string) Opener {
	return func(name string) (io.ReadCloser, error) {
		s, ok := files[name]
		if !ok {
			return nil, os.ErrNotExist
		}
		return io.NopCloser(strings.NewReader(s)), nil
	}
}

func TestDecode(t *testing.T) {
	scene, err := Decode(strings.NewReader(cubeFaceOBJ), mtlOpener(map[string]string{"room.mtl": roomMTL}))
	require.NoError(t, err)

	require.Len(t, scene.Materials, 2)
	brick, plain := scene.Materials[0], scene.Materials[1]
	assert.Equal(t, "brick", brick.Name)
	assert.Equal(t, "textures/brick.png", brick.DiffuseTexture)
	assert.Equal(t, [3]float32{0.8, 0.7, 0.6}, brick.DiffuseColor)
	assert.Equal(t, float32(10), brick.Shininess)
	assert.Equal(t, "plain", plain.Name)
	assert.Empty(t, plain.DiffuseTexture)
	assert.Equal(t, [3]float32{0.5, 0.5, 0.5}, plain.DiffuseColor)
	assert.Equal(t, float32(0.25), plain.Opacity)

	// usemtl splits the object into one mesh per material.
	require.Len(t, scene.Meshes, 2)
	first, second := scene.Meshes[0], scene.Meshes[1]
	assert.Equal(t, "room", first.Name)
	assert.Equal(t, 0, first.MaterialIndex)
	assert.Equal(t, 1, second.MaterialIndex)

	// One vertex per corner, faces untouched until post-processing.
	assert.Len(t, first.Positions, 4)
	assert.Equal(t, [][]uint32{{0, 1, 2, 3}}, first.Faces)
	assert.True(t, first.HasNormals())
	assert.Equal(t, [3]float32{0, 0, 1}, first.Normals[2])
	assert.Equal(t, [2]float32{1, 1}, first.TexCoords[2])

	// Negative indices count back from the last vertex; no normals given.
	assert.Equal(t, [3]float32{1, 1, 0}, second.Positions[0])
	assert.Equal(t, [3]float32{1, 0, 1}, second.Positions[3])
	assert.False(t, second.HasNormals())
	assert.Empty(t, scene.Warnings)
}

func TestDecodeWithoutMaterials(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`
	scene, err := Decode(strings.NewReader(src), nil)
	require.NoError(t, err)

	require.Len(t, scene.Materials, 1)
	assert.Equal(t, DefaultMaterialName, scene.Materials[0].Name)
	require.Len(t, scene.Meshes, 1)
	assert.Equal(t, "mesh0", scene.Meshes[0].Name)
	assert.Nil(t, scene.Meshes[0].TexCoords)
	assert.Nil(t, scene.Meshes[0].Normals)
}

func TestDecodeMissingLibraryWarns(t *testing.T) {
	src := `
mtllib missing.mtl
v 0 0 0
v 1 0 0
v 0 1 0
usemtl stone
f 1 2 3
`
	scene, err := Decode(strings.NewReader(src), mtlOpener(nil))
	require.NoError(t, err)
	require.Len(t, scene.Warnings, 2)
	assert.Contains(t, scene.Warnings[0], "missing.mtl")
	assert.Contains(t, scene.Warnings[1], "stone")
	require.Len(t, scene.Materials, 1)
	assert.Equal(t, "stone", scene.Materials[0].Name)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", "index 0"},
		{"out of range", "v 0 0 0\nf 1 2 3\n", "out of range"},
		{"bad float", "v 0 x 0\n", "bad number"},
		{"short vertex", "v 0 0\n", "expected 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "line")
		})
	}
}

func TestDecodeSkipsDegenerateFaces(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nf 1 2\n"
	scene, err := Decode(strings.NewReader(src), nil)
	require.NoError(t, err)
	assert.Empty(t, scene.Meshes)
	assert.Len(t, scene.Warnings, 1)
}

func TestMapFile(t *testing.T) {
	assert.Equal(t, "a.png", mapFile([]string{"a.png"}))
	assert.Equal(t, "a.png", mapFile([]string{"-s", "1", "1", "1", "a.png"}))
	assert.Equal(t, "a.png", mapFile([]string{"-o", "0.5", "a.png"}))
	assert.Equal(t, "a.png", mapFile([]string{"-clamp", "on", "-bm", "0.2", "a.png"}))
	assert.Equal(t, "my texture.png", mapFile([]string{"my", "texture.png"}))
	assert.Equal(t, "", mapFile([]string{"-clamp", "on"}))
}

func TestLoadRegistered(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "room.obj"), []byte(cubeFaceOBJ), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "room.mtl"), []byte(roomMTL), 0644))

	scene, err := assets.Import(filepath.Join(dir, "room.obj"), assets.DefaultPostProcess)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "room.obj"), scene.Path)
	require.Len(t, scene.Meshes, 2)

	// Quads were triangulated and the flat quad merged nothing.
	assert.Equal(t, [][]uint32{{0, 1, 2}, {0, 2, 3}}, scene.Meshes[0].Faces)
	assert.True(t, scene.Meshes[1].HasNormals(), "normals generated")
	assert.Equal(t, "textures/brick.png", scene.Materials[0].DiffuseTexture)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.obj"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
