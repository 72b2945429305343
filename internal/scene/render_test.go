package scene

import (
	"errors"
	"os"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/mappingtool/internal/assets"
	"github.com/Faultbox/mappingtool/internal/engine/renderer"
	"github.com/Faultbox/mappingtool/internal/engine/renderer/renderertest"
)

func triangle(material int) *assets.Mesh {
	return &assets.Mesh{
		Name:          "tri",
		Positions:     [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Faces:         [][]uint32{{0, 1, 2}},
		MaterialIndex: material,
	}
}

// twoMeshImporter returns two sub-meshes; only the first material has a
// diffuse map.
var twoMeshImporter = ImportFunc(func(string, assets.PostProcess) (*assets.Scene, error) {
	return &assets.Scene{
		Meshes: []*assets.Mesh{triangle(0), triangle(1)},
		Materials: []*assets.Material{
			{Name: "brick", DiffuseTexture: "brick.png"},
			{Name: "plain"},
		},
	}, nil
})

type textureLoader struct {
	dev    renderer.Device
	loaded []string
	fail   bool
}

func (l *textureLoader) Load(path string) (renderer.Texture, error) {
	l.loaded = append(l.loaded, path)
	if l.fail {
		return 0, os.ErrNotExist
	}
	return l.dev.CreateTexture(&renderer.Image{Width: 1, Height: 1, Channels: 3, Pix: []byte{1, 2, 3}}), nil
}

func TestSpawnModelEndToEnd(t *testing.T) {
	dev := renderertest.New()
	w := NewWorld()
	tl := &textureLoader{dev: dev}
	l := &Loader{World: w, Device: dev, Importer: twoMeshImporter, Textures: tl}

	e, err := l.SpawnModel("models/room.obj", [3]float32{0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, []string{"models/brick.png"}, tl.loaded)

	q := renderer.NewQueue(4)
	assert.Equal(t, 2, w.RenderPoll(q))
	assert.Equal(t, 2, q.Len())

	drawn := renderer.Flush(dev, q, 0)
	assert.Equal(t, 2, drawn)
	assert.Zero(t, q.Len())
	assert.Len(t, dev.Ops("draw"), 2)
	assert.Len(t, dev.Ops("bind"), 1, "only the textured material binds")

	m, _ := e.Find(KindRenderer)
	for _, d := range m.(*Renderer).Drawables() {
		assert.Equal(t, int32(3), d.IndexCount)
	}
}

func TestMissingTextureDrawsUntextured(t *testing.T) {
	dev := renderertest.New()
	w := NewWorld()
	l := &Loader{World: w, Device: dev, Importer: twoMeshImporter, Textures: &textureLoader{dev: dev, fail: true}}

	_, err := l.SpawnModel("room.obj", [3]float32{})
	require.NoError(t, err)

	q := renderer.NewQueue(0)
	w.RenderPoll(q)
	renderer.Flush(dev, q, 0)
	assert.Len(t, dev.Ops("draw"), 2)
	assert.Empty(t, dev.Ops("bind"))
}

func TestRenderPollUsesEntityTransform(t *testing.T) {
	dev := renderertest.New()
	w := NewWorld()
	l := &Loader{World: w, Device: dev, Importer: twoMeshImporter, Textures: &textureLoader{dev: dev}}

	e, err := l.SpawnModel("room.obj", [3]float32{4, 5, 6})
	require.NoError(t, err)
	e.SetPosition([3]float32{7, 8, 9})

	q := renderer.NewQueue(0)
	w.RenderPoll(q)
	var models []mgl32.Mat4
	q.Drain(func(d renderer.Drawable) { models = append(models, d.Model) })
	require.NotEmpty(t, models)
	for _, m := range models {
		assert.Equal(t, mgl32.Translate3D(7, 8, 9), m)
	}
}

func TestRendererBuildErrors(t *testing.T) {
	dev := renderertest.New()
	w := NewWorld()
	tl := &textureLoader{dev: dev}

	detached := NewRenderer()
	assert.ErrorIs(t, detached.Build(w, dev, tl), ErrDetached)

	lonely := w.Spawn()
	rend := NewRenderer()
	lonely.Attach(rend)
	assert.ErrorIs(t, rend.Build(w, dev, tl), ErrNoGeometry)

	unloaded := w.Spawn()
	unloaded.Attach(NewGeometry())
	rend = NewRenderer()
	unloaded.Attach(rend)
	assert.ErrorIs(t, rend.Build(w, dev, tl), ErrGeometryNotLoaded)
	assert.False(t, rend.Built())

	q := renderer.NewQueue(0)
	assert.Zero(t, w.RenderPoll(q), "unbuilt renderers are skipped")
}

func TestSpawnModelImportFailure(t *testing.T) {
	dev := renderertest.New()
	w := NewWorld()
	boom := errors.New("unreadable")
	l := &Loader{
		World:    w,
		Device:   dev,
		Importer: ImportFunc(func(string, assets.PostProcess) (*assets.Scene, error) { return nil, boom }),
		Textures: &textureLoader{dev: dev},
	}

	e, err := l.SpawnModel("broken.obj", [3]float32{})
	assert.ErrorIs(t, err, boom)
	require.NotNil(t, e)
	assert.Equal(t, 1, w.Len(), "entity is kept")

	m, ok := e.Find(KindGeometry)
	require.True(t, ok)
	geo := m.(*Geometry)
	assert.False(t, geo.Loaded())
	assert.ErrorIs(t, geo.Err(), boom)
	assert.Zero(t, w.RenderPoll(renderer.NewQueue(0)))
}

func TestWorldRelease(t *testing.T) {
	dev := renderertest.New()
	w := NewWorld()
	l := &Loader{World: w, Device: dev, Importer: twoMeshImporter, Textures: &textureLoader{dev: dev}}
	_, err := l.SpawnModel("room.obj", [3]float32{})
	require.NoError(t, err)

	w.Release(dev)
	assert.Empty(t, dev.VertexBuffers)
	assert.Empty(t, dev.IndexBuffers)
	assert.Empty(t, dev.VertexArrays)
	assert.Empty(t, dev.Textures)
}

func TestGeometryKeepsImportedMaterials(t *testing.T) {
	dev := renderertest.New()
	brick := &assets.Material{Name: "brick", DiffuseTexture: "brick.png"}
	imp := ImportFunc(func(string, assets.PostProcess) (*assets.Scene, error) {
		return &assets.Scene{
			Meshes:    []*assets.Mesh{triangle(0), triangle(1)},
			Materials: []*assets.Material{brick, nil},
		}, nil
	})

	g := NewGeometry()
	require.NoError(t, g.Load(dev, imp, "room.obj"))
	require.Len(t, g.Materials(), 2)
	assert.Same(t, brick, g.Materials()[0])

	// A nil material slot builds like a material without a diffuse map.
	w := NewWorld()
	tl := &textureLoader{dev: dev}
	_, err := (&Loader{World: w, Device: dev, Importer: imp, Textures: tl}).SpawnModel("room.obj", [3]float32{})
	require.NoError(t, err)
	assert.Equal(t, []string{"./brick.png"}, tl.loaded)
	assert.Equal(t, 2, w.RenderPoll(renderer.NewQueue(2)))
}
