package scene

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/mappingtool/internal/assets"
	"github.com/Faultbox/mappingtool/internal/engine/renderer"
	"github.com/Faultbox/mappingtool/internal/logger"
)

var (
	ErrDetached          = errors.New("renderer is not attached to a world entity")
	ErrNoGeometry        = errors.New("entity has no geometry module")
	ErrGeometryNotLoaded = errors.New("geometry is not loaded")
)

// TextureLoader uploads a texture file.
type TextureLoader interface {
	Load(path string) (renderer.Texture, error)
}

// Renderer draws the sibling geometry module of its entity.
type Renderer struct {
	ModuleBase

	drawables []renderer.Drawable
	textures  []renderer.Texture
	built     bool
}

// NewRenderer creates an unbuilt renderer module.
func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Kind() Kind { return KindRenderer }

// Built reports whether Build succeeded.
func (r *Renderer) Built() bool { return r.built }

// Drawables returns one drawable per sub-mesh.
func (r *Renderer) Drawables() []renderer.Drawable { return r.drawables }

// Build binds the entity's geometry for drawing: one vertex array per
// sub-mesh and one texture per material with a diffuse map. A texture
// that fails to load leaves its material untextured.
func (r *Renderer) Build(w *World, dev renderer.Device, textures TextureLoader) error {
	e, ok := w.Entity(r.Owner())
	if !ok {
		return ErrDetached
	}
	m, ok := e.Find(KindGeometry)
	if !ok {
		return ErrNoGeometry
	}
	geo, ok := m.(GeometrySource)
	if !ok {
		return ErrNoGeometry
	}
	if !geo.Loaded() {
		return ErrGeometryNotLoaded
	}

	r.Release(dev)

	materials := geo.Materials()
	r.textures = make([]renderer.Texture, len(materials))
	for i, mat := range materials {
		if mat == nil || mat.DiffuseTexture == "" {
			continue
		}
		path := assets.TexturePath(geo.ModelPath(), mat.DiffuseTexture)
		tex, err := textures.Load(path)
		if err != nil {
			logger.Warn("texture not loaded",
				zap.String("material", mat.Name),
				zap.String("path", path),
				zap.Error(err),
			)
			continue
		}
		r.textures[i] = tex
	}

	for _, mesh := range geo.Meshes() {
		d := renderer.Drawable{
			VAO:        dev.CreateVertexArray(mesh.VBO, mesh.IBO),
			IndexCount: mesh.IndexCount(),
			Model:      e.Transform,
		}
		if mesh.MaterialIndex >= 0 && mesh.MaterialIndex < len(r.textures) {
			d.Texture = r.textures[mesh.MaterialIndex]
		}
		r.drawables = append(r.drawables, d)
	}
	r.built = true

	logger.Dbg.Debug("renderer built",
		zap.Uint32("entity", uint32(e.ID)),
		zap.Int("drawables", len(r.drawables)),
	)
	return nil
}

// Poll pushes every drawable with the given model matrix and returns how
// many were pushed. An unbuilt renderer pushes nothing.
func (r *Renderer) Poll(q *renderer.Queue, transform mgl32.Mat4) int {
	if !r.built {
		return 0
	}
	for _, d := range r.drawables {
		d.Model = transform
		q.Push(d)
	}
	return len(r.drawables)
}

// Release deletes the vertex arrays and textures created by Build.
func (r *Renderer) Release(dev renderer.Device) {
	for _, d := range r.drawables {
		dev.DeleteVertexArray(d.VAO)
	}
	for _, t := range r.textures {
		if t != 0 {
			dev.DeleteTexture(t)
		}
	}
	r.drawables = nil
	r.textures = nil
	r.built = false
}
