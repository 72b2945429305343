package scene

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/mappingtool/internal/assets"
	"github.com/Faultbox/mappingtool/internal/engine/model"
	"github.com/Faultbox/mappingtool/internal/engine/renderer"
	"github.com/Faultbox/mappingtool/internal/logger"
)

// Importer reads a model file into an imported scene.
type Importer interface {
	Import(path string, flags assets.PostProcess) (*assets.Scene, error)
}

// ImportFunc adapts a function to Importer.
type ImportFunc func(path string, flags assets.PostProcess) (*assets.Scene, error)

// Import calls f.
func (f ImportFunc) Import(path string, flags assets.PostProcess) (*assets.Scene, error) {
	return f(path, flags)
}

// GeometrySource is what other modules need from an entity's geometry.
type GeometrySource interface {
	Module
	ModelPath() string
	Meshes() []*model.Mesh
	Materials() []*assets.Material
	Loaded() bool
}

// Geometry holds the meshes of one imported model file.
type Geometry struct {
	ModuleBase

	// Flags are the post-processing steps applied on import.
	Flags assets.PostProcess

	path      string
	meshes    []*model.Mesh
	materials []*assets.Material
	loaded    bool
	err       error
}

var _ GeometrySource = (*Geometry)(nil)

// NewGeometry creates an empty geometry module with the default
// post-processing steps.
func NewGeometry() *Geometry {
	return &Geometry{Flags: assets.DefaultPostProcess}
}

func (g *Geometry) Kind() Kind { return KindGeometry }

// Load imports the model at path and uploads its meshes. On failure the
// module stays empty and remembers the error.
func (g *Geometry) Load(dev renderer.Device, imp Importer, path string) error {
	g.Release(dev)
	g.path = path

	scene, err := imp.Import(path, g.Flags)
	if err != nil {
		g.err = fmt.Errorf("loading model %s: %w", path, err)
		logger.Error("model import failed", zap.String("path", path), zap.Error(err))
		return g.err
	}

	g.meshes = model.BuildAll(dev, scene)
	g.materials = scene.Materials
	g.loaded = true
	g.err = nil

	logger.Info("model loaded",
		zap.String("path", path),
		zap.Int("meshes", len(g.meshes)),
		zap.Int("materials", len(g.materials)),
	)
	return nil
}

// Err returns the error of the last Load, if any.
func (g *Geometry) Err() error { return g.err }

func (g *Geometry) ModelPath() string             { return g.path }
func (g *Geometry) Meshes() []*model.Mesh         { return g.meshes }
func (g *Geometry) Materials() []*assets.Material { return g.materials }
func (g *Geometry) Loaded() bool                  { return g.loaded }

// Release deletes the mesh buffers and resets the module.
func (g *Geometry) Release(dev renderer.Device) {
	for _, m := range g.meshes {
		m.Release(dev)
	}
	g.meshes = nil
	g.materials = nil
	g.loaded = false
}
