package scene

import (
	"go.uber.org/zap"

	"github.com/Faultbox/mappingtool/internal/engine/renderer"
	"github.com/Faultbox/mappingtool/internal/logger"
)

// Loader spawns model entities: an entity with a Geometry and a Renderer
// module, loaded and built in one step.
type Loader struct {
	World    *World
	Device   renderer.Device
	Importer Importer
	Textures TextureLoader
}

// SpawnModel creates an entity at pos drawing the model at path. The
// entity is kept even when the model fails to load; its renderer then
// stays unbuilt and draws nothing.
func (l *Loader) SpawnModel(path string, pos [3]float32) (*Entity, error) {
	e := l.World.Spawn()
	e.SetPosition(pos)

	geo := NewGeometry()
	rend := NewRenderer()
	e.Attach(geo)
	e.Attach(rend)

	if err := geo.Load(l.Device, l.Importer, path); err != nil {
		return e, err
	}
	if err := rend.Build(l.World, l.Device, l.Textures); err != nil {
		logger.Error("renderer build failed",
			zap.Uint32("entity", uint32(e.ID)),
			zap.Error(err),
		)
		return e, err
	}
	return e, nil
}
