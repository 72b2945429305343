package scene

import (
	"github.com/kamstrup/intmap"

	"github.com/Faultbox/mappingtool/internal/engine/renderer"
)

// World owns every entity of the scene. Entities live until the world is
// released; there is no despawn.
type World struct {
	entities *intmap.Map[EntityID, *Entity]
	order    []EntityID
	next     EntityID
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{entities: intmap.New[EntityID, *Entity](16)}
}

// Spawn creates an entity with an identity transform and no modules.
func (w *World) Spawn() *Entity {
	w.next++
	e := newEntity(w.next)
	w.entities.Put(e.ID, e)
	w.order = append(w.order, e.ID)
	return e
}

// Entity looks up an entity by id.
func (w *World) Entity(id EntityID) (*Entity, bool) {
	return w.entities.Get(id)
}

// Len returns the number of entities.
func (w *World) Len() int {
	return w.entities.Len()
}

// Each calls fn for every entity in spawn order.
func (w *World) Each(fn func(*Entity)) {
	for _, id := range w.order {
		if e, ok := w.entities.Get(id); ok {
			fn(e)
		}
	}
}

// RenderPoll asks every built renderer module to push its drawables and
// returns how many were queued.
func (w *World) RenderPoll(q *renderer.Queue) int {
	n := 0
	w.Each(func(e *Entity) {
		m, ok := e.Find(KindRenderer)
		if !ok {
			return
		}
		if r, ok := m.(*Renderer); ok {
			n += r.Poll(q, e.Transform)
		}
	})
	return n
}

// Release frees the GPU resources of every module that holds any.
func (w *World) Release(dev renderer.Device) {
	w.Each(func(e *Entity) {
		for _, m := range e.modules {
			if r, ok := m.(interface{ Release(renderer.Device) }); ok {
				r.Release(dev)
			}
		}
	})
}
