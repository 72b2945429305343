// Package scene composes world entities from capability modules.
//
// An entity is a transform plus at most one module of each kind. Modules
// find their siblings through the world by the owner id they receive on
// attach, so a module never holds a pointer to its entity.
package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// EntityID identifies an entity within a World. Zero is never assigned.
type EntityID uint32

// Kind identifies a capability.
type Kind uint8

const (
	KindGeometry Kind = iota
	KindRenderer
	// KindBrush is reserved for grid editing and has no module yet.
	KindBrush
)

var kindNames = [...]string{
	KindGeometry: "geometry",
	KindRenderer: "renderer",
	KindBrush:    "brush",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Module is a capability attached to an entity.
type Module interface {
	Kind() Kind
	Owner() EntityID
	setOwner(EntityID)
}

// ModuleBase carries the owner back-reference. Embed it in module types.
type ModuleBase struct {
	owner EntityID
}

// Owner returns the id of the entity the module is attached to, or zero.
func (b *ModuleBase) Owner() EntityID { return b.owner }

func (b *ModuleBase) setOwner(id EntityID) { b.owner = id }

// Entity is an object in the world.
type Entity struct {
	ID EntityID
	// Transform is the model matrix applied to everything the entity draws.
	Transform mgl32.Mat4

	modules []Module
}

func newEntity(id EntityID) *Entity {
	return &Entity{ID: id, Transform: mgl32.Ident4()}
}

// Attach adds m to the entity. It returns false and changes nothing if a
// module of the same kind is already attached.
func (e *Entity) Attach(m Module) bool {
	if _, ok := e.Find(m.Kind()); ok {
		return false
	}
	m.setOwner(e.ID)
	e.modules = append(e.modules, m)
	return true
}

// Detach removes the module of the given kind. It returns false if there
// is none.
func (e *Entity) Detach(kind Kind) bool {
	for i, m := range e.modules {
		if m.Kind() == kind {
			m.setOwner(0)
			e.modules = append(e.modules[:i], e.modules[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns the module of the given kind.
func (e *Entity) Find(kind Kind) (Module, bool) {
	for _, m := range e.modules {
		if m.Kind() == kind {
			return m, true
		}
	}
	return nil, false
}

// Modules returns the attached modules in attach order.
func (e *Entity) Modules() []Module {
	return append([]Module(nil), e.modules...)
}

// SetPosition replaces the transform with a translation.
func (e *Entity) SetPosition(pos [3]float32) {
	e.Transform = mgl32.Translate3D(pos[0], pos[1], pos[2])
}
