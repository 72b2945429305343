package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityDefaultTransformIsIdentity(t *testing.T) {
	w := NewWorld()
	e := w.Spawn()
	assert.Equal(t, mgl32.Ident4(), e.Transform)
}

func TestAttachDuplicateKindFails(t *testing.T) {
	e := NewWorld().Spawn()
	first := NewGeometry()
	require.True(t, e.Attach(first))

	second := NewGeometry()
	assert.False(t, e.Attach(second))
	assert.Len(t, e.Modules(), 1)
	assert.Zero(t, second.Owner(), "rejected module is not bound")

	m, ok := e.Find(KindGeometry)
	require.True(t, ok)
	assert.Same(t, first, m)
}

func TestAttachSetsOwnerAndKeepsOrder(t *testing.T) {
	w := NewWorld()
	w.Spawn()
	e := w.Spawn()

	rend := NewRenderer()
	geo := NewGeometry()
	require.True(t, e.Attach(rend))
	require.True(t, e.Attach(geo))

	assert.Equal(t, e.ID, rend.Owner())
	assert.Equal(t, e.ID, geo.Owner())
	mods := e.Modules()
	require.Len(t, mods, 2)
	assert.Equal(t, KindRenderer, mods[0].Kind())
	assert.Equal(t, KindGeometry, mods[1].Kind())
}

func TestFindAndDetach(t *testing.T) {
	e := NewWorld().Spawn()
	geo := NewGeometry()
	e.Attach(geo)
	e.Attach(NewRenderer())

	_, ok := e.Find(KindBrush)
	assert.False(t, ok)

	assert.True(t, e.Detach(KindGeometry))
	assert.Zero(t, geo.Owner())
	_, ok = e.Find(KindGeometry)
	assert.False(t, ok)
	assert.Len(t, e.Modules(), 1)

	assert.False(t, e.Detach(KindGeometry), "second detach has nothing to remove")
	assert.True(t, e.Attach(geo), "kind is free again")
}

func TestSetPosition(t *testing.T) {
	e := NewWorld().Spawn()
	e.SetPosition([3]float32{1, 2, 3})
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, e.Transform.Col(3).Vec3())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "geometry", KindGeometry.String())
	assert.Equal(t, "brush", KindBrush.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}

func TestWorldSpawnAndLookup(t *testing.T) {
	w := NewWorld()
	a := w.Spawn()
	b := w.Spawn()
	c := w.Spawn()

	assert.Equal(t, 3, w.Len())
	assert.NotZero(t, a.ID)
	got, ok := w.Entity(b.ID)
	require.True(t, ok)
	assert.Same(t, b, got)
	_, ok = w.Entity(0)
	assert.False(t, ok)

	var order []EntityID
	w.Each(func(e *Entity) { order = append(order, e.ID) })
	assert.Equal(t, []EntityID{a.ID, b.ID, c.ID}, order)
}
