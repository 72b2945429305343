package renderer

import "github.com/go-gl/mathgl/mgl32"

// Drawable is one indexed draw: a vertex array, its index count, an
// optional texture and the owning entity's model matrix.
type Drawable struct {
	VAO        VertexArray
	IndexCount int32
	Texture    Texture // zero means untextured
	Model      mgl32.Mat4
}

// Queue collects the drawables submitted during one frame. It is filled
// by the render poll and emptied by Flush before the frame is presented.
type Queue struct {
	items []Drawable
}

// NewQueue creates an empty queue with room for n drawables.
func NewQueue(n int) *Queue {
	return &Queue{items: make([]Drawable, 0, n)}
}

// Push appends a drawable.
func (q *Queue) Push(d Drawable) {
	q.items = append(q.items, d)
}

// Len returns the number of pending drawables.
func (q *Queue) Len() int {
	return len(q.items)
}

// Drain calls fn for every drawable in submission order and leaves the
// queue empty. The backing array is reused by the next frame.
func (q *Queue) Drain(fn func(Drawable)) int {
	n := len(q.items)
	for i := range q.items {
		fn(q.items[i])
	}
	q.Reset()
	return n
}

// Reset discards all pending drawables.
func (q *Queue) Reset() {
	clear(q.items)
	q.items = q.items[:0]
}

// Flush issues one draw call per queued drawable and empties the queue.
// The caller must have bound the program and uploaded an identity model
// matrix to model; the matrix is re-uploaded only when a drawable's
// differs from the one last sent. Textures are bound to unit 0 only for
// textured drawables. An untextured drawable issues no bind, so it samples
// whatever unit 0 still holds from the last textured draw. Flush returns
// the number of draw calls.
func Flush(dev Device, q *Queue, model Uniform) int {
	current := mgl32.Ident4()
	return q.Drain(func(d Drawable) {
		if d.Model != current {
			current = d.Model
			dev.SetMatrix(model, &current)
		}
		if d.Texture != 0 {
			dev.BindTexture(0, d.Texture)
		}
		dev.DrawIndexed(d.VAO, d.IndexCount)
	})
}
