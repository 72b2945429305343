// Package renderertest provides a recording renderer.Device for tests.
package renderertest

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/mappingtool/internal/engine/renderer"
)

// Call is one recorded draw-path call.
type Call struct {
	Op      string // "matrix", "int", "bind", "draw", "use", "clear"
	Uniform renderer.Uniform
	Matrix  mgl32.Mat4
	Int     int32
	Texture renderer.Texture
	VAO     renderer.VertexArray
	Count   int32
	Program renderer.Program
}

// VertexArray records what a vertex array was built from.
type VertexArray struct {
	VBO renderer.Buffer
	IBO renderer.Buffer
}

// Device records every call and hands out sequential handles.
type Device struct {
	Calls []Call

	VertexBuffers map[renderer.Buffer][]renderer.Vertex
	IndexBuffers  map[renderer.Buffer][]uint32
	VertexArrays  map[renderer.VertexArray]VertexArray
	Textures      map[renderer.Texture]*renderer.Image
	Programs      map[renderer.Program][2]string
	Uniforms      map[string]renderer.Uniform
	Deleted       int

	// ProgramErr, when set, is returned by CreateProgram.
	ProgramErr error
	// Pixels is returned by ReadPixels when non-nil.
	Pixels []byte

	ViewportW, ViewportH int

	next uint32
}

// New creates an empty recording device.
func New() *Device {
	return &Device{
		VertexBuffers: make(map[renderer.Buffer][]renderer.Vertex),
		IndexBuffers:  make(map[renderer.Buffer][]uint32),
		VertexArrays:  make(map[renderer.VertexArray]VertexArray),
		Textures:      make(map[renderer.Texture]*renderer.Image),
		Programs:      make(map[renderer.Program][2]string),
		Uniforms:      make(map[string]renderer.Uniform),
	}
}

var _ renderer.Device = (*Device)(nil)

func (d *Device) handle() uint32 {
	d.next++
	return d.next
}

func (d *Device) CreateVertexBuffer(vertices []renderer.Vertex) renderer.Buffer {
	b := renderer.Buffer(d.handle())
	d.VertexBuffers[b] = append([]renderer.Vertex(nil), vertices...)
	return b
}

func (d *Device) CreateIndexBuffer(indices []uint32) renderer.Buffer {
	b := renderer.Buffer(d.handle())
	d.IndexBuffers[b] = append([]uint32(nil), indices...)
	return b
}

func (d *Device) CreateVertexArray(vbo, ibo renderer.Buffer) renderer.VertexArray {
	v := renderer.VertexArray(d.handle())
	d.VertexArrays[v] = VertexArray{VBO: vbo, IBO: ibo}
	return v
}

func (d *Device) CreateTexture(img *renderer.Image) renderer.Texture {
	t := renderer.Texture(d.handle())
	d.Textures[t] = img
	return t
}

func (d *Device) DeleteBuffer(b renderer.Buffer) {
	delete(d.VertexBuffers, b)
	delete(d.IndexBuffers, b)
	d.Deleted++
}

func (d *Device) DeleteVertexArray(v renderer.VertexArray) {
	delete(d.VertexArrays, v)
	d.Deleted++
}

func (d *Device) DeleteTexture(t renderer.Texture) {
	delete(d.Textures, t)
	d.Deleted++
}

func (d *Device) CreateProgram(vs, fs string) (renderer.Program, error) {
	if d.ProgramErr != nil {
		return 0, d.ProgramErr
	}
	if vs == "" || fs == "" {
		return 0, errors.New("empty shader source")
	}
	p := renderer.Program(d.handle())
	d.Programs[p] = [2]string{vs, fs}
	return p, nil
}

func (d *Device) DeleteProgram(p renderer.Program) {
	delete(d.Programs, p)
	d.Deleted++
}

// UniformLocation returns a stable location per name.
func (d *Device) UniformLocation(p renderer.Program, name string) renderer.Uniform {
	key := fmt.Sprintf("%d/%s", p, name)
	if u, ok := d.Uniforms[key]; ok {
		return u
	}
	u := renderer.Uniform(len(d.Uniforms))
	d.Uniforms[key] = u
	return u
}

func (d *Device) UseProgram(p renderer.Program) {
	d.Calls = append(d.Calls, Call{Op: "use", Program: p})
}

func (d *Device) SetMatrix(u renderer.Uniform, m *mgl32.Mat4) {
	d.Calls = append(d.Calls, Call{Op: "matrix", Uniform: u, Matrix: *m})
}

func (d *Device) SetInt(u renderer.Uniform, v int32) {
	d.Calls = append(d.Calls, Call{Op: "int", Uniform: u, Int: v})
}

func (d *Device) BindTexture(unit uint32, t renderer.Texture) {
	d.Calls = append(d.Calls, Call{Op: "bind", Int: int32(unit), Texture: t})
}

func (d *Device) DrawIndexed(vao renderer.VertexArray, count int32) {
	d.Calls = append(d.Calls, Call{Op: "draw", VAO: vao, Count: count})
}

func (d *Device) Clear([4]float32) {
	d.Calls = append(d.Calls, Call{Op: "clear"})
}

func (d *Device) Viewport(w, h int) {
	d.ViewportW, d.ViewportH = w, h
}

func (d *Device) ReadPixels(w, h int) []byte {
	if d.Pixels != nil {
		return d.Pixels
	}
	return make([]byte, w*h*4)
}

// Ops returns the recorded calls of the given kind.
func (d *Device) Ops(op string) []Call {
	var out []Call
	for _, c := range d.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets recorded calls but keeps created objects.
func (d *Device) Reset() {
	d.Calls = d.Calls[:0]
}
