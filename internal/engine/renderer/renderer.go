// Package renderer defines the GPU device abstraction, the per-frame
// render queue and the flush that turns queued drawables into draw calls.
//
// The OpenGL implementation lives in the opengl subpackage so that code
// depending only on Device can be tested without a GL context.
package renderer

import "github.com/go-gl/mathgl/mgl32"

// GPU object handles. Zero is never a valid object.
type (
	Buffer      uint32
	VertexArray uint32
	Texture     uint32
	Program     uint32
	Uniform     int32
)

// Vertex is the interleaved vertex layout uploaded to vertex buffers.
// Attribute locations: 0 position, 1 normal, 2 texcoord.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// VertexStride is the size of a Vertex in bytes.
const VertexStride = 8 * 4

// Image is decoded pixel data ready for upload. Channels is 3 (RGB) or 4 (RGBA);
// rows are tightly packed, top row first.
type Image struct {
	Width    int
	Height   int
	Channels int
	Pix      []byte
}

// Device is the subset of the graphics API the editor uses. All methods
// must be called from the thread that owns the context.
type Device interface {
	// CreateVertexBuffer uploads immutable vertex data.
	CreateVertexBuffer(vertices []Vertex) Buffer
	// CreateIndexBuffer uploads immutable triangle indices.
	CreateIndexBuffer(indices []uint32) Buffer
	// CreateVertexArray binds a vertex and index buffer with the Vertex layout.
	CreateVertexArray(vbo, ibo Buffer) VertexArray
	// CreateTexture uploads an image with repeat wrapping and mipmaps.
	CreateTexture(img *Image) Texture

	DeleteBuffer(b Buffer)
	DeleteVertexArray(vao VertexArray)
	DeleteTexture(t Texture)

	CreateProgram(vertexSrc, fragmentSrc string) (Program, error)
	DeleteProgram(p Program)
	UniformLocation(p Program, name string) Uniform
	UseProgram(p Program)
	SetMatrix(u Uniform, m *mgl32.Mat4)
	SetInt(u Uniform, v int32)

	BindTexture(unit uint32, t Texture)
	DrawIndexed(vao VertexArray, count int32)

	Clear(color [4]float32)
	Viewport(width, height int)
	// ReadPixels returns the back buffer as RGBA, bottom row first.
	ReadPixels(width, height int) []byte
}
