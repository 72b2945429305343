// Package opengl implements renderer.Device on OpenGL 4.1 core.
package opengl

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/mappingtool/internal/engine/renderer"
	"github.com/Faultbox/mappingtool/internal/logger"
)

// Device issues GL calls on the current context.
type Device struct{}

var _ renderer.Device = (*Device)(nil)

// New loads the GL function pointers and sets the editor's fixed state.
// IMPORTANT: Must be called AFTER the OpenGL context is current!
func New(samples int) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	if samples > 0 {
		gl.Enable(gl.MULTISAMPLE)
	}
	// Texture rows are tightly packed, including 3-channel images.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)

	return &Device{}, nil
}

func (d *Device) CreateVertexBuffer(vertices []renderer.Vertex) renderer.Buffer {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	if len(vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*renderer.VertexStride, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return renderer.Buffer(vbo)
}

func (d *Device) CreateIndexBuffer(indices []uint32) renderer.Buffer {
	var ibo uint32
	gl.GenBuffers(1, &ibo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ibo)
	if len(indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	return renderer.Buffer(ibo)
}

func (d *Device) CreateVertexArray(vbo, ibo renderer.Buffer) renderer.VertexArray {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(vbo))
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(ibo))

	// Position (location = 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, renderer.VertexStride, 0)
	gl.EnableVertexAttribArray(0)

	// Normal (location = 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, renderer.VertexStride, 3*4)
	gl.EnableVertexAttribArray(1)

	// TexCoord (location = 2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, renderer.VertexStride, 6*4)
	gl.EnableVertexAttribArray(2)

	// The element buffer binding is part of the VAO state, so only the
	// VAO is unbound first.
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return renderer.VertexArray(vao)
}

func (d *Device) CreateTexture(img *renderer.Image) renderer.Texture {
	format := uint32(gl.RGBA)
	if img.Channels == 3 {
		format = gl.RGB
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, int32(format), int32(img.Width), int32(img.Height), 0,
		format, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return renderer.Texture(tex)
}

func (d *Device) DeleteBuffer(b renderer.Buffer) {
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
}

func (d *Device) DeleteVertexArray(v renderer.VertexArray) {
	id := uint32(v)
	gl.DeleteVertexArrays(1, &id)
}

func (d *Device) DeleteTexture(t renderer.Texture) {
	id := uint32(t)
	gl.DeleteTextures(1, &id)
}

func (d *Device) CreateProgram(vertexSrc, fragmentSrc string) (renderer.Program, error) {
	p, err := CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return 0, err
	}
	logger.Debug("shader program created", zap.Uint32("program", p))
	return renderer.Program(p), nil
}

func (d *Device) DeleteProgram(p renderer.Program) {
	gl.DeleteProgram(uint32(p))
}

func (d *Device) UniformLocation(p renderer.Program, name string) renderer.Uniform {
	return renderer.Uniform(GetUniform(uint32(p), name))
}

func (d *Device) UseProgram(p renderer.Program) {
	gl.UseProgram(uint32(p))
}

func (d *Device) SetMatrix(u renderer.Uniform, m *mgl32.Mat4) {
	gl.UniformMatrix4fv(int32(u), 1, false, &m[0])
}

func (d *Device) SetInt(u renderer.Uniform, v int32) {
	gl.Uniform1i(int32(u), v)
}

func (d *Device) BindTexture(unit uint32, t renderer.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
}

func (d *Device) DrawIndexed(vao renderer.VertexArray, count int32) {
	gl.BindVertexArray(uint32(vao))
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (d *Device) Clear(c [4]float32) {
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("viewport resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

func (d *Device) ReadPixels(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	gl.ReadBuffer(gl.BACK)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}
