// Package shader holds the editor's GLSL sources and the program that
// draws world geometry.
package shader

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/mappingtool/internal/engine/renderer"
)

// ModelVertexShader is the built-in vertex shader for world geometry.
//
//go:embed model.vert
var ModelVertexShader string

// ModelFragmentShader is the built-in fragment shader for world geometry.
//
//go:embed model.frag
var ModelFragmentShader string

// Uniform names shared with the GLSL sources.
const (
	UniformModel          = "M"
	UniformViewProjection = "VP"
	UniformTexture        = "tex"
)

// Sources is a vertex and fragment shader pair.
type Sources struct {
	Vertex   string
	Fragment string
}

// Default returns the embedded sources.
func Default() Sources {
	return Sources{Vertex: ModelVertexShader, Fragment: ModelFragmentShader}
}

// Load reads shader sources from disk. An empty path selects the
// embedded source for that stage.
func Load(vertexPath, fragmentPath string) (Sources, error) {
	src := Default()
	if vertexPath != "" {
		data, err := os.ReadFile(vertexPath)
		if err != nil {
			return Sources{}, fmt.Errorf("reading vertex shader: %w", err)
		}
		src.Vertex = string(data)
	}
	if fragmentPath != "" {
		data, err := os.ReadFile(fragmentPath)
		if err != nil {
			return Sources{}, fmt.Errorf("reading fragment shader: %w", err)
		}
		src.Fragment = string(data)
	}
	return src, nil
}

// Program is the linked model program and its uniform locations.
type Program struct {
	ID             renderer.Program
	Model          renderer.Uniform
	ViewProjection renderer.Uniform
	Texture        renderer.Uniform
}

// Build compiles and links src on dev.
func Build(dev renderer.Device, src Sources) (*Program, error) {
	id, err := dev.CreateProgram(src.Vertex, src.Fragment)
	if err != nil {
		return nil, fmt.Errorf("building model program: %w", err)
	}
	return &Program{
		ID:             id,
		Model:          dev.UniformLocation(id, UniformModel),
		ViewProjection: dev.UniformLocation(id, UniformViewProjection),
		Texture:        dev.UniformLocation(id, UniformTexture),
	}, nil
}

// Use binds the program, uploads the view-projection matrix, resets the
// model matrix to identity and points the sampler at texture unit 0.
func (p *Program) Use(dev renderer.Device, vp *mgl32.Mat4) {
	ident := mgl32.Ident4()
	dev.UseProgram(p.ID)
	dev.SetMatrix(p.ViewProjection, vp)
	dev.SetMatrix(p.Model, &ident)
	dev.SetInt(p.Texture, 0)
}

// Rebuild links src and, on success, replaces p's program with the new
// one. On failure p keeps its current program.
func (p *Program) Rebuild(dev renderer.Device, src Sources) error {
	next, err := Build(dev, src)
	if err != nil {
		return err
	}
	dev.DeleteProgram(p.ID)
	*p = *next
	return nil
}

// Release deletes the GPU program.
func (p *Program) Release(dev renderer.Device) {
	if p.ID != 0 {
		dev.DeleteProgram(p.ID)
		p.ID = 0
	}
}
