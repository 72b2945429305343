// Package obj decodes Wavefront OBJ models and their MTL material
// libraries into an assets.Scene.
//
// Importing this package registers the decoder for the ".obj" extension:
//
//	import _ "github.com/Faultbox/mappingtool/internal/assets/obj"
package obj

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Faultbox/mappingtool/internal/assets"
)

func init() {
	assets.Register(".obj", assets.ImporterFunc(Load))
}

// DefaultMaterialName names the material used by faces that appear
// before any usemtl statement.
const DefaultMaterialName = "default"

// Opener opens a file referenced from a model, such as an mtllib.
type Opener func(name string) (io.ReadCloser, error)

// Load decodes the OBJ file at path. Material libraries are resolved
// relative to the file's directory.
func Load(path string) (*assets.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dir := filepath.Dir(path)
	open := func(name string) (io.ReadCloser, error) {
		name = strings.ReplaceAll(name, `\`, "/")
		if !filepath.IsAbs(name) {
			name = filepath.Join(dir, name)
		}
		return os.Open(name)
	}

	scene, err := Decode(f, open)
	if err != nil {
		return nil, err
	}
	scene.Path = path
	return scene, nil
}

// Decode reads an OBJ stream. open resolves mtllib references; it may
// be nil, in which case material libraries are skipped with a warning.
func Decode(r io.Reader, open Opener) (*assets.Scene, error) {
	d := &decoder{
		scene:     &assets.Scene{},
		materials: make(map[string]int),
		material:  -1,
		open:      open,
	}
	if err := d.parse(r, "obj", d.objLine); err != nil {
		return nil, err
	}
	d.finishMesh()
	return d.scene, nil
}

type decoder struct {
	scene *assets.Scene

	// Shared vertex attribute pools, indexed by face statements
	positions [][3]float32
	normals   [][3]float32
	uvs       [][2]float32

	materials map[string]int // name -> index into scene.Materials
	open      Opener

	object      string
	material    int // -1 until the first usemtl or face
	mesh        *assets.Mesh
	meshMissing bool // a face corner of mesh lacked a normal

	file string
	line int
}

// parse feeds every non-blank, non-comment line to fn.
func (d *decoder) parse(r io.Reader, file string, fn func(kind string, args []string) error) error {
	prevFile, prevLine := d.file, d.line
	d.file, d.line = file, 0
	defer func() { d.file, d.line = prevFile, prevLine }()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		d.line++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if err := fn(fields[0], fields[1:]); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}
	return nil
}

func (d *decoder) objLine(kind string, args []string) error {
	switch kind {
	case "v":
		v, err := d.floats(args, 3)
		if err != nil {
			return err
		}
		d.positions = append(d.positions, [3]float32{v[0], v[1], v[2]})
	case "vn":
		v, err := d.floats(args, 3)
		if err != nil {
			return err
		}
		d.normals = append(d.normals, [3]float32{v[0], v[1], v[2]})
	case "vt":
		v, err := d.floats(args, 2)
		if err != nil {
			return err
		}
		d.uvs = append(d.uvs, [2]float32{v[0], v[1]})
	case "f":
		return d.face(args)
	case "o", "g":
		name := strings.Join(args, " ")
		if name != d.object {
			d.finishMesh()
			d.object = name
		}
	case "usemtl":
		if len(args) < 1 {
			return d.errorf("usemtl with no name")
		}
		idx := d.materialIndex(args[0])
		if idx != d.material {
			d.finishMesh()
			d.material = idx
		}
	case "mtllib":
		for _, name := range args {
			d.loadLibrary(name)
		}
	case "s", "l", "p", "vp":
		// Smoothing groups, lines, points and parameter space vertices
		// have no effect on triangle meshes.
	default:
		d.warnf("unsupported statement %q", kind)
	}
	return nil
}

// face appends one polygon to the current mesh. Every corner becomes a
// new vertex; identical vertices are merged later by post-processing.
func (d *decoder) face(args []string) error {
	if len(args) < 3 {
		d.warnf("face with %d vertices skipped", len(args))
		return nil
	}
	m := d.currentMesh()

	face := make([]uint32, 0, len(args))
	for _, corner := range args {
		parts := strings.Split(corner, "/")

		pi, err := d.index(parts[0], len(d.positions))
		if err != nil {
			return err
		}
		m.Positions = append(m.Positions, d.positions[pi])

		var uv [2]float32
		if len(parts) > 1 && parts[1] != "" {
			ti, err := d.index(parts[1], len(d.uvs))
			if err != nil {
				return err
			}
			uv = d.uvs[ti]
		}
		m.TexCoords = append(m.TexCoords, uv)

		var n [3]float32
		if len(parts) > 2 && parts[2] != "" {
			ni, err := d.index(parts[2], len(d.normals))
			if err != nil {
				return err
			}
			n = d.normals[ni]
		} else {
			d.meshMissing = true
		}
		m.Normals = append(m.Normals, n)

		face = append(face, uint32(len(m.Positions)-1))
	}
	m.Faces = append(m.Faces, face)
	return nil
}

// index resolves a 1-based or negative (relative) OBJ index against a
// pool of size n.
func (d *decoder) index(s string, n int) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, d.errorf("bad index %q", s)
	}
	switch {
	case v > 0:
		v--
	case v < 0:
		v += n
	default:
		return 0, d.errorf("index 0 is not valid")
	}
	if v < 0 || v >= n {
		return 0, d.errorf("index %s out of range (%d defined)", s, n)
	}
	return v, nil
}

func (d *decoder) currentMesh() *assets.Mesh {
	if d.mesh != nil {
		return d.mesh
	}
	if d.material < 0 {
		d.material = d.materialIndex(DefaultMaterialName)
	}
	name := d.object
	if name == "" {
		name = fmt.Sprintf("mesh%d", len(d.scene.Meshes))
	}
	d.mesh = &assets.Mesh{Name: name, MaterialIndex: d.material}
	d.meshMissing = false
	return d.mesh
}

// finishMesh closes the mesh being built, if any.
func (d *decoder) finishMesh() {
	m := d.mesh
	if m == nil {
		return
	}
	d.mesh = nil
	if len(m.Faces) == 0 {
		return
	}
	if d.meshMissing {
		// Partial normals are useless; let post-processing generate them.
		m.Normals = nil
	}
	if len(d.uvs) == 0 {
		m.TexCoords = nil
	}
	d.scene.Meshes = append(d.scene.Meshes, m)
}

// materialIndex returns the index of the named material, creating a
// plain grey one if no library defined it.
func (d *decoder) materialIndex(name string) int {
	if idx, ok := d.materials[name]; ok {
		return idx
	}
	if name != DefaultMaterialName {
		d.warnf("material %q not defined, using default", name)
	}
	return d.addMaterial(defaultMaterial(name))
}

func (d *decoder) addMaterial(m *assets.Material) int {
	idx := len(d.scene.Materials)
	d.scene.Materials = append(d.scene.Materials, m)
	d.materials[m.Name] = idx
	return idx
}

func (d *decoder) floats(args []string, n int) ([]float32, error) {
	if len(args) < n {
		return nil, d.errorf("expected %d values, got %d", n, len(args))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return nil, d.errorf("bad number %q", args[i])
		}
		out[i] = float32(v)
	}
	return out, nil
}

func (d *decoder) errorf(format string, args ...any) error {
	return fmt.Errorf("%s line %d: %s", d.file, d.line, fmt.Sprintf(format, args...))
}

func (d *decoder) warnf(format string, args ...any) {
	d.scene.Warnings = append(d.scene.Warnings,
		fmt.Sprintf("%s line %d: %s", d.file, d.line, fmt.Sprintf(format, args...)))
}

func defaultMaterial(name string) *assets.Material {
	return &assets.Material{
		Name:          name,
		DiffuseColor:  [3]float32{0.63, 0.63, 0.63},
		AmbientColor:  [3]float32{0.63, 0.63, 0.63},
		SpecularColor: [3]float32{0.5, 0.5, 0.5},
		Shininess:     30,
		Opacity:       1,
	}
}
