// Package assets imports model files into an in-memory scene description.
//
// Format decoders register themselves by file extension (see the obj
// subpackage); callers go through Import and never name a format.
package assets

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/mappingtool/internal/logger"
)

// ErrUnsupportedFormat is returned when no importer handles a file extension.
var ErrUnsupportedFormat = errors.New("unsupported model format")

// Scene is an imported model file.
type Scene struct {
	Path      string
	Meshes    []*Mesh
	Materials []*Material
	// Warnings collects recoverable problems found while importing.
	Warnings []string
}

// Mesh is one sub-mesh of an imported scene. Normals and TexCoords are
// either empty or the same length as Positions.
type Mesh struct {
	Name          string
	Positions     [][3]float32
	Normals       [][3]float32
	TexCoords     [][2]float32
	Faces         [][]uint32
	MaterialIndex int
}

// HasNormals reports whether every vertex has a normal.
func (m *Mesh) HasNormals() bool {
	return len(m.Normals) > 0 && len(m.Normals) == len(m.Positions)
}

// HasTexCoords reports whether every vertex has a texture coordinate.
func (m *Mesh) HasTexCoords() bool {
	return len(m.TexCoords) > 0 && len(m.TexCoords) == len(m.Positions)
}

// Material is an imported surface description.
type Material struct {
	Name string
	// DiffuseTexture is the diffuse map path as written in the file,
	// relative to the model directory. Empty when there is none.
	DiffuseTexture string
	DiffuseColor   [3]float32
	AmbientColor   [3]float32
	SpecularColor  [3]float32
	Shininess      float32
	Opacity        float32
}

// Importer decodes one model file format.
type Importer interface {
	Import(path string) (*Scene, error)
}

// ImporterFunc adapts a function to the Importer interface.
type ImporterFunc func(path string) (*Scene, error)

// Import calls f.
func (f ImporterFunc) Import(path string) (*Scene, error) {
	return f(path)
}

// Registry maps lower-case file extensions to importers.
type Registry struct {
	importers map[string]Importer
	mu        sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{importers: make(map[string]Importer)}
}

// Register adds an importer for ext (with or without the leading dot).
func (r *Registry) Register(ext string, imp Importer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.importers[normalizeExt(ext)] = imp
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.importers))
	for ext := range r.importers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Import decodes path with the importer registered for its extension
// and applies the requested post-processing steps.
func (r *Registry) Import(path string, flags PostProcess) (*Scene, error) {
	ext := normalizeExt(filepath.Ext(path))

	r.mu.RLock()
	imp, ok := r.importers[ext]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w %q", path, ErrUnsupportedFormat, ext)
	}

	scene, err := imp.Import(path)
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", path, err)
	}
	if scene.Path == "" {
		scene.Path = path
	}
	Apply(scene, flags)

	for _, w := range scene.Warnings {
		logger.Warn("model import warning", zap.String("path", path), zap.String("warning", w))
	}
	return scene, nil
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Default is the process-wide registry used by Register and Import.
var Default = NewRegistry()

// Register adds an importer to the default registry.
func Register(ext string, imp Importer) {
	Default.Register(ext, imp)
}

// Import imports a model through the default registry.
func Import(path string, flags PostProcess) (*Scene, error) {
	return Default.Import(path, flags)
}
