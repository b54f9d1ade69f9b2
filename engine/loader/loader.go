package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-view/engine/mesh"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
)

// LoaderBackendType identifies the mesh file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeOFF selects the OFF text loader backend.
	BackendTypeOFF LoaderBackendType = iota
)

// loader is the implementation of the Loader interface.
type loader struct {
	renderer renderer.Renderer

	parser  *offParser
	backend loaderBackend
}

// Loader defines the public-facing interface for reading mesh files into Meshes.
// It abstracts the file format behind a generic backend. Every call re-reads its input so
// that a file changed on disk is picked up by the next load.
type Loader interface {
	// Load reads a mesh file, derives its normals and normalizing transform, and uploads its
	// GPU buffers when a Renderer is attached.
	//
	// Parameters:
	//   - path: the file path to the mesh file
	//
	// Returns:
	//   - mesh.Mesh: the loaded mesh
	//   - error: *IOError if reading fails, or a wrapped renderer error if the upload fails
	Load(path string) (mesh.Mesh, error)

	// Parse reads a mesh file without touching the GPU.
	//
	// Parameters:
	//   - path: the file path to the mesh file
	//
	// Returns:
	//   - *mesh.ImportedMesh: the parsed geometry
	//   - error: *IOError if reading fails
	Parse(path string) (*mesh.ImportedMesh, error)

	// LoadReader parses mesh data from a reader stream into a Mesh. The mesh is not uploaded.
	//
	// Parameters:
	//   - name: the name given to the mesh and used in errors
	//   - r: the reader providing mesh data
	//
	// Returns:
	//   - mesh.Mesh: the parsed mesh
	//   - error: *IOError if parsing fails
	LoadReader(name string, r io.Reader) (mesh.Mesh, error)

	// Upload creates the GPU buffers of a mesh through the attached Renderer, inside its scoped
	// context. Any buffers the mesh already holds are released first.
	//
	// Parameters:
	//   - m: the mesh to upload
	//
	// Returns:
	//   - error: error if no Renderer is attached or the upload fails
	Upload(m mesh.Mesh) error
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeOFF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		parser: &offParser{
			faceValidation: FaceValidationStrict,
			boundsMode:     mesh.BoundsModeCorrected,
		},
	}

	switch backendType {
	case BackendTypeOFF:
		l.backend = newOFFLoaderBackend(l.parser)
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (mesh.Mesh, error) {
	imported, err := l.Parse(path)
	if err != nil {
		return nil, err
	}

	m := mesh.NewMesh(mesh.FromImported(imported)...)
	if l.renderer != nil {
		if err := l.Upload(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (l *loader) Parse(path string) (*mesh.ImportedMesh, error) {
	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}
	return backend.Load(path)
}

func (l *loader) LoadReader(name string, r io.Reader) (mesh.Mesh, error) {
	imported, err := l.backend.LoadReader(name, r)
	if err != nil {
		return nil, err
	}
	return mesh.NewMesh(mesh.FromImported(imported)...), nil
}

func (l *loader) Upload(m mesh.Mesh) error {
	if l.renderer == nil {
		return fmt.Errorf("loader: cannot upload %q without a Renderer", m.Name())
	}
	err := l.renderer.WithContext(func() error {
		return l.renderer.UploadMesh(m.Buffer(), m.PositionData(), m.NormalData(), m.IndexData(), len(m.Indices()))
	})
	if err != nil {
		return fmt.Errorf("failed to upload mesh %q: %w", m.Name(), err)
	}
	return nil
}

// resolveBackend selects an appropriate loader backend based on the file extension.
// OFF is the only format; files without an extension are read as OFF too.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".off", "":
		return l.backend, nil
	default:
		return nil, &IOError{Path: path, Err: fmt.Errorf("unsupported mesh format: %s", ext)}
	}
}
