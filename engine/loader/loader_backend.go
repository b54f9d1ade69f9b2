package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-view/engine/mesh"
)

// loaderBackend defines the generic interface for reading mesh files or streams.
// Concrete implementations (e.g., offLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load reads and parses the mesh file at the given path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *mesh.ImportedMesh: the imported mesh data
	//   - error: *IOError if opening or parsing fails
	Load(path string) (*mesh.ImportedMesh, error)

	// LoadReader parses mesh data from a reader stream.
	//
	// Parameters:
	//   - name: the stream name used in errors and as the mesh name
	//   - r: the reader providing mesh data
	//
	// Returns:
	//   - *mesh.ImportedMesh: the imported mesh data
	//   - error: *IOError if parsing fails
	LoadReader(name string, r io.Reader) (*mesh.ImportedMesh, error)
}
