package loader

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-view/engine/mesh"
)

// offLoaderBackendImpl is the implementation of offLoaderBackend.
type offLoaderBackendImpl struct {
	parser *offParser
}

// offLoaderBackend is a loaderBackend implementation for OFF text files.
type offLoaderBackend interface {
	loaderBackend
}

var _ offLoaderBackend = &offLoaderBackendImpl{}

// newOFFLoaderBackend creates a new OFF loader backend that shares the given parser settings.
//
// Parameters:
//   - parser: the parser carrying face validation and bounds mode
//
// Returns:
//   - offLoaderBackend: the loader backend for OFF files
func newOFFLoaderBackend(parser *offParser) offLoaderBackend {
	return &offLoaderBackendImpl{
		parser: parser,
	}
}

func (b *offLoaderBackendImpl) Load(path string) (*mesh.ImportedMesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	defer f.Close()

	imported, err := b.parser.parse(path, f)
	if err != nil {
		return nil, err
	}
	imported.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	imported.Path = path
	return imported, nil
}

func (b *offLoaderBackendImpl) LoadReader(name string, r io.Reader) (*mesh.ImportedMesh, error) {
	return b.parser.parse(name, r)
}
