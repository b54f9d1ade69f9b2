package mesh

import (
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/mesh_buffer"
	"github.com/go-gl/mathgl/mgl32"
)

// MeshBuilderOption is a functional option for configuring a Mesh via NewMesh.
type MeshBuilderOption func(*mesh)

// WithName sets the mesh identifier.
//
// Parameters:
//   - name: the mesh name
//
// Returns:
//   - MeshBuilderOption: a function that applies the name option to a mesh
func WithName(name string) MeshBuilderOption {
	return func(m *mesh) {
		m.name = name
	}
}

// WithPath records the file the mesh was loaded from.
//
// Parameters:
//   - path: the source file path
//
// Returns:
//   - MeshBuilderOption: a function that applies the path option to a mesh
func WithPath(path string) MeshBuilderOption {
	return func(m *mesh) {
		m.path = path
	}
}

// WithPositions sets the homogeneous vertex positions.
//
// Parameters:
//   - positions: positions with w = 1
//
// Returns:
//   - MeshBuilderOption: a function that applies the positions option to a mesh
func WithPositions(positions []mgl32.Vec4) MeshBuilderOption {
	return func(m *mesh) {
		m.positions = positions
	}
}

// WithIndices sets the triangle indices.
//
// Parameters:
//   - indices: 3 indices per face
//
// Returns:
//   - MeshBuilderOption: a function that applies the indices option to a mesh
func WithIndices(indices []uint32) MeshBuilderOption {
	return func(m *mesh) {
		m.indices = indices
	}
}

// WithNormals sets precomputed per-vertex normals and skips normal estimation.
//
// Parameters:
//   - normals: one unit normal per vertex
//
// Returns:
//   - MeshBuilderOption: a function that applies the normals option to a mesh
func WithNormals(normals []mgl32.Vec3) MeshBuilderOption {
	return func(m *mesh) {
		m.normals = normals
	}
}

// WithBounds sets the bounding box, typically the one tracked while parsing, and skips
// recomputing it from the positions.
//
// Parameters:
//   - bounds: the bounding box
//
// Returns:
//   - MeshBuilderOption: a function that applies the bounds option to a mesh
func WithBounds(bounds Bounds) MeshBuilderOption {
	return func(m *mesh) {
		m.bounds = bounds
		m.boundsSet = true
	}
}

// WithShadingVariant sets the initially selected shading variant index.
//
// Parameters:
//   - variant: the variant index
//
// Returns:
//   - MeshBuilderOption: a function that applies the shading variant option to a mesh
func WithShadingVariant(variant int) MeshBuilderOption {
	return func(m *mesh) {
		m.shadingVariant = variant
	}
}

// WithBuffer sets the MeshBuffer that owns the mesh's GPU resources. When omitted a new,
// unallocated MeshBuffer labelled with the mesh name is created.
//
// Parameters:
//   - buffer: the buffer set
//
// Returns:
//   - MeshBuilderOption: a function that applies the buffer option to a mesh
func WithBuffer(buffer mesh_buffer.MeshBuffer) MeshBuilderOption {
	return func(m *mesh) {
		m.buffer = buffer
	}
}

// FromImported returns the options that build a Mesh from loader output.
//
// Parameters:
//   - imported: the parsed geometry
//
// Returns:
//   - []MeshBuilderOption: name, path, positions, indices and bounds options
func FromImported(imported *ImportedMesh) []MeshBuilderOption {
	return []MeshBuilderOption{
		WithName(imported.Name),
		WithPath(imported.Path),
		WithPositions(imported.Positions),
		WithIndices(imported.Indices),
		WithBounds(imported.Bounds),
	}
}
