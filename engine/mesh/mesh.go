package mesh

import (
	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/mesh_buffer"
	"github.com/go-gl/mathgl/mgl32"
)

// mesh is the implementation of the Mesh interface.
type mesh struct {
	name           string
	path           string
	positions      []mgl32.Vec4
	indices        []uint32
	normals        []mgl32.Vec3
	bounds         Bounds
	boundsSet      bool
	shadingVariant int
	buffer         mesh_buffer.MeshBuffer
}

// Mesh defines the interface for a loaded triangle mesh.
// A Mesh holds the CPU-side geometry, its derived normals and normalizing transform, the shading
// variant selected for it, and the MeshBuffer that owns its GPU resources.
// It is produced by the Loader and replaced wholesale on every load.
type Mesh interface {
	// Name retrieves the mesh identifier.
	//
	// Returns:
	//   - string: the mesh name
	Name() string

	// Path retrieves the file the mesh was loaded from, or an empty string.
	//
	// Returns:
	//   - string: the source path
	Path() string

	// VertexCount returns the number of vertices.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// FaceCount returns the number of triangles.
	//
	// Returns:
	//   - int: the face count
	FaceCount() int

	// Positions returns the homogeneous vertex positions.
	//
	// Returns:
	//   - []mgl32.Vec4: positions with w = 1
	Positions() []mgl32.Vec4

	// Indices returns the triangle indices.
	//
	// Returns:
	//   - []uint32: 3 indices per face
	Indices() []uint32

	// Normals returns the per-vertex unit normals.
	//
	// Returns:
	//   - []mgl32.Vec3: one normal per vertex
	Normals() []mgl32.Vec3

	// Bounds returns the axis-aligned bounding box of the mesh.
	//
	// Returns:
	//   - Bounds: the bounding box
	Bounds() Bounds

	// Center returns the bounding box center.
	//
	// Returns:
	//   - mgl32.Vec3: the center
	Center() mgl32.Vec3

	// Scale returns the factor that maps the bounding box diagonal to length 2.
	//
	// Returns:
	//   - float32: the scale
	Scale() float32

	// ModelMatrix returns Scale(scale) * Translate(-center), recomputed on every call.
	//
	// Returns:
	//   - mgl32.Mat4: the model matrix
	ModelMatrix() mgl32.Mat4

	// ShadingVariant returns the shading variant index selected for this mesh.
	//
	// Returns:
	//   - int: the variant index
	ShadingVariant() int

	// SetShadingVariant stores the shading variant index selected for this mesh.
	//
	// Parameters:
	//   - variant: the variant index
	SetShadingVariant(variant int)

	// Buffer returns the MeshBuffer that owns this mesh's GPU resources.
	//
	// Returns:
	//   - mesh_buffer.MeshBuffer: the buffer set
	Buffer() mesh_buffer.MeshBuffer

	// PositionData returns the positions as raw bytes for upload.
	//
	// Returns:
	//   - []byte: 16 bytes per vertex
	PositionData() []byte

	// NormalData returns the normals as raw bytes for upload.
	//
	// Returns:
	//   - []byte: 12 bytes per vertex
	NormalData() []byte

	// IndexData returns the indices as raw bytes for upload.
	//
	// Returns:
	//   - []byte: 4 bytes per index
	IndexData() []byte
}

var _ Mesh = &mesh{}

// NewMesh creates a new Mesh with the provided options applied.
// When no normals are supplied they are computed from the positions and indices, and when no
// bounds are supplied they are computed from the positions in BoundsModeCorrected.
//
// Parameters:
//   - options: a variadic list of MeshBuilderOption functions
//
// Returns:
//   - Mesh: the new mesh
func NewMesh(options ...MeshBuilderOption) Mesh {
	m := &mesh{
		name: "mesh",
	}
	for _, opt := range options {
		opt(m)
	}

	if m.normals == nil {
		m.normals = ComputeNormals(m.positions, m.indices)
	}
	if !m.boundsSet {
		m.bounds = ComputeBounds(m.positions, BoundsModeCorrected)
	}
	if m.buffer == nil {
		m.buffer = mesh_buffer.NewMeshBuffer(m.name)
	}
	return m
}

func (m *mesh) Name() string {
	return m.name
}

func (m *mesh) Path() string {
	return m.path
}

func (m *mesh) VertexCount() int {
	return len(m.positions)
}

func (m *mesh) FaceCount() int {
	return len(m.indices) / 3
}

func (m *mesh) Positions() []mgl32.Vec4 {
	return m.positions
}

func (m *mesh) Indices() []uint32 {
	return m.indices
}

func (m *mesh) Normals() []mgl32.Vec3 {
	return m.normals
}

func (m *mesh) Bounds() Bounds {
	return m.bounds
}

func (m *mesh) Center() mgl32.Vec3 {
	return m.bounds.Center()
}

func (m *mesh) Scale() float32 {
	return m.bounds.Scale()
}

func (m *mesh) ModelMatrix() mgl32.Mat4 {
	return m.bounds.ModelMatrix()
}

func (m *mesh) ShadingVariant() int {
	return m.shadingVariant
}

func (m *mesh) SetShadingVariant(variant int) {
	m.shadingVariant = variant
}

func (m *mesh) Buffer() mesh_buffer.MeshBuffer {
	return m.buffer
}

func (m *mesh) PositionData() []byte {
	return common.SliceToBytes(m.positions)
}

func (m *mesh) NormalData() []byte {
	return common.SliceToBytes(m.normals)
}

func (m *mesh) IndexData() []byte {
	return common.SliceToBytes(m.indices)
}
