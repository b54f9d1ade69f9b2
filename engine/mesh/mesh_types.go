package mesh

import "github.com/go-gl/mathgl/mgl32"

// ImportedMesh is the raw geometry produced by a loader backend, before normals are estimated
// and before anything touches the GPU.
type ImportedMesh struct {
	// Name is the mesh identifier, usually the file base name.
	Name string

	// Path is the file the mesh was read from, empty for reader-backed loads.
	Path string

	// VertexCount is the number of vertices declared by the file header.
	VertexCount int

	// FaceCount is the number of triangles declared by the file header.
	FaceCount int

	// Positions are the vertex positions with w = 1.
	Positions []mgl32.Vec4

	// Indices are the triangle indices, 3 per face.
	Indices []uint32

	// Bounds is the box tracked while the vertices were read.
	Bounds Bounds
}
