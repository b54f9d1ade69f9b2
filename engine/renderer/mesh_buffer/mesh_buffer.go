package mesh_buffer

// meshBuffer is the unexported implementation of MeshBuffer.
type meshBuffer struct {
	// label is a debug label added for convenience.
	label string

	// The following fields are backend allocated resources and must be released through the Renderer
	// when no longer needed. A nil handle means the resource is not allocated.

	// vertexArray is the attribute binding object (a GL vertex array name, or the backend's equivalent).
	vertexArray any
	// positionBuffer holds vec4 positions bound to attribute slot 0.
	positionBuffer any
	// normalBuffer holds vec3 normals bound to attribute slot 1.
	normalBuffer any
	// indexBuffer holds uint32 triangle indices.
	indexBuffer any
	// indexCount is the number of indices drawn for this buffer set, 3 per face.
	indexCount int
}

// MeshBuffer is the device-side representation of exactly one mesh: a vertex array binding,
// a position buffer, a normal buffer and an index buffer. The handles are opaque to everything
// but the RendererBackend that created them.
//
// Usage pattern:
//  1. The Loader creates a MeshBuffer for each new Mesh
//  2. Renderer.UploadMesh releases any previous handles, then allocates and fills new ones
//  3. The Render Pass reads the handles to issue the indexed draw
//  4. Renderer.ReleaseMesh deletes every handle and resets them to nil
type MeshBuffer interface {
	// Label returns the debug label for this buffer set.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// VertexArray returns the backend vertex array handle, or nil if not allocated.
	//
	// Returns:
	//   - any: the vertex array handle
	VertexArray() any

	// PositionBuffer returns the backend position buffer handle, or nil if not allocated.
	//
	// Returns:
	//   - any: the position buffer handle
	PositionBuffer() any

	// NormalBuffer returns the backend normal buffer handle, or nil if not allocated.
	//
	// Returns:
	//   - any: the normal buffer handle
	NormalBuffer() any

	// IndexBuffer returns the backend index buffer handle, or nil if not allocated.
	//
	// Returns:
	//   - any: the index buffer handle
	IndexBuffer() any

	// IndexCount returns the number of indices to draw.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// Allocated reports whether any handle is currently held.
	//
	// Returns:
	//   - bool: true if at least one handle is non-nil
	Allocated() bool

	// Complete reports whether all four handles are held, which is required for drawing.
	//
	// Returns:
	//   - bool: true if the buffer set can be drawn
	Complete() bool

	// SetVertexArray stores the vertex array handle. Called by the backend.
	//
	// Parameters:
	//   - handle: the vertex array handle
	SetVertexArray(handle any)

	// SetPositionBuffer stores the position buffer handle. Called by the backend.
	//
	// Parameters:
	//   - handle: the position buffer handle
	SetPositionBuffer(handle any)

	// SetNormalBuffer stores the normal buffer handle. Called by the backend.
	//
	// Parameters:
	//   - handle: the normal buffer handle
	SetNormalBuffer(handle any)

	// SetIndexBuffer stores the index buffer handle. Called by the backend.
	//
	// Parameters:
	//   - handle: the index buffer handle
	SetIndexBuffer(handle any)

	// SetIndexCount stores the number of indices to draw.
	//
	// Parameters:
	//   - count: the index count
	SetIndexCount(count int)

	// Reset clears every handle back to nil and the index count to zero. It does not free
	// anything; the backend calls it after deleting the resources.
	Reset()
}

var _ MeshBuffer = &meshBuffer{}

// NewMeshBuffer creates an empty MeshBuffer with no allocated handles.
//
// Parameters:
//   - label: a debug label used for backend resource labels and logging
//
// Returns:
//   - MeshBuffer: the new buffer set
func NewMeshBuffer(label string) MeshBuffer {
	return &meshBuffer{
		label: label,
	}
}

func (m *meshBuffer) Label() string {
	return m.label
}

func (m *meshBuffer) VertexArray() any {
	return m.vertexArray
}

func (m *meshBuffer) PositionBuffer() any {
	return m.positionBuffer
}

func (m *meshBuffer) NormalBuffer() any {
	return m.normalBuffer
}

func (m *meshBuffer) IndexBuffer() any {
	return m.indexBuffer
}

func (m *meshBuffer) IndexCount() int {
	return m.indexCount
}

func (m *meshBuffer) Allocated() bool {
	return m.vertexArray != nil || m.positionBuffer != nil || m.normalBuffer != nil || m.indexBuffer != nil
}

func (m *meshBuffer) Complete() bool {
	return m.vertexArray != nil && m.positionBuffer != nil && m.normalBuffer != nil && m.indexBuffer != nil
}

func (m *meshBuffer) SetVertexArray(handle any) {
	m.vertexArray = handle
}

func (m *meshBuffer) SetPositionBuffer(handle any) {
	m.positionBuffer = handle
}

func (m *meshBuffer) SetNormalBuffer(handle any) {
	m.normalBuffer = handle
}

func (m *meshBuffer) SetIndexBuffer(handle any) {
	m.indexBuffer = handle
}

func (m *meshBuffer) SetIndexCount(count int) {
	m.indexCount = count
}

func (m *meshBuffer) Reset() {
	m.vertexArray = nil
	m.positionBuffer = nil
	m.normalBuffer = nil
	m.indexBuffer = nil
	m.indexCount = 0
}
