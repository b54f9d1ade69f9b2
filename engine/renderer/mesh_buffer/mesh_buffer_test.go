package mesh_buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeshBufferLifecycle(t *testing.T) {
	buf := NewMeshBuffer("bunny")
	assert.Equal(t, "bunny", buf.Label())
	assert.False(t, buf.Allocated())
	assert.False(t, buf.Complete())

	buf.SetVertexArray(uint32(1))
	assert.True(t, buf.Allocated())
	assert.False(t, buf.Complete())

	buf.SetPositionBuffer(uint32(2))
	buf.SetNormalBuffer(uint32(3))
	buf.SetIndexBuffer(uint32(4))
	buf.SetIndexCount(36)
	assert.True(t, buf.Complete())
	assert.Equal(t, 36, buf.IndexCount())

	buf.Reset()
	assert.False(t, buf.Allocated())
	assert.Nil(t, buf.VertexArray())
	assert.Nil(t, buf.IndexBuffer())
	assert.Zero(t, buf.IndexCount())

	// resetting an empty set is harmless
	buf.Reset()
	assert.False(t, buf.Allocated())
}
