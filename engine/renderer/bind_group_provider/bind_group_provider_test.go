package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBindGroupProviderIsEmpty(t *testing.T) {
	p := NewBindGroupProvider("phong")

	assert.Equal(t, "phong", p.Label())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.Buffer(0))
}

func TestWriteWithoutBufferFails(t *testing.T) {
	p := NewBindGroupProvider("flat")

	err := p.Write(BufferWrite{Binding: 0, Data: []byte{1, 2, 3, 4}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "binding 0")
}

func TestReleaseEmptyProviderTwice(t *testing.T) {
	p := NewBindGroupProvider("normals", WithBuffer(1, nil), WithBindGroup(nil))

	assert.NotPanics(t, func() {
		p.Release()
		p.Release()
	})
	assert.Nil(t, p.Buffer(1))
}
