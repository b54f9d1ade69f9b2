package material

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMaterial(t *testing.T) {
	m, err := NewMaterial(WithName("clay"), WithDiffuse(mgl32.Vec4{0.8, 0.4, 0.2, 1}), WithShininess(8))
	require.NoError(t, err)

	assert.Equal(t, "clay", m.Name())
	assert.Equal(t, mgl32.Vec4{0.8, 0.4, 0.2, 1}, m.Diffuse())
	assert.Equal(t, DefaultAmbient, m.Ambient())
	assert.Equal(t, float32(8), m.Shininess())
}

func TestNewMaterialRejectsShininess(t *testing.T) {
	for _, s := range []float32{0, -1} {
		_, err := NewMaterial(WithShininess(s))
		assert.ErrorIs(t, err, ErrInvalidShininess)
	}
}

func TestSetShininessKeepsOldValue(t *testing.T) {
	m, err := NewMaterial()
	require.NoError(t, err)

	assert.ErrorIs(t, m.SetShininess(0), ErrInvalidShininess)
	assert.Equal(t, DefaultShininess, m.Shininess())

	require.NoError(t, m.SetShininess(20))
	assert.Equal(t, float32(20), m.Shininess())
}
