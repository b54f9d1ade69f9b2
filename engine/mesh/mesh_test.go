package mesh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMeshDerivesNormalsAndBounds(t *testing.T) {
	m := NewMesh(
		WithName("tri"),
		WithPositions([]mgl32.Vec4{{0, 0, 0, 1}, {2, 0, 0, 1}, {0, 2, 0, 1}}),
		WithIndices([]uint32{0, 1, 2}),
	)

	assert.Equal(t, "tri", m.Name())
	assert.Equal(t, 3, m.VertexCount())
	assert.Equal(t, 1, m.FaceCount())
	require.Len(t, m.Normals(), 3)
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, m.Normals()[0])
	assert.Equal(t, mgl32.Vec3{1, 1, 0}, m.Center())
	require.NotNil(t, m.Buffer())
	assert.Equal(t, "tri", m.Buffer().Label())
	assert.False(t, m.Buffer().Allocated())
}

func TestNewMeshFromImported(t *testing.T) {
	imported := &ImportedMesh{
		Name:        "quad",
		Path:        "/tmp/quad.off",
		VertexCount: 4,
		FaceCount:   2,
		Positions:   []mgl32.Vec4{{0, 0, 0, 1}, {1, 0, 0, 1}, {1, 1, 0, 1}, {0, 1, 0, 1}},
		Indices:     []uint32{0, 1, 2, 0, 2, 3},
		// a tracked box different from the positions wins over recomputation
		Bounds: Bounds{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{2, 2, 0}},
	}
	m := NewMesh(append(FromImported(imported), WithShadingVariant(3))...)

	assert.Equal(t, "/tmp/quad.off", m.Path())
	assert.Equal(t, 2, m.FaceCount())
	assert.Equal(t, mgl32.Vec3{1, 1, 0}, m.Center())
	assert.Equal(t, 3, m.ShadingVariant())

	m.SetShadingVariant(1)
	assert.Equal(t, 1, m.ShadingVariant())
}

func TestMeshByteViews(t *testing.T) {
	m := NewMesh(
		WithPositions([]mgl32.Vec4{{0, 0, 0, 1}, {1, 0, 0, 1}, {0, 1, 0, 1}}),
		WithIndices([]uint32{0, 1, 2}),
	)

	assert.Len(t, m.PositionData(), 3*16)
	assert.Len(t, m.NormalData(), 3*12)
	assert.Len(t, m.IndexData(), 3*4)
}
