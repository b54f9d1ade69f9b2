package mesh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func vec3Near(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, 1e-5), "got %v, want %v", got, want)
}

func TestComputeNormalsSingleTriangle(t *testing.T) {
	positions := []mgl32.Vec4{
		{0, 0, 0, 1},
		{1, 0, 0, 1},
		{0, 1, 0, 1},
	}
	normals := ComputeNormals(positions, []uint32{0, 1, 2})

	assert.Len(t, normals, 3)
	for _, n := range normals {
		vec3Near(t, mgl32.Vec3{0, 0, 1}, n)
	}
}

func TestComputeNormalsCoplanarShared(t *testing.T) {
	// two triangles of different area sharing vertices 0 and 2
	positions := []mgl32.Vec4{
		{0, 0, 0, 1},
		{1, 0, 0, 1},
		{3, 3, 0, 1},
		{0, 1, 0, 1},
	}
	normals := ComputeNormals(positions, []uint32{0, 1, 2, 0, 2, 3})

	vec3Near(t, mgl32.Vec3{0, 0, 1}, normals[0])
	vec3Near(t, mgl32.Vec3{0, 0, 1}, normals[2])
}

func TestComputeNormalsAreaWeighted(t *testing.T) {
	// a large face in the xy plane and a small face in the xz plane share vertex 0
	positions := []mgl32.Vec4{
		{0, 0, 0, 1},
		{4, 0, 0, 1},
		{0, 4, 0, 1},
		{0, 0, -1, 1},
		{1, 0, 0, 1},
	}
	normals := ComputeNormals(positions, []uint32{0, 1, 2, 0, 3, 4})

	// the xy face contributes (0,0,16), the xz face (0,-1,0)
	want := mgl32.Vec3{0, -1, 16}.Normalize()
	vec3Near(t, want, normals[0])
	assert.InDelta(t, 1.0, normals[0].Len(), 1e-5)
}

func TestComputeNormalsUnreferencedVertex(t *testing.T) {
	positions := []mgl32.Vec4{
		{0, 0, 0, 1},
		{1, 0, 0, 1},
		{0, 1, 0, 1},
		{5, 5, 5, 1},
	}
	normals := ComputeNormals(positions, []uint32{0, 1, 2})

	assert.Equal(t, mgl32.Vec3{}, normals[3])
}

func TestComputeNormalsDegenerateFace(t *testing.T) {
	positions := []mgl32.Vec4{
		{0, 0, 0, 1},
		{1, 1, 1, 1},
		{2, 2, 2, 1},
	}
	normals := ComputeNormals(positions, []uint32{0, 1, 2})

	for _, n := range normals {
		assert.Equal(t, mgl32.Vec3{}, n)
	}
}
