package mesh

import (
	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/go-gl/mathgl/mgl32"
)

// ComputeNormals derives one unit normal per vertex from indexed triangles.
//
// Every face contributes its unnormalized cross(b-a, c-b) to each of its three vertices, so larger
// faces weigh more in the shared normal. The sums are normalized once at the end. A vertex that no
// face references keeps a zero normal. Faces with an out-of-range index are skipped.
//
// Parameters:
//   - positions: homogeneous vertex positions; w is ignored
//   - indices: triangle indices, three per face
//
// Returns:
//   - []mgl32.Vec3: a normal for every position
func ComputeNormals(positions []mgl32.Vec4, indices []uint32) []mgl32.Vec3 {
	normals := make([]mgl32.Vec3, len(positions))
	n := uint32(len(positions))

	for f := 0; f+2 < len(indices); f += 3 {
		ia, ib, ic := indices[f], indices[f+1], indices[f+2]
		if ia >= n || ib >= n || ic >= n {
			continue
		}
		a, b, c := positions[ia].Vec3(), positions[ib].Vec3(), positions[ic].Vec3()
		face := b.Sub(a).Cross(c.Sub(b))

		normals[ia] = normals[ia].Add(face)
		normals[ib] = normals[ib].Add(face)
		normals[ic] = normals[ic].Add(face)
	}

	for i := range normals {
		normals[i] = common.Normalize3(normals[i])
	}
	return normals
}
