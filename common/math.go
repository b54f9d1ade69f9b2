package common

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// MulComponents4 multiplies two 4-component vectors component by component.
// This is the reflectance product of a light intensity and a material coefficient.
//
// Parameters:
//   - a: left-hand vector
//   - b: right-hand vector
//
// Returns:
//   - mgl32.Vec4: (a.x*b.x, a.y*b.y, a.z*b.z, a.w*b.w)
func MulComponents4(a, b mgl32.Vec4) mgl32.Vec4 {
	return mgl32.Vec4{a[0] * b[0], a[1] * b[1], a[2] * b[2], a[3] * b[3]}
}

// Normalize3 returns v scaled to unit length. A zero-length vector is returned unchanged
// rather than producing NaN components.
//
// Parameters:
//   - v: the vector to normalize
//
// Returns:
//   - mgl32.Vec3: the unit vector, or the zero vector
func Normalize3(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}

// NormalMatrix derives the normal transform from a model matrix: the inverse-transpose
// of its upper-left 3x3 block. Normals transformed with it stay perpendicular to the
// surface under non-uniform scale. A singular block falls back to the identity.
//
// Parameters:
//   - model: the model matrix
//
// Returns:
//   - mgl32.Mat3: the normal matrix
func NormalMatrix(model mgl32.Mat4) mgl32.Mat3 {
	m := model.Mat3()
	if m.Det() == 0 {
		return mgl32.Ident3()
	}
	return m.Inv().Transpose()
}

// PadMat3 lays a 3x3 matrix out as three vec4 columns, the uniform buffer layout WGSL
// and std140 use for mat3x3<f32>.
//
// Parameters:
//   - m: the matrix to pad
//
// Returns:
//   - [12]float32: column-major data with a zero pad after every column
func PadMat3(m mgl32.Mat3) [12]float32 {
	return [12]float32{
		m[0], m[1], m[2], 0,
		m[3], m[4], m[5], 0,
		m[6], m[7], m[8], 0,
	}
}
