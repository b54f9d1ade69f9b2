package renderer

import (
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Uniform names shared by the GLSL sources and the OpenGL backend.
const (
	UniformModel           = "model"
	UniformView            = "view"
	UniformProjection      = "projection"
	UniformNormalMatrix    = "normalMatrix"
	UniformLightPosition   = "lightPosition"
	UniformAmbientProduct  = "ambientProduct"
	UniformDiffuseProduct  = "diffuseProduct"
	UniformSpecularProduct = "specularProduct"
	UniformShininess       = "shininess"
)

// FrameUniforms is everything a shading variant reads from the CPU for one frame.
// Light and material enter only through the precomputed products.
type FrameUniforms struct {
	Model        mgl32.Mat4
	View         mgl32.Mat4
	Projection   mgl32.Mat4
	NormalMatrix mgl32.Mat3

	LightPosition   mgl32.Vec4
	AmbientProduct  mgl32.Vec4
	DiffuseProduct  mgl32.Vec4
	SpecularProduct mgl32.Vec4
	Shininess       float32
}

// GPUFrameUniformsSize is the byte size of the WGSL FrameUniforms struct.
const GPUFrameUniformsSize = 320

// GPUFrameUniforms is the uniform buffer representation of FrameUniforms.
// Matches the WGSL FrameUniforms struct: mat3x3 is three padded vec4 columns and the struct
// rounds up to a 16 byte multiple. Size: 320 bytes.
type GPUFrameUniforms struct {
	Model           [16]float32 // offset   0
	View            [16]float32 // offset  64
	Projection      [16]float32 // offset 128
	NormalMatrix    [12]float32 // offset 192
	LightPosition   [4]float32  // offset 240
	AmbientProduct  [4]float32  // offset 256
	DiffuseProduct  [4]float32  // offset 272
	SpecularProduct [4]float32  // offset 288
	Shininess       float32     // offset 304
	_pad            [3]float32  // offset 308
}

// GPU converts the frame uniforms into their uniform buffer layout.
//
// Returns:
//   - GPUFrameUniforms: the padded representation
func (u FrameUniforms) GPU() GPUFrameUniforms {
	return GPUFrameUniforms{
		Model:           u.Model,
		View:            u.View,
		Projection:      u.Projection,
		NormalMatrix:    common.PadMat3(u.NormalMatrix),
		LightPosition:   u.LightPosition,
		AmbientProduct:  u.AmbientProduct,
		DiffuseProduct:  u.DiffuseProduct,
		SpecularProduct: u.SpecularProduct,
		Shininess:       u.Shininess,
	}
}

// Marshal serializes the struct into a little-endian byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: GPUFrameUniformsSize bytes
func (g *GPUFrameUniforms) Marshal() []byte {
	buf := make([]byte, GPUFrameUniformsSize)
	off := 0
	put := func(values ...float32) {
		for _, v := range values {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
			off += 4
		}
	}
	put(g.Model[:]...)
	put(g.View[:]...)
	put(g.Projection[:]...)
	put(g.NormalMatrix[:]...)
	put(g.LightPosition[:]...)
	put(g.AmbientProduct[:]...)
	put(g.DiffuseProduct[:]...)
	put(g.SpecularProduct[:]...)
	put(g.Shininess)
	return buf
}
