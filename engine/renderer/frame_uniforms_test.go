package renderer

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatAt(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

func TestGPUFrameUniformsLayout(t *testing.T) {
	u := FrameUniforms{
		Model:           mgl32.Scale3D(2, 2, 2),
		View:            mgl32.Translate3D(0, 0, -1),
		Projection:      mgl32.Ortho(-1, 1, -1, 1, 0, 2),
		NormalMatrix:    mgl32.Mat3{1, 2, 3, 4, 5, 6, 7, 8, 9},
		LightPosition:   mgl32.Vec4{1, 2, 3, 0},
		AmbientProduct:  mgl32.Vec4{0.1, 0.1, 0.1, 1},
		DiffuseProduct:  mgl32.Vec4{0.5, 0.5, 0.5, 1},
		SpecularProduct: mgl32.Vec4{1, 1, 1, 1},
		Shininess:       32,
	}
	gpu := u.GPU()
	buf := gpu.Marshal()

	require.Len(t, buf, GPUFrameUniformsSize)
	assert.Equal(t, float32(2), floatAt(buf, 0))
	assert.Equal(t, float32(-1), floatAt(buf, 64+14*4))

	// mat3 columns start every 16 bytes with a zero pad after each.
	assert.Equal(t, []float32{1, 2, 3, 0, 4, 5, 6, 0, 7, 8, 9, 0}, func() []float32 {
		out := make([]float32, 12)
		for i := range out {
			out[i] = floatAt(buf, 192+i*4)
		}
		return out
	}())

	assert.Equal(t, float32(1), floatAt(buf, 240))
	assert.Equal(t, float32(3), floatAt(buf, 248))
	assert.Equal(t, float32(0.5), floatAt(buf, 272))
	assert.Equal(t, float32(32), floatAt(buf, 304))
	assert.Zero(t, floatAt(buf, 316))
}

func TestMergeBindGroupLayoutsOrsVisibility(t *testing.T) {
	entry := func(binding uint32, visibility wgpu.ShaderStage) wgpu.BindGroupLayoutEntry {
		return wgpu.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: visibility,
			Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform, MinBindingSize: GPUFrameUniformsSize},
		}
	}
	vertex := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Label: "frame", Entries: []wgpu.BindGroupLayoutEntry{entry(0, wgpu.ShaderStageVertex)}},
	}
	fragment := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Label: "frame", Entries: []wgpu.BindGroupLayoutEntry{entry(0, wgpu.ShaderStageFragment), entry(2, wgpu.ShaderStageFragment)}},
		1: {Label: "extra", Entries: []wgpu.BindGroupLayoutEntry{entry(0, wgpu.ShaderStageFragment)}},
	}

	merged := mergeBindGroupLayouts(vertex, fragment)

	require.Len(t, merged, 2)
	require.Len(t, merged[0].Entries, 2)
	assert.Equal(t, uint32(0), merged[0].Entries[0].Binding)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, merged[0].Entries[0].Visibility)
	assert.Equal(t, uint32(2), merged[0].Entries[1].Binding)
	assert.Equal(t, wgpu.ShaderStageFragment, merged[0].Entries[1].Visibility)
	assert.Equal(t, "extra", merged[1].Label)
}
