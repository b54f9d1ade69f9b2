package shader

import (
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var programNames = []string{"constant", "flat", "gouraud", "phong", "normals"}

func TestBuiltInSourcesParse(t *testing.T) {
	for _, lang := range []Language{LanguageGLSL, LanguageWGSL} {
		for _, name := range programNames {
			for _, stage := range []ShaderType{ShaderTypeVertex, ShaderTypeFragment} {
				t.Run(lang.String()+"/"+name+"/"+stage.String(), func(t *testing.T) {
					s, err := NewShaderFromFS(name, stage, lang, Assets, SourcePath(lang, name, stage))
					require.NoError(t, err)
					assert.NotEmpty(t, s.EntryPoint())
					assert.NotContains(t, s.Source(), annotationPrefix)
				})
			}
		}
	}
}

func TestGLSLReflection(t *testing.T) {
	s, err := NewShaderFromFS("phong", ShaderTypeVertex, LanguageGLSL, Assets, SourcePath(LanguageGLSL, "phong", ShaderTypeVertex))
	require.NoError(t, err)

	loc, ok := s.AttributeLocation("vPosition")
	require.True(t, ok)
	assert.Equal(t, 0, loc)
	loc, ok = s.AttributeLocation("vNormal")
	require.True(t, ok)
	assert.Equal(t, 1, loc)

	assert.Equal(t, []string{
		"model", "view", "projection", "normalMatrix",
		"lightPosition", "ambientProduct", "diffuseProduct", "specularProduct", "shininess",
	}, s.Uniforms())
	assert.Equal(t, "mat3", s.UniformType("normalMatrix"))
	assert.Equal(t, "float", s.UniformType("shininess"))
	assert.Equal(t, "main", s.EntryPoint())
	assert.Nil(t, s.Module())
}

func TestWGSLReflection(t *testing.T) {
	s, err := NewShaderFromFS("phong", ShaderTypeVertex, LanguageWGSL, Assets, SourcePath(LanguageWGSL, "phong", ShaderTypeVertex))
	require.NoError(t, err)

	assert.Equal(t, "vs_main", s.EntryPoint())

	layouts := s.VertexLayouts()
	require.Len(t, layouts, 2)
	assert.Equal(t, uint64(16), layouts[0].ArrayStride)
	assert.Equal(t, uint32(0), layouts[0].Attributes[0].ShaderLocation)
	assert.Equal(t, wgpu.VertexFormatFloat32x4, layouts[0].Attributes[0].Format)
	assert.Equal(t, uint64(12), layouts[1].ArrayStride)
	assert.Equal(t, uint32(1), layouts[1].Attributes[0].ShaderLocation)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, layouts[1].Attributes[0].Format)

	groups := s.BindGroupLayoutDescriptors()
	require.Contains(t, groups, 0)
	require.Len(t, groups[0].Entries, 1)
	entry := groups[0].Entries[0]
	assert.Equal(t, wgpu.BufferBindingTypeUniform, entry.Buffer.Type)
	assert.Equal(t, uint64(320), entry.Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex, entry.Visibility)
	assert.Equal(t, "frame", s.BindGroupVarName(0, 0))

	require.NotNil(t, s.Module())
	assert.Equal(t, "phong", s.Module().Label)
	require.Len(t, s.Declarations(), 1)
	assert.Equal(t, AnnotationTypeBindingGroup, s.Declarations()[0].Type)
}

func TestWGSLVertexLayoutsSortedBySlot(t *testing.T) {
	src := `
struct NormalInput {
    @location(1) normal: vec3<f32>,
}
struct PositionInput {
    @location(0) position: vec4<f32>,
}
@vertex
fn vs_main(p: PositionInput, n: NormalInput) -> @builtin(position) vec4<f32> {
    return p.position;
}
`
	s, err := NewShader("swapped", ShaderTypeVertex, LanguageWGSL, src)
	require.NoError(t, err)
	layouts := s.VertexLayouts()
	require.Len(t, layouts, 2)
	assert.Equal(t, uint32(0), layouts[0].Attributes[0].ShaderLocation)
	assert.Equal(t, uint32(1), layouts[1].Attributes[0].ShaderLocation)
}

func TestPreProcessorIncludesOnce(t *testing.T) {
	pp := NewPreProcessor(LanguageGLSL)
	out, err := pp.Process("#version 410 core\n//@oxy:include frame_uniforms\n//@oxy:include frame_uniforms\nvoid main() {}\n")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "uniform mat4 model;"))
}

func TestPreProcessorErrors(t *testing.T) {
	tests := []struct {
		name     string
		language Language
		source   string
		want     string
	}{
		{"unknown chunk", LanguageGLSL, "//@oxy:include textures", "unknown chunk"},
		{"unknown type", LanguageGLSL, "//@oxy:bogus x", "unknown @oxy annotation type"},
		{"empty", LanguageWGSL, "//@oxy:", "empty @oxy annotation"},
		{"group in glsl", LanguageGLSL, "//@oxy:group 0 0 storage_uniform frame frame_uniforms", "only valid in WGSL"},
		{"bad group number", LanguageWGSL, "//@oxy:group x 0 storage_uniform frame frame_uniforms", "invalid group number"},
		{"bad address space", LanguageWGSL, "//@oxy:group 0 0 storage_read frame frame_uniforms", "unknown address space"},
		{"chunk missing for language", LanguageGLSL, "//@oxy:include vertex_input", "has no glsl source"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPreProcessor(tt.language).Process(tt.source)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewShaderErrors(t *testing.T) {
	_, err := NewShader("noversion", ShaderTypeVertex, LanguageGLSL, "void main() {}")
	assert.ErrorContains(t, err, "#version")

	_, err = NewShader("nomain", ShaderTypeFragment, LanguageGLSL, "#version 410 core\n")
	assert.ErrorContains(t, err, "no fragment entry point")

	_, err = NewShader("wrongstage", ShaderTypeFragment, LanguageWGSL, "@vertex fn vs_main() -> @builtin(position) vec4<f32> { return vec4<f32>(); }")
	assert.ErrorContains(t, err, "no fragment entry point")

	_, err = NewShaderFromFS("missing", ShaderTypeVertex, LanguageGLSL, Assets, "glsl/missing.vert")
	assert.ErrorContains(t, err, "failed to read source")
}

func TestCompileErrorMessage(t *testing.T) {
	err := &CompileError{Key: "phong", Stage: ShaderTypeFragment, Log: "0:1: syntax error"}
	assert.Equal(t, `shader "phong": fragment stage failed to compile: 0:1: syntax error`, err.Error())
}
