package shader

import (
	"fmt"
	"io/fs"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader runs in.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

// Language identifies the shading language of a source. Each renderer backend accepts one.
type Language int

const (
	// LanguageGLSL is GLSL 4.10 core, compiled by the OpenGL backend.
	LanguageGLSL Language = iota

	// LanguageWGSL is WGSL, compiled by the WebGPU backend.
	LanguageWGSL
)

func (l Language) String() string {
	switch l {
	case LanguageGLSL:
		return "glsl"
	case LanguageWGSL:
		return "wgsl"
	default:
		return fmt.Sprintf("Language(%d)", int(l))
	}
}

// shader is the implementation of the Shader interface.
// It holds the pre-processed source and the reflection data backends need to build programs.
type shader struct {
	key        string
	source     string
	shaderType ShaderType
	language   Language
	entryPoint string

	// GLSL reflection
	version      int
	attributes   map[string]glslAttribute
	uniforms     []string
	uniformTypes map[string]string

	// WGSL reflection
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	vertexLayouts              []wgpu.VertexBufferLayout
	module                     *wgpu.ShaderModuleDescriptor

	pp PreProcessor
}

// Shader defines the interface for a loaded, pre-processed and reflected shader stage. It exposes
// the stage's source and the metadata backends need to create program objects: attribute
// locations and uniform names for GLSL, entry point, vertex buffer layouts and bind group
// layouts for WGSL.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used in logs and errors.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the pre-processed source code.
	//
	// Returns:
	//   - string: the source with all annotations expanded
	Source() string

	// ShaderType returns the stage of the shader.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// Language returns the shading language of the source.
	//
	// Returns:
	//   - Language: LanguageGLSL or LanguageWGSL
	Language() Language

	// EntryPoint returns the entry point name for this shader.
	//
	// Returns:
	//   - string: the entry point name (always "main" for GLSL)
	EntryPoint() string

	// AttributeLocation returns the explicit location of a GLSL vertex input.
	//
	// Parameters:
	//   - name: the attribute name, e.g. "vPosition"
	//
	// Returns:
	//   - int: the location
	//   - bool: false if the attribute is not declared with a location
	AttributeLocation(name string) (int, bool)

	// Uniforms lists the GLSL default-block uniforms in declaration order.
	//
	// Returns:
	//   - []string: the uniform names
	Uniforms() []string

	// UniformType returns the GLSL type of a declared uniform, or "".
	//
	// Parameters:
	//   - name: the uniform name
	//
	// Returns:
	//   - string: the GLSL type, e.g. "mat4"
	UniformType(name string) string

	// VertexLayouts retrieves the WGSL vertex buffer layouts in buffer slot order.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: one layout per vertex input struct
	VertexLayouts() []wgpu.VertexBufferLayout

	// BindGroupLayoutDescriptors retrieves the WGSL bind group layout descriptors.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName retrieves the variable name bound at a WGSL group and binding.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or "" if nothing is bound there
	BindGroupVarName(group, binding int) string

	// Module returns the WGSL shader module descriptor, or nil for GLSL.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor

	// Declarations returns the binding annotations collected by the pre-processor.
	//
	// Returns:
	//   - []Annotation: the group declarations in source order
	Declarations() []Annotation
}

var _ Shader = &shader{}

// NewShader pre-processes and reflects a shader source.
//
// Parameters:
//   - key: a unique identifier for the shader, used in logs and errors
//   - shaderType: the stage of the shader
//   - language: the shading language of source
//   - source: the raw source, possibly containing @oxy: annotations
//
// Returns:
//   - Shader: the parsed shader
//   - error: error if pre-processing fails or the source has no entry point
func NewShader(key string, shaderType ShaderType, language Language, source string) (Shader, error) {
	s := &shader{
		key:                        key,
		shaderType:                 shaderType,
		language:                   language,
		attributes:                 make(map[string]glslAttribute),
		uniformTypes:               make(map[string]string),
		bindGroupLayoutDescriptors: make(map[int]wgpu.BindGroupLayoutDescriptor),
		bindingVarNames:            make(map[int]map[int]string),
		pp:                         NewPreProcessor(language),
	}
	if err := s.parseSource(source); err != nil {
		return nil, fmt.Errorf("shader %q: %w", key, err)
	}
	return s, nil
}

// NewShaderFromFS reads a shader source from a file system and parses it with NewShader.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage of the shader
//   - language: the shading language of the source
//   - fsys: the file system to read from, e.g. Assets
//   - path: the slash-separated path within fsys
//
// Returns:
//   - Shader: the parsed shader
//   - error: error if the file cannot be read or parsed
func NewShaderFromFS(key string, shaderType ShaderType, language Language, fsys fs.FS, path string) (Shader, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("shader %q: failed to read source %q: %w", key, path, err)
	}
	return NewShader(key, shaderType, language, string(data))
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) Language() Language {
	return s.language
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) AttributeLocation(name string) (int, bool) {
	a, ok := s.attributes[name]
	return a.Location, ok
}

func (s *shader) Uniforms() []string {
	return s.uniforms
}

func (s *shader) UniformType(name string) string {
	return s.uniformTypes[name]
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	if s.bindingVarNames[group] == nil {
		return ""
	}
	return s.bindingVarNames[group][binding]
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) Declarations() []Annotation {
	return s.pp.Declarations()
}

// parseSource expands annotations and extracts the reflection data for the shader's language.
func (s *shader) parseSource(raw string) error {
	source, err := s.pp.Process(raw)
	if err != nil {
		return fmt.Errorf("failed to pre-process source: %w", err)
	}
	s.source = source

	switch s.language {
	case LanguageGLSL:
		s.version = parseGLSLVersion(source)
		if s.version == 0 {
			return fmt.Errorf("GLSL source has no #version directive")
		}
		s.entryPoint = parseGLSLEntryPoint(source)
		if s.shaderType == ShaderTypeVertex {
			s.attributes = parseGLSLAttributes(source)
		}
		s.uniforms, s.uniformTypes = parseGLSLUniforms(source)
	case LanguageWGSL:
		s.entryPoint = parseEntryPoint(source, s.shaderType)
		visibility := wgpu.ShaderStageFragment
		if s.shaderType == ShaderTypeVertex {
			visibility = wgpu.ShaderStageVertex
			s.vertexLayouts = parseVertexLayouts(source)
		}
		s.bindGroupLayoutDescriptors, s.bindingVarNames = parseBindGroupLayouts(source, visibility)
		s.module = &wgpu.ShaderModuleDescriptor{
			Label: s.key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
				Code: source,
			},
		}
	default:
		return ErrUnsupportedLanguage
	}

	if s.entryPoint == "" {
		return fmt.Errorf("no %s entry point found", s.shaderType)
	}
	return nil
}
