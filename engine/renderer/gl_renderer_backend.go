package renderer

import (
	"errors"
	"fmt"
	"strings"

	"fortio.org/log"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/mesh_buffer"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-view/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Attribute slots fixed by the layout qualifiers of every GLSL vertex stage.
const (
	glPositionSlot = 0
	glNormalSlot   = 1
)

type glRendererBackendImpl struct {
	window     window.Window
	clearColor mgl32.Vec4
	released   bool
}

// glProgramState caches the uniform locations of one linked program. A location of -1 means the
// driver optimized the uniform away, which is legal for variants that ignore lighting.
type glProgramState struct {
	program  uint32
	uniforms map[string]int32
}

var _ RendererBackend = &glRendererBackendImpl{}

func newGLRendererBackend(w window.Window) (RendererBackend, error) {
	if w.ClientAPI() != window.ClientAPIOpenGL {
		return nil, errors.New("window has no OpenGL context")
	}
	if err := w.MakeContextCurrent(); err != nil {
		return nil, err
	}
	defer w.DetachContext()

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to load OpenGL functions: %w", err)
	}
	log.Infof("renderer: OpenGL %s on %s", gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER)))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	return &glRendererBackendImpl{
		window:     w,
		clearColor: mgl32.Vec4{0, 0, 0, 1},
	}, nil
}

func (b *glRendererBackendImpl) Language() shader.Language {
	return shader.LanguageGLSL
}

func (b *glRendererBackendImpl) MakeCurrent() error {
	if b.released {
		return ErrReleased
	}
	return b.window.MakeContextCurrent()
}

func (b *glRendererBackendImpl) DoneCurrent() {
	b.window.DetachContext()
}

func (b *glRendererBackendImpl) ConfigureSurface(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (b *glRendererBackendImpl) SetPresentMode(mode PresentMode) {
	switch mode {
	case PresentModeVSync:
		b.window.SetSwapInterval(1)
	default:
		b.window.SetSwapInterval(0)
	}
}

func (b *glRendererBackendImpl) SetClearColor(color mgl32.Vec4) {
	b.clearColor = color
}

func (b *glRendererBackendImpl) RegisterRenderPipeline(p pipeline.Pipeline) error {
	vertexShader := p.Shader(shader.ShaderTypeVertex)
	fragmentShader := p.Shader(shader.ShaderTypeFragment)
	if vertexShader == nil || fragmentShader == nil {
		return errors.New("both vertex and fragment shaders must be set to create a render pipeline")
	}

	vs, err := compileGLShader(vertexShader)
	if err != nil {
		return err
	}
	fs, err := compileGLShader(fragmentShader)
	if err != nil {
		gl.DeleteShader(vs)
		return err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	// The program keeps its own copy of the linked code; the stage objects are not needed
	// whether or not the link succeeded.
	gl.DetachShader(program, vs)
	gl.DetachShader(program, fs)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(infoLog))
		gl.DeleteProgram(program)
		return &pipeline.LinkError{Key: p.PipelineKey(), Log: strings.TrimRight(infoLog, "\x00")}
	}

	state := &glProgramState{
		program:  program,
		uniforms: make(map[string]int32),
	}
	for _, s := range []shader.Shader{vertexShader, fragmentShader} {
		for _, name := range s.Uniforms() {
			if _, seen := state.uniforms[name]; seen {
				continue
			}
			state.uniforms[name] = gl.GetUniformLocation(program, gl.Str(name+"\x00"))
		}
	}

	p.SetProgram(program)
	p.SetBackendState(state)
	return nil
}

func compileGLShader(s shader.Shader) (uint32, error) {
	var kind uint32 = gl.VERTEX_SHADER
	if s.ShaderType() == shader.ShaderTypeFragment {
		kind = gl.FRAGMENT_SHADER
	}

	id := gl.CreateShader(kind)
	csources, free := gl.Strs(s.Source() + "\x00")
	gl.ShaderSource(id, 1, csources, nil)
	free()
	gl.CompileShader(id)

	var status int32
	gl.GetShaderiv(id, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(id, logLength, nil, gl.Str(infoLog))
		gl.DeleteShader(id)
		return 0, &shader.CompileError{Key: s.Key(), Stage: s.ShaderType(), Log: strings.TrimRight(infoLog, "\x00")}
	}
	return id, nil
}

func (b *glRendererBackendImpl) ReleasePipeline(p pipeline.Pipeline) {
	program, ok := p.Program().(uint32)
	if !ok {
		return
	}
	gl.DeleteProgram(program)
	p.SetProgram(nil)
	p.SetBackendState(nil)
}

func (b *glRendererBackendImpl) InitMeshBuffers(buf mesh_buffer.MeshBuffer, positions, normals, indices []byte, indexCount int) error {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	defer gl.BindVertexArray(0)
	buf.SetVertexArray(vao)

	buf.SetPositionBuffer(newGLBuffer(gl.ARRAY_BUFFER, positions))
	gl.EnableVertexAttribArray(glPositionSlot)
	gl.VertexAttribPointerWithOffset(glPositionSlot, 4, gl.FLOAT, false, 0, 0)

	buf.SetNormalBuffer(newGLBuffer(gl.ARRAY_BUFFER, normals))
	gl.EnableVertexAttribArray(glNormalSlot)
	gl.VertexAttribPointerWithOffset(glNormalSlot, 3, gl.FLOAT, false, 0, 0)

	// Bound while the vertex array is bound, so the array records it.
	buf.SetIndexBuffer(newGLBuffer(gl.ELEMENT_ARRAY_BUFFER, indices))
	buf.SetIndexCount(indexCount)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("OpenGL error 0x%x while creating buffers", code)
	}
	return nil
}

// newGLBuffer creates a buffer object bound to target and fills it with a static usage hint.
func newGLBuffer(target uint32, data []byte) uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(target, id)
	if len(data) > 0 {
		gl.BufferData(target, len(data), gl.Ptr(data), gl.STATIC_DRAW)
	} else {
		gl.BufferData(target, 0, nil, gl.STATIC_DRAW)
	}
	return id
}

func (b *glRendererBackendImpl) ReleaseMeshBuffers(buf mesh_buffer.MeshBuffer) {
	if vao, ok := buf.VertexArray().(uint32); ok {
		gl.DeleteVertexArrays(1, &vao)
	}
	for _, handle := range []any{buf.PositionBuffer(), buf.NormalBuffer(), buf.IndexBuffer()} {
		if id, ok := handle.(uint32); ok {
			gl.DeleteBuffers(1, &id)
		}
	}
}

func (b *glRendererBackendImpl) BeginFrame() error {
	gl.ClearColor(b.clearColor[0], b.clearColor[1], b.clearColor[2], b.clearColor[3])
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	return nil
}

func (b *glRendererBackendImpl) DrawCall(p pipeline.Pipeline, buf mesh_buffer.MeshBuffer, uniforms FrameUniforms) error {
	state, ok := p.BackendState().(*glProgramState)
	if !ok {
		return fmt.Errorf("pipeline %q was not registered with the OpenGL backend", p.PipelineKey())
	}
	vao, ok := buf.VertexArray().(uint32)
	if !ok {
		return fmt.Errorf("mesh buffer %q has no OpenGL vertex array", buf.Label())
	}

	applyGLPipelineState(p)
	gl.UseProgram(state.program)

	state.setMat4(UniformModel, uniforms.Model)
	state.setMat4(UniformView, uniforms.View)
	state.setMat4(UniformProjection, uniforms.Projection)
	state.setMat3(UniformNormalMatrix, uniforms.NormalMatrix)
	state.setVec4(UniformLightPosition, uniforms.LightPosition)
	state.setVec4(UniformAmbientProduct, uniforms.AmbientProduct)
	state.setVec4(UniformDiffuseProduct, uniforms.DiffuseProduct)
	state.setVec4(UniformSpecularProduct, uniforms.SpecularProduct)
	state.setFloat(UniformShininess, uniforms.Shininess)

	gl.BindVertexArray(vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(buf.IndexCount()), gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
	return nil
}

func applyGLPipelineState(p pipeline.Pipeline) {
	if p.DepthTestEnabled() {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	gl.DepthMask(p.DepthWriteEnabled())
	mask := p.WriteMask()
	gl.ColorMask(mask&wgpu.ColorWriteMaskRed != 0, mask&wgpu.ColorWriteMaskGreen != 0,
		mask&wgpu.ColorWriteMaskBlue != 0, mask&wgpu.ColorWriteMaskAlpha != 0)

	if p.FrontFace() == wgpu.FrontFaceCW {
		gl.FrontFace(gl.CW)
	} else {
		gl.FrontFace(gl.CCW)
	}
	switch p.CullMode() {
	case wgpu.CullModeFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	case wgpu.CullModeBack:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	default:
		gl.Disable(gl.CULL_FACE)
	}
}

func (s *glProgramState) location(name string) (int32, bool) {
	loc, ok := s.uniforms[name]
	return loc, ok && loc >= 0
}

func (s *glProgramState) setMat4(name string, m mgl32.Mat4) {
	if loc, ok := s.location(name); ok {
		gl.UniformMatrix4fv(loc, 1, false, &m[0])
	}
}

func (s *glProgramState) setMat3(name string, m mgl32.Mat3) {
	if loc, ok := s.location(name); ok {
		gl.UniformMatrix3fv(loc, 1, false, &m[0])
	}
}

func (s *glProgramState) setVec4(name string, v mgl32.Vec4) {
	if loc, ok := s.location(name); ok {
		gl.Uniform4fv(loc, 1, &v[0])
	}
}

func (s *glProgramState) setFloat(name string, v float32) {
	if loc, ok := s.location(name); ok {
		gl.Uniform1f(loc, v)
	}
}

func (b *glRendererBackendImpl) EndFrame() {
	gl.Flush()
}

func (b *glRendererBackendImpl) Present() {
	b.window.SwapBuffers()
}

func (b *glRendererBackendImpl) Release() {
	b.released = true
}
