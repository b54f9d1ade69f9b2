package renderer

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-view/engine/renderer/mesh_buffer"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeOpenGL selects the OpenGL 4.1 core backend, compiling the GLSL variants.
	BackendTypeOpenGL RendererBackendType = iota

	// BackendTypeWGPU selects the WebGPU-based rendering backend, compiling the WGSL variants.
	BackendTypeWGPU
)

func (t RendererBackendType) String() string {
	switch t {
	case BackendTypeOpenGL:
		return "opengl"
	case BackendTypeWGPU:
		return "wgpu"
	default:
		return fmt.Sprintf("RendererBackendType(%d)", int(t))
	}
}

// ParseBackendType maps a backend name from the command line or configuration to a RendererBackendType.
// The empty string selects OpenGL.
//
// Parameters:
//   - name: "opengl", "gl", "wgpu" or "webgpu", case insensitive
//
// Returns:
//   - RendererBackendType: the matching backend type
//   - error: an error if the name is unknown
func ParseBackendType(name string) (RendererBackendType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "opengl", "gl":
		return BackendTypeOpenGL, nil
	case "wgpu", "webgpu":
		return BackendTypeWGPU, nil
	default:
		return 0, fmt.Errorf("unknown renderer backend %q", name)
	}
}

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// Only the WGPU backend honors it; the OpenGL backend draws into the default framebuffer the
// window was created with.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// RendererBackend is the GPU API seam of the Renderer. Every method except MakeCurrent must be
// called while the backend's context is current, which the Renderer guarantees through
// WithContext.
type RendererBackend interface {
	// Language returns the shading language this backend compiles.
	//
	// Returns:
	//   - shader.Language: GLSL for OpenGL, WGSL for WGPU
	Language() shader.Language

	// MakeCurrent binds the backend's rendering context to the calling thread.
	//
	// Returns:
	//   - error: an error if the context is gone or cannot be bound
	MakeCurrent() error

	// DoneCurrent unbinds the rendering context from the calling thread.
	DoneCurrent()

	// ConfigureSurface sizes the drawable surface and viewport.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets how frames are delivered to the display.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the color the frame is cleared to.
	//
	// Parameters:
	//   - color: RGBA in [0, 1]
	SetClearColor(color mgl32.Vec4)

	// RegisterRenderPipeline compiles and links the pipeline's shader pair and stores the
	// program on the pipeline.
	//
	// Parameters:
	//   - p: the pipeline holding the vertex and fragment shaders
	//
	// Returns:
	//   - error: a *shader.CompileError, a *pipeline.LinkError, or another backend error
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// ReleasePipeline deletes the pipeline's program and clears it. Safe to call twice.
	//
	// Parameters:
	//   - p: the pipeline to release
	ReleasePipeline(p pipeline.Pipeline)

	// InitMeshBuffers allocates the vertex array and the position, normal and index buffers of
	// one mesh, fills them and stores the handles on buf.
	//
	// Parameters:
	//   - buf: the buffer set to fill; it holds no handles on entry
	//   - positions: vec4 positions, attribute slot 0
	//   - normals: vec3 normals, attribute slot 1
	//   - indices: uint32 triangle indices
	//   - indexCount: the number of indices in indices
	//
	// Returns:
	//   - error: an error if any allocation fails
	InitMeshBuffers(buf mesh_buffer.MeshBuffer, positions, normals, indices []byte, indexCount int) error

	// ReleaseMeshBuffers deletes every handle held by buf. It does not reset buf.
	//
	// Parameters:
	//   - buf: the buffer set to release
	ReleaseMeshBuffers(buf mesh_buffer.MeshBuffer)

	// BeginFrame acquires the frame's target and clears color and depth.
	//
	// Returns:
	//   - error: an error if the frame target could not be acquired
	BeginFrame() error

	// DrawCall binds the pipeline's program, uploads the frame uniforms and draws every index of buf.
	//
	// Parameters:
	//   - p: the registered pipeline
	//   - buf: a complete buffer set
	//   - uniforms: the per-frame uniform values
	//
	// Returns:
	//   - error: an error if the uniforms could not be written
	DrawCall(p pipeline.Pipeline, buf mesh_buffer.MeshBuffer, uniforms FrameUniforms) error

	// EndFrame finishes recording the frame.
	EndFrame()

	// Present shows the finished frame.
	Present()

	// Release frees every backend object that is not owned by a pipeline or a mesh buffer.
	Release()
}
