package renderer

import (
	"errors"
	"fmt"
	"sync"

	"fortio.org/log"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/mesh_buffer"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-view/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrReleased is returned by WithContext after Release.
var ErrReleased = errors.New("renderer has been released")

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// contextDepth counts nested WithContext calls; only the outermost call binds and unbinds.
	contextDepth int
	released     bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	pendingClearColor    *mgl32.Vec4
}

// Renderer defines the interface for the rendering system.
//
// This is a high-level API over a pluggable RendererBackend. It owns the scoped acquisition of
// the backend's rendering context, the lifecycle of mesh buffer sets and the registration of
// shading pipelines. Renderer satisfies pipeline.Registrar, so a pipeline.Library builds its
// variants directly through it.
type Renderer interface {
	// BackendType returns the backend this renderer was created with.
	//
	// Returns:
	//   - RendererBackendType: the backend type
	BackendType() RendererBackendType

	// Language returns the shading language of the backend.
	//
	// Returns:
	//   - shader.Language: the language the variants must be written in
	Language() shader.Language

	// WithContext makes the rendering context current, runs fn and releases the context again.
	// The release happens on every exit path, including an error from fn and a panic. Nested
	// calls reuse the context acquired by the outermost call.
	//
	// Parameters:
	//   - fn: the GPU work to run
	//
	// Returns:
	//   - error: the acquisition error, or the error returned by fn
	WithContext(fn func() error) error

	// Pipeline retrieves the registered Pipeline associated with the given key, or nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// Pipelines retrieves a copy of the registered pipelines.
	//
	// Returns:
	//   - map[string]pipeline.Pipeline: a map of pipeline keys to their corresponding Pipeline objects
	Pipelines() map[string]pipeline.Pipeline

	// RegisterPipeline compiles and links a pipeline through the backend and caches it by key.
	// A key that is already registered is not rebuilt.
	//
	// Parameters:
	//   - p: the Pipeline to register
	//
	// Returns:
	//   - error: a *shader.CompileError, a *pipeline.LinkError, or another backend error
	RegisterPipeline(p pipeline.Pipeline) error

	// RegisterPipelines registers one or more pipelines, stopping at the first failure.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: the first registration failure
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// ReleasePipeline deletes the pipeline's program and drops it from the cache.
	//
	// Parameters:
	//   - p: the Pipeline to release
	ReleasePipeline(p pipeline.Pipeline)

	// Resize configures the underlying backend to handle a new surface size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the color each frame is cleared to.
	//
	// Parameters:
	//   - color: RGBA in [0, 1]
	SetClearColor(color mgl32.Vec4)

	// UploadMesh releases any handles buf already holds, then allocates and fills a vertex array
	// and the position, normal and index buffers.
	//
	// Parameters:
	//   - buf: the mesh's buffer set
	//   - positions: vec4 position bytes
	//   - normals: vec3 normal bytes
	//   - indices: uint32 index bytes
	//   - indexCount: the number of indices, 3 per face
	//
	// Returns:
	//   - error: an error if allocation fails; buf holds no handles afterwards
	UploadMesh(buf mesh_buffer.MeshBuffer, positions, normals, indices []byte, indexCount int) error

	// ReleaseMesh deletes every handle held by buf and resets them to nil. Calling it on an
	// empty or already released buffer set does nothing.
	//
	// Parameters:
	//   - buf: the buffer set to release
	ReleaseMesh(buf mesh_buffer.MeshBuffer)

	// BeginFrame starts a new frame and clears color and depth.
	//
	// Returns:
	//   - error: an error if the frame could not be started
	BeginFrame() error

	// DrawCall draws every index of buf with the pipeline's program and the given uniforms.
	//
	// Parameters:
	//   - p: a registered pipeline
	//   - buf: a complete buffer set
	//   - uniforms: the per-frame uniform values
	//
	// Returns:
	//   - error: an error if the pipeline is not registered or buf is incomplete
	DrawCall(p pipeline.Pipeline, buf mesh_buffer.MeshBuffer, uniforms FrameUniforms) error

	// EndFrame finishes the frame started by BeginFrame.
	EndFrame()

	// Present shows the finished frame.
	Present()

	// Release frees the backend. Pipelines and mesh buffers must be released first.
	Release()
}

var _ Renderer = &renderer{}
var _ pipeline.Registrar = &renderer{}

// NewRenderer creates a new Renderer drawing into the given window.
// The OpenGL backend requires a window created with an OpenGL context; the WGPU backend requires
// one created without.
//
// Parameters:
//   - backendType: the type of rendering backend to use
//   - window: the window to draw into
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
//   - error: an error if the backend could not be initialized
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := newRenderer(backendType, options...)

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	var err error
	switch backendType {
	case BackendTypeWGPU:
		r.backend, err = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	case BackendTypeOpenGL:
		r.backend, err = newGLRendererBackend(window)
	default:
		err = fmt.Errorf("unsupported renderer backend %s", backendType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s backend: %w", backendType, err)
	}

	if err := r.configure(window.Width(), window.Height()); err != nil {
		return nil, err
	}
	log.Infof("renderer: %s backend ready (%s shaders)", backendType, r.backend.Language())
	return r, nil
}

// NewRendererWithBackend creates a Renderer over an existing backend. It is the seam used to run
// the renderer against a recording backend in tests.
//
// Parameters:
//   - backend: the backend to drive
//   - width: the initial surface width in pixels
//   - height: the initial surface height in pixels
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the new renderer
//   - error: an error if the initial surface configuration fails
func NewRendererWithBackend(backend RendererBackend, width, height int, options ...RendererBuilderOption) (Renderer, error) {
	r := newRenderer(BackendTypeOpenGL, options...)
	if backend.Language() == shader.LanguageWGSL {
		r.backendType = BackendTypeWGPU
	}
	r.backend = backend
	if err := r.configure(width, height); err != nil {
		return nil, err
	}
	return r, nil
}

func newRenderer(backendType RendererBackendType, options ...RendererBuilderOption) *renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *renderer) configure(width, height int) error {
	return r.WithContext(func() error {
		if r.pendingPresentMode != nil {
			r.backend.SetPresentMode(*r.pendingPresentMode)
		}
		if r.pendingClearColor != nil {
			r.backend.SetClearColor(*r.pendingClearColor)
		}
		r.backend.ConfigureSurface(width, height)
		return nil
	})
}

func (r *renderer) BackendType() RendererBackendType {
	return r.backendType
}

func (r *renderer) Language() shader.Language {
	return r.backend.Language()
}

func (r *renderer) WithContext(fn func() error) error {
	if r.released {
		return ErrReleased
	}
	if r.contextDepth > 0 {
		r.contextDepth++
		defer func() { r.contextDepth-- }()
		return fn()
	}

	if err := r.backend.MakeCurrent(); err != nil {
		return fmt.Errorf("failed to acquire rendering context: %w", err)
	}
	r.contextDepth++
	defer func() {
		r.contextDepth--
		r.backend.DoneCurrent()
	}()
	return fn()
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() map[string]pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]pipeline.Pipeline, len(r.pipelineCache))
	for k, p := range r.pipelineCache {
		out[k] = p
	}
	return out
}

func (r *renderer) RegisterPipeline(p pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pipelineCache[p.PipelineKey()]; exists {
		return nil
	}
	if err := r.backend.RegisterRenderPipeline(p); err != nil {
		return err
	}
	r.pipelineCache[p.PipelineKey()] = p
	return nil
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	for _, p := range pipelines {
		if err := r.RegisterPipeline(p); err != nil {
			return fmt.Errorf("failed to register pipeline %q: %w", p.PipelineKey(), err)
		}
	}
	return nil
}

func (r *renderer) ReleasePipeline(p pipeline.Pipeline) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.backend.ReleasePipeline(p)
	delete(r.pipelineCache, p.PipelineKey())
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SetClearColor(color mgl32.Vec4) {
	r.backend.SetClearColor(color)
}

func (r *renderer) UploadMesh(buf mesh_buffer.MeshBuffer, positions, normals, indices []byte, indexCount int) error {
	if buf == nil {
		return errors.New("cannot upload into a nil mesh buffer")
	}
	if indexCount%3 != 0 {
		return fmt.Errorf("index count %d is not a multiple of 3", indexCount)
	}

	r.ReleaseMesh(buf)
	if err := r.backend.InitMeshBuffers(buf, positions, normals, indices, indexCount); err != nil {
		r.ReleaseMesh(buf)
		return fmt.Errorf("failed to upload mesh %q: %w", buf.Label(), err)
	}
	log.Debugf("renderer: uploaded %q (%d indices)", buf.Label(), indexCount)
	return nil
}

func (r *renderer) ReleaseMesh(buf mesh_buffer.MeshBuffer) {
	if buf == nil || !buf.Allocated() {
		return
	}
	r.backend.ReleaseMeshBuffers(buf)
	buf.Reset()
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawCall(p pipeline.Pipeline, buf mesh_buffer.MeshBuffer, uniforms FrameUniforms) error {
	if p == nil || p.Program() == nil {
		return fmt.Errorf("%w: pipeline is not registered", pipeline.ErrVariantUnavailable)
	}
	if buf == nil || !buf.Complete() {
		return errors.New("mesh buffer is not uploaded")
	}
	return r.backend.DrawCall(p, buf, uniforms)
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	if r.released {
		return
	}
	r.backend.Release()
	r.released = true
}
