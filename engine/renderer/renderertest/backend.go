// Package renderertest provides a recording RendererBackend for tests that exercise the renderer,
// the loader and the viewer without a GPU.
package renderertest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/mesh_buffer"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrNotCurrent is recorded when a GPU call arrives while the context is not current.
var ErrNotCurrent = errors.New("renderertest: context is not current")

// Draw is one recorded DrawCall.
type Draw struct {
	Pipeline   string
	IndexCount int
	Uniforms   renderer.FrameUniforms

	DepthTest  bool
	DepthWrite bool
	CullMode   wgpu.CullMode
	FrontFace  wgpu.FrontFace
	WriteMask  wgpu.ColorWriteMask
}

// Backend records every call it receives and hands out integer handles. It checks that GPU
// calls are only made while the context is current.
type Backend struct {
	mu sync.Mutex

	// Lang is the shading language reported to the renderer.
	Lang shader.Language

	// MakeCurrentErr, when set, is returned by MakeCurrent.
	MakeCurrentErr error
	// RegisterErrs maps pipeline keys to the error RegisterRenderPipeline returns for them.
	RegisterErrs map[string]error
	// UploadErr, when set, is returned by InitMeshBuffers after the vertex array was allocated.
	UploadErr error
	// BeginFrameErr, when set, is returned by BeginFrame.
	BeginFrameErr error

	current     bool
	calls       []string
	violations  []string
	nextHandle  int
	live        map[int]string
	draws       []Draw
	frames      int
	presents    int
	acquired    int
	width       int
	height      int
	clearColor  mgl32.Vec4
	presentMode renderer.PresentMode
	released    bool
}

var _ renderer.RendererBackend = &Backend{}

// NewBackend creates a recording backend for the given shading language.
func NewBackend(lang shader.Language) *Backend {
	return &Backend{
		Lang:         lang,
		RegisterErrs: make(map[string]error),
		live:         make(map[int]string),
	}
}

func (b *Backend) record(call string, needsContext bool) {
	b.calls = append(b.calls, call)
	if needsContext && !b.current {
		b.violations = append(b.violations, call)
	}
}

func (b *Backend) alloc(kind string) int {
	b.nextHandle++
	b.live[b.nextHandle] = kind
	return b.nextHandle
}

func (b *Backend) free(handle any) {
	if h, ok := handle.(int); ok {
		delete(b.live, h)
	}
}

func (b *Backend) Language() shader.Language {
	return b.Lang
}

func (b *Backend) MakeCurrent() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.record("MakeCurrent", false)
	if b.MakeCurrentErr != nil {
		return b.MakeCurrentErr
	}
	if b.current {
		return fmt.Errorf("renderertest: context acquired twice")
	}
	b.current = true
	b.acquired++
	return nil
}

func (b *Backend) DoneCurrent() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.record("DoneCurrent", true)
	b.current = false
}

func (b *Backend) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.record(fmt.Sprintf("ConfigureSurface %dx%d", width, height), false)
	b.width, b.height = width, height
}

func (b *Backend) SetPresentMode(mode renderer.PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.record("SetPresentMode", false)
	b.presentMode = mode
}

func (b *Backend) SetClearColor(color mgl32.Vec4) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.record("SetClearColor", false)
	b.clearColor = color
}

func (b *Backend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.record("RegisterRenderPipeline "+p.PipelineKey(), true)
	if err := b.RegisterErrs[p.PipelineKey()]; err != nil {
		return err
	}
	if p.Shader(shader.ShaderTypeVertex) == nil || p.Shader(shader.ShaderTypeFragment) == nil {
		return errors.New("renderertest: pipeline is missing a stage")
	}
	p.SetProgram(b.alloc("program " + p.PipelineKey()))
	return nil
}

func (b *Backend) ReleasePipeline(p pipeline.Pipeline) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.record("ReleasePipeline "+p.PipelineKey(), true)
	b.free(p.Program())
	p.SetProgram(nil)
}

func (b *Backend) InitMeshBuffers(buf mesh_buffer.MeshBuffer, positions, normals, indices []byte, indexCount int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.record("InitMeshBuffers "+buf.Label(), true)
	if buf.Allocated() {
		b.violations = append(b.violations, "InitMeshBuffers on allocated buffer "+buf.Label())
	}
	buf.SetVertexArray(b.alloc("vertex array " + buf.Label()))
	if b.UploadErr != nil {
		return b.UploadErr
	}
	buf.SetPositionBuffer(b.alloc("positions " + buf.Label()))
	buf.SetNormalBuffer(b.alloc("normals " + buf.Label()))
	buf.SetIndexBuffer(b.alloc("indices " + buf.Label()))
	buf.SetIndexCount(indexCount)
	return nil
}

func (b *Backend) ReleaseMeshBuffers(buf mesh_buffer.MeshBuffer) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.record("ReleaseMeshBuffers "+buf.Label(), true)
	b.free(buf.VertexArray())
	b.free(buf.PositionBuffer())
	b.free(buf.NormalBuffer())
	b.free(buf.IndexBuffer())
}

func (b *Backend) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.record("BeginFrame", true)
	if b.BeginFrameErr != nil {
		return b.BeginFrameErr
	}
	b.frames++
	return nil
}

func (b *Backend) DrawCall(p pipeline.Pipeline, buf mesh_buffer.MeshBuffer, uniforms renderer.FrameUniforms) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.record("DrawCall "+p.PipelineKey(), true)
	b.draws = append(b.draws, Draw{
		Pipeline:   p.PipelineKey(),
		IndexCount: buf.IndexCount(),
		Uniforms:   uniforms,
		DepthTest:  p.DepthTestEnabled(),
		DepthWrite: p.DepthWriteEnabled(),
		CullMode:   p.CullMode(),
		FrontFace:  p.FrontFace(),
		WriteMask:  p.WriteMask(),
	})
	return nil
}

func (b *Backend) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.record("EndFrame", true)
}

func (b *Backend) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.record("Present", true)
	b.presents++
}

func (b *Backend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.record("Release", false)
	b.released = true
}

// Calls returns every recorded call in order.
func (b *Backend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

// Violations returns the calls that were made while the context was not current, plus
// uploads into a buffer set that still held handles.
func (b *Backend) Violations() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.violations...)
}

// Current reports whether the context is current right now.
func (b *Backend) Current() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Acquisitions returns how many times the context was made current.
func (b *Backend) Acquisitions() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.acquired
}

// LiveHandles returns the kinds of every handle that has been allocated and not freed.
func (b *Backend) LiveHandles() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.live))
	for _, kind := range b.live {
		out = append(out, kind)
	}
	return out
}

// Draws returns every recorded draw.
func (b *Backend) Draws() []Draw {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Draw(nil), b.draws...)
}

// Frames returns how many frames were begun.
func (b *Backend) Frames() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frames
}

// Presents returns how many frames were presented.
func (b *Backend) Presents() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.presents
}

// SurfaceSize returns the last configured surface size.
func (b *Backend) SurfaceSize() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

// ClearColor returns the last clear color set.
func (b *Backend) ClearColor() mgl32.Vec4 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.clearColor
}

// Released reports whether Release was called.
func (b *Backend) Released() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.released
}
