package renderer_test

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/mesh_buffer"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T, opts ...renderer.RendererBuilderOption) (renderer.Renderer, *renderertest.Backend) {
	t.Helper()
	backend := renderertest.NewBackend(shader.LanguageGLSL)
	r, err := renderer.NewRendererWithBackend(backend, 640, 480, opts...)
	require.NoError(t, err)
	return r, backend
}

func TestNewRendererWithBackendConfiguresSurface(t *testing.T) {
	r, backend := newTestRenderer(t, renderer.WithClearColor(mgl32.Vec4{1, 1, 1, 1}))

	w, h := backend.SurfaceSize()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, backend.ClearColor())
	assert.Equal(t, renderer.BackendTypeOpenGL, r.BackendType())
	assert.Equal(t, shader.LanguageGLSL, r.Language())
	assert.False(t, backend.Current())
}

func TestWithContextReleasesOnError(t *testing.T) {
	r, backend := newTestRenderer(t)
	sentinel := errors.New("boom")

	err := r.WithContext(func() error {
		assert.True(t, backend.Current())
		return sentinel
	})

	assert.ErrorIs(t, err, sentinel)
	assert.False(t, backend.Current())
}

func TestWithContextReleasesOnPanic(t *testing.T) {
	r, backend := newTestRenderer(t)

	assert.Panics(t, func() {
		_ = r.WithContext(func() error {
			panic("driver crashed")
		})
	})
	assert.False(t, backend.Current())

	// The context can be acquired again afterwards.
	require.NoError(t, r.WithContext(func() error { return nil }))
}

func TestWithContextNested(t *testing.T) {
	r, backend := newTestRenderer(t)
	before := backend.Acquisitions()

	err := r.WithContext(func() error {
		return r.WithContext(func() error {
			assert.True(t, backend.Current())
			return nil
		})
	})

	require.NoError(t, err)
	assert.Equal(t, before+1, backend.Acquisitions())
	assert.False(t, backend.Current())
}

func TestWithContextAcquireFailure(t *testing.T) {
	r, backend := newTestRenderer(t)
	backend.MakeCurrentErr = errors.New("context lost")

	called := false
	err := r.WithContext(func() error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, backend.MakeCurrentErr)
	assert.False(t, called)
}

func TestWithContextAfterRelease(t *testing.T) {
	r, backend := newTestRenderer(t)
	r.Release()
	r.Release()

	assert.ErrorIs(t, r.WithContext(func() error { return nil }), renderer.ErrReleased)
	assert.True(t, backend.Released())
}

func TestUploadMeshReleasesPreviousHandles(t *testing.T) {
	r, backend := newTestRenderer(t)
	buf := mesh_buffer.NewMeshBuffer("tri")

	err := r.WithContext(func() error {
		if err := r.UploadMesh(buf, make([]byte, 48), make([]byte, 36), make([]byte, 12), 3); err != nil {
			return err
		}
		return r.UploadMesh(buf, make([]byte, 48), make([]byte, 36), make([]byte, 12), 3)
	})

	require.NoError(t, err)
	assert.True(t, buf.Complete())
	assert.Equal(t, 3, buf.IndexCount())
	assert.Len(t, backend.LiveHandles(), 4)
	assert.Empty(t, backend.Violations())
}

func TestUploadMeshFailureLeavesNoHandles(t *testing.T) {
	r, backend := newTestRenderer(t)
	backend.UploadErr = errors.New("out of memory")
	buf := mesh_buffer.NewMeshBuffer("tri")

	err := r.WithContext(func() error {
		return r.UploadMesh(buf, make([]byte, 48), make([]byte, 36), make([]byte, 12), 3)
	})

	assert.ErrorIs(t, err, backend.UploadErr)
	assert.False(t, buf.Allocated())
	assert.Empty(t, backend.LiveHandles())
}

func TestUploadMeshRejectsPartialTriangles(t *testing.T) {
	r, _ := newTestRenderer(t)
	buf := mesh_buffer.NewMeshBuffer("bad")

	err := r.WithContext(func() error {
		return r.UploadMesh(buf, nil, nil, make([]byte, 8), 2)
	})

	assert.Error(t, err)
	assert.False(t, buf.Allocated())
}

func TestReleaseMeshIsIdempotent(t *testing.T) {
	r, backend := newTestRenderer(t)
	buf := mesh_buffer.NewMeshBuffer("tri")

	err := r.WithContext(func() error {
		if err := r.UploadMesh(buf, make([]byte, 48), make([]byte, 36), make([]byte, 12), 3); err != nil {
			return err
		}
		r.ReleaseMesh(buf)
		r.ReleaseMesh(buf)
		r.ReleaseMesh(nil)
		return nil
	})

	require.NoError(t, err)
	assert.False(t, buf.Allocated())
	assert.Zero(t, buf.IndexCount())
	assert.Empty(t, backend.LiveHandles())

	releases := 0
	for _, c := range backend.Calls() {
		if c == "ReleaseMeshBuffers tri" {
			releases++
		}
	}
	assert.Equal(t, 1, releases)
}

func TestLibraryBuildsThroughRenderer(t *testing.T) {
	r, backend := newTestRenderer(t)
	lib := pipeline.NewLibrary()

	var results map[pipeline.ShadingVariant]error
	require.NoError(t, r.WithContext(func() error {
		results = lib.Build(r)
		return nil
	}))

	for _, v := range pipeline.Variants {
		assert.NoError(t, results[v], v.String())
		assert.NotNil(t, r.Pipeline(v.String()), v.String())
	}
	assert.Len(t, r.Pipelines(), pipeline.VariantCount)
	assert.Len(t, backend.LiveHandles(), pipeline.VariantCount)

	require.NoError(t, r.WithContext(func() error {
		lib.Release(r)
		return nil
	}))
	assert.Empty(t, r.Pipelines())
	assert.Empty(t, backend.LiveHandles())
	assert.Empty(t, backend.Violations())
}

func TestRegisterPipelineFailureIsNotCached(t *testing.T) {
	r, backend := newTestRenderer(t)
	backend.RegisterErrs["flat"] = &pipeline.LinkError{Key: "flat", Log: "varying mismatch"}
	lib := pipeline.NewLibrary()

	var results map[pipeline.ShadingVariant]error
	require.NoError(t, r.WithContext(func() error {
		results = lib.Build(r)
		return nil
	}))

	var linkErr *pipeline.LinkError
	assert.ErrorAs(t, results[pipeline.VariantFlat], &linkErr)
	assert.Nil(t, r.Pipeline("flat"))
	assert.NotNil(t, r.Pipeline("phong"))
}

func TestDrawCallRequiresRegisteredPipelineAndBuffers(t *testing.T) {
	r, backend := newTestRenderer(t)
	buf := mesh_buffer.NewMeshBuffer("tri")
	p := pipeline.NewPipeline("phong")

	err := r.WithContext(func() error {
		return r.DrawCall(p, buf, renderer.FrameUniforms{})
	})
	assert.ErrorIs(t, err, pipeline.ErrVariantUnavailable)

	p.SetProgram(1)
	err = r.WithContext(func() error {
		return r.DrawCall(p, buf, renderer.FrameUniforms{})
	})
	assert.Error(t, err)
	assert.Empty(t, backend.Draws())
}

func TestParseBackendType(t *testing.T) {
	tests := []struct {
		in      string
		want    renderer.RendererBackendType
		wantErr bool
	}{
		{in: "", want: renderer.BackendTypeOpenGL},
		{in: "OpenGL", want: renderer.BackendTypeOpenGL},
		{in: "gl", want: renderer.BackendTypeOpenGL},
		{in: "wgpu", want: renderer.BackendTypeWGPU},
		{in: "webgpu", want: renderer.BackendTypeWGPU},
		{in: "vulkan", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := renderer.ParseBackendType(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, must(renderer.ParseBackendType(got.String())))
		})
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
