package scene_test

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/light"
	"github.com/Carmen-Shannon/oxy-view/engine/mesh"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-view/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTriangle(name string) mesh.Mesh {
	return mesh.NewMesh(
		mesh.WithName(name),
		mesh.WithPositions([]mgl32.Vec4{{0, 0, 0, 1}, {2, 0, 0, 1}, {0, 2, 0, 1}}),
		mesh.WithIndices([]uint32{0, 1, 2}),
	)
}

func upload(t *testing.T, r renderer.Renderer, m mesh.Mesh) {
	t.Helper()
	require.NoError(t, r.WithContext(func() error {
		return r.UploadMesh(m.Buffer(), m.PositionData(), m.NormalData(), m.IndexData(), len(m.Indices()))
	}))
}

func newTestScene(t *testing.T, opts ...scene.SceneBuilderOption) (scene.Scene, *renderertest.Backend) {
	t.Helper()
	backend := renderertest.NewBackend(shader.LanguageGLSL)
	r, err := renderer.NewRendererWithBackend(backend, 400, 400)
	require.NoError(t, err)
	return scene.NewScene("test", camera.NewCamera(), r, opts...), backend
}

func TestComputeProducts(t *testing.T) {
	l := light.NewLight(
		light.WithAmbient(mgl32.Vec4{0.5, 0.5, 0.5, 1}),
		light.WithDiffuse(mgl32.Vec4{1, 0.5, 0, 1}),
		light.WithSpecular(mgl32.Vec4{0, 0, 1, 1}),
	)
	mat, err := material.NewMaterial(
		material.WithAmbient(mgl32.Vec4{0.2, 0.4, 0.6, 1}),
		material.WithDiffuse(mgl32.Vec4{1, 1, 1, 1}),
		material.WithSpecular(mgl32.Vec4{1, 1, 0.5, 1}),
	)
	require.NoError(t, err)

	p := scene.ComputeProducts(l, mat)

	assert.Equal(t, mgl32.Vec4{0.1, 0.2, 0.3, 1}, p.Ambient)
	assert.Equal(t, mgl32.Vec4{1, 0.5, 0, 1}, p.Diffuse)
	assert.Equal(t, mgl32.Vec4{0, 0, 0.5, 1}, p.Specular)
}

func TestBuildFrameUniforms(t *testing.T) {
	cam := camera.NewCamera()
	l := light.NewLight(light.WithPosition(mgl32.Vec4{0, 0, 1, 0}))
	mat, err := material.NewMaterial(material.WithShininess(20))
	require.NoError(t, err)
	m := newTriangle("tri")

	u := scene.BuildFrameUniforms(cam, l, mat, m)

	assert.Equal(t, m.ModelMatrix(), u.Model)
	assert.Equal(t, mgl32.Translate3D(0, 0, -1), u.View)
	assert.Equal(t, mgl32.Ortho(-1, 1, -1, 1, 0, 2), u.Projection)
	assert.Equal(t, common.NormalMatrix(m.ModelMatrix()), u.NormalMatrix)
	assert.Equal(t, mgl32.Vec4{0, 0, 1, 0}, u.LightPosition)
	assert.Equal(t, float32(20), u.Shininess)

	// The normalized triangle fits inside the canonical volume.
	for _, p := range m.Positions() {
		clip := u.Projection.Mul4(u.View).Mul4(u.Model).Mul4x1(p)
		for i := 0; i < 3; i++ {
			assert.LessOrEqual(t, clip[i], float32(1)+1e-5)
			assert.GreaterOrEqual(t, clip[i], float32(-1)-1e-5)
		}
	}

	// Pure: a second call gives the same result.
	assert.Equal(t, u, scene.BuildFrameUniforms(cam, l, mat, m))
}

func TestRenderFrameWithoutMeshOnlyClears(t *testing.T) {
	s, backend := newTestScene(t)

	require.NoError(t, s.RenderFrame())

	assert.Equal(t, 1, backend.Frames())
	assert.Equal(t, 1, backend.Presents())
	assert.Empty(t, backend.Draws())
	assert.Empty(t, backend.Violations())
	assert.False(t, backend.Current())
}

func TestRenderFrameDrawsSelectedVariant(t *testing.T) {
	s, backend := newTestScene(t)
	_, err := s.BuildLibrary()
	require.NoError(t, err)

	m := newTriangle("tri")
	m.SetShadingVariant(int(pipeline.VariantPhong))
	upload(t, s.Renderer(), m)
	require.NoError(t, s.SetMesh(m))

	require.NoError(t, s.RenderFrame())

	draws := backend.Draws()
	require.Len(t, draws, 1)
	assert.Equal(t, "phong", draws[0].Pipeline)
	assert.Equal(t, 3, draws[0].IndexCount)
	assert.Equal(t, m.ModelMatrix(), draws[0].Uniforms.Model)
	assert.Empty(t, backend.Violations())
}

func TestRenderFrameUsesLibraryRasterState(t *testing.T) {
	lib := pipeline.NewLibrary(pipeline.WithPipelineOptions(
		pipeline.WithCullMode(wgpu.CullModeBack),
		pipeline.WithFrontFace(wgpu.FrontFaceCW),
	))
	s, backend := newTestScene(t, scene.WithLibrary(lib))
	_, err := s.BuildLibrary()
	require.NoError(t, err)

	m := newTriangle("tri")
	upload(t, s.Renderer(), m)
	require.NoError(t, s.SetMesh(m))
	require.NoError(t, s.RenderFrame())

	draws := backend.Draws()
	require.Len(t, draws, 1)
	assert.Equal(t, wgpu.CullModeBack, draws[0].CullMode)
	assert.Equal(t, wgpu.FrontFaceCW, draws[0].FrontFace)
	assert.True(t, draws[0].DepthTest)
	assert.True(t, draws[0].DepthWrite)
	assert.Equal(t, wgpu.ColorWriteMaskAll, draws[0].WriteMask)
}

func TestRenderFrameSkipsUnavailableVariant(t *testing.T) {
	s, backend := newTestScene(t)
	backend.RegisterErrs["gouraud"] = &pipeline.LinkError{Key: "gouraud", Log: "link failed"}
	results, err := s.BuildLibrary()
	require.NoError(t, err)
	assert.Error(t, results[pipeline.VariantGouraud])

	m := newTriangle("tri")
	m.SetShadingVariant(int(pipeline.VariantGouraud))
	upload(t, s.Renderer(), m)
	require.NoError(t, s.SetMesh(m))

	err = s.RenderFrame()
	assert.ErrorIs(t, err, pipeline.ErrVariantUnavailable)
	assert.Empty(t, backend.Draws())
	assert.Equal(t, 1, backend.Presents())

	m.SetShadingVariant(int(pipeline.VariantFlat))
	require.NoError(t, s.RenderFrame())
	require.Len(t, backend.Draws(), 1)
	assert.Equal(t, "flat", backend.Draws()[0].Pipeline)
}

func TestRenderFrameBeforeLibraryBuilt(t *testing.T) {
	s, backend := newTestScene(t)
	m := newTriangle("tri")
	upload(t, s.Renderer(), m)
	require.NoError(t, s.SetMesh(m))

	assert.ErrorIs(t, s.RenderFrame(), pipeline.ErrVariantUnavailable)
	assert.Empty(t, backend.Draws())
}

func TestSetMeshReleasesPrevious(t *testing.T) {
	s, backend := newTestScene(t)

	first := newTriangle("first")
	upload(t, s.Renderer(), first)
	require.NoError(t, s.SetMesh(first))

	second := newTriangle("second")
	upload(t, s.Renderer(), second)
	require.NoError(t, s.SetMesh(second))

	assert.False(t, first.Buffer().Allocated())
	assert.True(t, second.Buffer().Complete())
	assert.Len(t, backend.LiveHandles(), 4)
	assert.Same(t, second, s.Mesh())

	require.NoError(t, s.SetMesh(nil))
	assert.Empty(t, backend.LiveHandles())
	assert.Nil(t, s.Mesh())
}

func TestReleaseFreesEverything(t *testing.T) {
	s, backend := newTestScene(t)
	_, err := s.BuildLibrary()
	require.NoError(t, err)
	m := newTriangle("tri")
	upload(t, s.Renderer(), m)
	require.NoError(t, s.SetMesh(m))

	s.Release()
	s.Release()

	assert.Empty(t, backend.LiveHandles())
	assert.Empty(t, backend.Violations())
	assert.ErrorIs(t, s.RenderFrame(), renderer.ErrReleased)
}

func TestSceneOptions(t *testing.T) {
	l := light.NewLight(light.WithPosition(mgl32.Vec4{0, 1, 0, 1}))
	mat, err := material.NewMaterial(material.WithName("steel"))
	require.NoError(t, err)
	lib := pipeline.NewLibrary(pipeline.WithStopOnFirstFailure(true))

	s, _ := newTestScene(t, scene.WithLight(l), scene.WithMaterial(mat), scene.WithLibrary(lib))

	assert.Same(t, l, s.Light())
	assert.Same(t, mat, s.Material())
	assert.Same(t, lib, s.Library())

	s.SetLight(nil)
	s.SetMaterial(nil)
	assert.Same(t, l, s.Light())
	assert.Same(t, mat, s.Material())
}

func TestNewScenePanicsWithoutCamera(t *testing.T) {
	backend := renderertest.NewBackend(shader.LanguageGLSL)
	r, err := renderer.NewRendererWithBackend(backend, 1, 1)
	require.NoError(t, err)

	assert.Panics(t, func() { scene.NewScene("x", nil, r) })
}
