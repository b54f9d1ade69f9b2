package viewer_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/loader"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-view/engine/viewer"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const triangleOFF = "OFF\n3 1 0\n0 0 0\n1 0 0\n0 1 0\n3 0 1 2\n"

const squareOFF = "OFF\n4 2 0\n0 0 0\n2 0 0\n2 2 0\n0 2 0\n3 0 1 2\n3 0 2 3\n"

type recorder struct {
	loaded   []viewer.MeshInfo
	enabled  []bool
	redraws  int
	callOpts []viewer.ViewerBuilderOption
}

func newRecorder() *recorder {
	rec := &recorder{}
	rec.callOpts = []viewer.ViewerBuilderOption{
		viewer.WithMeshLoadedCallback(func(info viewer.MeshInfo) { rec.loaded = append(rec.loaded, info) }),
		viewer.WithVariantSelectorCallback(func(enabled bool) { rec.enabled = append(rec.enabled, enabled) }),
		viewer.WithRedrawCallback(func() { rec.redraws++ }),
	}
	return rec
}

func newTestViewer(t *testing.T, opts ...viewer.ViewerBuilderOption) (viewer.Viewer, *renderertest.Backend, *recorder) {
	t.Helper()
	backend := renderertest.NewBackend(shader.LanguageGLSL)
	r, err := renderer.NewRendererWithBackend(backend, 800, 800)
	require.NoError(t, err)
	rec := newRecorder()
	v := viewer.NewViewer(r, append(rec.callOpts, opts...)...)
	t.Cleanup(v.Close)
	return v, backend, rec
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMeshEndToEnd(t *testing.T) {
	v, backend, rec := newTestViewer(t)
	path := writeFile(t, "triangle.off", triangleOFF)

	info, err := v.LoadMesh(path)
	require.NoError(t, err)

	assert.Equal(t, 3, info.VertexCount)
	assert.Equal(t, 1, info.FaceCount)
	assert.Equal(t, "Vertices: 3, Faces: 1", info.String())
	assert.Equal(t, []viewer.MeshInfo{info}, rec.loaded)
	assert.Equal(t, []bool{true}, rec.enabled)

	assert.True(t, v.Scene().Library().Built())
	assert.NoError(t, v.Scene().Library().Err())

	v.SelectShadingVariant(int(pipeline.VariantPhong))
	require.NoError(t, v.OnFrame())

	draws := backend.Draws()
	require.Len(t, draws, 1)
	assert.Equal(t, "phong", draws[0].Pipeline)
	assert.Equal(t, 3, draws[0].IndexCount)
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0}, v.Scene().Mesh().Center())
	assert.Empty(t, backend.Violations())
	assert.False(t, backend.Current())
}

func TestLoadMeshNonexistentPathKeepsPreviousMesh(t *testing.T) {
	v, backend, rec := newTestViewer(t)
	path := writeFile(t, "triangle.off", triangleOFF)
	_, err := v.LoadMesh(path)
	require.NoError(t, err)
	before := v.Scene().Mesh()
	handles := len(backend.LiveHandles())

	_, err = v.LoadMesh(filepath.Join(t.TempDir(), "missing.off"))

	var ioErr *loader.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Same(t, before, v.Scene().Mesh())
	assert.True(t, before.Buffer().Complete())
	assert.Len(t, backend.LiveHandles(), handles)
	assert.Len(t, rec.loaded, 1)
	assert.Len(t, rec.enabled, 1)
}

func TestLoadMeshFailureBeforeFirstLoadEmitsNothing(t *testing.T) {
	v, _, rec := newTestViewer(t)

	_, err := v.LoadMesh(writeFile(t, "bad.off", "OFF\n3 1 0\n0 0 0\n"))

	assert.Error(t, err)
	assert.Empty(t, rec.loaded)
	assert.Empty(t, rec.enabled)
	assert.False(t, v.Scene().Library().Built())
	_, ok := v.MeshInfo()
	assert.False(t, ok)
}

func TestLoadMeshReplacesAndCarriesVariant(t *testing.T) {
	v, backend, _ := newTestViewer(t)
	_, err := v.LoadMesh(writeFile(t, "triangle.off", triangleOFF))
	require.NoError(t, err)
	first := v.Scene().Mesh()
	v.SelectShadingVariant(int(pipeline.VariantNormals))

	info, err := v.LoadMesh(writeFile(t, "square.off", squareOFF))
	require.NoError(t, err)

	assert.Equal(t, "Vertices: 4, Faces: 2", info.String())
	assert.False(t, first.Buffer().Allocated())
	assert.Equal(t, int(pipeline.VariantNormals), v.Scene().Mesh().ShadingVariant())
	// Five programs plus the four buffers of the current mesh.
	assert.Len(t, backend.LiveHandles(), pipeline.VariantCount+4)
	assert.Empty(t, backend.Violations())
}

func TestLibraryBuiltOnce(t *testing.T) {
	v, backend, _ := newTestViewer(t)
	path := writeFile(t, "triangle.off", triangleOFF)
	for i := 0; i < 3; i++ {
		_, err := v.LoadMesh(path)
		require.NoError(t, err)
	}

	registrations := 0
	for _, c := range backend.Calls() {
		if strings.HasPrefix(c, "RegisterRenderPipeline ") {
			registrations++
		}
	}
	assert.Equal(t, pipeline.VariantCount, registrations)
}

func TestSelectShadingVariantOutOfRange(t *testing.T) {
	v, _, rec := newTestViewer(t, viewer.WithShadingVariant(pipeline.VariantFlat))

	v.SelectShadingVariant(pipeline.VariantCount)
	v.SelectShadingVariant(-1)

	assert.Equal(t, pipeline.VariantFlat, v.ShadingVariant())
	assert.Zero(t, rec.redraws)

	v.SelectShadingVariant(int(pipeline.VariantGouraud))
	assert.Equal(t, pipeline.VariantGouraud, v.ShadingVariant())
	assert.Equal(t, 1, rec.redraws)
}

func TestSelectShadingVariantBeforeLoad(t *testing.T) {
	v, backend, _ := newTestViewer(t)
	v.SelectShadingVariant(int(pipeline.VariantGouraud))

	_, err := v.LoadMesh(writeFile(t, "triangle.off", triangleOFF))
	require.NoError(t, err)
	require.NoError(t, v.OnFrame())

	require.Len(t, backend.Draws(), 1)
	assert.Equal(t, "gouraud", backend.Draws()[0].Pipeline)
}

func TestOnFrameWithoutMeshClears(t *testing.T) {
	v, backend, _ := newTestViewer(t)

	require.NoError(t, v.OnFrame())

	assert.Equal(t, 1, backend.Frames())
	assert.Empty(t, backend.Draws())
}

func TestOnResize(t *testing.T) {
	cam := camera.NewCamera(camera.WithPreserveAspect(true))
	v, backend, rec := newTestViewer(t, viewer.WithCamera(cam))

	v.OnResize(1024, 512)

	w, h := backend.SurfaceSize()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 512, h)
	assert.Equal(t, float32(2), cam.Aspect())
	assert.Equal(t, 1, rec.redraws)

	v.OnResize(0, 0)
	w, h = backend.SurfaceSize()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 512, h)
}

func TestReload(t *testing.T) {
	v, _, rec := newTestViewer(t)
	_, err := v.Reload()
	assert.Error(t, err)

	path := writeFile(t, "mesh.off", triangleOFF)
	_, err = v.LoadMesh(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(squareOFF), 0o644))

	info, err := v.Reload()
	require.NoError(t, err)
	assert.Equal(t, 4, info.VertexCount)
	assert.Len(t, rec.loaded, 2)
}

func TestLoaderOptionsReachTheParser(t *testing.T) {
	quad := "OFF\n4 1 0\n0 0 0\n1 0 0\n1 1 0\n0 1 0\n4 0 1 2 3\n"

	strict, _, _ := newTestViewer(t)
	_, err := strict.LoadMesh(writeFile(t, "quad.off", quad))
	assert.ErrorIs(t, err, loader.ErrNonTriangularFace)

	lenient, _, _ := newTestViewer(t, viewer.WithLoaderOptions(loader.WithFaceValidation(loader.FaceValidationIgnore)))
	_, err = lenient.LoadMesh(writeFile(t, "quad.off", quad))
	assert.NoError(t, err)
}

func TestCloseReleasesEverything(t *testing.T) {
	backend := renderertest.NewBackend(shader.LanguageGLSL)
	r, err := renderer.NewRendererWithBackend(backend, 800, 800)
	require.NoError(t, err)
	v := viewer.NewViewer(r)
	_, err = v.LoadMesh(writeFile(t, "triangle.off", triangleOFF))
	require.NoError(t, err)

	v.Close()

	assert.Empty(t, backend.LiveHandles())
	assert.Empty(t, backend.Violations())
}
