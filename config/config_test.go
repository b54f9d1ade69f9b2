package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/light"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	backend, err := cfg.BackendType()
	require.NoError(t, err)
	assert.Equal(t, renderer.BackendTypeOpenGL, backend)

	variant, err := cfg.ShadingVariant()
	require.NoError(t, err)
	assert.Equal(t, pipeline.VariantConstant, variant)
}

func TestDecodeOverridesDefaults(t *testing.T) {
	src := `
log_level = "debug"

[renderer]
backend = "wgpu"
clear_color = [1.0, 1.0, 1.0, 1.0]

[shading]
variant = "phong"
stop_on_first_failure = true

[light]
position = [0.0, 0.0, 1.0, 1.0]

[material]
shininess = 32.0

[camera]
projection = "perspective"
fov = 60.0
`
	cfg, err := Decode(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, [4]float32{1, 1, 1, 1}, cfg.Renderer.ClearColor)
	assert.True(t, cfg.Renderer.VSync, "unset keys keep their defaults")
	assert.Equal(t, 800, cfg.Window.Width)

	backend, err := cfg.BackendType()
	require.NoError(t, err)
	assert.Equal(t, renderer.BackendTypeWGPU, backend)

	variant, err := cfg.ShadingVariant()
	require.NoError(t, err)
	assert.Equal(t, pipeline.VariantPhong, variant)

	l := cfg.NewLight()
	assert.Equal(t, light.LightTypePoint, l.Type())
	assert.Equal(t, mgl32.Vec4{0, 0, 1, 1}, l.Position())

	mat, err := cfg.NewMaterial()
	require.NoError(t, err)
	assert.Equal(t, float32(32), mat.Shininess())

	camOpts, err := cfg.CameraOptions()
	require.NoError(t, err)
	assert.Equal(t, camera.ProjectionPerspective, camera.NewCamera(camOpts...).Projection())
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode(strings.NewReader("[renderer]\nbackend = \"opengl\"\nbakend = \"wgpu\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bakend")
}

func TestDecodeRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "backend", src: "[renderer]\nbackend = \"vulkan\"\n", want: "vulkan"},
		{name: "variant", src: "[shading]\nvariant = \"toon\"\n", want: "toon"},
		{name: "face validation", src: "[loader]\nface_validation = \"lenient\"\n", want: "lenient"},
		{name: "bounds mode", src: "[loader]\nbounds_mode = \"tight\"\n", want: "tight"},
		{name: "cull mode", src: "[shading]\ncull_mode = \"sideways\"\n", want: "sideways"},
		{name: "front face", src: "[shading]\nfront_face = \"left\"\n", want: "left"},
		{name: "color mask", src: "[shading]\ncolor_mask = \"rgbx\"\n", want: "rgbx"},
		{name: "shininess", src: "[material]\nshininess = 0.0\n", want: "shininess"},
		{name: "fov", src: "[camera]\nprojection = \"perspective\"\nfov = 200.0\n", want: "fov"},
		{name: "syntax", src: "[window\n", want: "line 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRasterStateReachesPipelines(t *testing.T) {
	cfg, err := Decode(strings.NewReader("[shading]\ncull_mode = \"back\"\nfront_face = \"cw\"\ndepth_write = false\ncolor_mask = \"rgb\"\n"))
	require.NoError(t, err)

	libOpts, err := cfg.LibraryOptions()
	require.NoError(t, err)
	backend := renderertest.NewBackend(shader.LanguageGLSL)
	r, err := renderer.NewRendererWithBackend(backend, 64, 64)
	require.NoError(t, err)
	lib := pipeline.NewLibrary(libOpts...)
	require.NoError(t, r.WithContext(func() error {
		lib.Build(r)
		return lib.Err()
	}))

	for _, v := range pipeline.Variants {
		p, err := lib.Pipeline(v)
		require.NoError(t, err)
		assert.Equal(t, wgpu.CullModeBack, p.CullMode(), v.String())
		assert.Equal(t, wgpu.FrontFaceCW, p.FrontFace(), v.String())
		assert.True(t, p.DepthTestEnabled(), v.String())
		assert.False(t, p.DepthWriteEnabled(), v.String())
		assert.Equal(t, wgpu.ColorWriteMaskRed|wgpu.ColorWriteMaskGreen|wgpu.ColorWriteMaskBlue, p.WriteMask(), v.String())
	}
}

func TestEncodeDecodesBack(t *testing.T) {
	cfg := Default()
	cfg.Shading.Variant = "normals"

	var buf bytes.Buffer
	require.NoError(t, cfg.Encode(&buf))

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oxy-view.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window]\ntitle = \"meshes\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "meshes", cfg.Window.Title)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOptionsTranslate(t *testing.T) {
	cfg := Default()

	loaderOpts, err := cfg.LoaderOptions()
	require.NoError(t, err)
	assert.Len(t, loaderOpts, 2)
	assert.Len(t, cfg.RendererOptions(), 4)
	libOpts, err := cfg.LibraryOptions()
	require.NoError(t, err)
	assert.Len(t, libOpts, 2)
	assert.Len(t, cfg.WindowOptions(renderer.BackendTypeOpenGL), 5)
}
