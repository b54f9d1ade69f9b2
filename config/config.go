// Package config reads the viewer's TOML settings file and turns it into component options.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/light"
	"github.com/Carmen-Shannon/oxy-view/engine/loader"
	"github.com/Carmen-Shannon/oxy-view/engine/mesh"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-view/engine/window"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
)

// Config is the complete settings file. Every field has a default, so a file only needs the
// keys it changes.
type Config struct {
	LogLevel string `toml:"log_level"`

	Window   WindowConfig   `toml:"window"`
	Renderer RendererConfig `toml:"renderer"`
	Loader   LoaderConfig   `toml:"loader"`
	Shading  ShadingConfig  `toml:"shading"`
	Light    LightConfig    `toml:"light"`
	Material MaterialConfig `toml:"material"`
	Camera   CameraConfig   `toml:"camera"`
	Watch    WatchConfig    `toml:"watch"`
}

// WindowConfig sizes the host window.
type WindowConfig struct {
	Title   string `toml:"title"`
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`
	Samples int    `toml:"samples"`
}

type RendererConfig struct {
	// Backend is "opengl" or "wgpu".
	Backend       string     `toml:"backend"`
	VSync         bool       `toml:"vsync"`
	MSAA          bool       `toml:"msaa"`
	ForceSoftware bool       `toml:"force_software"`
	ClearColor    [4]float32 `toml:"clear_color"`
	FrameLimit    float64    `toml:"frame_limit"`
	OnDemand      bool       `toml:"on_demand"`
}

type LoaderConfig struct {
	// FaceValidation is "strict" or "ignore".
	FaceValidation string `toml:"face_validation"`
	// BoundsMode is "corrected" or "legacy".
	BoundsMode string `toml:"bounds_mode"`
}

type ShadingConfig struct {
	Variant            string `toml:"variant"`
	StopOnFirstFailure bool   `toml:"stop_on_first_failure"`

	// Raster state applied to every variant.
	DepthTest  bool `toml:"depth_test"`
	DepthWrite bool `toml:"depth_write"`
	// CullMode is "none", "front" or "back".
	CullMode string `toml:"cull_mode"`
	// FrontFace is "ccw" or "cw".
	FrontFace string `toml:"front_face"`
	// ColorMask lists the written channels, e.g. "rgba".
	ColorMask string `toml:"color_mask"`
}

// LightConfig describes the single light. A position with w = 0 is a direction.
type LightConfig struct {
	Position [4]float32 `toml:"position"`
	Ambient  [4]float32 `toml:"ambient"`
	Diffuse  [4]float32 `toml:"diffuse"`
	Specular [4]float32 `toml:"specular"`
}

type MaterialConfig struct {
	Name      string     `toml:"name"`
	Ambient   [4]float32 `toml:"ambient"`
	Diffuse   [4]float32 `toml:"diffuse"`
	Specular  [4]float32 `toml:"specular"`
	Shininess float32    `toml:"shininess"`
}

type CameraConfig struct {
	// Projection is "orthographic" or "perspective".
	Projection     string  `toml:"projection"`
	Fov            float32 `toml:"fov"`
	PreserveAspect bool    `toml:"preserve_aspect"`
}

type WatchConfig struct {
	Enabled    bool `toml:"enabled"`
	DebounceMS int  `toml:"debounce_ms"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		LogLevel: "info",
		Window: WindowConfig{
			Title:   "oxy-view",
			Width:   800,
			Height:  800,
			Samples: 4,
		},
		Renderer: RendererConfig{
			Backend:    renderer.BackendTypeOpenGL.String(),
			VSync:      true,
			MSAA:       true,
			ClearColor: [4]float32{0, 0, 0, 1},
		},
		Loader: LoaderConfig{
			FaceValidation: loader.FaceValidationStrict.String(),
			BoundsMode:     mesh.BoundsModeCorrected.String(),
		},
		Shading: ShadingConfig{
			Variant:    pipeline.VariantConstant.String(),
			DepthTest:  true,
			DepthWrite: true,
			CullMode:   "none",
			FrontFace:  "ccw",
			ColorMask:  "rgba",
		},
		Light: LightConfig{
			Position: light.DefaultPosition,
			Ambient:  light.DefaultAmbient,
			Diffuse:  light.DefaultDiffuse,
			Specular: light.DefaultSpecular,
		},
		Material: MaterialConfig{
			Name:      "default",
			Ambient:   material.DefaultAmbient,
			Diffuse:   material.DefaultDiffuse,
			Specular:  material.DefaultSpecular,
			Shininess: material.DefaultShininess,
		},
		Camera: CameraConfig{
			Projection: camera.ProjectionOrthographic.String(),
			Fov:        45,
		},
		Watch: WatchConfig{
			DebounceMS: 100,
		},
	}
}

// Load reads a settings file over the defaults. Unknown keys are rejected so that typos do
// not pass silently.
//
// Parameters:
//   - path: the TOML file
//
// Returns:
//   - Config: the merged settings
//   - error: error if the file cannot be read, decoded or validated
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads settings from r over the defaults and validates them.
//
// Parameters:
//   - r: the TOML source
//
// Returns:
//   - Config: the merged settings
//   - error: error if decoding or validation fails
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("unknown config keys:\n%s", strict.String())
		}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return Config{}, fmt.Errorf("invalid config at line %d, column %d: %w", row, col, err)
		}
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes the settings as TOML.
//
// Parameters:
//   - w: the destination
//
// Returns:
//   - error: error if encoding fails
func (c Config) Encode(w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(c)
}

// Validate checks every named choice and numeric range.
func (c Config) Validate() error {
	var errs []error
	if _, err := c.BackendType(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.ShadingVariant(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.LoaderOptions(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.LibraryOptions(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.CameraOptions(); err != nil {
		errs = append(errs, err)
	}
	if c.Material.Shininess <= 0 {
		errs = append(errs, fmt.Errorf("material shininess must be positive, got %v", c.Material.Shininess))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Watch.DebounceMS < 0 {
		errs = append(errs, fmt.Errorf("watch debounce must not be negative"))
	}
	return errors.Join(errs...)
}

// BackendType parses the renderer backend name.
func (c Config) BackendType() (renderer.RendererBackendType, error) {
	return renderer.ParseBackendType(c.Renderer.Backend)
}

// ShadingVariant parses the initial shading variant.
func (c Config) ShadingVariant() (pipeline.ShadingVariant, error) {
	return pipeline.ParseShadingVariant(c.Shading.Variant)
}

// WindowOptions returns the window options. WGPU windows are created without a GL context.
func (c Config) WindowOptions(backend renderer.RendererBackendType) []window.WindowBuilderOption {
	api := window.ClientAPIOpenGL
	if backend == renderer.BackendTypeWGPU {
		api = window.ClientAPINone
	}
	return []window.WindowBuilderOption{
		window.WithTitle(c.Window.Title),
		window.WithWidth(c.Window.Width),
		window.WithHeight(c.Window.Height),
		window.WithSamples(c.Window.Samples),
		window.WithClientAPI(api),
	}
}

// RendererOptions returns the renderer options.
func (c Config) RendererOptions() []renderer.RendererBuilderOption {
	present := renderer.PresentModeUncapped
	if c.Renderer.VSync {
		present = renderer.PresentModeVSync
	}
	msaa := renderer.MSAAOff
	if c.Renderer.MSAA {
		msaa = renderer.MSAA4x
	}
	return []renderer.RendererBuilderOption{
		renderer.WithPresentMode(present),
		renderer.WithMSAA(msaa),
		renderer.WithForceSoftwareRenderer(c.Renderer.ForceSoftware),
		renderer.WithClearColor(mgl32.Vec4(c.Renderer.ClearColor)),
	}
}

// LoaderOptions returns the mesh loader options.
func (c Config) LoaderOptions() ([]loader.LoaderBuilderOption, error) {
	fv, err := loader.ParseFaceValidation(c.Loader.FaceValidation)
	if err != nil {
		return nil, err
	}
	mode, err := mesh.ParseBoundsMode(c.Loader.BoundsMode)
	if err != nil {
		return nil, err
	}
	return []loader.LoaderBuilderOption{loader.WithFaceValidation(fv), loader.WithBoundsMode(mode)}, nil
}

// LibraryOptions returns the shader library options, including the raster state every variant
// pipeline is created with.
func (c Config) LibraryOptions() ([]pipeline.LibraryBuilderOption, error) {
	cull, err := pipeline.ParseCullMode(c.Shading.CullMode)
	if err != nil {
		return nil, err
	}
	face, err := pipeline.ParseFrontFace(c.Shading.FrontFace)
	if err != nil {
		return nil, err
	}
	mask, err := pipeline.ParseWriteMask(c.Shading.ColorMask)
	if err != nil {
		return nil, err
	}
	return []pipeline.LibraryBuilderOption{
		pipeline.WithStopOnFirstFailure(c.Shading.StopOnFirstFailure),
		pipeline.WithPipelineOptions(
			pipeline.WithDepthTestEnabled(c.Shading.DepthTest),
			pipeline.WithDepthWriteEnabled(c.Shading.DepthWrite),
			pipeline.WithCullMode(cull),
			pipeline.WithFrontFace(face),
			pipeline.WithWriteMask(mask),
		),
	}, nil
}

// NewLight builds the configured light.
func (c Config) NewLight() light.Light {
	return light.NewLight(
		light.WithPosition(c.Light.Position),
		light.WithAmbient(c.Light.Ambient),
		light.WithDiffuse(c.Light.Diffuse),
		light.WithSpecular(c.Light.Specular),
	)
}

// NewMaterial builds the configured material.
func (c Config) NewMaterial() (material.Material, error) {
	return material.NewMaterial(
		material.WithName(c.Material.Name),
		material.WithAmbient(c.Material.Ambient),
		material.WithDiffuse(c.Material.Diffuse),
		material.WithSpecular(c.Material.Specular),
		material.WithShininess(c.Material.Shininess),
	)
}

// CameraOptions returns the camera options.
func (c Config) CameraOptions() ([]camera.CameraBuilderOption, error) {
	projection, err := camera.ParseProjection(c.Camera.Projection)
	if err != nil {
		return nil, err
	}
	opts := []camera.CameraBuilderOption{camera.WithPreserveAspect(c.Camera.PreserveAspect)}
	if projection == camera.ProjectionPerspective {
		if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
			return nil, fmt.Errorf("camera fov must be between 0 and 180 degrees, got %v", c.Camera.Fov)
		}
		opts = append(opts, camera.WithPerspective(c.Camera.Fov))
	}
	return opts, nil
}
