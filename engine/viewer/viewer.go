// Package viewer is the surface a host window talks to: it loads meshes, switches shading
// variants, and forwards resize and frame events to the scene.
package viewer

import (
	"fmt"
	"sync"

	"fortio.org/log"
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/light"
	"github.com/Carmen-Shannon/oxy-view/engine/loader"
	"github.com/Carmen-Shannon/oxy-view/engine/mesh"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-view/engine/scene"
	"github.com/Carmen-Shannon/oxy-view/engine/watcher"
)

// MeshInfo summarizes a loaded mesh for the host's status line.
type MeshInfo struct {
	Name        string
	Path        string
	VertexCount int
	FaceCount   int
}

// String returns the status text shown after a load.
func (i MeshInfo) String() string {
	return fmt.Sprintf("Vertices: %d, Faces: %d", i.VertexCount, i.FaceCount)
}

// viewer is the implementation of the Viewer interface.
type viewer struct {
	mu sync.Mutex

	r       renderer.Renderer
	scene   scene.Scene
	loader  loader.Loader
	watcher watcher.Watcher

	cam        camera.Camera
	light      light.Light
	material   material.Material
	library    pipeline.Library
	loaderOpts []loader.LoaderBuilderOption

	variant pipeline.ShadingVariant

	onMeshLoaded      func(MeshInfo)
	onVariantSelector func(enabled bool)
	onRedraw          func()
}

// Viewer is the collaborator interface of the mesh viewer. Its methods are called from the
// thread that owns the rendering context; every GPU call goes through the renderer's scoped
// context.
type Viewer interface {
	// LoadMesh reads an OFF file and makes it the displayed mesh. On success the previous mesh
	// is released, the shader library is built if this is the first load, and the shading
	// variant in use is carried over to the new mesh. The mesh-loaded callback then receives
	// the counts and the variant-selector callback is enabled.
	// On failure the previous mesh stays on screen and no callback fires.
	//
	// Parameters:
	//   - path: the file to load
	//
	// Returns:
	//   - MeshInfo: the vertex and face counts of the new mesh
	//   - error: *loader.IOError if the file could not be read, or an upload failure
	LoadMesh(path string) (MeshInfo, error)

	// Reload loads the current mesh's file again.
	//
	// Returns:
	//   - MeshInfo: the counts of the reloaded mesh
	//   - error: error if no file is loaded or the load fails
	Reload() (MeshInfo, error)

	// SelectShadingVariant chooses the variant used to draw the mesh and requests a redraw.
	// Out-of-range indices are logged and ignored.
	//
	// Parameters:
	//   - index: the variant index, 0 to pipeline.VariantCount-1
	SelectShadingVariant(index int)

	// ShadingVariant returns the variant currently selected.
	ShadingVariant() pipeline.ShadingVariant

	// OnResize resizes the drawing surface and updates the camera aspect.
	//
	// Parameters:
	//   - width: the framebuffer width in pixels
	//   - height: the framebuffer height in pixels
	OnResize(width, height int)

	// OnFrame renders one frame.
	//
	// Returns:
	//   - error: the reason the mesh was not drawn, if any
	OnFrame() error

	// MeshInfo returns the counts of the displayed mesh.
	//
	// Returns:
	//   - MeshInfo: the counts
	//   - bool: false when no mesh is loaded
	MeshInfo() (MeshInfo, bool)

	// Scene returns the scene the viewer draws.
	Scene() scene.Scene

	// Close releases the mesh buffers and the shader programs, and stops the watcher.
	Close()
}

var _ Viewer = &viewer{}

// NewViewer creates a Viewer drawing through r. Without options it uses the default camera,
// light and material and starts with the constant variant.
//
// Parameters:
//   - r: the renderer (must not be nil)
//   - options: a variadic list of ViewerBuilderOption functions
//
// Returns:
//   - Viewer: the new viewer
func NewViewer(r renderer.Renderer, options ...ViewerBuilderOption) Viewer {
	if r == nil {
		panic("viewer: NewViewer requires a non-nil Renderer")
	}

	v := &viewer{
		r:       r,
		variant: pipeline.VariantConstant,
	}
	for _, opt := range options {
		opt(v)
	}

	if v.cam == nil {
		v.cam = camera.NewCamera()
	}
	sceneOpts := []scene.SceneBuilderOption{scene.WithLight(v.light), scene.WithMaterial(v.material)}
	if v.library != nil {
		sceneOpts = append(sceneOpts, scene.WithLibrary(v.library))
	}
	v.scene = scene.NewScene("viewer", v.cam, r, sceneOpts...)
	v.loader = loader.NewLoader(loader.BackendTypeOFF, append([]loader.LoaderBuilderOption{loader.WithRenderer(r)}, v.loaderOpts...)...)
	return v
}

func (v *viewer) LoadMesh(path string) (MeshInfo, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	imported, err := v.loader.Parse(path)
	if err != nil {
		log.Errf("failed to load %s: %v", path, err)
		return MeshInfo{}, err
	}

	if err := v.scene.SetMesh(nil); err != nil {
		return MeshInfo{}, err
	}

	m := mesh.NewMesh(append(mesh.FromImported(imported), mesh.WithShadingVariant(int(v.variant)))...)
	if err := v.loader.Upload(m); err != nil {
		log.Errf("%v", err)
		return MeshInfo{}, err
	}
	if err := v.scene.SetMesh(m); err != nil {
		return MeshInfo{}, err
	}

	if !v.scene.Library().Built() {
		results, err := v.scene.BuildLibrary()
		if err != nil {
			return MeshInfo{}, fmt.Errorf("failed to build shaders: %w", err)
		}
		ready := 0
		for _, variant := range pipeline.Variants {
			if results[variant] == nil {
				ready++
			}
		}
		log.Infof("%d of %d shading variants ready", ready, pipeline.VariantCount)
	}

	if v.watcher != nil {
		if err := v.watcher.Watch(path); err != nil {
			log.Warnf("%v", err)
		}
	}

	info := meshInfo(m)
	log.Infof("loaded %s: %s", path, info)
	if v.onMeshLoaded != nil {
		v.onMeshLoaded(info)
	}
	if v.onVariantSelector != nil {
		v.onVariantSelector(true)
	}
	v.redraw()
	return info, nil
}

func (v *viewer) Reload() (MeshInfo, error) {
	m := v.scene.Mesh()
	if m == nil || m.Path() == "" {
		return MeshInfo{}, fmt.Errorf("viewer: no file to reload")
	}
	return v.LoadMesh(m.Path())
}

func (v *viewer) SelectShadingVariant(index int) {
	variant := pipeline.ShadingVariant(index)
	if !variant.Valid() {
		log.Warnf("ignoring shading variant index %d, want 0 to %d", index, pipeline.VariantCount-1)
		return
	}

	v.mu.Lock()
	v.variant = variant
	if m := v.scene.Mesh(); m != nil {
		m.SetShadingVariant(index)
	}
	v.mu.Unlock()

	log.Debugf("shading variant %s selected", variant)
	v.redraw()
}

func (v *viewer) ShadingVariant() pipeline.ShadingVariant {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.variant
}

func (v *viewer) OnResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	err := v.r.WithContext(func() error {
		v.r.Resize(width, height)
		return nil
	})
	if err != nil {
		log.Errf("failed to resize surface: %v", err)
		return
	}
	v.cam.SetViewport(width, height)
	v.redraw()
}

func (v *viewer) OnFrame() error {
	return v.scene.RenderFrame()
}

func (v *viewer) MeshInfo() (MeshInfo, bool) {
	m := v.scene.Mesh()
	if m == nil {
		return MeshInfo{}, false
	}
	return meshInfo(m), true
}

func (v *viewer) Scene() scene.Scene {
	return v.scene
}

func (v *viewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.watcher != nil {
		if err := v.watcher.Close(); err != nil {
			log.Warnf("failed to stop file watcher: %v", err)
		}
		v.watcher = nil
	}
	v.scene.Release()
}

func (v *viewer) redraw() {
	if v.onRedraw != nil {
		v.onRedraw()
	}
}

func meshInfo(m mesh.Mesh) MeshInfo {
	return MeshInfo{
		Name:        m.Name(),
		Path:        m.Path(),
		VertexCount: m.VertexCount(),
		FaceCount:   m.FaceCount(),
	}
}
