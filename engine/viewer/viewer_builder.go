package viewer

import (
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/light"
	"github.com/Carmen-Shannon/oxy-view/engine/loader"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-view/engine/watcher"
)

// ViewerBuilderOption is a functional option for configuring a Viewer via NewViewer.
type ViewerBuilderOption func(*viewer)

// WithMeshLoadedCallback sets the function told about every successful load. Hosts use it
// to update their status line with MeshInfo.String().
//
// Parameters:
//   - fn: the callback
//
// Returns:
//   - ViewerBuilderOption: a function that applies the callback option to a viewer
func WithMeshLoadedCallback(fn func(MeshInfo)) ViewerBuilderOption {
	return func(v *viewer) {
		v.onMeshLoaded = fn
	}
}

// WithVariantSelectorCallback sets the function that enables the host's variant selector.
// It is called with true after every successful load.
//
// Parameters:
//   - fn: the callback
//
// Returns:
//   - ViewerBuilderOption: a function that applies the callback option to a viewer
func WithVariantSelectorCallback(fn func(enabled bool)) ViewerBuilderOption {
	return func(v *viewer) {
		v.onVariantSelector = fn
	}
}

// WithRedrawCallback sets the function that asks the host for a new frame.
//
// Parameters:
//   - fn: the callback
//
// Returns:
//   - ViewerBuilderOption: a function that applies the callback option to a viewer
func WithRedrawCallback(fn func()) ViewerBuilderOption {
	return func(v *viewer) {
		v.onRedraw = fn
	}
}

// WithLight sets the light.
//
// Parameters:
//   - l: the light
//
// Returns:
//   - ViewerBuilderOption: a function that applies the light option to a viewer
func WithLight(l light.Light) ViewerBuilderOption {
	return func(v *viewer) {
		v.light = l
	}
}

// WithMaterial sets the material applied to every loaded mesh.
//
// Parameters:
//   - mat: the material
//
// Returns:
//   - ViewerBuilderOption: a function that applies the material option to a viewer
func WithMaterial(mat material.Material) ViewerBuilderOption {
	return func(v *viewer) {
		v.material = mat
	}
}

// WithCamera sets the camera.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - ViewerBuilderOption: a function that applies the camera option to a viewer
func WithCamera(cam camera.Camera) ViewerBuilderOption {
	return func(v *viewer) {
		v.cam = cam
	}
}

// WithWatcher makes the viewer point w at every file it loads. The host drains w.Events()
// and calls LoadMesh for each change.
//
// Parameters:
//   - w: the watcher, closed by Close
//
// Returns:
//   - ViewerBuilderOption: a function that applies the watcher option to a viewer
func WithWatcher(w watcher.Watcher) ViewerBuilderOption {
	return func(v *viewer) {
		v.watcher = w
	}
}

// WithLoaderOptions passes options such as face validation or bounds mode to the mesh loader.
//
// Parameters:
//   - opts: the loader options
//
// Returns:
//   - ViewerBuilderOption: a function that applies the loader options to a viewer
func WithLoaderOptions(opts ...loader.LoaderBuilderOption) ViewerBuilderOption {
	return func(v *viewer) {
		v.loaderOpts = append(v.loaderOpts, opts...)
	}
}

// WithShadingVariant sets the variant the first loaded mesh is drawn with.
//
// Parameters:
//   - variant: the initial variant, ignored if invalid
//
// Returns:
//   - ViewerBuilderOption: a function that applies the variant option to a viewer
func WithShadingVariant(variant pipeline.ShadingVariant) ViewerBuilderOption {
	return func(v *viewer) {
		if variant.Valid() {
			v.variant = variant
		}
	}
}

// WithLibrary sets the shader library.
//
// Parameters:
//   - lib: the library
//
// Returns:
//   - ViewerBuilderOption: a function that applies the library option to a viewer
func WithLibrary(lib pipeline.Library) ViewerBuilderOption {
	return func(v *viewer) {
		v.library = lib
	}
}
