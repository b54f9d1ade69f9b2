package scene

import (
	"github.com/Carmen-Shannon/oxy-view/engine/light"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/pipeline"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithLight sets the light that illuminates the mesh.
//
// Parameters:
//   - l: the light
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLight(l light.Light) SceneBuilderOption {
	return func(s *scene) {
		s.light = l
	}
}

// WithMaterial sets the material applied to the mesh.
//
// Parameters:
//   - mat: the material
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMaterial(mat material.Material) SceneBuilderOption {
	return func(s *scene) {
		s.material = mat
	}
}

// WithLibrary sets the shader library, for example one built with stop-on-first-failure or
// custom sources.
//
// Parameters:
//   - lib: the library
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLibrary(lib pipeline.Library) SceneBuilderOption {
	return func(s *scene) {
		s.lib = lib
	}
}
