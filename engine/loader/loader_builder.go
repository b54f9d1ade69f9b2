package loader

import (
	"github.com/Carmen-Shannon/oxy-view/engine/mesh"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithRenderer is an option builder that sets the Renderer used by the Loader to upload meshes.
// Without a renderer, Load returns meshes whose buffers are never allocated.
//
// Parameters:
//   - r: the renderer instance
//
// Returns:
//   - LoaderBuilderOption: a function that applies the renderer option to a loader
func WithRenderer(r renderer.Renderer) LoaderBuilderOption {
	return func(l *loader) {
		l.renderer = r
	}
}

// WithFaceValidation is an option builder that sets how faces declaring a vertex count other
// than 3 are handled.
//
// Parameters:
//   - v: the face validation policy
//
// Returns:
//   - LoaderBuilderOption: a function that applies the face validation option to a loader
func WithFaceValidation(v FaceValidation) LoaderBuilderOption {
	return func(l *loader) {
		l.parser.faceValidation = v
	}
}

// WithBoundsMode is an option builder that sets how the running bounding box is tracked
// while vertices are read.
//
// Parameters:
//   - mode: the bounds mode
//
// Returns:
//   - LoaderBuilderOption: a function that applies the bounds mode option to a loader
func WithBoundsMode(mode mesh.BoundsMode) LoaderBuilderOption {
	return func(l *loader) {
		l.parser.boundsMode = mode
	}
}
