package light

import "github.com/go-gl/mathgl/mgl32"

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithPosition is an option builder that sets the homogeneous position of the light.
//
// Parameters:
//   - p: the position; w = 0 makes the light directional
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a lightImpl
func WithPosition(p mgl32.Vec4) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = p
	}
}

// WithDirection is an option builder that makes the light directional, shining from the given
// direction. The direction is normalized before storing; a zero vector keeps the default.
//
// Parameters:
//   - x: the x direction component
//   - y: the y direction component
//   - z: the z direction component
//
// Returns:
//   - LightBuilderOption: a function that applies the direction option to a lightImpl
func WithDirection(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		d := mgl32.Vec3{x, y, z}
		if d.Len() == 0 {
			return
		}
		l.position = d.Normalize().Vec4(0)
	}
}

// WithAmbient is an option builder that sets the ambient intensity.
//
// Parameters:
//   - c: the intensity as RGBA
//
// Returns:
//   - LightBuilderOption: a function that applies the ambient option to a lightImpl
func WithAmbient(c mgl32.Vec4) LightBuilderOption {
	return func(l *lightImpl) {
		l.ambient = c
	}
}

// WithDiffuse is an option builder that sets the diffuse intensity.
func WithDiffuse(c mgl32.Vec4) LightBuilderOption {
	return func(l *lightImpl) {
		l.diffuse = c
	}
}

// WithSpecular is an option builder that sets the specular intensity.
func WithSpecular(c mgl32.Vec4) LightBuilderOption {
	return func(l *lightImpl) {
		l.specular = c
	}
}
