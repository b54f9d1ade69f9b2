package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraBuilderOption is a function that configures a Camera instance during construction.
type CameraBuilderOption func(*cameraImpl)

// WithAspect is an option builder that sets the initial aspect ratio.
//
// Parameters:
//   - aspect: width over height; non-positive values are ignored
//
// Returns:
//   - CameraBuilderOption: a function that applies the aspect option to a cameraImpl
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if aspect > 0 {
			c.aspect = aspect
		}
	}
}

// WithPreserveAspect widens the orthographic box along the longer viewport axis so the mesh is
// not stretched. Off by default, which maps [-1,1] onto the whole viewport.
//
// Parameters:
//   - preserve: true to correct for the aspect ratio
//
// Returns:
//   - CameraBuilderOption: a function that applies the option to a cameraImpl
func WithPreserveAspect(preserve bool) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.preserveAspect = preserve
	}
}

// WithPerspective switches to a perspective projection with the given vertical field of view
// in degrees. The eye is moved back so that the unit sphere fits the frustum, and the near and
// far planes are placed around it.
//
// Parameters:
//   - fovDegrees: the vertical field of view, in (0, 180)
//
// Returns:
//   - CameraBuilderOption: a function that applies the perspective option to a cameraImpl
func WithPerspective(fovDegrees float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if fovDegrees <= 0 || fovDegrees >= 180 {
			return
		}
		c.projection = ProjectionPerspective
		c.fov = mgl32.DegToRad(fovDegrees)
		c.distance = 1/float32(math.Sin(float64(c.fov)/2)) + 0.1
		c.near = c.distance - 1.1
		c.far = c.distance + 1.1
	}
}

// WithDistance is an option builder that sets how far the eye sits from the origin. Apply it
// after WithPerspective to override the fitted distance.
//
// Parameters:
//   - distance: the distance along +z; non-positive values are ignored
//
// Returns:
//   - CameraBuilderOption: a function that applies the distance option to a cameraImpl
func WithDistance(distance float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if distance > 0 {
			c.distance = distance
		}
	}
}

// WithClipPlanes is an option builder that sets the near and far plane distances.
//
// Parameters:
//   - near: the near plane distance
//   - far: the far plane distance, greater than near
//
// Returns:
//   - CameraBuilderOption: a function that applies the clip plane option to a cameraImpl
func WithClipPlanes(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if far > near {
			c.near = near
			c.far = far
		}
	}
}
