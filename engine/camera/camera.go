package camera

import (
	"fmt"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Projection selects how the camera maps eye space to clip space.
type Projection int

const (
	// ProjectionOrthographic maps the box [-1,1]x[-1,1] between near and far onto the viewport.
	ProjectionOrthographic Projection = iota

	// ProjectionPerspective uses a symmetric perspective frustum.
	ProjectionPerspective
)

func (p Projection) String() string {
	switch p {
	case ProjectionOrthographic:
		return "orthographic"
	case ProjectionPerspective:
		return "perspective"
	default:
		return fmt.Sprintf("Projection(%d)", int(p))
	}
}

// ParseProjection maps a configuration name to a Projection. The empty string selects orthographic.
func ParseProjection(name string) (Projection, error) {
	switch name {
	case "", "orthographic", "ortho":
		return ProjectionOrthographic, nil
	case "perspective":
		return ProjectionPerspective, nil
	default:
		return 0, fmt.Errorf("unknown projection %q", name)
	}
}

// cameraImpl is the implementation of the Camera interface.
type cameraImpl struct {
	mu *sync.Mutex

	projection     Projection
	fov            float32 // radians
	aspect         float32
	near           float32
	far            float32
	distance       float32
	preserveAspect bool

	viewMatrix       mgl32.Mat4
	projectionMatrix mgl32.Mat4
}

// Camera is the fixed viewer camera. It looks down -z from (0, 0, distance) at the origin, where
// the bounding normalizer centers every mesh inside the unit sphere.
//
// Defaults reproduce the classic viewer setup: an orthographic box (-1, 1, -1, 1, 0, 2) seen
// from one unit away, so the whole normalized mesh lies between the near and far planes.
type Camera interface {
	// Projection returns the projection kind.
	//
	// Returns:
	//   - Projection: orthographic or perspective
	Projection() Projection

	// Fov returns the vertical field of view in radians used by the perspective projection.
	//
	// Returns:
	//   - float32: the field of view
	Fov() float32

	// Aspect returns the viewport aspect ratio, width over height.
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near plane distance.
	Near() float32

	// Far returns the far plane distance.
	Far() float32

	// Distance returns how far the eye sits from the origin along +z.
	Distance() float32

	// Eye returns the eye position in world space.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Eye() mgl32.Vec3

	// ViewMatrix returns the world-to-eye transform.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the eye-to-clip transform, in OpenGL clip conventions.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// SetAspect updates the aspect ratio after a resize. Non-positive values are ignored.
	//
	// Parameters:
	//   - aspect: width over height
	SetAspect(aspect float32)

	// SetViewport updates the aspect ratio from a framebuffer size. A zero height is ignored.
	//
	// Parameters:
	//   - width: framebuffer width in pixels
	//   - height: framebuffer height in pixels
	SetViewport(width, height int)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera instance configured with the provided options.
//
// Parameters:
//   - options: a variadic list of CameraBuilderOption functions
//
// Returns:
//   - Camera: the new camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:         &sync.Mutex{},
		projection: ProjectionOrthographic,
		fov:        45.0 * (math.Pi / 180.0),
		aspect:     1.0,
		near:       0.0,
		far:        2.0,
		distance:   1.0,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Projection() Projection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Distance() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.distance
}

func (c *cameraImpl) Eye() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return mgl32.Vec3{0, 0, c.distance}
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.SetAspect(float32(width) / float32(height))
}

// updateMatrices recomputes view and projection. Callers hold c.mu, except NewCamera.
func (c *cameraImpl) updateMatrices() {
	c.viewMatrix = mgl32.Translate3D(0, 0, -c.distance)

	switch c.projection {
	case ProjectionPerspective:
		c.projectionMatrix = mgl32.Perspective(c.fov, c.aspect, c.near, c.far)
	default:
		halfW, halfH := float32(1), float32(1)
		if c.preserveAspect {
			if c.aspect >= 1 {
				halfW = c.aspect
			} else {
				halfH = 1 / c.aspect
			}
		}
		c.projectionMatrix = mgl32.Ortho(-halfW, halfW, -halfH, halfH, c.near, c.far)
	}
}
