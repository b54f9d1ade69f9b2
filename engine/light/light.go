package light

import (
	"github.com/go-gl/mathgl/mgl32"
)

// LightType classifies a light by the w component of its homogeneous position.
type LightType int

const (
	// LightTypeDirectional is a light at infinity (w = 0); the position is a direction toward the light.
	LightTypeDirectional LightType = iota

	// LightTypePoint is a light at a finite position (w != 0).
	LightTypePoint
)

func (t LightType) String() string {
	if t == LightTypePoint {
		return "point"
	}
	return "directional"
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	position mgl32.Vec4
	ambient  mgl32.Vec4
	diffuse  mgl32.Vec4
	specular mgl32.Vec4
}

// Light is the single light of the viewer: a homogeneous position and ambient, diffuse and
// specular intensities.
//
// Positions are given in eye space, the space the shading variants light in. The render pass
// reads the light every frame and never modifies it.
type Light interface {
	// Type reports whether the light is directional or a point light.
	//
	// Returns:
	//   - LightType: LightTypeDirectional when w == 0
	Type() LightType

	// Position retrieves the homogeneous position (w = 0 directional, w = 1 point).
	//
	// Returns:
	//   - mgl32.Vec4: the light position
	Position() mgl32.Vec4

	// Ambient retrieves the ambient intensity as RGBA.
	//
	// Returns:
	//   - mgl32.Vec4: the ambient intensity
	Ambient() mgl32.Vec4

	// Diffuse retrieves the diffuse intensity as RGBA.
	//
	// Returns:
	//   - mgl32.Vec4: the diffuse intensity
	Diffuse() mgl32.Vec4

	// Specular retrieves the specular intensity as RGBA.
	//
	// Returns:
	//   - mgl32.Vec4: the specular intensity
	Specular() mgl32.Vec4

	// SetPosition sets the homogeneous position.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p mgl32.Vec4)

	// SetAmbient sets the ambient intensity.
	SetAmbient(c mgl32.Vec4)

	// SetDiffuse sets the diffuse intensity.
	SetDiffuse(c mgl32.Vec4)

	// SetSpecular sets the specular intensity.
	SetSpecular(c mgl32.Vec4)
}

var _ Light = &lightImpl{}

// Default values of a new Light: a white directional light from the upper right front.
var (
	DefaultPosition = mgl32.Vec4{1, 1, 1, 0}
	DefaultAmbient  = mgl32.Vec4{0.2, 0.2, 0.2, 1}
	DefaultDiffuse  = mgl32.Vec4{1, 1, 1, 1}
	DefaultSpecular = mgl32.Vec4{1, 1, 1, 1}
)

// NewLight creates a new Light configured with the provided options.
//
// Parameters:
//   - opts: a variadic list of LightBuilderOption functions
//
// Returns:
//   - Light: the new light
func NewLight(opts ...LightBuilderOption) Light {
	l := &lightImpl{
		position: DefaultPosition,
		ambient:  DefaultAmbient,
		diffuse:  DefaultDiffuse,
		specular: DefaultSpecular,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Type() LightType {
	if l.position.W() == 0 {
		return LightTypeDirectional
	}
	return LightTypePoint
}

func (l *lightImpl) Position() mgl32.Vec4 {
	return l.position
}

func (l *lightImpl) Ambient() mgl32.Vec4 {
	return l.ambient
}

func (l *lightImpl) Diffuse() mgl32.Vec4 {
	return l.diffuse
}

func (l *lightImpl) Specular() mgl32.Vec4 {
	return l.specular
}

func (l *lightImpl) SetPosition(p mgl32.Vec4) {
	l.position = p
}

func (l *lightImpl) SetAmbient(c mgl32.Vec4) {
	l.ambient = c
}

func (l *lightImpl) SetDiffuse(c mgl32.Vec4) {
	l.diffuse = c
}

func (l *lightImpl) SetSpecular(c mgl32.Vec4) {
	l.specular = c
}
