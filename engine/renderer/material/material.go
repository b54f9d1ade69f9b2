package material

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidShininess is returned for a shininess exponent that is not positive.
var ErrInvalidShininess = errors.New("shininess must be positive")

// material is the implementation of the Material interface.
type material struct {
	name      string
	ambient   mgl32.Vec4
	diffuse   mgl32.Vec4
	specular  mgl32.Vec4
	shininess float32
}

// Material is a Phong surface: ambient, diffuse and specular reflectance coefficients plus a
// specular exponent.
//
// A Material is configuration. The render pass only reads it; it changes only when the host
// applies new settings.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Ambient retrieves the ambient reflectance as RGBA.
	//
	// Returns:
	//   - mgl32.Vec4: the ambient coefficient
	Ambient() mgl32.Vec4

	// Diffuse retrieves the diffuse reflectance as RGBA.
	//
	// Returns:
	//   - mgl32.Vec4: the diffuse coefficient
	Diffuse() mgl32.Vec4

	// Specular retrieves the specular reflectance as RGBA.
	//
	// Returns:
	//   - mgl32.Vec4: the specular coefficient
	Specular() mgl32.Vec4

	// Shininess retrieves the specular exponent.
	//
	// Returns:
	//   - float32: the exponent, always positive
	Shininess() float32

	// SetAmbient sets the ambient reflectance.
	SetAmbient(c mgl32.Vec4)

	// SetDiffuse sets the diffuse reflectance.
	SetDiffuse(c mgl32.Vec4)

	// SetSpecular sets the specular reflectance.
	SetSpecular(c mgl32.Vec4)

	// SetShininess sets the specular exponent.
	//
	// Parameters:
	//   - s: the new exponent
	//
	// Returns:
	//   - error: ErrInvalidShininess if s is not positive; the old value is kept
	SetShininess(s float32) error
}

var _ Material = &material{}

// Default reflectance of a new Material: a warm gold surface.
var (
	DefaultAmbient   = mgl32.Vec4{1.0, 0.8, 0.0, 1.0}
	DefaultDiffuse   = mgl32.Vec4{1.0, 0.8, 0.0, 1.0}
	DefaultSpecular  = mgl32.Vec4{1.0, 1.0, 1.0, 1.0}
	DefaultShininess = float32(100)
)

// NewMaterial creates a new Material instance configured with the provided options.
//
// Parameters:
//   - options: a variadic list of MaterialBuilderOption functions
//
// Returns:
//   - Material: the new material
//   - error: ErrInvalidShininess if an option set a non-positive exponent
func NewMaterial(options ...MaterialBuilderOption) (Material, error) {
	m := &material{
		name:      "default",
		ambient:   DefaultAmbient,
		diffuse:   DefaultDiffuse,
		specular:  DefaultSpecular,
		shininess: DefaultShininess,
	}
	for _, opt := range options {
		opt(m)
	}
	if m.shininess <= 0 {
		return nil, fmt.Errorf("material %q: %w, got %g", m.name, ErrInvalidShininess, m.shininess)
	}
	return m, nil
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Ambient() mgl32.Vec4 {
	return m.ambient
}

func (m *material) Diffuse() mgl32.Vec4 {
	return m.diffuse
}

func (m *material) Specular() mgl32.Vec4 {
	return m.specular
}

func (m *material) Shininess() float32 {
	return m.shininess
}

func (m *material) SetAmbient(c mgl32.Vec4) {
	m.ambient = c
}

func (m *material) SetDiffuse(c mgl32.Vec4) {
	m.diffuse = c
}

func (m *material) SetSpecular(c mgl32.Vec4) {
	m.specular = c
}

func (m *material) SetShininess(s float32) error {
	if s <= 0 {
		return fmt.Errorf("%w, got %g", ErrInvalidShininess, s)
	}
	m.shininess = s
	return nil
}
