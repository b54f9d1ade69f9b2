package material

import "github.com/go-gl/mathgl/mgl32"

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithAmbient is an option builder that sets the ambient reflectance.
//
// Parameters:
//   - c: the coefficient as RGBA
//
// Returns:
//   - MaterialBuilderOption: a function that applies the ambient option to a material
func WithAmbient(c mgl32.Vec4) MaterialBuilderOption {
	return func(m *material) {
		m.ambient = c
	}
}

// WithDiffuse is an option builder that sets the diffuse reflectance.
//
// Parameters:
//   - c: the coefficient as RGBA
//
// Returns:
//   - MaterialBuilderOption: a function that applies the diffuse option to a material
func WithDiffuse(c mgl32.Vec4) MaterialBuilderOption {
	return func(m *material) {
		m.diffuse = c
	}
}

// WithSpecular is an option builder that sets the specular reflectance.
//
// Parameters:
//   - c: the coefficient as RGBA
//
// Returns:
//   - MaterialBuilderOption: a function that applies the specular option to a material
func WithSpecular(c mgl32.Vec4) MaterialBuilderOption {
	return func(m *material) {
		m.specular = c
	}
}

// WithShininess is an option builder that sets the specular exponent. NewMaterial rejects
// values that are not positive.
//
// Parameters:
//   - s: the exponent
//
// Returns:
//   - MaterialBuilderOption: a function that applies the shininess option to a material
func WithShininess(s float32) MaterialBuilderOption {
	return func(m *material) {
		m.shininess = s
	}
}
