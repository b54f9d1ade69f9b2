package scene

import (
	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/light"
	"github.com/Carmen-Shannon/oxy-view/engine/mesh"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// Products holds the component-wise light and material products the lit variants consume.
type Products struct {
	Ambient  mgl32.Vec4
	Diffuse  mgl32.Vec4
	Specular mgl32.Vec4
}

// ComputeProducts multiplies each light intensity by the matching material reflectance.
//
// Parameters:
//   - l: the light
//   - mat: the material
//
// Returns:
//   - Products: ambient, diffuse and specular products
func ComputeProducts(l light.Light, mat material.Material) Products {
	return Products{
		Ambient:  common.MulComponents4(l.Ambient(), mat.Ambient()),
		Diffuse:  common.MulComponents4(l.Diffuse(), mat.Diffuse()),
		Specular: common.MulComponents4(l.Specular(), mat.Specular()),
	}
}

// BuildFrameUniforms assembles the per-draw uniform block for a mesh. It has no side effects;
// the model and normal matrices are derived from the mesh bounds on every call.
//
// Parameters:
//   - cam: supplies the view and projection matrices
//   - l: the light, passed explicitly
//   - mat: the material, passed explicitly
//   - m: the mesh being drawn
//
// Returns:
//   - renderer.FrameUniforms: the uniform values for the draw
func BuildFrameUniforms(cam camera.Camera, l light.Light, mat material.Material, m mesh.Mesh) renderer.FrameUniforms {
	model := m.ModelMatrix()
	products := ComputeProducts(l, mat)
	return renderer.FrameUniforms{
		Model:           model,
		View:            cam.ViewMatrix(),
		Projection:      cam.ProjectionMatrix(),
		NormalMatrix:    common.NormalMatrix(model),
		LightPosition:   l.Position(),
		AmbientProduct:  products.Ambient,
		DiffuseProduct:  products.Diffuse,
		SpecularProduct: products.Specular,
		Shininess:       mat.Shininess(),
	}
}
