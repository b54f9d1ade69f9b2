package scene

import (
	"fmt"
	"sync"

	"fortio.org/log"
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/light"
	"github.com/Carmen-Shannon/oxy-view/engine/mesh"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/pipeline"
)

// Scene holds everything one frame needs: the camera, the single light, the material, the
// shader library and at most one mesh. Every GPU call it makes goes through the Renderer's
// scoped context, so its methods may be called from the render thread without acquiring the
// context first.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// Renderer returns the scene's renderer.
	Renderer() renderer.Renderer

	// Library returns the shader library the scene draws with.
	Library() pipeline.Library

	// Light returns the scene's light.
	Light() light.Light

	// SetLight replaces the scene's light.
	//
	// Parameters:
	//   - l: the new light, ignored if nil
	SetLight(l light.Light)

	// Material returns the material applied to the mesh.
	Material() material.Material

	// SetMaterial replaces the material applied to the mesh.
	//
	// Parameters:
	//   - mat: the new material, ignored if nil
	SetMaterial(mat material.Material)

	// Mesh returns the current mesh, or nil when none is loaded.
	Mesh() mesh.Mesh

	// SetMesh makes m the current mesh. The GPU buffers of the previous mesh are released
	// first; m is expected to be uploaded already.
	//
	// Parameters:
	//   - m: the new mesh, or nil to clear
	//
	// Returns:
	//   - error: error if the rendering context could not be acquired to release the old buffers
	SetMesh(m mesh.Mesh) error

	// BuildLibrary builds every shading variant inside the scoped context. Only the first call
	// compiles anything; later calls return the recorded results.
	//
	// Returns:
	//   - map[pipeline.ShadingVariant]error: the result of each variant, nil on success
	//   - error: error if the rendering context could not be acquired
	BuildLibrary() (map[pipeline.ShadingVariant]error, error)

	// RenderFrame clears the surface and, when a mesh is loaded and its selected variant is
	// usable, draws the mesh with that variant. The frame is presented either way.
	//
	// Returns:
	//   - error: the reason nothing was drawn, or a context or frame failure
	RenderFrame() error

	// Release frees the mesh buffers and the shader programs. The scene cannot draw afterwards.
	Release()
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu *sync.RWMutex

	name     string
	cam      camera.Camera
	r        renderer.Renderer
	lib      pipeline.Library
	light    light.Light
	material material.Material
	mesh     mesh.Mesh

	lastFrameErr string
	released     bool
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new Scene with the given camera and renderer. Both are required and NewScene
// panics if either is nil. The light, material and library default to light.NewLight(),
// the default material and pipeline.NewLibrary() unless options replace them.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to attach (must not be nil)
//   - r: the renderer to attach (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, r renderer.Renderer, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}
	if r == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}

	s := &scene{
		mu:   &sync.RWMutex{},
		name: name,
		cam:  cam,
		r:    r,
	}
	for _, option := range options {
		option(s)
	}

	if s.light == nil {
		s.light = light.NewLight()
	}
	if s.material == nil {
		// The default options always satisfy the shininess check.
		s.material, _ = material.NewMaterial()
	}
	if s.lib == nil {
		s.lib = pipeline.NewLibrary()
	}
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Renderer() renderer.Renderer {
	return s.r
}

func (s *scene) Library() pipeline.Library {
	return s.lib
}

func (s *scene) Light() light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.light
}

func (s *scene) SetLight(l light.Light) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.light = l
}

func (s *scene) Material() material.Material {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.material
}

func (s *scene) SetMaterial(mat material.Material) {
	if mat == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.material = mat
}

func (s *scene) Mesh() mesh.Mesh {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mesh
}

func (s *scene) SetMesh(m mesh.Mesh) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mesh != nil && s.mesh != m {
		old := s.mesh
		err := s.r.WithContext(func() error {
			s.r.ReleaseMesh(old.Buffer())
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to release mesh %q: %w", old.Name(), err)
		}
	}
	s.mesh = m
	s.lastFrameErr = ""
	return nil
}

func (s *scene) BuildLibrary() (map[pipeline.ShadingVariant]error, error) {
	var results map[pipeline.ShadingVariant]error
	err := s.r.WithContext(func() error {
		results = s.lib.Build(s.r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *scene) RenderFrame() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return renderer.ErrReleased
	}

	var drawErr error
	err := s.r.WithContext(func() error {
		if err := s.r.BeginFrame(); err != nil {
			return err
		}
		drawErr = s.draw()
		s.r.EndFrame()
		s.r.Present()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to render frame: %w", err)
	}

	if drawErr != nil {
		// A broken variant would otherwise log on every frame.
		if msg := drawErr.Error(); msg != s.lastFrameErr {
			log.Warnf("scene %s: %v", s.name, drawErr)
			s.lastFrameErr = msg
		}
		return drawErr
	}
	s.lastFrameErr = ""
	return nil
}

// draw issues the single draw call of the frame. It must run inside the scoped context.
func (s *scene) draw() error {
	if s.mesh == nil {
		return nil
	}
	buf := s.mesh.Buffer()
	if !buf.Complete() {
		return fmt.Errorf("mesh %q has no GPU buffers", s.mesh.Name())
	}
	if buf.IndexCount() == 0 {
		return nil
	}

	p, err := s.lib.Pipeline(pipeline.ShadingVariant(s.mesh.ShadingVariant()))
	if err != nil {
		return err
	}
	return s.r.DrawCall(p, buf, BuildFrameUniforms(s.cam, s.light, s.material, s.mesh))
}

func (s *scene) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return
	}
	s.released = true

	err := s.r.WithContext(func() error {
		if s.mesh != nil {
			s.r.ReleaseMesh(s.mesh.Buffer())
		}
		s.lib.Release(s.r)
		return nil
	})
	if err != nil {
		log.Errf("scene %s: failed to release GPU resources: %v", s.name, err)
	}
	s.mesh = nil
}
