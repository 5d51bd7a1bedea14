package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// ErrInvalidScene wraps every scene validation failure
var ErrInvalidScene = errors.New("invalid scene")

// Scene contains all the elements needed for rendering.
// It is built once and must not be modified while a render is running.
type Scene struct {
	Name       string // Display name, kept when the scene is described
	Summary    string // One-line description
	Group      string // Grouping category for scene listings
	Camera     renderer.Camera
	Primitives []geometry.Primitive // Objects in the scene
	Lights     []*lights.PointLight // Lights in the scene
	MaxDepth   int                  // Recursion limit, 0 for the renderer default
}

// NewScene creates an empty scene viewed through camera
func NewScene(camera renderer.Camera) *Scene {
	return &Scene{Camera: camera}
}

// AddPrimitive adds an object to the scene
func (s *Scene) AddPrimitive(p geometry.Primitive) {
	s.Primitives = append(s.Primitives, p)
}

// AddLight adds a point light to the scene
func (s *Scene) AddLight(l *lights.PointLight) {
	s.Lights = append(s.Lights, l)
}

// GetCamera returns the scene camera
func (s *Scene) GetCamera() renderer.Camera {
	return s.Camera
}

// GetPrimitives returns the objects in the scene
func (s *Scene) GetPrimitives() []geometry.Primitive {
	return s.Primitives
}

// GetLights returns the lights in the scene
func (s *Scene) GetLights() []*lights.PointLight {
	return s.Lights
}

// RenderConfig returns the default render configuration with the scene's depth limit applied
func (s *Scene) RenderConfig() renderer.RenderConfig {
	config := renderer.DefaultRenderConfig()
	if s.MaxDepth > 0 {
		config.MaxDepth = s.MaxDepth
	}
	return config
}

// Validate reports every problem with the scene at once. Rendering assumes a
// validated scene.
func (s *Scene) Validate() error {
	var errs []error

	if s.Camera == nil {
		errs = append(errs, errors.New("scene has no camera"))
	} else if w, h := s.Camera.Resolution(); w <= 0 || h <= 0 {
		errs = append(errs, fmt.Errorf("camera resolution %dx%d must be positive", w, h))
	}
	if s.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("max depth %d is negative", s.MaxDepth))
	}
	for i, p := range s.Primitives {
		if p == nil {
			errs = append(errs, fmt.Errorf("primitive %d is nil", i))
			continue
		}
		if err := p.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("primitive %d: %w", i, err))
		}
	}
	for i, l := range s.Lights {
		if l == nil {
			errs = append(errs, fmt.Errorf("light %d is nil", i))
			continue
		}
		if err := l.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("light %d: %w", i, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidScene, errors.Join(errs...))
	}
	return nil
}

// GetPrimitiveCount returns the number of primitives of each kind
func (s *Scene) GetPrimitiveCount() (spheres, planes int) {
	for _, p := range s.Primitives {
		switch p.(type) {
		case *geometry.Sphere:
			spheres++
		case *geometry.Plane:
			planes++
		}
	}
	return spheres, planes
}
