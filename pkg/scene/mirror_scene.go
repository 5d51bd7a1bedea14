package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// NewMirrorScene creates a reflective floor plane with three spheres and a
// mirror wall behind them, viewed through a viewport camera.
func NewMirrorScene(width, height int) (*Scene, error) {
	config := renderer.DefaultCameraConfig()
	config.FOV = 60
	config.Position = core.NewVec3(0, 2, -8)
	config.Target = core.NewVec3(0, 0.5, 0)
	if width > 0 {
		config.Width = width
	}
	if height > 0 {
		config.Height = height
	}

	camera, err := renderer.NewCamera(config)
	if err != nil {
		return nil, err
	}
	s := NewScene(camera)
	s.MaxDepth = 6

	floor, err := geometry.NewPlane(core.NewVec3(0, -1, 0), core.Up,
		material.New(core.NewVec3(200, 200, 200)).WithSpecular(0.3).WithLambert(0.8))
	if err != nil {
		return nil, err
	}
	wall, err := geometry.NewPlane(core.NewVec3(0, 0, 6), core.NewVec3(0, 0, -1),
		material.New(core.NewVec3(40, 40, 60)).WithSpecular(0.9).WithLambert(0.2).WithAmbient(0.1))
	if err != nil {
		return nil, err
	}
	s.AddPrimitive(floor)
	s.AddPrimitive(wall)

	s.AddPrimitive(geometry.NewSphere(core.NewVec3(-2.2, 0, 1), 1,
		material.New(core.NewVec3(230, 60, 50)).WithSpecular(0.2)))
	s.AddPrimitive(geometry.NewSphere(core.NewVec3(0, 0.5, 2), 1.5,
		material.New(core.NewVec3(220, 220, 230)).WithSpecular(0.9).WithLambert(0.3)))
	s.AddPrimitive(geometry.NewSphere(core.NewVec3(2.2, 0, 1), 1,
		material.New(core.NewVec3(50, 90, 230)).WithSpecular(0.4)))

	s.AddLight(lights.NewWhiteLight(core.NewVec3(-4, 6, -4)))
	s.AddLight(lights.NewPointLight(core.NewVec3(5, 4, -2), 0.5, core.NewVec3(255, 240, 220)))

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewSingleSphereScene creates one red sphere in front of the default camera
// and a single light above and behind the viewer.
func NewSingleSphereScene(width, height int) (*Scene, error) {
	config := renderer.DefaultCameraConfig()
	if width > 0 {
		config.Width = width
	}
	if height > 0 {
		config.Height = height
	}

	camera, err := renderer.NewCamera(config)
	if err != nil {
		return nil, err
	}
	s := NewScene(camera)
	s.AddPrimitive(geometry.NewSphere(core.NewVec3(0, 0, 2), 1.5, material.New(core.NewVec3(255, 0, 0))))
	s.AddLight(lights.NewPointLight(core.NewVec3(5, 5, -10), 10, core.NewVec3(255, 255, 255)))

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
