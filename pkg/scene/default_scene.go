package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// Default scene dimensions. The spheres are laid out in screen units so the
// whole arrangement fits a 640x480 image.
const (
	DefaultSceneWidth  = 640
	DefaultSceneHeight = 480
)

// NewDefaultScene creates six spheres viewed through a pinhole camera, with
// two white point lights. Width and height fall back to the default size when zero.
func NewDefaultScene(width, height int) (*Scene, error) {
	if width == 0 {
		width = DefaultSceneWidth
	}
	if height == 0 {
		height = DefaultSceneHeight
	}

	camera, err := renderer.NewPinholeCamera(core.NewVec3(200, 200, -400), width, height)
	if err != nil {
		return nil, err
	}
	s := NewScene(camera)

	red := material.New(core.NewVec3(255, 0, 0)).WithSpecular(0.2)
	blue := material.New(core.NewVec3(0, 0, 255)).WithSpecular(0.8)
	green := material.New(core.NewVec3(0, 255, 0))
	yellow := material.New(core.NewVec3(255, 255, 0)).WithSpecular(0.8)
	magenta := material.New(core.NewVec3(255, 0, 255))
	white := material.New(core.NewVec3(255, 255, 255)).WithLambert(0.5)

	s.AddPrimitive(geometry.NewSphere(core.NewVec3(150, 120, -20), 80, red))
	s.AddPrimitive(geometry.NewSphere(core.NewVec3(420, 120, 0), 100, blue))
	s.AddPrimitive(geometry.NewSphere(core.NewVec3(320, 240, -40), 50, green))
	s.AddPrimitive(geometry.NewSphere(core.NewVec3(300, 200, 200), 100, yellow))
	s.AddPrimitive(geometry.NewSphere(core.NewVec3(300, 130, 100), 40, magenta))
	s.AddPrimitive(geometry.NewSphere(core.NewVec3(300, 1000, 0), 700, white)) // floor

	s.AddLight(lights.NewWhiteLight(core.NewVec3(200, -100, 0)))
	s.AddLight(lights.NewWhiteLight(core.NewVec3(600, 200, -200)))

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
