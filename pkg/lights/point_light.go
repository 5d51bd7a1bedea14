package lights

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// PointLight is an infinitesimal light source at a fixed position
type PointLight struct {
	Position  core.Vec3
	Intensity float64
	Color     core.Vec3
}

// NewPointLight creates a point light
func NewPointLight(position core.Vec3, intensity float64, color core.Vec3) *PointLight {
	return &PointLight{
		Position:  position,
		Intensity: intensity,
		Color:     color,
	}
}

// NewWhiteLight creates a unit-intensity white point light
func NewWhiteLight(position core.Vec3) *PointLight {
	return NewPointLight(position, 1, core.NewVec3(255, 255, 255))
}

// DirectionFrom returns the unit direction and distance from point to the light.
// It fails when the point coincides with the light.
func (l *PointLight) DirectionFrom(point core.Vec3) (core.Vec3, float64, error) {
	toLight := l.Position.Subtract(point)
	dir, err := toLight.Normalize()
	if err != nil {
		return core.Vec3{}, 0, fmt.Errorf("point %v coincides with light: %w", point, err)
	}
	return dir, toLight.Length(), nil
}

// Validate rejects negative intensities
func (l *PointLight) Validate() error {
	if l.Intensity < 0 {
		return fmt.Errorf("light intensity %g is negative", l.Intensity)
	}
	return nil
}
