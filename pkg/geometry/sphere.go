package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

func (s *Sphere) primitive() {}

// Intersect tests if a ray intersects with the sphere.
// Only the nearer root is considered, so rays starting inside the sphere miss.
func (s *Sphere) Intersect(ray core.Ray) (float64, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Direction is unit length, so the quadratic is t² + bt + c = 0
	b := 2 * ray.Direction.Dot(oc)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := b*b - 4*c
	if discriminant < 0 {
		return 0, false
	}

	// A zero discriminant (tangent ray) still yields a single valid root
	t := (-b - math.Sqrt(discriminant)) / 2
	if t <= 0 {
		return 0, false
	}
	return t, true
}

// SurfaceNormal returns the outward normal at point
func (s *Sphere) SurfaceNormal(point core.Vec3) (core.Vec3, error) {
	n, err := point.Subtract(s.Center).Normalize()
	if err != nil {
		return core.Vec3{}, fmt.Errorf("sphere normal at center %v: %w", s.Center, err)
	}
	return n, nil
}

// GetMaterial returns the sphere material
func (s *Sphere) GetMaterial() material.Material {
	return s.Material
}

// Validate rejects non-positive radii and invalid materials
func (s *Sphere) Validate() error {
	var errs []error
	if !(s.Radius > 0) {
		errs = append(errs, fmt.Errorf("sphere radius %g must be positive", s.Radius))
	}
	if err := s.Material.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("sphere material: %w", err))
	}
	return errors.Join(errs...)
}
