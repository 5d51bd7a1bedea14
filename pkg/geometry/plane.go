package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// ParallelEpsilon is the smallest |D·N| for which a ray is not treated as parallel to a plane
const ParallelEpsilon = 1e-6

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point    core.Vec3 // A point on the plane
	Normal   core.Vec3 // Unit normal
	Material material.Material
}

// NewPlane creates a new plane, normalizing the normal.
// A zero normal is rejected.
func NewPlane(point, normal core.Vec3, mat material.Material) (*Plane, error) {
	n, err := normal.Normalize()
	if err != nil {
		return nil, fmt.Errorf("plane normal: %w", err)
	}
	return &Plane{
		Point:    point,
		Normal:   n,
		Material: mat,
	}, nil
}

func (p *Plane) primitive() {}

// Intersect tests if a ray intersects with the plane
func (p *Plane) Intersect(ray core.Ray) (float64, bool) {
	denominator := ray.Direction.Dot(p.Normal)

	// Ray is parallel to the plane
	if math.Abs(denominator) < ParallelEpsilon {
		return 0, false
	}

	// t = (point_on_plane - ray_origin) · normal / (ray_direction · normal)
	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if t < 0 {
		return 0, false
	}
	return t, true
}

// SurfaceNormal returns the plane normal, which is the same everywhere
func (p *Plane) SurfaceNormal(core.Vec3) (core.Vec3, error) {
	return p.Normal, nil
}

// GetMaterial returns the plane material
func (p *Plane) GetMaterial() material.Material {
	return p.Material
}

// Validate checks the material and that the stored normal is unit length
func (p *Plane) Validate() error {
	if math.Abs(p.Normal.Length()-1) > 1e-9 {
		return fmt.Errorf("plane normal %v is not unit length", p.Normal)
	}
	if err := p.Material.Validate(); err != nil {
		return fmt.Errorf("plane material: %w", err)
	}
	return nil
}
