package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Primitive is a renderable shape. The set of implementations is closed to
// this package (Sphere, Plane); new shapes are added here as new variants.
type Primitive interface {
	// Intersect returns the distance along the ray to the nearest hit in front of the origin
	Intersect(ray core.Ray) (float64, bool)
	// SurfaceNormal returns the unit normal at a point on the surface
	SurfaceNormal(point core.Vec3) (core.Vec3, error)
	// GetMaterial returns the surface material
	GetMaterial() material.Material
	// Validate reports malformed geometry or material values
	Validate() error

	primitive()
}
