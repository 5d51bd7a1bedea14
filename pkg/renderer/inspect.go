package renderer

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// LightSample describes what one light contributes at an inspected point
type LightSample struct {
	Index     int
	Distance  float64
	Occluded  bool
	Intensity float64 // n·L, before clamping to zero
}

// Inspection describes the first surface seen through a pixel
type Inspection struct {
	Hit       bool
	Primitive geometry.Primitive
	Ray       core.Ray
	Point     core.Vec3
	Normal    core.Vec3
	Distance  float64
	Lights    []LightSample
	Color     core.Vec3 // full traced color of the pixel
}

// InspectPixel traces the primary ray of pixel (x, y) and reports the hit
// surface, per-light shadow results and the final color
func (rt *Raytracer) InspectPixel(x, y int) (Inspection, error) {
	width, height := rt.camera.Resolution()
	if x < 0 || x >= width || y < 0 || y >= height {
		return Inspection{}, fmt.Errorf("pixel (%d, %d) outside %dx%d image", x, y, width, height)
	}

	ray, err := rt.camera.RayAt(x, y)
	if err != nil {
		return Inspection{}, fmt.Errorf("pixel (%d, %d): camera ray: %w", x, y, err)
	}
	color, err := rt.RenderPixel(x, y)
	if err != nil {
		return Inspection{}, err
	}

	info := Inspection{Ray: ray, Color: color}
	prim, dist, isHit := rt.nearestHit(ray, nil)
	if !isHit {
		return info, nil
	}

	info.Hit = true
	info.Primitive = prim
	info.Distance = dist
	info.Point = ray.At(dist)
	if info.Normal, err = prim.SurfaceNormal(info.Point); err != nil {
		return Inspection{}, err
	}

	for i, light := range rt.lights {
		toLight, lightDistance, err := light.DirectionFrom(info.Point)
		if err != nil {
			return Inspection{}, err
		}
		info.Lights = append(info.Lights, LightSample{
			Index:     i,
			Distance:  lightDistance,
			Occluded:  rt.occluded(core.Ray{Origin: info.Point, Direction: toLight}, lightDistance, prim),
			Intensity: info.Normal.Dot(toLight),
		})
	}

	return info, nil
}
