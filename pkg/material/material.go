package material

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Default coefficients applied by New
const (
	DefaultSpecular = 0.5
	DefaultLambert  = 1.0
	DefaultAmbient  = 0.2
)

// Material describes how a surface responds to light.
// Color is on the 0-255 scale; the coefficients weight the ambient,
// diffuse (Lambertian) and mirror-reflection terms.
type Material struct {
	Color    core.Vec3 `json:"color"`
	Specular float64   `json:"specular"` // reflected ray weight, [0,1]
	Lambert  float64   `json:"lambert"`  // diffuse weight, >= 0
	Ambient  float64   `json:"ambient"`  // constant base light, [0,1]
}

// New creates a material with the default coefficients
func New(color core.Vec3) Material {
	return Material{
		Color:    color,
		Specular: DefaultSpecular,
		Lambert:  DefaultLambert,
		Ambient:  DefaultAmbient,
	}
}

// WithSpecular returns a copy with a different specular coefficient
func (m Material) WithSpecular(specular float64) Material {
	m.Specular = specular
	return m
}

// WithLambert returns a copy with a different Lambertian coefficient
func (m Material) WithLambert(lambert float64) Material {
	m.Lambert = lambert
	return m
}

// WithAmbient returns a copy with a different ambient coefficient
func (m Material) WithAmbient(ambient float64) Material {
	m.Ambient = ambient
	return m
}

// Validate checks that every coefficient lies in its allowed range
func (m Material) Validate() error {
	var errs []error
	if m.Specular < 0 || m.Specular > 1 {
		errs = append(errs, fmt.Errorf("specular %g outside [0,1]", m.Specular))
	}
	if m.Lambert < 0 {
		errs = append(errs, fmt.Errorf("lambert %g is negative", m.Lambert))
	}
	if m.Ambient < 0 || m.Ambient > 1 {
		errs = append(errs, fmt.Errorf("ambient %g outside [0,1]", m.Ambient))
	}
	return errors.Join(errs...)
}
