package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// Camera and primitive type tags
const (
	CameraViewport = "viewport"
	CameraPinhole  = "pinhole"

	PrimitiveSphere = "sphere"
	PrimitivePlane  = "plane"
)

// Description is the declarative input a scene is built from
type Description struct {
	Name       string          `json:"name,omitempty"`
	Summary    string          `json:"description,omitempty"`
	Group      string          `json:"group,omitempty"`
	Camera     CameraDesc      `json:"camera"`
	Primitives []PrimitiveDesc `json:"primitives"`
	Lights     []LightDesc     `json:"lights"`
	MaxDepth   int             `json:"maxDepth,omitempty"`
}

// CameraDesc describes either a viewport camera or a pinhole camera.
// A pinhole camera uses Position as its eye and ignores the other view fields.
type CameraDesc struct {
	Type        string     `json:"type,omitempty"` // "viewport" (default) or "pinhole"
	FOV         float64    `json:"fov,omitempty"`  // degrees, default 90
	Width       int        `json:"width"`
	Height      int        `json:"height"`
	Position    core.Vec3  `json:"position"`
	Target      core.Vec3  `json:"target"`
	Roll        *core.Vec3 `json:"roll,omitempty"`        // up reference, default +Y
	RollDegrees *float64   `json:"rollDegrees,omitempty"` // alternative to Roll
}

// MaterialDesc describes a material; omitted coefficients take the material defaults
type MaterialDesc struct {
	Color    core.Vec3 `json:"color"`
	Specular *float64  `json:"specular,omitempty"`
	Lambert  *float64  `json:"lambert,omitempty"`
	Ambient  *float64  `json:"ambient,omitempty"`
}

// PrimitiveDesc describes one primitive, selected by Type
type PrimitiveDesc struct {
	Type     string       `json:"type"`
	Center   *core.Vec3   `json:"center,omitempty"` // sphere, default origin
	Radius   float64      `json:"radius,omitempty"` // sphere
	Point    *core.Vec3   `json:"point,omitempty"`  // plane, default origin
	Normal   *core.Vec3   `json:"normal,omitempty"` // plane, required
	Material MaterialDesc `json:"material"`
}

// LightDesc describes a point light; intensity defaults to 1 and color to white
type LightDesc struct {
	Position  core.Vec3  `json:"position"`
	Intensity *float64   `json:"intensity,omitempty"`
	Color     *core.Vec3 `json:"color,omitempty"`
}

// Material converts the description, filling in defaults
func (d MaterialDesc) Material() material.Material {
	m := material.New(d.Color)
	if d.Specular != nil {
		m.Specular = *d.Specular
	}
	if d.Lambert != nil {
		m.Lambert = *d.Lambert
	}
	if d.Ambient != nil {
		m.Ambient = *d.Ambient
	}
	return m
}

// Build validates the description and constructs the scene.
// All problems are reported together, wrapped in ErrInvalidScene.
func Build(desc Description) (*Scene, error) {
	var errs []error

	camera, err := desc.Camera.build()
	if err != nil {
		errs = append(errs, err)
	}

	if desc.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("max depth %d is negative", desc.MaxDepth))
	}

	s := &Scene{
		Name:     desc.Name,
		Summary:  desc.Summary,
		Group:    desc.Group,
		Camera:   camera,
		MaxDepth: desc.MaxDepth,
	}
	for i, pd := range desc.Primitives {
		prim, err := pd.build()
		if err == nil {
			err = prim.Validate()
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("primitive %d: %w", i, err))
			continue
		}
		s.AddPrimitive(prim)
	}
	for i, ld := range desc.Lights {
		light := ld.build()
		if err := light.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("light %d: %w", i, err))
			continue
		}
		s.AddLight(light)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScene, errors.Join(errs...))
	}
	return s, nil
}

func (d CameraDesc) build() (renderer.Camera, error) {
	switch d.Type {
	case "", CameraViewport:
		config := renderer.CameraConfig{
			FOV:      d.FOV,
			Width:    d.Width,
			Height:   d.Height,
			Position: d.Position,
			Target:   d.Target,
			Roll:     core.Up,
		}
		if config.FOV == 0 {
			config.FOV = renderer.DefaultCameraConfig().FOV
		}
		if d.Roll != nil && d.RollDegrees != nil {
			return nil, errors.New("camera: roll and rollDegrees are mutually exclusive")
		}
		if d.Roll != nil {
			config.Roll = *d.Roll
		}
		if d.RollDegrees != nil {
			config.Roll = renderer.RollFromDegrees(*d.RollDegrees)
		}
		camera, err := renderer.NewCamera(config)
		if err != nil {
			return nil, fmt.Errorf("camera: %w", err)
		}
		return camera, nil
	case CameraPinhole:
		camera, err := renderer.NewPinholeCamera(d.Position, d.Width, d.Height)
		if err != nil {
			return nil, fmt.Errorf("camera: %w", err)
		}
		return camera, nil
	default:
		return nil, fmt.Errorf("camera: unknown type %q", d.Type)
	}
}

func (d PrimitiveDesc) build() (geometry.Primitive, error) {
	mat := d.Material.Material()
	switch d.Type {
	case PrimitiveSphere:
		return geometry.NewSphere(vecOrZero(d.Center), d.Radius, mat), nil
	case PrimitivePlane:
		if d.Normal == nil {
			return nil, errors.New("plane normal is required")
		}
		return geometry.NewPlane(vecOrZero(d.Point), *d.Normal, mat)
	default:
		return nil, fmt.Errorf("unknown type %q", d.Type)
	}
}

func vecOrZero(v *core.Vec3) core.Vec3 {
	if v == nil {
		return core.Zero
	}
	return *v
}

func (d LightDesc) build() *lights.PointLight {
	light := lights.NewWhiteLight(d.Position)
	if d.Intensity != nil {
		light.Intensity = *d.Intensity
	}
	if d.Color != nil {
		light.Color = *d.Color
	}
	return light
}

// Describe converts a scene back into a description. Only scenes built from
// the camera and primitive types of this package can be described.
func Describe(s *Scene) (Description, error) {
	desc := Description{
		Name:     s.Name,
		Summary:  s.Summary,
		Group:    s.Group,
		MaxDepth: s.MaxDepth,
	}

	switch c := s.Camera.(type) {
	case *renderer.ViewportCamera:
		config := c.Config()
		roll := config.Roll
		desc.Camera = CameraDesc{
			Type:     CameraViewport,
			FOV:      config.FOV,
			Width:    config.Width,
			Height:   config.Height,
			Position: config.Position,
			Target:   config.Target,
			Roll:     &roll,
		}
	case *renderer.PinholeCamera:
		desc.Camera = CameraDesc{Type: CameraPinhole, Width: c.Width, Height: c.Height, Position: c.Eye}
	default:
		return Description{}, fmt.Errorf("cannot describe camera of type %T", s.Camera)
	}

	for _, p := range s.Primitives {
		mat := p.GetMaterial()
		md := MaterialDesc{Color: mat.Color, Specular: &mat.Specular, Lambert: &mat.Lambert, Ambient: &mat.Ambient}
		switch prim := p.(type) {
		case *geometry.Sphere:
			center := prim.Center
			desc.Primitives = append(desc.Primitives, PrimitiveDesc{Type: PrimitiveSphere, Center: &center, Radius: prim.Radius, Material: md})
		case *geometry.Plane:
			point, normal := prim.Point, prim.Normal
			desc.Primitives = append(desc.Primitives, PrimitiveDesc{Type: PrimitivePlane, Point: &point, Normal: &normal, Material: md})
		}
	}

	for _, l := range s.Lights {
		intensity, color := l.Intensity, l.Color
		desc.Lights = append(desc.Lights, LightDesc{Position: l.Position, Intensity: &intensity, Color: &color})
	}

	return desc, nil
}
