package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Camera maps output pixels to primary rays.
// Pixel (0, 0) is the top-left corner of the image.
type Camera interface {
	Resolution() (width, height int)
	RayAt(x, y int) (core.Ray, error)
}

// viewportDistance is the distance from the camera to the virtual image plane
const viewportDistance = 1.0

// CameraConfig contains all camera configuration parameters
type CameraConfig struct {
	FOV      float64   `json:"fov"`      // Horizontal field of view in degrees
	Width    int       `json:"width"`    // Image width in pixels
	Height   int       `json:"height"`   // Image height in pixels
	Position core.Vec3 `json:"position"` // Camera position
	Target   core.Vec3 `json:"target"`   // Point the camera looks at
	Roll     core.Vec3 `json:"roll"`     // Reference "up" vector
}

// DefaultCameraConfig returns a 1280x720, 90 degree camera at (0,0,-5) looking at the origin
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		FOV:      90,
		Width:    1280,
		Height:   720,
		Position: core.NewVec3(0, 0, -5),
		Target:   core.Zero,
		Roll:     core.Up,
	}
}

// Validate rejects resolutions and fields of view that cannot form a viewport
func (c CameraConfig) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("resolution %dx%d must be positive", c.Width, c.Height))
	}
	if !(c.FOV > 0 && c.FOV < 180) {
		errs = append(errs, fmt.Errorf("field of view %g must be in (0, 180) degrees", c.FOV))
	}
	return errors.Join(errs...)
}

// RollFromDegrees converts a roll angle into the reference up vector (cos, sin, 0).
// 90 degrees is the conventional +Y up.
func RollFromDegrees(degrees float64) core.Vec3 {
	rad := degrees * math.Pi / 180
	return core.NewVec3(math.Cos(rad), math.Sin(rad), 0)
}

// ViewportCamera is a look-at camera with a flat image plane one unit in front of it.
// It is immutable: the With* methods return a rebuilt camera so the viewport
// corners always match the configuration.
type ViewportCamera struct {
	config CameraConfig

	forward core.Vec3
	right   core.Vec3
	up      core.Vec3

	// World-space corners of the image plane
	lowerLeft  core.Vec3
	upperLeft  core.Vec3
	lowerRight core.Vec3
	upperRight core.Vec3
}

// NewCamera builds the camera basis and viewport from config
func NewCamera(config CameraConfig) (*ViewportCamera, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid camera: %w", err)
	}

	forward, err := config.Target.Subtract(config.Position).Normalize()
	if err != nil {
		return nil, fmt.Errorf("camera target coincides with position: %w", err)
	}
	right, err := config.Roll.Cross(forward).Normalize()
	if err != nil {
		return nil, fmt.Errorf("camera roll %v is parallel to view direction: %w", config.Roll, err)
	}
	up := forward.Cross(right)

	halfWidth := viewportDistance * math.Tan(config.FOV*math.Pi/180/2)
	halfHeight := halfWidth * float64(config.Height) / float64(config.Width)

	center := config.Position.Add(forward.Multiply(viewportDistance))
	dx := right.Multiply(halfWidth)
	dy := up.Multiply(halfHeight)

	return &ViewportCamera{
		config:     config,
		forward:    forward,
		right:      right,
		up:         up,
		lowerLeft:  center.Subtract(dx).Subtract(dy),
		upperLeft:  center.Subtract(dx).Add(dy),
		lowerRight: center.Add(dx).Subtract(dy),
		upperRight: center.Add(dx).Add(dy),
	}, nil
}

// Config returns the configuration the camera was built from
func (c *ViewportCamera) Config() CameraConfig {
	return c.config
}

// Resolution returns the image size in pixels
func (c *ViewportCamera) Resolution() (int, int) {
	return c.config.Width, c.config.Height
}

// Basis returns the orthonormal forward, right and up vectors
func (c *ViewportCamera) Basis() (forward, right, up core.Vec3) {
	return c.forward, c.right, c.up
}

// WithPosition returns a camera moved to position
func (c *ViewportCamera) WithPosition(position core.Vec3) (*ViewportCamera, error) {
	config := c.config
	config.Position = position
	return NewCamera(config)
}

// WithTarget returns a camera looking at target
func (c *ViewportCamera) WithTarget(target core.Vec3) (*ViewportCamera, error) {
	config := c.config
	config.Target = target
	return NewCamera(config)
}

// WithRoll returns a camera with a new reference up vector
func (c *ViewportCamera) WithRoll(roll core.Vec3) (*ViewportCamera, error) {
	config := c.config
	config.Roll = roll
	return NewCamera(config)
}

// WithRollDegrees returns a camera rolled to the given angle
func (c *ViewportCamera) WithRollDegrees(degrees float64) (*ViewportCamera, error) {
	return c.WithRoll(RollFromDegrees(degrees))
}

// RayDirection bilinearly interpolates the viewport corners at image-plane
// coordinates (i, j), with j measured from the bottom edge, and returns the
// direction from the camera position.
func (c *ViewportCamera) RayDirection(i, j float64) core.Vec3 {
	u := i / float64(c.config.Width)
	v := j / float64(c.config.Height)

	left := c.lowerLeft.Multiply(1 - v).Add(c.upperLeft.Multiply(v))
	right := c.lowerRight.Multiply(1 - v).Add(c.upperRight.Multiply(v))
	p := left.Multiply(1 - u).Add(right.Multiply(u))

	return p.Subtract(c.config.Position)
}

// RayAt returns the primary ray through the center of pixel (x, y)
func (c *ViewportCamera) RayAt(x, y int) (core.Ray, error) {
	i := float64(x) + 0.5
	j := float64(c.config.Height-y) - 0.5
	return core.NewRay(c.config.Position, c.RayDirection(i, j))
}

// PinholeCamera is a fixed eye looking through the z = 0 plane, where pixel
// (x, y) sits at world point (x, y, 0). World y grows with the image row.
type PinholeCamera struct {
	Eye    core.Vec3
	Width  int
	Height int
}

// NewPinholeCamera creates a pinhole camera
func NewPinholeCamera(eye core.Vec3, width, height int) (*PinholeCamera, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid camera: resolution %dx%d must be positive", width, height)
	}
	if eye.Z == 0 {
		return nil, fmt.Errorf("invalid camera: eye %v lies on the screen plane", eye)
	}
	return &PinholeCamera{Eye: eye, Width: width, Height: height}, nil
}

// Resolution returns the image size in pixels
func (c *PinholeCamera) Resolution() (int, int) {
	return c.Width, c.Height
}

// RayAt returns the ray from the eye through screen point (x, y, 0)
func (c *PinholeCamera) RayAt(x, y int) (core.Ray, error) {
	return core.NewRay(c.Eye, core.NewVec3(float64(x), float64(y), 0).Subtract(c.Eye))
}
