package renderer

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestCamera_Basis(t *testing.T) {
	camera, err := NewCamera(DefaultCameraConfig())
	if err != nil {
		t.Fatal(err)
	}

	forward, right, up := camera.Basis()
	if !forward.ApproxEqual(core.NewVec3(0, 0, 1), 1e-12) {
		t.Errorf("Expected forward (0,0,1), got %v", forward)
	}
	if !right.ApproxEqual(core.NewVec3(1, 0, 0), 1e-12) {
		t.Errorf("Expected right (1,0,0), got %v", right)
	}
	if !up.ApproxEqual(core.NewVec3(0, 1, 0), 1e-12) {
		t.Errorf("Expected up (0,1,0), got %v", up)
	}
}

func TestCamera_BasisOrthonormal(t *testing.T) {
	config := DefaultCameraConfig()
	config.Position = core.NewVec3(3, -2, 7)
	config.Target = core.NewVec3(-1, 4, 0)
	config.Roll = core.NewVec3(0.3, 1, 0.1)
	camera, err := NewCamera(config)
	if err != nil {
		t.Fatal(err)
	}

	forward, right, up := camera.Basis()
	for name, v := range map[string]core.Vec3{"forward": forward, "right": right, "up": up} {
		if math.Abs(v.Length()-1) > 1e-9 {
			t.Errorf("Expected unit %s, got length %f", name, v.Length())
		}
	}
	if math.Abs(forward.Dot(right)) > 1e-9 || math.Abs(forward.Dot(up)) > 1e-9 || math.Abs(right.Dot(up)) > 1e-9 {
		t.Errorf("Basis is not orthogonal: %v %v %v", forward, right, up)
	}
}

func TestCamera_RayDirection(t *testing.T) {
	config := DefaultCameraConfig()
	config.Width = 200
	config.Height = 100
	camera, err := NewCamera(config)
	if err != nil {
		t.Fatal(err)
	}

	// 90 degree fov puts the viewport edges one unit left and right of center
	tests := []struct {
		name     string
		i, j     float64
		expected core.Vec3
	}{
		{"center", 100, 50, core.NewVec3(0, 0, 1)},
		{"right edge", 200, 50, core.NewVec3(1, 0, 1)},
		{"left edge", 0, 50, core.NewVec3(-1, 0, 1)},
		{"top edge", 100, 100, core.NewVec3(0, 0.5, 1)},
		{"lower left corner", 0, 0, core.NewVec3(-1, -0.5, 1)},
		{"upper right corner", 200, 100, core.NewVec3(1, 0.5, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := camera.RayDirection(tt.i, tt.j)
			if !got.ApproxEqual(tt.expected, 1e-9) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestCamera_RayAtTopLeftPixel(t *testing.T) {
	config := DefaultCameraConfig()
	config.Width = 4
	config.Height = 2
	camera, err := NewCamera(config)
	if err != nil {
		t.Fatal(err)
	}

	ray, err := camera.RayAt(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if ray.Origin != config.Position {
		t.Errorf("Expected origin %v, got %v", config.Position, ray.Origin)
	}
	if ray.Direction.X >= 0 || ray.Direction.Y <= 0 {
		t.Errorf("Expected top-left pixel to point up and left, got %v", ray.Direction)
	}
	if math.Abs(ray.Direction.Length()-1) > 1e-12 {
		t.Errorf("Expected unit direction, got %f", ray.Direction.Length())
	}
}

func TestCamera_WithRebuildsViewport(t *testing.T) {
	camera, err := NewCamera(DefaultCameraConfig())
	if err != nil {
		t.Fatal(err)
	}

	moved, err := camera.WithPosition(core.NewVec3(0, 0, 5))
	if err != nil {
		t.Fatal(err)
	}
	forward, _, _ := moved.Basis()
	if !forward.ApproxEqual(core.NewVec3(0, 0, -1), 1e-12) {
		t.Errorf("Expected moved camera to look down -Z, got %v", forward)
	}
	center := moved.RayDirection(640, 360)
	if !center.ApproxEqual(core.NewVec3(0, 0, -1), 1e-9) {
		t.Errorf("Expected center direction (0,0,-1), got %v", center)
	}

	// The original camera is unchanged
	forward, _, _ = camera.Basis()
	if !forward.ApproxEqual(core.NewVec3(0, 0, 1), 1e-12) {
		t.Errorf("Original camera changed: forward %v", forward)
	}

	retargeted, err := camera.WithTarget(core.NewVec3(5, 0, -5))
	if err != nil {
		t.Fatal(err)
	}
	forward, _, _ = retargeted.Basis()
	if !forward.ApproxEqual(core.NewVec3(1, 0, 0), 1e-12) {
		t.Errorf("Expected retargeted camera to look down +X, got %v", forward)
	}

	rolled, err := camera.WithRollDegrees(0)
	if err != nil {
		t.Fatal(err)
	}
	_, _, up := rolled.Basis()
	if !up.ApproxEqual(core.NewVec3(1, 0, 0), 1e-9) {
		t.Errorf("Expected rolled camera up (1,0,0), got %v", up)
	}
}

func TestRollFromDegrees(t *testing.T) {
	if got := RollFromDegrees(90); !got.ApproxEqual(core.Up, 1e-12) {
		t.Errorf("Expected 90 degrees to be +Y, got %v", got)
	}
	if got := RollFromDegrees(0); !got.ApproxEqual(core.NewVec3(1, 0, 0), 1e-12) {
		t.Errorf("Expected 0 degrees to be +X, got %v", got)
	}
}

func TestNewCamera_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*CameraConfig)
		zeroLen bool
	}{
		{"zero width", func(c *CameraConfig) { c.Width = 0 }, false},
		{"negative height", func(c *CameraConfig) { c.Height = -1 }, false},
		{"zero fov", func(c *CameraConfig) { c.FOV = 0 }, false},
		{"fov 180", func(c *CameraConfig) { c.FOV = 180 }, false},
		{"target at position", func(c *CameraConfig) { c.Target = c.Position }, true},
		{"roll parallel to view", func(c *CameraConfig) { c.Roll = core.NewVec3(0, 0, 1) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultCameraConfig()
			tt.modify(&config)
			camera, err := NewCamera(config)
			if err == nil {
				t.Fatalf("Expected error, got camera %+v", camera)
			}
			if tt.zeroLen && !errors.Is(err, core.ErrZeroLength) {
				t.Errorf("Expected ErrZeroLength, got %v", err)
			}
		})
	}
}

func TestPinholeCamera_RayAt(t *testing.T) {
	camera, err := NewPinholeCamera(core.NewVec3(150, 120, -400), 300, 240)
	if err != nil {
		t.Fatal(err)
	}

	ray, err := camera.RayAt(150, 120)
	if err != nil {
		t.Fatal(err)
	}
	if !ray.Direction.ApproxEqual(core.NewVec3(0, 0, 1), 1e-12) {
		t.Errorf("Expected direction (0,0,1), got %v", ray.Direction)
	}

	w, h := camera.Resolution()
	if w != 300 || h != 240 {
		t.Errorf("Expected 300x240, got %dx%d", w, h)
	}
}

func TestNewPinholeCamera_Invalid(t *testing.T) {
	if _, err := NewPinholeCamera(core.NewVec3(0, 0, -1), 0, 10); err == nil {
		t.Error("Expected error for zero width")
	}
	if _, err := NewPinholeCamera(core.NewVec3(0, 0, 0), 10, 10); err == nil {
		t.Error("Expected error for eye on the screen plane")
	}
}
