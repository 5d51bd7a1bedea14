package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestNewPlane_NormalizesNormal(t *testing.T) {
	plane, err := NewPlane(core.Zero, core.NewVec3(0, 5, 0), testMaterial())
	if err != nil {
		t.Fatal(err)
	}
	if plane.Normal != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected normal (0,1,0), got %v", plane.Normal)
	}
	if err := plane.Validate(); err != nil {
		t.Errorf("Expected valid plane, got %v", err)
	}
}

func TestNewPlane_ZeroNormal(t *testing.T) {
	_, err := NewPlane(core.Zero, core.Zero, testMaterial())
	if !errors.Is(err, core.ErrZeroLength) {
		t.Errorf("Expected ErrZeroLength, got %v", err)
	}
}

func TestPlane_Intersect(t *testing.T) {
	// Horizontal plane at y=0
	plane, err := NewPlane(core.Zero, core.NewVec3(0, 1, 0), testMaterial())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		origin    core.Vec3
		direction core.Vec3
		expectHit bool
		expectedT float64
	}{
		{"straight down", core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0), true, 1},
		{"from below", core.NewVec3(0, -2, 0), core.NewVec3(0, 1, 0), true, 2},
		{"oblique", core.NewVec3(0, 1, 0), core.NewVec3(1, -1, 0), true, math.Sqrt2},
		{"parallel", core.NewVec3(0, 1, 0), core.NewVec3(1, 0, 0), false, 0},
		{"nearly parallel", core.NewVec3(0, 1, 0), core.NewVec3(1, -1e-8, 0), false, 0},
		{"behind origin", core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, hit := plane.Intersect(mustRay(t, tt.origin, tt.direction))
			if hit != tt.expectHit {
				t.Fatalf("Expected hit=%t, got hit=%t (t=%f)", tt.expectHit, hit, dist)
			}
			if hit && math.Abs(dist-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, dist)
			}
		})
	}
}

func TestPlane_SurfaceNormalIndependentOfPoint(t *testing.T) {
	plane, err := NewPlane(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1), testMaterial())
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []core.Vec3{core.Zero, core.NewVec3(100, -4, 10), core.NewVec3(-3, 3, 3)} {
		n, err := plane.SurfaceNormal(p)
		if err != nil {
			t.Fatal(err)
		}
		if n != core.NewVec3(0, 0, -1) {
			t.Errorf("Expected normal (0,0,-1) at %v, got %v", p, n)
		}
	}
}

func TestPlane_ValidateRejectsUnnormalized(t *testing.T) {
	plane := &Plane{Point: core.Zero, Normal: core.NewVec3(0, 2, 0), Material: testMaterial()}
	if err := plane.Validate(); err == nil {
		t.Error("Expected error for non-unit normal")
	}
}
