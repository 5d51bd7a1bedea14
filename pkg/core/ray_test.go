package core

import (
	"errors"
	"math"
	"testing"
)

func TestNewRay_NormalizesDirection(t *testing.T) {
	ray, err := NewRay(NewVec3(1, 1, 1), NewVec3(0, 0, 10))
	if err != nil {
		t.Fatal(err)
	}
	if ray.Direction != NewVec3(0, 0, 1) {
		t.Errorf("Expected direction (0,0,1), got %v", ray.Direction)
	}
	if math.Abs(ray.Direction.Length()-1) > 1e-12 {
		t.Errorf("Expected unit direction, got length %f", ray.Direction.Length())
	}
}

func TestNewRay_ZeroDirection(t *testing.T) {
	_, err := NewRay(NewVec3(1, 2, 3), Zero)
	if !errors.Is(err, ErrZeroLength) {
		t.Errorf("Expected ErrZeroLength, got %v", err)
	}
}

func TestRay_At(t *testing.T) {
	ray, err := NewRay(NewVec3(1, 2, 3), NewVec3(0, 3, 4))
	if err != nil {
		t.Fatal(err)
	}
	got := ray.At(5)
	expected := NewVec3(1, 5, 7)
	if !got.ApproxEqual(expected, 1e-12) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
	if ray.At(0) != ray.Origin {
		t.Errorf("Expected At(0) to be the origin, got %v", ray.At(0))
	}
}

func TestPixelGrid_SetAt(t *testing.T) {
	grid := NewPixelGrid(3, 2)
	if len(grid.Pixels) != 6 {
		t.Fatalf("Expected 6 pixels, got %d", len(grid.Pixels))
	}
	grid.Set(2, 1, NewVec3(1, 2, 3))
	if grid.At(2, 1) != NewVec3(1, 2, 3) {
		t.Errorf("Expected (1,2,3), got %v", grid.At(2, 1))
	}
	if grid.Pixels[5] != NewVec3(1, 2, 3) {
		t.Errorf("Expected row-major storage, got %v", grid.Pixels)
	}
	if grid.At(0, 0) != Zero {
		t.Errorf("Expected black default, got %v", grid.At(0, 0))
	}
}
