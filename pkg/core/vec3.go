package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrZeroLength is returned when a zero-length vector is normalized
var ErrZeroLength = errors.New("core: cannot normalize zero-length vector")

// Vec3 represents a 3D vector, point or color.
// Colors use a 0-255 scale per channel and are only clamped on output.
type Vec3 struct {
	X, Y, Z float64
}

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Common vectors
var (
	Zero = Vec3{}
	One  = Vec3{1, 1, 1}
	Up   = Vec3{0, 1, 0}
)

// Add returns the sum of two vectors
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Subtract returns the difference of two vectors
func (v Vec3) Subtract(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Multiply returns the vector scaled by a scalar
func (v Vec3) Multiply(scalar float64) Vec3 {
	return Vec3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

// Negate returns the negative of the vector
func (v Vec3) Negate() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Dot returns the dot product of two vectors
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product of two vectors
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Length returns the magnitude of the vector
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// LengthSquared returns the squared magnitude of the vector
func (v Vec3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Normalize returns a unit vector in the same direction.
// A zero-length vector yields ErrZeroLength instead of NaN components.
func (v Vec3) Normalize() (Vec3, error) {
	length := v.Length()
	if length == 0 || math.IsNaN(length) {
		return Vec3{}, ErrZeroLength
	}
	return Vec3{v.X / length, v.Y / length, v.Z / length}, nil
}

// Reflect mirrors v about the normal n: v - 2(v·n)n.
// n must already be unit length.
func (v Vec3) Reflect(n Vec3) Vec3 {
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// Clamp returns a vector with components clamped to [min, max]
func (v Vec3) Clamp(minVal, maxVal float64) Vec3 {
	return Vec3{
		X: max(minVal, min(maxVal, v.X)),
		Y: max(minVal, min(maxVal, v.Y)),
		Z: max(minVal, min(maxVal, v.Z)),
	}
}

// ApproxEqual reports whether every component differs by at most tolerance
func (v Vec3) ApproxEqual(other Vec3, tolerance float64) bool {
	return math.Abs(v.X-other.X) <= tolerance &&
		math.Abs(v.Y-other.Y) <= tolerance &&
		math.Abs(v.Z-other.Z) <= tolerance
}

func (v Vec3) String() string {
	return fmt.Sprintf("Vec3(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}

// MarshalJSON encodes the vector as [x, y, z]
func (v Vec3) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{v.X, v.Y, v.Z})
}

// UnmarshalJSON decodes a vector from [x, y, z]
func (v *Vec3) UnmarshalJSON(data []byte) error {
	var xyz []float64
	if err := json.Unmarshal(data, &xyz); err != nil {
		return fmt.Errorf("vector must be an array of 3 numbers: %w", err)
	}
	if len(xyz) != 3 {
		return fmt.Errorf("vector must have 3 components, got %d", len(xyz))
	}
	*v = Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	return nil
}
