package math

import (
	m "math"
)

/** @brief Smallest positive number where 1.0 + FLOAT_EPSILON != 0 */
const K_FLOAT_EPSILON float32 = 1.192092896e-07

func kabs(x float32) float32 {
	return float32(m.Abs(float64(x)))
}

// within reports whether every pair of components differs by at most tolerance.
func within(tolerance float32, pairs ...[2]float32) bool {
	for _, p := range pairs {
		if kabs(p[0]-p[1]) > tolerance {
			return false
		}
	}
	return true
}

// NewVec2 creates a new 2-element vector using the supplied values.
func NewVec2(x, y float32) Vec2 {
	return Vec2{x, y}
}

// Compare reports whether both components are within tolerance of other's.
func (v Vec2) Compare(other Vec2, tolerance float32) bool {
	return within(tolerance, [2]float32{v.X, other.X}, [2]float32{v.Y, other.Y})
}

/**
 * @brief Creates and returns a new 3-element vector using the supplied values.
 */
func NewVec3(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

/**
 * @brief Returns a new vec4 using vector as the x, y and z components and w for w.
 *
 * @param w The w component.
 * @return A new vec4
 */
func (v Vec3) ToVec4(w float32) Vec4 {
	return Vec4{v.X, v.Y, v.Z, w}
}

/**
 * @brief Returns the length of the provided vector.
 */
func (v Vec3) Length() float32 {
	return float32(m.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

/**
 * @brief Returns a normalized copy of the supplied vector. Vectors shorter
 * than K_FLOAT_EPSILON are degenerate and yield the zero vector.
 */
func (v Vec3) Normalized() Vec3 {
	length := v.Length()
	if length < K_FLOAT_EPSILON {
		return Vec3{}
	}
	return Vec3{v.X / length, v.Y / length, v.Z / length}
}

/**
 * @brief Returns a copy of the vector with the given axis negated. Used to
 * switch between right- and left-handed coordinate systems.
 *
 * @param axis The axis to negate.
 * @return The flipped vector.
 */
func (v Vec3) Flip(axis Axis) Vec3 {
	switch axis {
	case AxisX:
		v.X = -v.X
	case AxisY:
		v.Y = -v.Y
	default:
		v.Z = -v.Z
	}
	return v
}

/**
 * @brief Compares all elements of the two vectors and ensures the difference
 * is less than tolerance.
 *
 * @param tolerance The difference tolerance. Typically K_FLOAT_EPSILON or similar.
 * @return True if within tolerance; otherwise false.
 */
func (v Vec3) Compare(other Vec3, tolerance float32) bool {
	return within(tolerance, [2]float32{v.X, other.X}, [2]float32{v.Y, other.Y}, [2]float32{v.Z, other.Z})
}

/**
 * @brief Creates and returns a new 4-element vector using the supplied values.
 */
func NewVec4(x, y, z, w float32) Vec4 {
	return Vec4{x, y, z, w}
}
